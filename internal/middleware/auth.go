package middleware

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/IoBuilders/payoutable-token/internal/auth"
	"github.com/IoBuilders/payoutable-token/internal/identity"
)

const callerLocal = "account_id"

// CallerAuth returns a middleware that validates bearer tokens and attributes
// the request to a caller account. Every protected entry point downstream
// reads the caller identity from the "account_id" local.
func CallerAuth(tokens *auth.Service, accounts *identity.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authz := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			return fiber.NewError(http.StatusUnauthorized, "missing bearer token")
		}
		tokenStr := strings.TrimSpace(authz[len("Bearer "):])
		accountID, err := tokens.Verify(tokenStr)
		if err != nil {
			return fiber.NewError(http.StatusUnauthorized, "invalid token")
		}

		if _, err := accounts.Get(c.UserContext(), accountID); err != nil {
			return fiber.NewError(http.StatusUnauthorized, "account not found")
		}

		c.Locals(callerLocal, accountID)
		return c.Next()
	}
}
