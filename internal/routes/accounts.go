package routes

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/IoBuilders/payoutable-token/internal/identity"
)

// RegisterAccountRoutes wires the caller's own account endpoints.
func RegisterAccountRoutes(r fiber.Router, ids *identity.Service) {
	r.Get("/accounts/me/balance", func(c *fiber.Ctx) error {
		accountID, _ := c.Locals("account_id").(string)
		balance, held, err := ids.Balance(c.UserContext(), accountID)
		if err != nil {
			return fiber.NewError(http.StatusNotFound, err.Error())
		}
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"account_id": accountID,
			"balance":    balance,
			"on_hold":    held,
			"timestamp":  time.Now().UTC(),
		})
	})
}
