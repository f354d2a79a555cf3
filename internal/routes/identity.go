package routes

import (
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/IoBuilders/payoutable-token/internal/identity"
)

// RegisterIdentityRoutes wires account registration. Registration provisions
// the account's ledger account, so a fresh account can receive issued supply
// immediately.
func RegisterIdentityRoutes(r fiber.Router, ids *identity.Service, logger *slog.Logger) {
	r.Post("/identity/register", func(c *fiber.Ctx) error {
		var req struct {
			Name   string `json:"name"`
			Secret string `json:"secret"`
		}
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}
		account, err := ids.Register(c.UserContext(), identity.Credentials{Name: req.Name, Secret: req.Secret})
		if err != nil {
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}
		if logger != nil {
			logger.Info("identity.register completed",
				slog.String("account_id", account.ID),
				slog.String("name", account.Name),
				slog.Int("status", http.StatusCreated),
			)
		}
		return c.Status(http.StatusCreated).JSON(fiber.Map{
			"account_id": account.ID,
			"name":       account.Name,
			"created_at": account.CreatedAt,
		})
	})
}
