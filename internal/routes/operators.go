package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/IoBuilders/payoutable-token/internal/operators"
)

// RegisterOperatorRoutes wires the holder-facing operator registry endpoints.
// The authorization lookup is registered separately as a public route.
func RegisterOperatorRoutes(r fiber.Router, h *operators.Handler) {
	r.Post("/operators", h.Authorize)
	r.Delete("/operators/:operator", h.Revoke)
}
