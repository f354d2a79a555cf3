package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/IoBuilders/payoutable-token/internal/issuance"
)

// RegisterIssuanceRoutes wires supply management endpoints, restricted to the
// payout agent.
func RegisterIssuanceRoutes(r fiber.Router, h *issuance.Handler, agentOnly fiber.Handler) {
	group := r.Group("/issuance", agentOnly)
	group.Post("/issue", h.Issue)
	group.Post("/redeem", h.Redeem)
}
