package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/IoBuilders/payoutable-token/internal/payout"
)

// RegisterPayoutRoutes wires the payout order state machine endpoints. The two
// process/funds-in-suspense hooks are routed on purpose: they answer 501 for
// every caller in every state.
func RegisterPayoutRoutes(r fiber.Router, h *payout.Handler) {
	r.Post("/payouts", h.Order)
	r.Post("/payouts/from", h.OrderFrom)
	r.Get("/payouts/:operationId", h.Retrieve)
	r.Post("/payouts/:operationId/cancel", h.Cancel)
	r.Post("/payouts/:operationId/transfer-to-suspense", h.TransferToSuspense)
	r.Post("/payouts/:operationId/execute", h.Execute)
	r.Post("/payouts/:operationId/reject", h.Reject)
	r.Post("/payouts/:operationId/process", h.Process)
	r.Post("/payouts/:operationId/funds-in-suspense", h.PutFundsInSuspense)
}
