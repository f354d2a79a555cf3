package issuance

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/IoBuilders/payoutable-token/internal/ledger"
)

// Handler exposes issuance endpoints. Routes restrict these to the payout agent.
type Handler struct {
	service *Service
}

// NewHandler constructs an issuance handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type issueRequest struct {
	AccountID  string `json:"account_id"`
	Amount     int64  `json:"amount"`
	ClientTxID string `json:"client_tx_id"`
}

// Issue mints supply into an account.
func (h *Handler) Issue(c *fiber.Ctx) error {
	var req issueRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	res, err := h.service.Issue(c.UserContext(), IssueInput{
		AccountID:  req.AccountID,
		Amount:     req.Amount,
		ClientTxID: req.ClientTxID,
	})
	if err != nil {
		if errors.Is(err, ledger.ErrDuplicateTransaction) {
			return fiber.NewError(http.StatusConflict, "duplicate transaction")
		}
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"transaction_id":      res.TransactionID,
		"balance":             res.Balance,
		"custodian_reference": res.CustodianReference,
		"completed_at":        res.CompletedAt,
	})
}

// Redeem burns supply out of an account.
func (h *Handler) Redeem(c *fiber.Ctx) error {
	var req issueRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	res, err := h.service.Redeem(c.UserContext(), RedeemInput{
		AccountID:  req.AccountID,
		Amount:     req.Amount,
		ClientTxID: req.ClientTxID,
	})
	if err != nil {
		if errors.Is(err, ledger.ErrInsufficientFunds) {
			return fiber.NewError(http.StatusBadRequest, "insufficient funds")
		}
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"balance":             res.Balance,
		"custodian_reference": res.CustodianReference,
		"completed_at":        res.CompletedAt,
	})
}
