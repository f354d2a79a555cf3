package payout

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes payout order endpoints. The caller identity is attributed by
// the auth middleware under the "account_id" local.
type Handler struct {
	service *Service
}

// NewHandler builds a payout HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type orderRequest struct {
	OperationID  string `json:"operation_id"`
	Value        int64  `json:"value"`
	Instructions string `json:"instructions"`
}

type orderFromRequest struct {
	OperationID   string `json:"operation_id"`
	WalletToDebit string `json:"wallet_to_debit"`
	Value         int64  `json:"value"`
	Instructions  string `json:"instructions"`
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

type orderResponse struct {
	OperationID   string    `json:"operation_id"`
	Orderer       string    `json:"orderer"`
	WalletToDebit string    `json:"wallet_to_debit"`
	Value         int64     `json:"value"`
	Instructions  string    `json:"instructions"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func toResponse(order Order) orderResponse {
	return orderResponse{
		OperationID:   order.OperationID,
		Orderer:       order.Orderer,
		WalletToDebit: order.WalletToDebit,
		Value:         order.Value,
		Instructions:  order.Instructions,
		Status:        string(order.Status),
		CreatedAt:     order.CreatedAt,
		UpdatedAt:     order.UpdatedAt,
	}
}

// Order places a payout order against the caller's own funds.
func (h *Handler) Order(c *fiber.Ctx) error {
	var req orderRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	caller, _ := c.Locals("account_id").(string)

	order, err := h.service.Order(c.UserContext(), caller, OrderInput{
		OperationID:  req.OperationID,
		Value:        req.Value,
		Instructions: req.Instructions,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(http.StatusCreated).JSON(toResponse(order))
}

// OrderFrom places a payout order on behalf of another holder.
func (h *Handler) OrderFrom(c *fiber.Ctx) error {
	var req orderFromRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	caller, _ := c.Locals("account_id").(string)

	order, err := h.service.OrderFrom(c.UserContext(), caller, req.WalletToDebit, OrderInput{
		OperationID:  req.OperationID,
		Value:        req.Value,
		Instructions: req.Instructions,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(http.StatusCreated).JSON(toResponse(order))
}

// Cancel releases the hold behind an order in the ordered state.
func (h *Handler) Cancel(c *fiber.Ctx) error {
	caller, _ := c.Locals("account_id").(string)
	if err := h.service.Cancel(c.UserContext(), caller, c.Params("operationId")); err != nil {
		return respondError(c, err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"status": string(StatusCancelled)})
}

// TransferToSuspense moves held funds into the suspense account.
func (h *Handler) TransferToSuspense(c *fiber.Ctx) error {
	caller, _ := c.Locals("account_id").(string)
	if err := h.service.TransferToSuspense(c.UserContext(), caller, c.Params("operationId")); err != nil {
		return respondError(c, err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"status": string(StatusFundsInSuspense)})
}

// Execute burns suspense funds and finalizes the order.
func (h *Handler) Execute(c *fiber.Ctx) error {
	caller, _ := c.Locals("account_id").(string)
	if err := h.service.Execute(c.UserContext(), caller, c.Params("operationId")); err != nil {
		return respondError(c, err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"status": string(StatusExecuted)})
}

// Reject refuses an ordered payout and releases its hold.
func (h *Handler) Reject(c *fiber.Ctx) error {
	var req rejectRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	caller, _ := c.Locals("account_id").(string)
	if err := h.service.Reject(c.UserContext(), caller, c.Params("operationId"), req.Reason); err != nil {
		return respondError(c, err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"status": string(StatusRejected)})
}

// Process rejects the unsupported generic hold hook.
func (h *Handler) Process(c *fiber.Ctx) error {
	caller, _ := c.Locals("account_id").(string)
	return respondError(c, h.service.Process(c.UserContext(), caller, c.Params("operationId")))
}

// PutFundsInSuspense rejects the unsupported generic hold hook.
func (h *Handler) PutFundsInSuspense(c *fiber.Ctx) error {
	caller, _ := c.Locals("account_id").(string)
	return respondError(c, h.service.PutFundsInSuspense(c.UserContext(), caller, c.Params("operationId")))
}

// Retrieve returns the full payout order record.
func (h *Handler) Retrieve(c *fiber.Ctx) error {
	order, err := h.service.Retrieve(c.UserContext(), c.Params("operationId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(http.StatusOK).JSON(toResponse(order))
}

// respondError maps payout errors to HTTP statuses and writes the stable
// reason code alongside the message.
func respondError(c *fiber.Ctx, err error) error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrEmptyOperationID),
		errors.Is(err, ErrZeroValue),
		errors.Is(err, ErrEmptyInstructions),
		errors.Is(err, ErrNullHolder),
		errors.Is(err, ErrInsufficientBalance):
		status = http.StatusBadRequest
	case errors.Is(err, ErrDuplicateOperationID),
		errors.Is(err, ErrWrongStatusForCancel),
		errors.Is(err, ErrWrongStatusForSuspense),
		errors.Is(err, ErrWrongStatusForExecute),
		errors.Is(err, ErrWrongStatusForReject):
		status = http.StatusConflict
	case errors.Is(err, ErrUnauthorizedOperator),
		errors.Is(err, ErrUnauthorizedCaller):
		status = http.StatusForbidden
	case errors.Is(err, ErrInvalidOperationID):
		status = http.StatusNotFound
	case errors.Is(err, ErrNotSupported):
		status = http.StatusNotImplemented
	}
	return c.Status(status).JSON(fiber.Map{"code": Code(err), "message": err.Error()})
}
