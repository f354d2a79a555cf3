package operators

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes operator registry endpoints. The holder is always the
// attributed caller; operators cannot grant themselves rights.
type Handler struct {
	service *Service
}

// NewHandler builds an operator registry HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type authorizeRequest struct {
	Operator string `json:"operator"`
}

// Authorize grants payout rights over the caller's funds to an operator.
func (h *Handler) Authorize(c *fiber.Ctx) error {
	var req authorizeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	holder, _ := c.Locals("account_id").(string)

	if err := h.service.Authorize(c.UserContext(), holder, req.Operator); err != nil {
		switch {
		case errors.Is(err, ErrAlreadyAuthorized):
			return fiber.NewError(http.StatusConflict, err.Error())
		case errors.Is(err, ErrEmptyIdentity):
			return fiber.NewError(http.StatusBadRequest, err.Error())
		default:
			return fiber.NewError(http.StatusInternalServerError, err.Error())
		}
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"holder": holder, "operator": req.Operator})
}

// Revoke withdraws payout rights from an operator.
func (h *Handler) Revoke(c *fiber.Ctx) error {
	holder, _ := c.Locals("account_id").(string)
	operator := c.Params("operator")

	if err := h.service.Revoke(c.UserContext(), holder, operator); err != nil {
		switch {
		case errors.Is(err, ErrNotAuthorized):
			return fiber.NewError(http.StatusConflict, err.Error())
		case errors.Is(err, ErrEmptyIdentity):
			return fiber.NewError(http.StatusBadRequest, err.Error())
		default:
			return fiber.NewError(http.StatusInternalServerError, err.Error())
		}
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"holder": holder, "operator": operator})
}

// IsAuthorizedFor reports whether an operator may act for a holder.
func (h *Handler) IsAuthorizedFor(c *fiber.Ctx) error {
	operator := c.Params("operator")
	holder := c.Params("holder")

	authorized, err := h.service.IsAuthorizedFor(c.UserContext(), operator, holder)
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"operator":   operator,
		"holder":     holder,
		"authorized": authorized,
	})
}
