package auth

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/IoBuilders/payoutable-token/internal/identity"
)

// Handler exposes the login endpoint.
type Handler struct {
	ids *identity.Service
	svc *Service
}

// NewHandler builds an auth handler.
func NewHandler(ids *identity.Service, svc *Service) *Handler {
	return &Handler{ids: ids, svc: svc}
}

type loginRequest struct {
	Name   string `json:"name"`
	Secret string `json:"secret"`
}

type loginResponse struct {
	AccountID   string `json:"account_id"`
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

// Login validates credentials and returns an access token.
func (h *Handler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	account, err := h.ids.Authenticate(c.UserContext(), identity.Credentials{Name: req.Name, Secret: req.Secret})
	if err != nil {
		return fiber.NewError(http.StatusUnauthorized, err.Error())
	}
	token, err := h.svc.Login(account)
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.Status(http.StatusOK).JSON(loginResponse{
		AccountID:   account.ID,
		AccessToken: token.AccessToken,
		ExpiresIn:   token.ExpiresIn,
	})
}
