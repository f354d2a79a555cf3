package auth

import (
	"errors"
	"time"

	"github.com/IoBuilders/payoutable-token/internal/config"
	"github.com/IoBuilders/payoutable-token/internal/identity"
)

// Service issues and verifies the access tokens that attribute every API call
// to a caller account.
type Service struct {
	cfg config.Config
}

// NewService builds an auth service.
func NewService(cfg config.Config) *Service {
	return &Service{cfg: cfg}
}

// Token is an issued access token with its lifetime in seconds.
type Token struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

// Login issues an access token for an authenticated account.
func (s *Service) Login(account identity.Account) (Token, error) {
	now := time.Now()
	exp := now.Add(s.cfg.AccessTokenTTL)
	claims := map[string]any{
		"sub":  account.ID,
		"name": account.Name,
		"iat":  now.Unix(),
		"exp":  exp.Unix(),
	}
	signed, err := SignHS256(claims, []byte(s.cfg.JWTSecret))
	if err != nil {
		return Token{}, err
	}
	return Token{AccessToken: signed, ExpiresIn: int64(exp.Sub(now).Seconds())}, nil
}

// Verify checks the token signature and expiry and returns the caller account ID.
func (s *Service) Verify(token string) (string, error) {
	claims, err := ParseAndVerifyHS256(token, []byte(s.cfg.JWTSecret))
	if err != nil {
		return "", err
	}
	exp, _ := claims["exp"].(float64)
	if time.Now().Unix() >= int64(exp) {
		return "", errors.New("token expired")
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", errors.New("token missing subject")
	}
	return sub, nil
}
