package identity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/IoBuilders/payoutable-token/internal/ledger"
)

// Service manages account lifecycle. Registering an account provisions its
// ledger account, so every identity can hold balance from the start.
type Service struct {
	repo   Repository
	ledger ledger.Ledger
}

// NewService creates a new identity service.
func NewService(repo Repository, ledgerBackend ledger.Ledger) *Service {
	return &Service{repo: repo, ledger: ledgerBackend}
}

// Register creates a new account and stores a hashed API secret.
func (s *Service) Register(ctx context.Context, creds Credentials) (Account, error) {
	if creds.Name == "" {
		return Account{}, errors.New("account name is required")
	}
	if len(creds.Secret) < 8 {
		return Account{}, errors.New("secret must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(creds.Secret), bcrypt.DefaultCost)
	if err != nil {
		return Account{}, err
	}

	account := Account{
		ID:         uuid.New().String(),
		Name:       creds.Name,
		SecretHash: hash,
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.ledger.EnsureAccount(ctx, account.ID); err != nil {
		return Account{}, err
	}
	if err := s.repo.Create(ctx, account); err != nil {
		return Account{}, err
	}

	return account, nil
}

// Authenticate verifies the account secret.
func (s *Service) Authenticate(ctx context.Context, creds Credentials) (Account, error) {
	account, err := s.repo.FindByName(ctx, creds.Name)
	if err != nil {
		return Account{}, err
	}

	if err := bcrypt.CompareHashAndPassword(account.SecretHash, []byte(creds.Secret)); err != nil {
		return Account{}, errors.New("invalid secret")
	}

	return account, nil
}

// Get retrieves account metadata by identifier.
func (s *Service) Get(ctx context.Context, id string) (Account, error) {
	return s.repo.FindByID(ctx, id)
}

// Balance returns the spendable and held ledger balances for the account.
func (s *Service) Balance(ctx context.Context, id string) (int64, int64, error) {
	account, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return 0, 0, err
	}
	balance, err := s.ledger.Balance(ctx, account.ID)
	if err != nil {
		return 0, 0, err
	}
	held, err := s.ledger.HeldBalance(ctx, account.ID)
	if err != nil {
		return 0, 0, err
	}
	return balance, held, nil
}
