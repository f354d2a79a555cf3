package operators

import (
	"context"
	"errors"

	"github.com/IoBuilders/payoutable-token/internal/events"
)

var (
	// ErrAlreadyAuthorized occurs when a holder authorizes an operator twice.
	ErrAlreadyAuthorized = errors.New("the operator is already authorized")

	// ErrNotAuthorized occurs when a holder revokes an operator that was never authorized.
	ErrNotAuthorized = errors.New("the operator is already not authorized")

	// ErrEmptyIdentity occurs when the holder or operator identity is missing.
	ErrEmptyIdentity = errors.New("identity must not be empty")
)

// Service maintains which operators may order and cancel payouts on a holder's
// behalf. A holder acting for itself never consults this registry.
type Service struct {
	repo    Repository
	emitter events.Emitter
}

// NewService builds an operator registry service.
func NewService(repo Repository, emitter events.Emitter) *Service {
	return &Service{repo: repo, emitter: emitter}
}

// Authorize grants the operator payout rights over the holder's funds. The
// toggle is explicit: authorizing an already-authorized pair fails.
func (s *Service) Authorize(ctx context.Context, holder, operator string) error {
	if holder == "" || operator == "" {
		return ErrEmptyIdentity
	}
	authorized, err := s.repo.Exists(ctx, holder, operator)
	if err != nil {
		return err
	}
	if authorized {
		return ErrAlreadyAuthorized
	}
	if err := s.repo.Set(ctx, holder, operator); err != nil {
		return err
	}

	if s.emitter != nil {
		_ = s.emitter.Emit(ctx, events.Event{
			Kind:     events.KindAuthorizedPayoutOperator,
			Operator: operator,
			Account:  holder,
		})
	}
	return nil
}

// Revoke withdraws the operator's payout rights. Revoking a pair that is not
// authorized fails.
func (s *Service) Revoke(ctx context.Context, holder, operator string) error {
	if holder == "" || operator == "" {
		return ErrEmptyIdentity
	}
	authorized, err := s.repo.Exists(ctx, holder, operator)
	if err != nil {
		return err
	}
	if !authorized {
		return ErrNotAuthorized
	}
	if err := s.repo.Unset(ctx, holder, operator); err != nil {
		return err
	}

	if s.emitter != nil {
		_ = s.emitter.Emit(ctx, events.Event{
			Kind:     events.KindRevokedPayoutOperator,
			Operator: operator,
			Account:  holder,
		})
	}
	return nil
}

// IsAuthorizedFor reports whether the operator may act on the holder's behalf.
// Pure lookup, no side effects.
func (s *Service) IsAuthorizedFor(ctx context.Context, operator, holder string) (bool, error) {
	return s.repo.Exists(ctx, holder, operator)
}
