package payout

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/IoBuilders/payoutable-token/internal/events"
	"github.com/IoBuilders/payoutable-token/internal/ledger"
	"github.com/IoBuilders/payoutable-token/internal/operators"
)

// Service drives payout orders through their lifecycle:
//
//	ordered -> funds_in_suspense -> executed
//	ordered -> cancelled
//	ordered -> rejected
//
// A hold taken at order time is virtual: the holder's spendable balance drops
// but no funds move. Only the payout agent promotes the hold to a real
// transfer into the suspense account, and execution burns from suspense.
//
// All entry points are serialized behind one mutex. Validation completes
// before any mutation, so a failed call leaves no observable effect.
type Service struct {
	mu              sync.Mutex
	ledger          ledger.Ledger
	orders          Repository
	operators       *operators.Service
	emitter         events.Emitter
	suspenseAccount string
	payoutAgent     string
}

// NewService wires the payout state machine. The suspense account must not be
// the null identity; its ledger account is provisioned up front.
func NewService(ctx context.Context, ledgerBackend ledger.Ledger, orders Repository, operatorRegistry *operators.Service, emitter events.Emitter, suspenseAccount, payoutAgent string) (*Service, error) {
	if suspenseAccount == "" {
		return nil, fmt.Errorf("suspense account must not be the null identity")
	}
	if payoutAgent == "" {
		return nil, fmt.Errorf("payout agent identity is required")
	}
	if operatorRegistry == nil {
		return nil, fmt.Errorf("operator registry is required")
	}
	if err := ledgerBackend.EnsureAccount(ctx, suspenseAccount); err != nil {
		return nil, err
	}
	return &Service{
		ledger:          ledgerBackend,
		orders:          orders,
		operators:       operatorRegistry,
		emitter:         emitter,
		suspenseAccount: suspenseAccount,
		payoutAgent:     payoutAgent,
	}, nil
}

// SuspenseAccount returns the configured custodial account identity.
func (s *Service) SuspenseAccount() string {
	return s.suspenseAccount
}

// PayoutAgent returns the identity allowed to advance orders past the ordered state.
func (s *Service) PayoutAgent() string {
	return s.payoutAgent
}

// OrderInput captures the data needed to place a payout order.
type OrderInput struct {
	OperationID  string
	Value        int64
	Instructions string
}

// Order places a payout order for the caller's own funds and holds the value.
func (s *Service) Order(ctx context.Context, caller string, input OrderInput) (Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.placeOrder(ctx, caller, caller, input)
}

// OrderFrom places a payout order against another holder's funds. The caller
// must be an operator the holder explicitly authorized; acting for oneself
// does not bypass the registry.
func (s *Service) OrderFrom(ctx context.Context, caller, walletToDebit string, input OrderInput) (Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if walletToDebit == "" {
		return Order{}, ErrNullHolder
	}
	authorized, err := s.operators.IsAuthorizedFor(ctx, caller, walletToDebit)
	if err != nil {
		return Order{}, err
	}
	if !authorized {
		return Order{}, ErrUnauthorizedOperator
	}

	return s.placeOrder(ctx, caller, walletToDebit, input)
}

// placeOrder runs the shared validation chain in its fixed order, then takes
// the hold and writes the record. Callers hold s.mu.
func (s *Service) placeOrder(ctx context.Context, orderer, walletToDebit string, input OrderInput) (Order, error) {
	if input.OperationID == "" {
		return Order{}, ErrEmptyOperationID
	}
	if input.Value <= 0 {
		return Order{}, ErrZeroValue
	}
	if _, err := s.orders.Get(ctx, input.OperationID); err == nil {
		return Order{}, ErrDuplicateOperationID
	} else if !errors.Is(err, ErrInvalidOperationID) {
		return Order{}, err
	}
	balance, err := s.ledger.Balance(ctx, walletToDebit)
	if err != nil {
		return Order{}, err
	}
	if balance < input.Value {
		return Order{}, ErrInsufficientBalance
	}
	if input.Instructions == "" {
		return Order{}, ErrEmptyInstructions
	}

	if err := s.ledger.Hold(ctx, walletToDebit, input.Value); err != nil {
		if errors.Is(err, ledger.ErrInsufficientFunds) {
			return Order{}, ErrInsufficientBalance
		}
		return Order{}, err
	}

	now := time.Now().UTC()
	order := Order{
		OperationID:   input.OperationID,
		Orderer:       orderer,
		WalletToDebit: walletToDebit,
		Value:         input.Value,
		Instructions:  input.Instructions,
		Status:        StatusOrdered,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		// Undo the hold so a storage failure leaves no partial effect.
		_ = s.ledger.Release(ctx, walletToDebit, input.Value)
		return Order{}, err
	}

	if s.emitter != nil {
		_ = s.emitter.Emit(ctx, events.Event{
			Kind:          events.KindPayoutOrdered,
			Orderer:       orderer,
			OperationID:   order.OperationID,
			WalletToDebit: walletToDebit,
			Value:         order.Value,
			Instructions:  order.Instructions,
		})
	}
	return order, nil
}

// Cancel releases the hold and closes the order. Only the orderer or the
// holder whose funds are held may cancel, and only before the funds leave the
// ordered state.
func (s *Service) Cancel(ctx context.Context, caller, operationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, err := s.orders.Get(ctx, operationID)
	if err != nil {
		return err
	}
	if order.Status != StatusOrdered {
		return ErrWrongStatusForCancel
	}
	if caller != order.Orderer && caller != order.WalletToDebit {
		return ErrUnauthorizedCaller
	}

	if err := s.ledger.Release(ctx, order.WalletToDebit, order.Value); err != nil {
		return err
	}
	if err := s.orders.UpdateStatus(ctx, operationID, StatusOrdered, StatusCancelled); err != nil {
		return err
	}

	if s.emitter != nil {
		_ = s.emitter.Emit(ctx, events.Event{
			Kind:        events.KindPayoutCancelled,
			Orderer:     order.Orderer,
			OperationID: operationID,
		})
	}
	return nil
}

// TransferToSuspense promotes the virtual hold to a real balance transfer into
// the suspense account. Payout agent only.
func (s *Service) TransferToSuspense(ctx context.Context, caller, operationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, err := s.orders.Get(ctx, operationID)
	if err != nil {
		return err
	}
	if order.Status != StatusOrdered {
		return ErrWrongStatusForSuspense
	}
	if caller != s.payoutAgent {
		return ErrUnauthorizedCaller
	}

	if err := s.ledger.TransferHeld(ctx, order.WalletToDebit, s.suspenseAccount, order.Value); err != nil {
		return err
	}
	if err := s.orders.UpdateStatus(ctx, operationID, StatusOrdered, StatusFundsInSuspense); err != nil {
		return err
	}

	if s.emitter != nil {
		_ = s.emitter.Emit(ctx, events.Event{
			Kind:        events.KindPayoutFundsInSuspense,
			Orderer:     order.Orderer,
			OperationID: operationID,
		})
	}
	return nil
}

// Execute burns the order's value from the suspense account, modeling the
// off-ledger disbursement described by the order's instructions. Payout agent only.
func (s *Service) Execute(ctx context.Context, caller, operationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, err := s.orders.Get(ctx, operationID)
	if err != nil {
		return err
	}
	if order.Status != StatusFundsInSuspense {
		return ErrWrongStatusForExecute
	}
	if caller != s.payoutAgent {
		return ErrUnauthorizedCaller
	}

	if err := s.ledger.Burn(ctx, s.suspenseAccount, order.Value); err != nil {
		return err
	}
	if err := s.orders.UpdateStatus(ctx, operationID, StatusFundsInSuspense, StatusExecuted); err != nil {
		return err
	}

	if s.emitter != nil {
		_ = s.emitter.Emit(ctx, events.Event{
			Kind:        events.KindPayoutExecuted,
			Orderer:     order.Orderer,
			OperationID: operationID,
		})
	}
	return nil
}

// Reject releases the hold exactly like Cancel but records the agent's
// decision. The reason travels in the emitted event only. Payout agent only.
func (s *Service) Reject(ctx context.Context, caller, operationID, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, err := s.orders.Get(ctx, operationID)
	if err != nil {
		return err
	}
	if order.Status != StatusOrdered {
		return ErrWrongStatusForReject
	}
	if caller != s.payoutAgent {
		return ErrUnauthorizedCaller
	}

	if err := s.ledger.Release(ctx, order.WalletToDebit, order.Value); err != nil {
		return err
	}
	if err := s.orders.UpdateStatus(ctx, operationID, StatusOrdered, StatusRejected); err != nil {
		return err
	}

	if s.emitter != nil {
		_ = s.emitter.Emit(ctx, events.Event{
			Kind:        events.KindPayoutRejected,
			Orderer:     order.Orderer,
			OperationID: operationID,
			Reason:      reason,
		})
	}
	return nil
}

// Process is a generic hold lifecycle hook that payout orders do not use.
// It fails for every caller in every state; orders advance through
// TransferToSuspense instead.
func (s *Service) Process(_ context.Context, _, _ string) error {
	return ErrNotSupported
}

// PutFundsInSuspense is a generic hold lifecycle hook that payout orders do
// not use. It fails for every caller in every state; orders advance through
// TransferToSuspense instead.
func (s *Service) PutFundsInSuspense(_ context.Context, _, _ string) error {
	return ErrNotSupported
}

// Retrieve returns the full payout order record.
func (s *Service) Retrieve(ctx context.Context, operationID string) (Order, error) {
	return s.orders.Get(ctx, operationID)
}
