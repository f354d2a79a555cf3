package payout

import (
	"context"
	"errors"
	"testing"

	"github.com/IoBuilders/payoutable-token/internal/events"
	"github.com/IoBuilders/payoutable-token/internal/ledger"
	"github.com/IoBuilders/payoutable-token/internal/operators"
)

const (
	suspenseAccount = "suspense:payout"
	payoutAgent     = "agent-1"
	holder          = "holder-1"
	operator        = "operator-1"
	stranger        = "stranger-1"
)

type recordingEmitter struct {
	emitted []events.Event
}

func (r *recordingEmitter) Emit(_ context.Context, event events.Event) error {
	r.emitted = append(r.emitted, event)
	return nil
}

func (r *recordingEmitter) last(t *testing.T) events.Event {
	t.Helper()
	if len(r.emitted) == 0 {
		t.Fatalf("expected an emitted event")
	}
	return r.emitted[len(r.emitted)-1]
}

func setup(t *testing.T) (*Service, ledger.Ledger, *operators.Service, *recordingEmitter) {
	t.Helper()
	led := ledger.NewInMemory()
	emitter := &recordingEmitter{}
	registry := operators.NewService(operators.NewMemoryRepository(), emitter)

	ctx := context.Background()
	if err := led.EnsureAccount(ctx, holder); err != nil {
		t.Fatalf("ensure holder account: %v", err)
	}
	ledger.SeedBalance(led, holder, 3)

	svc, err := NewService(ctx, led, NewMemoryRepository(), registry, emitter, suspenseAccount, payoutAgent)
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc, led, registry, emitter
}

func balanceOf(t *testing.T, led ledger.Ledger, code string) int64 {
	t.Helper()
	balance, err := led.Balance(context.Background(), code)
	if err != nil {
		t.Fatalf("balance %s: %v", code, err)
	}
	return balance
}

func TestOrderHoldsFunds(t *testing.T) {
	svc, led, _, emitter := setup(t)
	ctx := context.Background()

	order, err := svc.Order(ctx, holder, OrderInput{OperationID: "op-1", Value: 1, Instructions: "IBAN XX12"})
	if err != nil {
		t.Fatalf("order: %v", err)
	}

	if order.Status != StatusOrdered || order.Orderer != holder || order.WalletToDebit != holder {
		t.Fatalf("unexpected order record: %+v", order)
	}
	if got := balanceOf(t, led, holder); got != 2 {
		t.Fatalf("expected holder balance 2, got %d", got)
	}
	if ledger.TotalSupply(led) != 3 {
		t.Fatalf("order must conserve total supply, got %d", ledger.TotalSupply(led))
	}

	event := emitter.last(t)
	if event.Kind != events.KindPayoutOrdered || event.OperationID != "op-1" || event.Value != 1 {
		t.Fatalf("unexpected event: %+v", event)
	}
}

func TestOrderValidationOrder(t *testing.T) {
	svc, _, _, _ := setup(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		input OrderInput
		want  error
	}{
		{"empty id", OrderInput{Value: 1, Instructions: "x"}, ErrEmptyOperationID},
		{"zero value", OrderInput{OperationID: "op-v", Instructions: "x"}, ErrZeroValue},
		{"negative value", OrderInput{OperationID: "op-v", Value: -1, Instructions: "x"}, ErrZeroValue},
		// balance is checked before instructions: both are wrong here, balance wins
		{"insufficient before instructions", OrderInput{OperationID: "op-v", Value: 4}, ErrInsufficientBalance},
		{"empty instructions", OrderInput{OperationID: "op-v", Value: 1}, ErrEmptyInstructions},
	}
	for _, tc := range cases {
		if _, err := svc.Order(ctx, holder, tc.input); !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestOrderDuplicateOperationID(t *testing.T) {
	svc, led, registry, _ := setup(t)
	ctx := context.Background()

	if _, err := svc.Order(ctx, holder, OrderInput{OperationID: "op-1", Value: 1, Instructions: "x"}); err != nil {
		t.Fatalf("order: %v", err)
	}
	if _, err := svc.Order(ctx, holder, OrderInput{OperationID: "op-1", Value: 1, Instructions: "x"}); !errors.Is(err, ErrDuplicateOperationID) {
		t.Fatalf("expected duplicate operation id, got %v", err)
	}

	// Identifiers are unique across entry points and survive terminal states.
	if err := svc.Cancel(ctx, holder, "op-1"); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if err := registry.Authorize(ctx, holder, operator); err != nil {
		t.Fatalf("authorize: %v", err)
	}
	if _, err := svc.OrderFrom(ctx, operator, holder, OrderInput{OperationID: "op-1", Value: 1, Instructions: "x"}); !errors.Is(err, ErrDuplicateOperationID) {
		t.Fatalf("expected duplicate operation id after cancel, got %v", err)
	}
	if got := balanceOf(t, led, holder); got != 3 {
		t.Fatalf("failed duplicate order must not hold funds, balance %d", got)
	}
}

func TestOrderInsufficientBalance(t *testing.T) {
	svc, led, _, _ := setup(t)
	ctx := context.Background()

	if _, err := svc.Order(ctx, holder, OrderInput{OperationID: "op-1", Value: 4, Instructions: "x"}); !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("expected insufficient balance, got %v", err)
	}
	if got := balanceOf(t, led, holder); got != 3 {
		t.Fatalf("failed order must not change balance, got %d", got)
	}
	if _, err := svc.Retrieve(ctx, "op-1"); !errors.Is(err, ErrInvalidOperationID) {
		t.Fatalf("failed order must create no record, got %v", err)
	}
}

func TestOrderFromRequiresAuthorization(t *testing.T) {
	svc, led, registry, _ := setup(t)
	ctx := context.Background()

	if _, err := svc.OrderFrom(ctx, operator, "", OrderInput{OperationID: "op-1", Value: 1, Instructions: "x"}); !errors.Is(err, ErrNullHolder) {
		t.Fatalf("expected null holder, got %v", err)
	}

	if _, err := svc.OrderFrom(ctx, operator, holder, OrderInput{OperationID: "op-1", Value: 1, Instructions: "x"}); !errors.Is(err, ErrUnauthorizedOperator) {
		t.Fatalf("expected unauthorized operator, got %v", err)
	}
	if _, err := svc.Retrieve(ctx, "op-1"); !errors.Is(err, ErrInvalidOperationID) {
		t.Fatalf("unauthorized order must create no record")
	}

	if err := registry.Authorize(ctx, holder, operator); err != nil {
		t.Fatalf("authorize: %v", err)
	}
	order, err := svc.OrderFrom(ctx, operator, holder, OrderInput{OperationID: "op-1", Value: 1, Instructions: "x"})
	if err != nil {
		t.Fatalf("delegated order: %v", err)
	}
	if order.Orderer != operator || order.WalletToDebit != holder {
		t.Fatalf("unexpected delegated order: %+v", order)
	}
	if got := balanceOf(t, led, holder); got != 2 {
		t.Fatalf("expected holder balance 2, got %d", got)
	}
}

func TestRevokedOperatorLosesRights(t *testing.T) {
	svc, _, registry, _ := setup(t)
	ctx := context.Background()

	if err := registry.Authorize(ctx, holder, operator); err != nil {
		t.Fatalf("authorize: %v", err)
	}
	if err := registry.Revoke(ctx, holder, operator); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if _, err := svc.OrderFrom(ctx, operator, holder, OrderInput{OperationID: "op-1", Value: 1, Instructions: "x"}); !errors.Is(err, ErrUnauthorizedOperator) {
		t.Fatalf("expected unauthorized operator after revoke, got %v", err)
	}
}

func TestSuspenseAndExecuteFlow(t *testing.T) {
	svc, led, _, emitter := setup(t)
	ctx := context.Background()

	if _, err := svc.Order(ctx, holder, OrderInput{OperationID: "op-1", Value: 1, Instructions: "x"}); err != nil {
		t.Fatalf("order: %v", err)
	}

	if err := svc.TransferToSuspense(ctx, payoutAgent, "op-1"); err != nil {
		t.Fatalf("transfer to suspense: %v", err)
	}
	if got := balanceOf(t, led, holder); got != 2 {
		t.Fatalf("holder balance must stay 2, got %d", got)
	}
	if got := balanceOf(t, led, suspenseAccount); got != 1 {
		t.Fatalf("expected suspense balance 1, got %d", got)
	}
	order, _ := svc.Retrieve(ctx, "op-1")
	if order.Status != StatusFundsInSuspense {
		t.Fatalf("expected funds_in_suspense, got %s", order.Status)
	}
	if emitter.last(t).Kind != events.KindPayoutFundsInSuspense {
		t.Fatalf("expected funds-in-suspense event, got %+v", emitter.last(t))
	}

	if err := svc.Execute(ctx, payoutAgent, "op-1"); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if got := balanceOf(t, led, suspenseAccount); got != 0 {
		t.Fatalf("expected suspense balance 0 after execute, got %d", got)
	}
	if got := balanceOf(t, led, holder); got != 2 {
		t.Fatalf("execute must not touch holder balance, got %d", got)
	}
	if ledger.TotalSupply(led) != 2 {
		t.Fatalf("execute must burn the value, supply %d", ledger.TotalSupply(led))
	}
	order, _ = svc.Retrieve(ctx, "op-1")
	if order.Status != StatusExecuted {
		t.Fatalf("expected executed, got %s", order.Status)
	}
	if emitter.last(t).Kind != events.KindPayoutExecuted {
		t.Fatalf("expected executed event, got %+v", emitter.last(t))
	}
}

func TestCancelRestoresBalance(t *testing.T) {
	svc, led, _, emitter := setup(t)
	ctx := context.Background()

	if _, err := svc.Order(ctx, holder, OrderInput{OperationID: "op-1", Value: 1, Instructions: "x"}); err != nil {
		t.Fatalf("order: %v", err)
	}
	if err := svc.Cancel(ctx, holder, "op-1"); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	if got := balanceOf(t, led, holder); got != 3 {
		t.Fatalf("cancel must restore balance to 3, got %d", got)
	}
	order, _ := svc.Retrieve(ctx, "op-1")
	if order.Status != StatusCancelled {
		t.Fatalf("expected cancelled, got %s", order.Status)
	}
	if emitter.last(t).Kind != events.KindPayoutCancelled {
		t.Fatalf("expected cancelled event, got %+v", emitter.last(t))
	}

	// Every further action on the identifier fails without mutation.
	if err := svc.Cancel(ctx, holder, "op-1"); !errors.Is(err, ErrWrongStatusForCancel) {
		t.Fatalf("expected wrong status for cancel, got %v", err)
	}
	if err := svc.TransferToSuspense(ctx, payoutAgent, "op-1"); !errors.Is(err, ErrWrongStatusForSuspense) {
		t.Fatalf("expected wrong status for suspense, got %v", err)
	}
	if err := svc.Execute(ctx, payoutAgent, "op-1"); !errors.Is(err, ErrWrongStatusForExecute) {
		t.Fatalf("expected wrong status for execute, got %v", err)
	}
	if err := svc.Reject(ctx, payoutAgent, "op-1", "late"); !errors.Is(err, ErrWrongStatusForReject) {
		t.Fatalf("expected wrong status for reject, got %v", err)
	}
	if got := balanceOf(t, led, holder); got != 3 {
		t.Fatalf("terminal order actions must not mutate balance, got %d", got)
	}
}

func TestCancelAuthorization(t *testing.T) {
	svc, _, registry, _ := setup(t)
	ctx := context.Background()

	if err := registry.Authorize(ctx, holder, operator); err != nil {
		t.Fatalf("authorize: %v", err)
	}
	if _, err := svc.OrderFrom(ctx, operator, holder, OrderInput{OperationID: "op-1", Value: 1, Instructions: "x"}); err != nil {
		t.Fatalf("delegated order: %v", err)
	}

	if err := svc.Cancel(ctx, stranger, "op-1"); !errors.Is(err, ErrUnauthorizedCaller) {
		t.Fatalf("expected unauthorized caller, got %v", err)
	}
	if err := svc.Cancel(ctx, payoutAgent, "op-1"); !errors.Is(err, ErrUnauthorizedCaller) {
		t.Fatalf("agent may not cancel, got %v", err)
	}

	// The holder may cancel an order placed by its operator.
	if err := svc.Cancel(ctx, holder, "op-1"); err != nil {
		t.Fatalf("holder cancel: %v", err)
	}
}

func TestRejectRestoresBalanceAndCarriesReason(t *testing.T) {
	svc, led, _, emitter := setup(t)
	ctx := context.Background()

	if _, err := svc.Order(ctx, holder, OrderInput{OperationID: "op-1", Value: 1, Instructions: "x"}); err != nil {
		t.Fatalf("order: %v", err)
	}
	if err := svc.Reject(ctx, holder, "op-1", "no funds expected"); !errors.Is(err, ErrUnauthorizedCaller) {
		t.Fatalf("only the agent may reject, got %v", err)
	}
	if err := svc.Reject(ctx, payoutAgent, "op-1", "no funds expected"); err != nil {
		t.Fatalf("reject: %v", err)
	}

	if got := balanceOf(t, led, holder); got != 3 {
		t.Fatalf("reject must restore balance to 3, got %d", got)
	}
	order, _ := svc.Retrieve(ctx, "op-1")
	if order.Status != StatusRejected {
		t.Fatalf("expected rejected, got %s", order.Status)
	}
	event := emitter.last(t)
	if event.Kind != events.KindPayoutRejected || event.Reason != "no funds expected" {
		t.Fatalf("expected rejected event with reason, got %+v", event)
	}
}

func TestAgentOnlyTransitions(t *testing.T) {
	svc, led, _, _ := setup(t)
	ctx := context.Background()

	if _, err := svc.Order(ctx, holder, OrderInput{OperationID: "op-1", Value: 1, Instructions: "x"}); err != nil {
		t.Fatalf("order: %v", err)
	}

	if err := svc.TransferToSuspense(ctx, holder, "op-1"); !errors.Is(err, ErrUnauthorizedCaller) {
		t.Fatalf("expected unauthorized caller, got %v", err)
	}
	if got := balanceOf(t, led, suspenseAccount); got != 0 {
		t.Fatalf("failed transition must not move funds, suspense %d", got)
	}

	if err := svc.TransferToSuspense(ctx, payoutAgent, "op-1"); err != nil {
		t.Fatalf("transfer to suspense: %v", err)
	}
	if err := svc.Execute(ctx, holder, "op-1"); !errors.Is(err, ErrUnauthorizedCaller) {
		t.Fatalf("expected unauthorized caller on execute, got %v", err)
	}
}

func TestNoBackTransitionsFromSuspense(t *testing.T) {
	svc, _, _, _ := setup(t)
	ctx := context.Background()

	if _, err := svc.Order(ctx, holder, OrderInput{OperationID: "op-1", Value: 1, Instructions: "x"}); err != nil {
		t.Fatalf("order: %v", err)
	}
	if err := svc.TransferToSuspense(ctx, payoutAgent, "op-1"); err != nil {
		t.Fatalf("transfer to suspense: %v", err)
	}

	if err := svc.Cancel(ctx, holder, "op-1"); !errors.Is(err, ErrWrongStatusForCancel) {
		t.Fatalf("cancel after suspense must fail, got %v", err)
	}
	if err := svc.Reject(ctx, payoutAgent, "op-1", "x"); !errors.Is(err, ErrWrongStatusForReject) {
		t.Fatalf("reject after suspense must fail, got %v", err)
	}
	if err := svc.TransferToSuspense(ctx, payoutAgent, "op-1"); !errors.Is(err, ErrWrongStatusForSuspense) {
		t.Fatalf("double suspense transfer must fail, got %v", err)
	}
}

func TestUnsupportedHooksAlwaysFail(t *testing.T) {
	svc, _, _, _ := setup(t)
	ctx := context.Background()

	if _, err := svc.Order(ctx, holder, OrderInput{OperationID: "op-1", Value: 1, Instructions: "x"}); err != nil {
		t.Fatalf("order: %v", err)
	}

	callers := []string{holder, operator, payoutAgent, stranger}
	for _, caller := range callers {
		if err := svc.Process(ctx, caller, "op-1"); !errors.Is(err, ErrNotSupported) {
			t.Fatalf("process must always fail, got %v", err)
		}
		if err := svc.PutFundsInSuspense(ctx, caller, "op-1"); !errors.Is(err, ErrNotSupported) {
			t.Fatalf("putFundsInSuspense must always fail, got %v", err)
		}
	}

	// Still unsupported in later states.
	if err := svc.TransferToSuspense(ctx, payoutAgent, "op-1"); err != nil {
		t.Fatalf("transfer to suspense: %v", err)
	}
	if err := svc.Process(ctx, payoutAgent, "op-1"); !errors.Is(err, ErrNotSupported) {
		t.Fatalf("process must fail in suspense state, got %v", err)
	}
}

func TestRetrieve(t *testing.T) {
	svc, _, _, _ := setup(t)
	ctx := context.Background()

	if _, err := svc.Retrieve(ctx, "missing"); !errors.Is(err, ErrInvalidOperationID) {
		t.Fatalf("expected invalid operation id, got %v", err)
	}

	placed, err := svc.Order(ctx, holder, OrderInput{OperationID: "op-1", Value: 2, Instructions: "SWIFT YY"})
	if err != nil {
		t.Fatalf("order: %v", err)
	}
	got, err := svc.Retrieve(ctx, "op-1")
	if err != nil {
		t.Fatalf("retrieve: %v", err)
	}
	if got.WalletToDebit != placed.WalletToDebit || got.Value != 2 || got.Instructions != "SWIFT YY" || got.Status != StatusOrdered {
		t.Fatalf("unexpected record: %+v", got)
	}
}

func TestConstructorRejectsNullSuspenseAccount(t *testing.T) {
	led := ledger.NewInMemory()
	registry := operators.NewService(operators.NewMemoryRepository(), nil)

	if _, err := NewService(context.Background(), led, NewMemoryRepository(), registry, nil, "", payoutAgent); err == nil {
		t.Fatalf("expected constructor to reject null suspense account")
	}
	if _, err := NewService(context.Background(), led, NewMemoryRepository(), registry, nil, suspenseAccount, ""); err == nil {
		t.Fatalf("expected constructor to reject empty payout agent")
	}
}

func TestErrorCodes(t *testing.T) {
	cases := map[error]string{
		ErrEmptyOperationID:       "EMPTY_OPERATION_ID",
		ErrZeroValue:              "ZERO_VALUE",
		ErrDuplicateOperationID:   "DUPLICATE_OPERATION_ID",
		ErrInsufficientBalance:    "INSUFFICIENT_BALANCE",
		ErrEmptyInstructions:      "EMPTY_INSTRUCTIONS",
		ErrUnauthorizedOperator:   "UNAUTHORIZED_OPERATOR",
		ErrNullHolder:             "NULL_HOLDER",
		ErrInvalidOperationID:     "INVALID_OPERATION_ID",
		ErrWrongStatusForCancel:   "WRONG_STATUS_FOR_CANCEL",
		ErrWrongStatusForSuspense: "WRONG_STATUS_FOR_SUSPENSE",
		ErrWrongStatusForExecute:  "WRONG_STATUS_FOR_EXECUTE",
		ErrWrongStatusForReject:   "WRONG_STATUS_FOR_REJECT",
		ErrUnauthorizedCaller:     "UNAUTHORIZED_CALLER",
		ErrNotSupported:           "NOT_SUPPORTED",
	}
	for err, want := range cases {
		if got := Code(err); got != want {
			t.Fatalf("code for %v: expected %s, got %s", err, want, got)
		}
	}
}
