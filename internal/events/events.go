package events

import (
	"context"
	"log/slog"
)

const (
	// KindAuthorizedPayoutOperator signals a holder granted payout rights to an operator.
	KindAuthorizedPayoutOperator = "authorized_payout_operator"
	// KindRevokedPayoutOperator signals a holder withdrew payout rights from an operator.
	KindRevokedPayoutOperator = "revoked_payout_operator"
	// KindPayoutOrdered signals a new payout order placed a hold on holder funds.
	KindPayoutOrdered = "payout_ordered"
	// KindPayoutCancelled signals an order was cancelled and its hold released.
	KindPayoutCancelled = "payout_cancelled"
	// KindPayoutFundsInSuspense signals held funds moved into the suspense account.
	KindPayoutFundsInSuspense = "payout_funds_in_suspense"
	// KindPayoutExecuted signals suspense funds were burned for off-ledger disbursement.
	KindPayoutExecuted = "payout_executed"
	// KindPayoutRejected signals the payout agent rejected an order and released its hold.
	KindPayoutRejected = "payout_rejected"
)

// Event describes one lifecycle signal. Fields that do not apply to a kind are
// left zero and omitted from the encoded form.
type Event struct {
	Kind          string `json:"kind"`
	Operator      string `json:"operator,omitempty"`
	Account       string `json:"account,omitempty"`
	Orderer       string `json:"orderer,omitempty"`
	OperationID   string `json:"operation_id,omitempty"`
	WalletToDebit string `json:"wallet_to_debit,omitempty"`
	Value         int64  `json:"value,omitempty"`
	Instructions  string `json:"instructions,omitempty"`
	Reason        string `json:"reason,omitempty"`
}

// Emitter delivers lifecycle signals to downstream consumers. Exactly one
// event is emitted per successful state transition.
type Emitter interface {
	Emit(ctx context.Context, event Event) error
}

// LoggerEmitter is a stub implementation that writes events to the logger.
type LoggerEmitter struct {
	logger *slog.Logger
}

// NewLoggerEmitter constructs a logging emitter stub.
func NewLoggerEmitter(logger *slog.Logger) *LoggerEmitter {
	return &LoggerEmitter{logger: logger}
}

// Emit writes the event to the structured logger.
func (e *LoggerEmitter) Emit(_ context.Context, event Event) error {
	if e == nil || e.logger == nil {
		return nil
	}
	attrs := []any{slog.String("kind", event.Kind)}
	if event.Operator != "" {
		attrs = append(attrs, slog.String("operator", event.Operator))
	}
	if event.Account != "" {
		attrs = append(attrs, slog.String("account", event.Account))
	}
	if event.Orderer != "" {
		attrs = append(attrs, slog.String("orderer", event.Orderer))
	}
	if event.OperationID != "" {
		attrs = append(attrs, slog.String("operation_id", event.OperationID))
	}
	if event.WalletToDebit != "" {
		attrs = append(attrs, slog.String("wallet_to_debit", event.WalletToDebit))
	}
	if event.Value != 0 {
		attrs = append(attrs, slog.Int64("value", event.Value))
	}
	if event.Reason != "" {
		attrs = append(attrs, slog.String("reason", event.Reason))
	}
	e.logger.Info("lifecycle event", attrs...)
	return nil
}
