package payout

import "errors"

var (
	// ErrEmptyOperationID occurs when an order is placed without an operation identifier.
	ErrEmptyOperationID = errors.New("operation id must not be empty")

	// ErrZeroValue occurs when the payout value is not a positive amount.
	ErrZeroValue = errors.New("value must be greater than zero")

	// ErrDuplicateOperationID occurs when the operation identifier was already used.
	ErrDuplicateOperationID = errors.New("operation id already used")

	// ErrInsufficientBalance occurs when the holder's spendable balance cannot cover the value.
	ErrInsufficientBalance = errors.New("insufficient balance for payout")

	// ErrEmptyInstructions occurs when an order carries no disbursement instructions.
	ErrEmptyInstructions = errors.New("instructions must not be empty")

	// ErrUnauthorizedOperator occurs when the caller is not an authorized operator for the holder.
	ErrUnauthorizedOperator = errors.New("caller is not an authorized payout operator")

	// ErrNullHolder occurs when a delegated order names no holder.
	ErrNullHolder = errors.New("wallet to debit must not be the null identity")

	// ErrInvalidOperationID occurs when no order exists for the operation identifier.
	ErrInvalidOperationID = errors.New("no payout order for operation id")

	// ErrWrongStatusForCancel occurs when cancelling an order that already left the ordered state.
	ErrWrongStatusForCancel = errors.New("payout order is not in ordered status")

	// ErrWrongStatusForSuspense occurs when moving funds to suspense outside the ordered state.
	ErrWrongStatusForSuspense = errors.New("payout order is not in ordered status for suspense transfer")

	// ErrWrongStatusForExecute occurs when executing an order whose funds are not in suspense.
	ErrWrongStatusForExecute = errors.New("payout order funds are not in suspense")

	// ErrWrongStatusForReject occurs when rejecting an order that already left the ordered state.
	ErrWrongStatusForReject = errors.New("payout order is not in ordered status for reject")

	// ErrUnauthorizedCaller occurs when the caller lacks the role required for the transition.
	ErrUnauthorizedCaller = errors.New("caller may not perform this payout transition")

	// ErrNotSupported is returned by the generic hold lifecycle hooks this
	// specialization deliberately does not implement.
	ErrNotSupported = errors.New("operation not supported on payoutable hold")
)

// Code maps a payout error to its stable machine-checkable reason code. The
// codes are part of the external contract; callers branch on them.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrEmptyOperationID):
		return "EMPTY_OPERATION_ID"
	case errors.Is(err, ErrZeroValue):
		return "ZERO_VALUE"
	case errors.Is(err, ErrDuplicateOperationID):
		return "DUPLICATE_OPERATION_ID"
	case errors.Is(err, ErrInsufficientBalance):
		return "INSUFFICIENT_BALANCE"
	case errors.Is(err, ErrEmptyInstructions):
		return "EMPTY_INSTRUCTIONS"
	case errors.Is(err, ErrUnauthorizedOperator):
		return "UNAUTHORIZED_OPERATOR"
	case errors.Is(err, ErrNullHolder):
		return "NULL_HOLDER"
	case errors.Is(err, ErrInvalidOperationID):
		return "INVALID_OPERATION_ID"
	case errors.Is(err, ErrWrongStatusForCancel):
		return "WRONG_STATUS_FOR_CANCEL"
	case errors.Is(err, ErrWrongStatusForSuspense):
		return "WRONG_STATUS_FOR_SUSPENSE"
	case errors.Is(err, ErrWrongStatusForExecute):
		return "WRONG_STATUS_FOR_EXECUTE"
	case errors.Is(err, ErrWrongStatusForReject):
		return "WRONG_STATUS_FOR_REJECT"
	case errors.Is(err, ErrUnauthorizedCaller):
		return "UNAUTHORIZED_CALLER"
	case errors.Is(err, ErrNotSupported):
		return "NOT_SUPPORTED"
	default:
		return "INTERNAL"
	}
}
