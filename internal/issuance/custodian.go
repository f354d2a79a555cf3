package issuance

import (
	"context"

	"github.com/google/uuid"
)

// Custodian represents a connector to the off-ledger reserve backing the token.
// Supply may only be created or retired with its approval.
type Custodian interface {
	ApproveIssue(ctx context.Context, input IssueApproval) (Decision, error)
	ApproveRedeem(ctx context.Context, input RedeemApproval) (Decision, error)
}

// Decision captures the custodian's response.
type Decision struct {
	Reference string
	Status    string
}

// IssueApproval encapsulates details of a supply-creating request.
type IssueApproval struct {
	Account string
	Amount  int64
}

// RedeemApproval encapsulates details of a supply-retiring request.
type RedeemApproval struct {
	Account string
	Amount  int64
}

// StaticCustodian simulates a custodian that approves every request.
type StaticCustodian struct{}

// ApproveIssue approves the issuance with a synthetic reference.
func (StaticCustodian) ApproveIssue(_ context.Context, _ IssueApproval) (Decision, error) {
	return Decision{Reference: uuid.NewString(), Status: "approved"}, nil
}

// ApproveRedeem approves the redemption with a synthetic reference.
func (StaticCustodian) ApproveRedeem(_ context.Context, _ RedeemApproval) (Decision, error) {
	return Decision{Reference: uuid.NewString(), Status: "approved"}, nil
}
