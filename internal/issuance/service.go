package issuance

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/IoBuilders/payoutable-token/internal/identity"
	"github.com/IoBuilders/payoutable-token/internal/ledger"
)

// Service creates and retires token supply against custodian approval. It is
// the only entry path to the ledger's mint and the only non-payout path to burn.
type Service struct {
	ledger    ledger.Ledger
	accounts  *identity.Service
	custodian Custodian
}

// NewService prepares an issuance service.
func NewService(ledgerBackend ledger.Ledger, accounts *identity.Service, custodian Custodian) (*Service, error) {
	if accounts == nil {
		return nil, fmt.Errorf("identity service is required")
	}
	if custodian == nil {
		custodian = StaticCustodian{}
	}
	return &Service{ledger: ledgerBackend, accounts: accounts, custodian: custodian}, nil
}

// IssueInput captures the data for a supply-creating request.
type IssueInput struct {
	AccountID  string
	Amount     int64
	ClientTxID string
}

// RedeemInput captures the data for a supply-retiring request.
type RedeemInput struct {
	AccountID  string
	Amount     int64
	ClientTxID string
}

// Result represents the outcome of an issuance operation.
type Result struct {
	TransactionID      string
	Balance            int64
	CustodianReference string
	CompletedAt        time.Time
}

// Issue mints new supply into the account after custodian approval.
func (s *Service) Issue(ctx context.Context, input IssueInput) (Result, error) {
	if input.Amount <= 0 {
		return Result{}, fmt.Errorf("amount must be positive")
	}
	if input.ClientTxID == "" {
		input.ClientTxID = uuid.NewString()
	}

	account, err := s.accounts.Get(ctx, input.AccountID)
	if err != nil {
		return Result{}, err
	}

	decision, err := s.custodian.ApproveIssue(ctx, IssueApproval{Account: account.ID, Amount: input.Amount})
	if err != nil {
		return Result{}, err
	}

	minted, err := s.ledger.Mint(ctx, account.ID, input.ClientTxID, input.Amount)
	if err != nil {
		return Result{}, err
	}

	return Result{
		TransactionID:      minted.TransactionID,
		Balance:            minted.Balance,
		CustodianReference: decision.Reference,
		CompletedAt:        time.Now().UTC(),
	}, nil
}

// Redeem burns spendable supply out of the account after custodian approval.
func (s *Service) Redeem(ctx context.Context, input RedeemInput) (Result, error) {
	if input.Amount <= 0 {
		return Result{}, fmt.Errorf("amount must be positive")
	}

	account, err := s.accounts.Get(ctx, input.AccountID)
	if err != nil {
		return Result{}, err
	}

	decision, err := s.custodian.ApproveRedeem(ctx, RedeemApproval{Account: account.ID, Amount: input.Amount})
	if err != nil {
		return Result{}, err
	}

	if err := s.ledger.Burn(ctx, account.ID, input.Amount); err != nil {
		return Result{}, err
	}

	balance, err := s.ledger.Balance(ctx, account.ID)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Balance:            balance,
		CustodianReference: decision.Reference,
		CompletedAt:        time.Now().UTC(),
	}, nil
}
