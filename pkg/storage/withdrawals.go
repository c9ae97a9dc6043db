package storage

import (
	"context"

	"github.com/servly/escrow-engine/pkg/models"
)

// WithdrawalStore defines the interface for managing withdrawal requests.
// Approval is not here: it rides inside ApplyWithdrawalApproval so the wallet
// debit and the status flip commit together.
type WithdrawalStore interface {
	// CreateWithdrawal persists a new PENDING withdrawal request.
	CreateWithdrawal(ctx context.Context, wr *models.WithdrawalRequest) (*models.WithdrawalRequest, error)

	// GetWithdrawal retrieves a withdrawal request by its ID.
	GetWithdrawal(ctx context.Context, withdrawalID string) (*models.WithdrawalRequest, error)

	// RejectWithdrawal flips a PENDING request to REJECTED with a note.
	RejectWithdrawal(ctx context.Context, withdrawalID, note string) error

	// MarkWithdrawalPaid flips APPROVED -> COMPLETED once the external payout
	// is confirmed.
	MarkWithdrawalPaid(ctx context.Context, withdrawalID string) error

	// ListWithdrawalsByWallet retrieves a wallet's withdrawal requests,
	// newest first.
	ListWithdrawalsByWallet(ctx context.Context, walletID string) ([]models.WithdrawalRequest, error)
}

// PolicyStore defines the interface for managing margin policies.
type PolicyStore interface {
	// PutMarginPolicy creates or replaces a margin policy.
	PutMarginPolicy(ctx context.Context, policy *models.MarginPolicy) (*models.MarginPolicy, error)

	// ListPoliciesByService retrieves all policies configured for a service,
	// active or not.
	ListPoliciesByService(ctx context.Context, serviceID string) ([]models.MarginPolicy, error)
}
