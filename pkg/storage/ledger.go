package storage

import (
	"context"
	"time"

	"github.com/servly/escrow-engine/pkg/models"
)

// TransactionFilter narrows a ledger listing. Zero values mean "no filter".
type TransactionFilter struct {
	Type   models.TransactionType
	Status models.TransactionStatus
	Limit  int32
}

// LedgerReader defines the interface for reading ledger data. Ledger records
// are append-only; there is no update or delete surface.
type LedgerReader interface {
	// GetTransaction retrieves a ledger record by its ID.
	GetTransaction(ctx context.Context, txID string) (*models.Transaction, error)

	// ListTransactionsByWallet retrieves a wallet's ledger records in append
	// order, newest first.
	ListTransactionsByWallet(ctx context.Context, walletID string, filter TransactionFilter) ([]models.Transaction, error)

	// GetOutstandingHold retrieves the PENDING escrow hold for a request, or
	// ErrNotFound if the request has no outstanding hold.
	GetOutstandingHold(ctx context.Context, requestID string) (*models.Transaction, error)

	// BalanceAsOf recomputes a wallet's completed-ledger balance at a point
	// in time, for audit.
	BalanceAsOf(ctx context.Context, walletID string, at time.Time) (int64, error)
}

// RequestTransition is a state-machine flip carried inside an atomic
// apply-operation. The write is conditioned on From, so a concurrent or
// repeated command fails the whole operation instead of double-applying.
type RequestTransition struct {
	ID              string
	From            models.RequestStatus
	To              models.RequestStatus
	AcceptedOfferID string
}

// DisputeTransition records a dispute resolution inside an atomic
// apply-operation. The write is conditioned on the dispute being IN_REVIEW.
type DisputeTransition struct {
	ID               string
	To               models.DisputeStatus
	Resolution       string
	RefundAmount     int64
	RefundPercentage int
}

// DepositParams describes an externally confirmed inflow.
type DepositParams struct {
	Wallet *models.Wallet      // current snapshot, for the version condition
	Tx     *models.Transaction // DEPOSIT, COMPLETED, positive amount
}

// HoldParams describes the offer-acceptance transaction: earmark the final
// price on the client's wallet and flip the request, the accepted offer, and
// every sibling offer in the same atomic write.
type HoldParams struct {
	Wallet         *models.Wallet      // client wallet snapshot
	HoldTx         *models.Transaction // ESCROW_HOLD, PENDING, negative amount
	Request        RequestTransition   // OPEN -> IN_PROGRESS
	AcceptOfferID  string
	FinalPrice     int64
	RejectOfferIDs []string // sibling PENDING offers
}

// DisposalParams describes the single atomic write that disposes of an
// outstanding escrow hold: the hold row flips PENDING -> COMPLETED, the
// payer gets RefundAmount back, and the payee is credited ReleaseNet
// (gross minus platform fee). Both wallet legs and any state-machine flips
// commit together or not at all.
type DisposalParams struct {
	PayerWallet  *models.Wallet
	HoldTxID     string
	HoldAmount   int64               // magnitude of the original hold
	RefundAmount int64               // restored to the payer's available balance
	RefundTx     *models.Transaction // nil when RefundAmount is zero

	PayeeWallet *models.Wallet      // nil on a full refund
	ReleaseNet  int64               // gross minus fee, credited to the payee
	ReleaseTx   *models.Transaction // nil on a full refund
	FeeTx       *models.Transaction // nil when the fee is zero

	Request *RequestTransition
	Dispute *DisputeTransition
}

// WithdrawalApprovalParams describes the approval write: debit the wallet,
// book the WITHDRAWAL row, and flip the request PENDING -> APPROVED. The
// balance condition is re-checked inside the write, so racing approvals
// cannot overdraw.
type WithdrawalApprovalParams struct {
	Wallet       *models.Wallet
	Tx           *models.Transaction // WITHDRAWAL, COMPLETED, negative amount
	WithdrawalID string
	Amount       int64
}

// LedgerApplier is the mutation surface of the ledger. Every operation is a
// single all-or-nothing write; on failure no partial ledger state is left
// behind.
type LedgerApplier interface {
	ApplyDeposit(ctx context.Context, p DepositParams) error
	ApplyHold(ctx context.Context, p HoldParams) error
	ApplyDisposal(ctx context.Context, p DisposalParams) error
	ApplyWithdrawalApproval(ctx context.Context, p WithdrawalApprovalParams) error
}
