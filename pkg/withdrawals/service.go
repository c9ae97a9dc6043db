// Package withdrawals handles the off-platform payout workflow. Submission
// does not hold funds; the available-balance check is re-run inside the
// approval write, so a request can be approved only against funds the wallet
// still has.
package withdrawals

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/servly/escrow-engine/pkg/engine"
	"github.com/servly/escrow-engine/pkg/events"
	"github.com/servly/escrow-engine/pkg/models"
	"github.com/servly/escrow-engine/pkg/storage"
	"github.com/servly/escrow-engine/pkg/wallet"
)

// Escrow is the slice of the wallet service approval drives.
type Escrow interface {
	Withdraw(ctx context.Context, p wallet.WithdrawParams) error
}

// Store is the slice of the data layer the withdrawal workflow uses.
type Store interface {
	storage.WithdrawalStore
	storage.WalletStore
}

// Service implements the withdrawal workflow commands.
type Service struct {
	store  Store
	escrow Escrow
	events events.Publisher
	logger *slog.Logger
}

// NewService creates a new withdrawal Service.
func NewService(store Store, escrow Escrow, publisher events.Publisher, logger *slog.Logger) *Service {
	return &Service{store: store, escrow: escrow, events: publisher, logger: logger}
}

// CreateParams carries a new payout request.
type CreateParams struct {
	Amount         int64
	PaymentMethod  string
	PaymentDetails string
}

// Create submits a payout request against the actor's own wallet. The amount
// must fit the available balance at submission, but no funds are held; the
// balance is checked again at approval.
func (s *Service) Create(ctx context.Context, actor models.Actor, p CreateParams) (*models.WithdrawalRequest, error) {
	if p.Amount <= 0 {
		return nil, fmt.Errorf("%w: withdrawal amount must be positive", engine.ErrValidation)
	}
	if p.PaymentMethod == "" {
		return nil, fmt.Errorf("%w: a payment method is required", engine.ErrValidation)
	}

	w, err := s.store.GetWallet(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	if !w.IsActive {
		return nil, storage.ErrWalletInactive
	}
	if p.Amount > w.AvailableBalance {
		return nil, storage.ErrInsufficientFunds
	}

	now := time.Now().UTC()
	return s.store.CreateWithdrawal(ctx, &models.WithdrawalRequest{
		ID:             uuid.New().String(),
		WalletID:       w.UserID,
		Amount:         p.Amount,
		PaymentMethod:  p.PaymentMethod,
		PaymentDetails: p.PaymentDetails,
		Status:         models.WithdrawalPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
}

// Approve debits the wallet and books the WITHDRAWAL ledger row, flipping
// the request PENDING -> APPROVED in the same write. Funds leave the ledger
// here; MarkPaid only records the external transfer.
func (s *Service) Approve(ctx context.Context, actor models.Actor, withdrawalID string) (*models.WithdrawalRequest, error) {
	if !actor.Admin {
		return nil, fmt.Errorf("%w: only admins may approve withdrawals", engine.ErrUnauthorized)
	}

	wr, err := s.store.GetWithdrawal(ctx, withdrawalID)
	if err != nil {
		return nil, err
	}
	if wr.Status != models.WithdrawalPending {
		return nil, storage.ErrAlreadyProcessed
	}

	err = s.escrow.Withdraw(ctx, wallet.WithdrawParams{
		WalletID:     wr.WalletID,
		Amount:       wr.Amount,
		WithdrawalID: wr.ID,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("withdrawal approved", "withdrawal_id", wr.ID, "wallet_id", wr.WalletID, "amount", wr.Amount)
	s.publish(ctx, events.Event{Kind: events.KindWithdrawalApproved, WithdrawalID: wr.ID, WalletID: wr.WalletID, Amount: wr.Amount})

	wr.Status = models.WithdrawalApproved
	return wr, nil
}

// Reject declines a PENDING payout request with an explanatory note. No
// funds move; nothing was held.
func (s *Service) Reject(ctx context.Context, actor models.Actor, withdrawalID, note string) error {
	if !actor.Admin {
		return fmt.Errorf("%w: only admins may reject withdrawals", engine.ErrUnauthorized)
	}
	if note == "" {
		return fmt.Errorf("%w: a rejection note is required", engine.ErrValidation)
	}
	return s.store.RejectWithdrawal(ctx, withdrawalID, note)
}

// MarkPaid records that the external transfer for an APPROVED withdrawal
// went out. Bookkeeping only; the ledger debit happened at approval.
func (s *Service) MarkPaid(ctx context.Context, actor models.Actor, withdrawalID string) error {
	if !actor.Admin {
		return fmt.Errorf("%w: only admins may mark withdrawals paid", engine.ErrUnauthorized)
	}
	return s.store.MarkWithdrawalPaid(ctx, withdrawalID)
}

func (s *Service) publish(ctx context.Context, ev events.Event) {
	ev.At = time.Now().UTC()
	if err := s.events.Publish(ctx, ev); err != nil {
		s.logger.Error("failed to publish event", "kind", ev.Kind, "error", err)
	}
}
