// Package wallet is the only gateway to balance mutation. Every operation is
// pure ledger arithmetic applied as one atomic storage write; business rules
// (who may trigger what, and when) live in the orchestrating state machines.
package wallet

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/servly/escrow-engine/pkg/engine"
	"github.com/servly/escrow-engine/pkg/events"
	"github.com/servly/escrow-engine/pkg/models"
	"github.com/servly/escrow-engine/pkg/storage"
)

// Store is the slice of the data layer the wallet service needs.
type Store interface {
	storage.WalletStore
	storage.LedgerReader
	storage.LedgerApplier
}

// Service implements the deposit/hold/release/refund/withdraw primitives.
// Each call touches one or two wallets and is value-neutral across them,
// except deposit and withdraw, the only boundary operations with the outside
// world.
type Service struct {
	store  Store
	events events.Publisher
	logger *slog.Logger
}

// NewService creates a new wallet Service.
func NewService(store Store, publisher events.Publisher, logger *slog.Logger) *Service {
	return &Service{store: store, events: publisher, logger: logger}
}

// Deposit books an externally confirmed inflow. The wallet is created on
// first deposit.
func (s *Service) Deposit(ctx context.Context, userID string, amount int64, currency string) (*models.Wallet, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: deposit amount must be positive", engine.ErrValidation)
	}

	w, err := s.store.GetWallet(ctx, userID)
	if errors.Is(err, storage.ErrWalletNotFound) {
		w, err = s.store.CreateWallet(ctx, &models.Wallet{
			UserID:   userID,
			Currency: currency,
			IsActive: true,
		})
	}
	if err != nil {
		return nil, err
	}

	tx := s.newTransaction(w.UserID, amount, models.TxDeposit, models.TxCompleted)
	if err := s.store.ApplyDeposit(ctx, storage.DepositParams{Wallet: w, Tx: tx}); err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{Kind: events.KindDeposited, WalletID: w.UserID, Amount: amount})
	return s.store.GetWallet(ctx, userID)
}

// HoldParams describes an escrow hold placed at offer acceptance. Request is
// the acceptance flip that must commit atomically with the hold.
type HoldParams struct {
	ClientID       string
	Amount         int64
	RequestID      string
	OfferID        string
	RejectOfferIDs []string
	Request        storage.RequestTransition
}

// Hold earmarks the final price on the client's wallet. Available balance
// drops; total is untouched (held funds remain part of total). Fails with
// InsufficientFunds or WalletInactive; on failure nothing changes, including
// the request and offer rows riding in the same write.
func (s *Service) Hold(ctx context.Context, p HoldParams) (*models.Transaction, error) {
	if p.Amount <= 0 {
		return nil, fmt.Errorf("%w: hold amount must be positive", engine.ErrValidation)
	}

	w, err := s.store.GetWallet(ctx, p.ClientID)
	if err != nil {
		return nil, err
	}
	if !w.IsActive {
		return nil, storage.ErrWalletInactive
	}
	if w.AvailableBalance < p.Amount {
		return nil, storage.ErrInsufficientFunds
	}

	holdTx := s.newTransaction(w.UserID, -p.Amount, models.TxEscrowHold, models.TxPending)
	holdTx.RelatedRequestID = p.RequestID
	holdTx.RelatedOfferID = p.OfferID

	err = s.store.ApplyHold(ctx, storage.HoldParams{
		Wallet:         w,
		HoldTx:         holdTx,
		Request:        p.Request,
		AcceptOfferID:  p.OfferID,
		FinalPrice:     p.Amount,
		RejectOfferIDs: p.RejectOfferIDs,
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{Kind: events.KindEscrowHeld, WalletID: w.UserID, RequestID: p.RequestID, OfferID: p.OfferID, Amount: p.Amount})
	return holdTx, nil
}

// ReleaseParams describes moving the full outstanding hold to the payee, net
// of the platform fee.
type ReleaseParams struct {
	RequestID  string
	ToWalletID string
	Gross      int64
	Fee        int64
	OfferID    string
	Request    *storage.RequestTransition
}

// Release moves a held amount out of the payer's hold and credits the payee
// with gross minus fee, booking the PLATFORM_FEE record alongside. Releasing
// more than held is OverRelease, never clamped. Releasing less than held
// requires the explicit refund leg of Split, so no sliver of a hold is ever
// left stranded.
func (s *Service) Release(ctx context.Context, p ReleaseParams) error {
	return s.dispose(ctx, disposal{
		requestID:  p.RequestID,
		payeeID:    p.ToWalletID,
		release:    p.Gross,
		fee:        p.Fee,
		offerID:    p.OfferID,
		request:    p.Request,
		exactGross: true,
	})
}

// RefundParams describes restoring the full outstanding hold to the payer.
type RefundParams struct {
	RequestID string
	OfferID   string
	Request   *storage.RequestTransition
}

// Refund reverses the whole hold back to the original payer's available
// balance. Total is unchanged: held funds had never left it.
func (s *Service) Refund(ctx context.Context, p RefundParams) error {
	return s.dispose(ctx, disposal{
		requestID: p.RequestID,
		refundAll: true,
		offerID:   p.OfferID,
		request:   p.Request,
	})
}

// SplitParams describes a dispute outcome dividing one hold between a refund
// to the client and a release to the provider.
type SplitParams struct {
	RequestID        string
	DisputeID        string
	ProviderWalletID string
	RefundAmount     int64
	Fee              int64
	OfferID          string
	Request          *storage.RequestTransition
	Dispute          *storage.DisputeTransition
}

// Split disposes of the hold in both directions at once: RefundAmount back
// to the client, the remainder (net of fee) to the provider. Both legs are
// one atomic write; a reader can never observe only one side applied.
func (s *Service) Split(ctx context.Context, p SplitParams) error {
	return s.dispose(ctx, disposal{
		requestID: p.RequestID,
		disputeID: p.DisputeID,
		payeeID:   p.ProviderWalletID,
		refund:    p.RefundAmount,
		fee:       p.Fee,
		offerID:   p.OfferID,
		request:   p.Request,
		dispute:   p.Dispute,
		splitAll:  true,
	})
}

// WithdrawParams describes an approved withdrawal.
type WithdrawParams struct {
	WalletID     string
	Amount       int64
	WithdrawalID string
}

// Withdraw debits both balances and books the WITHDRAWAL record, flipping
// the withdrawal request in the same write. The available-balance check is
// re-run inside the write, so racing approvals cannot overdraw.
func (s *Service) Withdraw(ctx context.Context, p WithdrawParams) error {
	if p.Amount <= 0 {
		return fmt.Errorf("%w: withdrawal amount must be positive", engine.ErrValidation)
	}

	w, err := s.store.GetWallet(ctx, p.WalletID)
	if err != nil {
		return err
	}
	if !w.IsActive {
		return storage.ErrWalletInactive
	}
	if w.AvailableBalance < p.Amount {
		return storage.ErrInsufficientFunds
	}

	tx := s.newTransaction(w.UserID, -p.Amount, models.TxWithdrawal, models.TxCompleted)
	err = s.store.ApplyWithdrawalApproval(ctx, storage.WithdrawalApprovalParams{
		Wallet:       w,
		Tx:           tx,
		WithdrawalID: p.WithdrawalID,
		Amount:       p.Amount,
	})
	if err != nil {
		return err
	}

	s.publish(ctx, events.Event{Kind: events.KindWithdrawalApproved, WalletID: w.UserID, WithdrawalID: p.WithdrawalID, Amount: p.Amount})
	return nil
}

// OutstandingHold returns the PENDING escrow hold for a request and its
// magnitude.
func (s *Service) OutstandingHold(ctx context.Context, requestID string) (*models.Transaction, int64, error) {
	holdTx, err := s.store.GetOutstandingHold(ctx, requestID)
	if err != nil {
		return nil, 0, err
	}
	return holdTx, -holdTx.Amount, nil
}

// disposal is the shared shape behind Release, Refund, and Split.
type disposal struct {
	requestID string
	disputeID string
	payeeID   string
	refund    int64 // to the payer
	release   int64 // gross to the payee, before fee
	fee       int64
	offerID   string
	request   *storage.RequestTransition
	dispute   *storage.DisputeTransition

	refundAll  bool // Refund: the whole hold goes back
	splitAll   bool // Split: refund fixed, remainder released
	exactGross bool // Release: gross must cover the whole hold
}

func (s *Service) dispose(ctx context.Context, d disposal) error {
	holdTx, held, err := s.OutstandingHold(ctx, d.requestID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("%w: no outstanding hold for request %s", engine.ErrValidation, d.requestID)
		}
		return err
	}

	switch {
	case d.refundAll:
		d.refund = held
	case d.splitAll:
		if d.refund < 0 || d.refund > held {
			return fmt.Errorf("%w: refund amount outside held amount", engine.ErrValidation)
		}
		d.release = held - d.refund
	case d.exactGross:
		if d.release > held {
			return storage.ErrOverRelease
		}
		if d.release < held {
			return fmt.Errorf("%w: partial release requires a refund leg", engine.ErrValidation)
		}
	}
	if d.fee < 0 || d.fee > d.release {
		return fmt.Errorf("%w: fee exceeds released amount", engine.ErrValidation)
	}
	if d.release > 0 && d.payeeID == "" {
		return fmt.Errorf("%w: release requires a payee wallet", engine.ErrValidation)
	}

	payer, err := s.store.GetWallet(ctx, holdTx.WalletID)
	if err != nil {
		return err
	}

	refundType, releaseType := models.TxEscrowRefund, models.TxEscrowRelease
	if d.disputeID != "" {
		refundType, releaseType = models.TxDisputeRefund, models.TxDisputeRelease
	}

	params := storage.DisposalParams{
		PayerWallet:  payer,
		HoldTxID:     holdTx.ID,
		HoldAmount:   held,
		RefundAmount: d.refund,
		Request:      d.request,
		Dispute:      d.dispute,
	}
	if d.refund > 0 {
		tx := s.newTransaction(payer.UserID, d.refund, refundType, models.TxCompleted)
		tx.RelatedRequestID = d.requestID
		tx.RelatedOfferID = d.offerID
		tx.RelatedDisputeID = d.disputeID
		params.RefundTx = tx
	}
	if d.release > 0 {
		payee, err := s.store.GetWallet(ctx, d.payeeID)
		if err != nil {
			return err
		}
		params.PayeeWallet = payee
		params.ReleaseNet = d.release - d.fee

		releaseTx := s.newTransaction(payee.UserID, d.release, releaseType, models.TxCompleted)
		releaseTx.RelatedRequestID = d.requestID
		releaseTx.RelatedOfferID = d.offerID
		releaseTx.RelatedDisputeID = d.disputeID
		params.ReleaseTx = releaseTx

		if d.fee > 0 {
			feeTx := s.newTransaction(payee.UserID, -d.fee, models.TxPlatformFee, models.TxCompleted)
			feeTx.RelatedRequestID = d.requestID
			feeTx.RelatedOfferID = d.offerID
			feeTx.RelatedDisputeID = d.disputeID
			params.FeeTx = feeTx
		}
	}

	if err := s.store.ApplyDisposal(ctx, params); err != nil {
		return err
	}

	if d.refund > 0 {
		s.publish(ctx, events.Event{Kind: events.KindEscrowRefunded, WalletID: payer.UserID, RequestID: d.requestID, DisputeID: d.disputeID, Amount: d.refund})
	}
	if d.release > 0 {
		s.publish(ctx, events.Event{Kind: events.KindEscrowReleased, WalletID: d.payeeID, RequestID: d.requestID, DisputeID: d.disputeID, Amount: d.release - d.fee})
	}
	return nil
}

func (s *Service) newTransaction(walletID string, amount int64, txType models.TransactionType, status models.TransactionStatus) *models.Transaction {
	return &models.Transaction{
		ID:        uuid.New().String(),
		WalletID:  walletID,
		Amount:    amount,
		Type:      txType,
		Status:    status,
		CreatedAt: time.Now().UTC(),
	}
}

func (s *Service) publish(ctx context.Context, ev events.Event) {
	ev.At = time.Now().UTC()
	if err := s.events.Publish(ctx, ev); err != nil {
		s.logger.Error("failed to publish event", "kind", ev.Kind, "error", err)
	}
}
