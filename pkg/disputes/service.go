// Package disputes drives the dispute lifecycle and computes resolution fund
// splits. Fund movement goes through the wallet service; the resolution flip
// rides inside the same atomic write so a retry surfaces AlreadyResolved
// instead of paying twice.
package disputes

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
	"github.com/servly/escrow-engine/pkg/pricing"
	"github.com/servly/escrow-engine/pkg/storage"
	"github.com/servly/escrow-engine/pkg/wallet"
)

// Escrow is the slice of the wallet service dispute resolution drives.
type Escrow interface {
	Split(ctx context.Context, p wallet.SplitParams) error
	OutstandingHold(ctx context.Context, requestID string) (*models.Transaction, int64, error)
}

// Store is the slice of the data layer the dispute machine reads and flips.
type Store interface {
	storage.DisputeStore
	storage.RequestStore
	storage.OfferStore
}

// Service implements the dispute lifecycle commands.
type Service struct {
	store      Store
	escrow     Escrow
	events     events.Publisher
	feePercent int64
	window     time.Duration
	logger     *slog.Logger
}

// NewService creates a new dispute Service. window is how long after
// completion a client may still open a dispute.
func NewService(store Store, escrow Escrow, publisher events.Publisher, feePercent int64, window time.Duration, logger *slog.Logger) *Service {
	return &Service{store: store, escrow: escrow, events: publisher, feePercent: feePercent, window: window, logger: logger}
}

// OpenParams carries a new dispute.
type OpenParams struct {
	RequestID string
	Reason    string
}

// Open creates a dispute over a request's accepted offer and moves the
// request into DISPUTE. Allowed while the request is IN_PROGRESS, or for a
// window after completion. The request-status flip enforces one active
// dispute per request.
func (s *Service) Open(ctx context.Context, actor models.Actor, p OpenParams) (*models.Dispute, error) {
	if p.Reason == "" {
		return nil, fmt.Errorf("%w: a dispute reason is required", engine.ErrValidation)
	}

	req, err := s.store.GetRequest(ctx, p.RequestID)
	if err != nil {
		return nil, err
	}
	if req.AcceptedOfferID == "" {
		return nil, fmt.Errorf("%w: request has no accepted offer to dispute", engine.ErrValidation)
	}

	switch req.Status {
	case models.RequestInProgress:
		// disputable while funds are held
	case models.RequestCompleted:
		if req.CompletedAt == nil || time.Since(*req.CompletedAt) > s.window {
			return nil, fmt.Errorf("%w: dispute window has closed", engine.ErrValidation)
		}
	default:
		return nil, fmt.Errorf("%w: request cannot be disputed in its current state", engine.ErrValidation)
	}

	offer, err := s.store.GetOffer(ctx, req.AcceptedOfferID)
	if err != nil {
		return nil, err
	}
	if actor.UserID != req.ClientID && actor.UserID != offer.ProviderID {
		return nil, fmt.Errorf("%w: only the client or provider may open a dispute", engine.ErrUnauthorized)
	}

	now := time.Now().UTC()
	dispute := &models.Dispute{
		ID:          uuid.New().String(),
		RequestID:   req.ID,
		OfferID:     offer.ID,
		ClientID:    req.ClientID,
		ProviderID:  offer.ProviderID,
		InitiatedBy: actor.UserID,
		Reason:      p.Reason,
		Status:      models.DisputeOpen,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	dispute, err = s.store.OpenDispute(ctx, dispute, storage.RequestTransition{
		ID:   req.ID,
		From: req.Status,
		To:   models.RequestDispute,
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{Kind: events.KindDisputeOpened, DisputeID: dispute.ID, RequestID: req.ID})
	return dispute, nil
}

// AddReply appends to the dispute thread. Only the dispute's parties may
// reply, and only while the dispute is still open or in review.
func (s *Service) AddReply(ctx context.Context, actor models.Actor, disputeID, content string) (*models.DisputeReply, error) {
	if content == "" {
		return nil, fmt.Errorf("%w: reply content is required", engine.ErrValidation)
	}

	dispute, err := s.store.GetDispute(ctx, disputeID)
	if err != nil {
		return nil, err
	}
	if !dispute.Party(actor.UserID) {
		return nil, fmt.Errorf("%w: only the dispute's parties may reply", engine.ErrUnauthorized)
	}
	if dispute.Status.Terminal() {
		return nil, fmt.Errorf("%w: dispute is closed to replies", engine.ErrValidation)
	}

	return s.store.AddDisputeReply(ctx, &models.DisputeReply{
		DisputeID: disputeID,
		ID:        uuid.New().String(),
		UserID:    actor.UserID,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	})
}

// StartReview moves an OPEN dispute into administrative review.
func (s *Service) StartReview(ctx context.Context, actor models.Actor, disputeID string) error {
	if !actor.Admin {
		return fmt.Errorf("%w: only admins may review disputes", engine.ErrUnauthorized)
	}
	return s.store.StartDisputeReview(ctx, disputeID)
}

// ResolveParams carries an administrative resolution.
type ResolveParams struct {
	DisputeID        string
	Outcome          models.DisputeStatus
	RefundPercentage int // PARTIAL only, 0-100
	Resolution       string
}

// Resolve settles an IN_REVIEW dispute. The held amount is split per the
// outcome: full refund for the client, full release (net of platform fee)
// for the provider, or a percentage split. Both legs of a split are one
// atomic unit; a repeat resolution fails with AlreadyResolved and moves no
// funds.
func (s *Service) Resolve(ctx context.Context, actor models.Actor, p ResolveParams) (*models.Dispute, error) {
	if !actor.Admin {
		return nil, fmt.Errorf("%w: only admins may resolve disputes", engine.ErrUnauthorized)
	}

	dispute, err := s.store.GetDispute(ctx, p.DisputeID)
	if err != nil {
		return nil, err
	}
	if dispute.Status.Terminal() {
		return nil, storage.ErrAlreadyResolved
	}
	if dispute.Status != models.DisputeInReview {
		return nil, fmt.Errorf("%w: dispute must be in review to resolve", engine.ErrValidation)
	}

	var pct int
	switch p.Outcome {
	case models.DisputeResolvedClient:
		pct = 100
	case models.DisputeResolvedProvider:
		pct = 0
	case models.DisputeResolvedPartial:
		if p.RefundPercentage < 0 || p.RefundPercentage > 100 {
			return nil, fmt.Errorf("%w: refund percentage must be between 0 and 100", engine.ErrValidation)
		}
		pct = p.RefundPercentage
	default:
		return nil, fmt.Errorf("%w: unknown resolution outcome", engine.ErrValidation)
	}

	// The client outcome undoes the request; the others complete it.
	requestTo := models.RequestCompleted
	if p.Outcome == models.DisputeResolvedClient {
		requestTo = models.RequestCanceled
	}

	_, held, err := s.escrow.OutstandingHold(ctx, dispute.RequestID)
	if errors.Is(err, storage.ErrNotFound) {
		// Post-completion dispute: funds were already disposed at approval.
		// Record the outcome; corrections to settled funds are out of scope.
		err = s.store.ResolveDisputeUnfunded(ctx,
			storage.DisputeTransition{
				ID:               dispute.ID,
				To:               p.Outcome,
				Resolution:       p.Resolution,
				RefundPercentage: pct,
			},
			&storage.RequestTransition{
				ID:   dispute.RequestID,
				From: models.RequestDispute,
				To:   models.RequestCompleted,
			},
		)
		if err != nil {
			return nil, err
		}
		return s.finishResolve(ctx, dispute, p.Outcome, p.Resolution, 0, pct)
	}
	if err != nil {
		return nil, err
	}

	refund := pricing.PercentShare(held, int64(pct))
	fee := pricing.PercentShare(held-refund, s.feePercent)

	err = s.escrow.Split(ctx, wallet.SplitParams{
		RequestID:        dispute.RequestID,
		DisputeID:        dispute.ID,
		ProviderWalletID: dispute.ProviderID,
		RefundAmount:     refund,
		Fee:              fee,
		OfferID:          dispute.OfferID,
		Request: &storage.RequestTransition{
			ID:   dispute.RequestID,
			From: models.RequestDispute,
			To:   requestTo,
		},
		Dispute: &storage.DisputeTransition{
			ID:               dispute.ID,
			To:               p.Outcome,
			Resolution:       p.Resolution,
			RefundAmount:     refund,
			RefundPercentage: pct,
		},
	})
	if err != nil {
		return nil, err
	}

	return s.finishResolve(ctx, dispute, p.Outcome, p.Resolution, refund, pct)
}

// Cancel withdraws a dispute. The initiator may withdraw while the dispute
// is OPEN; admins may cancel until resolution. The request returns to where
// the funds say it belongs: IN_PROGRESS if the hold is still outstanding,
// COMPLETED otherwise.
func (s *Service) Cancel(ctx context.Context, actor models.Actor, disputeID string) error {
	dispute, err := s.store.GetDispute(ctx, disputeID)
	if err != nil {
		return err
	}
	if !actor.Admin {
		if actor.UserID != dispute.InitiatedBy {
			return fmt.Errorf("%w: only the initiator or an admin may cancel a dispute", engine.ErrUnauthorized)
		}
		if dispute.Status != models.DisputeOpen {
			return fmt.Errorf("%w: withdrawal requires admin approval once review has started", engine.ErrValidation)
		}
	}
	if dispute.Status.Terminal() {
		return storage.ErrAlreadyResolved
	}

	requestTo := models.RequestCompleted
	if _, _, err := s.escrow.OutstandingHold(ctx, dispute.RequestID); err == nil {
		requestTo = models.RequestInProgress
	} else if !errors.Is(err, storage.ErrNotFound) {
		return err
	}

	return s.store.CancelDispute(ctx, disputeID, storage.RequestTransition{
		ID:   dispute.RequestID,
		From: models.RequestDispute,
		To:   requestTo,
	})
}

func (s *Service) finishResolve(ctx context.Context, dispute *models.Dispute, outcome models.DisputeStatus, resolution string, refund int64, pct int) (*models.Dispute, error) {
	s.logger.Info("dispute resolved",
		"dispute_id", dispute.ID,
		"request_id", dispute.RequestID,
		"outcome", outcome,
		"refund_amount", refund,
		"refund_percentage", pct,
	)
	s.publish(ctx, events.Event{Kind: events.KindDisputeResolved, DisputeID: dispute.ID, RequestID: dispute.RequestID, Amount: refund, Detail: string(outcome)})

	dispute.Status = outcome
	dispute.Resolution = resolution
	dispute.RefundAmount = refund
	dispute.RefundPercentage = pct
	return dispute, nil
}

func (s *Service) publish(ctx context.Context, ev events.Event) {
	ev.At = time.Now().UTC()
	if err := s.events.Publish(ctx, ev); err != nil {
		s.logger.Error("failed to publish event", "kind", ev.Kind, "error", err)
	}
}
