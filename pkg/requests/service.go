// Package requests drives the request/offer state machine. It never touches
// balances directly; every fund movement goes through the wallet service,
// with the state flips riding inside the same atomic write.
package requests

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/servly/escrow-engine/pkg/engine"
	"github.com/servly/escrow-engine/pkg/models"
	"github.com/servly/escrow-engine/pkg/pricing"
	"github.com/servly/escrow-engine/pkg/storage"
	"github.com/servly/escrow-engine/pkg/wallet"
)

// Escrow is the slice of the wallet service the state machine drives.
type Escrow interface {
	Hold(ctx context.Context, p wallet.HoldParams) (*models.Transaction, error)
	Release(ctx context.Context, p wallet.ReleaseParams) error
	Refund(ctx context.Context, p wallet.RefundParams) error
	OutstandingHold(ctx context.Context, requestID string) (*models.Transaction, int64, error)
}

// Store is the slice of the data layer the state machine reads and flips.
type Store interface {
	storage.RequestStore
	storage.OfferStore
	storage.PolicyStore
}

// Service implements the request/offer lifecycle commands.
type Service struct {
	store      Store
	escrow     Escrow
	feePercent int64
	logger     *slog.Logger
}

// NewService creates a new request Service. feePercent is the platform fee
// charged on released escrow, in whole percent.
func NewService(store Store, escrow Escrow, feePercent int64, logger *slog.Logger) *Service {
	return &Service{store: store, escrow: escrow, feePercent: feePercent, logger: logger}
}

// CreateRequestParams carries the client's service ask.
type CreateRequestParams struct {
	ServiceID   string
	Description string
	Budget      int64
}

// CreateRequest opens a new request for the acting client.
func (s *Service) CreateRequest(ctx context.Context, actor models.Actor, p CreateRequestParams) (*models.Request, error) {
	if p.ServiceID == "" {
		return nil, fmt.Errorf("%w: service id is required", engine.ErrValidation)
	}
	if p.Budget < 0 {
		return nil, fmt.Errorf("%w: budget cannot be negative", engine.ErrValidation)
	}

	now := time.Now().UTC()
	req := &models.Request{
		ID:          uuid.New().String(),
		ClientID:    actor.UserID,
		ServiceID:   p.ServiceID,
		Description: p.Description,
		Budget:      p.Budget,
		Status:      models.RequestOpen,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return s.store.CreateRequest(ctx, req)
}

// SubmitOfferParams carries a provider's bid.
type SubmitOfferParams struct {
	RequestID     string
	ProposedPrice int64
	ProposedDays  int
}

// SubmitOffer places a PENDING offer on an OPEN request.
func (s *Service) SubmitOffer(ctx context.Context, actor models.Actor, p SubmitOfferParams) (*models.Offer, error) {
	if p.ProposedPrice <= 0 {
		return nil, fmt.Errorf("%w: proposed price must be positive", engine.ErrValidation)
	}
	if p.ProposedDays <= 0 {
		return nil, fmt.Errorf("%w: proposed days must be positive", engine.ErrValidation)
	}

	req, err := s.store.GetRequest(ctx, p.RequestID)
	if err != nil {
		return nil, err
	}
	if req.Status != models.RequestOpen {
		return nil, fmt.Errorf("%w: request is not open for offers", engine.ErrValidation)
	}
	if req.ClientID == actor.UserID {
		return nil, fmt.Errorf("%w: cannot offer on own request", engine.ErrValidation)
	}

	now := time.Now().UTC()
	offer := &models.Offer{
		ID:            uuid.New().String(),
		RequestID:     req.ID,
		ProviderID:    actor.UserID,
		ProposedPrice: p.ProposedPrice,
		ProposedDays:  p.ProposedDays,
		Status:        models.OfferPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	return s.store.CreateOffer(ctx, offer)
}

// AcceptOffer is the critical multi-entity transaction: resolve the margin
// policy into the final price, place the escrow hold, accept the offer,
// reject its siblings, and move the request to IN_PROGRESS, all or nothing.
// A concurrent second accept fails with AlreadyAccepted; a failed hold
// leaves the offer PENDING and the request OPEN.
func (s *Service) AcceptOffer(ctx context.Context, actor models.Actor, offerID string) (*models.Offer, error) {
	offer, err := s.store.GetOffer(ctx, offerID)
	if err != nil {
		return nil, err
	}
	req, err := s.store.GetRequest(ctx, offer.RequestID)
	if err != nil {
		return nil, err
	}
	if req.ClientID != actor.UserID {
		return nil, fmt.Errorf("%w: only the request's client may accept an offer", engine.ErrUnauthorized)
	}
	if offer.Status != models.OfferPending {
		return nil, storage.ErrAlreadyAccepted
	}
	if req.Status != models.RequestOpen {
		return nil, storage.ErrAlreadyAccepted
	}

	policies, err := s.store.ListPoliciesByService(ctx, req.ServiceID)
	if err != nil {
		return nil, err
	}
	quote := pricing.ComputeFinalPrice(policies, offer.ProposedPrice)

	siblings, err := s.store.ListOffersByRequest(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	var rejectIDs []string
	for _, sib := range siblings {
		if sib.ID != offer.ID && sib.Status == models.OfferPending {
			rejectIDs = append(rejectIDs, sib.ID)
		}
	}

	_, err = s.escrow.Hold(ctx, wallet.HoldParams{
		ClientID:       req.ClientID,
		Amount:         quote.FinalPrice,
		RequestID:      req.ID,
		OfferID:        offer.ID,
		RejectOfferIDs: rejectIDs,
		Request: storage.RequestTransition{
			ID:              req.ID,
			From:            models.RequestOpen,
			To:              models.RequestInProgress,
			AcceptedOfferID: offer.ID,
		},
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("offer accepted",
		"request_id", req.ID,
		"offer_id", offer.ID,
		"final_price", quote.FinalPrice,
		"margin", quote.MarginApplied,
		"policy_id", quote.PolicyID,
	)

	offer.Status = models.OfferAccepted
	offer.FinalPrice = quote.FinalPrice
	return offer, nil
}

// RejectOffer rejects a PENDING offer.
func (s *Service) RejectOffer(ctx context.Context, actor models.Actor, offerID string) error {
	offer, err := s.store.GetOffer(ctx, offerID)
	if err != nil {
		return err
	}
	req, err := s.store.GetRequest(ctx, offer.RequestID)
	if err != nil {
		return err
	}
	if req.ClientID != actor.UserID {
		return fmt.Errorf("%w: only the request's client may reject an offer", engine.ErrUnauthorized)
	}
	return s.store.RejectOffer(ctx, offerID)
}

// CancelRequest cancels an OPEN request. No funds are involved: a request
// with an accepted offer is IN_PROGRESS and must go through dispute instead.
func (s *Service) CancelRequest(ctx context.Context, actor models.Actor, requestID string) error {
	req, err := s.store.GetRequest(ctx, requestID)
	if err != nil {
		return err
	}
	if req.ClientID != actor.UserID {
		return fmt.Errorf("%w: only the request's client may cancel it", engine.ErrUnauthorized)
	}
	if req.Status != models.RequestOpen {
		return fmt.Errorf("%w: only open requests can be canceled", engine.ErrValidation)
	}
	return s.store.TransitionRequest(ctx, storage.RequestTransition{
		ID:   req.ID,
		From: models.RequestOpen,
		To:   models.RequestCanceled,
	})
}

// SubmitWork flips the work-submitted flag on the provider's accepted offer,
// gating client approval.
func (s *Service) SubmitWork(ctx context.Context, actor models.Actor, offerID string) error {
	offer, err := s.store.GetOffer(ctx, offerID)
	if err != nil {
		return err
	}
	if offer.ProviderID != actor.UserID {
		return fmt.Errorf("%w: only the offer's provider may submit work", engine.ErrUnauthorized)
	}
	if offer.Status != models.OfferAccepted {
		return fmt.Errorf("%w: work can only be submitted on an accepted offer", engine.ErrValidation)
	}
	return s.store.SetWorkSubmitted(ctx, offerID)
}

// ApproveWork releases the escrow to the provider net of the platform fee
// and completes the request, in one atomic write.
func (s *Service) ApproveWork(ctx context.Context, actor models.Actor, offerID string) error {
	offer, err := s.store.GetOffer(ctx, offerID)
	if err != nil {
		return err
	}
	req, err := s.store.GetRequest(ctx, offer.RequestID)
	if err != nil {
		return err
	}
	if req.ClientID != actor.UserID {
		return fmt.Errorf("%w: only the request's client may approve work", engine.ErrUnauthorized)
	}
	if offer.Status != models.OfferAccepted {
		return fmt.Errorf("%w: no accepted offer to approve", engine.ErrValidation)
	}
	if !offer.WorkSubmitted {
		return fmt.Errorf("%w: work has not been submitted", engine.ErrValidation)
	}
	if req.Status != models.RequestInProgress {
		return storage.ErrAlreadyProcessed
	}

	_, held, err := s.escrow.OutstandingHold(ctx, req.ID)
	if err != nil {
		return err
	}
	fee := pricing.PercentShare(held, s.feePercent)

	return s.escrow.Release(ctx, wallet.ReleaseParams{
		RequestID:  req.ID,
		ToWalletID: offer.ProviderID,
		Gross:      held,
		Fee:        fee,
		OfferID:    offer.ID,
		Request: &storage.RequestTransition{
			ID:   req.ID,
			From: models.RequestInProgress,
			To:   models.RequestCompleted,
		},
	})
}

// SetMarginPolicyParams carries an admin pricing rule.
type SetMarginPolicyParams struct {
	ServiceID   string
	MinAmount   int64
	MaxAmount   *int64
	MarginType  models.MarginType
	MarginValue int64
	Active      bool
}

// SetMarginPolicy creates a pricing rule. Existing accepted offers keep
// their frozen final price; the rule applies from the next acceptance on.
func (s *Service) SetMarginPolicy(ctx context.Context, actor models.Actor, p SetMarginPolicyParams) (*models.MarginPolicy, error) {
	if !actor.Admin {
		return nil, fmt.Errorf("%w: only admins may set margin policies", engine.ErrUnauthorized)
	}
	if p.ServiceID == "" {
		return nil, fmt.Errorf("%w: service id is required", engine.ErrValidation)
	}
	if _, err := models.ParseMarginType(string(p.MarginType)); err != nil {
		return nil, fmt.Errorf("%w: %v", engine.ErrValidation, err)
	}
	if p.MarginValue < 0 || p.MinAmount < 0 {
		return nil, fmt.Errorf("%w: margin value and bounds cannot be negative", engine.ErrValidation)
	}
	if p.MaxAmount != nil && *p.MaxAmount <= p.MinAmount {
		return nil, fmt.Errorf("%w: max amount must exceed min amount", engine.ErrValidation)
	}

	return s.store.PutMarginPolicy(ctx, &models.MarginPolicy{
		ID:          uuid.New().String(),
		ServiceID:   p.ServiceID,
		MinAmount:   p.MinAmount,
		MaxAmount:   p.MaxAmount,
		MarginType:  p.MarginType,
		MarginValue: p.MarginValue,
		Active:      p.Active,
		CreatedAt:   time.Now().UTC(),
	})
}

// ListPolicies returns the margin policies configured for a service.
func (s *Service) ListPolicies(ctx context.Context, serviceID string) ([]models.MarginPolicy, error) {
	return s.store.ListPoliciesByService(ctx, serviceID)
}
