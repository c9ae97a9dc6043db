package disputes

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/servly/escrow-engine/pkg/engine"
	"github.com/servly/escrow-engine/pkg/events"
	"github.com/servly/escrow-engine/pkg/models"
	"github.com/servly/escrow-engine/pkg/storage"
	"github.com/servly/escrow-engine/pkg/wallet"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) OpenDispute(ctx context.Context, dispute *models.Dispute, request storage.RequestTransition) (*models.Dispute, error) {
	args := m.Called(ctx, dispute, request)
	if d := args.Get(0); d != nil {
		return d.(*models.Dispute), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockStore) GetDispute(ctx context.Context, disputeID string) (*models.Dispute, error) {
	args := m.Called(ctx, disputeID)
	if d := args.Get(0); d != nil {
		return d.(*models.Dispute), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockStore) GetDisputeByRequest(ctx context.Context, requestID string) (*models.Dispute, error) {
	args := m.Called(ctx, requestID)
	if d := args.Get(0); d != nil {
		return d.(*models.Dispute), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockStore) StartDisputeReview(ctx context.Context, disputeID string) error {
	return m.Called(ctx, disputeID).Error(0)
}

func (m *mockStore) ResolveDisputeUnfunded(ctx context.Context, t storage.DisputeTransition, request *storage.RequestTransition) error {
	return m.Called(ctx, t, request).Error(0)
}

func (m *mockStore) CancelDispute(ctx context.Context, disputeID string, request storage.RequestTransition) error {
	return m.Called(ctx, disputeID, request).Error(0)
}

func (m *mockStore) AddDisputeReply(ctx context.Context, reply *models.DisputeReply) (*models.DisputeReply, error) {
	args := m.Called(ctx, reply)
	if r := args.Get(0); r != nil {
		return r.(*models.DisputeReply), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockStore) ListDisputeReplies(ctx context.Context, disputeID string) ([]models.DisputeReply, error) {
	args := m.Called(ctx, disputeID)
	if r := args.Get(0); r != nil {
		return r.([]models.DisputeReply), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockStore) CreateRequest(ctx context.Context, req *models.Request) (*models.Request, error) {
	args := m.Called(ctx, req)
	if r := args.Get(0); r != nil {
		return r.(*models.Request), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockStore) GetRequest(ctx context.Context, requestID string) (*models.Request, error) {
	args := m.Called(ctx, requestID)
	if r := args.Get(0); r != nil {
		return r.(*models.Request), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockStore) TransitionRequest(ctx context.Context, t storage.RequestTransition) error {
	return m.Called(ctx, t).Error(0)
}

func (m *mockStore) ListRequestsByClient(ctx context.Context, clientID string) ([]models.Request, error) {
	args := m.Called(ctx, clientID)
	if r := args.Get(0); r != nil {
		return r.([]models.Request), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockStore) CreateOffer(ctx context.Context, offer *models.Offer) (*models.Offer, error) {
	args := m.Called(ctx, offer)
	if o := args.Get(0); o != nil {
		return o.(*models.Offer), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockStore) GetOffer(ctx context.Context, offerID string) (*models.Offer, error) {
	args := m.Called(ctx, offerID)
	if o := args.Get(0); o != nil {
		return o.(*models.Offer), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockStore) ListOffersByRequest(ctx context.Context, requestID string) ([]models.Offer, error) {
	args := m.Called(ctx, requestID)
	if o := args.Get(0); o != nil {
		return o.([]models.Offer), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockStore) RejectOffer(ctx context.Context, offerID string) error {
	return m.Called(ctx, offerID).Error(0)
}

func (m *mockStore) SetWorkSubmitted(ctx context.Context, offerID string) error {
	return m.Called(ctx, offerID).Error(0)
}

type mockEscrow struct {
	mock.Mock
}

func (m *mockEscrow) Split(ctx context.Context, p wallet.SplitParams) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockEscrow) OutstandingHold(ctx context.Context, requestID string) (*models.Transaction, int64, error) {
	args := m.Called(ctx, requestID)
	if tx := args.Get(0); tx != nil {
		return tx.(*models.Transaction), args.Get(1).(int64), args.Error(2)
	}
	return nil, args.Get(1).(int64), args.Error(2)
}

func newTestService(store *mockStore, escrow *mockEscrow) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(store, escrow, events.NopPublisher{}, 10, 7*24*time.Hour, logger)
}

func inProgressRequest() *models.Request {
	return &models.Request{
		ID: "req-1", ClientID: "client-1", ServiceID: "svc-1",
		Status: models.RequestInProgress, AcceptedOfferID: "offer-1",
	}
}

func acceptedOffer() *models.Offer {
	return &models.Offer{
		ID: "offer-1", RequestID: "req-1", ProviderID: "provider-1",
		ProposedPrice: 50000, FinalPrice: 55000, Status: models.OfferAccepted,
	}
}

func reviewDispute() *models.Dispute {
	return &models.Dispute{
		ID: "disp-1", RequestID: "req-1", OfferID: "offer-1",
		ClientID: "client-1", ProviderID: "provider-1", InitiatedBy: "client-1",
		Reason: "work not as described", Status: models.DisputeInReview,
	}
}

func heldTx(amount int64) *models.Transaction {
	return &models.Transaction{ID: "tx-hold-1", WalletID: "client-1", Amount: -amount, Type: models.TxEscrowHold, Status: models.TxPending}
}

func TestOpen(t *testing.T) {
	t.Run("Client Opens While In Progress", func(t *testing.T) {
		store := new(mockStore)
		svc := newTestService(store, new(mockEscrow))

		store.On("GetRequest", mock.Anything, "req-1").Return(inProgressRequest(), nil)
		store.On("GetOffer", mock.Anything, "offer-1").Return(acceptedOffer(), nil)
		store.On("OpenDispute", mock.Anything, mock.MatchedBy(func(d *models.Dispute) bool {
			return d.Status == models.DisputeOpen && d.InitiatedBy == "client-1" && d.ProviderID == "provider-1"
		}), storage.RequestTransition{
			ID: "req-1", From: models.RequestInProgress, To: models.RequestDispute,
		}).Once().Return(reviewDispute(), nil)

		_, err := svc.Open(context.Background(), models.Actor{UserID: "client-1"}, OpenParams{
			RequestID: "req-1", Reason: "work not as described",
		})

		assert.NoError(t, err)
		store.AssertExpectations(t)
	})

	t.Run("Provider May Open Too", func(t *testing.T) {
		store := new(mockStore)
		svc := newTestService(store, new(mockEscrow))

		store.On("GetRequest", mock.Anything, "req-1").Return(inProgressRequest(), nil)
		store.On("GetOffer", mock.Anything, "offer-1").Return(acceptedOffer(), nil)
		store.On("OpenDispute", mock.Anything, mock.Anything, mock.Anything).Return(reviewDispute(), nil)

		_, err := svc.Open(context.Background(), models.Actor{UserID: "provider-1"}, OpenParams{
			RequestID: "req-1", Reason: "client unresponsive",
		})

		assert.NoError(t, err)
	})

	t.Run("Third Party Rejected", func(t *testing.T) {
		store := new(mockStore)
		svc := newTestService(store, new(mockEscrow))

		store.On("GetRequest", mock.Anything, "req-1").Return(inProgressRequest(), nil)
		store.On("GetOffer", mock.Anything, "offer-1").Return(acceptedOffer(), nil)

		_, err := svc.Open(context.Background(), models.Actor{UserID: "intruder"}, OpenParams{
			RequestID: "req-1", Reason: "grievance",
		})

		assert.ErrorIs(t, err, engine.ErrUnauthorized)
	})

	t.Run("Inside Completion Window", func(t *testing.T) {
		store := new(mockStore)
		svc := newTestService(store, new(mockEscrow))

		completed := time.Now().UTC().Add(-48 * time.Hour)
		req := inProgressRequest()
		req.Status = models.RequestCompleted
		req.CompletedAt = &completed
		store.On("GetRequest", mock.Anything, "req-1").Return(req, nil)
		store.On("GetOffer", mock.Anything, "offer-1").Return(acceptedOffer(), nil)
		store.On("OpenDispute", mock.Anything, mock.Anything, storage.RequestTransition{
			ID: "req-1", From: models.RequestCompleted, To: models.RequestDispute,
		}).Once().Return(reviewDispute(), nil)

		_, err := svc.Open(context.Background(), models.Actor{UserID: "client-1"}, OpenParams{
			RequestID: "req-1", Reason: "defect surfaced later",
		})

		assert.NoError(t, err)
		store.AssertExpectations(t)
	})

	t.Run("Window Closed", func(t *testing.T) {
		store := new(mockStore)
		svc := newTestService(store, new(mockEscrow))

		completed := time.Now().UTC().Add(-30 * 24 * time.Hour)
		req := inProgressRequest()
		req.Status = models.RequestCompleted
		req.CompletedAt = &completed
		store.On("GetRequest", mock.Anything, "req-1").Return(req, nil)

		_, err := svc.Open(context.Background(), models.Actor{UserID: "client-1"}, OpenParams{
			RequestID: "req-1", Reason: "too late",
		})

		assert.ErrorIs(t, err, engine.ErrValidation)
	})
}

func TestAddReply(t *testing.T) {
	t.Run("Party Replies", func(t *testing.T) {
		store := new(mockStore)
		svc := newTestService(store, new(mockEscrow))

		store.On("GetDispute", mock.Anything, "disp-1").Return(reviewDispute(), nil)
		store.On("AddDisputeReply", mock.Anything, mock.MatchedBy(func(r *models.DisputeReply) bool {
			return r.DisputeID == "disp-1" && r.UserID == "provider-1"
		})).Once().Return(&models.DisputeReply{ID: "reply-1"}, nil)

		_, err := svc.AddReply(context.Background(), models.Actor{UserID: "provider-1"}, "disp-1", "work was delivered")

		assert.NoError(t, err)
		store.AssertExpectations(t)
	})

	t.Run("Outsider Rejected", func(t *testing.T) {
		store := new(mockStore)
		svc := newTestService(store, new(mockEscrow))

		store.On("GetDispute", mock.Anything, "disp-1").Return(reviewDispute(), nil)

		_, err := svc.AddReply(context.Background(), models.Actor{UserID: "intruder"}, "disp-1", "hello")

		assert.ErrorIs(t, err, engine.ErrUnauthorized)
	})

	t.Run("Closed Dispute Rejected", func(t *testing.T) {
		store := new(mockStore)
		svc := newTestService(store, new(mockEscrow))

		d := reviewDispute()
		d.Status = models.DisputeResolvedClient
		store.On("GetDispute", mock.Anything, "disp-1").Return(d, nil)

		_, err := svc.AddReply(context.Background(), models.Actor{UserID: "client-1"}, "disp-1", "more")

		assert.ErrorIs(t, err, engine.ErrValidation)
	})
}

func TestResolve(t *testing.T) {
	admin := models.Actor{UserID: "admin-1", Admin: true}

	t.Run("Partial Split At Forty Percent", func(t *testing.T) {
		store := new(mockStore)
		escrow := new(mockEscrow)
		svc := newTestService(store, escrow)

		store.On("GetDispute", mock.Anything, "disp-1").Return(reviewDispute(), nil)
		escrow.On("OutstandingHold", mock.Anything, "req-1").Return(heldTx(55000), int64(55000), nil)
		escrow.On("Split", mock.Anything, mock.MatchedBy(func(p wallet.SplitParams) bool {
			// 40% of 55,000 back to the client; fee on the released 33,000.
			return p.RefundAmount == 22000 &&
				p.Fee == 3300 &&
				p.ProviderWalletID == "provider-1" &&
				p.Request.To == models.RequestCompleted &&
				p.Dispute.To == models.DisputeResolvedPartial &&
				p.Dispute.RefundPercentage == 40
		})).Once().Return(nil)

		resolved, err := svc.Resolve(context.Background(), admin, ResolveParams{
			DisputeID: "disp-1", Outcome: models.DisputeResolvedPartial, RefundPercentage: 40, Resolution: "split the difference",
		})

		assert.NoError(t, err)
		assert.Equal(t, models.DisputeResolvedPartial, resolved.Status)
		assert.Equal(t, int64(22000), resolved.RefundAmount)
		escrow.AssertExpectations(t)
	})

	t.Run("Client Outcome Cancels Request", func(t *testing.T) {
		store := new(mockStore)
		escrow := new(mockEscrow)
		svc := newTestService(store, escrow)

		store.On("GetDispute", mock.Anything, "disp-1").Return(reviewDispute(), nil)
		escrow.On("OutstandingHold", mock.Anything, "req-1").Return(heldTx(55000), int64(55000), nil)
		escrow.On("Split", mock.Anything, mock.MatchedBy(func(p wallet.SplitParams) bool {
			return p.RefundAmount == 55000 && p.Fee == 0 && p.Request.To == models.RequestCanceled
		})).Once().Return(nil)

		_, err := svc.Resolve(context.Background(), admin, ResolveParams{
			DisputeID: "disp-1", Outcome: models.DisputeResolvedClient,
		})

		assert.NoError(t, err)
		escrow.AssertExpectations(t)
	})

	t.Run("Provider Outcome Releases All", func(t *testing.T) {
		store := new(mockStore)
		escrow := new(mockEscrow)
		svc := newTestService(store, escrow)

		store.On("GetDispute", mock.Anything, "disp-1").Return(reviewDispute(), nil)
		escrow.On("OutstandingHold", mock.Anything, "req-1").Return(heldTx(55000), int64(55000), nil)
		escrow.On("Split", mock.Anything, mock.MatchedBy(func(p wallet.SplitParams) bool {
			return p.RefundAmount == 0 && p.Fee == 5500 && p.Request.To == models.RequestCompleted
		})).Once().Return(nil)

		_, err := svc.Resolve(context.Background(), admin, ResolveParams{
			DisputeID: "disp-1", Outcome: models.DisputeResolvedProvider,
		})

		assert.NoError(t, err)
		escrow.AssertExpectations(t)
	})

	t.Run("Unfunded Resolution Records Outcome Only", func(t *testing.T) {
		store := new(mockStore)
		escrow := new(mockEscrow)
		svc := newTestService(store, escrow)

		store.On("GetDispute", mock.Anything, "disp-1").Return(reviewDispute(), nil)
		escrow.On("OutstandingHold", mock.Anything, "req-1").Return(nil, int64(0), storage.ErrNotFound)
		store.On("ResolveDisputeUnfunded", mock.Anything, mock.MatchedBy(func(tr storage.DisputeTransition) bool {
			return tr.To == models.DisputeResolvedProvider && tr.RefundAmount == 0
		}), mock.Anything).Once().Return(nil)

		resolved, err := svc.Resolve(context.Background(), admin, ResolveParams{
			DisputeID: "disp-1", Outcome: models.DisputeResolvedProvider,
		})

		assert.NoError(t, err)
		assert.Zero(t, resolved.RefundAmount)
		escrow.AssertNotCalled(t, "Split", mock.Anything, mock.Anything)
		store.AssertExpectations(t)
	})

	t.Run("Non Admin Rejected", func(t *testing.T) {
		svc := newTestService(new(mockStore), new(mockEscrow))

		_, err := svc.Resolve(context.Background(), models.Actor{UserID: "client-1"}, ResolveParams{
			DisputeID: "disp-1", Outcome: models.DisputeResolvedClient,
		})

		assert.ErrorIs(t, err, engine.ErrUnauthorized)
	})

	t.Run("Already Resolved", func(t *testing.T) {
		store := new(mockStore)
		svc := newTestService(store, new(mockEscrow))

		d := reviewDispute()
		d.Status = models.DisputeResolvedPartial
		store.On("GetDispute", mock.Anything, "disp-1").Return(d, nil)

		_, err := svc.Resolve(context.Background(), admin, ResolveParams{
			DisputeID: "disp-1", Outcome: models.DisputeResolvedClient,
		})

		assert.ErrorIs(t, err, storage.ErrAlreadyResolved)
	})

	t.Run("Percentage Out Of Range", func(t *testing.T) {
		store := new(mockStore)
		svc := newTestService(store, new(mockEscrow))

		store.On("GetDispute", mock.Anything, "disp-1").Return(reviewDispute(), nil)

		_, err := svc.Resolve(context.Background(), admin, ResolveParams{
			DisputeID: "disp-1", Outcome: models.DisputeResolvedPartial, RefundPercentage: 150,
		})

		assert.ErrorIs(t, err, engine.ErrValidation)
	})
}

func TestCancel(t *testing.T) {
	t.Run("Initiator While Open", func(t *testing.T) {
		store := new(mockStore)
		escrow := new(mockEscrow)
		svc := newTestService(store, escrow)

		d := reviewDispute()
		d.Status = models.DisputeOpen
		store.On("GetDispute", mock.Anything, "disp-1").Return(d, nil)
		escrow.On("OutstandingHold", mock.Anything, "req-1").Return(heldTx(55000), int64(55000), nil)
		store.On("CancelDispute", mock.Anything, "disp-1", storage.RequestTransition{
			ID: "req-1", From: models.RequestDispute, To: models.RequestInProgress,
		}).Once().Return(nil)

		err := svc.Cancel(context.Background(), models.Actor{UserID: "client-1"}, "disp-1")

		assert.NoError(t, err)
		store.AssertExpectations(t)
	})

	t.Run("Initiator Blocked Once In Review", func(t *testing.T) {
		store := new(mockStore)
		svc := newTestService(store, new(mockEscrow))

		store.On("GetDispute", mock.Anything, "disp-1").Return(reviewDispute(), nil)

		err := svc.Cancel(context.Background(), models.Actor{UserID: "client-1"}, "disp-1")

		assert.ErrorIs(t, err, engine.ErrValidation)
	})

	t.Run("Admin Cancel Restores Completed When Unfunded", func(t *testing.T) {
		store := new(mockStore)
		escrow := new(mockEscrow)
		svc := newTestService(store, escrow)

		store.On("GetDispute", mock.Anything, "disp-1").Return(reviewDispute(), nil)
		escrow.On("OutstandingHold", mock.Anything, "req-1").Return(nil, int64(0), storage.ErrNotFound)
		store.On("CancelDispute", mock.Anything, "disp-1", storage.RequestTransition{
			ID: "req-1", From: models.RequestDispute, To: models.RequestCompleted,
		}).Once().Return(nil)

		err := svc.Cancel(context.Background(), models.Actor{UserID: "admin-1", Admin: true}, "disp-1")

		assert.NoError(t, err)
		store.AssertExpectations(t)
	})
}
