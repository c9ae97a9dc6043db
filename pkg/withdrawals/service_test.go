package withdrawals

import (
	"context"
	"io"
	"log/slog"
	"testing"

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

func (m *mockStore) CreateWithdrawal(ctx context.Context, wr *models.WithdrawalRequest) (*models.WithdrawalRequest, error) {
	args := m.Called(ctx, wr)
	if w := args.Get(0); w != nil {
		return w.(*models.WithdrawalRequest), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockStore) GetWithdrawal(ctx context.Context, withdrawalID string) (*models.WithdrawalRequest, error) {
	args := m.Called(ctx, withdrawalID)
	if w := args.Get(0); w != nil {
		return w.(*models.WithdrawalRequest), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockStore) RejectWithdrawal(ctx context.Context, withdrawalID, note string) error {
	return m.Called(ctx, withdrawalID, note).Error(0)
}

func (m *mockStore) MarkWithdrawalPaid(ctx context.Context, withdrawalID string) error {
	return m.Called(ctx, withdrawalID).Error(0)
}

func (m *mockStore) ListWithdrawalsByWallet(ctx context.Context, walletID string) ([]models.WithdrawalRequest, error) {
	args := m.Called(ctx, walletID)
	if w := args.Get(0); w != nil {
		return w.([]models.WithdrawalRequest), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockStore) GetWallet(ctx context.Context, userID string) (*models.Wallet, error) {
	args := m.Called(ctx, userID)
	if w := args.Get(0); w != nil {
		return w.(*models.Wallet), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockStore) CreateWallet(ctx context.Context, w *models.Wallet) (*models.Wallet, error) {
	args := m.Called(ctx, w)
	if out := args.Get(0); out != nil {
		return out.(*models.Wallet), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockStore) SetWalletActive(ctx context.Context, userID string, active bool) error {
	return m.Called(ctx, userID, active).Error(0)
}

func (m *mockStore) ListWallets(ctx context.Context) ([]models.Wallet, error) {
	args := m.Called(ctx)
	if w := args.Get(0); w != nil {
		return w.([]models.Wallet), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockEscrow struct {
	mock.Mock
}

func (m *mockEscrow) Withdraw(ctx context.Context, p wallet.WithdrawParams) error {
	return m.Called(ctx, p).Error(0)
}

func newTestService(store *mockStore, escrow *mockEscrow) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(store, escrow, events.NopPublisher{}, logger)
}

func pendingWithdrawal() *models.WithdrawalRequest {
	return &models.WithdrawalRequest{
		ID: "wd-1", WalletID: "user-1", Amount: 20000,
		PaymentMethod: "bank_transfer", Status: models.WithdrawalPending,
	}
}

func TestCreate(t *testing.T) {
	actor := models.Actor{UserID: "user-1"}

	t.Run("Success Without Holding Funds", func(t *testing.T) {
		store := new(mockStore)
		svc := newTestService(store, new(mockEscrow))

		store.On("GetWallet", mock.Anything, "user-1").Return(&models.Wallet{
			UserID: "user-1", TotalBalance: 50000, AvailableBalance: 50000, IsActive: true,
		}, nil)
		store.On("CreateWithdrawal", mock.Anything, mock.MatchedBy(func(wr *models.WithdrawalRequest) bool {
			return wr.WalletID == "user-1" && wr.Status == models.WithdrawalPending && wr.Amount == 20000
		})).Once().Return(pendingWithdrawal(), nil)

		_, err := svc.Create(context.Background(), actor, CreateParams{
			Amount: 20000, PaymentMethod: "bank_transfer",
		})

		assert.NoError(t, err)
		store.AssertExpectations(t)
	})

	t.Run("Exceeds Available", func(t *testing.T) {
		store := new(mockStore)
		svc := newTestService(store, new(mockEscrow))

		store.On("GetWallet", mock.Anything, "user-1").Return(&models.Wallet{
			UserID: "user-1", TotalBalance: 50000, AvailableBalance: 10000, IsActive: true,
		}, nil)

		_, err := svc.Create(context.Background(), actor, CreateParams{
			Amount: 20000, PaymentMethod: "bank_transfer",
		})

		assert.ErrorIs(t, err, storage.ErrInsufficientFunds)
	})

	t.Run("Inactive Wallet", func(t *testing.T) {
		store := new(mockStore)
		svc := newTestService(store, new(mockEscrow))

		store.On("GetWallet", mock.Anything, "user-1").Return(&models.Wallet{
			UserID: "user-1", TotalBalance: 50000, AvailableBalance: 50000, IsActive: false,
		}, nil)

		_, err := svc.Create(context.Background(), actor, CreateParams{
			Amount: 20000, PaymentMethod: "bank_transfer",
		})

		assert.ErrorIs(t, err, storage.ErrWalletInactive)
	})
}

func TestApprove(t *testing.T) {
	admin := models.Actor{UserID: "admin-1", Admin: true}

	t.Run("Success", func(t *testing.T) {
		store := new(mockStore)
		escrow := new(mockEscrow)
		svc := newTestService(store, escrow)

		store.On("GetWithdrawal", mock.Anything, "wd-1").Return(pendingWithdrawal(), nil)
		escrow.On("Withdraw", mock.Anything, wallet.WithdrawParams{
			WalletID: "user-1", Amount: 20000, WithdrawalID: "wd-1",
		}).Once().Return(nil)

		wr, err := svc.Approve(context.Background(), admin, "wd-1")

		assert.NoError(t, err)
		assert.Equal(t, models.WithdrawalApproved, wr.Status)
		escrow.AssertExpectations(t)
	})

	t.Run("Repeat Approval Is AlreadyProcessed", func(t *testing.T) {
		store := new(mockStore)
		escrow := new(mockEscrow)
		svc := newTestService(store, escrow)

		wr := pendingWithdrawal()
		wr.Status = models.WithdrawalApproved
		store.On("GetWithdrawal", mock.Anything, "wd-1").Return(wr, nil)

		_, err := svc.Approve(context.Background(), admin, "wd-1")

		assert.ErrorIs(t, err, storage.ErrAlreadyProcessed)
		escrow.AssertNotCalled(t, "Withdraw", mock.Anything, mock.Anything)
	})

	t.Run("Balance Rechecked At Approval", func(t *testing.T) {
		store := new(mockStore)
		escrow := new(mockEscrow)
		svc := newTestService(store, escrow)

		// Funds were spent between submission and approval.
		store.On("GetWithdrawal", mock.Anything, "wd-1").Return(pendingWithdrawal(), nil)
		escrow.On("Withdraw", mock.Anything, mock.Anything).Return(storage.ErrInsufficientFunds)

		_, err := svc.Approve(context.Background(), admin, "wd-1")

		assert.ErrorIs(t, err, storage.ErrInsufficientFunds)
	})

	t.Run("Non Admin Rejected", func(t *testing.T) {
		svc := newTestService(new(mockStore), new(mockEscrow))

		_, err := svc.Approve(context.Background(), models.Actor{UserID: "user-1"}, "wd-1")

		assert.ErrorIs(t, err, engine.ErrUnauthorized)
	})
}

func TestReject(t *testing.T) {
	admin := models.Actor{UserID: "admin-1", Admin: true}

	t.Run("Requires Note", func(t *testing.T) {
		svc := newTestService(new(mockStore), new(mockEscrow))

		err := svc.Reject(context.Background(), admin, "wd-1", "")

		assert.ErrorIs(t, err, engine.ErrValidation)
	})

	t.Run("Success", func(t *testing.T) {
		store := new(mockStore)
		svc := newTestService(store, new(mockEscrow))

		store.On("RejectWithdrawal", mock.Anything, "wd-1", "payment details invalid").Once().Return(nil)

		err := svc.Reject(context.Background(), admin, "wd-1", "payment details invalid")

		assert.NoError(t, err)
		store.AssertExpectations(t)
	})
}

func TestMarkPaid(t *testing.T) {
	store := new(mockStore)
	svc := newTestService(store, new(mockEscrow))

	store.On("MarkWithdrawalPaid", mock.Anything, "wd-1").Once().Return(nil)

	err := svc.MarkPaid(context.Background(), models.Actor{UserID: "admin-1", Admin: true}, "wd-1")

	assert.NoError(t, err)
	store.AssertExpectations(t)
}
