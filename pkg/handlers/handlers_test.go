package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/servly/escrow-engine/pkg/api"
	"github.com/servly/escrow-engine/pkg/disputes"
	"github.com/servly/escrow-engine/pkg/events"
	"github.com/servly/escrow-engine/pkg/models"
	"github.com/servly/escrow-engine/pkg/requests"
	"github.com/servly/escrow-engine/pkg/storage"
	"github.com/servly/escrow-engine/pkg/storage/mocks"
	"github.com/servly/escrow-engine/pkg/wallet"
	"github.com/servly/escrow-engine/pkg/withdrawals"
)

// newTestRouter wires the real services over the mocked storage layer so
// every test exercises the full handler -> service -> storage path.
func newTestRouter(store *mocks.Storage) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	publisher := events.NopPublisher{}

	walletSvc := wallet.NewService(store, publisher, logger)
	requestSvc := requests.NewService(store, walletSvc, 10, logger)
	disputeSvc := disputes.NewService(store, walletSvc, publisher, 10, 7*24*time.Hour, logger)
	withdrawalSvc := withdrawals.NewService(store, walletSvc, publisher, logger)

	h := NewApiHandler(walletSvc, requestSvc, disputeSvc, withdrawalSvc, store)
	r := chi.NewRouter()
	h.Routes(r)
	return r
}

// result is the decoded response envelope. Data stays raw so each test can
// unmarshal it into the expected payload type.
type result struct {
	OK        bool            `json:"ok"`
	Data      json.RawMessage `json:"data"`
	ErrorKind string          `json:"errorKind"`
	Message   string          `json:"message"`
}

func do(t *testing.T, router http.Handler, method, target, actorID, actorRole string, body any) (*httptest.ResponseRecorder, result) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	if actorID != "" {
		req.Header.Set("X-Actor-Id", actorID)
	}
	if actorRole != "" {
		req.Header.Set("X-Actor-Role", actorRole)
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	var res result
	if err := json.Unmarshal(rr.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode envelope: %v (body %q)", err, rr.Body.String())
	}
	return rr, res
}

func TestDeposit(t *testing.T) {
	activeWallet := &models.Wallet{
		UserID:           "client-1",
		TotalBalance:     100000,
		AvailableBalance: 100000,
		Currency:         "USD",
		IsActive:         true,
		Version:          3,
	}

	t.Run("Success", func(t *testing.T) {
		mockStorage := new(mocks.Storage)
		mockStorage.On("GetWallet", mock.Anything, "client-1").Return(activeWallet, nil)
		mockStorage.On("ApplyDeposit", mock.Anything, mock.Anything).Return(nil)

		router := newTestRouter(mockStorage)
		rr, res := do(t, router, http.MethodPost, "/wallets/client-1/deposits", "client-1", "", api.NewDeposit{Amount: 25000, Currency: "USD"})

		assert.Equal(t, http.StatusCreated, rr.Code)
		assert.True(t, res.OK)

		var returned api.Wallet
		assert.NoError(t, json.Unmarshal(res.Data, &returned))
		assert.Equal(t, "client-1", returned.UserID)
		assert.Equal(t, int64(100000), returned.TotalBalance)

		mockStorage.AssertExpectations(t)
	})

	t.Run("Missing Actor Identity", func(t *testing.T) {
		mockStorage := new(mocks.Storage)

		router := newTestRouter(mockStorage)
		rr, res := do(t, router, http.MethodPost, "/wallets/client-1/deposits", "", "", api.NewDeposit{Amount: 25000, Currency: "USD"})

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Equal(t, "Unauthorized", res.ErrorKind)
		mockStorage.AssertNotCalled(t, "ApplyDeposit", mock.Anything, mock.Anything)
	})

	t.Run("Cannot Deposit Into Another Wallet", func(t *testing.T) {
		mockStorage := new(mocks.Storage)

		router := newTestRouter(mockStorage)
		rr, res := do(t, router, http.MethodPost, "/wallets/client-1/deposits", "mallory", "", api.NewDeposit{Amount: 25000, Currency: "USD"})

		assert.Equal(t, http.StatusForbidden, rr.Code)
		assert.Equal(t, "Unauthorized", res.ErrorKind)
	})

	t.Run("Admin May Deposit For Any Wallet", func(t *testing.T) {
		mockStorage := new(mocks.Storage)
		mockStorage.On("GetWallet", mock.Anything, "client-1").Return(activeWallet, nil)
		mockStorage.On("ApplyDeposit", mock.Anything, mock.Anything).Return(nil)

		router := newTestRouter(mockStorage)
		rr, _ := do(t, router, http.MethodPost, "/wallets/client-1/deposits", "ops-1", "admin", api.NewDeposit{Amount: 25000, Currency: "USD"})

		assert.Equal(t, http.StatusCreated, rr.Code)
	})

	t.Run("Bad Request - Invalid JSON", func(t *testing.T) {
		mockStorage := new(mocks.Storage)
		router := newTestRouter(mockStorage)

		req := httptest.NewRequest(http.MethodPost, "/wallets/client-1/deposits", bytes.NewReader([]byte("{not json")))
		req.Header.Set("X-Actor-Id", "client-1")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "ValidationError")
	})

	t.Run("Version Race Is Busy", func(t *testing.T) {
		mockStorage := new(mocks.Storage)
		mockStorage.On("GetWallet", mock.Anything, "client-1").Return(activeWallet, nil)
		mockStorage.On("ApplyDeposit", mock.Anything, mock.Anything).Return(storage.ErrBusy)

		router := newTestRouter(mockStorage)
		rr, res := do(t, router, http.MethodPost, "/wallets/client-1/deposits", "client-1", "", api.NewDeposit{Amount: 25000, Currency: "USD"})

		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
		assert.Equal(t, "Busy", res.ErrorKind)
		assert.Equal(t, "the wallet is busy, retry the request", res.Message)
	})

	t.Run("Generic Storage Failure", func(t *testing.T) {
		mockStorage := new(mocks.Storage)
		mockStorage.On("GetWallet", mock.Anything, "client-1").Return(nil, errors.New("dynamodb exploded"))

		router := newTestRouter(mockStorage)
		rr, res := do(t, router, http.MethodPost, "/wallets/client-1/deposits", "client-1", "", api.NewDeposit{Amount: 25000, Currency: "USD"})

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.Equal(t, "StorageUnavailable", res.ErrorKind)
		assert.NotContains(t, res.Message, "exploded")
	})
}

func TestGetWallet(t *testing.T) {
	t.Run("Not Found", func(t *testing.T) {
		mockStorage := new(mocks.Storage)
		mockStorage.On("GetWallet", mock.Anything, "ghost").Return(nil, storage.ErrWalletNotFound)

		router := newTestRouter(mockStorage)
		rr, res := do(t, router, http.MethodGet, "/wallets/ghost", "", "", nil)

		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Equal(t, "WalletNotFound", res.ErrorKind)
	})

	t.Run("Reports Held Balance", func(t *testing.T) {
		mockStorage := new(mocks.Storage)
		mockStorage.On("GetWallet", mock.Anything, "client-1").Return(&models.Wallet{
			UserID:           "client-1",
			TotalBalance:     100000,
			AvailableBalance: 45000,
			Currency:         "USD",
			IsActive:         true,
		}, nil)

		router := newTestRouter(mockStorage)
		rr, res := do(t, router, http.MethodGet, "/wallets/client-1", "", "", nil)

		assert.Equal(t, http.StatusOK, rr.Code)

		var returned api.Wallet
		assert.NoError(t, json.Unmarshal(res.Data, &returned))
		assert.Equal(t, int64(55000), returned.HeldBalance)
	})
}

func TestSetWalletActive(t *testing.T) {
	t.Run("Admin Only", func(t *testing.T) {
		mockStorage := new(mocks.Storage)

		router := newTestRouter(mockStorage)
		rr, res := do(t, router, http.MethodPost, "/wallets/client-1/active", "client-1", "", api.SetWalletActive{Active: false})

		assert.Equal(t, http.StatusForbidden, rr.Code)
		assert.Equal(t, "Unauthorized", res.ErrorKind)
		mockStorage.AssertNotCalled(t, "SetWalletActive", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Success", func(t *testing.T) {
		mockStorage := new(mocks.Storage)
		mockStorage.On("SetWalletActive", mock.Anything, "client-1", false).Return(nil)

		router := newTestRouter(mockStorage)
		rr, res := do(t, router, http.MethodPost, "/wallets/client-1/active", "ops-1", "admin", api.SetWalletActive{Active: false})

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.True(t, res.OK)
		mockStorage.AssertExpectations(t)
	})
}

func TestAcceptOffer(t *testing.T) {
	openRequest := &models.Request{
		ID:        "req-1",
		ClientID:  "client-1",
		ServiceID: "svc-design",
		Status:    models.RequestOpen,
	}
	pendingOffer := &models.Offer{
		ID:            "offer-1",
		RequestID:     "req-1",
		ProviderID:    "provider-1",
		ProposedPrice: 50000,
		Status:        models.OfferPending,
	}
	tenPercent := []models.MarginPolicy{{
		ID:          "pol-1",
		ServiceID:   "svc-design",
		MarginType:  models.MarginPercentage,
		MarginValue: 10,
		Active:      true,
	}}

	t.Run("Prices Through Margin And Holds", func(t *testing.T) {
		offerCopy := *pendingOffer
		mockStorage := new(mocks.Storage)
		mockStorage.On("GetOffer", mock.Anything, "offer-1").Return(&offerCopy, nil)
		mockStorage.On("GetRequest", mock.Anything, "req-1").Return(openRequest, nil)
		mockStorage.On("ListPoliciesByService", mock.Anything, "svc-design").Return(tenPercent, nil)
		mockStorage.On("ListOffersByRequest", mock.Anything, "req-1").Return([]models.Offer{*pendingOffer}, nil)
		mockStorage.On("GetWallet", mock.Anything, "client-1").Return(&models.Wallet{
			UserID:           "client-1",
			TotalBalance:     100000,
			AvailableBalance: 100000,
			IsActive:         true,
		}, nil)
		mockStorage.On("ApplyHold", mock.Anything, mock.MatchedBy(func(p storage.HoldParams) bool {
			return p.FinalPrice == 55000 &&
				p.HoldTx.Amount == -55000 &&
				p.Request.To == models.RequestInProgress
		})).Return(nil)

		router := newTestRouter(mockStorage)
		rr, res := do(t, router, http.MethodPost, "/offers/offer-1/accept", "client-1", "", nil)

		assert.Equal(t, http.StatusOK, rr.Code)

		var returned api.Offer
		assert.NoError(t, json.Unmarshal(res.Data, &returned))
		assert.Equal(t, int64(55000), returned.FinalPrice)
		assert.Equal(t, string(models.OfferAccepted), returned.Status)

		mockStorage.AssertExpectations(t)
	})

	t.Run("Insufficient Funds", func(t *testing.T) {
		mockStorage := new(mocks.Storage)
		mockStorage.On("GetOffer", mock.Anything, "offer-1").Return(pendingOffer, nil)
		mockStorage.On("GetRequest", mock.Anything, "req-1").Return(openRequest, nil)
		mockStorage.On("ListPoliciesByService", mock.Anything, "svc-design").Return(tenPercent, nil)
		mockStorage.On("ListOffersByRequest", mock.Anything, "req-1").Return([]models.Offer{*pendingOffer}, nil)
		mockStorage.On("GetWallet", mock.Anything, "client-1").Return(&models.Wallet{
			UserID:           "client-1",
			TotalBalance:     10000,
			AvailableBalance: 10000,
			IsActive:         true,
		}, nil)

		router := newTestRouter(mockStorage)
		rr, res := do(t, router, http.MethodPost, "/offers/offer-1/accept", "client-1", "", nil)

		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		assert.Equal(t, "InsufficientFunds", res.ErrorKind)
		mockStorage.AssertNotCalled(t, "ApplyHold", mock.Anything, mock.Anything)
	})

	t.Run("Not The Client", func(t *testing.T) {
		mockStorage := new(mocks.Storage)
		mockStorage.On("GetOffer", mock.Anything, "offer-1").Return(pendingOffer, nil)
		mockStorage.On("GetRequest", mock.Anything, "req-1").Return(openRequest, nil)

		router := newTestRouter(mockStorage)
		rr, res := do(t, router, http.MethodPost, "/offers/offer-1/accept", "provider-1", "", nil)

		assert.Equal(t, http.StatusForbidden, rr.Code)
		assert.Equal(t, "Unauthorized", res.ErrorKind)
	})

	t.Run("Request No Longer Open", func(t *testing.T) {
		taken := *openRequest
		taken.Status = models.RequestInProgress

		mockStorage := new(mocks.Storage)
		mockStorage.On("GetOffer", mock.Anything, "offer-1").Return(pendingOffer, nil)
		mockStorage.On("GetRequest", mock.Anything, "req-1").Return(&taken, nil)

		router := newTestRouter(mockStorage)
		rr, res := do(t, router, http.MethodPost, "/offers/offer-1/accept", "client-1", "", nil)

		assert.Equal(t, http.StatusConflict, rr.Code)
		assert.Equal(t, "AlreadyAccepted", res.ErrorKind)
	})
}

func TestResolveDispute(t *testing.T) {
	t.Run("Admin Only", func(t *testing.T) {
		mockStorage := new(mocks.Storage)

		router := newTestRouter(mockStorage)
		rr, res := do(t, router, http.MethodPost, "/disputes/disp-1/resolve", "client-1", "", api.ResolveDispute{
			Outcome:    "RESOLVED_CLIENT",
			Resolution: "refund in full",
		})

		assert.Equal(t, http.StatusForbidden, rr.Code)
		assert.Equal(t, "Unauthorized", res.ErrorKind)
	})

	t.Run("Unknown Outcome", func(t *testing.T) {
		mockStorage := new(mocks.Storage)

		router := newTestRouter(mockStorage)
		rr, res := do(t, router, http.MethodPost, "/disputes/disp-1/resolve", "ops-1", "admin", api.ResolveDispute{
			Outcome: "SPLIT_THE_BABY",
		})

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "ValidationError", res.ErrorKind)
		mockStorage.AssertNotCalled(t, "GetDispute", mock.Anything, mock.Anything)
	})

	t.Run("Already Resolved", func(t *testing.T) {
		mockStorage := new(mocks.Storage)
		mockStorage.On("GetDispute", mock.Anything, "disp-1").Return(&models.Dispute{
			ID:        "disp-1",
			RequestID: "req-1",
			Status:    models.DisputeResolvedClient,
		}, nil)

		router := newTestRouter(mockStorage)
		rr, res := do(t, router, http.MethodPost, "/disputes/disp-1/resolve", "ops-1", "admin", api.ResolveDispute{
			Outcome:    "RESOLVED_CLIENT",
			Resolution: "refund in full",
		})

		assert.Equal(t, http.StatusConflict, rr.Code)
		assert.Equal(t, "AlreadyResolved", res.ErrorKind)
	})
}

func TestCreateWithdrawal(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockStorage := new(mocks.Storage)
		mockStorage.On("GetWallet", mock.Anything, "provider-1").Return(&models.Wallet{
			UserID:           "provider-1",
			TotalBalance:     80000,
			AvailableBalance: 80000,
			IsActive:         true,
		}, nil)
		mockStorage.On("CreateWithdrawal", mock.Anything, mock.MatchedBy(func(wr *models.WithdrawalRequest) bool {
			return wr.WalletID == "provider-1" && wr.Amount == 30000 && wr.Status == models.WithdrawalPending
		})).Return(&models.WithdrawalRequest{
			ID:       "wd-1",
			WalletID: "provider-1",
			Amount:   30000,
			Status:   models.WithdrawalPending,
		}, nil)

		router := newTestRouter(mockStorage)
		rr, res := do(t, router, http.MethodPost, "/withdrawals", "provider-1", "", api.NewWithdrawal{
			Amount:        30000,
			PaymentMethod: "bank_transfer",
		})

		assert.Equal(t, http.StatusCreated, rr.Code)

		var returned api.Withdrawal
		assert.NoError(t, json.Unmarshal(res.Data, &returned))
		assert.Equal(t, "wd-1", returned.ID)
		assert.Equal(t, string(models.WithdrawalPending), returned.Status)

		mockStorage.AssertExpectations(t)
	})

	t.Run("Exceeds Available Balance", func(t *testing.T) {
		mockStorage := new(mocks.Storage)
		mockStorage.On("GetWallet", mock.Anything, "provider-1").Return(&models.Wallet{
			UserID:           "provider-1",
			TotalBalance:     80000,
			AvailableBalance: 10000,
			IsActive:         true,
		}, nil)

		router := newTestRouter(mockStorage)
		rr, res := do(t, router, http.MethodPost, "/withdrawals", "provider-1", "", api.NewWithdrawal{
			Amount:        30000,
			PaymentMethod: "bank_transfer",
		})

		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		assert.Equal(t, "InsufficientFunds", res.ErrorKind)
		mockStorage.AssertNotCalled(t, "CreateWithdrawal", mock.Anything, mock.Anything)
	})
}

func TestListTransactions(t *testing.T) {
	t.Run("Passes Filter Through", func(t *testing.T) {
		mockStorage := new(mocks.Storage)
		mockStorage.On("ListTransactionsByWallet", mock.Anything, "client-1", storage.TransactionFilter{
			Type:   models.TxEscrowHold,
			Status: models.TxPending,
			Limit:  5,
		}).Return([]models.Transaction{{ID: "tx-1", WalletID: "client-1", Amount: -55000}}, nil)

		router := newTestRouter(mockStorage)
		rr, res := do(t, router, http.MethodGet, "/wallets/client-1/transactions?type=ESCROW_HOLD&status=PENDING&limit=5", "", "", nil)

		assert.Equal(t, http.StatusOK, rr.Code)

		var returned []api.Transaction
		assert.NoError(t, json.Unmarshal(res.Data, &returned))
		assert.Len(t, returned, 1)
		assert.Equal(t, int64(-55000), returned[0].Amount)

		mockStorage.AssertExpectations(t)
	})

	t.Run("Rejects Bad Limit", func(t *testing.T) {
		mockStorage := new(mocks.Storage)

		router := newTestRouter(mockStorage)
		rr, res := do(t, router, http.MethodGet, "/wallets/client-1/transactions?limit=zero", "", "", nil)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "ValidationError", res.ErrorKind)
	})
}

func TestMarginPolicies(t *testing.T) {
	t.Run("Listing Requires Service Id", func(t *testing.T) {
		mockStorage := new(mocks.Storage)

		router := newTestRouter(mockStorage)
		rr, res := do(t, router, http.MethodGet, "/policies", "", "", nil)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "ValidationError", res.ErrorKind)
	})

	t.Run("Create Is Admin Only", func(t *testing.T) {
		mockStorage := new(mocks.Storage)

		router := newTestRouter(mockStorage)
		rr, res := do(t, router, http.MethodPost, "/policies", "client-1", "", api.NewMarginPolicy{
			ServiceID:   "svc-design",
			MarginType:  "percentage",
			MarginValue: 10,
			Active:      true,
		})

		assert.Equal(t, http.StatusForbidden, rr.Code)
		assert.Equal(t, "Unauthorized", res.ErrorKind)
		mockStorage.AssertNotCalled(t, "PutMarginPolicy", mock.Anything, mock.Anything)
	})
}
