// Package handlers exposes the engine's commands and queries over HTTP.
// Actor identity arrives from the trusted gateway in headers; handlers never
// fall back to ambient identity, and every command is authorized against the
// entity's own party ids by the service it calls.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/servly/escrow-engine/pkg/api"
	"github.com/servly/escrow-engine/pkg/disputes"
	"github.com/servly/escrow-engine/pkg/mapping"
	"github.com/servly/escrow-engine/pkg/models"
	"github.com/servly/escrow-engine/pkg/requests"
	"github.com/servly/escrow-engine/pkg/storage"
	"github.com/servly/escrow-engine/pkg/wallet"
	"github.com/servly/escrow-engine/pkg/withdrawals"
)

// ApiHandler holds the engine's services and read-side storage.
type ApiHandler struct {
	Wallets     *wallet.Service
	Requests    *requests.Service
	Disputes    *disputes.Service
	Withdrawals *withdrawals.Service
	Store       storage.Storage
}

// NewApiHandler creates a new ApiHandler.
func NewApiHandler(wallets *wallet.Service, reqs *requests.Service, disp *disputes.Service, wd *withdrawals.Service, store storage.Storage) *ApiHandler {
	return &ApiHandler{Wallets: wallets, Requests: reqs, Disputes: disp, Withdrawals: wd, Store: store}
}

// Routes mounts every endpoint on the router.
func (h *ApiHandler) Routes(r chi.Router) {
	r.Route("/wallets/{userId}", func(r chi.Router) {
		r.Get("/", h.GetWallet)
		r.Post("/deposits", h.Deposit)
		r.Post("/active", h.SetWalletActive)
		r.Get("/transactions", h.ListTransactions)
		r.Get("/withdrawals", h.ListWithdrawals)
	})

	r.Route("/requests", func(r chi.Router) {
		r.Post("/", h.CreateRequest)
		r.Get("/{requestId}", h.GetRequest)
		r.Post("/{requestId}/cancel", h.CancelRequest)
		r.Post("/{requestId}/offers", h.SubmitOffer)
		r.Get("/{requestId}/offers", h.ListOffers)
	})

	r.Route("/offers/{offerId}", func(r chi.Router) {
		r.Post("/accept", h.AcceptOffer)
		r.Post("/reject", h.RejectOffer)
		r.Post("/work", h.SubmitWork)
		r.Post("/approve", h.ApproveWork)
	})

	r.Route("/disputes", func(r chi.Router) {
		r.Post("/", h.OpenDispute)
		r.Get("/{disputeId}", h.GetDispute)
		r.Post("/{disputeId}/replies", h.AddDisputeReply)
		r.Get("/{disputeId}/replies", h.ListDisputeReplies)
		r.Post("/{disputeId}/review", h.StartDisputeReview)
		r.Post("/{disputeId}/resolve", h.ResolveDispute)
		r.Post("/{disputeId}/cancel", h.CancelDispute)
	})

	r.Route("/withdrawals", func(r chi.Router) {
		r.Post("/", h.CreateWithdrawal)
		r.Get("/{withdrawalId}", h.GetWithdrawal)
		r.Post("/{withdrawalId}/approve", h.ApproveWithdrawal)
		r.Post("/{withdrawalId}/reject", h.RejectWithdrawal)
		r.Post("/{withdrawalId}/paid", h.MarkWithdrawalPaid)
	})

	r.Route("/policies", func(r chi.Router) {
		r.Post("/", h.SetMarginPolicy)
		r.Get("/", h.ListMarginPolicies)
	})
}

// Deposit records an externally confirmed inflow into a user's wallet,
// creating the wallet on first use.
func (h *ApiHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	userID := chi.URLParam(r, "userId")
	if !actor.Admin && actor.UserID != userID {
		writeError(w, errUnauthorizedDeposit)
		return
	}

	var body api.NewDeposit
	if !decode(w, r, &body) {
		return
	}

	updated, err := h.Wallets.Deposit(r.Context(), userID, body.Amount, body.Currency)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, mapping.ToApiWallet(updated))
}

// GetWallet retrieves a user's wallet.
func (h *ApiHandler) GetWallet(w http.ResponseWriter, r *http.Request) {
	wlt, err := h.Store.GetWallet(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, mapping.ToApiWallet(wlt))
}

// SetWalletActive toggles a wallet's active flag. Admin only.
func (h *ApiHandler) SetWalletActive(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	if !actor.Admin {
		writeError(w, errAdminOnly)
		return
	}

	var body api.SetWalletActive
	if !decode(w, r, &body) {
		return
	}
	if err := h.Store.SetWalletActive(r.Context(), chi.URLParam(r, "userId"), body.Active); err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, nil)
}

// ListTransactions retrieves a wallet's ledger records, optionally filtered
// by type, status, and limit.
func (h *ApiHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	filter := storage.TransactionFilter{
		Type:   models.TransactionType(r.URL.Query().Get("type")),
		Status: models.TransactionStatus(r.URL.Query().Get("status")),
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 32)
		if err != nil || n < 1 {
			writeError(w, errBadLimit)
			return
		}
		filter.Limit = int32(n)
	}

	txs, err := h.Store.ListTransactionsByWallet(r.Context(), chi.URLParam(r, "userId"), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, mapping.ToApiTransactions(txs))
}

// CreateRequest opens a new service request for the acting client.
func (h *ApiHandler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	var body api.NewRequest
	if !decode(w, r, &body) {
		return
	}

	req, err := h.Requests.CreateRequest(r.Context(), actor, requests.CreateRequestParams{
		ServiceID:   body.ServiceID,
		Description: body.Description,
		Budget:      body.Budget,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, mapping.ToApiRequest(req))
}

// GetRequest retrieves a request by its ID.
func (h *ApiHandler) GetRequest(w http.ResponseWriter, r *http.Request) {
	req, err := h.Store.GetRequest(r.Context(), chi.URLParam(r, "requestId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, mapping.ToApiRequest(req))
}

// CancelRequest withdraws an OPEN request before any offer is accepted.
func (h *ApiHandler) CancelRequest(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	if err := h.Requests.CancelRequest(r.Context(), actor, chi.URLParam(r, "requestId")); err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, nil)
}

// SubmitOffer places a bid on an OPEN request.
func (h *ApiHandler) SubmitOffer(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	var body api.NewOffer
	if !decode(w, r, &body) {
		return
	}

	offer, err := h.Requests.SubmitOffer(r.Context(), actor, requests.SubmitOfferParams{
		RequestID:     chi.URLParam(r, "requestId"),
		ProposedPrice: body.ProposedPrice,
		ProposedDays:  body.ProposedDays,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, mapping.ToApiOffer(offer))
}

// ListOffers retrieves the offers placed on a request.
func (h *ApiHandler) ListOffers(w http.ResponseWriter, r *http.Request) {
	offers, err := h.Store.ListOffersByRequest(r.Context(), chi.URLParam(r, "requestId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, mapping.ToApiOffers(offers))
}

// AcceptOffer accepts an offer, pricing it through the margin engine and
// placing the escrow hold in the same atomic unit.
func (h *ApiHandler) AcceptOffer(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	offer, err := h.Requests.AcceptOffer(r.Context(), actor, chi.URLParam(r, "offerId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, mapping.ToApiOffer(offer))
}

// RejectOffer declines a PENDING offer.
func (h *ApiHandler) RejectOffer(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	if err := h.Requests.RejectOffer(r.Context(), actor, chi.URLParam(r, "offerId")); err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, nil)
}

// SubmitWork marks the accepted offer's work as delivered.
func (h *ApiHandler) SubmitWork(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	if err := h.Requests.SubmitWork(r.Context(), actor, chi.URLParam(r, "offerId")); err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, nil)
}

// ApproveWork releases the escrow to the provider and completes the request.
func (h *ApiHandler) ApproveWork(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	if err := h.Requests.ApproveWork(r.Context(), actor, chi.URLParam(r, "offerId")); err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, nil)
}

// OpenDispute opens a dispute over a request's accepted offer.
func (h *ApiHandler) OpenDispute(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	var body api.NewDispute
	if !decode(w, r, &body) {
		return
	}

	dispute, err := h.Disputes.Open(r.Context(), actor, disputes.OpenParams{
		RequestID: body.RequestID,
		Reason:    body.Reason,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, mapping.ToApiDispute(dispute))
}

// GetDispute retrieves a dispute by its ID.
func (h *ApiHandler) GetDispute(w http.ResponseWriter, r *http.Request) {
	dispute, err := h.Store.GetDispute(r.Context(), chi.URLParam(r, "disputeId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, mapping.ToApiDispute(dispute))
}

// AddDisputeReply appends to a dispute thread.
func (h *ApiHandler) AddDisputeReply(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	var body api.NewDisputeReply
	if !decode(w, r, &body) {
		return
	}

	reply, err := h.Disputes.AddReply(r.Context(), actor, chi.URLParam(r, "disputeId"), body.Content)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, mapping.ToApiDisputeReply(reply))
}

// ListDisputeReplies retrieves a dispute's reply thread.
func (h *ApiHandler) ListDisputeReplies(w http.ResponseWriter, r *http.Request) {
	replies, err := h.Store.ListDisputeReplies(r.Context(), chi.URLParam(r, "disputeId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, mapping.ToApiDisputeReplies(replies))
}

// StartDisputeReview moves an OPEN dispute into administrative review.
func (h *ApiHandler) StartDisputeReview(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	if err := h.Disputes.StartReview(r.Context(), actor, chi.URLParam(r, "disputeId")); err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, nil)
}

// ResolveDispute settles a dispute under review, splitting the held funds
// per the outcome.
func (h *ApiHandler) ResolveDispute(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	var body api.ResolveDispute
	if !decode(w, r, &body) {
		return
	}

	outcome, err := models.ParseDisputeStatus(body.Outcome)
	if err != nil {
		writeError(w, errBadOutcome)
		return
	}

	dispute, err := h.Disputes.Resolve(r.Context(), actor, disputes.ResolveParams{
		DisputeID:        chi.URLParam(r, "disputeId"),
		Outcome:          outcome,
		RefundPercentage: body.RefundPercentage,
		Resolution:       body.Resolution,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, mapping.ToApiDispute(dispute))
}

// CancelDispute withdraws a dispute.
func (h *ApiHandler) CancelDispute(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	if err := h.Disputes.Cancel(r.Context(), actor, chi.URLParam(r, "disputeId")); err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, nil)
}

// CreateWithdrawal submits a payout request against the actor's own wallet.
func (h *ApiHandler) CreateWithdrawal(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	var body api.NewWithdrawal
	if !decode(w, r, &body) {
		return
	}

	wr, err := h.Withdrawals.Create(r.Context(), actor, withdrawals.CreateParams{
		Amount:         body.Amount,
		PaymentMethod:  body.PaymentMethod,
		PaymentDetails: body.PaymentDetails,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, mapping.ToApiWithdrawal(wr))
}

// GetWithdrawal retrieves a payout request by its ID.
func (h *ApiHandler) GetWithdrawal(w http.ResponseWriter, r *http.Request) {
	wr, err := h.Store.GetWithdrawal(r.Context(), chi.URLParam(r, "withdrawalId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, mapping.ToApiWithdrawal(wr))
}

// ListWithdrawals retrieves a wallet's payout requests.
func (h *ApiHandler) ListWithdrawals(w http.ResponseWriter, r *http.Request) {
	wrs, err := h.Store.ListWithdrawalsByWallet(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, mapping.ToApiWithdrawals(wrs))
}

// ApproveWithdrawal debits the wallet and approves the payout. Admin only.
func (h *ApiHandler) ApproveWithdrawal(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	wr, err := h.Withdrawals.Approve(r.Context(), actor, chi.URLParam(r, "withdrawalId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, mapping.ToApiWithdrawal(wr))
}

// RejectWithdrawal declines a payout request with a note. Admin only.
func (h *ApiHandler) RejectWithdrawal(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	var body api.RejectWithdrawal
	if !decode(w, r, &body) {
		return
	}
	if err := h.Withdrawals.Reject(r.Context(), actor, chi.URLParam(r, "withdrawalId"), body.Note); err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, nil)
}

// MarkWithdrawalPaid records the external transfer for an approved payout.
// Admin only.
func (h *ApiHandler) MarkWithdrawalPaid(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	if err := h.Withdrawals.MarkPaid(r.Context(), actor, chi.URLParam(r, "withdrawalId")); err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, nil)
}

// SetMarginPolicy configures a pricing rule. Admin only.
func (h *ApiHandler) SetMarginPolicy(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	var body api.NewMarginPolicy
	if !decode(w, r, &body) {
		return
	}

	policy, err := h.Requests.SetMarginPolicy(r.Context(), actor, requests.SetMarginPolicyParams{
		ServiceID:   body.ServiceID,
		MinAmount:   body.MinAmount,
		MaxAmount:   body.MaxAmount,
		MarginType:  models.MarginType(body.MarginType),
		MarginValue: body.MarginValue,
		Active:      body.Active,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, mapping.ToApiMarginPolicy(policy))
}

// ListMarginPolicies retrieves the policies configured for a service.
func (h *ApiHandler) ListMarginPolicies(w http.ResponseWriter, r *http.Request) {
	serviceID := r.URL.Query().Get("serviceId")
	if serviceID == "" {
		writeError(w, errMissingService)
		return
	}
	policies, err := h.Requests.ListPolicies(r.Context(), serviceID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, mapping.ToApiMarginPolicies(policies))
}
