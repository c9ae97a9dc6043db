// Package mapping converts between domain models and API wire types.
package mapping

import (
	"github.com/servly/escrow-engine/pkg/api"
	"github.com/servly/escrow-engine/pkg/models"
)

// ToApiWallet converts a domain Wallet to its API representation.
func ToApiWallet(w *models.Wallet) *api.Wallet {
	return &api.Wallet{
		UserID:           w.UserID,
		TotalBalance:     w.TotalBalance,
		AvailableBalance: w.AvailableBalance,
		HeldBalance:      w.HeldBalance(),
		Currency:         w.Currency,
		IsActive:         w.IsActive,
		CreatedAt:        w.CreatedAt,
		UpdatedAt:        w.UpdatedAt,
	}
}

// ToApiTransaction converts a domain Transaction to its API representation.
func ToApiTransaction(tx *models.Transaction) *api.Transaction {
	return &api.Transaction{
		ID:               tx.ID,
		WalletID:         tx.WalletID,
		Amount:           tx.Amount,
		Type:             string(tx.Type),
		Status:           string(tx.Status),
		RelatedRequestID: tx.RelatedRequestID,
		RelatedOfferID:   tx.RelatedOfferID,
		RelatedDisputeID: tx.RelatedDisputeID,
		CreatedAt:        tx.CreatedAt,
	}
}

// ToApiTransactions converts a slice of domain Transactions.
func ToApiTransactions(txs []models.Transaction) []*api.Transaction {
	out := make([]*api.Transaction, len(txs))
	for i := range txs {
		out[i] = ToApiTransaction(&txs[i])
	}
	return out
}

// ToApiRequest converts a domain Request to its API representation.
func ToApiRequest(r *models.Request) *api.Request {
	return &api.Request{
		ID:              r.ID,
		ClientID:        r.ClientID,
		ServiceID:       r.ServiceID,
		Description:     r.Description,
		Budget:          r.Budget,
		Status:          string(r.Status),
		AcceptedOfferID: r.AcceptedOfferID,
		CompletedAt:     r.CompletedAt,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

// ToApiOffer converts a domain Offer to its API representation.
func ToApiOffer(o *models.Offer) *api.Offer {
	return &api.Offer{
		ID:            o.ID,
		RequestID:     o.RequestID,
		ProviderID:    o.ProviderID,
		ProposedPrice: o.ProposedPrice,
		FinalPrice:    o.FinalPrice,
		ProposedDays:  o.ProposedDays,
		Status:        string(o.Status),
		WorkSubmitted: o.WorkSubmitted,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}

// ToApiOffers converts a slice of domain Offers.
func ToApiOffers(offers []models.Offer) []*api.Offer {
	out := make([]*api.Offer, len(offers))
	for i := range offers {
		out[i] = ToApiOffer(&offers[i])
	}
	return out
}

// ToApiDispute converts a domain Dispute to its API representation.
func ToApiDispute(d *models.Dispute) *api.Dispute {
	return &api.Dispute{
		ID:               d.ID,
		RequestID:        d.RequestID,
		OfferID:          d.OfferID,
		ClientID:         d.ClientID,
		ProviderID:       d.ProviderID,
		InitiatedBy:      d.InitiatedBy,
		Reason:           d.Reason,
		Status:           string(d.Status),
		Resolution:       d.Resolution,
		RefundAmount:     d.RefundAmount,
		RefundPercentage: d.RefundPercentage,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}
}

// ToApiDisputeReply converts a domain DisputeReply to its API representation.
func ToApiDisputeReply(r *models.DisputeReply) *api.DisputeReply {
	return &api.DisputeReply{
		ID:        r.ID,
		DisputeID: r.DisputeID,
		UserID:    r.UserID,
		Content:   r.Content,
		CreatedAt: r.CreatedAt,
	}
}

// ToApiDisputeReplies converts a slice of domain DisputeReplies.
func ToApiDisputeReplies(replies []models.DisputeReply) []*api.DisputeReply {
	out := make([]*api.DisputeReply, len(replies))
	for i := range replies {
		out[i] = ToApiDisputeReply(&replies[i])
	}
	return out
}

// ToApiWithdrawal converts a domain WithdrawalRequest to its API
// representation. Payment details are write-only; they never round-trip.
func ToApiWithdrawal(wr *models.WithdrawalRequest) *api.Withdrawal {
	return &api.Withdrawal{
		ID:            wr.ID,
		WalletID:      wr.WalletID,
		Amount:        wr.Amount,
		PaymentMethod: wr.PaymentMethod,
		Status:        string(wr.Status),
		AdminNotes:    wr.AdminNotes,
		CreatedAt:     wr.CreatedAt,
		UpdatedAt:     wr.UpdatedAt,
	}
}

// ToApiWithdrawals converts a slice of domain WithdrawalRequests.
func ToApiWithdrawals(wrs []models.WithdrawalRequest) []*api.Withdrawal {
	out := make([]*api.Withdrawal, len(wrs))
	for i := range wrs {
		out[i] = ToApiWithdrawal(&wrs[i])
	}
	return out
}

// ToApiMarginPolicy converts a domain MarginPolicy to its API representation.
func ToApiMarginPolicy(p *models.MarginPolicy) *api.MarginPolicy {
	return &api.MarginPolicy{
		ID:          p.ID,
		ServiceID:   p.ServiceID,
		MinAmount:   p.MinAmount,
		MaxAmount:   p.MaxAmount,
		MarginType:  string(p.MarginType),
		MarginValue: p.MarginValue,
		Active:      p.Active,
		CreatedAt:   p.CreatedAt,
	}
}

// ToApiMarginPolicies converts a slice of domain MarginPolicies.
func ToApiMarginPolicies(policies []models.MarginPolicy) []*api.MarginPolicy {
	out := make([]*api.MarginPolicy, len(policies))
	for i := range policies {
		out[i] = ToApiMarginPolicy(&policies[i])
	}
	return out
}
