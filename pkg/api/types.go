// Package api defines the wire types for the engine's command/query surface.
// Amounts are integer minor units and timestamps are UTC; the engine never
// transmits floating-point money.
package api

import "time"

// Result is the discriminated envelope every endpoint responds with.
type Result struct {
	OK        bool   `json:"ok"`
	Data      any    `json:"data,omitempty"`
	ErrorKind string `json:"errorKind,omitempty"`
	Message   string `json:"message,omitempty"`
}

// Wallet is the API representation of a user's balance.
type Wallet struct {
	UserID           string    `json:"userId"`
	TotalBalance     int64     `json:"totalBalance"`
	AvailableBalance int64     `json:"availableBalance"`
	HeldBalance      int64     `json:"heldBalance"`
	Currency         string    `json:"currency"`
	IsActive         bool      `json:"isActive"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// Transaction is the API representation of one ledger record.
type Transaction struct {
	ID               string    `json:"id"`
	WalletID         string    `json:"walletId"`
	Amount           int64     `json:"amount"`
	Type             string    `json:"type"`
	Status           string    `json:"status"`
	RelatedRequestID string    `json:"relatedRequestId,omitempty"`
	RelatedOfferID   string    `json:"relatedOfferId,omitempty"`
	RelatedDisputeID string    `json:"relatedDisputeId,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
}

// Request is the API representation of a service request.
type Request struct {
	ID              string     `json:"id"`
	ClientID        string     `json:"clientId"`
	ServiceID       string     `json:"serviceId"`
	Description     string     `json:"description"`
	Budget          int64      `json:"budget"`
	Status          string     `json:"status"`
	AcceptedOfferID string     `json:"acceptedOfferId,omitempty"`
	CompletedAt     *time.Time `json:"completedAt,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// Offer is the API representation of a provider's bid.
type Offer struct {
	ID            string    `json:"id"`
	RequestID     string    `json:"requestId"`
	ProviderID    string    `json:"providerId"`
	ProposedPrice int64     `json:"proposedPrice"`
	FinalPrice    int64     `json:"finalPrice,omitempty"`
	ProposedDays  int       `json:"proposedDays"`
	Status        string    `json:"status"`
	WorkSubmitted bool      `json:"workSubmitted"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Dispute is the API representation of a dispute.
type Dispute struct {
	ID               string    `json:"id"`
	RequestID        string    `json:"requestId"`
	OfferID          string    `json:"offerId"`
	ClientID         string    `json:"clientId"`
	ProviderID       string    `json:"providerId"`
	InitiatedBy      string    `json:"initiatedBy"`
	Reason           string    `json:"reason"`
	Status           string    `json:"status"`
	Resolution       string    `json:"resolution,omitempty"`
	RefundAmount     int64     `json:"refundAmount,omitempty"`
	RefundPercentage int       `json:"refundPercentage,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// DisputeReply is one message on a dispute thread.
type DisputeReply struct {
	ID        string    `json:"id"`
	DisputeID string    `json:"disputeId"`
	UserID    string    `json:"userId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// Withdrawal is the API representation of a payout request.
type Withdrawal struct {
	ID            string    `json:"id"`
	WalletID      string    `json:"walletId"`
	Amount        int64     `json:"amount"`
	PaymentMethod string    `json:"paymentMethod"`
	Status        string    `json:"status"`
	AdminNotes    string    `json:"adminNotes,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// MarginPolicy is the API representation of an admin pricing rule.
type MarginPolicy struct {
	ID          string    `json:"id"`
	ServiceID   string    `json:"serviceId"`
	MinAmount   int64     `json:"minAmount"`
	MaxAmount   *int64    `json:"maxAmount,omitempty"`
	MarginType  string    `json:"marginType"`
	MarginValue int64     `json:"marginValue"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"createdAt"`
}

// NewDeposit records an externally confirmed inflow.
type NewDeposit struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency,omitempty"`
}

// NewRequest opens a service request.
type NewRequest struct {
	ServiceID   string `json:"serviceId"`
	Description string `json:"description"`
	Budget      int64  `json:"budget"`
}

// NewOffer places a bid on a request.
type NewOffer struct {
	ProposedPrice int64 `json:"proposedPrice"`
	ProposedDays  int   `json:"proposedDays"`
}

// NewDispute opens a dispute over a request's accepted offer.
type NewDispute struct {
	RequestID string `json:"requestId"`
	Reason    string `json:"reason"`
}

// NewDisputeReply adds to a dispute thread.
type NewDisputeReply struct {
	Content string `json:"content"`
}

// ResolveDispute settles a dispute under review.
type ResolveDispute struct {
	Outcome          string `json:"outcome"`
	RefundPercentage int    `json:"refundPercentage,omitempty"`
	Resolution       string `json:"resolution,omitempty"`
}

// NewWithdrawal submits a payout request.
type NewWithdrawal struct {
	Amount         int64  `json:"amount"`
	PaymentMethod  string `json:"paymentMethod"`
	PaymentDetails string `json:"paymentDetails,omitempty"`
}

// RejectWithdrawal declines a payout request.
type RejectWithdrawal struct {
	Note string `json:"note"`
}

// NewMarginPolicy configures a pricing rule.
type NewMarginPolicy struct {
	ServiceID   string `json:"serviceId"`
	MinAmount   int64  `json:"minAmount"`
	MaxAmount   *int64 `json:"maxAmount,omitempty"`
	MarginType  string `json:"marginType"`
	MarginValue int64  `json:"marginValue"`
	Active      bool   `json:"active"`
}

// SetWalletActive toggles a wallet's active flag.
type SetWalletActive struct {
	Active bool `json:"active"`
}
