package models

import (
	"time"
)

// Wallet represents a user's balance on the platform. Held escrow funds stay
// inside TotalBalance but are excluded from AvailableBalance until released
// or refunded. Wallets are never deleted, only deactivated.
type Wallet struct {
	UserID           string    `json:"user_id" dynamodbav:"user_id"`
	TotalBalance     int64     `json:"total_balance" dynamodbav:"total_balance"`
	AvailableBalance int64     `json:"available_balance" dynamodbav:"available_balance"`
	Currency         string    `json:"currency" dynamodbav:"currency"`
	IsActive         bool      `json:"is_active" dynamodbav:"is_active"`
	Version          int64     `json:"version" dynamodbav:"version"`
	CreatedAt        time.Time `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" dynamodbav:"updated_at"`
}

// HeldBalance is the portion of the total balance currently locked in escrow.
func (w *Wallet) HeldBalance() int64 {
	return w.TotalBalance - w.AvailableBalance
}

// Transaction is one immutable ledger record. Amount is signed relative to
// the named wallet: positive credits, negative debits. An ESCROW_HOLD row
// stays PENDING while the hold is outstanding so that the sum of COMPLETED
// amounts always equals the wallet's total balance.
type Transaction struct {
	ID               string            `json:"id" dynamodbav:"id"`
	WalletID         string            `json:"wallet_id" dynamodbav:"wallet_id"`
	Amount           int64             `json:"amount" dynamodbav:"amount"`
	Type             TransactionType   `json:"type" dynamodbav:"type"`
	Status           TransactionStatus `json:"status" dynamodbav:"status"`
	RelatedRequestID string            `json:"related_request_id,omitempty" dynamodbav:"related_request_id,omitempty"`
	RelatedOfferID   string            `json:"related_offer_id,omitempty" dynamodbav:"related_offer_id,omitempty"`
	RelatedDisputeID string            `json:"related_dispute_id,omitempty" dynamodbav:"related_dispute_id,omitempty"`
	CreatedAt        time.Time         `json:"created_at" dynamodbav:"created_at"`
}

// Request is a client's service ask. Budget is advisory; the binding amount
// is the accepted offer's final price.
type Request struct {
	ID              string        `json:"id" dynamodbav:"id"`
	ClientID        string        `json:"client_id" dynamodbav:"client_id"`
	ServiceID       string        `json:"service_id" dynamodbav:"service_id"`
	Description     string        `json:"description" dynamodbav:"description"`
	Budget          int64         `json:"budget" dynamodbav:"budget"`
	Status          RequestStatus `json:"status" dynamodbav:"status"`
	AcceptedOfferID string        `json:"accepted_offer_id,omitempty" dynamodbav:"accepted_offer_id,omitempty"`
	CompletedAt     *time.Time    `json:"completed_at,omitempty" dynamodbav:"completed_at,omitempty"`
	CreatedAt       time.Time     `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at" dynamodbav:"updated_at"`
}

// Offer is a provider's bid on a request. FinalPrice is the margin-adjusted
// price frozen at acceptance; zero until then.
type Offer struct {
	ID            string      `json:"id" dynamodbav:"id"`
	RequestID     string      `json:"request_id" dynamodbav:"request_id"`
	ProviderID    string      `json:"provider_id" dynamodbav:"provider_id"`
	ProposedPrice int64       `json:"proposed_price" dynamodbav:"proposed_price"`
	FinalPrice    int64       `json:"final_price,omitempty" dynamodbav:"final_price,omitempty"`
	ProposedDays  int         `json:"proposed_days" dynamodbav:"proposed_days"`
	Status        OfferStatus `json:"status" dynamodbav:"status"`
	WorkSubmitted bool        `json:"work_submitted" dynamodbav:"work_submitted"`
	CreatedAt     time.Time   `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at" dynamodbav:"updated_at"`
}

// MarginPolicy is an admin-configured pricing rule. The policy applies to
// proposed prices in [MinAmount, MaxAmount); a nil MaxAmount is unbounded.
// MarginValue is whole percent for percentage policies and minor units for
// fixed policies.
type MarginPolicy struct {
	ID          string     `json:"id" dynamodbav:"id"`
	ServiceID   string     `json:"service_id" dynamodbav:"service_id"`
	MinAmount   int64      `json:"min_amount" dynamodbav:"min_amount"`
	MaxAmount   *int64     `json:"max_amount,omitempty" dynamodbav:"max_amount,omitempty"`
	MarginType  MarginType `json:"margin_type" dynamodbav:"margin_type"`
	MarginValue int64      `json:"margin_value" dynamodbav:"margin_value"`
	Active      bool       `json:"active" dynamodbav:"active"`
	CreatedAt   time.Time  `json:"created_at" dynamodbav:"created_at"`
}

// Contains reports whether the proposed price falls inside the policy range.
func (p *MarginPolicy) Contains(price int64) bool {
	if price < p.MinAmount {
		return false
	}
	return p.MaxAmount == nil || price < *p.MaxAmount
}

// Span is the width of the policy range, used for most-specific-wins
// precedence. Unbounded ranges report the widest possible span.
func (p *MarginPolicy) Span() int64 {
	if p.MaxAmount == nil {
		return int64(1)<<62 - p.MinAmount
	}
	return *p.MaxAmount - p.MinAmount
}

// Dispute is an arbitration case over a request/offer pair. RefundAmount and
// RefundPercentage are set only at resolution and stay consistent with each
// other relative to the held escrow amount.
type Dispute struct {
	ID               string        `json:"id" dynamodbav:"id"`
	RequestID        string        `json:"request_id" dynamodbav:"request_id"`
	OfferID          string        `json:"offer_id" dynamodbav:"offer_id"`
	ClientID         string        `json:"client_id" dynamodbav:"client_id"`
	ProviderID       string        `json:"provider_id" dynamodbav:"provider_id"`
	InitiatedBy      string        `json:"initiated_by" dynamodbav:"initiated_by"`
	Reason           string        `json:"reason" dynamodbav:"reason"`
	Status           DisputeStatus `json:"status" dynamodbav:"status"`
	Resolution       string        `json:"resolution,omitempty" dynamodbav:"resolution,omitempty"`
	RefundAmount     int64         `json:"refund_amount,omitempty" dynamodbav:"refund_amount,omitempty"`
	RefundPercentage int           `json:"refund_percentage,omitempty" dynamodbav:"refund_percentage,omitempty"`
	CreatedAt        time.Time     `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at" dynamodbav:"updated_at"`
}

// Party reports whether the user is the client or provider on this dispute.
func (d *Dispute) Party(userID string) bool {
	return userID == d.ClientID || userID == d.ProviderID
}

// DisputeReply is one append-only entry in a dispute thread.
type DisputeReply struct {
	DisputeID string    `json:"dispute_id" dynamodbav:"dispute_id"`
	ID        string    `json:"id" dynamodbav:"id"`
	UserID    string    `json:"user_id" dynamodbav:"user_id"`
	Content   string    `json:"content" dynamodbav:"content"`
	CreatedAt time.Time `json:"created_at" dynamodbav:"created_at"`
}

// WithdrawalRequest asks to move available balance off the platform. Funds
// are not held at submission; approval re-validates the balance.
type WithdrawalRequest struct {
	ID             string           `json:"id" dynamodbav:"id"`
	WalletID       string           `json:"wallet_id" dynamodbav:"wallet_id"`
	Amount         int64            `json:"amount" dynamodbav:"amount"`
	PaymentMethod  string           `json:"payment_method" dynamodbav:"payment_method"`
	PaymentDetails string           `json:"payment_details" dynamodbav:"payment_details"`
	Status         WithdrawalStatus `json:"status" dynamodbav:"status"`
	AdminNotes     string           `json:"admin_notes,omitempty" dynamodbav:"admin_notes,omitempty"`
	CreatedAt      time.Time        `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at" dynamodbav:"updated_at"`
}

// Actor is the explicit identity a command runs as. Authorization is always
// checked against the entity's own party ids, never ambient state.
type Actor struct {
	UserID string
	Admin  bool
}
