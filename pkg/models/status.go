package models

import "fmt"

// TransactionType classifies a ledger record.
type TransactionType string

const (
	TxDeposit        TransactionType = "DEPOSIT"
	TxWithdrawal     TransactionType = "WITHDRAWAL"
	TxEscrowHold     TransactionType = "ESCROW_HOLD"
	TxEscrowRelease  TransactionType = "ESCROW_RELEASE"
	TxEscrowRefund   TransactionType = "ESCROW_REFUND"
	TxPlatformFee    TransactionType = "PLATFORM_FEE"
	TxDisputeRefund  TransactionType = "DISPUTE_REFUND"
	TxDisputeRelease TransactionType = "DISPUTE_RELEASE"
)

// TransactionStatus defines the possible states of a ledger record.
type TransactionStatus string

const (
	TxPending   TransactionStatus = "PENDING"
	TxCompleted TransactionStatus = "COMPLETED"
	TxFailed    TransactionStatus = "FAILED"
	TxCanceled  TransactionStatus = "CANCELED"
)

// Terminal reports whether the status can never change again.
func (s TransactionStatus) Terminal() bool {
	return s == TxCompleted || s == TxFailed || s == TxCanceled
}

// RequestStatus defines the lifecycle states of a service request.
type RequestStatus string

const (
	RequestOpen       RequestStatus = "OPEN"
	RequestInProgress RequestStatus = "IN_PROGRESS"
	RequestCompleted  RequestStatus = "COMPLETED"
	RequestCanceled   RequestStatus = "CANCELED"
	RequestDispute    RequestStatus = "DISPUTE"
)

var requestTransitions = map[RequestStatus][]RequestStatus{
	RequestOpen:       {RequestInProgress, RequestCanceled},
	RequestInProgress: {RequestCompleted, RequestDispute},
	RequestCompleted:  {RequestDispute}, // post-completion disputes within the policy window
	RequestDispute:    {RequestInProgress, RequestCompleted, RequestCanceled}, // IN_PROGRESS when a dispute is withdrawn with the hold outstanding
}

// CanTransitionTo reports whether the state machine permits moving to next.
func (s RequestStatus) CanTransitionTo(next RequestStatus) bool {
	for _, t := range requestTransitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// ParseRequestStatus validates a raw status value against the closed set.
func ParseRequestStatus(raw string) (RequestStatus, error) {
	switch s := RequestStatus(raw); s {
	case RequestOpen, RequestInProgress, RequestCompleted, RequestCanceled, RequestDispute:
		return s, nil
	}
	return "", fmt.Errorf("unknown request status %q", raw)
}

// OfferStatus defines the lifecycle states of an offer.
type OfferStatus string

const (
	OfferPending  OfferStatus = "PENDING"
	OfferAccepted OfferStatus = "ACCEPTED"
	OfferRejected OfferStatus = "REJECTED"
)

// Terminal reports whether the offer can no longer change status.
func (s OfferStatus) Terminal() bool {
	return s == OfferAccepted || s == OfferRejected
}

// ParseOfferStatus validates a raw status value against the closed set.
func ParseOfferStatus(raw string) (OfferStatus, error) {
	switch s := OfferStatus(raw); s {
	case OfferPending, OfferAccepted, OfferRejected:
		return s, nil
	}
	return "", fmt.Errorf("unknown offer status %q", raw)
}

// DisputeStatus defines the lifecycle states of a dispute.
type DisputeStatus string

const (
	DisputeOpen             DisputeStatus = "OPEN"
	DisputeInReview         DisputeStatus = "IN_REVIEW"
	DisputeResolvedClient   DisputeStatus = "RESOLVED_CLIENT"
	DisputeResolvedProvider DisputeStatus = "RESOLVED_PROVIDER"
	DisputeResolvedPartial  DisputeStatus = "RESOLVED_PARTIAL"
	DisputeCanceled         DisputeStatus = "CANCELED"
)

// Terminal reports whether the dispute is resolved or canceled.
func (s DisputeStatus) Terminal() bool {
	switch s {
	case DisputeResolvedClient, DisputeResolvedProvider, DisputeResolvedPartial, DisputeCanceled:
		return true
	}
	return false
}

// Resolved reports whether the status is one of the three resolution outcomes.
func (s DisputeStatus) Resolved() bool {
	switch s {
	case DisputeResolvedClient, DisputeResolvedProvider, DisputeResolvedPartial:
		return true
	}
	return false
}

// ParseDisputeStatus validates a raw status value against the closed set.
func ParseDisputeStatus(raw string) (DisputeStatus, error) {
	switch s := DisputeStatus(raw); s {
	case DisputeOpen, DisputeInReview, DisputeResolvedClient, DisputeResolvedProvider, DisputeResolvedPartial, DisputeCanceled:
		return s, nil
	}
	return "", fmt.Errorf("unknown dispute status %q", raw)
}

// WithdrawalStatus defines the lifecycle states of a withdrawal request.
// APPROVED means the ledger debit is booked and the external payout is in
// flight; COMPLETED means the payout was confirmed.
type WithdrawalStatus string

const (
	WithdrawalPending   WithdrawalStatus = "PENDING"
	WithdrawalApproved  WithdrawalStatus = "APPROVED"
	WithdrawalRejected  WithdrawalStatus = "REJECTED"
	WithdrawalCompleted WithdrawalStatus = "COMPLETED"
)

// Terminal reports whether the withdrawal can no longer change status.
func (s WithdrawalStatus) Terminal() bool {
	return s == WithdrawalRejected || s == WithdrawalCompleted
}

// MarginType selects how a margin policy adjusts the proposed price.
type MarginType string

const (
	MarginPercentage MarginType = "percentage"
	MarginFixed      MarginType = "fixed"
)

// ParseMarginType validates a raw margin type against the closed set.
func ParseMarginType(raw string) (MarginType, error) {
	switch t := MarginType(raw); t {
	case MarginPercentage, MarginFixed:
		return t, nil
	}
	return "", fmt.Errorf("unknown margin type %q", raw)
}
