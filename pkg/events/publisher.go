// Package events carries engine events to external collaborators
// (notifications, UI refresh). The ledger is the source of truth; events are
// at-least-once and advisory.
package events

import (
	"context"
	"time"
)

// Kind names an engine event.
type Kind string

const (
	KindDeposited          Kind = "wallet.deposited"
	KindEscrowHeld         Kind = "escrow.held"
	KindEscrowReleased     Kind = "escrow.released"
	KindEscrowRefunded     Kind = "escrow.refunded"
	KindDisputeOpened      Kind = "dispute.opened"
	KindDisputeResolved    Kind = "dispute.resolved"
	KindWithdrawalApproved Kind = "withdrawal.approved"
	KindAuditDiscrepancy   Kind = "audit.discrepancy"
)

// Event is the JSON payload published after a successful command. Only the
// fields relevant to the event kind are set.
type Event struct {
	Kind         Kind      `json:"kind"`
	WalletID     string    `json:"wallet_id,omitempty"`
	RequestID    string    `json:"request_id,omitempty"`
	OfferID      string    `json:"offer_id,omitempty"`
	DisputeID    string    `json:"dispute_id,omitempty"`
	WithdrawalID string    `json:"withdrawal_id,omitempty"`
	Amount       int64     `json:"amount,omitempty"`
	Detail       string    `json:"detail,omitempty"`
	At           time.Time `json:"at"`
}

// Publisher defines the interface for emitting engine events.
type Publisher interface {
	// Publish emits one event. Failures are the caller's to log; the engine
	// never rolls back a committed ledger write over a publish failure.
	Publish(ctx context.Context, ev Event) error
}
