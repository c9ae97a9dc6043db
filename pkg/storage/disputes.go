package storage

import (
	"context"

	"github.com/servly/escrow-engine/pkg/models"
)

// DisputeStore defines the interface for managing disputes and their reply
// threads. Resolution is not here: it rides inside ApplyDisposal so the fund
// split and the status flip commit together.
type DisputeStore interface {
	// OpenDispute atomically creates the dispute and moves the parent request
	// into DISPUTE, conditioned on the request's expected current status.
	// A second open attempt on the same request fails the condition.
	OpenDispute(ctx context.Context, dispute *models.Dispute, request RequestTransition) (*models.Dispute, error)

	// GetDispute retrieves a dispute by its ID.
	GetDispute(ctx context.Context, disputeID string) (*models.Dispute, error)

	// GetDisputeByRequest retrieves the dispute attached to a request, or
	// ErrNotFound.
	GetDisputeByRequest(ctx context.Context, requestID string) (*models.Dispute, error)

	// StartDisputeReview flips OPEN -> IN_REVIEW.
	StartDisputeReview(ctx context.Context, disputeID string) error

	// ResolveDisputeUnfunded records a resolution when the escrow hold was
	// already disposed (post-completion disputes): status and outcome flip,
	// no funds move. Funded resolutions ride inside ApplyDisposal instead.
	ResolveDisputeUnfunded(ctx context.Context, t DisputeTransition, request *RequestTransition) error

	// CancelDispute flips an OPEN or IN_REVIEW dispute to CANCELED and moves
	// the parent request back out of DISPUTE in the same write.
	CancelDispute(ctx context.Context, disputeID string, request RequestTransition) error

	// AddDisputeReply appends a reply to the thread.
	AddDisputeReply(ctx context.Context, reply *models.DisputeReply) (*models.DisputeReply, error)

	// ListDisputeReplies retrieves the reply thread in creation order.
	ListDisputeReplies(ctx context.Context, disputeID string) ([]models.DisputeReply, error)
}
