package storage

import (
	"context"

	"github.com/servly/escrow-engine/pkg/models"
)

// RequestStore defines the interface for managing service requests.
// The funded transitions (acceptance, completion, dispute resolution) are not
// here: those ride inside the ledger apply-operations so money and state flip
// together.
type RequestStore interface {
	// CreateRequest persists a new OPEN request.
	CreateRequest(ctx context.Context, req *models.Request) (*models.Request, error)

	// GetRequest retrieves a request by its ID.
	GetRequest(ctx context.Context, requestID string) (*models.Request, error)

	// TransitionRequest flips a request's status, conditioned on the expected
	// current status. Used for the unfunded transitions (cancel an OPEN
	// request, enter DISPUTE).
	TransitionRequest(ctx context.Context, t RequestTransition) error

	// ListRequestsByClient retrieves a client's requests, newest first.
	ListRequestsByClient(ctx context.Context, clientID string) ([]models.Request, error)
}

// OfferStore defines the interface for managing offers.
type OfferStore interface {
	// CreateOffer persists a new PENDING offer.
	CreateOffer(ctx context.Context, offer *models.Offer) (*models.Offer, error)

	// GetOffer retrieves an offer by its ID.
	GetOffer(ctx context.Context, offerID string) (*models.Offer, error)

	// ListOffersByRequest retrieves all offers on a request.
	ListOffersByRequest(ctx context.Context, requestID string) ([]models.Offer, error)

	// RejectOffer flips a PENDING offer to REJECTED.
	RejectOffer(ctx context.Context, offerID string) error

	// SetWorkSubmitted flips the work_submitted flag on an ACCEPTED offer.
	SetWorkSubmitted(ctx context.Context, offerID string) error
}
