package dynamodb

import (
	"context"
	"fmt"

	"github.com/servly/escrow-engine/pkg/storage"
)

// ApplyHold performs the offer-acceptance write: earmark the final price on
// the client wallet, append the PENDING ESCROW_HOLD record, flip the request
// OPEN -> IN_PROGRESS, accept the winning offer, and reject every sibling,
// all in one TransactWriteItems. If any condition fails nothing moves: a
// failed hold leaves the offer PENDING and the request OPEN.
func (s *Store) ApplyHold(ctx context.Context, p storage.HoldParams) error {
	amount := -p.HoldTx.Amount // hold rows are debits

	ledgerItem, err := s.ledgerPutItem(p.HoldTx)
	if err != nil {
		return err
	}

	items := []transactItem{
		// Earmarking reduces available only; held funds stay in total.
		s.walletDeltaItem(p.Wallet, 0, -amount, true, amount),
		ledgerItem,
		s.requestTransitionItem(p.Request, staticErr(storage.ErrAlreadyAccepted)),
		s.offerAcceptItem(p.AcceptOfferID, p.FinalPrice),
	}
	for _, siblingID := range p.RejectOfferIDs {
		items = append(items, s.offerRejectItem(siblingID))
	}

	if err := s.execTransact(ctx, items); err != nil {
		return fmt.Errorf("hold: %w", err)
	}
	return nil
}
