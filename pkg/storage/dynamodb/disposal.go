package dynamodb

import (
	"context"
	"fmt"

	"github.com/servly/escrow-engine/pkg/storage"
)

// ApplyDisposal performs the single atomic write that disposes of an escrow
// hold: work approval, cancellation refund, and every dispute outcome are all
// shapes of the same disposal. The payer leg, the payee leg, and any
// state-machine flips commit together, so a reader can never observe half a
// split.
func (s *Store) ApplyDisposal(ctx context.Context, p storage.DisposalParams) error {
	// A repeated disposal hits the hold-row condition first; surface it as
	// the idempotency error of whichever workflow drove it.
	holdConflict := staticErr(storage.ErrAlreadyProcessed)
	if p.Dispute != nil {
		holdConflict = staticErr(storage.ErrAlreadyResolved)
	}

	items := []transactItem{
		s.holdFlipItem(p.HoldTxID, holdConflict),
		// Payer: total drops by the portion leaving the wallet, available
		// regains the refunded portion.
		s.walletDeltaItem(p.PayerWallet, -(p.HoldAmount - p.RefundAmount), p.RefundAmount, false, 0),
	}

	if p.RefundTx != nil {
		refundItem, err := s.ledgerPutItem(p.RefundTx)
		if err != nil {
			return err
		}
		items = append(items, refundItem)
	}

	if p.PayeeWallet != nil {
		items = append(items, s.walletDeltaItem(p.PayeeWallet, p.ReleaseNet, p.ReleaseNet, false, 0))
	}
	if p.ReleaseTx != nil {
		releaseItem, err := s.ledgerPutItem(p.ReleaseTx)
		if err != nil {
			return err
		}
		items = append(items, releaseItem)
	}
	if p.FeeTx != nil {
		feeItem, err := s.ledgerPutItem(p.FeeTx)
		if err != nil {
			return err
		}
		items = append(items, feeItem)
	}

	if p.Request != nil {
		items = append(items, s.requestTransitionItem(*p.Request, staticErr(storage.ErrAlreadyProcessed)))
	}
	if p.Dispute != nil {
		items = append(items, s.disputeResolveItem(*p.Dispute))
	}

	if err := s.execTransact(ctx, items); err != nil {
		return fmt.Errorf("disposal: %w", err)
	}
	return nil
}
