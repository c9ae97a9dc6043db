package dynamodb

import (
	"context"
	"fmt"

	"github.com/servly/escrow-engine/pkg/storage"
)

// ApplyDeposit atomically credits a wallet and appends the DEPOSIT record.
// The deposit itself is externally confirmed; this engine only books it.
func (s *Store) ApplyDeposit(ctx context.Context, p storage.DepositParams) error {
	ledgerItem, err := s.ledgerPutItem(p.Tx)
	if err != nil {
		return err
	}

	items := []transactItem{
		s.walletDeltaItem(p.Wallet, p.Tx.Amount, p.Tx.Amount, false, 0),
		ledgerItem,
	}

	if err := s.execTransact(ctx, items); err != nil {
		return fmt.Errorf("deposit: %w", err)
	}
	return nil
}
