// Package audit verifies the ledger-sum invariant: every wallet's total
// balance equals the sum of its COMPLETED ledger amounts, and the available
// balance stays within [0, total]. The audit only reads and reports;
// corrections are new transactions, applied by an operator.
package audit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/servly/escrow-engine/pkg/events"
	"github.com/servly/escrow-engine/pkg/models"
	"github.com/servly/escrow-engine/pkg/storage"
)

// Store is the read surface the audit walks.
type Store interface {
	storage.WalletStore
	storage.LedgerReader
}

// Discrepancy is one failed invariant check.
type Discrepancy struct {
	WalletID     string
	TotalBalance int64
	LedgerSum    int64
	Detail       string
}

// Auditor runs the invariant checks over every wallet.
type Auditor struct {
	store  Store
	events events.Publisher
	logger *slog.Logger
}

// New creates an Auditor.
func New(store Store, publisher events.Publisher, logger *slog.Logger) *Auditor {
	return &Auditor{store: store, events: publisher, logger: logger}
}

// Run checks every wallet and publishes one event per discrepancy. It
// returns the discrepancies found; a storage failure aborts the run.
func (a *Auditor) Run(ctx context.Context) ([]Discrepancy, error) {
	wallets, err := a.store.ListWallets(ctx)
	if err != nil {
		return nil, fmt.Errorf("list wallets: %w", err)
	}

	var found []Discrepancy
	for i := range wallets {
		d, err := a.check(ctx, &wallets[i])
		if err != nil {
			return found, err
		}
		if d == nil {
			continue
		}

		found = append(found, *d)
		a.logger.Error("ledger discrepancy",
			"wallet_id", d.WalletID,
			"total_balance", d.TotalBalance,
			"ledger_sum", d.LedgerSum,
			"detail", d.Detail,
		)
		a.publish(ctx, events.Event{
			Kind:     events.KindAuditDiscrepancy,
			WalletID: d.WalletID,
			Amount:   d.TotalBalance - d.LedgerSum,
			Detail:   d.Detail,
		})
	}

	a.logger.Info("audit finished", "wallets", len(wallets), "discrepancies", len(found))
	return found, nil
}

func (a *Auditor) check(ctx context.Context, w *models.Wallet) (*Discrepancy, error) {
	sum, err := a.store.BalanceAsOf(ctx, w.UserID, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("sum ledger for wallet %s: %w", w.UserID, err)
	}

	switch {
	case sum != w.TotalBalance:
		return &Discrepancy{
			WalletID:     w.UserID,
			TotalBalance: w.TotalBalance,
			LedgerSum:    sum,
			Detail:       "total balance does not match completed ledger sum",
		}, nil
	case w.AvailableBalance < 0 || w.AvailableBalance > w.TotalBalance:
		return &Discrepancy{
			WalletID:     w.UserID,
			TotalBalance: w.TotalBalance,
			LedgerSum:    sum,
			Detail:       "available balance outside [0, total]",
		}, nil
	}
	return nil, nil
}

func (a *Auditor) publish(ctx context.Context, ev events.Event) {
	ev.At = time.Now().UTC()
	if err := a.events.Publish(ctx, ev); err != nil {
		a.logger.Error("failed to publish event", "kind", ev.Kind, "error", err)
	}
}
