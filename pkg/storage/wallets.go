package storage

import (
	"context"

	"github.com/servly/escrow-engine/pkg/models"
)

// WalletStore defines the interface for managing wallet records. Balance
// mutation is not here: balances only move through the apply-operations on
// LedgerApplier, which pair every wallet delta with its ledger record.
type WalletStore interface {
	// GetWallet retrieves a user's wallet by their user ID.
	GetWallet(ctx context.Context, userID string) (*models.Wallet, error)

	// CreateWallet creates a new, empty wallet for a user.
	CreateWallet(ctx context.Context, wallet *models.Wallet) (*models.Wallet, error)

	// SetWalletActive flips the wallet's active flag.
	SetWalletActive(ctx context.Context, userID string, active bool) error

	// ListWallets retrieves all wallets from the storage.
	ListWallets(ctx context.Context) ([]models.Wallet, error)
}
