package storage

import "errors"

// ErrInsufficientFunds is returned when a wallet's available balance cannot
// cover a hold or withdrawal.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrWalletInactive is returned when a hold or withdrawal targets a
// deactivated wallet.
var ErrWalletInactive = errors.New("wallet is inactive")

// ErrWalletNotFound is returned when the referenced wallet does not exist.
var ErrWalletNotFound = errors.New("wallet not found")

// ErrNotFound is returned when a referenced entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrBusy is returned when an optimistic write lost a version race.
// Safe to retry with backoff.
var ErrBusy = errors.New("wallet busy, retry")

// ErrAlreadyAccepted is returned when an accept races or repeats against a
// request that already has an accepted offer.
var ErrAlreadyAccepted = errors.New("request already has an accepted offer")

// ErrAlreadyResolved is returned when a dispute resolution repeats against a
// terminal dispute.
var ErrAlreadyResolved = errors.New("dispute already resolved")

// ErrAlreadyProcessed is returned when an administrative transition repeats
// against an entity that already left the expected state.
var ErrAlreadyProcessed = errors.New("already processed")

// ErrOverRelease is returned when a release exceeds the outstanding hold.
// Never clamped silently.
var ErrOverRelease = errors.New("release exceeds held amount")
