// Package engine holds errors shared by the command services.
package engine

import "errors"

// ErrValidation marks bad input rejected before the ledger is touched.
// Wrap it with the specific message: fmt.Errorf("%w: amount must be
// positive", engine.ErrValidation).
var ErrValidation = errors.New("validation")

// ErrUnauthorized marks a command whose actor is not a party to the entity
// (or lacks the admin role).
var ErrUnauthorized = errors.New("unauthorized")
