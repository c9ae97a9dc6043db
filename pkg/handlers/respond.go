package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/servly/escrow-engine/pkg/api"
	"github.com/servly/escrow-engine/pkg/engine"
	"github.com/servly/escrow-engine/pkg/models"
	"github.com/servly/escrow-engine/pkg/storage"
)

const (
	headerActorID   = "X-Actor-Id"
	headerActorRole = "X-Actor-Role"
)

var (
	errAdminOnly           = fmt.Errorf("%w: admin role required", engine.ErrUnauthorized)
	errUnauthorizedDeposit = fmt.Errorf("%w: deposits may only target the actor's own wallet", engine.ErrUnauthorized)
	errBadLimit            = fmt.Errorf("%w: limit must be a positive integer", engine.ErrValidation)
	errBadOutcome          = fmt.Errorf("%w: outcome must be a resolved dispute status", engine.ErrValidation)
	errMissingService      = fmt.Errorf("%w: serviceId query parameter is required", engine.ErrValidation)
)

// actor reads the caller's identity from the gateway headers. A missing
// actor id fails the request; there is no ambient fallback.
func (h *ApiHandler) actor(w http.ResponseWriter, r *http.Request) (models.Actor, bool) {
	id := r.Header.Get(headerActorID)
	if id == "" {
		writeResult(w, http.StatusUnauthorized, api.Result{
			OK:        false,
			ErrorKind: "Unauthorized",
			Message:   "missing actor identity",
		})
		return models.Actor{}, false
	}
	return models.Actor{
		UserID: id,
		Admin:  r.Header.Get(headerActorRole) == "admin",
	}, true
}

// decode parses the JSON request body, responding with a validation error on
// malformed input.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeResult(w, http.StatusBadRequest, api.Result{
			OK:        false,
			ErrorKind: "ValidationError",
			Message:   fmt.Sprintf("invalid request body: %v", err),
		})
		return false
	}
	return true
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeResult(w, status, api.Result{OK: true, Data: data})
}

// writeError maps an engine error onto the response envelope. Business
// errors carry their message verbatim; transient and storage failures get a
// generic message so internals never leak.
func writeError(w http.ResponseWriter, err error) {
	status, kind := classify(err)

	msg := err.Error()
	switch kind {
	case "Busy":
		msg = "the wallet is busy, retry the request"
	case "StorageUnavailable":
		msg = "a storage error occurred, retry the request"
	}

	writeResult(w, status, api.Result{OK: false, ErrorKind: kind, Message: msg})
}

// classify maps an error to its HTTP status and wire kind. Version races
// are retryable (503); status-guard conflicts are idempotency signals (409);
// everything unrecognized is a storage failure.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, engine.ErrValidation):
		return http.StatusBadRequest, "ValidationError"
	case errors.Is(err, engine.ErrUnauthorized):
		return http.StatusForbidden, "Unauthorized"
	case errors.Is(err, storage.ErrWalletNotFound):
		return http.StatusNotFound, "WalletNotFound"
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound, "NotFound"
	case errors.Is(err, storage.ErrInsufficientFunds):
		return http.StatusUnprocessableEntity, "InsufficientFunds"
	case errors.Is(err, storage.ErrWalletInactive):
		return http.StatusUnprocessableEntity, "WalletInactive"
	case errors.Is(err, storage.ErrOverRelease):
		return http.StatusUnprocessableEntity, "OverRelease"
	case errors.Is(err, storage.ErrAlreadyAccepted):
		return http.StatusConflict, "AlreadyAccepted"
	case errors.Is(err, storage.ErrAlreadyResolved):
		return http.StatusConflict, "AlreadyResolved"
	case errors.Is(err, storage.ErrAlreadyProcessed):
		return http.StatusConflict, "AlreadyProcessed"
	case errors.Is(err, storage.ErrBusy):
		return http.StatusServiceUnavailable, "Busy"
	default:
		return http.StatusInternalServerError, "StorageUnavailable"
	}
}

func writeResult(w http.ResponseWriter, status int, result api.Result) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(result)
}
