package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/smartnotes/internal/common"
)

// problem is the error body sent to clients.
type problem struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type classified struct {
	status int
	kind   string
	err    error
}

// errorTable maps service errors to responses. Order matters: the first
// match wins.
var errorTable = []classified{
	{http.StatusBadRequest, "validation", common.ErrorValidation},
	{http.StatusBadRequest, "invalid_pin", common.ErrInvalidPin},
	{http.StatusUnauthorized, "invalid_credentials", common.ErrInvalidCredentials},
	{http.StatusUnauthorized, "unauthorized", common.ErrorUnauthorized},
	{http.StatusForbidden, "pin_required", common.ErrPinRequired},
	{http.StatusNotFound, "not_found", common.ErrorNotFound},
	{http.StatusConflict, "version_conflict", common.ErrVersionConflict},
	{http.StatusConflict, "conflict", common.ErrConflict},
	{http.StatusTooManyRequests, "too_many_attempts", common.ErrTooManyAttempts},
	{http.StatusServiceUnavailable, "storage_disabled", common.ErrStorageDisabled},
}

// classify returns the status, kind and client-safe message for err.
// Validation messages carry the field detail, the rest use the sentinel
// text only.
func classify(err error) (int, string, string) {
	for _, c := range errorTable {
		if errors.Is(err, c.err) {
			if c.err == common.ErrorValidation {
				return c.status, c.kind, err.Error()
			}
			return c.status, c.kind, c.err.Error()
		}
	}
	return http.StatusInternalServerError, "internal", common.ErrorInternal.Error()
}

func (h *handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, kind, msg := classify(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	writeJSON(w, status, problem{Error: kind, Message: msg})
}

// failPin reports a wrong PIN as 401. Used by the endpoints that check an
// existing PIN rather than set a new one.
func (h *handler) failPin(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, common.ErrInvalidPin) {
		writeJSON(w, http.StatusUnauthorized, problem{Error: "invalid_pin", Message: common.ErrInvalidPin.Error()})
		return
	}
	h.fail(w, r, err)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
