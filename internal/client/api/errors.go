package api

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/smartnotes/internal/common"
)

var ErrUnavailable = errors.New("server unavailable")

// kinds maps the "error" field of an API problem to the matching sentinel.
var kinds = map[string]error{
	"validation":          common.ErrorValidation,
	"invalid_pin":         common.ErrInvalidPin,
	"invalid_credentials": common.ErrInvalidCredentials,
	"unauthorized":        common.ErrorUnauthorized,
	"pin_required":        common.ErrPinRequired,
	"not_found":           common.ErrorNotFound,
	"version_conflict":    common.ErrVersionConflict,
	"conflict":            common.ErrConflict,
	"too_many_attempts":   common.ErrTooManyAttempts,
	"storage_disabled":    common.ErrStorageDisabled,
	"internal":            common.ErrorInternal,
}

// Error is a failed API call. It unwraps to the sentinel of its kind so
// callers can use errors.Is.
type Error struct {
	Status  int
	Kind    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s (%d): %s", e.Kind, e.Status, e.Message)
}

func (e *Error) Unwrap() error {
	return kinds[e.Kind]
}
