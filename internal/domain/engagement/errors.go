// internal/domain/engagement/errors.go

package engagement

import (
	"errors"
)

// Failure kinds surfaced by the engine
var (
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrSchemaMismatch   = errors.New("schema mismatch")
	ErrInvalidRange     = errors.New("invalid range")
	ErrInvalidHorizon   = errors.New("invalid horizon")
	ErrEmptyInput       = errors.New("empty input")
	ErrNoData           = errors.New("no data")
	ErrInsufficientData = errors.New("insufficient data")
	ErrDegenerateFit    = errors.New("degenerate fit")
)

// Reason returns the user-facing explanation for err
func Reason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrStoreUnavailable):
		return "data source unreachable"
	case errors.Is(err, ErrSchemaMismatch):
		return "incompatible data source"
	case errors.Is(err, ErrInvalidRange):
		return "invalid period: start is after end"
	case errors.Is(err, ErrInvalidHorizon):
		return "invalid forecast horizon"
	case errors.Is(err, ErrEmptyInput), errors.Is(err, ErrNoData):
		return "no data"
	case errors.Is(err, ErrInsufficientData):
		return "not enough history to forecast"
	case errors.Is(err, ErrDegenerateFit):
		return "engagement history cannot be fitted"
	default:
		return "unexpected error: " + err.Error()
	}
}

// Recoverable reports whether err is a data-sufficiency condition rather than a failure
func Recoverable(err error) bool {
	return errors.Is(err, ErrEmptyInput) ||
		errors.Is(err, ErrNoData) ||
		errors.Is(err, ErrInsufficientData) ||
		errors.Is(err, ErrDegenerateFit)
}
