package reconcile

import (
	"context"
	"errors"
	"fmt"
	"itinerary-route-service/internal/ports"
)

var ErrDayNotFound = errors.New("day not found")

type OracleErrorKind string

const (
	KindTimeout            OracleErrorKind = "timeout"
	KindUnavailable        OracleErrorKind = "unavailable"
	KindMalformed          OracleErrorKind = "malformed"
	KindInvalidPermutation OracleErrorKind = "invalid_permutation"
)

// OracleError is a sequencing attempt that produced no usable order. It never
// escapes the controller; the day keeps its previous order.
type OracleError struct {
	Kind OracleErrorKind
	Day  int
	Err  error
}

func (e *OracleError) Error() string {
	return fmt.Sprintf("sequencing day %d failed (%s): %v", e.Day, e.Kind, e.Err)
}

func (e *OracleError) Unwrap() error { return e.Err }

func newOracleError(day int, err error) *OracleError {
	kind := KindUnavailable
	switch {
	case errors.Is(err, ports.ErrOracleTimeout), errors.Is(err, context.DeadlineExceeded):
		kind = KindTimeout
	case errors.Is(err, ports.ErrOracleInvalidPermutation):
		kind = KindInvalidPermutation
	case errors.Is(err, ports.ErrOracleMalformed):
		kind = KindMalformed
	}
	return &OracleError{Kind: kind, Day: day, Err: err}
}
