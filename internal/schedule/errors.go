// Package schedule implements the scheduling and workforce coordination
// core: recurring-series expansion, calendar aggregation, bulk job
// mutation, and shift-swap resolution.
package schedule

import "errors"

// Sentinel errors surfaced to callers as an operation's direct failure.
// A cross-tenant id is deliberately indistinguishable from a missing one.
var (
	ErrValidation = errors.New("invalid input")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
)
