package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores return these (optionally
// wrapped) so services can translate them into domain errors.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: entity does not exist in store
// - ErrConflict: a uniqueness or state conflict at the storage level
// - ErrInvalidState: entity in wrong state for requested operation
// - ErrSerialization: row-lock or serialization conflict, safe to retry
// - ErrUnavailable: backing service temporarily unavailable
//
// For validation errors (bad input, missing fields), use pkg/domain-errors.
var (
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
	ErrInvalidState  = errors.New("invalid state")
	ErrSerialization = errors.New("serialization conflict")
	ErrUnavailable   = errors.New("unavailable")
)
