package types

import (
	"errors"
	"fmt"
)

// Resolution errors.
var (
	ErrInvalidContext  = errors.New("invalid context")
	ErrInvalidName     = errors.New("name must not be empty")
	ErrUnknownItemType = errors.New("unknown item type")
	ErrStore           = errors.New("store failure")
)

// Lookup errors. The finder reports absence as found=false, not as
// ErrNotFound; ErrNotFound is for direct reads by id.
var (
	ErrNotFound = errors.New("not found")
)

// Social feature errors.
var (
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidScore = errors.New("score out of range")
	ErrInvalidUser  = errors.New("invalid user id")
	ErrInvalidID    = errors.New("ids must be positive")
)

// Catalog lifecycle errors.
var (
	ErrCatalogClosed = errors.New("catalog is closed")
)

// StoreError wraps a persistence or connectivity failure. The unit of work
// that produced it was rolled back, so the whole operation is safe to retry.
type StoreError struct {
	Op  string
	Err error
}

// NewStoreError wraps err as a StoreError for op. It returns nil for a nil err.
func NewStoreError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Err: err}
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrStore, e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrStore) hold for every StoreError.
func (e *StoreError) Is(target error) bool { return target == ErrStore }

// IsInvalidRequest reports whether err rejects the caller's input rather
// than signalling a failure of the system.
func IsInvalidRequest(err error) bool {
	for _, target := range []error{
		ErrInvalidContext, ErrInvalidName, ErrUnknownItemType,
		ErrInvalidScore, ErrInvalidUser, ErrInvalidID, ErrForbidden, ErrNotFound,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
