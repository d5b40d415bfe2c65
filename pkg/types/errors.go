package types

import (
	"errors"
	"fmt"
)

// Collection and entity errors.
var (
	ErrCollectionNotFound = errors.New("collection not found")
	ErrNotFound           = errors.New("entity not found")
	ErrInvalidID          = errors.New("invalid entity ID")
	ErrDuplicateID        = errors.New("duplicate entity ID")
	ErrInvalidData        = errors.New("invalid entity data")
)

// Backend lifecycle errors.
var (
	ErrBackendDetached = errors.New("backend is detached")
	ErrAlreadyAttached = errors.New("backend is already attached")
)

// ErrNetwork is matched by every NetworkError.
var ErrNetwork = errors.New("network error")

// NetworkError is returned by gateways for any non-2xx response or transport
// failure. StatusCode is 0 for transport failures.
type NetworkError struct {
	Op         string // list, create, update, delete
	Collection string
	StatusCode int
	Message    string
	Err        error // underlying transport error, if any
}

func (e *NetworkError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s %s: %s: %s", e.Op, e.Collection, ErrNetwork, msg)
	}
	return fmt.Sprintf("%s %s: %s (HTTP %d): %s", e.Op, e.Collection, ErrNetwork, e.StatusCode, msg)
}

// Is makes errors.Is(err, ErrNetwork) hold for every NetworkError.
func (e *NetworkError) Is(target error) bool {
	return target == ErrNetwork
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}
