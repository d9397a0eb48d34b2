package domain

import (
	"errors"
	"fmt"
)

// Kind labels an error category with the machine-readable value exposed on
// the wire.
type Kind string

// Wire kinds carried in error payloads and client-side classifications.
const (
	// KindValidation marks caller input that cannot produce a valid record.
	KindValidation Kind = "validation_error"
	// KindNotFound marks operations targeting an id absent from the store.
	KindNotFound Kind = "not_found"
	// KindTransport marks client-side failures that never reach the store.
	KindTransport Kind = "transport_error"
)

// ValidationError reports caller input that cannot produce a valid record.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Kind returns the wire label for validation failures.
func (e ValidationError) Kind() Kind { return KindValidation }

// NotFoundError is returned when an operation targets an id that is not in
// the store.
type NotFoundError struct {
	ID int64
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("todo %d not found", e.ID)
}

// Kind returns the wire label for missing records.
func (e NotFoundError) Kind() Kind { return KindNotFound }

// TransportError wraps a client-side failure to reach the server or decode
// its response. It never crosses the wire.
type TransportError struct {
	Op  string
	Err error
}

func (e TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap exposes the underlying cause for errors.Is / errors.As chains.
func (e TransportError) Unwrap() error { return e.Err }

// Kind returns the wire label for transport failures.
func (e TransportError) Kind() Kind { return KindTransport }

// KindOf maps an error to its wire kind. Errors outside the taxonomy map to
// the empty kind.
func KindOf(err error) Kind {
	var kinder interface{ Kind() Kind }
	if errors.As(err, &kinder) {
		return kinder.Kind()
	}
	return ""
}
