package advisory

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a gateway failure so callers can decide between
// fixing their input, retrying later, or giving up.
type Kind string

const (
	// KindConfiguration - base address missing; fatal at construction.
	KindConfiguration Kind = "configuration"
	// KindValidation - profile fields violate domain constraints; no
	// network call was attempted.
	KindValidation Kind = "validation"
	// KindClient - the backend rejected the request shape (4xx).
	KindClient Kind = "client"
	// KindUpstream - the backend failed (5xx); callers may retry.
	KindUpstream Kind = "upstream"
	// KindTransport - connection, DNS, or TLS failure; callers may retry.
	KindTransport Kind = "transport"
	// KindCancelled - caller-initiated abort or deadline expiry.
	KindCancelled Kind = "cancelled"
	// KindMalformedResponse - 2xx with an undecodable body; retrying
	// will not fix a schema mismatch.
	KindMalformedResponse Kind = "malformed_response"
)

// Error is the single error type crossing the gateway boundary. Every
// stage maps its internal failures into exactly one Kind before
// returning; transport-level errors never leak past this type.
type Error struct {
	Kind   Kind
	Fields []string // offending profile fields, validation only
	Status int      // HTTP status when the backend answered
	Body   string   // diagnostic response body, non-2xx only
	Err    error    // underlying cause
}

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "advisory: %s", e.Kind)
	if len(e.Fields) > 0 {
		fmt.Fprintf(&b, " (fields: %s)", strings.Join(e.Fields, ", "))
	}
	if e.Status != 0 {
		fmt.Fprintf(&b, " (status %d)", e.Status)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf extracts the failure kind from any error returned by this
// package. Unrecognized errors report KindUpstream so callers still
// get a retry-safe default.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindUpstream
}

// newError builds an Error wrapping cause.
func newError(kind Kind, cause error) *Error {
	return &Error{Kind: kind, Err: cause}
}
