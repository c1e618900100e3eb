package proof

import "errors"

// Kind is a stable category for programmatic error handling.
//
// These categories are intended to remain stable across versions.
// Callers should branch on Kind rather than matching error strings.
//
// NOTE: Error() strings are intentionally kept human-readable and may evolve.
// Use errors.As to extract *Error for structured handling.
type Kind string

const (
	// KindInvalidIndex marks a redaction index outside the line range of the
	// content it was applied to. User input error; no output is produced.
	KindInvalidIndex Kind = "InvalidIndex"

	// KindRedaction marks an internal redaction transform inconsistency.
	KindRedaction Kind = "Redaction"

	// KindProving marks a failure of the proving service to produce a receipt.
	KindProving Kind = "Proving"

	// KindMalformedArtifact marks a structurally invalid or truncated proof
	// artifact or receipt encoding. Always recoverable, never a crash.
	KindMalformedArtifact Kind = "MalformedArtifact"

	// KindTamperedReceipt marks a receipt rejected against the expected
	// program identity: corruption or forgery, distinct from a malformed file.
	KindTamperedReceipt Kind = "TamperedReceipt"
)

// Error is the library's structured error type.
//
// Message is intended for humans; do not match on it.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// NewError constructs a structured error with the given kind.
func NewError(kind Kind, msg string) error {
	return &Error{Kind: kind, Message: msg}
}

// WrapError constructs a structured error preserving its cause for errors.Is/As.
func WrapError(kind Kind, msg string, cause error) error {
	if cause == nil {
		return NewError(kind, msg)
	}
	return &Error{Kind: kind, Message: msg, Cause: cause}
}

// IsKind reports whether err is (or wraps) a *Error with the given Kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}
