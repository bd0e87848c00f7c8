// Package errs defines the error taxonomy shared by the entity, auth and
// client packages. Every failure surfaces as one of the typed errors below so
// callers can branch with errors.As without string matching.
package errs

import "fmt"

// ValidationKind identifies the invariant a construction attempt violated.
type ValidationKind int

const (
	// InvalidBound: a numeric ordering constraint does not hold (min > max etc).
	InvalidBound ValidationKind = iota
	// NegativeValue: a value that must be positive or non-negative is not.
	NegativeValue
	// DuplicateID: two entities share an identifier that must be unique.
	DuplicateID
	// DanglingReference: a relation names a signal group that does not exist.
	DanglingReference
	// IncompleteInput: required data is absent or has the wrong shape.
	IncompleteInput
)

func (k ValidationKind) String() string {
	switch k {
	case InvalidBound:
		return "invalid bound"
	case NegativeValue:
		return "negative value"
	case DuplicateID:
		return "duplicate id"
	case DanglingReference:
		return "dangling reference"
	case IncompleteInput:
		return "incomplete input"
	default:
		return "unknown"
	}
}

// ValidationError reports a construction-time invariant violation. It is
// raised locally and never results from, or in, a network call.
type ValidationError struct {
	Kind    ValidationKind
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed [%s]: %s: %s", e.Kind, e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed [%s]: %s", e.Kind, e.Message)
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(kind ValidationKind, field, format string, args ...any) *ValidationError {
	return &ValidationError{Kind: kind, Field: field, Message: fmt.Sprintf(format, args...)}
}

// DeserializationKind identifies why a JSON mapping could not be decoded.
type DeserializationKind int

const (
	// MissingField: a required key is absent from the mapping.
	MissingField DeserializationKind = iota
	// WrongType: a key is present but holds a value of the wrong JSON type.
	WrongType
	// InvalidValue: the decoded values violate a constructor invariant.
	InvalidValue
)

func (k DeserializationKind) String() string {
	switch k {
	case MissingField:
		return "missing field"
	case WrongType:
		return "wrong type"
	case InvalidValue:
		return "invalid value"
	default:
		return "unknown"
	}
}

// DeserializationError reports a malformed JSON mapping. Field names the key
// (possibly dotted for nesting) that failed.
type DeserializationError struct {
	Kind    DeserializationKind
	Field   string
	Message string
}

func (e *DeserializationError) Error() string {
	return fmt.Sprintf("deserialization failed [%s]: %s: %s", e.Kind, e.Field, e.Message)
}

// NewDeserializationError creates a DeserializationError for the given field.
func NewDeserializationError(kind DeserializationKind, field, format string, args ...any) *DeserializationError {
	return &DeserializationError{Kind: kind, Field: field, Message: fmt.Sprintf(format, args...)}
}

// AuthenticationError indicates the remote service rejected the caller's
// credentials or signature (401/402/403/426 family).
type AuthenticationError struct {
	StatusCode int
	Message    string
}

func (e *AuthenticationError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("authentication rejected (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("authentication rejected: %s", e.Message)
}

// RemoteRequestError indicates the server rejected the request content (4xx).
// Message carries the server-provided detail verbatim.
type RemoteRequestError struct {
	StatusCode int
	Message    string
}

func (e *RemoteRequestError) Error() string {
	return fmt.Sprintf("request rejected by cloud api (status %d): %s", e.StatusCode, e.Message)
}

// RemoteServiceError indicates a server-side failure (5xx or an unexpected
// status). These are transient from the caller's point of view.
type RemoteServiceError struct {
	StatusCode int
	Message    string
}

func (e *RemoteServiceError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("cloud api failed (status %d)", e.StatusCode)
	}
	return fmt.Sprintf("cloud api failed (status %d): %s", e.StatusCode, e.Message)
}

// TimeoutError indicates no response arrived within the configured bound,
// either a transport timeout or a 504 from the gateway.
type TimeoutError struct {
	Operation string
	Message   string
}

func (e *TimeoutError) Error() string {
	if e.Operation != "" {
		return fmt.Sprintf("%s timed out: %s", e.Operation, e.Message)
	}
	return fmt.Sprintf("request timed out: %s", e.Message)
}

// SafetyViolationError reports that a fixed-time schedule violates a safety
// restriction of the intersection it was checked against.
type SafetyViolationError struct {
	Message string
}

func (e *SafetyViolationError) Error() string {
	return fmt.Sprintf("safety restriction violated: %s", e.Message)
}

// NewSafetyViolation creates a SafetyViolationError.
func NewSafetyViolation(format string, args ...any) *SafetyViolationError {
	return &SafetyViolationError{Message: fmt.Sprintf(format, args...)}
}
