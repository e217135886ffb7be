// Package errors provides the standardized error taxonomy for the signalctl
// protocol stack. It defines one error kind per failure family the protocol
// distinguishes on the wire, stable wire codes for each, and helper functions
// for consistent wrapping and classification across handlers and services.
package errors

import (
	"errors"
	"fmt"
)

// Kind classifies errors into the families the protocol reports distinctly.
type Kind int

const (
	// KindValidation represents malformed or out-of-range input, named by field.
	KindValidation Kind = iota
	// KindAuthentication represents login failures (unknown user, bad credential).
	KindAuthentication
	// KindSessionExpired represents an unknown, invalidated or timed-out token.
	KindSessionExpired
	// KindNotFound represents a referenced entity that does not exist.
	KindNotFound
	// KindBusiness represents a downstream service rejecting the request for
	// domain reasons.
	KindBusiness
	// KindProtocol represents a malformed envelope: unsupported operation,
	// missing payload, unknown object kind.
	KindProtocol
	// KindSystem represents an unexpected, uncaught failure.
	KindSystem
)

// String returns the string representation of Kind
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthentication:
		return "authentication"
	case KindSessionExpired:
		return "session_expired"
	case KindNotFound:
		return "not_found"
	case KindBusiness:
		return "business"
	case KindProtocol:
		return "protocol"
	case KindSystem:
		return "system"
	default:
		return "unknown"
	}
}

// Wire error codes, one per error family. These are part of the protocol
// contract and must stay stable across releases.
const (
	CodeValidation     = "SDE_Validation"
	CodeAuthentication = "SDE_User"
	CodeSessionExpired = "SDE_Token"
	CodeNotFound       = "SDE_NotExist"
	CodeBusiness       = "SDE_Failure"
	CodeProtocol       = "SDE_UnknownOperation"
	CodeSystem         = "SDE_SystemError"
)

// Code returns the stable wire code for this error kind.
func (k Kind) Code() string {
	switch k {
	case KindValidation:
		return CodeValidation
	case KindAuthentication:
		return CodeAuthentication
	case KindSessionExpired:
		return CodeSessionExpired
	case KindNotFound:
		return CodeNotFound
	case KindBusiness:
		return CodeBusiness
	case KindProtocol:
		return CodeProtocol
	default:
		return CodeSystem
	}
}

// Standard error variables for common conditions
var (
	// Session errors
	ErrInvalidToken   = errors.New("invalid token")
	ErrSessionExpired = errors.New("session expired")
	ErrBadCredentials = errors.New("unknown user or bad credential")

	// Envelope errors
	ErrEmptyBody           = errors.New("message body carries no operation")
	ErrMissingPayload      = errors.New("operation carries no payload object")
	ErrUnsupportedMessage  = errors.New("unsupported operation")
	ErrUnknownObjectKind   = errors.New("unknown object kind")
	ErrUnknownMessageType  = errors.New("unknown message type")
	ErrDuplicateHandler    = errors.New("ambiguous handler registration")
	ErrPayloadTypeConflict = errors.New("payload type already registered")
)

// Error wraps a failure with its protocol classification. Field is set for
// validation errors to name the offending field; Component and Operation
// record where the error was raised.
type Error struct {
	Kind      Kind
	Err       error
	Message   string
	Field     string
	Component string
	Operation string
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Kind.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Err
}

// Code returns the stable wire code for this error.
func (e *Error) Code() string {
	return e.Kind.Code()
}

// KindOf returns the classification of err, defaulting to KindSystem for
// errors raised outside this taxonomy.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindSystem
}

// CodeOf returns the stable wire code for err.
func CodeOf(err error) string {
	return KindOf(err).Code()
}

// Validation creates a field-named validation error.
// The message format is "field: problem" so operators can locate the
// offending field without consulting logs.
func Validation(field, format string, args ...any) error {
	return &Error{
		Kind:    KindValidation,
		Field:   field,
		Message: fmt.Sprintf("%s: %s", field, fmt.Sprintf(format, args...)),
	}
}

// Authentication creates an authentication error wrapping cause.
func Authentication(cause error, message string) error {
	return &Error{Kind: KindAuthentication, Err: cause, Message: message}
}

// SessionExpired creates a session error wrapping cause.
func SessionExpired(cause error) error {
	return &Error{Kind: KindSessionExpired, Err: cause}
}

// NotFound creates a not-found error for the named entity.
func NotFound(entity, id string) error {
	return &Error{
		Kind:    KindNotFound,
		Message: fmt.Sprintf("%s %q not found", entity, id),
	}
}

// NotFoundf creates a not-found error with a formatted message.
func NotFoundf(format string, args ...any) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// Business wraps a downstream rejection.
func Business(cause error, message string) error {
	return &Error{Kind: KindBusiness, Err: cause, Message: message}
}

// Protocol creates a protocol error wrapping cause.
func Protocol(cause error, message string) error {
	return &Error{Kind: KindProtocol, Err: cause, Message: message}
}

// System wraps an unexpected failure with its origin following the pattern
// "component.method: internal error".
func System(cause error, component, operation string) error {
	return &Error{
		Kind:      KindSystem,
		Err:       cause,
		Component: component,
		Operation: operation,
		Message:   fmt.Sprintf("%s.%s: internal error: %v", component, operation, cause),
	}
}

// Wrap creates a standardized error with context following the pattern:
// "component.method: action failed: %w"
func Wrap(err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s.%s: %s failed: %w", component, method, action, err)
}

// IsValidation checks whether err is classified as a validation failure.
func IsValidation(err error) bool { return isKind(err, KindValidation) }

// IsAuthentication checks whether err is classified as an authentication failure.
func IsAuthentication(err error) bool { return isKind(err, KindAuthentication) }

// IsSessionExpired checks whether err is classified as a session failure.
func IsSessionExpired(err error) bool { return isKind(err, KindSessionExpired) }

// IsNotFound checks whether err is classified as a missing-entity failure.
func IsNotFound(err error) bool { return isKind(err, KindNotFound) }

// IsBusiness checks whether err is classified as a downstream rejection.
func IsBusiness(err error) bool { return isKind(err, KindBusiness) }

// IsProtocol checks whether err is classified as an envelope failure.
func IsProtocol(err error) bool { return isKind(err, KindProtocol) }

func isKind(err error, k Kind) bool {
	if err == nil {
		return false
	}
	var e *Error
	return errors.As(err, &e) && e.Kind == k
}

// Is re-exports errors.Is so callers do not need a second import for plain
// error inspection.
func Is(err, target error) bool { return errors.Is(err, target) }

// As re-exports errors.As.
func As(err error, target any) bool { return errors.As(err, target) }

// New re-exports errors.New.
func New(text string) error { return errors.New(text) }

// Join re-exports errors.Join.
func Join(errs ...error) error { return errors.Join(errs...) }
