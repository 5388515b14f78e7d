package errcode

import (
	"errors"
	"fmt"
)

// Error is the structured error carried from any component back to the
// command harness. It is intentionally serializable: the harness embeds it
// into the error envelope without losing the code, the recoverability flag
// or the structured context.
type Error struct {
	Code            Code           `json:"code"`
	Message         string         `json:"message"`
	SuggestedAction string         `json:"suggested_action,omitempty"`
	Context         map[string]any `json:"context,omitempty"`

	// recoverable overrides the code's default when set. The request engine
	// uses this to mark upstream 5xx responses recoverable even though
	// INTERNAL_ERROR is not recoverable by default.
	recoverable *bool

	cause error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// Recoverable returns the per-error override when one was set, otherwise the
// code's default.
func (e *Error) Recoverable() bool {
	if e.recoverable != nil {
		return *e.recoverable
	}
	return e.Code.Recoverable()
}

// WithCause sets the wrapped root cause. The cause is available through
// errors.Unwrap but is never serialized into the envelope.
func (e *Error) WithCause(cause error) *Error {
	e.cause = cause
	return e
}

// WithContext adds a structured diagnostic field.
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// WithSuggestion sets the suggested action shown to callers.
func (e *Error) WithSuggestion(action string) *Error {
	e.SuggestedAction = action
	return e
}

// WithRecoverable overrides the code's default recoverability.
func (e *Error) WithRecoverable(recoverable bool) *Error {
	e.recoverable = &recoverable
	return e
}

// New creates a taxonomy error.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates a taxonomy error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// From returns err as a taxonomy error. A recognized *Error is returned
// as-is; anything else is coerced into INTERNAL_ERROR, preserving the
// original message text. The harness is the only intended caller of the
// coercion path.
func From(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return New(InternalError, err.Error()).WithCause(err)
}

// Is reports whether err carries the given taxonomy code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}
