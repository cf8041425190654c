package auth

import "errors"

// Kind tags an authentication failure so callers can branch without
// string-matching messages.
type Kind int

const (
	// KindForbidden covers every expected rejection: missing or invalid
	// session, and storage failures surfaced opaquely.
	KindForbidden Kind = iota
	// KindBadRequest marks client-input faults (e.g. OAuth state mismatch).
	KindBadRequest
	// KindUpstream marks identity-provider failures.
	KindUpstream
)

// Error is the typed failure returned by the authentication flow. Msg is safe
// to show to clients; the cause is logged server-side only.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string { return e.Msg }
func (e *Error) Unwrap() error { return e.Err }

func Forbidden(msg string) *Error { return &Error{Kind: KindForbidden, Msg: msg} }

func BadRequest(msg string) *Error { return &Error{Kind: KindBadRequest, Msg: msg} }

func Upstream(msg string, cause error) *Error {
	return &Error{Kind: KindUpstream, Msg: msg, Err: cause}
}

// IsForbidden reports whether err is an authentication rejection.
func IsForbidden(err error) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Kind == KindForbidden
}
