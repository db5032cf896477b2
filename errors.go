package jwtlite

import (
	"encoding/json"
	"errors"
)

// Configuration errors
var (
	ErrInvalidConfig        = errors.New("invalid configuration")
	ErrInvalidSigningMethod = errors.New("invalid signing method: must be HS256, HS384, or HS512")
)

// Kind separates encoder failures from decoder failures.
type Kind string

const (
	KindSign  Kind = "SignError"
	KindToken Kind = "TokenError"
)

// Reason is the closed set of failure causes.
type Reason int

const (
	ReasonInvalidAlgorithm Reason = iota + 1
	ReasonMissingPayload
	ReasonMissingSecret
	ReasonInvalidPayload
	ReasonMalformedToken
	ReasonInvalidSignature
	ReasonTokenExpired
)

var reasonMessages = map[Reason]string{
	ReasonInvalidAlgorithm: "invalid algorithm",
	ReasonMissingPayload:   "payload is required",
	ReasonMissingSecret:    "secret is required",
	ReasonInvalidPayload:   "invalid payload",
	ReasonMalformedToken:   "incorrect token format",
	ReasonInvalidSignature: "invalid token signature",
	ReasonTokenExpired:     "token expired",
}

// String returns the wire message for r.
func (r Reason) String() string {
	if msg, ok := reasonMessages[r]; ok {
		return msg
	}
	return "unknown error"
}

// Error is the only error type returned by Sign and Verify.
// Err holds the underlying cause when there is one. It never contains the secret.
type Error struct {
	Kind   Kind
	Reason Reason
	Err    error
}

func (e *Error) Error() string {
	return string(e.Kind) + ": " + e.Reason.String()
}

// Message is the human-readable part of the error, without the kind.
func (e *Error) Message() string {
	return e.Reason.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error with the same kind and reason, so the sentinels below work
// with errors.Is regardless of the wrapped cause.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Reason == t.Reason
}

// MarshalJSON renders the {name, message} object callers of the original token format
// expect.
func (e *Error) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name    Kind   `json:"name"`
		Message string `json:"message"`
	}{e.Kind, e.Message()})
}

// Sentinels for errors.Is. Compare, never return them directly.
var (
	ErrSignInvalidAlgorithm = &Error{Kind: KindSign, Reason: ReasonInvalidAlgorithm}
	ErrPayloadRequired      = &Error{Kind: KindSign, Reason: ReasonMissingPayload}
	ErrSignSecretRequired   = &Error{Kind: KindSign, Reason: ReasonMissingSecret}
	ErrInvalidPayload       = &Error{Kind: KindSign, Reason: ReasonInvalidPayload}

	ErrIncorrectTokenFormat  = &Error{Kind: KindToken, Reason: ReasonMalformedToken}
	ErrTokenSecretRequired   = &Error{Kind: KindToken, Reason: ReasonMissingSecret}
	ErrTokenInvalidAlgorithm = &Error{Kind: KindToken, Reason: ReasonInvalidAlgorithm}
	ErrInvalidSignature      = &Error{Kind: KindToken, Reason: ReasonInvalidSignature}
	ErrTokenExpired          = &Error{Kind: KindToken, Reason: ReasonTokenExpired}
)

func newSignError(reason Reason, cause error) *Error {
	return &Error{Kind: KindSign, Reason: reason, Err: cause}
}

func newTokenError(reason Reason, cause error) *Error {
	return &Error{Kind: KindToken, Reason: reason, Err: cause}
}

// IsSignError reports whether err came from the encoder.
func IsSignError(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindSign
}

// IsTokenError reports whether err came from the decoder.
func IsTokenError(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindToken
}

// ReasonOf extracts the reason from err, or 0 if err is not an *Error.
func ReasonOf(err error) Reason {
	var e *Error
	if errors.As(err, &e) {
		return e.Reason
	}
	return 0
}
