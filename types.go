package jwtlite

import (
	"time"

	"github.com/cybergodev/jwtlite/internal/signing"
)

// SigningMethod identifies the HMAC algorithm a token is signed with.
// Only the three constants below are valid.
type SigningMethod string

const (
	// SigningMethodHS256 uses HMAC with SHA-256 (the default)
	SigningMethodHS256 SigningMethod = "HS256"

	// SigningMethodHS384 uses HMAC with SHA-384
	SigningMethodHS384 SigningMethod = "HS384"

	// SigningMethodHS512 uses HMAC with SHA-512
	SigningMethodHS512 SigningMethod = "HS512"
)

// DefaultSigningMethod is used when no algorithm is given, and when a token header
// carries no alg at all.
const DefaultSigningMethod = SigningMethodHS256

// TokenType is the typ value written into every header.
const TokenType = "JWT"

// SigningMethods returns every supported method.
func SigningMethods() []SigningMethod {
	algs := signing.Algorithms()
	methods := make([]SigningMethod, len(algs))
	for i, alg := range algs {
		methods[i] = SigningMethod(alg)
	}
	return methods
}

// Valid reports whether m is one of the supported methods.
func (m SigningMethod) Valid() bool {
	return signing.GetHMACMethod(string(m)) != nil
}

func (m SigningMethod) method() (signing.Method, error) {
	return signing.Lookup(string(m))
}

// Header is the first token segment. Field order is the wire order. An empty Alg in a
// verified header means the token carried none and was checked as HS256.
type Header struct {
	Alg        SigningMethod `json:"alg"`
	Typ        string        `json:"typ"`
	ExpireDate int64         `json:"expireDate"`
}

// Expires reports whether the header carries a real expiry rather than NeverExpires.
func (h Header) Expires() bool {
	return h.ExpireDate != NeverExpires
}

// ExpiresAt converts ExpireDate to a time. It returns the zero time for NeverExpires.
func (h Header) ExpiresAt() time.Time {
	if !h.Expires() {
		return time.Time{}
	}
	return time.UnixMilli(h.ExpireDate)
}

// Token is the result of a verification in complete mode.
type Token struct {
	Header  Header `json:"header"`
	Payload any    `json:"payload"`
}

// SignOptions tunes a single Sign call. Zero fields fall back to the codec defaults.
type SignOptions struct {
	// Algorithm selects the MAC; empty means the codec default
	Algorithm SigningMethod

	// ExpireDate is a Unix millisecond timestamp or NeverExpires. Zero means "not set".
	ExpireDate int64
}

// VerifyOptions tunes a single Verify call. Zero values fall back to the codec's Config, so
// a call can widen but never narrow the configured MaxAge and IgnoreExpiration.
type VerifyOptions struct {
	// MaxAge extends the expiry by a grace period. Precision is one millisecond.
	// Zero means the codec's MaxAge.
	MaxAge time.Duration

	// IgnoreExpiration skips the expiry comparison. The header must still carry a numeric
	// expireDate; a token without one is malformed either way.
	IgnoreExpiration bool

	// Complete makes Verify return a *Token instead of the bare payload
	Complete bool
}
