package jwtlite

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/cybergodev/jwtlite/internal/core"
)

var (
	defaultCodec     *Codec
	defaultCodecOnce sync.Once
)

// Default returns the shared codec behind the package-level functions. It uses
// DefaultConfig, the system clock and no logging or metrics.
func Default() *Codec {
	defaultCodecOnce.Do(func() {
		codec, err := New(DefaultConfig())
		if err != nil {
			// DefaultConfig always validates
			panic(err)
		}
		defaultCodec = codec
	})
	return defaultCodec
}

// Sign creates a token for payload using the shared default codec.
func Sign(payload any, secret []byte, options ...SignOptions) (string, error) {
	return Default().Sign(payload, secret, options...)
}

// Verify checks a token using the shared default codec.
func Verify(token string, secret []byte, options ...VerifyOptions) (any, error) {
	return Default().Verify(token, secret, options...)
}

// VerifyComplete checks a token and returns both header and payload.
func VerifyComplete(token string, secret []byte, options ...VerifyOptions) (*Token, error) {
	return Default().VerifyComplete(token, secret, options...)
}

// VerifyInto checks a token and unmarshals its payload into dst.
func VerifyInto(token string, secret []byte, dst any, options ...VerifyOptions) (Header, error) {
	return Default().VerifyInto(token, secret, dst, options...)
}

// ParseUnverified decodes header and payload WITHOUT checking the signature or expiry.
// The result must not be trusted; it exists for debugging and tooling.
func ParseUnverified(token string) (*Token, error) {
	parts, err := core.Split(token)
	if err != nil {
		return nil, newTokenError(ReasonMalformedToken, err)
	}

	raw, err := core.DecodeHeader(parts.Header)
	if err != nil {
		if errors.Is(err, core.ErrAlgorithmType) {
			return nil, newTokenError(ReasonInvalidAlgorithm, err)
		}
		return nil, newTokenError(ReasonMalformedToken, err)
	}

	var payload any
	if err := core.DecodePayload(parts.Payload, &payload); err != nil {
		return nil, newTokenError(ReasonMalformedToken, err)
	}

	return &Token{Header: headerFromRaw(raw), Payload: payload}, nil
}

// String renders the token as indented JSON, for display only.
func (t *Token) String() string {
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return fmt.Sprintf("%+v", *t)
	}
	return string(data)
}
