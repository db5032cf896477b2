package jwtlite

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cybergodev/jwtlite/internal/core"
	"github.com/cybergodev/jwtlite/internal/metrics"
	"github.com/cybergodev/jwtlite/internal/signing"
)

// Codec signs and verifies tokens with a fixed set of defaults. It holds no secret and no
// per-token state, so one Codec can serve any number of goroutines.
type Codec struct {
	signingMethod    SigningMethod
	expiresIn        time.Duration
	maxAge           time.Duration
	ignoreExpiration bool
	clock            Clock
	logger           *zap.Logger
	metrics          *metrics.Recorder
}

// New creates a Codec with optional configuration
func New(config ...Config) (*Codec, error) {
	var cfg Config
	if len(config) > 0 {
		cfg = config[0]
	} else {
		cfg = DefaultConfig()
	}

	if cfg.SigningMethod == "" {
		cfg.SigningMethod = DefaultSigningMethod
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	codec := &Codec{
		signingMethod:    cfg.SigningMethod,
		expiresIn:        cfg.ExpiresIn,
		maxAge:           cfg.MaxAge,
		ignoreExpiration: cfg.IgnoreExpiration,
		clock:            cfg.Clock,
		logger:           cfg.Logger,
	}

	if codec.clock == nil {
		codec.clock = SystemClock
	}
	if codec.logger == nil {
		codec.logger = zap.NewNop()
	}

	if cfg.Registerer != nil {
		rec, err := metrics.NewRecorder(cfg.Registerer)
		if err != nil {
			return nil, fmt.Errorf("failed to register metrics: %w", err)
		}
		codec.metrics = rec
	}

	return codec, nil
}

// Sign builds a token for payload. Only the first options value is used.
func (c *Codec) Sign(payload any, secret []byte, options ...SignOptions) (string, error) {
	start := time.Now()
	opts := c.signOptions(options)

	token, err := c.sign(payload, secret, opts)
	c.observe(metrics.OperationSign, opts.Algorithm, err, start)
	return token, err
}

// Verify checks token and returns its decoded payload, or a *Token when
// VerifyOptions.Complete is set.
func (c *Codec) Verify(token string, secret []byte, options ...VerifyOptions) (any, error) {
	opts := c.verifyOptions(options)

	var payload any
	header, err := c.verifyInto(token, secret, opts, &payload)
	if err != nil {
		return nil, err
	}

	if opts.Complete {
		return &Token{Header: header, Payload: payload}, nil
	}
	return payload, nil
}

// VerifyComplete is Verify in complete mode with a typed result. The header is returned
// as decoded: a token without alg is checked as HS256 but reports an empty Alg.
func (c *Codec) VerifyComplete(token string, secret []byte, options ...VerifyOptions) (*Token, error) {
	opts := c.verifyOptions(options)

	var payload any
	header, err := c.verifyInto(token, secret, opts, &payload)
	if err != nil {
		return nil, err
	}
	return &Token{Header: header, Payload: payload}, nil
}

// VerifyInto verifies token and unmarshals its payload into dst. dst is left untouched
// when verification fails.
func (c *Codec) VerifyInto(token string, secret []byte, dst any, options ...VerifyOptions) (Header, error) {
	return c.verifyInto(token, secret, c.verifyOptions(options), dst)
}

func (c *Codec) verifyInto(token string, secret []byte, opts VerifyOptions, dst any) (Header, error) {
	start := time.Now()

	header, alg, raw, err := c.verify(token, secret, opts)
	if err == nil {
		if uerr := json.Unmarshal(raw, dst); uerr != nil {
			err = newTokenError(ReasonMalformedToken, fmt.Errorf("payload: %w", uerr))
		}
	}

	c.observe(metrics.OperationVerify, alg, err, start)
	if err != nil {
		return Header{}, err
	}
	return header, nil
}

func (c *Codec) signOptions(options []SignOptions) SignOptions {
	opts := SignOptions{Algorithm: c.signingMethod}
	if len(options) > 0 {
		if options[0].Algorithm != "" {
			opts.Algorithm = options[0].Algorithm
		}
		opts.ExpireDate = options[0].ExpireDate
	}
	if opts.ExpireDate == 0 {
		opts.ExpireDate = ExpiresIn(c.clock, c.expiresIn)
	}
	return opts
}

func (c *Codec) verifyOptions(options []VerifyOptions) VerifyOptions {
	var opts VerifyOptions
	if len(options) > 0 {
		opts = options[0]
	}
	if opts.MaxAge == 0 {
		opts.MaxAge = c.maxAge
	}
	opts.IgnoreExpiration = opts.IgnoreExpiration || c.ignoreExpiration
	return opts
}

func (c *Codec) sign(payload any, secret []byte, opts SignOptions) (string, error) {
	method, err := opts.Algorithm.method()
	if err != nil {
		return "", newSignError(ReasonInvalidAlgorithm, err)
	}

	if isMissingPayload(payload) {
		return "", newSignError(ReasonMissingPayload, nil)
	}

	if len(secret) == 0 {
		return "", newSignError(ReasonMissingSecret, nil)
	}

	header := Header{
		Alg:        opts.Algorithm,
		Typ:        TokenType,
		ExpireDate: opts.ExpireDate,
	}

	headerSegment, err := core.EncodeSegment(header)
	if err != nil {
		return "", newSignError(ReasonInvalidPayload, fmt.Errorf("header: %w", err))
	}

	payloadSegment, err := core.EncodeSegment(payload)
	if err != nil {
		return "", newSignError(ReasonInvalidPayload, err)
	}

	signingString := signing.SigningString(headerSegment, payloadSegment)
	signature, err := method.Sign(signingString, secret)
	if err != nil {
		// an empty key is the only way the MAC can fail
		return "", newSignError(ReasonMissingSecret, err)
	}

	token := signing.Join(signingString, signature)
	if len(token) > core.MaxTokenLength {
		// Verify would refuse it
		return "", newSignError(ReasonInvalidPayload,
			fmt.Errorf("token is %d bytes, limit is %d", len(token), core.MaxTokenLength))
	}
	return token, nil
}

// verify runs the gated checks in order: shape, secret, segment decoding, algorithm,
// signature, expiry. It returns the header as decoded, the algorithm actually used and the
// raw payload JSON so callers choose the target type.
func (c *Codec) verify(token string, secret []byte, opts VerifyOptions) (Header, SigningMethod, json.RawMessage, error) {
	parts, err := core.Split(token)
	if err != nil {
		return Header{}, "", nil, newTokenError(ReasonMalformedToken, err)
	}

	if len(secret) == 0 {
		return Header{}, "", nil, newTokenError(ReasonMissingSecret, nil)
	}

	rawHeader, headerErr := core.DecodeHeader(parts.Header)
	if headerErr != nil && !errors.Is(headerErr, core.ErrAlgorithmType) {
		return Header{}, "", nil, newTokenError(ReasonMalformedToken, headerErr)
	}

	var payload json.RawMessage
	if err := core.DecodePayload(parts.Payload, &payload); err != nil {
		return Header{}, "", nil, newTokenError(ReasonMalformedToken, err)
	}

	if headerErr != nil {
		return Header{}, "", nil, newTokenError(ReasonInvalidAlgorithm, headerErr)
	}

	header := headerFromRaw(rawHeader)
	alg := header.Alg
	if !rawHeader.HasAlg {
		alg = DefaultSigningMethod
	}

	method, err := alg.method()
	if err != nil {
		return header, alg, nil, newTokenError(ReasonInvalidAlgorithm, err)
	}

	if err := method.Verify(parts.SigningString(), parts.Signature, secret); err != nil {
		return header, alg, nil, newTokenError(ReasonInvalidSignature, err)
	}

	if !opts.IgnoreExpiration && !notExpired(header.ExpireDate, opts.MaxAge, c.clock.Now()) {
		return header, alg, nil, newTokenError(ReasonTokenExpired, nil)
	}

	return header, alg, payload, nil
}

// headerFromRaw keeps the header as it was on the wire. Alg stays empty when the token
// carried none.
func headerFromRaw(raw core.RawHeader) Header {
	return Header{
		Alg:        SigningMethod(raw.Alg),
		Typ:        raw.Typ,
		ExpireDate: raw.ExpireDate,
	}
}

func (c *Codec) observe(operation string, alg SigningMethod, err error, start time.Time) {
	algLabel := string(alg)
	if !alg.Valid() {
		// header values are attacker-controlled; keep label cardinality bounded
		algLabel = "unsupported"
	}

	outcome := metrics.OutcomeOK
	if err != nil {
		outcome = reasonLabel(ReasonOf(err))
		c.logger.Debug("token operation rejected",
			zap.String("operation", operation),
			zap.String("alg", algLabel),
			zap.String("reason", outcome),
		)
	}

	c.metrics.Observe(operation, algLabel, outcome, time.Since(start))
}

// reasonLabel turns "invalid token signature" into "invalid_token_signature".
func reasonLabel(r Reason) string {
	return strings.ReplaceAll(r.String(), " ", "_")
}
