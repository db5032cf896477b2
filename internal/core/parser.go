// Package core splits tokens into segments and translates segments to and from JSON.
package core

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
)

// MaxTokenLength bounds the input accepted by Split.
const MaxTokenLength = 64 << 10

var (
	// ErrInvalidTokenFormat covers every structural problem with a token string.
	ErrInvalidTokenFormat = errors.New("invalid token format")

	// ErrAlgorithmType is returned when the header alg is present but not a string.
	ErrAlgorithmType = errors.New("header alg is not a string")
)

// Parts holds the three raw segments of a token.
type Parts struct {
	Header    string
	Payload   string
	Signature string
}

// SigningString is the MAC input for these parts.
func (p Parts) SigningString() string {
	return p.Header + "." + p.Payload
}

// Split separates a token into exactly three dot-delimited segments. Empty segments are
// allowed here and rejected by the decoders.
func Split(token string) (Parts, error) {
	if len(token) == 0 {
		return Parts{}, fmt.Errorf("%w: empty token", ErrInvalidTokenFormat)
	}
	if len(token) > MaxTokenLength {
		return Parts{}, fmt.Errorf("%w: token longer than %d bytes", ErrInvalidTokenFormat, MaxTokenLength)
	}

	first := strings.IndexByte(token, '.')
	if first == -1 {
		return Parts{}, fmt.Errorf("%w: expected 3 segments", ErrInvalidTokenFormat)
	}
	rest := token[first+1:]
	second := strings.IndexByte(rest, '.')
	if second == -1 || strings.IndexByte(rest[second+1:], '.') != -1 {
		return Parts{}, fmt.Errorf("%w: expected 3 segments", ErrInvalidTokenFormat)
	}

	return Parts{
		Header:    token[:first],
		Payload:   rest[:second],
		Signature: rest[second+1:],
	}, nil
}

// RawHeader is a header as found on the wire, before any policy is applied.
type RawHeader struct {
	Alg        string
	HasAlg     bool
	Typ        string
	ExpireDate int64
}

// DecodeHeader reads alg, typ and expireDate from a header segment. A missing or null alg
// leaves HasAlg false. expireDate must be present and numeric.
func DecodeHeader(segment string) (RawHeader, error) {
	raw, err := DecodeSegmentBytes(segment)
	if err != nil {
		return RawHeader{}, fmt.Errorf("%w: header: %v", ErrInvalidTokenFormat, err)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return RawHeader{}, fmt.Errorf("%w: header: %v", ErrInvalidTokenFormat, err)
	}

	var h RawHeader

	if v, ok := fields["alg"]; ok && !isNull(v) {
		if err := json.Unmarshal(v, &h.Alg); err != nil {
			return RawHeader{}, ErrAlgorithmType
		}
		h.HasAlg = true
	}

	if v, ok := fields["typ"]; ok {
		// typ is informational; a non-string value is dropped rather than rejected
		_ = json.Unmarshal(v, &h.Typ)
	}

	v, ok := fields["expireDate"]
	if !ok || isNull(v) {
		return RawHeader{}, fmt.Errorf("%w: header: missing expireDate", ErrInvalidTokenFormat)
	}
	expireDate, err := parseInteger(v)
	if err != nil {
		return RawHeader{}, fmt.Errorf("%w: header: expireDate: %v", ErrInvalidTokenFormat, err)
	}
	h.ExpireDate = expireDate

	return h, nil
}

// DecodePayload unmarshals a payload segment into dest.
func DecodePayload(segment string, dest any) error {
	if err := DecodeSegment(segment, dest); err != nil {
		return fmt.Errorf("%w: payload: %v", ErrInvalidTokenFormat, err)
	}
	return nil
}

func isNull(v json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(v), []byte("null"))
}

func parseInteger(v json.RawMessage) (int64, error) {
	// json.Number also accepts quoted numbers, the wire format does not
	if t := bytes.TrimSpace(v); len(t) == 0 || t[0] == '"' {
		return 0, errors.New("not a number")
	}

	var n json.Number
	if err := json.Unmarshal(v, &n); err != nil {
		return 0, errors.New("not a number")
	}
	if i, err := n.Int64(); err == nil {
		return i, nil
	}
	f, err := n.Float64()
	if err != nil {
		return 0, err
	}
	// converting an out of range float is implementation-defined
	switch {
	case f >= math.MaxInt64:
		return math.MaxInt64, nil
	case f <= math.MinInt64:
		return math.MinInt64, nil
	}
	return int64(f), nil
}
