package core

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
)

var errEmptySegment = errors.New("empty segment")

// MarshalJSON encodes v the way JSON.stringify does for the values a token carries: no HTML
// escaping and no trailing newline.
func MarshalJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte{'\n'}), nil
}

// EncodeSegment returns the padded standard base64 of the JSON encoding of v.
func EncodeSegment(v any) (string, error) {
	raw, err := MarshalJSON(v)
	if err != nil {
		return "", fmt.Errorf("failed to marshal segment: %w", err)
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

// DecodeSegmentBytes reverses the base64 layer of a segment. Padding is optional.
func DecodeSegmentBytes(segment string) ([]byte, error) {
	if len(segment) == 0 {
		return nil, errEmptySegment
	}

	enc := base64.StdEncoding
	if len(segment)%4 != 0 {
		enc = base64.RawStdEncoding
	}

	raw, err := enc.DecodeString(segment)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64: %w", err)
	}
	return raw, nil
}

// DecodeSegment decodes a segment and unmarshals its JSON into dest.
func DecodeSegment(segment string, dest any) error {
	raw, err := DecodeSegmentBytes(segment)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("failed to unmarshal JSON: %w", err)
	}
	return nil
}
