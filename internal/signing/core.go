package signing

import (
	"crypto"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnsupportedAlgorithm is returned for any alg outside HS256, HS384 and HS512.
	ErrUnsupportedAlgorithm = errors.New("unsupported signing algorithm")

	// ErrSignatureInvalid is returned when a signature does not match its signing string.
	ErrSignatureInvalid = errors.New("signature verification failed")
)

// Method computes and checks the MAC segment of a token.
type Method interface {
	Alg() string
	Hash() crypto.Hash
	Sign(signingString string, key []byte) (string, error)
	Verify(signingString string, signature string, key []byte) error
}

// SigningString joins the encoded header and payload the way the MAC input is defined.
func SigningString(header, payload string) string {
	var b strings.Builder
	b.Grow(len(header) + 1 + len(payload))
	b.WriteString(header)
	b.WriteByte('.')
	b.WriteString(payload)
	return b.String()
}

// Join appends the encoded signature to a signing string.
func Join(signingString, signature string) string {
	buf := make([]byte, len(signingString)+1+len(signature))
	copy(buf, signingString)
	buf[len(signingString)] = '.'
	copy(buf[len(signingString)+1:], signature)
	return string(buf)
}

// Lookup resolves an alg identifier. Matching is exact: "hs256" is not HS256.
func Lookup(alg string) (Method, error) {
	method := GetHMACMethod(alg)
	if method == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, alg)
	}
	return method, nil
}

// Algorithms lists the supported alg identifiers in ascending strength.
func Algorithms() []string {
	return []string{hmacHS256.Alg(), hmacHS384.Alg(), hmacHS512.Alg()}
}
