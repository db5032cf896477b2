package signing

import (
	"crypto"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	_ "crypto/sha256"
	_ "crypto/sha512"

	"github.com/golang-jwt/jwt/v5"

	"github.com/cybergodev/jwtlite/internal/security"
)

// signatureEncoding is padded standard base64. Strict mode keeps the encoding canonical, so
// a flipped trailing character can never decode to the same MAC.
var signatureEncoding = base64.StdEncoding.Strict()

type hmacSigningMethod struct {
	method *jwt.SigningMethodHMAC
}

func (h *hmacSigningMethod) Verify(signingString string, signature string, key []byte) error {
	if len(key) == 0 {
		return errors.New("HMAC key is empty")
	}

	// the decoder skips CR and LF, the wire format has neither
	if strings.ContainsAny(signature, "\r\n") {
		return ErrSignatureInvalid
	}

	sigBytes, err := signatureEncoding.DecodeString(signature)
	if err != nil {
		return fmt.Errorf("%w: undecodable signature", ErrSignatureInvalid)
	}
	defer security.ZeroBytes(sigBytes)

	secureKey := security.NewSecureBytesFromSlice(key)
	defer secureKey.Destroy()

	// constant-time comparison happens inside golang-jwt via hmac.Equal
	if err := h.method.Verify(signingString, sigBytes, secureKey.Bytes()); err != nil {
		if errors.Is(err, jwt.ErrSignatureInvalid) {
			return ErrSignatureInvalid
		}
		return fmt.Errorf("verify %s: %w", h.Alg(), err)
	}

	return nil
}

func (h *hmacSigningMethod) Sign(signingString string, key []byte) (string, error) {
	if len(key) == 0 {
		return "", errors.New("HMAC key is empty")
	}

	secureKey := security.NewSecureBytesFromSlice(key)
	defer secureKey.Destroy()

	signature, err := h.method.Sign(signingString, secureKey.Bytes())
	if err != nil {
		return "", fmt.Errorf("sign %s: %w", h.Alg(), err)
	}
	defer security.ZeroBytes(signature)

	return base64.StdEncoding.EncodeToString(signature), nil
}

func (h *hmacSigningMethod) Alg() string {
	return h.method.Alg()
}

func (h *hmacSigningMethod) Hash() crypto.Hash {
	return h.method.Hash
}

var (
	hmacHS256 = &hmacSigningMethod{jwt.SigningMethodHS256}
	hmacHS384 = &hmacSigningMethod{jwt.SigningMethodHS384}
	hmacHS512 = &hmacSigningMethod{jwt.SigningMethodHS512}
)

// GetHMACMethod returns the HMAC signing method for the given algorithm
func GetHMACMethod(alg string) Method {
	switch alg {
	case "HS256":
		return hmacHS256
	case "HS384":
		return hmacHS384
	case "HS512":
		return hmacHS512
	default:
		return nil
	}
}
