package security

import (
	"strings"
)

// MinRecommendedKeyLength is the smallest secret length that is not reported as short.
// The codec itself accepts any non-empty secret.
const MinRecommendedKeyLength = 32

// WeakKeyReasons lists human-readable problems with a secret. An empty result means no
// problem was found. The secret itself never appears in the output.
func WeakKeyReasons(key []byte) []string {
	if len(key) == 0 {
		return []string{"secret is empty"}
	}

	var reasons []string

	if len(key) < MinRecommendedKeyLength {
		reasons = append(reasons, "secret is shorter than 32 bytes")
	}

	if isSingleByte(key) {
		reasons = append(reasons, "secret repeats a single byte")
	} else if hasLowEntropy(key) {
		reasons = append(reasons, "secret has low character diversity")
	}

	if hasCommonPattern(key) {
		reasons = append(reasons, "secret contains a common word or keyboard sequence")
	}

	if isRepeatedPattern(key) {
		reasons = append(reasons, "secret is a short repeated pattern")
	}

	return reasons
}

// IsWeakKey reports whether WeakKeyReasons found anything.
func IsWeakKey(key []byte) bool {
	return len(WeakKeyReasons(key)) > 0
}

func isSingleByte(key []byte) bool {
	for _, b := range key[1:] {
		if b != key[0] {
			return false
		}
	}
	return true
}

func hasLowEntropy(key []byte) bool {
	if len(key) < 8 {
		return true
	}

	unique := make(map[byte]struct{}, len(key))
	for _, b := range key {
		unique[b] = struct{}{}
	}

	// under 30% distinct bytes
	if float64(len(unique))/float64(len(key)) < 0.3 {
		return true
	}

	var lower, upper, digit, special bool
	for _, b := range key {
		switch {
		case b >= 'a' && b <= 'z':
			lower = true
		case b >= 'A' && b <= 'Z':
			upper = true
		case b >= '0' && b <= '9':
			digit = true
		default:
			special = true
		}
	}

	classes := 0
	for _, present := range []bool{lower, upper, digit, special} {
		if present {
			classes++
		}
	}

	minClasses := 2
	if len(key) >= MinRecommendedKeyLength {
		minClasses = 3
	}
	return classes < minClasses
}

var commonPatterns = []string{
	"password", "secret", "changeme", "letmein", "welcome", "admin", "default",
	"example", "sample", "test", "token",
	"12345678", "87654321", "abcdefgh",
	"qwerty", "asdfgh", "zxcvbn",
}

func hasCommonPattern(key []byte) bool {
	lower := strings.ToLower(string(key))
	for _, pattern := range commonPatterns {
		if strings.Contains(lower, pattern) {
			return true
		}
	}
	return false
}

// isRepeatedPattern detects keys like "abcabcabc" built from a 2-4 byte unit.
func isRepeatedPattern(key []byte) bool {
	if len(key) < 6 {
		return false
	}

	for unit := 2; unit <= 4; unit++ {
		if len(key) < unit*3 {
			continue
		}
		repeated := true
		for i := unit; i < len(key); i++ {
			if key[i] != key[i%unit] {
				repeated = false
				break
			}
		}
		if repeated {
			return true
		}
	}
	return false
}
