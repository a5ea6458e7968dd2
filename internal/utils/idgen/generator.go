// Package idgen generates and validates the public identifiers exposed by
// the API, such as conv_a3f8d2k9p1m4n7q2. Suffixes come from crypto/rand so
// identifiers carry no timing or sequence information.
package idgen

import (
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
)

const idAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// maxUnbiasedByte is the largest multiple of len(idAlphabet) below 256.
// Bytes at or above it are rejected to keep the character distribution flat.
const maxUnbiasedByte = 252

// GenerateSecureID returns prefix + "_" + length random characters drawn
// from [0-9a-z].
func GenerateSecureID(prefix string, length int) (string, error) {
	if prefix == "" {
		return "", errors.New("idgen: prefix must not be empty")
	}
	if length <= 0 {
		return "", fmt.Errorf("idgen: length must be positive, got %d", length)
	}

	suffix := make([]byte, 0, length)
	buf := make([]byte, length*2)
	for len(suffix) < length {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("idgen: reading random bytes: %w", err)
		}
		for _, b := range buf {
			if len(suffix) == length {
				break
			}
			if b >= maxUnbiasedByte {
				continue
			}
			suffix = append(suffix, idAlphabet[int(b)%len(idAlphabet)])
		}
	}

	return prefix + "_" + string(suffix), nil
}

// ValidateIDFormat reports whether id is expectedPrefix, an underscore, and
// a non-empty suffix of [0-9a-z]. It is a pure format check and never
// consults storage.
func ValidateIDFormat(id, expectedPrefix string) bool {
	lead := expectedPrefix + "_"
	if !strings.HasPrefix(id, lead) {
		return false
	}
	suffix := id[len(lead):]
	if suffix == "" {
		return false
	}
	for _, c := range suffix {
		if (c < 'a' || c > 'z') && (c < '0' || c > '9') {
			return false
		}
	}
	return true
}
