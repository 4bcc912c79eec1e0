// Package cryptox holds the bearer-token and password-hashing primitives used
// by the invitation and session flows. Plaintext tokens are never persisted;
// storage only ever sees the SHA-256 fingerprint.
package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
)

// InviteTokenBytes is the entropy of an invitation bearer token before
// encoding. 32 bytes gives 256 bits, 43 chars of base64url.
const InviteTokenBytes = 32

// NewToken returns a cryptographically random base64url token of n bytes of
// entropy (URL-safe, unpadded).
func NewToken(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("cryptox: token size must be positive, got %d", n)
	}
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("cryptox: reading random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// Fingerprint returns the deterministic SHA-256 digest of a token, base64url
// encoded. Databases store and look up this value instead of the plaintext.
func Fingerprint(token string) string {
	sum := sha256.Sum256([]byte(token))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
