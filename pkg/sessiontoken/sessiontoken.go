// Package sessiontoken mints and verifies the opaque authenticated-identity
// claim carried on requests. Tokens are EdDSA-signed JWTs whose only identity
// content is the subject user id: roles and memberships are deliberately NOT
// embedded, so authorization is always resolved against current state.
package sessiontoken

import (
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTTL is the default session lifetime.
const DefaultTTL = 12 * time.Hour

var (
	ErrInvalid = errors.New("sessiontoken: invalid token")
	ErrExpired = errors.New("sessiontoken: token expired")
)

type Claims struct {
	jwt.RegisteredClaims
}

// Signer signs and verifies session tokens with a single Ed25519 key pair.
type Signer struct {
	priv   ed25519.PrivateKey
	pub    ed25519.PublicKey
	issuer string
	ttl    time.Duration
}

// NewSigner creates a Signer with a freshly generated ephemeral key pair.
// Sessions do not survive a restart; that is acceptable for this service.
func NewSigner(issuer string, ttl time.Duration) (*Signer, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("sessiontoken: generating key: %w", err)
	}
	return NewSignerFromKey(priv, pub, issuer, ttl), nil
}

// NewSignerFromKey creates a Signer around an existing key pair, for callers
// that persist the key across restarts.
func NewSignerFromKey(priv ed25519.PrivateKey, pub ed25519.PublicKey, issuer string, ttl time.Duration) *Signer {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Signer{priv: priv, pub: pub, issuer: issuer, ttl: ttl}
}

// Mint returns a signed session token for the given subject user id.
func (s *Signer) Mint(subject string, now time.Time) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims).SignedString(s.priv)
}

// Verify parses and validates a raw token, returning its claims. Expired
// tokens fail with ErrExpired, everything else with ErrInvalid.
func (s *Signer) Verify(raw string) (Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims,
		func(t *jwt.Token) (any, error) { return s.pub, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodEdDSA.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrExpired
		}
		return Claims{}, ErrInvalid
	}
	if claims.Subject == "" {
		return Claims{}, ErrInvalid
	}
	return claims, nil
}
