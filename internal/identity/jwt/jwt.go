// Package jwt issues and verifies signed bearer tokens for the identity module.
package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/deskroute/deskroute/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

// Verification errors.
var (
	ErrExpired      = errors.New("token expired")
	ErrMalformed    = errors.New("token malformed")
	ErrBadSignature = errors.New("token signature invalid")
)

// Claims are the facts embedded in an access token: the normalized email as
// subject, the role copied verbatim from the user record at issuance time,
// and the standard expiration instant.
type Claims struct {
	Role domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// Config holds token service configuration.
type Config struct {
	// SecretKey signs tokens with HMAC-SHA256. Rotating it invalidates every
	// previously issued token; there is no grace period.
	SecretKey string
	// TokenTTL is the default lifetime of issued tokens.
	TokenTTL time.Duration
}

// Service issues and verifies compact, self-contained bearer tokens. The
// signing key is immutable after construction, so a single Service is safe
// for unrestricted concurrent use.
type Service struct {
	secret []byte
	ttl    time.Duration
}

// NewService creates a token service. Returns an error if the secret key is
// empty or the TTL is not positive.
func NewService(cfg Config) (*Service, error) {
	if cfg.SecretKey == "" {
		return nil, errors.New("jwt: secret key is required")
	}
	if cfg.TokenTTL <= 0 {
		return nil, errors.New("jwt: token ttl must be positive")
	}
	return &Service{
		secret: []byte(cfg.SecretKey),
		ttl:    cfg.TokenTTL,
	}, nil
}

// TokenTTL returns the configured default token lifetime.
func (s *Service) TokenTTL() time.Duration {
	return s.ttl
}

// Issue signs a token carrying subject and role, expiring after the
// configured TTL.
func (s *Service) Issue(subject string, role domain.Role) (string, error) {
	return s.IssueWithTTL(subject, role, s.ttl)
}

// IssueWithTTL signs a token with an explicit lifetime.
func (s *Service) IssueWithTTL(subject string, role domain.Role, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token string, returning the embedded claims.
// Failures map to exactly one of ErrExpired, ErrBadSignature or ErrMalformed.
func (s *Service) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(_ *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrBadSignature
		default:
			return nil, ErrMalformed
		}
	}
	return claims, nil
}
