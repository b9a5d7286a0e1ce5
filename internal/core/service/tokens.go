package service

import (
	"encoding/base64"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/authgate/resource-api/internal/core/domain"
)

const defaultTokenTTL = 24 * time.Hour

var segmentEncoding = base64.RawURLEncoding.Strict()

// Claims is the signed payload of a bearer token.
type Claims struct {
	Role domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// Tokens issues and authenticates HS256 bearer tokens. It holds no mutable
// state after construction and is safe for concurrent use.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
	parser *jwt.Parser
}

func NewTokens(secret string, ttl time.Duration) *Tokens {
	return newTokensWithClock(secret, ttl, time.Now)
}

func newTokensWithClock(secret string, ttl time.Duration, now func() time.Time) *Tokens {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	t := &Tokens{secret: []byte(secret), ttl: ttl, now: now}
	t.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(func() time.Time { return t.now() }),
	)
	return t
}

// TTL is the configured token lifetime.
func (t *Tokens) TTL() time.Duration {
	return t.ttl
}

// Issue signs a token for user valid from now until now+TTL. Timestamps are
// truncated to whole seconds, the resolution of the encoded claims.
func (t *Tokens) Issue(user *domain.User) (string, error) {
	now := t.now().UTC().Truncate(time.Second)
	claims := Claims{
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// Verify checks shape, signature and expiry, in that order, and only then
// returns the claims.
func (t *Tokens) Verify(raw string) (*Claims, error) {
	if err := checkShape(raw); err != nil {
		return nil, err
	}

	claims := &Claims{}
	tkn, err := t.parser.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return t.secret, nil
	})
	if err != nil {
		return nil, classify(err)
	}
	if !tkn.Valid {
		return nil, domain.ErrTokenSignature
	}

	if claims.Subject == "" || !claims.Role.Assignable() || claims.IssuedAt == nil {
		return nil, domain.ErrTokenMalformed
	}
	return claims, nil
}

// Authenticate resolves the AuthContext carried by raw.
func (t *Tokens) Authenticate(raw string) (domain.AuthContext, error) {
	claims, err := t.Verify(raw)
	if err != nil {
		return domain.AuthContext{}, err
	}
	return domain.AuthContext{Subject: claims.Subject, Role: claims.Role}, nil
}

// checkShape rejects anything that is not three base64url segments. Once
// header and payload decode, anything wrong past the second dot (a bad
// signature segment or extra dots inside it) is a signature failure.
func checkShape(raw string) error {
	parts := strings.Split(raw, ".")
	if len(parts) < 3 || parts[0] == "" || parts[1] == "" {
		return domain.ErrTokenMalformed
	}
	for _, p := range parts[:2] {
		if _, err := segmentEncoding.DecodeString(p); err != nil {
			return domain.ErrTokenMalformed
		}
	}
	if len(parts) > 3 {
		return domain.ErrTokenSignature
	}
	if _, err := segmentEncoding.DecodeString(parts[2]); err != nil {
		return domain.ErrTokenSignature
	}
	return nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return domain.ErrTokenSignature
	case errors.Is(err, jwt.ErrTokenExpired):
		return domain.ErrTokenExpired
	default:
		return domain.ErrTokenMalformed
	}
}
