package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/callcoach/platform/internal/core/domain"
)

const defaultTokenTTL = 30 * time.Minute

// TokenService issues and verifies HMAC-signed bearer tokens. Verification is
// stateless: nothing about issued tokens is kept server-side.
type TokenService struct {
	secret []byte
	method jwt.SigningMethod
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService builds a TokenService for one of HS256, HS384 or HS512.
func NewTokenService(secret, algorithm string, ttl time.Duration) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("token service: empty secret")
	}
	var method jwt.SigningMethod
	switch strings.ToUpper(algorithm) {
	case "", "HS256":
		method = jwt.SigningMethodHS256
	case "HS384":
		method = jwt.SigningMethodHS384
	case "HS512":
		method = jwt.SigningMethodHS512
	default:
		return nil, fmt.Errorf("token service: unsupported algorithm %q", algorithm)
	}
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &TokenService{secret: []byte(secret), method: method, ttl: ttl, now: time.Now}, nil
}

// TTL returns the default token lifetime.
func (s *TokenService) TTL() time.Duration { return s.ttl }

// Generate signs c with an expiry of now+ttl. A non-positive ttl falls back to
// the configured default.
func (s *TokenService) Generate(c domain.Claims, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = s.ttl
	}
	now := s.now()
	claims := jwt.MapClaims{
		"sub":   c.Subject,
		"email": c.Email,
		"role":  c.Role,
		"iat":   now.Unix(),
		"exp":   now.Add(ttl).Unix(),
	}

	signed, err := jwt.NewWithClaims(s.method, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify decodes token and returns its claims. Failures are one of
// domain.ErrTokenMissing, ErrTokenExpired, ErrTokenInvalidSignature or
// ErrTokenMalformed.
func (s *TokenService) Verify(token string) (*domain.Claims, error) {
	if strings.TrimSpace(token) == "" {
		return nil, domain.ErrTokenMissing
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{s.method.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)

	// Expiry is decided before the signature: an expired token is reported as
	// expired whatever its signature.
	unverified := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, unverified); err != nil {
		return nil, domain.ErrTokenMalformed
	}
	exp, err := unverified.GetExpirationTime()
	if err != nil || exp == nil {
		return nil, domain.ErrTokenMalformed
	}
	if !s.now().Before(exp.Time) {
		return nil, domain.ErrTokenExpired
	}

	claims := jwt.MapClaims{}
	tkn, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, domain.ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, domain.ErrTokenInvalidSignature
		default:
			return nil, domain.ErrTokenMalformed
		}
	}
	if !tkn.Valid {
		return nil, domain.ErrTokenMalformed
	}

	sub, _ := claims["sub"].(string)
	role, _ := claims["role"].(string)
	email, _ := claims["email"].(string)
	if sub == "" || role == "" {
		return nil, domain.ErrTokenMalformed
	}

	return &domain.Claims{
		Subject:   sub,
		Email:     email,
		Role:      role,
		ExpiresAt: exp.Time,
	}, nil
}
