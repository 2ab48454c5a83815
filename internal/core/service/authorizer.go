package service

import (
	"strings"

	"github.com/callcoach/platform/internal/core/domain"
	"github.com/callcoach/platform/internal/core/ports"
)

// DefaultPublicPaths are reachable without a bearer token. An entry ending in
// "/*" matches the prefix and everything below it.
var DefaultPublicPaths = []string{
	"/auth/login",
	"/auth/register",
	"/docs",
	"/redoc",
	"/openapi.json",
	"/swagger/*",
	"/health",
	"/health/ready",
	"/metrics",
}

// Authorizer is the request gate: it authenticates bearer credentials and
// checks route role requirements. It never touches persisted state.
type Authorizer struct {
	verifier ports.TokenVerifier
	exact    map[string]struct{}
	prefixes []string
}

// NewAuthorizer builds an Authorizer. When publicPaths is nil DefaultPublicPaths
// is used.
func NewAuthorizer(verifier ports.TokenVerifier, publicPaths []string) *Authorizer {
	if publicPaths == nil {
		publicPaths = DefaultPublicPaths
	}
	a := &Authorizer{verifier: verifier, exact: make(map[string]struct{}, len(publicPaths))}
	for _, p := range publicPaths {
		if prefix, ok := strings.CutSuffix(p, "/*"); ok {
			a.prefixes = append(a.prefixes, prefix)
			continue
		}
		a.exact[p] = struct{}{}
	}
	return a
}

// IsPublic reports whether path skips authentication.
func (a *Authorizer) IsPublic(path string) bool {
	if _, ok := a.exact[path]; ok {
		return true
	}
	for _, prefix := range a.prefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}

// Authenticate decides whether a request for path carrying the given
// Authorization header value may proceed.
func (a *Authorizer) Authenticate(path, header string) domain.Decision {
	if a.IsPublic(path) {
		return domain.Allow(nil)
	}

	token, ok := bearerToken(header)
	if !ok {
		return domain.Deny(domain.ErrMissingAuthHeader)
	}

	claims, err := a.verifier.Verify(token)
	if err != nil {
		return domain.Deny(err)
	}
	return domain.Allow(claims)
}

// Authorize checks claims against a route's permitted roles.
func (a *Authorizer) Authorize(claims *domain.Claims, allowedRoles ...string) domain.Decision {
	if claims == nil {
		return domain.Deny(domain.ErrNotAuthenticated)
	}
	for _, r := range allowedRoles {
		if claims.Role == r {
			return domain.Allow(claims)
		}
	}
	return domain.Deny(domain.ErrPermissionDenied)
}

// bearerToken extracts the token of a "Bearer <token>" header. An empty token
// after the scheme is passed on so the verifier reports it as missing.
func bearerToken(header string) (string, bool) {
	rest, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return "", false
	}
	token, _, _ := strings.Cut(strings.TrimSpace(rest), " ")
	return token, true
}
