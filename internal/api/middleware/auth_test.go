package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/callcoach/platform/internal/core/domain"
	"github.com/callcoach/platform/internal/core/service"
)

func newGate(t *testing.T) (*service.Authorizer, *service.TokenService) {
	t.Helper()
	tokens, err := service.NewTokenService("secret", "HS256", time.Minute)
	if err != nil {
		t.Fatalf("token service: %v", err)
	}
	return service.NewAuthorizer(tokens, nil), tokens
}

func signed(t *testing.T, tokens *service.TokenService, role string, ttl time.Duration) string {
	t.Helper()
	tok, err := tokens.Generate(domain.Claims{Subject: "7", Email: "ana@example.com", Role: role}, ttl)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return tok
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	authorizer, tokens := newGate(t)
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/users/7", nil)
	req.Header.Set("Authorization", "Bearer "+signed(t, tokens, domain.RoleNameLearner, time.Minute))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := Auth(authorizer)(func(c echo.Context) error {
		called = true
		claims := Claims(c)
		if claims == nil {
			t.Fatalf("claims not set")
		}
		if claims.Subject != "7" || claims.Email != "ana@example.com" || claims.Role != domain.RoleNameLearner {
			t.Fatalf("unexpected claims: %+v", claims)
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthMiddleware_PublicPath(t *testing.T) {
	authorizer, _ := newGate(t)
	e := echo.New()
	for _, path := range []string{"/auth/login", "/health", "/swagger/index.html"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		c := e.NewContext(req, httptest.NewRecorder())

		called := false
		handler := Auth(authorizer)(func(c echo.Context) error {
			called = true
			if Claims(c) != nil {
				t.Fatalf("%s: public path should carry no claims", path)
			}
			return nil
		})
		if err := handler(c); err != nil {
			t.Fatalf("%s: handler error: %v", path, err)
		}
		if !called {
			t.Fatalf("%s: next not called", path)
		}
	}
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	authorizer, _ := newGate(t)
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "1",
		"role": domain.RoleNameAdmin,
		"exp":  time.Now().Add(-time.Minute).Unix(),
	}).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	cases := []struct {
		name   string
		header string
		want   error
	}{
		{"missing header", "", domain.ErrMissingAuthHeader},
		{"wrong scheme", "Token abc", domain.ErrMissingAuthHeader},
		{"empty token", "Bearer ", domain.ErrTokenMissing},
		{"malformed", "Bearer not-a-token", domain.ErrTokenMalformed},
		{"expired", "Bearer " + expired, domain.ErrTokenExpired},
	}

	e := echo.New()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/users", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			c := e.NewContext(req, httptest.NewRecorder())

			handler := Auth(authorizer)(func(c echo.Context) error {
				t.Fatalf("should not reach next")
				return nil
			})

			if err := handler(c); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}
