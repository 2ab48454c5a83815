package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/callcoach/platform/internal/core/domain"
	"github.com/callcoach/platform/internal/core/ports"
)

func TestAuthHandler_Register_Success(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, in ports.RegisterInput) (*domain.AuthResult, error) {
			if in.FirstName != "Ana" || in.Email != "ana@example.com" || in.RoleID != domain.RoleLearner {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &domain.AuthResult{Message: "User registered successfully", Email: in.Email, Role: "LEARNER", Token: "tok"}, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newContext(http.MethodPost, "/auth/register",
		`{"first_name":"Ana","last_name":"Lopez","email":"ana@example.com","password":"secret1","role_id":1}`, nil)

	if err := handler.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["email"] != "ana@example.com" || resp["role"] != "LEARNER" || resp["token"] != "tok" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestAuthHandler_Register_ZeroRoleReachesService(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, in ports.RegisterInput) (*domain.AuthResult, error) {
			return nil, domain.ErrInvalidRole
		},
	}
	handler := NewAuthHandler(stub)

	c, _ := newContext(http.MethodPost, "/auth/register",
		`{"first_name":"Ana","last_name":"Lopez","email":"ana@example.com","password":"secret1","role_id":0}`, nil)

	if err := handler.Register(c); !errors.Is(err, domain.ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
}

func TestAuthHandler_Register_DuplicateEmail(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, in ports.RegisterInput) (*domain.AuthResult, error) {
			return nil, domain.ErrDuplicateEmail
		},
	}
	handler := NewAuthHandler(stub)

	c, _ := newContext(http.MethodPost, "/auth/register",
		`{"first_name":"Bob","last_name":"Ruiz","email":"bob@example.com","password":"secret1","role_id":2}`, nil)

	if err := handler.Register(c); !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestAuthHandler_Register_InvalidPayload(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, in ports.RegisterInput) (*domain.AuthResult, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewAuthHandler(stub)

	for name, body := range map[string]string{
		"not json":      "not-json",
		"bad email":     `{"first_name":"Ana","last_name":"Lopez","email":"nope","password":"secret1","role_id":1}`,
		"missing role":  `{"first_name":"Ana","last_name":"Lopez","email":"ana@example.com","password":"secret1"}`,
		"missing email": `{"first_name":"Ana","last_name":"Lopez","password":"secret1","role_id":1}`,
	} {
		t.Run(name, func(t *testing.T) {
			c, _ := newContext(http.MethodPost, "/auth/register", body, nil)
			if err := handler.Register(c); !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (*domain.AuthResult, error) {
			if email != "ana@example.com" || password != "secret1" {
				t.Fatalf("unexpected args: %s %s", email, password)
			}
			return &domain.AuthResult{Message: "Login successful", Email: email, Role: "ADMIN", Token: "token123"}, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newContext(http.MethodPost, "/auth/login", `{"email":"ana@example.com","password":"secret1"}`, nil)

	if err := handler.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["token"] != "token123" || resp["message"] != "Login successful" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestAuthHandler_Login_Failures(t *testing.T) {
	for _, want := range []error{domain.ErrInvalidCredentials, domain.ErrAccountDisabled} {
		stub := &stubAuthService{
			loginFn: func(ctx context.Context, email, password string) (*domain.AuthResult, error) {
				return nil, want
			},
		}
		c, _ := newContext(http.MethodPost, "/auth/login", `{"email":"ana@example.com","password":"x"}`, nil)
		if err := NewAuthHandler(stub).Login(c); !errors.Is(err, want) {
			t.Fatalf("expected %v, got %v", want, err)
		}
	}
}

func TestLoginResult(t *testing.T) {
	cases := map[error]string{
		domain.ErrInvalidCredentials: "invalid_credentials",
		domain.ErrAccountDisabled:    "disabled",
		errors.New("boom"):           "error",
	}
	for err, want := range cases {
		if got := loginResult(err); got != want {
			t.Errorf("loginResult(%v) = %q, want %q", err, got, want)
		}
	}
}
