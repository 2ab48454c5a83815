package ports

import (
	"context"
	"time"

	"github.com/callcoach/platform/internal/core/domain"
)

// RegisterInput is the DTO passed from the transport layer on registration.
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	RoleID    domain.RoleID
}

// ListAccountsResult is one page of accounts.
type ListAccountsResult struct {
	Items    []*domain.Account
	Total    int64
	Page     int
	PageSize int
}

// AuthService covers registration and login.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.AuthResult, error)
	Login(ctx context.Context, email, password string) (*domain.AuthResult, error)
}

// AccountService enforces the account lifecycle rules.
type AccountService interface {
	GetAccount(ctx context.Context, id string) (*domain.Account, error)
	ListAccounts(ctx context.Context, filter domain.AccountFilter) (*ListAccountsResult, error)
	UpdateProfile(ctx context.Context, id string, patch domain.AccountPatch) (*domain.Account, error)
	AssignRole(ctx context.Context, id string, role domain.RoleID) (*domain.Account, error)
	Disable(ctx context.Context, id string) (*domain.Account, error)
	Enable(ctx context.Context, id string) (*domain.Account, error)
	ChangePassword(ctx context.Context, id, current, next string) (*domain.Account, error)
}

// TokenIssuer signs claims into a bearer token.
type TokenIssuer interface {
	Generate(claims domain.Claims, ttl time.Duration) (string, error)
}

// TokenVerifier decodes and validates a bearer token.
type TokenVerifier interface {
	Verify(token string) (*domain.Claims, error)
}
