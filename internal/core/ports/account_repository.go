package ports

import (
	"context"

	"github.com/callcoach/platform/internal/core/domain"
)

// NewAccount carries the fields persisted on registration. New accounts are
// always active.
type NewAccount struct {
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	RoleID       domain.RoleID
}

// AccountRepository is the credential store consumed by the account lifecycle.
// Lookups return domain.ErrAccountNotFound / domain.ErrRoleNotFound when
// nothing matches; every mutation returns the updated record.
type AccountRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Account, error)
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	FindRole(ctx context.Context, id domain.RoleID) (*domain.Role, error)
	Insert(ctx context.Context, acc NewAccount) (*domain.Account, error)
	UpdateFields(ctx context.Context, id string, patch domain.AccountPatch) (*domain.Account, error)
	SetActive(ctx context.Context, id string, active bool) (*domain.Account, error)
	SetRole(ctx context.Context, id string, role domain.RoleID) (*domain.Account, error)
	SetPasswordHash(ctx context.Context, id string, hash string) (*domain.Account, error)
	// List returns one page of accounts matching filter and the total count.
	List(ctx context.Context, filter domain.AccountFilter) ([]*domain.Account, int64, error)
}
