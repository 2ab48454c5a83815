package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/callcoach/platform/internal/core/domain"
	"github.com/callcoach/platform/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory credential store
// ---------------------------------------------------------------------------

type stubAccountRepo struct {
	accounts map[string]*domain.Account
	roles    map[domain.RoleID]domain.Role
	nextID   int
	failWith error // returned by every call when set
	writes   int
}

func newStubAccountRepo() *stubAccountRepo {
	r := &stubAccountRepo{
		accounts: make(map[string]*domain.Account),
		roles:    make(map[domain.RoleID]domain.Role),
		nextID:   1,
	}
	for _, role := range domain.DefaultRoles() {
		r.roles[role.ID] = role
	}
	return r
}

func cloneAccount(a *domain.Account) *domain.Account {
	if a == nil {
		return nil
	}
	c := *a
	return &c
}

func (r *stubAccountRepo) FindByID(_ context.Context, id string) (*domain.Account, error) {
	if r.failWith != nil {
		return nil, r.failWith
	}
	a, ok := r.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return cloneAccount(a), nil
}

func (r *stubAccountRepo) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	if r.failWith != nil {
		return nil, r.failWith
	}
	for _, a := range r.accounts {
		if a.Email == email {
			return cloneAccount(a), nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (r *stubAccountRepo) FindRole(_ context.Context, id domain.RoleID) (*domain.Role, error) {
	role, ok := r.roles[id]
	if !ok {
		return nil, domain.ErrRoleNotFound
	}
	return &role, nil
}

func (r *stubAccountRepo) Insert(_ context.Context, in ports.NewAccount) (*domain.Account, error) {
	for _, a := range r.accounts {
		if a.Email == in.Email {
			return nil, domain.ErrDuplicateEmail
		}
	}
	id := strconv.Itoa(r.nextID)
	r.nextID++
	now := time.Now().UTC()
	a := &domain.Account{
		ID:           id,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		PasswordHash: in.PasswordHash,
		RoleID:       in.RoleID,
		RoleName:     in.RoleID.Name(),
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	r.accounts[id] = a
	r.writes++
	return cloneAccount(a), nil
}

func (r *stubAccountRepo) mutate(id string, fn func(a *domain.Account)) (*domain.Account, error) {
	a, ok := r.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	fn(a)
	a.UpdatedAt = time.Now().UTC()
	r.writes++
	return cloneAccount(a), nil
}

func (r *stubAccountRepo) UpdateFields(_ context.Context, id string, p domain.AccountPatch) (*domain.Account, error) {
	return r.mutate(id, func(a *domain.Account) {
		if p.FirstName != nil {
			a.FirstName = *p.FirstName
		}
		if p.LastName != nil {
			a.LastName = *p.LastName
		}
		if p.Email != nil {
			a.Email = *p.Email
		}
	})
}

func (r *stubAccountRepo) SetActive(_ context.Context, id string, active bool) (*domain.Account, error) {
	return r.mutate(id, func(a *domain.Account) { a.IsActive = active })
}

func (r *stubAccountRepo) SetRole(_ context.Context, id string, role domain.RoleID) (*domain.Account, error) {
	return r.mutate(id, func(a *domain.Account) {
		a.RoleID = role
		a.RoleName = role.Name()
	})
}

func (r *stubAccountRepo) SetPasswordHash(_ context.Context, id string, hash string) (*domain.Account, error) {
	return r.mutate(id, func(a *domain.Account) { a.PasswordHash = hash })
}

func (r *stubAccountRepo) List(_ context.Context, f domain.AccountFilter) ([]*domain.Account, int64, error) {
	var all []*domain.Account
	for i := 1; i < r.nextID; i++ {
		a, ok := r.accounts[strconv.Itoa(i)]
		if !ok {
			continue
		}
		if f.RoleID != nil && a.RoleID != *f.RoleID {
			continue
		}
		if f.IsActive != nil && a.IsActive != *f.IsActive {
			continue
		}
		all = append(all, cloneAccount(a))
	}
	total := int64(len(all))
	start := f.Offset()
	if start > len(all) {
		start = len(all)
	}
	end := start + f.PageSize
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

// seed stores an account directly, bypassing validation.
func (r *stubAccountRepo) seed(email, password string, role domain.RoleID, active bool) *domain.Account {
	hash, _ := SHA256Hasher{}.Hash(password)
	a, err := r.Insert(context.Background(), ports.NewAccount{
		FirstName:    "Seed",
		LastName:     "User",
		Email:        email,
		PasswordHash: hash,
		RoleID:       role,
	})
	if err != nil {
		panic(fmt.Sprintf("seed %s: %v", email, err))
	}
	if !active {
		r.accounts[a.ID].IsActive = false
		a.IsActive = false
	}
	return a
}
