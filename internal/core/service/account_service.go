package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/callcoach/platform/internal/core/domain"
	"github.com/callcoach/platform/internal/core/ports"
)

const (
	minNameLength     = 2
	minPasswordLength = 6

	defaultPageSize = 10
	maxPageSize     = 100
)

// AccountService implements registration, login and the account lifecycle
// (profile updates, role assignment, enable/disable, password change).
type AccountService struct {
	repo   ports.AccountRepository
	hasher PasswordHasher
	tokens ports.TokenIssuer
	log    zerolog.Logger
}

func NewAccountService(repo ports.AccountRepository, hasher PasswordHasher, tokens ports.TokenIssuer, log zerolog.Logger) *AccountService {
	return &AccountService{repo: repo, hasher: hasher, tokens: tokens, log: log}
}

// Register creates a new active account and returns a token for it.
func (s *AccountService) Register(ctx context.Context, in ports.RegisterInput) (*domain.AuthResult, error) {
	firstName, err := validName("first_name", in.FirstName)
	if err != nil {
		return nil, err
	}
	lastName, err := validName("last_name", in.LastName)
	if err != nil {
		return nil, err
	}
	email := strings.TrimSpace(in.Email)
	if email == "" {
		return nil, domain.NewValidationError("email", "Email is required")
	}
	if err := validPassword("password", in.Password); err != nil {
		return nil, err
	}

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrDuplicateEmail
	} else if !errors.Is(err, domain.ErrAccountNotFound) {
		return nil, fmt.Errorf("register: lookup email: %w", err)
	}

	if err := s.ensureRole(ctx, in.RoleID); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	acc, err := s.repo.Insert(ctx, ports.NewAccount{
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		PasswordHash: hash,
		RoleID:       in.RoleID,
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, err
		}
		return nil, fmt.Errorf("register: insert: %w", err)
	}

	token, err := s.issue(acc)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("account_id", acc.ID).Str("role", acc.RoleID.Name()).Msg("account registered")

	return &domain.AuthResult{
		Message: "User registered successfully",
		Email:   acc.Email,
		Role:    acc.RoleID.Name(),
		Token:   token,
	}, nil
}

// Login checks, in order: the account exists, it is active, the password
// matches. Unknown email and wrong password fail with the same error.
func (s *AccountService) Login(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	acc, err := s.repo.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: lookup email: %w", err)
	}

	if !acc.IsActive {
		return nil, domain.ErrAccountDisabled
	}

	if !s.hasher.Verify(password, acc.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.issue(acc)
	if err != nil {
		return nil, err
	}

	return &domain.AuthResult{
		Message: "Login successful",
		Email:   acc.Email,
		Role:    acc.RoleID.Name(),
		Token:   token,
	}, nil
}

func (s *AccountService) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	acc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("get account %s: %w", id, err)
	}
	return acc, nil
}

func (s *AccountService) ListAccounts(ctx context.Context, filter domain.AccountFilter) (*ports.ListAccountsResult, error) {
	if filter.Page == 0 {
		filter.Page = 1
	}
	if filter.PageSize == 0 {
		filter.PageSize = defaultPageSize
	}
	if filter.Page < 1 {
		return nil, domain.NewValidationError("page", "page must be at least 1")
	}
	if filter.PageSize < 1 || filter.PageSize > maxPageSize {
		return nil, domain.NewValidationError("page_size", fmt.Sprintf("page_size must be between 1 and %d", maxPageSize))
	}

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return &ports.ListAccountsResult{
		Items:    items,
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}, nil
}

// UpdateProfile applies only the supplied fields. Disabled accounts cannot be
// modified.
func (s *AccountService) UpdateProfile(ctx context.Context, id string, patch domain.AccountPatch) (*domain.Account, error) {
	acc, err := s.GetAccount(ctx, id)
	if err != nil {
		return nil, err
	}
	if !acc.IsActive {
		return nil, domain.ErrAccountDisabled
	}

	var clean domain.AccountPatch
	if patch.FirstName != nil {
		v, err := validName("first_name", *patch.FirstName)
		if err != nil {
			return nil, err
		}
		clean.FirstName = &v
	}
	if patch.LastName != nil {
		v, err := validName("last_name", *patch.LastName)
		if err != nil {
			return nil, err
		}
		clean.LastName = &v
	}
	if patch.Email != nil {
		v := strings.TrimSpace(*patch.Email)
		if v == "" {
			return nil, domain.NewValidationError("email", "Email is required")
		}
		if v != acc.Email {
			other, err := s.repo.FindByEmail(ctx, v)
			switch {
			case err == nil && other.ID != acc.ID:
				return nil, domain.ErrDuplicateEmail
			case err != nil && !errors.Is(err, domain.ErrAccountNotFound):
				return nil, fmt.Errorf("update profile: lookup email: %w", err)
			}
		}
		clean.Email = &v
	}

	if clean.Empty() {
		return acc, nil
	}

	updated, err := s.repo.UpdateFields(ctx, acc.ID, clean)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) || errors.Is(err, domain.ErrAccountNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return updated, nil
}

// AssignRole overwrites the role unconditionally; reassigning the current role
// is accepted.
func (s *AccountService) AssignRole(ctx context.Context, id string, role domain.RoleID) (*domain.Account, error) {
	acc, err := s.GetAccount(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.ensureRole(ctx, role); err != nil {
		return nil, err
	}

	updated, err := s.repo.SetRole(ctx, acc.ID, role)
	if err != nil {
		return nil, fmt.Errorf("assign role: %w", err)
	}
	s.log.Info().Str("account_id", acc.ID).Str("role", role.Name()).Msg("role assigned")
	return updated, nil
}

func (s *AccountService) Disable(ctx context.Context, id string) (*domain.Account, error) {
	acc, err := s.GetAccount(ctx, id)
	if err != nil {
		return nil, err
	}
	if !acc.IsActive {
		return nil, domain.ErrAlreadyDisabled
	}

	updated, err := s.repo.SetActive(ctx, acc.ID, false)
	if err != nil {
		return nil, fmt.Errorf("disable account: %w", err)
	}
	s.log.Info().Str("account_id", acc.ID).Msg("account disabled")
	return updated, nil
}

func (s *AccountService) Enable(ctx context.Context, id string) (*domain.Account, error) {
	acc, err := s.GetAccount(ctx, id)
	if err != nil {
		return nil, err
	}
	if acc.IsActive {
		return nil, domain.ErrAlreadyEnabled
	}

	updated, err := s.repo.SetActive(ctx, acc.ID, true)
	if err != nil {
		return nil, fmt.Errorf("enable account: %w", err)
	}
	s.log.Info().Str("account_id", acc.ID).Msg("account enabled")
	return updated, nil
}

// ChangePassword replaces the hash only after the current password verifies.
func (s *AccountService) ChangePassword(ctx context.Context, id, current, next string) (*domain.Account, error) {
	acc, err := s.GetAccount(ctx, id)
	if err != nil {
		return nil, err
	}
	if !acc.IsActive {
		return nil, domain.ErrAccountDisabled
	}
	if err := validPassword("new_password", next); err != nil {
		return nil, err
	}
	if !s.hasher.Verify(current, acc.PasswordHash) {
		return nil, domain.ErrWrongCurrentPassword
	}

	hash, err := s.hasher.Hash(next)
	if err != nil {
		return nil, fmt.Errorf("change password: %w", err)
	}
	updated, err := s.repo.SetPasswordHash(ctx, acc.ID, hash)
	if err != nil {
		return nil, fmt.Errorf("change password: %w", err)
	}
	s.log.Info().Str("account_id", acc.ID).Msg("password changed")
	return updated, nil
}

func (s *AccountService) ensureRole(ctx context.Context, role domain.RoleID) error {
	if _, err := s.repo.FindRole(ctx, role); err != nil {
		if errors.Is(err, domain.ErrRoleNotFound) {
			return domain.ErrInvalidRole
		}
		return fmt.Errorf("lookup role %d: %w", role, err)
	}
	return nil
}

func (s *AccountService) issue(acc *domain.Account) (string, error) {
	token, err := s.tokens.Generate(domain.Claims{
		Subject: acc.ID,
		Email:   acc.Email,
		Role:    acc.RoleID.Name(),
	}, 0)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}

func validName(field, v string) (string, error) {
	v = strings.TrimSpace(v)
	if utf8.RuneCountInString(v) < minNameLength {
		return "", domain.NewValidationError(field, "Name must be at least 2 characters long")
	}
	return v, nil
}

func validPassword(field, v string) error {
	if utf8.RuneCountInString(v) < minPasswordLength {
		msg := "Password must be at least 6 characters long"
		if field == "new_password" {
			msg = "New password must be at least 6 characters long"
		}
		return domain.NewValidationError(field, msg)
	}
	return nil
}

// compile-time checks
var (
	_ ports.AuthService    = (*AccountService)(nil)
	_ ports.AccountService = (*AccountService)(nil)
	_ ports.TokenIssuer    = (*TokenService)(nil)
	_ ports.TokenVerifier  = (*TokenService)(nil)
)
