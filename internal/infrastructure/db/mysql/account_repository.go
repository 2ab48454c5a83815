package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	gomysql "github.com/go-sql-driver/mysql"

	"github.com/callcoach/platform/internal/core/domain"
	"github.com/callcoach/platform/internal/core/ports"
)

const errDuplicateEntry = 1062

const selectAccount = `SELECT u.id, u.first_name, u.last_name, u.email, u.password, u.role_id,
       COALESCE(r.name, ''), COALESCE(r.description, ''), u.is_active, u.created_at, u.updated_at
FROM usuarios u
LEFT JOIN roles r ON r.id = u.role_id`

// AccountRepository stores accounts in the usuarios table and roles in roles.
type AccountRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewAccountRepository returns the MySQL-backed credential store.
func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db, now: func() time.Time { return time.Now().UTC() }}
}

func (r *AccountRepository) FindByID(ctx context.Context, id string) (*domain.Account, error) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return nil, domain.ErrAccountNotFound
	}
	return r.queryOne(ctx, selectAccount+` WHERE u.id = ?`, n)
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.queryOne(ctx, selectAccount+` WHERE u.email = ?`, email)
}

func (r *AccountRepository) FindRole(ctx context.Context, id domain.RoleID) (*domain.Role, error) {
	var (
		role domain.Role
		desc sql.NullString
	)
	err := r.db.QueryRowContext(ctx, `SELECT id, name, description FROM roles WHERE id = ?`, int(id)).
		Scan(&role.ID, &role.Name, &desc)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRoleNotFound
		}
		return nil, fmt.Errorf("find role: %w", err)
	}
	role.Description = desc.String
	return &role, nil
}

func (r *AccountRepository) Insert(ctx context.Context, in ports.NewAccount) (*domain.Account, error) {
	now := r.now()
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO usuarios (first_name, last_name, email, password, role_id, is_active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, 1, ?, ?)`,
		in.FirstName, in.LastName, in.Email, in.PasswordHash, int(in.RoleID), now, now,
	)
	if err != nil {
		if isDuplicate(err) {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("insert user: last id: %w", err)
	}
	return r.FindByID(ctx, strconv.FormatInt(id, 10))
}

func (r *AccountRepository) UpdateFields(ctx context.Context, id string, p domain.AccountPatch) (*domain.Account, error) {
	var (
		sets []string
		args []any
	)
	if p.FirstName != nil {
		sets = append(sets, "first_name = ?")
		args = append(args, *p.FirstName)
	}
	if p.LastName != nil {
		sets = append(sets, "last_name = ?")
		args = append(args, *p.LastName)
	}
	if p.Email != nil {
		sets = append(sets, "email = ?")
		args = append(args, *p.Email)
	}
	if len(sets) == 0 {
		return r.FindByID(ctx, id)
	}
	return r.update(ctx, id, strings.Join(sets, ", "), args...)
}

func (r *AccountRepository) SetActive(ctx context.Context, id string, active bool) (*domain.Account, error) {
	return r.update(ctx, id, "is_active = ?", active)
}

func (r *AccountRepository) SetRole(ctx context.Context, id string, role domain.RoleID) (*domain.Account, error) {
	return r.update(ctx, id, "role_id = ?", int(role))
}

func (r *AccountRepository) SetPasswordHash(ctx context.Context, id string, hash string) (*domain.Account, error) {
	return r.update(ctx, id, "password = ?", hash)
}

func (r *AccountRepository) List(ctx context.Context, f domain.AccountFilter) ([]*domain.Account, int64, error) {
	var (
		where []string
		args  []any
	)
	if f.RoleID != nil {
		where = append(where, "u.role_id = ?")
		args = append(args, int(*f.RoleID))
	}
	if f.IsActive != nil {
		where = append(where, "u.is_active = ?")
		args = append(args, *f.IsActive)
	}
	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM usuarios u`+clause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		selectAccount+clause+` ORDER BY u.id LIMIT ? OFFSET ?`,
		append(args, f.PageSize, f.Offset())...,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var out []*domain.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan user: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	return out, total, nil
}

func (r *AccountRepository) update(ctx context.Context, id, set string, args ...any) (*domain.Account, error) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return nil, domain.ErrAccountNotFound
	}
	args = append(args, r.now(), n)
	res, err := r.db.ExecContext(ctx, `UPDATE usuarios SET `+set+`, updated_at = ? WHERE id = ?`, args...)
	if err != nil {
		if isDuplicate(err) {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("update user %s: %w", id, err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return nil, domain.ErrAccountNotFound
	}
	return r.FindByID(ctx, id)
}

func (r *AccountRepository) queryOne(ctx context.Context, query string, args ...any) (*domain.Account, error) {
	a, err := scanAccount(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return a, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAccount(s scanner) (*domain.Account, error) {
	var (
		a      domain.Account
		id     int64
		roleID int
	)
	err := s.Scan(&id, &a.FirstName, &a.LastName, &a.Email, &a.PasswordHash, &roleID,
		&a.RoleName, &a.RoleDescription, &a.IsActive, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	a.ID = strconv.FormatInt(id, 10)
	a.RoleID = domain.RoleID(roleID)
	if a.RoleName == "" {
		a.RoleName = a.RoleID.Name()
	}
	return &a, nil
}

func isDuplicate(err error) bool {
	var me *gomysql.MySQLError
	return errors.As(err, &me) && me.Number == errDuplicateEntry
}

var _ ports.AccountRepository = (*AccountRepository)(nil)
