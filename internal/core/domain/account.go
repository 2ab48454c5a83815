package domain

import "time"

// Account models a registered user of the platform.
type Account struct {
	ID              string    `json:"id"`
	FirstName       string    `json:"first_name"`
	LastName        string    `json:"last_name"`
	Email           string    `json:"email"`
	PasswordHash    string    `json:"-"`
	RoleID          RoleID    `json:"role_id"`
	RoleName        string    `json:"role_name"`
	RoleDescription string    `json:"role_description,omitempty"`
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// AccountPatch lists every profile field that can be updated. A nil field is
// left untouched.
type AccountPatch struct {
	FirstName *string
	LastName  *string
	Email     *string
}

// Empty reports whether the patch carries no field at all.
func (p AccountPatch) Empty() bool {
	return p.FirstName == nil && p.LastName == nil && p.Email == nil
}

// AccountFilter carries the list query. Nil filters are not applied.
type AccountFilter struct {
	RoleID   *RoleID
	IsActive *bool
	Page     int // 1-based
	PageSize int
}

// Offset returns the number of rows to skip for the filter's page.
func (f AccountFilter) Offset() int {
	if f.Page < 1 {
		return 0
	}
	return (f.Page - 1) * f.PageSize
}

// AuthResult is returned by registration and login.
type AuthResult struct {
	Message string `json:"message"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	Token   string `json:"token,omitempty"`
}
