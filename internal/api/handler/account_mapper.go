package handler

import (
	"github.com/callcoach/platform/internal/core/domain"
	"github.com/callcoach/platform/internal/core/ports"
)

// --- Request → Service input ---

func toRegisterInput(req registerRequest) ports.RegisterInput {
	return ports.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		RoleID:    domain.RoleID(*req.RoleID),
	}
}

func toAccountPatch(req updateUserRequest) domain.AccountPatch {
	return domain.AccountPatch{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
	}
}

// --- Service result → HTTP response ---

func toAuthResponse(r *domain.AuthResult) authResponse {
	return authResponse{
		Message: r.Message,
		Email:   r.Email,
		Role:    r.Role,
		Token:   r.Token,
	}
}

func toUserResponse(a *domain.Account) userResponse {
	resp := userResponse{
		ID:        a.ID,
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Email:     a.Email,
		RoleID:    int(a.RoleID),
		RoleName:  a.RoleName,
		IsActive:  a.IsActive,
	}
	if resp.RoleName == "" {
		resp.RoleName = a.RoleID.Name()
	}
	if a.RoleDescription != "" {
		desc := a.RoleDescription
		resp.RoleDescription = &desc
	}
	return resp
}

func toUserListResponse(r *ports.ListAccountsResult) userListResponse {
	users := make([]userResponse, 0, len(r.Items))
	for _, a := range r.Items {
		users = append(users, toUserResponse(a))
	}
	return userListResponse{
		Users:    users,
		Total:    r.Total,
		Page:     r.Page,
		PageSize: r.PageSize,
	}
}

func toMeResponse(c *domain.Claims) meResponse {
	return meResponse{
		ID:        c.Subject,
		Email:     c.Email,
		Role:      c.Role,
		ExpiresAt: c.ExpiresAt.UTC(),
	}
}
