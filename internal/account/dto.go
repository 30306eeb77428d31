// AngelaMos | 2026
// dto.go

package account

import (
	"time"
)

type CreateAccountRequest struct {
	Email    string   `json:"email"    validate:"required,email,max=255"`
	Password string   `json:"password" validate:"required,min=8,max=128"`
	Name     string   `json:"name"     validate:"required,min=1,max=100"`
	Role     string   `json:"role"     validate:"required,oneof=super-admin admin marketing technical developer"`
	Modules  []string `json:"modules"  validate:"omitempty,max=3,dive,min=1,max=50"`
}

type UpdateAccountRequest struct {
	Name *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
}

type UpdateAccountRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=super-admin admin marketing technical developer"`
}

type UpdateAccountStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active inactive pending suspended"`
}

type CapabilityRequest struct {
	Module string `json:"module" validate:"required,min=1,max=50"`
}

type AccountResponse struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	Role        string     `json:"role"`
	Modules     []string   `json:"modules"`
	Status      string     `json:"status"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type ListAccountsParams struct {
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
	Search   string `json:"search"`
	Role     string `json:"role"`
	Status   string `json:"status"`
	Module   string `json:"module"`
}

func (p *ListAccountsParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 20
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
}

func (p *ListAccountsParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

func ToAccountResponse(a *Account) AccountResponse {
	modules := a.Capabilities()
	if modules == nil {
		modules = ModuleList{}
	}

	return AccountResponse{
		ID:          a.ID,
		Email:       a.Email,
		Name:        a.Name,
		Role:        a.Role,
		Modules:     modules,
		Status:      a.Status,
		LastLoginAt: a.LastLoginAt,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

func ToAccountResponseList(accounts []Account) []AccountResponse {
	responses := make([]AccountResponse, 0, len(accounts))
	for _, a := range accounts {
		responses = append(responses, ToAccountResponse(&a))
	}
	return responses
}
