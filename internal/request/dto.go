// AngelaMos | 2026
// dto.go

package request

import (
	"time"
)

type CreateRequestRequest struct {
	ProductID     string         `json:"product_id"     validate:"required,uuid"`
	Company       string         `json:"company"        validate:"required,min=1,max=200"`
	ContactPerson string         `json:"contact_person" validate:"required,min=1,max=100"`
	Email         string         `json:"email"          validate:"required,email"`
	Phone         string         `json:"phone"          validate:"max=30"`
	Priority      string         `json:"priority"       validate:"omitempty,oneof=low medium high urgent"`
	FormData      map[string]any `json:"form_data"`
}

type TransitionRequest struct {
	Notes string `json:"notes" validate:"max=5000"`
}

type AssignRequest struct {
	AssigneeID string `json:"assignee_id" validate:"required,uuid"`
}

type UpdatePriorityRequest struct {
	Priority string `json:"priority" validate:"required,oneof=low medium high urgent"`
}

type RequestResponse struct {
	ID             string         `json:"id"`
	ProductID      string         `json:"product_id"`
	Module         string         `json:"module"`
	Company        string         `json:"company"`
	ContactPerson  string         `json:"contact_person"`
	Email          string         `json:"email"`
	Phone          string         `json:"phone"`
	Status         string         `json:"status"`
	Priority       string         `json:"priority"`
	FormData       map[string]any `json:"form_data"`
	MarketingNotes *string        `json:"marketing_notes"`
	AdminNotes     *string        `json:"admin_notes"`
	TechnicalNotes *string        `json:"technical_notes"`
	AssignedTo     *string        `json:"assigned_to"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// IntakeResponse is the public acknowledgement for an unauthenticated
// submission. Internal note fields never leave the building.
type IntakeResponse struct {
	ID        string    `json:"id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type ListRequestsParams struct {
	Page     int      `json:"page"`
	PageSize int      `json:"page_size"`
	Status   string   `json:"status"`
	Priority string   `json:"priority"`
	Modules  []string `json:"modules"`
	Assigned string   `json:"assigned"`
}

func (p *ListRequestsParams) Normalize() {
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

func (p *ListRequestsParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

func ToRequestResponse(r *Request) RequestResponse {
	formData := map[string]any(r.FormData)
	if formData == nil {
		formData = map[string]any{}
	}

	return RequestResponse{
		ID:             r.ID,
		ProductID:      r.ProductID,
		Module:         r.Module,
		Company:        r.Company,
		ContactPerson:  r.ContactPerson,
		Email:          r.Email,
		Phone:          r.Phone,
		Status:         r.Status,
		Priority:       r.Priority,
		FormData:       formData,
		MarketingNotes: r.MarketingNotes,
		AdminNotes:     r.AdminNotes,
		TechnicalNotes: r.TechnicalNotes,
		AssignedTo:     r.AssignedTo,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

func ToRequestResponseList(requests []Request) []RequestResponse {
	responses := make([]RequestResponse, 0, len(requests))
	for _, r := range requests {
		responses = append(responses, ToRequestResponse(&r))
	}
	return responses
}

func ToIntakeResponse(r *Request) IntakeResponse {
	return IntakeResponse{
		ID:        r.ID,
		Status:    r.Status,
		CreatedAt: r.CreatedAt,
	}
}
