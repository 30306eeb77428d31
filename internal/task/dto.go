// AngelaMos | 2026
// dto.go

package task

import (
	"time"
)

type CreateTaskRequest struct {
	RequestID    string         `json:"request_id"   validate:"required,uuid"`
	Title        string         `json:"title"        validate:"required,min=1,max=200"`
	Description  string         `json:"description"  validate:"max=5000"`
	TaskType     string         `json:"task_type"    validate:"required,min=1,max=50"`
	Priority     string         `json:"priority"     validate:"omitempty,oneof=low medium high urgent"`
	AssignedTo   string         `json:"assigned_to"  validate:"omitempty,uuid"`
	Requirements map[string]any `json:"requirements"`
	DueDate      *time.Time     `json:"due_date"`
}

type UpdateTaskRequest struct {
	Title       *string    `json:"title,omitempty"       validate:"omitempty,min=1,max=200"`
	Description *string    `json:"description,omitempty" validate:"omitempty,max=5000"`
	Priority    *string    `json:"priority,omitempty"    validate:"omitempty,oneof=low medium high urgent"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

type SetProgressRequest struct {
	Progress int `json:"progress" validate:"gte=0,lte=100"`
}

type TransitionTaskRequest struct {
	Status string `json:"status" validate:"required,oneof=pending in-progress completed on-hold cancelled"`
}

type AssignTaskRequest struct {
	AssigneeID string `json:"assignee_id" validate:"required,uuid"`
}

type TaskResponse struct {
	ID           string         `json:"id"`
	RequestID    string         `json:"request_id"`
	Module       string         `json:"module"`
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	TaskType     string         `json:"task_type"`
	Status       string         `json:"status"`
	Priority     string         `json:"priority"`
	AssignedTo   *string        `json:"assigned_to"`
	Requirements map[string]any `json:"requirements"`
	Progress     int            `json:"progress"`
	DueDate      *time.Time     `json:"due_date"`
	CompletedAt  *time.Time     `json:"completed_at"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

type ListTasksParams struct {
	Page     int      `json:"page"`
	PageSize int      `json:"page_size"`
	Status   string   `json:"status"`
	Priority string   `json:"priority"`
	Modules  []string `json:"modules"`
	Assigned string   `json:"assigned"`
	Request  string   `json:"request"`
}

func (p *ListTasksParams) Normalize() {
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

func (p *ListTasksParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

func ToTaskResponse(t *Task) TaskResponse {
	requirements := map[string]any(t.Requirements)
	if requirements == nil {
		requirements = map[string]any{}
	}

	return TaskResponse{
		ID:           t.ID,
		RequestID:    t.RequestID,
		Module:       t.Module,
		Title:        t.Title,
		Description:  t.Description,
		TaskType:     t.TaskType,
		Status:       t.Status,
		Priority:     t.Priority,
		AssignedTo:   t.AssignedTo,
		Requirements: requirements,
		Progress:     t.Progress,
		DueDate:      t.DueDate,
		CompletedAt:  t.CompletedAt,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
}

func ToTaskResponseList(tasks []Task) []TaskResponse {
	responses := make([]TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		responses = append(responses, ToTaskResponse(&t))
	}
	return responses
}
