// AngelaMos | 2026
// dto.go

package deployment

import (
	"time"
)

type CreateDeploymentRequest struct {
	TaskID      string `json:"task_id"     validate:"required,uuid"`
	Environment string `json:"environment" validate:"required,oneof=development staging production"`
}

type TransitionDeploymentRequest struct {
	Status string `json:"status" validate:"required,oneof=pending in-progress completed failed cancelled"`
}

type SetDeploymentProgressRequest struct {
	Progress int `json:"progress" validate:"gte=0,lte=100"`
}

type AppendLogRequest struct {
	Line string `json:"line" validate:"required,min=1,max=2000"`
}

type DeploymentResponse struct {
	ID          string     `json:"id"`
	TaskID      string     `json:"task_id"`
	Module      string     `json:"module"`
	Environment string     `json:"environment"`
	Status      string     `json:"status"`
	Progress    int        `json:"progress"`
	StartedAt   *time.Time `json:"started_at"`
	EndedAt     *time.Time `json:"ended_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type LogLineResponse struct {
	Line      string    `json:"line"`
	CreatedAt time.Time `json:"created_at"`
}

func ToDeploymentResponse(d *Deployment) DeploymentResponse {
	return DeploymentResponse{
		ID:          d.ID,
		TaskID:      d.TaskID,
		Module:      d.Module,
		Environment: d.Environment,
		Status:      d.Status,
		Progress:    d.Progress,
		StartedAt:   d.StartedAt,
		EndedAt:     d.EndedAt,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func ToDeploymentResponseList(items []Deployment) []DeploymentResponse {
	responses := make([]DeploymentResponse, 0, len(items))
	for _, d := range items {
		responses = append(responses, ToDeploymentResponse(&d))
	}
	return responses
}

func ToLogLineResponseList(lines []LogLine) []LogLineResponse {
	responses := make([]LogLineResponse, 0, len(lines))
	for _, l := range lines {
		responses = append(responses, LogLineResponse{
			Line:      l.Line,
			CreatedAt: l.CreatedAt,
		})
	}
	return responses
}
