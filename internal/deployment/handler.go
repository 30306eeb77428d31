// AngelaMos | 2026
// handler.go

package deployment

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/gashasec/portal-backend/internal/core"
	"github.com/gashasec/portal-backend/internal/middleware"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/deployments", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.ListForTask)
		r.Post("/", h.Create)
		r.Get("/{deploymentID}", h.Get)
		r.Post("/{deploymentID}/status", h.Transition)
		r.Put("/{deploymentID}/progress", h.SetProgress)
		r.Get("/{deploymentID}/logs", h.GetLogs)
		r.Post("/{deploymentID}/logs", h.AppendLog)
	})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateDeploymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	actorID := middleware.GetAccountID(r.Context())

	d, err := h.service.Create(r.Context(), actorID, req)
	if err != nil {
		h.writeDeploymentError(w, err, "task")
		return
	}

	core.Created(w, ToDeploymentResponse(d))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	deploymentID := chi.URLParam(r, "deploymentID")
	actorID := middleware.GetAccountID(r.Context())

	d, err := h.service.Get(r.Context(), actorID, deploymentID)
	if err != nil {
		h.writeDeploymentError(w, err, "deployment")
		return
	}

	core.OK(w, ToDeploymentResponse(d))
}

func (h *Handler) ListForTask(w http.ResponseWriter, r *http.Request) {
	taskID := r.URL.Query().Get("task")
	if taskID == "" {
		core.BadRequest(w, "task query parameter required")
		return
	}

	actorID := middleware.GetAccountID(r.Context())

	items, err := h.service.ListForTask(r.Context(), actorID, taskID)
	if err != nil {
		h.writeDeploymentError(w, err, "task")
		return
	}

	core.OK(w, ToDeploymentResponseList(items))
}

func (h *Handler) Transition(w http.ResponseWriter, r *http.Request) {
	deploymentID := chi.URLParam(r, "deploymentID")
	actorID := middleware.GetAccountID(r.Context())

	var req TransitionDeploymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	d, err := h.service.Transition(r.Context(), actorID, deploymentID, req.Status)
	if err != nil {
		h.writeDeploymentError(w, err, "deployment")
		return
	}

	core.OK(w, ToDeploymentResponse(d))
}

func (h *Handler) SetProgress(w http.ResponseWriter, r *http.Request) {
	deploymentID := chi.URLParam(r, "deploymentID")
	actorID := middleware.GetAccountID(r.Context())

	var req SetDeploymentProgressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	d, err := h.service.SetProgress(
		r.Context(),
		actorID,
		deploymentID,
		req.Progress,
	)
	if err != nil {
		h.writeDeploymentError(w, err, "deployment")
		return
	}

	core.OK(w, ToDeploymentResponse(d))
}

func (h *Handler) GetLogs(w http.ResponseWriter, r *http.Request) {
	deploymentID := chi.URLParam(r, "deploymentID")
	actorID := middleware.GetAccountID(r.Context())

	lines, err := h.service.GetLogs(r.Context(), actorID, deploymentID)
	if err != nil {
		h.writeDeploymentError(w, err, "deployment")
		return
	}

	core.OK(w, ToLogLineResponseList(lines))
}

func (h *Handler) AppendLog(w http.ResponseWriter, r *http.Request) {
	deploymentID := chi.URLParam(r, "deploymentID")
	actorID := middleware.GetAccountID(r.Context())

	var req AppendLogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	if err := h.service.AppendLog(r.Context(), actorID, deploymentID, req.Line); err != nil {
		h.writeDeploymentError(w, err, "deployment")
		return
	}

	core.NoContent(w)
}

func (h *Handler) writeDeploymentError(
	w http.ResponseWriter,
	err error,
	resource string,
) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, resource)
	case errors.Is(err, core.ErrForbidden):
		core.Forbidden(w, "no capability for this module")
	case errors.Is(err, ErrIllegalTransition):
		core.Conflict(w, err.Error())
	case errors.Is(err, core.ErrConflict):
		core.Conflict(w, "deployment was modified concurrently, retry")
	case errors.Is(err, core.ErrInvalidInput):
		core.BadRequest(w, err.Error())
	default:
		core.InternalServerError(w, err)
	}
}
