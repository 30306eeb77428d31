// AngelaMos | 2026
// handler.go

package task

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

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
	r.Route("/tasks", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{taskID}", h.Get)
		r.Put("/{taskID}", h.Update)
		r.Put("/{taskID}/progress", h.SetProgress)
		r.Post("/{taskID}/status", h.TransitionStatus)
		r.Put("/{taskID}/assign", h.Assign)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	params := ListTasksParams{
		Page:     parseIntQuery(r, "page", 1),
		PageSize: parseIntQuery(r, "page_size", 20),
		Status:   r.URL.Query().Get("status"),
		Priority: r.URL.Query().Get("priority"),
		Assigned: r.URL.Query().Get("assigned"),
		Request:  r.URL.Query().Get("request"),
	}
	if modules := r.URL.Query().Get("modules"); modules != "" {
		params.Modules = strings.Split(modules, ",")
	}

	actorID := middleware.GetAccountID(r.Context())

	tasks, total, err := h.service.List(r.Context(), actorID, params)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Paginated(
		w,
		ToTaskResponseList(tasks),
		params.Page,
		params.PageSize,
		total,
	)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	actorID := middleware.GetAccountID(r.Context())

	t, err := h.service.Create(r.Context(), actorID, req)
	if err != nil {
		if errors.Is(err, ErrPrerequisiteNotMet) {
			core.Conflict(w, err.Error())
			return
		}
		h.writeTaskError(w, err)
		return
	}

	core.Created(w, ToTaskResponse(t))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "taskID")
	actorID := middleware.GetAccountID(r.Context())

	t, err := h.service.Get(r.Context(), actorID, taskID)
	if err != nil {
		h.writeTaskError(w, err)
		return
	}

	core.OK(w, ToTaskResponse(t))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "taskID")
	actorID := middleware.GetAccountID(r.Context())

	var req UpdateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	t, err := h.service.Update(r.Context(), actorID, taskID, req)
	if err != nil {
		h.writeTaskError(w, err)
		return
	}

	core.OK(w, ToTaskResponse(t))
}

func (h *Handler) SetProgress(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "taskID")
	actorID := middleware.GetAccountID(r.Context())

	var req SetProgressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	t, err := h.service.SetProgress(r.Context(), actorID, taskID, req.Progress)
	if err != nil {
		h.writeTaskError(w, err)
		return
	}

	core.OK(w, ToTaskResponse(t))
}

func (h *Handler) TransitionStatus(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "taskID")
	actorID := middleware.GetAccountID(r.Context())

	var req TransitionTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	t, err := h.service.TransitionStatus(
		r.Context(),
		actorID,
		taskID,
		req.Status,
	)
	if err != nil {
		h.writeTaskError(w, err)
		return
	}

	core.OK(w, ToTaskResponse(t))
}

func (h *Handler) Assign(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "taskID")
	actorID := middleware.GetAccountID(r.Context())

	var req AssignTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	t, err := h.service.Assign(r.Context(), actorID, taskID, req.AssigneeID)
	if err != nil {
		h.writeTaskError(w, err)
		return
	}

	core.OK(w, ToTaskResponse(t))
}

func (h *Handler) writeTaskError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "task")
	case errors.Is(err, core.ErrForbidden):
		core.Forbidden(w, "no capability for this module")
	case errors.Is(err, ErrIllegalTransition):
		core.Conflict(w, err.Error())
	case errors.Is(err, ErrProgressOutOfRange):
		core.BadRequest(w, err.Error())
	case errors.Is(err, core.ErrConflict):
		core.Conflict(w, "task was modified concurrently, retry")
	case errors.Is(err, core.ErrInvalidInput):
		core.BadRequest(w, err.Error())
	default:
		core.InternalServerError(w, err)
	}
}

func parseIntQuery(r *http.Request, key string, defaultVal int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}

	parsed, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}

	return parsed
}
