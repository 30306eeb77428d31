// AngelaMos | 2026
// handler.go

package request

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
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/requests", func(r chi.Router) {
		// Intake is the public entry point from the catalog.
		r.Post("/", h.CreateIntake)

		r.Group(func(r chi.Router) {
			r.Use(authenticator)

			r.Get("/", h.List)
			r.Get("/{requestID}", h.Get)
			r.Post("/{requestID}/validate", h.Validate)
			r.Post("/{requestID}/approve", h.Approve)
			r.Post("/{requestID}/reject", h.Reject)
			r.Post("/{requestID}/complete", h.Complete)
			r.Put("/{requestID}/assign", h.Assign)
			r.Put("/{requestID}/priority", h.UpdatePriority)

			r.Group(func(r chi.Router) {
				r.Use(adminOnly)
				r.Delete("/{requestID}", h.Purge)
			})
		})
	})
}

func (h *Handler) CreateIntake(w http.ResponseWriter, r *http.Request) {
	var req CreateRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	entity, err := h.service.CreateIntake(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrNotFound):
			core.NotFound(w, "product")
		case errors.Is(err, core.ErrInvalidInput):
			core.BadRequest(w, err.Error())
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.Created(w, ToIntakeResponse(entity))
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	params := ListRequestsParams{
		Page:     parseIntQuery(r, "page", 1),
		PageSize: parseIntQuery(r, "page_size", 20),
		Status:   r.URL.Query().Get("status"),
		Priority: r.URL.Query().Get("priority"),
		Assigned: r.URL.Query().Get("assigned"),
	}
	if modules := r.URL.Query().Get("modules"); modules != "" {
		params.Modules = strings.Split(modules, ",")
	}

	actorID := middleware.GetAccountID(r.Context())

	requests, total, err := h.service.List(r.Context(), actorID, params)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Paginated(
		w,
		ToRequestResponseList(requests),
		params.Page,
		params.PageSize,
		total,
	)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	requestID := chi.URLParam(r, "requestID")
	actorID := middleware.GetAccountID(r.Context())

	req, err := h.service.Get(r.Context(), actorID, requestID)
	if err != nil {
		h.writeRequestError(w, err)
		return
	}

	core.OK(w, ToRequestResponse(req))
}

func (h *Handler) Validate(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, StatusValidated)
}

func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, StatusApproved)
}

func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, StatusRejected)
}

func (h *Handler) Complete(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, StatusCompleted)
}

func (h *Handler) transition(
	w http.ResponseWriter,
	r *http.Request,
	targetStatus string,
) {
	requestID := chi.URLParam(r, "requestID")
	actorID := middleware.GetAccountID(r.Context())

	var req TransitionRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			core.BadRequest(w, "invalid request body")
			return
		}

		if err := h.validator.Struct(req); err != nil {
			core.BadRequest(w, core.FormatValidationError(err))
			return
		}
	}

	updated, err := h.service.Transition(
		r.Context(),
		actorID,
		requestID,
		targetStatus,
		req.Notes,
	)
	if err != nil {
		h.writeRequestError(w, err)
		return
	}

	core.OK(w, ToRequestResponse(updated))
}

func (h *Handler) Assign(w http.ResponseWriter, r *http.Request) {
	requestID := chi.URLParam(r, "requestID")
	actorID := middleware.GetAccountID(r.Context())

	var req AssignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	updated, err := h.service.Assign(
		r.Context(),
		actorID,
		requestID,
		req.AssigneeID,
	)
	if err != nil {
		h.writeRequestError(w, err)
		return
	}

	core.OK(w, ToRequestResponse(updated))
}

func (h *Handler) UpdatePriority(w http.ResponseWriter, r *http.Request) {
	requestID := chi.URLParam(r, "requestID")
	actorID := middleware.GetAccountID(r.Context())

	var req UpdatePriorityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	updated, err := h.service.UpdatePriority(
		r.Context(),
		actorID,
		requestID,
		req.Priority,
	)
	if err != nil {
		h.writeRequestError(w, err)
		return
	}

	core.OK(w, ToRequestResponse(updated))
}

func (h *Handler) Purge(w http.ResponseWriter, r *http.Request) {
	requestID := chi.URLParam(r, "requestID")

	if err := h.service.Purge(r.Context(), requestID); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "request")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) writeRequestError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "request")
	case errors.Is(err, core.ErrForbidden):
		core.Forbidden(w, "no capability for this module")
	case errors.Is(err, ErrIllegalTransition):
		core.Conflict(w, err.Error())
	case errors.Is(err, core.ErrConflict):
		core.Conflict(w, "request was modified concurrently, retry")
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
