// AngelaMos | 2026
// handler.go

package notification

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/gashasec/portal-backend/internal/core"
	"github.com/gashasec/portal-backend/internal/middleware"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/notifications", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.List)
		r.Get("/unread-count", h.UnreadCount)
		r.Put("/{notificationID}/read", h.MarkRead)
		r.Put("/read-all", h.MarkAllRead)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	accountID := middleware.GetAccountID(r.Context())

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}

	items, err := h.service.List(r.Context(), accountID, limit)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToNotificationResponseList(items))
}

func (h *Handler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	accountID := middleware.GetAccountID(r.Context())

	count, err := h.service.UnreadCount(r.Context(), accountID)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, map[string]int{"unread": count})
}

func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	accountID := middleware.GetAccountID(r.Context())
	notificationID := chi.URLParam(r, "notificationID")

	if err := h.service.MarkRead(r.Context(), accountID, notificationID); err != nil {
		switch {
		case errors.Is(err, core.ErrNotFound):
			core.NotFound(w, "notification")
		case errors.Is(err, core.ErrForbidden):
			core.Forbidden(w, "not your notification")
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.NoContent(w)
}

func (h *Handler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	accountID := middleware.GetAccountID(r.Context())

	updated, err := h.service.MarkAllRead(r.Context(), accountID)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, map[string]int64{"updated": updated})
}
