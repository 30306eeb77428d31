// AngelaMos | 2026
// handler.go

package account

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

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
	authenticator, adminOnly, superAdminOnly func(http.Handler) http.Handler,
) {
	r.Route("/accounts", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(adminOnly)

		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{accountID}", h.Get)
		r.Put("/{accountID}", h.Update)
		r.Put("/{accountID}/role", h.UpdateRole)
		r.Put("/{accountID}/status", h.UpdateStatus)
		r.Post("/{accountID}/capabilities", h.AddCapability)
		r.Delete("/{accountID}/capabilities/{module}", h.RemoveCapability)
		r.Delete("/{accountID}", h.Delete)

		r.Group(func(r chi.Router) {
			r.Use(superAdminOnly)
			r.Post("/backfill-legacy-modules", h.BackfillLegacyModules)
		})
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	params := ListAccountsParams{
		Page:     parseIntQuery(r, "page", 1),
		PageSize: parseIntQuery(r, "page_size", 20),
		Search:   r.URL.Query().Get("search"),
		Role:     r.URL.Query().Get("role"),
		Status:   r.URL.Query().Get("status"),
		Module:   r.URL.Query().Get("module"),
	}

	accounts, total, err := h.service.List(r.Context(), params)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Paginated(
		w,
		ToAccountResponseList(accounts),
		params.Page,
		params.PageSize,
		total,
	)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	acct, err := h.service.Create(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrDuplicateKey):
			core.JSONError(w, core.DuplicateError("email"))
		case errors.Is(err, core.ErrInvalidInput):
			core.BadRequest(w, err.Error())
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.Created(w, ToAccountResponse(acct))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "accountID")

	acct, err := h.service.Get(r.Context(), accountID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "account")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToAccountResponse(acct))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "accountID")

	var req UpdateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	acct, err := h.service.Update(r.Context(), accountID, req)
	if err != nil {
		h.writeAccountError(w, err)
		return
	}

	core.OK(w, ToAccountResponse(acct))
}

func (h *Handler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "accountID")

	var req UpdateAccountRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	acct, err := h.service.UpdateRole(r.Context(), accountID, req.Role)
	if err != nil {
		h.writeAccountError(w, err)
		return
	}

	core.OK(w, ToAccountResponse(acct))
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "accountID")

	var req UpdateAccountStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	acct, err := h.service.UpdateStatus(r.Context(), accountID, req.Status)
	if err != nil {
		h.writeAccountError(w, err)
		return
	}

	core.OK(w, ToAccountResponse(acct))
}

func (h *Handler) AddCapability(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "accountID")

	var req CapabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	acct, err := h.service.AddCapability(r.Context(), accountID, req.Module)
	if err != nil {
		h.writeAccountError(w, err)
		return
	}

	core.OK(w, ToAccountResponse(acct))
}

func (h *Handler) RemoveCapability(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "accountID")
	moduleID := chi.URLParam(r, "module")

	acct, err := h.service.RemoveCapability(r.Context(), accountID, moduleID)
	if err != nil {
		h.writeAccountError(w, err)
		return
	}

	core.OK(w, ToAccountResponse(acct))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	requesterID := middleware.GetAccountID(r.Context())
	targetID := chi.URLParam(r, "accountID")

	if err := h.service.CanDelete(r.Context(), requesterID, targetID); err != nil {
		if errors.Is(err, core.ErrForbidden) {
			core.Forbidden(w, "cannot delete this account")
			return
		}
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "account")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	if err := h.service.Delete(r.Context(), targetID); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "account")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) BackfillLegacyModules(w http.ResponseWriter, r *http.Request) {
	migrated, err := h.service.BackfillLegacyModules(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, map[string]int{"migrated": migrated})
}

func (h *Handler) writeAccountError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "account")
	case errors.Is(err, ErrCapabilityPresent):
		core.Conflict(w, "capability already present")
	case errors.Is(err, ErrCapabilityMissing):
		core.NotFound(w, "capability")
	case errors.Is(err, ErrCapabilityLimit):
		core.BadRequest(w, "account already holds the maximum of 3 module capabilities")
	case errors.Is(err, ErrLastCapability):
		core.Conflict(w, "cannot remove the account's last module capability")
	case errors.Is(err, core.ErrInvalidInput):
		core.BadRequest(w, err.Error())
	case errors.Is(err, core.ErrConflict):
		core.Conflict(w, "")
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
