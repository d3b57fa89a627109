package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/cockpit/internal/projects/application/queries"
	"github.com/felixgeelhaar/cockpit/internal/projects/domain"
	"github.com/felixgeelhaar/cockpit/pkg/observability"
)

// HealthGetter computes the health of one project.
type HealthGetter interface {
	Handle(ctx context.Context, query queries.GetProjectHealthQuery) (*domain.ProjectHealth, error)
}

// HealthLister computes the health of many projects.
type HealthLister interface {
	Handle(ctx context.Context, query queries.ListProjectHealthQuery) ([]queries.ProjectHealthSummary, error)
}

// ProjectHealthHandler serves project health requests.
type ProjectHealthHandler struct {
	get    HealthGetter
	list   HealthLister
	logger *slog.Logger
}

// NewProjectHealthHandler creates a new project health handler.
func NewProjectHealthHandler(get HealthGetter, list HealthLister, logger *slog.Logger) *ProjectHealthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProjectHealthHandler{get: get, list: list, logger: logger}
}

// ProjectHealthListResponse is the body of GET /api/v1/projects/health.
type ProjectHealthListResponse struct {
	Projects []queries.ProjectHealthSummaryDTO `json:"projects"`
	Count    int                               `json:"count"`
}

// GetHealth handles GET /api/v1/projects/{projectID}/health
func (h *ProjectHealthHandler) GetHealth(w http.ResponseWriter, r *http.Request) {
	projectID, err := uuid.Parse(r.PathValue("projectID"))
	if err != nil {
		writeError(w, ErrBadRequest.WithMessage(domain.ErrInvalidProjectID.Error()))
		return
	}

	health, err := h.get.Handle(r.Context(), queries.GetProjectHealthQuery{ProjectID: projectID})
	if err != nil {
		if errors.Is(err, domain.ErrProjectNotFound) {
			writeError(w, ErrNotFound.WithMessage("Project not found"))
			return
		}
		h.logger.ErrorContext(r.Context(), "failed to compute project health",
			observability.ProjectIDKey, projectID,
			observability.ErrorKey, err)
		writeError(w, ErrInternalServer)
		return
	}

	writeJSON(w, http.StatusOK, queries.ToProjectHealthDTO(*health))
}

// ListHealth handles GET /api/v1/projects/health
func (h *ProjectHealthHandler) ListHealth(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	query := queries.ListProjectHealthQuery{
		Status:           params.Get("status"),
		ExcludeCompleted: params.Get("exclude_completed") == "true",
	}

	if raw := params.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			writeError(w, ErrBadRequest.WithMessage("limit must be a non-negative integer"))
			return
		}
		query.Limit = limit
	}

	summaries, err := h.list.Handle(r.Context(), query)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidStatus) {
			writeError(w, ErrBadRequest.WithMessage(err.Error()))
			return
		}
		h.logger.ErrorContext(r.Context(), "failed to list project health", observability.ErrorKey, err)
		writeError(w, ErrInternalServer)
		return
	}

	writeJSON(w, http.StatusOK, ProjectHealthListResponse{
		Projects: queries.ToSummaryDTOs(summaries),
		Count:    len(summaries),
	})
}
