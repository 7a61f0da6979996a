package handler

import (
	"log/slog"
	"net/http"

	"voxpop/internal/categories"
	"voxpop/internal/httputil"
)

// CategoriesHandler serves the suggestion category palette
type CategoriesHandler struct {
	registry *categories.Registry
	logger   *slog.Logger
}

// NewCategoriesHandler creates a new categories handler
func NewCategoriesHandler(registry *categories.Registry, logger *slog.Logger) *CategoriesHandler {
	return &CategoriesHandler{
		registry: registry,
		logger:   logger,
	}
}

// ListCategories returns the allowed categories with display colors
// GET /api/categories
func (h *CategoriesHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, h.registry.List())
}

// HealthCheck reports service liveness
// GET /health
func (h *CategoriesHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
