package handler

import (
	"log/slog"
	"net/http"

	"voxpop/internal/domain/services"
	"voxpop/internal/httputil"
)

// RoadmapHandler handles roadmap HTTP requests
type RoadmapHandler struct {
	roadmapService services.RoadmapService
	resolver       services.IdentityResolver
	logger         *slog.Logger
}

// NewRoadmapHandler creates a new roadmap handler
func NewRoadmapHandler(roadmapService services.RoadmapService, resolver services.IdentityResolver, logger *slog.Logger) *RoadmapHandler {
	return &RoadmapHandler{
		roadmapService: roadmapService,
		resolver:       resolver,
		logger:         logger,
	}
}

// GetRoadmap returns a board's roadmap grouped by status
// GET /api/boards/{id}/roadmap
func (h *RoadmapHandler) GetRoadmap(w http.ResponseWriter, r *http.Request) {
	boardID := r.PathValue("id")
	if boardID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "board ID is required")
		return
	}

	identity := h.resolver.Resolve(r.Context())

	roadmap, err := h.roadmapService.GetRoadmap(r.Context(), identity, boardID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, roadmap)
}

// CreateItem adds an item to a board's roadmap (owner only)
// POST /api/boards/{id}/roadmap
func (h *RoadmapHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	boardID := r.PathValue("id")
	if boardID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "board ID is required")
		return
	}

	var req services.CreateRoadmapItemRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	identity := h.resolver.Resolve(r.Context())

	item, err := h.roadmapService.CreateItem(r.Context(), identity, boardID, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, item)
}

// UpdateItem applies a partial update to a roadmap item (owner only)
// PATCH /api/boards/{id}/roadmap/{itemID}
func (h *RoadmapHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	boardID := r.PathValue("id")
	itemID := r.PathValue("itemID")
	if boardID == "" || itemID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "board ID and item ID are required")
		return
	}

	var req services.UpdateRoadmapItemRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	identity := h.resolver.Resolve(r.Context())

	item, err := h.roadmapService.UpdateItem(r.Context(), identity, boardID, itemID, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, item)
}

// DeleteItem removes a roadmap item (owner only)
// DELETE /api/boards/{id}/roadmap/{itemID}
func (h *RoadmapHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	boardID := r.PathValue("id")
	itemID := r.PathValue("itemID")
	if boardID == "" || itemID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "board ID and item ID are required")
		return
	}

	identity := h.resolver.Resolve(r.Context())

	if err := h.roadmapService.DeleteItem(r.Context(), identity, boardID, itemID); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
