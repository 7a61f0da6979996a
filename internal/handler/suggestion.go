package handler

import (
	"log/slog"
	"net/http"
	"time"

	"voxpop/internal/domain/services"
	"voxpop/internal/httputil"
)

// SuggestionHandler handles suggestion HTTP requests
type SuggestionHandler struct {
	suggestionService services.SuggestionService
	rankingService    services.RankingService
	resolver          services.IdentityResolver
	logger            *slog.Logger
}

// NewSuggestionHandler creates a new suggestion handler
func NewSuggestionHandler(
	suggestionService services.SuggestionService,
	rankingService services.RankingService,
	resolver services.IdentityResolver,
	logger *slog.Logger,
) *SuggestionHandler {
	return &SuggestionHandler{
		suggestionService: suggestionService,
		rankingService:    rankingService,
		resolver:          resolver,
		logger:            logger,
	}
}

// ListSuggestions lists a board's suggestions ordered by the requested
// sort mode (new, top or trending; defaults to new), annotated with
// has_voted for the caller
// GET /api/boards/{id}/suggestions?sort=trending
func (h *SuggestionHandler) ListSuggestions(w http.ResponseWriter, r *http.Request) {
	boardID := r.PathValue("id")
	if boardID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "board ID is required")
		return
	}

	mode, err := services.ParseRankMode(r.URL.Query().Get("sort"))
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	identity := h.resolver.Resolve(r.Context())

	ranked, err := h.rankingService.Rank(r.Context(), identity, boardID, mode, time.Now())
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, ranked)
}

// SubmitSuggestion submits a suggestion to a board
// POST /api/boards/{id}/suggestions
func (h *SuggestionHandler) SubmitSuggestion(w http.ResponseWriter, r *http.Request) {
	boardID := r.PathValue("id")
	if boardID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "board ID is required")
		return
	}

	var req services.SubmitSuggestionRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	identity := h.resolver.Resolve(r.Context())

	suggestion, err := h.suggestionService.Submit(r.Context(), identity, boardID, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, suggestion)
}

// GetSuggestion retrieves a suggestion with its comments
// GET /api/suggestions/{id}
func (h *SuggestionHandler) GetSuggestion(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "suggestion ID is required")
		return
	}

	identity := h.resolver.Resolve(r.Context())

	detail, err := h.suggestionService.Get(r.Context(), identity, id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, detail)
}

// UpdateSuggestion updates a suggestion's status and/or category
// (board owner only)
// PATCH /api/suggestions/{id}
func (h *SuggestionHandler) UpdateSuggestion(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "suggestion ID is required")
		return
	}

	var req services.UpdateTriageRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	identity := h.resolver.Resolve(r.Context())

	suggestion, err := h.suggestionService.UpdateTriage(r.Context(), identity, id, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, suggestion)
}

// DeleteSuggestion deletes a suggestion with its votes and comments
// (board owner only)
// DELETE /api/suggestions/{id}
func (h *SuggestionHandler) DeleteSuggestion(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "suggestion ID is required")
		return
	}

	identity := h.resolver.Resolve(r.Context())

	if err := h.suggestionService.Delete(r.Context(), identity, id); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AddComment adds a comment to a suggestion
// POST /api/suggestions/{id}/comments
func (h *SuggestionHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "suggestion ID is required")
		return
	}

	var req services.AddCommentRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	identity := h.resolver.Resolve(r.Context())

	comment, err := h.suggestionService.AddComment(r.Context(), identity, id, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, comment)
}

// RecountVotes re-derives the vote counter from the ledger (board owner
// only)
// POST /api/suggestions/{id}/recount
func (h *SuggestionHandler) RecountVotes(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "suggestion ID is required")
		return
	}

	identity := h.resolver.Resolve(r.Context())

	count, err := h.suggestionService.Recount(r.Context(), identity, id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]int{"vote_count": count})
}
