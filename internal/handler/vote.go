package handler

import (
	"log/slog"
	"net/http"

	"voxpop/internal/domain/services"
	"voxpop/internal/httputil"
)

// VoteHandler handles vote HTTP requests
type VoteHandler struct {
	voteService services.VoteService
	resolver    services.IdentityResolver
	logger      *slog.Logger
}

// NewVoteHandler creates a new vote handler
func NewVoteHandler(voteService services.VoteService, resolver services.IdentityResolver, logger *slog.Logger) *VoteHandler {
	return &VoteHandler{
		voteService: voteService,
		resolver:    resolver,
		logger:      logger,
	}
}

// ToggleVote flips the caller's vote on a suggestion. The response
// carries the resulting vote state and the post-update counter, so a
// toggle that lost a race still answers with accurate current state.
// POST /api/suggestions/{id}/vote
func (h *VoteHandler) ToggleVote(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "suggestion ID is required")
		return
	}

	identity := h.resolver.Resolve(r.Context())

	result, err := h.voteService.Toggle(r.Context(), identity, id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}
