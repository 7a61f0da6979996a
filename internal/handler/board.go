package handler

import (
	"log/slog"
	"net/http"

	"voxpop/internal/domain/services"
	"voxpop/internal/httputil"
)

// BoardHandler handles board HTTP requests
type BoardHandler struct {
	boardService services.BoardService
	resolver     services.IdentityResolver
	logger       *slog.Logger
}

// NewBoardHandler creates a new board handler
func NewBoardHandler(boardService services.BoardService, resolver services.IdentityResolver, logger *slog.Logger) *BoardHandler {
	return &BoardHandler{
		boardService: boardService,
		resolver:     resolver,
		logger:       logger,
	}
}

// CreateBoard creates a new board owned by the authenticated account
// POST /api/boards
func (h *BoardHandler) CreateBoard(w http.ResponseWriter, r *http.Request) {
	accountID, ok := requireAccountID(w, r)
	if !ok {
		return
	}

	var req services.CreateBoardRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.OwnerID = accountID

	board, err := h.boardService.CreateBoard(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, board)
}

// ListBoards lists the authenticated account's boards
// GET /api/boards
func (h *BoardHandler) ListBoards(w http.ResponseWriter, r *http.Request) {
	accountID, ok := requireAccountID(w, r)
	if !ok {
		return
	}

	boards, err := h.boardService.ListBoards(r.Context(), accountID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, boards)
}

// GetBoard retrieves a board by ID
// GET /api/boards/{id}
func (h *BoardHandler) GetBoard(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "board ID is required")
		return
	}

	identity := h.resolver.Resolve(r.Context())

	board, err := h.boardService.GetBoard(r.Context(), id, identity)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, board)
}

// UpdateBoard updates a board's settings (owner only)
// PATCH /api/boards/{id}
func (h *BoardHandler) UpdateBoard(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "board ID is required")
		return
	}

	var req services.UpdateBoardRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	identity := h.resolver.Resolve(r.Context())

	board, err := h.boardService.UpdateBoard(r.Context(), id, identity, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, board)
}

// DeleteBoard deletes a board and everything on it (owner only)
// DELETE /api/boards/{id}
func (h *BoardHandler) DeleteBoard(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "board ID is required")
		return
	}

	identity := h.resolver.Resolve(r.Context())

	if err := h.boardService.DeleteBoard(r.Context(), id, identity); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
