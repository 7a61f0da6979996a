package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"voxpop/internal/domain/services"
	"voxpop/internal/events"
	"voxpop/internal/httputil"
)

// keepaliveInterval is how often an SSE comment is sent to hold idle
// connections open through proxies.
const keepaliveInterval = 15 * time.Second

// EventsHandler streams vote events over Server-Sent Events
type EventsHandler struct {
	boardService services.BoardService
	broker       *events.Broker
	resolver     services.IdentityResolver
	logger       *slog.Logger
}

// NewEventsHandler creates a new events handler
func NewEventsHandler(
	boardService services.BoardService,
	broker *events.Broker,
	resolver services.IdentityResolver,
	logger *slog.Logger,
) *EventsHandler {
	return &EventsHandler{
		boardService: boardService,
		broker:       broker,
		resolver:     resolver,
		logger:       logger,
	}
}

// StreamVotes streams a board's vote events via SSE
// GET /api/boards/{id}/events
func (h *EventsHandler) StreamVotes(w http.ResponseWriter, r *http.Request) {
	boardID := r.PathValue("id")
	if boardID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "board ID is required")
		return
	}

	identity := h.resolver.Resolve(r.Context())

	// The view policy gates the stream the same way it gates reads.
	if _, err := h.boardService.GetBoard(r.Context(), boardID, identity); err != nil {
		handleError(w, err)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		httputil.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	eventChan, cancel := h.broker.Subscribe(boardID)
	defer cancel()

	h.logger.Debug("SSE stream established", "board_id", boardID)

	ticker := time.NewTicker(keepaliveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			h.logger.Debug("SSE client disconnected", "board_id", boardID)
			return

		case event, ok := <-eventChan:
			if !ok {
				return
			}
			payload, err := json.Marshal(event)
			if err != nil {
				h.logger.Error("failed to encode vote event", "error", err)
				continue
			}
			fmt.Fprintf(w, "event: vote\ndata: %s\n\n", payload)
			flusher.Flush()

		case <-ticker.C:
			fmt.Fprintf(w, ": keepalive\n\n")
			flusher.Flush()
		}
	}
}
