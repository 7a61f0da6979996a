package services

import (
	"context"

	"voxpop/internal/domain/models"
)

// SubmitSuggestionRequest carries the fields for submitting a
// suggestion to a board.
type SubmitSuggestionRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// UpdateTriageRequest carries an owner triage update; nil fields are
// left unchanged.
type UpdateTriageRequest struct {
	Status   *models.SuggestionStatus `json:"status,omitempty"`
	Category *string                  `json:"category,omitempty"`
}

// AddCommentRequest carries a new comment body.
type AddCommentRequest struct {
	Body string `json:"body"`
}

// SuggestionDetail is a suggestion with its comment thread.
type SuggestionDetail struct {
	models.Suggestion
	Comments []models.Comment `json:"comments"`
}

// SuggestionService manages the suggestion lifecycle. Vote mutations go
// through VoteService, never through this interface.
type SuggestionService interface {
	// Submit applies the board's submission policy for the identity.
	Submit(ctx context.Context, identity models.Identity, boardID string, req *SubmitSuggestionRequest) (*models.Suggestion, error)

	// Get applies the view policy and includes comments.
	Get(ctx context.Context, identity models.Identity, id string) (*SuggestionDetail, error)

	// UpdateTriage (status/category) is board-owner-only.
	UpdateTriage(ctx context.Context, identity models.Identity, id string, req *UpdateTriageRequest) (*models.Suggestion, error)

	// Delete is board-owner-only and cascades votes and comments before
	// the suggestion row; re-running on an absent suggestion is a no-op.
	Delete(ctx context.Context, identity models.Identity, id string) error

	// AddComment requires the view policy.
	AddComment(ctx context.Context, identity models.Identity, id string, req *AddCommentRequest) (*models.Comment, error)

	// Recount re-derives the vote counter from the ledger. Board-owner
	// correction tooling; returns the corrected count.
	Recount(ctx context.Context, identity models.Identity, id string) (int, error)
}
