package repositories

import (
	"context"
	"time"

	"voxpop/internal/domain/models"
)

// SuggestionRepository persists suggestions and owns the denormalized
// vote counter.
type SuggestionRepository interface {
	Create(ctx context.Context, suggestion *models.Suggestion) error
	GetByID(ctx context.Context, id string) (*models.Suggestion, error)

	// ListByBoard returns all suggestions on a board, unordered; the
	// ranking engine applies ordering.
	ListByBoard(ctx context.Context, boardID string) ([]models.Suggestion, error)

	UpdateTriage(ctx context.Context, id string, status models.SuggestionStatus, category string, updatedAt time.Time) (*models.Suggestion, error)

	// ApplyVoteDelta atomically adjusts the denormalized counter, clamped
	// at a lower bound of 0, and returns the post-update value. Must be an
	// atomic increment on the stored field, never read-modify-write.
	ApplyVoteDelta(ctx context.Context, id string, delta int) (int, error)

	// Recount re-derives the counter from the vote ledger and returns the
	// corrected value. Administrative correction tooling only.
	Recount(ctx context.Context, id string) (int, error)

	// DeleteByID and DeleteByBoard are filter-based and idempotent.
	DeleteByID(ctx context.Context, id string) error
	DeleteByBoard(ctx context.Context, boardID string) error
}
