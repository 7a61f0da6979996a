package repositories

import (
	"context"

	"voxpop/internal/domain/models"
)

// BoardRepository persists feedback boards.
type BoardRepository interface {
	Create(ctx context.Context, board *models.Board) error
	GetByID(ctx context.Context, id string) (*models.Board, error)
	ListByOwner(ctx context.Context, ownerID string) ([]models.Board, error)
	Update(ctx context.Context, board *models.Board) error

	// Delete removes the board row itself. Dependent rows (votes,
	// suggestions, roadmap items) are removed first by the service-level
	// cascade; Delete is filter-based and idempotent: deleting an absent
	// board is not an error.
	Delete(ctx context.Context, id string) error
}
