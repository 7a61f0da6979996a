package repositories

import (
	"context"

	"voxpop/internal/domain/models"
)

// RoadmapRepository persists roadmap items.
type RoadmapRepository interface {
	Create(ctx context.Context, item *models.RoadmapItem) error
	GetByID(ctx context.Context, id, boardID string) (*models.RoadmapItem, error)

	// ListByBoard returns items ordered by estimated release date
	// ascending (nulls last), then created_at descending.
	ListByBoard(ctx context.Context, boardID string) ([]models.RoadmapItem, error)

	Update(ctx context.Context, item *models.RoadmapItem) error

	// DeleteByID and DeleteByBoard are filter-based and idempotent.
	DeleteByID(ctx context.Context, id, boardID string) error
	DeleteByBoard(ctx context.Context, boardID string) error
}
