package services

import (
	"context"
	"time"

	"voxpop/internal/domain/models"
)

// CreateRoadmapItemRequest carries the fields for a new roadmap item.
// When SuggestionID is set, the suggestion's current vote count is
// snapshotted onto the item at creation time.
type CreateRoadmapItemRequest struct {
	Title                string                 `json:"title"`
	Description          string                 `json:"description"`
	Status               models.RoadmapStatus   `json:"status"`
	Priority             models.RoadmapPriority `json:"priority,omitempty"`
	Type                 models.RoadmapType     `json:"type,omitempty"`
	SuggestionID         *string                `json:"suggestion_id,omitempty"`
	EstimatedReleaseDate *time.Time             `json:"estimated_release_date,omitempty"`
}

// UpdateRoadmapItemRequest carries a partial roadmap item update; nil
// fields are left unchanged. The vote snapshot is immutable.
type UpdateRoadmapItemRequest struct {
	Title                *string                 `json:"title,omitempty"`
	Description          *string                 `json:"description,omitempty"`
	Status               *models.RoadmapStatus   `json:"status,omitempty"`
	Priority             *models.RoadmapPriority `json:"priority,omitempty"`
	Type                 *models.RoadmapType     `json:"type,omitempty"`
	EstimatedReleaseDate *time.Time              `json:"estimated_release_date,omitempty"`
}

// RoadmapService manages a board's public roadmap.
type RoadmapService interface {
	// GetRoadmap requires the board's roadmap to be enabled and the
	// identity to pass the view policy; items come back grouped by
	// status.
	GetRoadmap(ctx context.Context, identity models.Identity, boardID string) (*models.GroupedRoadmap, error)

	// CreateItem, UpdateItem and DeleteItem are board-owner-only.
	// DeleteItem is idempotent.
	CreateItem(ctx context.Context, identity models.Identity, boardID string, req *CreateRoadmapItemRequest) (*models.RoadmapItem, error)
	UpdateItem(ctx context.Context, identity models.Identity, boardID, itemID string, req *UpdateRoadmapItemRequest) (*models.RoadmapItem, error)
	DeleteItem(ctx context.Context, identity models.Identity, boardID, itemID string) error
}
