package services

import (
	"context"

	"voxpop/internal/domain/models"
)

// CreateBoardRequest carries the fields for creating a board. OwnerID is
// filled in by the handler from the authenticated identity.
type CreateBoardRequest struct {
	OwnerID                string  `json:"-"`
	Name                   string  `json:"name"`
	Description            string  `json:"description"`
	IsPublic               bool    `json:"is_public"`
	AllowAnonymousVotes    bool    `json:"allow_anonymous_votes"`
	AllowPublicSubmissions bool    `json:"allow_public_submissions"`
	RoadmapEnabled         bool    `json:"roadmap_enabled"`
	HeaderColor            *string `json:"header_color,omitempty"`
	ButtonColor            *string `json:"button_color,omitempty"`
}

// UpdateBoardRequest carries a partial board update; nil fields are left
// unchanged. The owner is immutable and has no field here.
type UpdateBoardRequest struct {
	Name                   *string `json:"name,omitempty"`
	Description            *string `json:"description,omitempty"`
	IsPublic               *bool   `json:"is_public,omitempty"`
	AllowAnonymousVotes    *bool   `json:"allow_anonymous_votes,omitempty"`
	AllowPublicSubmissions *bool   `json:"allow_public_submissions,omitempty"`
	RoadmapEnabled         *bool   `json:"roadmap_enabled,omitempty"`
	HeaderColor            *string `json:"header_color,omitempty"`
	ButtonColor            *string `json:"button_color,omitempty"`
}

// BoardService manages feedback boards and their deletion cascades.
type BoardService interface {
	CreateBoard(ctx context.Context, req *CreateBoardRequest) (*models.Board, error)

	// GetBoard applies the visibility policy for the requesting identity.
	GetBoard(ctx context.Context, id string, identity models.Identity) (*models.Board, error)

	ListBoards(ctx context.Context, ownerID string) ([]models.Board, error)

	// UpdateBoard is owner-only.
	UpdateBoard(ctx context.Context, id string, identity models.Identity, req *UpdateBoardRequest) (*models.Board, error)

	// DeleteBoard is owner-only and cascades: votes, then comments, then
	// suggestions, then roadmap items, then the board. Re-running the
	// delete on an absent board is a no-op.
	DeleteBoard(ctx context.Context, id string, identity models.Identity) error
}
