package models

import (
	"time"
)

// Board is a feedback-collection surface owned by one account. The owner
// is immutable after creation; visibility flags are mutable only by the
// owner.
type Board struct {
	ID                     string    `json:"id" db:"id"`
	OwnerID                string    `json:"owner_id" db:"owner_id"`
	Name                   string    `json:"name" db:"name"`
	Description            string    `json:"description" db:"description"`
	IsPublic               bool      `json:"is_public" db:"is_public"`
	AllowAnonymousVotes    bool      `json:"allow_anonymous_votes" db:"allow_anonymous_votes"`
	AllowPublicSubmissions bool      `json:"allow_public_submissions" db:"allow_public_submissions"`
	RoadmapEnabled         bool      `json:"roadmap_enabled" db:"roadmap_enabled"`
	HeaderColor            *string   `json:"header_color,omitempty" db:"header_color"`
	ButtonColor            *string   `json:"button_color,omitempty" db:"button_color"`
	CreatedAt              time.Time `json:"created_at" db:"created_at"`
	UpdatedAt              time.Time `json:"updated_at" db:"updated_at"`
}
