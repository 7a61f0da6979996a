package models

import (
	"time"
)

// Comment is a flat discussion entry on a suggestion.
type Comment struct {
	ID              string    `json:"id" db:"id"`
	SuggestionID    string    `json:"suggestion_id" db:"suggestion_id"`
	AuthorAccountID *string   `json:"author_account_id,omitempty" db:"author_account_id"`
	AuthorSessionID *string   `json:"author_session_id,omitempty" db:"author_session_id"`
	Body            string    `json:"body" db:"body"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}
