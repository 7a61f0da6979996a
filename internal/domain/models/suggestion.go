package models

import (
	"time"
)

// SuggestionStatus is the triage state of a suggestion.
type SuggestionStatus string

const (
	StatusPending    SuggestionStatus = "pending"
	StatusInProgress SuggestionStatus = "in-progress"
	StatusCompleted  SuggestionStatus = "completed"
	StatusRejected   SuggestionStatus = "rejected"
)

// Valid reports whether the status is one of the known triage states.
func (s SuggestionStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusRejected:
		return true
	}
	return false
}

// Suggestion is a single feedback item submitted to a board.
//
// VoteCount is denormalized from the vote ledger: it must equal the number
// of live vote rows referencing this suggestion after any vote-mutating
// operation completes. It is mutated only through the ledger's apply step
// (or re-derived by Recount), never set directly.
type Suggestion struct {
	ID              string           `json:"id" db:"id"`
	BoardID         string           `json:"board_id" db:"board_id"`
	AuthorAccountID *string          `json:"author_account_id,omitempty" db:"author_account_id"`
	AuthorSessionID *string          `json:"author_session_id,omitempty" db:"author_session_id"`
	Title           string           `json:"title" db:"title"`
	Description     string           `json:"description" db:"description"`
	Category        string           `json:"category" db:"category"`
	Status          SuggestionStatus `json:"status" db:"status"`
	VoteCount       int              `json:"vote_count" db:"vote_count"`
	CreatedAt       time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at" db:"updated_at"`
}

// SetAuthor records the submitting identity. Anonymous submissions keep
// the session ID so authors can be shown their own items.
func (s *Suggestion) SetAuthor(identity Identity) {
	if identity.IsAccount() {
		s.AuthorAccountID = &identity.AccountID
	} else {
		s.AuthorSessionID = &identity.SessionID
	}
}

// RankedSuggestion is a suggestion annotated for a specific requesting
// identity, as produced by the ranking engine.
type RankedSuggestion struct {
	Suggestion
	HasVoted    bool `json:"has_voted"`
	RecentVotes int  `json:"recent_votes,omitempty"`
}
