package models

import (
	"time"
)

// Vote is one live ledger row: at most one per (identity, suggestion)
// pair. Exactly one of AccountID or SessionID is set; the two columns
// carry independent uniqueness constraints in the store.
type Vote struct {
	ID           string    `json:"id" db:"id"`
	SuggestionID string    `json:"suggestion_id" db:"suggestion_id"`
	AccountID    *string   `json:"account_id,omitempty" db:"account_id"`
	SessionID    *string   `json:"session_id,omitempty" db:"session_id"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// NewVote builds a ledger row for the given voter and suggestion.
func NewVote(identity Identity, suggestionID string) *Vote {
	v := &Vote{
		SuggestionID: suggestionID,
		CreatedAt:    time.Now(),
	}
	if identity.IsAccount() {
		v.AccountID = &identity.AccountID
	} else {
		v.SessionID = &identity.SessionID
	}
	return v
}

// VoteResult is the outcome of a toggle: whether the identity now has a
// live vote, and the post-update denormalized count.
type VoteResult struct {
	Voted     bool `json:"voted"`
	VoteCount int  `json:"vote_count"`
}
