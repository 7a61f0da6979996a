package services

import (
	"context"

	"voxpop/internal/domain/models"
)

// VoteService is the vote ledger: one live vote per (identity,
// suggestion), toggled idempotently.
type VoteService interface {
	// Toggle flips the identity's vote on a suggestion and returns the
	// new state with the post-update counter. A lost duplicate-insert
	// race is recovered internally by re-reading current state; callers
	// never see a conflict error.
	Toggle(ctx context.Context, identity models.Identity, suggestionID string) (*models.VoteResult, error)
}
