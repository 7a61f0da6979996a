package repositories

import (
	"context"
	"time"

	"voxpop/internal/domain/models"
)

// VoteRepository is the append-only vote ledger. Uniqueness of
// (identity, suggestion) is enforced by the store via two independent
// constraints, one per identity kind; Insert returning a conflict is the
// authority, FindByVoter is only an optimization.
type VoteRepository interface {
	// Insert adds a ledger row. Returns an error matching
	// domain.ErrConflict when a concurrent duplicate won the race.
	Insert(ctx context.Context, vote *models.Vote) error

	// FindByVoter returns the live vote for (identity, suggestion), or a
	// domain.ErrNotFound-wrapped error when none exists.
	FindByVoter(ctx context.Context, identity models.Identity, suggestionID string) (*models.Vote, error)

	// DeleteByVoter removes the live vote for (identity, suggestion).
	// Returns the number of rows removed (0 or 1).
	DeleteByVoter(ctx context.Context, identity models.Identity, suggestionID string) (int, error)

	// CountBySuggestion counts live ledger rows for one suggestion.
	CountBySuggestion(ctx context.Context, suggestionID string) (int, error)

	// RecentCounts returns, per suggestion on the board, the number of
	// votes cast at or after the since instant. Suggestions with no recent
	// votes are absent from the map.
	RecentCounts(ctx context.Context, boardID string, since time.Time) (map[string]int, error)

	// VotedSuggestionIDs reports which of the given suggestions the
	// identity has live votes on, in one batched lookup.
	VotedSuggestionIDs(ctx context.Context, identity models.Identity, suggestionIDs []string) (map[string]bool, error)

	// DeleteBySuggestion and DeleteByBoard are filter-based and
	// idempotent; they anchor the ordered deletion cascades.
	DeleteBySuggestion(ctx context.Context, suggestionID string) error
	DeleteByBoard(ctx context.Context, boardID string) error
}
