package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"voxpop/internal/domain"
	"voxpop/internal/domain/models"
	"voxpop/internal/domain/repositories"
)

// PostgresVoteRepository implements the VoteRepository interface.
//
// Uniqueness of (identity, suggestion) is enforced by two partial unique
// indexes, one over (account_id, suggestion_id) and one over
// (session_id, suggestion_id). Account and session identifiers are
// separate namespaces and never share a key.
type PostgresVoteRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewVoteRepository creates a new vote repository
func NewVoteRepository(config *RepositoryConfig) repositories.VoteRepository {
	return &PostgresVoteRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// voterPredicate returns the WHERE fragment and argument matching the
// identity's uniqueness namespace. The placeholder index is fixed at $2
// with $1 reserved for suggestion_id.
func voterPredicate(identity models.Identity) (string, string) {
	if identity.IsAccount() {
		return "account_id = $2", identity.AccountID
	}
	return "session_id = $2", identity.SessionID
}

// Insert adds a ledger row. The unique index is the authority on
// duplicates: a concurrent insert racing past the caller's existence
// check surfaces here as a conflict, not a crash.
func (r *PostgresVoteRepository) Insert(ctx context.Context, vote *models.Vote) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (suggestion_id, account_id, session_id, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, r.tables.Votes)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		vote.SuggestionID,
		vote.AccountID,
		vote.SessionID,
		vote.CreatedAt,
	).Scan(&vote.ID, &vote.CreatedAt)

	if err != nil {
		if IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("vote already recorded for suggestion %s", vote.SuggestionID),
				ResourceType: "vote",
				ResourceID:   vote.SuggestionID,
			}
		}
		if IsPgForeignKeyError(err) {
			return fmt.Errorf("suggestion %s: %w", vote.SuggestionID, domain.ErrNotFound)
		}
		if IsPgUnavailableError(err) {
			return fmt.Errorf("insert vote: %w", domain.ErrUnavailable)
		}
		return fmt.Errorf("insert vote: %w", err)
	}

	return nil
}

// FindByVoter returns the live vote for (identity, suggestion)
func (r *PostgresVoteRepository) FindByVoter(ctx context.Context, identity models.Identity, suggestionID string) (*models.Vote, error) {
	predicate, arg := voterPredicate(identity)
	query := fmt.Sprintf(`
		SELECT id, suggestion_id, account_id, session_id, created_at
		FROM %s
		WHERE suggestion_id = $1 AND %s
	`, r.tables.Votes, predicate)

	var vote models.Vote
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, suggestionID, arg).Scan(
		&vote.ID,
		&vote.SuggestionID,
		&vote.AccountID,
		&vote.SessionID,
		&vote.CreatedAt,
	)

	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("vote for suggestion %s: %w", suggestionID, domain.ErrNotFound)
		}
		if IsPgUnavailableError(err) {
			return nil, fmt.Errorf("find vote: %w", domain.ErrUnavailable)
		}
		return nil, fmt.Errorf("find vote: %w", err)
	}

	return &vote, nil
}

// DeleteByVoter removes the live vote for (identity, suggestion) by
// filter and reports how many rows went away. Zero rows is not an
// error; the un-vote path treats it as already-removed.
func (r *PostgresVoteRepository) DeleteByVoter(ctx context.Context, identity models.Identity, suggestionID string) (int, error) {
	predicate, arg := voterPredicate(identity)
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE suggestion_id = $1 AND %s
	`, r.tables.Votes, predicate)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, suggestionID, arg)
	if err != nil {
		if IsPgUnavailableError(err) {
			return 0, fmt.Errorf("delete vote: %w", domain.ErrUnavailable)
		}
		return 0, fmt.Errorf("delete vote: %w", err)
	}

	return int(result.RowsAffected()), nil
}

// CountBySuggestion counts live ledger rows for one suggestion
func (r *PostgresVoteRepository) CountBySuggestion(ctx context.Context, suggestionID string) (int, error) {
	query := fmt.Sprintf(`
		SELECT COUNT(*) FROM %s WHERE suggestion_id = $1
	`, r.tables.Votes)

	var count int
	executor := GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, suggestionID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count votes: %w", err)
	}

	return count, nil
}

// RecentCounts returns per-suggestion windowed vote counts for a board
func (r *PostgresVoteRepository) RecentCounts(ctx context.Context, boardID string, since time.Time) (map[string]int, error) {
	query := fmt.Sprintf(`
		SELECT v.suggestion_id, COUNT(*)
		FROM %s v
		JOIN %s s ON s.id = v.suggestion_id
		WHERE s.board_id = $1 AND v.created_at >= $2
		GROUP BY v.suggestion_id
	`, r.tables.Votes, r.tables.Suggestions)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, boardID, since)
	if err != nil {
		return nil, fmt.Errorf("recent vote counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var suggestionID string
		var count int
		if err := rows.Scan(&suggestionID, &count); err != nil {
			return nil, fmt.Errorf("scan recent vote count: %w", err)
		}
		counts[suggestionID] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recent vote counts: %w", err)
	}

	return counts, nil
}

// VotedSuggestionIDs performs the batched has-voted lookup for a result
// set: one query regardless of how many suggestions are displayed.
func (r *PostgresVoteRepository) VotedSuggestionIDs(ctx context.Context, identity models.Identity, suggestionIDs []string) (map[string]bool, error) {
	if len(suggestionIDs) == 0 {
		return map[string]bool{}, nil
	}

	var predicate, arg string
	if identity.IsAccount() {
		predicate, arg = "account_id = $2", identity.AccountID
	} else {
		predicate, arg = "session_id = $2", identity.SessionID
	}

	query := fmt.Sprintf(`
		SELECT suggestion_id
		FROM %s
		WHERE suggestion_id = ANY($1) AND %s
	`, r.tables.Votes, predicate)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, suggestionIDs, arg)
	if err != nil {
		return nil, fmt.Errorf("voted suggestion ids: %w", err)
	}
	defer rows.Close()

	voted := make(map[string]bool)
	for rows.Next() {
		var suggestionID string
		if err := rows.Scan(&suggestionID); err != nil {
			return nil, fmt.Errorf("scan voted suggestion id: %w", err)
		}
		voted[suggestionID] = true
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate voted suggestion ids: %w", err)
	}

	return voted, nil
}

// DeleteBySuggestion removes all votes for a suggestion; absent rows are
// a no-op.
func (r *PostgresVoteRepository) DeleteBySuggestion(ctx context.Context, suggestionID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE suggestion_id = $1`, r.tables.Votes)

	executor := GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, suggestionID); err != nil {
		return fmt.Errorf("delete votes by suggestion: %w", err)
	}

	return nil
}

// DeleteByBoard removes all votes on a board's suggestions; absent rows
// are a no-op.
func (r *PostgresVoteRepository) DeleteByBoard(ctx context.Context, boardID string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE suggestion_id IN (SELECT id FROM %s WHERE board_id = $1)
	`, r.tables.Votes, r.tables.Suggestions)

	executor := GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, boardID); err != nil {
		return fmt.Errorf("delete votes by board: %w", err)
	}

	return nil
}
