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

// PostgresSuggestionRepository implements the SuggestionRepository
// interface. It is the only writer of the denormalized vote_count
// column.
type PostgresSuggestionRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewSuggestionRepository creates a new suggestion repository
func NewSuggestionRepository(config *RepositoryConfig) repositories.SuggestionRepository {
	return &PostgresSuggestionRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

const suggestionColumns = `id, board_id, author_account_id, author_session_id, title,
		description, category, status, vote_count, created_at, updated_at`

func scanSuggestion(row interface{ Scan(dest ...any) error }, s *models.Suggestion) error {
	return row.Scan(
		&s.ID,
		&s.BoardID,
		&s.AuthorAccountID,
		&s.AuthorSessionID,
		&s.Title,
		&s.Description,
		&s.Category,
		&s.Status,
		&s.VoteCount,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
}

// Create creates a new suggestion with a zero vote count
func (r *PostgresSuggestionRepository) Create(ctx context.Context, suggestion *models.Suggestion) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (board_id, author_account_id, author_session_id, title,
			description, category, status, vote_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 0, $8, $9)
		RETURNING id, vote_count, created_at, updated_at
	`, r.tables.Suggestions)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		suggestion.BoardID,
		suggestion.AuthorAccountID,
		suggestion.AuthorSessionID,
		suggestion.Title,
		suggestion.Description,
		suggestion.Category,
		suggestion.Status,
		suggestion.CreatedAt,
		suggestion.UpdatedAt,
	).Scan(&suggestion.ID, &suggestion.VoteCount, &suggestion.CreatedAt, &suggestion.UpdatedAt)

	if err != nil {
		if IsPgForeignKeyError(err) {
			return fmt.Errorf("board %s: %w", suggestion.BoardID, domain.ErrNotFound)
		}
		if IsPgUnavailableError(err) {
			return fmt.Errorf("create suggestion: %w", domain.ErrUnavailable)
		}
		return fmt.Errorf("create suggestion: %w", err)
	}

	return nil
}

// GetByID retrieves a suggestion by ID
func (r *PostgresSuggestionRepository) GetByID(ctx context.Context, id string) (*models.Suggestion, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1
	`, suggestionColumns, r.tables.Suggestions)

	var suggestion models.Suggestion
	executor := GetExecutor(ctx, r.pool)
	err := scanSuggestion(executor.QueryRow(ctx, query, id), &suggestion)

	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("suggestion %s: %w", id, domain.ErrNotFound)
		}
		if IsPgUnavailableError(err) {
			return nil, fmt.Errorf("get suggestion: %w", domain.ErrUnavailable)
		}
		return nil, fmt.Errorf("get suggestion: %w", err)
	}

	return &suggestion, nil
}

// ListByBoard retrieves all suggestions on a board, unordered
func (r *PostgresSuggestionRepository) ListByBoard(ctx context.Context, boardID string) ([]models.Suggestion, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE board_id = $1
	`, suggestionColumns, r.tables.Suggestions)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, boardID)
	if err != nil {
		return nil, fmt.Errorf("list suggestions: %w", err)
	}
	defer rows.Close()

	var suggestions []models.Suggestion
	for rows.Next() {
		var suggestion models.Suggestion
		if err := scanSuggestion(rows, &suggestion); err != nil {
			return nil, fmt.Errorf("scan suggestion: %w", err)
		}
		suggestions = append(suggestions, suggestion)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate suggestions: %w", err)
	}

	if suggestions == nil {
		suggestions = []models.Suggestion{}
	}

	return suggestions, nil
}

// UpdateTriage updates a suggestion's status and category
func (r *PostgresSuggestionRepository) UpdateTriage(ctx context.Context, id string, status models.SuggestionStatus, category string, updatedAt time.Time) (*models.Suggestion, error) {
	query := fmt.Sprintf(`
		UPDATE %s
		SET status = $1, category = $2, updated_at = $3
		WHERE id = $4
		RETURNING %s
	`, r.tables.Suggestions, suggestionColumns)

	var suggestion models.Suggestion
	executor := GetExecutor(ctx, r.pool)
	err := scanSuggestion(executor.QueryRow(ctx, query, status, category, updatedAt, id), &suggestion)

	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("suggestion %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("update suggestion triage: %w", err)
	}

	return &suggestion, nil
}

// ApplyVoteDelta atomically adjusts the denormalized counter in the
// database, clamped at zero. The increment happens in the UPDATE itself,
// never via an application-level read-modify-write, so concurrent
// toggles from different identities cannot lose updates.
func (r *PostgresSuggestionRepository) ApplyVoteDelta(ctx context.Context, id string, delta int) (int, error) {
	query := fmt.Sprintf(`
		UPDATE %s
		SET vote_count = GREATEST(vote_count + $1, 0), updated_at = NOW()
		WHERE id = $2
		RETURNING vote_count
	`, r.tables.Suggestions)

	var count int
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, delta, id).Scan(&count)

	if err != nil {
		if IsPgNoRowsError(err) {
			return 0, fmt.Errorf("suggestion %s: %w", id, domain.ErrNotFound)
		}
		if IsPgUnavailableError(err) {
			return 0, fmt.Errorf("apply vote delta: %w", domain.ErrUnavailable)
		}
		return 0, fmt.Errorf("apply vote delta: %w", err)
	}

	return count, nil
}

// Recount re-derives vote_count from the ledger. Trusts only the live
// vote rows, never the cached counter.
func (r *PostgresSuggestionRepository) Recount(ctx context.Context, id string) (int, error) {
	query := fmt.Sprintf(`
		UPDATE %s
		SET vote_count = (SELECT COUNT(*) FROM %s WHERE suggestion_id = $1), updated_at = NOW()
		WHERE id = $1
		RETURNING vote_count
	`, r.tables.Suggestions, r.tables.Votes)

	var count int
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, id).Scan(&count)

	if err != nil {
		if IsPgNoRowsError(err) {
			return 0, fmt.Errorf("suggestion %s: %w", id, domain.ErrNotFound)
		}
		return 0, fmt.Errorf("recount suggestion: %w", err)
	}

	return count, nil
}

// DeleteByID removes a suggestion row by filter; absent rows are a
// no-op.
func (r *PostgresSuggestionRepository) DeleteByID(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Suggestions)

	executor := GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("delete suggestion: %w", err)
	}

	return nil
}

// DeleteByBoard removes all suggestions on a board; absent rows are a
// no-op.
func (r *PostgresSuggestionRepository) DeleteByBoard(ctx context.Context, boardID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE board_id = $1`, r.tables.Suggestions)

	executor := GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, boardID); err != nil {
		return fmt.Errorf("delete suggestions by board: %w", err)
	}

	return nil
}
