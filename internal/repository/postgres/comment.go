package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"voxpop/internal/domain"
	"voxpop/internal/domain/models"
	"voxpop/internal/domain/repositories"
)

// PostgresCommentRepository implements the CommentRepository interface
type PostgresCommentRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(config *RepositoryConfig) repositories.CommentRepository {
	return &PostgresCommentRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create creates a new comment
func (r *PostgresCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (suggestion_id, author_account_id, author_session_id, body, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, r.tables.Comments)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		comment.SuggestionID,
		comment.AuthorAccountID,
		comment.AuthorSessionID,
		comment.Body,
		comment.CreatedAt,
	).Scan(&comment.ID, &comment.CreatedAt)

	if err != nil {
		if IsPgForeignKeyError(err) {
			return fmt.Errorf("suggestion %s: %w", comment.SuggestionID, domain.ErrNotFound)
		}
		return fmt.Errorf("create comment: %w", err)
	}

	return nil
}

// ListBySuggestion retrieves a suggestion's comments, oldest first
func (r *PostgresCommentRepository) ListBySuggestion(ctx context.Context, suggestionID string) ([]models.Comment, error) {
	query := fmt.Sprintf(`
		SELECT id, suggestion_id, author_account_id, author_session_id, body, created_at
		FROM %s
		WHERE suggestion_id = $1
		ORDER BY created_at ASC
	`, r.tables.Comments)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, suggestionID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	var comments []models.Comment
	for rows.Next() {
		var comment models.Comment
		err := rows.Scan(
			&comment.ID,
			&comment.SuggestionID,
			&comment.AuthorAccountID,
			&comment.AuthorSessionID,
			&comment.Body,
			&comment.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, comment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate comments: %w", err)
	}

	if comments == nil {
		comments = []models.Comment{}
	}

	return comments, nil
}

// DeleteBySuggestion removes all comments on a suggestion; absent rows
// are a no-op.
func (r *PostgresCommentRepository) DeleteBySuggestion(ctx context.Context, suggestionID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE suggestion_id = $1`, r.tables.Comments)

	executor := GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, suggestionID); err != nil {
		return fmt.Errorf("delete comments by suggestion: %w", err)
	}

	return nil
}

// DeleteByBoard removes all comments on a board's suggestions; absent
// rows are a no-op.
func (r *PostgresCommentRepository) DeleteByBoard(ctx context.Context, boardID string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE suggestion_id IN (SELECT id FROM %s WHERE board_id = $1)
	`, r.tables.Comments, r.tables.Suggestions)

	executor := GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, boardID); err != nil {
		return fmt.Errorf("delete comments by board: %w", err)
	}

	return nil
}
