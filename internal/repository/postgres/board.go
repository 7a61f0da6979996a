package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"voxpop/internal/domain"
	"voxpop/internal/domain/models"
	"voxpop/internal/domain/repositories"
)

// PostgresBoardRepository implements the BoardRepository interface
type PostgresBoardRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewBoardRepository creates a new board repository
func NewBoardRepository(config *RepositoryConfig) repositories.BoardRepository {
	return &PostgresBoardRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

const boardColumns = `id, owner_id, name, description, is_public, allow_anonymous_votes,
		allow_public_submissions, roadmap_enabled, header_color, button_color, created_at, updated_at`

func scanBoard(row interface{ Scan(dest ...any) error }, b *models.Board) error {
	return row.Scan(
		&b.ID,
		&b.OwnerID,
		&b.Name,
		&b.Description,
		&b.IsPublic,
		&b.AllowAnonymousVotes,
		&b.AllowPublicSubmissions,
		&b.RoadmapEnabled,
		&b.HeaderColor,
		&b.ButtonColor,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
}

// Create creates a new board
func (r *PostgresBoardRepository) Create(ctx context.Context, board *models.Board) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (owner_id, name, description, is_public, allow_anonymous_votes,
			allow_public_submissions, roadmap_enabled, header_color, button_color, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at
	`, r.tables.Boards)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		board.OwnerID,
		board.Name,
		board.Description,
		board.IsPublic,
		board.AllowAnonymousVotes,
		board.AllowPublicSubmissions,
		board.RoadmapEnabled,
		board.HeaderColor,
		board.ButtonColor,
		board.CreatedAt,
		board.UpdatedAt,
	).Scan(&board.ID, &board.CreatedAt, &board.UpdatedAt)

	if err != nil {
		if IsPgUnavailableError(err) {
			return fmt.Errorf("create board: %w", domain.ErrUnavailable)
		}
		return fmt.Errorf("create board: %w", err)
	}

	return nil
}

// GetByID retrieves a board by ID
func (r *PostgresBoardRepository) GetByID(ctx context.Context, id string) (*models.Board, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1
	`, boardColumns, r.tables.Boards)

	var board models.Board
	executor := GetExecutor(ctx, r.pool)
	err := scanBoard(executor.QueryRow(ctx, query, id), &board)

	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("board %s: %w", id, domain.ErrNotFound)
		}
		if IsPgUnavailableError(err) {
			return nil, fmt.Errorf("get board: %w", domain.ErrUnavailable)
		}
		return nil, fmt.Errorf("get board: %w", err)
	}

	return &board, nil
}

// ListByOwner retrieves all boards owned by an account, newest first
func (r *PostgresBoardRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Board, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`, boardColumns, r.tables.Boards)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list boards: %w", err)
	}
	defer rows.Close()

	var boards []models.Board
	for rows.Next() {
		var board models.Board
		if err := scanBoard(rows, &board); err != nil {
			return nil, fmt.Errorf("scan board: %w", err)
		}
		boards = append(boards, board)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate boards: %w", err)
	}

	// Return empty slice instead of nil if no boards
	if boards == nil {
		boards = []models.Board{}
	}

	return boards, nil
}

// Update updates a board's mutable fields. The owner column is never
// touched.
func (r *PostgresBoardRepository) Update(ctx context.Context, board *models.Board) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $1, description = $2, is_public = $3, allow_anonymous_votes = $4,
			allow_public_submissions = $5, roadmap_enabled = $6, header_color = $7,
			button_color = $8, updated_at = $9
		WHERE id = $10
	`, r.tables.Boards)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query,
		board.Name,
		board.Description,
		board.IsPublic,
		board.AllowAnonymousVotes,
		board.AllowPublicSubmissions,
		board.RoadmapEnabled,
		board.HeaderColor,
		board.ButtonColor,
		board.UpdatedAt,
		board.ID,
	)

	if err != nil {
		if IsPgUnavailableError(err) {
			return fmt.Errorf("update board: %w", domain.ErrUnavailable)
		}
		return fmt.Errorf("update board: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("board %s: %w", board.ID, domain.ErrNotFound)
	}

	return nil
}

// Delete removes a board row by filter. Deleting an absent board is a
// no-op, which keeps the cascade re-runnable.
func (r *PostgresBoardRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Boards)

	executor := GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, id); err != nil {
		if IsPgUnavailableError(err) {
			return fmt.Errorf("delete board: %w", domain.ErrUnavailable)
		}
		return fmt.Errorf("delete board: %w", err)
	}

	return nil
}
