package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"voxpop/internal/domain"
	"voxpop/internal/domain/models"
	"voxpop/internal/domain/repositories"
)

// PostgresRoadmapRepository implements the RoadmapRepository interface
type PostgresRoadmapRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewRoadmapRepository creates a new roadmap repository
func NewRoadmapRepository(config *RepositoryConfig) repositories.RoadmapRepository {
	return &PostgresRoadmapRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

const roadmapColumns = `id, board_id, suggestion_id, title, description, status, priority,
		item_type, suggestion_vote_count, estimated_release_date, created_at, updated_at`

func scanRoadmapItem(row interface{ Scan(dest ...any) error }, item *models.RoadmapItem) error {
	return row.Scan(
		&item.ID,
		&item.BoardID,
		&item.SuggestionID,
		&item.Title,
		&item.Description,
		&item.Status,
		&item.Priority,
		&item.Type,
		&item.SuggestionVoteCount,
		&item.EstimatedReleaseDate,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
}

// Create creates a new roadmap item
func (r *PostgresRoadmapRepository) Create(ctx context.Context, item *models.RoadmapItem) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (board_id, suggestion_id, title, description, status, priority,
			item_type, suggestion_vote_count, estimated_release_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at
	`, r.tables.RoadmapItems)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		item.BoardID,
		item.SuggestionID,
		item.Title,
		item.Description,
		item.Status,
		item.Priority,
		item.Type,
		item.SuggestionVoteCount,
		item.EstimatedReleaseDate,
		item.CreatedAt,
		item.UpdatedAt,
	).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)

	if err != nil {
		if IsPgForeignKeyError(err) {
			return fmt.Errorf("board %s: %w", item.BoardID, domain.ErrNotFound)
		}
		return fmt.Errorf("create roadmap item: %w", err)
	}

	return nil
}

// GetByID retrieves a roadmap item scoped to its board
func (r *PostgresRoadmapRepository) GetByID(ctx context.Context, id, boardID string) (*models.RoadmapItem, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1 AND board_id = $2
	`, roadmapColumns, r.tables.RoadmapItems)

	var item models.RoadmapItem
	executor := GetExecutor(ctx, r.pool)
	err := scanRoadmapItem(executor.QueryRow(ctx, query, id, boardID), &item)

	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("roadmap item %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get roadmap item: %w", err)
	}

	return &item, nil
}

// ListByBoard retrieves a board's roadmap items, release date ascending
// (undated items last), then newest first
func (r *PostgresRoadmapRepository) ListByBoard(ctx context.Context, boardID string) ([]models.RoadmapItem, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE board_id = $1
		ORDER BY estimated_release_date ASC NULLS LAST, created_at DESC
	`, roadmapColumns, r.tables.RoadmapItems)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, boardID)
	if err != nil {
		return nil, fmt.Errorf("list roadmap items: %w", err)
	}
	defer rows.Close()

	var items []models.RoadmapItem
	for rows.Next() {
		var item models.RoadmapItem
		if err := scanRoadmapItem(rows, &item); err != nil {
			return nil, fmt.Errorf("scan roadmap item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate roadmap items: %w", err)
	}

	if items == nil {
		items = []models.RoadmapItem{}
	}

	return items, nil
}

// Update updates a roadmap item's mutable fields. The vote snapshot
// column is never touched.
func (r *PostgresRoadmapRepository) Update(ctx context.Context, item *models.RoadmapItem) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET title = $1, description = $2, status = $3, priority = $4, item_type = $5,
			estimated_release_date = $6, updated_at = $7
		WHERE id = $8 AND board_id = $9
	`, r.tables.RoadmapItems)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query,
		item.Title,
		item.Description,
		item.Status,
		item.Priority,
		item.Type,
		item.EstimatedReleaseDate,
		item.UpdatedAt,
		item.ID,
		item.BoardID,
	)

	if err != nil {
		return fmt.Errorf("update roadmap item: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("roadmap item %s: %w", item.ID, domain.ErrNotFound)
	}

	return nil
}

// DeleteByID removes a roadmap item by filter; absent rows are a no-op
func (r *PostgresRoadmapRepository) DeleteByID(ctx context.Context, id, boardID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1 AND board_id = $2`, r.tables.RoadmapItems)

	executor := GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, id, boardID); err != nil {
		return fmt.Errorf("delete roadmap item: %w", err)
	}

	return nil
}

// DeleteByBoard removes all roadmap items on a board; absent rows are a
// no-op
func (r *PostgresRoadmapRepository) DeleteByBoard(ctx context.Context, boardID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE board_id = $1`, r.tables.RoadmapItems)

	executor := GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, boardID); err != nil {
		return fmt.Errorf("delete roadmap items by board: %w", err)
	}

	return nil
}
