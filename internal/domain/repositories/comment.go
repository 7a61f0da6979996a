package repositories

import (
	"context"

	"voxpop/internal/domain/models"
)

// CommentRepository persists suggestion comments.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	ListBySuggestion(ctx context.Context, suggestionID string) ([]models.Comment, error)
	DeleteBySuggestion(ctx context.Context, suggestionID string) error
	DeleteByBoard(ctx context.Context, boardID string) error
}
