package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"voxpop/internal/config"
	"voxpop/internal/domain"
	"voxpop/internal/domain/models"
	"voxpop/internal/domain/repositories"
	"voxpop/internal/domain/services"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// boardService implements the BoardService interface
type boardService struct {
	boardRepo      repositories.BoardRepository
	suggestionRepo repositories.SuggestionRepository
	voteRepo       repositories.VoteRepository
	commentRepo    repositories.CommentRepository
	roadmapRepo    repositories.RoadmapRepository
	policy         services.VisibilityPolicy
	txManager      repositories.TransactionManager
	logger         *slog.Logger
}

// NewBoardService creates a new board service
func NewBoardService(
	boardRepo repositories.BoardRepository,
	suggestionRepo repositories.SuggestionRepository,
	voteRepo repositories.VoteRepository,
	commentRepo repositories.CommentRepository,
	roadmapRepo repositories.RoadmapRepository,
	policy services.VisibilityPolicy,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) services.BoardService {
	return &boardService{
		boardRepo:      boardRepo,
		suggestionRepo: suggestionRepo,
		voteRepo:       voteRepo,
		commentRepo:    commentRepo,
		roadmapRepo:    roadmapRepo,
		policy:         policy,
		txManager:      txManager,
		logger:         logger,
	}
}

// CreateBoard creates a new board owned by the requesting account
func (s *boardService) CreateBoard(ctx context.Context, req *services.CreateBoardRequest) (*models.Board, error) {
	if err := s.validateCreateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	now := time.Now()
	board := &models.Board{
		OwnerID:                req.OwnerID,
		Name:                   strings.TrimSpace(req.Name),
		Description:            strings.TrimSpace(req.Description),
		IsPublic:               req.IsPublic,
		AllowAnonymousVotes:    req.AllowAnonymousVotes,
		AllowPublicSubmissions: req.AllowPublicSubmissions,
		RoadmapEnabled:         req.RoadmapEnabled,
		HeaderColor:            req.HeaderColor,
		ButtonColor:            req.ButtonColor,
		CreatedAt:              now,
		UpdatedAt:              now,
	}

	if err := s.boardRepo.Create(ctx, board); err != nil {
		return nil, err
	}

	s.logger.Info("board created",
		"id", board.ID,
		"name", board.Name,
		"owner_id", board.OwnerID,
	)

	return board, nil
}

// GetBoard retrieves a board, applying the visibility policy
func (s *boardService) GetBoard(ctx context.Context, id string, identity models.Identity) (*models.Board, error) {
	board, err := s.boardRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !s.policy.CanView(identity, board) {
		return nil, fmt.Errorf("viewing board %s: %w", id, domain.ErrForbidden)
	}

	return board, nil
}

// ListBoards retrieves all boards owned by an account
func (s *boardService) ListBoards(ctx context.Context, ownerID string) ([]models.Board, error) {
	return s.boardRepo.ListByOwner(ctx, ownerID)
}

// UpdateBoard updates a board's mutable fields. Owner-only; the owner
// itself is immutable.
func (s *boardService) UpdateBoard(ctx context.Context, id string, identity models.Identity, req *services.UpdateBoardRequest) (*models.Board, error) {
	board, err := s.boardRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !identity.IsOwnerOf(board) {
		return nil, fmt.Errorf("updating board %s: %w", id, domain.ErrForbidden)
	}

	if req.Name != nil {
		board.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		board.Description = strings.TrimSpace(*req.Description)
	}
	if req.IsPublic != nil {
		board.IsPublic = *req.IsPublic
	}
	if req.AllowAnonymousVotes != nil {
		board.AllowAnonymousVotes = *req.AllowAnonymousVotes
	}
	if req.AllowPublicSubmissions != nil {
		board.AllowPublicSubmissions = *req.AllowPublicSubmissions
	}
	if req.RoadmapEnabled != nil {
		board.RoadmapEnabled = *req.RoadmapEnabled
	}
	if req.HeaderColor != nil {
		board.HeaderColor = req.HeaderColor
	}
	if req.ButtonColor != nil {
		board.ButtonColor = req.ButtonColor
	}

	if err := s.validateBoard(board); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	board.UpdatedAt = time.Now()

	if err := s.boardRepo.Update(ctx, board); err != nil {
		return nil, err
	}

	s.logger.Info("board updated",
		"id", board.ID,
		"owner_id", board.OwnerID,
	)

	return board, nil
}

// DeleteBoard removes a board and everything on it. The cascade runs in
// dependency order (votes, comments, suggestions, roadmap items, then
// the board) inside one transaction, and every step is filter-based, so
// re-running the cascade is idempotent. Deleting an already-absent
// board is a no-op, not an error.
func (s *boardService) DeleteBoard(ctx context.Context, id string, identity models.Identity) error {
	board, err := s.boardRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}

	if !identity.IsOwnerOf(board) {
		return fmt.Errorf("deleting board %s: %w", id, domain.ErrForbidden)
	}

	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.voteRepo.DeleteByBoard(txCtx, id); err != nil {
			return err
		}
		if err := s.commentRepo.DeleteByBoard(txCtx, id); err != nil {
			return err
		}
		if err := s.suggestionRepo.DeleteByBoard(txCtx, id); err != nil {
			return err
		}
		if err := s.roadmapRepo.DeleteByBoard(txCtx, id); err != nil {
			return err
		}
		return s.boardRepo.Delete(txCtx, id)
	})
	if err != nil {
		return err
	}

	s.logger.Info("board deleted",
		"id", id,
		"owner_id", board.OwnerID,
	)

	return nil
}

// validateCreateRequest validates a create board request
func (s *boardService) validateCreateRequest(req *services.CreateBoardRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.OwnerID, validation.Required),
		validation.Field(&req.Name,
			validation.Required,
			validation.Length(1, config.MaxBoardNameLength),
			validation.By(validateTrimmedNonEmpty),
		),
		validation.Field(&req.Description,
			validation.Length(0, config.MaxDescriptionLength),
		),
	)
}

// validateBoard validates a board after applying a partial update
func (s *boardService) validateBoard(board *models.Board) error {
	return validation.ValidateStruct(board,
		validation.Field(&board.Name,
			validation.Required,
			validation.Length(1, config.MaxBoardNameLength),
		),
		validation.Field(&board.Description,
			validation.Length(0, config.MaxDescriptionLength),
		),
	)
}

// validateTrimmedNonEmpty rejects values that are whitespace-only
func validateTrimmedNonEmpty(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return fmt.Errorf("must be a string")
	}
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("cannot be empty")
	}
	return nil
}
