package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"voxpop/internal/categories"
	"voxpop/internal/config"
	"voxpop/internal/domain"
	"voxpop/internal/domain/models"
	"voxpop/internal/domain/repositories"
	"voxpop/internal/domain/services"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// suggestionService implements the SuggestionService interface
type suggestionService struct {
	suggestionRepo repositories.SuggestionRepository
	boardRepo      repositories.BoardRepository
	voteRepo       repositories.VoteRepository
	commentRepo    repositories.CommentRepository
	policy         services.VisibilityPolicy
	txManager      repositories.TransactionManager
	registry       *categories.Registry
	logger         *slog.Logger
}

// NewSuggestionService creates a new suggestion service
func NewSuggestionService(
	suggestionRepo repositories.SuggestionRepository,
	boardRepo repositories.BoardRepository,
	voteRepo repositories.VoteRepository,
	commentRepo repositories.CommentRepository,
	policy services.VisibilityPolicy,
	txManager repositories.TransactionManager,
	registry *categories.Registry,
	logger *slog.Logger,
) services.SuggestionService {
	return &suggestionService{
		suggestionRepo: suggestionRepo,
		boardRepo:      boardRepo,
		voteRepo:       voteRepo,
		commentRepo:    commentRepo,
		policy:         policy,
		txManager:      txManager,
		registry:       registry,
		logger:         logger,
	}
}

// Submit adds a suggestion to a board, subject to the submission
// policy. Anonymous authors are recorded by session ID.
func (s *suggestionService) Submit(ctx context.Context, identity models.Identity, boardID string, req *services.SubmitSuggestionRequest) (*models.Suggestion, error) {
	board, err := s.boardRepo.GetByID(ctx, boardID)
	if err != nil {
		return nil, err
	}

	if !s.policy.CanSubmit(identity, board) {
		return nil, fmt.Errorf("submitting to board %s: %w", boardID, domain.ErrForbidden)
	}

	if err := s.validateSubmitRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	now := time.Now()
	suggestion := &models.Suggestion{
		BoardID:     boardID,
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Category:    req.Category,
		Status:      models.StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	suggestion.SetAuthor(identity)

	if err := s.suggestionRepo.Create(ctx, suggestion); err != nil {
		return nil, err
	}

	s.logger.Info("suggestion submitted",
		"id", suggestion.ID,
		"board_id", boardID,
		"category", suggestion.Category,
		"identity_kind", identity.Kind,
	)

	return suggestion, nil
}

// Get retrieves a suggestion with its comments, applying the view
// policy of its board.
func (s *suggestionService) Get(ctx context.Context, identity models.Identity, id string) (*services.SuggestionDetail, error) {
	suggestion, board, err := s.loadWithBoard(ctx, id)
	if err != nil {
		return nil, err
	}

	if !s.policy.CanView(identity, board) {
		return nil, fmt.Errorf("viewing suggestion %s: %w", id, domain.ErrForbidden)
	}

	comments, err := s.commentRepo.ListBySuggestion(ctx, id)
	if err != nil {
		return nil, err
	}

	return &services.SuggestionDetail{
		Suggestion: *suggestion,
		Comments:   comments,
	}, nil
}

// UpdateTriage updates a suggestion's status and/or category.
// Board-owner-only.
func (s *suggestionService) UpdateTriage(ctx context.Context, identity models.Identity, id string, req *services.UpdateTriageRequest) (*models.Suggestion, error) {
	suggestion, board, err := s.loadWithBoard(ctx, id)
	if err != nil {
		return nil, err
	}

	if !identity.IsOwnerOf(board) {
		return nil, fmt.Errorf("triaging suggestion %s: %w", id, domain.ErrForbidden)
	}

	status := suggestion.Status
	if req.Status != nil {
		status = *req.Status
	}
	category := suggestion.Category
	if req.Category != nil {
		category = *req.Category
	}

	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, status)
	}
	if !s.registry.IsValid(category) {
		return nil, fmt.Errorf("%w: unknown category %q", domain.ErrValidation, category)
	}

	updated, err := s.suggestionRepo.UpdateTriage(ctx, id, status, category, time.Now())
	if err != nil {
		return nil, err
	}

	s.logger.Info("suggestion triaged",
		"id", id,
		"board_id", board.ID,
		"status", status,
		"category", category,
	)

	return updated, nil
}

// Delete removes a suggestion and its dependents. Votes and comments go
// first so an interrupted cascade never leaves rows referencing a
// deleted suggestion, and every step is filter-based, so re-running is
// a no-op.
func (s *suggestionService) Delete(ctx context.Context, identity models.Identity, id string) error {
	suggestion, board, err := s.loadWithBoard(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}

	if !identity.IsOwnerOf(board) {
		return fmt.Errorf("deleting suggestion %s: %w", id, domain.ErrForbidden)
	}

	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.voteRepo.DeleteBySuggestion(txCtx, id); err != nil {
			return err
		}
		if err := s.commentRepo.DeleteBySuggestion(txCtx, id); err != nil {
			return err
		}
		return s.suggestionRepo.DeleteByID(txCtx, id)
	})
	if err != nil {
		return err
	}

	s.logger.Info("suggestion deleted",
		"id", id,
		"board_id", suggestion.BoardID,
	)

	return nil
}

// AddComment appends a comment to a suggestion, subject to the view
// policy.
func (s *suggestionService) AddComment(ctx context.Context, identity models.Identity, id string, req *services.AddCommentRequest) (*models.Comment, error) {
	_, board, err := s.loadWithBoard(ctx, id)
	if err != nil {
		return nil, err
	}

	if !s.policy.CanView(identity, board) {
		return nil, fmt.Errorf("commenting on suggestion %s: %w", id, domain.ErrForbidden)
	}

	body := strings.TrimSpace(req.Body)
	if body == "" {
		return nil, fmt.Errorf("%w: comment body cannot be empty", domain.ErrValidation)
	}
	if len(body) > config.MaxCommentLength {
		return nil, fmt.Errorf("%w: comment body exceeds %d characters", domain.ErrValidation, config.MaxCommentLength)
	}

	comment := &models.Comment{
		SuggestionID: id,
		Body:         body,
		CreatedAt:    time.Now(),
	}
	if identity.IsAccount() {
		comment.AuthorAccountID = &identity.AccountID
	} else {
		comment.AuthorSessionID = &identity.SessionID
	}

	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	return comment, nil
}

// Recount re-derives the vote counter from the ledger. Board-owner
// correction tooling: never trusts the cached counter.
func (s *suggestionService) Recount(ctx context.Context, identity models.Identity, id string) (int, error) {
	_, board, err := s.loadWithBoard(ctx, id)
	if err != nil {
		return 0, err
	}

	if !identity.IsOwnerOf(board) {
		return 0, fmt.Errorf("recounting suggestion %s: %w", id, domain.ErrForbidden)
	}

	count, err := s.suggestionRepo.Recount(ctx, id)
	if err != nil {
		return 0, err
	}

	s.logger.Info("suggestion vote count re-derived",
		"id", id,
		"board_id", board.ID,
		"vote_count", count,
	)

	return count, nil
}

// loadWithBoard fetches a suggestion together with its board
func (s *suggestionService) loadWithBoard(ctx context.Context, id string) (*models.Suggestion, *models.Board, error) {
	suggestion, err := s.suggestionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	board, err := s.boardRepo.GetByID(ctx, suggestion.BoardID)
	if err != nil {
		return nil, nil, err
	}

	return suggestion, board, nil
}

// validateSubmitRequest validates a submit suggestion request
func (s *suggestionService) validateSubmitRequest(req *services.SubmitSuggestionRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Title,
			validation.Required,
			validation.Length(1, config.MaxSuggestionTitleLength),
			validation.By(validateTrimmedNonEmpty),
		),
		validation.Field(&req.Description,
			validation.Required,
			validation.Length(1, config.MaxDescriptionLength),
		),
		validation.Field(&req.Category,
			validation.Required,
			validation.By(s.validateCategory),
		),
	)
}

// validateCategory checks the category against the palette registry
func (s *suggestionService) validateCategory(value interface{}) error {
	name, ok := value.(string)
	if !ok {
		return fmt.Errorf("category must be a string")
	}
	if !s.registry.IsValid(name) {
		return fmt.Errorf("unknown category %q", name)
	}
	return nil
}
