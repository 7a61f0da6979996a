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

// roadmapService implements the RoadmapService interface
type roadmapService struct {
	roadmapRepo    repositories.RoadmapRepository
	boardRepo      repositories.BoardRepository
	suggestionRepo repositories.SuggestionRepository
	policy         services.VisibilityPolicy
	logger         *slog.Logger
}

// NewRoadmapService creates a new roadmap service
func NewRoadmapService(
	roadmapRepo repositories.RoadmapRepository,
	boardRepo repositories.BoardRepository,
	suggestionRepo repositories.SuggestionRepository,
	policy services.VisibilityPolicy,
	logger *slog.Logger,
) services.RoadmapService {
	return &roadmapService{
		roadmapRepo:    roadmapRepo,
		boardRepo:      boardRepo,
		suggestionRepo: suggestionRepo,
		policy:         policy,
		logger:         logger,
	}
}

// GetRoadmap returns the board's roadmap grouped by status. The board
// must have its roadmap enabled and the identity must pass the view
// policy.
func (s *roadmapService) GetRoadmap(ctx context.Context, identity models.Identity, boardID string) (*models.GroupedRoadmap, error) {
	board, err := s.boardRepo.GetByID(ctx, boardID)
	if err != nil {
		return nil, err
	}

	if !s.policy.CanView(identity, board) {
		return nil, fmt.Errorf("viewing roadmap of board %s: %w", boardID, domain.ErrForbidden)
	}
	if !board.RoadmapEnabled {
		return nil, fmt.Errorf("roadmap disabled for board %s: %w", boardID, domain.ErrForbidden)
	}

	items, err := s.roadmapRepo.ListByBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}

	return groupByStatus(items), nil
}

// CreateItem adds an item to the board's roadmap. When the item is
// promoted from a suggestion, the suggestion's current vote count is
// frozen onto the item; later votes never change it.
func (s *roadmapService) CreateItem(ctx context.Context, identity models.Identity, boardID string, req *services.CreateRoadmapItemRequest) (*models.RoadmapItem, error) {
	board, err := s.boardRepo.GetByID(ctx, boardID)
	if err != nil {
		return nil, err
	}

	if !identity.IsOwnerOf(board) {
		return nil, fmt.Errorf("editing roadmap of board %s: %w", boardID, domain.ErrForbidden)
	}

	if err := s.validateCreateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	now := time.Now()
	item := &models.RoadmapItem{
		BoardID:              boardID,
		Title:                strings.TrimSpace(req.Title),
		Description:          strings.TrimSpace(req.Description),
		Status:               req.Status,
		Priority:             req.Priority,
		Type:                 req.Type,
		EstimatedReleaseDate: req.EstimatedReleaseDate,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	if req.SuggestionID != nil {
		suggestion, err := s.suggestionRepo.GetByID(ctx, *req.SuggestionID)
		if err != nil {
			return nil, err
		}
		if suggestion.BoardID != boardID {
			return nil, fmt.Errorf("%w: suggestion %s does not belong to board %s", domain.ErrValidation, suggestion.ID, boardID)
		}
		snapshot := suggestion.VoteCount
		item.SuggestionID = req.SuggestionID
		item.SuggestionVoteCount = &snapshot
	}

	if err := s.roadmapRepo.Create(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info("roadmap item created",
		"id", item.ID,
		"board_id", boardID,
		"status", item.Status,
	)

	return item, nil
}

// UpdateItem applies a partial update to a roadmap item. The vote
// snapshot and the suggestion link are immutable.
func (s *roadmapService) UpdateItem(ctx context.Context, identity models.Identity, boardID, itemID string, req *services.UpdateRoadmapItemRequest) (*models.RoadmapItem, error) {
	board, err := s.boardRepo.GetByID(ctx, boardID)
	if err != nil {
		return nil, err
	}

	if !identity.IsOwnerOf(board) {
		return nil, fmt.Errorf("editing roadmap of board %s: %w", boardID, domain.ErrForbidden)
	}

	item, err := s.roadmapRepo.GetByID(ctx, itemID, boardID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		item.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		item.Description = strings.TrimSpace(*req.Description)
	}
	if req.Status != nil {
		item.Status = *req.Status
	}
	if req.Priority != nil {
		item.Priority = *req.Priority
	}
	if req.Type != nil {
		item.Type = *req.Type
	}
	if req.EstimatedReleaseDate != nil {
		item.EstimatedReleaseDate = req.EstimatedReleaseDate
	}

	if err := s.validateItem(item); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	item.UpdatedAt = time.Now()

	if err := s.roadmapRepo.Update(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info("roadmap item updated",
		"id", item.ID,
		"board_id", boardID,
		"status", item.Status,
	)

	return item, nil
}

// DeleteItem removes a roadmap item. Deleting an absent item is a
// no-op.
func (s *roadmapService) DeleteItem(ctx context.Context, identity models.Identity, boardID, itemID string) error {
	board, err := s.boardRepo.GetByID(ctx, boardID)
	if err != nil {
		return err
	}

	if !identity.IsOwnerOf(board) {
		return fmt.Errorf("editing roadmap of board %s: %w", boardID, domain.ErrForbidden)
	}

	if err := s.roadmapRepo.DeleteByID(ctx, itemID, boardID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}

	s.logger.Info("roadmap item deleted",
		"id", itemID,
		"board_id", boardID,
	)

	return nil
}

// groupByStatus buckets items by status, keeping the repository's
// ordering within each bucket.
func groupByStatus(items []models.RoadmapItem) *models.GroupedRoadmap {
	grouped := &models.GroupedRoadmap{
		Planned:    []models.RoadmapItem{},
		InProgress: []models.RoadmapItem{},
		Completed:  []models.RoadmapItem{},
		Cancelled:  []models.RoadmapItem{},
	}
	for _, item := range items {
		switch item.Status {
		case models.RoadmapPlanned:
			grouped.Planned = append(grouped.Planned, item)
		case models.RoadmapInProgress:
			grouped.InProgress = append(grouped.InProgress, item)
		case models.RoadmapCompleted:
			grouped.Completed = append(grouped.Completed, item)
		case models.RoadmapCancelled:
			grouped.Cancelled = append(grouped.Cancelled, item)
		}
	}
	return grouped
}

// validateCreateRequest validates a create roadmap item request
func (s *roadmapService) validateCreateRequest(req *services.CreateRoadmapItemRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Title,
			validation.Required,
			validation.Length(1, config.MaxRoadmapTitleLength),
			validation.By(validateTrimmedNonEmpty),
		),
		validation.Field(&req.Description,
			validation.Length(0, config.MaxDescriptionLength),
		),
		validation.Field(&req.Status, validation.Required, validation.By(validateRoadmapStatus)),
		validation.Field(&req.Priority, validation.By(validateRoadmapPriority)),
		validation.Field(&req.Type, validation.By(validateRoadmapType)),
	)
}

// validateItem validates a roadmap item after applying a partial update
func (s *roadmapService) validateItem(item *models.RoadmapItem) error {
	return validation.ValidateStruct(item,
		validation.Field(&item.Title,
			validation.Required,
			validation.Length(1, config.MaxRoadmapTitleLength),
		),
		validation.Field(&item.Description,
			validation.Length(0, config.MaxDescriptionLength),
		),
		validation.Field(&item.Status, validation.Required, validation.By(validateRoadmapStatus)),
		validation.Field(&item.Priority, validation.By(validateRoadmapPriority)),
		validation.Field(&item.Type, validation.By(validateRoadmapType)),
	)
}

func validateRoadmapStatus(value interface{}) error {
	status, ok := value.(models.RoadmapStatus)
	if !ok || !status.Valid() {
		return fmt.Errorf("unknown status %v", value)
	}
	return nil
}

func validateRoadmapPriority(value interface{}) error {
	priority, ok := value.(models.RoadmapPriority)
	if !ok || !priority.Valid() {
		return fmt.Errorf("unknown priority %v", value)
	}
	return nil
}

func validateRoadmapType(value interface{}) error {
	itemType, ok := value.(models.RoadmapType)
	if !ok || !itemType.Valid() {
		return fmt.Errorf("unknown type %v", value)
	}
	return nil
}
