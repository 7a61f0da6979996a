package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"voxpop/internal/domain"
	"voxpop/internal/domain/models"
	"voxpop/internal/domain/repositories"
	"voxpop/internal/domain/services"
	"voxpop/internal/events"
)

// voteService implements the VoteService interface: the vote ledger
// plus its coupled counter update.
type voteService struct {
	voteRepo       repositories.VoteRepository
	suggestionRepo repositories.SuggestionRepository
	boardRepo      repositories.BoardRepository
	policy         services.VisibilityPolicy
	txManager      repositories.TransactionManager
	broker         *events.Broker
	logger         *slog.Logger
}

// NewVoteService creates a new vote service
func NewVoteService(
	voteRepo repositories.VoteRepository,
	suggestionRepo repositories.SuggestionRepository,
	boardRepo repositories.BoardRepository,
	policy services.VisibilityPolicy,
	txManager repositories.TransactionManager,
	broker *events.Broker,
	logger *slog.Logger,
) services.VoteService {
	return &voteService{
		voteRepo:       voteRepo,
		suggestionRepo: suggestionRepo,
		boardRepo:      boardRepo,
		policy:         policy,
		txManager:      txManager,
		broker:         broker,
		logger:         logger,
	}
}

// Toggle flips the identity's vote on a suggestion.
//
// The ledger row and the counter move together inside one transaction,
// so no reader observes a row without its counter delta. The existence
// check ahead of the insert is only an optimization: the store's
// uniqueness constraint is the authority, and losing that race is
// recovered here by re-reading current state rather than surfacing a
// conflict.
func (s *voteService) Toggle(ctx context.Context, identity models.Identity, suggestionID string) (*models.VoteResult, error) {
	suggestion, err := s.suggestionRepo.GetByID(ctx, suggestionID)
	if err != nil {
		return nil, err
	}

	board, err := s.boardRepo.GetByID(ctx, suggestion.BoardID)
	if err != nil {
		return nil, err
	}

	if !s.policy.CanVote(identity, board) {
		return nil, fmt.Errorf("voting on board %s: %w", board.ID, domain.ErrForbidden)
	}

	_, err = s.voteRepo.FindByVoter(ctx, identity, suggestionID)
	switch {
	case err == nil:
		return s.unvote(ctx, identity, suggestion)
	case errors.Is(err, domain.ErrNotFound):
		return s.vote(ctx, identity, suggestion)
	default:
		return nil, err
	}
}

// vote inserts a ledger row and increments the counter in one
// transaction.
func (s *voteService) vote(ctx context.Context, identity models.Identity, suggestion *models.Suggestion) (*models.VoteResult, error) {
	var count int
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.voteRepo.Insert(txCtx, models.NewVote(identity, suggestion.ID)); err != nil {
			return err
		}
		var err error
		count, err = s.suggestionRepo.ApplyVoteDelta(txCtx, suggestion.ID, +1)
		return err
	})

	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			// Lost a duplicate-insert race (double-click). The winner
			// already applied the toggle; report current state as a no-op.
			return s.currentState(ctx, identity, suggestion.ID)
		}
		return nil, err
	}

	s.logger.Info("vote recorded",
		"suggestion_id", suggestion.ID,
		"board_id", suggestion.BoardID,
		"identity_kind", identity.Kind,
		"vote_count", count,
	)
	s.publish(suggestion.BoardID, suggestion.ID, count, true)

	return &models.VoteResult{Voted: true, VoteCount: count}, nil
}

// unvote deletes the ledger row and decrements the counter in one
// transaction. A concurrent un-vote may have removed the row already;
// in that case nothing is decremented and current state is reported.
func (s *voteService) unvote(ctx context.Context, identity models.Identity, suggestion *models.Suggestion) (*models.VoteResult, error) {
	var (
		count   int
		removed int
	)
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		var err error
		removed, err = s.voteRepo.DeleteByVoter(txCtx, identity, suggestion.ID)
		if err != nil {
			return err
		}
		if removed == 0 {
			// Row vanished between the existence check and the delete.
			return nil
		}
		count, err = s.suggestionRepo.ApplyVoteDelta(txCtx, suggestion.ID, -1)
		return err
	})

	if err != nil {
		return nil, err
	}

	if removed == 0 {
		return s.currentState(ctx, identity, suggestion.ID)
	}

	s.logger.Info("vote removed",
		"suggestion_id", suggestion.ID,
		"board_id", suggestion.BoardID,
		"identity_kind", identity.Kind,
		"vote_count", count,
	)
	s.publish(suggestion.BoardID, suggestion.ID, count, false)

	return &models.VoteResult{Voted: false, VoteCount: count}, nil
}

// currentState re-reads the ledger and counter after a lost race and
// reports them as if the call had been a no-op.
func (s *voteService) currentState(ctx context.Context, identity models.Identity, suggestionID string) (*models.VoteResult, error) {
	voted := true
	if _, err := s.voteRepo.FindByVoter(ctx, identity, suggestionID); err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		voted = false
	}

	suggestion, err := s.suggestionRepo.GetByID(ctx, suggestionID)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("vote toggle race recovered",
		"suggestion_id", suggestionID,
		"identity_kind", identity.Kind,
		"voted", voted,
	)

	return &models.VoteResult{Voted: voted, VoteCount: suggestion.VoteCount}, nil
}

func (s *voteService) publish(boardID, suggestionID string, count int, voted bool) {
	if s.broker == nil {
		return
	}
	s.broker.Publish(events.VoteEvent{
		BoardID:      boardID,
		SuggestionID: suggestionID,
		VoteCount:    count,
		Voted:        voted,
	})
}
