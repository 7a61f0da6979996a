package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"voxpop/internal/config"
	"voxpop/internal/domain"
	"voxpop/internal/domain/models"
	"voxpop/internal/domain/repositories"
	"voxpop/internal/domain/services"
)

// rankingService implements the RankingService interface. Ordering is
// computed here rather than in SQL so the comparators are directly
// unit-testable; the repositories only supply rows and windowed counts.
type rankingService struct {
	suggestionRepo repositories.SuggestionRepository
	voteRepo       repositories.VoteRepository
	boardRepo      repositories.BoardRepository
	policy         services.VisibilityPolicy
	logger         *slog.Logger
}

// NewRankingService creates a new ranking service
func NewRankingService(
	suggestionRepo repositories.SuggestionRepository,
	voteRepo repositories.VoteRepository,
	boardRepo repositories.BoardRepository,
	policy services.VisibilityPolicy,
	logger *slog.Logger,
) services.RankingService {
	return &rankingService{
		suggestionRepo: suggestionRepo,
		voteRepo:       voteRepo,
		boardRepo:      boardRepo,
		policy:         policy,
		logger:         logger,
	}
}

// Rank produces the ordered, annotated suggestion sequence for one
// board view. A fresh call re-reads current state.
func (s *rankingService) Rank(ctx context.Context, identity models.Identity, boardID string, mode services.RankMode, asOf time.Time) ([]models.RankedSuggestion, error) {
	board, err := s.boardRepo.GetByID(ctx, boardID)
	if err != nil {
		return nil, err
	}

	if !s.policy.CanView(identity, board) {
		return nil, fmt.Errorf("viewing board %s: %w", boardID, domain.ErrForbidden)
	}

	suggestions, err := s.suggestionRepo.ListByBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}

	var recent map[string]int
	if mode == services.RankTrending {
		since := asOf.Add(-config.TrendingWindow)
		recent, err = s.voteRepo.RecentCounts(ctx, boardID, since)
		if err != nil {
			return nil, err
		}
	}

	ranked := make([]models.RankedSuggestion, len(suggestions))
	ids := make([]string, len(suggestions))
	for i, suggestion := range suggestions {
		ranked[i] = models.RankedSuggestion{Suggestion: suggestion}
		if mode == services.RankTrending {
			ranked[i].RecentVotes = recent[suggestion.ID]
		}
		ids[i] = suggestion.ID
	}

	sortRanked(ranked, mode)

	// One batched membership lookup for the whole result set.
	voted, err := s.voteRepo.VotedSuggestionIDs(ctx, identity, ids)
	if err != nil {
		return nil, err
	}
	for i := range ranked {
		ranked[i].HasVoted = voted[ranked[i].ID]
	}

	return ranked, nil
}

// sortRanked orders suggestions in place for the given mode.
//
//   - new: created_at descending, id descending.
//   - top: vote_count descending, created_at descending.
//   - trending: windowed vote count descending, then the top-style
//     tie-break; suggestions with zero recent votes sort last.
func sortRanked(ranked []models.RankedSuggestion, mode services.RankMode) {
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := &ranked[i], &ranked[j]
		switch mode {
		case services.RankTop:
			return lessTop(a, b)
		case services.RankTrending:
			if a.RecentVotes != b.RecentVotes {
				return a.RecentVotes > b.RecentVotes
			}
			return lessTop(a, b)
		default: // RankNew
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.After(b.CreatedAt)
			}
			return a.ID > b.ID
		}
	})
}

func lessTop(a, b *models.RankedSuggestion) bool {
	if a.VoteCount != b.VoteCount {
		return a.VoteCount > b.VoteCount
	}
	return a.CreatedAt.After(b.CreatedAt)
}
