package services

import (
	"context"
	"fmt"
	"time"

	"voxpop/internal/domain/models"
)

// RankMode selects a suggestion ordering.
type RankMode string

const (
	RankNew      RankMode = "new"
	RankTop      RankMode = "top"
	RankTrending RankMode = "trending"
)

// ParseRankMode parses a query-string sort value. The empty string
// defaults to "new".
func ParseRankMode(s string) (RankMode, error) {
	switch RankMode(s) {
	case "", RankNew:
		return RankNew, nil
	case RankTop:
		return RankTop, nil
	case RankTrending:
		return RankTrending, nil
	}
	return "", fmt.Errorf("unknown sort mode %q", s)
}

// RankingService produces suggestion orderings for board views. Results
// are annotated with has_voted for the requesting identity, computed in
// one batched ledger lookup.
type RankingService interface {
	Rank(ctx context.Context, identity models.Identity, boardID string, mode RankMode, asOf time.Time) ([]models.RankedSuggestion, error)
}
