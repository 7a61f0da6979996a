package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"voxpop/internal/domain"
	"voxpop/internal/domain/models"
	"voxpop/internal/domain/repositories"
)

// The fakes below back the service tests with in-memory state guarded
// by one mutex per repository, so concurrent toggles exercise the same
// uniqueness and atomicity guarantees the store enforces.

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// fakeTxManager runs the function directly; the fakes keep their own
// consistency, so there is nothing to roll back.
type fakeTxManager struct{}

func (fakeTxManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	return fn(ctx)
}

var _ repositories.TransactionManager = fakeTxManager{}

type fakeBoardRepo struct {
	mu     sync.Mutex
	seq    int
	boards map[string]models.Board
}

func newFakeBoardRepo() *fakeBoardRepo {
	return &fakeBoardRepo{boards: make(map[string]models.Board)}
}

func (r *fakeBoardRepo) Create(ctx context.Context, board *models.Board) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	board.ID = "board-" + strconv.Itoa(r.seq)
	r.boards[board.ID] = *board
	return nil
}

func (r *fakeBoardRepo) GetByID(ctx context.Context, id string) (*models.Board, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	board, ok := r.boards[id]
	if !ok {
		return nil, fmt.Errorf("board %s: %w", id, domain.ErrNotFound)
	}
	return &board, nil
}

func (r *fakeBoardRepo) ListByOwner(ctx context.Context, ownerID string) ([]models.Board, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Board{}
	for _, board := range r.boards {
		if board.OwnerID == ownerID {
			out = append(out, board)
		}
	}
	return out, nil
}

func (r *fakeBoardRepo) Update(ctx context.Context, board *models.Board) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.boards[board.ID]; !ok {
		return fmt.Errorf("board %s: %w", board.ID, domain.ErrNotFound)
	}
	r.boards[board.ID] = *board
	return nil
}

func (r *fakeBoardRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.boards, id)
	return nil
}

type fakeSuggestionRepo struct {
	mu          sync.Mutex
	seq         int
	suggestions map[string]*models.Suggestion
	votes       *fakeVoteRepo // for Recount
}

func newFakeSuggestionRepo() *fakeSuggestionRepo {
	return &fakeSuggestionRepo{suggestions: make(map[string]*models.Suggestion)}
}

func (r *fakeSuggestionRepo) Create(ctx context.Context, suggestion *models.Suggestion) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	suggestion.ID = "sugg-" + strconv.Itoa(r.seq)
	cp := *suggestion
	r.suggestions[suggestion.ID] = &cp
	return nil
}

func (r *fakeSuggestionRepo) GetByID(ctx context.Context, id string) (*models.Suggestion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	suggestion, ok := r.suggestions[id]
	if !ok {
		return nil, fmt.Errorf("suggestion %s: %w", id, domain.ErrNotFound)
	}
	cp := *suggestion
	return &cp, nil
}

func (r *fakeSuggestionRepo) ListByBoard(ctx context.Context, boardID string) ([]models.Suggestion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Suggestion{}
	for _, suggestion := range r.suggestions {
		if suggestion.BoardID == boardID {
			out = append(out, *suggestion)
		}
	}
	return out, nil
}

func (r *fakeSuggestionRepo) UpdateTriage(ctx context.Context, id string, status models.SuggestionStatus, category string, updatedAt time.Time) (*models.Suggestion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	suggestion, ok := r.suggestions[id]
	if !ok {
		return nil, fmt.Errorf("suggestion %s: %w", id, domain.ErrNotFound)
	}
	suggestion.Status = status
	suggestion.Category = category
	suggestion.UpdatedAt = updatedAt
	cp := *suggestion
	return &cp, nil
}

func (r *fakeSuggestionRepo) ApplyVoteDelta(ctx context.Context, id string, delta int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	suggestion, ok := r.suggestions[id]
	if !ok {
		return 0, fmt.Errorf("suggestion %s: %w", id, domain.ErrNotFound)
	}
	suggestion.VoteCount += delta
	if suggestion.VoteCount < 0 {
		suggestion.VoteCount = 0
	}
	return suggestion.VoteCount, nil
}

func (r *fakeSuggestionRepo) Recount(ctx context.Context, id string) (int, error) {
	count, err := r.votes.CountBySuggestion(ctx, id)
	if err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	suggestion, ok := r.suggestions[id]
	if !ok {
		return 0, fmt.Errorf("suggestion %s: %w", id, domain.ErrNotFound)
	}
	suggestion.VoteCount = count
	return count, nil
}

func (r *fakeSuggestionRepo) DeleteByID(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.suggestions, id)
	return nil
}

func (r *fakeSuggestionRepo) DeleteByBoard(ctx context.Context, boardID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, suggestion := range r.suggestions {
		if suggestion.BoardID == boardID {
			delete(r.suggestions, id)
		}
	}
	return nil
}

// voterKey mirrors the store's two partial unique indexes: account and
// session namespaces never collide.
func voterKey(vote *models.Vote) string {
	if vote.AccountID != nil {
		return "acct:" + *vote.AccountID + "/" + vote.SuggestionID
	}
	return "sess:" + *vote.SessionID + "/" + vote.SuggestionID
}

func identityKey(identity models.Identity, suggestionID string) string {
	if identity.IsAccount() {
		return "acct:" + identity.AccountID + "/" + suggestionID
	}
	return "sess:" + identity.SessionID + "/" + suggestionID
}

type fakeVoteRepo struct {
	mu          sync.Mutex
	seq         int
	votes       map[string]models.Vote // voter key -> vote
	suggestions *fakeSuggestionRepo    // for board scoping in RecentCounts / DeleteByBoard
}

func newFakeVoteRepo(suggestions *fakeSuggestionRepo) *fakeVoteRepo {
	r := &fakeVoteRepo{
		votes:       make(map[string]models.Vote),
		suggestions: suggestions,
	}
	suggestions.votes = r
	return r
}

func (r *fakeVoteRepo) Insert(ctx context.Context, vote *models.Vote) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := voterKey(vote)
	if _, exists := r.votes[key]; exists {
		return &domain.ConflictError{
			Message:      "vote already exists",
			ResourceType: "vote",
			ResourceID:   vote.SuggestionID,
		}
	}
	r.seq++
	vote.ID = "vote-" + strconv.Itoa(r.seq)
	r.votes[key] = *vote
	return nil
}

func (r *fakeVoteRepo) FindByVoter(ctx context.Context, identity models.Identity, suggestionID string) (*models.Vote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	vote, ok := r.votes[identityKey(identity, suggestionID)]
	if !ok {
		return nil, fmt.Errorf("vote: %w", domain.ErrNotFound)
	}
	return &vote, nil
}

func (r *fakeVoteRepo) DeleteByVoter(ctx context.Context, identity models.Identity, suggestionID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := identityKey(identity, suggestionID)
	if _, ok := r.votes[key]; !ok {
		return 0, nil
	}
	delete(r.votes, key)
	return 1, nil
}

func (r *fakeVoteRepo) CountBySuggestion(ctx context.Context, suggestionID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, vote := range r.votes {
		if vote.SuggestionID == suggestionID {
			count++
		}
	}
	return count, nil
}

func (r *fakeVoteRepo) RecentCounts(ctx context.Context, boardID string, since time.Time) (map[string]int, error) {
	onBoard := make(map[string]bool)
	r.suggestions.mu.Lock()
	for id, suggestion := range r.suggestions.suggestions {
		if suggestion.BoardID == boardID {
			onBoard[id] = true
		}
	}
	r.suggestions.mu.Unlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[string]int)
	for _, vote := range r.votes {
		if onBoard[vote.SuggestionID] && !vote.CreatedAt.Before(since) {
			counts[vote.SuggestionID]++
		}
	}
	return counts, nil
}

func (r *fakeVoteRepo) VotedSuggestionIDs(ctx context.Context, identity models.Identity, suggestionIDs []string) (map[string]bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	voted := make(map[string]bool)
	for _, id := range suggestionIDs {
		if _, ok := r.votes[identityKey(identity, id)]; ok {
			voted[id] = true
		}
	}
	return voted, nil
}

func (r *fakeVoteRepo) DeleteBySuggestion(ctx context.Context, suggestionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, vote := range r.votes {
		if vote.SuggestionID == suggestionID {
			delete(r.votes, key)
		}
	}
	return nil
}

func (r *fakeVoteRepo) DeleteByBoard(ctx context.Context, boardID string) error {
	onBoard := make(map[string]bool)
	r.suggestions.mu.Lock()
	for id, suggestion := range r.suggestions.suggestions {
		if suggestion.BoardID == boardID {
			onBoard[id] = true
		}
	}
	r.suggestions.mu.Unlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	for key, vote := range r.votes {
		if onBoard[vote.SuggestionID] {
			delete(r.votes, key)
		}
	}
	return nil
}

func (r *fakeVoteRepo) total() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.votes)
}

type fakeCommentRepo struct {
	mu          sync.Mutex
	seq         int
	comments    map[string]models.Comment
	suggestions *fakeSuggestionRepo
}

func newFakeCommentRepo(suggestions *fakeSuggestionRepo) *fakeCommentRepo {
	return &fakeCommentRepo{
		comments:    make(map[string]models.Comment),
		suggestions: suggestions,
	}
}

func (r *fakeCommentRepo) Create(ctx context.Context, comment *models.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	comment.ID = "comment-" + strconv.Itoa(r.seq)
	r.comments[comment.ID] = *comment
	return nil
}

func (r *fakeCommentRepo) ListBySuggestion(ctx context.Context, suggestionID string) ([]models.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Comment{}
	for _, comment := range r.comments {
		if comment.SuggestionID == suggestionID {
			out = append(out, comment)
		}
	}
	return out, nil
}

func (r *fakeCommentRepo) DeleteBySuggestion(ctx context.Context, suggestionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, comment := range r.comments {
		if comment.SuggestionID == suggestionID {
			delete(r.comments, id)
		}
	}
	return nil
}

func (r *fakeCommentRepo) DeleteByBoard(ctx context.Context, boardID string) error {
	onBoard := make(map[string]bool)
	r.suggestions.mu.Lock()
	for id, suggestion := range r.suggestions.suggestions {
		if suggestion.BoardID == boardID {
			onBoard[id] = true
		}
	}
	r.suggestions.mu.Unlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	for id, comment := range r.comments {
		if onBoard[comment.SuggestionID] {
			delete(r.comments, id)
		}
	}
	return nil
}

type fakeRoadmapRepo struct {
	mu    sync.Mutex
	seq   int
	items map[string]models.RoadmapItem
}

func newFakeRoadmapRepo() *fakeRoadmapRepo {
	return &fakeRoadmapRepo{items: make(map[string]models.RoadmapItem)}
}

func (r *fakeRoadmapRepo) Create(ctx context.Context, item *models.RoadmapItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	item.ID = "item-" + strconv.Itoa(r.seq)
	r.items[item.ID] = *item
	return nil
}

func (r *fakeRoadmapRepo) GetByID(ctx context.Context, id, boardID string) (*models.RoadmapItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok || item.BoardID != boardID {
		return nil, fmt.Errorf("roadmap item %s: %w", id, domain.ErrNotFound)
	}
	return &item, nil
}

func (r *fakeRoadmapRepo) ListByBoard(ctx context.Context, boardID string) ([]models.RoadmapItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.RoadmapItem{}
	for _, item := range r.items {
		if item.BoardID == boardID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *fakeRoadmapRepo) Update(ctx context.Context, item *models.RoadmapItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[item.ID]; !ok {
		return fmt.Errorf("roadmap item %s: %w", item.ID, domain.ErrNotFound)
	}
	r.items[item.ID] = *item
	return nil
}

func (r *fakeRoadmapRepo) DeleteByID(ctx context.Context, id, boardID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if item, ok := r.items[id]; ok && item.BoardID == boardID {
		delete(r.items, id)
	}
	return nil
}

func (r *fakeRoadmapRepo) DeleteByBoard(ctx context.Context, boardID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, item := range r.items {
		if item.BoardID == boardID {
			delete(r.items, id)
		}
	}
	return nil
}
