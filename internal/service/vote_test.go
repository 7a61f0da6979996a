package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"voxpop/internal/domain"
	"voxpop/internal/domain/models"
	"voxpop/internal/domain/services"
)

type voteFixture struct {
	boards      *fakeBoardRepo
	suggestions *fakeSuggestionRepo
	votes       *fakeVoteRepo
	service     services.VoteService
	board       *models.Board
	suggestion  *models.Suggestion
}

func newVoteFixture(t *testing.T, mutate func(b *models.Board)) *voteFixture {
	t.Helper()
	ctx := context.Background()

	boards := newFakeBoardRepo()
	suggestions := newFakeSuggestionRepo()
	votes := newFakeVoteRepo(suggestions)

	board := &models.Board{
		OwnerID:                "owner-1",
		Name:                   "Feedback",
		IsPublic:               true,
		AllowAnonymousVotes:    true,
		AllowPublicSubmissions: true,
	}
	if mutate != nil {
		mutate(board)
	}
	if err := boards.Create(ctx, board); err != nil {
		t.Fatalf("create board: %v", err)
	}

	suggestion := &models.Suggestion{
		BoardID:   board.ID,
		Title:     "Dark mode",
		Category:  "feature",
		Status:    models.StatusPending,
		CreatedAt: time.Now(),
	}
	if err := suggestions.Create(ctx, suggestion); err != nil {
		t.Fatalf("create suggestion: %v", err)
	}

	svc := NewVoteService(votes, suggestions, boards, NewVisibilityPolicy(), fakeTxManager{}, nil, testLogger())

	return &voteFixture{
		boards:      boards,
		suggestions: suggestions,
		votes:       votes,
		service:     svc,
		board:       board,
		suggestion:  suggestion,
	}
}

// checkInvariant asserts the denormalized counter equals the number of
// live ledger rows.
func (f *voteFixture) checkInvariant(t *testing.T) {
	t.Helper()
	ctx := context.Background()

	suggestion, err := f.suggestions.GetByID(ctx, f.suggestion.ID)
	if err != nil {
		t.Fatalf("get suggestion: %v", err)
	}
	ledger, err := f.votes.CountBySuggestion(ctx, f.suggestion.ID)
	if err != nil {
		t.Fatalf("count votes: %v", err)
	}
	if suggestion.VoteCount != ledger {
		t.Fatalf("vote_count = %d, ledger has %d rows", suggestion.VoteCount, ledger)
	}
}

func TestToggleRoundTrip(t *testing.T) {
	f := newVoteFixture(t, nil)
	ctx := context.Background()
	identity := models.AnonymousIdentity("sess-A")

	result, err := f.service.Toggle(ctx, identity, f.suggestion.ID)
	if err != nil {
		t.Fatalf("first toggle: %v", err)
	}
	if !result.Voted || result.VoteCount != 1 {
		t.Errorf("first toggle = {voted:%v count:%d}, want {voted:true count:1}", result.Voted, result.VoteCount)
	}

	result, err = f.service.Toggle(ctx, identity, f.suggestion.ID)
	if err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	if result.Voted || result.VoteCount != 0 {
		t.Errorf("second toggle = {voted:%v count:%d}, want {voted:false count:0}", result.Voted, result.VoteCount)
	}

	f.checkInvariant(t)
}

// Session and account namespaces are independent: the same person
// voting anonymously and then signed-in counts twice, and toggling the
// session vote off leaves the account vote intact.
func TestToggleIndependentIdentityNamespaces(t *testing.T) {
	f := newVoteFixture(t, nil)
	ctx := context.Background()

	session := models.AnonymousIdentity("sess-A")
	account := models.AccountIdentity("user-42")

	result, err := f.service.Toggle(ctx, session, f.suggestion.ID)
	if err != nil {
		t.Fatalf("session vote: %v", err)
	}
	if result.VoteCount != 1 {
		t.Errorf("after session vote count = %d, want 1", result.VoteCount)
	}

	result, err = f.service.Toggle(ctx, account, f.suggestion.ID)
	if err != nil {
		t.Fatalf("account vote: %v", err)
	}
	if result.VoteCount != 2 {
		t.Errorf("after account vote count = %d, want 2", result.VoteCount)
	}

	result, err = f.service.Toggle(ctx, session, f.suggestion.ID)
	if err != nil {
		t.Fatalf("session un-vote: %v", err)
	}
	if result.Voted || result.VoteCount != 1 {
		t.Errorf("after session un-vote = {voted:%v count:%d}, want {voted:false count:1}", result.Voted, result.VoteCount)
	}

	f.checkInvariant(t)
}

func TestTogglePolicy(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(b *models.Board)
		identity models.Identity
		wantErr  error
	}{
		{
			name:     "anonymous votes disabled rejects sessions",
			mutate:   func(b *models.Board) { b.AllowAnonymousVotes = false },
			identity: models.AnonymousIdentity("sess-A"),
			wantErr:  domain.ErrForbidden,
		},
		{
			name:     "anonymous votes disabled still allows accounts",
			mutate:   func(b *models.Board) { b.AllowAnonymousVotes = false },
			identity: models.AccountIdentity("user-42"),
		},
		{
			name:     "private board rejects non-owner",
			mutate:   func(b *models.Board) { b.IsPublic = false },
			identity: models.AccountIdentity("user-42"),
			wantErr:  domain.ErrForbidden,
		},
		{
			name:     "private board allows owner",
			mutate:   func(b *models.Board) { b.IsPublic = false },
			identity: models.AccountIdentity("owner-1"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newVoteFixture(t, tt.mutate)
			ctx := context.Background()

			_, err := f.service.Toggle(ctx, tt.identity, f.suggestion.ID)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Toggle() error = %v, want %v", err, tt.wantErr)
				}
				// A rejected toggle must not touch the ledger or counter.
				if f.votes.total() != 0 {
					t.Errorf("ledger has %d rows after rejected toggle, want 0", f.votes.total())
				}
				f.checkInvariant(t)
				return
			}
			if err != nil {
				t.Fatalf("Toggle() error = %v", err)
			}
			f.checkInvariant(t)
		})
	}
}

func TestToggleUnknownSuggestion(t *testing.T) {
	f := newVoteFixture(t, nil)

	_, err := f.service.Toggle(context.Background(), models.AnonymousIdentity("sess-A"), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Toggle() error = %v, want ErrNotFound", err)
	}
}

// Concurrent toggles from the same identity must net out to a
// consistent state: the counter equals the ledger and never exceeds
// one row for the pair.
func TestToggleConcurrentSameIdentity(t *testing.T) {
	f := newVoteFixture(t, nil)
	identity := models.AnonymousIdentity("sess-A")

	const workers = 16
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			if _, err := f.service.Toggle(context.Background(), identity, f.suggestion.ID); err != nil {
				t.Errorf("Toggle() error = %v", err)
			}
		}()
	}
	wg.Wait()

	f.checkInvariant(t)
	if f.votes.total() > 1 {
		t.Errorf("ledger has %d rows for one identity, want at most 1", f.votes.total())
	}
}

// Distinct identities voting concurrently must not lose updates: every
// voter lands exactly one ledger row and the counter matches.
func TestToggleConcurrentDistinctIdentities(t *testing.T) {
	f := newVoteFixture(t, nil)

	const voters = 32
	var wg sync.WaitGroup
	wg.Add(voters)
	for i := 0; i < voters; i++ {
		identity := models.AnonymousIdentity("sess-" + string(rune('A'+i)))
		go func() {
			defer wg.Done()
			if _, err := f.service.Toggle(context.Background(), identity, f.suggestion.ID); err != nil {
				t.Errorf("Toggle() error = %v", err)
			}
		}()
	}
	wg.Wait()

	f.checkInvariant(t)

	suggestion, err := f.suggestions.GetByID(context.Background(), f.suggestion.ID)
	if err != nil {
		t.Fatalf("get suggestion: %v", err)
	}
	if suggestion.VoteCount != voters {
		t.Errorf("vote_count = %d, want %d", suggestion.VoteCount, voters)
	}
}

// A lost duplicate-insert race is answered with current state, never a
// conflict error.
func TestToggleConflictRecovered(t *testing.T) {
	f := newVoteFixture(t, nil)
	ctx := context.Background()
	identity := models.AnonymousIdentity("sess-A")

	// Plant the winner's row directly, bypassing the service's existence
	// check, so the next toggle loses the insert race.
	if err := f.votes.Insert(ctx, models.NewVote(identity, f.suggestion.ID)); err != nil {
		t.Fatalf("plant vote: %v", err)
	}
	if _, err := f.suggestions.ApplyVoteDelta(ctx, f.suggestion.ID, +1); err != nil {
		t.Fatalf("plant counter: %v", err)
	}

	// The service sees the row in its existence check and un-votes; force
	// the insert path instead by deleting through a raced double insert.
	svc := f.service.(*voteService)
	result, err := svc.vote(ctx, identity, f.suggestion)
	if err != nil {
		t.Fatalf("vote() after lost race: %v", err)
	}
	if !result.Voted || result.VoteCount != 1 {
		t.Errorf("recovered state = {voted:%v count:%d}, want {voted:true count:1}", result.Voted, result.VoteCount)
	}

	f.checkInvariant(t)
}
