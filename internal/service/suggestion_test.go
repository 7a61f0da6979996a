package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"voxpop/internal/categories"
	"voxpop/internal/domain"
	"voxpop/internal/domain/models"
	"voxpop/internal/domain/services"
)

type suggestionFixture struct {
	boards      *fakeBoardRepo
	suggestions *fakeSuggestionRepo
	votes       *fakeVoteRepo
	comments    *fakeCommentRepo
	service     services.SuggestionService
	board       *models.Board
}

func newSuggestionFixture(t *testing.T, mutate func(b *models.Board)) *suggestionFixture {
	t.Helper()
	ctx := context.Background()

	boards := newFakeBoardRepo()
	suggestions := newFakeSuggestionRepo()
	votes := newFakeVoteRepo(suggestions)
	comments := newFakeCommentRepo(suggestions)

	registry, err := categories.NewRegistry()
	if err != nil {
		t.Fatalf("load category registry: %v", err)
	}

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

	svc := NewSuggestionService(suggestions, boards, votes, comments, NewVisibilityPolicy(), fakeTxManager{}, registry, testLogger())

	return &suggestionFixture{
		boards:      boards,
		suggestions: suggestions,
		votes:       votes,
		comments:    comments,
		service:     svc,
		board:       board,
	}
}

func TestSubmitSuggestion(t *testing.T) {
	f := newSuggestionFixture(t, nil)
	ctx := context.Background()
	identity := models.AnonymousIdentity("sess-A")

	suggestion, err := f.service.Submit(ctx, identity, f.board.ID, &services.SubmitSuggestionRequest{
		Title:       "  Dark mode  ",
		Description: "A dark color scheme",
		Category:    "feature",
	})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	if suggestion.Title != "Dark mode" {
		t.Errorf("Submit() title = %q, want trimmed %q", suggestion.Title, "Dark mode")
	}
	if suggestion.Status != models.StatusPending {
		t.Errorf("Submit() status = %q, want pending", suggestion.Status)
	}
	if suggestion.VoteCount != 0 {
		t.Errorf("Submit() vote_count = %d, want 0", suggestion.VoteCount)
	}
	if suggestion.AuthorSessionID == nil || *suggestion.AuthorSessionID != "sess-A" {
		t.Error("Submit() did not record anonymous author session")
	}
	if suggestion.AuthorAccountID != nil {
		t.Error("Submit() set account author for anonymous submission")
	}
}

func TestSubmitSuggestionValidation(t *testing.T) {
	f := newSuggestionFixture(t, nil)
	ctx := context.Background()
	identity := models.AccountIdentity("user-42")

	tests := []struct {
		name string
		req  *services.SubmitSuggestionRequest
	}{
		{"empty title", &services.SubmitSuggestionRequest{Description: "d", Category: "feature"}},
		{"whitespace title", &services.SubmitSuggestionRequest{Title: "   ", Description: "d", Category: "feature"}},
		{"empty description", &services.SubmitSuggestionRequest{Title: "t", Category: "feature"}},
		{"missing category", &services.SubmitSuggestionRequest{Title: "t", Description: "d"}},
		{"unknown category", &services.SubmitSuggestionRequest{Title: "t", Description: "d", Category: "nonsense"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.Submit(ctx, identity, f.board.ID, tt.req)
			if !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("Submit() error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestSubmitSuggestionPolicy(t *testing.T) {
	f := newSuggestionFixture(t, func(b *models.Board) { b.AllowPublicSubmissions = false })
	ctx := context.Background()

	req := &services.SubmitSuggestionRequest{Title: "t", Description: "d", Category: "feature"}

	if _, err := f.service.Submit(ctx, models.AnonymousIdentity("sess-A"), f.board.ID, req); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("Submit() anonymous error = %v, want ErrForbidden", err)
	}
	if _, err := f.service.Submit(ctx, models.AccountIdentity("user-42"), f.board.ID, req); err != nil {
		t.Fatalf("Submit() account error = %v", err)
	}
}

func TestUpdateTriage(t *testing.T) {
	f := newSuggestionFixture(t, nil)
	ctx := context.Background()
	owner := models.AccountIdentity("owner-1")

	suggestion, err := f.service.Submit(ctx, owner, f.board.ID, &services.SubmitSuggestionRequest{
		Title: "t", Description: "d", Category: "feature",
	})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	status := models.StatusInProgress
	if _, err := f.service.UpdateTriage(ctx, models.AccountIdentity("user-42"), suggestion.ID, &services.UpdateTriageRequest{Status: &status}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("UpdateTriage() as non-owner error = %v, want ErrForbidden", err)
	}

	updated, err := f.service.UpdateTriage(ctx, owner, suggestion.ID, &services.UpdateTriageRequest{Status: &status})
	if err != nil {
		t.Fatalf("UpdateTriage() error = %v", err)
	}
	if updated.Status != models.StatusInProgress {
		t.Errorf("UpdateTriage() status = %q, want in-progress", updated.Status)
	}
	if updated.Category != "feature" {
		t.Errorf("UpdateTriage() category = %q, want unchanged feature", updated.Category)
	}

	bad := models.SuggestionStatus("archived")
	if _, err := f.service.UpdateTriage(ctx, owner, suggestion.ID, &services.UpdateTriageRequest{Status: &bad}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("UpdateTriage() with unknown status error = %v, want ErrValidation", err)
	}
}

func TestDeleteSuggestionCascades(t *testing.T) {
	f := newSuggestionFixture(t, nil)
	ctx := context.Background()
	owner := models.AccountIdentity("owner-1")

	suggestion, err := f.service.Submit(ctx, owner, f.board.ID, &services.SubmitSuggestionRequest{
		Title: "t", Description: "d", Category: "feature",
	})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if err := f.votes.Insert(ctx, models.NewVote(models.AnonymousIdentity("sess-A"), suggestion.ID)); err != nil {
		t.Fatalf("insert vote: %v", err)
	}
	if err := f.comments.Create(ctx, &models.Comment{SuggestionID: suggestion.ID, Body: "yes", CreatedAt: time.Now()}); err != nil {
		t.Fatalf("create comment: %v", err)
	}

	if err := f.service.Delete(ctx, models.AnonymousIdentity("sess-A"), suggestion.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("Delete() as non-owner error = %v, want ErrForbidden", err)
	}

	if err := f.service.Delete(ctx, owner, suggestion.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if _, err := f.suggestions.GetByID(ctx, suggestion.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Error("suggestion survived deletion")
	}
	if f.votes.total() != 0 {
		t.Errorf("%d votes survived suggestion deletion", f.votes.total())
	}
	comments, _ := f.comments.ListBySuggestion(ctx, suggestion.ID)
	if len(comments) != 0 {
		t.Errorf("%d comments survived suggestion deletion", len(comments))
	}

	// Deleting again is a no-op.
	if err := f.service.Delete(ctx, owner, suggestion.ID); err != nil {
		t.Fatalf("repeated Delete() error = %v", err)
	}
}

func TestAddComment(t *testing.T) {
	f := newSuggestionFixture(t, nil)
	ctx := context.Background()

	suggestion, err := f.service.Submit(ctx, models.AccountIdentity("owner-1"), f.board.ID, &services.SubmitSuggestionRequest{
		Title: "t", Description: "d", Category: "feature",
	})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	comment, err := f.service.AddComment(ctx, models.AnonymousIdentity("sess-A"), suggestion.ID, &services.AddCommentRequest{Body: " sounds great "})
	if err != nil {
		t.Fatalf("AddComment() error = %v", err)
	}
	if comment.Body != "sounds great" {
		t.Errorf("AddComment() body = %q, want trimmed", comment.Body)
	}
	if comment.AuthorSessionID == nil || *comment.AuthorSessionID != "sess-A" {
		t.Error("AddComment() did not record session author")
	}

	if _, err := f.service.AddComment(ctx, models.AnonymousIdentity("sess-A"), suggestion.ID, &services.AddCommentRequest{Body: "   "}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("AddComment() with blank body error = %v, want ErrValidation", err)
	}

	detail, err := f.service.Get(ctx, models.AnonymousIdentity("sess-B"), suggestion.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(detail.Comments) != 1 {
		t.Errorf("Get() returned %d comments, want 1", len(detail.Comments))
	}
}

// Recount repairs a counter that drifted from the ledger.
func TestRecount(t *testing.T) {
	f := newSuggestionFixture(t, nil)
	ctx := context.Background()
	owner := models.AccountIdentity("owner-1")

	suggestion, err := f.service.Submit(ctx, owner, f.board.ID, &services.SubmitSuggestionRequest{
		Title: "t", Description: "d", Category: "feature",
	})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	if err := f.votes.Insert(ctx, models.NewVote(models.AnonymousIdentity("sess-A"), suggestion.ID)); err != nil {
		t.Fatalf("insert vote: %v", err)
	}
	if err := f.votes.Insert(ctx, models.NewVote(models.AccountIdentity("user-42"), suggestion.ID)); err != nil {
		t.Fatalf("insert vote: %v", err)
	}
	// Counter left stale on purpose: the ledger says 2, the counter 0.

	if _, err := f.service.Recount(ctx, models.AccountIdentity("user-42"), suggestion.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("Recount() as non-owner error = %v, want ErrForbidden", err)
	}

	count, err := f.service.Recount(ctx, owner, suggestion.ID)
	if err != nil {
		t.Fatalf("Recount() error = %v", err)
	}
	if count != 2 {
		t.Errorf("Recount() = %d, want 2", count)
	}

	fixed, err := f.suggestions.GetByID(ctx, suggestion.ID)
	if err != nil {
		t.Fatalf("get suggestion: %v", err)
	}
	if fixed.VoteCount != 2 {
		t.Errorf("vote_count after recount = %d, want 2", fixed.VoteCount)
	}
}
