package services

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/notevault/internal/common"
	notesrepo "github.com/dmitrijs2005/notevault/internal/server/repositories/notes"
)

func newTestNoteService(t *testing.T) (*NoteService, *notesrepo.InMemoryRepository) {
	t.Helper()

	repo := notesrepo.NewInMemoryRepository()
	rm := &fakeRepoManager{notes: repo}
	return NewNoteService(nil, rm, discardLogger()), repo
}

func TestNormalizeListParams(t *testing.T) {
	cases := []struct {
		name string
		in   notesrepo.ListParams
		want notesrepo.ListParams
	}{
		{
			"zero value",
			notesrepo.ListParams{},
			notesrepo.ListParams{Page: 1, PageSize: 6, SortBy: notesrepo.SortByCreatedAt, Asc: false},
		},
		{
			"negative page",
			notesrepo.ListParams{Page: -3, PageSize: 10, SortBy: notesrepo.SortByTitle, Asc: true},
			notesrepo.ListParams{Page: 1, PageSize: 10, SortBy: notesrepo.SortByTitle, Asc: true},
		},
		{
			"oversized page size",
			notesrepo.ListParams{Page: 2, PageSize: 5000, SortBy: notesrepo.SortByCreatedAt},
			notesrepo.ListParams{Page: 2, PageSize: 100, SortBy: notesrepo.SortByCreatedAt},
		},
		{
			"unknown sort falls back to newest first",
			notesrepo.ListParams{Page: 1, PageSize: 6, SortBy: "updatedAt", Asc: true},
			notesrepo.ListParams{Page: 1, PageSize: 6, SortBy: notesrepo.SortByCreatedAt, Asc: false},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizeListParams(tc.in); got != tc.want {
				t.Fatalf("got %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestNoteCRUD(t *testing.T) {
	s, _ := newTestNoteService(t)
	ctx := context.Background()

	created, err := s.Create(ctx, "groceries", "milk, eggs")
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("expected an assigned id")
	}
	if created.CreatedAt.IsZero() || !created.UpdatedAt.Equal(created.CreatedAt) {
		t.Fatalf("expected CreatedAt == UpdatedAt on create, got %v / %v", created.CreatedAt, created.UpdatedAt)
	}

	got, err := s.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got.Title != "groceries" || got.Content != "milk, eggs" {
		t.Fatalf("unexpected note: %+v", got)
	}

	updated, err := s.Update(ctx, created.ID, "groceries", "milk, eggs, bread")
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if updated.Content != "milk, eggs, bread" {
		t.Fatalf("unexpected content after update: %q", updated.Content)
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Fatalf("CreatedAt must not change on update")
	}

	if err := s.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, err := s.Get(ctx, created.ID); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestNoteValidation(t *testing.T) {
	s, _ := newTestNoteService(t)
	ctx := context.Background()

	if _, err := s.Create(ctx, "   ", "content"); !errors.Is(err, common.ErrValidation) {
		t.Fatalf("expected ErrValidation for blank title, got %v", err)
	}
	if _, err := s.Create(ctx, "title", ""); !errors.Is(err, common.ErrValidation) {
		t.Fatalf("expected ErrValidation for empty content, got %v", err)
	}

	n, err := s.Create(ctx, "title", "content")
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if _, err := s.Update(ctx, n.ID, "", "content"); !errors.Is(err, common.ErrValidation) {
		t.Fatalf("expected ErrValidation on update with blank title, got %v", err)
	}
}

func TestNoteNotFound(t *testing.T) {
	s, _ := newTestNoteService(t)
	ctx := context.Background()

	if _, err := s.Get(ctx, "missing"); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("Get: expected ErrNotFound, got %v", err)
	}
	if _, err := s.Update(ctx, "missing", "t", "c"); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("Update: expected ErrNotFound, got %v", err)
	}
	if err := s.Delete(ctx, "missing"); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("Delete: expected ErrNotFound, got %v", err)
	}
}

func TestNoteList_SearchAndPaging(t *testing.T) {
	s, _ := newTestNoteService(t)
	ctx := context.Background()

	titles := []string{"alpha", "beta", "gamma", "delta", "alpha two"}
	for _, title := range titles {
		if _, err := s.Create(ctx, title, "body of "+title); err != nil {
			t.Fatalf("Create error: %v", err)
		}
	}

	items, total, err := s.List(ctx, notesrepo.ListParams{Search: "ALPHA", SortBy: notesrepo.SortByTitle, Asc: true})
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if total != 2 || len(items) != 2 {
		t.Fatalf("expected 2 matches, got total=%d len=%d", total, len(items))
	}
	if items[0].Title != "alpha" || items[1].Title != "alpha two" {
		t.Fatalf("unexpected order: %q, %q", items[0].Title, items[1].Title)
	}

	// search also covers note bodies
	_, total, err = s.List(ctx, notesrepo.ListParams{Search: "body of beta"})
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if total != 1 {
		t.Fatalf("expected a content match, got total=%d", total)
	}

	// second page of two
	items, total, err = s.List(ctx, notesrepo.ListParams{Page: 2, PageSize: 3, SortBy: notesrepo.SortByTitle, Asc: true})
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if total != 5 || len(items) != 2 {
		t.Fatalf("expected total=5 with 2 on page 2, got total=%d len=%d", total, len(items))
	}

	// a page past the end is empty, not an error
	items, total, err = s.List(ctx, notesrepo.ListParams{Page: 9, PageSize: 3})
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if total != 5 || len(items) != 0 {
		t.Fatalf("expected empty page with total=5, got total=%d len=%d", total, len(items))
	}
}
