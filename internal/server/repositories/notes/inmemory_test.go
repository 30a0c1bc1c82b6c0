package notes

import (
	"context"
	"testing"
	"time"
)

func TestInMemoryList_CreatedAtOrder(t *testing.T) {
	repo := NewInMemoryRepository()

	// deterministic clock, one minute apart
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	repo.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	ctx := context.Background()
	for _, title := range []string{"first", "second", "third"} {
		if _, err := repo.Create(ctx, title, "body"); err != nil {
			t.Fatalf("Create error: %v", err)
		}
	}

	items, total, err := repo.List(ctx, ListParams{Page: 1, PageSize: 10, SortBy: SortByCreatedAt})
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if total != 3 {
		t.Fatalf("expected total=3, got %d", total)
	}
	if items[0].Title != "third" || items[2].Title != "first" {
		t.Fatalf("expected newest first, got %q .. %q", items[0].Title, items[2].Title)
	}

	items, _, err = repo.List(ctx, ListParams{Page: 1, PageSize: 10, SortBy: SortByCreatedAt, Asc: true})
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if items[0].Title != "first" || items[2].Title != "third" {
		t.Fatalf("expected oldest first, got %q .. %q", items[0].Title, items[2].Title)
	}
}

func TestInMemoryUpdate_Timestamps(t *testing.T) {
	repo := NewInMemoryRepository()

	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	repo.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	ctx := context.Background()
	n, err := repo.Create(ctx, "title", "content")
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	updated, err := repo.Update(ctx, n.ID, "title", "new content")
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if !updated.CreatedAt.Equal(n.CreatedAt) {
		t.Fatalf("CreatedAt must be stable across updates")
	}
	if !updated.UpdatedAt.After(updated.CreatedAt) {
		t.Fatalf("UpdatedAt must advance on update")
	}
}
