package notes

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/notevault/internal/common"
	"github.com/dmitrijs2005/notevault/internal/server/models"
)

// InMemoryRepository is a map-backed Repository for tests and local
// development, mirroring the Postgres search/sort/pagination semantics.
type InMemoryRepository struct {
	mu    sync.Mutex
	notes map[string]*models.Note
	now   func() time.Time
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{notes: make(map[string]*models.Note), now: time.Now}
}

func (r *InMemoryRepository) matches(n *models.Note, search string) bool {
	if search == "" {
		return true
	}
	s := strings.ToLower(search)
	return strings.Contains(strings.ToLower(n.Title), s) ||
		strings.Contains(strings.ToLower(n.Content), s)
}

func (r *InMemoryRepository) List(ctx context.Context, p ListParams) ([]*models.Note, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	matched := []*models.Note{}
	for _, n := range r.notes {
		if r.matches(n, p.Search) {
			c := *n
			matched = append(matched, &c)
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		var less bool
		switch p.SortBy {
		case SortByTitle:
			less = matched[i].Title < matched[j].Title
		default:
			less = matched[i].CreatedAt.Before(matched[j].CreatedAt)
		}
		if p.SortBy != SortByTitle && p.SortBy != SortByCreatedAt {
			return !less // unknown sort falls back to newest first
		}
		if p.Asc {
			return less
		}
		return !less
	})

	total := int64(len(matched))

	start := (p.Page - 1) * p.PageSize
	if start >= len(matched) {
		return []*models.Note{}, total, nil
	}
	end := start + p.PageSize
	if end > len(matched) {
		end = len(matched)
	}

	return matched[start:end], total, nil
}

func (r *InMemoryRepository) Get(ctx context.Context, id string) (*models.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.notes[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	c := *n
	return &c, nil
}

func (r *InMemoryRepository) Create(ctx context.Context, title, content string) (*models.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	n := &models.Note{ID: uuid.NewString(), Title: title, Content: content, CreatedAt: now, UpdatedAt: now}
	r.notes[n.ID] = n

	c := *n
	return &c, nil
}

func (r *InMemoryRepository) Update(ctx context.Context, id, title, content string) (*models.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.notes[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	n.Title = title
	n.Content = content
	n.UpdatedAt = r.now()

	c := *n
	return &c, nil
}

func (r *InMemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.notes[id]; !ok {
		return common.ErrNotFound
	}
	delete(r.notes, id)
	return nil
}
