// Package notes stores note documents with pagination, substring search and
// sorting. Access control happens in the REST layer; this package has none.
package notes

import (
	"context"

	"github.com/dmitrijs2005/notevault/internal/server/models"
)

// Sort field names accepted by ListParams.SortBy.
const (
	SortByCreatedAt = "createdAt"
	SortByTitle     = "title"
)

// ListParams selects a page of notes. Search matches case-insensitively
// against title or content substrings; an empty search matches everything.
type ListParams struct {
	Page     int
	PageSize int
	Search   string
	SortBy   string // SortByCreatedAt or SortByTitle
	Asc      bool
}

type Repository interface {
	// List returns one page of notes plus the total match count.
	List(ctx context.Context, p ListParams) ([]*models.Note, int64, error)

	// Get returns a note by id, or common.ErrNotFound.
	Get(ctx context.Context, id string) (*models.Note, error)

	// Create inserts a new note and returns it with id and timestamps set.
	Create(ctx context.Context, title, content string) (*models.Note, error)

	// Update replaces title and content, or returns common.ErrNotFound.
	Update(ctx context.Context, id, title, content string) (*models.Note, error)

	// Delete removes a note, or returns common.ErrNotFound.
	Delete(ctx context.Context, id string) error
}
