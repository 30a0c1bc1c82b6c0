package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/notevault/internal/common"
	"github.com/dmitrijs2005/notevault/internal/logging"
	"github.com/dmitrijs2005/notevault/internal/server/models"
	"github.com/dmitrijs2005/notevault/internal/server/repositories/notes"
	"github.com/dmitrijs2005/notevault/internal/server/repositories/repomanager"
)

const (
	defaultPageSize = 6
	maxPageSize     = 100
)

// NoteService implements the note-storage operations: paginated list with
// search and sorting, and CRUD by id.
type NoteService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

func NewNoteService(db *sql.DB, m repomanager.RepositoryManager, l logging.Logger) *NoteService {
	return &NoteService{db: db, repomanager: m, logger: l.With("module", "notes_service")}
}

// NormalizeListParams clamps paging values and maps unknown sort input to
// the default (newest first).
func NormalizeListParams(p notes.ListParams) notes.ListParams {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = defaultPageSize
	}
	if p.PageSize > maxPageSize {
		p.PageSize = maxPageSize
	}
	if p.SortBy != notes.SortByTitle && p.SortBy != notes.SortByCreatedAt {
		p.SortBy = notes.SortByCreatedAt
		p.Asc = false
	}
	return p
}

func (s *NoteService) List(ctx context.Context, p notes.ListParams) ([]*models.Note, int64, error) {
	p = NormalizeListParams(p)

	repo := s.repomanager.Notes(s.db)
	items, total, err := repo.List(ctx, p)
	if err != nil {
		s.logger.Error(ctx, "error listing notes", "error", err.Error())
		return nil, 0, common.ErrInternal
	}
	return items, total, nil
}

func (s *NoteService) Get(ctx context.Context, id string) (*models.Note, error) {
	repo := s.repomanager.Notes(s.db)
	note, err := repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		s.logger.Error(ctx, "error loading note", "error", err.Error())
		return nil, common.ErrInternal
	}
	return note, nil
}

func validateNote(title, content string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("%w: title is required", common.ErrValidation)
	}
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("%w: content is required", common.ErrValidation)
	}
	return nil
}

func (s *NoteService) Create(ctx context.Context, title, content string) (*models.Note, error) {
	if err := validateNote(title, content); err != nil {
		return nil, err
	}

	repo := s.repomanager.Notes(s.db)
	note, err := repo.Create(ctx, title, content)
	if err != nil {
		s.logger.Error(ctx, "error creating note", "error", err.Error())
		return nil, common.ErrInternal
	}
	return note, nil
}

func (s *NoteService) Update(ctx context.Context, id, title, content string) (*models.Note, error) {
	if err := validateNote(title, content); err != nil {
		return nil, err
	}

	repo := s.repomanager.Notes(s.db)
	note, err := repo.Update(ctx, id, title, content)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		s.logger.Error(ctx, "error updating note", "error", err.Error())
		return nil, common.ErrInternal
	}
	return note, nil
}

func (s *NoteService) Delete(ctx context.Context, id string) error {
	repo := s.repomanager.Notes(s.db)
	if err := repo.Delete(ctx, id); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrNotFound
		}
		s.logger.Error(ctx, "error deleting note", "error", err.Error())
		return common.ErrInternal
	}
	return nil
}
