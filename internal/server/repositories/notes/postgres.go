package notes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/notevault/internal/common"
	"github.com/dmitrijs2005/notevault/internal/dbx"
	"github.com/dmitrijs2005/notevault/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// orderClause maps the closed SortBy set to SQL. Values outside the map fall
// back to newest-first; params are never interpolated into ORDER BY.
func orderClause(p ListParams) string {
	dir := "DESC"
	if p.Asc {
		dir = "ASC"
	}
	switch p.SortBy {
	case SortByTitle:
		return "title " + dir
	case SortByCreatedAt:
		return "created_at " + dir
	}
	return "created_at DESC"
}

func (r *PostgresRepository) List(ctx context.Context, p ListParams) ([]*models.Note, int64, error) {

	filter := `($1 = '' OR title ILIKE '%' || $1 || '%' OR content ILIKE '%' || $1 || '%')`

	var total int64
	countQuery := `SELECT count(*) FROM notes WHERE ` + filter
	if err := r.db.QueryRowContext(ctx, countQuery, p.Search).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	query := `SELECT id, title, content, created_at, updated_at FROM notes
		 WHERE ` + filter + `
		 ORDER BY ` + orderClause(p) + `
		 LIMIT $2 OFFSET $3
		 `

	offset := (p.Page - 1) * p.PageSize
	rows, err := r.db.QueryContext(ctx, query, p.Search, p.PageSize, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	items := []*models.Note{}
	for rows.Next() {
		n := &models.Note{}
		if err := rows.Scan(&n.ID, &n.Title, &n.Content, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("db error: %w", err)
		}
		items = append(items, n)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	return items, total, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Note, error) {
	query :=
		`SELECT id, title, content, created_at, updated_at FROM notes
		 WHERE id = $1
		 `

	n := &models.Note{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&n.ID, &n.Title, &n.Content, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return n, nil
}

func (r *PostgresRepository) Create(ctx context.Context, title, content string) (*models.Note, error) {
	query :=
		`INSERT INTO notes (id, title, content)
         VALUES ($1, $2, $3)
		 RETURNING created_at, updated_at
		 `

	n := &models.Note{ID: uuid.NewString(), Title: title, Content: content}
	err := r.db.QueryRowContext(ctx, query, n.ID, n.Title, n.Content).Scan(&n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return n, nil
}

func (r *PostgresRepository) Update(ctx context.Context, id, title, content string) (*models.Note, error) {
	query :=
		`UPDATE notes SET title = $2, content = $3, updated_at = now()
		 WHERE id = $1
		 RETURNING created_at, updated_at
		 `

	n := &models.Note{ID: id, Title: title, Content: content}
	err := r.db.QueryRowContext(ctx, query, id, title, content).Scan(&n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return n, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM notes WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}

	return nil
}
