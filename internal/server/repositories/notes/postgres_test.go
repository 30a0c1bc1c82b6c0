package notes

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/dmitrijs2005/notevault/internal/common"
)

func newMockRepo(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
		db.Close()
	})

	return NewPostgresRepository(db), mock
}

func TestOrderClause(t *testing.T) {
	cases := []struct {
		name string
		p    ListParams
		want string
	}{
		{"title asc", ListParams{SortBy: SortByTitle, Asc: true}, "title ASC"},
		{"title desc", ListParams{SortBy: SortByTitle}, "title DESC"},
		{"created asc", ListParams{SortBy: SortByCreatedAt, Asc: true}, "created_at ASC"},
		{"created desc", ListParams{SortBy: SortByCreatedAt}, "created_at DESC"},
		{"unknown ignores direction", ListParams{SortBy: "id; DROP TABLE notes", Asc: true}, "created_at DESC"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := orderClause(tc.p); got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestPostgresList(t *testing.T) {
	repo, mock := newMockRepo(t)

	now := time.Now()
	mock.ExpectQuery(`SELECT count\(\*\) FROM notes`).
		WithArgs("alpha").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(7)))

	mock.ExpectQuery("SELECT (.+) FROM notes").
		WithArgs("alpha", 6, 6).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "content", "created_at", "updated_at"}).
			AddRow("n1", "alpha one", "body", now, now).
			AddRow("n2", "alpha two", "body", now, now))

	items, total, err := repo.List(context.Background(), ListParams{
		Page: 2, PageSize: 6, Search: "alpha", SortBy: SortByCreatedAt,
	})
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if total != 7 {
		t.Fatalf("expected total=7, got %d", total)
	}
	if len(items) != 2 || items[0].ID != "n1" || items[1].ID != "n2" {
		t.Fatalf("unexpected items: %+v", items)
	}
}

func TestPostgresGet_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM notes").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "content", "created_at", "updated_at"}))

	if _, err := repo.Get(context.Background(), "missing"); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPostgresCreate(t *testing.T) {
	repo, mock := newMockRepo(t)

	now := time.Now()
	mock.ExpectQuery("INSERT INTO notes").
		WithArgs(sqlmock.AnyArg(), "title", "content").
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	n, err := repo.Create(context.Background(), "title", "content")
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if n.ID == "" {
		t.Fatalf("expected an assigned id")
	}
	if !n.CreatedAt.Equal(now) || !n.UpdatedAt.Equal(now) {
		t.Fatalf("expected timestamps from the database")
	}
}

func TestPostgresUpdate_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("UPDATE notes SET").
		WithArgs("missing", "t", "c").
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}))

	if _, err := repo.Update(context.Background(), "missing", "t", "c"); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPostgresDelete(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("DELETE FROM notes").
		WithArgs("n1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Delete(context.Background(), "n1"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}

	mock.ExpectExec("DELETE FROM notes").
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Delete(context.Background(), "missing"); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
