package users

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrijs2005/notevault/internal/common"
	"github.com/dmitrijs2005/notevault/internal/server/models"
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

func TestPostgresCreate(t *testing.T) {
	repo, mock := newMockRepo(t)

	created := time.Now()
	mock.ExpectQuery("INSERT INTO users").
		WithArgs(sqlmock.AnyArg(), "a@x.com", "digest", models.RoleStandard).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(created))

	user, err := repo.Create(context.Background(), &models.User{
		Email:        "a@x.com",
		PasswordHash: "digest",
		Role:         models.RoleStandard,
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if user.ID == "" {
		t.Fatalf("expected an assigned id")
	}
	if !user.CreatedAt.Equal(created) {
		t.Fatalf("expected created_at from the database")
	}
}

func TestPostgresCreate_DuplicateEmail(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("INSERT INTO users").
		WillReturnError(&pgconn.PgError{Code: pgUniqueViolation})

	_, err := repo.Create(context.Background(), &models.User{Email: "a@x.com", PasswordHash: "digest", Role: models.RoleStandard})
	if !errors.Is(err, common.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func userRows(u *models.User) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id", "email", "password_hash", "role", "otp_code", "otp_expires_at", "created_at"})
	if u.Challenge != nil {
		rows.AddRow(u.ID, u.Email, u.PasswordHash, u.Role, u.Challenge.Code, u.Challenge.ExpiresAt, u.CreatedAt)
	} else {
		rows.AddRow(u.ID, u.Email, u.PasswordHash, u.Role, nil, nil, u.CreatedAt)
	}
	return rows
}

func TestPostgresGetByEmail(t *testing.T) {
	repo, mock := newMockRepo(t)

	want := &models.User{
		ID:           "u1",
		Email:        "a@x.com",
		PasswordHash: "digest",
		Role:         models.RolePrivileged,
		Challenge:    &models.Challenge{Code: "123456", ExpiresAt: time.Now().Add(5 * time.Minute)},
		CreatedAt:    time.Now(),
	}

	mock.ExpectQuery("SELECT (.+) FROM users").
		WithArgs("a@x.com").
		WillReturnRows(userRows(want))

	got, err := repo.GetByEmail(context.Background(), "a@x.com")
	if err != nil {
		t.Fatalf("GetByEmail error: %v", err)
	}
	if got.ID != want.ID || got.Role != want.Role {
		t.Fatalf("unexpected user: %+v", got)
	}
	if got.Challenge == nil || got.Challenge.Code != "123456" {
		t.Fatalf("expected challenge to round-trip, got %+v", got.Challenge)
	}
}

func TestPostgresGetByEmail_NullChallenge(t *testing.T) {
	repo, mock := newMockRepo(t)

	want := &models.User{ID: "u1", Email: "a@x.com", PasswordHash: "digest", Role: models.RoleStandard, CreatedAt: time.Now()}

	mock.ExpectQuery("SELECT (.+) FROM users").
		WithArgs("a@x.com").
		WillReturnRows(userRows(want))

	got, err := repo.GetByEmail(context.Background(), "a@x.com")
	if err != nil {
		t.Fatalf("GetByEmail error: %v", err)
	}
	if got.Challenge != nil {
		t.Fatalf("expected nil challenge for NULL columns, got %+v", got.Challenge)
	}
}

func TestPostgresGetByEmail_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM users").
		WithArgs("nobody@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password_hash", "role", "otp_code", "otp_expires_at", "created_at"}))

	_, err := repo.GetByEmail(context.Background(), "nobody@x.com")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPostgresSetChallenge(t *testing.T) {
	repo, mock := newMockRepo(t)

	c := &models.Challenge{Code: "123456", ExpiresAt: time.Now().Add(5 * time.Minute)}

	mock.ExpectExec("UPDATE users SET otp_code").
		WithArgs("u1", c.Code, c.ExpiresAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.SetChallenge(context.Background(), "u1", c); err != nil {
		t.Fatalf("SetChallenge error: %v", err)
	}
}

func TestPostgresSetChallenge_UnknownUser(t *testing.T) {
	repo, mock := newMockRepo(t)

	c := &models.Challenge{Code: "123456", ExpiresAt: time.Now()}

	mock.ExpectExec("UPDATE users SET otp_code").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.SetChallenge(context.Background(), "missing", c); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPostgresConsumeChallenge(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("UPDATE users SET otp_code = NULL").
		WithArgs("u1", "123456").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.ConsumeChallenge(context.Background(), "u1", "123456"); err != nil {
		t.Fatalf("ConsumeChallenge error: %v", err)
	}
}

func TestPostgresConsumeChallenge_NoMatchingRow(t *testing.T) {
	repo, mock := newMockRepo(t)

	// already cleared by a concurrent verification, or a different code
	mock.ExpectExec("UPDATE users SET otp_code = NULL").
		WithArgs("u1", "123456").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.ConsumeChallenge(context.Background(), "u1", "123456"); !errors.Is(err, common.ErrInvalidOTP) {
		t.Fatalf("expected ErrInvalidOTP, got %v", err)
	}
}
