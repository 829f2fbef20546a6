package users

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/termblocks/checklist/internal/common"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

const declareQuery = `(?s)^INSERT\s+INTO\s+users\s*\(identity_hash\)\s*VALUES\s*\(\$1\)\s*ON\s+CONFLICT\s*\(identity_hash\)\s*DO\s+UPDATE.*RETURNING\s+id,\s*identity_hash,\s*created_at\s*$`

func TestDeclare_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "identity_hash", "created_at"}).AddRow(int64(42), "hash", now)
	mock.ExpectQuery(declareQuery).
		WithArgs("hash").
		WillReturnRows(rows)

	got, err := repo.Declare(context.Background(), "hash")
	if err != nil {
		t.Fatalf("Declare error: %v", err)
	}
	if got.ID != 42 || got.IdentityHash != "hash" {
		t.Fatalf("unexpected user: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDeclare_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(declareQuery).
		WithArgs("hash").
		WillReturnError(errors.New("db down"))

	_, err := repo.Declare(context.Background(), "hash")
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestGetByID_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,\s*identity_hash,\s*created_at\s+FROM\s+users\s+WHERE\s+id\s*=\s*\$1\s*$`
	rows := sqlmock.NewRows([]string{"id", "identity_hash", "created_at"}).AddRow(int64(7), "h", time.Now())
	mock.ExpectQuery(q).WithArgs(int64(7)).WillReturnRows(rows)

	u, err := repo.GetByID(context.Background(), 7)
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if u.ID != 7 || u.IdentityHash != "h" {
		t.Fatalf("unexpected user: %+v", u)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`FROM\s+users`).WithArgs(int64(1)).WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 1)
	if !errors.Is(err, common.ErrorUserNotFound) {
		t.Fatalf("expected ErrorUserNotFound, got %v", err)
	}
}

func TestGetByID_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`FROM\s+users`).WithArgs(int64(1)).WillReturnError(errors.New("boom"))

	_, err := repo.GetByID(context.Background(), 1)
	if err == nil || !regexp.MustCompile(`db error: .*boom`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}
