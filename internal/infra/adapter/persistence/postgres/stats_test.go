package postgres_test

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	pg "postboard/internal/infra/adapter/persistence/postgres"
)

func TestStatsRepo_Counts(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT (SELECT COUNT(*) FROM articles)")).
		WillReturnRows(sqlmock.NewRows([]string{"articles", "users"}).AddRow(42, 7))

	articles, users, err := pg.NewStatsRepo(db).Counts(context.Background())
	if err != nil {
		t.Fatalf("Counts err=%v", err)
	}
	if articles != 42 || users != 7 {
		t.Fatalf("Counts = (%d, %d), want (42, 7)", articles, users)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestStatsRepo_Counts_Error(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	boom := errors.New("connection reset")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT (SELECT COUNT(*)")).WillReturnError(boom)

	_, _, err := pg.NewStatsRepo(db).Counts(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("Counts err=%v, want wrapped %v", err, boom)
	}
}
