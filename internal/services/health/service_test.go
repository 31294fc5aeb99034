package health

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestStatusWithoutDatabase(t *testing.T) {
	got := NewService(nil).Status(context.Background())
	if !got.OK || got.Database != "memory" {
		t.Fatalf("unexpected report %+v", got)
	}
}

func TestStatusPingsDatabase(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectPing()
	if got := NewService(db).Status(context.Background()); got.Database != "up" {
		t.Fatalf("expected up, got %+v", got)
	}

	mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	if got := NewService(db).Status(context.Background()); got.Database != "unreachable" || !got.OK {
		t.Fatalf("expected unreachable, got %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
