package database

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/Alijeyrad/medibook_backend/config"
)

func TestDSN(t *testing.T) {
	dsn := NewDSN(config.DatabaseConfig{
		Host:     "db",
		Port:     5433,
		User:     "medibook",
		Password: "pw",
		DBName:   "medibook",
		SSLMode:  "disable",
	})

	want := "host=db port=5433 user=medibook password=pw dbname=medibook sslmode=disable"
	if dsn != want {
		t.Errorf("DSN() = %q, want %q", dsn, want)
	}
}

func TestConnMaxLifetimeDefault(t *testing.T) {
	if got := (Config{}).ConnMaxLifetime().Minutes(); got != 5 {
		t.Errorf("ConnMaxLifetime() = %v minutes, want 5", got)
	}
}

func TestMigrate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to create mock database: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS appointments")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := Migrate(context.Background(), db); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Database expectations were not met: %v", err)
	}
}

func TestMigrate_Error(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to create mock database: %v", err)
	}
	defer db.Close()

	boom := errors.New("permission denied")
	mock.ExpectExec("CREATE TABLE").WillReturnError(boom)

	if err := Migrate(context.Background(), db); !errors.Is(err, boom) {
		t.Errorf("Migrate() error = %v, want wrapped %v", err, boom)
	}
}

func TestDatabaseNames(t *testing.T) {
	cfg := &config.Config{
		Database: config.DatabaseConfig{DBName: "medibook"},
		Server:   config.ServerConfig{Databases: []string{"medibook", "", "medibook_test"}},
	}
	got := databaseNames(cfg)
	if len(got) != 2 || got[0] != "medibook" || got[1] != "medibook_test" {
		t.Errorf("databaseNames() = %v", got)
	}
}

func TestCreateDatabases(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to create mock database: %v", err)
	}
	defer db.Close()

	exists := regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname = $1)")
	mock.ExpectQuery(exists).WithArgs("medibook").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(exists).WithArgs("medibook_test").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec(regexp.QuoteMeta(`CREATE DATABASE "medibook_test"`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := createDatabases(context.Background(), db, []string{"medibook", "medibook_test"}); err != nil {
		t.Fatalf("createDatabases() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Database expectations were not met: %v", err)
	}
}

func TestDSN_QuotesSpecialValues(t *testing.T) {
	dsn := NewDSN(config.DatabaseConfig{
		Host:     "db",
		Port:     5432,
		User:     "medibook",
		Password: `p w'd`,
		DBName:   "medibook",
		SSLMode:  "require",
	})

	want := `host=db port=5432 user=medibook password='p w\'d' dbname=medibook sslmode=require`
	if dsn != want {
		t.Errorf("DSN() = %q, want %q", dsn, want)
	}
}
