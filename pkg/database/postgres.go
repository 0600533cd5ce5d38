package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"github.com/Alijeyrad/medibook_backend/config"
)

// buildDSN renders a lib/pq key=value connection string. Values containing
// spaces, quotes or backslashes are single-quoted as libpq requires.
func buildDSN(host string, port int, user, password, dbname, sslmode string) string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		dsnValue(host), port, dsnValue(user), dsnValue(password), dsnValue(dbname), dsnValue(sslmode),
	)
}

func dsnValue(v string) string {
	if v != "" && !strings.ContainsAny(v, ` '\`) {
		return v
	}
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}

func openSQLDB(cfg Config) (*sql.DB, error) {
	conn, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	def := DefaultConfig()
	conn.SetMaxOpenConns(orDefault(cfg.MaxOpenConns, def.MaxOpenConns))
	conn.SetMaxIdleConns(orDefault(cfg.MaxIdleConns, def.MaxIdleConns))
	conn.SetConnMaxLifetime(cfg.ConnMaxLifetime())

	if err := Ping(context.Background(), conn); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return conn, nil
}

func orDefault(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}

// Open connects to the main application database described by central config.
func Open(cfg config.DatabaseConfig) (*sql.DB, error) {
	return openSQLDB(FromCentralConfig(cfg))
}

// Ping checks the connection within a short deadline. The readiness probe
// and startup both go through it.
func Ping(ctx context.Context, db *sql.DB) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return db.PingContext(ctx)
}
