package database

import (
	"context"
	"database/sql"
	"fmt"
	"slices"

	"github.com/lib/pq"

	"github.com/Alijeyrad/medibook_backend/config"
)

// InitializeDatabases creates the application database, plus any extra names
// listed under server.databases, through the server's maintenance database.
// Run it once before migrate on a fresh server.
func InitializeDatabases(ctx context.Context, cfg *config.Config) error {
	names := databaseNames(cfg)
	if len(names) == 0 {
		return fmt.Errorf("no database names configured")
	}

	maint := FromCentralConfig(cfg.Database)
	maint.DBName = "postgres"

	conn, err := openSQLDB(maint)
	if err != nil {
		return fmt.Errorf("failed to connect to postgres database: %w", err)
	}
	defer conn.Close()

	return createDatabases(ctx, conn, names)
}

func databaseNames(cfg *config.Config) []string {
	var names []string
	if cfg.Database.DBName != "" {
		names = append(names, cfg.Database.DBName)
	}
	for _, n := range cfg.Server.Databases {
		if n != "" && !slices.Contains(names, n) {
			names = append(names, n)
		}
	}
	return names
}

func createDatabases(ctx context.Context, conn *sql.DB, names []string) error {
	for _, name := range names {
		var exists bool
		err := conn.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname = $1)`, name,
		).Scan(&exists)
		if err != nil {
			return fmt.Errorf("check database %q: %w", name, err)
		}
		if exists {
			continue
		}
		// CREATE DATABASE takes no bind parameters.
		if _, err := conn.ExecContext(ctx, "CREATE DATABASE "+pq.QuoteIdentifier(name)); err != nil {
			return fmt.Errorf("create database %q: %w", name, err)
		}
	}
	return nil
}
