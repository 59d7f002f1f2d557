// Package storage persists the iodine food catalog and tracker sessions in
// SQLite.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"iodine-tracker/internal/models"
	"iodine-tracker/internal/storage/migrations"
)

const dsnPragmas = "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"

type SQLiteStorage struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSQLiteStorage opens the database at dbPath and brings its schema up to
// date. A nil logger discards log output.
func NewSQLiteStorage(ctx context.Context, dbPath string, logger *zap.Logger) (*SQLiteStorage, error) {
	if strings.TrimSpace(dbPath) == "" {
		return nil, fmt.Errorf("database path is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := sql.Open("sqlite", filepath.Clean(dbPath)+dsnPragmas)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w: %w", models.ErrStorageUnavailable, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w: %w", models.ErrStorageUnavailable, err)
	}

	storage := &SQLiteStorage{db: db, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return storage, nil
}

func (s *SQLiteStorage) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteStorage) initSchema(ctx context.Context) error {
	if err := applyMigrations(ctx, s.db, migrations.FS, "."); err != nil {
		return err
	}
	return s.ensureStandardizedColumns(ctx)
}

// ensureStandardizedColumns upgrades catalogs created before the
// standardized serving columns existed. Existing rows are filled in by
// Backfill.
func (s *SQLiteStorage) ensureStandardizedColumns(ctx context.Context) error {
	columns, err := s.tableColumns(ctx, "foods")
	if err != nil {
		return err
	}

	additions := []struct {
		name string
		ddl  string
	}{
		{"standardized_quantity", `ALTER TABLE foods ADD COLUMN standardized_quantity REAL`},
		{"standardized_unit", `ALTER TABLE foods ADD COLUMN standardized_unit TEXT`},
	}
	for _, column := range additions {
		if columns[column.name] {
			continue
		}
		if _, err := s.db.ExecContext(ctx, column.ddl); err != nil && !isAlreadyExists(err) {
			return fmt.Errorf("failed to add column %s: %w", column.name, err)
		}
		s.logger.Info("added catalog column", zap.String("column", column.name))
	}
	return nil
}

func (s *SQLiteStorage) tableColumns(ctx context.Context, table string) (map[string]bool, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM pragma_table_info(?)`, table)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s columns: %w", table, err)
	}
	defer rows.Close()

	columns := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan %s column: %w", table, err)
		}
		columns[name] = true
	}
	return columns, rows.Err()
}

func unavailable(action string, err error) error {
	return fmt.Errorf("failed to %s: %w: %w", action, models.ErrStorageUnavailable, err)
}

func (s *SQLiteStorage) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.db == nil {
		return fmt.Errorf("storage is not configured: %w", models.ErrStorageUnavailable)
	}
	return nil
}
