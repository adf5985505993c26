// Package storage implements the persistent resource store on SQLite.
//
// Every query is scoped by owner and excludes soft-deleted rows; the owner
// filter always lives inside the statement's WHERE clause, never in a
// separate check, so concurrent requests cannot slip past it. Listings
// compute their total with COUNT(*) OVER() in the same pass as the page of
// rows, keeping count and rows consistent under concurrent writes.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	applog "github.com/0xtz/trackzy-finance-app/internal/log"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// PurgeSoftDeleted physically removes rows that were soft-deleted before the
// cutoff, across all resource tables. Returns the number of rows removed.
func (r *SQLiteRepository) PurgeSoftDeleted(ctx context.Context, cutoff time.Time) (int64, error) {
	tables := []string{"budgets", "expenses", "incomes", "wishlist_items", "categories"}

	var total int64
	for _, table := range tables {
		res, err := r.db.ExecContext(ctx,
			"DELETE FROM "+table+" WHERE deleted_at IS NOT NULL AND deleted_at < ?", cutoff)
		if err != nil {
			return total, fmt.Errorf("purge %s: %w", table, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return total, fmt.Errorf("purge %s rows affected: %w", table, err)
		}
		total += n
	}

	if total > 0 {
		slog.InfoContext(ctx, "Purged soft-deleted rows", applog.FieldCount, total, "cutoff", cutoff)
	}
	return total, nil
}

// nullStr adapts an optional text field for binding.
func nullStr(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}

// strPtr adapts a scanned nullable column back to the domain form.
func strPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
