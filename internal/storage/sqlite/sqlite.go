// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/budgetsync/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Open database with pure Go driver
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign keys; budget deletion relies on them to cascade the
	// member rows and null out expense back-references.
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	// Run migrations
	if err := runMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// isUniqueViolation reports whether the error is a UNIQUE constraint failure.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// recomputeSpentTx re-derives a budget's spent aggregate from its expenses
// inside the given transaction. The subquery and the write run as a single
// statement, so the aggregate can never be observed stale.
func recomputeSpentTx(ctx context.Context, tx *sql.Tx, budgetID string) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE budgets
		SET spent = (SELECT COALESCE(SUM(amount), 0) FROM expenses WHERE budget_id = ?)
		WHERE id = ?
	`, budgetID, budgetID)
	if err != nil {
		return fmt.Errorf("failed to recompute spent: %w", err)
	}
	return nil
}

// RecomputeSpent re-derives and stores the spent aggregate for a budget,
// returning the new value. Calling it twice with no intervening mutation
// yields the same result.
func (s *SQLiteStore) RecomputeSpent(ctx context.Context, budgetID string) (float64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := recomputeSpentTx(ctx, tx, budgetID); err != nil {
		return 0, err
	}

	var spent float64
	err = tx.QueryRowContext(ctx, "SELECT spent FROM budgets WHERE id = ?", budgetID).Scan(&spent)
	if err == sql.ErrNoRows {
		return 0, storage.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read spent: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return spent, nil
}
