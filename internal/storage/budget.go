package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/0xtz/trackzy-finance-app/internal/core"
)

// ListBudgets returns one page of the owner's live budgets, newest first.
func (r *SQLiteRepository) ListBudgets(ctx context.Context, ownerID string, page core.PageRequest) (core.Paginated[core.Budget], error) {
	page = page.Normalize()

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, name, description, amount, created_at, updated_at,
		       COUNT(*) OVER() AS total_count
		FROM budgets
		WHERE user_id = ? AND deleted_at IS NULL
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?`,
		ownerID, page.PageSize, page.Offset())
	if err != nil {
		return core.Paginated[core.Budget]{}, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	var (
		items []core.Budget
		total int
	)
	for rows.Next() {
		var (
			b    core.Budget
			desc sql.NullString
		)
		if err := rows.Scan(&b.ID, &b.UserID, &b.Name, &desc, &b.Amount,
			&b.CreatedAt, &b.UpdatedAt, &total); err != nil {
			return core.Paginated[core.Budget]{}, fmt.Errorf("scan budget: %w", err)
		}
		b.Description = strPtr(desc)
		items = append(items, b)
	}
	if err := rows.Err(); err != nil {
		return core.Paginated[core.Budget]{}, fmt.Errorf("iterate budgets: %w", err)
	}

	return core.NewPaginated(items, page, total), nil
}

// GetBudget fetches one live budget scoped to its owner. A missing, foreign
// or soft-deleted row yields (nil, nil).
func (r *SQLiteRepository) GetBudget(ctx context.Context, ownerID, id string) (*core.Budget, error) {
	var (
		b    core.Budget
		desc sql.NullString
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, name, description, amount, created_at, updated_at
		FROM budgets
		WHERE id = ? AND user_id = ? AND deleted_at IS NULL`,
		id, ownerID).Scan(&b.ID, &b.UserID, &b.Name, &desc, &b.Amount, &b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get budget: %w", err)
	}
	b.Description = strPtr(desc)
	return &b, nil
}

func (r *SQLiteRepository) InsertBudget(ctx context.Context, b core.Budget) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO budgets (id, user_id, name, description, amount, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.UserID, b.Name, nullStr(b.Description), b.Amount, b.CreatedAt, b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert budget: %w", err)
	}
	return nil
}

// UpdateBudget rewrites the row's payload fields. The WHERE clause carries
// the owner and liveness guards, so a wrong owner, wrong id or already
// deleted target reports false instead of touching anything.
func (r *SQLiteRepository) UpdateBudget(ctx context.Context, b core.Budget) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE budgets
		SET name = ?, description = ?, amount = ?, updated_at = ?
		WHERE id = ? AND user_id = ? AND deleted_at IS NULL`,
		b.Name, nullStr(b.Description), b.Amount, b.UpdatedAt, b.ID, b.UserID)
	if err != nil {
		return false, fmt.Errorf("update budget: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update budget rows affected: %w", err)
	}
	return n > 0, nil
}

func (r *SQLiteRepository) SoftDeleteBudget(ctx context.Context, ownerID, id string, now time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE budgets SET deleted_at = ?
		WHERE id = ? AND user_id = ? AND deleted_at IS NULL`,
		now, id, ownerID)
	if err != nil {
		return false, fmt.Errorf("soft delete budget: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("soft delete budget rows affected: %w", err)
	}
	return n > 0, nil
}
