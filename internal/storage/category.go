package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/0xtz/trackzy-finance-app/internal/core"
)

// ListCategories returns one page of the owner's live categories, newest
// first. typ narrows the listing to one ledger side when non-empty.
func (r *SQLiteRepository) ListCategories(ctx context.Context, ownerID string, page core.PageRequest, typ core.CategoryType) (core.Paginated[core.Category], error) {
	page = page.Normalize()

	query := `
		SELECT id, user_id, name, icon, color, type, created_at, updated_at,
		       COUNT(*) OVER() AS total_count
		FROM categories
		WHERE user_id = ? AND deleted_at IS NULL`
	args := []any{ownerID}
	if typ != "" {
		query += " AND type = ?"
		args = append(args, typ)
	}
	query += `
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?`
	args = append(args, page.PageSize, page.Offset())

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return core.Paginated[core.Category]{}, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var (
		items []core.Category
		total int
	)
	for rows.Next() {
		var (
			c           core.Category
			icon, color sql.NullString
		)
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &icon, &color, &c.Type,
			&c.CreatedAt, &c.UpdatedAt, &total); err != nil {
			return core.Paginated[core.Category]{}, fmt.Errorf("scan category: %w", err)
		}
		c.Icon = strPtr(icon)
		c.Color = strPtr(color)
		items = append(items, c)
	}
	if err := rows.Err(); err != nil {
		return core.Paginated[core.Category]{}, fmt.Errorf("iterate categories: %w", err)
	}

	return core.NewPaginated(items, page, total), nil
}

func (r *SQLiteRepository) GetCategory(ctx context.Context, ownerID, id string) (*core.Category, error) {
	var (
		c           core.Category
		icon, color sql.NullString
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, name, icon, color, type, created_at, updated_at
		FROM categories
		WHERE id = ? AND user_id = ? AND deleted_at IS NULL`,
		id, ownerID).Scan(&c.ID, &c.UserID, &c.Name, &icon, &color, &c.Type, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	c.Icon = strPtr(icon)
	c.Color = strPtr(color)
	return &c, nil
}

func (r *SQLiteRepository) InsertCategory(ctx context.Context, c core.Category) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO categories (id, user_id, name, icon, color, type, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.UserID, c.Name, nullStr(c.Icon), nullStr(c.Color), c.Type, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) UpdateCategory(ctx context.Context, c core.Category) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE categories
		SET name = ?, icon = ?, color = ?, type = ?, updated_at = ?
		WHERE id = ? AND user_id = ? AND deleted_at IS NULL`,
		c.Name, nullStr(c.Icon), nullStr(c.Color), c.Type, c.UpdatedAt, c.ID, c.UserID)
	if err != nil {
		return false, fmt.Errorf("update category: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update category rows affected: %w", err)
	}
	return n > 0, nil
}

func (r *SQLiteRepository) SoftDeleteCategory(ctx context.Context, ownerID, id string, now time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE categories SET deleted_at = ?
		WHERE id = ? AND user_id = ? AND deleted_at IS NULL`,
		now, id, ownerID)
	if err != nil {
		return false, fmt.Errorf("soft delete category: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("soft delete category rows affected: %w", err)
	}
	return n > 0, nil
}
