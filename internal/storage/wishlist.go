package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/0xtz/trackzy-finance-app/internal/core"
)

// ListWishlistItems returns one page of the owner's live wishlist, newest
// first. purchased narrows the listing when non-nil.
func (r *SQLiteRepository) ListWishlistItems(ctx context.Context, ownerID string, page core.PageRequest, purchased *bool) (core.Paginated[core.WishlistItem], error) {
	page = page.Normalize()

	query := `
		SELECT id, user_id, name, description, estimated_price, url, image,
		       purchased, priority, created_at, updated_at,
		       COUNT(*) OVER() AS total_count
		FROM wishlist_items
		WHERE user_id = ? AND deleted_at IS NULL`
	args := []any{ownerID}
	if purchased != nil {
		query += " AND purchased = ?"
		args = append(args, *purchased)
	}
	query += `
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?`
	args = append(args, page.PageSize, page.Offset())

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return core.Paginated[core.WishlistItem]{}, fmt.Errorf("list wishlist items: %w", err)
	}
	defer rows.Close()

	var (
		items []core.WishlistItem
		total int
	)
	for rows.Next() {
		var (
			w                       core.WishlistItem
			desc, price, url, image sql.NullString
		)
		if err := rows.Scan(&w.ID, &w.UserID, &w.Name, &desc, &price, &url, &image,
			&w.Purchased, &w.Priority, &w.CreatedAt, &w.UpdatedAt, &total); err != nil {
			return core.Paginated[core.WishlistItem]{}, fmt.Errorf("scan wishlist item: %w", err)
		}
		w.Description = strPtr(desc)
		w.EstimatedPrice = strPtr(price)
		w.URL = strPtr(url)
		w.Image = strPtr(image)
		items = append(items, w)
	}
	if err := rows.Err(); err != nil {
		return core.Paginated[core.WishlistItem]{}, fmt.Errorf("iterate wishlist items: %w", err)
	}

	return core.NewPaginated(items, page, total), nil
}

func (r *SQLiteRepository) GetWishlistItem(ctx context.Context, ownerID, id string) (*core.WishlistItem, error) {
	var (
		w                       core.WishlistItem
		desc, price, url, image sql.NullString
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, name, description, estimated_price, url, image,
		       purchased, priority, created_at, updated_at
		FROM wishlist_items
		WHERE id = ? AND user_id = ? AND deleted_at IS NULL`,
		id, ownerID).Scan(&w.ID, &w.UserID, &w.Name, &desc, &price, &url, &image,
		&w.Purchased, &w.Priority, &w.CreatedAt, &w.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get wishlist item: %w", err)
	}
	w.Description = strPtr(desc)
	w.EstimatedPrice = strPtr(price)
	w.URL = strPtr(url)
	w.Image = strPtr(image)
	return &w, nil
}

func (r *SQLiteRepository) InsertWishlistItem(ctx context.Context, w core.WishlistItem) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO wishlist_items (id, user_id, name, description, estimated_price, url,
		                            image, purchased, priority, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		w.ID, w.UserID, w.Name, nullStr(w.Description), nullStr(w.EstimatedPrice), nullStr(w.URL),
		nullStr(w.Image), w.Purchased, w.Priority, w.CreatedAt, w.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert wishlist item: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) UpdateWishlistItem(ctx context.Context, w core.WishlistItem) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE wishlist_items
		SET name = ?, description = ?, estimated_price = ?, url = ?, image = ?,
		    purchased = ?, priority = ?, updated_at = ?
		WHERE id = ? AND user_id = ? AND deleted_at IS NULL`,
		w.Name, nullStr(w.Description), nullStr(w.EstimatedPrice), nullStr(w.URL), nullStr(w.Image),
		w.Purchased, w.Priority, w.UpdatedAt, w.ID, w.UserID)
	if err != nil {
		return false, fmt.Errorf("update wishlist item: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update wishlist item rows affected: %w", err)
	}
	return n > 0, nil
}

// SetWishlistPurchased flips the purchased flag. Setting the flag to its
// current value still matches the row, so repeated toggles to the same state
// report success.
func (r *SQLiteRepository) SetWishlistPurchased(ctx context.Context, ownerID, id string, purchased bool, now time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE wishlist_items
		SET purchased = ?, updated_at = ?
		WHERE id = ? AND user_id = ? AND deleted_at IS NULL`,
		purchased, now, id, ownerID)
	if err != nil {
		return false, fmt.Errorf("set wishlist purchased: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("set wishlist purchased rows affected: %w", err)
	}
	return n > 0, nil
}

func (r *SQLiteRepository) SoftDeleteWishlistItem(ctx context.Context, ownerID, id string, now time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE wishlist_items SET deleted_at = ?
		WHERE id = ? AND user_id = ? AND deleted_at IS NULL`,
		now, id, ownerID)
	if err != nil {
		return false, fmt.Errorf("soft delete wishlist item: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("soft delete wishlist item rows affected: %w", err)
	}
	return n > 0, nil
}
