package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/0xtz/trackzy-finance-app/internal/core"
)

// ListIncomes mirrors ListExpenses without the budget join.
func (r *SQLiteRepository) ListIncomes(ctx context.Context, ownerID string, page core.PageRequest, dr core.DateRange) (core.Paginated[core.Income], error) {
	page = page.Normalize()

	rows, err := r.db.QueryContext(ctx, `
		SELECT i.id, i.user_id, i.name, i.description, i.amount, i.date, i.icon,
		       i.category_id, i.created_at, i.updated_at,
		       c.id, c.name, c.icon, c.color,
		       COUNT(*) OVER() AS total_count
		FROM incomes i
		LEFT JOIN categories c ON c.id = i.category_id AND c.deleted_at IS NULL
		WHERE i.user_id = ? AND i.deleted_at IS NULL AND i.date >= ? AND i.date <= ?
		ORDER BY i.date DESC, i.id DESC
		LIMIT ? OFFSET ?`,
		ownerID, dr.From, dr.To, page.PageSize, page.Offset())
	if err != nil {
		return core.Paginated[core.Income]{}, fmt.Errorf("list incomes: %w", err)
	}
	defer rows.Close()

	var (
		items []core.Income
		total int
	)
	for rows.Next() {
		var (
			in                      core.Income
			desc, icon, catID       sql.NullString
			cID, cName, cIcon, cCol sql.NullString
		)
		if err := rows.Scan(&in.ID, &in.UserID, &in.Name, &desc, &in.Amount, &in.Date, &icon,
			&catID, &in.CreatedAt, &in.UpdatedAt,
			&cID, &cName, &cIcon, &cCol, &total); err != nil {
			return core.Paginated[core.Income]{}, fmt.Errorf("scan income: %w", err)
		}
		in.Description = strPtr(desc)
		in.Icon = strPtr(icon)
		in.CategoryID = strPtr(catID)
		if cID.Valid {
			in.Category = &core.CategorySummary{
				ID:    cID.String,
				Name:  cName.String,
				Icon:  strPtr(cIcon),
				Color: strPtr(cCol),
			}
		}
		items = append(items, in)
	}
	if err := rows.Err(); err != nil {
		return core.Paginated[core.Income]{}, fmt.Errorf("iterate incomes: %w", err)
	}

	return core.NewPaginated(items, page, total), nil
}

func (r *SQLiteRepository) GetIncome(ctx context.Context, ownerID, id string) (*core.Income, error) {
	var (
		in                core.Income
		desc, icon, catID sql.NullString
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, name, description, amount, date, icon, category_id,
		       created_at, updated_at
		FROM incomes
		WHERE id = ? AND user_id = ? AND deleted_at IS NULL`,
		id, ownerID).Scan(&in.ID, &in.UserID, &in.Name, &desc, &in.Amount, &in.Date, &icon,
		&catID, &in.CreatedAt, &in.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get income: %w", err)
	}
	in.Description = strPtr(desc)
	in.Icon = strPtr(icon)
	in.CategoryID = strPtr(catID)
	return &in, nil
}

func (r *SQLiteRepository) InsertIncome(ctx context.Context, in core.Income) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO incomes (id, user_id, name, description, amount, date, icon,
		                     category_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		in.ID, in.UserID, in.Name, nullStr(in.Description), in.Amount, in.Date, nullStr(in.Icon),
		nullStr(in.CategoryID), in.CreatedAt, in.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert income: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) UpdateIncome(ctx context.Context, in core.Income) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE incomes
		SET name = ?, description = ?, amount = ?, date = ?, icon = ?,
		    category_id = ?, updated_at = ?
		WHERE id = ? AND user_id = ? AND deleted_at IS NULL`,
		in.Name, nullStr(in.Description), in.Amount, in.Date, nullStr(in.Icon),
		nullStr(in.CategoryID), in.UpdatedAt, in.ID, in.UserID)
	if err != nil {
		return false, fmt.Errorf("update income: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update income rows affected: %w", err)
	}
	return n > 0, nil
}

func (r *SQLiteRepository) SoftDeleteIncome(ctx context.Context, ownerID, id string, now time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE incomes SET deleted_at = ?
		WHERE id = ? AND user_id = ? AND deleted_at IS NULL`,
		now, id, ownerID)
	if err != nil {
		return false, fmt.Errorf("soft delete income: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("soft delete income rows affected: %w", err)
	}
	return n > 0, nil
}
