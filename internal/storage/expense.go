package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/0xtz/trackzy-finance-app/internal/core"
)

// ListExpenses returns one page of the owner's live expenses inside the date
// range, newest date first, with category and budget summaries joined in.
func (r *SQLiteRepository) ListExpenses(ctx context.Context, ownerID string, page core.PageRequest, dr core.DateRange) (core.Paginated[core.Expense], error) {
	page = page.Normalize()

	rows, err := r.db.QueryContext(ctx, `
		SELECT e.id, e.user_id, e.name, e.description, e.amount, e.date, e.icon,
		       e.category_id, e.budget_id, e.created_at, e.updated_at,
		       c.id, c.name, c.icon, c.color,
		       b.id, b.name,
		       COUNT(*) OVER() AS total_count
		FROM expenses e
		LEFT JOIN categories c ON c.id = e.category_id AND c.deleted_at IS NULL
		LEFT JOIN budgets b ON b.id = e.budget_id AND b.deleted_at IS NULL
		WHERE e.user_id = ? AND e.deleted_at IS NULL AND e.date >= ? AND e.date <= ?
		ORDER BY e.date DESC, e.id DESC
		LIMIT ? OFFSET ?`,
		ownerID, dr.From, dr.To, page.PageSize, page.Offset())
	if err != nil {
		return core.Paginated[core.Expense]{}, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var (
		items []core.Expense
		total int
	)
	for rows.Next() {
		var (
			e                        core.Expense
			desc, icon, catID, budID sql.NullString
			cID, cName, cIcon, cCol  sql.NullString
			bID, bName               sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.UserID, &e.Name, &desc, &e.Amount, &e.Date, &icon,
			&catID, &budID, &e.CreatedAt, &e.UpdatedAt,
			&cID, &cName, &cIcon, &cCol,
			&bID, &bName, &total); err != nil {
			return core.Paginated[core.Expense]{}, fmt.Errorf("scan expense: %w", err)
		}
		e.Description = strPtr(desc)
		e.Icon = strPtr(icon)
		e.CategoryID = strPtr(catID)
		e.BudgetID = strPtr(budID)
		if cID.Valid {
			e.Category = &core.CategorySummary{
				ID:    cID.String,
				Name:  cName.String,
				Icon:  strPtr(cIcon),
				Color: strPtr(cCol),
			}
		}
		if bID.Valid {
			e.Budget = &core.BudgetSummary{ID: bID.String, Name: bName.String}
		}
		items = append(items, e)
	}
	if err := rows.Err(); err != nil {
		return core.Paginated[core.Expense]{}, fmt.Errorf("iterate expenses: %w", err)
	}

	return core.NewPaginated(items, page, total), nil
}

// GetExpense fetches one live expense scoped to its owner, (nil, nil) when
// absent.
func (r *SQLiteRepository) GetExpense(ctx context.Context, ownerID, id string) (*core.Expense, error) {
	var (
		e                        core.Expense
		desc, icon, catID, budID sql.NullString
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, name, description, amount, date, icon, category_id, budget_id,
		       created_at, updated_at
		FROM expenses
		WHERE id = ? AND user_id = ? AND deleted_at IS NULL`,
		id, ownerID).Scan(&e.ID, &e.UserID, &e.Name, &desc, &e.Amount, &e.Date, &icon,
		&catID, &budID, &e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get expense: %w", err)
	}
	e.Description = strPtr(desc)
	e.Icon = strPtr(icon)
	e.CategoryID = strPtr(catID)
	e.BudgetID = strPtr(budID)
	return &e, nil
}

func (r *SQLiteRepository) InsertExpense(ctx context.Context, e core.Expense) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO expenses (id, user_id, name, description, amount, date, icon,
		                      category_id, budget_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.UserID, e.Name, nullStr(e.Description), e.Amount, e.Date, nullStr(e.Icon),
		nullStr(e.CategoryID), nullStr(e.BudgetID), e.CreatedAt, e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) UpdateExpense(ctx context.Context, e core.Expense) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE expenses
		SET name = ?, description = ?, amount = ?, date = ?, icon = ?,
		    category_id = ?, budget_id = ?, updated_at = ?
		WHERE id = ? AND user_id = ? AND deleted_at IS NULL`,
		e.Name, nullStr(e.Description), e.Amount, e.Date, nullStr(e.Icon),
		nullStr(e.CategoryID), nullStr(e.BudgetID), e.UpdatedAt, e.ID, e.UserID)
	if err != nil {
		return false, fmt.Errorf("update expense: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update expense rows affected: %w", err)
	}
	return n > 0, nil
}

func (r *SQLiteRepository) SoftDeleteExpense(ctx context.Context, ownerID, id string, now time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE expenses SET deleted_at = ?
		WHERE id = ? AND user_id = ? AND deleted_at IS NULL`,
		now, id, ownerID)
	if err != nil {
		return false, fmt.Errorf("soft delete expense: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("soft delete expense rows affected: %w", err)
	}
	return n > 0, nil
}
