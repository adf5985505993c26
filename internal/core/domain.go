package core

import (
	"errors"
	"time"
)

// Resource names every mutation and listing is keyed by. They drive cache
// invalidation and event routing, so they must stay stable.
const (
	ResourceBudget   = "budget"
	ResourceExpense  = "expense"
	ResourceIncome   = "income"
	ResourceWishlist = "wishlist"
	ResourceCategory = "category"
)

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

const (
	CategoryExpense CategoryType = "expense"
	CategoryIncome  CategoryType = "income"
)

type (
	// Priority ranks a wishlist item. Defaults to Low.
	Priority string

	// CategoryType splits categories between the expense and income ledgers.
	CategoryType string

	Budget struct {
		ID          string     `json:"id"`
		UserID      string     `json:"user_id"`
		Name        string     `json:"name"`
		Description *string    `json:"description"`
		Amount      string     `json:"amount"`
		CreatedAt   time.Time  `json:"created_at"`
		UpdatedAt   time.Time  `json:"updated_at"`
		DeletedAt   *time.Time `json:"-"`
	}

	Expense struct {
		ID          string     `json:"id"`
		UserID      string     `json:"user_id"`
		Name        string     `json:"name"`
		Description *string    `json:"description"`
		Amount      string     `json:"amount"`
		Date        time.Time  `json:"date"`
		Icon        *string    `json:"icon"`
		CategoryID  *string    `json:"category_id"`
		BudgetID    *string    `json:"budget_id"`
		CreatedAt   time.Time  `json:"created_at"`
		UpdatedAt   time.Time  `json:"updated_at"`
		DeletedAt   *time.Time `json:"-"`

		// Joined summaries, populated on listings only.
		Category *CategorySummary `json:"category,omitempty"`
		Budget   *BudgetSummary   `json:"budget,omitempty"`
	}

	Income struct {
		ID          string     `json:"id"`
		UserID      string     `json:"user_id"`
		Name        string     `json:"name"`
		Description *string    `json:"description"`
		Amount      string     `json:"amount"`
		Date        time.Time  `json:"date"`
		Icon        *string    `json:"icon"`
		CategoryID  *string    `json:"category_id"`
		CreatedAt   time.Time  `json:"created_at"`
		UpdatedAt   time.Time  `json:"updated_at"`
		DeletedAt   *time.Time `json:"-"`

		Category *CategorySummary `json:"category,omitempty"`
	}

	WishlistItem struct {
		ID             string     `json:"id"`
		UserID         string     `json:"user_id"`
		Name           string     `json:"name"`
		Description    *string    `json:"description"`
		EstimatedPrice *string    `json:"estimated_price"`
		URL            *string    `json:"url"`
		Image          *string    `json:"image"`
		Purchased      bool       `json:"purchased"`
		Priority       Priority   `json:"priority"`
		CreatedAt      time.Time  `json:"created_at"`
		UpdatedAt      time.Time  `json:"updated_at"`
		DeletedAt      *time.Time `json:"-"`
	}

	Category struct {
		ID        string       `json:"id"`
		UserID    string       `json:"user_id"`
		Name      string       `json:"name"`
		Icon      *string      `json:"icon"`
		Color     *string      `json:"color"`
		Type      CategoryType `json:"type"`
		CreatedAt time.Time    `json:"created_at"`
		UpdatedAt time.Time    `json:"updated_at"`
		DeletedAt *time.Time   `json:"-"`
	}

	// CategorySummary is the slice of a category embedded in expense and
	// income listings.
	CategorySummary struct {
		ID    string  `json:"id"`
		Name  string  `json:"name"`
		Icon  *string `json:"icon"`
		Color *string `json:"color"`
	}

	// BudgetSummary is the slice of a budget embedded in expense listings.
	BudgetSummary struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidPriority = errors.New("invalid priority")
	ErrInvalidType     = errors.New("invalid category type")
)

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Valid reports whether t is one of the known category types.
func (t CategoryType) Valid() bool {
	return t == CategoryExpense || t == CategoryIncome
}

// CopySuffix is appended to the name (and non-null description) of a
// duplicated row.
const CopySuffix = " (Copy)"
