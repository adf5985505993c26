// Package services implements the per-resource operations exposed to the
// HTTP layer: paginated listing, upsert, soft delete, duplicate and the
// wishlist purchased toggle.
//
// Validation always precedes persistence and surfaces as core.FieldErrors.
// "Not found" and "not yours" collapse into one unsuccessful-but-not-error
// outcome so existence never leaks across owners. Only unexpected storage
// failures are returned as errors.
package services

import (
	"context"
	"log/slog"

	applog "github.com/0xtz/trackzy-finance-app/internal/log"
	"github.com/0xtz/trackzy-finance-app/internal/storage"
)

// Mutation actions carried on invalidation events.
const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
	ActionToggle = "toggle"
)

// MutationPublisher broadcasts that a resource collection changed and any
// cached listing of it is stale. A nil publisher disables events.
type MutationPublisher interface {
	PublishMutation(ctx context.Context, resource, action, ownerID, resourceID string) error
}

// Services bundles one service per resource over a shared repository and
// publisher.
type Services struct {
	Budgets    *BudgetService
	Expenses   *ExpenseService
	Incomes    *IncomeService
	Wishlist   *WishlistService
	Categories *CategoryService
}

func New(repo *storage.SQLiteRepository, events MutationPublisher) *Services {
	return &Services{
		Budgets:    &BudgetService{repo: repo, events: events},
		Expenses:   &ExpenseService{repo: repo, events: events},
		Incomes:    &IncomeService{repo: repo, events: events},
		Wishlist:   &WishlistService{repo: repo, events: events},
		Categories: &CategoryService{repo: repo, events: events},
	}
}

// publishMutation fires an invalidation event without failing the request;
// the row is already persisted, a lost event only delays a remote refresh.
func publishMutation(ctx context.Context, p MutationPublisher, resource, action, ownerID, resourceID string) {
	if p == nil {
		return
	}
	if err := p.PublishMutation(ctx, resource, action, ownerID, resourceID); err != nil {
		slog.ErrorContext(ctx, "Failed to publish mutation event",
			applog.FieldResource, resource,
			applog.FieldAction, action,
			applog.FieldResourceID, resourceID,
			applog.FieldError, err)
	}
}
