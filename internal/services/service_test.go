package services

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/0xtz/trackzy-finance-app/internal/core"
	"github.com/0xtz/trackzy-finance-app/internal/storage"
)

type recordedMutation struct {
	Resource, Action, OwnerID, ResourceID string
}

type fakePublisher struct {
	mu        sync.Mutex
	mutations []recordedMutation
}

func (f *fakePublisher) PublishMutation(ctx context.Context, resource, action, ownerID, resourceID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mutations = append(f.mutations, recordedMutation{resource, action, ownerID, resourceID})
	return nil
}

func (f *fakePublisher) last(t *testing.T) recordedMutation {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.mutations) == 0 {
		t.Fatal("no mutation published")
	}
	return f.mutations[len(f.mutations)-1]
}

func testServices(t *testing.T) (*Services, *fakePublisher) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	repo, err := storage.NewSQLiteRepository(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteRepository() error = %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })

	pub := &fakePublisher{}
	return New(repo, pub), pub
}

func TestBudgetService_UpsertCreate(t *testing.T) {
	svc, pub := testServices(t)
	ctx := context.Background()

	budget, found, err := svc.Budgets.Upsert(ctx, "alice", core.BudgetInput{
		Name:        "  Groceries  ",
		Description: "   ",
		Amount:      "007.50",
	})
	if err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if !found {
		t.Fatal("Upsert() found = false, want true")
	}
	if budget.ID == "" {
		t.Error("Upsert() assigned empty id")
	}
	if budget.Name != "Groceries" {
		t.Errorf("Upsert() name = %q, want trimmed Groceries", budget.Name)
	}
	if budget.Description != nil {
		t.Errorf("Upsert() description = %v, want nil for blank input", budget.Description)
	}
	if budget.Amount != "7.5" {
		t.Errorf("Upsert() amount = %q, want canonical 7.5", budget.Amount)
	}

	m := pub.last(t)
	if m.Resource != core.ResourceBudget || m.Action != ActionCreate || m.OwnerID != "alice" {
		t.Errorf("published mutation = %+v", m)
	}
}

func TestBudgetService_UpsertValidation(t *testing.T) {
	svc, _ := testServices(t)

	_, _, err := svc.Budgets.Upsert(context.Background(), "alice", core.BudgetInput{
		Name:   "",
		Amount: "-5",
	})
	var fields core.FieldErrors
	if !errors.As(err, &fields) {
		t.Fatalf("Upsert() error = %v, want FieldErrors", err)
	}
	if len(fields) != 2 {
		t.Errorf("Upsert() field errors = %+v, want name and amount", fields)
	}
}

func TestBudgetService_UpsertUpdateNotFound(t *testing.T) {
	svc, _ := testServices(t)

	budget, found, err := svc.Budgets.Upsert(context.Background(), "alice", core.BudgetInput{
		ID:     "does-not-exist",
		Name:   "Whatever",
		Amount: "10",
	})
	if err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if found || budget != nil {
		t.Errorf("Upsert() = (%+v, %v), want (nil, false)", budget, found)
	}
}

func TestBudgetService_UpsertUpdate(t *testing.T) {
	svc, pub := testServices(t)
	ctx := context.Background()

	created, _, err := svc.Budgets.Upsert(ctx, "alice", core.BudgetInput{Name: "Old", Amount: "10"})
	if err != nil {
		t.Fatalf("create error = %v", err)
	}

	updated, found, err := svc.Budgets.Upsert(ctx, "alice", core.BudgetInput{
		ID:          created.ID,
		Name:        "New",
		Description: "now with notes",
		Amount:      "20",
	})
	if err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if !found {
		t.Fatal("Upsert() found = false, want true")
	}
	if updated.Name != "New" || updated.Amount != "20" {
		t.Errorf("Upsert() = %+v", updated)
	}
	if updated.Description == nil || *updated.Description != "now with notes" {
		t.Errorf("Upsert() description = %v", updated.Description)
	}

	m := pub.last(t)
	if m.Action != ActionUpdate || m.ResourceID != created.ID {
		t.Errorf("published mutation = %+v", m)
	}

	// As another owner the same update is a silent no-op
	_, found, err = svc.Budgets.Upsert(ctx, "bob", core.BudgetInput{ID: created.ID, Name: "Stolen", Amount: "1"})
	if err != nil {
		t.Fatalf("Upsert() as bob error = %v", err)
	}
	if found {
		t.Error("Upsert() as bob found = true, want false")
	}
}

func TestBudgetService_Duplicate(t *testing.T) {
	svc, _ := testServices(t)
	ctx := context.Background()

	t.Run("with description", func(t *testing.T) {
		src, _, err := svc.Budgets.Upsert(ctx, "alice", core.BudgetInput{
			Name:        "Groceries",
			Description: "weekly shop",
			Amount:      "100",
		})
		if err != nil {
			t.Fatalf("create error = %v", err)
		}

		dup, found, err := svc.Budgets.Duplicate(ctx, "alice", src.ID)
		if err != nil {
			t.Fatalf("Duplicate() error = %v", err)
		}
		if !found {
			t.Fatal("Duplicate() found = false, want true")
		}
		if dup.ID == src.ID {
			t.Error("Duplicate() reused source id")
		}
		if dup.Name != "Groceries (Copy)" {
			t.Errorf("Duplicate() name = %q", dup.Name)
		}
		if dup.Description == nil || *dup.Description != "weekly shop (Copy)" {
			t.Errorf("Duplicate() description = %v", dup.Description)
		}
	})

	t.Run("null description stays null", func(t *testing.T) {
		src, _, err := svc.Budgets.Upsert(ctx, "alice", core.BudgetInput{Name: "Bare", Amount: "5"})
		if err != nil {
			t.Fatalf("create error = %v", err)
		}

		dup, _, err := svc.Budgets.Duplicate(ctx, "alice", src.ID)
		if err != nil {
			t.Fatalf("Duplicate() error = %v", err)
		}
		if dup.Description != nil {
			t.Errorf("Duplicate() description = %v, want nil", dup.Description)
		}
	})

	t.Run("missing source", func(t *testing.T) {
		dup, found, err := svc.Budgets.Duplicate(ctx, "alice", "nope")
		if err != nil {
			t.Fatalf("Duplicate() error = %v", err)
		}
		if found || dup != nil {
			t.Errorf("Duplicate() = (%+v, %v), want (nil, false)", dup, found)
		}
	})
}

func TestBudgetService_DeleteThenList(t *testing.T) {
	svc, pub := testServices(t)
	ctx := context.Background()

	created, _, err := svc.Budgets.Upsert(ctx, "alice", core.BudgetInput{Name: "Doomed", Amount: "1"})
	if err != nil {
		t.Fatalf("create error = %v", err)
	}

	deleted, err := svc.Budgets.Delete(ctx, "alice", created.ID)
	if err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if !deleted {
		t.Fatal("Delete() = false, want true")
	}

	m := pub.last(t)
	if m.Action != ActionDelete {
		t.Errorf("published mutation = %+v", m)
	}

	page, err := svc.Budgets.List(ctx, "alice", core.PageRequest{Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if page.TotalItems != 0 {
		t.Errorf("List() after delete totalItems = %d, want 0", page.TotalItems)
	}

	// Deleting again reports false, not an error
	deleted, err = svc.Budgets.Delete(ctx, "alice", created.ID)
	if err != nil {
		t.Fatalf("second Delete() error = %v", err)
	}
	if deleted {
		t.Error("second Delete() = true, want false")
	}
}

func TestExpenseService_DefaultDateRange(t *testing.T) {
	svc, _ := testServices(t)
	ctx := context.Background()

	// One expense in the current month, one well outside it
	_, _, err := svc.Expenses.Upsert(ctx, "alice", core.ExpenseInput{
		Name: "Current", Amount: "10", Date: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("create error = %v", err)
	}
	_, _, err = svc.Expenses.Upsert(ctx, "alice", core.ExpenseInput{
		Name: "Ancient", Amount: "10", Date: time.Now().UTC().AddDate(-1, 0, 0),
	})
	if err != nil {
		t.Fatalf("create error = %v", err)
	}

	page, err := svc.Expenses.List(ctx, "alice", core.PageRequest{Page: 1, PageSize: 10}, core.DateRange{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if page.TotalItems != 1 || page.Items[0].Name != "Current" {
		t.Errorf("List() with default range = %+v, want only Current", page.Items)
	}

	// An explicit range reaches the older expense
	old := time.Now().UTC().AddDate(-1, 0, 0)
	explicit := core.CurrentMonthRange(old)
	page, err = svc.Expenses.List(ctx, "alice", core.PageRequest{Page: 1, PageSize: 10}, explicit)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if page.TotalItems != 1 || page.Items[0].Name != "Ancient" {
		t.Errorf("List() with explicit range = %+v, want only Ancient", page.Items)
	}
}

func TestWishlistService_UpsertDefaultsAndToggle(t *testing.T) {
	svc, pub := testServices(t)
	ctx := context.Background()

	item, found, err := svc.Wishlist.Upsert(ctx, "alice", core.WishlistInput{
		Name:           "Camera",
		EstimatedPrice: "499.90",
	})
	if err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if !found {
		t.Fatal("Upsert() found = false, want true")
	}
	if item.Priority != core.PriorityLow {
		t.Errorf("Upsert() priority = %q, want default Low", item.Priority)
	}
	if item.EstimatedPrice == nil || *item.EstimatedPrice != "499.9" {
		t.Errorf("Upsert() estimated price = %v, want canonical 499.9", item.EstimatedPrice)
	}
	if item.Purchased {
		t.Error("Upsert() purchased = true, want false")
	}

	toggled, err := svc.Wishlist.TogglePurchased(ctx, "alice", item.ID, true)
	if err != nil {
		t.Fatalf("TogglePurchased() error = %v", err)
	}
	if !toggled {
		t.Fatal("TogglePurchased() = false, want true")
	}

	m := pub.last(t)
	if m.Resource != core.ResourceWishlist || m.Action != ActionToggle {
		t.Errorf("published mutation = %+v", m)
	}

	purchased := true
	page, err := svc.Wishlist.List(ctx, "alice", core.PageRequest{Page: 1, PageSize: 10}, &purchased)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if page.TotalItems != 1 {
		t.Errorf("List() purchased totalItems = %d, want 1", page.TotalItems)
	}

	// Unknown item reports false
	toggled, err = svc.Wishlist.TogglePurchased(ctx, "alice", "nope", true)
	if err != nil {
		t.Fatalf("TogglePurchased() error = %v", err)
	}
	if toggled {
		t.Error("TogglePurchased() on unknown id = true, want false")
	}
}

func TestCategoryService_UpsertAndTypeValidation(t *testing.T) {
	svc, _ := testServices(t)
	ctx := context.Background()

	_, _, err := svc.Categories.Upsert(ctx, "alice", core.CategoryInput{
		Name: "Food",
		Type: "snack",
	})
	var fields core.FieldErrors
	if !errors.As(err, &fields) {
		t.Fatalf("Upsert() with bad type error = %v, want FieldErrors", err)
	}

	cat, found, err := svc.Categories.Upsert(ctx, "alice", core.CategoryInput{
		Name: "Food",
		Icon: "🍕",
		Type: "expense",
	})
	if err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if !found {
		t.Fatal("Upsert() found = false, want true")
	}
	if cat.Type != core.CategoryExpense {
		t.Errorf("Upsert() type = %q, want expense", cat.Type)
	}
	if cat.Icon == nil || *cat.Icon != "🍕" {
		t.Errorf("Upsert() icon = %v", cat.Icon)
	}
}
