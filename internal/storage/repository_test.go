package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/0xtz/trackzy-finance-app/internal/core"
)

func testRepo(t *testing.T) *SQLiteRepository {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	repo, err := NewSQLiteRepository(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteRepository() error = %v", err)
	}
	t.Cleanup(func() {
		if err := repo.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	})
	return repo
}

func strp(s string) *string { return &s }

func testBudget(owner, id, name string, createdAt time.Time) core.Budget {
	return core.Budget{
		ID:        id,
		UserID:    owner,
		Name:      name,
		Amount:    "100",
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func TestBudgets_InsertListRoundTrip(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	b := testBudget("alice", "b1", "Groceries", now)
	b.Description = strp("monthly food")
	if err := repo.InsertBudget(ctx, b); err != nil {
		t.Fatalf("InsertBudget() error = %v", err)
	}

	page, err := repo.ListBudgets(ctx, "alice", core.PageRequest{Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("ListBudgets() error = %v", err)
	}
	if page.TotalItems != 1 || len(page.Items) != 1 {
		t.Fatalf("ListBudgets() totalItems = %d, items = %d, want 1 and 1", page.TotalItems, len(page.Items))
	}
	got := page.Items[0]
	if got.ID != "b1" || got.Name != "Groceries" || got.Amount != "100" {
		t.Errorf("ListBudgets() item = %+v", got)
	}
	if got.Description == nil || *got.Description != "monthly food" {
		t.Errorf("ListBudgets() description = %v, want monthly food", got.Description)
	}
}

func TestBudgets_PaginationMath(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Second)

	for i := 0; i < 11; i++ {
		b := testBudget("alice", fmt.Sprintf("b%02d", i), fmt.Sprintf("Budget %d", i), base.Add(time.Duration(i)*time.Second))
		if err := repo.InsertBudget(ctx, b); err != nil {
			t.Fatalf("InsertBudget() error = %v", err)
		}
	}

	page1, err := repo.ListBudgets(ctx, "alice", core.PageRequest{Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("ListBudgets() error = %v", err)
	}
	if page1.TotalItems != 11 || page1.TotalPages != 2 || len(page1.Items) != 10 {
		t.Errorf("page 1: totalItems = %d, totalPages = %d, items = %d, want 11, 2, 10",
			page1.TotalItems, page1.TotalPages, len(page1.Items))
	}
	// Newest first
	if page1.Items[0].ID != "b10" {
		t.Errorf("page 1 first item = %s, want b10", page1.Items[0].ID)
	}

	page2, err := repo.ListBudgets(ctx, "alice", core.PageRequest{Page: 2, PageSize: 10})
	if err != nil {
		t.Fatalf("ListBudgets() error = %v", err)
	}
	if len(page2.Items) != 1 || page2.Items[0].ID != "b00" {
		t.Errorf("page 2 items = %+v, want single b00", page2.Items)
	}

	// Page past the end is empty but keeps the totals
	page3, err := repo.ListBudgets(ctx, "alice", core.PageRequest{Page: 3, PageSize: 10})
	if err != nil {
		t.Fatalf("ListBudgets() error = %v", err)
	}
	if len(page3.Items) != 0 || page3.TotalItems != 11 || page3.TotalPages != 2 {
		t.Errorf("page 3: items = %d, totalItems = %d, totalPages = %d, want 0, 11, 2",
			len(page3.Items), page3.TotalItems, page3.TotalPages)
	}
}

func TestBudgets_EmptyListingHasZeroPages(t *testing.T) {
	repo := testRepo(t)

	page, err := repo.ListBudgets(context.Background(), "nobody", core.PageRequest{Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("ListBudgets() error = %v", err)
	}
	if page.TotalItems != 0 || page.TotalPages != 0 {
		t.Errorf("empty listing: totalItems = %d, totalPages = %d, want 0 and 0", page.TotalItems, page.TotalPages)
	}
	if page.Items == nil {
		t.Error("empty listing items is nil, want empty slice")
	}
}

func TestBudgets_OwnerScoping(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	if err := repo.InsertBudget(ctx, testBudget("alice", "b1", "Alice budget", now)); err != nil {
		t.Fatalf("InsertBudget() error = %v", err)
	}

	// Another owner cannot read it
	got, err := repo.GetBudget(ctx, "bob", "b1")
	if err != nil {
		t.Fatalf("GetBudget() error = %v", err)
	}
	if got != nil {
		t.Errorf("GetBudget() as bob = %+v, want nil", got)
	}

	// Another owner cannot update it
	hijack := testBudget("bob", "b1", "Hijacked", now)
	ok, err := repo.UpdateBudget(ctx, hijack)
	if err != nil {
		t.Fatalf("UpdateBudget() error = %v", err)
	}
	if ok {
		t.Error("UpdateBudget() as bob succeeded, want no-op")
	}

	// The row is unchanged
	orig, err := repo.GetBudget(ctx, "alice", "b1")
	if err != nil {
		t.Fatalf("GetBudget() error = %v", err)
	}
	if orig == nil || orig.Name != "Alice budget" {
		t.Errorf("GetBudget() after failed hijack = %+v, want unchanged name", orig)
	}

	// Another owner cannot delete it
	deleted, err := repo.SoftDeleteBudget(ctx, "bob", "b1", now)
	if err != nil {
		t.Fatalf("SoftDeleteBudget() error = %v", err)
	}
	if deleted {
		t.Error("SoftDeleteBudget() as bob succeeded, want no-op")
	}
}

func TestBudgets_SoftDeleteExcludesFromQueries(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	if err := repo.InsertBudget(ctx, testBudget("alice", "b1", "Doomed", now)); err != nil {
		t.Fatalf("InsertBudget() error = %v", err)
	}

	deleted, err := repo.SoftDeleteBudget(ctx, "alice", "b1", now)
	if err != nil {
		t.Fatalf("SoftDeleteBudget() error = %v", err)
	}
	if !deleted {
		t.Fatal("SoftDeleteBudget() = false, want true")
	}

	page, err := repo.ListBudgets(ctx, "alice", core.PageRequest{Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("ListBudgets() error = %v", err)
	}
	if page.TotalItems != 0 {
		t.Errorf("ListBudgets() after delete totalItems = %d, want 0", page.TotalItems)
	}

	got, err := repo.GetBudget(ctx, "alice", "b1")
	if err != nil {
		t.Fatalf("GetBudget() error = %v", err)
	}
	if got != nil {
		t.Errorf("GetBudget() after delete = %+v, want nil", got)
	}

	// Updates no longer reach the row either
	ok, err := repo.UpdateBudget(ctx, testBudget("alice", "b1", "Revived", now))
	if err != nil {
		t.Fatalf("UpdateBudget() error = %v", err)
	}
	if ok {
		t.Error("UpdateBudget() on deleted row succeeded, want no-op")
	}
}

func TestExpenses_DateRangeFilter(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	mk := func(id string, date time.Time) core.Expense {
		return core.Expense{
			ID:        id,
			UserID:    "alice",
			Name:      "Expense " + id,
			Amount:    "10",
			Date:      date,
			CreatedAt: date,
			UpdatedAt: date,
		}
	}

	march := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	april := time.Date(2024, 4, 2, 12, 0, 0, 0, time.UTC)
	for id, d := range map[string]time.Time{"e1": march, "e2": april} {
		if err := repo.InsertExpense(ctx, mk(id, d)); err != nil {
			t.Fatalf("InsertExpense() error = %v", err)
		}
	}

	dr := core.CurrentMonthRange(march)
	page, err := repo.ListExpenses(ctx, "alice", core.PageRequest{Page: 1, PageSize: 10}, dr)
	if err != nil {
		t.Fatalf("ListExpenses() error = %v", err)
	}
	if page.TotalItems != 1 || page.Items[0].ID != "e1" {
		t.Errorf("ListExpenses() March window = %+v, want only e1", page.Items)
	}
}

func TestExpenses_ListingEmbedsCategoryAndBudget(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	cat := core.Category{
		ID: "c1", UserID: "alice", Name: "Food", Icon: strp("🍕"),
		Type: core.CategoryExpense, CreatedAt: now, UpdatedAt: now,
	}
	if err := repo.InsertCategory(ctx, cat); err != nil {
		t.Fatalf("InsertCategory() error = %v", err)
	}
	if err := repo.InsertBudget(ctx, testBudget("alice", "b1", "Groceries", now)); err != nil {
		t.Fatalf("InsertBudget() error = %v", err)
	}

	e := core.Expense{
		ID: "e1", UserID: "alice", Name: "Pizza", Amount: "12.5",
		Date: now, CategoryID: strp("c1"), BudgetID: strp("b1"),
		CreatedAt: now, UpdatedAt: now,
	}
	if err := repo.InsertExpense(ctx, e); err != nil {
		t.Fatalf("InsertExpense() error = %v", err)
	}

	page, err := repo.ListExpenses(ctx, "alice", core.PageRequest{Page: 1, PageSize: 10}, core.CurrentMonthRange(now))
	if err != nil {
		t.Fatalf("ListExpenses() error = %v", err)
	}
	if len(page.Items) != 1 {
		t.Fatalf("ListExpenses() items = %d, want 1", len(page.Items))
	}
	got := page.Items[0]
	if got.Category == nil || got.Category.Name != "Food" {
		t.Errorf("expense category = %+v, want Food", got.Category)
	}
	if got.Budget == nil || got.Budget.Name != "Groceries" {
		t.Errorf("expense budget = %+v, want Groceries", got.Budget)
	}

	// A deleted category stops appearing in the join
	if _, err := repo.SoftDeleteCategory(ctx, "alice", "c1", now); err != nil {
		t.Fatalf("SoftDeleteCategory() error = %v", err)
	}
	page, err = repo.ListExpenses(ctx, "alice", core.PageRequest{Page: 1, PageSize: 10}, core.CurrentMonthRange(now))
	if err != nil {
		t.Fatalf("ListExpenses() error = %v", err)
	}
	if page.Items[0].Category != nil {
		t.Errorf("expense category after delete = %+v, want nil", page.Items[0].Category)
	}
}

func TestWishlist_PurchasedFilterAndToggle(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	mk := func(id string, purchased bool) core.WishlistItem {
		return core.WishlistItem{
			ID: id, UserID: "alice", Name: "Item " + id,
			Purchased: purchased, Priority: core.PriorityLow,
			CreatedAt: now, UpdatedAt: now,
		}
	}
	if err := repo.InsertWishlistItem(ctx, mk("w1", false)); err != nil {
		t.Fatalf("InsertWishlistItem() error = %v", err)
	}
	if err := repo.InsertWishlistItem(ctx, mk("w2", true)); err != nil {
		t.Fatalf("InsertWishlistItem() error = %v", err)
	}

	wantPurchased := true
	page, err := repo.ListWishlistItems(ctx, "alice", core.PageRequest{Page: 1, PageSize: 10}, &wantPurchased)
	if err != nil {
		t.Fatalf("ListWishlistItems() error = %v", err)
	}
	if page.TotalItems != 1 || page.Items[0].ID != "w2" {
		t.Errorf("purchased filter = %+v, want only w2", page.Items)
	}

	// Toggle is idempotent: setting the same value still reports success
	for i := 0; i < 2; i++ {
		ok, err := repo.SetWishlistPurchased(ctx, "alice", "w1", true, now)
		if err != nil {
			t.Fatalf("SetWishlistPurchased() error = %v", err)
		}
		if !ok {
			t.Errorf("SetWishlistPurchased() attempt %d = false, want true", i+1)
		}
	}

	got, err := repo.GetWishlistItem(ctx, "alice", "w1")
	if err != nil {
		t.Fatalf("GetWishlistItem() error = %v", err)
	}
	if got == nil || !got.Purchased {
		t.Errorf("GetWishlistItem() after toggle = %+v, want purchased", got)
	}

	// Toggling someone else's item fails
	ok, err := repo.SetWishlistPurchased(ctx, "bob", "w1", false, now)
	if err != nil {
		t.Fatalf("SetWishlistPurchased() error = %v", err)
	}
	if ok {
		t.Error("SetWishlistPurchased() as bob = true, want false")
	}
}

func TestCategories_TypeFilter(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	mk := func(id string, typ core.CategoryType) core.Category {
		return core.Category{
			ID: id, UserID: "alice", Name: "Cat " + id, Type: typ,
			CreatedAt: now, UpdatedAt: now,
		}
	}
	if err := repo.InsertCategory(ctx, mk("c1", core.CategoryExpense)); err != nil {
		t.Fatalf("InsertCategory() error = %v", err)
	}
	if err := repo.InsertCategory(ctx, mk("c2", core.CategoryIncome)); err != nil {
		t.Fatalf("InsertCategory() error = %v", err)
	}

	page, err := repo.ListCategories(ctx, "alice", core.PageRequest{Page: 1, PageSize: 10}, core.CategoryIncome)
	if err != nil {
		t.Fatalf("ListCategories() error = %v", err)
	}
	if page.TotalItems != 1 || page.Items[0].ID != "c2" {
		t.Errorf("type filter = %+v, want only c2", page.Items)
	}

	all, err := repo.ListCategories(ctx, "alice", core.PageRequest{Page: 1, PageSize: 10}, "")
	if err != nil {
		t.Fatalf("ListCategories() error = %v", err)
	}
	if all.TotalItems != 2 {
		t.Errorf("unfiltered totalItems = %d, want 2", all.TotalItems)
	}
}

func TestPurgeSoftDeleted(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	if err := repo.InsertBudget(ctx, testBudget("alice", "old", "Old", now)); err != nil {
		t.Fatalf("InsertBudget() error = %v", err)
	}
	if err := repo.InsertBudget(ctx, testBudget("alice", "recent", "Recent", now)); err != nil {
		t.Fatalf("InsertBudget() error = %v", err)
	}

	// One deleted long ago, one deleted just now
	if _, err := repo.SoftDeleteBudget(ctx, "alice", "old", now.Add(-48*time.Hour)); err != nil {
		t.Fatalf("SoftDeleteBudget() error = %v", err)
	}
	if _, err := repo.SoftDeleteBudget(ctx, "alice", "recent", now); err != nil {
		t.Fatalf("SoftDeleteBudget() error = %v", err)
	}

	purged, err := repo.PurgeSoftDeleted(ctx, now.Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("PurgeSoftDeleted() error = %v", err)
	}
	if purged != 1 {
		t.Errorf("PurgeSoftDeleted() = %d, want 1", purged)
	}
}
