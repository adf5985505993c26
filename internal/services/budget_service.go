package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/0xtz/trackzy-finance-app/internal/core"
	"github.com/0xtz/trackzy-finance-app/internal/storage"
)

type BudgetService struct {
	repo   *storage.SQLiteRepository
	events MutationPublisher
}

func (s *BudgetService) List(ctx context.Context, ownerID string, page core.PageRequest) (core.Paginated[core.Budget], error) {
	return s.repo.ListBudgets(ctx, ownerID, page)
}

// Upsert creates a budget when the payload has no id and updates it when it
// does. An update that matches no live row owned by ownerID reports
// (nil, false, nil).
func (s *BudgetService) Upsert(ctx context.Context, ownerID string, in core.BudgetInput) (*core.Budget, bool, error) {
	if err := in.Validate(); err != nil {
		return nil, false, err
	}
	amount, err := core.NormalizeAmount(in.Amount)
	if err != nil {
		return nil, false, fmt.Errorf("normalize amount: %w", err)
	}

	now := time.Now().UTC()
	b := core.Budget{
		ID:          in.ID,
		UserID:      ownerID,
		Name:        strings.TrimSpace(in.Name),
		Description: core.OptionalText(in.Description),
		Amount:      amount,
		UpdatedAt:   now,
	}

	if in.ID != "" {
		ok, err := s.repo.UpdateBudget(ctx, b)
		if err != nil {
			return nil, false, err
		}
		if !ok {
			return nil, false, nil
		}
		updated, err := s.repo.GetBudget(ctx, ownerID, in.ID)
		if err != nil {
			return nil, false, err
		}
		publishMutation(ctx, s.events, core.ResourceBudget, ActionUpdate, ownerID, in.ID)
		return updated, true, nil
	}

	b.ID = uuid.NewString()
	b.CreatedAt = now
	if err := s.repo.InsertBudget(ctx, b); err != nil {
		return nil, false, err
	}
	publishMutation(ctx, s.events, core.ResourceBudget, ActionCreate, ownerID, b.ID)
	return &b, true, nil
}

func (s *BudgetService) Delete(ctx context.Context, ownerID, id string) (bool, error) {
	ok, err := s.repo.SoftDeleteBudget(ctx, ownerID, id, time.Now().UTC())
	if err != nil {
		return false, err
	}
	if ok {
		publishMutation(ctx, s.events, core.ResourceBudget, ActionDelete, ownerID, id)
	}
	return ok, nil
}

// Duplicate clones a live budget under the same owner, with a fresh id and
// timestamps and the copy marker appended to name and non-null description.
func (s *BudgetService) Duplicate(ctx context.Context, ownerID, id string) (*core.Budget, bool, error) {
	src, err := s.repo.GetBudget(ctx, ownerID, id)
	if err != nil {
		return nil, false, err
	}
	if src == nil {
		return nil, false, nil
	}

	now := time.Now().UTC()
	dup := *src
	dup.ID = uuid.NewString()
	dup.UserID = ownerID
	dup.Name = src.Name + core.CopySuffix
	if src.Description != nil {
		d := *src.Description + core.CopySuffix
		dup.Description = &d
	}
	dup.CreatedAt = now
	dup.UpdatedAt = now

	if err := s.repo.InsertBudget(ctx, dup); err != nil {
		return nil, false, err
	}
	publishMutation(ctx, s.events, core.ResourceBudget, ActionCreate, ownerID, dup.ID)
	return &dup, true, nil
}
