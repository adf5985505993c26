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

type ExpenseService struct {
	repo   *storage.SQLiteRepository
	events MutationPublisher
}

// List pages the owner's expenses. An unset range defaults to the current
// calendar month.
func (s *ExpenseService) List(ctx context.Context, ownerID string, page core.PageRequest, dr core.DateRange) (core.Paginated[core.Expense], error) {
	return s.repo.ListExpenses(ctx, ownerID, page, dr.OrDefault(time.Now()))
}

func (s *ExpenseService) Upsert(ctx context.Context, ownerID string, in core.ExpenseInput) (*core.Expense, bool, error) {
	if err := in.Validate(); err != nil {
		return nil, false, err
	}
	amount, err := core.NormalizeAmount(in.Amount)
	if err != nil {
		return nil, false, fmt.Errorf("normalize amount: %w", err)
	}

	now := time.Now().UTC()
	e := core.Expense{
		ID:          in.ID,
		UserID:      ownerID,
		Name:        strings.TrimSpace(in.Name),
		Description: core.OptionalText(in.Description),
		Amount:      amount,
		Date:        in.Date,
		Icon:        core.OptionalText(in.Icon),
		CategoryID:  core.OptionalText(in.CategoryID),
		BudgetID:    core.OptionalText(in.BudgetID),
		UpdatedAt:   now,
	}

	if in.ID != "" {
		ok, err := s.repo.UpdateExpense(ctx, e)
		if err != nil {
			return nil, false, err
		}
		if !ok {
			return nil, false, nil
		}
		updated, err := s.repo.GetExpense(ctx, ownerID, in.ID)
		if err != nil {
			return nil, false, err
		}
		publishMutation(ctx, s.events, core.ResourceExpense, ActionUpdate, ownerID, in.ID)
		return updated, true, nil
	}

	e.ID = uuid.NewString()
	e.CreatedAt = now
	if err := s.repo.InsertExpense(ctx, e); err != nil {
		return nil, false, err
	}
	publishMutation(ctx, s.events, core.ResourceExpense, ActionCreate, ownerID, e.ID)
	return &e, true, nil
}

func (s *ExpenseService) Delete(ctx context.Context, ownerID, id string) (bool, error) {
	ok, err := s.repo.SoftDeleteExpense(ctx, ownerID, id, time.Now().UTC())
	if err != nil {
		return false, err
	}
	if ok {
		publishMutation(ctx, s.events, core.ResourceExpense, ActionDelete, ownerID, id)
	}
	return ok, nil
}

func (s *ExpenseService) Duplicate(ctx context.Context, ownerID, id string) (*core.Expense, bool, error) {
	src, err := s.repo.GetExpense(ctx, ownerID, id)
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

	if err := s.repo.InsertExpense(ctx, dup); err != nil {
		return nil, false, err
	}
	publishMutation(ctx, s.events, core.ResourceExpense, ActionCreate, ownerID, dup.ID)
	return &dup, true, nil
}
