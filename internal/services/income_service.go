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

type IncomeService struct {
	repo   *storage.SQLiteRepository
	events MutationPublisher
}

// List pages the owner's income entries. An unset range defaults to the
// current calendar month.
func (s *IncomeService) List(ctx context.Context, ownerID string, page core.PageRequest, dr core.DateRange) (core.Paginated[core.Income], error) {
	return s.repo.ListIncomes(ctx, ownerID, page, dr.OrDefault(time.Now()))
}

func (s *IncomeService) Upsert(ctx context.Context, ownerID string, in core.IncomeInput) (*core.Income, bool, error) {
	if err := in.Validate(); err != nil {
		return nil, false, err
	}
	amount, err := core.NormalizeAmount(in.Amount)
	if err != nil {
		return nil, false, fmt.Errorf("normalize amount: %w", err)
	}

	now := time.Now().UTC()
	inc := core.Income{
		ID:          in.ID,
		UserID:      ownerID,
		Name:        strings.TrimSpace(in.Name),
		Description: core.OptionalText(in.Description),
		Amount:      amount,
		Date:        in.Date,
		Icon:        core.OptionalText(in.Icon),
		CategoryID:  core.OptionalText(in.CategoryID),
		UpdatedAt:   now,
	}

	if in.ID != "" {
		ok, err := s.repo.UpdateIncome(ctx, inc)
		if err != nil {
			return nil, false, err
		}
		if !ok {
			return nil, false, nil
		}
		updated, err := s.repo.GetIncome(ctx, ownerID, in.ID)
		if err != nil {
			return nil, false, err
		}
		publishMutation(ctx, s.events, core.ResourceIncome, ActionUpdate, ownerID, in.ID)
		return updated, true, nil
	}

	inc.ID = uuid.NewString()
	inc.CreatedAt = now
	if err := s.repo.InsertIncome(ctx, inc); err != nil {
		return nil, false, err
	}
	publishMutation(ctx, s.events, core.ResourceIncome, ActionCreate, ownerID, inc.ID)
	return &inc, true, nil
}

func (s *IncomeService) Delete(ctx context.Context, ownerID, id string) (bool, error) {
	ok, err := s.repo.SoftDeleteIncome(ctx, ownerID, id, time.Now().UTC())
	if err != nil {
		return false, err
	}
	if ok {
		publishMutation(ctx, s.events, core.ResourceIncome, ActionDelete, ownerID, id)
	}
	return ok, nil
}

func (s *IncomeService) Duplicate(ctx context.Context, ownerID, id string) (*core.Income, bool, error) {
	src, err := s.repo.GetIncome(ctx, ownerID, id)
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

	if err := s.repo.InsertIncome(ctx, dup); err != nil {
		return nil, false, err
	}
	publishMutation(ctx, s.events, core.ResourceIncome, ActionCreate, ownerID, dup.ID)
	return &dup, true, nil
}
