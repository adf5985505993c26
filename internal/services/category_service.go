package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/0xtz/trackzy-finance-app/internal/core"
	"github.com/0xtz/trackzy-finance-app/internal/storage"
)

// CategoryService has a narrower surface than the other resources: no
// duplicate, no toggle. Deletion is soft like everything else, so category
// references on expenses and incomes simply stop resolving in listings.
type CategoryService struct {
	repo   *storage.SQLiteRepository
	events MutationPublisher
}

func (s *CategoryService) List(ctx context.Context, ownerID string, page core.PageRequest, typ core.CategoryType) (core.Paginated[core.Category], error) {
	return s.repo.ListCategories(ctx, ownerID, page, typ)
}

func (s *CategoryService) Upsert(ctx context.Context, ownerID string, in core.CategoryInput) (*core.Category, bool, error) {
	if err := in.Validate(); err != nil {
		return nil, false, err
	}

	now := time.Now().UTC()
	c := core.Category{
		ID:        in.ID,
		UserID:    ownerID,
		Name:      strings.TrimSpace(in.Name),
		Icon:      core.OptionalText(in.Icon),
		Color:     core.OptionalText(in.Color),
		Type:      core.CategoryType(in.Type),
		UpdatedAt: now,
	}

	if in.ID != "" {
		ok, err := s.repo.UpdateCategory(ctx, c)
		if err != nil {
			return nil, false, err
		}
		if !ok {
			return nil, false, nil
		}
		updated, err := s.repo.GetCategory(ctx, ownerID, in.ID)
		if err != nil {
			return nil, false, err
		}
		publishMutation(ctx, s.events, core.ResourceCategory, ActionUpdate, ownerID, in.ID)
		return updated, true, nil
	}

	c.ID = uuid.NewString()
	c.CreatedAt = now
	if err := s.repo.InsertCategory(ctx, c); err != nil {
		return nil, false, err
	}
	publishMutation(ctx, s.events, core.ResourceCategory, ActionCreate, ownerID, c.ID)
	return &c, true, nil
}

func (s *CategoryService) Delete(ctx context.Context, ownerID, id string) (bool, error) {
	ok, err := s.repo.SoftDeleteCategory(ctx, ownerID, id, time.Now().UTC())
	if err != nil {
		return false, err
	}
	if ok {
		publishMutation(ctx, s.events, core.ResourceCategory, ActionDelete, ownerID, id)
	}
	return ok, nil
}
