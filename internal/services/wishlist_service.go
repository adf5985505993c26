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

type WishlistService struct {
	repo   *storage.SQLiteRepository
	events MutationPublisher
}

// List pages the owner's wishlist. purchased narrows the listing when
// non-nil.
func (s *WishlistService) List(ctx context.Context, ownerID string, page core.PageRequest, purchased *bool) (core.Paginated[core.WishlistItem], error) {
	return s.repo.ListWishlistItems(ctx, ownerID, page, purchased)
}

func (s *WishlistService) Upsert(ctx context.Context, ownerID string, in core.WishlistInput) (*core.WishlistItem, bool, error) {
	if err := in.Validate(); err != nil {
		return nil, false, err
	}

	var price *string
	if strings.TrimSpace(in.EstimatedPrice) != "" {
		p, err := core.NormalizeAmount(in.EstimatedPrice)
		if err != nil {
			return nil, false, fmt.Errorf("normalize estimated price: %w", err)
		}
		price = &p
	}

	now := time.Now().UTC()
	w := core.WishlistItem{
		ID:             in.ID,
		UserID:         ownerID,
		Name:           strings.TrimSpace(in.Name),
		Description:    core.OptionalText(in.Description),
		EstimatedPrice: price,
		URL:            core.OptionalText(in.URL),
		Image:          core.OptionalText(in.Image),
		Purchased:      in.Purchased,
		Priority:       in.EffectivePriority(),
		UpdatedAt:      now,
	}

	if in.ID != "" {
		ok, err := s.repo.UpdateWishlistItem(ctx, w)
		if err != nil {
			return nil, false, err
		}
		if !ok {
			return nil, false, nil
		}
		updated, err := s.repo.GetWishlistItem(ctx, ownerID, in.ID)
		if err != nil {
			return nil, false, err
		}
		publishMutation(ctx, s.events, core.ResourceWishlist, ActionUpdate, ownerID, in.ID)
		return updated, true, nil
	}

	w.ID = uuid.NewString()
	w.CreatedAt = now
	if err := s.repo.InsertWishlistItem(ctx, w); err != nil {
		return nil, false, err
	}
	publishMutation(ctx, s.events, core.ResourceWishlist, ActionCreate, ownerID, w.ID)
	return &w, true, nil
}

func (s *WishlistService) Delete(ctx context.Context, ownerID, id string) (bool, error) {
	ok, err := s.repo.SoftDeleteWishlistItem(ctx, ownerID, id, time.Now().UTC())
	if err != nil {
		return false, err
	}
	if ok {
		publishMutation(ctx, s.events, core.ResourceWishlist, ActionDelete, ownerID, id)
	}
	return ok, nil
}

func (s *WishlistService) Duplicate(ctx context.Context, ownerID, id string) (*core.WishlistItem, bool, error) {
	src, err := s.repo.GetWishlistItem(ctx, ownerID, id)
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

	if err := s.repo.InsertWishlistItem(ctx, dup); err != nil {
		return nil, false, err
	}
	publishMutation(ctx, s.events, core.ResourceWishlist, ActionCreate, ownerID, dup.ID)
	return &dup, true, nil
}

// TogglePurchased sets the purchased flag to the requested state. Toggling
// to the state the item is already in is a no-op success.
func (s *WishlistService) TogglePurchased(ctx context.Context, ownerID, id string, purchased bool) (bool, error) {
	ok, err := s.repo.SetWishlistPurchased(ctx, ownerID, id, purchased, time.Now().UTC())
	if err != nil {
		return false, err
	}
	if ok {
		publishMutation(ctx, s.events, core.ResourceWishlist, ActionToggle, ownerID, id)
	}
	return ok, nil
}
