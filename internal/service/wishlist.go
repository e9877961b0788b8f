package service

import (
	"context"
	"fmt"

	apperrors "musafir/internal/errors"
	"musafir/internal/models"
	"musafir/internal/repository"
)

type WishlistService struct {
	wishlistRepo *repository.WishlistRepository
	eventRepo    *repository.EventRepository
}

func NewWishlistService(wishlistRepo *repository.WishlistRepository, eventRepo *repository.EventRepository) *WishlistService {
	return &WishlistService{
		wishlistRepo: wishlistRepo,
		eventRepo:    eventRepo,
	}
}

// Add is idempotent: re-adding an event already on the wishlist succeeds.
func (s *WishlistService) Add(ctx context.Context, userID, eventID int64) error {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return fmt.Errorf("failed to get event: %w", err)
	}
	if event == nil || !event.Published {
		return apperrors.ErrNotFound
	}

	return s.wishlistRepo.Add(ctx, userID, eventID)
}

func (s *WishlistService) Remove(ctx context.Context, userID, eventID int64) error {
	return s.wishlistRepo.Remove(ctx, userID, eventID)
}

func (s *WishlistService) List(ctx context.Context, userID int64) ([]models.EventSummary, error) {
	events, err := s.wishlistRepo.ListEvents(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list wishlist: %w", err)
	}

	summaries := make([]models.EventSummary, len(events))
	for i := range events {
		summaries[i] = summarize(&events[i])
	}
	return summaries, nil
}
