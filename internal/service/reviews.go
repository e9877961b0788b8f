package service

import (
	"context"
	"fmt"
	"strings"

	apperrors "musafir/internal/errors"
	"musafir/internal/models"
	"musafir/internal/repository"
)

type ReviewService struct {
	reviewRepo  *repository.ReviewRepository
	bookingRepo *repository.BookingRepository
}

func NewReviewService(reviewRepo *repository.ReviewRepository, bookingRepo *repository.BookingRepository) *ReviewService {
	return &ReviewService{
		reviewRepo:  reviewRepo,
		bookingRepo: bookingRepo,
	}
}

// Create posts a review. The author must have a completed booking on the
// event, and one review per user per event is enforced by a unique index.
func (s *ReviewService) Create(ctx context.Context, userID int64, req *models.CreateReviewRequest) (*models.Review, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, apperrors.NewValidation("rating", "must be between 1 and 5")
	}

	travelled, err := s.hasCompletedBooking(ctx, userID, req.EventID)
	if err != nil {
		return nil, err
	}
	if !travelled {
		return nil, apperrors.ErrForbidden
	}

	review := &models.Review{
		EventID: req.EventID,
		UserID:  userID,
		Rating:  req.Rating,
		Comment: strings.TrimSpace(req.Comment),
	}

	if err := s.reviewRepo.Create(ctx, review); err != nil {
		if isDuplicateKey(err) {
			return nil, apperrors.ErrConflict
		}
		return nil, fmt.Errorf("failed to create review: %w", err)
	}
	return review, nil
}

func (s *ReviewService) hasCompletedBooking(ctx context.Context, userID, eventID int64) (bool, error) {
	bookings, err := s.bookingRepo.GetByUserID(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("failed to get bookings: %w", err)
	}
	for i := range bookings {
		if bookings[i].EventID == eventID && bookings[i].Status == models.BookingCompleted {
			return true, nil
		}
	}
	return false, nil
}

func (s *ReviewService) ListByEvent(ctx context.Context, eventID int64) ([]models.Review, error) {
	reviews, err := s.reviewRepo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return reviews, nil
}

func (s *ReviewService) ListByUser(ctx context.Context, userID int64) ([]models.Review, error) {
	reviews, err := s.reviewRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return reviews, nil
}

// Update edits the caller's own review. Nil fields keep current values.
func (s *ReviewService) Update(ctx context.Context, id, userID int64, req *models.UpdateReviewRequest) (*models.Review, error) {
	review, err := s.owned(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	rating := review.Rating
	if req.Rating != nil {
		rating = *req.Rating
		if rating < 1 || rating > 5 {
			return nil, apperrors.NewValidation("rating", "must be between 1 and 5")
		}
	}

	comment := review.Comment
	if req.Comment != nil {
		comment = strings.TrimSpace(*req.Comment)
	}

	if err := s.reviewRepo.Update(ctx, id, rating, comment); err != nil {
		return nil, err
	}

	review.Rating = rating
	review.Comment = comment
	return review, nil
}

// Delete removes a review; owners may delete their own, admins any.
func (s *ReviewService) Delete(ctx context.Context, id, userID int64, admin bool) error {
	if !admin {
		if _, err := s.owned(ctx, id, userID); err != nil {
			return err
		}
	}
	return s.reviewRepo.Delete(ctx, id)
}

func (s *ReviewService) owned(ctx context.Context, id, userID int64) (*models.Review, error) {
	review, err := s.reviewRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get review: %w", err)
	}
	if review == nil {
		return nil, apperrors.ErrNotFound
	}
	if review.UserID != userID {
		return nil, apperrors.ErrForbidden
	}
	return review, nil
}
