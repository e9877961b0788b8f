package service

import (
	"context"
	"fmt"
	"strings"

	apperrors "musafir/internal/errors"
	"musafir/internal/models"
	"musafir/internal/repository"
)

type TestimonialService struct {
	testimonialRepo *repository.TestimonialRepository
}

func NewTestimonialService(testimonialRepo *repository.TestimonialRepository) *TestimonialService {
	return &TestimonialService{testimonialRepo: testimonialRepo}
}

// List returns approved testimonials for public pages; admins see all.
func (s *TestimonialService) List(ctx context.Context, admin bool) ([]models.Testimonial, error) {
	testimonials, err := s.testimonialRepo.List(ctx, !admin)
	if err != nil {
		return nil, fmt.Errorf("failed to list testimonials: %w", err)
	}
	return testimonials, nil
}

// Create adds an unapproved testimonial pending admin review.
func (s *TestimonialService) Create(ctx context.Context, req *models.CreateTestimonialRequest) (*models.Testimonial, error) {
	if req.Rating != 0 && (req.Rating < 1 || req.Rating > 5) {
		return nil, apperrors.NewValidation("rating", "must be between 1 and 5")
	}

	t := &models.Testimonial{
		AuthorName: strings.TrimSpace(req.AuthorName),
		Location:   strings.TrimSpace(req.Location),
		Content:    strings.TrimSpace(req.Content),
		Rating:     req.Rating,
	}
	if t.AuthorName == "" || t.Content == "" {
		return nil, apperrors.NewValidation("content", "author name and content are required")
	}

	if err := s.testimonialRepo.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to create testimonial: %w", err)
	}
	return t, nil
}

func (s *TestimonialService) SetApproved(ctx context.Context, id int64, approved bool) error {
	return s.testimonialRepo.SetApproved(ctx, id, approved)
}

func (s *TestimonialService) Delete(ctx context.Context, id int64) error {
	return s.testimonialRepo.Delete(ctx, id)
}
