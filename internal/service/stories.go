package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	apperrors "musafir/internal/errors"
	"musafir/internal/models"
	"musafir/internal/repository"
)

type StoryService struct {
	storyRepo *repository.StoryRepository
}

func NewStoryService(storyRepo *repository.StoryRepository) *StoryService {
	return &StoryService{storyRepo: storyRepo}
}

// List returns published stories for public pages; admins see drafts too.
func (s *StoryService) List(ctx context.Context, admin bool) ([]models.Story, error) {
	stories, err := s.storyRepo.List(ctx, !admin)
	if err != nil {
		return nil, fmt.Errorf("failed to list stories: %w", err)
	}
	return stories, nil
}

func (s *StoryService) GetBySlug(ctx context.Context, slug string, admin bool) (*models.Story, error) {
	story, err := s.storyRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("failed to get story: %w", err)
	}
	if story == nil || (!admin && !story.Published) {
		return nil, apperrors.ErrNotFound
	}
	return story, nil
}

func (s *StoryService) Create(ctx context.Context, req *models.CreateStoryRequest) (*models.Story, error) {
	slug := strings.TrimSpace(req.Slug)
	if slug == "" {
		slug = Slugify(req.Title)
	}

	story := &models.Story{
		Title:      strings.TrimSpace(req.Title),
		Slug:       slug,
		Excerpt:    strings.TrimSpace(req.Excerpt),
		Content:    req.Content,
		CoverImage: strings.TrimSpace(req.CoverImage),
		Published:  req.Published,
	}

	if err := s.storyRepo.Create(ctx, story); err != nil {
		if isDuplicateKey(err) {
			return nil, apperrors.NewValidation("slug", "already in use")
		}
		return nil, fmt.Errorf("failed to create story: %w", err)
	}
	return story, nil
}

func (s *StoryService) Update(ctx context.Context, id int64, req *models.CreateStoryRequest) (*models.Story, error) {
	story, err := s.storyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get story: %w", err)
	}
	if story == nil {
		return nil, apperrors.ErrNotFound
	}

	story.Title = strings.TrimSpace(req.Title)
	if slug := strings.TrimSpace(req.Slug); slug != "" {
		story.Slug = slug
	}
	story.Excerpt = strings.TrimSpace(req.Excerpt)
	story.Content = req.Content
	story.CoverImage = strings.TrimSpace(req.CoverImage)
	story.Published = req.Published

	if err := s.storyRepo.Update(ctx, story); err != nil {
		if isDuplicateKey(err) {
			return nil, apperrors.NewValidation("slug", "already in use")
		}
		return nil, err
	}
	return story, nil
}

func (s *StoryService) Delete(ctx context.Context, id int64) error {
	return s.storyRepo.Delete(ctx, id)
}

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases the title and collapses everything else to hyphens.
func Slugify(title string) string {
	slug := slugStrip.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(slug, "-")
}
