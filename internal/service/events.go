package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"musafir/internal/cache"
	apperrors "musafir/internal/errors"
	"musafir/internal/logger"
	"musafir/internal/models"
	"musafir/internal/pricing"
	"musafir/internal/repository"
	"musafir/internal/sanitize"

	"github.com/lib/pq"
)

type EventService struct {
	eventRepo *repository.EventRepository
	cache     *cache.Client
}

func NewEventService(eventRepo *repository.EventRepository, cacheClient *cache.Client) *EventService {
	return &EventService{
		eventRepo: eventRepo,
		cache:     cacheClient,
	}
}

// List returns published events as summaries. Unfiltered pages are served
// from the Redis cache; a search query always goes to the repository.
func (s *EventService) List(ctx context.Context, query string, page, pageSize int) ([]models.EventSummary, error) {
	cacheable := query == "" && s.cache != nil

	if cacheable {
		if raw, err := s.cache.GetEventsListRaw(ctx, page, pageSize); err == nil && raw != nil {
			var cached []models.EventSummary
			if json.Unmarshal(raw, &cached) == nil {
				return cached, nil
			}
		}
	}

	events, err := s.eventRepo.List(ctx, query, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	summaries := make([]models.EventSummary, len(events))
	for i := range events {
		summaries[i] = summarize(&events[i])
	}

	if cacheable {
		if err := s.cache.SetEventsList(ctx, page, pageSize, summaries); err != nil {
			logger.WithContext(ctx).Warn("Failed to cache events list", "error", err)
		}
	}

	return summaries, nil
}

func summarize(e *models.Event) models.EventSummary {
	summary := models.EventSummary{
		ID:           e.ID,
		Title:        e.Title,
		Slug:         e.Slug,
		Location:     e.Location,
		Price:        e.Price,
		DisplayPrice: pricing.DisplayPrice(e),
	}
	if pricing.DiscountValid(e.Price, e.DiscountedPrice) {
		summary.DiscountedPrice = e.DiscountedPrice
	}
	if len(e.Images) > 0 {
		summary.CoverImage = e.Images[0]
	}
	return summary
}

// GetBySlug returns one published event for the public detail page.
func (s *EventService) GetBySlug(ctx context.Context, slug string) (*models.Event, error) {
	event, err := s.eventRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	if event == nil || !event.Published {
		return nil, apperrors.ErrNotFound
	}
	return event, nil
}

// GetByID returns an event regardless of its published flag, for admins.
func (s *EventService) GetByID(ctx context.Context, id int64) (*models.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	if event == nil {
		return nil, apperrors.ErrNotFound
	}
	return event, nil
}

// TransportOptions resolves the modes offered for one calendar day and prices
// them, so the checkout summary and the booking total come from one place.
func (s *EventService) TransportOptions(ctx context.Context, eventID int64, departure string, day, month, year int) (*models.TransportOptionsResponse, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	if event == nil || !event.Published {
		return nil, apperrors.ErrNotFound
	}

	dep := event.DepartureByLabel(departure)
	if dep == nil {
		return nil, apperrors.NewValidation("departure", "unknown departure")
	}

	group := dep.DateGroupFor(month, year)
	if group == nil {
		return nil, apperrors.NewValidation("date", "no dates offered for that month")
	}
	if !group.HasDay(day) {
		return nil, apperrors.NewValidation("date", "day not offered")
	}

	return &models.TransportOptionsResponse{
		EventID:        eventID,
		Departure:      departure,
		Day:            day,
		Month:          month,
		Year:           year,
		EffectivePrice: pricing.EffectivePrice(event, dep),
		Options:        pricing.OfferedOptions(dep, group, day),
	}, nil
}

// ListAll returns events including drafts, for the admin back-office.
func (s *EventService) ListAll(ctx context.Context, page, pageSize int) ([]models.Event, error) {
	events, err := s.eventRepo.ListAll(ctx, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

// Create validates a full event document through the sanitizer and persists it.
func (s *EventService) Create(ctx context.Context, raw map[string]any) (*models.Event, error) {
	patch, err := sanitize.Event(raw)
	if err != nil {
		return nil, err
	}

	event, err := eventFromPatch(patch.Fields())
	if err != nil {
		return nil, err
	}

	if err := s.eventRepo.Create(ctx, event); err != nil {
		if isDuplicateKey(err) {
			return nil, apperrors.NewValidation("slug", "already in use")
		}
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	s.invalidateListCache(ctx)
	return event, nil
}

// Update applies a sanitized partial patch. Omitted fields stay untouched.
func (s *EventService) Update(ctx context.Context, id int64, raw map[string]any) (*models.Event, error) {
	patch, err := sanitize.Event(raw)
	if err != nil {
		return nil, err
	}
	if patch.Empty() {
		return s.GetByID(ctx, id)
	}

	event, err := s.eventRepo.UpdatePartial(ctx, id, patch.Fields())
	if err != nil {
		if isDuplicateKey(err) {
			return nil, apperrors.NewValidation("slug", "already in use")
		}
		return nil, err
	}

	s.invalidateListCache(ctx)
	return event, nil
}

func (s *EventService) Delete(ctx context.Context, id int64) error {
	if err := s.eventRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateListCache(ctx)
	return nil
}

func (s *EventService) invalidateListCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateEventsList(ctx); err != nil {
		logger.WithContext(ctx).Warn("Failed to invalidate events list cache", "error", err)
	}
}

// eventFromPatch assembles a new Event from sanitized creation fields.
// title, slug, location and price are mandatory on create.
func eventFromPatch(fields map[string]any) (*models.Event, error) {
	event := &models.Event{}

	for _, required := range []string{"title", "slug", "location", "price"} {
		if _, ok := fields[required]; !ok {
			return nil, apperrors.NewValidation(required, "is required")
		}
	}

	for column, value := range fields {
		switch column {
		case "title":
			event.Title = value.(string)
		case "slug":
			event.Slug = value.(string)
		case "description":
			event.Description = optString(value)
		case "location":
			event.Location = value.(string)
		case "price":
			event.Price = value.(int64)
		case "discounted_price":
			event.DiscountedPrice = optInt64(value)
		case "brochure":
			event.Brochure = optString(value)
		case "images":
			event.Images = value.(models.StringList)
		case "available_dates":
			event.AvailableDates = value.(models.DateGroups)
		case "departures":
			event.Departures = value.(models.Departures)
		case "itinerary":
			event.Itinerary = value.(models.ItineraryDays)
		case "published":
			event.Published = value.(bool)
		}
	}

	return event, nil
}

func optString(v any) *string {
	if v == nil {
		return nil
	}
	s := v.(string)
	return &s
}

func optInt64(v any) *int64 {
	if v == nil {
		return nil
	}
	n := v.(int64)
	return &n
}

func isDuplicateKey(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "duplicate key")
}
