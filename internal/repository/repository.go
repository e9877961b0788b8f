package repository

import (
	"musafir/internal/database"
	"musafir/internal/search"
)

type Repositories struct {
	Events       *EventRepository
	Bookings     *BookingRepository
	Users        *UserRepository
	Reviews      *ReviewRepository
	Wishlist     *WishlistRepository
	Testimonials *TestimonialRepository
	Stories      *StoryRepository
	Settings     *SettingsRepository
}

func NewRepositories(db *database.DB) *Repositories {
	return &Repositories{
		Events:       NewEventRepository(db, nil),
		Bookings:     NewBookingRepository(db),
		Users:        NewUserRepository(db),
		Reviews:      NewReviewRepository(db),
		Wishlist:     NewWishlistRepository(db),
		Testimonials: NewTestimonialRepository(db),
		Stories:      NewStoryRepository(db),
		Settings:     NewSettingsRepository(db),
	}
}

// NewRepositoriesWithSearch wires the event repository to Elasticsearch for
// public catalog search. Everything else stays on Postgres.
func NewRepositoriesWithSearch(db *database.DB, es *search.Client) *Repositories {
	repos := NewRepositories(db)
	repos.Events = NewEventRepository(db, es)
	return repos
}
