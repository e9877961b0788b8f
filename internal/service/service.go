package service

import (
	"time"

	"musafir/internal/cache"
	"musafir/internal/external"
	"musafir/internal/messaging"
	"musafir/internal/repository"
)

type Services struct {
	Events       *EventService
	Bookings     *BookingService
	Payments     *PaymentService
	Auth         *AuthService
	Users        *UserService
	Reviews      *ReviewService
	Wishlist     *WishlistService
	Testimonials *TestimonialService
	Stories      *StoryService
	Settings     *SettingsService
}

type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

func NewServices(repos *repository.Repositories, cacheClient *cache.Client, natsClient *messaging.NATSClient, razorpay *external.RazorpayClient, razorpayKeyID string, authCfg AuthConfig) *Services {
	eventService := NewEventService(repos.Events, cacheClient)
	bookingService := NewBookingService(repos.Bookings, repos.Events, repos.Users, natsClient)
	paymentService := NewPaymentService(repos.Bookings, repos.Events, razorpay, natsClient, razorpayKeyID)
	authService := NewAuthService(repos.Users, cacheClient, authCfg)

	return &Services{
		Events:       eventService,
		Bookings:     bookingService,
		Payments:     paymentService,
		Auth:         authService,
		Users:        NewUserService(repos.Users),
		Reviews:      NewReviewService(repos.Reviews, repos.Bookings),
		Wishlist:     NewWishlistService(repos.Wishlist, repos.Events),
		Testimonials: NewTestimonialService(repos.Testimonials),
		Stories:      NewStoryService(repos.Stories),
		Settings:     NewSettingsService(repos.Settings),
	}
}
