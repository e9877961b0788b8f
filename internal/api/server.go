package api

import (
	"fmt"
	"time"

	"musafir/internal/cache"
	"musafir/internal/config"
	"musafir/internal/database"
	"musafir/internal/external"
	"musafir/internal/handlers"
	"musafir/internal/logger"
	"musafir/internal/messaging"
	"musafir/internal/metrics"
	"musafir/internal/middleware"
	"musafir/internal/repository"
	"musafir/internal/search"
	"musafir/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Server struct {
	router   *gin.Engine
	config   *config.Config
	db       *database.DB
	cache    *cache.Client
	nats     *messaging.NATSClient
	services *service.Services
}

// NewServer wires the full dependency graph. Redis, NATS and Elasticsearch
// are optional at startup: the service degrades rather than refusing to boot.
func NewServer(cfg *config.Config) (*Server, error) {
	gin.SetMode(cfg.GinMode)

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.RunMigrations(); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	cacheClient, err := cache.NewClient(cfg.Cache)
	if err != nil {
		logger.Get().Warn("Redis unavailable, continuing without cache", "error", err)
		cacheClient = nil
	}

	natsClient, err := messaging.NewNATSClient(cfg.NATS)
	if err != nil {
		logger.Get().Warn("NATS unavailable, continuing without event publishing", "error", err)
		natsClient = nil
	}

	var esClient *search.Client
	if cfg.Search.Enabled {
		esClient, err = search.NewClient(cfg.Search)
		if err != nil {
			logger.Get().Warn("Elasticsearch unavailable, search falls back to SQL", "error", err)
			esClient = nil
		}
	}

	razorpayClient := external.NewRazorpayClient(cfg.Razorpay)

	repos := repository.NewRepositoriesWithSearch(db, esClient)
	services := service.NewServices(repos, cacheClient, natsClient, razorpayClient,
		cfg.Razorpay.KeyID, service.AuthConfig{
			JWTSecret: cfg.JWTSecret,
			TokenTTL:  cfg.TokenTTL,
		})

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	router.Use(metrics.Middleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID", "Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	server := &Server{
		router:   router,
		config:   cfg,
		db:       db,
		cache:    cacheClient,
		nats:     natsClient,
		services: services,
	}

	server.setupRoutes()
	return server, nil
}

func (s *Server) setupRoutes() {
	h := handlers.NewHandlers(s.services)
	auth := middleware.JWTAuth(s.config.JWTSecret)
	admin := middleware.RequireAdmin()

	s.router.GET("/health", h.Health)
	s.router.GET("/metrics", metrics.Handler())

	api := s.router.Group("/api")
	{
		// Public catalog and content
		api.GET("/events", h.ListEvents)
		api.GET("/events/:slug", h.GetEvent)
		api.GET("/events/:slug/reviews", h.ListEventReviews)
		api.GET("/stories", h.ListStories)
		api.GET("/stories/:slug", h.GetStory)
		api.GET("/testimonials", h.ListTestimonials)
		api.POST("/testimonials", h.CreateTestimonial)
		api.GET("/settings", h.GetSettings)

		// Transport options resolve against a specific event id
		api.GET("/transport-options/:id", h.GetTransportOptions)

		// Auth
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", h.Register)
			authGroup.POST("/login", h.Login)
			authGroup.POST("/send-otp", h.SendOTP)
			authGroup.POST("/verify-otp", h.VerifyOTP)
			authGroup.POST("/reset-password", h.ResetPassword)
		}

		// Gateway webhook authenticates itself via body HMAC
		api.POST("/payments/webhook", h.PaymentWebhook)

		// Authenticated user surface
		user := api.Group("", auth)
		{
			user.POST("/bookings", h.CreateBooking)
			user.GET("/bookings", h.ListMyBookings)
			user.GET("/bookings/:id", h.GetBooking)
			user.POST("/bookings/:id/cancel", h.CancelBooking)
			user.GET("/bookings/:id/invoice", h.GetBookingInvoice)

			user.POST("/payments/create-order", h.CreateOrder)
			user.POST("/payments/verify", h.VerifyPayment)

			user.GET("/user/profile", h.GetProfile)
			user.PUT("/user/profile", h.UpdateProfile)
			user.GET("/user/reviews", h.ListMyReviews)
			user.POST("/user/reviews", h.CreateReview)
			user.PUT("/user/reviews/:id", h.UpdateReview)
			user.DELETE("/user/reviews/:id", h.DeleteReview)
			user.GET("/user/wishlist", h.ListWishlist)
			user.POST("/user/wishlist", h.AddToWishlist)
			user.DELETE("/user/wishlist/:eventId", h.RemoveFromWishlist)
		}

		// Admin back-office
		adminGroup := api.Group("/admin", auth, admin)
		{
			adminGroup.GET("/events", h.AdminListEvents)
			adminGroup.POST("/events", h.AdminCreateEvent)
			adminGroup.GET("/events/:id", h.AdminGetEvent)
			adminGroup.PUT("/events/:id", h.AdminUpdateEvent)
			adminGroup.DELETE("/events/:id", h.AdminDeleteEvent)

			adminGroup.GET("/bookings", h.AdminListBookings)
			adminGroup.GET("/bookings/export", h.AdminExportBookings)
			adminGroup.POST("/bookings/:id/action", h.AdminBookingAction)

			adminGroup.GET("/users", h.AdminListUsers)
			adminGroup.POST("/users/:id/action", h.AdminUserAction)

			adminGroup.GET("/testimonials", h.AdminListTestimonials)
			adminGroup.POST("/testimonials/:id/approve", h.AdminApproveTestimonial)
			adminGroup.POST("/testimonials/:id/reject", h.AdminRejectTestimonial)
			adminGroup.DELETE("/testimonials/:id", h.AdminDeleteTestimonial)

			adminGroup.GET("/stories", h.AdminListStories)
			adminGroup.POST("/stories", h.AdminCreateStory)
			adminGroup.PUT("/stories/:id", h.AdminUpdateStory)
			adminGroup.DELETE("/stories/:id", h.AdminDeleteStory)

			adminGroup.GET("/settings", h.AdminGetSettings)
			adminGroup.PUT("/settings", h.AdminSaveSettings)
		}
	}
}

// GetRouter exposes the router for tests.
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}

func (s *Server) Cleanup() error {
	if s.nats != nil {
		if err := s.nats.Close(); err != nil {
			logger.Get().Error("Error closing NATS connection", "error", err)
		}
	}

	if s.cache != nil {
		if err := s.cache.Close(); err != nil {
			logger.Get().Error("Error closing Redis connection", "error", err)
		}
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			logger.Get().Error("Error closing database connection", "error", err)
			return err
		}
	}

	return nil
}
