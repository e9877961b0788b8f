package service

import (
	"context"
	"fmt"
	"time"

	apperrors "musafir/internal/errors"
	"musafir/internal/invoice"
	"musafir/internal/logger"
	"musafir/internal/messaging"
	"musafir/internal/metrics"
	"musafir/internal/models"
	"musafir/internal/pricing"
	"musafir/internal/repository"

	"github.com/google/uuid"
)

type BookingService struct {
	bookingRepo *repository.BookingRepository
	eventRepo   *repository.EventRepository
	userRepo    *repository.UserRepository
	natsClient  *messaging.NATSClient
}

func NewBookingService(bookingRepo *repository.BookingRepository, eventRepo *repository.EventRepository, userRepo *repository.UserRepository, natsClient *messaging.NATSClient) *BookingService {
	return &BookingService{
		bookingRepo: bookingRepo,
		eventRepo:   eventRepo,
		userRepo:    userRepo,
		natsClient:  natsClient,
	}
}

// Create validates the request against the event document, recomputes the
// total server-side and persists a PENDING booking. A client total that does
// not match the recomputed one is rejected.
func (s *BookingService) Create(ctx context.Context, userID int64, req *models.CreateBookingRequest) (*models.CreateBookingResponse, error) {
	event, err := s.eventRepo.GetByID(ctx, req.EventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	if event == nil || !event.Published {
		return nil, apperrors.ErrNotFound
	}

	if len(req.Participants) == 0 {
		return nil, apperrors.NewValidation("participants", "at least one participant is required")
	}
	for i, p := range req.Participants {
		if p.Name == "" {
			return nil, apperrors.NewValidation(fmt.Sprintf("participants[%d].name", i), "is required")
		}
		if p.Age <= 0 {
			return nil, apperrors.NewValidation(fmt.Sprintf("participants[%d].age", i), "must be positive")
		}
	}

	quote := pricing.Quote{ParticipantCount: len(req.Participants)}

	var dep *models.Departure
	if req.SelectedDeparture != "" {
		dep = event.DepartureByLabel(req.SelectedDeparture)
		if dep == nil {
			return nil, apperrors.NewValidation("selected_departure", "unknown departure")
		}

		group := dep.DateGroupFor(req.Date.Month, req.Date.Year)
		if group == nil {
			return nil, apperrors.NewValidation("date", "no dates offered for that month")
		}
		if !group.HasDay(req.Date.Day) {
			return nil, apperrors.NewValidation("date", "day not offered")
		}

		if req.SelectedTransport != "" {
			mode := models.TransportMode(req.SelectedTransport)
			if !mode.Valid() {
				return nil, apperrors.NewValidation("selected_transport_mode", "unknown transport mode")
			}
			surcharge, err := pricing.Surcharge(dep, group, req.Date.Day, mode)
			if err != nil {
				return nil, apperrors.NewValidation("selected_transport_mode", "not offered on the selected date")
			}
			quote.Surcharge = surcharge
		}
	} else {
		group := findEventDateGroup(event, req.Date.Month, req.Date.Year)
		if group == nil {
			return nil, apperrors.NewValidation("date", "no dates offered for that month")
		}
		if !group.HasDay(req.Date.Day) {
			return nil, apperrors.NewValidation("date", "day not offered")
		}
	}

	quote.EffectivePrice = pricing.EffectivePrice(event, dep)

	if total := quote.Total(); total != req.TotalAmount {
		return nil, apperrors.NewValidation("total_amount",
			fmt.Sprintf("expected %d, got %d", total, req.TotalAmount))
	}

	booking := &models.Booking{
		Reference:     uuid.New().String(),
		EventID:       req.EventID,
		UserID:        userID,
		Participants:  req.Participants,
		TravelDay:     req.Date.Day,
		TravelMonth:   req.Date.Month,
		TravelYear:    req.Date.Year,
		TotalAmount:   req.TotalAmount,
		Status:        models.BookingPending,
		PaymentStatus: models.PaymentPending,
	}
	if req.SelectedDeparture != "" {
		booking.SelectedDeparture = &req.SelectedDeparture
	}
	if req.SelectedTransport != "" {
		booking.SelectedTransport = &req.SelectedTransport
	}
	if req.SpecialRequests != "" {
		booking.SpecialRequests = &req.SpecialRequests
	}

	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	metrics.BookingCreated()
	s.publish(ctx, models.EventBookingCreated, models.BookingCreatedEvent{
		BookingID:   booking.ID,
		EventID:     booking.EventID,
		UserID:      booking.UserID,
		TotalAmount: booking.TotalAmount,
		Timestamp:   time.Now(),
	})

	return &models.CreateBookingResponse{
		BookingID:   booking.ID,
		Reference:   booking.Reference,
		TotalAmount: booking.TotalAmount,
		Status:      booking.Status,
	}, nil
}

func findEventDateGroup(event *models.Event, month, year int) *models.DateGroup {
	for i := range event.AvailableDates {
		if event.AvailableDates[i].Month == month && event.AvailableDates[i].Year == year {
			return &event.AvailableDates[i]
		}
	}
	return nil
}

// ListByUser returns the caller's booking history.
func (s *BookingService) ListByUser(ctx context.Context, userID int64) ([]models.Booking, error) {
	bookings, err := s.bookingRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get bookings: %w", err)
	}
	return bookings, nil
}

// Get returns one booking, restricted to its owner unless admin is set.
func (s *BookingService) Get(ctx context.Context, id, userID int64, admin bool) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	if booking == nil {
		return nil, apperrors.ErrNotFound
	}
	if !admin && booking.UserID != userID {
		return nil, apperrors.ErrForbidden
	}
	return booking, nil
}

// Cancel moves a booking to CANCELLED on behalf of its owner.
func (s *BookingService) Cancel(ctx context.Context, id, userID int64) error {
	booking, err := s.Get(ctx, id, userID, false)
	if err != nil {
		return err
	}

	return s.transition(ctx, booking, models.BookingCancelled, booking.PaymentStatus, "cancelled by user")
}

// ListFiltered serves the admin listing and the CSV export.
func (s *BookingService) ListFiltered(ctx context.Context, filter repository.BookingFilter) ([]models.Booking, error) {
	bookings, err := s.bookingRepo.ListFiltered(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}

// AdminAction applies confirm/complete/cancel/refund to a booking. Refund
// additionally requires a successful payment.
func (s *BookingService) AdminAction(ctx context.Context, id int64, action string) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	if booking == nil {
		return nil, apperrors.ErrNotFound
	}

	var status, paymentStatus string
	switch action {
	case "confirm":
		status, paymentStatus = models.BookingConfirmed, booking.PaymentStatus
	case "complete":
		status, paymentStatus = models.BookingCompleted, booking.PaymentStatus
	case "cancel":
		status, paymentStatus = models.BookingCancelled, booking.PaymentStatus
	case "refund":
		status, paymentStatus = models.BookingRefunded, models.PaymentRefunded
	default:
		return nil, apperrors.NewValidation("action", "must be confirm, complete, cancel or refund")
	}

	if err := s.transition(ctx, booking, status, paymentStatus, "admin action: "+action); err != nil {
		return nil, err
	}

	booking.Status = status
	booking.PaymentStatus = paymentStatus
	return booking, nil
}

func (s *BookingService) transition(ctx context.Context, booking *models.Booking, status, paymentStatus, reason string) error {
	paymentSuccess := booking.PaymentStatus == models.PaymentSuccess
	if !models.CanTransitionBooking(booking.Status, status, paymentSuccess) {
		return &apperrors.TransitionError{From: booking.Status, To: status}
	}
	if paymentStatus != booking.PaymentStatus && !models.CanTransitionPayment(booking.PaymentStatus, paymentStatus) {
		return &apperrors.TransitionError{From: booking.PaymentStatus, To: paymentStatus}
	}

	if err := s.bookingRepo.UpdateStatus(ctx, booking.ID, status, paymentStatus); err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}

	switch status {
	case models.BookingCancelled:
		s.publish(ctx, models.EventBookingCancelled, models.BookingCancelledEvent{
			BookingID: booking.ID,
			EventID:   booking.EventID,
			Reason:    reason,
			Timestamp: time.Now(),
		})
	case models.BookingRefunded:
		paymentID := ""
		if booking.RazorpayPaymentID != nil {
			paymentID = *booking.RazorpayPaymentID
		}
		s.publish(ctx, models.EventPaymentRefunded, models.PaymentRefundedEvent{
			BookingID: booking.ID,
			PaymentID: paymentID,
			Amount:    booking.TotalAmount,
			Timestamp: time.Now(),
		})
	}

	return nil
}

// ExpirePending cancels PENDING bookings older than the cutoff. Called by
// the worker on a ticker.
func (s *BookingService) ExpirePending(ctx context.Context, maxAge time.Duration) (int, error) {
	stale, err := s.bookingRepo.GetExpired(ctx, time.Now().Add(-maxAge))
	if err != nil {
		return 0, fmt.Errorf("failed to find expired bookings: %w", err)
	}

	expired := 0
	for i := range stale {
		booking := &stale[i]
		if err := s.bookingRepo.UpdateStatus(ctx, booking.ID, models.BookingCancelled, booking.PaymentStatus); err != nil {
			logger.WithContext(ctx).Error("Failed to expire booking", "error", err, "booking_id", booking.ID)
			continue
		}
		expired++
		s.publish(ctx, models.EventBookingExpired, models.BookingExpiredEvent{
			BookingID: booking.ID,
			EventID:   booking.EventID,
			Reason:    "payment not completed in time",
			Timestamp: time.Now(),
		})
	}

	return expired, nil
}

// Invoice renders the booking invoice PDF for its owner.
func (s *BookingService) Invoice(ctx context.Context, id, userID int64, admin bool) ([]byte, string, error) {
	booking, err := s.Get(ctx, id, userID, admin)
	if err != nil {
		return nil, "", err
	}

	event, err := s.eventRepo.GetByID(ctx, booking.EventID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to get event: %w", err)
	}

	user, err := s.userRepo.GetByID(ctx, booking.UserID)
	if err != nil {
		logger.WithContext(ctx).Warn("Failed to load user for invoice", "error", err, "user_id", booking.UserID)
	}

	return invoice.Build(invoice.Data{Booking: booking, Event: event, User: user})
}

// EventTitles resolves titles for the export's "all" scope.
func (s *BookingService) EventTitles(ctx context.Context, bookings []models.Booking) map[int64]string {
	titles := make(map[int64]string)
	for i := range bookings {
		id := bookings[i].EventID
		if _, ok := titles[id]; ok {
			continue
		}
		event, err := s.eventRepo.GetByID(ctx, id)
		if err != nil || event == nil {
			continue
		}
		titles[id] = event.Title
	}
	return titles
}

func (s *BookingService) publish(ctx context.Context, subject string, data any) {
	if s.natsClient == nil {
		return
	}
	if err := s.natsClient.Publish(subject, data); err != nil {
		logger.WithContext(ctx).Error("Failed to publish event",
			"error", err,
			"subject", subject)
	}
}
