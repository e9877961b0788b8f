package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	apperrors "musafir/internal/errors"
	"musafir/internal/external"
	"musafir/internal/logger"
	"musafir/internal/messaging"
	"musafir/internal/metrics"
	"musafir/internal/models"
	"musafir/internal/repository"
)

type PaymentService struct {
	bookingRepo *repository.BookingRepository
	eventRepo   *repository.EventRepository
	razorpay    *external.RazorpayClient
	natsClient  *messaging.NATSClient
	keyID       string
}

func NewPaymentService(bookingRepo *repository.BookingRepository, eventRepo *repository.EventRepository, razorpay *external.RazorpayClient, natsClient *messaging.NATSClient, keyID string) *PaymentService {
	return &PaymentService{
		bookingRepo: bookingRepo,
		eventRepo:   eventRepo,
		razorpay:    razorpay,
		natsClient:  natsClient,
		keyID:       keyID,
	}
}

// CreateOrder registers a gateway order for a PENDING booking and stores the
// order id. Amounts are rupees in the domain and paise at the gateway.
func (s *PaymentService) CreateOrder(ctx context.Context, userID int64, req *models.CreateOrderRequest) (*models.CreateOrderResponse, error) {
	booking, err := s.bookingRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	if booking == nil {
		return nil, apperrors.ErrNotFound
	}
	if booking.UserID != userID {
		return nil, apperrors.ErrForbidden
	}
	if booking.PaymentStatus == models.PaymentSuccess {
		return nil, apperrors.ErrConflict
	}
	// Only PENDING bookings are payable; a cancelled or expired booking must
	// not get a fresh gateway order.
	if booking.Status != models.BookingPending {
		return nil, apperrors.ErrConflict
	}

	// An order already exists from a failed attempt; reuse it.
	if booking.RazorpayOrderID != nil && booking.PaymentStatus == models.PaymentPending {
		return &models.CreateOrderResponse{
			OrderID:  *booking.RazorpayOrderID,
			Amount:   booking.TotalAmount * 100,
			Currency: "INR",
			KeyID:    s.keyID,
		}, nil
	}

	order, err := s.razorpay.CreateOrder(booking.TotalAmount*100, booking.Reference, map[string]any{
		"booking_id": booking.ID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gateway order: %w", err)
	}

	if err := s.bookingRepo.SetOrderID(ctx, booking.ID, order.ID); err != nil {
		return nil, fmt.Errorf("failed to store order id: %w", err)
	}

	return &models.CreateOrderResponse{
		OrderID:  order.ID,
		Amount:   order.Amount,
		Currency: order.Currency,
		KeyID:    s.keyID,
	}, nil
}

// Verify checks the checkout callback signature and, on success, confirms the
// booking and decrements seat availability. Verifying an already-successful
// payment is a no-op.
func (s *PaymentService) Verify(ctx context.Context, userID int64, req *models.VerifyPaymentRequest) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	if booking == nil {
		return nil, apperrors.ErrNotFound
	}
	if booking.UserID != userID {
		return nil, apperrors.ErrForbidden
	}

	if booking.PaymentStatus == models.PaymentSuccess {
		return booking, nil
	}

	if booking.RazorpayOrderID == nil || *booking.RazorpayOrderID != req.RazorpayOrderID {
		metrics.PaymentVerified("mismatch")
		return nil, apperrors.NewValidation("razorpay_order_id", "does not match the booking")
	}

	if !s.razorpay.VerifySignature(req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature) {
		metrics.PaymentVerified("invalid_signature")
		s.recordFailure(ctx, booking, "signature verification failed")
		return nil, apperrors.NewValidation("razorpay_signature", "verification failed")
	}

	if err := s.confirm(ctx, booking, req.RazorpayPaymentID); err != nil {
		return nil, err
	}

	metrics.PaymentVerified("success")
	return booking, nil
}

// confirm flips the booking to CONFIRMED/SUCCESS and takes the seats. Seat
// shortage surfaces as a conflict and the payment is left for manual refund.
func (s *PaymentService) confirm(ctx context.Context, booking *models.Booking, paymentID string) error {
	// A cancelled or expired booking stays cancelled even if the checkout
	// callback arrives late.
	if !models.CanTransitionBooking(booking.Status, models.BookingConfirmed, false) {
		return &apperrors.TransitionError{From: booking.Status, To: models.BookingConfirmed}
	}

	// Departure-less bookings draw from the event-level date calendar.
	departure := ""
	if booking.SelectedDeparture != nil {
		departure = *booking.SelectedDeparture
	}
	err := s.eventRepo.DecrementSeats(ctx, booking.EventID, departure,
		booking.TravelMonth, booking.TravelYear, len(booking.Participants))
	if err != nil {
		return err
	}

	if err := s.bookingRepo.MarkPaid(ctx, booking.ID, paymentID); err != nil {
		return fmt.Errorf("failed to mark booking paid: %w", err)
	}

	booking.Status = models.BookingConfirmed
	booking.PaymentStatus = models.PaymentSuccess
	booking.RazorpayPaymentID = &paymentID

	orderID := ""
	if booking.RazorpayOrderID != nil {
		orderID = *booking.RazorpayOrderID
	}
	s.publish(ctx, models.EventPaymentCaptured, models.PaymentCapturedEvent{
		BookingID: booking.ID,
		OrderID:   orderID,
		PaymentID: paymentID,
		Amount:    booking.TotalAmount,
		Timestamp: time.Now(),
	})

	return nil
}

func (s *PaymentService) recordFailure(ctx context.Context, booking *models.Booking, reason string) {
	// FAILED keeps the booking PENDING so payment can be retried.
	if err := s.bookingRepo.UpdateStatus(ctx, booking.ID, booking.Status, models.PaymentFailed); err != nil {
		logger.WithContext(ctx).Error("Failed to record payment failure", "error", err, "booking_id", booking.ID)
		return
	}

	orderID := ""
	if booking.RazorpayOrderID != nil {
		orderID = *booking.RazorpayOrderID
	}
	s.publish(ctx, models.EventPaymentFailed, models.PaymentFailedEvent{
		BookingID: booking.ID,
		OrderID:   orderID,
		Reason:    reason,
		Timestamp: time.Now(),
	})
}

// Webhook payload shapes: only the fields we read.
type webhookEvent struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID      string `json:"id"`
				OrderID string `json:"order_id"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

// HandleWebhook authenticates a gateway webhook by HMAC of the raw body and
// mirrors the verify flow for captured/failed events.
func (s *PaymentService) HandleWebhook(ctx context.Context, body []byte, signature string) error {
	if !s.razorpay.VerifyWebhookSignature(body, signature) {
		return apperrors.ErrUnauthorized
	}

	var event webhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return apperrors.NewValidation("body", "malformed webhook payload")
	}

	orderID := event.Payload.Payment.Entity.OrderID
	if orderID == "" {
		logger.WithContext(ctx).Warn("Webhook without order id", "event", event.Event)
		return nil
	}

	booking, err := s.bookingRepo.GetByOrderID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("failed to get booking by order: %w", err)
	}
	if booking == nil {
		logger.WithContext(ctx).Warn("Webhook for unknown order", "order_id", orderID, "event", event.Event)
		return nil
	}

	switch event.Event {
	case "payment.captured":
		if booking.PaymentStatus == models.PaymentSuccess {
			return nil
		}
		if err := s.confirm(ctx, booking, event.Payload.Payment.Entity.ID); err != nil {
			// Late capture for a booking that is no longer pending; acknowledge
			// so the gateway stops retrying, leave the refund to the admin.
			if apperrors.IsTransition(err) {
				logger.WithContext(ctx).Warn("Ignoring capture for non-pending booking",
					"booking_id", booking.ID, "status", booking.Status, "order_id", orderID)
				return nil
			}
			return err
		}
		return nil
	case "payment.failed":
		if booking.PaymentStatus == models.PaymentPending || booking.PaymentStatus == models.PaymentFailed {
			s.recordFailure(ctx, booking, "gateway reported failure")
		}
		return nil
	default:
		logger.WithContext(ctx).Debug("Ignoring webhook event", "event", event.Event)
		return nil
	}
}

// Refund issues a gateway refund for a successfully paid booking.
func (s *PaymentService) Refund(ctx context.Context, booking *models.Booking) error {
	if booking.PaymentStatus != models.PaymentSuccess {
		return &apperrors.TransitionError{From: booking.PaymentStatus, To: models.PaymentRefunded}
	}
	if booking.RazorpayPaymentID == nil {
		return apperrors.ErrConflict
	}

	if _, err := s.razorpay.RefundPayment(*booking.RazorpayPaymentID, booking.TotalAmount*100); err != nil {
		return fmt.Errorf("failed to refund payment: %w", err)
	}
	return nil
}

func (s *PaymentService) publish(ctx context.Context, subject string, data any) {
	if s.natsClient == nil {
		return
	}
	if err := s.natsClient.Publish(subject, data); err != nil {
		logger.WithContext(ctx).Error("Failed to publish event",
			"error", err,
			"subject", subject)
	}
}
