package worker

import (
	"encoding/json"
	"log/slog"

	"musafir/internal/models"
	"musafir/internal/repository"

	"github.com/nats-io/stan.go"
)

// Handlers consume domain events off NATS. They are deliberately small: the
// API already applied the state changes, so consumers handle the follow-up
// work (notifications, audit logging) and ack.
type Handlers struct {
	repos *repository.Repositories
}

func NewHandlers(repos *repository.Repositories) *Handlers {
	return &Handlers{repos: repos}
}

func (h *Handlers) HandleBookingCreated(m *stan.Msg) {
	var event models.BookingCreatedEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal booking created event", "error", err)
		return
	}

	slog.Info("Booking created",
		"booking_id", event.BookingID,
		"event_id", event.EventID,
		"user_id", event.UserID,
		"total_amount", event.TotalAmount)

	m.Ack()
}

func (h *Handlers) HandleBookingCancelled(m *stan.Msg) {
	var event models.BookingCancelledEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal booking cancelled event", "error", err)
		return
	}

	slog.Info("Booking cancelled",
		"booking_id", event.BookingID,
		"event_id", event.EventID,
		"reason", event.Reason)

	m.Ack()
}

func (h *Handlers) HandleBookingExpired(m *stan.Msg) {
	var event models.BookingExpiredEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal booking expired event", "error", err)
		return
	}

	slog.Info("Booking expired",
		"booking_id", event.BookingID,
		"event_id", event.EventID)

	m.Ack()
}

func (h *Handlers) HandlePaymentCaptured(m *stan.Msg) {
	var event models.PaymentCapturedEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal payment captured event", "error", err)
		return
	}

	slog.Info("Payment captured",
		"booking_id", event.BookingID,
		"order_id", event.OrderID,
		"payment_id", event.PaymentID,
		"amount", event.Amount)

	m.Ack()
}

func (h *Handlers) HandlePaymentFailed(m *stan.Msg) {
	var event models.PaymentFailedEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal payment failed event", "error", err)
		return
	}

	slog.Warn("Payment failed",
		"booking_id", event.BookingID,
		"order_id", event.OrderID,
		"reason", event.Reason)

	m.Ack()
}

func (h *Handlers) HandlePaymentRefunded(m *stan.Msg) {
	var event models.PaymentRefundedEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal payment refunded event", "error", err)
		return
	}

	slog.Info("Payment refunded",
		"booking_id", event.BookingID,
		"payment_id", event.PaymentID,
		"amount", event.Amount)

	m.Ack()
}
