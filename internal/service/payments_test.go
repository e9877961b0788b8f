package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"
	"time"

	"musafir/internal/database"
	apperrors "musafir/internal/errors"
	"musafir/internal/external"
	"musafir/internal/models"
	"musafir/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const paymentTestSecret = "rzp-test-secret"

func newMockPaymentService(t *testing.T) (*PaymentService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	wrapped := &database.DB{DB: db}
	razorpay := external.NewRazorpayClient(external.RazorpayConfig{
		KeyID:     "rzp_test_key",
		KeySecret: paymentTestSecret,
	})
	svc := NewPaymentService(
		repository.NewBookingRepository(wrapped),
		repository.NewEventRepository(wrapped, nil),
		razorpay,
		nil,
		"rzp_test_key",
	)
	return svc, mock
}

func checkoutSignature(orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(paymentTestSecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func bookingRowWithStatus(status, paymentStatus string, orderID any) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(bookingColumns).AddRow(
		int64(11), "bk-ref", int64(3), int64(7), []byte(`[{"name":"Asha","age":29}]`), nil, nil,
		15, 6, 2026, int64(15500), nil,
		status, paymentStatus, orderID, nil, now, now,
	)
}

func verifyRequest() *models.VerifyPaymentRequest {
	return &models.VerifyPaymentRequest{
		BookingID:         11,
		RazorpayOrderID:   "order_abc",
		RazorpayPaymentID: "pay_abc",
		RazorpaySignature: checkoutSignature("order_abc", "pay_abc"),
	}
}

// A booking cancelled by the user or expired by the worker stays cancelled
// even when a valid checkout callback arrives afterwards.
func TestVerifyRejectsCancelledBooking(t *testing.T) {
	svc, mock := newMockPaymentService(t)

	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id = \\$1").
		WithArgs(int64(11)).
		WillReturnRows(bookingRowWithStatus(models.BookingCancelled, models.PaymentPending, "order_abc"))

	_, err := svc.Verify(context.Background(), 7, verifyRequest())
	require.Error(t, err)
	assert.True(t, apperrors.IsTransition(err))

	// No seat decrement and no MarkPaid were issued.
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Departure-less bookings draw seats from the event-level date calendar, so
// confirmation must hit the same row-locked decrement as departure bookings.
func TestVerifyDecrementsFlatDateSeats(t *testing.T) {
	svc, mock := newMockPaymentService(t)

	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id = \\$1").
		WithArgs(int64(11)).
		WillReturnRows(bookingRowWithStatus(models.BookingPending, models.PaymentPending, "order_abc"))

	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM events WHERE id = \\$1 FOR UPDATE").
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(eventColumns).AddRow(
			int64(3), "Manali Trek", "manali-trek", nil, "Himachal Pradesh",
			int64(18000), int64(15500), nil,
			nil, []byte(`[{"month":6,"year":2026,"dates":[15],"availableSeats":10,"totalSeats":12}]`), nil, nil,
			true, now, now,
		))
	mock.ExpectExec("UPDATE events SET available_dates = \\$1, updated_at = NOW\\(\\) WHERE id = \\$2").
		WithArgs(sqlmock.AnyArg(), int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	mock.ExpectExec("UPDATE bookings\\s+SET status = \\$1, payment_status = \\$2, razorpay_payment_id = \\$3, updated_at = NOW\\(\\)\\s+WHERE id = \\$4").
		WithArgs(models.BookingConfirmed, models.PaymentSuccess, "pay_abc", int64(11)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	booking, err := svc.Verify(context.Background(), 7, verifyRequest())
	require.NoError(t, err)
	assert.Equal(t, models.BookingConfirmed, booking.Status)
	assert.Equal(t, models.PaymentSuccess, booking.PaymentStatus)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVerifyIdempotentOnSuccess(t *testing.T) {
	svc, mock := newMockPaymentService(t)

	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id = \\$1").
		WithArgs(int64(11)).
		WillReturnRows(bookingRowWithStatus(models.BookingConfirmed, models.PaymentSuccess, "order_abc"))

	booking, err := svc.Verify(context.Background(), 7, verifyRequest())
	require.NoError(t, err)
	assert.Equal(t, models.PaymentSuccess, booking.PaymentStatus)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateOrderRejectsCancelledBooking(t *testing.T) {
	svc, mock := newMockPaymentService(t)

	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id = \\$1").
		WithArgs(int64(11)).
		WillReturnRows(bookingRowWithStatus(models.BookingCancelled, models.PaymentPending, nil))

	_, err := svc.CreateOrder(context.Background(), 7, &models.CreateOrderRequest{BookingID: 11})
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}
