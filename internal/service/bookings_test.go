package service

import (
	"context"
	"testing"
	"time"

	"musafir/internal/database"
	apperrors "musafir/internal/errors"
	"musafir/internal/models"
	"musafir/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockBookingService(t *testing.T) (*BookingService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	wrapped := &database.DB{DB: db}
	svc := NewBookingService(
		repository.NewBookingRepository(wrapped),
		repository.NewEventRepository(wrapped, nil),
		repository.NewUserRepository(wrapped),
		nil,
	)
	return svc, mock
}

var eventColumns = []string{
	"id", "title", "slug", "description", "location", "price", "discounted_price", "brochure",
	"images", "available_dates", "departures", "itinerary", "published", "created_at", "updated_at",
}

// departures: one "Delhi" leg offering AC_TRAIN at a 1500 surcharge on the
// 15th of June 2026. Event price 18000 with a valid 15500 discount.
const testDepartures = `[{
	"label": "Delhi", "origin": "Delhi", "destination": "Manali",
	"transportOptions": [{"mode": "AC_TRAIN", "price": 1500}],
	"availableDates": [{"month": 6, "year": 2026, "dates": [15]}]
}]`

func publishedEventRow() *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(eventColumns).AddRow(
		int64(3), "Manali Trek", "manali-trek", nil, "Himachal Pradesh",
		int64(18000), int64(15500), nil,
		nil, []byte(`[{"month":6,"year":2026,"dates":[15]}]`), []byte(testDepartures), nil,
		true, now, now,
	)
}

func expectEventLookup(mock sqlmock.Sqlmock, rows *sqlmock.Rows) {
	mock.ExpectQuery("SELECT (.+) FROM events WHERE id = \\$1").
		WithArgs(int64(3)).
		WillReturnRows(rows)
}

func validBookingRequest() *models.CreateBookingRequest {
	return &models.CreateBookingRequest{
		EventID:           3,
		Date:              models.TravelDateRequest{Day: 15, Month: 6, Year: 2026},
		SelectedDeparture: "Delhi",
		SelectedTransport: "AC_TRAIN",
		Participants: []models.Participant{
			{Name: "Asha", Age: 29},
			{Name: "Ravi", Age: 31},
		},
		// 2 x 15500 discounted price + 1500 transport surcharge
		TotalAmount: 32500,
	}
}

func TestBookingCreateAcceptsMatchingTotal(t *testing.T) {
	svc, mock := newMockBookingService(t)

	expectEventLookup(mock, publishedEventRow())
	mock.ExpectQuery("INSERT INTO bookings").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow(int64(11), time.Now(), time.Now()))

	resp, err := svc.Create(context.Background(), 7, validBookingRequest())
	require.NoError(t, err)
	assert.Equal(t, int64(11), resp.BookingID)
	assert.Equal(t, int64(32500), resp.TotalAmount)
	assert.Equal(t, models.BookingPending, resp.Status)
	assert.NotEmpty(t, resp.Reference)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingCreateRejectsStaleTotal(t *testing.T) {
	svc, mock := newMockBookingService(t)

	expectEventLookup(mock, publishedEventRow())

	req := validBookingRequest()
	req.TotalAmount = 30000

	_, err := svc.Create(context.Background(), 7, req)
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Contains(t, err.Error(), "expected 32500")
}

func TestBookingCreateRejectsUnknownDeparture(t *testing.T) {
	svc, mock := newMockBookingService(t)

	expectEventLookup(mock, publishedEventRow())

	req := validBookingRequest()
	req.SelectedDeparture = "Mumbai"

	_, err := svc.Create(context.Background(), 7, req)
	assert.True(t, apperrors.IsValidation(err))
}

func TestBookingCreateRejectsDayNotOffered(t *testing.T) {
	svc, mock := newMockBookingService(t)

	expectEventLookup(mock, publishedEventRow())

	req := validBookingRequest()
	req.Date.Day = 16

	_, err := svc.Create(context.Background(), 7, req)
	assert.True(t, apperrors.IsValidation(err))
}

func TestBookingCreateUnpublishedEventIsNotFound(t *testing.T) {
	svc, mock := newMockBookingService(t)

	now := time.Now()
	expectEventLookup(mock, sqlmock.NewRows(eventColumns).AddRow(
		int64(3), "Manali Trek", "manali-trek", nil, "Himachal Pradesh",
		int64(18000), nil, nil,
		nil, nil, nil, nil,
		false, now, now,
	))

	_, err := svc.Create(context.Background(), 7, validBookingRequest())
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

var bookingColumns = []string{
	"id", "reference", "event_id", "user_id", "participants", "selected_departure",
	"selected_transport_mode", "travel_day", "travel_month", "travel_year", "total_amount",
	"special_requests", "status", "payment_status", "razorpay_order_id", "razorpay_payment_id",
	"created_at", "updated_at",
}

func pendingBookingRow() *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(bookingColumns).AddRow(
		int64(11), "bk-ref", int64(3), int64(7), []byte(`[]`), nil, nil,
		15, 6, 2026, int64(32500), nil,
		models.BookingPending, models.PaymentPending, nil, nil, now, now,
	)
}

func TestBookingCancelOwnership(t *testing.T) {
	svc, mock := newMockBookingService(t)

	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id = \\$1").
		WithArgs(int64(11)).
		WillReturnRows(pendingBookingRow())

	err := svc.Cancel(context.Background(), 11, 99)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestAdminActionRejectsIllegalTransition(t *testing.T) {
	svc, mock := newMockBookingService(t)

	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id = \\$1").
		WithArgs(int64(11)).
		WillReturnRows(pendingBookingRow())

	// PENDING cannot go straight to COMPLETED.
	_, err := svc.AdminAction(context.Background(), 11, "complete")
	require.Error(t, err)
	assert.True(t, apperrors.IsTransition(err))
}
