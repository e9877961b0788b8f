package repository

import (
	"context"
	"testing"
	"time"

	"musafir/internal/database"
	"musafir/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockBookingRepo(t *testing.T) (*BookingRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewBookingRepository(&database.DB{DB: db}), mock
}

var bookingRowColumns = []string{
	"id", "reference", "event_id", "user_id", "participants", "selected_departure",
	"selected_transport_mode", "travel_day", "travel_month", "travel_year", "total_amount",
	"special_requests", "status", "payment_status", "razorpay_order_id", "razorpay_payment_id",
	"created_at", "updated_at",
}

func bookingRow(id int64) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(bookingRowColumns).AddRow(
		id, "bk-ref", int64(3), int64(7), []byte(`[{"name":"Asha","age":29}]`),
		"Delhi", "AC_TRAIN", 15, 6, 2026, int64(16500),
		nil, models.BookingPending, models.PaymentPending, nil, nil,
		now, now,
	)
}

func TestBookingGetByID(t *testing.T) {
	repo, mock := newMockBookingRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id = \\$1").
		WithArgs(int64(42)).
		WillReturnRows(bookingRow(42))

	booking, err := repo.GetByID(context.Background(), 42)
	require.NoError(t, err)
	require.NotNil(t, booking)
	assert.Equal(t, int64(42), booking.ID)
	assert.Equal(t, "bk-ref", booking.Reference)
	require.Len(t, booking.Participants, 1)
	assert.Equal(t, "Asha", booking.Participants[0].Name)
	assert.Equal(t, models.BookingPending, booking.Status)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingGetByIDMissing(t *testing.T) {
	repo, mock := newMockBookingRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id = \\$1").
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows(bookingRowColumns))

	booking, err := repo.GetByID(context.Background(), 99)
	require.NoError(t, err)
	assert.Nil(t, booking)
}

func TestBookingUpdateStatus(t *testing.T) {
	repo, mock := newMockBookingRepo(t)

	mock.ExpectExec("UPDATE bookings\\s+SET status = \\$1, payment_status = \\$2, updated_at = NOW\\(\\)\\s+WHERE id = \\$3").
		WithArgs(models.BookingCancelled, models.PaymentPending, int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateStatus(context.Background(), 42, models.BookingCancelled, models.PaymentPending)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingMarkPaid(t *testing.T) {
	repo, mock := newMockBookingRepo(t)

	mock.ExpectExec("UPDATE bookings\\s+SET status = \\$1, payment_status = \\$2, razorpay_payment_id = \\$3, updated_at = NOW\\(\\)\\s+WHERE id = \\$4").
		WithArgs(models.BookingConfirmed, models.PaymentSuccess, "pay_abc", int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.MarkPaid(context.Background(), 42, "pay_abc")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingSetOrderID(t *testing.T) {
	repo, mock := newMockBookingRepo(t)

	mock.ExpectExec("UPDATE bookings SET razorpay_order_id = \\$1, updated_at = NOW\\(\\) WHERE id = \\$2").
		WithArgs("order_xyz", int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.SetOrderID(context.Background(), 42, "order_xyz")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingListFilteredBuildsPredicates(t *testing.T) {
	repo, mock := newMockBookingRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE 1=1 AND event_id = \\$1 AND status = \\$2 ORDER BY created_at DESC LIMIT \\$3 OFFSET \\$4").
		WithArgs(int64(3), models.BookingConfirmed, 20, 20).
		WillReturnRows(bookingRow(42))

	bookings, err := repo.ListFiltered(context.Background(), BookingFilter{
		EventID:  3,
		Status:   models.BookingConfirmed,
		Page:     2,
		PageSize: 20,
	})
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, int64(42), bookings[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingGetExpired(t *testing.T) {
	repo, mock := newMockBookingRepo(t)
	cutoff := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("FROM bookings\\s+WHERE status = 'PENDING' AND payment_status = 'PENDING' AND created_at < \\$1").
		WithArgs(cutoff).
		WillReturnRows(bookingRow(7))

	bookings, err := repo.GetExpired(context.Background(), cutoff)
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, models.BookingPending, bookings[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}
