package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"musafir/internal/database"
	"musafir/internal/models"
)

const bookingColumns = `id, reference, event_id, user_id, participants, selected_departure,
       selected_transport_mode, travel_day, travel_month, travel_year, total_amount,
       special_requests, status, payment_status, razorpay_order_id, razorpay_payment_id,
       created_at, updated_at`

type BookingRepository struct {
	db *database.DB
}

func NewBookingRepository(db *database.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

func scanBooking(row interface{ Scan(...any) error }) (*models.Booking, error) {
	booking := &models.Booking{}
	err := row.Scan(
		&booking.ID,
		&booking.Reference,
		&booking.EventID,
		&booking.UserID,
		&booking.Participants,
		&booking.SelectedDeparture,
		&booking.SelectedTransport,
		&booking.TravelDay,
		&booking.TravelMonth,
		&booking.TravelYear,
		&booking.TotalAmount,
		&booking.SpecialRequests,
		&booking.Status,
		&booking.PaymentStatus,
		&booking.RazorpayOrderID,
		&booking.RazorpayPaymentID,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return booking, nil
}

func (r *BookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	query := `
		INSERT INTO bookings (reference, event_id, user_id, participants, selected_departure,
		                      selected_transport_mode, travel_day, travel_month, travel_year,
		                      total_amount, special_requests, status, payment_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at, updated_at`

	return r.db.QueryRowContext(ctx, query,
		booking.Reference,
		booking.EventID,
		booking.UserID,
		booking.Participants,
		booking.SelectedDeparture,
		booking.SelectedTransport,
		booking.TravelDay,
		booking.TravelMonth,
		booking.TravelYear,
		booking.TotalAmount,
		booking.SpecialRequests,
		booking.Status,
		booking.PaymentStatus,
	).Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt)
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := scanBooking(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return booking, err
}

func (r *BookingRepository) GetByOrderID(ctx context.Context, orderID string) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE razorpay_order_id = $1`

	booking, err := scanBooking(r.db.QueryRowContext(ctx, query, orderID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return booking, err
}

func (r *BookingRepository) GetByUserID(ctx context.Context, userID int64) ([]models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectBookings(rows)
}

// BookingFilter narrows the admin listing and the CSV export scopes.
type BookingFilter struct {
	EventID   int64
	Departure string
	Status    string
	Day       int
	Month     int
	Year      int
	Page      int
	PageSize  int
}

func (r *BookingRepository) ListFiltered(ctx context.Context, f BookingFilter) ([]models.Booking, error) {
	var args []any
	argIndex := 1

	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE 1=1`

	if f.EventID > 0 {
		query += fmt.Sprintf(" AND event_id = $%d", argIndex)
		args = append(args, f.EventID)
		argIndex++
	}
	if f.Departure != "" {
		query += fmt.Sprintf(" AND selected_departure = $%d", argIndex)
		args = append(args, f.Departure)
		argIndex++
	}
	if f.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argIndex)
		args = append(args, f.Status)
		argIndex++
	}
	if f.Day > 0 && f.Month > 0 && f.Year > 0 {
		query += fmt.Sprintf(" AND travel_day = $%d AND travel_month = $%d AND travel_year = $%d",
			argIndex, argIndex+1, argIndex+2)
		args = append(args, f.Day, f.Month, f.Year)
		argIndex += 3
	}

	query += " ORDER BY created_at DESC"

	if f.Page > 0 && f.PageSize > 0 {
		offset := (f.Page - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
		args = append(args, f.PageSize, offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectBookings(rows)
}

// UpdateStatus persists a status pair after the service has checked the
// transition.
func (r *BookingRepository) UpdateStatus(ctx context.Context, id int64, status, paymentStatus string) error {
	query := `
		UPDATE bookings
		SET status = $1, payment_status = $2, updated_at = NOW()
		WHERE id = $3`

	_, err := r.db.ExecContext(ctx, query, status, paymentStatus, id)
	return err
}

func (r *BookingRepository) SetOrderID(ctx context.Context, id int64, orderID string) error {
	query := `UPDATE bookings SET razorpay_order_id = $1, updated_at = NOW() WHERE id = $2`
	_, err := r.db.ExecContext(ctx, query, orderID, id)
	return err
}

// MarkPaid flips a booking to CONFIRMED/SUCCESS and records the payment id in
// one statement.
func (r *BookingRepository) MarkPaid(ctx context.Context, id int64, paymentID string) error {
	query := `
		UPDATE bookings
		SET status = $1, payment_status = $2, razorpay_payment_id = $3, updated_at = NOW()
		WHERE id = $4`

	_, err := r.db.ExecContext(ctx, query, models.BookingConfirmed, models.PaymentSuccess, paymentID, id)
	return err
}

// GetExpired returns PENDING/PENDING bookings created before the cutoff,
// for the worker's expiration sweep.
func (r *BookingRepository) GetExpired(ctx context.Context, cutoff time.Time) ([]models.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE status = 'PENDING' AND payment_status = 'PENDING' AND created_at < $1
		ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectBookings(rows)
}

func collectBookings(rows *sql.Rows) ([]models.Booking, error) {
	var bookings []models.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *booking)
	}
	return bookings, rows.Err()
}
