package repository

import (
	"context"

	"musafir/internal/database"
	"musafir/internal/models"
)

type WishlistRepository struct {
	db *database.DB
}

func NewWishlistRepository(db *database.DB) *WishlistRepository {
	return &WishlistRepository{db: db}
}

// Add is idempotent: saving the same event twice is a no-op.
func (r *WishlistRepository) Add(ctx context.Context, userID, eventID int64) error {
	query := `
		INSERT INTO wishlist_items (user_id, event_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, event_id) DO NOTHING`

	_, err := r.db.ExecContext(ctx, query, userID, eventID)
	return err
}

func (r *WishlistRepository) Remove(ctx context.Context, userID, eventID int64) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM wishlist_items WHERE user_id = $1 AND event_id = $2`, userID, eventID)
	if err != nil {
		return err
	}
	return requireAffected(result, "wishlist item")
}

// ListEvents returns the saved events themselves, newest save first.
func (r *WishlistRepository) ListEvents(ctx context.Context, userID int64) ([]models.Event, error) {
	query := `
		SELECT ` + prefixedEventColumns + `
		FROM events e
		JOIN wishlist_items w ON w.event_id = e.id
		WHERE w.user_id = $1
		ORDER BY w.created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *event)
	}
	return events, rows.Err()
}

const prefixedEventColumns = `e.id, e.title, e.slug, e.description, e.location, e.price,
       e.discounted_price, e.brochure, e.images, e.available_dates, e.departures, e.itinerary,
       e.published, e.created_at, e.updated_at`
