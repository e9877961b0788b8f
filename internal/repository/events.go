package repository

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"musafir/internal/database"
	apperrors "musafir/internal/errors"
	"musafir/internal/logger"
	"musafir/internal/models"
	"musafir/internal/search"

	"github.com/lib/pq"
)

const eventColumns = `id, title, slug, description, location, price, discounted_price, brochure,
       images, available_dates, departures, itinerary, published, created_at, updated_at`

type EventRepository struct {
	db *database.DB
	es *search.Client // optional; nil means Postgres-only search
}

func NewEventRepository(db *database.DB, es *search.Client) *EventRepository {
	return &EventRepository{db: db, es: es}
}

func scanEvent(row interface{ Scan(...any) error }) (*models.Event, error) {
	event := &models.Event{}
	err := row.Scan(
		&event.ID,
		&event.Title,
		&event.Slug,
		&event.Description,
		&event.Location,
		&event.Price,
		&event.DiscountedPrice,
		&event.Brochure,
		&event.Images,
		&event.AvailableDates,
		&event.Departures,
		&event.Itinerary,
		&event.Published,
		&event.CreatedAt,
		&event.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return event, nil
}

func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	query := `
		INSERT INTO events (title, slug, description, location, price, discounted_price, brochure,
		                    images, available_dates, departures, itinerary, published)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		event.Title,
		event.Slug,
		event.Description,
		event.Location,
		event.Price,
		event.DiscountedPrice,
		event.Brochure,
		event.Images,
		event.AvailableDates,
		event.Departures,
		event.Itinerary,
		event.Published,
	).Scan(&event.ID, &event.CreatedAt, &event.UpdatedAt)
	if err != nil {
		return err
	}

	r.index(ctx, event)
	return nil
}

func (r *EventRepository) GetByID(ctx context.Context, id int64) (*models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	event, err := scanEvent(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return event, err
}

func (r *EventRepository) GetBySlug(ctx context.Context, slug string) (*models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE slug = $1`

	event, err := scanEvent(r.db.QueryRowContext(ctx, query, slug))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return event, err
}

// List returns published events for the public catalog. A non-empty query
// goes through Elasticsearch when available and falls back to ILIKE.
func (r *EventRepository) List(ctx context.Context, query string, page, pageSize int) ([]models.Event, error) {
	if query != "" && r.es != nil {
		ids, err := r.es.SearchEvents(ctx, query, page, pageSize)
		if err != nil {
			logger.WithContext(ctx).Warn("Elasticsearch query failed, falling back to SQL search",
				"error", err, "query", query)
		} else {
			return r.getByIDs(ctx, ids)
		}
	}
	return r.listSQL(ctx, query, true, page, pageSize)
}

// ListAll returns every event for the admin back-office, unpublished included.
func (r *EventRepository) ListAll(ctx context.Context, page, pageSize int) ([]models.Event, error) {
	return r.listSQL(ctx, "", false, page, pageSize)
}

func (r *EventRepository) listSQL(ctx context.Context, query string, publishedOnly bool, page, pageSize int) ([]models.Event, error) {
	var args []any
	argIndex := 1

	sqlQuery := `SELECT ` + eventColumns + ` FROM events WHERE 1=1`

	if publishedOnly {
		sqlQuery += " AND published"
	}

	if query != "" {
		sqlQuery += fmt.Sprintf(" AND (title ILIKE $%d OR location ILIKE $%d)", argIndex, argIndex)
		args = append(args, "%"+strings.TrimSpace(query)+"%")
		argIndex++
	}

	sqlQuery += " ORDER BY created_at DESC, id DESC"

	if page > 0 && pageSize > 0 {
		offset := (page - 1) * pageSize
		sqlQuery += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
		args = append(args, pageSize, offset)
	}

	rows, err := r.db.QueryContext(ctx, sqlQuery, args...)
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

func (r *EventRepository) getByIDs(ctx context.Context, ids []int64) ([]models.Event, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `SELECT ` + eventColumns + ` FROM events WHERE id = ANY($1) AND published`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byID := make(map[int64]models.Event, len(ids))
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		byID[event.ID] = *event
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Preserve search relevance order.
	var events []models.Event
	for _, id := range ids {
		if event, ok := byID[id]; ok {
			events = append(events, event)
		}
	}
	return events, nil
}

// UpdatePartial applies a sanitized patch: only the supplied columns change,
// nil values become SQL NULL. Returns ErrNotFound for an unknown id.
func (r *EventRepository) UpdatePartial(ctx context.Context, id int64, fields map[string]any) (*models.Event, error) {
	if len(fields) == 0 {
		return r.GetByID(ctx, id)
	}

	// Stable column order keeps the statement deterministic for tests.
	columns := make([]string, 0, len(fields))
	for column := range fields {
		columns = append(columns, column)
	}
	sort.Strings(columns)

	setClauses := make([]string, 0, len(columns)+1)
	args := make([]any, 0, len(columns)+1)
	for i, column := range columns {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, i+1))
		args = append(args, fields[column])
	}
	setClauses = append(setClauses, "updated_at = NOW()")
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE events SET %s WHERE id = $%d RETURNING `+eventColumns,
		strings.Join(setClauses, ", "), len(args))

	event, err := scanEvent(r.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	r.index(ctx, event)
	return event, nil
}

func (r *EventRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperrors.ErrNotFound
	}

	if r.es != nil {
		if err := r.es.DeleteEvent(ctx, id); err != nil {
			logger.WithContext(ctx).Warn("Failed to remove event from search index",
				"error", err, "event_id", id)
		}
	}
	return nil
}

// DecrementSeats atomically reserves n seats on one date group. The row lock
// makes concurrent confirmations serialize; a group without seat counters is
// untracked inventory and always succeeds. Returns ErrConflict when fewer
// than n seats remain.
func (r *EventRepository) DecrementSeats(ctx context.Context, eventID int64, departure string, month, year, n int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1 FOR UPDATE`
	event, err := scanEvent(tx.QueryRowContext(ctx, query, eventID))
	if err == sql.ErrNoRows {
		return apperrors.ErrNotFound
	}
	if err != nil {
		return err
	}

	if departure != "" {
		dep := event.DepartureByLabel(departure)
		if dep == nil {
			return apperrors.ErrNotFound
		}
		group := dep.DateGroupFor(month, year)
		if group == nil {
			return apperrors.ErrNotFound
		}
		if err := takeSeats(&group.DateGroup, n); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx,
			`UPDATE events SET departures = $1, updated_at = NOW() WHERE id = $2`,
			event.Departures, eventID)
	} else {
		group := findDateGroup(event.AvailableDates, month, year)
		if group == nil {
			return apperrors.ErrNotFound
		}
		if err := takeSeats(group, n); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx,
			`UPDATE events SET available_dates = $1, updated_at = NOW() WHERE id = $2`,
			event.AvailableDates, eventID)
	}
	if err != nil {
		return err
	}

	return tx.Commit()
}

func findDateGroup(groups models.DateGroups, month, year int) *models.DateGroup {
	for i := range groups {
		if groups[i].Month == month && groups[i].Year == year {
			return &groups[i]
		}
	}
	return nil
}

func takeSeats(group *models.DateGroup, n int) error {
	if group.AvailableSeats == nil {
		return nil
	}
	if *group.AvailableSeats < n {
		return fmt.Errorf("%w: only %d seats left", apperrors.ErrConflict, *group.AvailableSeats)
	}
	*group.AvailableSeats -= n
	return nil
}

func (r *EventRepository) index(ctx context.Context, event *models.Event) {
	if r.es == nil {
		return
	}
	if err := r.es.IndexEvent(ctx, event); err != nil {
		logger.WithContext(ctx).Warn("Failed to index event",
			"error", err, "event_id", event.ID)
	}
}
