package repository

import (
	"context"
	"testing"
	"time"

	"musafir/internal/database"
	apperrors "musafir/internal/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockEventRepo(t *testing.T) (*EventRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewEventRepository(&database.DB{DB: db}, nil), mock
}

var eventRowColumns = []string{
	"id", "title", "slug", "description", "location", "price", "discounted_price", "brochure",
	"images", "available_dates", "departures", "itinerary", "published", "created_at", "updated_at",
}

func eventRow(id int64, availableDates, departures []byte) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(eventRowColumns).AddRow(
		id, "Spiti Valley Expedition", "spiti-valley", nil, "Himachal Pradesh",
		int64(18000), int64(15500), nil,
		[]byte(`["spiti-1.jpg"]`), availableDates, departures, nil,
		true, now, now,
	)
}

func TestEventGetBySlug(t *testing.T) {
	repo, mock := newMockEventRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM events WHERE slug = \\$1").
		WithArgs("spiti-valley").
		WillReturnRows(eventRow(3, nil, nil))

	event, err := repo.GetBySlug(context.Background(), "spiti-valley")
	require.NoError(t, err)
	require.NotNil(t, event)
	assert.Equal(t, "Spiti Valley Expedition", event.Title)
	require.NotNil(t, event.DiscountedPrice)
	assert.Equal(t, int64(15500), *event.DiscountedPrice)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventGetBySlugMissing(t *testing.T) {
	repo, mock := newMockEventRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM events WHERE slug = \\$1").
		WithArgs("nope").
		WillReturnRows(sqlmock.NewRows(eventRowColumns))

	event, err := repo.GetBySlug(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, event)
}

// UpdatePartial sorts patch columns so the statement text is deterministic.
func TestEventUpdatePartialSortedColumns(t *testing.T) {
	repo, mock := newMockEventRepo(t)

	mock.ExpectQuery("UPDATE events SET price = \\$1, published = \\$2, title = \\$3, updated_at = NOW\\(\\) WHERE id = \\$4 RETURNING").
		WithArgs(int64(21000), false, "Spiti Valley Expedition", int64(3)).
		WillReturnRows(eventRow(3, nil, nil))

	event, err := repo.UpdatePartial(context.Background(), 3, map[string]any{
		"title":     "Spiti Valley Expedition",
		"published": false,
		"price":     int64(21000),
	})
	require.NoError(t, err)
	require.NotNil(t, event)
	assert.Equal(t, int64(3), event.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventUpdatePartialMissing(t *testing.T) {
	repo, mock := newMockEventRepo(t)

	mock.ExpectQuery("UPDATE events SET title = \\$1, updated_at = NOW\\(\\) WHERE id = \\$2 RETURNING").
		WithArgs("New Title", int64(99)).
		WillReturnRows(sqlmock.NewRows(eventRowColumns))

	_, err := repo.UpdatePartial(context.Background(), 99, map[string]any{"title": "New Title"})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestEventDeleteMissing(t *testing.T) {
	repo, mock := newMockEventRepo(t)

	mock.ExpectExec("DELETE FROM events WHERE id = \\$1").
		WithArgs(int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), 99)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestEventDecrementSeats(t *testing.T) {
	repo, mock := newMockEventRepo(t)

	availableDates := []byte(`[{"month":6,"year":2026,"dates":[15],"availableSeats":10,"totalSeats":12}]`)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM events WHERE id = \\$1 FOR UPDATE").
		WithArgs(int64(3)).
		WillReturnRows(eventRow(3, availableDates, nil))
	mock.ExpectExec("UPDATE events SET available_dates = \\$1, updated_at = NOW\\(\\) WHERE id = \\$2").
		WithArgs(sqlmock.AnyArg(), int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.DecrementSeats(context.Background(), 3, "", 6, 2026, 2)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventDecrementSeatsConflict(t *testing.T) {
	repo, mock := newMockEventRepo(t)

	availableDates := []byte(`[{"month":6,"year":2026,"dates":[15],"availableSeats":1,"totalSeats":12}]`)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM events WHERE id = \\$1 FOR UPDATE").
		WithArgs(int64(3)).
		WillReturnRows(eventRow(3, availableDates, nil))
	mock.ExpectRollback()

	err := repo.DecrementSeats(context.Background(), 3, "", 6, 2026, 2)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A date group without seat counters is untracked inventory.
func TestEventDecrementSeatsUntracked(t *testing.T) {
	repo, mock := newMockEventRepo(t)

	availableDates := []byte(`[{"month":6,"year":2026,"dates":[15]}]`)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM events WHERE id = \\$1 FOR UPDATE").
		WithArgs(int64(3)).
		WillReturnRows(eventRow(3, availableDates, nil))
	mock.ExpectExec("UPDATE events SET available_dates = \\$1, updated_at = NOW\\(\\) WHERE id = \\$2").
		WithArgs(sqlmock.AnyArg(), int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.DecrementSeats(context.Background(), 3, "", 6, 2026, 1)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
