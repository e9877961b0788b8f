package export

import (
	"strings"
	"testing"
	"time"

	"musafir/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func sampleBookings() []*models.Booking {
	return []*models.Booking{
		{
			ID:                1,
			Reference:         "b1f4c2d0",
			EventID:           7,
			SelectedDeparture: strPtr("Delhi"),
			SelectedTransport: strPtr("AC_TRAIN"),
			TravelDay:         12,
			TravelMonth:       3,
			TravelYear:        2026,
			Participants:      models.Participants{{Name: "Asha"}, {Name: "Ravi"}},
			TotalAmount:       16500,
			Status:            models.BookingConfirmed,
			PaymentStatus:     models.PaymentSuccess,
			CreatedAt:         time.Date(2026, 2, 1, 10, 30, 0, 0, time.UTC),
		},
		{
			ID:            2,
			Reference:     "a9e1f0b3",
			EventID:       9,
			TravelDay:     5,
			TravelMonth:   4,
			TravelYear:    2026,
			Participants:  models.Participants{{Name: "Meera"}},
			TotalAmount:   8000,
			Status:        models.BookingPending,
			PaymentStatus: models.PaymentPending,
			CreatedAt:     time.Date(2026, 2, 2, 9, 0, 0, 0, time.UTC),
		},
	}
}

func TestBookingsCSVAllScope(t *testing.T) {
	titles := map[int64]string{7: "Spiti Valley"}

	out, err := BookingsCSV(ScopeAll, sampleBookings(), titles)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 3)

	assert.Equal(t, "reference,event,departure,transport_mode,travel_date,participants,total_amount,status,payment_status,created_at", lines[0])
	assert.Equal(t, "b1f4c2d0,Spiti Valley,Delhi,AC_TRAIN,12-03-2026,2,16500,CONFIRMED,SUCCESS,2026-02-01 10:30:00", lines[1])
	// Unknown event titles fall back to the id; nil selections render empty.
	assert.Equal(t, "a9e1f0b3,9,,,05-04-2026,1,8000,PENDING,PENDING,2026-02-02 09:00:00", lines[2])
}

func TestBookingsCSVScopeColumns(t *testing.T) {
	tests := []struct {
		scope  string
		header string
	}{
		{ScopeEvent, "reference,departure,transport_mode,travel_date,participants,total_amount,status,payment_status"},
		{ScopeDeparture, "reference,transport_mode,travel_date,participants,total_amount,status,payment_status"},
		{ScopeDate, "reference,departure,transport_mode,participants,total_amount,status,payment_status"},
	}

	for _, tt := range tests {
		t.Run(tt.scope, func(t *testing.T) {
			out, err := BookingsCSV(tt.scope, sampleBookings(), nil)
			require.NoError(t, err)

			lines := strings.Split(strings.TrimSpace(string(out)), "\n")
			assert.Equal(t, tt.header, lines[0])
			assert.Len(t, lines, 3)
		})
	}
}

func TestBookingsCSVUnknownScope(t *testing.T) {
	_, err := BookingsCSV("week", nil, nil)
	assert.Error(t, err)
	assert.False(t, ValidScope("week"))
	assert.True(t, ValidScope(ScopeAll))
}

func TestBookingsCSVEmpty(t *testing.T) {
	out, err := BookingsCSV(ScopeAll, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(strings.TrimSpace(string(out)), "\n")+1)
}
