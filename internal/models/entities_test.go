package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransitionBooking(t *testing.T) {
	cases := []struct {
		from, to string
		paid     bool
		want     bool
	}{
		{BookingPending, BookingConfirmed, false, true},
		{BookingPending, BookingCancelled, false, true},
		{BookingPending, BookingCompleted, false, false},
		{BookingConfirmed, BookingCompleted, true, true},
		{BookingConfirmed, BookingCancelled, true, true},
		{BookingConfirmed, BookingConfirmed, true, false},
		{BookingCancelled, BookingConfirmed, false, false},
		{BookingCompleted, BookingCancelled, true, false},
		// REFUNDED is reachable from anywhere once payment succeeded.
		{BookingConfirmed, BookingRefunded, true, true},
		{BookingCompleted, BookingRefunded, true, true},
		{BookingCancelled, BookingRefunded, true, true},
		{BookingConfirmed, BookingRefunded, false, false},
	}

	for _, tc := range cases {
		got := CanTransitionBooking(tc.from, tc.to, tc.paid)
		assert.Equal(t, tc.want, got, "%s -> %s (paid=%v)", tc.from, tc.to, tc.paid)
	}
}

func TestCanTransitionPayment(t *testing.T) {
	assert.True(t, CanTransitionPayment(PaymentPending, PaymentSuccess))
	assert.True(t, CanTransitionPayment(PaymentPending, PaymentFailed))
	assert.True(t, CanTransitionPayment(PaymentFailed, PaymentSuccess), "failed payments stay retryable")
	assert.True(t, CanTransitionPayment(PaymentSuccess, PaymentRefunded))
	assert.False(t, CanTransitionPayment(PaymentSuccess, PaymentFailed))
	assert.False(t, CanTransitionPayment(PaymentRefunded, PaymentSuccess))
	assert.False(t, CanTransitionPayment(PaymentPending, PaymentRefunded))
}

func TestTransportModeValid(t *testing.T) {
	for _, m := range AllTransportModes {
		assert.True(t, m.Valid())
	}
	assert.False(t, TransportMode("HELICOPTER").Valid())
	assert.False(t, TransportMode("").Valid())
}

func TestDepartureDateGroupJSONRoundTrip(t *testing.T) {
	// dateTransportModes keys are day-of-month numbers; JSON objects carry
	// them as strings and encoding/json maps them onto int keys.
	group := DepartureDateGroup{
		DateGroup:               DateGroup{Month: 3, Year: 2026, Dates: []int{5, 12}},
		AvailableTransportModes: []TransportMode{ModeACTrain},
		DateTransportModes:      map[int][]TransportMode{12: {ModeBus}},
	}

	data, err := json.Marshal(group)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"dateTransportModes":{"12":["BUS"]}`)

	var decoded DepartureDateGroup
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, group, decoded)
}

func TestItineraryFallback(t *testing.T) {
	event := &Event{Itinerary: ItineraryDays{{Day: 1, Title: "Base camp"}}}
	dep := &Departure{Label: "Delhi"}

	assert.Equal(t, "Base camp", event.ItineraryFor(dep)[0].Title)

	dep.Itinerary = []ItineraryDay{{Day: 1, Title: "Delhi pickup"}}
	assert.Equal(t, "Delhi pickup", event.ItineraryFor(dep)[0].Title)

	assert.Equal(t, "Base camp", event.ItineraryFor(nil)[0].Title)
}
