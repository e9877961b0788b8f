package sanitize

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "musafir/internal/errors"
	"musafir/internal/models"
)

func decode(t *testing.T, payload string) map[string]any {
	t.Helper()
	var raw map[string]any
	require.NoError(t, json.Unmarshal([]byte(payload), &raw))
	return raw
}

func TestEventOmittedFieldsUntouched(t *testing.T) {
	patch, err := Event(decode(t, `{"title":"Spiti Valley Expedition"}`))
	require.NoError(t, err)

	fields := patch.Fields()
	assert.Equal(t, "Spiti Valley Expedition", fields["title"])
	_, hasPrice := fields["price"]
	assert.False(t, hasPrice, "price was not in the payload")
	_, hasDiscount := fields["discounted_price"]
	assert.False(t, hasDiscount, "discountedPrice was not in the payload")
}

func TestEventEmptyPatch(t *testing.T) {
	patch, err := Event(decode(t, `{}`))
	require.NoError(t, err)
	assert.True(t, patch.Empty())
}

func TestDiscountedPriceExplicitClear(t *testing.T) {
	for _, payload := range []string{
		`{"discountedPrice": null}`,
		`{"discountedPrice": ""}`,
		`{"discountedPrice": "  "}`,
	} {
		patch, err := Event(decode(t, payload))
		require.NoError(t, err, payload)

		value, present := patch.Fields()["discounted_price"]
		assert.True(t, present, payload)
		assert.Nil(t, value, payload)
	}
}

func TestDiscountedPriceCoercion(t *testing.T) {
	patch, err := Event(decode(t, `{"discountedPrice": "8000"}`))
	require.NoError(t, err)
	assert.Equal(t, int64(8000), patch.Fields()["discounted_price"])

	_, err = Event(decode(t, `{"discountedPrice": "not-a-number"}`))
	assert.True(t, apperrors.IsValidation(err))

	_, err = Event(decode(t, `{"discountedPrice": -100}`))
	assert.True(t, apperrors.IsValidation(err))
}

func TestBrochureExplicitClear(t *testing.T) {
	patch, err := Event(decode(t, `{"brochure": ""}`))
	require.NoError(t, err)
	value, present := patch.Fields()["brochure"]
	assert.True(t, present)
	assert.Nil(t, value)

	patch, err = Event(decode(t, `{"brochure": "https://cdn.example.com/spiti.pdf"}`))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/spiti.pdf", patch.Fields()["brochure"])
}

func TestScalarValidation(t *testing.T) {
	_, err := Event(decode(t, `{"title": "  "}`))
	assert.True(t, apperrors.IsValidation(err))

	_, err = Event(decode(t, `{"price": "abc"}`))
	assert.True(t, apperrors.IsValidation(err))

	_, err = Event(decode(t, `{"price": 0}`))
	assert.True(t, apperrors.IsValidation(err))

	patch, err := Event(decode(t, `{"price": "9500", "published": "true"}`))
	require.NoError(t, err)
	assert.Equal(t, int64(9500), patch.Fields()["price"])
	assert.Equal(t, true, patch.Fields()["published"])
}

func TestAvailableDatesDropMalformed(t *testing.T) {
	patch, err := Event(decode(t, `{"availableDates": [
		{"month": 3, "year": 2026, "dates": [5, 12, "19"], "availableSeats": "20", "totalSeats": 25},
		{"month": 13, "year": 2026, "dates": [1]},
		{"month": 4, "year": 2026, "dates": []},
		{"month": 4, "year": "bad", "dates": [2]},
		"garbage"
	]}`))
	require.NoError(t, err)

	groups, ok := patch.Fields()["available_dates"].(models.DateGroups)
	require.True(t, ok)
	require.Len(t, groups, 1)
	assert.Equal(t, 3, groups[0].Month)
	assert.Equal(t, []int{5, 12, 19}, groups[0].Dates)
	require.NotNil(t, groups[0].AvailableSeats)
	assert.Equal(t, 20, *groups[0].AvailableSeats)
}

func TestDeparturesSanitized(t *testing.T) {
	patch, err := Event(decode(t, `{"departures": [
		{
			"label": " Delhi ",
			"origin": "Delhi",
			"destination": "Manali",
			"price": "12000",
			"transportOptions": [
				{"mode": "AC_TRAIN", "price": 500},
				{"mode": "HELICOPTER", "price": 9000},
				{"mode": "BUS", "price": "200"},
				{"mode": "FLIGHT"}
			],
			"availableDates": [
				{
					"month": 3, "year": 2026, "dates": [5, 12],
					"availableTransportModes": ["AC_TRAIN", "SUBMARINE"],
					"dateTransportModes": {"12": ["BUS"], "nope": ["AC_TRAIN"], "5": ["TUKTUK"]}
				}
			],
			"itinerary": [
				{"day": 1, "title": "Arrival"},
				{"day": "x", "title": "Broken"},
				{"day": 2, "title": ""}
			]
		},
		{"label": "", "origin": "Delhi", "destination": "Manali"},
		{"origin": "Delhi", "destination": "Manali"}
	]}`))
	require.NoError(t, err)

	deps, ok := patch.Fields()["departures"].(models.Departures)
	require.True(t, ok)
	require.Len(t, deps, 1)

	dep := deps[0]
	assert.Equal(t, "Delhi", dep.Label)
	require.NotNil(t, dep.Price)
	assert.Equal(t, int64(12000), *dep.Price)

	// Unknown modes and options without a price are dropped.
	assert.Equal(t, []models.TransportOption{
		{Mode: models.ModeACTrain, Price: 500},
		{Mode: models.ModeBus, Price: 200},
	}, dep.TransportOptions)

	require.Len(t, dep.AvailableDates, 1)
	group := dep.AvailableDates[0]
	assert.Equal(t, []models.TransportMode{models.ModeACTrain}, group.AvailableTransportModes)

	// Day 12 keeps its filtered override; "nope" and the all-invalid day 5
	// entry are gone.
	assert.Equal(t, map[int][]models.TransportMode{12: {models.ModeBus}}, group.DateTransportModes)

	require.Len(t, dep.Itinerary, 1)
	assert.Equal(t, "Arrival", dep.Itinerary[0].Title)
}

func TestItineraryDayZeroAllowed(t *testing.T) {
	// Day 0 is reserved for pre-arrival information and must survive.
	patch, err := Event(decode(t, `{"itinerary": [{"day": 0, "title": "Before you travel"}]}`))
	require.NoError(t, err)

	days, ok := patch.Fields()["itinerary"].(models.ItineraryDays)
	require.True(t, ok)
	require.Len(t, days, 1)
	assert.Equal(t, 0, days[0].Day)
}
