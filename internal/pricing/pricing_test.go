package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"musafir/internal/models"
)

func i64(v int64) *int64 { return &v }

func TestDiscountValid(t *testing.T) {
	assert.True(t, DiscountValid(10000, i64(8000)))
	assert.False(t, DiscountValid(10000, nil))
	assert.False(t, DiscountValid(10000, i64(0)))
	assert.False(t, DiscountValid(10000, i64(10000)))
	assert.False(t, DiscountValid(10000, i64(12000)))
	assert.False(t, DiscountValid(10000, i64(-500)))
}

func TestEffectivePrice(t *testing.T) {
	event := &models.Event{Price: 10000, DiscountedPrice: i64(8000)}

	assert.Equal(t, int64(8000), EffectivePrice(event, nil))

	// Invalid discount falls back to price.
	event.DiscountedPrice = i64(15000)
	assert.Equal(t, int64(10000), EffectivePrice(event, nil))

	// Departure price overrides event price, with its own discount check.
	event.DiscountedPrice = i64(8000)
	dep := &models.Departure{Label: "Mumbai", Price: i64(12000), DiscountedPrice: i64(9000)}
	assert.Equal(t, int64(9000), EffectivePrice(event, dep))

	dep.DiscountedPrice = nil
	assert.Equal(t, int64(12000), EffectivePrice(event, dep))

	// Departure without its own price keeps the event pricing.
	dep = &models.Departure{Label: "Delhi"}
	assert.Equal(t, int64(8000), EffectivePrice(event, dep))
}

func departureFixture() *models.Departure {
	return &models.Departure{
		Label:       "Delhi",
		Origin:      "Delhi",
		Destination: "Manali",
		TransportOptions: []models.TransportOption{
			{Mode: models.ModeACTrain, Price: 500},
			{Mode: models.ModeNonACTrain, Price: 300},
			{Mode: models.ModeBus, Price: 200},
		},
		AvailableDates: []models.DepartureDateGroup{
			{
				DateGroup:               models.DateGroup{Month: 3, Year: 2026, Dates: []int{5, 12, 19}},
				AvailableTransportModes: []models.TransportMode{models.ModeACTrain, models.ModeBus},
				DateTransportModes: map[int][]models.TransportMode{
					12: {models.ModeBus},
					19: {},
				},
			},
			{
				DateGroup: models.DateGroup{Month: 4, Year: 2026, Dates: []int{2}},
			},
		},
	}
}

func TestOfferedOptionsDayOverride(t *testing.T) {
	dep := departureFixture()
	group := &dep.AvailableDates[0]

	// Day 12 has a non-empty per-day override: exactly the intersection with
	// the departure's transport options.
	options := OfferedOptions(dep, group, 12)
	assert.Equal(t, []models.TransportOption{{Mode: models.ModeBus, Price: 200}}, options)
}

func TestOfferedOptionsGroupFallback(t *testing.T) {
	dep := departureFixture()
	group := &dep.AvailableDates[0]

	// Day 5 has no per-day entry: group-level modes apply.
	options := OfferedOptions(dep, group, 5)
	assert.Equal(t, []models.TransportOption{
		{Mode: models.ModeACTrain, Price: 500},
		{Mode: models.ModeBus, Price: 200},
	}, options)

	// Day 19 has an empty per-day entry, which does not override.
	options = OfferedOptions(dep, group, 19)
	assert.Len(t, options, 2)
}

func TestOfferedOptionsAllModesFallback(t *testing.T) {
	dep := departureFixture()
	group := &dep.AvailableDates[1]

	// Neither per-day nor group-level restriction: everything is offered.
	options := OfferedOptions(dep, group, 2)
	assert.Len(t, options, 3)
}

func TestSurcharge(t *testing.T) {
	dep := departureFixture()
	group := &dep.AvailableDates[0]

	price, err := Surcharge(dep, group, 5, models.ModeACTrain)
	assert.NoError(t, err)
	assert.Equal(t, int64(500), price)

	// NON_AC_TRAIN is filtered out by the group restriction.
	_, err = Surcharge(dep, group, 5, models.ModeNonACTrain)
	assert.Error(t, err)

	// AC_TRAIN is filtered out by the day-12 override.
	_, err = Surcharge(dep, group, 12, models.ModeACTrain)
	assert.Error(t, err)
}

func TestQuoteTotal(t *testing.T) {
	// Event price 10000, discounted 8000, 2 participants, AC_TRAIN 500
	// => 2*8000 + 500 = 16500.
	q := Quote{EffectivePrice: 8000, ParticipantCount: 2, Surcharge: 500}
	assert.Equal(t, int64(16500), q.Total())

	q = Quote{EffectivePrice: 10000, ParticipantCount: 1}
	assert.Equal(t, int64(10000), q.Total())
}
