// Package pricing computes per-person prices and booking totals. The same
// functions back the public transport-options endpoint and the server-side
// total check on booking submission, so the summary a shopper sees is always
// the amount that gets charged.
package pricing

import (
	"fmt"

	"musafir/internal/models"
)

// DiscountValid reports whether a discounted price may be displayed.
// Valid only when 0 < discounted < price; otherwise display falls back to price.
func DiscountValid(price int64, discounted *int64) bool {
	return discounted != nil && *discounted > 0 && *discounted < price
}

// EffectivePrice returns the per-person price for an event, optionally on a
// departure. A departure carrying its own price overrides the event-level
// price, including its own discount validity check.
func EffectivePrice(event *models.Event, dep *models.Departure) int64 {
	price := event.Price
	discounted := event.DiscountedPrice

	if dep != nil && dep.Price != nil {
		price = *dep.Price
		discounted = dep.DiscountedPrice
	}

	if DiscountValid(price, discounted) {
		return *discounted
	}
	return price
}

// DisplayPrice is EffectivePrice without a departure, for list pages.
func DisplayPrice(event *models.Event) int64 {
	return EffectivePrice(event, nil)
}

// OfferedOptions resolves the transport options available for one calendar
// day of a departure date group. Resolution order: the day's
// dateTransportModes entry if present and non-empty, else the group's
// availableTransportModes if non-empty, else all of the departure's
// transportOptions.
func OfferedOptions(dep *models.Departure, group *models.DepartureDateGroup, day int) []models.TransportOption {
	if dep == nil {
		return nil
	}
	if group == nil {
		return dep.TransportOptions
	}

	allowed := group.AvailableTransportModes
	if dayModes, ok := group.DateTransportModes[day]; ok && len(dayModes) > 0 {
		allowed = dayModes
	}
	if len(allowed) == 0 {
		return dep.TransportOptions
	}

	allowedSet := make(map[models.TransportMode]bool, len(allowed))
	for _, m := range allowed {
		allowedSet[m] = true
	}

	var options []models.TransportOption
	for _, opt := range dep.TransportOptions {
		if allowedSet[opt.Mode] {
			options = append(options, opt)
		}
	}
	return options
}

// Surcharge returns the per-booking surcharge for the given mode, checking it
// is actually offered on the selected day.
func Surcharge(dep *models.Departure, group *models.DepartureDateGroup, day int, mode models.TransportMode) (int64, error) {
	for _, opt := range OfferedOptions(dep, group, day) {
		if opt.Mode == mode {
			return opt.Price, nil
		}
	}
	return 0, fmt.Errorf("transport mode %s is not offered on the selected date", mode)
}

// Quote is the server-side price breakdown for a booking request.
type Quote struct {
	EffectivePrice   int64
	ParticipantCount int
	Surcharge        int64
}

// Total = effective per-person price x participant count + transport surcharge.
func (q Quote) Total() int64 {
	return q.EffectivePrice*int64(q.ParticipantCount) + q.Surcharge
}
