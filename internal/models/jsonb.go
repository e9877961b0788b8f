package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Nested event documents (departures, date calendars, itineraries) live in
// JSONB columns. The named types below implement driver.Valuer/sql.Scanner so
// the raw-SQL repositories can read and write them like any other column.

func jsonbValue(v any) (driver.Value, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}

func jsonbScan(dst any, src any) error {
	if src == nil {
		return nil
	}
	switch data := src.(type) {
	case []byte:
		return json.Unmarshal(data, dst)
	case string:
		return json.Unmarshal([]byte(data), dst)
	}
	return fmt.Errorf("unsupported jsonb source type %T", src)
}

// StringList is a JSONB array of strings (image URLs etc).
type StringList []string

func (s StringList) Value() (driver.Value, error) {
	if s == nil {
		return jsonbValue([]string{})
	}
	return jsonbValue([]string(s))
}
func (s *StringList) Scan(src any) error { return jsonbScan(s, src) }

// DateGroups is the event-level availableDates column.
type DateGroups []DateGroup

func (d DateGroups) Value() (driver.Value, error) {
	if d == nil {
		return jsonbValue([]DateGroup{})
	}
	return jsonbValue([]DateGroup(d))
}
func (d *DateGroups) Scan(src any) error { return jsonbScan(d, src) }

// Departures is the departures column.
type Departures []Departure

func (d Departures) Value() (driver.Value, error) {
	if d == nil {
		return jsonbValue([]Departure{})
	}
	return jsonbValue([]Departure(d))
}
func (d *Departures) Scan(src any) error { return jsonbScan(d, src) }

// ItineraryDays is the itinerary column.
type ItineraryDays []ItineraryDay

func (d ItineraryDays) Value() (driver.Value, error) {
	if d == nil {
		return jsonbValue([]ItineraryDay{})
	}
	return jsonbValue([]ItineraryDay(d))
}
func (d *ItineraryDays) Scan(src any) error { return jsonbScan(d, src) }

// Participants is the booking participants column.
type Participants []Participant

func (p Participants) Value() (driver.Value, error) {
	if p == nil {
		return jsonbValue([]Participant{})
	}
	return jsonbValue([]Participant(p))
}
func (p *Participants) Scan(src any) error { return jsonbScan(p, src) }

// SEODoc is the site settings seo column.
type SEODoc SEOSettings

func (s SEODoc) Value() (driver.Value, error) { return jsonbValue(SEOSettings(s)) }
func (s *SEODoc) Scan(src any) error          { return jsonbScan(s, src) }

// PolicyDoc is the site settings booking_policy column.
type PolicyDoc BookingPolicy

func (p PolicyDoc) Value() (driver.Value, error) { return jsonbValue(BookingPolicy(p)) }
func (p *PolicyDoc) Scan(src any) error          { return jsonbScan(p, src) }

// FeatureFlags is the site settings feature_flags column.
type FeatureFlags map[string]bool

func (f FeatureFlags) Value() (driver.Value, error) {
	if f == nil {
		return jsonbValue(map[string]bool{})
	}
	return jsonbValue(map[string]bool(f))
}
func (f *FeatureFlags) Scan(src any) error { return jsonbScan(f, src) }
