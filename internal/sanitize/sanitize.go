// Package sanitize turns raw admin update payloads into safe, typed column
// update sets. Fields a client did not send stay untouched; malformed nested
// entries are dropped rather than failing the whole patch; everything that
// survives is explicitly coerced to its schema type.
package sanitize

import (
	"strconv"
	"strings"

	apperrors "musafir/internal/errors"
	"musafir/internal/models"
)

// EventPatch is a validated partial update. Keys are column names; a nil
// value clears the column (SQL NULL).
type EventPatch struct {
	fields map[string]any
}

// Fields returns the column -> value set. Empty when nothing was supplied.
func (p *EventPatch) Fields() map[string]any {
	return p.fields
}

// Empty reports whether the patch carries no updates.
func (p *EventPatch) Empty() bool {
	return len(p.fields) == 0
}

func (p *EventPatch) set(column string, value any) {
	if p.fields == nil {
		p.fields = map[string]any{}
	}
	p.fields[column] = value
}

// Event sanitizes a raw JSON patch against the event schema.
//
// Presence semantics: a key absent from raw leaves the field untouched.
// discountedPrice and brochure additionally support explicit clearing via
// null or the empty string.
func Event(raw map[string]any) (*EventPatch, error) {
	patch := &EventPatch{}

	for key, column := range map[string]string{
		"title":    "title",
		"slug":     "slug",
		"location": "location",
	} {
		if v, ok := raw[key]; ok {
			s, isStr := asString(v)
			if !isStr || s == "" {
				return nil, apperrors.NewValidation(key, "must be a non-empty string")
			}
			patch.set(column, s)
		}
	}

	if v, ok := raw["description"]; ok {
		if v == nil {
			patch.set("description", nil)
		} else if s, isStr := asString(v); isStr {
			patch.set("description", s)
		} else {
			return nil, apperrors.NewValidation("description", "must be a string")
		}
	}

	if v, ok := raw["price"]; ok {
		price, isNum := asInt64(v)
		if !isNum || price <= 0 {
			return nil, apperrors.NewValidation("price", "must be a positive number")
		}
		patch.set("price", price)
	}

	// discountedPrice: null or "" clears, a number updates.
	if v, ok := raw["discountedPrice"]; ok {
		if isExplicitClear(v) {
			patch.set("discounted_price", nil)
		} else if dp, isNum := asInt64(v); isNum && dp > 0 {
			patch.set("discounted_price", dp)
		} else {
			return nil, apperrors.NewValidation("discountedPrice", "must be a positive number, null or empty")
		}
	}

	// brochure follows the same explicit-clear semantics.
	if v, ok := raw["brochure"]; ok {
		if isExplicitClear(v) {
			patch.set("brochure", nil)
		} else if s, isStr := asString(v); isStr && s != "" {
			patch.set("brochure", s)
		} else {
			return nil, apperrors.NewValidation("brochure", "must be a URL string, null or empty")
		}
	}

	if v, ok := raw["published"]; ok {
		b, isBool := asBool(v)
		if !isBool {
			return nil, apperrors.NewValidation("published", "must be a boolean")
		}
		patch.set("published", b)
	}

	if v, ok := raw["images"]; ok {
		patch.set("images", stringList(v))
	}

	if v, ok := raw["availableDates"]; ok {
		patch.set("available_dates", dateGroups(v))
	}

	if v, ok := raw["departures"]; ok {
		patch.set("departures", departures(v))
	}

	if v, ok := raw["itinerary"]; ok {
		patch.set("itinerary", itinerary(v))
	}

	return patch, nil
}

// isExplicitClear matches the two payload values that mean "remove this
// optional field": JSON null and the empty string.
func isExplicitClear(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) == ""
}

func stringList(v any) models.StringList {
	out := models.StringList{}
	for _, item := range asSlice(v) {
		if s, ok := asString(item); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}

// dateGroups filters and coerces an event-level availableDates payload.
// Entries missing a valid month/year or ending up with no valid days are
// dropped.
func dateGroups(v any) models.DateGroups {
	out := models.DateGroups{}
	for _, item := range asSlice(v) {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if g, ok := dateGroup(entry); ok {
			out = append(out, g)
		}
	}
	return out
}

func dateGroup(entry map[string]any) (models.DateGroup, bool) {
	var g models.DateGroup

	month, okM := asInt(entry["month"])
	year, okY := asInt(entry["year"])
	if !okM || !okY || month < 1 || month > 12 || year < 2000 {
		return g, false
	}
	g.Month = month
	g.Year = year

	for _, d := range asSlice(entry["dates"]) {
		if day, ok := asInt(d); ok && day >= 1 && day <= 31 {
			g.Dates = append(g.Dates, day)
		}
	}
	if len(g.Dates) == 0 {
		return g, false
	}

	if loc, ok := asString(entry["location"]); ok {
		g.Location = loc
	}
	if seats, ok := asInt(entry["availableSeats"]); ok && seats >= 0 {
		g.AvailableSeats = &seats
	}
	if seats, ok := asInt(entry["totalSeats"]); ok && seats >= 0 {
		g.TotalSeats = &seats
	}
	return g, true
}

func departures(v any) models.Departures {
	out := models.Departures{}
	for _, item := range asSlice(v) {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}

		label, okL := asString(entry["label"])
		origin, okO := asString(entry["origin"])
		destination, okD := asString(entry["destination"])
		if !okL || !okO || !okD || label == "" || origin == "" || destination == "" {
			continue
		}

		dep := models.Departure{
			Label:            label,
			Origin:           origin,
			Destination:      destination,
			TransportOptions: transportOptions(entry["transportOptions"]),
			AvailableDates:   departureDateGroups(entry["availableDates"]),
			Itinerary:        itinerary(entry["itinerary"]),
		}

		if price, ok := asInt64(entry["price"]); ok && price > 0 {
			dep.Price = &price
		}
		if dp, ok := asInt64(entry["discountedPrice"]); ok && dp > 0 {
			dep.DiscountedPrice = &dp
		}

		out = append(out, dep)
	}
	return out
}

func transportOptions(v any) []models.TransportOption {
	var out []models.TransportOption
	for _, item := range asSlice(v) {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		mode, okM := asString(entry["mode"])
		price, okP := asInt64(entry["price"])
		if !okM || !okP || price < 0 || !models.TransportMode(mode).Valid() {
			continue
		}
		out = append(out, models.TransportOption{Mode: models.TransportMode(mode), Price: price})
	}
	return out
}

func departureDateGroups(v any) []models.DepartureDateGroup {
	var out []models.DepartureDateGroup
	for _, item := range asSlice(v) {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		base, ok := dateGroup(entry)
		if !ok {
			continue
		}

		g := models.DepartureDateGroup{DateGroup: base}
		g.AvailableTransportModes = modeList(entry["availableTransportModes"])
		g.DateTransportModes = dateModeMap(entry["dateTransportModes"])
		out = append(out, g)
	}
	return out
}

func modeList(v any) []models.TransportMode {
	var out []models.TransportMode
	for _, item := range asSlice(v) {
		if s, ok := asString(item); ok && models.TransportMode(s).Valid() {
			out = append(out, models.TransportMode(s))
		}
	}
	return out
}

// dateModeMap coerces a {"12": ["BUS"]} override map, dropping unparseable
// day keys and entries whose mode list filters down to nothing.
func dateModeMap(v any) map[int][]models.TransportMode {
	entry, ok := v.(map[string]any)
	if !ok || len(entry) == 0 {
		return nil
	}
	out := map[int][]models.TransportMode{}
	for key, value := range entry {
		day, err := strconv.Atoi(strings.TrimSpace(key))
		if err != nil || day < 1 || day > 31 {
			continue
		}
		modes := modeList(value)
		if len(modes) == 0 {
			continue
		}
		out[day] = modes
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func itinerary(v any) models.ItineraryDays {
	out := models.ItineraryDays{}
	for _, item := range asSlice(v) {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		day, okD := asInt(entry["day"])
		title, okT := asString(entry["title"])
		if !okD || !okT || day < 0 || title == "" {
			continue
		}

		id := models.ItineraryDay{Day: day, Title: title}
		if desc, ok := asString(entry["description"]); ok {
			id.Description = desc
		}
		id.Images = stringList(entry["images"])
		out = append(out, id)
	}
	return out
}

// Coercion helpers. JSON decoding yields float64 for numbers, but admin
// payloads built from form state routinely carry numbers as strings.

func asString(v any) (string, bool) {
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	return strings.TrimSpace(s), true
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

func asInt64(v any) (int64, bool) {
	f, ok := asFloat(v)
	if !ok || f != float64(int64(f)) {
		return 0, false
	}
	return int64(f), true
}

func asInt(v any) (int, bool) {
	n, ok := asInt64(v)
	if !ok {
		return 0, false
	}
	return int(n), true
}

func asBool(v any) (bool, bool) {
	switch b := v.(type) {
	case bool:
		return b, true
	case string:
		switch strings.ToLower(strings.TrimSpace(b)) {
		case "true", "1", "yes":
			return true, true
		case "false", "0", "no":
			return false, true
		}
	}
	return false, false
}

func asSlice(v any) []any {
	s, ok := v.([]any)
	if !ok {
		return nil
	}
	return s
}
