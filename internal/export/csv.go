package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"musafir/internal/models"
)

// Export scopes. Wider scopes carry more columns so a narrower export stays
// readable without redundant fields.
const (
	ScopeAll       = "all"
	ScopeEvent     = "event"
	ScopeDeparture = "departure"
	ScopeDate      = "date"
)

var scopeHeaders = map[string][]string{
	ScopeAll:       {"reference", "event", "departure", "transport_mode", "travel_date", "participants", "total_amount", "status", "payment_status", "created_at"},
	ScopeEvent:     {"reference", "departure", "transport_mode", "travel_date", "participants", "total_amount", "status", "payment_status"},
	ScopeDeparture: {"reference", "transport_mode", "travel_date", "participants", "total_amount", "status", "payment_status"},
	ScopeDate:      {"reference", "departure", "transport_mode", "participants", "total_amount", "status", "payment_status"},
}

func ValidScope(scope string) bool {
	_, ok := scopeHeaders[scope]
	return ok
}

// BookingsCSV renders bookings as CSV with a fixed column order per scope.
// eventTitles maps event id to title for the "all" scope.
func BookingsCSV(scope string, bookings []*models.Booking, eventTitles map[int64]string) ([]byte, error) {
	headers, ok := scopeHeaders[scope]
	if !ok {
		return nil, fmt.Errorf("unknown export scope: %s", scope)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(headers); err != nil {
		return nil, err
	}

	for _, b := range bookings {
		row := make([]string, 0, len(headers))
		for _, col := range headers {
			row = append(row, field(col, b, eventTitles))
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func field(col string, b *models.Booking, eventTitles map[int64]string) string {
	switch col {
	case "reference":
		return b.Reference
	case "event":
		if title, ok := eventTitles[b.EventID]; ok {
			return title
		}
		return strconv.FormatInt(b.EventID, 10)
	case "departure":
		return deref(b.SelectedDeparture)
	case "transport_mode":
		return deref(b.SelectedTransport)
	case "travel_date":
		return fmt.Sprintf("%02d-%02d-%d", b.TravelDay, b.TravelMonth, b.TravelYear)
	case "participants":
		return strconv.Itoa(len(b.Participants))
	case "total_amount":
		return strconv.FormatInt(b.TotalAmount, 10)
	case "status":
		return b.Status
	case "payment_status":
		return b.PaymentStatus
	case "created_at":
		return b.CreatedAt.UTC().Format("2006-01-02 15:04:05")
	}
	return ""
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
