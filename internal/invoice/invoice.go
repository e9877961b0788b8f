package invoice

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"musafir/internal/models"

	"github.com/phpdave11/gofpdf"
)

// Data carries everything the PDF needs so the renderer stays free of
// repository lookups.
type Data struct {
	Booking *models.Booking
	Event   *models.Event
	User    *models.User
}

// Build renders a booking invoice and returns the PDF bytes plus a
// download filename.
func Build(d Data) ([]byte, string, error) {
	if d.Booking == nil || d.Event == nil {
		return nil, "", fmt.Errorf("booking and event are required")
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Booking Invoice", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "BOOKING INVOICE")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, "Invoice No : INV-"+shortRef(d.Booking.Reference))
	pdf.Ln(7)
	pdf.Cell(0, 7, "Date       : "+time.Now().Format("2006-01-02 15:04"))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Billed to:")
	pdf.Ln(7)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, "Name  : "+safe(billedName(d), "-"))
	pdf.Ln(7)
	pdf.Cell(0, 7, "Email : "+safe(billedEmail(d), "-"))
	pdf.Ln(10)

	travelDate := fmt.Sprintf("%02d-%02d-%d", d.Booking.TravelDay, d.Booking.TravelMonth, d.Booking.TravelYear)
	desc := fmt.Sprintf("%s, departing %s on %s via %s",
		safe(d.Event.Title, "-"), safe(deref(d.Booking.SelectedDeparture), "-"),
		travelDate, safe(deref(d.Booking.SelectedTransport), "-"))

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Details:")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 11)
	pdf.MultiCell(0, 6, "1) "+desc, "", "", false)
	pdf.Ln(2)

	pdf.Cell(0, 6, fmt.Sprintf("Participants: %d", len(d.Booking.Participants)))
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Total: "+formatINR(d.Booking.TotalAmount))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, fmt.Sprintf("Booking reference %s. Payment status: %s.",
		d.Booking.Reference, d.Booking.PaymentStatus), "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("INVOICE_%s.pdf", shortRef(d.Booking.Reference))
	return buf.Bytes(), filename, nil
}

func billedName(d Data) string {
	if d.User != nil && strings.TrimSpace(d.User.Name) != "" {
		return d.User.Name
	}
	if len(d.Booking.Participants) > 0 {
		return d.Booking.Participants[0].Name
	}
	return ""
}

func billedEmail(d Data) string {
	if d.User != nil {
		return d.User.Email
	}
	return ""
}

func safe(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	return v
}

func shortRef(ref string) string {
	ref = strings.ToUpper(strings.ReplaceAll(ref, "-", ""))
	if len(ref) > 12 {
		return ref[:12]
	}
	return ref
}

func formatINR(amount int64) string {
	return fmt.Sprintf("INR %d", amount)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
