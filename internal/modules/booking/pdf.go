package booking

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/phpdave11/gofpdf"
)

const dateLayout = "2006-01-02 15:04"

// RenderConfirmationPDF prints a one-page booking confirmation.
func RenderConfirmationPDF(conf *Confirmation) ([]byte, error) {
	b := conf.Booking
	p := conf.Payment

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Booking Confirmation", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "BOOKING CONFIRMATION")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		"Booking no : " + b.ID,
		"Status     : " + string(b.Status),
		"Guest      : " + safe(conf.ContactEmail, "-"),
		"Check-in   : " + b.CheckIn.UTC().Format(dateLayout) + " UTC",
		"Check-out  : " + b.CheckOut.UTC().Format(dateLayout) + " UTC",
		fmt.Sprintf("Nights     : %d", conf.Nights),
		fmt.Sprintf("Guests     : %d", b.NumGuests),
	}
	for _, s := range lines {
		pdf.Cell(0, 7, s)
		pdf.Ln(7)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Rooms:")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	for i, r := range conf.Rooms {
		amenities := "-"
		if len(r.Amenities) > 0 {
			amenities = strings.Join(r.Amenities, ", ")
		}
		pdf.MultiCell(0, 6, fmt.Sprintf("%d) %s  %s per night  (%s)", i+1, r.ID, formatAmount(r.Price), amenities), "", "", false)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Payment:")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, "Method        : "+safe(p.Method, b.PaymentMethod))
	pdf.Ln(6)
	pdf.Cell(0, 6, "Total         : "+formatAmount(p.TotalAmount))
	pdf.Ln(6)
	pdf.Cell(0, 6, "Advance due   : "+formatAmount(p.Advance))
	pdf.Ln(6)
	pdf.Cell(0, 6, "Paid so far   : "+formatAmount(p.PaidAmount))
	pdf.Ln(6)
	pdf.Cell(0, 6, "Payment state : "+safe(string(p.Status), "-"))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Your booking is held as pending until the advance payment has been verified by the front desk.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render confirmation pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func safe(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

// formatAmount renders 30000 as "30 000".
func formatAmount(v float64) string {
	s := fmt.Sprintf("%.0f", v)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	var out []byte
	for i := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ' ')
		}
		out = append(out, s[i])
	}
	if neg {
		return "-" + string(out)
	}
	return string(out)
}
