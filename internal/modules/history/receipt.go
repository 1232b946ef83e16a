package history

import (
	"fmt"
	"io"
	"strings"

	"github.com/phpdave11/gofpdf"
)

// WriteReceipt renders a one-page PDF receipt for a single ride.
func WriteReceipt(w io.Writer, r Ride) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 12, "Fareline Ride Receipt")
	pdf.Ln(16)

	pdf.SetFont("Helvetica", "", 11)
	line := func(label, value string) {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.Cell(45, 8, label)
		pdf.SetFont("Helvetica", "", 11)
		pdf.Cell(0, 8, value)
		pdf.Ln(8)
	}

	line("Booking", string(r.ID))
	line("Date", r.Date.Format("Jan 2, 2006 15:04"))
	line("From", r.Origin)
	line("To", r.Destination)
	line("Driver", r.Driver)
	line("Payment", r.PaymentMethod)
	line("Status", titleCase(r.Status))

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(45, 10, "Total")
	pdf.Cell(0, 10, fmt.Sprintf("%s %.2f", strings.ToUpper(r.Amount.Currency), float64(r.Amount.Amount)/100))

	return pdf.Output(w)
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
