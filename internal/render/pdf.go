package render

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/pkordes/tripplanner/internal/domain"
)

// PDF renders a one-document summary of the trip: overview, day-by-day
// schedule, stay, transport and the cost breakdown.
func PDF(trip domain.SavedTrip, lines []domain.CostLine, generated time.Time) ([]byte, error) {
	it := trip.Itinerary

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 25)
	// Core fonts are cp1252; names like "Place Vendôme" need translating.
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(150, 150, 150)
		pdf.CellFormat(0, 8, fmt.Sprintf("Prices are estimates and subject to change  |  page %d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	// Header bar
	pdf.SetFillColor(22, 62, 96)
	pdf.Rect(0, 0, 210, 28, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetXY(20, 8)
	pdf.CellFormat(170, 10, tr(trip.Name), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(20, 18)
	pdf.CellFormat(170, 6, "Generated "+generated.UTC().Format("02 Jan 2006, 15:04 UTC"), "", 1, "L", false, 0, "")
	pdf.SetY(35)
	pdf.SetTextColor(0, 0, 0)

	section := func(title string) {
		pdf.SetFillColor(22, 62, 96)
		pdf.SetTextColor(255, 255, 255)
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(170, 8, "  "+tr(title), "", 1, "L", true, 0, "")
		pdf.SetTextColor(0, 0, 0)
		pdf.Ln(2)
	}
	row := func(label, value string) {
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(100, 100, 100)
		pdf.CellFormat(50, 6, tr(label), "", 0, "L", false, 0, "")
		pdf.SetTextColor(20, 20, 20)
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(120, 6, tr(value), "", 1, "L", false, 0, "")
	}

	section("Overview")
	row("Destination", it.Destination)
	row("Duration", fmt.Sprintf("%d days", it.Duration))
	row("Budget", string(it.Budget))
	row("Travellers", string(it.GroupType))
	pdf.Ln(4)

	section("Schedule")
	for _, d := range it.Days {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(170, 6, tr(fmt.Sprintf("Day %d - %s", d.Day, d.Date)), "", 1, "L", false, 0, "")
		for _, a := range d.Activities {
			row("  "+a.Time, fmt.Sprintf("%s (%s) %s", a.Name, a.Duration, money(a.Cost)))
		}
	}
	pdf.Ln(4)

	section("Stay")
	row("Hotel", it.Accommodation.Name)
	row("Location", it.Accommodation.Location)
	row("Price", fmt.Sprintf("%s/night, %s total", money(it.Accommodation.PricePerNight), money(it.Accommodation.TotalPrice)))
	pdf.Ln(4)

	section("Transport")
	for _, t := range it.Transport {
		row(t.Provider, fmt.Sprintf("%s -> %s %s", t.From, t.To, money(t.Cost)))
	}
	pdf.Ln(4)

	section("Cost breakdown")
	for _, l := range lines {
		if l.Kind == domain.LineTotal {
			pdf.SetFillColor(230, 238, 245)
			pdf.SetFont("Helvetica", "B", 12)
			pdf.CellFormat(130, 9, "TOTAL", "", 0, "L", true, 0, "")
			pdf.CellFormat(40, 9, money(l.Amount), "", 1, "R", true, 0, "")
			continue
		}
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(30, 6, string(l.Kind), "", 0, "L", false, 0, "")
		pdf.CellFormat(100, 6, tr(l.Label), "", 0, "L", false, 0, "")
		pdf.CellFormat(40, 6, money(l.Amount), "", 1, "R", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render.PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func money(n int64) string {
	return fmt.Sprintf("$%d", n)
}
