package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/tripplanner/internal/domain"
	"github.com/pkordes/tripplanner/internal/render"
)

// ExportFormat selects the file type produced by ExportService.
type ExportFormat string

const (
	FormatCSV  ExportFormat = "csv"
	FormatPDF  ExportFormat = "pdf"
	FormatJSON ExportFormat = "json"
)

// ParseExportFormat maps a query value to a format. Empty means CSV.
func ParseExportFormat(s string) (ExportFormat, error) {
	switch f := ExportFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatCSV, nil
	case FormatCSV, FormatPDF, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("%w: format must be csv, pdf or json", domain.ErrValidation)
	}
}

// Export is a rendered file ready to be written to a response.
type Export struct {
	ContentType string
	Filename    string
	Body        []byte
}

// TripReader is the access-checked read ExportService needs.
type TripReader interface {
	Get(ctx context.Context, caller domain.Identity, id uuid.UUID) (domain.SavedTrip, error)
}

// ExportService renders a saved trip's cost breakdown.
type ExportService struct {
	trips TripReader
	now   func() time.Time
}

// NewExportService constructs an ExportService.
func NewExportService(trips TripReader) *ExportService {
	return &ExportService{trips: trips, now: time.Now}
}

// Export renders the trip in the requested format. The caller must be able
// to view the trip.
func (s *ExportService) Export(ctx context.Context, caller domain.Identity, id uuid.UUID, format ExportFormat) (Export, error) {
	trip, err := s.trips.Get(ctx, caller, id)
	if err != nil {
		return Export{}, fmt.Errorf("service.ExportService.Export: %w", err)
	}
	lines := domain.CostBreakdown(trip.Itinerary)
	base := slug(trip.Name)

	switch format {
	case FormatPDF:
		body, err := render.PDF(trip, lines, s.now())
		if err != nil {
			return Export{}, fmt.Errorf("service.ExportService.Export: %w", err)
		}
		return Export{ContentType: "application/pdf", Filename: base + ".pdf", Body: body}, nil
	case FormatJSON:
		body, err := json.Marshal(lines)
		if err != nil {
			return Export{}, fmt.Errorf("service.ExportService.Export: %w", err)
		}
		return Export{ContentType: "application/json", Filename: base + ".json", Body: body}, nil
	default:
		var buf bytes.Buffer
		if err := render.CSV(&buf, lines); err != nil {
			return Export{}, fmt.Errorf("service.ExportService.Export: %w", err)
		}
		return Export{ContentType: "text/csv", Filename: base + ".csv", Body: buf.Bytes()}, nil
	}
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// slug turns a trip name into a file-name-safe base.
func slug(name string) string {
	s := strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(name), "-"), "-")
	if s == "" {
		return "trip"
	}
	return s
}
