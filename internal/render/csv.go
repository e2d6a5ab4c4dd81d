// Package render turns a saved trip's cost breakdown into downloadable files.
package render

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/pkordes/tripplanner/internal/domain"
)

var csvHeader = []string{"kind", "day", "label", "detail", "amount"}

// CSV writes one record per cost line after a header record.
// Lines without a day leave the day column empty.
func CSV(w io.Writer, lines []domain.CostLine) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("render.CSV: %w", err)
	}
	for _, l := range lines {
		day := ""
		if l.Day > 0 {
			day = strconv.Itoa(l.Day)
		}
		rec := []string{string(l.Kind), day, l.Label, l.Detail, strconv.FormatInt(l.Amount, 10)}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("render.CSV: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("render.CSV: %w", err)
	}
	return nil
}
