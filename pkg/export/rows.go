package export

import (
	"fmt"

	"github.com/gocarina/gocsv"
)

// EntryRow is the flat one-entry-per-row CSV representation of a
// scheduled session.
type EntryRow struct {
	Day      string `csv:"day"`
	Period   string `csv:"period"`
	Course   string `csv:"course"`
	Kind     string `csv:"session_type"`
	Teacher  string `csv:"teacher"`
	Room     string `csv:"room"`
	Cohort   string `csv:"cohort"`
	Students int    `csv:"students"`
}

// RowsExporter renders entry rows using struct-tag driven CSV encoding.
type RowsExporter struct{}

// NewRowsExporter builds a rows exporter.
func NewRowsExporter() *RowsExporter {
	return &RowsExporter{}
}

// Render produces CSV bytes with one row per scheduled entry.
func (e *RowsExporter) Render(rows []EntryRow) ([]byte, error) {
	out, err := gocsv.MarshalBytes(&rows)
	if err != nil {
		return nil, fmt.Errorf("marshal entry rows: %w", err)
	}
	return out, nil
}
