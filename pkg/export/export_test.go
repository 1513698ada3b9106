package export

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVExporterRendersGridWithEmptyMarker(t *testing.T) {
	grid := Grid{
		Headers:   []string{"Day", "P1", "P2"},
		EmptyCell: "-",
		Rows: [][]string{
			{"Monday", "CS101 L | R101 | T1", ""},
			{"Tuesday", "", "PH102 P | LAB1 | T2"},
		},
	}

	out, err := NewCSVExporter().Render(grid)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Day,P1,P2", lines[0])
	assert.Contains(t, lines[1], "CS101 L | R101 | T1")
	assert.Contains(t, lines[1], "-")
	assert.Contains(t, lines[2], "PH102 P | LAB1 | T2")
}

func TestCSVExporterRejectsEmptyHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Grid{})
	assert.Error(t, err)
}

func TestRowsExporterIncludesTaggedHeaders(t *testing.T) {
	rows := []EntryRow{
		{Day: "Monday", Period: "P1", Course: "CS101", Kind: "L", Teacher: "Rao", Room: "R101", Cohort: "S1-Y2026", Students: 60},
	}

	out, err := NewRowsExporter().Render(rows)
	require.NoError(t, err)

	text := string(out)
	assert.Contains(t, text, "day,period,course,session_type,teacher,room,cohort,students")
	assert.Contains(t, text, "Monday,P1,CS101,L,Rao,R101,S1-Y2026,60")
}

func TestICSExporterEmitsOneEventPerEntry(t *testing.T) {
	start := time.Date(2026, time.August, 31, 9, 0, 0, 0, time.UTC)
	events := []Event{
		{UID: "e1", Summary: "CS101 - Lecture", Location: "R101", Start: start, End: start.Add(time.Hour)},
		{UID: "e2", Summary: "PH102 - Practical", Location: "LAB1", Start: start.Add(2 * time.Hour), End: start.Add(3 * time.Hour)},
		{UID: "e3", Summary: "MA201 - Lecture", Location: "R102", Start: start.Add(4 * time.Hour), End: start.Add(5 * time.Hour)},
	}

	out, err := NewICSExporter("").Render("Semester 1", events)
	require.NoError(t, err)

	text := string(out)
	assert.Equal(t, 3, strings.Count(text, "BEGIN:VEVENT"))
	assert.Equal(t, 3, strings.Count(text, "END:VEVENT"))
	assert.Contains(t, text, "SUMMARY:CS101 - Lecture")
	assert.Contains(t, text, "LOCATION:LAB1")
}

func TestICSExporterRejectsInvalidEvents(t *testing.T) {
	start := time.Now()

	_, err := NewICSExporter("").Render("", []Event{{Summary: "x", Start: start, End: start.Add(time.Hour)}})
	assert.Error(t, err, "missing uid")

	_, err = NewICSExporter("").Render("", []Event{{UID: "e1", Start: start, End: start}})
	assert.Error(t, err, "zero duration")
}

func TestPDFExporterProducesDocument(t *testing.T) {
	grid := Grid{
		Headers:   []string{"Day", "P1"},
		EmptyCell: "-",
		Rows:      [][]string{{"Monday", "CS101"}},
	}

	out, err := NewPDFExporter().Render(grid, "Semester 1")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), "%PDF"))
}
