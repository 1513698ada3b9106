package service

import (
	"fmt"
	"sort"
	"time"

	"github.com/satyamraj2990/slotify-engine/internal/engine"
	"github.com/satyamraj2990/slotify-engine/internal/models"
	"github.com/satyamraj2990/slotify-engine/pkg/export"
)

// buildGrid lays entries out as one row per working day and one column
// per period. Slots carrying several cohorts join their cells with a
// semicolon.
func buildGrid(rec runRecord) export.Grid {
	layout := rec.Layout
	headers := make([]string, 0, layout.Periods+1)
	headers = append(headers, "Day")
	for p := 0; p < layout.Periods; p++ {
		headers = append(headers, fmt.Sprintf("P%d", p+1))
	}

	cells := make(map[int]map[int][]string, len(layout.Days))
	for _, e := range rec.Run.Entries {
		if cells[e.Day] == nil {
			cells[e.Day] = make(map[int][]string)
		}
		cells[e.Day][e.Period] = append(cells[e.Day][e.Period], cellText(e))
	}

	rows := make([][]string, 0, len(layout.Days))
	for _, day := range layout.Days {
		row := make([]string, layout.Periods+1)
		row[0] = engine.DayName(day)
		for p := 0; p < layout.Periods; p++ {
			values := cells[day][p]
			sort.Strings(values)
			if len(values) > 0 {
				row[p+1] = joinCell(values)
			}
		}
		rows = append(rows, row)
	}

	return export.Grid{Headers: headers, Rows: rows, EmptyCell: "-"}
}

func cellText(e models.TimetableEntry) string {
	return fmt.Sprintf("%s %s | %s | %s", e.CourseCode, sessionAbbrev(e.Kind), e.RoomNumber, e.TeacherName)
}

func joinCell(values []string) string {
	out := values[0]
	for _, v := range values[1:] {
		out += "; " + v
	}
	return out
}

func sessionAbbrev(kind string) string {
	if kind == string(engine.SessionPractical) {
		return "P"
	}
	return "L"
}

func buildRows(run models.TimetableRun) []export.EntryRow {
	entries := append([]models.TimetableEntry(nil), run.Entries...)
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Day != entries[j].Day {
			return entries[i].Day < entries[j].Day
		}
		if entries[i].Period != entries[j].Period {
			return entries[i].Period < entries[j].Period
		}
		return entries[i].CourseCode < entries[j].CourseCode
	})

	rows := make([]export.EntryRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, export.EntryRow{
			Day:      engine.DayName(e.Day),
			Period:   fmt.Sprintf("P%d", e.Period+1),
			Course:   e.CourseCode,
			Kind:     sessionAbbrev(e.Kind),
			Teacher:  e.TeacherName,
			Room:     e.RoomNumber,
			Cohort:   e.Cohort,
			Students: e.Headcount,
		})
	}
	return rows
}

// buildEvents converts entries into calendar occurrences anchored at
// each entry's next weekday occurrence after now.
func buildEvents(rec runRecord, now time.Time) []export.Event {
	layout := rec.Layout
	events := make([]export.Event, 0, len(rec.Run.Entries))
	for i, e := range rec.Run.Entries {
		start := nextOccurrence(now, e.Day, layout.StartMinute+e.Period*layout.PeriodMinutes)
		end := start.Add(time.Duration(layout.PeriodMinutes) * time.Minute)
		kind := "Lecture"
		if e.Kind == string(engine.SessionPractical) {
			kind = "Practical"
		}
		events = append(events, export.Event{
			UID:         fmt.Sprintf("%s-%d@slotify", rec.Run.ID, i),
			Summary:     fmt.Sprintf("%s - %s", e.CourseCode, kind),
			Location:    e.RoomNumber,
			Description: fmt.Sprintf("%s with %s", e.CourseName, e.TeacherName),
			Start:       start,
			End:         end,
		})
	}
	return events
}

// nextOccurrence finds the next calendar date falling on the given
// working-day index (Monday = 0) and applies the clock offset.
func nextOccurrence(now time.Time, day, minuteOfDay int) time.Time {
	// time.Weekday has Sunday = 0; working days count from Monday.
	target := (day + 1) % 7
	delta := (target - int(now.Weekday()) + 7) % 7
	date := now.AddDate(0, 0, delta)
	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, now.Location()).
		Add(time.Duration(minuteOfDay) * time.Minute)
	if delta == 0 && start.Before(now) {
		start = start.AddDate(0, 0, 7)
	}
	return start
}
