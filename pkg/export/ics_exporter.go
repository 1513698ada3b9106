package export

import (
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
)

// Event describes a single calendar occurrence of a scheduled session.
type Event struct {
	UID         string
	Summary     string
	Location    string
	Description string
	Start       time.Time
	End         time.Time
}

// ICSExporter renders events into an iCalendar document.
type ICSExporter struct {
	productID string
}

// NewICSExporter builds an ICS exporter.
func NewICSExporter(productID string) *ICSExporter {
	if productID == "" {
		productID = "-//slotify//scheduler//EN"
	}
	return &ICSExporter{productID: productID}
}

// Render produces an ICS document with one VEVENT per event.
func (e *ICSExporter) Render(name string, events []Event) ([]byte, error) {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(e.productID)
	if name != "" {
		cal.SetName(name)
	}

	for _, ev := range events {
		if ev.UID == "" {
			return nil, fmt.Errorf("event %q missing uid", ev.Summary)
		}
		if !ev.End.After(ev.Start) {
			return nil, fmt.Errorf("event %s has non-positive duration", ev.UID)
		}
		item := cal.AddEvent(ev.UID)
		item.SetDtStampTime(time.Now().UTC())
		item.SetStartAt(ev.Start)
		item.SetEndAt(ev.End)
		item.SetSummary(ev.Summary)
		if ev.Location != "" {
			item.SetLocation(ev.Location)
		}
		if ev.Description != "" {
			item.SetDescription(ev.Description)
		}
	}

	return []byte(cal.Serialize()), nil
}
