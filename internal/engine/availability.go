package engine

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseAvailability converts a raw availability string such as
// "Mon 9-12, Tue 9-17" into the set of slot keys the teacher may be
// scheduled in. An empty result means the caller must treat the teacher
// as fully available. Clauses naming unknown days or malformed hour
// ranges are skipped and reported as warnings.
//
// A period counts as available only when it truly overlaps the clause's
// clock-hour range, computed from the working window start and the
// period duration.
func ParseAvailability(raw string, c Constraints) (map[SlotKey]struct{}, []string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	slots := make(map[SlotKey]struct{})
	var warnings []string
	periods := c.PeriodsPerDay()

	for _, clause := range strings.Split(raw, ",") {
		clause = strings.TrimSpace(clause)
		if clause == "" {
			continue
		}
		fields := strings.Fields(clause)
		if len(fields) != 2 {
			warnings = append(warnings, fmt.Sprintf("availability clause %q: expected \"<Day> <start>-<end>\"", clause))
			continue
		}
		day, ok := dayAbbrevs[fields[0]]
		if !ok {
			warnings = append(warnings, fmt.Sprintf("availability clause %q: unknown day %q", clause, fields[0]))
			continue
		}
		startHour, endHour, err := parseHourRange(fields[1])
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("availability clause %q: %v", clause, err))
			continue
		}
		startMin := startHour * 60
		endMin := endHour * 60
		for p := 0; p < periods; p++ {
			ps := c.PeriodStartMinute(p)
			pe := ps + c.PeriodMinutes
			if ps < endMin && pe > startMin {
				slots[SlotKey{Day: day, Period: p}] = struct{}{}
			}
		}
	}
	return slots, warnings
}

func parseHourRange(s string) (int, int, error) {
	startStr, endStr, ok := strings.Cut(s, "-")
	if !ok {
		return 0, 0, fmt.Errorf("missing \"-\" in hour range %q", s)
	}
	start, err := strconv.Atoi(strings.TrimSpace(startStr))
	if err != nil {
		return 0, 0, fmt.Errorf("bad start hour %q", startStr)
	}
	end, err := strconv.Atoi(strings.TrimSpace(endStr))
	if err != nil {
		return 0, 0, fmt.Errorf("bad end hour %q", endStr)
	}
	if start < 0 || end > 24 || end <= start {
		return 0, 0, fmt.Errorf("hour range %q out of order", s)
	}
	return start, end, nil
}
