package engine

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

const (
	priorityCore    = 1000
	priorityMajor   = 800
	priorityDefault = 400
)

func basePriority(cat CourseCategory) int {
	switch cat {
	case CategoryCore:
		return priorityCore
	case CategoryMajor:
		return priorityMajor
	default:
		return priorityDefault
	}
}

// parseSplit reads a theory/practical descriptor of the form "2L+1P",
// "3L" or "1P". The boolean is false when no lecture or practical count
// could be read at all.
func parseSplit(s string) (lectures, practicals int, ok bool) {
	for _, part := range strings.Split(s, "+") {
		part = strings.ToUpper(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		suffix := part[len(part)-1]
		n, err := strconv.Atoi(part[:len(part)-1])
		if err != nil || n < 0 {
			continue
		}
		switch suffix {
		case 'L':
			lectures += n
			ok = true
		case 'P':
			practicals += n
			ok = true
		}
	}
	return lectures, practicals, ok
}

// ExpandCourses turns each course into its atomic session tokens,
// ordered descending by (priority, headcount). The per-index priority
// decrement keeps sessions of the same course in a stable order.
// Courses with unparseable split descriptors produce no tokens and a
// caller-visible warning.
func ExpandCourses(courses []Course) ([]SessionToken, []string) {
	var tokens []SessionToken
	var warnings []string

	for _, c := range courses {
		lectures, practicals, ok := parseSplit(c.Split)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("course %s: unrecognized session split %q, no sessions generated", c.Code, c.Split))
			continue
		}
		base := basePriority(c.Category)
		index := 0
		emit := func(kind SessionKind) {
			tokens = append(tokens, SessionToken{
				CourseID:   c.ID,
				CourseCode: c.Code,
				TeacherID:  c.TeacherID,
				Kind:       kind,
				Cohort:     c.CohortKey(),
				Headcount:  c.MaxStudents,
				Priority:   base - index,
			})
			index++
		}
		for i := 0; i < lectures; i++ {
			emit(SessionLecture)
		}
		for i := 0; i < practicals; i++ {
			emit(SessionPractical)
		}
	}

	sort.SliceStable(tokens, func(i, j int) bool {
		if tokens[i].Priority != tokens[j].Priority {
			return tokens[i].Priority > tokens[j].Priority
		}
		return tokens[i].Headcount > tokens[j].Headcount
	})
	return tokens, warnings
}
