package engine

import (
	"fmt"
	"strconv"
	"strings"
)

// SessionKind distinguishes lecture and practical teaching units.
type SessionKind string

const (
	SessionLecture   SessionKind = "lecture"
	SessionPractical SessionKind = "practical"
)

// CourseCategory drives placement priority.
type CourseCategory string

const (
	CategoryCore     CourseCategory = "core"
	CategoryMajor    CourseCategory = "major"
	CategoryMinor    CourseCategory = "minor"
	CategoryElective CourseCategory = "elective"
	CategoryValueAdd CourseCategory = "value_add"
	CategorySkill    CourseCategory = "skill"
)

// RoomType classifies bookable rooms.
type RoomType string

const (
	RoomClassroom  RoomType = "classroom"
	RoomLab        RoomType = "lab"
	RoomAuditorium RoomType = "auditorium"
	RoomSeminar    RoomType = "seminar"
)

// Day indices run Monday=0 through Sunday=6.
var dayNames = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

var dayAbbrevs = map[string]int{
	"Mon": 0, "Tue": 1, "Wed": 2, "Thu": 3, "Fri": 4, "Sat": 5,
}

// DayName returns the full English name for a day index.
func DayName(day int) string {
	if day < 0 || day >= len(dayNames) {
		return "Unknown"
	}
	return dayNames[day]
}

// SlotKey identifies one bookable timetable cell as a (day, period) pair.
// Periods are zero-based internally; the textual form uses one-based
// labels ("Monday|P1") and exists only for serialization and debugging.
type SlotKey struct {
	Day    int
	Period int
}

func (k SlotKey) String() string {
	return fmt.Sprintf("%s|P%d", DayName(k.Day), k.Period+1)
}

// ParseSlotKey parses the textual "<DayName>|P<n>" form.
func ParseSlotKey(s string) (SlotKey, error) {
	name, label, ok := strings.Cut(s, "|")
	if !ok {
		return SlotKey{}, fmt.Errorf("slot key %q: missing separator", s)
	}
	day := -1
	for i, d := range dayNames {
		if strings.EqualFold(d, name) {
			day = i
			break
		}
	}
	if day < 0 {
		return SlotKey{}, fmt.Errorf("slot key %q: unknown day %q", s, name)
	}
	if !strings.HasPrefix(label, "P") {
		return SlotKey{}, fmt.Errorf("slot key %q: bad period label %q", s, label)
	}
	n, err := strconv.Atoi(label[1:])
	if err != nil || n < 1 {
		return SlotKey{}, fmt.Errorf("slot key %q: bad period label %q", s, label)
	}
	return SlotKey{Day: day, Period: n - 1}, nil
}

// Course is an immutable input record for one generation run.
type Course struct {
	ID          string
	Code        string
	Name        string
	Credits     int
	Split       string // theory/practical descriptor, e.g. "2L+1P"
	Department  string
	TeacherID   string
	MaxStudents int
	Semester    int
	Year        int
	Category    CourseCategory
}

// CohortKey groups all courses taken by the same student group.
func (c Course) CohortKey() string {
	return fmt.Sprintf("S%d-Y%d", c.Semester, c.Year)
}

// Teacher is an immutable input record for one generation run.
type Teacher struct {
	ID            string
	Name          string
	Department    string
	Subjects      []string
	MaxWeeklyLoad int
	Availability  string // raw clause string, empty means fully available
}

// Room is an immutable input record for one generation run.
type Room struct {
	ID        string
	Number    string
	Building  string
	Capacity  int
	Type      RoomType
	Equipment []string
}

// IsLab reports whether practical sessions may be held in the room.
func (r Room) IsLab() bool {
	return r.Type == RoomLab
}

// Constraints describe the slot universe and placement preferences.
type Constraints struct {
	Days                []int // ordered working day indices
	StartMinute         int   // working window start, minutes from midnight
	EndMinute           int
	PeriodMinutes       int
	MaxPeriodsPerDay    int
	PreferMorningTheory bool
	AvoidBackToBackLabs bool
	BalanceDailyLoad    bool
	BlockedSlots        []SlotKey
	Holidays            []string // calendar-level, outside slot scope
}

// PeriodsPerDay derives the period count from the working window,
// capped by MaxPeriodsPerDay when set.
func (c Constraints) PeriodsPerDay() int {
	if c.PeriodMinutes <= 0 {
		return 0
	}
	n := (c.EndMinute - c.StartMinute) / c.PeriodMinutes
	if n < 0 {
		n = 0
	}
	if c.MaxPeriodsPerDay > 0 && n > c.MaxPeriodsPerDay {
		n = c.MaxPeriodsPerDay
	}
	return n
}

// PeriodStartMinute returns the clock offset of a zero-based period.
func (c Constraints) PeriodStartMinute(period int) int {
	return c.StartMinute + period*c.PeriodMinutes
}

// PeriodLabel returns the one-based textual label, "P1".."Pn".
func (c Constraints) PeriodLabel(period int) string {
	return fmt.Sprintf("P%d", period+1)
}

// SlotUniverse enumerates every bookable slot in working-day order.
func (c Constraints) SlotUniverse() []SlotKey {
	periods := c.PeriodsPerDay()
	universe := make([]SlotKey, 0, len(c.Days)*periods)
	for _, day := range c.Days {
		for p := 0; p < periods; p++ {
			universe = append(universe, SlotKey{Day: day, Period: p})
		}
	}
	return universe
}

// SessionToken is one indivisible teaching unit awaiting placement.
type SessionToken struct {
	CourseID   string
	CourseCode string
	TeacherID  string
	Kind       SessionKind
	Cohort     string
	Headcount  int
	Priority   int
}

// Entry is a finalized placement, the atomic unit of engine output.
type Entry struct {
	CourseID   string
	CourseCode string
	TeacherID  string
	RoomID     string
	Day        int
	Period     int
	Kind       SessionKind
	Cohort     string
	Headcount  int
}

// Slot returns the entry's slot key.
func (e Entry) Slot() SlotKey {
	return SlotKey{Day: e.Day, Period: e.Period}
}

// occupancy tracks slots consumed by teachers, rooms and cohorts
// during a single run. A slot key may appear at most once per owner.
type occupancy struct {
	teacher map[string]map[SlotKey]struct{}
	room    map[string]map[SlotKey]struct{}
	cohort  map[string]map[SlotKey]struct{}
}

func newOccupancy() *occupancy {
	return &occupancy{
		teacher: make(map[string]map[SlotKey]struct{}),
		room:    make(map[string]map[SlotKey]struct{}),
		cohort:  make(map[string]map[SlotKey]struct{}),
	}
}

func occupancyFromEntries(entries []Entry) *occupancy {
	occ := newOccupancy()
	for _, e := range entries {
		occ.take(e)
	}
	return occ
}

func (o *occupancy) teacherFree(teacherID string, k SlotKey) bool {
	_, busy := o.teacher[teacherID][k]
	return !busy
}

func (o *occupancy) roomFree(roomID string, k SlotKey) bool {
	_, busy := o.room[roomID][k]
	return !busy
}

func (o *occupancy) cohortFree(cohort string, k SlotKey) bool {
	_, busy := o.cohort[cohort][k]
	return !busy
}

func (o *occupancy) teacherLoad(teacherID string) int {
	return len(o.teacher[teacherID])
}

func (o *occupancy) take(e Entry) {
	k := e.Slot()
	mark(o.teacher, e.TeacherID, k)
	mark(o.room, e.RoomID, k)
	mark(o.cohort, e.Cohort, k)
}

func mark(m map[string]map[SlotKey]struct{}, owner string, k SlotKey) {
	if m[owner] == nil {
		m[owner] = make(map[SlotKey]struct{})
	}
	m[owner][k] = struct{}{}
}
