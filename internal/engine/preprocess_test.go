package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSplit(t *testing.T) {
	cases := []struct {
		split      string
		lectures   int
		practicals int
		ok         bool
	}{
		{"2L+1P", 2, 1, true},
		{"3L", 3, 0, true},
		{"1P", 0, 1, true},
		{"2l+1p", 2, 1, true},
		{" 2L + 1P ", 2, 1, true},
		{"", 0, 0, false},
		{"banana", 0, 0, false},
		{"L+P", 0, 0, false},
	}
	for _, tc := range cases {
		lectures, practicals, ok := parseSplit(tc.split)
		assert.Equal(t, tc.lectures, lectures, "split %q", tc.split)
		assert.Equal(t, tc.practicals, practicals, "split %q", tc.split)
		assert.Equal(t, tc.ok, ok, "split %q", tc.split)
	}
}

func TestExpandCoursesPriorityOrdering(t *testing.T) {
	courses := []Course{
		{ID: "c-elective", Code: "EL101", Split: "1L", Category: CategoryElective, MaxStudents: 30, TeacherID: "t1", Semester: 1, Year: 2026},
		{ID: "c-core", Code: "CO101", Split: "2L+1P", Category: CategoryCore, MaxStudents: 60, TeacherID: "t1", Semester: 1, Year: 2026},
		{ID: "c-major", Code: "MA201", Split: "1L", Category: CategoryMajor, MaxStudents: 45, TeacherID: "t2", Semester: 3, Year: 2025},
	}

	tokens, warnings := ExpandCourses(courses)
	require.Empty(t, warnings)
	require.Len(t, tokens, 5)

	// Core sessions first with per-index decrement, then major, then elective.
	assert.Equal(t, "CO101", tokens[0].CourseCode)
	assert.Equal(t, 1000, tokens[0].Priority)
	assert.Equal(t, SessionLecture, tokens[0].Kind)
	assert.Equal(t, 999, tokens[1].Priority)
	assert.Equal(t, 998, tokens[2].Priority)
	assert.Equal(t, SessionPractical, tokens[2].Kind)
	assert.Equal(t, "MA201", tokens[3].CourseCode)
	assert.Equal(t, "EL101", tokens[4].CourseCode)
}

func TestExpandCoursesDeterministic(t *testing.T) {
	courses := []Course{
		{ID: "a", Code: "A", Split: "2L", Category: CategoryMinor, MaxStudents: 40},
		{ID: "b", Code: "B", Split: "2L", Category: CategoryElective, MaxStudents: 40},
	}
	first, _ := ExpandCourses(courses)
	second, _ := ExpandCourses(courses)
	assert.Equal(t, first, second)
	// Equal priority and headcount: stable sort preserves input order.
	assert.Equal(t, "A", first[0].CourseCode)
	assert.Equal(t, "B", first[2].CourseCode)
}

func TestExpandCoursesMalformedSplitWarns(t *testing.T) {
	courses := []Course{{ID: "x", Code: "X999", Split: "2T+1U", Category: CategoryCore}}
	tokens, warnings := ExpandCourses(courses)
	assert.Empty(t, tokens)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "X999")
}

func TestExpandCoursesCohortKey(t *testing.T) {
	tokens, _ := ExpandCourses([]Course{{ID: "c", Code: "C", Split: "1L", Semester: 2, Year: 2026}})
	require.Len(t, tokens, 1)
	assert.Equal(t, "S2-Y2026", tokens[0].Cohort)
}
