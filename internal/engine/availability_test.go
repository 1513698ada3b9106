package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConstraints() Constraints {
	return Constraints{
		Days:          []int{0, 1, 2, 3, 4},
		StartMinute:   9 * 60,
		EndMinute:     15 * 60,
		PeriodMinutes: 60,
	}
}

func TestParseAvailabilityExactOverlap(t *testing.T) {
	cons := testConstraints()

	// 9-12 covers exactly the first three one-hour periods.
	slots, warnings := ParseAvailability("Mon 9-12", cons)
	require.Empty(t, warnings)
	assert.Len(t, slots, 3)
	for p := 0; p < 3; p++ {
		assert.Contains(t, slots, SlotKey{Day: 0, Period: p})
	}
	assert.NotContains(t, slots, SlotKey{Day: 0, Period: 3})
}

func TestParseAvailabilityMultipleClauses(t *testing.T) {
	cons := testConstraints()

	slots, warnings := ParseAvailability("Mon 9-12, Tue 9-17", cons)
	require.Empty(t, warnings)
	assert.Len(t, slots, 3+6) // Tue range exceeds the window, capped at 6 periods
}

func TestParseAvailabilityPartialHourOverlap(t *testing.T) {
	cons := testConstraints()
	cons.PeriodMinutes = 90
	// Periods start 9:00, 10:30, 12:00, 13:30. 10-11 overlaps the first two.
	slots, warnings := ParseAvailability("Wed 10-11", cons)
	require.Empty(t, warnings)
	assert.Len(t, slots, 2)
	assert.Contains(t, slots, SlotKey{Day: 2, Period: 0})
	assert.Contains(t, slots, SlotKey{Day: 2, Period: 1})
}

func TestParseAvailabilityUnknownDaySkippedWithWarning(t *testing.T) {
	slots, warnings := ParseAvailability("Sun 9-12, Mon 9-10", testConstraints())
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "unknown day")
	assert.Len(t, slots, 1)
}

func TestParseAvailabilityMalformedClauses(t *testing.T) {
	cases := []string{"Mon", "Mon 12-9", "Mon nine-ten", "Mon 9:12"}
	for _, raw := range cases {
		slots, warnings := ParseAvailability(raw, testConstraints())
		assert.Empty(t, slots, "input %q", raw)
		assert.Len(t, warnings, 1, "input %q", raw)
	}
}

func TestParseAvailabilityEmptyMeansAlwaysAvailable(t *testing.T) {
	slots, warnings := ParseAvailability("", testConstraints())
	assert.Nil(t, slots)
	assert.Empty(t, warnings)
}

func TestSlotKeyRoundTrip(t *testing.T) {
	k := SlotKey{Day: 1, Period: 2}
	assert.Equal(t, "Tuesday|P3", k.String())

	parsed, err := ParseSlotKey("Tuesday|P3")
	require.NoError(t, err)
	assert.Equal(t, k, parsed)

	_, err = ParseSlotKey("Funday|P3")
	assert.Error(t, err)
	_, err = ParseSlotKey("Tuesday|X3")
	assert.Error(t, err)
}
