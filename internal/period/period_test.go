package period

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		dayFirst  bool
		ok        bool
		expectedY int
		expectedM time.Month
		expectedD int
	}{
		{"slash day first", "14/03/2024", true, true, 2024, time.March, 14},
		{"slash two digit year", "14/03/24", true, true, 2024, time.March, 14},
		{"slash month first", "03/14/2024", false, true, 2024, time.March, 14},
		{"ISO", "2024-03-14", true, true, 2024, time.March, 14},
		{"european dotted", "14.03.2024", true, true, 2024, time.March, 14},
		{"month name", "14 Mar 2024", true, true, 2024, time.March, 14},
		{"slash too few parts", "14/03", true, false, 0, 0, 0},
		{"slash out of range month", "14/13/2024", true, false, 0, 0, 0},
		{"slash overflowed day", "31/02/2024", true, false, 0, 0, 0},
		{"empty", "", true, false, 0, 0, 0},
		{"garbage", "not a date", true, false, 0, 0, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			date, ok := ParseDate(tc.raw, tc.dayFirst)
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.Equal(t, tc.expectedY, date.Year())
				assert.Equal(t, tc.expectedM, date.Month())
				assert.Equal(t, tc.expectedD, date.Day())
			}
		})
	}
}

func TestLabelCalendar(t *testing.T) {
	d := time.Date(2024, time.March, 14, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "March 2024", Label(d, Calendar))
}

func TestLabelMidMonthBoundary(t *testing.T) {
	// The 14th belongs to the cycle labeled with its own month, the 15th to
	// the next month's cycle.
	d14 := time.Date(2024, time.March, 14, 0, 0, 0, 0, time.UTC)
	d15 := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "March 2024", Label(d14, MidMonth))
	assert.Equal(t, "April 2024", Label(d15, MidMonth))
}

func TestLabelMidMonthOverflowSafe(t *testing.T) {
	// Jan 31 + 1 month must land on February, not roll into March.
	d := time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "February 2024", Label(d, MidMonth))

	// Year rollover.
	dec := time.Date(2023, time.December, 20, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "January 2024", Label(dec, MidMonth))
}

func TestRangeCalendar(t *testing.T) {
	start, end, err := Range("February 2024", Calendar)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.February, end.Month())
	assert.Equal(t, 29, end.Day()) // leap year
	assert.Equal(t, 23, end.Hour())
}

func TestRangeMidMonth(t *testing.T) {
	start, end, err := Range("March 2024", MidMonth)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.February, 15, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.March, end.Month())
	assert.Equal(t, 14, end.Day())
	assert.Equal(t, 23, end.Hour())
}

func TestRangeInvalidLabel(t *testing.T) {
	_, _, err := Range("Smarch 2024", Calendar)
	assert.Error(t, err)
	_, _, err = Range("March", Calendar)
	assert.Error(t, err)
	_, _, err = Range("March twenty", Calendar)
	assert.Error(t, err)
}

// Round trip: any date lies within the range of its own label, both modes,
// boundaries included.
func TestLabelRangeRoundTrip(t *testing.T) {
	dates := []time.Time{
		time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, time.January, 14, 0, 0, 0, 0, time.UTC),
		time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC),
		time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC),
		time.Date(2023, time.December, 31, 0, 0, 0, 0, time.UTC),
	}
	for _, mode := range []Mode{Calendar, MidMonth} {
		for _, d := range dates {
			label := Label(d, mode)
			assert.True(t, Contains(d, label, mode),
				"%s should fall within its own %s period %q", d.Format("2006-01-02"), mode, label)
		}
	}
}

func TestSortKey(t *testing.T) {
	labels := []string{
		"February 2024",
		"February 2024" + MidMonthSuffix,
		"March 2024",
		"March 2024" + MidMonthSuffix,
		"January 2025",
	}
	for i := 1; i < len(labels); i++ {
		assert.Less(t, SortKey(labels[i-1]), SortKey(labels[i]),
			"%q should sort before %q", labels[i-1], labels[i])
	}

	// Unparseable labels sort to the front rather than panicking.
	assert.Equal(t, int64(0), SortKey("Unknown"))
}
