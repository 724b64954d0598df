// Package period provides all date-to-period reconciliation used by the
// application. A period is a derived key, not a stored entity: either a
// calendar month ("March 2024") or a mid-month accounting cycle running from
// the 15th of one month through the 14th of the next, labeled by the later
// month. Every call site that buckets, ranges or sorts by period goes through
// this package so the two period systems agree everywhere.
package period

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Mode selects the period system a date is reconciled into.
type Mode string

const (
	Calendar Mode = "calendar"
	MidMonth Mode = "mid-month"
)

// MidMonthSuffix distinguishes mid-month labels from calendar labels when both
// must coexist in one namespace (period pickers). Label itself never appends
// it; that is the caller's job.
const MidMonthSuffix = " (Mid-Month)"

// Fallback layouts tried for dates without slashes, most common first.
var fallbackLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"02.01.2006",
	"02-01-2006",
	"2-Jan-2006",
	"02 Jan 2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 January 2006",
}

// ParseDate interprets a raw statement date string. Strings containing
// slashes are split and read as day/month/year when dayFirst is true (the
// default locale assumption for non-US statements) or month/day/year
// otherwise; a 2-digit year is taken as 2000+yy. Anything else falls back to
// a list of common layouts.
//
// A date that cannot be interpreted yields ok=false, never an error: one bad
// row must not fail a whole batch, so aggregate computations check ok and
// silently skip.
func ParseDate(raw string, dayFirst bool) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}

	if strings.Contains(raw, "/") {
		return parseSlashDate(raw, dayFirst)
	}

	for _, layout := range fallbackLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseSlashDate(raw string, dayFirst bool) (time.Time, bool) {
	parts := strings.Split(raw, "/")
	if len(parts) < 3 {
		return time.Time{}, false
	}

	first, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
	second, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
	yearPart := strings.TrimSpace(parts[2])
	year, err3 := strconv.Atoi(yearPart)
	if err1 != nil || err2 != nil || err3 != nil {
		return time.Time{}, false
	}
	if len(yearPart) == 2 {
		year += 2000
	}

	day, month := first, second
	if !dayFirst {
		day, month = second, first
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes overflow (e.g. 31 Feb -> 2 Mar); reject such input.
	if t.Day() != day || t.Month() != time.Month(month) {
		return time.Time{}, false
	}
	return t, true
}

// Label returns the unadorned period label for a date under the given mode,
// e.g. "March 2024". In mid-month mode a date on or after the 15th belongs to
// the cycle labeled with the following month; the date is anchored to day 1
// before the month is advanced so that e.g. Jan 31 lands on February rather
// than rolling over into March.
func Label(date time.Time, mode Mode) string {
	target := date
	if mode == MidMonth && date.Day() >= 15 {
		target = time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, date.Location()).AddDate(0, 1, 0)
	}
	return fmt.Sprintf("%s %d", target.Month().String(), target.Year())
}

// Range returns the inclusive date boundaries of a labeled period. A
// transaction dated exactly on a boundary belongs to the period.
//
// calendar: day 1 00:00:00 through the last day 23:59:59.999999999.
// mid-month: the 15th of the preceding month through the 14th 23:59:59.999999999
// of the labeled month.
func Range(label string, mode Mode) (start, end time.Time, err error) {
	year, month, err := splitLabel(label)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	if mode == MidMonth {
		start = time.Date(year, month, 15, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)
		end = time.Date(year, month, 15, 0, 0, 0, 0, time.UTC).Add(-time.Nanosecond)
		return start, end, nil
	}

	start = time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end = start.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return start, end, nil
}

// Contains reports whether a date falls inside the labeled period, boundaries
// inclusive.
func Contains(date time.Time, label string, mode Mode) bool {
	start, end, err := Range(label, mode)
	if err != nil {
		return false
	}
	return !date.Before(start) && !date.After(end)
}

// SortKey returns a monotonic chronological key for a period label. The label
// may carry the mid-month suffix; for the same month-year the mid-month
// variant sorts immediately after its calendar counterpart. The tie-break is
// stable, not otherwise significant.
func SortKey(label string) int64 {
	clean := strings.TrimSuffix(label, MidMonthSuffix)
	year, month, err := splitLabel(clean)
	if err != nil {
		return 0
	}
	key := int64(year)*1000 + int64(month)*10
	if clean != label {
		key++
	}
	return key
}

func splitLabel(label string) (int, time.Month, error) {
	fields := strings.Fields(strings.TrimSpace(label))
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("invalid period label: %q", label)
	}

	month, ok := monthByName(fields[0])
	if !ok {
		return 0, 0, fmt.Errorf("invalid month in period label: %q", label)
	}
	year, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid year in period label: %q", label)
	}
	return year, month, nil
}

func monthByName(name string) (time.Month, bool) {
	for m := time.January; m <= time.December; m++ {
		if m.String() == name {
			return m, true
		}
	}
	return 0, false
}
