package timeutil

import "time"

// DateLayout is the calendar-date format the stats API speaks (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD date string.
func ParseDate(value string) (time.Time, error) {
	return time.Parse(DateLayout, value)
}

// FormatDate formats a time as YYYY-MM-DD in its current location.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// SeasonWindow returns the first and last calendar dates of a season year,
// formatted for schedule query parameters.
func SeasonWindow(year int) (start, end string) {
	start = FormatDate(time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC))
	end = FormatDate(time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC))
	return start, end
}
