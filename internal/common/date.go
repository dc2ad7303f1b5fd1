package common

import (
	"strings"
	"time"
)

// DayLayout is the wire format for calendar-day path parameters.
const DayLayout = "2006-01-02"

// ParseDay parses a YYYY-MM-DD path parameter. Calendar days are anchored to
// UTC: parsing, formatting, cache keys and SQL filters must all agree on the
// same zone or a receipt created near midnight lands on two different days.
func ParseDay(value string) (time.Time, error) {
	return time.ParseInLocation(DayLayout, strings.TrimSpace(value), time.UTC)
}

// FormatDay renders the UTC calendar day of a timestamp in wire format.
func FormatDay(t time.Time) string {
	return t.UTC().Format(DayLayout)
}
