// Package dates canonicalizes the two date representations found on the
// site into "YYYY-MM-DD HH:MM UTC" strings, which sort lexicographically in
// chronological order.
package dates

import (
	"fmt"
	"strings"
	"time"
)

var months = map[string]string{
	"Jan": "01", "Feb": "02", "Mar": "03", "Apr": "04",
	"May": "05", "Jun": "06", "Jul": "07", "Aug": "08",
	"Sep": "09", "Oct": "10", "Nov": "11", "Dec": "12",
}

// FromISO formats an ISO-8601 timestamp in UTC calendar fields. The input
// is returned unchanged if it does not parse.
func FromISO(iso string) string {
	t, err := time.Parse(time.RFC3339, iso)
	if err != nil {
		return iso
	}
	t = t.UTC()
	return fmt.Sprintf(
		"%04d-%02d-%02d %02d:%02d UTC",
		t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(),
	)
}

// FromSite converts the site-native pair ("D Mon YYYY", "HH:MM"). A date
// string with fewer than three tokens is returned unmodified so callers can
// tell unparsed input apart from a canonical date.
func FromSite(dateStr, timeStr string) string {
	parts := strings.Fields(dateStr)
	if len(parts) < 3 {
		return dateStr
	}

	day := parts[0]
	if len(day) < 2 {
		day = "0" + day
	}
	month, ok := months[parts[1]]
	if !ok {
		month = "01"
	}
	year := parts[2]

	if timeStr == "" {
		timeStr = "00:00"
	}
	return fmt.Sprintf("%s-%s-%s %s UTC", year, month, day, timeStr)
}
