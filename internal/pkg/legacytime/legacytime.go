// Package legacytime turns the display timestamps used by seed conversations
// ("09:12", "Kemarin", "07/12/25") into absolute times.
package legacytime

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	clockPattern = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)
	datePattern  = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{2}|\d{4})$`)
)

var yesterdayWords = map[string]struct{}{
	"kemarin":   {},
	"yesterday": {},
}

var genericLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// middayHour keeps calendar dates away from midnight so a timezone shift never
// moves them to the previous day.
const middayHour = 12

// Parse never fails: strings it cannot understand resolve to now.
func Parse(value string, now time.Time) time.Time {
	value = strings.TrimSpace(value)

	if m := clockPattern.FindStringSubmatch(value); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute, _ := strconv.Atoi(m[2])
		if hour < 24 && minute < 60 {
			return time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
		}
		return now
	}

	if _, ok := yesterdayWords[strings.ToLower(value)]; ok {
		return now.AddDate(0, 0, -1)
	}

	if m := datePattern.FindStringSubmatch(value); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if len(m[3]) == 2 {
			year += 2000
		}
		if month < 1 || month > 12 || day < 1 || day > daysIn(time.Month(month), year) {
			return now
		}
		return time.Date(year, time.Month(month), day, middayHour, 0, 0, 0, now.Location())
	}

	for _, layout := range genericLayouts {
		if t, err := time.ParseInLocation(layout, value, now.Location()); err == nil {
			return t
		}
	}

	return now
}

func daysIn(month time.Month, year int) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
