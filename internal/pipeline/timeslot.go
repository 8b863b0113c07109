package pipeline

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var timeExpr = regexp.MustCompile(`(\d{1,2}):(\d{2})`)

var tomorrowTokens = []string{"завтра", "tomorrow"}

// ResolveTimeSlot maps a free-form time hint from the AI ("сегодня 14:00",
// "завтра", "tomorrow 09:30") onto an absolute timestamp relative to now.
// A "tomorrow" token shifts the base date by one day; an HH:MM pattern sets
// the clock with seconds zeroed; with no time pattern the result is now+2h.
// Best-effort by contract: it always returns a value.
func ResolveTimeSlot(slot string, now time.Time) time.Time {
	base := now

	lower := strings.ToLower(slot)
	for _, token := range tomorrowTokens {
		if strings.Contains(lower, token) {
			base = now.AddDate(0, 0, 1)
			break
		}
	}

	match := timeExpr.FindStringSubmatch(slot)
	if match == nil {
		return now.Add(2 * time.Hour)
	}

	hour, _ := strconv.Atoi(match[1])
	minute, _ := strconv.Atoi(match[2])
	if hour > 23 || minute > 59 {
		return now.Add(2 * time.Hour)
	}

	return time.Date(base.Year(), base.Month(), base.Day(), hour, minute, 0, 0, base.Location())
}
