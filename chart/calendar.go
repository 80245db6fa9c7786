package chart

import (
	"math"
	"strings"
	"time"
)

// CalendarPhrase renders t relative to now the way a calendar would, in
// lowercase: "today at 3:04 pm", "yesterday at 3:04 pm", "last monday at
// 3:04 pm", or the plain date "01/02/2006" once t is a week or more ago.
func CalendarPhrase(t time.Time, now time.Time) string {
	t = t.In(now.Location())
	at := " at " + t.Format("3:04 PM")

	var phrase string
	switch days := calendarDaysBetween(t, now); {
	case days <= 0:
		phrase = "Today" + at
	case days == 1:
		phrase = "Yesterday" + at
	case days < 7:
		phrase = "Last " + t.Weekday().String() + at
	default:
		phrase = t.Format("01/02/2006")
	}

	return strings.ToLower(phrase)
}

// calendarDaysBetween counts the midnights between t and now.
func calendarDaysBetween(t time.Time, now time.Time) int {
	loc := now.Location()
	from := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	to := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	// Days around a daylight saving transition are 23 or 25 hours long.
	return int(math.Round(to.Sub(from).Hours() / 24))
}
