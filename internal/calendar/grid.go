// Package calendar implements date-grid arithmetic, view generation and
// event placement for the booking calendar.
package calendar

import (
	"fmt"
	"time"
)

const (
	// RowHeight is the pixel height of one hour row in day and week views.
	RowHeight = 80

	// MinBlockHeight is the minimum rendered height of an event block.
	MinBlockHeight = 40

	// DateLayout is the calendar-day key format used for event matching.
	DateLayout = "2006-01-02"
)

// DaysInMonth returns the number of days in the given month. Out-of-range
// months follow normal calendar rollover (month 13 is January of the next
// year), per time.Date semantics.
func DaysInMonth(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// FirstWeekday returns the native weekday of the 1st of the given month.
func FirstWeekday(year int, month time.Month) time.Weekday {
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Weekday()
}

// MondayIndex re-indexes a weekday so the week starts on Monday:
// Monday = 0 .. Sunday = 6.
func MondayIndex(w time.Weekday) int {
	return (int(w) + 6) % 7
}

// DateKey formats a time as the calendar-day key used for event matching.
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// StartOfWeek returns the Monday beginning the week containing t,
// truncated to midnight.
func StartOfWeek(t time.Time) time.Time {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return d.AddDate(0, 0, -MondayIndex(d.Weekday()))
}

// PixelOffset computes the vertical placement of an event block:
// full rows for the hour plus a proportional share for the minutes.
func PixelOffset(hour, minute int) int {
	return hour*RowHeight + minute*RowHeight/60
}

// HourLabel renders a 24-hour index as a 12-hour gutter label.
func HourLabel(hour int) string {
	switch {
	case hour == 0:
		return "12 AM"
	case hour < 12:
		return fmt.Sprintf("%d AM", hour)
	case hour == 12:
		return "12 PM"
	default:
		return fmt.Sprintf("%d PM", hour-12)
	}
}

// Weekdays are the Monday-first header labels shared by all views.
var Weekdays = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}
