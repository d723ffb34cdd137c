package calendar

import (
	"sort"

	"github.com/evorgs/calendar-backend/internal/storage/models"
)

// DefaultStartTime places booking-derived events without a scheduled
// visit at the start of the working day.
const DefaultStartTime = "09:00"

// EventFromBooking maps a booking into its calendar event. The mapping
// is pure: it is recomputed whenever the booking list changes and the
// resulting events are never mutated.
func EventFromBooking(b models.Booking) models.Event {
	color := models.ColorGray
	switch b.Status {
	case models.BookingStatusConfirmed:
		color = models.ColorBlue
	case models.BookingStatusPending:
		color = models.ColorPink
	}

	start := b.VisitTime()
	if start == "" {
		start = DefaultStartTime
	}

	return models.Event{
		ID:        b.ID,
		Title:     b.CustomerName,
		Date:      b.EventDate,
		StartTime: start,
		Location:  b.ServiceName,
		Color:     color,
		BookingID: b.ID,
	}
}

// EventsFromBookings derives one event per booking.
func EventsFromBookings(bookings []models.Booking) []models.Event {
	events := make([]models.Event, 0, len(bookings))
	for _, b := range bookings {
		events = append(events, EventFromBooking(b))
	}
	return events
}

// Merge concatenates event lists into a single list ordered by calendar
// day and start time. All views consume the merged list identically.
func Merge(lists ...[]models.Event) []models.Event {
	var merged []models.Event
	for _, l := range lists {
		merged = append(merged, l...)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		if merged[i].Date != merged[j].Date {
			return merged[i].Date < merged[j].Date
		}
		return merged[i].StartTime < merged[j].StartTime
	})

	return merged
}
