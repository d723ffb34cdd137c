package handlers

import (
	"net/http"

	"github.com/evorgs/calendar-backend/internal/api/middleware"
	"github.com/evorgs/calendar-backend/internal/calendar"
	"github.com/evorgs/calendar-backend/internal/export"
	"github.com/evorgs/calendar-backend/internal/storage"
)

// ExportCalendar serves the full calendar as an iCalendar feed so the
// schedule can be subscribed to from external calendar apps.
func ExportCalendar(bookings *storage.BookingRepository, events *storage.EventRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		bookingList, err := bookings.List(ctx)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query bookings")
			return
		}
		saved, err := events.List(ctx)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query events")
			return
		}

		merged := calendar.Merge(calendar.EventsFromBookings(bookingList), saved)

		body, err := export.Calendar("Booking Calendar", merged)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to build calendar feed")
			return
		}

		w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="bookings.ics"`)
		w.Write([]byte(body))
	}
}
