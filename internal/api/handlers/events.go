package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/evorgs/calendar-backend/internal/api/middleware"
	"github.com/evorgs/calendar-backend/internal/calendar"
	"github.com/evorgs/calendar-backend/internal/storage"
	"github.com/evorgs/calendar-backend/internal/storage/models"
	"github.com/evorgs/calendar-backend/internal/websocket"
)

// CreateEventRequest carries the add-event form. An optional booking id
// links a follow-up: it fills in a default title and location but the
// stored event stays independent of the booking.
type CreateEventRequest struct {
	Title     string `json:"title"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	Location  string `json:"location"`
	Color     string `json:"color"`
	BookingID string `json:"booking_id,omitempty"`
}

// ListEvents returns all calendar entries: events derived from bookings
// merged with saved ad-hoc events, ordered by date and start time.
func ListEvents(bookings *storage.BookingRepository, events *storage.EventRepository) http.HandlerFunc {
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
		if merged == nil {
			merged = []models.Event{}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(merged)
	}
}

// CreateEvent saves an ad-hoc event and announces it to connected clients.
func CreateEvent(bookings *storage.BookingRepository, events *storage.EventRepository, broadcaster *websocket.EventBroadcaster) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req CreateEventRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}

		var linked *models.Booking
		if req.BookingID != "" {
			b, err := bookings.GetByID(ctx, req.BookingID)
			if err != nil {
				middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query booking")
				return
			}
			if b == nil {
				middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Linked booking not found")
				return
			}
			linked = b
		}

		event, err := calendar.BuildEvent(storage.GenerateID(), calendar.AddEventInput{
			Title:     req.Title,
			Date:      req.Date,
			StartTime: req.StartTime,
			Location:  req.Location,
			Color:     models.EventColor(req.Color),
		}, linked, time.Now())
		if err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, err.Error())
			return
		}

		if err := events.Create(ctx, &event); err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to save event")
			return
		}

		if broadcaster != nil {
			broadcaster.BroadcastEventAdded(event)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(event)
	}
}
