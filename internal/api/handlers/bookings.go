package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/evorgs/calendar-backend/internal/api/middleware"
	"github.com/evorgs/calendar-backend/internal/storage"
	"github.com/evorgs/calendar-backend/internal/storage/models"
)

// ListBookings returns ingested bookings, optionally filtered by source.
func ListBookings(bookings *storage.BookingRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var (
			list []models.Booking
			err  error
		)
		if sourceID := r.URL.Query().Get("source_id"); sourceID != "" {
			list, err = bookings.ListBySource(ctx, sourceID)
		} else {
			list, err = bookings.List(ctx)
		}
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query bookings")
			return
		}

		if list == nil {
			list = []models.Booking{}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(list)
	}
}

// GetBooking returns a single booking by ID.
func GetBooking(bookings *storage.BookingRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, err := bookings.GetByID(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query booking")
			return
		}
		if b == nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Booking not found")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(b)
	}
}
