package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/evorgs/calendar-backend/internal/api/middleware"
	"github.com/evorgs/calendar-backend/internal/calendar"
	"github.com/evorgs/calendar-backend/internal/storage"
	"github.com/evorgs/calendar-backend/internal/storage/models"
	"github.com/evorgs/calendar-backend/internal/websocket"
)

// SessionResponse represents a calendar session in API responses.
type SessionResponse struct {
	ID          string `json:"id"`
	CurrentDate string `json:"current_date"`
	ViewMode    string `json:"view_mode"`
	EventCount  int    `json:"event_count"`
}

func sessionResponse(s *calendar.Session) SessionResponse {
	current, view, custom := s.Snapshot()
	return SessionResponse{
		ID:          s.ID,
		CurrentDate: calendar.DateKey(current),
		ViewMode:    string(view),
		EventCount:  len(custom),
	}
}

// CreateSession starts a new calendar session anchored on today.
func CreateSession(sessions *calendar.SessionManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := sessions.Create()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(sessionResponse(s))
	}
}

// GetSession returns the current state of a session.
func GetSession(sessions *calendar.SessionManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := sessions.Get(mux.Vars(r)["id"])
		if s == nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Session not found")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(sessionResponse(s))
	}
}

// NavigateSession moves the session anchor: prev and next step by the
// active view's unit, today resets to the current date.
func NavigateSession(sessions *calendar.SessionManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := sessions.Get(mux.Vars(r)["id"])
		if s == nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Session not found")
			return
		}

		var req struct {
			Direction string `json:"direction"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}

		if err := s.Navigate(calendar.Direction(req.Direction)); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, err.Error())
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(sessionResponse(s))
	}
}

// SetSessionView switches the session between day, week and month view.
func SetSessionView(sessions *calendar.SessionManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := sessions.Get(mux.Vars(r)["id"])
		if s == nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Session not found")
			return
		}

		var req struct {
			ViewMode string `json:"view_mode"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}

		if err := s.SetView(models.ViewMode(req.ViewMode)); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, err.Error())
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(sessionResponse(s))
	}
}

// SetSessionDate moves the session anchor to a picked day.
func SetSessionDate(sessions *calendar.SessionManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := sessions.Get(mux.Vars(r)["id"])
		if s == nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Session not found")
			return
		}

		var req struct {
			Date string `json:"date"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}

		t, err := time.Parse(calendar.DateLayout, req.Date)
		if err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "Date must be in YYYY-MM-DD format")
			return
		}

		s.SetDate(t)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(sessionResponse(s))
	}
}

// AddSessionEvent adds an ad-hoc event to the session. The event lives
// only as long as the session; POST /api/events saves one durably.
func AddSessionEvent(sessions *calendar.SessionManager, bookings *storage.BookingRepository, broadcaster *websocket.EventBroadcaster) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := sessions.Get(mux.Vars(r)["id"])
		if s == nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Session not found")
			return
		}

		var req CreateEventRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}

		var linked *models.Booking
		if req.BookingID != "" {
			b, err := bookings.GetByID(r.Context(), req.BookingID)
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

		event, err := s.AddEvent(storage.GenerateID(), calendar.AddEventInput{
			Title:     req.Title,
			Date:      req.Date,
			StartTime: req.StartTime,
			Location:  req.Location,
			Color:     models.EventColor(req.Color),
		}, linked)
		if err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, err.Error())
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

// RenderSessionView renders the session's active view over the merged
// event set: booking-derived events, saved events and session events.
func RenderSessionView(sessions *calendar.SessionManager, bookings *storage.BookingRepository, events *storage.EventRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := sessions.Get(mux.Vars(r)["id"])
		if s == nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Session not found")
			return
		}

		merged, err := mergedEvents(r, bookings, events, s)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to load calendar entries")
			return
		}

		current, view, _ := s.Snapshot()
		now := time.Now()

		var payload any
		switch view {
		case models.ViewMonth:
			payload = calendar.BuildMonthView(current, merged, now)
		case models.ViewWeek:
			payload = calendar.BuildWeekView(current, merged, now)
		case models.ViewDay:
			payload = calendar.BuildDayView(current, merged)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"current_date": calendar.DateKey(current),
			"view_mode":    string(view),
			"view":         payload,
		})
	}
}

// RenderSessionMini renders the compact month used by the date picker.
// An optional month query parameter shows a month other than the anchor's.
func RenderSessionMini(sessions *calendar.SessionManager, bookings *storage.BookingRepository, events *storage.EventRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := sessions.Get(mux.Vars(r)["id"])
		if s == nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Session not found")
			return
		}

		merged, err := mergedEvents(r, bookings, events, s)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to load calendar entries")
			return
		}

		current, _, _ := s.Snapshot()

		ref := current
		if month := r.URL.Query().Get("month"); month != "" {
			t, err := time.Parse("2006-01", month)
			if err != nil {
				middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "Month must be in YYYY-MM format")
				return
			}
			ref = t
		}

		mini := calendar.BuildMiniMonth(ref, current, merged, time.Now())

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(mini)
	}
}

func mergedEvents(r *http.Request, bookings *storage.BookingRepository, events *storage.EventRepository, s *calendar.Session) ([]models.Event, error) {
	ctx := r.Context()

	bookingList, err := bookings.List(ctx)
	if err != nil {
		return nil, err
	}
	saved, err := events.List(ctx)
	if err != nil {
		return nil, err
	}

	_, _, custom := s.Snapshot()
	return calendar.Merge(calendar.EventsFromBookings(bookingList), saved, custom), nil
}
