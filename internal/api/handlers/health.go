// Package handlers provides HTTP request handlers for the API endpoints.
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/evorgs/calendar-backend/internal/booking"
	"github.com/evorgs/calendar-backend/internal/calendar"
	"github.com/evorgs/calendar-backend/internal/storage"
)

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status      string `json:"status"`
	DBConnected bool   `json:"db_connected"`
}

// HealthCheck returns a handler that performs a health check.
func HealthCheck(db *storage.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dbConnected := db.Ping() == nil

		status := "healthy"
		if !dbConnected {
			status = "degraded"
		}

		response := HealthResponse{
			Status:      status,
			DBConnected: dbConnected,
		}

		w.Header().Set("Content-Type", "application/json")
		if status != "healthy" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		json.NewEncoder(w).Encode(response)
	}
}

// StatusResponse represents the system status response.
type StatusResponse struct {
	SourcesCount       int    `json:"sources_count"`
	ScheduledSources   int    `json:"scheduled_sources"`
	BookingsCount      int    `json:"bookings_count"`
	EventsCount        int    `json:"events_count"`
	ActiveSessions     int    `json:"active_sessions"`
	PendingReminders   int    `json:"pending_reminders"`
	QueuedNotifications int   `json:"queued_notifications"`
	NextSyncAt         string `json:"next_sync_at,omitempty"`
}

// Status returns a handler that provides system status information.
func Status(db *storage.DB, scheduler *booking.Scheduler, sessions *calendar.SessionManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var sourcesCount int
		db.QueryRowContext(ctx, "SELECT COUNT(*) FROM feed_sources").Scan(&sourcesCount)

		var bookingsCount int
		db.QueryRowContext(ctx, "SELECT COUNT(*) FROM bookings").Scan(&bookingsCount)

		var eventsCount int
		db.QueryRowContext(ctx, "SELECT COUNT(*) FROM calendar_events").Scan(&eventsCount)

		var pendingReminders int
		db.QueryRowContext(ctx, "SELECT COUNT(*) FROM reminders WHERE status = 'pending'").Scan(&pendingReminders)

		var queuedNotifications int
		db.QueryRowContext(ctx, "SELECT COUNT(*) FROM notifications WHERE status = 'queued'").Scan(&queuedNotifications)

		response := StatusResponse{
			SourcesCount:        sourcesCount,
			BookingsCount:       bookingsCount,
			EventsCount:         eventsCount,
			PendingReminders:    pendingReminders,
			QueuedNotifications: queuedNotifications,
		}

		if scheduler != nil {
			scheduled := scheduler.ScheduledSources()
			response.ScheduledSources = len(scheduled)

			var earliest *time.Time
			for _, id := range scheduled {
				next := scheduler.NextRun(id)
				if next == nil {
					continue
				}
				if earliest == nil || next.Before(*earliest) {
					earliest = next
				}
			}
			if earliest != nil {
				response.NextSyncAt = earliest.Format(time.RFC3339)
			}
		}
		if sessions != nil {
			response.ActiveSessions = sessions.Count()
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(response)
	}
}
