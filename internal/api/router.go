// Package api provides HTTP routing and handlers for the REST API.
package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/evorgs/calendar-backend/internal/api/handlers"
	"github.com/evorgs/calendar-backend/internal/api/middleware"
	"github.com/evorgs/calendar-backend/internal/auth"
	"github.com/evorgs/calendar-backend/internal/booking"
	"github.com/evorgs/calendar-backend/internal/calendar"
	"github.com/evorgs/calendar-backend/internal/notify"
	"github.com/evorgs/calendar-backend/internal/storage"
	"github.com/evorgs/calendar-backend/internal/storage/models"
	"github.com/evorgs/calendar-backend/internal/websocket"
)

// Services collects everything the router wires into handlers.
type Services struct {
	DB          *storage.DB
	Hub         *websocket.Hub
	Broadcaster *websocket.EventBroadcaster

	Sources       *storage.SourceRepository
	Bookings      *storage.BookingRepository
	Events        *storage.EventRepository
	Notifications *storage.NotificationRepository

	Auth      *auth.Service
	Sessions  *calendar.SessionManager
	Scheduler *booking.Scheduler
	Notifier  *notify.Notifier

	StaticDir string
}

// NewRouter creates and configures the HTTP router with all API routes.
func NewRouter(svc Services) *mux.Router {
	r := mux.NewRouter()

	// Apply global middleware
	r.Use(middleware.Logging)
	r.Use(middleware.ErrorRecovery)

	// API subrouter
	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.Authenticate(svc.Auth))

	// Health and status endpoints
	api.HandleFunc("/health", handlers.HealthCheck(svc.DB)).Methods("GET")
	api.HandleFunc("/status", handlers.Status(svc.DB, svc.Scheduler, svc.Sessions)).Methods("GET")

	// WebSocket endpoint
	api.HandleFunc("/ws", handlers.WebSocketUpgrade(svc.Hub)).Methods("GET")

	// Auth endpoints
	api.HandleFunc("/auth/register", handlers.Register(svc.Auth)).Methods("POST")
	api.HandleFunc("/auth/verify", handlers.VerifyOTP(svc.Auth)).Methods("POST")
	api.HandleFunc("/auth/login", handlers.Login(svc.Auth)).Methods("POST")
	api.HandleFunc("/auth/forgot-password", handlers.RequestPasswordReset(svc.Auth)).Methods("POST")
	api.HandleFunc("/auth/reset-password", handlers.ResetPassword(svc.Auth)).Methods("POST")
	api.HandleFunc("/auth/me", handlers.Me()).Methods("GET")

	// Feed source endpoints; mutations are restricted to staff roles.
	api.HandleFunc("/sources", handlers.ListSources(svc.Sources)).Methods("GET")
	api.HandleFunc("/sources/{id}", handlers.GetSource(svc.Sources)).Methods("GET")

	staff := middleware.RequireRole(models.RoleVendor, models.RoleAdmin)
	api.Handle("/sources", staff(handlers.CreateSource(svc.Sources, svc.Scheduler))).Methods("POST")
	api.Handle("/sources/{id}", staff(handlers.UpdateSource(svc.Sources, svc.Scheduler))).Methods("PUT")
	api.Handle("/sources/{id}", staff(handlers.DeleteSource(svc.Sources, svc.Scheduler))).Methods("DELETE")
	api.Handle("/sources/{id}/sync", staff(handlers.SyncSource(svc.Sources, svc.Scheduler))).Methods("POST")

	// Booking endpoints
	api.HandleFunc("/bookings", handlers.ListBookings(svc.Bookings)).Methods("GET")
	api.HandleFunc("/bookings/{id}", handlers.GetBooking(svc.Bookings)).Methods("GET")

	// Event endpoints
	api.HandleFunc("/events", handlers.ListEvents(svc.Bookings, svc.Events)).Methods("GET")
	api.HandleFunc("/events", handlers.CreateEvent(svc.Bookings, svc.Events, svc.Broadcaster)).Methods("POST")

	// Calendar session endpoints
	api.HandleFunc("/sessions", handlers.CreateSession(svc.Sessions)).Methods("POST")
	api.HandleFunc("/sessions/{id}", handlers.GetSession(svc.Sessions)).Methods("GET")
	api.HandleFunc("/sessions/{id}/navigate", handlers.NavigateSession(svc.Sessions)).Methods("POST")
	api.HandleFunc("/sessions/{id}/view", handlers.SetSessionView(svc.Sessions)).Methods("PUT")
	api.HandleFunc("/sessions/{id}/date", handlers.SetSessionDate(svc.Sessions)).Methods("PUT")
	api.HandleFunc("/sessions/{id}/events", handlers.AddSessionEvent(svc.Sessions, svc.Bookings, svc.Broadcaster)).Methods("POST")
	api.HandleFunc("/sessions/{id}/calendar", handlers.RenderSessionView(svc.Sessions, svc.Bookings, svc.Events)).Methods("GET")
	api.HandleFunc("/sessions/{id}/mini", handlers.RenderSessionMini(svc.Sessions, svc.Bookings, svc.Events)).Methods("GET")

	// Notification endpoints
	api.HandleFunc("/notifications", handlers.ListNotifications(svc.Notifications)).Methods("GET")
	admin := middleware.RequireRole(models.RoleAdmin)
	api.Handle("/notifications", admin(handlers.CreateNotification(svc.Notifier))).Methods("POST")

	// Calendar feed export
	api.HandleFunc("/export/calendar.ics", handlers.ExportCalendar(svc.Bookings, svc.Events)).Methods("GET")

	// Settings endpoints
	api.HandleFunc("/settings", handlers.GetSettings(svc.DB)).Methods("GET")
	api.Handle("/settings", admin(handlers.UpdateSettings(svc.DB))).Methods("PUT")

	// Serve static frontend files
	r.PathPrefix("/").Handler(http.FileServer(http.Dir(svc.StaticDir)))

	return r
}
