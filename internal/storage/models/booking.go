// Package models contains the domain models for the application.
package models

import (
	"time"
)

// Booking represents a marketplace reservation ingested from a vendor feed.
// Bookings are read-only from the calendar's point of view: they are
// replaced wholesale on each feed sync, never edited in place.
type Booking struct {
	ID             string     `json:"id"`
	SourceID       string     `json:"source_id"`
	Reference      string     `json:"reference"`
	CustomerName   string     `json:"customer_name"`
	ServiceName    string     `json:"service_name"`
	EventDate      string     `json:"event_date"` // YYYY-MM-DD
	Status         string     `json:"status"`
	ScheduledVisit *time.Time `json:"scheduled_visit,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// Booking status constants as they appear in vendor feeds.
const (
	BookingStatusConfirmed = "Confirmed"
	BookingStatusPending   = "Pending"
	BookingStatusCancelled = "Cancelled"
	BookingStatusCompleted = "Completed"
)

// VisitTime returns the scheduled visit as an "HH:MM" wall-clock string,
// or the empty string when no visit time is set.
func (b *Booking) VisitTime() string {
	if b.ScheduledVisit == nil {
		return ""
	}
	return b.ScheduledVisit.Format("15:04")
}
