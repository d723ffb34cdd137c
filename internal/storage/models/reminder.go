package models

import (
	"time"
)

// Reminder represents a scheduled-visit reminder derived from a booking.
// Reminders move pending -> sent (or failed) as the visit time approaches.
type Reminder struct {
	ID        string     `json:"id"`
	BookingID string     `json:"booking_id"`
	VisitAt   time.Time  `json:"visit_at"`
	Status    string     `json:"status"`
	SentAt    *time.Time `json:"sent_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Reminder status constants
const (
	ReminderStatusPending = "pending"
	ReminderStatusSent    = "sent"
	ReminderStatusFailed  = "failed"
)

// Due reports whether the reminder should be dispatched: the visit is
// within the lead window and has not already passed.
func (r *Reminder) Due(now time.Time, lead time.Duration) bool {
	if r.Status != ReminderStatusPending {
		return false
	}
	return !now.Before(r.VisitAt.Add(-lead)) && now.Before(r.VisitAt)
}

// Notification is an outbound message queued for webhook delivery.
type Notification struct {
	ID        string     `json:"id"`
	Level     string     `json:"level"` // info, warning, error, success
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	Recipient string     `json:"recipient,omitempty"`
	Status    string     `json:"status"`
	SentAt    *time.Time `json:"sent_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// Notification status constants
const (
	NotificationStatusQueued    = "queued"
	NotificationStatusDelivered = "delivered"
	NotificationStatusFailed    = "failed"
)
