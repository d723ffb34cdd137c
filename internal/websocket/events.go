package websocket

import (
	"log"

	"github.com/evorgs/calendar-backend/internal/storage/models"
)

// EventBroadcaster handles broadcasting WebSocket events.
type EventBroadcaster struct {
	hub *Hub
}

// NewEventBroadcaster creates a new event broadcaster.
func NewEventBroadcaster(hub *Hub) *EventBroadcaster {
	return &EventBroadcaster{hub: hub}
}

// BroadcastFeedSyncCompleted sends a feed sync completed event.
func (b *EventBroadcaster) BroadcastFeedSyncCompleted(result models.FeedSyncResult) {
	payload := FeedSyncPayload{
		SourceID:        result.SourceID,
		VendorName:      result.VendorName,
		Status:          "success",
		BookingsFound:   result.BookingsFound,
		BookingsCreated: result.BookingsCreated,
		BookingsUpdated: result.BookingsUpdated,
		BookingsRemoved: result.BookingsRemoved,
	}

	if result.Error != nil {
		payload.Status = "error"
	}

	msg := NewMessage(TypeFeedSyncCompleted, payload)
	b.broadcast(msg)
}

// BroadcastFeedSyncError sends a feed sync error event.
func (b *EventBroadcaster) BroadcastFeedSyncError(sourceID, vendorName string, err error) {
	payload := FeedSyncErrorPayload{
		SourceID:   sourceID,
		VendorName: vendorName,
		Error:      "sync_error",
		Message:    err.Error(),
	}

	msg := NewMessage(TypeFeedSyncError, payload)
	b.broadcast(msg)
}

// BroadcastEventAdded announces a newly created ad-hoc calendar event.
func (b *EventBroadcaster) BroadcastEventAdded(e models.Event) {
	payload := EventAddedPayload{
		EventID:   e.ID,
		Title:     e.Title,
		Date:      e.Date,
		StartTime: e.StartTime,
		Color:     string(e.Color),
	}

	msg := NewMessage(TypeEventAdded, payload)
	b.broadcast(msg)
}

// BroadcastReminderStatusChanged sends a reminder status changed event.
func (b *EventBroadcaster) BroadcastReminderStatusChanged(reminderID, bookingID, previousStatus, newStatus string) {
	payload := ReminderStatusPayload{
		ReminderID:     reminderID,
		BookingID:      bookingID,
		PreviousStatus: previousStatus,
		NewStatus:      newStatus,
	}

	msg := NewMessage(TypeReminderStatusChanged, payload)
	b.broadcast(msg)
}

// BroadcastNotification sends a notification to all connected clients.
func (b *EventBroadcaster) BroadcastNotification(level, title, message string) {
	payload := NotificationPayload{
		Level:       level,
		Title:       title,
		Message:     message,
		Dismissible: true,
	}

	msg := NewMessage(TypeNotification, payload)
	b.broadcast(msg)
}

// broadcast sends a message to all connected clients.
func (b *EventBroadcaster) broadcast(msg Message) {
	data, err := msg.JSON()
	if err != nil {
		log.Printf("Error encoding WebSocket message: %v", err)
		return
	}

	b.hub.Broadcast(data)
}
