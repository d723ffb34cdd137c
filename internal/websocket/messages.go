package websocket

import (
	"encoding/json"
	"time"
)

// MessageType identifies the type of WebSocket message.
type MessageType string

const (
	// Server -> Client event types
	TypeFeedSyncCompleted     MessageType = "feed.sync_completed"
	TypeFeedSyncError         MessageType = "feed.sync_error"
	TypeEventAdded            MessageType = "calendar.event_added"
	TypeReminderStatusChanged MessageType = "reminder.status_changed"
	TypeNotification          MessageType = "notification"

	// Client -> Server command types
	TypeSubscribe   MessageType = "subscribe"
	TypeUnsubscribe MessageType = "unsubscribe"
	TypePing        MessageType = "ping"

	// Server -> Client response types
	TypeSubscribeAck MessageType = "subscribe.ack"
	TypePong         MessageType = "pong"
	TypeError        MessageType = "error"
)

// Message represents a WebSocket message envelope.
type Message struct {
	Type      MessageType `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   any         `json:"payload"`
}

// NewMessage creates a new message with the current timestamp.
func NewMessage(msgType MessageType, payload any) Message {
	return Message{
		Type:      msgType,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// JSON serializes the message to JSON bytes.
func (m Message) JSON() ([]byte, error) {
	return json.Marshal(m)
}

// FeedSyncPayload is the payload for feed.sync_completed events.
type FeedSyncPayload struct {
	SourceID        string `json:"source_id"`
	VendorName      string `json:"vendor_name"`
	Status          string `json:"status"`
	BookingsFound   int    `json:"bookings_found"`
	BookingsCreated int    `json:"bookings_created"`
	BookingsUpdated int    `json:"bookings_updated"`
	BookingsRemoved int    `json:"bookings_removed"`
}

// FeedSyncErrorPayload is the payload for feed.sync_error events.
type FeedSyncErrorPayload struct {
	SourceID   string `json:"source_id"`
	VendorName string `json:"vendor_name"`
	Error      string `json:"error"`
	Message    string `json:"message"`
}

// EventAddedPayload is the payload for calendar.event_added events.
type EventAddedPayload struct {
	EventID   string `json:"event_id"`
	Title     string `json:"title"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	Color     string `json:"color"`
}

// ReminderStatusPayload is the payload for reminder.status_changed events.
type ReminderStatusPayload struct {
	ReminderID     string `json:"reminder_id"`
	BookingID      string `json:"booking_id"`
	PreviousStatus string `json:"previous_status"`
	NewStatus      string `json:"new_status"`
}

// NotificationPayload is the payload for notification events.
type NotificationPayload struct {
	Level       string `json:"level"` // info, warning, error, success
	Title       string `json:"title"`
	Message     string `json:"message"`
	Dismissible bool   `json:"dismissible"`
}

// ErrorPayload is the payload for error messages.
type ErrorPayload struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	OriginalType string `json:"original_type,omitempty"`
}
