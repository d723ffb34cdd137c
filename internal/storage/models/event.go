package models

import (
	"time"
)

// EventColor is the closed palette for calendar event blocks.
type EventColor string

const (
	ColorBlue EventColor = "blue"
	ColorPink EventColor = "pink"
	ColorGray EventColor = "gray"
)

// Valid reports whether c is one of the enumerated palette values.
func (c EventColor) Valid() bool {
	switch c {
	case ColorBlue, ColorPink, ColorGray:
		return true
	}
	return false
}

// ViewMode selects which calendar renderer is active.
type ViewMode string

const (
	ViewDay   ViewMode = "day"
	ViewWeek  ViewMode = "week"
	ViewMonth ViewMode = "month"
)

// Valid reports whether v is one of the enumerated view modes.
func (v ViewMode) Valid() bool {
	switch v {
	case ViewDay, ViewWeek, ViewMonth:
		return true
	}
	return false
}

// Event is a calendar-displayable entry. Booking-derived events carry a
// BookingID back-reference; ad-hoc events created through the add-event
// flow have a generated ID and no booking link.
type Event struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Date      string     `json:"date"`       // YYYY-MM-DD calendar day
	StartTime string     `json:"start_time"` // HH:MM, 24-hour
	Location  string     `json:"location,omitempty"`
	Color     EventColor `json:"color"`
	BookingID string     `json:"booking_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// Linked reports whether the event navigates to a booking detail.
func (e *Event) Linked() bool {
	return e.BookingID != ""
}

// Hour and Minute parse the event's start time. Malformed times place
// the event at midnight rather than failing the render.
func (e *Event) Hour() int {
	h, _ := splitTime(e.StartTime)
	return h
}

func (e *Event) Minute() int {
	_, m := splitTime(e.StartTime)
	return m
}

func splitTime(s string) (hour, minute int) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, 0
	}
	return t.Hour(), t.Minute()
}
