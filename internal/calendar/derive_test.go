package calendar

import (
	"testing"
	"time"

	"github.com/evorgs/calendar-backend/internal/storage/models"
)

func TestEventFromBookingColors(t *testing.T) {
	tests := []struct {
		status string
		want   models.EventColor
	}{
		{models.BookingStatusConfirmed, models.ColorBlue},
		{models.BookingStatusPending, models.ColorPink},
		{models.BookingStatusCancelled, models.ColorGray},
		{models.BookingStatusCompleted, models.ColorGray},
		{"SomethingElse", models.ColorGray},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			b := models.Booking{ID: "b1", CustomerName: "Jane", Status: tt.status, EventDate: "2024-06-12"}
			e := EventFromBooking(b)
			if e.Color != tt.want {
				t.Errorf("status %q derived color %q, want %q", tt.status, e.Color, tt.want)
			}
		})
	}
}

func TestEventFromBookingFields(t *testing.T) {
	visit := time.Date(2024, 6, 12, 14, 30, 0, 0, time.UTC)
	b := models.Booking{
		ID:             "bk-42",
		Reference:      "REF-42",
		CustomerName:   "Jane Doe",
		ServiceName:    "Venue tour",
		EventDate:      "2024-06-12",
		Status:         models.BookingStatusConfirmed,
		ScheduledVisit: &visit,
	}

	e := EventFromBooking(b)

	if e.ID != "bk-42" || e.BookingID != "bk-42" {
		t.Errorf("ids = %q/%q, want the booking id", e.ID, e.BookingID)
	}
	if e.Title != "Jane Doe" {
		t.Errorf("title = %q, want customer name", e.Title)
	}
	if e.Location != "Venue tour" {
		t.Errorf("location = %q, want service name", e.Location)
	}
	if e.StartTime != "14:30" {
		t.Errorf("start time = %q, want 14:30", e.StartTime)
	}
}

func TestEventFromBookingDefaultStartTime(t *testing.T) {
	b := models.Booking{ID: "b1", CustomerName: "Jane", Status: models.BookingStatusPending, EventDate: "2024-06-12"}
	if e := EventFromBooking(b); e.StartTime != DefaultStartTime {
		t.Errorf("start time = %q, want %q", e.StartTime, DefaultStartTime)
	}
}

func TestMergeOrdersByDateAndTime(t *testing.T) {
	booked := []models.Event{
		event("b1", "2024-06-12", "10:00"),
		event("b2", "2024-06-10", "09:00"),
	}
	custom := []models.Event{
		event("c1", "2024-06-10", "08:00"),
		event("c2", "2024-06-12", "09:00"),
	}

	merged := Merge(booked, custom)

	wantOrder := []string{"c1", "b2", "c2", "b1"}
	if len(merged) != len(wantOrder) {
		t.Fatalf("merged %d events, want %d", len(merged), len(wantOrder))
	}
	for i, id := range wantOrder {
		if merged[i].ID != id {
			t.Errorf("position %d = %s, want %s", i, merged[i].ID, id)
		}
	}
}

func TestMergeEmptyLists(t *testing.T) {
	if got := Merge(nil, nil); len(got) != 0 {
		t.Errorf("merge of empty lists produced %d events", len(got))
	}
}
