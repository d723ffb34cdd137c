package export

import (
	"strings"
	"testing"

	"github.com/evorgs/calendar-backend/internal/storage/models"
)

func TestCalendarSerializesEvents(t *testing.T) {
	events := []models.Event{
		{
			ID:        "ev-1",
			Title:     "Venue tour",
			Date:      "2024-06-12",
			StartTime: "09:30",
			Location:  "Main hall",
			Color:     models.ColorBlue,
			BookingID: "bk-7",
		},
		{
			ID:        "ev-bad",
			Title:     "Broken",
			Date:      "not-a-date",
			StartTime: "09:30",
		},
	}

	out, err := Calendar("Bookings", events)
	if err != nil {
		t.Fatalf("Calendar: %v", err)
	}

	for _, want := range []string{
		"BEGIN:VCALENDAR",
		"END:VCALENDAR",
		"SUMMARY:Venue tour",
		"LOCATION:Main hall",
		"DESCRIPTION:Booking bk-7",
		"UID:ev-1@evorgs",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("serialized calendar missing %q", want)
		}
	}

	if strings.Contains(out, "Broken") {
		t.Error("event with malformed date was exported")
	}
}

func TestCalendarEmpty(t *testing.T) {
	out, err := Calendar("Bookings", nil)
	if err != nil {
		t.Fatalf("Calendar: %v", err)
	}
	if !strings.Contains(out, "BEGIN:VCALENDAR") {
		t.Error("empty calendar still needs the envelope")
	}
}
