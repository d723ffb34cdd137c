package calendar

import (
	"testing"
	"time"

	"github.com/evorgs/calendar-backend/internal/storage/models"
)

func fixedNow(s string) func() time.Time {
	t, _ := time.Parse(DateLayout, s)
	return func() time.Time { return t }
}

func sessionDate(t *testing.T, s *Session) string {
	t.Helper()
	current, _, _ := s.Snapshot()
	return DateKey(current)
}

func TestSessionNavigation(t *testing.T) {
	tests := []struct {
		name     string
		view     models.ViewMode
		dir      Direction
		start    string
		wantDate string
	}{
		{"day next", models.ViewDay, DirNext, "2024-06-05", "2024-06-06"},
		{"day prev", models.ViewDay, DirPrev, "2024-06-05", "2024-06-04"},
		{"week next", models.ViewWeek, DirNext, "2024-06-05", "2024-06-12"},
		{"week prev", models.ViewWeek, DirPrev, "2024-06-05", "2024-05-29"},
		{"month next", models.ViewMonth, DirNext, "2024-06-05", "2024-07-05"},
		{"month prev", models.ViewMonth, DirPrev, "2024-06-05", "2024-05-05"},
		{"month rollover into new year", models.ViewMonth, DirNext, "2023-12-15", "2024-01-15"},
		{"week rollover into new year", models.ViewWeek, DirNext, "2023-12-28", "2024-01-04"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSession("s1", fixedNow(tt.start))
			if err := s.SetView(tt.view); err != nil {
				t.Fatalf("SetView: %v", err)
			}
			if err := s.Navigate(tt.dir); err != nil {
				t.Fatalf("Navigate: %v", err)
			}
			if got := sessionDate(t, s); got != tt.wantDate {
				t.Errorf("navigated to %s, want %s", got, tt.wantDate)
			}
		})
	}
}

func TestSessionTodayResets(t *testing.T) {
	s := NewSession("s1", fixedNow("2024-06-05"))
	if err := s.SetView(models.ViewMonth); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 5; i++ {
		if err := s.Navigate(DirNext); err != nil {
			t.Fatal(err)
		}
	}
	if got := sessionDate(t, s); got != "2024-11-05" {
		t.Fatalf("after five months forward at %s, want 2024-11-05", got)
	}

	if err := s.Navigate(DirToday); err != nil {
		t.Fatal(err)
	}
	if got := sessionDate(t, s); got != "2024-06-05" {
		t.Errorf("today reset landed on %s, want 2024-06-05", got)
	}
}

func TestSessionSetViewKeepsDate(t *testing.T) {
	s := NewSession("s1", fixedNow("2024-06-05"))
	if err := s.Navigate(DirNext); err != nil { // month view by default
		t.Fatal(err)
	}

	if err := s.SetView(models.ViewDay); err != nil {
		t.Fatal(err)
	}
	if got := sessionDate(t, s); got != "2024-07-05" {
		t.Errorf("view switch moved the anchor to %s", got)
	}

	if err := s.SetView(models.ViewMode("quarter")); err == nil {
		t.Error("invalid view mode accepted")
	}
}

func TestSessionNavigateUnknownDirection(t *testing.T) {
	s := NewSession("s1", fixedNow("2024-06-05"))
	if err := s.Navigate(Direction("sideways")); err == nil {
		t.Error("unknown direction accepted")
	}
}

func TestSessionAddEventFollowUpDefaults(t *testing.T) {
	s := NewSession("s1", fixedNow("2024-06-05"))
	linked := &models.Booking{
		ID:           "bk-7",
		CustomerName: "Jane Doe",
		ServiceName:  "Venue tour",
	}

	e, err := s.AddEvent("ev-1", AddEventInput{
		Date:      "2024-06-20",
		StartTime: "10:00",
		Color:     models.ColorPink,
	}, linked)
	if err != nil {
		t.Fatalf("AddEvent: %v", err)
	}

	if e.Title != "Follow-up: Jane Doe" {
		t.Errorf("title = %q, want %q", e.Title, "Follow-up: Jane Doe")
	}
	if e.Location != "Venue tour" {
		t.Errorf("location = %q, want service name", e.Location)
	}
	if e.ID != "ev-1" || e.ID == linked.ID {
		t.Errorf("event id = %q, must be the generated id, not the booking's", e.ID)
	}
	if e.BookingID != "" {
		t.Error("ad-hoc event carries a booking back-reference")
	}

	_, _, custom := s.Snapshot()
	if len(custom) != 1 || custom[0].ID != "ev-1" {
		t.Errorf("session custom events = %+v, want the added event", custom)
	}
}

func TestSessionAddEventValidation(t *testing.T) {
	s := NewSession("s1", fixedNow("2024-06-05"))

	if _, err := s.AddEvent("ev-1", AddEventInput{Date: "2024-06-20", StartTime: "10:00"}, nil); err == nil {
		t.Error("missing title accepted")
	}
	if _, err := s.AddEvent("ev-2", AddEventInput{Title: "x", Date: "June 20", StartTime: "10:00"}, nil); err == nil {
		t.Error("malformed date accepted")
	}
	if _, err := s.AddEvent("ev-3", AddEventInput{Title: "x", Date: "2024-06-20", StartTime: "25:99"}, nil); err == nil {
		t.Error("malformed start time accepted")
	}
	if _, err := s.AddEvent("ev-4", AddEventInput{Title: "x", Date: "2024-06-20", StartTime: "10:00", Color: "mauve"}, nil); err == nil {
		t.Error("out-of-palette color accepted")
	}

	// Default color when none chosen.
	e, err := s.AddEvent("ev-5", AddEventInput{Title: "x", Date: "2024-06-20", StartTime: "10:00"}, nil)
	if err != nil {
		t.Fatalf("AddEvent: %v", err)
	}
	if e.Color != models.ColorBlue {
		t.Errorf("default color = %q, want blue", e.Color)
	}
}

func TestSessionManagerPrune(t *testing.T) {
	current := time.Date(2024, 6, 5, 12, 0, 0, 0, time.UTC)
	now := func() time.Time { return current }

	m := NewSessionManager(now)
	s := m.Create()
	if m.Get(s.ID) != s {
		t.Fatal("created session not retrievable")
	}

	current = current.Add(2 * time.Hour)
	if pruned := m.PruneStale(time.Hour); pruned != 1 {
		t.Errorf("pruned %d sessions, want 1", pruned)
	}
	if m.Get(s.ID) != nil {
		t.Error("stale session still retrievable")
	}
}
