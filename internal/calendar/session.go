package calendar

import (
	"fmt"
	"sync"
	"time"

	"github.com/evorgs/calendar-backend/internal/storage/models"
)

// Direction is a navigation intent for a session.
type Direction string

const (
	DirPrev  Direction = "prev"
	DirNext  Direction = "next"
	DirToday Direction = "today"
)

// Session owns the per-client calendar state: the anchor date, the
// active view mode and the ad-hoc events created during the session.
// The session is the single writer; views receive copies.
type Session struct {
	mu sync.Mutex

	ID   string
	last time.Time

	current time.Time
	view    models.ViewMode
	custom  []models.Event

	now func() time.Time
}

// NewSession creates a session anchored on the current date in month view.
// The now function is injected for testability and defaults to time.Now.
func NewSession(id string, now func() time.Time) *Session {
	if now == nil {
		now = time.Now
	}
	n := now()
	return &Session{
		ID:      id,
		last:    n,
		current: midnight(n),
		view:    models.ViewMonth,
		now:     now,
	}
}

// LastAccess reports when the session was last used.
func (s *Session) LastAccess() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// Navigate shifts the anchor date by one step of the active view:
// a day in day view, a week in week view, a month in month view.
// DirToday resets to the real current date regardless of prior offset.
func (s *Session) Navigate(dir Direction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	step := 1
	switch dir {
	case DirPrev:
		step = -1
	case DirNext:
		step = 1
	case DirToday:
		s.current = midnight(s.now())
		return nil
	default:
		return fmt.Errorf("unknown direction %q", dir)
	}

	switch s.view {
	case models.ViewDay:
		s.current = s.current.AddDate(0, 0, step)
	case models.ViewWeek:
		s.current = s.current.AddDate(0, 0, 7*step)
	case models.ViewMonth:
		s.current = s.current.AddDate(0, step, 0)
	}

	return nil
}

// SetView switches the active renderer without resetting the anchor date.
func (s *Session) SetView(v models.ViewMode) error {
	if !v.Valid() {
		return fmt.Errorf("unknown view mode %q", v)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.view = v
	return nil
}

// SetDate moves the anchor to a picked day (mini calendar selection).
func (s *Session) SetDate(t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.current = midnight(t)
}

// AddEventInput carries the add-event form fields.
type AddEventInput struct {
	Title     string
	Date      string
	StartTime string
	Location  string
	Color     models.EventColor
}

// AddEvent appends an ad-hoc event to the session. When the event is a
// follow-up on a booking and no title was entered, the title defaults to
// "Follow-up: <customer>" and the location to the booking's service.
// The linked booking only feeds the defaults: ad-hoc events never carry
// a booking back-reference and never reuse a booking's id.
func (s *Session) AddEvent(id string, in AddEventInput, linked *models.Booking) (models.Event, error) {
	event, err := BuildEvent(id, in, linked, s.now())
	if err != nil {
		return models.Event{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.custom = append(s.custom, event)

	return event, nil
}

// BuildEvent validates the form fields and assembles an ad-hoc event.
// A linked booking only feeds title and location defaults: the result
// never carries a booking back-reference and never reuses a booking's id.
func BuildEvent(id string, in AddEventInput, linked *models.Booking, now time.Time) (models.Event, error) {
	if in.Color == "" {
		in.Color = models.ColorBlue
	}
	if !in.Color.Valid() {
		return models.Event{}, fmt.Errorf("unknown event color %q", in.Color)
	}

	if linked != nil {
		if in.Title == "" {
			in.Title = "Follow-up: " + linked.CustomerName
		}
		if in.Location == "" {
			in.Location = linked.ServiceName
		}
	}
	if in.Title == "" {
		return models.Event{}, fmt.Errorf("event title is required")
	}
	if _, err := time.Parse(DateLayout, in.Date); err != nil {
		return models.Event{}, fmt.Errorf("invalid event date %q", in.Date)
	}
	if _, err := time.Parse("15:04", in.StartTime); err != nil {
		return models.Event{}, fmt.Errorf("invalid start time %q", in.StartTime)
	}

	return models.Event{
		ID:        id,
		Title:     in.Title,
		Date:      in.Date,
		StartTime: in.StartTime,
		Location:  in.Location,
		Color:     in.Color,
		CreatedAt: now,
	}, nil
}

// Snapshot returns the anchor date, view mode and a copy of the ad-hoc
// event list for rendering.
func (s *Session) Snapshot() (time.Time, models.ViewMode, []models.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	custom := make([]models.Event, len(s.custom))
	copy(custom, s.custom)
	return s.current, s.view, custom
}

// touch must be called with the mutex held.
func (s *Session) touch() {
	s.last = s.now()
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
