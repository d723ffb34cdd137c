package storage

import (
	"context"
	"fmt"

	"github.com/evorgs/calendar-backend/internal/storage/models"
)

// EventRepository provides data access for ad-hoc calendar events.
// Booking-derived events are never stored; they are recomputed from the
// bookings table whenever bookings change.
type EventRepository struct {
	BaseRepository
}

// NewEventRepository creates a new event repository.
func NewEventRepository(db *DB) *EventRepository {
	return &EventRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

// Create inserts a new ad-hoc event. The caller never supplies the ID;
// events are append-only and carry no update or delete path.
func (r *EventRepository) Create(ctx context.Context, e *models.Event) error {
	e.ID = GenerateID()
	e.CreatedAt = r.Now()

	var bookingID any
	if e.BookingID != "" {
		bookingID = e.BookingID
	}

	_, err := r.DB().ExecContext(ctx, `
		INSERT INTO calendar_events (id, title, date, start_time, location, color, booking_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, e.ID, e.Title, e.Date, e.StartTime, e.Location, string(e.Color), bookingID, e.CreatedAt)

	if err != nil {
		return fmt.Errorf("inserting event: %w", err)
	}

	return nil
}

// List retrieves all ad-hoc events ordered by date and start time.
func (r *EventRepository) List(ctx context.Context) ([]models.Event, error) {
	rows, err := r.DB().QueryContext(ctx, `
		SELECT id, title, date, start_time, location, color, booking_id, created_at
		FROM calendar_events
		ORDER BY date, start_time
	`)
	if err != nil {
		return nil, fmt.Errorf("querying events: %w", err)
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		var e models.Event
		var color string
		var bookingID *string
		if err := rows.Scan(&e.ID, &e.Title, &e.Date, &e.StartTime, &e.Location, &color, &bookingID, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}
		e.Color = models.EventColor(color)
		if bookingID != nil {
			e.BookingID = *bookingID
		}
		events = append(events, e)
	}

	return events, rows.Err()
}
