package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/evorgs/calendar-backend/internal/storage/models"
)

// BookingRepository provides data access for bookings ingested from
// vendor feeds.
type BookingRepository struct {
	BaseRepository
}

// NewBookingRepository creates a new booking repository.
func NewBookingRepository(db *DB) *BookingRepository {
	return &BookingRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

const bookingColumns = `id, source_id, reference, customer_name, service_name,
	event_date, status, scheduled_visit, created_at, updated_at`

// Upsert inserts a booking or updates it in place if the vendor feed
// already delivered it. Booking IDs are feed-assigned and stable.
func (r *BookingRepository) Upsert(ctx context.Context, b *models.Booking) (created bool, err error) {
	existing, err := r.GetByID(ctx, b.ID)
	if err != nil {
		return false, err
	}

	now := r.Now()
	if existing == nil {
		b.CreatedAt = now
		b.UpdatedAt = now
		_, err := r.DB().ExecContext(ctx, `
			INSERT INTO bookings (
				id, source_id, reference, customer_name, service_name,
				event_date, status, scheduled_visit, created_at, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			b.ID, b.SourceID, b.Reference, b.CustomerName, b.ServiceName,
			b.EventDate, b.Status, b.ScheduledVisit, b.CreatedAt, b.UpdatedAt,
		)
		if err != nil {
			return false, fmt.Errorf("inserting booking: %w", err)
		}
		return true, nil
	}

	b.UpdatedAt = now
	_, err = r.DB().ExecContext(ctx, `
		UPDATE bookings SET
			reference = ?, customer_name = ?, service_name = ?,
			event_date = ?, status = ?, scheduled_visit = ?, updated_at = ?
		WHERE id = ?
	`,
		b.Reference, b.CustomerName, b.ServiceName,
		b.EventDate, b.Status, b.ScheduledVisit, b.UpdatedAt, b.ID,
	)
	if err != nil {
		return false, fmt.Errorf("updating booking: %w", err)
	}
	return false, nil
}

// GetByID retrieves a booking by its ID.
func (r *BookingRepository) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	b := &models.Booking{}

	err := r.DB().QueryRowContext(ctx, `
		SELECT `+bookingColumns+` FROM bookings WHERE id = ?
	`, id).Scan(
		&b.ID, &b.SourceID, &b.Reference, &b.CustomerName, &b.ServiceName,
		&b.EventDate, &b.Status, &b.ScheduledVisit, &b.CreatedAt, &b.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying booking: %w", err)
	}

	return b, nil
}

// List retrieves all bookings ordered by event date.
func (r *BookingRepository) List(ctx context.Context) ([]models.Booking, error) {
	return r.list(ctx, `
		SELECT `+bookingColumns+` FROM bookings ORDER BY event_date, customer_name
	`)
}

// ListBySource retrieves all bookings belonging to a feed source.
func (r *BookingRepository) ListBySource(ctx context.Context, sourceID string) ([]models.Booking, error) {
	return r.list(ctx, `
		SELECT `+bookingColumns+` FROM bookings WHERE source_id = ? ORDER BY event_date
	`, sourceID)
}

// ListWithScheduledVisit retrieves bookings that carry a scheduled visit
// timestamp, for reminder generation.
func (r *BookingRepository) ListWithScheduledVisit(ctx context.Context) ([]models.Booking, error) {
	return r.list(ctx, `
		SELECT `+bookingColumns+` FROM bookings
		WHERE scheduled_visit IS NOT NULL
		ORDER BY scheduled_visit
	`)
}

func (r *BookingRepository) list(ctx context.Context, query string, args ...any) ([]models.Booking, error) {
	rows, err := r.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying bookings: %w", err)
	}
	defer rows.Close()

	var bookings []models.Booking
	for rows.Next() {
		var b models.Booking
		if err := rows.Scan(
			&b.ID, &b.SourceID, &b.Reference, &b.CustomerName, &b.ServiceName,
			&b.EventDate, &b.Status, &b.ScheduledVisit, &b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning booking: %w", err)
		}
		bookings = append(bookings, b)
	}

	return bookings, rows.Err()
}

// DeleteMissing removes bookings for a source that are not in keepIDs.
// Used after a feed sync to drop bookings the vendor no longer reports.
func (r *BookingRepository) DeleteMissing(ctx context.Context, sourceID string, keepIDs []string) (int, error) {
	keep := make(map[string]bool, len(keepIDs))
	for _, id := range keepIDs {
		keep[id] = true
	}

	existing, err := r.ListBySource(ctx, sourceID)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, b := range existing {
		if keep[b.ID] {
			continue
		}
		if _, err := r.DB().ExecContext(ctx, "DELETE FROM bookings WHERE id = ?", b.ID); err != nil {
			return removed, fmt.Errorf("deleting booking %s: %w", b.ID, err)
		}
		removed++
	}

	return removed, nil
}
