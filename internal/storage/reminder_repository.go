package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/evorgs/calendar-backend/internal/storage/models"
)

// ReminderRepository provides data access for scheduled-visit reminders.
type ReminderRepository struct {
	BaseRepository
}

// NewReminderRepository creates a new reminder repository.
func NewReminderRepository(db *DB) *ReminderRepository {
	return &ReminderRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

// CreateIfMissing inserts a pending reminder for a booking unless one
// already exists. Returns true when a reminder was created.
func (r *ReminderRepository) CreateIfMissing(ctx context.Context, bookingID string, visitAt time.Time) (bool, error) {
	var existing string
	err := r.DB().QueryRowContext(ctx, `
		SELECT id FROM reminders WHERE booking_id = ?
	`, bookingID).Scan(&existing)

	if err == nil {
		// Keep the reminder aligned with a rescheduled visit.
		_, err = r.DB().ExecContext(ctx, `
			UPDATE reminders SET visit_at = ?, updated_at = ?
			WHERE id = ? AND status = ? AND visit_at != ?
		`, visitAt, r.Now(), existing, models.ReminderStatusPending, visitAt)
		if err != nil {
			return false, fmt.Errorf("updating reminder: %w", err)
		}
		return false, nil
	}
	if err != sql.ErrNoRows {
		return false, fmt.Errorf("querying reminder: %w", err)
	}

	now := r.Now()
	_, err = r.DB().ExecContext(ctx, `
		INSERT INTO reminders (id, booking_id, visit_at, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, GenerateID(), bookingID, visitAt, models.ReminderStatusPending, now, now)

	if err != nil {
		return false, fmt.Errorf("inserting reminder: %w", err)
	}

	return true, nil
}

// ListPending retrieves all pending reminders ordered by visit time.
func (r *ReminderRepository) ListPending(ctx context.Context) ([]models.Reminder, error) {
	rows, err := r.DB().QueryContext(ctx, `
		SELECT id, booking_id, visit_at, status, sent_at, created_at, updated_at
		FROM reminders
		WHERE status = ?
		ORDER BY visit_at
	`, models.ReminderStatusPending)
	if err != nil {
		return nil, fmt.Errorf("querying pending reminders: %w", err)
	}
	defer rows.Close()

	var reminders []models.Reminder
	for rows.Next() {
		var rem models.Reminder
		if err := rows.Scan(
			&rem.ID, &rem.BookingID, &rem.VisitAt, &rem.Status,
			&rem.SentAt, &rem.CreatedAt, &rem.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning reminder: %w", err)
		}
		reminders = append(reminders, rem)
	}

	return reminders, rows.Err()
}

// UpdateStatus transitions a reminder to a new status, stamping sent_at
// when the reminder was dispatched.
func (r *ReminderRepository) UpdateStatus(ctx context.Context, id, status string) error {
	now := r.Now()
	var sentAt *time.Time
	if status == models.ReminderStatusSent {
		sentAt = &now
	}

	_, err := r.DB().ExecContext(ctx, `
		UPDATE reminders SET status = ?, sent_at = COALESCE(?, sent_at), updated_at = ?
		WHERE id = ?
	`, status, sentAt, now, id)

	if err != nil {
		return fmt.Errorf("updating reminder status: %w", err)
	}

	return nil
}
