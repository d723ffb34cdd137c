package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/evorgs/calendar-backend/internal/storage/models"
)

// NotificationRepository provides data access for outbound notifications.
type NotificationRepository struct {
	BaseRepository
}

// NewNotificationRepository creates a new notification repository.
func NewNotificationRepository(db *DB) *NotificationRepository {
	return &NotificationRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

// Create inserts a queued notification.
func (r *NotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	n.ID = GenerateID()
	n.Status = models.NotificationStatusQueued
	n.CreatedAt = r.Now()

	_, err := r.DB().ExecContext(ctx, `
		INSERT INTO notifications (id, level, title, message, recipient, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, n.ID, n.Level, n.Title, n.Message, n.Recipient, n.Status, n.CreatedAt)

	if err != nil {
		return fmt.Errorf("inserting notification: %w", err)
	}

	return nil
}

// List retrieves recent notifications, newest first.
func (r *NotificationRepository) List(ctx context.Context, limit int) ([]models.Notification, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.DB().QueryContext(ctx, `
		SELECT id, level, title, message, recipient, status, sent_at, created_at
		FROM notifications
		ORDER BY created_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying notifications: %w", err)
	}
	defer rows.Close()

	var notifications []models.Notification
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(
			&n.ID, &n.Level, &n.Title, &n.Message, &n.Recipient,
			&n.Status, &n.SentAt, &n.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning notification: %w", err)
		}
		notifications = append(notifications, n)
	}

	return notifications, rows.Err()
}

// GetByIDs retrieves the notifications matching the given IDs, oldest first.
func (r *NotificationRepository) GetByIDs(ctx context.Context, ids []string) ([]models.Notification, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := r.DB().QueryContext(ctx, `
		SELECT id, level, title, message, recipient, status, sent_at, created_at
		FROM notifications
		WHERE id IN (`+placeholders+`)
		ORDER BY created_at
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("querying notifications by id: %w", err)
	}
	defer rows.Close()

	var notifications []models.Notification
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(
			&n.ID, &n.Level, &n.Title, &n.Message, &n.Recipient,
			&n.Status, &n.SentAt, &n.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning notification: %w", err)
		}
		notifications = append(notifications, n)
	}

	return notifications, rows.Err()
}

// UpdateStatus records the delivery outcome of a notification.
func (r *NotificationRepository) UpdateStatus(ctx context.Context, id, status string) error {
	now := r.Now()
	var sentAt *time.Time
	if status == models.NotificationStatusDelivered {
		sentAt = &now
	}

	_, err := r.DB().ExecContext(ctx, `
		UPDATE notifications SET status = ?, sent_at = COALESCE(?, sent_at) WHERE id = ?
	`, status, sentAt, id)

	if err != nil {
		return fmt.Errorf("updating notification status: %w", err)
	}

	return nil
}
