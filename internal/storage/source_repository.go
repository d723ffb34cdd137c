package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/evorgs/calendar-backend/internal/storage/models"
)

// SourceRepository provides data access for vendor booking feed sources.
type SourceRepository struct {
	BaseRepository
}

// NewSourceRepository creates a new feed source repository.
func NewSourceRepository(db *DB) *SourceRepository {
	return &SourceRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

// Create inserts a new feed source.
func (r *SourceRepository) Create(ctx context.Context, src *models.FeedSource) error {
	src.ID = GenerateID()
	src.CreatedAt = r.Now()
	src.UpdatedAt = r.Now()
	src.SyncStatus = models.SyncStatusPending

	_, err := r.DB().ExecContext(ctx, `
		INSERT INTO feed_sources (
			id, vendor_name, url, sync_interval_min, sync_status, enabled, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		src.ID, src.VendorName, src.URL, src.SyncIntervalMin,
		src.SyncStatus, src.Enabled, src.CreatedAt, src.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("inserting feed source: %w", err)
	}

	return nil
}

// GetByID retrieves a feed source by its ID.
func (r *SourceRepository) GetByID(ctx context.Context, id string) (*models.FeedSource, error) {
	src := &models.FeedSource{}

	err := r.DB().QueryRowContext(ctx, `
		SELECT id, vendor_name, url, sync_interval_min, last_sync_at, sync_status,
		       sync_error, enabled, created_at, updated_at
		FROM feed_sources WHERE id = ?
	`, id).Scan(
		&src.ID, &src.VendorName, &src.URL, &src.SyncIntervalMin,
		&src.LastSyncAt, &src.SyncStatus, &src.SyncError,
		&src.Enabled, &src.CreatedAt, &src.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying feed source: %w", err)
	}

	return src, nil
}

// List retrieves all feed sources.
func (r *SourceRepository) List(ctx context.Context) ([]models.FeedSource, error) {
	return r.list(ctx, `
		SELECT id, vendor_name, url, sync_interval_min, last_sync_at, sync_status,
		       sync_error, enabled, created_at, updated_at
		FROM feed_sources
		ORDER BY vendor_name
	`)
}

// ListEnabled retrieves all enabled feed sources that need syncing.
func (r *SourceRepository) ListEnabled(ctx context.Context) ([]models.FeedSource, error) {
	return r.list(ctx, `
		SELECT id, vendor_name, url, sync_interval_min, last_sync_at, sync_status,
		       sync_error, enabled, created_at, updated_at
		FROM feed_sources
		WHERE enabled = 1
		ORDER BY last_sync_at ASC NULLS FIRST
	`)
}

func (r *SourceRepository) list(ctx context.Context, query string) ([]models.FeedSource, error) {
	rows, err := r.DB().QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying feed sources: %w", err)
	}
	defer rows.Close()

	var sources []models.FeedSource
	for rows.Next() {
		var src models.FeedSource
		if err := rows.Scan(
			&src.ID, &src.VendorName, &src.URL, &src.SyncIntervalMin,
			&src.LastSyncAt, &src.SyncStatus, &src.SyncError,
			&src.Enabled, &src.CreatedAt, &src.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning feed source: %w", err)
		}
		sources = append(sources, src)
	}

	return sources, rows.Err()
}

// Update updates an existing feed source.
func (r *SourceRepository) Update(ctx context.Context, src *models.FeedSource) error {
	src.UpdatedAt = r.Now()

	result, err := r.DB().ExecContext(ctx, `
		UPDATE feed_sources SET
			vendor_name = ?, url = ?, sync_interval_min = ?, enabled = ?, updated_at = ?
		WHERE id = ?
	`,
		src.VendorName, src.URL, src.SyncIntervalMin, src.Enabled, src.UpdatedAt, src.ID,
	)

	if err != nil {
		return fmt.Errorf("updating feed source: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("feed source not found: %s", src.ID)
	}

	return nil
}

// UpdateSyncStatus updates the sync status of a feed source.
func (r *SourceRepository) UpdateSyncStatus(ctx context.Context, id string, status string, syncError *string) error {
	now := time.Now().UTC()
	var lastSyncAt *time.Time
	if status == models.SyncStatusSuccess {
		lastSyncAt = &now
	}

	_, err := r.DB().ExecContext(ctx, `
		UPDATE feed_sources SET
			sync_status = ?, sync_error = ?, last_sync_at = COALESCE(?, last_sync_at), updated_at = ?
		WHERE id = ?
	`, status, syncError, lastSyncAt, now, id)

	if err != nil {
		return fmt.Errorf("updating sync status: %w", err)
	}

	return nil
}

// Delete removes a feed source by ID.
func (r *SourceRepository) Delete(ctx context.Context, id string) error {
	result, err := r.DB().ExecContext(ctx, "DELETE FROM feed_sources WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting feed source: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("feed source not found: %s", id)
	}

	return nil
}
