package handlers

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/evorgs/calendar-backend/internal/storage"
	"github.com/evorgs/calendar-backend/internal/storage/models"
)

func newTestDB(t *testing.T) *storage.DB {
	t.Helper()

	db, err := storage.NewDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := storage.RunMigrations(db); err != nil {
		t.Fatalf("running migrations: %v", err)
	}
	return db
}

// seedBooking inserts a feed source and one booking under it.
func seedBooking(t *testing.T, db *storage.DB) *models.Booking {
	t.Helper()
	ctx := context.Background()

	src := models.FeedSource{
		ID:              storage.GenerateID(),
		VendorName:      "Acme Catering",
		URL:             "https://feeds.example.com/acme.json",
		SyncIntervalMin: 15,
		SyncStatus:      models.SyncStatusPending,
		Enabled:         true,
	}
	if err := storage.NewSourceRepository(db).Create(ctx, &src); err != nil {
		t.Fatalf("seeding feed source: %v", err)
	}

	visit := time.Date(2024, 6, 3, 14, 30, 0, 0, time.UTC)
	b := models.Booking{
		ID:             "bk-42",
		SourceID:       src.ID,
		Reference:      "R-1001",
		CustomerName:   "Jane Doe",
		ServiceName:    "Wedding Catering",
		EventDate:      "2024-06-03",
		Status:         models.BookingStatusConfirmed,
		ScheduledVisit: &visit,
	}
	if _, err := storage.NewBookingRepository(db).Upsert(ctx, &b); err != nil {
		t.Fatalf("seeding booking: %v", err)
	}
	return &b
}
