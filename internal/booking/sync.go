package booking

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/evorgs/calendar-backend/internal/storage"
	"github.com/evorgs/calendar-backend/internal/storage/models"
)

// SyncService synchronizes vendor booking feeds into local storage.
type SyncService struct {
	sourceRepo   *storage.SourceRepository
	bookingRepo  *storage.BookingRepository
	reminderRepo *storage.ReminderRepository
	client       *Client
}

// NewSyncService creates a new feed sync service.
func NewSyncService(
	sourceRepo *storage.SourceRepository,
	bookingRepo *storage.BookingRepository,
	reminderRepo *storage.ReminderRepository,
) *SyncService {
	return &SyncService{
		sourceRepo:   sourceRepo,
		bookingRepo:  bookingRepo,
		reminderRepo: reminderRepo,
		client:       NewClient(),
	}
}

// SyncSource synchronizes a single feed source and returns the result.
// The source's bookings are replaced wholesale: records missing from the
// feed are removed, the rest created or updated in place.
func (s *SyncService) SyncSource(ctx context.Context, sourceID string) (*models.FeedSyncResult, error) {
	source, err := s.sourceRepo.GetByID(ctx, sourceID)
	if err != nil {
		return nil, fmt.Errorf("getting feed source: %w", err)
	}
	if source == nil {
		return nil, fmt.Errorf("feed source not found: %s", sourceID)
	}

	result := &models.FeedSyncResult{
		SourceID:   source.ID,
		VendorName: source.VendorName,
		SyncedAt:   time.Now().UTC(),
	}

	if err := s.sourceRepo.UpdateSyncStatus(ctx, sourceID, models.SyncStatusSyncing, nil); err != nil {
		log.Printf("Failed to update sync status: %v", err)
	}

	bookings, err := s.client.FetchAndParse(source.URL)
	if err != nil {
		errMsg := err.Error()
		s.sourceRepo.UpdateSyncStatus(ctx, sourceID, models.SyncStatusError, &errMsg)
		result.Error = err
		return result, err
	}

	result.BookingsFound = len(bookings)

	keepIDs := make([]string, 0, len(bookings))
	for _, b := range bookings {
		b.SourceID = source.ID
		keepIDs = append(keepIDs, b.ID)

		created, err := s.bookingRepo.Upsert(ctx, &b)
		if err != nil {
			log.Printf("Error upserting booking %s: %v", b.ID, err)
			continue
		}
		if created {
			result.BookingsCreated++
		} else {
			result.BookingsUpdated++
		}

		// Visit reminders track the booking's scheduled visit.
		if b.ScheduledVisit != nil {
			if _, err := s.reminderRepo.CreateIfMissing(ctx, b.ID, *b.ScheduledVisit); err != nil {
				log.Printf("Error creating reminder for booking %s: %v", b.ID, err)
			}
		}
	}

	removed, err := s.bookingRepo.DeleteMissing(ctx, source.ID, keepIDs)
	if err != nil {
		log.Printf("Error removing stale bookings: %v", err)
	}
	result.BookingsRemoved = removed

	if err := s.sourceRepo.UpdateSyncStatus(ctx, sourceID, models.SyncStatusSuccess, nil); err != nil {
		log.Printf("Failed to update sync status: %v", err)
	}

	return result, nil
}
