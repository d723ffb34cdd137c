package booking

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/evorgs/calendar-backend/internal/storage"
	"github.com/evorgs/calendar-backend/internal/storage/models"
	"github.com/evorgs/calendar-backend/internal/websocket"
)

// Scheduler manages periodic feed sync jobs.
type Scheduler struct {
	cron        *cron.Cron
	syncService *SyncService
	sourceRepo  *storage.SourceRepository
	broadcaster *websocket.EventBroadcaster

	// Track jobs per feed source
	jobs   map[string]cron.EntryID
	jobsMu sync.RWMutex

	// Default sync interval if a source doesn't specify one
	defaultInterval time.Duration
}

// NewScheduler creates a new feed sync scheduler.
func NewScheduler(
	syncService *SyncService,
	sourceRepo *storage.SourceRepository,
	hub *websocket.Hub,
	defaultIntervalMin int,
) *Scheduler {
	if defaultIntervalMin <= 0 {
		defaultIntervalMin = 15
	}

	var broadcaster *websocket.EventBroadcaster
	if hub != nil {
		broadcaster = websocket.NewEventBroadcaster(hub)
	}

	return &Scheduler{
		cron:            cron.New(cron.WithSeconds()),
		syncService:     syncService,
		sourceRepo:      sourceRepo,
		broadcaster:     broadcaster,
		jobs:            make(map[string]cron.EntryID),
		defaultInterval: time.Duration(defaultIntervalMin) * time.Minute,
	}
}

// Start begins the scheduler and loads all enabled feed sources.
func (s *Scheduler) Start(ctx context.Context) error {
	log.Println("Starting feed sync scheduler...")

	sources, err := s.sourceRepo.ListEnabled(ctx)
	if err != nil {
		return err
	}

	for _, src := range sources {
		s.ScheduleSource(src)
	}

	// Catch newly added or modified sources.
	s.cron.AddFunc("@every 5m", func() {
		s.refreshSchedules(context.Background())
	})

	s.cron.Start()
	log.Printf("Feed scheduler started with %d sources", len(sources))

	return nil
}

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop() {
	log.Println("Stopping feed sync scheduler...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("Feed scheduler stopped")
}

// ScheduleSource adds or updates a source's sync schedule.
func (s *Scheduler) ScheduleSource(src models.FeedSource) {
	if !src.Enabled {
		s.UnscheduleSource(src.ID)
		return
	}

	s.jobsMu.Lock()
	defer s.jobsMu.Unlock()

	if existingID, exists := s.jobs[src.ID]; exists {
		s.cron.Remove(existingID)
		delete(s.jobs, src.ID)
	}

	spec := minutesToCronSpec(src.SyncIntervalMin, s.defaultInterval)

	entryID, err := s.cron.AddFunc(spec, func() {
		s.syncSource(src.ID, src.VendorName)
	})

	if err != nil {
		log.Printf("Failed to schedule source %s: %v", src.ID, err)
		return
	}

	s.jobs[src.ID] = entryID
	log.Printf("Scheduled source %s (%s) every %d minutes", src.ID, src.VendorName, src.SyncIntervalMin)
}

// UnscheduleSource removes a source from the sync schedule.
func (s *Scheduler) UnscheduleSource(sourceID string) {
	s.jobsMu.Lock()
	defer s.jobsMu.Unlock()

	if entryID, exists := s.jobs[sourceID]; exists {
		s.cron.Remove(entryID)
		delete(s.jobs, sourceID)
		log.Printf("Unscheduled source %s", sourceID)
	}
}

// TriggerSync manually triggers an immediate sync for a source.
func (s *Scheduler) TriggerSync(sourceID string) {
	go func() {
		ctx := context.Background()
		src, err := s.sourceRepo.GetByID(ctx, sourceID)
		if err != nil || src == nil {
			log.Printf("Source not found for sync: %s", sourceID)
			return
		}
		s.syncSource(src.ID, src.VendorName)
	}()
}

// syncSource performs the actual sync operation.
func (s *Scheduler) syncSource(sourceID, vendorName string) {
	ctx := context.Background()
	log.Printf("Syncing feed: %s (%s)", sourceID, vendorName)

	result, err := s.syncService.SyncSource(ctx, sourceID)
	if err != nil {
		log.Printf("Feed sync failed for %s: %v", sourceID, err)
		if s.broadcaster != nil {
			s.broadcaster.BroadcastFeedSyncError(sourceID, vendorName, err)
		}
		return
	}

	log.Printf("Feed sync completed for %s: %d bookings, %d created, %d updated, %d removed",
		sourceID, result.BookingsFound, result.BookingsCreated, result.BookingsUpdated, result.BookingsRemoved)

	if s.broadcaster != nil {
		s.broadcaster.BroadcastFeedSyncCompleted(*result)
	}
}

// refreshSchedules reloads feed schedules from the database.
func (s *Scheduler) refreshSchedules(ctx context.Context) {
	sources, err := s.sourceRepo.ListEnabled(ctx)
	if err != nil {
		log.Printf("Failed to refresh feed schedules: %v", err)
		return
	}

	currentIDs := make(map[string]bool)
	for _, src := range sources {
		currentIDs[src.ID] = true
		s.ScheduleSource(src)
	}

	s.jobsMu.Lock()
	for id := range s.jobs {
		if !currentIDs[id] {
			s.cron.Remove(s.jobs[id])
			delete(s.jobs, id)
			log.Printf("Removed schedule for source %s (no longer enabled)", id)
		}
	}
	s.jobsMu.Unlock()
}

// minutesToCronSpec converts minutes to a cron spec.
func minutesToCronSpec(minutes int, fallback time.Duration) string {
	d := time.Duration(minutes) * time.Minute
	if d < time.Minute {
		d = fallback
	}
	return "@every " + d.String()
}

// ScheduledSources returns the currently scheduled source IDs.
func (s *Scheduler) ScheduledSources() []string {
	s.jobsMu.RLock()
	defer s.jobsMu.RUnlock()

	ids := make([]string, 0, len(s.jobs))
	for id := range s.jobs {
		ids = append(ids, id)
	}
	return ids
}

// NextRun returns the next scheduled run time for a source.
func (s *Scheduler) NextRun(sourceID string) *time.Time {
	s.jobsMu.RLock()
	defer s.jobsMu.RUnlock()

	if entryID, exists := s.jobs[sourceID]; exists {
		entry := s.cron.Entry(entryID)
		if !entry.Next.IsZero() {
			return &entry.Next
		}
	}
	return nil
}
