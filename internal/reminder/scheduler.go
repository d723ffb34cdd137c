// Package reminder dispatches scheduled-visit reminders and runs the
// service's periodic maintenance jobs.
package reminder

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/evorgs/calendar-backend/internal/auth"
	"github.com/evorgs/calendar-backend/internal/calendar"
	"github.com/evorgs/calendar-backend/internal/notify"
	"github.com/evorgs/calendar-backend/internal/storage"
	"github.com/evorgs/calendar-backend/internal/storage/models"
	"github.com/evorgs/calendar-backend/internal/websocket"
)

// sessionTTL is how long an idle calendar session survives.
const sessionTTL = 2 * time.Hour

// Scheduler dispatches due reminders every minute and performs session
// and token housekeeping.
type Scheduler struct {
	cron         *cron.Cron
	reminderRepo *storage.ReminderRepository
	bookingRepo  *storage.BookingRepository
	notifier     *notify.Notifier
	broadcaster  *websocket.EventBroadcaster
	sessions     *calendar.SessionManager
	authService  *auth.Service
	lead         time.Duration
}

// NewScheduler creates the reminder scheduler.
func NewScheduler(
	reminderRepo *storage.ReminderRepository,
	bookingRepo *storage.BookingRepository,
	notifier *notify.Notifier,
	hub *websocket.Hub,
	sessions *calendar.SessionManager,
	authService *auth.Service,
	leadMinutes int,
) *Scheduler {
	if leadMinutes <= 0 {
		leadMinutes = 60
	}

	var broadcaster *websocket.EventBroadcaster
	if hub != nil {
		broadcaster = websocket.NewEventBroadcaster(hub)
	}

	return &Scheduler{
		cron:         cron.New(cron.WithSeconds()),
		reminderRepo: reminderRepo,
		bookingRepo:  bookingRepo,
		notifier:     notifier,
		broadcaster:  broadcaster,
		sessions:     sessions,
		authService:  authService,
		lead:         time.Duration(leadMinutes) * time.Minute,
	}
}

// Start begins the reminder scheduler.
func (s *Scheduler) Start() {
	log.Println("Starting reminder scheduler...")

	s.cron.AddFunc("@every 1m", func() {
		s.dispatchDueReminders()
	})

	if s.sessions != nil {
		s.cron.AddFunc("@every 10m", func() {
			s.sessions.PruneStale(sessionTTL)
		})
	}

	if s.authService != nil {
		s.cron.AddFunc("@every 1h", func() {
			s.authService.PurgeExpiredTokens(context.Background())
		})
	}

	s.cron.Start()
	log.Println("Reminder scheduler started")
}

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop() {
	log.Println("Stopping reminder scheduler...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("Reminder scheduler stopped")
}

// dispatchDueReminders sends reminders whose visit falls inside the
// lead window, and expires reminders whose visit already passed.
func (s *Scheduler) dispatchDueReminders() {
	ctx := context.Background()
	now := time.Now().UTC()

	pending, err := s.reminderRepo.ListPending(ctx)
	if err != nil {
		log.Printf("Failed to list pending reminders: %v", err)
		return
	}

	for _, r := range pending {
		if now.After(r.VisitAt) {
			// Visit passed without dispatch; nothing useful to send.
			s.transition(ctx, r, models.ReminderStatusFailed)
			continue
		}
		if !r.Due(now, s.lead) {
			continue
		}

		booking, err := s.bookingRepo.GetByID(ctx, r.BookingID)
		if err != nil || booking == nil {
			log.Printf("Reminder %s references missing booking %s", r.ID, r.BookingID)
			s.transition(ctx, r, models.ReminderStatusFailed)
			continue
		}

		s.notifier.Notify(ctx, "info",
			"Upcoming visit: "+booking.CustomerName,
			booking.ServiceName+" at "+r.VisitAt.Format("15:04"),
			booking.Reference,
		)

		log.Printf("Dispatched reminder %s for booking %s", r.ID, r.BookingID)
		s.transition(ctx, r, models.ReminderStatusSent)
	}
}

func (s *Scheduler) transition(ctx context.Context, r models.Reminder, status string) {
	if err := s.reminderRepo.UpdateStatus(ctx, r.ID, status); err != nil {
		log.Printf("Failed to update reminder %s: %v", r.ID, err)
		return
	}
	if s.broadcaster != nil {
		s.broadcaster.BroadcastReminderStatusChanged(r.ID, r.BookingID, r.Status, status)
	}
}
