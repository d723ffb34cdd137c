// Package main is the entry point for the booking calendar server.
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/evorgs/calendar-backend/internal/api"
	"github.com/evorgs/calendar-backend/internal/auth"
	"github.com/evorgs/calendar-backend/internal/booking"
	"github.com/evorgs/calendar-backend/internal/calendar"
	"github.com/evorgs/calendar-backend/internal/config"
	"github.com/evorgs/calendar-backend/internal/notify"
	"github.com/evorgs/calendar-backend/internal/reminder"
	"github.com/evorgs/calendar-backend/internal/storage"
	"github.com/evorgs/calendar-backend/internal/websocket"
)

// version is set at build time via -ldflags "-X main.version=x.y.z".
// Defaults to "dev" when not provided.
var version = "dev"

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "", "Path to YAML config file")
	addr := flag.String("addr", "", "HTTP server address (overrides config)")
	healthCheck := flag.Bool("health-check", false, "Run health check and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *addr != "" {
		cfg.Listen = *addr
	}

	// Health check mode for Docker HEALTHCHECK
	if *healthCheck {
		if err := runHealthCheck(cfg.Listen); err != nil {
			log.Fatalf("Health check failed: %v", err)
		}
		os.Exit(0)
	}

	if envVer := os.Getenv("VERSION"); envVer != "" {
		version = envVer
	}

	log.Printf("Starting booking calendar server (version: %s)...", version)

	// Initialize database
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		log.Fatalf("Failed to create data directory %q: %v", cfg.DataDir, err)
	}
	dbPath := cfg.DataDir + "/calendar-backend.db"
	db, err := storage.NewDB(dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := storage.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations complete")

	// Initialize WebSocket hub
	hub := websocket.NewHub()
	go hub.Run()
	broadcaster := websocket.NewEventBroadcaster(hub)

	// Initialize repositories
	sourceRepo := storage.NewSourceRepository(db)
	bookingRepo := storage.NewBookingRepository(db)
	eventRepo := storage.NewEventRepository(db)
	accountRepo := storage.NewAccountRepository(db)
	reminderRepo := storage.NewReminderRepository(db)
	notificationRepo := storage.NewNotificationRepository(db)

	// Initialize services
	notifier := notify.NewNotifier(notificationRepo, cfg.WebhookURL, cfg.NotifyBatchWindowSec)
	authService := auth.NewService(accountRepo, notifier)
	sessions := calendar.NewSessionManager(nil)

	syncService := booking.NewSyncService(sourceRepo, bookingRepo, reminderRepo)

	// Initialize schedulers
	feedScheduler := booking.NewScheduler(syncService, sourceRepo, hub, cfg.DefaultSyncIntervalMin)
	reminderScheduler := reminder.NewScheduler(
		reminderRepo,
		bookingRepo,
		notifier,
		hub,
		sessions,
		authService,
		cfg.ReminderLeadMin,
	)

	// Start schedulers
	if err := feedScheduler.Start(context.Background()); err != nil {
		log.Printf("Warning: Failed to start feed scheduler: %v", err)
	}
	reminderScheduler.Start()

	// Initialize HTTP router
	router := api.NewRouter(api.Services{
		DB:            db,
		Hub:           hub,
		Broadcaster:   broadcaster,
		Sources:       sourceRepo,
		Bookings:      bookingRepo,
		Events:        eventRepo,
		Notifications: notificationRepo,
		Auth:          authService,
		Sessions:      sessions,
		Scheduler:     feedScheduler,
		Notifier:      notifier,
		StaticDir:     cfg.StaticDir,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Listen,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	go func() {
		log.Printf("Server listening on %s", cfg.Listen)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Stop schedulers and drain queued notifications
	feedScheduler.Stop()
	reminderScheduler.Stop()
	notifier.Flush()

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
}

// runHealthCheck performs a health check against the running server.
func runHealthCheck(addr string) error {
	url := "http://localhost" + addr + "/api/health"
	resp, err := http.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return http.ErrAbortHandler
	}
	return nil
}
