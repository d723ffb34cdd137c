// Package notify delivers outbound notifications to a configured
// webhook endpoint, batching sends to avoid hammering the receiver.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/evorgs/calendar-backend/internal/storage"
	"github.com/evorgs/calendar-backend/internal/storage/models"
)

// Notifier queues notifications and flushes them to the webhook after a
// batch window. With no webhook configured, notifications are recorded
// and logged only.
type Notifier struct {
	repo       *storage.NotificationRepository
	webhookURL string
	httpClient *http.Client

	pending     []string // notification IDs awaiting delivery
	batchMu     sync.Mutex
	batchWindow time.Duration
	batchTimer  *time.Timer
}

// NewNotifier creates a notifier. webhookURL may be empty.
func NewNotifier(repo *storage.NotificationRepository, webhookURL string, batchWindowSeconds int) *Notifier {
	if batchWindowSeconds <= 0 {
		batchWindowSeconds = 30
	}

	return &Notifier{
		repo:       repo,
		webhookURL: webhookURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		batchWindow: time.Duration(batchWindowSeconds) * time.Second,
	}
}

// Notify records a notification and queues it for delivery.
func (n *Notifier) Notify(ctx context.Context, level, title, message, recipient string) {
	notification := &models.Notification{
		Level:     level,
		Title:     title,
		Message:   message,
		Recipient: recipient,
	}
	if err := n.repo.Create(ctx, notification); err != nil {
		log.Printf("Failed to record notification: %v", err)
		return
	}

	n.queue(notification.ID)
}

// queue adds a notification to the batch and arms the flush timer.
func (n *Notifier) queue(id string) {
	n.batchMu.Lock()
	defer n.batchMu.Unlock()

	n.pending = append(n.pending, id)

	if n.batchTimer == nil {
		n.batchTimer = time.AfterFunc(n.batchWindow, n.flushBatch)
	}
}

// Flush forces immediate delivery of the pending batch. Used at
// shutdown so queued notifications are not lost.
func (n *Notifier) Flush() {
	n.batchMu.Lock()
	if n.batchTimer != nil {
		n.batchTimer.Stop()
		n.batchTimer = nil
	}
	n.batchMu.Unlock()

	n.flushBatch()
}

func (n *Notifier) flushBatch() {
	n.batchMu.Lock()
	ids := n.pending
	n.pending = nil
	n.batchTimer = nil
	n.batchMu.Unlock()

	if len(ids) == 0 {
		return
	}

	ctx := context.Background()

	batch, err := n.repo.GetByIDs(ctx, ids)
	if err != nil {
		log.Printf("Failed to load notifications for delivery: %v", err)
		return
	}
	if len(batch) == 0 {
		return
	}

	status := models.NotificationStatusDelivered
	if n.webhookURL == "" {
		for _, rec := range batch {
			log.Printf("Notification [%s] %s: %s", rec.Level, rec.Title, rec.Message)
		}
	} else if err := n.post(ctx, batch); err != nil {
		log.Printf("Webhook delivery failed for %d notifications: %v", len(batch), err)
		status = models.NotificationStatusFailed
	}

	for _, rec := range batch {
		if err := n.repo.UpdateStatus(ctx, rec.ID, status); err != nil {
			log.Printf("Failed to update notification %s: %v", rec.ID, err)
		}
	}
}

func (n *Notifier) post(ctx context.Context, batch []models.Notification) error {
	body, err := json.Marshal(map[string]any{"notifications": batch})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &DeliveryError{Status: resp.StatusCode}
	}
	return nil
}

// DeliveryError reports a non-2xx webhook response.
type DeliveryError struct {
	Status int
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("webhook returned status %d", e.Status)
}
