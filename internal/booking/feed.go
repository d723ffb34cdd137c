// Package booking provides vendor feed ingestion and sync scheduling.
package booking

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/evorgs/calendar-backend/internal/storage/models"
)

// feedRecord is the wire shape of one booking in a vendor feed.
type feedRecord struct {
	ID             string     `json:"id"`
	Reference      string     `json:"reference"`
	CustomerName   string     `json:"customer_name"`
	ServiceName    string     `json:"service_name"`
	EventDate      string     `json:"event_date"` // YYYY-MM-DD
	Status         string     `json:"status"`
	ScheduledVisit *time.Time `json:"scheduled_visit,omitempty"`
}

// Client fetches and parses vendor booking feeds.
type Client struct {
	httpClient *http.Client
}

// NewClient creates a feed client with a request timeout.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// FetchAndParse downloads and parses a booking feed from a URL.
func (c *Client) FetchAndParse(url string) ([]models.Booking, error) {
	resp, err := c.httpClient.Get(url)
	if err != nil {
		return nil, fmt.Errorf("fetching feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned status %d", resp.StatusCode)
	}

	return c.Parse(resp.Body)
}

// Parse reads a JSON array of booking records. Records without an id or
// with an unparseable event date are skipped, not fatal: one bad record
// must not block the rest of the feed.
func (c *Client) Parse(r io.Reader) ([]models.Booking, error) {
	var records []feedRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decoding feed: %w", err)
	}

	var bookings []models.Booking
	for _, rec := range records {
		if rec.ID == "" {
			log.Printf("Skipping feed record without id (reference: %q)", rec.Reference)
			continue
		}
		if _, err := time.Parse("2006-01-02", rec.EventDate); err != nil {
			log.Printf("Skipping feed record %s: bad event date %q", rec.ID, rec.EventDate)
			continue
		}

		bookings = append(bookings, models.Booking{
			ID:             rec.ID,
			Reference:      rec.Reference,
			CustomerName:   rec.CustomerName,
			ServiceName:    rec.ServiceName,
			EventDate:      rec.EventDate,
			Status:         rec.Status,
			ScheduledVisit: rec.ScheduledVisit,
		})
	}

	return bookings, nil
}
