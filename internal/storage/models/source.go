package models

import (
	"time"
)

// FeedSource represents a vendor booking feed subscription.
type FeedSource struct {
	ID              string     `json:"id"`
	VendorName      string     `json:"vendor_name"`
	URL             string     `json:"url"`
	SyncIntervalMin int        `json:"sync_interval_min"`
	LastSyncAt      *time.Time `json:"last_sync_at,omitempty"`
	SyncStatus      string     `json:"sync_status"`
	SyncError       *string    `json:"sync_error,omitempty"`
	Enabled         bool       `json:"enabled"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// SyncStatus constants
const (
	SyncStatusPending = "pending"
	SyncStatusSyncing = "syncing"
	SyncStatusSuccess = "success"
	SyncStatusError   = "error"
)

// FeedSyncResult contains the results of a feed sync operation.
type FeedSyncResult struct {
	SourceID        string    `json:"source_id"`
	VendorName      string    `json:"vendor_name"`
	BookingsFound   int       `json:"bookings_found"`
	BookingsCreated int       `json:"bookings_created"`
	BookingsUpdated int       `json:"bookings_updated"`
	BookingsRemoved int       `json:"bookings_removed"`
	Error           error     `json:"-"`
	SyncedAt        time.Time `json:"synced_at"`
}
