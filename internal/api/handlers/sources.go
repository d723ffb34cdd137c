package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/evorgs/calendar-backend/internal/api/middleware"
	"github.com/evorgs/calendar-backend/internal/booking"
	"github.com/evorgs/calendar-backend/internal/storage"
	"github.com/evorgs/calendar-backend/internal/storage/models"
)

// Feed source request/response types

type CreateSourceRequest struct {
	VendorName      string `json:"vendor_name"`
	URL             string `json:"url"`
	SyncIntervalMin int    `json:"sync_interval_min"`
	Enabled         bool   `json:"enabled"`
}

type SourceResponse struct {
	ID              string  `json:"id"`
	VendorName      string  `json:"vendor_name"`
	URL             string  `json:"url"`
	SyncIntervalMin int     `json:"sync_interval_min"`
	LastSyncAt      *string `json:"last_sync_at,omitempty"`
	SyncStatus      string  `json:"sync_status"`
	SyncError       *string `json:"sync_error,omitempty"`
	Enabled         bool    `json:"enabled"`
}

func sourceResponse(src models.FeedSource) SourceResponse {
	resp := SourceResponse{
		ID:              src.ID,
		VendorName:      src.VendorName,
		URL:             src.URL,
		SyncIntervalMin: src.SyncIntervalMin,
		SyncStatus:      src.SyncStatus,
		SyncError:       src.SyncError,
		Enabled:         src.Enabled,
	}
	if src.LastSyncAt != nil {
		formatted := src.LastSyncAt.Format("2006-01-02T15:04:05Z07:00")
		resp.LastSyncAt = &formatted
	}
	return resp
}

// ListSources returns all booking feed sources.
func ListSources(sources *storage.SourceRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := sources.List(r.Context())
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query feed sources")
			return
		}

		response := make([]SourceResponse, 0, len(list))
		for _, src := range list {
			response = append(response, sourceResponse(src))
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(response)
	}
}

// CreateSource registers a new booking feed source.
func CreateSource(sources *storage.SourceRepository, scheduler *booking.Scheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateSourceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}

		if req.VendorName == "" || req.URL == "" {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "Vendor name and URL are required")
			return
		}

		if req.SyncIntervalMin < 5 {
			req.SyncIntervalMin = 15
		}

		src := models.FeedSource{
			ID:              storage.GenerateID(),
			VendorName:      req.VendorName,
			URL:             req.URL,
			SyncIntervalMin: req.SyncIntervalMin,
			SyncStatus:      models.SyncStatusPending,
			Enabled:         req.Enabled,
		}

		if err := sources.Create(r.Context(), &src); err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to create feed source")
			return
		}

		if scheduler != nil && src.Enabled {
			scheduler.ScheduleSource(src)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(sourceResponse(src))
	}
}

// GetSource returns a single feed source by ID.
func GetSource(sources *storage.SourceRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		src, err := sources.GetByID(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query feed source")
			return
		}
		if src == nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Feed source not found")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(sourceResponse(*src))
	}
}

// UpdateSource updates an existing feed source.
func UpdateSource(sources *storage.SourceRepository, scheduler *booking.Scheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]

		var req CreateSourceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}

		if req.VendorName == "" || req.URL == "" {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "Vendor name and URL are required")
			return
		}

		if req.SyncIntervalMin < 5 {
			req.SyncIntervalMin = 15
		}

		src, err := sources.GetByID(r.Context(), id)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query feed source")
			return
		}
		if src == nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Feed source not found")
			return
		}

		src.VendorName = req.VendorName
		src.URL = req.URL
		src.SyncIntervalMin = req.SyncIntervalMin
		src.Enabled = req.Enabled

		if err := sources.Update(r.Context(), src); err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to update feed source")
			return
		}

		if scheduler != nil {
			scheduler.ScheduleSource(*src)
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// DeleteSource removes a feed source.
func DeleteSource(sources *storage.SourceRepository, scheduler *booking.Scheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]

		if err := sources.Delete(r.Context(), id); err != nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Feed source not found")
			return
		}

		if scheduler != nil {
			scheduler.UnscheduleSource(id)
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// SyncSource triggers a manual sync for a feed source.
func SyncSource(sources *storage.SourceRepository, scheduler *booking.Scheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]

		src, err := sources.GetByID(r.Context(), id)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query feed source")
			return
		}
		if src == nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Feed source not found")
			return
		}

		// Sync runs in the background; completion arrives over WebSocket.
		scheduler.TriggerSync(id)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		json.NewEncoder(w).Encode(map[string]string{"status": models.SyncStatusSyncing})
	}
}
