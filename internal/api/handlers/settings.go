package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/evorgs/calendar-backend/internal/api/middleware"
	"github.com/evorgs/calendar-backend/internal/storage"
)

// SettingsResponse represents settings in API responses.
type SettingsResponse struct {
	DefaultSyncIntervalMin  string `json:"default_sync_interval_min"`
	ReminderLeadMinutes     string `json:"reminder_lead_minutes"`
	NotifyBatchWindowSeconds string `json:"notify_batch_window_seconds"`
}

// GetSettings returns all settings.
func GetSettings(db *storage.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		rows, err := db.QueryContext(ctx, "SELECT key, value FROM settings")
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query settings")
			return
		}
		defer rows.Close()

		settings := make(map[string]string)
		for rows.Next() {
			var key, value string
			if err := rows.Scan(&key, &value); err != nil {
				continue
			}
			settings[key] = value
		}

		response := SettingsResponse{
			DefaultSyncIntervalMin:   settings["default_sync_interval_min"],
			ReminderLeadMinutes:      settings["reminder_lead_minutes"],
			NotifyBatchWindowSeconds: settings["notify_batch_window_seconds"],
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(response)
	}
}

// UpdateSettings updates settings.
func UpdateSettings(db *storage.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req SettingsResponse
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}

		settings := map[string]string{
			"default_sync_interval_min":   req.DefaultSyncIntervalMin,
			"reminder_lead_minutes":       req.ReminderLeadMinutes,
			"notify_batch_window_seconds": req.NotifyBatchWindowSeconds,
		}

		for key, value := range settings {
			if value != "" {
				_, err := db.ExecContext(ctx, `
					INSERT INTO settings (key, value) VALUES (?, ?)
					ON CONFLICT(key) DO UPDATE SET value = excluded.value
				`, key, value)
				if err != nil {
					middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to update settings")
					return
				}
			}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(req)
	}
}
