package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/evorgs/calendar-backend/internal/api/middleware"
	"github.com/evorgs/calendar-backend/internal/notify"
	"github.com/evorgs/calendar-backend/internal/storage"
	"github.com/evorgs/calendar-backend/internal/storage/models"
)

const defaultNotificationLimit = 50

var notificationLevels = map[string]bool{
	"info":    true,
	"success": true,
	"warning": true,
	"error":   true,
}

// ListNotifications returns recent notifications, newest first.
func ListNotifications(notifications *storage.NotificationRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := defaultNotificationLimit
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 {
				middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "Limit must be a positive integer")
				return
			}
			limit = n
		}

		list, err := notifications.List(r.Context(), limit)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query notifications")
			return
		}

		if list == nil {
			list = []models.Notification{}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(list)
	}
}

// CreateNotificationRequest carries a manually composed notification.
type CreateNotificationRequest struct {
	Level     string `json:"level"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	Recipient string `json:"recipient"`
}

// CreateNotification enqueues a manually composed notification for
// webhook delivery.
func CreateNotification(notifier *notify.Notifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateNotificationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}

		if req.Level == "" {
			req.Level = "info"
		}
		if !notificationLevels[req.Level] {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "Level must be info, success, warning or error")
			return
		}
		if req.Title == "" {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "Title is required")
			return
		}

		notifier.Notify(r.Context(), req.Level, req.Title, req.Message, req.Recipient)

		w.WriteHeader(http.StatusAccepted)
	}
}
