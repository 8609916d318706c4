package api

import (
	"driveline/internal/entities"
	"driveline/internal/service"
	"encoding/json"
	"net/http"
	"time"
)

// NotificationHandler serves the staff alert feed. The projection is
// recomputed on each poll; clients refresh every few tens of seconds.
type NotificationHandler struct {
	Service *service.NotificationService
}

func NewNotificationHandler(svc *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{Service: svc}
}

func (h *NotificationHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	today := time.Now().UTC().Truncate(24 * time.Hour)
	notifications, err := h.Service.Refresh(today)
	if err != nil {
		writeError(w, err)
		return
	}
	if notifications == nil {
		notifications = []entities.Notification{}
	}
	writeJSON(w, http.StatusOK, notifications)
}

func (h *NotificationHandler) AcknowledgeNotifications(w http.ResponseWriter, r *http.Request) {
	var req entities.AckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if err := h.Service.Acknowledge(req.Keys); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Notifications acknowledged"})
}
