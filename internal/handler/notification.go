package handler

import (
	"net/http"

	"github.com/taskmanager/taskmanager-go/internal/service"
)

// NotificationHandler handles HTTP requests for notifications.
type NotificationHandler struct {
	service *service.NotificationService
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(svc *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{service: svc}
}

// HandleUnread handles GET /api/notifications requests.
func (h *NotificationHandler) HandleUnread(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.Unread(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// HandleMarkRead handles POST /api/notifications/mark-read requests.
func (h *NotificationHandler) HandleMarkRead(w http.ResponseWriter, r *http.Request) {
	if err := h.service.MarkAllRead(r.Context()); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}
