package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/marcyannick1/roomly-backend-go/internal/domain/notification"
	"github.com/marcyannick1/roomly-backend-go/internal/handler/http/middleware"
	"github.com/marcyannick1/roomly-backend-go/internal/handler/http/response"
	"github.com/marcyannick1/roomly-backend-go/internal/pkg/jwt"
	"github.com/marcyannick1/roomly-backend-go/internal/pkg/sse"
)

type NotificationHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	UnreadCount(w http.ResponseWriter, r *http.Request)
	MarkRead(w http.ResponseWriter, r *http.Request)
	MarkAllRead(w http.ResponseWriter, r *http.Request)
	StreamToken(w http.ResponseWriter, r *http.Request)
	Stream(w http.ResponseWriter, r *http.Request)
}

type notificationHandlerImpl struct {
	service    notification.Service
	jwtService jwt.Service
	hub        *sse.Hub
}

func NewNotificationHandler(service notification.Service, jwtService jwt.Service, hub *sse.Hub) NotificationHandler {
	return &notificationHandlerImpl{
		service:    service,
		jwtService: jwtService,
		hub:        hub,
	}
}

// List implements NotificationHandler
func (h *notificationHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
	unreadOnly := r.URL.Query().Get("unread") == "true"

	result, err := h.service.GetNotifications(r.Context(), userID, page, pageSize, unreadOnly)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// UnreadCount implements NotificationHandler
func (h *notificationHandlerImpl) UnreadCount(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)

	count, err := h.service.GetUnreadCount(r.Context(), userID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, notification.UnreadCountResponse{UnreadCount: count})
}

// MarkRead implements NotificationHandler
func (h *notificationHandlerImpl) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)

	var req notification.MarkAsReadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := h.service.MarkAsRead(r.Context(), userID, req); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Notifications marked as read", nil)
}

// MarkAllRead implements NotificationHandler
func (h *notificationHandlerImpl) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)

	if err := h.service.MarkAllAsRead(r.Context(), userID); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "All notifications marked as read", nil)
}

// StreamToken implements NotificationHandler. EventSource cannot send an
// Authorization header, so the stream authenticates with a short-lived token
// passed as a query parameter.
func (h *notificationHandlerImpl) StreamToken(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)

	token, expiresIn, err := h.jwtService.GenerateSSEToken(userID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, notification.SSETokenResponse{Token: token, ExpiresIn: expiresIn})
}

// Stream implements NotificationHandler - SSE stream of notification events
func (h *notificationHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	userID, err := h.jwtService.ValidateSSEToken(r.URL.Query().Get("token"))
	if err != nil {
		response.Unauthorized(w, "Invalid or expired stream token")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		response.InternalServerError(w, "Streaming is not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	events, cleanup := h.hub.Subscribe(userID)
	defer cleanup()

	fmt.Fprint(w, "event: connected\ndata: {}\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case event, open := <-events:
			if !open {
				return
			}
			data, err := json.Marshal(event.Data)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Event, data)
			flusher.Flush()
		}
	}
}
