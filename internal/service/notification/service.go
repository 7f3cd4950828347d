package notification

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/marcyannick1/roomly-backend-go/internal/domain/notification"
	"github.com/marcyannick1/roomly-backend-go/internal/pkg/sse"
)

// Config holds notification service configuration
type Config struct {
	WorkerCount int // default: 2
	QueueSize   int // default: 256
}

type service struct {
	repo   notification.Repository
	hub    *sse.Hub
	config Config

	queue  chan notification.CreateNotificationRequest
	wg     sync.WaitGroup
	stopCh chan struct{}
	once   sync.Once
}

// NewNotificationService creates a new notification service with background
// workers. Queued notifications are persisted and pushed to connected SSE
// subscribers; failures are logged and dropped, never propagated.
func NewNotificationService(repo notification.Repository, hub *sse.Hub, cfg Config) notification.Service {
	if cfg.WorkerCount == 0 {
		cfg.WorkerCount = 2
	}
	if cfg.QueueSize == 0 {
		cfg.QueueSize = 256
	}

	s := &service{
		repo:   repo,
		hub:    hub,
		config: cfg,
		queue:  make(chan notification.CreateNotificationRequest, cfg.QueueSize),
		stopCh: make(chan struct{}),
	}

	for i := 0; i < cfg.WorkerCount; i++ {
		s.wg.Add(1)
		go s.worker()
	}

	slog.Info("Notification dispatcher started", "workers", cfg.WorkerCount, "queue_size", cfg.QueueSize)

	return s
}

func (s *service) worker() {
	defer s.wg.Done()

	for {
		select {
		case <-s.stopCh:
			// Drain what is left before exiting
			for {
				select {
				case req := <-s.queue:
					s.deliver(req)
				default:
					return
				}
			}
		case req := <-s.queue:
			s.deliver(req)
		}
	}
}

func (s *service) deliver(req notification.CreateNotificationRequest) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	n := &notification.Notification{
		ID:          uuid.NewString(),
		RecipientID: req.RecipientID,
		SenderID:    req.SenderID,
		Type:        req.Type,
		Title:       req.Title,
		Message:     req.Message,
		Data:        req.Data,
		CreatedAt:   time.Now(),
	}

	if err := s.repo.Create(ctx, n); err != nil {
		slog.Error("Failed to persist notification", "type", n.Type, "recipient", n.RecipientID, "error", err)
		return
	}

	if s.hub != nil {
		s.hub.Publish(n.RecipientID, sse.Event{
			UserID: n.RecipientID,
			Event:  string(n.Type),
			Data:   toResponse(n),
		})
	}
}

// QueueNotification implements notification.Service.
func (s *service) QueueNotification(ctx context.Context, req notification.CreateNotificationRequest) error {
	select {
	case s.queue <- req:
		return nil
	default:
		// Queue full: drop rather than block the caller
		slog.Warn("Notification queue full, dropping", "type", req.Type, "recipient", req.RecipientID)
		return nil
	}
}

// GetNotifications implements notification.Service.
func (s *service) GetNotifications(ctx context.Context, userID string, page, pageSize int, unreadOnly bool) (*notification.NotificationListResponse, error) {
	notifications, total, err := s.repo.GetByUserID(ctx, userID, page, pageSize, unreadOnly)
	if err != nil {
		return nil, err
	}

	unread, err := s.repo.GetUnreadCount(ctx, userID)
	if err != nil {
		return nil, err
	}

	responses := make([]notification.NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		responses = append(responses, toResponse(n))
	}

	if pageSize < 1 {
		pageSize = 20
	}
	if page < 1 {
		page = 1
	}

	return &notification.NotificationListResponse{
		Notifications: responses,
		Total:         total,
		UnreadCount:   unread,
		Page:          page,
		PageSize:      pageSize,
	}, nil
}

// GetUnreadCount implements notification.Service.
func (s *service) GetUnreadCount(ctx context.Context, userID string) (int, error) {
	return s.repo.GetUnreadCount(ctx, userID)
}

// MarkAsRead implements notification.Service.
func (s *service) MarkAsRead(ctx context.Context, userID string, req notification.MarkAsReadRequest) error {
	return s.repo.MarkAsRead(ctx, req.NotificationIDs, userID)
}

// MarkAllAsRead implements notification.Service.
func (s *service) MarkAllAsRead(ctx context.Context, userID string) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}

// Stop drains the queue and stops the workers.
func (s *service) Stop() {
	s.once.Do(func() {
		close(s.stopCh)
	})
	s.wg.Wait()
}

func toResponse(n *notification.Notification) notification.NotificationResponse {
	return notification.NotificationResponse{
		ID:        n.ID,
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		Data:      n.Data,
		IsRead:    n.IsRead,
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}
}
