package notification

import (
	"time"
)

// NotificationType represents the type of notification
type NotificationType string

const (
	TypeVisitAccepted NotificationType = "visit_accepted"
	TypeVisitReminder NotificationType = "visit_reminder"
)

// Notification represents a stored notification for a user. The dispatcher
// writes them asynchronously; delivery failures never roll back the visit
// transition that produced them.
type Notification struct {
	ID          string
	RecipientID string
	SenderID    *string
	Type        NotificationType
	Title       string
	Message     string
	Data        map[string]interface{}
	IsRead      bool
	ReadAt      *time.Time
	CreatedAt   time.Time
}
