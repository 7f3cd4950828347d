package visit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/marcyannick1/roomly-backend-go/internal/domain/notification"
	"github.com/marcyannick1/roomly-backend-go/internal/domain/visit"
)

// ReminderJob enqueues a reminder notification for both parties of every
// accepted visit happening within the configured window. reminded_at on the
// visit row keeps the job idempotent across runs.
type ReminderJob struct {
	visitRepo visit.Repository
	notifier  notification.Service
	window    time.Duration
}

func NewReminderJob(visitRepo visit.Repository, notifier notification.Service, window time.Duration) *ReminderJob {
	return &ReminderJob{
		visitRepo: visitRepo,
		notifier:  notifier,
		window:    window,
	}
}

// Run executes one reminder pass. Per-visit failures are logged and skipped
// so one bad row does not starve the rest.
func (j *ReminderJob) Run(ctx context.Context) error {
	now := time.Now()
	visits, err := j.visitRepo.ListAcceptedBetween(ctx, now, now.Add(j.window))
	if err != nil {
		return fmt.Errorf("failed to list visits to remind: %w", err)
	}

	for _, v := range visits {
		if err := j.remind(ctx, v); err != nil {
			slog.Error("Visit reminder failed", "visit_id", v.ID, "error", err)
		}
	}

	return nil
}

func (j *ReminderJob) remind(ctx context.Context, v visit.Visit) error {
	message := fmt.Sprintf("Visite prévue le %s", v.ProposedDate.Format("02/01/2006 à 15:04"))

	for _, userID := range []string{v.ProposerID, v.RecipientID} {
		req := notification.CreateNotificationRequest{
			RecipientID: userID,
			Type:        notification.TypeVisitReminder,
			Title:       "Rappel de visite",
			Message:     message,
			Data: map[string]interface{}{
				"visit_id": v.ID,
				"match_id": v.MatchID,
			},
		}
		if err := j.notifier.QueueNotification(ctx, req); err != nil {
			return fmt.Errorf("failed to queue reminder: %w", err)
		}
	}

	return j.visitRepo.MarkReminded(ctx, v.ID, time.Now())
}
