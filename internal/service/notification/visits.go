package notification

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/marcyannick1/roomly-backend-go/internal/domain/match"
	"github.com/marcyannick1/roomly-backend-go/internal/domain/notification"
	"github.com/marcyannick1/roomly-backend-go/internal/domain/visit"
	"github.com/marcyannick1/roomly-backend-go/internal/pkg/email"
)

// VisitNotifier translates visit lifecycle events into notifications. It is
// the Notification Dispatcher of the visit engine: errors are logged and
// swallowed, a committed transition is never rolled back because of it.
type VisitNotifier struct {
	svc      notification.Service
	registry match.Registry
	email    email.EmailService // nil when SMTP is not configured
}

func NewVisitNotifier(svc notification.Service, registry match.Registry, emailService email.EmailService) *VisitNotifier {
	return &VisitNotifier{
		svc:      svc,
		registry: registry,
		email:    emailService,
	}
}

// VisitAccepted alerts the proposer that the recipient accepted their
// proposal.
func (n *VisitNotifier) VisitAccepted(ctx context.Context, v visit.Visit) {
	m, err := n.registry.GetByIDWithDetails(ctx, v.MatchID)
	if err != nil {
		slog.Error("Failed to resolve match for visit notification", "visit_id", v.ID, "match_id", v.MatchID, "error", err)
		return
	}

	proposerEmail := m.SeekerEmail
	accepterName := m.AdvertiserName
	if v.ProposerID == m.AdvertiserID {
		proposerEmail = m.AdvertiserEmail
		accepterName = m.SeekerName
	}

	visitDate := v.ProposedDate.Format("02/01/2006 à 15:04")

	req := notification.CreateNotificationRequest{
		RecipientID:    v.ProposerID,
		SenderID:       &v.RecipientID,
		Type:           notification.TypeVisitAccepted,
		Title:          "Visite confirmée",
		Message:        fmt.Sprintf("%s a accepté votre proposition de visite du %s", accepterName, visitDate),
		RecipientEmail: proposerEmail,
		Data: map[string]interface{}{
			"visit_id":      v.ID,
			"match_id":      v.MatchID,
			"proposed_date": v.ProposedDate.Format(time.RFC3339),
		},
	}

	if err := n.svc.QueueNotification(ctx, req); err != nil {
		slog.Error("Failed to queue visit accepted notification", "visit_id", v.ID, "error", err)
	}

	if n.email != nil {
		if err := n.email.SendVisitAccepted(proposerEmail, accepterName, m.ListingTitle, visitDate); err != nil {
			slog.Error("Failed to send visit accepted email", "visit_id", v.ID, "error", err)
		}
	}
}
