package visit

import (
	"strings"
	"time"
)

// Status represents the lifecycle status of a visit proposal
type Status string

const (
	StatusPending   Status = "pending"
	StatusAccepted  Status = "accepted"
	StatusDeclined  Status = "declined"
	StatusCancelled Status = "cancelled"
)

// ParseStatus normalizes a wire status string to its canonical form.
// Comparison is case-insensitive; storage is always canonical lower-case.
func ParseStatus(s string) (Status, bool) {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusPending:
		return StatusPending, true
	case StatusAccepted:
		return StatusAccepted, true
	case StatusDeclined:
		return StatusDeclined, true
	case StatusCancelled:
		return StatusCancelled, true
	}
	return "", false
}

// Action represents a lifecycle transition requested by an actor
type Action string

const (
	ActionAccept  Action = "accept"
	ActionDecline Action = "decline"
	ActionCancel  Action = "cancel"
)

// DeclineReasons is the canonical reason set offered by the client. Free text
// is accepted as well; the enumeration exists so clients can render a picker.
var DeclineReasons = []string{
	"Le créneau ne me convient pas",
	"Je ne suis plus disponible à cette date",
	"Le logement ne correspond plus à ma recherche",
	"Le logement a déjà été attribué",
	"Je préfère une autre date",
	"Autre raison",
}

// Visit represents a proposed in-person viewing tied to a match. A visit is
// never deleted: decline and cancel are terminal statuses, which keeps the
// proposal history per match auditable.
type Visit struct {
	ID          string
	MatchID     string
	ProposerID  string
	RecipientID string

	ProposedDate time.Time
	Notes        *string

	Status        Status
	DeclineReason *string

	CreatedAt  time.Time
	DecidedAt  *time.Time
	RemindedAt *time.Time
}

// IsPending reports whether the visit can still be transitioned.
func (v *Visit) IsPending() bool {
	return v.Status == StatusPending
}

// IsTerminal reports whether the visit reached a final status.
func (v *Visit) IsTerminal() bool {
	return v.Status == StatusAccepted || v.Status == StatusDeclined || v.Status == StatusCancelled
}

// CanBeAcceptedAt checks the accept guard: still pending and the proposed
// date has not passed. A pending visit whose date passed stays decline-able
// and cancellable, it just cannot be accepted anymore.
func (v *Visit) CanBeAcceptedAt(now time.Time) bool {
	return v.IsPending() && !v.ProposedDate.Before(now)
}

// ActorRole names the role a user holds on a visit, for presentation only.
// Authorization always happens server-side against the stored ids.
func (v *Visit) ActorRole(userID string) string {
	switch userID {
	case v.ProposerID:
		return "proposer"
	case v.RecipientID:
		return "recipient"
	}
	return ""
}
