package visit

import (
	"context"
	"time"
)

// Service defines the visit lifecycle and query business logic
type Service interface {
	// Propose creates a new pending visit on behalf of proposerID
	Propose(ctx context.Context, proposerID string, req CreateRequest) (Visit, error)

	// Transition applies accept/decline/cancel on behalf of actorID.
	// Authorization is checked before any state or timing guard.
	Transition(ctx context.Context, visitID, actorID string, req TransitionRequest) (Visit, error)

	// ListForUser returns all visits of the user's matches, proposed_date ascending
	ListForUser(ctx context.Context, userID string) ([]Visit, error)

	// ListForMatch returns the proposal history of one match, created_at
	// ascending. requesterID must be a participant of the match.
	ListForMatch(ctx context.Context, matchID, requesterID string) ([]Visit, error)

	// MonthCalendar returns the user's visits bucketed by local calendar day
	// over the given month, interpreted in loc
	MonthCalendar(ctx context.Context, userID string, month time.Time, loc *time.Location) (CalendarMonthResponse, error)
}
