package visit

import (
	"context"
	"time"
)

// Repository defines the interface for visit data access
type Repository interface {
	// Create persists a new visit in pending status
	Create(ctx context.Context, v Visit) (Visit, error)

	// GetByID retrieves a visit by its id
	GetByID(ctx context.Context, id string) (Visit, error)

	// ListByUserID returns every visit whose match has userID as proposer or
	// recipient, ordered by proposed_date ascending
	ListByUserID(ctx context.Context, userID string) ([]Visit, error)

	// ListByMatchID returns all visits for one match, ordered by created_at
	// ascending (chronological proposal history)
	ListByMatchID(ctx context.Context, matchID string) ([]Visit, error)

	// UpdateStatusIfPending performs the compare-and-set transition: the write
	// succeeds only if the persisted status is still pending. Returns
	// ErrAlreadyDecided when the visit exists but is no longer pending, and
	// ErrVisitNotFound when it does not exist.
	UpdateStatusIfPending(ctx context.Context, id string, status Status, declineReason *string, decidedAt time.Time) (Visit, error)

	// ListAcceptedBetween returns accepted visits whose proposed date falls in
	// [from, to) and that have not been reminded yet
	ListAcceptedBetween(ctx context.Context, from, to time.Time) ([]Visit, error)

	// MarkReminded records that a reminder notification was sent
	MarkReminded(ctx context.Context, id string, at time.Time) error
}
