package match

import "context"

// Registry resolves match identifiers to their participants and listing. The
// match rows are written by the swipe/matching pipeline, never by this service.
type Registry interface {
	// GetByID retrieves a match by its id
	GetByID(ctx context.Context, id string) (Match, error)

	// GetByIDWithDetails retrieves a match with joined participant names,
	// emails and the listing title (used by the notification dispatcher)
	GetByIDWithDetails(ctx context.Context, id string) (MatchWithDetails, error)
}
