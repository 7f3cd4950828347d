package visit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/marcyannick1/roomly-backend-go/internal/domain/match"
	"github.com/marcyannick1/roomly-backend-go/internal/domain/visit"
	"github.com/marcyannick1/roomly-backend-go/internal/pkg/database"
	"github.com/marcyannick1/roomly-backend-go/internal/repository/postgresql"
)

// Dispatcher is informed of accepted transitions so the counterparty can be
// alerted. Calls are fire-and-forget: a dispatcher failure never invalidates
// a committed transition.
type Dispatcher interface {
	VisitAccepted(ctx context.Context, v visit.Visit)
}

type VisitService struct {
	db            *database.DB
	visitRepo     visit.Repository
	matchRegistry match.Registry
	dispatcher    Dispatcher
}

func NewVisitService(db *database.DB, visitRepo visit.Repository, matchRegistry match.Registry, dispatcher Dispatcher) *VisitService {
	return &VisitService{
		db:            db,
		visitRepo:     visitRepo,
		matchRegistry: matchRegistry,
		dispatcher:    dispatcher,
	}
}

// inTx runs fn inside a database transaction. Repositories pick the
// transaction up from the context. Without a pool, fn runs directly.
func (s *VisitService) inTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.db == nil {
		return fn(ctx)
	}
	return postgresql.WithTransaction(ctx, s.db, fn)
}

// Propose creates a new pending visit. The recipient is the other party of
// the match, resolved once at creation time; the participant check and the
// insert share one snapshot.
func (s *VisitService) Propose(ctx context.Context, proposerID string, req visit.CreateRequest) (visit.Visit, error) {
	var created visit.Visit

	err := s.inTx(ctx, func(ctx context.Context) error {
		m, err := s.matchRegistry.GetByID(ctx, req.MatchID)
		if err != nil {
			return err
		}

		recipientID, ok := m.Counterpart(proposerID)
		if !ok {
			return visit.ErrNotParticipant
		}

		if !req.ProposedAt.After(time.Now()) {
			return visit.ErrPastDate
		}

		v := visit.Visit{
			ID:           uuid.NewString(),
			MatchID:      m.ID,
			ProposerID:   proposerID,
			RecipientID:  recipientID,
			ProposedDate: req.ProposedAt,
			Notes:        req.Notes,
			Status:       visit.StatusPending,
		}

		created, err = s.visitRepo.Create(ctx, v)
		if err != nil {
			return fmt.Errorf("failed to persist visit: %w", err)
		}
		return nil
	})
	if err != nil {
		return visit.Visit{}, err
	}

	return created, nil
}

// Transition applies accept/decline/cancel. Guard order matters: an
// unauthorized actor always gets ErrUnauthorizedActor, never a hint about the
// visit's current state.
func (s *VisitService) Transition(ctx context.Context, visitID, actorID string, req visit.TransitionRequest) (visit.Visit, error) {
	v, err := s.visitRepo.GetByID(ctx, visitID)
	if err != nil {
		return visit.Visit{}, err
	}

	action := visit.Action(req.Action)

	var target visit.Status
	switch action {
	case visit.ActionAccept, visit.ActionDecline:
		if actorID != v.RecipientID {
			return visit.Visit{}, visit.ErrUnauthorizedActor
		}
		if action == visit.ActionAccept {
			target = visit.StatusAccepted
		} else {
			target = visit.StatusDeclined
		}
	case visit.ActionCancel:
		if actorID != v.ProposerID {
			return visit.Visit{}, visit.ErrUnauthorizedActor
		}
		target = visit.StatusCancelled
	default:
		return visit.Visit{}, visit.ErrUnknownAction
	}

	var declineReason *string
	if action == visit.ActionDecline {
		if req.DeclineReason == nil || *req.DeclineReason == "" {
			return visit.Visit{}, visit.ErrDeclineReasonRequired
		}
		declineReason = req.DeclineReason
	}

	if !v.IsPending() {
		return visit.Visit{}, visit.ErrAlreadyDecided
	}

	now := time.Now()
	if action == visit.ActionAccept && !v.CanBeAcceptedAt(now) {
		return visit.Visit{}, visit.ErrPastDate
	}

	updated, err := s.visitRepo.UpdateStatusIfPending(ctx, visitID, target, declineReason, now)
	if err != nil {
		return visit.Visit{}, err
	}

	if action == visit.ActionAccept && s.dispatcher != nil {
		go s.dispatcher.VisitAccepted(context.WithoutCancel(ctx), updated)
	}

	return updated, nil
}

// ListForUser implements visit.Service.
func (s *VisitService) ListForUser(ctx context.Context, userID string) ([]visit.Visit, error) {
	visits, err := s.visitRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list visits for user: %w", err)
	}
	return visits, nil
}

// ListForMatch implements visit.Service. Only participants of the match may
// read its proposal history.
func (s *VisitService) ListForMatch(ctx context.Context, matchID, requesterID string) ([]visit.Visit, error) {
	m, err := s.matchRegistry.GetByID(ctx, matchID)
	if err != nil {
		return nil, err
	}

	if !m.HasParticipant(requesterID) {
		return nil, visit.ErrNotParticipant
	}

	visits, err := s.visitRepo.ListByMatchID(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list visits for match: %w", err)
	}
	return visits, nil
}

// MonthCalendar implements visit.Service.
func (s *VisitService) MonthCalendar(ctx context.Context, userID string, month time.Time, loc *time.Location) (visit.CalendarMonthResponse, error) {
	visits, err := s.visitRepo.ListByUserID(ctx, userID)
	if err != nil {
		return visit.CalendarMonthResponse{}, fmt.Errorf("failed to list visits for calendar: %w", err)
	}

	return BuildMonthCalendar(visits, month, loc), nil
}

var _ visit.Service = (*VisitService)(nil)
