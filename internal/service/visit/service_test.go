package visit

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/marcyannick1/roomly-backend-go/internal/domain/match"
	"github.com/marcyannick1/roomly-backend-go/internal/domain/visit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ===== In-memory fakes =====

type fakeVisitRepo struct {
	mu     sync.Mutex
	visits map[string]visit.Visit
	order  []string
}

func newFakeVisitRepo() *fakeVisitRepo {
	return &fakeVisitRepo{visits: make(map[string]visit.Visit)}
}

func (r *fakeVisitRepo) Create(ctx context.Context, v visit.Visit) (visit.Visit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	if v.CreatedAt.IsZero() {
		v.CreatedAt = time.Now()
	}
	r.visits[v.ID] = v
	r.order = append(r.order, v.ID)
	return v, nil
}

func (r *fakeVisitRepo) GetByID(ctx context.Context, id string) (visit.Visit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.visits[id]
	if !ok {
		return visit.Visit{}, visit.ErrVisitNotFound
	}
	return v, nil
}

func (r *fakeVisitRepo) ListByUserID(ctx context.Context, userID string) ([]visit.Visit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []visit.Visit
	for _, id := range r.order {
		v := r.visits[id]
		if v.ProposerID == userID || v.RecipientID == userID {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ProposedDate.Before(out[j].ProposedDate)
	})
	return out, nil
}

func (r *fakeVisitRepo) ListByMatchID(ctx context.Context, matchID string) ([]visit.Visit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []visit.Visit
	for _, id := range r.order {
		if v := r.visits[id]; v.MatchID == matchID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (r *fakeVisitRepo) UpdateStatusIfPending(ctx context.Context, id string, status visit.Status, declineReason *string, decidedAt time.Time) (visit.Visit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.visits[id]
	if !ok {
		return visit.Visit{}, visit.ErrVisitNotFound
	}
	if v.Status != visit.StatusPending {
		return visit.Visit{}, visit.ErrAlreadyDecided
	}

	v.Status = status
	v.DeclineReason = declineReason
	v.DecidedAt = &decidedAt
	r.visits[id] = v
	return v, nil
}

func (r *fakeVisitRepo) ListAcceptedBetween(ctx context.Context, from, to time.Time) ([]visit.Visit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []visit.Visit
	for _, id := range r.order {
		v := r.visits[id]
		if v.Status != visit.StatusAccepted || v.RemindedAt != nil {
			continue
		}
		if v.ProposedDate.Before(from) || !v.ProposedDate.Before(to) {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

func (r *fakeVisitRepo) MarkReminded(ctx context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.visits[id]
	if !ok {
		return visit.ErrVisitNotFound
	}
	v.RemindedAt = &at
	r.visits[id] = v
	return nil
}

type fakeMatchRegistry struct {
	matches map[string]match.Match
}

func (r *fakeMatchRegistry) GetByID(ctx context.Context, id string) (match.Match, error) {
	m, ok := r.matches[id]
	if !ok {
		return match.Match{}, match.ErrMatchNotFound
	}
	return m, nil
}

func (r *fakeMatchRegistry) GetByIDWithDetails(ctx context.Context, id string) (match.MatchWithDetails, error) {
	m, err := r.GetByID(ctx, id)
	if err != nil {
		return match.MatchWithDetails{}, err
	}
	return match.MatchWithDetails{
		Match:           m,
		SeekerName:      "Seeker " + m.SeekerID,
		SeekerEmail:     m.SeekerID + "@example.com",
		AdvertiserName:  "Advertiser " + m.AdvertiserID,
		AdvertiserEmail: m.AdvertiserID + "@example.com",
		ListingTitle:    "Listing " + m.ListingID,
	}, nil
}

type fakeDispatcher struct {
	accepted chan visit.Visit
}

func newFakeDispatcher() *fakeDispatcher {
	return &fakeDispatcher{accepted: make(chan visit.Visit, 8)}
}

func (d *fakeDispatcher) VisitAccepted(ctx context.Context, v visit.Visit) {
	d.accepted <- v
}

// ===== Test setup =====

const (
	seekerID     = "user-seeker"
	advertiserID = "user-advertiser"
	strangerID   = "user-stranger"
	matchID      = "match-1"
)

func newTestService(t *testing.T) (*VisitService, *fakeVisitRepo, *fakeDispatcher) {
	t.Helper()

	repo := newFakeVisitRepo()
	registry := &fakeMatchRegistry{matches: map[string]match.Match{
		matchID: {
			ID:           matchID,
			ListingID:    "listing-1",
			SeekerID:     seekerID,
			AdvertiserID: advertiserID,
			Status:       match.StatusActive,
			CreatedAt:    time.Now(),
		},
	}}
	dispatcher := newFakeDispatcher()
	return NewVisitService(nil, repo, registry, dispatcher), repo, dispatcher
}

func proposeTestVisit(t *testing.T, svc *VisitService, proposerID string, proposedAt time.Time, notes *string) visit.Visit {
	t.Helper()

	req := visit.CreateRequest{MatchID: matchID, ProposedAt: proposedAt, Notes: notes}
	created, err := svc.Propose(context.Background(), proposerID, req)
	require.NoError(t, err)
	return created
}

func tomorrowAt(hour int) time.Time {
	return time.Now().Add(24 * time.Hour).Truncate(time.Hour).Add(time.Duration(hour) * time.Hour)
}

// ===== Propose =====

func TestVisitService_Propose_Success(t *testing.T) {
	svc, _, _ := newTestService(t)
	notes := "bring ID"

	created := proposeTestVisit(t, svc, seekerID, tomorrowAt(14), &notes)

	assert.Equal(t, visit.StatusPending, created.Status)
	assert.Equal(t, seekerID, created.ProposerID)
	assert.Equal(t, advertiserID, created.RecipientID)
	assert.Equal(t, matchID, created.MatchID)
	require.NotNil(t, created.Notes)
	assert.Equal(t, "bring ID", *created.Notes)
	assert.Nil(t, created.DecidedAt)

	// Visible to both parties
	for _, userID := range []string{seekerID, advertiserID} {
		visits, err := svc.ListForUser(context.Background(), userID)
		require.NoError(t, err)
		require.Len(t, visits, 1)
		assert.Equal(t, created.ID, visits[0].ID)
	}
}

func TestVisitService_Propose_RecipientCanProposeToo(t *testing.T) {
	svc, _, _ := newTestService(t)

	created := proposeTestVisit(t, svc, advertiserID, tomorrowAt(10), nil)

	assert.Equal(t, advertiserID, created.ProposerID)
	assert.Equal(t, seekerID, created.RecipientID)
}

func TestVisitService_Propose_UnknownMatch(t *testing.T) {
	svc, repo, _ := newTestService(t)

	req := visit.CreateRequest{MatchID: "no-such-match", ProposedAt: tomorrowAt(14)}
	_, err := svc.Propose(context.Background(), seekerID, req)

	assert.ErrorIs(t, err, match.ErrMatchNotFound)
	assert.Empty(t, repo.visits)
}

func TestVisitService_Propose_NotParticipant(t *testing.T) {
	svc, repo, _ := newTestService(t)

	req := visit.CreateRequest{MatchID: matchID, ProposedAt: tomorrowAt(14)}
	_, err := svc.Propose(context.Background(), strangerID, req)

	assert.ErrorIs(t, err, visit.ErrNotParticipant)
	assert.Empty(t, repo.visits)
}

func TestVisitService_Propose_PastDate(t *testing.T) {
	svc, repo, _ := newTestService(t)

	req := visit.CreateRequest{MatchID: matchID, ProposedAt: time.Now().Add(-24 * time.Hour)}
	_, err := svc.Propose(context.Background(), seekerID, req)

	assert.ErrorIs(t, err, visit.ErrPastDate)
	// No partial write
	assert.Empty(t, repo.visits)
}

// ===== Transition: accept =====

func TestVisitService_Transition_Accept(t *testing.T) {
	svc, _, dispatcher := newTestService(t)
	created := proposeTestVisit(t, svc, seekerID, tomorrowAt(14), nil)

	updated, err := svc.Transition(context.Background(), created.ID, advertiserID, visit.TransitionRequest{Action: "accept"})
	require.NoError(t, err)

	assert.Equal(t, visit.StatusAccepted, updated.Status)
	require.NotNil(t, updated.DecidedAt)

	// Dispatcher informed asynchronously
	select {
	case notified := <-dispatcher.accepted:
		assert.Equal(t, created.ID, notified.ID)
	case <-time.After(time.Second):
		t.Fatal("dispatcher was not informed of the accepted visit")
	}
}

func TestVisitService_Transition_AcceptThenDecline_Conflict(t *testing.T) {
	svc, repo, _ := newTestService(t)
	created := proposeTestVisit(t, svc, seekerID, tomorrowAt(14), nil)

	_, err := svc.Transition(context.Background(), created.ID, advertiserID, visit.TransitionRequest{Action: "accept"})
	require.NoError(t, err)

	reason := "Autre raison"
	_, err = svc.Transition(context.Background(), created.ID, advertiserID, visit.TransitionRequest{Action: "decline", DeclineReason: &reason})
	assert.ErrorIs(t, err, visit.ErrAlreadyDecided)

	stored, err := repo.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, visit.StatusAccepted, stored.Status)
	assert.Nil(t, stored.DeclineReason)
}

func TestVisitService_Transition_AcceptTwice_Conflict(t *testing.T) {
	svc, repo, _ := newTestService(t)
	created := proposeTestVisit(t, svc, seekerID, tomorrowAt(14), nil)

	first, err := svc.Transition(context.Background(), created.ID, advertiserID, visit.TransitionRequest{Action: "accept"})
	require.NoError(t, err)

	_, err = svc.Transition(context.Background(), created.ID, advertiserID, visit.TransitionRequest{Action: "accept"})
	assert.ErrorIs(t, err, visit.ErrAlreadyDecided)

	stored, err := repo.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, first.Status, stored.Status)
	assert.Equal(t, first.DecidedAt.Unix(), stored.DecidedAt.Unix())
}

func TestVisitService_Transition_AcceptPastDate(t *testing.T) {
	svc, repo, _ := newTestService(t)

	// Seed a pending visit whose date has passed; it was valid at creation
	seeded, err := repo.Create(context.Background(), visit.Visit{
		MatchID:      matchID,
		ProposerID:   seekerID,
		RecipientID:  advertiserID,
		ProposedDate: time.Now().Add(-2 * time.Hour),
		Status:       visit.StatusPending,
	})
	require.NoError(t, err)

	_, err = svc.Transition(context.Background(), seeded.ID, advertiserID, visit.TransitionRequest{Action: "accept"})
	assert.ErrorIs(t, err, visit.ErrPastDate)

	// Still pending, and still decline-able
	reason := "Je ne suis plus disponible à cette date"
	updated, err := svc.Transition(context.Background(), seeded.ID, advertiserID, visit.TransitionRequest{Action: "decline", DeclineReason: &reason})
	require.NoError(t, err)
	assert.Equal(t, visit.StatusDeclined, updated.Status)
}

// ===== Transition: decline =====

func TestVisitService_Transition_Decline(t *testing.T) {
	svc, _, _ := newTestService(t)
	created := proposeTestVisit(t, svc, seekerID, tomorrowAt(14), nil)

	reason := "Le créneau ne me convient pas"
	updated, err := svc.Transition(context.Background(), created.ID, advertiserID, visit.TransitionRequest{Action: "decline", DeclineReason: &reason})
	require.NoError(t, err)

	assert.Equal(t, visit.StatusDeclined, updated.Status)
	require.NotNil(t, updated.DeclineReason)
	assert.Equal(t, reason, *updated.DeclineReason)

	// Reason retrievable via the match history
	history, err := svc.ListForMatch(context.Background(), matchID, seekerID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.NotNil(t, history[0].DeclineReason)
	assert.Equal(t, reason, *history[0].DeclineReason)
}

func TestVisitService_Transition_DeclineWithoutReason(t *testing.T) {
	svc, repo, _ := newTestService(t)
	created := proposeTestVisit(t, svc, seekerID, tomorrowAt(14), nil)

	_, err := svc.Transition(context.Background(), created.ID, advertiserID, visit.TransitionRequest{Action: "decline"})
	assert.ErrorIs(t, err, visit.ErrDeclineReasonRequired)

	empty := ""
	_, err = svc.Transition(context.Background(), created.ID, advertiserID, visit.TransitionRequest{Action: "decline", DeclineReason: &empty})
	assert.ErrorIs(t, err, visit.ErrDeclineReasonRequired)

	stored, err := repo.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, visit.StatusPending, stored.Status)
}

// ===== Transition: cancel =====

func TestVisitService_Transition_CancelThenAccept_Conflict(t *testing.T) {
	svc, repo, _ := newTestService(t)
	created := proposeTestVisit(t, svc, seekerID, tomorrowAt(14), nil)

	updated, err := svc.Transition(context.Background(), created.ID, seekerID, visit.TransitionRequest{Action: "cancel"})
	require.NoError(t, err)
	assert.Equal(t, visit.StatusCancelled, updated.Status)

	_, err = svc.Transition(context.Background(), created.ID, advertiserID, visit.TransitionRequest{Action: "accept"})
	assert.ErrorIs(t, err, visit.ErrAlreadyDecided)

	stored, err := repo.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, visit.StatusCancelled, stored.Status)
}

func TestVisitService_Transition_ConcurrentDecisions(t *testing.T) {
	svc, repo, _ := newTestService(t)
	created := proposeTestVisit(t, svc, seekerID, tomorrowAt(14), nil)

	// Proposer cancels while recipient accepts. Exactly one transition wins,
	// the other observes the conflict.
	results := make(chan error, 2)
	go func() {
		_, err := svc.Transition(context.Background(), created.ID, advertiserID, visit.TransitionRequest{Action: "accept"})
		results <- err
	}()
	go func() {
		_, err := svc.Transition(context.Background(), created.ID, seekerID, visit.TransitionRequest{Action: "cancel"})
		results <- err
	}()

	var conflicts, successes int
	for i := 0; i < 2; i++ {
		if err := <-results; err != nil {
			require.ErrorIs(t, err, visit.ErrAlreadyDecided)
			conflicts++
		} else {
			successes++
		}
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, conflicts)

	stored, err := repo.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsTerminal())
	assert.Contains(t, []visit.Status{visit.StatusAccepted, visit.StatusCancelled}, stored.Status)
}

// ===== Transition: authorization =====

func TestVisitService_Transition_Authorization(t *testing.T) {
	svc, _, _ := newTestService(t)
	reason := "Autre raison"

	cases := []struct {
		name   string
		actor  string
		action visit.TransitionRequest
	}{
		{"proposer cannot accept", seekerID, visit.TransitionRequest{Action: "accept"}},
		{"proposer cannot decline", seekerID, visit.TransitionRequest{Action: "decline", DeclineReason: &reason}},
		{"recipient cannot cancel", advertiserID, visit.TransitionRequest{Action: "cancel"}},
		{"stranger cannot accept", strangerID, visit.TransitionRequest{Action: "accept"}},
		{"stranger cannot cancel", strangerID, visit.TransitionRequest{Action: "cancel"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			created := proposeTestVisit(t, svc, seekerID, tomorrowAt(14), nil)
			_, err := svc.Transition(context.Background(), created.ID, tc.actor, tc.action)
			assert.ErrorIs(t, err, visit.ErrUnauthorizedActor)
		})
	}
}

func TestVisitService_Transition_UnauthorizedBeforeStateGuard(t *testing.T) {
	svc, _, _ := newTestService(t)
	created := proposeTestVisit(t, svc, seekerID, tomorrowAt(14), nil)

	_, err := svc.Transition(context.Background(), created.ID, advertiserID, visit.TransitionRequest{Action: "accept"})
	require.NoError(t, err)

	// The visit is terminal, but an unauthorized actor must still see
	// the authorization error, not the state of the visit.
	_, err = svc.Transition(context.Background(), created.ID, strangerID, visit.TransitionRequest{Action: "accept"})
	assert.ErrorIs(t, err, visit.ErrUnauthorizedActor)
}

func TestVisitService_Transition_VisitNotFound(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Transition(context.Background(), "no-such-visit", seekerID, visit.TransitionRequest{Action: "accept"})
	assert.ErrorIs(t, err, visit.ErrVisitNotFound)
}

func TestVisitService_Transition_UnknownAction(t *testing.T) {
	svc, _, _ := newTestService(t)
	created := proposeTestVisit(t, svc, seekerID, tomorrowAt(14), nil)

	_, err := svc.Transition(context.Background(), created.ID, advertiserID, visit.TransitionRequest{Action: "postpone"})
	assert.ErrorIs(t, err, visit.ErrUnknownAction)
}

// ===== Queries =====

func TestVisitService_ListForUser_OrderedByProposedDate(t *testing.T) {
	svc, _, _ := newTestService(t)

	later := proposeTestVisit(t, svc, seekerID, tomorrowAt(18), nil)
	earlier := proposeTestVisit(t, svc, seekerID, tomorrowAt(9), nil)

	visits, err := svc.ListForUser(context.Background(), seekerID)
	require.NoError(t, err)
	require.Len(t, visits, 2)
	assert.Equal(t, earlier.ID, visits[0].ID)
	assert.Equal(t, later.ID, visits[1].ID)
}

func TestVisitService_ListForUser_ExcludesOtherMatches(t *testing.T) {
	svc, _, _ := newTestService(t)
	proposeTestVisit(t, svc, seekerID, tomorrowAt(14), nil)

	visits, err := svc.ListForUser(context.Background(), strangerID)
	require.NoError(t, err)
	assert.Empty(t, visits)
}

func TestVisitService_ListForMatch_History(t *testing.T) {
	svc, _, _ := newTestService(t)

	first := proposeTestVisit(t, svc, seekerID, tomorrowAt(18), nil)
	second := proposeTestVisit(t, svc, advertiserID, tomorrowAt(9), nil)

	// Chronological proposal order, not date order
	history, err := svc.ListForMatch(context.Background(), matchID, seekerID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, first.ID, history[0].ID)
	assert.Equal(t, second.ID, history[1].ID)
}

func TestVisitService_ListForMatch_Authorization(t *testing.T) {
	svc, _, _ := newTestService(t)
	proposeTestVisit(t, svc, seekerID, tomorrowAt(14), nil)

	_, err := svc.ListForMatch(context.Background(), matchID, strangerID)
	assert.ErrorIs(t, err, visit.ErrNotParticipant)

	_, err = svc.ListForMatch(context.Background(), "no-such-match", seekerID)
	assert.ErrorIs(t, err, match.ErrMatchNotFound)
}
