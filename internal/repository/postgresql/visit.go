package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/marcyannick1/roomly-backend-go/internal/domain/visit"
	"github.com/marcyannick1/roomly-backend-go/internal/pkg/database"
)

type visitRepositoryImpl struct {
	db *database.DB
}

// NewVisitRepository creates a new visit repository instance
func NewVisitRepository(db *database.DB) visit.Repository {
	return &visitRepositoryImpl{db: db}
}

const visitColumns = `id, match_id, proposer_id, recipient_id, proposed_date, notes,
	   status, decline_reason, created_at, decided_at, reminded_at`

func scanVisit(row pgx.Row) (visit.Visit, error) {
	var v visit.Visit
	err := row.Scan(
		&v.ID, &v.MatchID, &v.ProposerID, &v.RecipientID, &v.ProposedDate, &v.Notes,
		&v.Status, &v.DeclineReason, &v.CreatedAt, &v.DecidedAt, &v.RemindedAt,
	)
	return v, err
}

// Create implements visit.Repository.
func (r *visitRepositoryImpl) Create(ctx context.Context, v visit.Visit) (visit.Visit, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO visits (
			id, match_id, proposer_id, recipient_id, proposed_date, notes, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + visitColumns

	created, err := scanVisit(q.QueryRow(ctx, query,
		v.ID, v.MatchID, v.ProposerID, v.RecipientID, v.ProposedDate, v.Notes, v.Status,
	))
	if err != nil {
		return visit.Visit{}, fmt.Errorf("failed to create visit: %w", err)
	}

	return created, nil
}

// GetByID implements visit.Repository.
func (r *visitRepositoryImpl) GetByID(ctx context.Context, id string) (visit.Visit, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + visitColumns + ` FROM visits WHERE id = $1`

	v, err := scanVisit(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return visit.Visit{}, visit.ErrVisitNotFound
		}
		return visit.Visit{}, fmt.Errorf("failed to get visit by id: %w", err)
	}

	return v, nil
}

// ListByUserID implements visit.Repository.
func (r *visitRepositoryImpl) ListByUserID(ctx context.Context, userID string) ([]visit.Visit, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + visitColumns + `
		FROM visits
		WHERE proposer_id = $1 OR recipient_id = $1
		ORDER BY proposed_date ASC
	`

	rows, err := q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list visits by user: %w", err)
	}
	defer rows.Close()

	return collectVisits(rows)
}

// ListByMatchID implements visit.Repository.
func (r *visitRepositoryImpl) ListByMatchID(ctx context.Context, matchID string) ([]visit.Visit, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + visitColumns + `
		FROM visits
		WHERE match_id = $1
		ORDER BY created_at ASC
	`

	rows, err := q.Query(ctx, query, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list visits by match: %w", err)
	}
	defer rows.Close()

	return collectVisits(rows)
}

// UpdateStatusIfPending implements visit.Repository. The WHERE clause is the
// compare-and-set: concurrent transitions on the same visit serialize here,
// and exactly one writer wins.
func (r *visitRepositoryImpl) UpdateStatusIfPending(ctx context.Context, id string, status visit.Status, declineReason *string, decidedAt time.Time) (visit.Visit, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE visits
		SET status = $2, decline_reason = $3, decided_at = $4
		WHERE id = $1 AND status = 'pending'
		RETURNING ` + visitColumns

	updated, err := scanVisit(q.QueryRow(ctx, query, id, status, declineReason, decidedAt))
	if err == nil {
		return updated, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return visit.Visit{}, fmt.Errorf("failed to transition visit: %w", err)
	}

	// Zero rows: either the visit is gone or someone else transitioned first.
	if _, getErr := r.GetByID(ctx, id); getErr != nil {
		return visit.Visit{}, getErr
	}
	return visit.Visit{}, visit.ErrAlreadyDecided
}

// ListAcceptedBetween implements visit.Repository.
func (r *visitRepositoryImpl) ListAcceptedBetween(ctx context.Context, from, to time.Time) ([]visit.Visit, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + visitColumns + `
		FROM visits
		WHERE status = 'accepted'
		  AND proposed_date >= $1 AND proposed_date < $2
		  AND reminded_at IS NULL
		ORDER BY proposed_date ASC
	`

	rows, err := q.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list accepted visits: %w", err)
	}
	defer rows.Close()

	return collectVisits(rows)
}

// MarkReminded implements visit.Repository.
func (r *visitRepositoryImpl) MarkReminded(ctx context.Context, id string, at time.Time) error {
	q := GetQuerier(ctx, r.db)

	query := `UPDATE visits SET reminded_at = $2 WHERE id = $1 RETURNING id`

	var updatedID string
	err := q.QueryRow(ctx, query, id, at).Scan(&updatedID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return visit.ErrVisitNotFound
		}
		return fmt.Errorf("failed to mark visit reminded: %w", err)
	}

	return nil
}

func collectVisits(rows pgx.Rows) ([]visit.Visit, error) {
	var visits []visit.Visit
	for rows.Next() {
		v, err := scanVisit(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan visit: %w", err)
		}
		visits = append(visits, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return visits, nil
}
