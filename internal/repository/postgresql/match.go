package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/marcyannick1/roomly-backend-go/internal/domain/match"
	"github.com/marcyannick1/roomly-backend-go/internal/pkg/database"
)

type matchRegistryImpl struct {
	db *database.DB
}

// NewMatchRegistry creates a read-only registry over the matches table. The
// matching pipeline owns writes to it.
func NewMatchRegistry(db *database.DB) match.Registry {
	return &matchRegistryImpl{db: db}
}

// GetByID implements match.Registry.
func (r *matchRegistryImpl) GetByID(ctx context.Context, id string) (match.Match, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, listing_id, seeker_id, advertiser_id, status, created_at
		FROM matches
		WHERE id = $1
	`

	var m match.Match
	err := q.QueryRow(ctx, query, id).Scan(
		&m.ID, &m.ListingID, &m.SeekerID, &m.AdvertiserID, &m.Status, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return match.Match{}, match.ErrMatchNotFound
		}
		return match.Match{}, fmt.Errorf("failed to get match by id: %w", err)
	}

	return m, nil
}

// GetByIDWithDetails implements match.Registry.
func (r *matchRegistryImpl) GetByIDWithDetails(ctx context.Context, id string) (match.MatchWithDetails, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			m.id, m.listing_id, m.seeker_id, m.advertiser_id, m.status, m.created_at,
			seeker.full_name AS seeker_name, seeker.email AS seeker_email,
			advertiser.full_name AS advertiser_name, advertiser.email AS advertiser_email,
			l.title AS listing_title
		FROM matches m
		JOIN users seeker ON seeker.id = m.seeker_id
		JOIN users advertiser ON advertiser.id = m.advertiser_id
		JOIN listings l ON l.id = m.listing_id
		WHERE m.id = $1
	`

	var m match.MatchWithDetails
	err := q.QueryRow(ctx, query, id).Scan(
		&m.ID, &m.ListingID, &m.SeekerID, &m.AdvertiserID, &m.Status, &m.CreatedAt,
		&m.SeekerName, &m.SeekerEmail,
		&m.AdvertiserName, &m.AdvertiserEmail,
		&m.ListingTitle,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return match.MatchWithDetails{}, match.ErrMatchNotFound
		}
		return match.MatchWithDetails{}, fmt.Errorf("failed to get match details: %w", err)
	}

	return m, nil
}
