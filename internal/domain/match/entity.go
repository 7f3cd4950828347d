package match

import "time"

// Status represents the status of a match
type Status string

const (
	StatusActive   Status = "active"
	StatusArchived Status = "archived"
)

// Match is the mutual-interest link between a seeker and an advertiser for a
// listing. It is owned by the matching pipeline; this service only reads it to
// resolve visit participants.
type Match struct {
	ID           string
	ListingID    string
	SeekerID     string
	AdvertiserID string
	Status       Status
	CreatedAt    time.Time
}

// MatchWithDetails contains match data with joined participant and listing names
type MatchWithDetails struct {
	Match
	SeekerName      string
	SeekerEmail     string
	AdvertiserName  string
	AdvertiserEmail string
	ListingTitle    string
}

// HasParticipant reports whether userID is one of the two parties of the match.
func (m *Match) HasParticipant(userID string) bool {
	return m.SeekerID == userID || m.AdvertiserID == userID
}

// Counterpart returns the other party of the match. The second return value is
// false when userID is not a participant.
func (m *Match) Counterpart(userID string) (string, bool) {
	switch userID {
	case m.SeekerID:
		return m.AdvertiserID, true
	case m.AdvertiserID:
		return m.SeekerID, true
	}
	return "", false
}
