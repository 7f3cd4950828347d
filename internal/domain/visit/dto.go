package visit

import (
	"time"

	"github.com/marcyannick1/roomly-backend-go/internal/pkg/validator"
)

// CreateRequest - POST /visits
type CreateRequest struct {
	MatchID      string  `json:"match_id"`
	ProposedDate string  `json:"proposed_date"`
	Notes        *string `json:"notes,omitempty"`

	// Parsed by Validate
	ProposedAt time.Time `json:"-"`
}

func (r *CreateRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.MatchID) {
		errs = append(errs, validator.ValidationError{
			Field:   "match_id",
			Message: "match_id is required",
		})
	}

	if validator.IsEmpty(r.ProposedDate) {
		errs = append(errs, validator.ValidationError{
			Field:   "proposed_date",
			Message: "proposed_date is required",
		})
	} else if t, ok := validator.IsValidDateTime(r.ProposedDate); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "proposed_date",
			Message: "proposed_date must be an ISO-8601 timestamp",
		})
	} else {
		r.ProposedAt = t
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// TransitionRequest - POST /visits/{visitID}/transition
type TransitionRequest struct {
	Action        string  `json:"action"`
	DeclineReason *string `json:"decline_reason,omitempty"`
}

func (r *TransitionRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Action) {
		errs = append(errs, validator.ValidationError{
			Field:   "action",
			Message: "action is required",
		})
	} else if !validator.IsInSlice(r.Action, []string{string(ActionAccept), string(ActionDecline), string(ActionCancel)}) {
		errs = append(errs, validator.ValidationError{
			Field:   "action",
			Message: "action must be one of accept, decline, cancel",
		})
	}

	if r.Action == string(ActionDecline) {
		if r.DeclineReason == nil || validator.IsEmpty(*r.DeclineReason) {
			errs = append(errs, validator.ValidationError{
				Field:   "decline_reason",
				Message: "decline_reason is required when declining",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// Response is the wire shape of a visit
type Response struct {
	ID            string  `json:"id"`
	MatchID       string  `json:"match_id"`
	ProposerID    string  `json:"proposer_id"`
	RecipientID   string  `json:"recipient_id"`
	ProposedDate  string  `json:"proposed_date"`
	Notes         *string `json:"notes,omitempty"`
	Status        string  `json:"status"`
	DeclineReason *string `json:"decline_reason,omitempty"`
	CreatedAt     string  `json:"created_at"`
	DecidedAt     *string `json:"decided_at,omitempty"`
}

// ToResponse converts a visit entity to its wire shape
func ToResponse(v Visit) Response {
	resp := Response{
		ID:            v.ID,
		MatchID:       v.MatchID,
		ProposerID:    v.ProposerID,
		RecipientID:   v.RecipientID,
		ProposedDate:  v.ProposedDate.Format(time.RFC3339),
		Notes:         v.Notes,
		Status:        string(v.Status),
		DeclineReason: v.DeclineReason,
		CreatedAt:     v.CreatedAt.Format(time.RFC3339),
	}
	if v.DecidedAt != nil {
		decided := v.DecidedAt.Format(time.RFC3339)
		resp.DecidedAt = &decided
	}
	return resp
}

// ToResponses converts a slice of visits, preserving order
func ToResponses(visits []Visit) []Response {
	responses := make([]Response, len(visits))
	for i, v := range visits {
		responses[i] = ToResponse(v)
	}
	return responses
}

// CalendarDayResponse is one day of the month view
type CalendarDayResponse struct {
	Date      string     `json:"date"`
	HasVisits bool       `json:"has_visits"`
	Visits    []Response `json:"visits,omitempty"`
}

// CalendarMonthResponse - GET /visits/my/calendar
type CalendarMonthResponse struct {
	Month    string                `json:"month"`
	Timezone string                `json:"timezone"`
	Days     []CalendarDayResponse `json:"days"`
}
