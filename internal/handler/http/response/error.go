package response

import (
	"errors"
	"net/http"

	"github.com/marcyannick1/roomly-backend-go/internal/domain/match"
	"github.com/marcyannick1/roomly-backend-go/internal/domain/notification"
	"github.com/marcyannick1/roomly-backend-go/internal/domain/visit"
	"github.com/marcyannick1/roomly-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Visit domain errors
	case errors.Is(err, visit.ErrVisitNotFound):
		NotFound(w, "Visit not found")
	case errors.Is(err, visit.ErrNotParticipant):
		Forbidden(w, "You are not a participant of this match")
	case errors.Is(err, visit.ErrUnauthorizedActor):
		Forbidden(w, "You are not allowed to perform this action on this visit")
	case errors.Is(err, visit.ErrPastDate):
		BadRequest(w, "The proposed date has already passed", nil)
	case errors.Is(err, visit.ErrDeclineReasonRequired):
		ValidationError(w, map[string]string{"decline_reason": "Please select a reason"})
	case errors.Is(err, visit.ErrAlreadyDecided):
		Conflict(w, "This visit is no longer pending, please refresh")
	case errors.Is(err, visit.ErrUnknownAction):
		BadRequest(w, "Unknown visit action", nil)

	// Match domain errors
	case errors.Is(err, match.ErrMatchNotFound):
		NotFound(w, "Match not found")

	// Notification domain errors
	case errors.Is(err, notification.ErrNotificationNotFound):
		NotFound(w, "Notification not found")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
