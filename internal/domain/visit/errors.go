package visit

import "errors"

var (
	ErrVisitNotFound         = errors.New("visit not found")
	ErrNotParticipant        = errors.New("user is not a participant of this match")
	ErrUnauthorizedActor     = errors.New("user is not allowed to perform this action on this visit")
	ErrPastDate              = errors.New("proposed date must be in the future")
	ErrDeclineReasonRequired = errors.New("a decline reason is required")
	ErrAlreadyDecided        = errors.New("visit is no longer pending")
	ErrUnknownAction         = errors.New("unknown visit action")
)
