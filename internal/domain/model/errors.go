package model

import "errors"

// Sentinel kinds shared across the core. Callers classify failures with
// errors.Is; packages wrap these with operation detail.
var (
	// ErrValidation marks malformed or out-of-range input. Recoverable,
	// surfaced to the caller verbatim, never retried automatically.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound marks an unknown team, judge, or event reference.
	ErrNotFound = errors.New("not found")

	// ErrNotAssigned marks a judge scoring a team outside their events.
	ErrNotAssigned = errors.New("judge not assigned to event")

	// ErrDuplicateTeamNumber marks a team number collision within an event.
	ErrDuplicateTeamNumber = errors.New("duplicate team number")
)
