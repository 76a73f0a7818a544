// Package errors defines the domain error values surfaced by the
// persistence service and the mapping from errors to HTTP statuses used
// by the API layer.
package errors

import "errors"

var (
	// ErrSkillNotFound is returned when a skill name has no catalog row.
	// Missing skills are never silently created.
	ErrSkillNotFound = errors.New("skill not found")

	// ErrUserNotFound is returned when a referenced user id has no row.
	ErrUserNotFound = errors.New("user not found")

	// ErrRequestNotFound is returned when a swap request id has no row.
	ErrRequestNotFound = errors.New("swap request not found")

	// ErrSwapNotFound is returned when an active swap id has no row.
	ErrSwapNotFound = errors.New("active swap not found")

	// ErrInvalidTransition is returned when a lifecycle command targets a
	// request or swap that is not in the required state, e.g. accepting a
	// request that is no longer pending.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrSessionOverflow is returned when completing a session would push
	// completed_sessions past total_sessions.
	ErrSessionOverflow = errors.New("all sessions already completed")

	// ErrNotRequester is returned when someone other than the requester
	// tries to cancel a swap request.
	ErrNotRequester = errors.New("only the requester can cancel a request")

	// ErrNotRequestee is returned when someone other than the requestee
	// tries to accept or decline a swap request.
	ErrNotRequestee = errors.New("only the requestee can answer a request")
)
