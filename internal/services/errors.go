package services

import "errors"

// Engine failure taxonomy. Handlers translate these into transport statuses;
// inside the engines they are matched with errors.Is.
var (
	// ErrNotFound: user, task or referral code does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict: duplicate registration or a mining session already running.
	ErrConflict = errors.New("conflict")
	// ErrInvalidState: claim with no active session, or an operation that
	// needs a resource the user does not have.
	ErrInvalidState = errors.New("invalid state")
	// ErrAlreadyCompleted: the task was completed earlier.
	ErrAlreadyCompleted = errors.New("already completed")
	// ErrNotReady: a cooldown or session end has not been reached yet, or a
	// task condition is verifiably unmet.
	ErrNotReady = errors.New("not ready")
	// ErrUnverified: an external condition check was inconclusive. Distinct
	// from a check that came back false.
	ErrUnverified = errors.New("condition unverified")
	// ErrInvalidToken: the presented bot token does not match the stored one.
	ErrInvalidToken = errors.New("invalid token")
)
