package service

import (
	"driveline/internal/apperrors"
	"driveline/internal/db"
)

// Action is a staff or customer operation on a reservation's lifecycle.
type Action string

const (
	ActionConfirm  Action = "confirm"
	ActionActivate Action = "activate"
	ActionComplete Action = "complete"
	ActionCancel   Action = "cancel"
)

// transitions is the full lifecycle: pending -> confirmed -> active ->
// completed, with cancellation possible from pending and confirmed.
// completed and canceled are terminal.
var transitions = map[string]map[Action]string{
	db.StatusPending: {
		ActionConfirm: db.StatusConfirmed,
		ActionCancel:  db.StatusCanceled,
	},
	db.StatusConfirmed: {
		ActionActivate: db.StatusActive,
		ActionCancel:   db.StatusCanceled,
	},
	db.StatusActive: {
		ActionComplete: db.StatusCompleted,
	},
}

// NextStatus resolves the target state for an action, or fails with a
// StateTransitionError naming the current state and the requested action.
func NextStatus(current string, action Action) (string, error) {
	if next, ok := transitions[current][action]; ok {
		return next, nil
	}
	return "", apperrors.StateTransition(current, string(action))
}
