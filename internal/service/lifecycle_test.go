package service

import (
	"testing"

	"driveline/internal/apperrors"
	"driveline/internal/db"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextStatus_AllowedTransitions(t *testing.T) {
	tests := []struct {
		current string
		action  Action
		next    string
	}{
		{db.StatusPending, ActionConfirm, db.StatusConfirmed},
		{db.StatusPending, ActionCancel, db.StatusCanceled},
		{db.StatusConfirmed, ActionActivate, db.StatusActive},
		{db.StatusConfirmed, ActionCancel, db.StatusCanceled},
		{db.StatusActive, ActionComplete, db.StatusCompleted},
	}
	for _, tc := range tests {
		next, err := NextStatus(tc.current, tc.action)
		require.NoError(t, err, "%s + %s", tc.current, tc.action)
		assert.Equal(t, tc.next, next)
	}
}

// Every status/action pair outside the allowed set must fail, including
// everything out of a terminal state.
func TestNextStatus_RejectedTransitions(t *testing.T) {
	allowed := map[string]map[Action]bool{
		db.StatusPending:   {ActionConfirm: true, ActionCancel: true},
		db.StatusConfirmed: {ActionActivate: true, ActionCancel: true},
		db.StatusActive:    {ActionComplete: true},
	}
	statuses := []string{
		db.StatusPending, db.StatusConfirmed, db.StatusActive,
		db.StatusCompleted, db.StatusCanceled,
	}
	actions := []Action{ActionConfirm, ActionActivate, ActionComplete, ActionCancel}

	for _, status := range statuses {
		for _, action := range actions {
			if allowed[status][action] {
				continue
			}
			_, err := NextStatus(status, action)
			e, ok := apperrors.AsError(err)
			require.True(t, ok, "%s + %s should fail", status, action)
			assert.Equal(t, apperrors.KindStateTransition, e.Kind)
		}
	}
}

func TestNextStatus_UnknownStatus(t *testing.T) {
	_, err := NextStatus("archived", ActionConfirm)
	e, ok := apperrors.AsError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.KindStateTransition, e.Kind)
}
