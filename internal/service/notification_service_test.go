package service

import (
	"testing"
	"time"

	"driveline/internal/db"
	"driveline/internal/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reservation(id int, code, status, start, end string, updated time.Time) db.Reservation {
	return db.Reservation{
		ID:           id,
		Code:         code,
		CustomerName: "Customer " + code,
		Status:       status,
		StartDate:    day(start),
		EndDate:      day(end),
		UpdatedAt:    updated,
	}
}

func TestProjectNotifications_Kinds(t *testing.T) {
	today := day("2026-05-15")
	now := time.Date(2026, 5, 15, 9, 0, 0, 0, time.UTC)

	reservations := []db.Reservation{
		reservation(1, "A1", db.StatusActive, "2026-05-10", "2026-05-12", now),    // overdue
		reservation(2, "B2", db.StatusConfirmed, "2026-05-16", "2026-05-18", now), // ready for hand-over
		reservation(3, "C3", db.StatusPending, "2026-05-20", "2026-05-22", now),   // awaiting confirmation
		reservation(4, "D4", db.StatusActive, "2026-05-14", "2026-05-16", now),    // in progress
	}

	notifications := ProjectNotifications(reservations, today, nil)
	require.Len(t, notifications, 4)

	kinds := map[string]string{}
	for _, n := range notifications {
		kinds[n.Code] = n.Kind
	}
	assert.Equal(t, entities.NotifOverdue, kinds["A1"])
	assert.Equal(t, entities.NotifReadyHandoff, kinds["B2"])
	assert.Equal(t, entities.NotifAwaiting, kinds["C3"])
	assert.Equal(t, entities.NotifInProgress, kinds["D4"])
}

func TestProjectNotifications_OverdueConfirmedWins(t *testing.T) {
	today := day("2026-05-15")
	now := time.Date(2026, 5, 15, 9, 0, 0, 0, time.UTC)

	// A confirmed reservation whose end date already passed is overdue, not
	// ready for hand-over.
	reservations := []db.Reservation{
		reservation(1, "A1", db.StatusConfirmed, "2026-05-10", "2026-05-12", now),
	}

	notifications := ProjectNotifications(reservations, today, nil)
	require.Len(t, notifications, 1)
	assert.Equal(t, entities.NotifOverdue, notifications[0].Kind)
}

func TestProjectNotifications_TerminalStatesEmitNothing(t *testing.T) {
	today := day("2026-05-15")
	now := time.Date(2026, 5, 15, 9, 0, 0, 0, time.UTC)

	reservations := []db.Reservation{
		reservation(1, "A1", db.StatusCompleted, "2026-05-10", "2026-05-12", now),
		reservation(2, "B2", db.StatusCanceled, "2026-05-10", "2026-05-12", now),
	}

	assert.Empty(t, ProjectNotifications(reservations, today, nil))
}

func TestProjectNotifications_Ordering(t *testing.T) {
	today := day("2026-05-15")
	older := time.Date(2026, 5, 14, 9, 0, 0, 0, time.UTC)
	newer := time.Date(2026, 5, 15, 9, 0, 0, 0, time.UTC)

	reservations := []db.Reservation{
		reservation(1, "INPROG", db.StatusActive, "2026-05-14", "2026-05-16", newer),
		reservation(2, "OVERDUE", db.StatusActive, "2026-05-10", "2026-05-12", older),
		reservation(3, "PENDING-OLD", db.StatusPending, "2026-05-20", "2026-05-22", older),
		reservation(4, "PENDING-NEW", db.StatusPending, "2026-05-20", "2026-05-22", newer),
	}

	notifications := ProjectNotifications(reservations, today, nil)
	require.Len(t, notifications, 4)

	// Priority first (overdue beats everything), then recency within a kind.
	assert.Equal(t, "OVERDUE", notifications[0].Code)
	assert.Equal(t, "PENDING-NEW", notifications[1].Code)
	assert.Equal(t, "PENDING-OLD", notifications[2].Code)
	assert.Equal(t, "INPROG", notifications[3].Code)
}

func TestProjectNotifications_AcknowledgedSortLast(t *testing.T) {
	today := day("2026-05-15")
	now := time.Date(2026, 5, 15, 9, 0, 0, 0, time.UTC)

	reservations := []db.Reservation{
		reservation(1, "OVERDUE", db.StatusActive, "2026-05-10", "2026-05-12", now),
		reservation(2, "INPROG", db.StatusActive, "2026-05-14", "2026-05-16", now),
	}
	acked := map[string]bool{
		NotificationKey(entities.NotifOverdue, 1): true,
	}

	notifications := ProjectNotifications(reservations, today, acked)
	require.Len(t, notifications, 2)

	// The acknowledged overdue alert drops below the unread lower-priority one.
	assert.Equal(t, "INPROG", notifications[0].Code)
	assert.False(t, notifications[0].Read)
	assert.Equal(t, "OVERDUE", notifications[1].Code)
	assert.True(t, notifications[1].Read)
}

func TestNotificationKey_StableAcrossRecomputation(t *testing.T) {
	today := day("2026-05-15")
	now := time.Date(2026, 5, 15, 9, 0, 0, 0, time.UTC)
	reservations := []db.Reservation{
		reservation(7, "A1", db.StatusPending, "2026-05-20", "2026-05-22", now),
	}

	first := ProjectNotifications(reservations, today, nil)
	second := ProjectNotifications(reservations, today, nil)
	require.Len(t, first, 1)
	require.Len(t, second, 1)
	assert.Equal(t, first[0].Key, second[0].Key)
	assert.Equal(t, "awaiting_confirmation:7", first[0].Key)
}
