package service

import (
	"driveline/internal/db"
	"driveline/internal/entities"
	"driveline/internal/repository"
	"fmt"
	"sort"
	"time"
)

// AckStore abstracts the acknowledged-keys persistence so the projection
// itself stays a pure derivation and the store can be swapped out.
type AckStore interface {
	AckedKeys() (map[string]bool, error)
	Ack(keys []string) error
}

var notifPriority = map[string]int{
	entities.NotifOverdue:      4,
	entities.NotifReadyHandoff: 3,
	entities.NotifAwaiting:     2,
	entities.NotifInProgress:   1,
}

// NotificationKey is stable across recomputation, so acknowledgements made
// against one poll still apply to the next.
func NotificationKey(kind string, reservationID int) string {
	return fmt.Sprintf("%s:%d", kind, reservationID)
}

// ProjectNotifications derives the alert list from current reservation state.
// Recomputed on every poll, never incrementally maintained. Terminal
// reservations emit nothing. Read items sort after unread; within each group
// higher priority first, then most recently updated first.
func ProjectNotifications(reservations []db.Reservation, today time.Time, acked map[string]bool) []entities.Notification {
	var notifications []entities.Notification
	for _, res := range reservations {
		var kind, message string
		overdue := today.After(res.EndDate)

		switch {
		case overdue && (res.Status == db.StatusActive || res.Status == db.StatusConfirmed):
			kind = entities.NotifOverdue
			message = fmt.Sprintf("Reservation %s is overdue since %s", res.Code, res.EndDate.Format(dateLayout))
		case res.Status == db.StatusConfirmed:
			kind = entities.NotifReadyHandoff
			message = fmt.Sprintf("Reservation %s is ready for hand-over on %s", res.Code, res.StartDate.Format(dateLayout))
		case res.Status == db.StatusPending:
			kind = entities.NotifAwaiting
			message = fmt.Sprintf("Reservation %s is awaiting confirmation", res.Code)
		case res.Status == db.StatusActive:
			kind = entities.NotifInProgress
			message = fmt.Sprintf("Reservation %s is in progress until %s", res.Code, res.EndDate.Format(dateLayout))
		default:
			continue
		}

		key := NotificationKey(kind, res.ID)
		notifications = append(notifications, entities.Notification{
			Key:           key,
			Kind:          kind,
			ReservationID: res.ID,
			Code:          res.Code,
			CustomerName:  res.CustomerName,
			Message:       message,
			Read:          acked[key],
			OccurredAt:    res.UpdatedAt,
		})
	}

	sort.SliceStable(notifications, func(i, j int) bool {
		a, b := notifications[i], notifications[j]
		if a.Read != b.Read {
			return !a.Read
		}
		if notifPriority[a.Kind] != notifPriority[b.Kind] {
			return notifPriority[a.Kind] > notifPriority[b.Kind]
		}
		return a.OccurredAt.After(b.OccurredAt)
	})
	return notifications
}

type NotificationService struct {
	reservations *repository.ReservationRepository
	acks         AckStore
}

func NewNotificationService(reservations *repository.ReservationRepository, acks AckStore) *NotificationService {
	return &NotificationService{reservations: reservations, acks: acks}
}

// Refresh recomputes the projection against the current reservation set.
func (s *NotificationService) Refresh(today time.Time) ([]entities.Notification, error) {
	open, err := s.reservations.ListOpen()
	if err != nil {
		return nil, err
	}
	acked, err := s.acks.AckedKeys()
	if err != nil {
		return nil, err
	}
	return ProjectNotifications(open, today, acked), nil
}

func (s *NotificationService) Acknowledge(keys []string) error {
	return s.acks.Ack(keys)
}
