package entities

import "time"

// Notification kinds, highest priority first.
const (
	NotifOverdue      = "overdue"
	NotifReadyHandoff = "ready_for_handover"
	NotifAwaiting     = "awaiting_confirmation"
	NotifInProgress   = "in_progress"
)

// Notification is a derived alert, recomputed on every poll; Key is stable
// across recomputation so acknowledgements survive.
type Notification struct {
	Key           string    `json:"key"`
	Kind          string    `json:"kind"`
	ReservationID int       `json:"reservation_id"`
	Code          string    `json:"code"`
	CustomerName  string    `json:"customer_name"`
	Message       string    `json:"message"`
	Read          bool      `json:"read"`
	OccurredAt    time.Time `json:"occurred_at"`
}

type AckRequest struct {
	Keys []string `json:"keys"`
}
