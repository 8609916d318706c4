package entities

import "time"

// PaymentRequest records a ledger entry against a reservation (staff).
type PaymentRequest struct {
	Amount int64  `json:"amount"`
	Method string `json:"method"`
}

type PaymentResponse struct {
	ID            int        `json:"id"`
	ReservationID int        `json:"reservation_id"`
	Amount        int64      `json:"amount"`
	Method        string     `json:"method"`
	Status        string     `json:"status"`
	EvidenceKey   string     `json:"evidence_key,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	ResolvedAt    *time.Time `json:"resolved_at,omitempty"`
}

// SettlementResponse reports a reservation's aggregate payment position.
type SettlementResponse struct {
	ReservationID  int   `json:"reservation_id"`
	Total          int64 `json:"total"`
	SettledAmount  int64 `json:"settled_amount"`
	IsFullySettled bool  `json:"is_fully_settled"`
}

// StripeSessionResponse is returned when an online payment entry opens a
// Stripe Checkout session.
type StripeSessionResponse struct {
	PaymentID int    `json:"payment_id"`
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
}
