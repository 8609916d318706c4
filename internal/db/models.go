package db

import (
	"database/sql"
	"time"
)

// Reservation lifecycle states.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusActive    = "active"
	StatusCompleted = "completed"
	StatusCanceled  = "canceled"
)

// Reservation origin.
const (
	SourceSelfService = "self_service"
	SourceStaff       = "staff"
)

// Resource status.
const (
	ResourceActive   = "active"
	ResourceInactive = "inactive"
)

// Payment entry settlement states and methods.
const (
	PaymentPending  = "pending"
	PaymentSettled  = "settled"
	PaymentRejected = "rejected"

	MethodCash     = "cash"
	MethodTransfer = "transfer"
	MethodOnline   = "online"
)

// Promotion kinds.
const (
	PromoFlat    = "flat"
	PromoPercent = "percent"
)

type Vehicle struct {
	ID        int
	Name      string
	Plate     string
	DayRate   int64
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Driver struct {
	ID        int
	Name      string
	Phone     string
	DayRate   int64
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Reservation struct {
	ID            int
	Code          string
	VehicleID     int
	DriverID      sql.NullInt64
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	StartDate     time.Time
	EndDate       time.Time
	Days          int
	Subtotal      int64
	Discount      int64
	Penalty       int64
	Total         int64
	PromotionID   sql.NullInt64
	Note          string
	Status        string
	Source        string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type Promotion struct {
	ID             int
	Code           string
	Kind           string
	Value          int64
	Cap            int64
	MinTransaction int64
	Quota          int
	UsedCount      int
	StartsAt       time.Time
	EndsAt         time.Time
	Status         string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Payment struct {
	ID              int
	ReservationID   int
	Amount          int64
	Method          string
	Status          string
	EvidenceKey     string
	StripeSessionID string
	CreatedAt       time.Time
	ResolvedAt      sql.NullTime
}

type StaffUser struct {
	ID           int
	Email        string
	PasswordHash string
}
