package entities

import "time"

// ReservationRequest is the booking payload for both the public and the staff
// create endpoints. Dates are inclusive calendar days in "2006-01-02" form.
type ReservationRequest struct {
	VehicleID     int    `json:"vehicle_id"`
	DriverID      int    `json:"driver_id,omitempty"`
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
	CustomerPhone string `json:"customer_phone"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
	PromoCode     string `json:"promo_code,omitempty"`
	Note          string `json:"note,omitempty"`
}

// ReservationUpdateRequest edits an existing reservation (staff only).
type ReservationUpdateRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Note      string `json:"note"`
}

type ReservationResponse struct {
	ID            int       `json:"id"`
	Code          string    `json:"code"`
	VehicleID     int       `json:"vehicle_id"`
	VehicleName   string    `json:"vehicle_name,omitempty"`
	DriverID      int       `json:"driver_id,omitempty"`
	DriverName    string    `json:"driver_name,omitempty"`
	CustomerName  string    `json:"customer_name"`
	CustomerEmail string    `json:"customer_email"`
	CustomerPhone string    `json:"customer_phone"`
	StartDate     string    `json:"start_date"`
	EndDate       string    `json:"end_date"`
	Days          int       `json:"days"`
	Subtotal      int64     `json:"subtotal"`
	Discount      int64     `json:"discount"`
	Penalty       int64     `json:"penalty"`
	Total         int64     `json:"total"`
	Note          string    `json:"note,omitempty"`
	Status        string    `json:"status"`
	Source        string    `json:"source"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type ReservationsList struct {
	Total        int64                 `json:"total"`
	Limit        int                   `json:"limit"`
	Offset       int                   `json:"offset"`
	Reservations []ReservationResponse `json:"reservations"`
}
