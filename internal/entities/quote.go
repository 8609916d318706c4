package entities

// QuoteRequest asks for a price preview before booking.
type QuoteRequest struct {
	VehicleID int    `json:"vehicle_id"`
	DriverID  int    `json:"driver_id,omitempty"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	PromoCode string `json:"promo_code,omitempty"`
}

// Quote is the priced breakdown of a reservation. Total = Subtotal - Discount + Penalty.
type Quote struct {
	Days     int   `json:"days"`
	Subtotal int64 `json:"subtotal"`
	Discount int64 `json:"discount"`
	Penalty  int64 `json:"penalty"`
	Total    int64 `json:"total"`
}
