package entities

// DateInterval is an inclusive committed date range on a vehicle.
type DateInterval struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// UnavailableDatesResponse lists a vehicle's committed intervals for
// client-side calendar pre-validation. Advisory only: the authoritative
// check happens inside the atomic create.
type UnavailableDatesResponse struct {
	VehicleID int            `json:"vehicle_id"`
	Intervals []DateInterval `json:"intervals"`
}
