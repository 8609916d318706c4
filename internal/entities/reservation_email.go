package entities

// ReservationEmailData feeds the customer lifecycle email.
type ReservationEmailData struct {
	CustomerName    string
	ReservationCode string
	VehicleName     string
	StartFormatted  string
	EndFormatted    string
	Total           int64
	Status          string
	CurrentYear     int
}
