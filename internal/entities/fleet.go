package entities

type VehicleRequest struct {
	Name    string `json:"name"`
	Plate   string `json:"plate"`
	DayRate int64  `json:"day_rate"`
	Status  string `json:"status,omitempty"`
}

type VehicleResponse struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Plate   string `json:"plate"`
	DayRate int64  `json:"day_rate"`
	Status  string `json:"status"`
}

type DriverRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	DayRate int64  `json:"day_rate"`
	Status  string `json:"status,omitempty"`
}

type DriverResponse struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	DayRate int64  `json:"day_rate"`
	Status  string `json:"status"`
}
