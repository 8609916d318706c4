package service

import (
	"driveline/internal/apperrors"
	"driveline/internal/db"
	"driveline/internal/entities"
	"driveline/internal/repository"
)

type FleetService struct {
	repo *repository.FleetRepository
}

func NewFleetService(repo *repository.FleetRepository) *FleetService {
	return &FleetService{repo: repo}
}

func validateResource(name string, dayRate int64, status string) (string, error) {
	if name == "" {
		return "", apperrors.Validation("name", "name is required")
	}
	if dayRate < 0 {
		return "", apperrors.Validation("day_rate", "day rate must not be negative")
	}
	if status == "" {
		status = db.ResourceActive
	}
	if status != db.ResourceActive && status != db.ResourceInactive {
		return "", apperrors.Validation("status", "status must be active or inactive")
	}
	return status, nil
}

func (s *FleetService) ListVehicles(q, status string) ([]entities.VehicleResponse, error) {
	vehicles, err := s.repo.ListVehicles(q, status)
	if err != nil {
		return nil, err
	}
	responses := []entities.VehicleResponse{}
	for _, v := range vehicles {
		responses = append(responses, entities.VehicleResponse{
			ID: v.ID, Name: v.Name, Plate: v.Plate, DayRate: v.DayRate, Status: v.Status,
		})
	}
	return responses, nil
}

func (s *FleetService) CreateVehicle(req entities.VehicleRequest) (*entities.VehicleResponse, error) {
	status, err := validateResource(req.Name, req.DayRate, req.Status)
	if err != nil {
		return nil, err
	}
	vehicle := &db.Vehicle{Name: req.Name, Plate: req.Plate, DayRate: req.DayRate, Status: status}
	if err := s.repo.CreateVehicle(vehicle); err != nil {
		return nil, err
	}
	return &entities.VehicleResponse{
		ID: vehicle.ID, Name: vehicle.Name, Plate: vehicle.Plate, DayRate: vehicle.DayRate, Status: vehicle.Status,
	}, nil
}

func (s *FleetService) UpdateVehicle(id int, req entities.VehicleRequest) (*entities.VehicleResponse, error) {
	status, err := validateResource(req.Name, req.DayRate, req.Status)
	if err != nil {
		return nil, err
	}
	vehicle := &db.Vehicle{ID: id, Name: req.Name, Plate: req.Plate, DayRate: req.DayRate, Status: status}
	if err := s.repo.UpdateVehicle(vehicle); err != nil {
		return nil, err
	}
	return &entities.VehicleResponse{
		ID: id, Name: vehicle.Name, Plate: vehicle.Plate, DayRate: vehicle.DayRate, Status: vehicle.Status,
	}, nil
}

func (s *FleetService) DeleteVehicle(id int) error {
	return s.repo.DeleteVehicle(id)
}

func (s *FleetService) ListDrivers(q, status string) ([]entities.DriverResponse, error) {
	drivers, err := s.repo.ListDrivers(q, status)
	if err != nil {
		return nil, err
	}
	responses := []entities.DriverResponse{}
	for _, d := range drivers {
		responses = append(responses, entities.DriverResponse{
			ID: d.ID, Name: d.Name, Phone: d.Phone, DayRate: d.DayRate, Status: d.Status,
		})
	}
	return responses, nil
}

func (s *FleetService) CreateDriver(req entities.DriverRequest) (*entities.DriverResponse, error) {
	status, err := validateResource(req.Name, req.DayRate, req.Status)
	if err != nil {
		return nil, err
	}
	driver := &db.Driver{Name: req.Name, Phone: req.Phone, DayRate: req.DayRate, Status: status}
	if err := s.repo.CreateDriver(driver); err != nil {
		return nil, err
	}
	return &entities.DriverResponse{
		ID: driver.ID, Name: driver.Name, Phone: driver.Phone, DayRate: driver.DayRate, Status: driver.Status,
	}, nil
}

func (s *FleetService) UpdateDriver(id int, req entities.DriverRequest) (*entities.DriverResponse, error) {
	status, err := validateResource(req.Name, req.DayRate, req.Status)
	if err != nil {
		return nil, err
	}
	driver := &db.Driver{ID: id, Name: req.Name, Phone: req.Phone, DayRate: req.DayRate, Status: status}
	if err := s.repo.UpdateDriver(driver); err != nil {
		return nil, err
	}
	return &entities.DriverResponse{
		ID: id, Name: driver.Name, Phone: driver.Phone, DayRate: driver.DayRate, Status: driver.Status,
	}, nil
}

func (s *FleetService) DeleteDriver(id int) error {
	return s.repo.DeleteDriver(id)
}
