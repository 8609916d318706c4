package repository

import (
	"database/sql"
	"driveline/internal/apperrors"
	"driveline/internal/db"
	"errors"
	"fmt"
	"strconv"
)

// FleetRepository manages the rentable resources: vehicles and the optional
// driver add-ons.
type FleetRepository struct {
	DB *sql.DB
}

func NewFleetRepository(database *sql.DB) *FleetRepository {
	return &FleetRepository{DB: database}
}

func (r *FleetRepository) GetVehicle(id int) (*db.Vehicle, error) {
	var v db.Vehicle
	err := r.DB.QueryRow(
		`SELECT id, name, plate, day_rate, status, created_at, updated_at FROM vehicles WHERE id = $1`, id,
	).Scan(&v.ID, &v.Name, &v.Plate, &v.DayRate, &v.Status, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("vehicle not found")
		}
		return nil, fmt.Errorf("error querying vehicle %d: %w", id, err)
	}
	return &v, nil
}

func (r *FleetRepository) ListVehicles(q, status string) ([]db.Vehicle, error) {
	query := `SELECT id, name, plate, day_rate, status, created_at, updated_at FROM vehicles WHERE 1=1`
	args := []interface{}{}
	idx := 1

	if q != "" {
		query += ` AND (name ILIKE $` + strconv.Itoa(idx) + ` OR plate ILIKE $` + strconv.Itoa(idx) + `)`
		args = append(args, "%"+q+"%")
		idx++
	}
	if status != "" {
		query += ` AND status = $` + strconv.Itoa(idx)
		args = append(args, status)
		idx++
	}
	query += ` ORDER BY name`

	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing vehicles: %w", err)
	}
	defer rows.Close()

	var vehicles []db.Vehicle
	for rows.Next() {
		var v db.Vehicle
		if err := rows.Scan(&v.ID, &v.Name, &v.Plate, &v.DayRate, &v.Status, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning vehicle: %w", err)
		}
		vehicles = append(vehicles, v)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating vehicles: %w", err)
	}
	return vehicles, nil
}

func (r *FleetRepository) CreateVehicle(v *db.Vehicle) error {
	err := r.DB.QueryRow(`
		INSERT INTO vehicles (name, plate, day_rate, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING id, created_at, updated_at`,
		v.Name, v.Plate, v.DayRate, v.Status,
	).Scan(&v.ID, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error inserting vehicle: %w", err)
	}
	return nil
}

func (r *FleetRepository) UpdateVehicle(v *db.Vehicle) error {
	result, err := r.DB.Exec(`
		UPDATE vehicles SET name = $2, plate = $3, day_rate = $4, status = $5, updated_at = NOW()
		WHERE id = $1`,
		v.ID, v.Name, v.Plate, v.DayRate, v.Status,
	)
	if err != nil {
		return fmt.Errorf("error updating vehicle %d: %w", v.ID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error reading vehicle update result: %w", err)
	}
	if affected == 0 {
		return apperrors.NotFound("vehicle not found")
	}
	return nil
}

// DeleteVehicle refuses to remove a vehicle still referenced by any
// reservation, terminal or not.
func (r *FleetRepository) DeleteVehicle(id int) error {
	var refs int
	if err := r.DB.QueryRow(`SELECT COUNT(*) FROM reservations WHERE vehicle_id = $1`, id).Scan(&refs); err != nil {
		return fmt.Errorf("error counting vehicle references: %w", err)
	}
	if refs > 0 {
		return apperrors.Validation("id", "vehicle is referenced by reservations and cannot be deleted")
	}
	result, err := r.DB.Exec(`DELETE FROM vehicles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting vehicle %d: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error reading vehicle delete result: %w", err)
	}
	if affected == 0 {
		return apperrors.NotFound("vehicle not found")
	}
	return nil
}

func (r *FleetRepository) GetDriver(id int) (*db.Driver, error) {
	var d db.Driver
	err := r.DB.QueryRow(
		`SELECT id, name, phone, day_rate, status, created_at, updated_at FROM drivers WHERE id = $1`, id,
	).Scan(&d.ID, &d.Name, &d.Phone, &d.DayRate, &d.Status, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("driver not found")
		}
		return nil, fmt.Errorf("error querying driver %d: %w", id, err)
	}
	return &d, nil
}

func (r *FleetRepository) ListDrivers(q, status string) ([]db.Driver, error) {
	query := `SELECT id, name, phone, day_rate, status, created_at, updated_at FROM drivers WHERE 1=1`
	args := []interface{}{}
	idx := 1

	if q != "" {
		query += ` AND name ILIKE $` + strconv.Itoa(idx)
		args = append(args, "%"+q+"%")
		idx++
	}
	if status != "" {
		query += ` AND status = $` + strconv.Itoa(idx)
		args = append(args, status)
		idx++
	}
	query += ` ORDER BY name`

	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing drivers: %w", err)
	}
	defer rows.Close()

	var drivers []db.Driver
	for rows.Next() {
		var d db.Driver
		if err := rows.Scan(&d.ID, &d.Name, &d.Phone, &d.DayRate, &d.Status, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning driver: %w", err)
		}
		drivers = append(drivers, d)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating drivers: %w", err)
	}
	return drivers, nil
}

func (r *FleetRepository) CreateDriver(d *db.Driver) error {
	err := r.DB.QueryRow(`
		INSERT INTO drivers (name, phone, day_rate, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING id, created_at, updated_at`,
		d.Name, d.Phone, d.DayRate, d.Status,
	).Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error inserting driver: %w", err)
	}
	return nil
}

func (r *FleetRepository) UpdateDriver(d *db.Driver) error {
	result, err := r.DB.Exec(`
		UPDATE drivers SET name = $2, phone = $3, day_rate = $4, status = $5, updated_at = NOW()
		WHERE id = $1`,
		d.ID, d.Name, d.Phone, d.DayRate, d.Status,
	)
	if err != nil {
		return fmt.Errorf("error updating driver %d: %w", d.ID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error reading driver update result: %w", err)
	}
	if affected == 0 {
		return apperrors.NotFound("driver not found")
	}
	return nil
}

func (r *FleetRepository) DeleteDriver(id int) error {
	var refs int
	if err := r.DB.QueryRow(`SELECT COUNT(*) FROM reservations WHERE driver_id = $1`, id).Scan(&refs); err != nil {
		return fmt.Errorf("error counting driver references: %w", err)
	}
	if refs > 0 {
		return apperrors.Validation("id", "driver is referenced by reservations and cannot be deleted")
	}
	result, err := r.DB.Exec(`DELETE FROM drivers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting driver %d: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error reading driver delete result: %w", err)
	}
	if affected == 0 {
		return apperrors.NotFound("driver not found")
	}
	return nil
}
