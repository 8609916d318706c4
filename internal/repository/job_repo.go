package repository

import (
	"database/sql"
	"driveline/internal/db"
	"fmt"
)

type JobRepository struct {
	DB *sql.DB
}

func NewJobRepository(database *sql.DB) *JobRepository {
	return &JobRepository{DB: database}
}

// ListOverdue returns confirmed or active reservations whose end date has
// passed, for the daily staff digest.
func (r *JobRepository) ListOverdue() ([]db.Reservation, error) {
	rows, err := r.DB.Query(`
		SELECT ` + reservationColumns + ` FROM reservations
		WHERE status IN ('confirmed', 'active') AND end_date < CURRENT_DATE
		ORDER BY end_date`)
	if err != nil {
		return nil, fmt.Errorf("error querying overdue reservations: %w", err)
	}
	defer rows.Close()

	var reservations []db.Reservation
	for rows.Next() {
		var res db.Reservation
		err := rows.Scan(
			&res.ID, &res.Code, &res.VehicleID, &res.DriverID, &res.CustomerName, &res.CustomerEmail,
			&res.CustomerPhone, &res.StartDate, &res.EndDate, &res.Days, &res.Subtotal, &res.Discount,
			&res.Penalty, &res.Total, &res.PromotionID, &res.Note, &res.Status, &res.Source,
			&res.CreatedAt, &res.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning overdue reservation: %w", err)
		}
		reservations = append(reservations, res)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating overdue reservations: %w", err)
	}
	return reservations, nil
}
