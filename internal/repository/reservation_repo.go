package repository

import (
	"database/sql"
	"driveline/internal/apperrors"
	"driveline/internal/db"
	"driveline/internal/entities"
	"errors"
	"fmt"
	"strconv"
	"time"
)

// Advisory lock classes so vehicle and driver ids never collide in the
// same lock space.
const (
	lockClassVehicle = 1
	lockClassDriver  = 2
)

// Reservation states that hold their date range against new bookings.
const blockingStates = `('pending', 'confirmed', 'active')`

const reservationColumns = `id, code, vehicle_id, driver_id, customer_name, customer_email, customer_phone,
		start_date, end_date, days, subtotal, discount, penalty, total, promotion_id, note, status, source,
		created_at, updated_at`

type ReservationRepository struct {
	DB *sql.DB
}

func NewReservationRepository(database *sql.DB) *ReservationRepository {
	return &ReservationRepository{DB: database}
}

// rowQuerier is satisfied by both *sql.DB and *sql.Tx.
type rowQuerier interface {
	QueryRow(query string, args ...interface{}) *sql.Row
}

// findConflict returns the first committed reservation on the given resource
// column overlapping [start, end] (inclusive on both sides: same-day turnover
// counts as a conflict). excludeID lets a reservation being re-evaluated
// ignore itself.
func findConflict(q rowQuerier, column string, resourceID int, start, end time.Time, excludeID int) (*entities.DateInterval, error) {
	query := fmt.Sprintf(`
		SELECT start_date, end_date FROM reservations
		WHERE %s = $1 AND status IN %s
		  AND start_date <= $3 AND end_date >= $2
		  AND ($4 = 0 OR id <> $4)
		ORDER BY start_date
		LIMIT 1`, column, blockingStates)

	var s, e time.Time
	err := q.QueryRow(query, resourceID, start, end, excludeID).Scan(&s, &e)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error checking %s conflict: %w", column, err)
	}
	return &entities.DateInterval{
		StartDate: s.Format("2006-01-02"),
		EndDate:   e.Format("2006-01-02"),
	}, nil
}

// HasVehicleConflict is the advisory (non-locking) conflict check used by the
// unavailable-dates pre-validation and edit flows. The authoritative check
// runs inside Create's transaction.
func (r *ReservationRepository) HasVehicleConflict(vehicleID int, start, end time.Time, excludeID int) (*entities.DateInterval, error) {
	return findConflict(r.DB, "vehicle_id", vehicleID, start, end, excludeID)
}

// Create inserts a reservation as a single atomic unit: it takes per-resource
// advisory locks, re-checks for conflicts under those locks, inserts the row,
// and burns one unit of promotion quota when a promotion is attached. Two
// concurrent creates for overlapping ranges on the same vehicle serialize on
// the lock, so at most one succeeds.
func (r *ReservationRepository) Create(res *db.Reservation) error {
	tx, err := r.DB.Begin()
	if err != nil {
		return fmt.Errorf("error starting create transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`SELECT pg_advisory_xact_lock($1, $2)`, lockClassVehicle, res.VehicleID); err != nil {
		return fmt.Errorf("error locking vehicle %d: %w", res.VehicleID, err)
	}
	if res.DriverID.Valid {
		if _, err := tx.Exec(`SELECT pg_advisory_xact_lock($1, $2)`, lockClassDriver, res.DriverID.Int64); err != nil {
			return fmt.Errorf("error locking driver %d: %w", res.DriverID.Int64, err)
		}
	}

	colliding, err := findConflict(tx, "vehicle_id", res.VehicleID, res.StartDate, res.EndDate, 0)
	if err != nil {
		return err
	}
	if colliding != nil {
		return apperrors.Conflict("vehicle is already reserved for the requested dates", apperrors.ConflictDetails{
			VehicleID: res.VehicleID,
			StartDate: colliding.StartDate,
			EndDate:   colliding.EndDate,
		})
	}
	if res.DriverID.Valid {
		colliding, err = findConflict(tx, "driver_id", int(res.DriverID.Int64), res.StartDate, res.EndDate, 0)
		if err != nil {
			return err
		}
		if colliding != nil {
			return apperrors.Conflict("driver is already assigned for the requested dates", apperrors.ConflictDetails{
				DriverID:  int(res.DriverID.Int64),
				StartDate: colliding.StartDate,
				EndDate:   colliding.EndDate,
			})
		}
	}

	if res.PromotionID.Valid {
		result, err := tx.Exec(`
			UPDATE promotions SET used_count = used_count + 1, updated_at = NOW()
			WHERE id = $1 AND (quota = 0 OR used_count < quota)`, res.PromotionID.Int64)
		if err != nil {
			return fmt.Errorf("error incrementing promotion usage: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("error reading promotion update result: %w", err)
		}
		if affected == 0 {
			return apperrors.Validation("promo_code", "promotion quota exhausted")
		}
	}

	err = tx.QueryRow(`
		INSERT INTO reservations
		(code, vehicle_id, driver_id, customer_name, customer_email, customer_phone,
		 start_date, end_date, days, subtotal, discount, penalty, total, promotion_id,
		 note, status, source, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, NOW(), NOW())
		RETURNING id, created_at, updated_at`,
		res.Code, res.VehicleID, res.DriverID, res.CustomerName, res.CustomerEmail, res.CustomerPhone,
		res.StartDate, res.EndDate, res.Days, res.Subtotal, res.Discount, res.Penalty, res.Total,
		res.PromotionID, res.Note, res.Status, res.Source,
	).Scan(&res.ID, &res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error inserting reservation: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing reservation: %w", err)
	}
	return nil
}

func scanReservation(row *sql.Row) (*db.Reservation, error) {
	var res db.Reservation
	err := row.Scan(
		&res.ID, &res.Code, &res.VehicleID, &res.DriverID, &res.CustomerName, &res.CustomerEmail,
		&res.CustomerPhone, &res.StartDate, &res.EndDate, &res.Days, &res.Subtotal, &res.Discount,
		&res.Penalty, &res.Total, &res.PromotionID, &res.Note, &res.Status, &res.Source,
		&res.CreatedAt, &res.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("reservation not found")
		}
		return nil, fmt.Errorf("error scanning reservation: %w", err)
	}
	return &res, nil
}

func (r *ReservationRepository) GetByID(id int) (*db.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`
	return scanReservation(r.DB.QueryRow(query, id))
}

// GetByCode looks a reservation up by booking code and customer email, the
// self-service identification pair.
func (r *ReservationRepository) GetByCode(code, email string) (*db.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE code = $1 AND customer_email = $2`
	return scanReservation(r.DB.QueryRow(query, code, email))
}

// List returns reservations filtered by state and free text (booking code or
// customer name), newest start date first.
func (r *ReservationRepository) List(status, q string, limit, offset int) ([]db.Reservation, int64, error) {
	where := ` WHERE 1=1`
	args := []interface{}{}
	idx := 1

	if status != "" {
		where += ` AND status = $` + strconv.Itoa(idx)
		args = append(args, status)
		idx++
	}
	if q != "" {
		where += ` AND (code ILIKE $` + strconv.Itoa(idx) + ` OR customer_name ILIKE $` + strconv.Itoa(idx) + `)`
		args = append(args, "%"+q+"%")
		idx++
	}

	var total int64
	if err := r.DB.QueryRow(`SELECT COUNT(*) FROM reservations`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting reservations: %w", err)
	}

	query := `SELECT ` + reservationColumns + ` FROM reservations` + where +
		` ORDER BY start_date DESC LIMIT $` + strconv.Itoa(idx) + ` OFFSET $` + strconv.Itoa(idx+1)
	args = append(args, limit, offset)

	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing reservations: %w", err)
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
			return nil, 0, fmt.Errorf("error scanning reservation row: %w", err)
		}
		reservations = append(reservations, res)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error after iterating reservation rows: %w", err)
	}
	return reservations, total, nil
}

// TransitionStatus flips status from exactly `from` to `to` in one guarded
// update. Returns false when the row was not in `from` anymore, which the
// service turns into a StateTransitionError.
func (r *ReservationRepository) TransitionStatus(id int, from, to string) (bool, error) {
	result, err := r.DB.Exec(
		`UPDATE reservations SET status = $3, updated_at = NOW() WHERE id = $1 AND status = $2`,
		id, from, to,
	)
	if err != nil {
		return false, fmt.Errorf("error transitioning reservation %d: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("error reading transition result: %w", err)
	}
	return affected > 0, nil
}

// Complete marks an active reservation completed, applying the late penalty
// to both penalty and total in the same guarded update.
func (r *ReservationRepository) Complete(id int, penalty int64) (bool, error) {
	result, err := r.DB.Exec(`
		UPDATE reservations
		SET status = $2, penalty = penalty + $3, total = total + $3, updated_at = NOW()
		WHERE id = $1 AND status = $4`,
		id, db.StatusCompleted, penalty, db.StatusActive,
	)
	if err != nil {
		return false, fmt.Errorf("error completing reservation %d: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("error reading completion result: %w", err)
	}
	return affected > 0, nil
}

// UpdateDates edits a pending or confirmed reservation's range under the same
// vehicle lock discipline as Create, with the reservation excluded from its
// own conflict check.
func (r *ReservationRepository) UpdateDates(res *db.Reservation) error {
	tx, err := r.DB.Begin()
	if err != nil {
		return fmt.Errorf("error starting update transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`SELECT pg_advisory_xact_lock($1, $2)`, lockClassVehicle, res.VehicleID); err != nil {
		return fmt.Errorf("error locking vehicle %d: %w", res.VehicleID, err)
	}

	colliding, err := findConflict(tx, "vehicle_id", res.VehicleID, res.StartDate, res.EndDate, res.ID)
	if err != nil {
		return err
	}
	if colliding != nil {
		return apperrors.Conflict("vehicle is already reserved for the requested dates", apperrors.ConflictDetails{
			VehicleID: res.VehicleID,
			StartDate: colliding.StartDate,
			EndDate:   colliding.EndDate,
		})
	}
	if res.DriverID.Valid {
		if _, err := tx.Exec(`SELECT pg_advisory_xact_lock($1, $2)`, lockClassDriver, res.DriverID.Int64); err != nil {
			return fmt.Errorf("error locking driver %d: %w", res.DriverID.Int64, err)
		}
		colliding, err = findConflict(tx, "driver_id", int(res.DriverID.Int64), res.StartDate, res.EndDate, res.ID)
		if err != nil {
			return err
		}
		if colliding != nil {
			return apperrors.Conflict("driver is already assigned for the requested dates", apperrors.ConflictDetails{
				DriverID:  int(res.DriverID.Int64),
				StartDate: colliding.StartDate,
				EndDate:   colliding.EndDate,
			})
		}
	}

	_, err = tx.Exec(`
		UPDATE reservations
		SET start_date = $2, end_date = $3, days = $4, subtotal = $5, total = $6, note = $7, updated_at = NOW()
		WHERE id = $1`,
		res.ID, res.StartDate, res.EndDate, res.Days, res.Subtotal, res.Total, res.Note,
	)
	if err != nil {
		return fmt.Errorf("error updating reservation %d: %w", res.ID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing reservation update: %w", err)
	}
	return nil
}

// ListUnavailableDates returns the committed intervals still relevant for a
// vehicle's calendar, soonest first.
func (r *ReservationRepository) ListUnavailableDates(vehicleID int) ([]entities.DateInterval, error) {
	rows, err := r.DB.Query(`
		SELECT start_date, end_date FROM reservations
		WHERE vehicle_id = $1 AND status IN `+blockingStates+`
		  AND end_date >= CURRENT_DATE
		ORDER BY start_date`, vehicleID)
	if err != nil {
		return nil, fmt.Errorf("error listing unavailable dates: %w", err)
	}
	defer rows.Close()

	var intervals []entities.DateInterval
	for rows.Next() {
		var s, e time.Time
		if err := rows.Scan(&s, &e); err != nil {
			return nil, fmt.Errorf("error scanning interval: %w", err)
		}
		intervals = append(intervals, entities.DateInterval{
			StartDate: s.Format("2006-01-02"),
			EndDate:   e.Format("2006-01-02"),
		})
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating intervals: %w", err)
	}
	return intervals, nil
}

// ListOpen returns every reservation in a non-terminal state, the input set
// for the notification projection.
func (r *ReservationRepository) ListOpen() ([]db.Reservation, error) {
	rows, err := r.DB.Query(`SELECT ` + reservationColumns + ` FROM reservations WHERE status IN ` + blockingStates + ` ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("error listing open reservations: %w", err)
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
			return nil, fmt.Errorf("error scanning open reservation: %w", err)
		}
		reservations = append(reservations, res)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating open reservations: %w", err)
	}
	return reservations, nil
}

// Delete is the explicit staff purge. Reservations are otherwise never
// hard-deleted.
func (r *ReservationRepository) Delete(id int) error {
	result, err := r.DB.Exec(`DELETE FROM reservations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting reservation %d: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error reading delete result: %w", err)
	}
	if affected == 0 {
		return apperrors.NotFound("reservation not found")
	}
	return nil
}
