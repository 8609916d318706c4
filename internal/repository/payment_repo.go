package repository

import (
	"database/sql"
	"driveline/internal/apperrors"
	"driveline/internal/db"
	"errors"
	"fmt"
	"strconv"
)

const paymentColumns = `id, reservation_id, amount, method, status, evidence_key, stripe_session_id, created_at, resolved_at`

// PaymentRepository is the append-only payment ledger. Entries are inserted
// once and only ever move pending -> settled or pending -> rejected.
type PaymentRepository struct {
	DB *sql.DB
}

func NewPaymentRepository(database *sql.DB) *PaymentRepository {
	return &PaymentRepository{DB: database}
}

func (r *PaymentRepository) Create(p *db.Payment) error {
	err := r.DB.QueryRow(`
		INSERT INTO payments (reservation_id, amount, method, status, evidence_key, stripe_session_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING id, created_at`,
		p.ReservationID, p.Amount, p.Method, p.Status, p.EvidenceKey, p.StripeSessionID,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("error inserting payment entry: %w", err)
	}
	return nil
}

func (r *PaymentRepository) GetByID(id int) (*db.Payment, error) {
	return r.scanOne(r.DB.QueryRow(`SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id))
}

func (r *PaymentRepository) GetByStripeSession(sessionID string) (*db.Payment, error) {
	return r.scanOne(r.DB.QueryRow(`SELECT `+paymentColumns+` FROM payments WHERE stripe_session_id = $1`, sessionID))
}

func (r *PaymentRepository) scanOne(row *sql.Row) (*db.Payment, error) {
	var p db.Payment
	err := row.Scan(&p.ID, &p.ReservationID, &p.Amount, &p.Method, &p.Status,
		&p.EvidenceKey, &p.StripeSessionID, &p.CreatedAt, &p.ResolvedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("payment entry not found")
		}
		return nil, fmt.Errorf("error scanning payment entry: %w", err)
	}
	return &p, nil
}

// Resolve moves a pending entry to settled or rejected. Resolving an entry
// that is no longer pending is a reconciliation error: settlement is
// one-directional.
func (r *PaymentRepository) Resolve(id int, toStatus string) error {
	result, err := r.DB.Exec(`
		UPDATE payments SET status = $2, resolved_at = NOW()
		WHERE id = $1 AND status = $3`,
		id, toStatus, db.PaymentPending,
	)
	if err != nil {
		return fmt.Errorf("error resolving payment %d: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error reading payment resolve result: %w", err)
	}
	if affected == 0 {
		if _, err := r.GetByID(id); err != nil {
			return err
		}
		return apperrors.Reconciliation(fmt.Sprintf("payment entry %d is already resolved", id))
	}
	return nil
}

// SumSettled returns the reservation's aggregate paid amount: the sum of
// settled entries only.
func (r *PaymentRepository) SumSettled(reservationID int) (int64, error) {
	var sum int64
	err := r.DB.QueryRow(`
		SELECT COALESCE(SUM(amount), 0) FROM payments
		WHERE reservation_id = $1 AND status = $2`,
		reservationID, db.PaymentSettled,
	).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("error summing settled payments: %w", err)
	}
	return sum, nil
}

// List filters payment entries by reservation and free text on the customer
// name or booking code of the reservation they belong to.
func (r *PaymentRepository) List(reservationID int, q string) ([]db.Payment, error) {
	query := `
		SELECT p.id, p.reservation_id, p.amount, p.method, p.status, p.evidence_key, p.stripe_session_id, p.created_at, p.resolved_at
		FROM payments p
		JOIN reservations res ON res.id = p.reservation_id
		WHERE 1=1`
	args := []interface{}{}
	idx := 1

	if reservationID > 0 {
		query += ` AND p.reservation_id = $` + strconv.Itoa(idx)
		args = append(args, reservationID)
		idx++
	}
	if q != "" {
		query += ` AND (res.code ILIKE $` + strconv.Itoa(idx) + ` OR res.customer_name ILIKE $` + strconv.Itoa(idx) + `)`
		args = append(args, "%"+q+"%")
		idx++
	}
	query += ` ORDER BY p.created_at DESC`

	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing payments: %w", err)
	}
	defer rows.Close()

	var payments []db.Payment
	for rows.Next() {
		var p db.Payment
		err := rows.Scan(&p.ID, &p.ReservationID, &p.Amount, &p.Method, &p.Status,
			&p.EvidenceKey, &p.StripeSessionID, &p.CreatedAt, &p.ResolvedAt)
		if err != nil {
			return nil, fmt.Errorf("error scanning payment row: %w", err)
		}
		payments = append(payments, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating payment rows: %w", err)
	}
	return payments, nil
}
