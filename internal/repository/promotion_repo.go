package repository

import (
	"database/sql"
	"driveline/internal/apperrors"
	"driveline/internal/db"
	"errors"
	"fmt"
)

const promotionColumns = `id, code, kind, value, cap, min_transaction, quota, used_count, starts_at, ends_at, status, created_at, updated_at`

type PromotionRepository struct {
	DB *sql.DB
}

func NewPromotionRepository(database *sql.DB) *PromotionRepository {
	return &PromotionRepository{DB: database}
}

func (r *PromotionRepository) scanOne(row *sql.Row) (*db.Promotion, error) {
	var p db.Promotion
	err := row.Scan(&p.ID, &p.Code, &p.Kind, &p.Value, &p.Cap, &p.MinTransaction,
		&p.Quota, &p.UsedCount, &p.StartsAt, &p.EndsAt, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("promotion not found")
		}
		return nil, fmt.Errorf("error scanning promotion: %w", err)
	}
	return &p, nil
}

func (r *PromotionRepository) GetByID(id int) (*db.Promotion, error) {
	return r.scanOne(r.DB.QueryRow(`SELECT `+promotionColumns+` FROM promotions WHERE id = $1`, id))
}

// GetByCode matches the promotion code case-insensitively.
func (r *PromotionRepository) GetByCode(code string) (*db.Promotion, error) {
	return r.scanOne(r.DB.QueryRow(`SELECT `+promotionColumns+` FROM promotions WHERE LOWER(code) = LOWER($1)`, code))
}

func (r *PromotionRepository) List() ([]db.Promotion, error) {
	rows, err := r.DB.Query(`SELECT ` + promotionColumns + ` FROM promotions ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("error listing promotions: %w", err)
	}
	defer rows.Close()

	var promotions []db.Promotion
	for rows.Next() {
		var p db.Promotion
		err := rows.Scan(&p.ID, &p.Code, &p.Kind, &p.Value, &p.Cap, &p.MinTransaction,
			&p.Quota, &p.UsedCount, &p.StartsAt, &p.EndsAt, &p.Status, &p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("error scanning promotion row: %w", err)
		}
		promotions = append(promotions, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating promotion rows: %w", err)
	}
	return promotions, nil
}

func (r *PromotionRepository) Create(p *db.Promotion) error {
	err := r.DB.QueryRow(`
		INSERT INTO promotions (code, kind, value, cap, min_transaction, quota, used_count, starts_at, ends_at, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, 0, $7, $8, $9, NOW(), NOW())
		RETURNING id, created_at, updated_at`,
		p.Code, p.Kind, p.Value, p.Cap, p.MinTransaction, p.Quota, p.StartsAt, p.EndsAt, p.Status,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error inserting promotion: %w", err)
	}
	return nil
}

func (r *PromotionRepository) Update(p *db.Promotion) error {
	result, err := r.DB.Exec(`
		UPDATE promotions
		SET code = $2, kind = $3, value = $4, cap = $5, min_transaction = $6, quota = $7,
		    starts_at = $8, ends_at = $9, status = $10, updated_at = NOW()
		WHERE id = $1`,
		p.ID, p.Code, p.Kind, p.Value, p.Cap, p.MinTransaction, p.Quota, p.StartsAt, p.EndsAt, p.Status,
	)
	if err != nil {
		return fmt.Errorf("error updating promotion %d: %w", p.ID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error reading promotion update result: %w", err)
	}
	if affected == 0 {
		return apperrors.NotFound("promotion not found")
	}
	return nil
}

func (r *PromotionRepository) Delete(id int) error {
	result, err := r.DB.Exec(`DELETE FROM promotions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting promotion %d: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error reading promotion delete result: %w", err)
	}
	if affected == 0 {
		return apperrors.NotFound("promotion not found")
	}
	return nil
}
