package repository

import (
	"database/sql"
	"driveline/internal/db"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

type StaffRepository interface {
	GetByEmail(email string) (*db.StaffUser, error)
	CreateStaff(email, password string) error
}

type staffRepository struct {
	db *sql.DB
}

func NewStaffRepository(database *sql.DB) StaffRepository {
	return &staffRepository{db: database}
}

func (r *staffRepository) GetByEmail(email string) (*db.StaffUser, error) {
	var staff db.StaffUser
	err := r.db.QueryRow(`SELECT id, email, password_hash FROM staff_users WHERE email = $1`, email).
		Scan(&staff.ID, &staff.Email, &staff.PasswordHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &staff, nil
}

func (r *staffRepository) CreateStaff(email, password string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(`INSERT INTO staff_users (email, password_hash) VALUES ($1, $2)`, email, hashed)
	return err
}
