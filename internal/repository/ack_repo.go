package repository

import (
	"database/sql"
	"fmt"

	"github.com/lib/pq"
)

// AckRepository persists acknowledged notification keys so that read marks
// survive the projection being recomputed on every poll. It is the injectable
// store behind service.AckStore.
type AckRepository struct {
	DB *sql.DB
}

func NewAckRepository(database *sql.DB) *AckRepository {
	return &AckRepository{DB: database}
}

func (r *AckRepository) AckedKeys() (map[string]bool, error) {
	rows, err := r.DB.Query(`SELECT key FROM notification_acks`)
	if err != nil {
		return nil, fmt.Errorf("error listing acknowledged keys: %w", err)
	}
	defer rows.Close()

	acked := make(map[string]bool)
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("error scanning acknowledged key: %w", err)
		}
		acked[key] = true
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating acknowledged keys: %w", err)
	}
	return acked, nil
}

func (r *AckRepository) Ack(keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	_, err := r.DB.Exec(`
		INSERT INTO notification_acks (key, acked_at)
		SELECT unnest($1::text[]), NOW()
		ON CONFLICT (key) DO NOTHING`,
		pq.Array(keys),
	)
	if err != nil {
		return fmt.Errorf("error acknowledging notification keys: %w", err)
	}
	return nil
}
