package repository

import (
	"testing"
	"time"

	"driveline/internal/apperrors"
	"driveline/internal/db"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentRepository_Create(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	repo := NewPaymentRepository(mockDB)
	payment := &db.Payment{
		ReservationID: 5,
		Amount:        850000,
		Method:        db.MethodCash,
		Status:        db.PaymentSettled,
	}

	mock.ExpectQuery("INSERT INTO payments").
		WithArgs(payment.ReservationID, payment.Amount, payment.Method, payment.Status,
			payment.EvidenceKey, payment.StripeSessionID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(11, time.Now()))

	err = repo.Create(payment)
	require.NoError(t, err)
	assert.Equal(t, 11, payment.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRepository_Resolve(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	repo := NewPaymentRepository(mockDB)

	mock.ExpectExec("UPDATE payments SET status").
		WithArgs(11, db.PaymentSettled, db.PaymentPending).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.Resolve(11, db.PaymentSettled)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRepository_ResolveAlreadyResolved(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	repo := NewPaymentRepository(mockDB)

	// Guard misses: the entry already left pending. The follow-up read finds
	// it, so the failure is a reconciliation error, not a missing entry.
	mock.ExpectExec("UPDATE payments SET status").
		WithArgs(11, db.PaymentRejected, db.PaymentPending).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT (.+) FROM payments WHERE id").
		WithArgs(11).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "reservation_id", "amount", "method", "status",
			"evidence_key", "stripe_session_id", "created_at", "resolved_at",
		}).AddRow(11, 5, 850000, db.MethodTransfer, db.PaymentSettled, "", "", time.Now(), time.Now()))

	err = repo.Resolve(11, db.PaymentRejected)
	e, ok := apperrors.AsError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.KindReconciliation, e.Kind)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRepository_ResolveNotFound(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	repo := NewPaymentRepository(mockDB)

	mock.ExpectExec("UPDATE payments SET status").
		WithArgs(99, db.PaymentSettled, db.PaymentPending).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT (.+) FROM payments WHERE id").
		WithArgs(99).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "reservation_id", "amount", "method", "status",
			"evidence_key", "stripe_session_id", "created_at", "resolved_at",
		}))

	err = repo.Resolve(99, db.PaymentSettled)
	e, ok := apperrors.AsError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.KindNotFound, e.Kind)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRepository_SumSettled(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	repo := NewPaymentRepository(mockDB)

	mock.ExpectQuery("SELECT COALESCE").
		WithArgs(5, db.PaymentSettled).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(600000))

	sum, err := repo.SumSettled(5)
	require.NoError(t, err)
	assert.Equal(t, int64(600000), sum)
	assert.NoError(t, mock.ExpectationsWereMet())
}
