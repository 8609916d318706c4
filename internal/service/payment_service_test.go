package service

import (
	"testing"
	"time"

	"driveline/internal/apperrors"
	"driveline/internal/db"
	"driveline/internal/entities"
	"driveline/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var reservationRowColumns = []string{
	"id", "code", "vehicle_id", "driver_id", "customer_name", "customer_email", "customer_phone",
	"start_date", "end_date", "days", "subtotal", "discount", "penalty", "total", "promotion_id",
	"note", "status", "source", "created_at", "updated_at",
}

func reservationRow(id int, code, status string, total int64) *sqlmock.Rows {
	return sqlmock.NewRows(reservationRowColumns).AddRow(
		id, code, 7, nil, "Jordan Blake", "jordan@example.com", "+6281200000000",
		time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC), time.Date(2026, 5, 12, 0, 0, 0, 0, time.UTC),
		3, total, 0, 0, total, nil, "", status, db.SourceSelfService, time.Now(), time.Now(),
	)
}

func newPaymentService(t *testing.T) (*PaymentService, sqlmock.Sqlmock) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	svc := NewPaymentService(
		repository.NewPaymentRepository(mockDB),
		repository.NewReservationRepository(mockDB),
		nil, nil, zap.NewNop(),
	)
	return svc, mock
}

func TestRecordPayment_CashSettlesImmediately(t *testing.T) {
	svc, mock := newPaymentService(t)

	mock.ExpectQuery("SELECT (.+) FROM reservations WHERE id").
		WithArgs(5).
		WillReturnRows(reservationRow(5, "1A2B3C4D", db.StatusConfirmed, 850000))
	mock.ExpectQuery("INSERT INTO payments").
		WithArgs(5, int64(850000), db.MethodCash, db.PaymentSettled, "", "").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(11, time.Now()))

	resp, err := svc.RecordPayment(5, entities.PaymentRequest{Amount: 850000, Method: db.MethodCash}, "")
	require.NoError(t, err)
	assert.Equal(t, db.PaymentSettled, resp.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordPayment_TransferStaysPending(t *testing.T) {
	svc, mock := newPaymentService(t)

	mock.ExpectQuery("SELECT (.+) FROM reservations WHERE id").
		WithArgs(5).
		WillReturnRows(reservationRow(5, "1A2B3C4D", db.StatusConfirmed, 850000))
	mock.ExpectQuery("INSERT INTO payments").
		WithArgs(5, int64(400000), db.MethodTransfer, db.PaymentPending, "evidence/5/receipt.jpg", "").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(12, time.Now()))

	resp, err := svc.RecordPayment(5, entities.PaymentRequest{Amount: 400000, Method: db.MethodTransfer}, "evidence/5/receipt.jpg")
	require.NoError(t, err)
	assert.Equal(t, db.PaymentPending, resp.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordPayment_InvalidInput(t *testing.T) {
	svc, _ := newPaymentService(t)

	_, err := svc.RecordPayment(5, entities.PaymentRequest{Amount: 0, Method: db.MethodCash}, "")
	e, ok := apperrors.AsError(err)
	require.True(t, ok)
	assert.Equal(t, "amount", e.Field)

	// Online entries only come from the checkout flow, never recorded by hand.
	_, err = svc.RecordPayment(5, entities.PaymentRequest{Amount: 1000, Method: db.MethodOnline}, "")
	e, ok = apperrors.AsError(err)
	require.True(t, ok)
	assert.Equal(t, "method", e.Field)
}

func TestSettleByStripeSession_Idempotent(t *testing.T) {
	svc, mock := newPaymentService(t)

	// Already settled: a redelivered webhook must be a clean no-op.
	mock.ExpectQuery("SELECT (.+) FROM payments WHERE stripe_session_id").
		WithArgs("cs_test_123").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "reservation_id", "amount", "method", "status",
			"evidence_key", "stripe_session_id", "created_at", "resolved_at",
		}).AddRow(11, 5, 850000, db.MethodOnline, db.PaymentSettled, "", "cs_test_123", time.Now(), time.Now()))

	err := svc.SettleByStripeSession("cs_test_123")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSettlement(t *testing.T) {
	svc, mock := newPaymentService(t)

	mock.ExpectQuery("SELECT (.+) FROM reservations WHERE id").
		WithArgs(5).
		WillReturnRows(reservationRow(5, "1A2B3C4D", db.StatusActive, 850000))
	mock.ExpectQuery("SELECT COALESCE").
		WithArgs(5, db.PaymentSettled).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(600000))

	resp, err := svc.Settlement(5)
	require.NoError(t, err)
	assert.Equal(t, int64(850000), resp.Total)
	assert.Equal(t, int64(600000), resp.SettledAmount)
	assert.False(t, resp.IsFullySettled)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSettlement_OverpaymentStillSettled(t *testing.T) {
	svc, mock := newPaymentService(t)

	mock.ExpectQuery("SELECT (.+) FROM reservations WHERE id").
		WithArgs(5).
		WillReturnRows(reservationRow(5, "1A2B3C4D", db.StatusCompleted, 850000))
	mock.ExpectQuery("SELECT COALESCE").
		WithArgs(5, db.PaymentSettled).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(900000))

	resp, err := svc.Settlement(5)
	require.NoError(t, err)
	assert.True(t, resp.IsFullySettled)
	assert.NoError(t, mock.ExpectationsWereMet())
}
