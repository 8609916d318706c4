package service

import (
	"context"
	"driveline/internal/apperrors"
	"driveline/internal/db"
	"driveline/internal/entities"
	"driveline/internal/repository"
	"fmt"
	"io"

	"go.uber.org/zap"
)

// PaymentService manages the append-only payment ledger. Settlement and the
// reservation lifecycle are independent axes: the ledger never blocks a
// transition, it only reports.
type PaymentService struct {
	payments     *repository.PaymentRepository
	reservations *repository.ReservationRepository
	stripe       *StripeService
	storage      *StorageService
	logger       *zap.Logger
}

func NewPaymentService(
	payments *repository.PaymentRepository,
	reservations *repository.ReservationRepository,
	stripe *StripeService,
	storage *StorageService,
	logger *zap.Logger,
) *PaymentService {
	return &PaymentService{
		payments:     payments,
		reservations: reservations,
		stripe:       stripe,
		storage:      storage,
		logger:       logger,
	}
}

// RecordPayment appends an entry against a reservation. Cash taken in person
// by staff settles immediately; transfers stay pending until staff verify the
// evidence. Evidence (when provided) must already be uploaded: engine state
// only changes after the external step succeeded.
func (s *PaymentService) RecordPayment(reservationID int, req entities.PaymentRequest, evidenceKey string) (*entities.PaymentResponse, error) {
	if req.Amount <= 0 {
		return nil, apperrors.Validation("amount", "payment amount must be positive")
	}
	if req.Method != db.MethodCash && req.Method != db.MethodTransfer {
		return nil, apperrors.Validationf("method", "unsupported payment method %q", req.Method)
	}
	if _, err := s.reservations.GetByID(reservationID); err != nil {
		return nil, err
	}

	status := db.PaymentPending
	if req.Method == db.MethodCash {
		status = db.PaymentSettled
	}

	payment := &db.Payment{
		ReservationID: reservationID,
		Amount:        req.Amount,
		Method:        req.Method,
		Status:        status,
		EvidenceKey:   evidenceKey,
	}
	if err := s.payments.Create(payment); err != nil {
		return nil, err
	}
	s.logger.Info("payment recorded",
		zap.Int("reservation_id", reservationID),
		zap.Int64("amount", req.Amount),
		zap.String("method", req.Method),
		zap.String("status", status))
	return toPaymentResponse(payment), nil
}

// UploadEvidence streams a payment evidence blob to external storage and
// returns the opaque reference the ledger stores. The engine never interprets
// the content.
func (s *PaymentService) UploadEvidence(ctx context.Context, reservationID int, filename, contentType string, body io.Reader) (string, error) {
	if s.storage == nil {
		return "", apperrors.External("evidence storage is not configured", nil)
	}
	key, err := s.storage.UploadEvidence(ctx, reservationID, filename, contentType, body)
	if err != nil {
		return "", apperrors.External("evidence upload failed", err)
	}
	return key, nil
}

// StartOnlinePayment opens a Stripe Checkout session for the outstanding
// balance and appends a pending online entry that the webhook settles.
func (s *PaymentService) StartOnlinePayment(code, email string) (*entities.StripeSessionResponse, error) {
	reservation, err := s.reservations.GetByCode(code, email)
	if err != nil {
		return nil, err
	}
	if reservation.Status == db.StatusCanceled {
		return nil, apperrors.StateTransition(reservation.Status, "pay")
	}

	settled, err := s.payments.SumSettled(reservation.ID)
	if err != nil {
		return nil, err
	}
	due := reservation.Total - settled
	if due <= 0 {
		return nil, apperrors.Validation("amount", "reservation is already fully settled")
	}

	description := fmt.Sprintf("DriveLine reservation %s", reservation.Code)
	url, sessionID, err := s.stripe.CreateCheckoutSession(due, description, reservation.CustomerEmail)
	if err != nil {
		return nil, apperrors.External("could not create checkout session", err)
	}

	payment := &db.Payment{
		ReservationID:   reservation.ID,
		Amount:          due,
		Method:          db.MethodOnline,
		Status:          db.PaymentPending,
		StripeSessionID: sessionID,
	}
	if err := s.payments.Create(payment); err != nil {
		return nil, err
	}
	return &entities.StripeSessionResponse{PaymentID: payment.ID, SessionID: sessionID, URL: url}, nil
}

// Settle and Reject are staff-only and one-directional from pending.
func (s *PaymentService) Settle(id int) error {
	return s.payments.Resolve(id, db.PaymentSettled)
}

func (s *PaymentService) Reject(id int) error {
	return s.payments.Resolve(id, db.PaymentRejected)
}

// SettleByStripeSession settles the online entry tied to a completed Checkout
// session. Webhook deliveries retry, so an already-settled entry is a no-op.
func (s *PaymentService) SettleByStripeSession(sessionID string) error {
	payment, err := s.payments.GetByStripeSession(sessionID)
	if err != nil {
		return err
	}
	if payment.Status != db.PaymentPending {
		s.logger.Info("stripe session already resolved", zap.String("session_id", sessionID))
		return nil
	}
	return s.payments.Resolve(payment.ID, db.PaymentSettled)
}

// Settlement reports a reservation's aggregate payment position.
// IsFullySettled stays true once reached: settled entries cannot be rejected.
func (s *PaymentService) Settlement(reservationID int) (*entities.SettlementResponse, error) {
	reservation, err := s.reservations.GetByID(reservationID)
	if err != nil {
		return nil, err
	}
	settled, err := s.payments.SumSettled(reservationID)
	if err != nil {
		return nil, err
	}
	return &entities.SettlementResponse{
		ReservationID:  reservationID,
		Total:          reservation.Total,
		SettledAmount:  settled,
		IsFullySettled: settled >= reservation.Total,
	}, nil
}

func (s *PaymentService) List(reservationID int, q string) ([]entities.PaymentResponse, error) {
	payments, err := s.payments.List(reservationID, q)
	if err != nil {
		return nil, err
	}
	responses := []entities.PaymentResponse{}
	for i := range payments {
		responses = append(responses, *toPaymentResponse(&payments[i]))
	}
	return responses, nil
}

func toPaymentResponse(p *db.Payment) *entities.PaymentResponse {
	resp := &entities.PaymentResponse{
		ID:            p.ID,
		ReservationID: p.ReservationID,
		Amount:        p.Amount,
		Method:        p.Method,
		Status:        p.Status,
		EvidenceKey:   p.EvidenceKey,
		CreatedAt:     p.CreatedAt,
	}
	if p.ResolvedAt.Valid {
		t := p.ResolvedAt.Time
		resp.ResolvedAt = &t
	}
	return resp
}
