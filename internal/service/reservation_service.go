package service

import (
	"database/sql"
	"driveline/internal/apperrors"
	"driveline/internal/db"
	"driveline/internal/entities"
	"driveline/internal/repository"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// ReservationService drives the reservation lifecycle: atomic creation,
// pricing, the state machine, and the customer messaging that hangs off it.
type ReservationService struct {
	repo     *repository.ReservationRepository
	fleet    *repository.FleetRepository
	promos   *repository.PromotionRepository
	payments *repository.PaymentRepository
	settings *repository.SettingsRepository
	stripe   *StripeService
	sender   *SenderService
	logger   *zap.Logger
}

func NewReservationService(
	repo *repository.ReservationRepository,
	fleet *repository.FleetRepository,
	promos *repository.PromotionRepository,
	payments *repository.PaymentRepository,
	settings *repository.SettingsRepository,
	stripe *StripeService,
	sender *SenderService,
	logger *zap.Logger,
) *ReservationService {
	return &ReservationService{
		repo:     repo,
		fleet:    fleet,
		promos:   promos,
		payments: payments,
		settings: settings,
		stripe:   stripe,
		sender:   sender,
		logger:   logger,
	}
}

// resolveBooking validates the resources and promotion of a booking request
// and prices it. Shared by Quote and Create.
func (s *ReservationService) resolveBooking(vehicleID, driverID int, startStr, endStr, promoCode string) (*db.Vehicle, *db.Driver, *db.Promotion, time.Time, time.Time, entities.Quote, error) {
	var quote entities.Quote

	start, end, days, err := ParseDateRange(startStr, endStr)
	if err != nil {
		return nil, nil, nil, start, end, quote, err
	}

	vehicle, err := s.fleet.GetVehicle(vehicleID)
	if err != nil {
		return nil, nil, nil, start, end, quote, err
	}
	if vehicle.Status != db.ResourceActive {
		return nil, nil, nil, start, end, quote, apperrors.Validation("vehicle_id", "vehicle is not available for new reservations")
	}

	var driver *db.Driver
	var driverRate int64
	if driverID > 0 {
		driver, err = s.fleet.GetDriver(driverID)
		if err != nil {
			return nil, nil, nil, start, end, quote, err
		}
		if driver.Status != db.ResourceActive {
			return nil, nil, nil, start, end, quote, apperrors.Validation("driver_id", "driver is not available for new reservations")
		}
		driverRate = driver.DayRate
	}

	var promo *db.Promotion
	if promoCode != "" {
		promo, err = s.promos.GetByCode(promoCode)
		if err != nil {
			if e, ok := apperrors.AsError(err); ok && e.Kind == apperrors.KindNotFound {
				return nil, nil, nil, start, end, quote, apperrors.Validation("promo_code", "unknown promotion code")
			}
			return nil, nil, nil, start, end, quote, err
		}
	}

	quote, err = Price(vehicle.DayRate, driverRate, days, promo, time.Now().UTC())
	if err != nil {
		return nil, nil, nil, start, end, quote, err
	}
	return vehicle, driver, promo, start, end, quote, nil
}

// Quote prices a booking request without committing anything.
func (s *ReservationService) Quote(req entities.QuoteRequest) (*entities.Quote, error) {
	_, _, _, _, _, quote, err := s.resolveBooking(req.VehicleID, req.DriverID, req.StartDate, req.EndDate, req.PromoCode)
	if err != nil {
		return nil, err
	}
	return &quote, nil
}

// Create books a reservation. The conflict check and insert run as one atomic
// unit inside the repository, serialized per resource.
func (s *ReservationService) Create(req *entities.ReservationRequest, source string) (*entities.ReservationResponse, error) {
	if req.CustomerName == "" {
		return nil, apperrors.Validation("customer_name", "customer name is required")
	}
	if req.CustomerEmail == "" {
		return nil, apperrors.Validation("customer_email", "customer email is required")
	}

	_, driver, promo, start, end, quote, err := s.resolveBooking(req.VehicleID, req.DriverID, req.StartDate, req.EndDate, req.PromoCode)
	if err != nil {
		return nil, err
	}

	reservation := &db.Reservation{
		Code:          fmt.Sprintf("%08X", time.Now().UnixNano()%0x100000000),
		VehicleID:     req.VehicleID,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
		StartDate:     start,
		EndDate:       end,
		Days:          quote.Days,
		Subtotal:      quote.Subtotal,
		Discount:      quote.Discount,
		Total:         quote.Total,
		Note:          req.Note,
		Status:        db.StatusPending,
		Source:        source,
	}
	if driver != nil {
		reservation.DriverID = sql.NullInt64{Int64: int64(driver.ID), Valid: true}
	}
	if promo != nil {
		reservation.PromotionID = sql.NullInt64{Int64: int64(promo.ID), Valid: true}
	}

	if err := s.repo.Create(reservation); err != nil {
		return nil, err
	}

	s.logger.Info("reservation created",
		zap.String("code", reservation.Code),
		zap.Int("vehicle_id", reservation.VehicleID),
		zap.String("source", source))

	resp := s.toResponse(reservation)
	s.sender.NotifyReservation(resp, "received")
	return resp, nil
}

func (s *ReservationService) GetByCode(code, email string) (*entities.ReservationResponse, error) {
	reservation, err := s.repo.GetByCode(code, email)
	if err != nil {
		return nil, err
	}
	return s.toResponse(reservation), nil
}

func (s *ReservationService) List(status, q string, limit, offset int) (*entities.ReservationsList, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	reservations, total, err := s.repo.List(status, q, limit, offset)
	if err != nil {
		return nil, err
	}
	list := &entities.ReservationsList{
		Total:        total,
		Limit:        limit,
		Offset:       offset,
		Reservations: []entities.ReservationResponse{},
	}
	for i := range reservations {
		list.Reservations = append(list.Reservations, *s.toResponse(&reservations[i]))
	}
	return list, nil
}

func (s *ReservationService) UnavailableDates(vehicleID int) (*entities.UnavailableDatesResponse, error) {
	if _, err := s.fleet.GetVehicle(vehicleID); err != nil {
		return nil, err
	}
	intervals, err := s.repo.ListUnavailableDates(vehicleID)
	if err != nil {
		return nil, err
	}
	return &entities.UnavailableDatesResponse{VehicleID: vehicleID, Intervals: intervals}, nil
}

// transition applies one lifecycle action with the state-machine guard
// enforced twice: against the fetched row, then again inside the conditional
// update so concurrent transitions cannot both land.
func (s *ReservationService) transition(id int, action Action) (*db.Reservation, error) {
	reservation, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	next, err := NextStatus(reservation.Status, action)
	if err != nil {
		return nil, err
	}
	ok, err := s.repo.TransitionStatus(id, reservation.Status, next)
	if err != nil {
		return nil, err
	}
	if !ok {
		current, err := s.repo.GetByID(id)
		if err != nil {
			return nil, err
		}
		return nil, apperrors.StateTransition(current.Status, string(action))
	}
	reservation.Status = next
	return reservation, nil
}

func (s *ReservationService) Confirm(id int) (*entities.ReservationResponse, error) {
	reservation, err := s.transition(id, ActionConfirm)
	if err != nil {
		return nil, err
	}
	resp := s.toResponse(reservation)
	s.sender.NotifyReservation(resp, "confirmed")
	return resp, nil
}

func (s *ReservationService) Activate(id int) (*entities.ReservationResponse, error) {
	reservation, err := s.transition(id, ActionActivate)
	if err != nil {
		return nil, err
	}
	return s.toResponse(reservation), nil
}

// Complete returns the vehicle. When completion happens after the end date a
// late penalty accrues at the configured per-day rate and is added to the
// total.
func (s *ReservationService) Complete(id int, today time.Time) (*entities.ReservationResponse, error) {
	reservation, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if _, err := NextStatus(reservation.Status, ActionComplete); err != nil {
		return nil, err
	}

	var penalty int64
	if late := DaysLate(reservation.EndDate, today); late > 0 {
		rate, err := s.settings.GetInt(repository.SettingLateFeePerDay, 0)
		if err != nil {
			return nil, err
		}
		penalty = int64(late) * rate
	}

	ok, err := s.repo.Complete(id, penalty)
	if err != nil {
		return nil, err
	}
	if !ok {
		current, err := s.repo.GetByID(id)
		if err != nil {
			return nil, err
		}
		return nil, apperrors.StateTransition(current.Status, string(ActionComplete))
	}

	reservation.Status = db.StatusCompleted
	reservation.Penalty += penalty
	reservation.Total += penalty
	if penalty > 0 {
		s.logger.Info("late penalty applied",
			zap.String("code", reservation.Code),
			zap.Int64("penalty", penalty))
	}
	resp := s.toResponse(reservation)
	s.sender.NotifyReservation(resp, "completed")
	return resp, nil
}

// Cancel is the staff cancellation: allowed from pending and confirmed.
func (s *ReservationService) Cancel(id int) (*entities.ReservationResponse, error) {
	reservation, err := s.transition(id, ActionCancel)
	if err != nil {
		return nil, err
	}
	s.refundOnlinePayment(reservation)
	resp := s.toResponse(reservation)
	s.sender.NotifyReservation(resp, "canceled")
	return resp, nil
}

// CancelByCode is the self-service cancellation: customers may only cancel
// while the reservation is still pending.
func (s *ReservationService) CancelByCode(code, email string) (*entities.ReservationResponse, error) {
	reservation, err := s.repo.GetByCode(code, email)
	if err != nil {
		return nil, err
	}
	if reservation.Status != db.StatusPending {
		return nil, apperrors.StateTransition(reservation.Status, string(ActionCancel))
	}
	ok, err := s.repo.TransitionStatus(reservation.ID, db.StatusPending, db.StatusCanceled)
	if err != nil {
		return nil, err
	}
	if !ok {
		current, err := s.repo.GetByID(reservation.ID)
		if err != nil {
			return nil, err
		}
		return nil, apperrors.StateTransition(current.Status, string(ActionCancel))
	}
	reservation.Status = db.StatusCanceled
	s.refundOnlinePayment(reservation)
	resp := s.toResponse(reservation)
	s.sender.NotifyReservation(resp, "canceled")
	return resp, nil
}

// refundOnlinePayment refunds any settled online entry through Stripe when a
// reservation is canceled. Refund failure is logged, not surfaced: the
// cancellation itself already happened and staff reconcile from the ledger.
func (s *ReservationService) refundOnlinePayment(reservation *db.Reservation) {
	entries, err := s.payments.List(reservation.ID, "")
	if err != nil {
		s.logger.Error("listing payments for refund failed", zap.String("code", reservation.Code), zap.Error(err))
		return
	}
	for _, entry := range entries {
		if entry.Method == db.MethodOnline && entry.Status == db.PaymentSettled && entry.StripeSessionID != "" {
			if err := s.stripe.RefundPaymentBySessionID(entry.StripeSessionID); err != nil {
				s.logger.Error("stripe refund failed",
					zap.String("code", reservation.Code),
					zap.String("session_id", entry.StripeSessionID),
					zap.Error(err))
			}
		}
	}
}

// Update edits the date range or note of a pending or confirmed reservation.
// The vehicle and driver rates are re-applied for the new duration; the
// discount granted at creation is kept as-is.
func (s *ReservationService) Update(id int, req entities.ReservationUpdateRequest) (*entities.ReservationResponse, error) {
	reservation, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if reservation.Status != db.StatusPending && reservation.Status != db.StatusConfirmed {
		return nil, apperrors.StateTransition(reservation.Status, "update")
	}

	start, end, days, err := ParseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	vehicle, err := s.fleet.GetVehicle(reservation.VehicleID)
	if err != nil {
		return nil, err
	}
	var driverRate int64
	if reservation.DriverID.Valid {
		driver, err := s.fleet.GetDriver(int(reservation.DriverID.Int64))
		if err != nil {
			return nil, err
		}
		driverRate = driver.DayRate
	}

	reservation.StartDate = start
	reservation.EndDate = end
	reservation.Days = days
	reservation.Subtotal = vehicle.DayRate*int64(days) + driverRate*int64(days)
	reservation.Total = reservation.Subtotal - reservation.Discount + reservation.Penalty
	reservation.Note = req.Note

	if err := s.repo.UpdateDates(reservation); err != nil {
		return nil, err
	}
	return s.toResponse(reservation), nil
}

// Delete is the explicit staff purge, outside the lifecycle contract.
func (s *ReservationService) Delete(id int) error {
	return s.repo.Delete(id)
}

func (s *ReservationService) toResponse(res *db.Reservation) *entities.ReservationResponse {
	resp := &entities.ReservationResponse{
		ID:            res.ID,
		Code:          res.Code,
		VehicleID:     res.VehicleID,
		CustomerName:  res.CustomerName,
		CustomerEmail: res.CustomerEmail,
		CustomerPhone: res.CustomerPhone,
		StartDate:     res.StartDate.Format(dateLayout),
		EndDate:       res.EndDate.Format(dateLayout),
		Days:          res.Days,
		Subtotal:      res.Subtotal,
		Discount:      res.Discount,
		Penalty:       res.Penalty,
		Total:         res.Total,
		Note:          res.Note,
		Status:        res.Status,
		Source:        res.Source,
		CreatedAt:     res.CreatedAt,
		UpdatedAt:     res.UpdatedAt,
	}
	if res.DriverID.Valid {
		resp.DriverID = int(res.DriverID.Int64)
	}
	if vehicle, err := s.fleet.GetVehicle(res.VehicleID); err == nil {
		resp.VehicleName = vehicle.Name
	}
	if res.DriverID.Valid {
		if driver, err := s.fleet.GetDriver(int(res.DriverID.Int64)); err == nil {
			resp.DriverName = driver.Name
		}
	}
	return resp
}
