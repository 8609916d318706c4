package service

import (
	"driveline/internal/apperrors"
	"driveline/internal/db"
	"driveline/internal/entities"
	"time"
)

// Price computes the monetary breakdown of a reservation. It is a pure
// function of its inputs: day rates, duration, the optional promotion, and
// the evaluation time for the promotion's validity window.
//
// Monetary values are integral currency units. Integer division floors the
// percentage discount, so a fractional-unit discount is never granted.
func Price(vehicleRate, driverRate int64, days int, promo *db.Promotion, now time.Time) (entities.Quote, error) {
	quote := entities.Quote{Days: days}
	if days <= 0 {
		return quote, apperrors.Validation("end_date", "reservation must cover at least one day")
	}

	quote.Subtotal = vehicleRate*int64(days) + driverRate*int64(days)

	if promo != nil {
		discount, err := promotionDiscount(promo, quote.Subtotal, now)
		if err != nil {
			return quote, err
		}
		quote.Discount = discount
	}

	quote.Total = quote.Subtotal - quote.Discount + quote.Penalty
	return quote, nil
}

// promotionDiscount validates eligibility and computes the discount. An
// ineligible promotion is a validation error, never silently ignored.
func promotionDiscount(promo *db.Promotion, subtotal int64, now time.Time) (int64, error) {
	if promo.Status != db.ResourceActive {
		return 0, apperrors.Validation("promo_code", "promotion is not active")
	}
	if now.Before(promo.StartsAt) {
		return 0, apperrors.Validation("promo_code", "promotion is not yet valid")
	}
	if now.After(promo.EndsAt) {
		return 0, apperrors.Validation("promo_code", "promotion has expired")
	}
	if promo.Quota > 0 && promo.UsedCount >= promo.Quota {
		return 0, apperrors.Validation("promo_code", "promotion quota exhausted")
	}
	if promo.MinTransaction > 0 && subtotal < promo.MinTransaction {
		return 0, apperrors.Validationf("promo_code",
			"promotion requires a minimum transaction of %d", promo.MinTransaction)
	}

	switch promo.Kind {
	case db.PromoFlat:
		if promo.Value > subtotal {
			return subtotal, nil
		}
		return promo.Value, nil
	case db.PromoPercent:
		discount := subtotal * promo.Value / 100
		if promo.Cap > 0 && discount > promo.Cap {
			discount = promo.Cap
		}
		return discount, nil
	default:
		return 0, apperrors.Validationf("promo_code", "unknown promotion kind %q", promo.Kind)
	}
}
