package service

import (
	"testing"
	"time"

	"driveline/internal/apperrors"
	"driveline/internal/db"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func activePromo(kind string, value int64) *db.Promotion {
	return &db.Promotion{
		Code:     "PROMO",
		Kind:     kind,
		Value:    value,
		Status:   db.ResourceActive,
		StartsAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		EndsAt:   time.Date(2026, 12, 31, 23, 59, 59, 0, time.UTC),
	}
}

func TestPrice_NoPromotion(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	quote, err := Price(300000, 0, 3, nil, now)
	require.NoError(t, err)
	assert.Equal(t, int64(900000), quote.Subtotal)
	assert.Equal(t, int64(0), quote.Discount)
	assert.Equal(t, int64(900000), quote.Total)
}

func TestPrice_WithDriver(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	quote, err := Price(300000, 150000, 2, nil, now)
	require.NoError(t, err)
	assert.Equal(t, int64(900000), quote.Subtotal)
	assert.Equal(t, int64(900000), quote.Total)
}

func TestPrice_ZeroDays(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	_, err := Price(300000, 0, 0, nil, now)
	e, ok := apperrors.AsError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.KindValidation, e.Kind)
}

func TestPrice_FlatDiscount(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	promo := activePromo(db.PromoFlat, 50000)
	promo.MinTransaction = 500000

	quote, err := Price(300000, 0, 3, promo, now)
	require.NoError(t, err)
	assert.Equal(t, int64(900000), quote.Subtotal)
	assert.Equal(t, int64(50000), quote.Discount)
	assert.Equal(t, int64(850000), quote.Total)
}

func TestPrice_FlatDiscountCappedAtSubtotal(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	promo := activePromo(db.PromoFlat, 2000000)

	quote, err := Price(300000, 0, 3, promo, now)
	require.NoError(t, err)
	assert.Equal(t, int64(900000), quote.Discount)
	assert.Equal(t, int64(0), quote.Total)
}

func TestPrice_PercentDiscountWithCap(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	promo := activePromo(db.PromoPercent, 20)
	promo.Cap = 100000

	quote, err := Price(500000, 0, 2, promo, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1000000), quote.Subtotal)
	// 20% of 1,000,000 is 200,000, capped at 100,000.
	assert.Equal(t, int64(100000), quote.Discount)
	assert.Equal(t, int64(900000), quote.Total)
}

func TestPrice_PercentDiscountFloors(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	promo := activePromo(db.PromoPercent, 3)

	quote, err := Price(33, 0, 1, promo, now)
	require.NoError(t, err)
	// 3% of 33 is 0.99, floored to 0.
	assert.Equal(t, int64(0), quote.Discount)
	assert.Equal(t, int64(33), quote.Total)
}

func TestPrice_PromotionRejections(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		mutate  func(*db.Promotion)
		message string
	}{
		{
			name:    "inactive",
			mutate:  func(p *db.Promotion) { p.Status = db.ResourceInactive },
			message: "promotion is not active",
		},
		{
			name:    "not yet valid",
			mutate:  func(p *db.Promotion) { p.StartsAt = now.Add(24 * time.Hour) },
			message: "promotion is not yet valid",
		},
		{
			name:    "expired",
			mutate:  func(p *db.Promotion) { p.EndsAt = now.Add(-24 * time.Hour) },
			message: "promotion has expired",
		},
		{
			name: "quota exhausted",
			mutate: func(p *db.Promotion) {
				p.Quota = 5
				p.UsedCount = 5
			},
			message: "promotion quota exhausted",
		},
		{
			name:    "below minimum transaction",
			mutate:  func(p *db.Promotion) { p.MinTransaction = 1000000 },
			message: "promotion requires a minimum transaction of 1000000",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			promo := activePromo(db.PromoFlat, 50000)
			tc.mutate(promo)

			_, err := Price(300000, 0, 3, promo, now)
			e, ok := apperrors.AsError(err)
			require.True(t, ok)
			assert.Equal(t, apperrors.KindValidation, e.Kind)
			assert.Equal(t, "promo_code", e.Field)
			assert.Equal(t, tc.message, e.Message)
		})
	}
}

func TestPrice_ZeroQuotaMeansUnlimited(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	promo := activePromo(db.PromoFlat, 50000)
	promo.Quota = 0
	promo.UsedCount = 9999

	quote, err := Price(300000, 0, 3, promo, now)
	require.NoError(t, err)
	assert.Equal(t, int64(50000), quote.Discount)
}
