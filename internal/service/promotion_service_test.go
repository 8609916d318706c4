package service

import (
	"testing"

	"driveline/internal/apperrors"
	"driveline/internal/db"
	"driveline/internal/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validPromotionRequest() entities.PromotionRequest {
	return entities.PromotionRequest{
		Code:     "SUMMER26",
		Kind:     db.PromoPercent,
		Value:    15,
		Cap:      200000,
		StartsAt: "2026-06-01T00:00:00Z",
		EndsAt:   "2026-08-31T23:59:59Z",
	}
}

func TestValidatePromotionInput_Valid(t *testing.T) {
	promo, err := validatePromotionInput(validPromotionRequest())
	require.NoError(t, err)
	assert.Equal(t, "SUMMER26", promo.Code)
	assert.Equal(t, db.ResourceActive, promo.Status)
}

func TestValidatePromotionInput_TrimsCode(t *testing.T) {
	req := validPromotionRequest()
	req.Code = "  SUMMER26  "
	promo, err := validatePromotionInput(req)
	require.NoError(t, err)
	assert.Equal(t, "SUMMER26", promo.Code)
}

func TestValidatePromotionInput_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*entities.PromotionRequest)
		field  string
	}{
		{"empty code", func(r *entities.PromotionRequest) { r.Code = "   " }, "code"},
		{"unknown kind", func(r *entities.PromotionRequest) { r.Kind = "bogo" }, "kind"},
		{"negative value", func(r *entities.PromotionRequest) { r.Value = -1 }, "value"},
		{"percent over 100", func(r *entities.PromotionRequest) { r.Value = 150 }, "value"},
		{"negative cap", func(r *entities.PromotionRequest) { r.Cap = -1 }, "cap"},
		{"negative minimum", func(r *entities.PromotionRequest) { r.MinTransaction = -1 }, "min_transaction"},
		{"negative quota", func(r *entities.PromotionRequest) { r.Quota = -1 }, "quota"},
		{"malformed starts_at", func(r *entities.PromotionRequest) { r.StartsAt = "2026-06-01" }, "starts_at"},
		{"malformed ends_at", func(r *entities.PromotionRequest) { r.EndsAt = "soon" }, "ends_at"},
		{"inverted window", func(r *entities.PromotionRequest) {
			r.StartsAt = "2026-08-31T00:00:00Z"
			r.EndsAt = "2026-06-01T00:00:00Z"
		}, "ends_at"},
		{"unknown status", func(r *entities.PromotionRequest) { r.Status = "paused" }, "status"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := validPromotionRequest()
			tc.mutate(&req)
			_, err := validatePromotionInput(req)
			e, ok := apperrors.AsError(err)
			require.True(t, ok)
			assert.Equal(t, apperrors.KindValidation, e.Kind)
			assert.Equal(t, tc.field, e.Field)
		})
	}
}

func TestValidatePromotionInput_FlatValueOver100(t *testing.T) {
	req := validPromotionRequest()
	req.Kind = db.PromoFlat
	req.Value = 50000
	_, err := validatePromotionInput(req)
	assert.NoError(t, err)
}
