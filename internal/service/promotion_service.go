package service

import (
	"driveline/internal/apperrors"
	"driveline/internal/db"
	"driveline/internal/entities"
	"driveline/internal/repository"
	"strings"
	"time"
)

type PromotionService struct {
	repo *repository.PromotionRepository
}

func NewPromotionService(repo *repository.PromotionRepository) *PromotionService {
	return &PromotionService{repo: repo}
}

// validatePromotionInput enforces the creation contract: non-empty code, a
// known kind, non-negative value, and a coherent validity window.
func validatePromotionInput(req entities.PromotionRequest) (*db.Promotion, error) {
	code := strings.TrimSpace(req.Code)
	if code == "" {
		return nil, apperrors.Validation("code", "promotion code is required")
	}
	if req.Kind != db.PromoFlat && req.Kind != db.PromoPercent {
		return nil, apperrors.Validationf("kind", "promotion kind must be %q or %q", db.PromoFlat, db.PromoPercent)
	}
	if req.Value < 0 {
		return nil, apperrors.Validation("value", "promotion value must not be negative")
	}
	if req.Kind == db.PromoPercent && req.Value > 100 {
		return nil, apperrors.Validation("value", "percentage discount cannot exceed 100")
	}
	if req.Cap < 0 {
		return nil, apperrors.Validation("cap", "discount cap must not be negative")
	}
	if req.MinTransaction < 0 {
		return nil, apperrors.Validation("min_transaction", "minimum transaction must not be negative")
	}
	if req.Quota < 0 {
		return nil, apperrors.Validation("quota", "quota must not be negative")
	}

	startsAt, err := time.Parse(time.RFC3339, req.StartsAt)
	if err != nil {
		return nil, apperrors.Validation("starts_at", "starts_at must be an RFC3339 timestamp")
	}
	endsAt, err := time.Parse(time.RFC3339, req.EndsAt)
	if err != nil {
		return nil, apperrors.Validation("ends_at", "ends_at must be an RFC3339 timestamp")
	}
	if endsAt.Before(startsAt) {
		return nil, apperrors.Validation("ends_at", "validity window must end after it starts")
	}

	status := req.Status
	if status == "" {
		status = db.ResourceActive
	}
	if status != db.ResourceActive && status != db.ResourceInactive {
		return nil, apperrors.Validation("status", "status must be active or inactive")
	}

	return &db.Promotion{
		Code:           code,
		Kind:           req.Kind,
		Value:          req.Value,
		Cap:            req.Cap,
		MinTransaction: req.MinTransaction,
		Quota:          req.Quota,
		StartsAt:       startsAt,
		EndsAt:         endsAt,
		Status:         status,
	}, nil
}

func (s *PromotionService) Create(req entities.PromotionRequest) (*entities.PromotionResponse, error) {
	promo, err := validatePromotionInput(req)
	if err != nil {
		return nil, err
	}
	if existing, err := s.repo.GetByCode(promo.Code); err == nil && existing != nil {
		return nil, apperrors.Validation("code", "promotion code already exists")
	}
	if err := s.repo.Create(promo); err != nil {
		return nil, err
	}
	return toPromotionResponse(promo), nil
}

func (s *PromotionService) Update(id int, req entities.PromotionRequest) (*entities.PromotionResponse, error) {
	current, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	promo, err := validatePromotionInput(req)
	if err != nil {
		return nil, err
	}
	promo.ID = id
	promo.UsedCount = current.UsedCount
	if promo.Quota > 0 && promo.UsedCount > promo.Quota {
		return nil, apperrors.Validation("quota", "quota cannot be lowered below the current usage counter")
	}
	if err := s.repo.Update(promo); err != nil {
		return nil, err
	}
	return toPromotionResponse(promo), nil
}

func (s *PromotionService) Delete(id int) error {
	return s.repo.Delete(id)
}

func (s *PromotionService) List() ([]entities.PromotionResponse, error) {
	promotions, err := s.repo.List()
	if err != nil {
		return nil, err
	}
	responses := []entities.PromotionResponse{}
	for i := range promotions {
		responses = append(responses, *toPromotionResponse(&promotions[i]))
	}
	return responses, nil
}

func toPromotionResponse(p *db.Promotion) *entities.PromotionResponse {
	return &entities.PromotionResponse{
		ID:             p.ID,
		Code:           p.Code,
		Kind:           p.Kind,
		Value:          p.Value,
		Cap:            p.Cap,
		MinTransaction: p.MinTransaction,
		Quota:          p.Quota,
		UsedCount:      p.UsedCount,
		StartsAt:       p.StartsAt,
		EndsAt:         p.EndsAt,
		Status:         p.Status,
	}
}
