package services

import (
	"context"
	"errors"
	"log"

	"billing-backend/internal/apperr"
	"billing-backend/internal/cache"
	"billing-backend/internal/models"
	"billing-backend/internal/repositories"
)

// TaxStore is the persistence surface behind the tax policy.
type TaxStore interface {
	Get(ctx context.Context) (*models.Tax, error)
	Update(ctx context.Context, t *models.Tax) error
}

type TaxService struct {
	store TaxStore
}

func NewTaxService(store TaxStore) *TaxService {
	return &TaxService{store: store}
}

// Current returns the active tax policy, reading through the Redis cache.
// A missing row or a zero rate/threshold is a configuration error, never a
// zero-tax outcome.
func (s *TaxService) Current(ctx context.Context) (*models.Tax, error) {
	var cached models.Tax
	if cache.GetTaxSetting(ctx, &cached) {
		if err := validPolicy(&cached); err != nil {
			return nil, err
		}
		return &cached, nil
	}

	policy, err := s.store.Get(ctx)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperr.New(apperr.KindBusinessRule, "taxRateOrThresholdNotFound")
	}
	if err != nil {
		return nil, apperr.Wrap(err)
	}
	if err := validPolicy(policy); err != nil {
		return nil, err
	}

	cache.SetTaxSetting(ctx, policy)
	return policy, nil
}

// Update replaces rate and threshold and drops the cached copy.
func (s *TaxService) Update(ctx context.Context, req *models.UpdateTaxRequest) (*models.Tax, error) {
	if req == nil || !req.Rate.IsPositive() || !req.Threshold.IsPositive() {
		return nil, apperr.New(apperr.KindValidation, "noDataProvided")
	}

	policy, err := s.store.Get(ctx)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperr.New(apperr.KindBusinessRule, "taxRateOrThresholdNotFound")
	}
	if err != nil {
		return nil, apperr.Wrap(err)
	}

	policy.Rate = req.Rate
	policy.Threshold = req.Threshold
	if err := s.store.Update(ctx, policy); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperr.New(apperr.KindBusinessRule, "taxRateOrThresholdNotFound")
		}
		return nil, apperr.Wrap(err)
	}

	cache.InvalidateTaxSetting(ctx)
	log.Printf("[Tax] Policy updated: rate=%s threshold=%s", policy.Rate, policy.Threshold)
	return policy, nil
}

func validPolicy(t *models.Tax) error {
	if !t.Rate.IsPositive() || !t.Threshold.IsPositive() {
		return apperr.New(apperr.KindBusinessRule, "taxRateOrThresholdNotFound")
	}
	return nil
}
