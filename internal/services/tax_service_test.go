package services

import (
	"context"
	"testing"

	"billing-backend/internal/apperr"
	"billing-backend/internal/models"
	"billing-backend/internal/repositories"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTaxStore struct {
	policy *models.Tax
	getErr error
}

func (s *stubTaxStore) Get(context.Context) (*models.Tax, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.policy, nil
}

func (s *stubTaxStore) Update(_ context.Context, t *models.Tax) error {
	s.policy = t
	return nil
}

func TestTaxCurrent(t *testing.T) {
	store := &stubTaxStore{policy: &models.Tax{
		ID:        1,
		Rate:      decimal.NewFromFloat(5.0),
		Threshold: decimal.NewFromFloat(50.0),
	}}

	policy, err := NewTaxService(store).Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "5", policy.Rate.String())
	assert.Equal(t, "50", policy.Threshold.String())
}

func TestTaxCurrentMissingRow(t *testing.T) {
	store := &stubTaxStore{getErr: repositories.ErrNotFound}

	_, err := NewTaxService(store).Current(context.Background())
	require.Error(t, err)
	assert.Equal(t, "taxRateOrThresholdNotFound", apperr.KeyOf(err))
	assert.Equal(t, apperr.KindBusinessRule, apperr.KindOf(err))
}

func TestTaxCurrentZeroRate(t *testing.T) {
	// A zero rate is a configuration error, not a zero-tax policy.
	store := &stubTaxStore{policy: &models.Tax{
		ID:        1,
		Rate:      decimal.Zero,
		Threshold: decimal.NewFromFloat(50.0),
	}}

	_, err := NewTaxService(store).Current(context.Background())
	require.Error(t, err)
	assert.Equal(t, "taxRateOrThresholdNotFound", apperr.KeyOf(err))
}

func TestTaxUpdate(t *testing.T) {
	store := &stubTaxStore{policy: &models.Tax{
		ID:        1,
		Rate:      decimal.NewFromFloat(5.0),
		Threshold: decimal.NewFromFloat(50.0),
	}}
	svc := NewTaxService(store)

	policy, err := svc.Update(context.Background(), &models.UpdateTaxRequest{
		Rate:      decimal.NewFromFloat(7.5),
		Threshold: decimal.NewFromFloat(100.0),
	})
	require.NoError(t, err)
	assert.Equal(t, "7.5", policy.Rate.String())
	assert.Equal(t, "100", policy.Threshold.String())
}

func TestTaxUpdateRejectsNonPositive(t *testing.T) {
	svc := NewTaxService(&stubTaxStore{})

	_, err := svc.Update(context.Background(), &models.UpdateTaxRequest{
		Rate:      decimal.Zero,
		Threshold: decimal.NewFromFloat(50.0),
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}
