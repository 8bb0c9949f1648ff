package services

import (
	"context"
	"errors"

	"billing-backend/internal/apperr"
	"billing-backend/internal/models"
	"billing-backend/internal/repositories"
)

type SupplierService struct {
	suppliers *repositories.SupplierRepository
}

func NewSupplierService(suppliers *repositories.SupplierRepository) *SupplierService {
	return &SupplierService{suppliers: suppliers}
}

func (s *SupplierService) Create(ctx context.Context, req *models.CreateSupplierRequest) (*models.Supplier, error) {
	if req == nil || req.Name == "" {
		return nil, apperr.New(apperr.KindValidation, "noDataProvided")
	}

	supplier := &models.Supplier{
		Name:    req.Name,
		Phone:   req.Phone,
		Address: req.Address,
	}
	if err := s.suppliers.Create(ctx, supplier); err != nil {
		return nil, apperr.Wrap(err)
	}
	return supplier, nil
}

func (s *SupplierService) Get(ctx context.Context, id int) (*models.Supplier, error) {
	supplier, err := s.suppliers.Get(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperr.New(apperr.KindNotFound, "noRecordFound")
	}
	if err != nil {
		return nil, apperr.Wrap(err)
	}
	return supplier, nil
}

func (s *SupplierService) List(ctx context.Context, page, perPage int) ([]*models.Supplier, *models.PageMeta, error) {
	suppliers, err := s.suppliers.List(ctx, page, perPage)
	if err != nil {
		return nil, nil, apperr.Wrap(err)
	}
	total, err := s.suppliers.Count(ctx)
	if err != nil {
		return nil, nil, apperr.Wrap(err)
	}
	deleted, err := s.suppliers.CountDeleted(ctx)
	if err != nil {
		return nil, nil, apperr.Wrap(err)
	}
	return suppliers, NewPageMeta(total, deleted, page, perPage), nil
}

func (s *SupplierService) Update(ctx context.Context, id int, req *models.UpdateSupplierRequest) (*models.Supplier, error) {
	if req == nil || req.Name == "" {
		return nil, apperr.New(apperr.KindValidation, "noDataProvided")
	}

	supplier := &models.Supplier{
		ID:      id,
		Name:    req.Name,
		Phone:   req.Phone,
		Address: req.Address,
	}
	err := s.suppliers.Update(ctx, supplier)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperr.New(apperr.KindNotFound, "noRecordFound")
	}
	if err != nil {
		return nil, apperr.Wrap(err)
	}
	return s.Get(ctx, id)
}

func (s *SupplierService) Delete(ctx context.Context, id int) error {
	err := s.suppliers.SoftDelete(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return apperr.New(apperr.KindNotFound, "noRecordFound")
	}
	if err != nil {
		return apperr.Wrap(err)
	}
	return nil
}
