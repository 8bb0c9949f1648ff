package services

import (
	"context"
	"errors"
	"log"

	"billing-backend/internal/apperr"
	"billing-backend/internal/models"
	"billing-backend/internal/repositories"

	"github.com/shopspring/decimal"
)

type CustomerService struct {
	customers *repositories.CustomerRepository
}

func NewCustomerService(customers *repositories.CustomerRepository) *CustomerService {
	return &CustomerService{customers: customers}
}

func (s *CustomerService) Create(ctx context.Context, req *models.CreateCustomerRequest) (*models.Customer, error) {
	if req == nil || req.FirstName == "" {
		return nil, apperr.New(apperr.KindValidation, "noDataProvided")
	}
	if req.Balance.IsNegative() {
		return nil, apperr.New(apperr.KindValidation, "noDataProvided")
	}

	customer := &models.Customer{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Address:   req.Address,
		Phone:     req.Phone,
		Balance:   req.Balance,
	}
	if err := s.customers.Create(ctx, customer); err != nil {
		return nil, apperr.Wrap(err)
	}
	return customer, nil
}

func (s *CustomerService) Get(ctx context.Context, id int) (*models.Customer, error) {
	customer, err := s.customers.Get(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperr.New(apperr.KindNotFound, "customerNotFound")
	}
	if err != nil {
		return nil, apperr.Wrap(err)
	}
	return customer, nil
}

func (s *CustomerService) List(ctx context.Context, page, perPage int) ([]*models.Customer, *models.PageMeta, error) {
	customers, err := s.customers.List(ctx, page, perPage)
	if err != nil {
		return nil, nil, apperr.Wrap(err)
	}
	total, err := s.customers.Count(ctx)
	if err != nil {
		return nil, nil, apperr.Wrap(err)
	}
	deleted, err := s.customers.CountDeleted(ctx)
	if err != nil {
		return nil, nil, apperr.Wrap(err)
	}
	return customers, NewPageMeta(total, deleted, page, perPage), nil
}

func (s *CustomerService) Update(ctx context.Context, id int, req *models.UpdateCustomerRequest) (*models.Customer, error) {
	if req == nil || req.FirstName == "" || req.Balance.IsNegative() {
		return nil, apperr.New(apperr.KindValidation, "noDataProvided")
	}

	customer := &models.Customer{
		ID:        id,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Address:   req.Address,
		Phone:     req.Phone,
		Balance:   req.Balance,
	}
	err := s.customers.Update(ctx, customer)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperr.New(apperr.KindNotFound, "customerNotFound")
	}
	if err != nil {
		return nil, apperr.Wrap(err)
	}
	return s.Get(ctx, id)
}

// Deposit credits the customer balance outside the invoice flow.
func (s *CustomerService) Deposit(ctx context.Context, id int, req *models.AdjustBalanceRequest) (*models.Customer, error) {
	if req == nil || !req.Amount.IsPositive() {
		return nil, apperr.New(apperr.KindValidation, "noDataProvided")
	}
	return s.adjust(ctx, id, req.Amount)
}

// Withdraw debits the customer balance, refusing to bring it below zero.
func (s *CustomerService) Withdraw(ctx context.Context, id int, req *models.AdjustBalanceRequest) (*models.Customer, error) {
	if req == nil || !req.Amount.IsPositive() {
		return nil, apperr.New(apperr.KindValidation, "noDataProvided")
	}
	return s.adjust(ctx, id, req.Amount.Neg())
}

func (s *CustomerService) adjust(ctx context.Context, id int, delta decimal.Decimal) (*models.Customer, error) {
	customer, err := s.customers.Adjust(ctx, id, delta)
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return nil, apperr.New(apperr.KindNotFound, "customerNotFound")
	case errors.Is(err, repositories.ErrBalanceGuard):
		return nil, apperr.New(apperr.KindBusinessRule, "customerNotEnoughBalance")
	case err != nil:
		return nil, apperr.Wrap(err)
	}
	log.Printf("[Customer] Balance of %d adjusted by %s", id, delta)
	return customer, nil
}

func (s *CustomerService) Delete(ctx context.Context, id int) error {
	err := s.customers.SoftDelete(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return apperr.New(apperr.KindNotFound, "customerNotFound")
	}
	if err != nil {
		return apperr.Wrap(err)
	}
	return nil
}
