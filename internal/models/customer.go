package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Customer struct {
	ID        int             `json:"id"`
	FirstName string          `json:"first_name"`
	LastName  string          `json:"last_name"`
	Address   string          `json:"address"`
	Phone     string          `json:"phone"`
	Balance   decimal.Decimal `json:"balance"`
	IsDeleted bool            `json:"-"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// CreateCustomerRequest represents the request body for creating a customer
type CreateCustomerRequest struct {
	FirstName string          `json:"first_name"`
	LastName  string          `json:"last_name"`
	Address   string          `json:"address"`
	Phone     string          `json:"phone"`
	Balance   decimal.Decimal `json:"balance"`
}

// UpdateCustomerRequest represents the request body for updating a customer
type UpdateCustomerRequest struct {
	FirstName string          `json:"first_name"`
	LastName  string          `json:"last_name"`
	Address   string          `json:"address"`
	Phone     string          `json:"phone"`
	Balance   decimal.Decimal `json:"balance"`
}

// AdjustBalanceRequest is the body for deposit/withdraw endpoints
type AdjustBalanceRequest struct {
	Amount decimal.Decimal `json:"amount"`
}
