package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tax is the singleton tax policy record. Exactly one active row exists;
// the bootstrap at process start inserts defaults when the table is empty.
type Tax struct {
	ID        int             `json:"id"`
	Rate      decimal.Decimal `json:"rate"`      // percentage, > 0
	Threshold decimal.Decimal `json:"threshold"` // currency amount
	IsDeleted bool            `json:"-"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// UpdateTaxRequest represents the request body for updating the tax policy
type UpdateTaxRequest struct {
	Rate      decimal.Decimal `json:"rate"`
	Threshold decimal.Decimal `json:"threshold"`
}
