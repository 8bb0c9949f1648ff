package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID         int             `json:"id"`
	SupplierID int             `json:"supplier_id"`
	Name       string          `json:"name"`
	Barcode    string          `json:"barcode"`
	Quantity   int             `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
	Image      string          `json:"image"`
	IsDeleted  bool            `json:"-"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// CreateProductRequest represents the request body for creating a product
type CreateProductRequest struct {
	SupplierID int             `json:"supplier_id"`
	Name       string          `json:"name"`
	Barcode    string          `json:"barcode"`
	Quantity   int             `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
	Image      string          `json:"image"`
}

// UpdateProductRequest represents the request body for updating a product
type UpdateProductRequest struct {
	SupplierID int             `json:"supplier_id"`
	Name       string          `json:"name"`
	Barcode    string          `json:"barcode"`
	Quantity   int             `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
	Image      string          `json:"image"`
}

// AdjustStockRequest is the body for stock-in/stock-out endpoints
type AdjustStockRequest struct {
	Quantity int `json:"quantity"`
}
