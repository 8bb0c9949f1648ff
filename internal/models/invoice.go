package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice is a committed sale. UniqueID is the human-facing display id of
// form "YEAR-NNNN", distinct from the primary key. Totals always satisfy
// Total = SubTotal + Tax and SubTotal = sum of line prices.
type Invoice struct {
	ID         int             `json:"id"`
	CustomerID int             `json:"customer_id"`
	UniqueID   string          `json:"unique_id"`
	Date       time.Time       `json:"date"`
	SubTotal   decimal.Decimal `json:"sub_total"`
	Tax        decimal.Decimal `json:"tax"`
	Total      decimal.Decimal `json:"total"`
	IsDeleted  bool            `json:"-"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
	Lines      []InvoiceLine   `json:"invoice_lines"`
}

// InvoiceLine is owned exclusively by its invoice and replaced wholesale on
// amendment. LinePrice is derived from the product price at invoice time.
type InvoiceLine struct {
	ID        int             `json:"id"`
	InvoiceID int             `json:"invoice_id"`
	ProductID int             `json:"product_id"`
	Quantity  int             `json:"quantity"`
	LinePrice decimal.Decimal `json:"line_price"`
	CreatedAt time.Time       `json:"created_at"`
}

// InvoiceLineRequest is a requested (product, quantity) pair. On create the
// quantity must be >= 1; on amendment 0 means "remove the line".
type InvoiceLineRequest struct {
	ProductID int `json:"product_id"`
	Quantity  int `json:"quantity"`
}

// CreateInvoiceRequest represents the request body for creating an invoice
type CreateInvoiceRequest struct {
	CustomerID int                  `json:"customer_id"`
	Lines      []InvoiceLineRequest `json:"invoice_lines"`
}

// AmendInvoiceRequest represents the request body for amending an invoice.
// Date is optional ("2006-01-02"); when empty the original date is kept.
type AmendInvoiceRequest struct {
	Lines []InvoiceLineRequest `json:"invoice_lines"`
	Date  string               `json:"date,omitempty"`
}
