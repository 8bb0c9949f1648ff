package repositories

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// Sentinel errors surfaced by the repositories so services can map them to
// localized domain failures.
var (
	ErrNotFound         = errors.New("record not found")
	ErrBalanceGuard     = errors.New("balance would go negative")
	ErrStockGuard       = errors.New("quantity would go negative")
	ErrDuplicateDisplay = errors.New("duplicate invoice display id")
	ErrDuplicateEmail   = errors.New("email already registered")
)

// StockGuardError is an ErrStockGuard that names the product whose
// decrement failed, so callers can surface the offending id.
type StockGuardError struct {
	ProductID int
}

func (e *StockGuardError) Error() string {
	return fmt.Sprintf("quantity would go negative for product %d", e.ProductID)
}

func (e *StockGuardError) Unwrap() error { return ErrStockGuard }

const (
	pgUniqueViolation = "23505"
	pgCheckViolation  = "23514"
)

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

func isCheckViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgCheckViolation
}
