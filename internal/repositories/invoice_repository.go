package repositories

import (
	"context"
	"errors"
	"sort"
	"time"

	"billing-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type InvoiceRepository struct {
	DB *pgxpool.Pool
}

func NewInvoiceRepository(db *pgxpool.Pool) *InvoiceRepository {
	return &InvoiceRepository{DB: db}
}

// StockDelta is a pending quantity change for one product. Positive means
// stock leaves the shelf, negative restocks.
type StockDelta struct {
	ProductID int
	Delta     int
}

const invoiceColumns = `id, customer_id, unique_id, date, sub_total, tax, total, is_deleted, created_at, updated_at`

func scanInvoice(row pgx.Row) (*models.Invoice, error) {
	var inv models.Invoice
	err := row.Scan(&inv.ID, &inv.CustomerID, &inv.UniqueID, &inv.Date,
		&inv.SubTotal, &inv.Tax, &inv.Total, &inv.IsDeleted, &inv.CreatedAt, &inv.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// CreateAtomic commits an invoice in a single transaction: the customer
// balance debit, every product quantity decrement, and the invoice row with
// its lines. The conditional UPDATEs re-check balance and stock inside the
// transaction, so a concurrent writer that invalidated the engine's checks
// rolls the whole commit back instead of corrupting the ledgers.
func (r *InvoiceRepository) CreateAtomic(ctx context.Context, inv *models.Invoice, lines []models.InvoiceLine, deltas []StockDelta) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE customers
         SET balance = balance - $1, updated_at=NOW()
         WHERE id=$2 AND is_deleted=FALSE AND balance >= $1`,
		inv.Total, inv.CustomerID)
	if err != nil {
		return mapGuardError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrBalanceGuard
	}

	if err := applyStockDeltas(ctx, tx, deltas); err != nil {
		return err
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO invoices(customer_id, unique_id, date, sub_total, tax, total)
         VALUES($1, $2, $3, $4, $5, $6)
         RETURNING id, created_at, updated_at`,
		inv.CustomerID, inv.UniqueID, inv.Date, inv.SubTotal, inv.Tax, inv.Total,
	).Scan(&inv.ID, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateDisplay
		}
		return err
	}

	if err := insertLines(ctx, tx, inv, lines); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// AmendAtomic commits an invoice amendment: a signed balance delta
// (positive debits the customer), signed stock deltas, wholesale line
// replacement and the recomputed totals, all-or-nothing.
func (r *InvoiceRepository) AmendAtomic(ctx context.Context, inv *models.Invoice, lines []models.InvoiceLine, balanceDelta decimal.Decimal, deltas []StockDelta) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE customers
         SET balance = balance - $1, updated_at=NOW()
         WHERE id=$2 AND is_deleted=FALSE AND balance - $1 >= 0`,
		balanceDelta, inv.CustomerID)
	if err != nil {
		return mapGuardError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrBalanceGuard
	}

	if err := applyStockDeltas(ctx, tx, deltas); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx,
		`DELETE FROM invoice_lines WHERE invoice_id=$1`, inv.ID); err != nil {
		return err
	}
	if err := insertLines(ctx, tx, inv, lines); err != nil {
		return err
	}

	tag, err = tx.Exec(ctx,
		`UPDATE invoices
         SET sub_total=$1, tax=$2, total=$3, date=$4, updated_at=NOW()
         WHERE id=$5 AND is_deleted=FALSE`,
		inv.SubTotal, inv.Tax, inv.Total, inv.Date, inv.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return tx.Commit(ctx)
}

func applyStockDeltas(ctx context.Context, tx pgx.Tx, deltas []StockDelta) error {
	// Fixed update order so concurrent amendments cannot deadlock.
	sorted := make([]StockDelta, len(deltas))
	copy(sorted, deltas)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ProductID < sorted[j].ProductID })

	for _, d := range sorted {
		if d.Delta == 0 {
			continue
		}
		tag, err := tx.Exec(ctx,
			`UPDATE products
             SET quantity = quantity - $1, updated_at=NOW()
             WHERE id=$2 AND is_deleted=FALSE AND quantity - $1 >= 0`,
			d.Delta, d.ProductID)
		if err != nil {
			gerr := mapGuardError(err)
			if errors.Is(gerr, ErrStockGuard) {
				gerr = &StockGuardError{ProductID: d.ProductID}
			}
			return gerr
		}
		if tag.RowsAffected() == 0 {
			return &StockGuardError{ProductID: d.ProductID}
		}
	}
	return nil
}

func insertLines(ctx context.Context, tx pgx.Tx, inv *models.Invoice, lines []models.InvoiceLine) error {
	inv.Lines = inv.Lines[:0]
	for _, line := range lines {
		line.InvoiceID = inv.ID
		err := tx.QueryRow(ctx,
			`INSERT INTO invoice_lines(invoice_id, product_id, quantity, line_price)
             VALUES($1, $2, $3, $4)
             RETURNING id, created_at`,
			line.InvoiceID, line.ProductID, line.Quantity, line.LinePrice,
		).Scan(&line.ID, &line.CreatedAt)
		if err != nil {
			return err
		}
		inv.Lines = append(inv.Lines, line)
	}
	return nil
}

// mapGuardError translates a CHECK constraint violation (the defense in
// depth behind the conditional updates) into the matching sentinel.
func mapGuardError(err error) error {
	if !isCheckViolation(err) {
		return err
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.TableName == "customers" {
		return ErrBalanceGuard
	}
	return ErrStockGuard
}

func (r *InvoiceRepository) Get(ctx context.Context, id int) (*models.Invoice, error) {
	inv, err := scanInvoice(r.DB.QueryRow(ctx,
		`SELECT `+invoiceColumns+` FROM invoices WHERE id=$1 AND is_deleted=FALSE`, id))
	if err != nil {
		return nil, err
	}
	if err := r.loadLines(ctx, []*models.Invoice{inv}); err != nil {
		return nil, err
	}
	return inv, nil
}

func (r *InvoiceRepository) List(ctx context.Context, page, perPage int) ([]*models.Invoice, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+invoiceColumns+` FROM invoices
         WHERE is_deleted=FALSE
         ORDER BY date DESC, id DESC
         LIMIT $1 OFFSET $2`, perPage, (page-1)*perPage)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invoices []*models.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.loadLines(ctx, invoices); err != nil {
		return nil, err
	}
	return invoices, nil
}

func (r *InvoiceRepository) loadLines(ctx context.Context, invoices []*models.Invoice) error {
	if len(invoices) == 0 {
		return nil
	}

	byID := make(map[int]*models.Invoice, len(invoices))
	ids := make([]int, 0, len(invoices))
	for _, inv := range invoices {
		byID[inv.ID] = inv
		ids = append(ids, inv.ID)
	}

	rows, err := r.DB.Query(ctx,
		`SELECT id, invoice_id, product_id, quantity, line_price, created_at
         FROM invoice_lines WHERE invoice_id = ANY($1)
         ORDER BY id`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var line models.InvoiceLine
		if err := rows.Scan(&line.ID, &line.InvoiceID, &line.ProductID,
			&line.Quantity, &line.LinePrice, &line.CreatedAt); err != nil {
			return err
		}
		if inv, ok := byID[line.InvoiceID]; ok {
			inv.Lines = append(inv.Lines, line)
		}
	}
	return rows.Err()
}

func (r *InvoiceRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRow(ctx,
		`SELECT COUNT(*) FROM invoices WHERE is_deleted=FALSE`).Scan(&n)
	return n, err
}

func (r *InvoiceRepository) CountDeleted(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRow(ctx,
		`SELECT COUNT(*) FROM invoices WHERE is_deleted=TRUE`).Scan(&n)
	return n, err
}

// CountByYear counts invoices dated inside the given UTC calendar year.
// Feeds the display-id sequence; deliberately counts soft-deleted rows too,
// since their display ids remain reserved.
func (r *InvoiceRepository) CountByYear(ctx context.Context, year int) (int, error) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)

	var n int
	err := r.DB.QueryRow(ctx,
		`SELECT COUNT(*) FROM invoices WHERE date >= $1 AND date < $2`,
		start, end).Scan(&n)
	return n, err
}

// SoftDelete hides the invoice. Balance and stock effects are intentionally
// left in place; deletion is an administrative hide, not a reversal.
func (r *InvoiceRepository) SoftDelete(ctx context.Context, id int) error {
	tag, err := r.DB.Exec(ctx,
		`UPDATE invoices SET is_deleted=TRUE, updated_at=NOW()
         WHERE id=$1 AND is_deleted=FALSE`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
