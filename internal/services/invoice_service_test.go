package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"billing-backend/internal/apperr"
	"billing-backend/internal/models"
	"billing-backend/internal/repositories"
	"billing-backend/internal/timeutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// In-memory fakes mirroring the repository guard semantics, so the engine
// can be exercised without a database.

type memProducts struct {
	m map[int]*models.Product
}

func (s *memProducts) GetByIDs(_ context.Context, ids []int) ([]*models.Product, error) {
	var out []*models.Product
	for _, id := range ids {
		if p, ok := s.m[id]; ok && !p.IsDeleted {
			out = append(out, p)
		}
	}
	return out, nil
}

type memCustomers struct {
	m map[int]*models.Customer
}

func (s *memCustomers) Get(_ context.Context, id int) (*models.Customer, error) {
	c, ok := s.m[id]
	if !ok || c.IsDeleted {
		return nil, repositories.ErrNotFound
	}
	return c, nil
}

type memInvoices struct {
	m         map[int]*models.Invoice
	nextID    int
	products  *memProducts
	customers *memCustomers
}

func (s *memInvoices) Get(_ context.Context, id int) (*models.Invoice, error) {
	inv, ok := s.m[id]
	if !ok || inv.IsDeleted {
		return nil, repositories.ErrNotFound
	}
	cp := *inv
	cp.Lines = append([]models.InvoiceLine(nil), inv.Lines...)
	return &cp, nil
}

func (s *memInvoices) List(_ context.Context, _, _ int) ([]*models.Invoice, error) {
	var out []*models.Invoice
	for _, inv := range s.m {
		if !inv.IsDeleted {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (s *memInvoices) Count(context.Context) (int, error) {
	n := 0
	for _, inv := range s.m {
		if !inv.IsDeleted {
			n++
		}
	}
	return n, nil
}

func (s *memInvoices) CountDeleted(context.Context) (int, error) {
	n := 0
	for _, inv := range s.m {
		if inv.IsDeleted {
			n++
		}
	}
	return n, nil
}

func (s *memInvoices) CountByYear(_ context.Context, year int) (int, error) {
	n := 0
	for _, inv := range s.m {
		if inv.Date.UTC().Year() == year {
			n++
		}
	}
	return n, nil
}

func (s *memInvoices) CreateAtomic(_ context.Context, inv *models.Invoice, lines []models.InvoiceLine, deltas []repositories.StockDelta) error {
	c, ok := s.customers.m[inv.CustomerID]
	if !ok || c.Balance.LessThan(inv.Total) {
		return repositories.ErrBalanceGuard
	}
	for _, d := range deltas {
		p, ok := s.products.m[d.ProductID]
		if !ok || p.Quantity < d.Delta {
			return &repositories.StockGuardError{ProductID: d.ProductID}
		}
	}

	c.Balance = c.Balance.Sub(inv.Total)
	for _, d := range deltas {
		s.products.m[d.ProductID].Quantity -= d.Delta
	}

	s.nextID++
	inv.ID = s.nextID
	for i := range lines {
		lines[i].InvoiceID = inv.ID
	}
	inv.Lines = lines

	cp := *inv
	cp.Lines = append([]models.InvoiceLine(nil), lines...)
	s.m[inv.ID] = &cp
	return nil
}

func (s *memInvoices) AmendAtomic(_ context.Context, inv *models.Invoice, lines []models.InvoiceLine, balanceDelta decimal.Decimal, deltas []repositories.StockDelta) error {
	stored, ok := s.m[inv.ID]
	if !ok || stored.IsDeleted {
		return repositories.ErrNotFound
	}
	c, ok := s.customers.m[inv.CustomerID]
	if !ok || c.Balance.Sub(balanceDelta).IsNegative() {
		return repositories.ErrBalanceGuard
	}
	for _, d := range deltas {
		p, ok := s.products.m[d.ProductID]
		if !ok || p.Quantity-d.Delta < 0 {
			return &repositories.StockGuardError{ProductID: d.ProductID}
		}
	}

	c.Balance = c.Balance.Sub(balanceDelta)
	for _, d := range deltas {
		s.products.m[d.ProductID].Quantity -= d.Delta
	}

	for i := range lines {
		lines[i].InvoiceID = inv.ID
	}
	stored.Lines = append([]models.InvoiceLine(nil), lines...)
	stored.SubTotal = inv.SubTotal
	stored.Tax = inv.Tax
	stored.Total = inv.Total
	stored.Date = inv.Date
	inv.Lines = stored.Lines
	return nil
}

func (s *memInvoices) SoftDelete(_ context.Context, id int) error {
	inv, ok := s.m[id]
	if !ok || inv.IsDeleted {
		return repositories.ErrNotFound
	}
	inv.IsDeleted = true
	return nil
}

type stubTax struct {
	policy *models.Tax
	err    error
}

func (s *stubTax) Current(context.Context) (*models.Tax, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.policy, nil
}

type fixture struct {
	svc       *InvoiceService
	products  *memProducts
	customers *memCustomers
	invoices  *memInvoices
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	products := &memProducts{m: map[int]*models.Product{
		1: {ID: 1, Name: "Rice 5kg", Quantity: 10, Price: decimal.NewFromFloat(20.00)},
		2: {ID: 2, Name: "Oil 1L", Quantity: 5, Price: decimal.NewFromFloat(30.00)},
		3: {ID: 3, Name: "Sugar 1kg", Quantity: 2, Price: decimal.NewFromFloat(49.99)},
	}}
	customers := &memCustomers{m: map[int]*models.Customer{
		7: {ID: 7, FirstName: "Sara", Balance: decimal.NewFromFloat(500.00)},
	}}
	invoices := &memInvoices{
		m:         make(map[int]*models.Invoice),
		products:  products,
		customers: customers,
	}
	tax := &stubTax{policy: &models.Tax{
		Rate:      decimal.NewFromFloat(5.0),
		Threshold: decimal.NewFromFloat(50.0),
	}}
	return &fixture{
		svc:       NewInvoiceService(invoices, products, customers, tax, nil),
		products:  products,
		customers: customers,
		invoices:  invoices,
	}
}

func TestCreateInvoiceDerivedTotals(t *testing.T) {
	f := newFixture(t)

	inv, err := f.svc.Create(context.Background(), &models.CreateInvoiceRequest{
		CustomerID: 7,
		Lines: []models.InvoiceLineRequest{
			{ProductID: 1, Quantity: 2}, // 40.00
			{ProductID: 2, Quantity: 2}, // 60.00
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "100", inv.SubTotal.String())
	assert.Equal(t, "5", inv.Tax.String())
	assert.Equal(t, "105", inv.Total.String())

	lineSum := decimal.Zero
	for _, line := range inv.Lines {
		lineSum = lineSum.Add(line.LinePrice)
	}
	assert.True(t, inv.SubTotal.Equal(lineSum))
	assert.True(t, inv.Total.Equal(inv.SubTotal.Add(inv.Tax)))

	// Ledger effects applied exactly once
	assert.Equal(t, 8, f.products.m[1].Quantity)
	assert.Equal(t, 3, f.products.m[2].Quantity)
	assert.Equal(t, "395", f.customers.m[7].Balance.String())
}

func TestCreateInvoiceTaxBelowThreshold(t *testing.T) {
	f := newFixture(t)

	inv, err := f.svc.Create(context.Background(), &models.CreateInvoiceRequest{
		CustomerID: 7,
		Lines:      []models.InvoiceLineRequest{{ProductID: 3, Quantity: 1}}, // 49.99
	})
	require.NoError(t, err)

	assert.True(t, inv.Tax.IsZero())
	assert.Equal(t, "49.99", inv.Total.String())
}

func TestCreateInvoiceTaxThresholdInclusive(t *testing.T) {
	f := newFixture(t)
	f.products.m[4] = &models.Product{ID: 4, Name: "Flour", Quantity: 3, Price: decimal.NewFromFloat(50.00)}

	inv, err := f.svc.Create(context.Background(), &models.CreateInvoiceRequest{
		CustomerID: 7,
		Lines:      []models.InvoiceLineRequest{{ProductID: 4, Quantity: 1}},
	})
	require.NoError(t, err)

	// sub_total equal to the threshold is taxed
	assert.Equal(t, "2.5", inv.Tax.String())
	assert.Equal(t, "52.5", inv.Total.String())
}

func TestCreateInvoiceProductNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), &models.CreateInvoiceRequest{
		CustomerID: 7,
		Lines: []models.InvoiceLineRequest{
			{ProductID: 1, Quantity: 1},
			{ProductID: 98, Quantity: 1},
			{ProductID: 99, Quantity: 1},
		},
	})
	require.Error(t, err)

	assert.Equal(t, "productNotFound", apperr.KeyOf(err))
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.Equal(t, "98, 99", apperr.ArgsOf(err)["ids"])
	assert.Equal(t, 10, f.products.m[1].Quantity)
	assert.Equal(t, "500", f.customers.m[7].Balance.String())
}

func TestCreateInvoiceOutOfStock(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), &models.CreateInvoiceRequest{
		CustomerID: 7,
		Lines: []models.InvoiceLineRequest{
			{ProductID: 1, Quantity: 1},
			{ProductID: 2, Quantity: 6}, // only 5 on hand
		},
	})
	require.Error(t, err)

	assert.Equal(t, "productNotInStock", apperr.KeyOf(err))
	assert.Equal(t, "2", apperr.ArgsOf(err)["ids"])
	assert.Equal(t, 10, f.products.m[1].Quantity)
	assert.Equal(t, 5, f.products.m[2].Quantity)
	assert.Equal(t, "500", f.customers.m[7].Balance.String())
	assert.Empty(t, f.invoices.m)
}

func TestCreateInvoiceDuplicateLinesAggregated(t *testing.T) {
	f := newFixture(t)

	// Each line alone fits the 5 on hand; together they do not.
	_, err := f.svc.Create(context.Background(), &models.CreateInvoiceRequest{
		CustomerID: 7,
		Lines: []models.InvoiceLineRequest{
			{ProductID: 2, Quantity: 3},
			{ProductID: 2, Quantity: 3},
		},
	})
	require.Error(t, err)

	assert.Equal(t, "productNotInStock", apperr.KeyOf(err))
	assert.Equal(t, "2", apperr.ArgsOf(err)["ids"])
	assert.Equal(t, 5, f.products.m[2].Quantity)
	assert.Equal(t, "500", f.customers.m[7].Balance.String())
	assert.Empty(t, f.invoices.m)
}

func TestCreateInvoiceDuplicateLinesWithinStock(t *testing.T) {
	f := newFixture(t)

	inv, err := f.svc.Create(context.Background(), &models.CreateInvoiceRequest{
		CustomerID: 7,
		Lines: []models.InvoiceLineRequest{
			{ProductID: 1, Quantity: 3}, // 60.00
			{ProductID: 1, Quantity: 4}, // 80.00
		},
	})
	require.NoError(t, err)

	// Both lines kept, stock decremented by the cumulative quantity once
	require.Len(t, inv.Lines, 2)
	assert.Equal(t, "140", inv.SubTotal.String())
	assert.Equal(t, "147", inv.Total.String())
	assert.Equal(t, 3, f.products.m[1].Quantity)
	assert.Equal(t, "353", f.customers.m[7].Balance.String())
}

func TestCreateInvoiceInsufficientBalance(t *testing.T) {
	f := newFixture(t)
	f.customers.m[7].Balance = decimal.NewFromFloat(50.00)

	_, err := f.svc.Create(context.Background(), &models.CreateInvoiceRequest{
		CustomerID: 7,
		Lines: []models.InvoiceLineRequest{
			{ProductID: 1, Quantity: 2},
			{ProductID: 2, Quantity: 2},
		},
	})
	require.Error(t, err)

	assert.Equal(t, "customerNotEnoughBalance", apperr.KeyOf(err))
	assert.Equal(t, apperr.KindBusinessRule, apperr.KindOf(err))
	assert.Equal(t, 10, f.products.m[1].Quantity)
	assert.Equal(t, 5, f.products.m[2].Quantity)
	assert.Equal(t, "50", f.customers.m[7].Balance.String())
	assert.Empty(t, f.invoices.m)
}

func TestCreateInvoiceCustomerNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), &models.CreateInvoiceRequest{
		CustomerID: 404,
		Lines:      []models.InvoiceLineRequest{{ProductID: 1, Quantity: 1}},
	})
	require.Error(t, err)
	assert.Equal(t, "customerNotFound", apperr.KeyOf(err))
}

func TestCreateInvoiceMissingTaxPolicy(t *testing.T) {
	f := newFixture(t)
	f.svc.tax = &stubTax{err: apperr.New(apperr.KindBusinessRule, "taxRateOrThresholdNotFound")}

	_, err := f.svc.Create(context.Background(), &models.CreateInvoiceRequest{
		CustomerID: 7,
		Lines:      []models.InvoiceLineRequest{{ProductID: 1, Quantity: 2}},
	})
	require.Error(t, err)

	assert.Equal(t, "taxRateOrThresholdNotFound", apperr.KeyOf(err))
	assert.Equal(t, 10, f.products.m[1].Quantity)
	assert.Equal(t, "500", f.customers.m[7].Balance.String())
}

func TestCreateInvoiceDisplayIDSequence(t *testing.T) {
	f := newFixture(t)

	// Two invoices already dated this year, one of them soft-deleted:
	// deleted invoices keep their reserved display ids.
	now := timeutil.Now()
	f.invoices.m[1] = &models.Invoice{ID: 1, Date: now}
	f.invoices.m[2] = &models.Invoice{ID: 2, Date: now, IsDeleted: true}
	f.invoices.nextID = 2

	inv, err := f.svc.Create(context.Background(), &models.CreateInvoiceRequest{
		CustomerID: 7,
		Lines:      []models.InvoiceLineRequest{{ProductID: 1, Quantity: 1}},
	})
	require.NoError(t, err)

	want := fmt.Sprintf("%d-0003", time.Now().UTC().Year())
	assert.Equal(t, want, inv.UniqueID)
}

func createBaseInvoice(t *testing.T, f *fixture) *models.Invoice {
	t.Helper()
	inv, err := f.svc.Create(context.Background(), &models.CreateInvoiceRequest{
		CustomerID: 7,
		Lines: []models.InvoiceLineRequest{
			{ProductID: 1, Quantity: 2}, // 40.00
			{ProductID: 2, Quantity: 2}, // 60.00
		},
	})
	require.NoError(t, err)
	return inv
}

func TestAmendInvoiceNoDifference(t *testing.T) {
	f := newFixture(t)
	inv := createBaseInvoice(t, f)

	balanceBefore := f.customers.m[7].Balance
	qtyBefore := f.products.m[1].Quantity

	got, changed, err := f.svc.Amend(context.Background(), inv.ID, &models.AmendInvoiceRequest{
		Lines: []models.InvoiceLineRequest{
			{ProductID: 1, Quantity: 2},
			{ProductID: 2, Quantity: 2},
		},
	})
	require.NoError(t, err)

	assert.False(t, changed)
	assert.True(t, got.Total.Equal(inv.Total))
	assert.True(t, f.customers.m[7].Balance.Equal(balanceBefore))
	assert.Equal(t, qtyBefore, f.products.m[1].Quantity)
}

func TestAmendInvoiceRemoveLine(t *testing.T) {
	f := newFixture(t)
	inv := createBaseInvoice(t, f)
	// After create: p1=8, p2=3, balance=395

	got, changed, err := f.svc.Amend(context.Background(), inv.ID, &models.AmendInvoiceRequest{
		Lines: []models.InvoiceLineRequest{
			{ProductID: 1, Quantity: 2},
			{ProductID: 2, Quantity: 0}, // line removed
		},
	})
	require.NoError(t, err)
	require.True(t, changed)

	// Removed line restocked and credited; the other line untouched
	assert.Equal(t, 5, f.products.m[2].Quantity)
	assert.Equal(t, 8, f.products.m[1].Quantity)
	assert.Equal(t, "455", f.customers.m[7].Balance.String())

	// Totals recomputed: 40.00 sub_total, below threshold so no tax
	assert.Equal(t, "40", got.SubTotal.String())
	assert.True(t, got.Tax.IsZero())
	require.Len(t, got.Lines, 1)
	assert.Equal(t, 1, got.Lines[0].ProductID)
}

func TestAmendInvoiceIncreaseQuantity(t *testing.T) {
	f := newFixture(t)
	inv := createBaseInvoice(t, f)

	got, changed, err := f.svc.Amend(context.Background(), inv.ID, &models.AmendInvoiceRequest{
		Lines: []models.InvoiceLineRequest{
			{ProductID: 1, Quantity: 4}, // +2 at 20.00
			{ProductID: 2, Quantity: 2},
		},
	})
	require.NoError(t, err)
	require.True(t, changed)

	assert.Equal(t, 6, f.products.m[1].Quantity)
	assert.Equal(t, "355", f.customers.m[7].Balance.String())
	assert.Equal(t, "140", got.SubTotal.String())
	assert.Equal(t, "7", got.Tax.String())
	assert.Equal(t, "147", got.Total.String())
}

func TestAmendInvoiceIncreaseBeyondStock(t *testing.T) {
	f := newFixture(t)
	inv := createBaseInvoice(t, f)
	balanceBefore := f.customers.m[7].Balance

	_, _, err := f.svc.Amend(context.Background(), inv.ID, &models.AmendInvoiceRequest{
		Lines: []models.InvoiceLineRequest{
			{ProductID: 1, Quantity: 2},
			{ProductID: 2, Quantity: 6}, // +4, only 3 left on the shelf
		},
	})
	require.Error(t, err)

	assert.Equal(t, "productNotInStock", apperr.KeyOf(err))
	assert.Equal(t, 3, f.products.m[2].Quantity)
	assert.True(t, f.customers.m[7].Balance.Equal(balanceBefore))
}

func TestAmendInvoiceNewProductRejected(t *testing.T) {
	f := newFixture(t)
	inv := createBaseInvoice(t, f)

	_, _, err := f.svc.Amend(context.Background(), inv.ID, &models.AmendInvoiceRequest{
		Lines: []models.InvoiceLineRequest{
			{ProductID: 1, Quantity: 2},
			{ProductID: 3, Quantity: 1}, // never on this invoice
		},
	})
	require.Error(t, err)

	assert.Equal(t, "productNotFound", apperr.KeyOf(err))
	assert.Equal(t, "3", apperr.ArgsOf(err)["ids"])
}

func TestAmendInvoiceNotFound(t *testing.T) {
	f := newFixture(t)

	_, _, err := f.svc.Amend(context.Background(), 12345, &models.AmendInvoiceRequest{
		Lines: []models.InvoiceLineRequest{{ProductID: 1, Quantity: 1}},
	})
	require.Error(t, err)
	assert.Equal(t, "noRecordFound", apperr.KeyOf(err))
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestSoftDeleteKeepsLedgerEffects(t *testing.T) {
	f := newFixture(t)
	inv := createBaseInvoice(t, f)

	require.NoError(t, f.svc.Delete(context.Background(), inv.ID))

	// Deletion is an administrative hide only
	_, err := f.svc.Get(context.Background(), inv.ID)
	assert.Equal(t, "noRecordFound", apperr.KeyOf(err))
	assert.Equal(t, 8, f.products.m[1].Quantity)
	assert.Equal(t, "395", f.customers.m[7].Balance.String())
}

func TestCommitStockGuardCarriesProductID(t *testing.T) {
	err := mapCommitError(&repositories.StockGuardError{ProductID: 9})
	assert.Equal(t, "productNotInStock", apperr.KeyOf(err))
	assert.Equal(t, apperr.KindBusinessRule, apperr.KindOf(err))
	assert.Equal(t, "9", apperr.ArgsOf(err)["ids"])

	// A bare sentinel still fills the ids placeholder, with an empty list.
	err = mapCommitError(repositories.ErrStockGuard)
	assert.Equal(t, "productNotInStock", apperr.KeyOf(err))
	ids, ok := apperr.ArgsOf(err)["ids"]
	assert.True(t, ok)
	assert.Empty(t, ids)
}
