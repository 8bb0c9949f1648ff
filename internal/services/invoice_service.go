package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"
	"time"

	"billing-backend/internal/apperr"
	"billing-backend/internal/metrics"
	"billing-backend/internal/models"
	"billing-backend/internal/repositories"
	"billing-backend/internal/timeutil"

	"github.com/shopspring/decimal"
)

// ProductLedger is the product store surface the invoice engine needs.
type ProductLedger interface {
	GetByIDs(ctx context.Context, ids []int) ([]*models.Product, error)
}

// CustomerLedger is the customer store surface the invoice engine needs.
type CustomerLedger interface {
	Get(ctx context.Context, id int) (*models.Customer, error)
}

// TaxProvider yields the active tax policy, already validated.
type TaxProvider interface {
	Current(ctx context.Context) (*models.Tax, error)
}

// InvoiceStore is the invoice persistence surface, including the two
// all-or-nothing commit paths.
type InvoiceStore interface {
	Get(ctx context.Context, id int) (*models.Invoice, error)
	List(ctx context.Context, page, perPage int) ([]*models.Invoice, error)
	Count(ctx context.Context) (int, error)
	CountDeleted(ctx context.Context) (int, error)
	CountByYear(ctx context.Context, year int) (int, error)
	CreateAtomic(ctx context.Context, inv *models.Invoice, lines []models.InvoiceLine, deltas []repositories.StockDelta) error
	AmendAtomic(ctx context.Context, inv *models.Invoice, lines []models.InvoiceLine, balanceDelta decimal.Decimal, deltas []repositories.StockDelta) error
	SoftDelete(ctx context.Context, id int) error
}

// Broadcaster pushes committed invoice events to live listeners.
// Fire-and-forget; a nil broadcaster disables the feed.
type Broadcaster interface {
	Broadcast(event string, payload interface{})
}

type InvoiceService struct {
	invoices  InvoiceStore
	products  ProductLedger
	customers CustomerLedger
	tax       TaxProvider
	live      Broadcaster
}

func NewInvoiceService(invoices InvoiceStore, products ProductLedger, customers CustomerLedger, tax TaxProvider, live Broadcaster) *InvoiceService {
	return &InvoiceService{
		invoices:  invoices,
		products:  products,
		customers: customers,
		tax:       tax,
		live:      live,
	}
}

// Create runs the full invoice pipeline: batched product lookup, stock and
// balance checks, derived totals, display-id generation and the atomic
// commit. Every check happens before any mutation.
func (s *InvoiceService) Create(ctx context.Context, req *models.CreateInvoiceRequest) (*models.Invoice, error) {
	inv, err := s.create(ctx, req)
	if err != nil {
		metrics.InvoiceFailuresTotal.WithLabelValues(apperr.KeyOf(err)).Inc()
		return nil, err
	}
	metrics.InvoicesCreatedTotal.Inc()
	if s.live != nil {
		s.live.Broadcast("invoice.created", inv)
	}
	log.Printf("[Invoice] Created %s for customer %d, total %s", inv.UniqueID, inv.CustomerID, inv.Total)
	return inv, nil
}

func (s *InvoiceService) create(ctx context.Context, req *models.CreateInvoiceRequest) (*models.Invoice, error) {
	if req == nil || req.CustomerID <= 0 || len(req.Lines) == 0 {
		return nil, apperr.New(apperr.KindValidation, "noDataProvided")
	}
	for _, line := range req.Lines {
		if line.ProductID <= 0 || line.Quantity < 1 {
			return nil, apperr.New(apperr.KindValidation, "noDataProvided")
		}
	}

	// Aggregate per product so a request listing the same product on two
	// lines is checked against the cumulative quantity.
	need := make(map[int]int, len(req.Lines))
	ids := make([]int, 0, len(req.Lines))
	for _, line := range req.Lines {
		if _, ok := need[line.ProductID]; !ok {
			ids = append(ids, line.ProductID)
		}
		need[line.ProductID] += line.Quantity
	}

	products, err := s.products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, apperr.Wrap(err)
	}
	byID := make(map[int]*models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	var missing []int
	for _, id := range ids {
		if _, ok := byID[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return nil, apperr.Newf(apperr.KindNotFound, "productNotFound", idsArg(missing))
	}

	var short []int
	for _, id := range ids {
		if byID[id].Quantity < need[id] {
			short = append(short, id)
		}
	}
	if len(short) > 0 {
		return nil, apperr.Newf(apperr.KindBusinessRule, "productNotInStock", idsArg(short))
	}

	customer, err := s.customers.Get(ctx, req.CustomerID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperr.New(apperr.KindNotFound, "customerNotFound")
	}
	if err != nil {
		return nil, apperr.Wrap(err)
	}

	lines := make([]models.InvoiceLine, 0, len(req.Lines))
	subTotal := decimal.Zero
	for _, line := range req.Lines {
		p := byID[line.ProductID]
		linePrice := p.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		lines = append(lines, models.InvoiceLine{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			LinePrice: linePrice,
		})
		subTotal = subTotal.Add(linePrice)
	}
	deltas := make([]repositories.StockDelta, 0, len(ids))
	for _, id := range ids {
		deltas = append(deltas, repositories.StockDelta{ProductID: id, Delta: need[id]})
	}

	uniqueID, err := s.nextDisplayID(ctx)
	if err != nil {
		return nil, apperr.Wrap(err)
	}

	tax, err := s.computeTax(ctx, subTotal)
	if err != nil {
		return nil, err
	}
	total := subTotal.Add(tax)

	if customer.Balance.LessThan(total) {
		return nil, apperr.New(apperr.KindBusinessRule, "customerNotEnoughBalance")
	}

	inv := &models.Invoice{
		CustomerID: req.CustomerID,
		UniqueID:   uniqueID,
		Date:       timeutil.Now(),
		SubTotal:   subTotal,
		Tax:        tax,
		Total:      total,
	}
	if err := s.invoices.CreateAtomic(ctx, inv, lines, deltas); err != nil {
		return nil, mapCommitError(err)
	}
	return inv, nil
}

// Amend applies a diff-based update. The diff is keyed off the existing
// lines: removals restock and credit, increases re-check balance and stock
// against running values, and products absent from the original invoice are
// rejected. Returns changed=false with no mutation when every delta is zero.
func (s *InvoiceService) Amend(ctx context.Context, id int, req *models.AmendInvoiceRequest) (*models.Invoice, bool, error) {
	inv, changed, err := s.amend(ctx, id, req)
	if err != nil {
		metrics.InvoiceFailuresTotal.WithLabelValues(apperr.KeyOf(err)).Inc()
		return nil, false, err
	}
	if changed {
		metrics.InvoicesAmendedTotal.Inc()
		if s.live != nil {
			s.live.Broadcast("invoice.amended", inv)
		}
		log.Printf("[Invoice] Amended %s, new total %s", inv.UniqueID, inv.Total)
	}
	return inv, changed, nil
}

func (s *InvoiceService) amend(ctx context.Context, id int, req *models.AmendInvoiceRequest) (*models.Invoice, bool, error) {
	if req == nil || (len(req.Lines) == 0 && req.Date == "") {
		return nil, false, apperr.New(apperr.KindValidation, "noDataProvided")
	}
	for _, line := range req.Lines {
		if line.ProductID <= 0 || line.Quantity < 0 {
			return nil, false, apperr.New(apperr.KindValidation, "noDataProvided")
		}
	}

	inv, err := s.invoices.Get(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, false, apperr.New(apperr.KindNotFound, "noRecordFound")
	}
	if err != nil {
		return nil, false, apperr.Wrap(err)
	}

	oldQty := make(map[int]int, len(inv.Lines))
	for _, line := range inv.Lines {
		oldQty[line.ProductID] = line.Quantity
	}

	// The diff is keyed off existing lines; a product the invoice never
	// contained has no old quantity to diff against.
	newQty := make(map[int]int, len(req.Lines))
	for _, line := range req.Lines {
		if _, ok := oldQty[line.ProductID]; !ok {
			return nil, false, apperr.Newf(apperr.KindNotFound, "productNotFound", idsArg([]int{line.ProductID}))
		}
		newQty[line.ProductID] = line.Quantity
	}

	deltas := make(map[int]int, len(oldQty))
	for pid, oq := range oldQty {
		nq, ok := newQty[pid]
		if !ok {
			if len(req.Lines) == 0 {
				// Date-only amendment keeps the line set untouched.
				nq = oq
			} else {
				nq = 0
			}
		}
		deltas[pid] = nq - oq
	}

	anyDelta := false
	for _, d := range deltas {
		if d != 0 {
			anyDelta = true
			break
		}
	}
	if !anyDelta && req.Date == "" {
		return inv, false, nil
	}

	pids := make([]int, 0, len(oldQty))
	for pid := range oldQty {
		pids = append(pids, pid)
	}
	sort.Ints(pids)

	products, err := s.products.GetByIDs(ctx, pids)
	if err != nil {
		return nil, false, apperr.Wrap(err)
	}
	byID := make(map[int]*models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	var missing []int
	for _, pid := range pids {
		if _, ok := byID[pid]; !ok {
			missing = append(missing, pid)
		}
	}
	if len(missing) > 0 {
		return nil, false, apperr.Newf(apperr.KindNotFound, "productNotFound", idsArg(missing))
	}

	customer, err := s.customers.Get(ctx, inv.CustomerID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, false, apperr.New(apperr.KindNotFound, "customerNotFound")
	}
	if err != nil {
		return nil, false, apperr.Wrap(err)
	}

	// Walk the deltas against running balance and stock so later deltas in
	// the same request see the effect of earlier ones.
	runningBalance := customer.Balance
	balanceDelta := decimal.Zero
	stockDeltas := make([]repositories.StockDelta, 0, len(pids))
	for _, pid := range pids {
		d := deltas[pid]
		if d == 0 {
			continue
		}
		p := byID[pid]
		amount := p.Price.Mul(decimal.NewFromInt(int64(abs(d))))
		if d < 0 {
			runningBalance = runningBalance.Add(amount)
			balanceDelta = balanceDelta.Sub(amount)
		} else {
			if runningBalance.LessThan(amount) {
				return nil, false, apperr.New(apperr.KindBusinessRule, "customerNotEnoughBalance")
			}
			if p.Quantity < d {
				return nil, false, apperr.Newf(apperr.KindBusinessRule, "productNotInStock", idsArg([]int{pid}))
			}
			runningBalance = runningBalance.Sub(amount)
			balanceDelta = balanceDelta.Add(amount)
		}
		stockDeltas = append(stockDeltas, repositories.StockDelta{ProductID: pid, Delta: d})
	}

	// Rebuild the final line set at current prices. Quantity zero (or an
	// omitted product) drops the line.
	finalQty := make(map[int]int, len(oldQty))
	for pid, oq := range oldQty {
		finalQty[pid] = oq + deltas[pid]
	}
	lines := make([]models.InvoiceLine, 0, len(finalQty))
	subTotal := decimal.Zero
	for _, pid := range pids {
		q := finalQty[pid]
		if q == 0 {
			continue
		}
		linePrice := byID[pid].Price.Mul(decimal.NewFromInt(int64(q)))
		lines = append(lines, models.InvoiceLine{
			ProductID: pid,
			Quantity:  q,
			LinePrice: linePrice,
		})
		subTotal = subTotal.Add(linePrice)
	}

	tax, err := s.computeTax(ctx, subTotal)
	if err != nil {
		return nil, false, err
	}

	if req.Date != "" {
		date, perr := timeutil.ParseBusinessDate(req.Date)
		if perr != nil {
			return nil, false, apperr.New(apperr.KindValidation, "noDataProvided")
		}
		inv.Date = date
	}
	inv.SubTotal = subTotal
	inv.Tax = tax
	inv.Total = subTotal.Add(tax)

	if err := s.invoices.AmendAtomic(ctx, inv, lines, balanceDelta, stockDeltas); err != nil {
		return nil, false, mapCommitError(err)
	}
	return inv, true, nil
}

func (s *InvoiceService) Get(ctx context.Context, id int) (*models.Invoice, error) {
	inv, err := s.invoices.Get(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperr.New(apperr.KindNotFound, "noRecordFound")
	}
	if err != nil {
		return nil, apperr.Wrap(err)
	}
	return inv, nil
}

// DocumentData gathers everything a printable rendering needs: the
// invoice, its customer and the display names of the products on its lines.
func (s *InvoiceService) DocumentData(ctx context.Context, id int) (*models.Invoice, *models.Customer, map[int]string, error) {
	inv, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, nil, err
	}

	customer, err := s.customers.Get(ctx, inv.CustomerID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, nil, nil, apperr.New(apperr.KindNotFound, "customerNotFound")
	}
	if err != nil {
		return nil, nil, nil, apperr.Wrap(err)
	}

	ids := make([]int, 0, len(inv.Lines))
	for _, line := range inv.Lines {
		ids = append(ids, line.ProductID)
	}
	names := make(map[int]string, len(ids))
	if len(ids) > 0 {
		products, err := s.products.GetByIDs(ctx, ids)
		if err != nil {
			return nil, nil, nil, apperr.Wrap(err)
		}
		for _, p := range products {
			names[p.ID] = p.Name
		}
	}
	return inv, customer, names, nil
}

func (s *InvoiceService) List(ctx context.Context, page, perPage int) ([]*models.Invoice, *models.PageMeta, error) {
	invoices, err := s.invoices.List(ctx, page, perPage)
	if err != nil {
		return nil, nil, apperr.Wrap(err)
	}
	total, err := s.invoices.Count(ctx)
	if err != nil {
		return nil, nil, apperr.Wrap(err)
	}
	deleted, err := s.invoices.CountDeleted(ctx)
	if err != nil {
		return nil, nil, apperr.Wrap(err)
	}
	return invoices, NewPageMeta(total, deleted, page, perPage), nil
}

func (s *InvoiceService) Delete(ctx context.Context, id int) error {
	err := s.invoices.SoftDelete(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return apperr.New(apperr.KindNotFound, "noRecordFound")
	}
	if err != nil {
		return apperr.Wrap(err)
	}
	return nil
}

// nextDisplayID builds the "YEAR-NNNN" candidate from the count of invoices
// dated in the current UTC year. Not collision-free under concurrency; the
// UNIQUE constraint on unique_id rejects the loser, which surfaces as a
// retryable duplicateInvoiceNumber error.
func (s *InvoiceService) nextDisplayID(ctx context.Context) (string, error) {
	year := time.Now().UTC().Year()
	count, err := s.invoices.CountByYear(ctx, year)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d-%04d", year, count+1), nil
}

// computeTax applies the active policy: tax only at or above the threshold,
// inclusive at the boundary, rounded to currency precision.
func (s *InvoiceService) computeTax(ctx context.Context, subTotal decimal.Decimal) (decimal.Decimal, error) {
	policy, err := s.tax.Current(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	if subTotal.LessThan(policy.Threshold) {
		return decimal.Zero, nil
	}
	return subTotal.Mul(policy.Rate).Div(decimal.NewFromInt(100)).Round(2), nil
}

func mapCommitError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrBalanceGuard):
		return apperr.New(apperr.KindBusinessRule, "customerNotEnoughBalance")
	case errors.Is(err, repositories.ErrStockGuard):
		var guard *repositories.StockGuardError
		if errors.As(err, &guard) {
			return apperr.Newf(apperr.KindBusinessRule, "productNotInStock", idsArg([]int{guard.ProductID}))
		}
		return apperr.Newf(apperr.KindBusinessRule, "productNotInStock", idsArg(nil))
	case errors.Is(err, repositories.ErrDuplicateDisplay):
		return apperr.New(apperr.KindStore, "duplicateInvoiceNumber")
	case errors.Is(err, repositories.ErrNotFound):
		return apperr.New(apperr.KindNotFound, "noRecordFound")
	default:
		return apperr.Wrap(err)
	}
}

func idsArg(ids []int) map[string]string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return map[string]string{"ids": strings.Join(parts, ", ")}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
