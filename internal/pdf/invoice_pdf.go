// Package pdf renders printable invoices.
package pdf

import (
	"bytes"
	"fmt"

	"billing-backend/internal/models"

	"github.com/jung-kurt/gofpdf/v2"
)

// RenderInvoice produces an A4 invoice document. productNames maps line
// product ids to display names; unknown ids fall back to the numeric id.
func RenderInvoice(inv *models.Invoice, customer *models.Customer, productNames map[int]string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	// Header
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(190, 10, fmt.Sprintf("Invoice %s", inv.UniqueID), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(190, 6, inv.Date.Format("02-Jan-2006 03:04 PM"), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	// Customer Info Box
	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Customer", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(95, 7, fmt.Sprintf("Name: %s %s", customer.FirstName, customer.LastName), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Phone: %s", customer.Phone), "RB", 1, "L", false, 0, "")
	pdf.CellFormat(190, 7, fmt.Sprintf("Address: %s", customer.Address), "LRB", 1, "L", false, 0, "")
	pdf.Ln(5)

	// Line table
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(200, 200, 200)
	pdf.CellFormat(90, 7, "Product", "1", 0, "C", true, 0, "")
	pdf.CellFormat(30, 7, "Quantity", "1", 0, "C", true, 0, "")
	pdf.CellFormat(70, 7, "Line Price", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, line := range inv.Lines {
		name, ok := productNames[line.ProductID]
		if !ok {
			name = fmt.Sprintf("#%d", line.ProductID)
		}
		if len(name) > 40 {
			name = name[:37] + "..."
		}
		pdf.CellFormat(90, 6, name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 6, fmt.Sprintf("%d", line.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(70, 6, line.LinePrice.StringFixed(2), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(5)

	// Totals
	pdf.SetFont("Arial", "B", 12)
	pdf.SetFillColor(240, 240, 240)
	pdf.CellFormat(190, 8, "Totals", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(63, 8, fmt.Sprintf("Sub Total: %s", inv.SubTotal.StringFixed(2)), "1", 0, "C", false, 0, "")
	pdf.CellFormat(63, 8, fmt.Sprintf("Tax: %s", inv.Tax.StringFixed(2)), "1", 0, "C", false, 0, "")
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(64, 8, fmt.Sprintf("Total: %s", inv.Total.StringFixed(2)), "1", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
