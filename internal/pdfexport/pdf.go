// Package pdfexport renders quotations and invoices as A4 PDFs.
package pdfexport

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"

	"quotely/internal/domain"
)

const (
	pageMargin = 14.0
	lineHeight = 5.0
)

type rgb struct{ r, g, b int }

var (
	quotationColor = rgb{66, 133, 244}
	invoiceColor   = rgb{46, 125, 50}
)

// Document is the fully resolved view of a quotation or invoice.
type Document struct {
	Kind      domain.DocumentKind
	Number    string
	Status    string
	CreatedAt time.Time
	Date      *time.Time
	Client    domain.Client
	Items     []domain.LineItem
	Totals    domain.DocumentTotals
	Paid      *decimal.Decimal
	Notes     string
	Terms     string
}

// FromQuotation builds a Document from a quotation loaded with client and items.
func FromQuotation(q *domain.Quotation) Document {
	doc := Document{
		Kind:      domain.KindQuotation,
		Number:    q.Number,
		Status:    string(q.Status),
		CreatedAt: q.CreatedAt,
		Date:      q.ValidUntil,
		Items:     q.Items,
		Totals:    q.DocumentTotals,
		Notes:     q.Notes,
		Terms:     q.Terms,
	}
	if q.Client != nil {
		doc.Client = *q.Client
	} else {
		doc.Client.Name = q.ClientName
	}
	return doc
}

// FromInvoice builds a Document from an invoice loaded with client and items.
func FromInvoice(inv *domain.Invoice) Document {
	paid := inv.PaidAmount
	doc := Document{
		Kind:      domain.KindInvoice,
		Number:    inv.Number,
		Status:    string(inv.PaymentStatus),
		CreatedAt: inv.CreatedAt,
		Date:      inv.DueDate,
		Items:     inv.Items,
		Totals:    inv.DocumentTotals,
		Paid:      &paid,
		Notes:     inv.Notes,
		Terms:     inv.Terms,
	}
	if inv.Client != nil {
		doc.Client = *inv.Client
	} else {
		doc.Client.Name = inv.ClientName
	}
	return doc
}

// Render writes doc as a PDF to w using company as the letterhead.
func Render(w io.Writer, doc Document, company domain.CompanySettings) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, 20)
	pdf.SetTitle(fmt.Sprintf("%s %s", doc.Kind.Title(), doc.Number), true)
	pdf.SetCreator(company.CompanyName, true)
	pdf.AddPage()

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	color := quotationColor
	if doc.Kind == domain.KindInvoice {
		color = invoiceColor
	}
	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 2*pageMargin
	currency := company.Currency

	// Letterhead
	pdf.SetFont("Helvetica", "B", 20)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(contentW/2, 10, tr(company.CompanyName), "", 0, "L", false, 0, "")
	pdf.SetTextColor(color.r, color.g, color.b)
	pdf.CellFormat(contentW/2, 10, strings.ToUpper(doc.Kind.Title()), "", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(80, 80, 80)
	for _, line := range letterheadLines(company) {
		pdf.CellFormat(contentW, lineHeight, tr(line), "", 1, "L", false, 0, "")
	}
	pdf.Ln(2)
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.5)
	y := pdf.GetY()
	pdf.Line(pageMargin, y, pageW-pageMargin, y)
	pdf.Ln(5)

	// Client block on the left, document facts on the right.
	top := pdf.GetY()
	pdf.SetTextColor(100, 100, 100)
	pdf.CellFormat(90, lineHeight, "To:", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(90, lineHeight, tr(doc.Client.Name), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(50, 50, 50)
	if doc.Client.Address != "" {
		pdf.MultiCell(90, lineHeight, tr(doc.Client.Address), "", "L", false)
	}
	if doc.Client.GSTIN != "" {
		pdf.CellFormat(90, lineHeight, "GSTIN: "+doc.Client.GSTIN, "", 1, "L", false, 0, "")
	}
	if doc.Client.Email != "" {
		pdf.CellFormat(90, lineHeight, tr(doc.Client.Email), "", 1, "L", false, 0, "")
	}
	clientBottom := pdf.GetY()

	infoX := pageW - pageMargin - 80
	pdf.SetY(top)
	for _, fact := range documentFacts(doc) {
		pdf.SetX(infoX)
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(35, lineHeight+1, fact[0], "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(45, lineHeight+1, fact[1], "", 1, "R", false, 0, "")
	}
	if pdf.GetY() < clientBottom {
		pdf.SetY(clientBottom)
	}
	pdf.Ln(8)

	// Items table
	widths := []float64{12, 80, 18, 27, 15, contentW - 152}
	aligns := []string{"C", "L", "C", "R", "C", "R"}
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(color.r, color.g, color.b)
	pdf.SetTextColor(255, 255, 255)
	for i, h := range []string{"#", "Item Description", "Qty", "Price", "GST%", "Amount"} {
		pdf.CellFormat(widths[i], 8, h, "1", 0, aligns[i], true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(0, 0, 0)
	for _, row := range LineRows(doc.Items, currency) {
		desc := pdf.SplitText(tr(row[1]), widths[1]-2)
		h := float64(len(desc))*lineHeight + 2
		if pdf.GetY()+h > 270 {
			pdf.AddPage()
		}
		x, rowY := pdf.GetXY()
		for i, cell := range row {
			if i == 1 {
				pdf.Rect(x, rowY, widths[i], h, "D")
				pdf.SetXY(x+1, rowY+1)
				pdf.MultiCell(widths[i]-2, lineHeight, strings.Join(desc, "\n"), "", "L", false)
			} else {
				pdf.SetXY(x, rowY)
				pdf.CellFormat(widths[i], h, tr(cell), "1", 0, aligns[i], false, 0, "")
			}
			x += widths[i]
		}
		pdf.SetXY(pageMargin, rowY+h)
	}
	pdf.Ln(6)

	// Totals
	labelX := pageW - pageMargin - 80
	for _, line := range TotalLines(doc, currency) {
		pdf.SetX(labelX)
		if line.Emphasis {
			pdf.Ln(2)
			pdf.SetX(labelX)
			pdf.SetFont("Helvetica", "B", 12)
			pdf.SetTextColor(0, 0, 0)
		} else {
			pdf.SetFont("Helvetica", "", 10)
			pdf.SetTextColor(50, 50, 50)
		}
		pdf.CellFormat(40, lineHeight+1, tr(line.Label), "", 0, "L", false, 0, "")
		pdf.CellFormat(40, lineHeight+1, tr(line.Value), "", 1, "R", false, 0, "")
	}

	// Notes and terms
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(80, 80, 80)
	for _, block := range [][2]string{{"Notes", doc.Notes}, {"Terms & Conditions", doc.Terms}} {
		if strings.TrimSpace(block[1]) == "" {
			continue
		}
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(contentW, lineHeight, block[0]+":", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		pdf.MultiCell(contentW, lineHeight, tr(block[1]), "", "L", false)
	}

	pdf.SetY(-20)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(150, 150, 150)
	pdf.CellFormat(contentW, lineHeight, "This is a computer generated document.", "", 0, "C", false, 0, "")

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}

func letterheadLines(company domain.CompanySettings) []string {
	var lines []string
	if company.Tagline != "" {
		lines = append(lines, company.Tagline)
	}
	if company.Address != "" {
		lines = append(lines, company.Address)
	}
	var contact []string
	if company.Email != "" {
		contact = append(contact, "Email: "+company.Email)
	}
	if company.Phone != "" {
		contact = append(contact, "Phone: "+company.Phone)
	}
	if len(contact) > 0 {
		lines = append(lines, strings.Join(contact, " | "))
	}
	if company.GSTIN != "" {
		lines = append(lines, "GSTIN: "+company.GSTIN)
	}
	return lines
}

func documentFacts(doc Document) [][2]string {
	dateLabel := "Valid Until:"
	if doc.Kind == domain.KindInvoice {
		dateLabel = "Due Date:"
	}
	date := "N/A"
	if doc.Date != nil {
		date = doc.Date.Format("02 Jan 2006")
	}
	return [][2]string{
		{doc.Kind.Title() + " No:", doc.Number},
		{"Date:", doc.CreatedAt.Format("02 Jan 2006")},
		{dateLabel, date},
		{"Status:", strings.ReplaceAll(doc.Status, "_", " ")},
	}
}

// LineRows formats the items table body.
func LineRows(items []domain.LineItem, currency string) [][]string {
	rows := make([][]string, len(items))
	for i, li := range items {
		desc := li.ItemName
		if desc == "" {
			desc = "Item"
		}
		if li.ItemDescription != "" {
			desc += "\n" + li.ItemDescription
		}
		qty := li.Quantity.String()
		if li.ItemUnit != "" {
			qty += " " + li.ItemUnit
		}
		rows[i] = []string{
			fmt.Sprintf("%d", i+1),
			desc,
			qty,
			Money(currency, li.UnitPrice),
			li.TaxRate.String() + "%",
			Money(currency, li.Amount),
		}
	}
	return rows
}

// TotalLine is one row of the totals block.
type TotalLine struct {
	Label    string
	Value    string
	Emphasis bool
}

// TotalLines formats the totals block. Amounts are rounded to two decimals.
func TotalLines(doc Document, currency string) []TotalLine {
	t := doc.Totals
	lines := []TotalLine{
		{Label: "Subtotal:", Value: Money(currency, t.Subtotal)},
		{Label: "Tax (GST):", Value: Money(currency, t.TaxAmount)},
	}
	if off := t.DiscountAmount(); !off.IsZero() {
		label := "Discount:"
		if t.DiscountType == domain.DiscountPercentage {
			label = fmt.Sprintf("Discount (%s%%):", t.DiscountValue.String())
		}
		lines = append(lines, TotalLine{Label: label, Value: "- " + Money(currency, off)})
	}
	lines = append(lines, TotalLine{Label: "Total Amount:", Value: Money(currency, t.TotalAmount), Emphasis: true})
	if doc.Paid != nil {
		lines = append(lines,
			TotalLine{Label: "Paid:", Value: Money(currency, *doc.Paid)},
			TotalLine{Label: "Balance Due:", Value: Money(currency, t.TotalAmount.Sub(*doc.Paid))},
		)
	}
	return lines
}

// Money formats an amount with the currency label, e.g. "Rs. 1250.00".
func Money(currency string, v decimal.Decimal) string {
	if currency == "" {
		return v.StringFixed(2)
	}
	return currency + " " + v.StringFixed(2)
}
