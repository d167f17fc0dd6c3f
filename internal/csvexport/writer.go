package csvexport

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"quotely/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// Columns returns the register header row for kind.
func Columns(kind domain.DocumentKind) []string {
	status, date := "Status", "Valid Until"
	if kind == domain.KindInvoice {
		status, date = "Payment Status", "Due Date"
	}
	return []string{
		fmt.Sprintf("%s Number", kind.Title()),
		"Client",
		status,
		"Subtotal",
		"Tax",
		"Discount",
		"Total",
		"Paid",
		"Outstanding",
		date,
		"Created At",
	}
}

// Writer wraps csv.Writer for exporting a quotation or invoice register.
type Writer struct {
	csv  *csv.Writer
	kind domain.DocumentKind
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer, kind domain.DocumentKind) *Writer {
	return &Writer{csv: csv.NewWriter(w), kind: kind}
}

// WriteHeader writes the header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(Columns(w.kind))
}

// WriteEntries writes one row per register entry.
func (w *Writer) WriteEntries(entries []domain.RegisterEntry) error {
	for i := range entries {
		if err := w.csv.Write(Row(&entries[i])); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

// Row converts an entry to display strings. Money is rounded to two decimals.
func Row(e *domain.RegisterEntry) []string {
	paid := ""
	outstanding := ""
	if e.Kind == domain.KindInvoice {
		paid = FormatMoney(e.PaidAmount)
		outstanding = FormatMoney(e.TotalAmount.Sub(e.PaidAmount))
	}
	return []string{
		e.Number,
		e.ClientName,
		e.Status,
		FormatMoney(e.Subtotal),
		FormatMoney(e.TaxAmount),
		FormatMoney(e.DiscountAmount),
		FormatMoney(e.TotalAmount),
		paid,
		outstanding,
		formatDate(e.Date),
		e.CreatedAt.Format(time.RFC3339),
	}
}

// FormatMoney renders a decimal with two fractional digits.
func FormatMoney(v decimal.Decimal) string {
	return v.StringFixed(2)
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a name for use in Content-Disposition.
// Replaces non-alphanumeric chars (except - _) with _, collapses consecutive
// underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns a sanitized dated filename, e.g. quotations_2024-06-30.csv.
func BuildFilename(name, ext string) string {
	return fmt.Sprintf("%s_%s.%s", SanitizeFilename(name), time.Now().Format("2006-01-02"), ext)
}
