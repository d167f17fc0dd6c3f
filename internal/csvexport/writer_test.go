package csvexport

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quotely/internal/domain"
)

func TestWriteHeader(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, domain.KindQuotation)
	require.NoError(t, w.WriteHeader())
	w.Flush()
	require.NoError(t, w.Error())

	row, err := csv.NewReader(&buf).Read()
	require.NoError(t, err)

	assert.Len(t, row, 11)
	assert.Equal(t, "Quotation Number", row[0])
	assert.Equal(t, "Status", row[2])
	assert.Equal(t, "Valid Until", row[9])
	assert.Equal(t, "Created At", row[10])
}

func TestColumns_Invoice(t *testing.T) {
	cols := Columns(domain.KindInvoice)

	assert.Equal(t, "Invoice Number", cols[0])
	assert.Equal(t, "Payment Status", cols[2])
	assert.Equal(t, "Due Date", cols[9])
}

func TestWriteEntries_Invoice(t *testing.T) {
	due := time.Date(2024, 7, 31, 0, 0, 0, 0, time.UTC)
	created := time.Date(2024, 6, 30, 9, 15, 0, 0, time.UTC)
	entries := []domain.RegisterEntry{{
		Kind:           domain.KindInvoice,
		Number:         "INV-20240001",
		ClientName:     "Acme, Ltd",
		Status:         string(domain.PaymentStatusPartiallyPaid),
		Subtotal:       decimal.RequireFromString("250"),
		TaxAmount:      decimal.RequireFromString("38.5"),
		DiscountAmount: decimal.RequireFromString("28.85"),
		TotalAmount:    decimal.RequireFromString("259.65"),
		PaidAmount:     decimal.RequireFromString("100"),
		Date:           &due,
		CreatedAt:      created,
	}}

	var buf bytes.Buffer
	w := NewWriter(&buf, domain.KindInvoice)
	require.NoError(t, w.WriteEntries(entries))
	w.Flush()
	require.NoError(t, w.Error())

	row, err := csv.NewReader(&buf).Read()
	require.NoError(t, err)

	assert.Equal(t, []string{
		"INV-20240001", "Acme, Ltd", "partially_paid",
		"250.00", "38.50", "28.85", "259.65", "100.00", "159.65",
		"2024-07-31", "2024-06-30T09:15:00Z",
	}, row)
}

func TestRow_QuotationLeavesPaymentColumnsEmpty(t *testing.T) {
	e := &domain.RegisterEntry{
		Kind:        domain.KindQuotation,
		Number:      "QT-20240001",
		Status:      string(domain.QuotationStatusDraft),
		TotalAmount: decimal.RequireFromString("288.5"),
		CreatedAt:   time.Now(),
	}

	row := Row(e)

	assert.Equal(t, "288.50", row[6])
	assert.Empty(t, row[7])
	assert.Empty(t, row[8])
	assert.Empty(t, row[9])
}

func TestFormatMoney_RoundsHalfAwayFromZero(t *testing.T) {
	assert.Equal(t, "0.06", FormatMoney(decimal.RequireFromString("0.05994")))
	assert.Equal(t, "2.35", FormatMoney(decimal.RequireFromString("2.345")))
	assert.Equal(t, "10.00", FormatMoney(decimal.NewFromInt(10)))
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple", "Q3 Quotations", "Q3_Quotations"},
		{"special chars", "FY 2024-25 / Q3 (Oct–Dec)", "FY_2024-25_Q3_Oct_Dec"},
		{"unicode", "कंपनी Invoices", "Invoices"},
		{"hyphens and underscores preserved", "QT-20240001_final", "QT-20240001_final"},
		{"consecutive underscores collapsed", "test___register", "test_register"},
		{"leading/trailing cleaned", "  hello  ", "hello"},
		{
			"long name truncated",
			"abcdefghijklmnopqrstuvwxyz-abcdefghijklmnopqrstuvwxyz-abcdefghijklmnopqrstuvwxyz-abcdefghijklmnopqrstuvwxyz-extra",
			"abcdefghijklmnopqrstuvwxyz-abcdefghijklmnopqrstuvwxyz-abcdefghijklmnopqrstuvwxyz-abcdefghijklmnopqrs",
		},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeFilename(tt.input))
		})
	}
}

func TestBuildFilename(t *testing.T) {
	filename := BuildFilename("invoices", "xlsx")
	today := time.Now().Format("2006-01-02")
	assert.Equal(t, "invoices_"+today+".xlsx", filename)
}
