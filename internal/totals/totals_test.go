package totals_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quotely/internal/domain"
	"quotely/internal/totals"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func sampleLines() []totals.Line {
	return []totals.Line{
		{Quantity: d("2"), UnitPrice: d("100"), TaxRate: d("18")},
		{Quantity: d("1"), UnitPrice: d("50"), TaxRate: d("5")},
	}
}

func TestCompute_NoDiscount(t *testing.T) {
	got := totals.Compute(sampleLines(), domain.Discount{Type: domain.DiscountNone})

	assert.Equal(t, "250", got.Subtotal.String())
	assert.Equal(t, "38.5", got.TaxAmount.String())
	assert.Equal(t, "288.5", got.TotalAmount.String())
	assert.True(t, got.DiscountAmount.IsZero())
}

func TestCompute_EmptyDiscountTypeIsNone(t *testing.T) {
	got := totals.Compute(sampleLines(), domain.Discount{Value: d("99")})

	assert.Equal(t, "288.5", got.TotalAmount.String())
}

func TestCompute_PercentageDiscount(t *testing.T) {
	got := totals.Compute(sampleLines(), domain.Discount{Type: domain.DiscountPercentage, Value: d("10")})

	assert.Equal(t, "288.5", got.PreDiscountTotal.String())
	assert.Equal(t, "28.85", got.DiscountAmount.String())
	assert.Equal(t, "259.65", got.TotalAmount.String())
}

func TestCompute_FixedDiscount(t *testing.T) {
	got := totals.Compute(sampleLines(), domain.Discount{Type: domain.DiscountFixed, Value: d("30")})

	assert.Equal(t, "258.5", got.TotalAmount.String())
}

func TestCompute_PercentageMatchesClosedForm(t *testing.T) {
	lines := []totals.Line{
		{Quantity: d("3.5"), UnitPrice: d("19.99"), TaxRate: d("12")},
		{Quantity: d("0.25"), UnitPrice: d("1200"), TaxRate: d("28")},
		{Quantity: d("7"), UnitPrice: d("0.01"), TaxRate: d("0")},
	}
	pct := d("12.5")

	got := totals.Compute(lines, domain.Discount{Type: domain.DiscountPercentage, Value: pct})

	want := got.Subtotal.Add(got.TaxAmount).Mul(decimal.NewFromInt(1).Sub(pct.Div(decimal.NewFromInt(100))))
	assert.True(t, want.Equal(got.TotalAmount), "want %s got %s", want, got.TotalAmount)
}

func TestCompute_MixedTaxRatesArePerLine(t *testing.T) {
	lines := []totals.Line{
		{Quantity: d("1"), UnitPrice: d("100"), TaxRate: d("0")},
		{Quantity: d("1"), UnitPrice: d("100"), TaxRate: d("28")},
	}

	got := totals.Compute(lines, domain.Discount{})

	assert.Equal(t, "28", got.TaxAmount.String())
}

func TestCompute_OrderIndependent(t *testing.T) {
	lines := sampleLines()
	reversed := []totals.Line{lines[1], lines[0]}

	a := totals.Compute(lines, domain.Discount{Type: domain.DiscountPercentage, Value: d("7")})
	b := totals.Compute(reversed, domain.Discount{Type: domain.DiscountPercentage, Value: d("7")})

	assert.True(t, a.Subtotal.Equal(b.Subtotal))
	assert.True(t, a.TaxAmount.Equal(b.TaxAmount))
	assert.True(t, a.TotalAmount.Equal(b.TotalAmount))
}

func TestCompute_Idempotent(t *testing.T) {
	lines := sampleLines()
	disc := domain.Discount{Type: domain.DiscountFixed, Value: d("12.34")}

	first := totals.Compute(lines, disc)
	second := totals.Compute(lines, disc)

	assert.Equal(t, first, second)
}

func TestCompute_EmptyListIsZero(t *testing.T) {
	got := totals.Compute(nil, domain.Discount{})

	assert.True(t, got.Subtotal.IsZero())
	assert.True(t, got.TaxAmount.IsZero())
	assert.True(t, got.TotalAmount.IsZero())
}

func TestCompute_DoesNotClamp(t *testing.T) {
	got := totals.Compute(sampleLines(), domain.Discount{Type: domain.DiscountFixed, Value: d("300")})

	assert.Equal(t, "-11.5", got.TotalAmount.String())
}

func TestCompute_KeepsFullPrecision(t *testing.T) {
	lines := []totals.Line{{Quantity: d("1"), UnitPrice: d("0.333"), TaxRate: d("18")}}

	got := totals.Compute(lines, domain.Discount{})

	assert.Equal(t, "0.05994", got.TaxAmount.String())
	assert.Equal(t, "0.39294", got.TotalAmount.String())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		lines    []totals.Line
		discount domain.Discount
		wantErr  bool
	}{
		{"valid", sampleLines(), domain.Discount{}, false},
		{"empty list", nil, domain.Discount{}, true},
		{"negative quantity", []totals.Line{{Quantity: d("-1"), UnitPrice: d("1"), TaxRate: d("0")}}, domain.Discount{}, true},
		{"negative price", []totals.Line{{Quantity: d("1"), UnitPrice: d("-1"), TaxRate: d("0")}}, domain.Discount{}, true},
		{"tax above 100", []totals.Line{{Quantity: d("1"), UnitPrice: d("1"), TaxRate: d("100.01")}}, domain.Discount{}, true},
		{"tax exactly 100", []totals.Line{{Quantity: d("1"), UnitPrice: d("1"), TaxRate: d("100")}}, domain.Discount{}, false},
		{"negative tax", []totals.Line{{Quantity: d("1"), UnitPrice: d("1"), TaxRate: d("-5")}}, domain.Discount{}, true},
		{"zero quantity", []totals.Line{{Quantity: d("0"), UnitPrice: d("1"), TaxRate: d("5")}}, domain.Discount{}, false},
		{"unknown discount type", sampleLines(), domain.Discount{Type: "bogus"}, true},
		{"negative fixed discount", sampleLines(), domain.Discount{Type: domain.DiscountFixed, Value: d("-1")}, true},
		{"percentage over 100", sampleLines(), domain.Discount{Type: domain.DiscountPercentage, Value: d("101")}, true},
		{"percentage 100", sampleLines(), domain.Discount{Type: domain.DiscountPercentage, Value: d("100")}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := totals.Validate(tt.lines, tt.discount)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidInput)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCalculate_RejectsNegativeTotal(t *testing.T) {
	_, err := totals.Calculate(sampleLines(), domain.Discount{Type: domain.DiscountFixed, Value: d("288.51")})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCalculate_AllowsZeroTotal(t *testing.T) {
	got, err := totals.Calculate(sampleLines(), domain.Discount{Type: domain.DiscountFixed, Value: d("288.5")})

	require.NoError(t, err)
	assert.True(t, got.TotalAmount.IsZero())
}

func TestApply_NoneClearsValue(t *testing.T) {
	var dst domain.DocumentTotals
	disc := domain.Discount{Value: d("15")}
	got := totals.Compute(sampleLines(), disc)

	got.Apply(&dst, disc)

	assert.Equal(t, domain.DiscountNone, dst.DiscountType)
	assert.True(t, dst.DiscountValue.IsZero())
	assert.Equal(t, "288.5", dst.TotalAmount.String())
	assert.True(t, dst.DiscountAmount().IsZero())
}

func TestApply_DiscountAmountRoundTrips(t *testing.T) {
	var dst domain.DocumentTotals
	disc := domain.Discount{Type: domain.DiscountPercentage, Value: d("10")}
	got := totals.Compute(sampleLines(), disc)

	got.Apply(&dst, disc)

	assert.Equal(t, "28.85", dst.DiscountAmount().String())
}
