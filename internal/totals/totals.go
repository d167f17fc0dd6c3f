// Package totals computes document money totals. It is the single calculator
// used by document creation, draft edits and the preview endpoint.
package totals

import (
	"fmt"

	"github.com/shopspring/decimal"

	"quotely/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// Line is the priced input of one line item.
type Line struct {
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	TaxRate   decimal.Decimal `json:"tax_rate"`
}

// Amount returns quantity × unit price, tax excluded.
func (l Line) Amount() decimal.Decimal {
	return l.Quantity.Mul(l.UnitPrice)
}

// Tax returns the line's tax at its own rate.
func (l Line) Tax() decimal.Decimal {
	return l.Amount().Mul(l.TaxRate).Shift(-2)
}

// Totals is the result of a computation. Values carry full precision.
type Totals struct {
	Subtotal         decimal.Decimal `json:"subtotal"`
	TaxAmount        decimal.Decimal `json:"tax_amount"`
	PreDiscountTotal decimal.Decimal `json:"pre_discount_total"`
	DiscountAmount   decimal.Decimal `json:"discount_amount"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
}

// Compute sums the lines and applies the discount against subtotal + tax.
// It performs no validation and never clamps; an empty list yields zeros.
func Compute(lines []Line, discount domain.Discount) Totals {
	subtotal := decimal.Zero
	tax := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.Amount())
		tax = tax.Add(l.Tax())
	}

	pre := subtotal.Add(tax)
	var off decimal.Decimal
	switch discount.Type.Normalize() {
	case domain.DiscountPercentage:
		off = pre.Mul(discount.Value).Shift(-2)
	case domain.DiscountFixed:
		off = discount.Value
	default:
		off = decimal.Zero
	}

	return Totals{
		Subtotal:         subtotal,
		TaxAmount:        tax,
		PreDiscountTotal: pre,
		DiscountAmount:   off,
		TotalAmount:      pre.Sub(off),
	}
}

// Validate checks line and discount inputs. Errors wrap domain.ErrInvalidInput.
func Validate(lines []Line, discount domain.Discount) error {
	if len(lines) == 0 {
		return fmt.Errorf("%w: at least one line item is required", domain.ErrInvalidInput)
	}
	for i, l := range lines {
		if l.Quantity.IsNegative() {
			return fmt.Errorf("%w: items[%d].quantity must not be negative", domain.ErrInvalidInput, i)
		}
		if l.UnitPrice.IsNegative() {
			return fmt.Errorf("%w: items[%d].unit_price must not be negative", domain.ErrInvalidInput, i)
		}
		if l.TaxRate.IsNegative() || l.TaxRate.GreaterThan(hundred) {
			return fmt.Errorf("%w: items[%d].tax_rate must be between 0 and 100", domain.ErrInvalidInput, i)
		}
	}

	dt := discount.Type.Normalize()
	if !domain.ValidDiscountTypes[dt] {
		return fmt.Errorf("%w: unknown discount_type %q", domain.ErrInvalidInput, discount.Type)
	}
	if dt == domain.DiscountNone {
		return nil
	}
	if discount.Value.IsNegative() {
		return fmt.Errorf("%w: discount_value must not be negative", domain.ErrInvalidInput)
	}
	if dt == domain.DiscountPercentage && discount.Value.GreaterThan(hundred) {
		return fmt.Errorf("%w: percentage discount must not exceed 100", domain.ErrInvalidInput)
	}
	return nil
}

// Calculate validates the input, computes totals and rejects a negative grand
// total. This is the policy used for persisted documents.
func Calculate(lines []Line, discount domain.Discount) (Totals, error) {
	if err := Validate(lines, discount); err != nil {
		return Totals{}, err
	}
	t := Compute(lines, discount)
	if t.TotalAmount.IsNegative() {
		return Totals{}, fmt.Errorf("%w: discount %s exceeds document total %s",
			domain.ErrInvalidInput, t.DiscountAmount.StringFixed(2), t.PreDiscountTotal.StringFixed(2))
	}
	return t, nil
}

// Apply copies computed totals and the normalized discount onto a document header.
func (t Totals) Apply(dst *domain.DocumentTotals, discount domain.Discount) {
	dst.Subtotal = t.Subtotal
	dst.TaxAmount = t.TaxAmount
	dst.TotalAmount = t.TotalAmount
	dst.DiscountType = discount.Type.Normalize()
	dst.DiscountValue = discount.Value
	if dst.DiscountType == domain.DiscountNone {
		dst.DiscountValue = decimal.Zero
	}
}
