package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"quotely/internal/domain"
)

func TestPaymentStatusFor(t *testing.T) {
	total := decimal.RequireFromString("288.50")
	tests := []struct {
		name string
		paid string
		want domain.PaymentStatus
	}{
		{"nothing paid", "0", domain.PaymentStatusPending},
		{"part paid", "100", domain.PaymentStatusPartiallyPaid},
		{"fully paid", "288.5", domain.PaymentStatusPaid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.PaymentStatusFor(decimal.RequireFromString(tt.paid), total))
		})
	}
}
