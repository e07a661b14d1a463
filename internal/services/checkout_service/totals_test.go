package services

import (
	"testing"

	"lightbox/internal/domain/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestComputeTotals(t *testing.T) {
	items := []models.OrderItem{
		{UnitPrice: decimal.RequireFromString("25.00"), Quantity: 2, LineTotal: LineTotal(decimal.RequireFromString("25.00"), 2)},
		{UnitPrice: decimal.RequireFromString("9.99"), Quantity: 1, LineTotal: LineTotal(decimal.RequireFromString("9.99"), 1)},
	}

	tests := []struct {
		name         string
		taxRate      string
		shipping     string
		wantSubtotal string
		wantTax      string
		wantTotal    string
	}{
		{name: "no tax no shipping", taxRate: "0", shipping: "0", wantSubtotal: "59.99", wantTax: "0.00", wantTotal: "59.99"},
		{name: "with shipping", taxRate: "0", shipping: "7.5", wantSubtotal: "59.99", wantTax: "0.00", wantTotal: "67.49"},
		{name: "tax rounds half up", taxRate: "0.0825", shipping: "0", wantSubtotal: "59.99", wantTax: "4.95", wantTotal: "64.94"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeTotals(items, decimal.RequireFromString(tt.taxRate), decimal.RequireFromString(tt.shipping))
			assert.Equal(t, tt.wantSubtotal, got.Subtotal.StringFixed(2))
			assert.Equal(t, tt.wantTax, got.Tax.StringFixed(2))
			assert.Equal(t, tt.wantTotal, got.Total.StringFixed(2))
		})
	}
}

func TestLineTotal(t *testing.T) {
	assert.Equal(t, "3.33", LineTotal(decimal.RequireFromString("1.111"), 3).StringFixed(2))
	assert.Equal(t, "50.00", LineTotal(decimal.RequireFromString("25"), 2).StringFixed(2))
}
