package services

import (
	"lightbox/internal/domain/models"

	"github.com/shopspring/decimal"
)

type Totals struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Shipping decimal.Decimal
	Total    decimal.Decimal
}

// LineTotal цена строки, округленная до центов
func LineTotal(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity))).Round(2)
}

// ComputeTotals считает итоги по уже разрешенным строкам. Subtotal всегда
// равен сумме LineTotal, поэтому строки должны быть заполнены до вызова
func ComputeTotals(items []models.OrderItem, taxRate, flatShipping decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(it.LineTotal)
	}
	subtotal = subtotal.Round(2)

	tax := subtotal.Mul(taxRate).Round(2)
	shipping := flatShipping.Round(2)

	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Shipping: shipping,
		Total:    subtotal.Add(tax).Add(shipping),
	}
}
