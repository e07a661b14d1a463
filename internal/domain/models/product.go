package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductVariant печатный продукт конкретного размера с ценой из каталога
type ProductVariant struct {
	ID          uuid.UUID       `json:"id"`
	ProductName string          `json:"productName"`
	Size        string          `json:"size"`
	Price       decimal.Decimal `json:"price"`
	Active      bool            `json:"active"`
}
