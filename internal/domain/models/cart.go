package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CartItem struct {
	ID            uuid.UUID       `json:"id"`
	PhotoID       uuid.UUID       `json:"photoId"`
	PhotoURL      string          `json:"photoUrl"`
	PhotoFilename string          `json:"photoFilename"`
	ProductName   string          `json:"productName"`
	ProductSize   string          `json:"productSize"`
	VariantID     uuid.UUID       `json:"variantId"`
	Price         decimal.Decimal `json:"price"`
	Quantity      int             `json:"quantity"`
	GalleryID     uuid.UUID       `json:"galleryId"`
}

// Cart корзина посетителя; хранится целиком как одно значение
type Cart struct {
	ID        string     `json:"id"`
	Items     []CartItem `json:"items"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

func (c Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, it := range c.Items {
		total = total.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total
}

func (c Cart) ItemCount() int {
	n := 0
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}
