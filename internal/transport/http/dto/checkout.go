package dto

import (
	"lightbox/internal/domain/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CheckoutItem struct {
	PhotoID       uuid.UUID       `json:"photoId" swaggertype:"string" format:"uuid"`
	PhotoURL      string          `json:"photoUrl"`
	PhotoFilename string          `json:"photoFilename"`
	ProductName   string          `json:"productName"`
	ProductSize   string          `json:"productSize"`
	VariantID     uuid.UUID       `json:"variantId" swaggertype:"string" format:"uuid"`
	Price         decimal.Decimal `json:"price" swaggertype:"string"` // что видел клиент; итог считает сервер
	Quantity      int             `json:"quantity"`
}

// CheckoutRequest тело POST /api/checkout
type CheckoutRequest struct {
	Items          []CheckoutItem       `json:"items"`
	CustomerInfo   *models.CustomerInfo `json:"customerInfo"`
	ShippingInfo   *models.ShippingInfo `json:"shippingInfo"`
	GalleryID      uuid.UUID            `json:"galleryId" swaggertype:"string" format:"uuid"`
	IdempotencyKey string               `json:"idempotencyKey,omitempty"`
}

// CartCheckoutRequest тело POST /api/cart/checkout: строки берутся из корзины сессии
type CartCheckoutRequest struct {
	CustomerInfo   *models.CustomerInfo `json:"customerInfo"`
	ShippingInfo   *models.ShippingInfo `json:"shippingInfo"`
	GalleryID      uuid.UUID            `json:"galleryId" swaggertype:"string" format:"uuid"`
	IdempotencyKey string               `json:"idempotencyKey,omitempty"`
}

type CheckoutResponse struct {
	SessionID string `json:"sessionId"`
	OrderID   string `json:"orderId"`
	URL       string `json:"url,omitempty"`
}

// CartToCheckoutItems превращает строки корзины в строки заказа
func CartToCheckoutItems(items []models.CartItem) []CheckoutItem {
	out := make([]CheckoutItem, 0, len(items))
	for _, it := range items {
		out = append(out, CheckoutItem{
			PhotoID:       it.PhotoID,
			PhotoURL:      it.PhotoURL,
			PhotoFilename: it.PhotoFilename,
			ProductName:   it.ProductName,
			ProductSize:   it.ProductSize,
			VariantID:     it.VariantID,
			Price:         it.Price,
			Quantity:      it.Quantity,
		})
	}
	return out
}
