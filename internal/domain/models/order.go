package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

type FulfillmentStatus string

const (
	FulfillmentPending FulfillmentStatus = "pending"
)

type CustomerInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

type ShippingInfo struct {
	Address1 string `json:"address1"`
	Address2 string `json:"address2,omitempty"`
	City     string `json:"city"`
	State    string `json:"state"`
	Zip      string `json:"zip"`
	Country  string `json:"country"`
}

type Order struct {
	ID                uuid.UUID         `json:"id"`
	GalleryID         uuid.UUID         `json:"galleryId"`
	Customer          CustomerInfo      `json:"customer"`
	Shipping          ShippingInfo      `json:"shipping"`
	Subtotal          decimal.Decimal   `json:"subtotal"`
	Tax               decimal.Decimal   `json:"tax"`
	ShippingCost      decimal.Decimal   `json:"shippingCost"`
	Total             decimal.Decimal   `json:"total"`
	PaymentStatus     PaymentStatus     `json:"paymentStatus"`
	FulfillmentStatus FulfillmentStatus `json:"fulfillmentStatus"`
	PaymentSessionID  *string           `json:"paymentSessionId,omitempty"`
	PaymentSessionURL *string           `json:"-"` // ссылка на hosted-страницу, нужна для повтора по idempotency key
	IdempotencyKey    *string           `json:"-"`
	CreatedAt         time.Time         `json:"createdAt"`
	UpdatedAt         time.Time         `json:"updatedAt"`
	Items             []OrderItem       `json:"items"`
}

type OrderItem struct {
	ID            uuid.UUID       `json:"id"`
	OrderID       uuid.UUID       `json:"orderId"`
	PhotoID       uuid.UUID       `json:"photoId"`
	PhotoURL      string          `json:"photoUrl"`
	PhotoFilename string          `json:"photoFilename"`
	ProductName   string          `json:"productName"`
	ProductSize   string          `json:"productSize"`
	VariantID     uuid.UUID       `json:"variantId"`
	Quantity      int             `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unitPrice"`
	LineTotal     decimal.Decimal `json:"lineTotal"`
}
