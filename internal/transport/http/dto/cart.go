package dto

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type AddCartItemRequest struct {
	PhotoID       uuid.UUID       `json:"photoId" validate:"required" swaggertype:"string" format:"uuid"`
	PhotoURL      string          `json:"photoUrl"`
	PhotoFilename string          `json:"photoFilename"`
	ProductName   string          `json:"productName" validate:"required"`
	ProductSize   string          `json:"productSize" validate:"required"`
	VariantID     uuid.UUID       `json:"variantId" validate:"required" swaggertype:"string" format:"uuid"`
	Price         decimal.Decimal `json:"price" swaggertype:"string"`
	Quantity      int             `json:"quantity"`
	GalleryID     uuid.UUID       `json:"galleryId" validate:"required" swaggertype:"string" format:"uuid"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

type CartResponse struct {
	ID        string `json:"id"`
	Items     any    `json:"items"`
	Subtotal  string `json:"subtotal"`
	ItemCount int    `json:"itemCount"`
}
