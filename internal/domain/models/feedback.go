package models

import (
	"time"

	"github.com/google/uuid"
)

type Comment struct {
	ID         uuid.UUID  `json:"id"`
	PhotoID    uuid.UUID  `json:"photoId"`
	GalleryID  uuid.UUID  `json:"galleryId"`
	ClientName string     `json:"clientName"`
	Body       string     `json:"body"`
	Reply      *string    `json:"reply,omitempty"`
	RepliedAt  *time.Time `json:"repliedAt,omitempty"`
	IsRead     bool       `json:"isRead"`
	CreatedAt  time.Time  `json:"createdAt"`
}

type Favorite struct {
	ID         uuid.UUID `json:"id"`
	PhotoID    uuid.UUID `json:"photoId"`
	GalleryID  uuid.UUID `json:"galleryId"`
	ClientName string    `json:"clientName"`
	CreatedAt  time.Time `json:"createdAt"`
}

// FavoriteSummary избранное одного фото, сгруппированное для фотографа
type FavoriteSummary struct {
	PhotoID uuid.UUID `json:"photoId"`
	Count   int       `json:"count"`
	Clients []string  `json:"clients"`
}
