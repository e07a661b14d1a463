package models

import (
	"crypto/subtle"
	"time"

	"github.com/google/uuid"
)

// Gallery клиентская галерея фотографа
type Gallery struct {
	ID             uuid.UUID `json:"id"`
	PhotographerID uuid.UUID `json:"photographerId"`
	Title          string    `json:"title"`
	Slug           string    `json:"slug"`
	Description    string    `json:"description"`
	IsPublic       bool      `json:"isPublic"`
	PasswordHash   []byte    `json:"-"`
	AccessKey      string    `json:"accessKey,omitempty"`
	ViewCount      int64     `json:"viewCount"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func (g *Gallery) HasPassword() bool {
	return len(g.PasswordHash) > 0
}

// KeyMatches сравнивает ключ доступа за постоянное время
func (g *Gallery) KeyMatches(key string) bool {
	if key == "" || g.AccessKey == "" {
		return false
	}

	return subtle.ConstantTimeCompare([]byte(key), []byte(g.AccessKey)) == 1
}

// Public скрывает секреты галереи для анонимного читателя
func (g Gallery) Public() Gallery {
	g.AccessKey = ""
	g.PasswordHash = nil
	return g
}

// GalleryView то, что видит клиент по ссылке: галерея, фото и выбранный кадр
type GalleryView struct {
	Gallery  Gallery `json:"gallery"`
	Photos   []Photo `json:"photos"`
	Selected *Photo  `json:"selected,omitempty"`
}
