package models

import (
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Photo фотография в галерее вместе с адресами всех рендишенов
type Photo struct {
	ID           uuid.UUID `json:"id"`
	GalleryID    uuid.UUID `json:"galleryId"`
	Filename     string    `json:"filename"`
	StorageKey   string    `json:"-"`
	ThumbnailURL string    `json:"thumbnailUrl"`
	WebURL       string    `json:"webUrl"`
	OriginalURL  string    `json:"originalUrl"`
	Position     int       `json:"position"`
	Width        int       `json:"width"`
	Height       int       `json:"height"`
	FileSize     int64     `json:"fileSize"`
	CreatedAt    time.Time `json:"createdAt"`
}

const (
	ThumbObject = "thumb.jpg"
	WebObject   = "web.jpg"
)

// PhotoPrefix каталог объектов одного фото в файловом хранилище
func PhotoPrefix(galleryID, photoID uuid.UUID) string {
	return path.Join("galleries", galleryID.String(), photoID.String())
}

// ObjectKeys все объекты фото: оригинал (StorageKey) и рендишены рядом с ним
func (p *Photo) ObjectKeys() []string {
	if p.StorageKey == "" {
		return nil
	}
	dir := path.Dir(p.StorageKey)
	return []string{p.StorageKey, path.Join(dir, ThumbObject), path.Join(dir, WebObject)}
}

// Validate проверяет запись перед сохранением
func (p *Photo) Validate() error {
	var validationErrors []string

	if p.GalleryID == uuid.Nil {
		validationErrors = append(validationErrors, "gallery ID is required")
	}
	if p.Filename == "" {
		validationErrors = append(validationErrors, "filename is required")
	}
	if len(p.Filename) > 255 {
		validationErrors = append(validationErrors, "filename must be 255 characters or less")
	}
	if p.StorageKey == "" {
		validationErrors = append(validationErrors, "storage key is required")
	}
	if p.FileSize <= 0 {
		validationErrors = append(validationErrors, "file size must be positive")
	}
	if p.Width <= 0 || p.Height <= 0 {
		validationErrors = append(validationErrors, "width and height must be positive values")
	}

	if len(validationErrors) > 0 {
		return &PhotoValidationError{Errors: validationErrors}
	}

	return nil
}

type PhotoValidationError struct {
	Errors []string
}

func (e *PhotoValidationError) Error() string {
	return fmt.Sprintf("photo validation failed: %s", strings.Join(e.Errors, "; "))
}

func IsPhotoValidationError(err error) bool {
	_, ok := err.(*PhotoValidationError)
	return ok
}
