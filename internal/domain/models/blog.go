package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	BlogStatusDraft     = "draft"
	BlogStatusPublished = "published"
	BlogStatusArchived  = "archived"
)

type BlogPost struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	Title         string     `db:"title" json:"title"`
	Slug          string     `db:"slug" json:"slug"`
	Excerpt       string     `db:"excerpt" json:"excerpt,omitempty"`
	Content       string     `db:"content" json:"content"`
	CoverImageURL string     `db:"cover_image_url" json:"cover_image_url,omitempty"`
	AuthorID      uuid.UUID  `db:"author_id" json:"author_id"`
	Status        string     `db:"status" json:"status"`
	PublishedAt   *time.Time `db:"published_at" json:"published_at,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
}
