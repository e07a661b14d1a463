package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateBlogPostRequest struct {
	Title         string `json:"title" validate:"required,min=3,max=100"`
	Slug          string `json:"slug,omitempty" validate:"omitempty,max=255"`
	Excerpt       string `json:"excerpt,omitempty" validate:"omitempty,max=255"`
	Content       string `json:"content" validate:"required"`
	CoverImageURL string `json:"cover_image_url,omitempty" validate:"omitempty,url"`
	Status        string `json:"status,omitempty" validate:"omitempty,oneof=draft published"`
}

type UpdateBlogPostRequest struct {
	Title         *string `json:"title,omitempty" validate:"omitempty,min=3,max=100"`
	Slug          *string `json:"slug,omitempty" validate:"omitempty,max=255"`
	Excerpt       *string `json:"excerpt,omitempty" validate:"omitempty,max=255"`
	Content       *string `json:"content,omitempty"`
	CoverImageURL *string `json:"cover_image_url,omitempty" validate:"omitempty,url"`
}

type BlogPostResponse struct {
	ID            uuid.UUID  `json:"id" swaggertype:"string" format:"uuid"`
	Title         string     `json:"title"`
	Slug          string     `json:"slug"`
	Excerpt       string     `json:"excerpt,omitempty"`
	Content       string     `json:"content"`
	CoverImageURL string     `json:"cover_image_url,omitempty"`
	AuthorID      uuid.UUID  `json:"author_id" swaggertype:"string" format:"uuid"`
	Status        string     `json:"status"`
	PublishedAt   *time.Time `json:"published_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

type BlogPostListResponse struct {
	Posts      []BlogPostResponse `json:"posts"`
	TotalCount int                `json:"total_count"`
	Page       int                `json:"page"`
	PerPage    int                `json:"per_page"`
}
