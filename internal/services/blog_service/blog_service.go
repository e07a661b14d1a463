package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"lightbox/internal/domain/models"
	"lightbox/internal/lib/logger/sl"
	"lightbox/internal/lib/random"
	"lightbox/internal/lib/slug"
	"lightbox/internal/repository"
	"lightbox/internal/storage"
	"lightbox/internal/transport/http/dto"

	"github.com/google/uuid"
)

var (
	ErrPostNotFound = errors.New("post not found")
	ErrSlugTaken    = errors.New("slug already taken")
)

type BlogService struct {
	log  *slog.Logger
	repo repository.BlogRepository
}

func NewBlogService(log *slog.Logger, repo repository.BlogRepository) *BlogService {
	return &BlogService{log: log, repo: repo}
}

// CreatePost создает новый пост; slug по умолчанию строится из заголовка
func (s *BlogService) CreatePost(ctx context.Context, authorID uuid.UUID, req dto.CreateBlogPostRequest) (*dto.BlogPostResponse, error) {
	const op = "services.BlogService.CreatePost"

	log := s.log.With(
		slog.String("op", op),
		slog.String("author_id", authorID.String()),
	)

	log.Info("creating new blog post", slog.String("title", req.Title))

	if strings.TrimSpace(req.Title) == "" {
		return nil, fmt.Errorf("%s: post title is required", op)
	}
	if authorID == uuid.Nil {
		return nil, fmt.Errorf("%s: author ID is required", op)
	}

	post := models.BlogPost{
		Title:         strings.TrimSpace(req.Title),
		Slug:          req.Slug,
		Excerpt:       req.Excerpt,
		Content:       req.Content,
		CoverImageURL: req.CoverImageURL,
		AuthorID:      authorID,
		Status:        req.Status,
	}

	explicitSlug := post.Slug != ""
	if !explicitSlug {
		post.Slug = slug.Make(post.Title)
	}

	if post.Status == "" {
		post.Status = models.BlogStatusDraft
	}

	if post.Status == models.BlogStatusPublished {
		now := time.Now()
		post.PublishedAt = &now
	}

	id, err := s.repo.SaveBlogPost(ctx, post)
	if errors.Is(err, storage.ErrAlreadyExists) {
		if explicitSlug {
			return nil, fmt.Errorf("%s: %w", op, ErrSlugTaken)
		}

		log.Warn("slug conflict detected, generating unique slug")

		suffix, rerr := random.SlugSuffix()
		if rerr != nil {
			return nil, fmt.Errorf("%s: %w", op, rerr)
		}
		post.Slug = slug.WithSuffix(post.Slug, suffix)
		id, err = s.repo.SaveBlogPost(ctx, post)
	}
	if err != nil {
		log.Error("failed to create post", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("post created successfully", slog.String("post_id", id.String()))

	return s.toPostResponse(ctx, op, id)
}

// UpdatePost обновляет только переданные поля
func (s *BlogService) UpdatePost(ctx context.Context, postID uuid.UUID, req dto.UpdateBlogPostRequest) (*dto.BlogPostResponse, error) {
	const op = "services.BlogService.UpdatePost"

	log := s.log.With(
		slog.String("op", op),
		slog.String("post_id", postID.String()),
	)

	existing, err := s.repo.GetBlogPostByID(ctx, postID)
	if err != nil {
		return nil, s.notFound(op, err)
	}

	updates := make(map[string]interface{})

	if req.Title != nil {
		updates["title"] = strings.TrimSpace(*req.Title)
	}
	if req.Excerpt != nil {
		updates["excerpt"] = *req.Excerpt
	}
	if req.Content != nil {
		updates["content"] = *req.Content
	}
	if req.CoverImageURL != nil {
		updates["cover_image_url"] = *req.CoverImageURL
	}
	if req.Slug != nil && *req.Slug != existing.Slug {
		newSlug := *req.Slug
		if newSlug == "" {
			title := existing.Title
			if t, ok := updates["title"].(string); ok {
				title = t
			}
			newSlug = slug.Make(title)
		}
		updates["slug"] = newSlug
	}

	if len(updates) == 0 {
		return s.mapToPostResponse(existing), nil
	}

	if err := s.repo.UpdateBlogPostFields(ctx, postID, updates); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return nil, fmt.Errorf("%s: %w", op, ErrSlugTaken)
		}
		log.Error("failed to update post", sl.Err(err))
		return nil, s.notFound(op, err)
	}

	log.Info("post updated successfully")

	return s.toPostResponse(ctx, op, postID)
}

func (s *BlogService) GetPostByID(ctx context.Context, id uuid.UUID) (*dto.BlogPostResponse, error) {
	const op = "services.BlogService.GetPostByID"

	return s.toPostResponse(ctx, op, id)
}

// GetPublishedBySlug публичная страница поста; черновики и архив не видны
func (s *BlogService) GetPublishedBySlug(ctx context.Context, postSlug string) (*dto.BlogPostResponse, error) {
	const op = "services.BlogService.GetPublishedBySlug"

	post, err := s.repo.GetBlogPostBySlug(ctx, postSlug)
	if err != nil {
		return nil, s.notFound(op, err)
	}
	if post.Status != models.BlogStatusPublished {
		return nil, fmt.Errorf("%s: %w", op, ErrPostNotFound)
	}

	return s.mapToPostResponse(post), nil
}

// ListPosts возвращает список постов с пагинацией и фильтрацией
func (s *BlogService) ListPosts(ctx context.Context, statusFilter string, page, perPage int) (*dto.BlogPostListResponse, error) {
	const op = "services.BlogService.ListPosts"

	log := s.log.With(
		slog.String("op", op),
		slog.String("status_filter", statusFilter),
	)

	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 10
	}

	posts, total, err := s.repo.GetBlogPosts(ctx, statusFilter, page, perPage)
	if err != nil {
		log.Error("failed to list posts", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	response := &dto.BlogPostListResponse{
		Posts:      make([]dto.BlogPostResponse, 0, len(posts)),
		TotalCount: total,
		Page:       page,
		PerPage:    perPage,
	}

	for i := range posts {
		response.Posts = append(response.Posts, *s.mapToPostResponse(&posts[i]))
	}

	log.Debug("posts listed", slog.Int("count", len(posts)))

	return response, nil
}

// PublishPost публикует пост; дата первой публикации сохраняется
func (s *BlogService) PublishPost(ctx context.Context, postID uuid.UUID) (*dto.BlogPostResponse, error) {
	const op = "services.BlogService.PublishPost"

	existing, err := s.repo.GetBlogPostByID(ctx, postID)
	if err != nil {
		return nil, s.notFound(op, err)
	}

	updates := map[string]interface{}{"status": models.BlogStatusPublished}
	if existing.PublishedAt == nil {
		updates["published_at"] = time.Now()
	}

	if err := s.repo.UpdateBlogPostFields(ctx, postID, updates); err != nil {
		s.log.Error("failed to publish post", slog.String("op", op), sl.Err(err))
		return nil, s.notFound(op, err)
	}

	return s.toPostResponse(ctx, op, postID)
}

// ArchivePost отправляет пост в архив
func (s *BlogService) ArchivePost(ctx context.Context, postID uuid.UUID) (*dto.BlogPostResponse, error) {
	const op = "services.BlogService.ArchivePost"

	if err := s.repo.SoftDeleteBlogPost(ctx, postID); err != nil {
		s.log.Error("failed to archive post", slog.String("op", op), sl.Err(err))
		return nil, s.notFound(op, err)
	}

	return s.toPostResponse(ctx, op, postID)
}

// DeletePost удаляет пост (физическое удаление)
func (s *BlogService) DeletePost(ctx context.Context, postID uuid.UUID) error {
	const op = "services.BlogService.DeletePost"

	if err := s.repo.DeleteBlogPost(ctx, postID); err != nil {
		s.log.Error("failed to delete post", slog.String("op", op), sl.Err(err))
		return s.notFound(op, err)
	}

	s.log.Info("post deleted", slog.String("op", op), slog.String("post_id", postID.String()))

	return nil
}

func (s *BlogService) notFound(op string, err error) error {
	if errors.Is(err, storage.ErrPostNotFound) {
		return fmt.Errorf("%s: %w", op, ErrPostNotFound)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func (s *BlogService) toPostResponse(ctx context.Context, op string, postID uuid.UUID) (*dto.BlogPostResponse, error) {
	post, err := s.repo.GetBlogPostByID(ctx, postID)
	if err != nil {
		return nil, s.notFound(op, err)
	}
	return s.mapToPostResponse(post), nil
}

func (s *BlogService) mapToPostResponse(post *models.BlogPost) *dto.BlogPostResponse {
	return &dto.BlogPostResponse{
		ID:            post.ID,
		Title:         post.Title,
		Slug:          post.Slug,
		Excerpt:       post.Excerpt,
		Content:       post.Content,
		CoverImageURL: post.CoverImageURL,
		AuthorID:      post.AuthorID,
		Status:        post.Status,
		PublishedAt:   post.PublishedAt,
		CreatedAt:     post.CreatedAt,
		UpdatedAt:     post.UpdatedAt,
	}
}
