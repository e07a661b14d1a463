package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lightbox/internal/domain/models"
	"lightbox/internal/storage"
	"lightbox/internal/storage/postgresql"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

var blogColumns = []string{
	"id", "title", "slug", "excerpt", "content",
	"cover_image_url", "author_id", "status",
	"published_at", "created_at", "updated_at",
}

type BlogRepo struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func NewBlogRepository(db *pgxpool.Pool) *BlogRepo {
	return &BlogRepo{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (b *BlogRepo) SaveBlogPost(ctx context.Context, blogPost models.BlogPost) (uuid.UUID, error) {
	const op = "repository.blog_repository.SaveBlogPost"

	query, args, err := b.sb.Insert("blog_posts").
		Columns(
			"title",
			"slug",
			"excerpt",
			"content",
			"cover_image_url",
			"author_id",
			"status",
			"published_at",
		).
		Values(
			blogPost.Title,
			blogPost.Slug,
			blogPost.Excerpt,
			blogPost.Content,
			blogPost.CoverImageURL,
			blogPost.AuthorID,
			blogPost.Status,
			blogPost.PublishedAt,
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	var id uuid.UUID
	err = b.db.QueryRow(ctx, query, args...).Scan(&id)
	if err != nil {
		if postgresql.IsUniqueViolation(err) {
			return uuid.Nil, fmt.Errorf("%s: %w", op, storage.ErrAlreadyExists)
		}
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

func (b *BlogRepo) UpdateBlogPostFields(ctx context.Context, postID uuid.UUID, updates map[string]interface{}) error {
	const op = "repository.blog_repository.UpdateBlogPostFields"

	allowedFields := map[string]bool{
		"title":           true,
		"slug":            true,
		"excerpt":         true,
		"content":         true,
		"cover_image_url": true,
		"status":          true,
		"published_at":    true,
	}

	if len(updates) == 0 {
		return fmt.Errorf("%s: no fields to update", op)
	}

	updateBuilder := b.sb.Update("blog_posts").
		Set("updated_at", time.Now())

	for field, value := range updates {
		if !allowedFields[field] {
			return fmt.Errorf("%s: field '%s' is not allowed for update", op, field)
		}

		updateBuilder = updateBuilder.Set(field, value)
	}

	query, args, err := updateBuilder.Where(sq.Eq{"id": postID}).ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	tag, err := b.db.Exec(ctx, query, args...)
	if err != nil {
		if postgresql.IsUniqueViolation(err) {
			return fmt.Errorf("%s: %w", op, storage.ErrAlreadyExists)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrPostNotFound)
	}

	return nil
}

// DeleteBlogPost -> обычное удаление из базы данных
func (b *BlogRepo) DeleteBlogPost(ctx context.Context, postID uuid.UUID) error {
	const op = "repository.blog_repository.DeleteBlogPost"

	query, args, err := b.sb.Delete("blog_posts").
		Where(sq.Eq{"id": postID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	result, err := b.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrPostNotFound)
	}

	return nil
}

// Softdelete -> не удаляем пост, а помещаем его в архив
func (b *BlogRepo) SoftDeleteBlogPost(ctx context.Context, postID uuid.UUID) error {
	return b.UpdateBlogPostFields(ctx, postID, map[string]interface{}{"status": models.BlogStatusArchived})
}

func (b *BlogRepo) GetBlogPostByID(ctx context.Context, postID uuid.UUID) (*models.BlogPost, error) {
	const op = "repository.blog_repository.GetBlogPostByID"

	return b.getWhere(ctx, op, sq.Eq{"id": postID})
}

func (b *BlogRepo) GetBlogPostBySlug(ctx context.Context, slug string) (*models.BlogPost, error) {
	const op = "repository.blog_repository.GetBlogPostBySlug"

	return b.getWhere(ctx, op, sq.Eq{"slug": slug})
}

func (b *BlogRepo) getWhere(ctx context.Context, op string, where sq.Eq) (*models.BlogPost, error) {
	sqlQuery, args, err := b.sb.Select(blogColumns...).
		From("blog_posts").
		Where(where).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build SQL query: %w", op, err)
	}

	post, err := scanPost(b.db.QueryRow(ctx, sqlQuery, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrPostNotFound)
		}
		return nil, fmt.Errorf("%s failed to get post: %w", op, err)
	}

	return &post, nil
}

func (b *BlogRepo) GetBlogPosts(
	ctx context.Context,
	statusFilter string, // "all", "draft", "published", "archived"
	page int,
	perPage int,
) ([]models.BlogPost, int, error) {
	const op = "repository.blog_repository.GetBlogPosts"

	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 10
	}

	queryBuilder := b.sb.Select(blogColumns...).From("blog_posts")
	countBuilder := b.sb.Select("COUNT(*)").From("blog_posts")

	switch statusFilter {
	case models.BlogStatusDraft, models.BlogStatusPublished, models.BlogStatusArchived:
		queryBuilder = queryBuilder.Where(sq.Eq{"status": statusFilter})
		countBuilder = countBuilder.Where(sq.Eq{"status": statusFilter})
	case "all":

	default:
		return nil, 0, fmt.Errorf("%s: invalid status filter '%s'", op, statusFilter)
	}

	// Общее количество постов с тем же фильтром (для пагинации)
	countQuery, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	var totalCount int
	if err := b.db.QueryRow(ctx, countQuery, countArgs...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	order := "created_at DESC"
	if statusFilter == models.BlogStatusPublished {
		order = "published_at DESC"
	}

	query, args, err := queryBuilder.
		OrderBy(order).
		Limit(uint64(perPage)).
		Offset(uint64((page - 1) * perPage)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := b.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	posts := []models.BlogPost{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("%s: %w", op, err)
		}
		posts = append(posts, post)
	}

	return posts, totalCount, rows.Err()
}

func scanPost(row pgx.Row) (models.BlogPost, error) {
	var post models.BlogPost
	err := row.Scan(
		&post.ID,
		&post.Title,
		&post.Slug,
		&post.Excerpt,
		&post.Content,
		&post.CoverImageURL,
		&post.AuthorID,
		&post.Status,
		&post.PublishedAt,
		&post.CreatedAt,
		&post.UpdatedAt,
	)
	return post, err
}
