package repository

import (
	"context"
	"errors"
	"fmt"

	"lightbox/internal/domain/models"
	"lightbox/internal/storage"
	"lightbox/internal/storage/postgresql"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

var galleryColumns = []string{
	"id",
	"photographer_id",
	"title",
	"slug",
	"description",
	"is_public",
	"password_hash",
	"access_key",
	"view_count",
	"created_at",
	"updated_at",
}

type GalleryRepo struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

func NewGalleryRepo(db *pgxpool.Pool) *GalleryRepo {
	return &GalleryRepo{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// CreateGallery создает новую галерею; конфликт slug возвращает storage.ErrAlreadyExists
func (r *GalleryRepo) CreateGallery(ctx context.Context, gallery models.Gallery) (models.Gallery, error) {
	const op = "repository.GalleryRepo.CreateGallery"

	query, args, err := r.sb.Insert("galleries").
		Columns(
			"photographer_id",
			"title",
			"slug",
			"description",
			"is_public",
			"password_hash",
			"access_key",
		).
		Values(
			gallery.PhotographerID,
			gallery.Title,
			gallery.Slug,
			gallery.Description,
			gallery.IsPublic,
			nullableBytes(gallery.PasswordHash),
			gallery.AccessKey,
		).
		Suffix("RETURNING " + joinColumns(galleryColumns)).
		ToSql()
	if err != nil {
		return models.Gallery{}, fmt.Errorf("%s: %w", op, err)
	}

	created, err := scanGallery(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if postgresql.IsUniqueViolation(err) {
			return models.Gallery{}, fmt.Errorf("%s: %w", op, storage.ErrAlreadyExists)
		}
		return models.Gallery{}, fmt.Errorf("%s: %w", op, err)
	}

	return created, nil
}

func (r *GalleryRepo) GetGalleryByID(ctx context.Context, id uuid.UUID) (models.Gallery, error) {
	const op = "repository.GalleryRepo.GetGalleryByID"

	return r.getWhere(ctx, op, squirrel.Eq{"id": id})
}

func (r *GalleryRepo) GetGalleryBySlug(ctx context.Context, slug string) (models.Gallery, error) {
	const op = "repository.GalleryRepo.GetGalleryBySlug"

	return r.getWhere(ctx, op, squirrel.Eq{"slug": slug})
}

func (r *GalleryRepo) getWhere(ctx context.Context, op string, where squirrel.Eq) (models.Gallery, error) {
	query, args, err := r.sb.Select(galleryColumns...).
		From("galleries").
		Where(where).
		ToSql()
	if err != nil {
		return models.Gallery{}, fmt.Errorf("%s: %w", op, err)
	}

	g, err := scanGallery(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Gallery{}, fmt.Errorf("%s: %w", op, storage.ErrGalleryNotFound)
		}
		return models.Gallery{}, fmt.Errorf("%s: %w", op, err)
	}

	return g, nil
}

func (r *GalleryRepo) ListGalleriesByPhotographer(ctx context.Context, photographerID uuid.UUID) ([]models.Gallery, error) {
	const op = "repository.GalleryRepo.ListGalleriesByPhotographer"

	query, args, err := r.sb.Select(galleryColumns...).
		From("galleries").
		Where(squirrel.Eq{"photographer_id": photographerID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	galleries := []models.Gallery{}
	for rows.Next() {
		g, err := scanGallery(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		galleries = append(galleries, g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return galleries, nil
}

// UpdateGallery обновляет настройки галереи (slug и ключ не меняются)
func (r *GalleryRepo) UpdateGallery(ctx context.Context, gallery models.Gallery) error {
	const op = "repository.GalleryRepo.UpdateGallery"

	query, args, err := r.sb.Update("galleries").
		Set("title", gallery.Title).
		Set("description", gallery.Description).
		Set("is_public", gallery.IsPublic).
		Set("password_hash", nullableBytes(gallery.PasswordHash)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": gallery.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return r.execOne(ctx, op, query, args)
}

func (r *GalleryRepo) SetAccessKey(ctx context.Context, id uuid.UUID, key string) error {
	const op = "repository.GalleryRepo.SetAccessKey"

	query, args, err := r.sb.Update("galleries").
		Set("access_key", key).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return r.execOne(ctx, op, query, args)
}

// DeleteGallery удаляет галерею; фото, комментарии и избранное уходят каскадом
func (r *GalleryRepo) DeleteGallery(ctx context.Context, id uuid.UUID) error {
	const op = "repository.GalleryRepo.DeleteGallery"

	query, args, err := r.sb.Delete("galleries").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return r.execOne(ctx, op, query, args)
}

func (r *GalleryRepo) IncrementViewCount(ctx context.Context, id uuid.UUID) error {
	const op = "repository.GalleryRepo.IncrementViewCount"

	query, args, err := r.sb.Update("galleries").
		Set("view_count", squirrel.Expr("view_count + 1")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return r.execOne(ctx, op, query, args)
}

func (r *GalleryRepo) execOne(ctx context.Context, op, query string, args []interface{}) error {
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrGalleryNotFound)
	}

	return nil
}

func scanGallery(row pgx.Row) (models.Gallery, error) {
	var g models.Gallery
	err := row.Scan(
		&g.ID,
		&g.PhotographerID,
		&g.Title,
		&g.Slug,
		&g.Description,
		&g.IsPublic,
		&g.PasswordHash,
		&g.AccessKey,
		&g.ViewCount,
		&g.CreatedAt,
		&g.UpdatedAt,
	)
	return g, err
}
