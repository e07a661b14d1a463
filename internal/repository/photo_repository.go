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
	"github.com/lib/pq"
)

var photoColumns = []string{
	"id",
	"gallery_id",
	"filename",
	"storage_key",
	"thumbnail_url",
	"web_url",
	"original_url",
	"position",
	"width",
	"height",
	"file_size",
	"created_at",
}

type PhotoRepo struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

func NewPhotoRepo(db *pgxpool.Pool) *PhotoRepo {
	return &PhotoRepo{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// CreatePhoto добавляет фото в конец галереи (position = max + 1)
func (r *PhotoRepo) CreatePhoto(ctx context.Context, photo models.Photo) (models.Photo, error) {
	const op = "repository.PhotoRepo.CreatePhoto"

	if photo.ID == uuid.Nil {
		photo.ID = uuid.New()
	}

	query, args, err := r.sb.Insert("photos").
		Columns(
			"id",
			"gallery_id",
			"filename",
			"storage_key",
			"thumbnail_url",
			"web_url",
			"original_url",
			"position",
			"width",
			"height",
			"file_size",
		).
		Values(
			photo.ID,
			photo.GalleryID,
			photo.Filename,
			photo.StorageKey,
			photo.ThumbnailURL,
			photo.WebURL,
			photo.OriginalURL,
			squirrel.Expr("(SELECT COALESCE(MAX(position), 0) + 1 FROM photos WHERE gallery_id = ?)", photo.GalleryID),
			photo.Width,
			photo.Height,
			photo.FileSize,
		).
		Suffix("RETURNING " + joinColumns(photoColumns)).
		ToSql()
	if err != nil {
		return models.Photo{}, fmt.Errorf("%s: %w", op, err)
	}

	created, err := scanPhoto(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return models.Photo{}, fmt.Errorf("%s: %w", op, err)
	}

	return created, nil
}

func (r *PhotoRepo) GetPhoto(ctx context.Context, id uuid.UUID) (models.Photo, error) {
	const op = "repository.PhotoRepo.GetPhoto"

	query, args, err := r.sb.Select(photoColumns...).
		From("photos").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return models.Photo{}, fmt.Errorf("%s: %w", op, err)
	}

	p, err := scanPhoto(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Photo{}, fmt.Errorf("%s: %w", op, storage.ErrPhotoNotFound)
		}
		return models.Photo{}, fmt.Errorf("%s: %w", op, err)
	}

	return p, nil
}

func (r *PhotoRepo) ListPhotosByGallery(ctx context.Context, galleryID uuid.UUID) ([]models.Photo, error) {
	const op = "repository.PhotoRepo.ListPhotosByGallery"

	query, args, err := r.sb.Select(photoColumns...).
		From("photos").
		Where(squirrel.Eq{"gallery_id": galleryID}).
		OrderBy("position ASC", "created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	photos := []models.Photo{}
	for rows.Next() {
		p, err := scanPhoto(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		photos = append(photos, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return photos, nil
}

func (r *PhotoRepo) DeletePhoto(ctx context.Context, id uuid.UUID) error {
	const op = "repository.PhotoRepo.DeletePhoto"

	query, args, err := r.sb.Delete("photos").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrPhotoNotFound)
	}

	return nil
}

// ReorderPhotos выставляет позиции 1..n по порядку списка.
// Все id должны принадлежать галерее, иначе изменения откатываются
func (r *PhotoRepo) ReorderPhotos(ctx context.Context, galleryID uuid.UUID, orderedIDs []uuid.UUID) error {
	const op = "repository.PhotoRepo.ReorderPhotos"

	ids := make([]string, len(orderedIDs))
	for i, id := range orderedIDs {
		ids[i] = id.String()
	}

	const query = `
		UPDATE photos AS p
		SET position = o.ord
		FROM unnest($1::uuid[]) WITH ORDINALITY AS o(id, ord)
		WHERE p.id = o.id AND p.gallery_id = $2`

	err := postgresql.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, query, pq.Array(ids), galleryID)
		if err != nil {
			return err
		}
		if int(tag.RowsAffected()) != len(orderedIDs) {
			return storage.ErrPhotoNotFound
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func scanPhoto(row pgx.Row) (models.Photo, error) {
	var p models.Photo
	err := row.Scan(
		&p.ID,
		&p.GalleryID,
		&p.Filename,
		&p.StorageKey,
		&p.ThumbnailURL,
		&p.WebURL,
		&p.OriginalURL,
		&p.Position,
		&p.Width,
		&p.Height,
		&p.FileSize,
		&p.CreatedAt,
	)
	return p, err
}
