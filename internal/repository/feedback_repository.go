package repository

import (
	"context"
	"errors"
	"fmt"

	"lightbox/internal/domain/models"
	"lightbox/internal/storage"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

var (
	commentColumns  = []string{"id", "photo_id", "gallery_id", "client_name", "body", "reply", "replied_at", "is_read", "created_at"}
	favoriteColumns = []string{"id", "photo_id", "gallery_id", "client_name", "created_at"}
)

// FeedbackRepo комментарии и избранное клиентов
type FeedbackRepo struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

func NewFeedbackRepo(db *pgxpool.Pool) *FeedbackRepo {
	return &FeedbackRepo{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *FeedbackRepo) AddComment(ctx context.Context, c models.Comment) (models.Comment, error) {
	const op = "repository.FeedbackRepo.AddComment"

	query, args, err := r.sb.Insert("comments").
		Columns("photo_id", "gallery_id", "client_name", "body").
		Values(c.PhotoID, c.GalleryID, c.ClientName, c.Body).
		Suffix("RETURNING " + joinColumns(commentColumns)).
		ToSql()
	if err != nil {
		return models.Comment{}, fmt.Errorf("%s: %w", op, err)
	}

	created, err := scanComment(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return models.Comment{}, fmt.Errorf("%s: %w", op, err)
	}

	return created, nil
}

func (r *FeedbackRepo) GetComment(ctx context.Context, id uuid.UUID) (models.Comment, error) {
	const op = "repository.FeedbackRepo.GetComment"

	query, args, err := r.sb.Select(commentColumns...).
		From("comments").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return models.Comment{}, fmt.Errorf("%s: %w", op, err)
	}

	c, err := scanComment(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Comment{}, fmt.Errorf("%s: %w", op, storage.ErrCommentNotFound)
		}
		return models.Comment{}, fmt.Errorf("%s: %w", op, err)
	}

	return c, nil
}

func (r *FeedbackRepo) ListCommentsByPhoto(ctx context.Context, photoID uuid.UUID) ([]models.Comment, error) {
	const op = "repository.FeedbackRepo.ListCommentsByPhoto"

	return r.listComments(ctx, op, squirrel.Eq{"photo_id": photoID})
}

func (r *FeedbackRepo) ListCommentsByGallery(ctx context.Context, galleryID uuid.UUID) ([]models.Comment, error) {
	const op = "repository.FeedbackRepo.ListCommentsByGallery"

	return r.listComments(ctx, op, squirrel.Eq{"gallery_id": galleryID})
}

func (r *FeedbackRepo) listComments(ctx context.Context, op string, where squirrel.Eq) ([]models.Comment, error) {
	query, args, err := r.sb.Select(commentColumns...).
		From("comments").
		Where(where).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	comments := []models.Comment{}
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		comments = append(comments, c)
	}

	return comments, rows.Err()
}

// ReplyToComment сохраняет ответ фотографа и помечает комментарий прочитанным
func (r *FeedbackRepo) ReplyToComment(ctx context.Context, id uuid.UUID, reply string) (models.Comment, error) {
	const op = "repository.FeedbackRepo.ReplyToComment"

	query, args, err := r.sb.Update("comments").
		Set("reply", reply).
		Set("replied_at", squirrel.Expr("NOW()")).
		Set("is_read", true).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + joinColumns(commentColumns)).
		ToSql()
	if err != nil {
		return models.Comment{}, fmt.Errorf("%s: %w", op, err)
	}

	c, err := scanComment(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Comment{}, fmt.Errorf("%s: %w", op, storage.ErrCommentNotFound)
		}
		return models.Comment{}, fmt.Errorf("%s: %w", op, err)
	}

	return c, nil
}

func (r *FeedbackRepo) MarkCommentRead(ctx context.Context, id uuid.UUID) error {
	const op = "repository.FeedbackRepo.MarkCommentRead"

	query, args, err := r.sb.Update("comments").
		Set("is_read", true).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrCommentNotFound)
	}

	return nil
}

// AddFavorite идемпотентен: повторная отметка возвращает существующую запись
func (r *FeedbackRepo) AddFavorite(ctx context.Context, fav models.Favorite) (models.Favorite, error) {
	const op = "repository.FeedbackRepo.AddFavorite"

	query, args, err := r.sb.Insert("favorites").
		Columns("photo_id", "gallery_id", "client_name").
		Values(fav.PhotoID, fav.GalleryID, fav.ClientName).
		Suffix("ON CONFLICT (photo_id, client_name) DO UPDATE SET client_name = EXCLUDED.client_name RETURNING " + joinColumns(favoriteColumns)).
		ToSql()
	if err != nil {
		return models.Favorite{}, fmt.Errorf("%s: %w", op, err)
	}

	created, err := scanFavorite(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return models.Favorite{}, fmt.Errorf("%s: %w", op, err)
	}

	return created, nil
}

func (r *FeedbackRepo) RemoveFavorite(ctx context.Context, photoID uuid.UUID, clientName string) error {
	const op = "repository.FeedbackRepo.RemoveFavorite"

	query, args, err := r.sb.Delete("favorites").
		Where(squirrel.Eq{"photo_id": photoID, "client_name": clientName}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *FeedbackRepo) ListFavoritesByClient(ctx context.Context, galleryID uuid.UUID, clientName string) ([]models.Favorite, error) {
	const op = "repository.FeedbackRepo.ListFavoritesByClient"

	return r.listFavorites(ctx, op, squirrel.Eq{"gallery_id": galleryID, "client_name": clientName})
}

func (r *FeedbackRepo) ListFavoritesByGallery(ctx context.Context, galleryID uuid.UUID) ([]models.Favorite, error) {
	const op = "repository.FeedbackRepo.ListFavoritesByGallery"

	return r.listFavorites(ctx, op, squirrel.Eq{"gallery_id": galleryID})
}

func (r *FeedbackRepo) listFavorites(ctx context.Context, op string, where squirrel.Eq) ([]models.Favorite, error) {
	query, args, err := r.sb.Select(favoriteColumns...).
		From("favorites").
		Where(where).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	favs := []models.Favorite{}
	for rows.Next() {
		f, err := scanFavorite(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		favs = append(favs, f)
	}

	return favs, rows.Err()
}

func scanComment(row pgx.Row) (models.Comment, error) {
	var c models.Comment
	err := row.Scan(
		&c.ID,
		&c.PhotoID,
		&c.GalleryID,
		&c.ClientName,
		&c.Body,
		&c.Reply,
		&c.RepliedAt,
		&c.IsRead,
		&c.CreatedAt,
	)
	return c, err
}

func scanFavorite(row pgx.Row) (models.Favorite, error) {
	var f models.Favorite
	err := row.Scan(&f.ID, &f.PhotoID, &f.GalleryID, &f.ClientName, &f.CreatedAt)
	return f, err
}
