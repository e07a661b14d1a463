package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"lightbox/internal/domain/models"
	"lightbox/internal/lib/logger/sl"
	"lightbox/internal/repository"
	"lightbox/internal/storage"
	"lightbox/internal/transport/http/dto"

	"github.com/google/uuid"
)

var (
	ErrPhotoNotInGallery = errors.New("photo does not belong to gallery")
	ErrCommentNotFound   = errors.New("comment not found")
	ErrEmptyClientName   = errors.New("client name is required")
)

// Galleries проверки доступа, которые дает gallery_service
type Galleries interface {
	Open(ctx context.Context, slug string, viewerID uuid.UUID, access dto.GalleryAccess) (models.Gallery, error)
	CheckOwner(ctx context.Context, galleryID, userID uuid.UUID) (models.Gallery, error)
}

// Visitor кто обращается к галерее по ссылке
type Visitor struct {
	Slug     string
	ViewerID uuid.UUID
	Access   dto.GalleryAccess
}

type FeedbackService struct {
	log       *slog.Logger
	repo      repository.FeedbackRepository
	photos    repository.PhotoRepository
	galleries Galleries
}

func NewFeedbackService(log *slog.Logger, repo repository.FeedbackRepository, photos repository.PhotoRepository, galleries Galleries) *FeedbackService {
	return &FeedbackService{
		log:       log,
		repo:      repo,
		photos:    photos,
		galleries: galleries,
	}
}

func (s *FeedbackService) AddComment(ctx context.Context, v Visitor, req dto.AddCommentRequest) (models.Comment, error) {
	const op = "services.FeedbackService.AddComment"

	log := s.log.With(slog.String("op", op), slog.String("slug", v.Slug))

	photoID, err := uuid.Parse(req.PhotoID)
	if err != nil {
		return models.Comment{}, fmt.Errorf("%s: %w", op, ErrPhotoNotInGallery)
	}

	name := strings.TrimSpace(req.ClientName)
	if name == "" {
		return models.Comment{}, fmt.Errorf("%s: %w", op, ErrEmptyClientName)
	}

	g, err := s.galleryPhoto(ctx, v, photoID)
	if err != nil {
		return models.Comment{}, fmt.Errorf("%s: %w", op, err)
	}

	c, err := s.repo.AddComment(ctx, models.Comment{
		PhotoID:    photoID,
		GalleryID:  g.ID,
		ClientName: name,
		Body:       strings.TrimSpace(req.Body),
	})
	if err != nil {
		log.Error("failed to save comment", sl.Err(err))
		return models.Comment{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("comment added", slog.String("comment_id", c.ID.String()))

	return c, nil
}

func (s *FeedbackService) ListPhotoComments(ctx context.Context, v Visitor, photoID uuid.UUID) ([]models.Comment, error) {
	const op = "services.FeedbackService.ListPhotoComments"

	if _, err := s.galleryPhoto(ctx, v, photoID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	comments, err := s.repo.ListCommentsByPhoto(ctx, photoID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return comments, nil
}

func (s *FeedbackService) ListGalleryComments(ctx context.Context, ownerID, galleryID uuid.UUID) ([]models.Comment, error) {
	const op = "services.FeedbackService.ListGalleryComments"

	if _, err := s.galleries.CheckOwner(ctx, galleryID, ownerID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	comments, err := s.repo.ListCommentsByGallery(ctx, galleryID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return comments, nil
}

// Reply ответ фотографа; комментарий заодно считается прочитанным
func (s *FeedbackService) Reply(ctx context.Context, ownerID, galleryID, commentID uuid.UUID, reply string) (models.Comment, error) {
	const op = "services.FeedbackService.Reply"

	if err := s.ownComment(ctx, ownerID, galleryID, commentID); err != nil {
		return models.Comment{}, fmt.Errorf("%s: %w", op, err)
	}

	c, err := s.repo.ReplyToComment(ctx, commentID, strings.TrimSpace(reply))
	if err != nil {
		s.log.Error("failed to save reply", slog.String("op", op), sl.Err(err))
		return models.Comment{}, fmt.Errorf("%s: %w", op, err)
	}

	return c, nil
}

func (s *FeedbackService) MarkRead(ctx context.Context, ownerID, galleryID, commentID uuid.UUID) error {
	const op = "services.FeedbackService.MarkRead"

	if err := s.ownComment(ctx, ownerID, galleryID, commentID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.repo.MarkCommentRead(ctx, commentID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// AddFavorite идемпотентен: повтор возвращает ту же запись
func (s *FeedbackService) AddFavorite(ctx context.Context, v Visitor, req dto.FavoriteRequest) (models.Favorite, error) {
	const op = "services.FeedbackService.AddFavorite"

	photoID, err := uuid.Parse(req.PhotoID)
	if err != nil {
		return models.Favorite{}, fmt.Errorf("%s: %w", op, ErrPhotoNotInGallery)
	}

	name := strings.TrimSpace(req.ClientName)
	if name == "" {
		return models.Favorite{}, fmt.Errorf("%s: %w", op, ErrEmptyClientName)
	}

	g, err := s.galleryPhoto(ctx, v, photoID)
	if err != nil {
		return models.Favorite{}, fmt.Errorf("%s: %w", op, err)
	}

	fav, err := s.repo.AddFavorite(ctx, models.Favorite{
		PhotoID:    photoID,
		GalleryID:  g.ID,
		ClientName: name,
	})
	if err != nil {
		s.log.Error("failed to save favorite", slog.String("op", op), sl.Err(err))
		return models.Favorite{}, fmt.Errorf("%s: %w", op, err)
	}

	return fav, nil
}

func (s *FeedbackService) RemoveFavorite(ctx context.Context, v Visitor, photoID uuid.UUID, clientName string) error {
	const op = "services.FeedbackService.RemoveFavorite"

	name := strings.TrimSpace(clientName)
	if name == "" {
		return fmt.Errorf("%s: %w", op, ErrEmptyClientName)
	}

	if _, err := s.galleryPhoto(ctx, v, photoID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.repo.RemoveFavorite(ctx, photoID, name); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *FeedbackService) ListMyFavorites(ctx context.Context, v Visitor, clientName string) ([]models.Favorite, error) {
	const op = "services.FeedbackService.ListMyFavorites"

	name := strings.TrimSpace(clientName)
	if name == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrEmptyClientName)
	}

	g, err := s.galleries.Open(ctx, v.Slug, v.ViewerID, v.Access)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	favs, err := s.repo.ListFavoritesByClient(ctx, g.ID, name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return favs, nil
}

// FavoritesSummary избранное галереи для фотографа, по фото
func (s *FeedbackService) FavoritesSummary(ctx context.Context, ownerID, galleryID uuid.UUID) ([]models.FavoriteSummary, error) {
	const op = "services.FeedbackService.FavoritesSummary"

	if _, err := s.galleries.CheckOwner(ctx, galleryID, ownerID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	favs, err := s.repo.ListFavoritesByGallery(ctx, galleryID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return Summarize(favs), nil
}

// Summarize группирует по фото; больше отметок выше, при равенстве по photoId
func Summarize(favs []models.Favorite) []models.FavoriteSummary {
	byPhoto := make(map[uuid.UUID]*models.FavoriteSummary)
	for _, f := range favs {
		sum, ok := byPhoto[f.PhotoID]
		if !ok {
			sum = &models.FavoriteSummary{PhotoID: f.PhotoID}
			byPhoto[f.PhotoID] = sum
		}
		sum.Count++
		sum.Clients = append(sum.Clients, f.ClientName)
	}

	out := make([]models.FavoriteSummary, 0, len(byPhoto))
	for _, sum := range byPhoto {
		sort.Strings(sum.Clients)
		out = append(out, *sum)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].PhotoID.String() < out[j].PhotoID.String()
	})

	return out
}

func (s *FeedbackService) galleryPhoto(ctx context.Context, v Visitor, photoID uuid.UUID) (models.Gallery, error) {
	g, err := s.galleries.Open(ctx, v.Slug, v.ViewerID, v.Access)
	if err != nil {
		return models.Gallery{}, err
	}

	p, err := s.photos.GetPhoto(ctx, photoID)
	if err != nil {
		if errors.Is(err, storage.ErrPhotoNotFound) {
			return models.Gallery{}, ErrPhotoNotInGallery
		}
		return models.Gallery{}, err
	}
	if p.GalleryID != g.ID {
		return models.Gallery{}, ErrPhotoNotInGallery
	}

	return g, nil
}

func (s *FeedbackService) ownComment(ctx context.Context, ownerID, galleryID, commentID uuid.UUID) error {
	if _, err := s.galleries.CheckOwner(ctx, galleryID, ownerID); err != nil {
		return err
	}

	c, err := s.repo.GetComment(ctx, commentID)
	if err != nil {
		if errors.Is(err, storage.ErrCommentNotFound) {
			return ErrCommentNotFound
		}
		return err
	}
	if c.GalleryID != galleryID {
		return ErrCommentNotFound
	}

	return nil
}
