package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"lightbox/internal/domain/models"
	"lightbox/internal/lib/logger/sl"
	"lightbox/internal/lib/random"
	"lightbox/internal/lib/slug"
	"lightbox/internal/repository"
	"lightbox/internal/storage"
	filestorage "lightbox/internal/storage/filestorage"
	"lightbox/internal/transport/http/dto"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrGalleryNotFound = errors.New("gallery not found")
	ErrForbidden       = errors.New("gallery belongs to another photographer")
	ErrGalleryLocked   = errors.New("gallery requires access key or password")
)

type GalleryService struct {
	log    *slog.Logger
	repo   repository.GalleryRepository
	photos repository.PhotoRepository
	files  filestorage.FileStorage
}

func NewGalleryService(
	log *slog.Logger,
	repo repository.GalleryRepository,
	photos repository.PhotoRepository,
	files filestorage.FileStorage,
) *GalleryService {
	return &GalleryService{
		log:    log,
		repo:   repo,
		photos: photos,
		files:  files,
	}
}

// CreateGallery создает галерею фотографа. slug строится из названия и
// случайного суффикса; при конфликте suffix перевыбирается один раз
func (s *GalleryService) CreateGallery(ctx context.Context, ownerID uuid.UUID, req dto.CreateGalleryRequest) (models.Gallery, error) {
	const op = "services.GalleryService.CreateGallery"

	log := s.log.With(
		slog.String("op", op),
		slog.String("owner_id", ownerID.String()),
	)

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return models.Gallery{}, fmt.Errorf("%s: title is required", op)
	}

	key, err := random.AccessKey()
	if err != nil {
		log.Error("failed to generate access key", sl.Err(err))
		return models.Gallery{}, fmt.Errorf("%s: %w", op, err)
	}

	gallery := models.Gallery{
		PhotographerID: ownerID,
		Title:          title,
		Description:    req.Description,
		IsPublic:       req.IsPublic,
		AccessKey:      key,
	}

	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Error("failed to hash gallery password", sl.Err(err))
			return models.Gallery{}, fmt.Errorf("%s: %w", op, err)
		}
		gallery.PasswordHash = hash
	}

	base := slug.Make(title)

	var created models.Gallery
	for attempt := 0; attempt < 2; attempt++ {
		suffix, err := random.SlugSuffix()
		if err != nil {
			return models.Gallery{}, fmt.Errorf("%s: %w", op, err)
		}
		gallery.Slug = slug.WithSuffix(base, suffix)

		created, err = s.repo.CreateGallery(ctx, gallery)
		if err == nil {
			break
		}
		if !errors.Is(err, storage.ErrAlreadyExists) || attempt == 1 {
			log.Error("failed to create gallery", sl.Err(err))
			return models.Gallery{}, fmt.Errorf("%s: %w", op, err)
		}
		log.Warn("slug collision, retrying", slog.String("slug", gallery.Slug))
	}

	log.Info("gallery created", slog.String("gallery_id", created.ID.String()), slog.String("slug", created.Slug))

	return created, nil
}

// CheckOwner загружает галерею и проверяет владельца
func (s *GalleryService) CheckOwner(ctx context.Context, galleryID, userID uuid.UUID) (models.Gallery, error) {
	const op = "services.GalleryService.CheckOwner"

	g, err := s.repo.GetGalleryByID(ctx, galleryID)
	if err != nil {
		if errors.Is(err, storage.ErrGalleryNotFound) {
			return models.Gallery{}, fmt.Errorf("%s: %w", op, ErrGalleryNotFound)
		}
		return models.Gallery{}, fmt.Errorf("%s: %w", op, err)
	}

	if g.PhotographerID != userID {
		s.log.Warn("ownership check failed",
			slog.String("op", op),
			slog.String("gallery_id", galleryID.String()),
			slog.String("user_id", userID.String()),
		)
		return models.Gallery{}, fmt.Errorf("%s: %w", op, ErrForbidden)
	}

	return g, nil
}

func (s *GalleryService) UpdateGallery(ctx context.Context, ownerID, galleryID uuid.UUID, req dto.UpdateGalleryRequest) (models.Gallery, error) {
	const op = "services.GalleryService.UpdateGallery"

	log := s.log.With(
		slog.String("op", op),
		slog.String("gallery_id", galleryID.String()),
	)

	g, err := s.CheckOwner(ctx, galleryID, ownerID)
	if err != nil {
		return models.Gallery{}, fmt.Errorf("%s: %w", op, err)
	}

	if req.Title != nil {
		if t := strings.TrimSpace(*req.Title); t != "" {
			g.Title = t
		}
	}
	if req.Description != nil {
		g.Description = *req.Description
	}
	if req.IsPublic != nil {
		g.IsPublic = *req.IsPublic
	}
	if req.Password != nil {
		if *req.Password == "" {
			g.PasswordHash = nil
		} else {
			hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
			if err != nil {
				log.Error("failed to hash gallery password", sl.Err(err))
				return models.Gallery{}, fmt.Errorf("%s: %w", op, err)
			}
			g.PasswordHash = hash
		}
	}

	if err := s.repo.UpdateGallery(ctx, g); err != nil {
		log.Error("failed to update gallery", sl.Err(err))
		return models.Gallery{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("gallery updated")

	return g, nil
}

// RegenerateAccessKey делает старые ссылки недействительными
func (s *GalleryService) RegenerateAccessKey(ctx context.Context, ownerID, galleryID uuid.UUID) (string, error) {
	const op = "services.GalleryService.RegenerateAccessKey"

	if _, err := s.CheckOwner(ctx, galleryID, ownerID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	key, err := random.AccessKey()
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if err := s.repo.SetAccessKey(ctx, galleryID, key); err != nil {
		s.log.Error("failed to store access key", slog.String("op", op), sl.Err(err))
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return key, nil
}

// DeleteGallery удаляет запись (фото, комментарии и избранное уходят каскадом),
// затем подчищает файлы. Ошибки удаления файлов только логируются
func (s *GalleryService) DeleteGallery(ctx context.Context, ownerID, galleryID uuid.UUID) error {
	const op = "services.GalleryService.DeleteGallery"

	log := s.log.With(
		slog.String("op", op),
		slog.String("gallery_id", galleryID.String()),
	)

	if _, err := s.CheckOwner(ctx, galleryID, ownerID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	photos, err := s.photos.ListPhotosByGallery(ctx, galleryID)
	if err != nil {
		log.Error("failed to list photos", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.repo.DeleteGallery(ctx, galleryID); err != nil {
		log.Error("failed to delete gallery", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	for i := range photos {
		for _, key := range photos[i].ObjectKeys() {
			if err := s.files.Delete(ctx, key); err != nil && !errors.Is(err, storage.ErrFileNotFound) {
				log.Warn("failed to remove photo object", slog.String("key", key), sl.Err(err))
			}
		}
	}

	log.Info("gallery deleted", slog.Int("photos", len(photos)))

	return nil
}

func (s *GalleryService) ListMine(ctx context.Context, ownerID uuid.UUID) ([]models.Gallery, error) {
	const op = "services.GalleryService.ListMine"

	galleries, err := s.repo.ListGalleriesByPhotographer(ctx, ownerID)
	if err != nil {
		s.log.Error("failed to list galleries", slog.String("op", op), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return galleries, nil
}

// GetOwned галерея с фото для кабинета фотографа
func (s *GalleryService) GetOwned(ctx context.Context, ownerID, galleryID uuid.UUID) (models.GalleryView, error) {
	const op = "services.GalleryService.GetOwned"

	g, err := s.CheckOwner(ctx, galleryID, ownerID)
	if err != nil {
		return models.GalleryView{}, fmt.Errorf("%s: %w", op, err)
	}

	photos, err := s.photos.ListPhotosByGallery(ctx, galleryID)
	if err != nil {
		return models.GalleryView{}, fmt.Errorf("%s: %w", op, err)
	}

	return models.GalleryView{Gallery: g, Photos: photos}, nil
}

// Open находит галерею по slug и проверяет право чтения без побочных эффектов.
// viewerID равен uuid.Nil для анонимного клиента
func (s *GalleryService) Open(ctx context.Context, gallerySlug string, viewerID uuid.UUID, access dto.GalleryAccess) (models.Gallery, error) {
	const op = "services.GalleryService.Open"

	g, err := s.repo.GetGalleryBySlug(ctx, gallerySlug)
	if err != nil {
		if errors.Is(err, storage.ErrGalleryNotFound) {
			return models.Gallery{}, fmt.Errorf("%s: %w", op, ErrGalleryNotFound)
		}
		return models.Gallery{}, fmt.Errorf("%s: %w", op, err)
	}

	if !canRead(&g, viewerID, access) {
		return models.Gallery{}, fmt.Errorf("%s: %w", op, ErrGalleryLocked)
	}

	return g, nil
}

// View страница галереи для клиента: проверка доступа, счетчик просмотров,
// фото и выбранный по ?photo= кадр
func (s *GalleryService) View(ctx context.Context, gallerySlug string, viewerID uuid.UUID, access dto.GalleryAccess) (models.GalleryView, error) {
	const op = "services.GalleryService.View"

	log := s.log.With(
		slog.String("op", op),
		slog.String("slug", gallerySlug),
	)

	g, err := s.Open(ctx, gallerySlug, viewerID, access)
	if err != nil {
		return models.GalleryView{}, fmt.Errorf("%s: %w", op, err)
	}

	owner := viewerID != uuid.Nil && viewerID == g.PhotographerID
	if !owner {
		if err := s.repo.IncrementViewCount(ctx, g.ID); err != nil {
			log.Warn("failed to increment view count", sl.Err(err))
		} else {
			g.ViewCount++
		}
		g = g.Public()
	}

	photos, err := s.photos.ListPhotosByGallery(ctx, g.ID)
	if err != nil {
		log.Error("failed to list photos", sl.Err(err))
		return models.GalleryView{}, fmt.Errorf("%s: %w", op, err)
	}

	view := models.GalleryView{Gallery: g, Photos: photos}

	if access.PhotoID != "" {
		if pid, err := uuid.Parse(access.PhotoID); err == nil {
			for i := range photos {
				if photos[i].ID == pid {
					view.Selected = &photos[i]
					break
				}
			}
		}
	}

	return view, nil
}

func canRead(g *models.Gallery, viewerID uuid.UUID, access dto.GalleryAccess) bool {
	switch {
	case g.IsPublic:
		return true
	case viewerID != uuid.Nil && viewerID == g.PhotographerID:
		return true
	case g.KeyMatches(access.Key):
		return true
	case access.Password != "" && g.HasPassword():
		return bcrypt.CompareHashAndPassword(g.PasswordHash, []byte(access.Password)) == nil
	}
	return false
}
