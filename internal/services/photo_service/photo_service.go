package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"

	"lightbox/internal/domain/models"
	"lightbox/internal/lib/imaging"
	"lightbox/internal/lib/logger/sl"
	"lightbox/internal/metrics"
	"lightbox/internal/repository"
	"lightbox/internal/storage"
	filestorage "lightbox/internal/storage/filestorage"
	"lightbox/internal/transport/http/dto"

	"github.com/google/uuid"
)

const DefaultMaxFileSize = 50 << 20

var ErrPhotoNotFound = errors.New("photo not found")

type OwnershipChecker interface {
	CheckOwner(ctx context.Context, galleryID, userID uuid.UUID) (models.Gallery, error)
}

// ProgressFunc получает процент обработанных файлов после каждого файла
type ProgressFunc func(percent int)

type PhotoService struct {
	log         *slog.Logger
	repo        repository.PhotoRepository
	owners      OwnershipChecker
	fileStorage filestorage.FileStorage
	maxFileSize int64
}

func NewPhotoService(
	log *slog.Logger,
	repo repository.PhotoRepository,
	owners OwnershipChecker,
	fileStorage filestorage.FileStorage,
	maxFileSize int64,
) *PhotoService {
	if maxFileSize <= 0 {
		maxFileSize = DefaultMaxFileSize
	}

	return &PhotoService{
		log:         log,
		repo:        repo,
		owners:      owners,
		fileStorage: fileStorage,
		maxFileSize: maxFileSize,
	}
}

// Upload обрабатывает файлы строго по очереди. При ошибке возвращаются уже
// сохраненные фото вместе с ошибкой; отмена ctx проверяется между файлами
func (s *PhotoService) Upload(ctx context.Context, ownerID, galleryID uuid.UUID, files []dto.PhotoFile, progress ProgressFunc) ([]models.Photo, error) {
	const op = "services.PhotoService.Upload"

	log := s.log.With(
		slog.String("op", op),
		slog.String("gallery_id", galleryID.String()),
		slog.Int("files", len(files)),
	)

	if _, err := s.owners.CheckOwner(ctx, galleryID, ownerID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("upload photos")

	uploaded := make([]models.Photo, 0, len(files))
	for i, f := range files {
		if err := ctx.Err(); err != nil {
			log.Warn("upload cancelled", slog.Int("done", i))
			return uploaded, fmt.Errorf("%s: %w", op, err)
		}

		photo, err := s.uploadOne(ctx, galleryID, f)
		if err != nil {
			log.Error("failed to upload photo", slog.String("filename", f.Filename), sl.Err(err))
			return uploaded, fmt.Errorf("%s: %s: %w", op, f.Filename, err)
		}

		uploaded = append(uploaded, photo)
		metrics.PhotosUploaded.Inc()

		if progress != nil {
			progress((i + 1) * 100 / len(files))
		}
	}

	log.Info("photos uploaded", slog.Int("count", len(uploaded)))

	return uploaded, nil
}

func (s *PhotoService) uploadOne(ctx context.Context, galleryID uuid.UUID, f dto.PhotoFile) (models.Photo, error) {
	data, err := s.readFile(f)
	if err != nil {
		return models.Photo{}, err
	}

	decoded, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return models.Photo{}, storage.ErrInvalidFileType
	}

	renditions, err := imaging.Renditions(decoded.Image)
	if err != nil {
		return models.Photo{}, err
	}

	photoID := uuid.New()
	prefix := models.PhotoPrefix(galleryID, photoID)
	originalKey := path.Join(prefix, "original"+extension(decoded.Format))

	var written []string
	cleanup := func() {
		cctx := context.WithoutCancel(ctx)
		for _, key := range written {
			if err := s.fileStorage.Delete(cctx, key); err != nil {
				s.log.Warn("failed to remove orphaned object", slog.String("key", key), sl.Err(err))
			}
		}
	}

	size, err := s.fileStorage.Put(ctx, originalKey, bytes.NewReader(data))
	if err != nil {
		return models.Photo{}, err
	}
	written = append(written, originalKey)

	urls := make(map[string]string, len(renditions))
	for _, r := range renditions {
		key := path.Join(prefix, r.Name)
		if _, err := s.fileStorage.Put(ctx, key, bytes.NewReader(r.Data)); err != nil {
			cleanup()
			return models.Photo{}, err
		}
		written = append(written, key)
		urls[r.Name] = s.fileStorage.URL(key)
	}

	photo := models.Photo{
		ID:           photoID,
		GalleryID:    galleryID,
		Filename:     path.Base(f.Filename),
		StorageKey:   originalKey,
		ThumbnailURL: urls[models.ThumbObject],
		WebURL:       urls[models.WebObject],
		OriginalURL:  s.fileStorage.URL(originalKey),
		Width:        decoded.Width,
		Height:       decoded.Height,
		FileSize:     size,
	}

	if err := photo.Validate(); err != nil {
		cleanup()
		return models.Photo{}, err
	}

	created, err := s.repo.CreatePhoto(ctx, photo)
	if err != nil {
		cleanup()
		return models.Photo{}, err
	}

	return created, nil
}

func (s *PhotoService) readFile(f dto.PhotoFile) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, s.maxFileSize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > s.maxFileSize {
		return nil, storage.ErrFileTooLarge
	}
	if len(data) == 0 {
		return nil, storage.ErrInvalidFileType
	}

	return data, nil
}

// DeletePhoto удаляет сначала объекты хранилища, потом запись
func (s *PhotoService) DeletePhoto(ctx context.Context, ownerID, galleryID, photoID uuid.UUID) error {
	const op = "services.PhotoService.DeletePhoto"

	log := s.log.With(
		slog.String("op", op),
		slog.String("photo_id", photoID.String()),
	)

	if _, err := s.owners.CheckOwner(ctx, galleryID, ownerID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	photo, err := s.repo.GetPhoto(ctx, photoID)
	if err != nil {
		if errors.Is(err, storage.ErrPhotoNotFound) {
			return fmt.Errorf("%s: %w", op, ErrPhotoNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	if photo.GalleryID != galleryID {
		return fmt.Errorf("%s: %w", op, ErrPhotoNotFound)
	}

	for _, key := range photo.ObjectKeys() {
		if err := s.fileStorage.Delete(ctx, key); err != nil && !errors.Is(err, storage.ErrFileNotFound) {
			log.Error("failed to delete photo object", slog.String("key", key), sl.Err(err))
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	if err := s.repo.DeletePhoto(ctx, photoID); err != nil {
		log.Error("failed to delete photo record", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("photo deleted")

	return nil
}

func (s *PhotoService) Reorder(ctx context.Context, ownerID, galleryID uuid.UUID, rawIDs []string) error {
	const op = "services.PhotoService.Reorder"

	if _, err := s.owners.CheckOwner(ctx, galleryID, ownerID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	ids := make([]uuid.UUID, 0, len(rawIDs))
	seen := make(map[uuid.UUID]struct{}, len(rawIDs))
	for _, raw := range rawIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return fmt.Errorf("%s: %w", op, ErrPhotoNotFound)
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	if err := s.repo.ReorderPhotos(ctx, galleryID, ids); err != nil {
		if errors.Is(err, storage.ErrPhotoNotFound) {
			return fmt.Errorf("%s: %w", op, ErrPhotoNotFound)
		}
		s.log.Error("failed to reorder photos", slog.String("op", op), sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func extension(format string) string {
	switch strings.ToLower(format) {
	case "jpeg", "jpg":
		return ".jpg"
	case "":
		return ""
	default:
		return "." + strings.ToLower(format)
	}
}
