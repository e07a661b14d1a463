package services

import (
	"context"
	"errors"
	"io"
	"testing"

	"lightbox/internal/domain/models"
	"lightbox/internal/lib/logger/handlers/slogdiscard"
	"lightbox/internal/lib/random"
	"lightbox/internal/storage"
	"lightbox/internal/transport/http/dto"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type MockGalleryRepository struct {
	mock.Mock
}

func (m *MockGalleryRepository) CreateGallery(ctx context.Context, gallery models.Gallery) (models.Gallery, error) {
	args := m.Called(ctx, gallery)
	return args.Get(0).(models.Gallery), args.Error(1)
}

func (m *MockGalleryRepository) GetGalleryByID(ctx context.Context, id uuid.UUID) (models.Gallery, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Gallery), args.Error(1)
}

func (m *MockGalleryRepository) GetGalleryBySlug(ctx context.Context, slug string) (models.Gallery, error) {
	args := m.Called(ctx, slug)
	return args.Get(0).(models.Gallery), args.Error(1)
}

func (m *MockGalleryRepository) ListGalleriesByPhotographer(ctx context.Context, photographerID uuid.UUID) ([]models.Gallery, error) {
	args := m.Called(ctx, photographerID)
	return args.Get(0).([]models.Gallery), args.Error(1)
}

func (m *MockGalleryRepository) UpdateGallery(ctx context.Context, gallery models.Gallery) error {
	return m.Called(ctx, gallery).Error(0)
}

func (m *MockGalleryRepository) SetAccessKey(ctx context.Context, id uuid.UUID, key string) error {
	return m.Called(ctx, id, key).Error(0)
}

func (m *MockGalleryRepository) DeleteGallery(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockGalleryRepository) IncrementViewCount(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type MockPhotoRepository struct {
	mock.Mock
}

func (m *MockPhotoRepository) CreatePhoto(ctx context.Context, photo models.Photo) (models.Photo, error) {
	args := m.Called(ctx, photo)
	return args.Get(0).(models.Photo), args.Error(1)
}

func (m *MockPhotoRepository) GetPhoto(ctx context.Context, id uuid.UUID) (models.Photo, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Photo), args.Error(1)
}

func (m *MockPhotoRepository) ListPhotosByGallery(ctx context.Context, galleryID uuid.UUID) ([]models.Photo, error) {
	args := m.Called(ctx, galleryID)
	return args.Get(0).([]models.Photo), args.Error(1)
}

func (m *MockPhotoRepository) DeletePhoto(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockPhotoRepository) ReorderPhotos(ctx context.Context, galleryID uuid.UUID, orderedIDs []uuid.UUID) error {
	return m.Called(ctx, galleryID, orderedIDs).Error(0)
}

type MockFileStorage struct {
	mock.Mock
}

func (m *MockFileStorage) Put(ctx context.Context, key string, r io.Reader) (int64, error) {
	args := m.Called(ctx, key, r)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockFileStorage) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockFileStorage) URL(key string) string {
	return "/uploads/" + key
}

type fixture struct {
	galleries *MockGalleryRepository
	photos    *MockPhotoRepository
	files     *MockFileStorage
	svc       *GalleryService
}

func newFixture() fixture {
	f := fixture{
		galleries: new(MockGalleryRepository),
		photos:    new(MockPhotoRepository),
		files:     new(MockFileStorage),
	}
	f.svc = NewGalleryService(slogdiscard.NewDiscardLogger(), f.galleries, f.photos, f.files)
	return f
}

func TestGalleryService_CreateGallery(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()

	t.Run("builds slug key and password hash", func(t *testing.T) {
		f := newFixture()

		var saved models.Gallery
		f.galleries.On("CreateGallery", ctx, mock.AnythingOfType("models.Gallery")).
			Run(func(args mock.Arguments) { saved = args.Get(1).(models.Gallery) }).
			Return(models.Gallery{ID: uuid.New()}, nil).Once()

		_, err := f.svc.CreateGallery(ctx, owner, dto.CreateGalleryRequest{
			Title:    "Smith Wedding 2024",
			Password: "secret1",
		})
		require.NoError(t, err)

		assert.Equal(t, owner, saved.PhotographerID)
		assert.Regexp(t, `^smith-wedding-2024-[a-z0-9]{6}$`, saved.Slug)
		assert.Len(t, saved.AccessKey, random.AccessKeyLength)
		require.True(t, saved.HasPassword())
		assert.NoError(t, bcrypt.CompareHashAndPassword(saved.PasswordHash, []byte("secret1")))
	})

	t.Run("retries once on slug conflict", func(t *testing.T) {
		f := newFixture()

		var slugs []string
		f.galleries.On("CreateGallery", ctx, mock.Anything).
			Run(func(args mock.Arguments) { slugs = append(slugs, args.Get(1).(models.Gallery).Slug) }).
			Return(models.Gallery{}, storage.ErrAlreadyExists).Once()
		f.galleries.On("CreateGallery", ctx, mock.Anything).
			Run(func(args mock.Arguments) { slugs = append(slugs, args.Get(1).(models.Gallery).Slug) }).
			Return(models.Gallery{ID: uuid.New()}, nil).Once()

		_, err := f.svc.CreateGallery(ctx, owner, dto.CreateGalleryRequest{Title: "Family"})
		require.NoError(t, err)
		require.Len(t, slugs, 2)
		assert.NotEqual(t, slugs[0], slugs[1])
	})

	t.Run("second conflict is returned", func(t *testing.T) {
		f := newFixture()
		f.galleries.On("CreateGallery", ctx, mock.Anything).Return(models.Gallery{}, storage.ErrAlreadyExists).Twice()

		_, err := f.svc.CreateGallery(ctx, owner, dto.CreateGalleryRequest{Title: "Family"})
		assert.ErrorIs(t, err, storage.ErrAlreadyExists)
		f.galleries.AssertNumberOfCalls(t, "CreateGallery", 2)
	})

	t.Run("blank title", func(t *testing.T) {
		f := newFixture()
		_, err := f.svc.CreateGallery(ctx, owner, dto.CreateGalleryRequest{Title: "  "})
		assert.Error(t, err)
		f.galleries.AssertNotCalled(t, "CreateGallery", mock.Anything, mock.Anything)
	})
}

func TestGalleryService_Ownership(t *testing.T) {
	ctx := context.Background()
	owner, stranger := uuid.New(), uuid.New()
	g := models.Gallery{ID: uuid.New(), PhotographerID: owner}

	tests := []struct {
		name string
		call func(s *GalleryService) error
	}{
		{
			name: "update",
			call: func(s *GalleryService) error {
				title := "x"
				_, err := s.UpdateGallery(ctx, stranger, g.ID, dto.UpdateGalleryRequest{Title: &title})
				return err
			},
		},
		{
			name: "regenerate key",
			call: func(s *GalleryService) error {
				_, err := s.RegenerateAccessKey(ctx, stranger, g.ID)
				return err
			},
		},
		{
			name: "delete",
			call: func(s *GalleryService) error { return s.DeleteGallery(ctx, stranger, g.ID) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.galleries.On("GetGalleryByID", ctx, g.ID).Return(g, nil).Once()

			assert.ErrorIs(t, tt.call(f.svc), ErrForbidden)
			f.galleries.AssertNotCalled(t, "UpdateGallery", mock.Anything, mock.Anything)
			f.galleries.AssertNotCalled(t, "SetAccessKey", mock.Anything, mock.Anything, mock.Anything)
			f.galleries.AssertNotCalled(t, "DeleteGallery", mock.Anything, mock.Anything)
		})
	}

	t.Run("missing gallery", func(t *testing.T) {
		f := newFixture()
		f.galleries.On("GetGalleryByID", ctx, g.ID).Return(models.Gallery{}, storage.ErrGalleryNotFound).Once()

		_, err := f.svc.CheckOwner(ctx, g.ID, owner)
		assert.ErrorIs(t, err, ErrGalleryNotFound)
	})
}

func TestGalleryService_UpdateGallery(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	hash, err := bcrypt.GenerateFromPassword([]byte("old-pass"), bcrypt.MinCost)
	require.NoError(t, err)

	g := models.Gallery{ID: uuid.New(), PhotographerID: owner, Title: "Old", PasswordHash: hash}

	f := newFixture()
	f.galleries.On("GetGalleryByID", ctx, g.ID).Return(g, nil).Once()
	f.galleries.On("UpdateGallery", ctx, mock.MatchedBy(func(u models.Gallery) bool {
		return u.Title == "New" && u.IsPublic && !u.HasPassword()
	})).Return(nil).Once()

	title, public, noPassword := "New", true, ""
	updated, err := f.svc.UpdateGallery(ctx, owner, g.ID, dto.UpdateGalleryRequest{
		Title:    &title,
		IsPublic: &public,
		Password: &noPassword,
	})
	require.NoError(t, err)
	assert.Equal(t, "New", updated.Title)
	f.galleries.AssertExpectations(t)
}

func TestGalleryService_RegenerateAccessKey(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	g := models.Gallery{ID: uuid.New(), PhotographerID: owner, AccessKey: "old"}

	f := newFixture()
	f.galleries.On("GetGalleryByID", ctx, g.ID).Return(g, nil).Once()
	f.galleries.On("SetAccessKey", ctx, g.ID, mock.AnythingOfType("string")).Return(nil).Once()

	key, err := f.svc.RegenerateAccessKey(ctx, owner, g.ID)
	require.NoError(t, err)
	assert.Len(t, key, random.AccessKeyLength)
	assert.NotEqual(t, "old", key)
}

func TestGalleryService_DeleteGallery(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	g := models.Gallery{ID: uuid.New(), PhotographerID: owner}
	p := models.Photo{ID: uuid.New(), GalleryID: g.ID}
	p.StorageKey = models.PhotoPrefix(g.ID, p.ID) + "/original.jpg"

	f := newFixture()
	f.galleries.On("GetGalleryByID", ctx, g.ID).Return(g, nil).Once()
	f.photos.On("ListPhotosByGallery", ctx, g.ID).Return([]models.Photo{p}, nil).Once()
	f.galleries.On("DeleteGallery", ctx, g.ID).Return(nil).Once()
	for _, key := range p.ObjectKeys() {
		f.files.On("Delete", ctx, key).Return(nil).Once()
	}

	require.NoError(t, f.svc.DeleteGallery(ctx, owner, g.ID))
	f.galleries.AssertExpectations(t)
	f.files.AssertExpectations(t)
}

func TestGalleryService_View(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	hash, err := bcrypt.GenerateFromPassword([]byte("letmein"), bcrypt.MinCost)
	require.NoError(t, err)

	private := models.Gallery{
		ID:             uuid.New(),
		PhotographerID: owner,
		Slug:           "private-abc123",
		AccessKey:      "k3yk3yk3yk3yk3yk3yk3yk3y",
		PasswordHash:   hash,
	}
	photo := models.Photo{ID: uuid.New(), GalleryID: private.ID}

	tests := []struct {
		name      string
		viewer    uuid.UUID
		access    dto.GalleryAccess
		wantErr   error
		wantCount bool
	}{
		{name: "no credentials", access: dto.GalleryAccess{}, wantErr: ErrGalleryLocked},
		{name: "wrong key", access: dto.GalleryAccess{Key: "nope"}, wantErr: ErrGalleryLocked},
		{name: "wrong password", access: dto.GalleryAccess{Password: "guess"}, wantErr: ErrGalleryLocked},
		{name: "stranger token", viewer: uuid.New(), wantErr: ErrGalleryLocked},
		{name: "access key", access: dto.GalleryAccess{Key: private.AccessKey}, wantCount: true},
		{name: "password", access: dto.GalleryAccess{Password: "letmein"}, wantCount: true},
		{name: "owner", viewer: owner},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.galleries.On("GetGalleryBySlug", ctx, private.Slug).Return(private, nil).Once()
			f.galleries.On("IncrementViewCount", ctx, private.ID).Return(nil).Maybe()
			f.photos.On("ListPhotosByGallery", ctx, private.ID).Return([]models.Photo{photo}, nil).Maybe()

			view, err := f.svc.View(ctx, private.Slug, tt.viewer, tt.access)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				f.galleries.AssertNotCalled(t, "IncrementViewCount", mock.Anything, mock.Anything)
				return
			}

			require.NoError(t, err)
			assert.Len(t, view.Photos, 1)
			if tt.wantCount {
				f.galleries.AssertCalled(t, "IncrementViewCount", ctx, private.ID)
				assert.Empty(t, view.Gallery.AccessKey)
				assert.Equal(t, int64(1), view.Gallery.ViewCount)
			} else {
				f.galleries.AssertNotCalled(t, "IncrementViewCount", mock.Anything, mock.Anything)
				assert.Equal(t, private.AccessKey, view.Gallery.AccessKey)
			}
		})
	}

	t.Run("public gallery and deep link", func(t *testing.T) {
		public := models.Gallery{ID: uuid.New(), Slug: "open-xyz999", IsPublic: true, AccessKey: "secret"}
		other := uuid.New()

		f := newFixture()
		f.galleries.On("GetGalleryBySlug", ctx, public.Slug).Return(public, nil).Twice()
		f.galleries.On("IncrementViewCount", ctx, public.ID).Return(errors.New("db hiccup")).Twice()
		f.photos.On("ListPhotosByGallery", ctx, public.ID).Return([]models.Photo{photo}, nil).Twice()

		view, err := f.svc.View(ctx, public.Slug, uuid.Nil, dto.GalleryAccess{PhotoID: photo.ID.String()})
		require.NoError(t, err)
		require.NotNil(t, view.Selected)
		assert.Equal(t, photo.ID, view.Selected.ID)
		assert.Empty(t, view.Gallery.AccessKey)

		// фото из другой галереи не выбирается
		view, err = f.svc.View(ctx, public.Slug, uuid.Nil, dto.GalleryAccess{PhotoID: other.String()})
		require.NoError(t, err)
		assert.Nil(t, view.Selected)
	})

	t.Run("unknown slug", func(t *testing.T) {
		f := newFixture()
		f.galleries.On("GetGalleryBySlug", ctx, "missing").Return(models.Gallery{}, storage.ErrGalleryNotFound).Once()

		_, err := f.svc.View(ctx, "missing", uuid.Nil, dto.GalleryAccess{})
		assert.ErrorIs(t, err, ErrGalleryNotFound)
	})
}
