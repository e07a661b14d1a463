package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"lightbox/internal/domain/models"
	"lightbox/internal/lib/logger/handlers/slogdiscard"
	"lightbox/internal/storage"
	"lightbox/internal/transport/http/dto"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockBlogRepository реализация мок-репозитория
type MockBlogRepository struct {
	mock.Mock
}

func (m *MockBlogRepository) SaveBlogPost(ctx context.Context, post models.BlogPost) (uuid.UUID, error) {
	args := m.Called(ctx, post)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockBlogRepository) GetBlogPostByID(ctx context.Context, id uuid.UUID) (*models.BlogPost, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BlogPost), args.Error(1)
}

func (m *MockBlogRepository) GetBlogPostBySlug(ctx context.Context, slug string) (*models.BlogPost, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BlogPost), args.Error(1)
}

func (m *MockBlogRepository) UpdateBlogPostFields(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	args := m.Called(ctx, id, updates)
	return args.Error(0)
}

func (m *MockBlogRepository) GetBlogPosts(ctx context.Context, statusFilter string, page, perPage int) ([]models.BlogPost, int, error) {
	args := m.Called(ctx, statusFilter, page, perPage)
	return args.Get(0).([]models.BlogPost), args.Int(1), args.Error(2)
}

func (m *MockBlogRepository) SoftDeleteBlogPost(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockBlogRepository) DeleteBlogPost(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestBlogService_CreatePost(t *testing.T) {
	ctx := context.Background()
	author := uuid.New()
	postID := uuid.New()

	tests := []struct {
		name        string
		req         dto.CreateBlogPostRequest
		mockSetup   func(*MockBlogRepository)
		wantErr     error
		wantAnyErr  bool
		checkResult func(*testing.T, *dto.BlogPostResponse)
	}{
		{
			name: "draft with generated slug",
			req:  dto.CreateBlogPostRequest{Title: "Golden Hour Tips", Content: "..."},
			mockSetup: func(r *MockBlogRepository) {
				r.On("SaveBlogPost", ctx, mock.MatchedBy(func(p models.BlogPost) bool {
					return p.Slug == "golden-hour-tips" && p.Status == models.BlogStatusDraft && p.PublishedAt == nil
				})).Return(postID, nil).Once()
				r.On("GetBlogPostByID", ctx, postID).
					Return(&models.BlogPost{ID: postID, Slug: "golden-hour-tips", Status: models.BlogStatusDraft}, nil).Once()
			},
			checkResult: func(t *testing.T, resp *dto.BlogPostResponse) {
				assert.Equal(t, "golden-hour-tips", resp.Slug)
			},
		},
		{
			name: "published sets published_at",
			req:  dto.CreateBlogPostRequest{Title: "Launch", Content: "...", Status: models.BlogStatusPublished},
			mockSetup: func(r *MockBlogRepository) {
				r.On("SaveBlogPost", ctx, mock.MatchedBy(func(p models.BlogPost) bool {
					return p.PublishedAt != nil
				})).Return(postID, nil).Once()
				r.On("GetBlogPostByID", ctx, postID).Return(&models.BlogPost{ID: postID}, nil).Once()
			},
		},
		{
			name: "generated slug conflict gets suffix",
			req:  dto.CreateBlogPostRequest{Title: "Launch", Content: "..."},
			mockSetup: func(r *MockBlogRepository) {
				r.On("SaveBlogPost", ctx, mock.MatchedBy(func(p models.BlogPost) bool {
					return p.Slug == "launch"
				})).Return(uuid.Nil, storage.ErrAlreadyExists).Once()
				r.On("SaveBlogPost", ctx, mock.MatchedBy(func(p models.BlogPost) bool {
					return len(p.Slug) == len("launch-")+6
				})).Return(postID, nil).Once()
				r.On("GetBlogPostByID", ctx, postID).Return(&models.BlogPost{ID: postID}, nil).Once()
			},
		},
		{
			name: "explicit slug conflict",
			req:  dto.CreateBlogPostRequest{Title: "Launch", Slug: "launch", Content: "..."},
			mockSetup: func(r *MockBlogRepository) {
				r.On("SaveBlogPost", ctx, mock.Anything).Return(uuid.Nil, storage.ErrAlreadyExists).Once()
			},
			wantErr: ErrSlugTaken,
		},
		{
			name:       "empty title",
			req:        dto.CreateBlogPostRequest{Title: " "},
			mockSetup:  func(r *MockBlogRepository) {},
			wantAnyErr: true,
		},
		{
			name: "repository failure",
			req:  dto.CreateBlogPostRequest{Title: "Launch", Content: "..."},
			mockSetup: func(r *MockBlogRepository) {
				r.On("SaveBlogPost", ctx, mock.Anything).Return(uuid.Nil, errors.New("db error")).Once()
			},
			wantAnyErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockBlogRepository)
			tt.mockSetup(repo)

			svc := NewBlogService(slogdiscard.NewDiscardLogger(), repo)
			resp, err := svc.CreatePost(ctx, author, tt.req)

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.wantAnyErr:
				assert.Error(t, err)
			default:
				require.NoError(t, err)
				if tt.checkResult != nil {
					tt.checkResult(t, resp)
				}
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestBlogService_UpdatePost(t *testing.T) {
	ctx := context.Background()
	postID := uuid.New()
	existing := &models.BlogPost{ID: postID, Title: "Old", Slug: "old"}

	t.Run("empty slug is regenerated from new title", func(t *testing.T) {
		repo := new(MockBlogRepository)
		repo.On("GetBlogPostByID", ctx, postID).Return(existing, nil).Twice()
		repo.On("UpdateBlogPostFields", ctx, postID, map[string]interface{}{
			"title": "New Title",
			"slug":  "new-title",
		}).Return(nil).Once()

		title, empty := "New Title", ""
		_, err := NewBlogService(slogdiscard.NewDiscardLogger(), repo).
			UpdatePost(ctx, postID, dto.UpdateBlogPostRequest{Title: &title, Slug: &empty})
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("nothing to change", func(t *testing.T) {
		repo := new(MockBlogRepository)
		repo.On("GetBlogPostByID", ctx, postID).Return(existing, nil).Once()

		resp, err := NewBlogService(slogdiscard.NewDiscardLogger(), repo).UpdatePost(ctx, postID, dto.UpdateBlogPostRequest{})
		require.NoError(t, err)
		assert.Equal(t, "old", resp.Slug)
		repo.AssertNotCalled(t, "UpdateBlogPostFields", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("missing post", func(t *testing.T) {
		repo := new(MockBlogRepository)
		repo.On("GetBlogPostByID", ctx, postID).Return(nil, storage.ErrPostNotFound).Once()

		_, err := NewBlogService(slogdiscard.NewDiscardLogger(), repo).UpdatePost(ctx, postID, dto.UpdateBlogPostRequest{})
		assert.ErrorIs(t, err, ErrPostNotFound)
	})
}

func TestBlogService_PublishPost(t *testing.T) {
	ctx := context.Background()
	postID := uuid.New()
	first := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("first publication stamps date", func(t *testing.T) {
		repo := new(MockBlogRepository)
		repo.On("GetBlogPostByID", ctx, postID).Return(&models.BlogPost{ID: postID}, nil).Twice()
		repo.On("UpdateBlogPostFields", ctx, postID, mock.MatchedBy(func(u map[string]interface{}) bool {
			_, stamped := u["published_at"]
			return u["status"] == models.BlogStatusPublished && stamped
		})).Return(nil).Once()

		_, err := NewBlogService(slogdiscard.NewDiscardLogger(), repo).PublishPost(ctx, postID)
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("republish keeps original date", func(t *testing.T) {
		repo := new(MockBlogRepository)
		repo.On("GetBlogPostByID", ctx, postID).
			Return(&models.BlogPost{ID: postID, Status: models.BlogStatusArchived, PublishedAt: &first}, nil).Twice()
		repo.On("UpdateBlogPostFields", ctx, postID, map[string]interface{}{"status": models.BlogStatusPublished}).Return(nil).Once()

		_, err := NewBlogService(slogdiscard.NewDiscardLogger(), repo).PublishPost(ctx, postID)
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})
}

func TestBlogService_GetPublishedBySlug(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		post    *models.BlogPost
		repoErr error
		wantErr error
	}{
		{name: "published", post: &models.BlogPost{Slug: "a", Status: models.BlogStatusPublished}},
		{name: "draft hidden", post: &models.BlogPost{Slug: "a", Status: models.BlogStatusDraft}, wantErr: ErrPostNotFound},
		{name: "missing", repoErr: storage.ErrPostNotFound, wantErr: ErrPostNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockBlogRepository)
			if tt.post != nil {
				repo.On("GetBlogPostBySlug", ctx, "a").Return(tt.post, tt.repoErr).Once()
			} else {
				repo.On("GetBlogPostBySlug", ctx, "a").Return(nil, tt.repoErr).Once()
			}

			_, err := NewBlogService(slogdiscard.NewDiscardLogger(), repo).GetPublishedBySlug(ctx, "a")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBlogService_ListPosts(t *testing.T) {
	ctx := context.Background()
	posts := []models.BlogPost{{ID: uuid.New(), Title: "A"}, {ID: uuid.New(), Title: "B"}}

	repo := new(MockBlogRepository)
	repo.On("GetBlogPosts", ctx, models.BlogStatusPublished, 1, 10).Return(posts, 2, nil).Once()

	resp, err := NewBlogService(slogdiscard.NewDiscardLogger(), repo).ListPosts(ctx, models.BlogStatusPublished, 0, 500)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.TotalCount)
	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, 10, resp.PerPage)
	require.Len(t, resp.Posts, 2)
	assert.Equal(t, "B", resp.Posts[1].Title)
}

func TestBlogService_ArchiveAndDelete(t *testing.T) {
	ctx := context.Background()
	postID := uuid.New()

	repo := new(MockBlogRepository)
	repo.On("SoftDeleteBlogPost", ctx, postID).Return(nil).Once()
	repo.On("GetBlogPostByID", ctx, postID).Return(&models.BlogPost{ID: postID, Status: models.BlogStatusArchived}, nil).Once()
	repo.On("DeleteBlogPost", ctx, postID).Return(storage.ErrPostNotFound).Once()

	svc := NewBlogService(slogdiscard.NewDiscardLogger(), repo)

	resp, err := svc.ArchivePost(ctx, postID)
	require.NoError(t, err)
	assert.Equal(t, models.BlogStatusArchived, resp.Status)

	assert.ErrorIs(t, svc.DeletePost(ctx, postID), ErrPostNotFound)
}
