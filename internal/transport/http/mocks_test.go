package http_test

import (
	"context"

	"lightbox/internal/domain/models"
	feedback "lightbox/internal/services/feedback_service"
	photos "lightbox/internal/services/photo_service"
	"lightbox/internal/transport/http/dto"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) RegisterUser(ctx context.Context, input dto.UserRegisterInput) (uuid.UUID, error) {
	args := m.Called(ctx, input)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockUserService) Login(ctx context.Context, email, password string) (*models.TokenPair, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TokenPair), args.Error(1)
}

func (m *MockUserService) Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TokenPair), args.Error(1)
}

func (m *MockUserService) IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserService) GetUser(ctx context.Context, userID uuid.UUID) (models.User, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(models.User), args.Error(1)
}

type MockCartStore struct {
	mock.Mock
}

func (m *MockCartStore) Get(ctx context.Context, id string) (models.Cart, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Cart), args.Error(1)
}

func (m *MockCartStore) AddItem(ctx context.Context, id string, item models.CartItem) (models.Cart, error) {
	args := m.Called(ctx, id, item)
	return args.Get(0).(models.Cart), args.Error(1)
}

func (m *MockCartStore) RemoveItem(ctx context.Context, id string, lineID uuid.UUID) (models.Cart, error) {
	args := m.Called(ctx, id, lineID)
	return args.Get(0).(models.Cart), args.Error(1)
}

func (m *MockCartStore) UpdateQuantity(ctx context.Context, id string, lineID uuid.UUID, quantity int) (models.Cart, error) {
	args := m.Called(ctx, id, lineID, quantity)
	return args.Get(0).(models.Cart), args.Error(1)
}

func (m *MockCartStore) Clear(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockCheckoutService struct {
	mock.Mock
}

func (m *MockCheckoutService) Checkout(ctx context.Context, req dto.CheckoutRequest) (dto.CheckoutResponse, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(dto.CheckoutResponse), args.Error(1)
}

type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) Confirmation(ctx context.Context, rawOrderID, sessionID string) (models.Order, error) {
	args := m.Called(ctx, rawOrderID, sessionID)
	return args.Get(0).(models.Order), args.Error(1)
}

func (m *MockOrderService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	return m.Called(ctx, payload, signature).Error(0)
}

func (m *MockOrderService) ListGalleryOrders(ctx context.Context, galleryID, userID uuid.UUID) ([]models.Order, error) {
	args := m.Called(ctx, galleryID, userID)
	return args.Get(0).([]models.Order), args.Error(1)
}

type MockGalleryService struct {
	mock.Mock
}

func (m *MockGalleryService) CreateGallery(ctx context.Context, ownerID uuid.UUID, req dto.CreateGalleryRequest) (models.Gallery, error) {
	args := m.Called(ctx, ownerID, req)
	return args.Get(0).(models.Gallery), args.Error(1)
}

func (m *MockGalleryService) UpdateGallery(ctx context.Context, ownerID, galleryID uuid.UUID, req dto.UpdateGalleryRequest) (models.Gallery, error) {
	args := m.Called(ctx, ownerID, galleryID, req)
	return args.Get(0).(models.Gallery), args.Error(1)
}

func (m *MockGalleryService) RegenerateAccessKey(ctx context.Context, ownerID, galleryID uuid.UUID) (string, error) {
	args := m.Called(ctx, ownerID, galleryID)
	return args.String(0), args.Error(1)
}

func (m *MockGalleryService) DeleteGallery(ctx context.Context, ownerID, galleryID uuid.UUID) error {
	return m.Called(ctx, ownerID, galleryID).Error(0)
}

func (m *MockGalleryService) ListMine(ctx context.Context, ownerID uuid.UUID) ([]models.Gallery, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]models.Gallery), args.Error(1)
}

func (m *MockGalleryService) GetOwned(ctx context.Context, ownerID, galleryID uuid.UUID) (models.GalleryView, error) {
	args := m.Called(ctx, ownerID, galleryID)
	return args.Get(0).(models.GalleryView), args.Error(1)
}

func (m *MockGalleryService) View(ctx context.Context, slug string, viewerID uuid.UUID, access dto.GalleryAccess) (models.GalleryView, error) {
	args := m.Called(ctx, slug, viewerID, access)
	return args.Get(0).(models.GalleryView), args.Error(1)
}

type MockPhotoService struct {
	mock.Mock
}

func (m *MockPhotoService) Upload(ctx context.Context, ownerID, galleryID uuid.UUID, files []dto.PhotoFile, progress photos.ProgressFunc) ([]models.Photo, error) {
	args := m.Called(ctx, ownerID, galleryID, files, progress)
	return args.Get(0).([]models.Photo), args.Error(1)
}

func (m *MockPhotoService) DeletePhoto(ctx context.Context, ownerID, galleryID, photoID uuid.UUID) error {
	return m.Called(ctx, ownerID, galleryID, photoID).Error(0)
}

func (m *MockPhotoService) Reorder(ctx context.Context, ownerID, galleryID uuid.UUID, rawIDs []string) error {
	return m.Called(ctx, ownerID, galleryID, rawIDs).Error(0)
}

type MockFeedbackService struct {
	mock.Mock
}

func (m *MockFeedbackService) AddComment(ctx context.Context, v feedback.Visitor, req dto.AddCommentRequest) (models.Comment, error) {
	args := m.Called(ctx, v, req)
	return args.Get(0).(models.Comment), args.Error(1)
}

func (m *MockFeedbackService) ListPhotoComments(ctx context.Context, v feedback.Visitor, photoID uuid.UUID) ([]models.Comment, error) {
	args := m.Called(ctx, v, photoID)
	return args.Get(0).([]models.Comment), args.Error(1)
}

func (m *MockFeedbackService) ListGalleryComments(ctx context.Context, ownerID, galleryID uuid.UUID) ([]models.Comment, error) {
	args := m.Called(ctx, ownerID, galleryID)
	return args.Get(0).([]models.Comment), args.Error(1)
}

func (m *MockFeedbackService) Reply(ctx context.Context, ownerID, galleryID, commentID uuid.UUID, reply string) (models.Comment, error) {
	args := m.Called(ctx, ownerID, galleryID, commentID, reply)
	return args.Get(0).(models.Comment), args.Error(1)
}

func (m *MockFeedbackService) MarkRead(ctx context.Context, ownerID, galleryID, commentID uuid.UUID) error {
	return m.Called(ctx, ownerID, galleryID, commentID).Error(0)
}

func (m *MockFeedbackService) AddFavorite(ctx context.Context, v feedback.Visitor, req dto.FavoriteRequest) (models.Favorite, error) {
	args := m.Called(ctx, v, req)
	return args.Get(0).(models.Favorite), args.Error(1)
}

func (m *MockFeedbackService) RemoveFavorite(ctx context.Context, v feedback.Visitor, photoID uuid.UUID, clientName string) error {
	return m.Called(ctx, v, photoID, clientName).Error(0)
}

func (m *MockFeedbackService) ListMyFavorites(ctx context.Context, v feedback.Visitor, clientName string) ([]models.Favorite, error) {
	args := m.Called(ctx, v, clientName)
	return args.Get(0).([]models.Favorite), args.Error(1)
}

func (m *MockFeedbackService) FavoritesSummary(ctx context.Context, ownerID, galleryID uuid.UUID) ([]models.FavoriteSummary, error) {
	args := m.Called(ctx, ownerID, galleryID)
	return args.Get(0).([]models.FavoriteSummary), args.Error(1)
}

type MockBlogService struct {
	mock.Mock
}

func (m *MockBlogService) post(args mock.Arguments) (*dto.BlogPostResponse, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.BlogPostResponse), args.Error(1)
}

func (m *MockBlogService) CreatePost(ctx context.Context, authorID uuid.UUID, req dto.CreateBlogPostRequest) (*dto.BlogPostResponse, error) {
	return m.post(m.Called(ctx, authorID, req))
}

func (m *MockBlogService) UpdatePost(ctx context.Context, postID uuid.UUID, req dto.UpdateBlogPostRequest) (*dto.BlogPostResponse, error) {
	return m.post(m.Called(ctx, postID, req))
}

func (m *MockBlogService) GetPostByID(ctx context.Context, id uuid.UUID) (*dto.BlogPostResponse, error) {
	return m.post(m.Called(ctx, id))
}

func (m *MockBlogService) GetPublishedBySlug(ctx context.Context, slug string) (*dto.BlogPostResponse, error) {
	return m.post(m.Called(ctx, slug))
}

func (m *MockBlogService) PublishPost(ctx context.Context, postID uuid.UUID) (*dto.BlogPostResponse, error) {
	return m.post(m.Called(ctx, postID))
}

func (m *MockBlogService) ArchivePost(ctx context.Context, postID uuid.UUID) (*dto.BlogPostResponse, error) {
	return m.post(m.Called(ctx, postID))
}

func (m *MockBlogService) DeletePost(ctx context.Context, postID uuid.UUID) error {
	return m.Called(ctx, postID).Error(0)
}

func (m *MockBlogService) ListPosts(ctx context.Context, statusFilter string, page, perPage int) (*dto.BlogPostListResponse, error) {
	args := m.Called(ctx, statusFilter, page, perPage)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.BlogPostListResponse), args.Error(1)
}

type MockContactService struct {
	mock.Mock
}

func (m *MockContactService) Submit(ctx context.Context, req dto.ContactRequest) (uuid.UUID, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(uuid.UUID), args.Error(1)
}
