package repository

import (
	"context"
	"time"

	"lightbox/internal/domain/models"

	"github.com/google/uuid"
)

type UserRepository interface {
	SaveUser(ctx context.Context, user models.User) (uuid.UUID, error)
	IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error)
	UserByEmail(ctx context.Context, email string) (models.User, error)
	GetUserById(ctx context.Context, userID uuid.UUID) (models.User, error)
	TouchLastLogin(ctx context.Context, userID uuid.UUID) error
}

type TokenRepository interface {
	SaveRefreshToken(ctx context.Context, userID, token string, exp time.Duration) error
	GetRefreshToken(ctx context.Context, userID, token string) (bool, error)
	DeleteRefreshToken(ctx context.Context, userID, token string) error
	DeleteAllUserTokens(ctx context.Context, userID string) error
}

type GalleryRepository interface {
	CreateGallery(ctx context.Context, gallery models.Gallery) (models.Gallery, error)
	GetGalleryByID(ctx context.Context, id uuid.UUID) (models.Gallery, error)
	GetGalleryBySlug(ctx context.Context, slug string) (models.Gallery, error)
	ListGalleriesByPhotographer(ctx context.Context, photographerID uuid.UUID) ([]models.Gallery, error)
	UpdateGallery(ctx context.Context, gallery models.Gallery) error
	SetAccessKey(ctx context.Context, id uuid.UUID, key string) error
	DeleteGallery(ctx context.Context, id uuid.UUID) error
	IncrementViewCount(ctx context.Context, id uuid.UUID) error
}

type PhotoRepository interface {
	CreatePhoto(ctx context.Context, photo models.Photo) (models.Photo, error)
	GetPhoto(ctx context.Context, id uuid.UUID) (models.Photo, error)
	ListPhotosByGallery(ctx context.Context, galleryID uuid.UUID) ([]models.Photo, error)
	DeletePhoto(ctx context.Context, id uuid.UUID) error
	ReorderPhotos(ctx context.Context, galleryID uuid.UUID, orderedIDs []uuid.UUID) error
}

type FeedbackRepository interface {
	AddComment(ctx context.Context, comment models.Comment) (models.Comment, error)
	GetComment(ctx context.Context, id uuid.UUID) (models.Comment, error)
	ListCommentsByPhoto(ctx context.Context, photoID uuid.UUID) ([]models.Comment, error)
	ListCommentsByGallery(ctx context.Context, galleryID uuid.UUID) ([]models.Comment, error)
	ReplyToComment(ctx context.Context, id uuid.UUID, reply string) (models.Comment, error)
	MarkCommentRead(ctx context.Context, id uuid.UUID) error

	AddFavorite(ctx context.Context, fav models.Favorite) (models.Favorite, error)
	RemoveFavorite(ctx context.Context, photoID uuid.UUID, clientName string) error
	ListFavoritesByClient(ctx context.Context, galleryID uuid.UUID, clientName string) ([]models.Favorite, error)
	ListFavoritesByGallery(ctx context.Context, galleryID uuid.UUID) ([]models.Favorite, error)
}

type ProductRepository interface {
	ListActiveVariants(ctx context.Context) ([]models.ProductVariant, error)
	GetVariant(ctx context.Context, id uuid.UUID) (models.ProductVariant, error)
}

type OrderRepository interface {
	// CreateOrder пишет заказ и все строки в одной транзакции
	CreateOrder(ctx context.Context, order models.Order) (models.Order, error)
	AttachPaymentSession(ctx context.Context, orderID uuid.UUID, sessionID, sessionURL string) error
	SetPaymentStatus(ctx context.Context, orderID uuid.UUID, status models.PaymentStatus) error
	GetOrderByIDAndSession(ctx context.Context, orderID uuid.UUID, sessionID string) (models.Order, error)
	GetOrderByIdempotencyKey(ctx context.Context, key string) (models.Order, error)
	ListOrdersByGallery(ctx context.Context, galleryID uuid.UUID) ([]models.Order, error)
	FailStaleOrders(ctx context.Context, createdBefore time.Time) (int64, error)
}

type BlogRepository interface {
	SaveBlogPost(ctx context.Context, blogPost models.BlogPost) (uuid.UUID, error)
	UpdateBlogPostFields(ctx context.Context, postID uuid.UUID, updates map[string]interface{}) error
	DeleteBlogPost(ctx context.Context, postID uuid.UUID) error
	SoftDeleteBlogPost(ctx context.Context, postID uuid.UUID) error
	GetBlogPosts(ctx context.Context, statusFilter string, page int, perPage int) ([]models.BlogPost, int, error)
	GetBlogPostByID(ctx context.Context, postID uuid.UUID) (*models.BlogPost, error)
	GetBlogPostBySlug(ctx context.Context, slug string) (*models.BlogPost, error)
}

type ContactRepository interface {
	SaveContactMessage(ctx context.Context, msg models.ContactMessage) (uuid.UUID, error)
}
