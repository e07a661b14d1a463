package http

import (
	"context"
	"log/slog"
	"net/http"

	"lightbox/internal/domain/models"
	feedback "lightbox/internal/services/feedback_service"
	photos "lightbox/internal/services/photo_service"
	"lightbox/internal/transport/http/dto"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	_ "lightbox/docs"
)

type UserService interface {
	RegisterUser(ctx context.Context, input dto.UserRegisterInput) (uuid.UUID, error)
	Login(ctx context.Context, email, password string) (*models.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error)
	IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error)
	GetUser(ctx context.Context, userID uuid.UUID) (models.User, error)
}

type CartStore interface {
	Get(ctx context.Context, id string) (models.Cart, error)
	AddItem(ctx context.Context, id string, item models.CartItem) (models.Cart, error)
	RemoveItem(ctx context.Context, id string, lineID uuid.UUID) (models.Cart, error)
	UpdateQuantity(ctx context.Context, id string, lineID uuid.UUID, quantity int) (models.Cart, error)
	Clear(ctx context.Context, id string) error
}

type CheckoutService interface {
	Checkout(ctx context.Context, req dto.CheckoutRequest) (dto.CheckoutResponse, error)
}

type OrderService interface {
	Confirmation(ctx context.Context, rawOrderID, sessionID string) (models.Order, error)
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
	ListGalleryOrders(ctx context.Context, galleryID, userID uuid.UUID) ([]models.Order, error)
}

type GalleryService interface {
	CreateGallery(ctx context.Context, ownerID uuid.UUID, req dto.CreateGalleryRequest) (models.Gallery, error)
	UpdateGallery(ctx context.Context, ownerID, galleryID uuid.UUID, req dto.UpdateGalleryRequest) (models.Gallery, error)
	RegenerateAccessKey(ctx context.Context, ownerID, galleryID uuid.UUID) (string, error)
	DeleteGallery(ctx context.Context, ownerID, galleryID uuid.UUID) error
	ListMine(ctx context.Context, ownerID uuid.UUID) ([]models.Gallery, error)
	GetOwned(ctx context.Context, ownerID, galleryID uuid.UUID) (models.GalleryView, error)
	View(ctx context.Context, slug string, viewerID uuid.UUID, access dto.GalleryAccess) (models.GalleryView, error)
}

type PhotoService interface {
	Upload(ctx context.Context, ownerID, galleryID uuid.UUID, files []dto.PhotoFile, progress photos.ProgressFunc) ([]models.Photo, error)
	DeletePhoto(ctx context.Context, ownerID, galleryID, photoID uuid.UUID) error
	Reorder(ctx context.Context, ownerID, galleryID uuid.UUID, rawIDs []string) error
}

type FeedbackService interface {
	AddComment(ctx context.Context, v feedback.Visitor, req dto.AddCommentRequest) (models.Comment, error)
	ListPhotoComments(ctx context.Context, v feedback.Visitor, photoID uuid.UUID) ([]models.Comment, error)
	ListGalleryComments(ctx context.Context, ownerID, galleryID uuid.UUID) ([]models.Comment, error)
	Reply(ctx context.Context, ownerID, galleryID, commentID uuid.UUID, reply string) (models.Comment, error)
	MarkRead(ctx context.Context, ownerID, galleryID, commentID uuid.UUID) error
	AddFavorite(ctx context.Context, v feedback.Visitor, req dto.FavoriteRequest) (models.Favorite, error)
	RemoveFavorite(ctx context.Context, v feedback.Visitor, photoID uuid.UUID, clientName string) error
	ListMyFavorites(ctx context.Context, v feedback.Visitor, clientName string) ([]models.Favorite, error)
	FavoritesSummary(ctx context.Context, ownerID, galleryID uuid.UUID) ([]models.FavoriteSummary, error)
}

type BlogService interface {
	CreatePost(ctx context.Context, authorID uuid.UUID, req dto.CreateBlogPostRequest) (*dto.BlogPostResponse, error)
	UpdatePost(ctx context.Context, postID uuid.UUID, req dto.UpdateBlogPostRequest) (*dto.BlogPostResponse, error)
	GetPostByID(ctx context.Context, id uuid.UUID) (*dto.BlogPostResponse, error)
	GetPublishedBySlug(ctx context.Context, slug string) (*dto.BlogPostResponse, error)
	PublishPost(ctx context.Context, postID uuid.UUID) (*dto.BlogPostResponse, error)
	ArchivePost(ctx context.Context, postID uuid.UUID) (*dto.BlogPostResponse, error)
	DeletePost(ctx context.Context, postID uuid.UUID) error
	ListPosts(ctx context.Context, statusFilter string, page, perPage int) (*dto.BlogPostListResponse, error)
}

type ContactService interface {
	Submit(ctx context.Context, req dto.ContactRequest) (uuid.UUID, error)
}

// Services набор зависимостей роутеров
type Services struct {
	Users     UserService
	Carts     CartStore
	Checkout  CheckoutService
	Orders    OrderService
	Galleries GalleryService
	Photos    PhotoService
	Feedback  FeedbackService
	Blog      BlogService
	Contact   ContactService
}

type Routers struct {
	log *slog.Logger

	UserService     UserService
	CartStore       CartStore
	CheckoutService CheckoutService
	OrderService    OrderService
	GalleryService  GalleryService
	PhotoService    PhotoService
	FeedbackService FeedbackService
	BlogService     BlogService
	ContactService  ContactService

	siteURL string
}

// NewRouter siteURL куда отправлять браузер, если подтверждение заказа не найдено
func NewRouter(log *slog.Logger, svc Services, siteURL string) *Routers {
	if siteURL == "" {
		siteURL = "/"
	}

	return &Routers{
		log:             log,
		UserService:     svc.Users,
		CartStore:       svc.Carts,
		CheckoutService: svc.Checkout,
		OrderService:    svc.Orders,
		GalleryService:  svc.Galleries,
		PhotoService:    svc.Photos,
		FeedbackService: svc.Feedback,
		BlogService:     svc.Blog,
		ContactService:  svc.Contact,
		siteURL:         siteURL,
	}
}

// Health godoc
// @Summary Проверка доступности
// @Tags system
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (r *Routers) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
