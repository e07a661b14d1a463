package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"lightbox/internal/cart"
	"lightbox/internal/lib/logger/sl"
	blog "lightbox/internal/services/blog_service"
	checkout "lightbox/internal/services/checkout_service"
	contact "lightbox/internal/services/contact_service"
	feedback "lightbox/internal/services/feedback_service"
	gallery "lightbox/internal/services/gallery_service"
	order "lightbox/internal/services/order_service"
	photos "lightbox/internal/services/photo_service"
	token "lightbox/internal/services/token_service"
	user "lightbox/internal/services/user_service"
	"lightbox/internal/storage"
	"lightbox/internal/transport/http/dto/response"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

var ErrInvalidUUID = errors.New("not valid UUID")

type errorMapping struct {
	target error
	status int
	code   string
}

// порядок важен: первое совпадение по errors.Is
var errorMappings = []errorMapping{
	{checkout.ErrEmptyCart, http.StatusBadRequest, "empty_cart"},
	{checkout.ErrMissingInfo, http.StatusBadRequest, "missing_info"},
	{checkout.ErrInvalidQuantity, http.StatusBadRequest, "invalid_quantity"},
	{checkout.ErrUnknownVariant, http.StatusBadRequest, "unknown_variant"},
	{checkout.ErrCheckoutInProgress, http.StatusConflict, "checkout_in_progress"},
	{checkout.ErrCheckoutFailed, http.StatusUnprocessableEntity, "checkout_failed"},
	{checkout.ErrAlreadyPaid, http.StatusConflict, "already_paid"},

	{cart.ErrInvalidQuantity, http.StatusBadRequest, "invalid_quantity"},
	{cart.ErrItemNotFound, http.StatusNotFound, "cart_item_not_found"},

	{gallery.ErrForbidden, http.StatusForbidden, "forbidden"},
	{gallery.ErrGalleryLocked, http.StatusUnauthorized, "gallery_locked"},
	{gallery.ErrGalleryNotFound, http.StatusNotFound, "gallery_not_found"},
	{photos.ErrPhotoNotFound, http.StatusNotFound, "photo_not_found"},
	{storage.ErrFileTooLarge, http.StatusRequestEntityTooLarge, "file_too_large"},
	{storage.ErrInvalidFileType, http.StatusUnsupportedMediaType, "invalid_file_type"},

	{feedback.ErrPhotoNotInGallery, http.StatusBadRequest, "photo_not_in_gallery"},
	{feedback.ErrCommentNotFound, http.StatusNotFound, "comment_not_found"},
	{feedback.ErrEmptyClientName, http.StatusBadRequest, "client_name_required"},

	{order.ErrOrderNotFound, http.StatusNotFound, "order_not_found"},

	{blog.ErrPostNotFound, http.StatusNotFound, "post_not_found"},
	{blog.ErrSlugTaken, http.StatusConflict, "slug_taken"},

	{contact.ErrEmptyMessage, http.StatusBadRequest, "empty_message"},

	{user.ErrUserExist, http.StatusConflict, "user_already_exists"},
	{user.ErrInvalidCredentials, http.StatusUnauthorized, "authentication_failed"},
	{user.ErrUserNotFound, http.StatusNotFound, "user_not_found"},
	{token.ErrInvalidToken, http.StatusUnauthorized, "invalid_token"},
	{token.ErrTokenNotInStorage, http.StatusUnauthorized, "invalid_token"},
}

// fail переводит ошибку сервиса в HTTP-ответ. Неизвестные ошибки отдаются
// как 500 с общим текстом, подробности только в логе
func (r *Routers) fail(c echo.Context, log *slog.Logger, err error) error {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			log.Warn("request rejected", slog.Int("status", m.status), sl.Err(err))
			return c.JSON(m.status, response.ErrorResponseWithDetails(m.code, m.target.Error()))
		}
	}

	log.Error("request failed", sl.Err(err))
	return c.JSON(http.StatusInternalServerError, response.ErrInternal)
}

func badRequest(c echo.Context, details string) error {
	return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails(response.ErrInvalidRequestFormat.Error, details))
}

// bind разбирает тело и прогоняет validator; при ошибке возвращает текст для details
func bind(c echo.Context, log *slog.Logger, req any) (string, bool) {
	if err := c.Bind(req); err != nil {
		log.Warn("failed to bind request", sl.Err(err))
		return response.ErrInvalidRequestFormat.Details, false
	}

	if err := c.Validate(req); err != nil {
		log.Warn("validation failed", sl.Err(err))
		return err.Error(), false
	}

	return "", true
}

func paramID(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s", ErrInvalidUUID, name)
	}
	return id, nil
}
