package http

import (
	"log/slog"
	"net/http"

	feedback "lightbox/internal/services/feedback_service"
	"lightbox/internal/transport/http/dto"

	"github.com/labstack/echo/v4"
)

// HeaderGalleryPassword пароль закрытой галереи; в query не передается, чтобы не попадать в логи
const HeaderGalleryPassword = "X-Gallery-Password"

func visitor(c echo.Context) feedback.Visitor {
	return feedback.Visitor{
		Slug:     c.Param("slug"),
		ViewerID: viewerID(c),
		Access: dto.GalleryAccess{
			Key:      c.QueryParam("key"),
			Password: c.Request().Header.Get(HeaderGalleryPassword),
			PhotoID:  c.QueryParam("photo"),
		},
	}
}

// ViewGallery godoc
// @Summary Галерея по ссылке
// @Description Доступ: публичная галерея, ?key=, пароль в заголовке или владелец.
// @Tags client
// @Produce json
// @Param slug path string true "Slug галереи"
// @Param key query string false "Ключ доступа"
// @Param photo query string false "ID выбранного фото" format(uuid)
// @Param X-Gallery-Password header string false "Пароль галереи"
// @Success 200 {object} models.GalleryView
// @Failure 401 {object} response.ErrorResponse "Нужен ключ или пароль"
// @Failure 404 {object} response.ErrorResponse
// @Router /api/g/{slug} [get]
func (r *Routers) ViewGallery(c echo.Context) error {
	const op = "http.routers.ViewGallery"

	log := r.log.With(
		slog.String("op", op),
		slog.String("slug", c.Param("slug")),
	)

	v := visitor(c)

	view, err := r.GalleryService.View(c.Request().Context(), v.Slug, v.ViewerID, v.Access)
	if err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusOK, view)
}

// PhotoComments godoc
// @Summary Комментарии к фото
// @Tags client
// @Produce json
// @Param slug path string true "Slug галереи"
// @Param photoId path string true "ID фото" format(uuid)
// @Success 200 {array} models.Comment
// @Failure 401 {object} response.ErrorResponse
// @Router /api/g/{slug}/photos/{photoId}/comments [get]
func (r *Routers) PhotoComments(c echo.Context) error {
	const op = "http.routers.PhotoComments"

	log := r.log.With(
		slog.String("op", op),
	)

	photoID, err := paramID(c, "photoId")
	if err != nil {
		return badRequest(c, err.Error())
	}

	comments, err := r.FeedbackService.ListPhotoComments(c.Request().Context(), visitor(c), photoID)
	if err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusOK, comments)
}

// AddComment godoc
// @Summary Оставить комментарий
// @Tags client
// @Accept json
// @Produce json
// @Param slug path string true "Slug галереи"
// @Param request body dto.AddCommentRequest true "Комментарий"
// @Success 201 {object} models.Comment
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Router /api/g/{slug}/comments [post]
func (r *Routers) AddComment(c echo.Context) error {
	const op = "http.routers.AddComment"

	log := r.log.With(
		slog.String("op", op),
	)

	var req dto.AddCommentRequest
	if details, ok := bind(c, log, &req); !ok {
		return badRequest(c, details)
	}

	comment, err := r.FeedbackService.AddComment(c.Request().Context(), visitor(c), req)
	if err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusCreated, comment)
}

// AddFavorite godoc
// @Summary В избранное
// @Description Повторная отметка того же фото не создает дубль.
// @Tags client
// @Accept json
// @Produce json
// @Param slug path string true "Slug галереи"
// @Param request body dto.FavoriteRequest true "Фото и имя клиента"
// @Success 201 {object} models.Favorite
// @Failure 400 {object} response.ErrorResponse
// @Router /api/g/{slug}/favorites [post]
func (r *Routers) AddFavorite(c echo.Context) error {
	const op = "http.routers.AddFavorite"

	log := r.log.With(
		slog.String("op", op),
	)

	var req dto.FavoriteRequest
	if details, ok := bind(c, log, &req); !ok {
		return badRequest(c, details)
	}

	fav, err := r.FeedbackService.AddFavorite(c.Request().Context(), visitor(c), req)
	if err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusCreated, fav)
}

// RemoveFavorite godoc
// @Summary Убрать из избранного
// @Tags client
// @Param slug path string true "Slug галереи"
// @Param photoId path string true "ID фото" format(uuid)
// @Param clientName query string true "Имя клиента"
// @Success 204
// @Router /api/g/{slug}/favorites/{photoId} [delete]
func (r *Routers) RemoveFavorite(c echo.Context) error {
	const op = "http.routers.RemoveFavorite"

	log := r.log.With(
		slog.String("op", op),
	)

	photoID, err := paramID(c, "photoId")
	if err != nil {
		return badRequest(c, err.Error())
	}

	if err := r.FeedbackService.RemoveFavorite(c.Request().Context(), visitor(c), photoID, c.QueryParam("clientName")); err != nil {
		return r.fail(c, log, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// MyFavorites godoc
// @Summary Мое избранное
// @Tags client
// @Produce json
// @Param slug path string true "Slug галереи"
// @Param clientName query string true "Имя клиента"
// @Success 200 {array} models.Favorite
// @Router /api/g/{slug}/favorites [get]
func (r *Routers) MyFavorites(c echo.Context) error {
	const op = "http.routers.MyFavorites"

	log := r.log.With(
		slog.String("op", op),
	)

	favs, err := r.FeedbackService.ListMyFavorites(c.Request().Context(), visitor(c), c.QueryParam("clientName"))
	if err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusOK, favs)
}
