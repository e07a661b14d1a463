package http

import (
	"io"
	"log/slog"
	"net/http"

	"lightbox/internal/transport/http/dto"
	"lightbox/internal/transport/http/dto/response"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const uploadField = "files"

// ownerAndGallery uid из токена и :id галереи из пути; ошибка уже готова для echo
func (r *Routers) ownerAndGallery(c echo.Context) (uuid.UUID, uuid.UUID, error) {
	claims, ok := CurrentUser(c)
	if !ok {
		return uuid.Nil, uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized,
			response.ErrorResponseWithDetails("unauthorized", "authentication required"))
	}

	galleryID, err := paramID(c, "id")
	if err != nil {
		return uuid.Nil, uuid.Nil, echo.NewHTTPError(http.StatusBadRequest,
			response.ErrorResponseWithDetails(response.ErrInvalidRequestFormat.Error, err.Error()))
	}

	return claims.UserID, galleryID, nil
}

// CreateGallery godoc
// @Summary Создать галерею
// @Description Slug строится из названия со случайным суффиксом, ключ доступа генерируется.
// @Tags galleries
// @Accept json
// @Produce json
// @Param request body dto.CreateGalleryRequest true "Галерея"
// @Success 201 {object} models.Gallery
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/galleries [post]
func (r *Routers) CreateGallery(c echo.Context) error {
	const op = "http.routers.CreateGallery"

	log := r.log.With(
		slog.String("op", op),
	)

	claims, ok := CurrentUser(c)
	if !ok {
		return unauthorized(c)
	}

	var req dto.CreateGalleryRequest
	if details, ok := bind(c, log, &req); !ok {
		return badRequest(c, details)
	}

	gallery, err := r.GalleryService.CreateGallery(c.Request().Context(), claims.UserID, req)
	if err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusCreated, gallery)
}

// ListGalleries godoc
// @Summary Мои галереи
// @Tags galleries
// @Produce json
// @Success 200 {array} models.Gallery
// @Security ApiKeyAuth
// @Router /api/galleries [get]
func (r *Routers) ListGalleries(c echo.Context) error {
	const op = "http.routers.ListGalleries"

	log := r.log.With(
		slog.String("op", op),
	)

	claims, ok := CurrentUser(c)
	if !ok {
		return unauthorized(c)
	}

	galleries, err := r.GalleryService.ListMine(c.Request().Context(), claims.UserID)
	if err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusOK, galleries)
}

// GetGallery godoc
// @Summary Галерея владельца с фотографиями
// @Tags galleries
// @Produce json
// @Param id path string true "ID галереи" format(uuid)
// @Success 200 {object} models.GalleryView
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/galleries/{id} [get]
func (r *Routers) GetGallery(c echo.Context) error {
	const op = "http.routers.GetGallery"

	log := r.log.With(
		slog.String("op", op),
	)

	ownerID, galleryID, err := r.ownerAndGallery(c)
	if err != nil {
		return err
	}

	view, err := r.GalleryService.GetOwned(c.Request().Context(), ownerID, galleryID)
	if err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusOK, view)
}

// UpdateGallery godoc
// @Summary Изменить настройки галереи
// @Description Пустой password снимает защиту паролем.
// @Tags galleries
// @Accept json
// @Produce json
// @Param id path string true "ID галереи" format(uuid)
// @Param request body dto.UpdateGalleryRequest true "Изменения"
// @Success 200 {object} models.Gallery
// @Failure 400 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/galleries/{id} [patch]
func (r *Routers) UpdateGallery(c echo.Context) error {
	const op = "http.routers.UpdateGallery"

	log := r.log.With(
		slog.String("op", op),
	)

	ownerID, galleryID, err := r.ownerAndGallery(c)
	if err != nil {
		return err
	}

	var req dto.UpdateGalleryRequest
	if details, ok := bind(c, log, &req); !ok {
		return badRequest(c, details)
	}

	gallery, err := r.GalleryService.UpdateGallery(c.Request().Context(), ownerID, galleryID, req)
	if err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusOK, gallery)
}

// RegenerateAccessKey godoc
// @Summary Новый ключ доступа
// @Description Старые ссылки с ?key= перестают работать.
// @Tags galleries
// @Produce json
// @Param id path string true "ID галереи" format(uuid)
// @Success 200 {object} dto.AccessKeyResponse
// @Failure 403 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/galleries/{id}/access-key [post]
func (r *Routers) RegenerateAccessKey(c echo.Context) error {
	const op = "http.routers.RegenerateAccessKey"

	log := r.log.With(
		slog.String("op", op),
	)

	ownerID, galleryID, err := r.ownerAndGallery(c)
	if err != nil {
		return err
	}

	key, err := r.GalleryService.RegenerateAccessKey(c.Request().Context(), ownerID, galleryID)
	if err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusOK, dto.AccessKeyResponse{AccessKey: key})
}

// DeleteGallery godoc
// @Summary Удалить галерею
// @Description Вместе с фотографиями, комментариями и избранным.
// @Tags galleries
// @Param id path string true "ID галереи" format(uuid)
// @Success 204
// @Failure 403 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/galleries/{id} [delete]
func (r *Routers) DeleteGallery(c echo.Context) error {
	const op = "http.routers.DeleteGallery"

	log := r.log.With(
		slog.String("op", op),
	)

	ownerID, galleryID, err := r.ownerAndGallery(c)
	if err != nil {
		return err
	}

	if err := r.GalleryService.DeleteGallery(c.Request().Context(), ownerID, galleryID); err != nil {
		return r.fail(c, log, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// UploadPhotos godoc
// @Summary Загрузка фотографий
// @Description Файлы обрабатываются по очереди: оригинал, превью 400px и веб-версия 1600px.
// @Tags photos
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "ID галереи" format(uuid)
// @Param files formData file true "Фотографии"
// @Success 201 {object} dto.UploadResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 413 {object} response.ErrorResponse "Файл слишком большой"
// @Failure 415 {object} response.ErrorResponse "Не изображение"
// @Security ApiKeyAuth
// @Router /api/galleries/{id}/photos [post]
func (r *Routers) UploadPhotos(c echo.Context) error {
	const op = "http.routers.UploadPhotos"

	log := r.log.With(
		slog.String("op", op),
	)

	ownerID, galleryID, err := r.ownerAndGallery(c)
	if err != nil {
		return err
	}

	form, err := c.MultipartForm()
	if err != nil {
		return badRequest(c, "multipart form expected")
	}

	headers := form.File[uploadField]
	if len(headers) == 0 {
		return badRequest(c, "no files in field "+uploadField)
	}

	files := make([]dto.PhotoFile, 0, len(headers))
	for _, fh := range headers {
		files = append(files, dto.PhotoFile{
			Filename: fh.Filename,
			Open: func() (io.ReadCloser, error) {
				return fh.Open()
			},
		})
	}

	progress := func(percent int) {
		log.Debug("upload progress", slog.String("gallery_id", galleryID.String()), slog.Int("percent", percent))
	}

	photos, err := r.PhotoService.Upload(c.Request().Context(), ownerID, galleryID, files, progress)
	if err != nil {
		log.Warn("upload stopped", slog.Int("stored", len(photos)), slog.Int("total", len(files)))
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusCreated, dto.UploadResponse{Uploaded: len(photos), Photos: photos})
}

// DeletePhoto godoc
// @Summary Удалить фотографию
// @Tags photos
// @Param id path string true "ID галереи" format(uuid)
// @Param photoId path string true "ID фото" format(uuid)
// @Success 204
// @Failure 404 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/galleries/{id}/photos/{photoId} [delete]
func (r *Routers) DeletePhoto(c echo.Context) error {
	const op = "http.routers.DeletePhoto"

	log := r.log.With(
		slog.String("op", op),
	)

	ownerID, galleryID, err := r.ownerAndGallery(c)
	if err != nil {
		return err
	}

	photoID, err := paramID(c, "photoId")
	if err != nil {
		return badRequest(c, err.Error())
	}

	if err := r.PhotoService.DeletePhoto(c.Request().Context(), ownerID, galleryID, photoID); err != nil {
		return r.fail(c, log, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// ReorderPhotos godoc
// @Summary Порядок фотографий
// @Tags photos
// @Accept json
// @Param id path string true "ID галереи" format(uuid)
// @Param request body dto.ReorderPhotosRequest true "ID фото в нужном порядке"
// @Success 204
// @Failure 400 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/galleries/{id}/photos/order [put]
func (r *Routers) ReorderPhotos(c echo.Context) error {
	const op = "http.routers.ReorderPhotos"

	log := r.log.With(
		slog.String("op", op),
	)

	ownerID, galleryID, err := r.ownerAndGallery(c)
	if err != nil {
		return err
	}

	var req dto.ReorderPhotosRequest
	if details, ok := bind(c, log, &req); !ok {
		return badRequest(c, details)
	}

	if err := r.PhotoService.Reorder(c.Request().Context(), ownerID, galleryID, req.PhotoIDs); err != nil {
		return r.fail(c, log, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// GalleryOrders godoc
// @Summary Заказы по галерее
// @Tags galleries
// @Produce json
// @Param id path string true "ID галереи" format(uuid)
// @Success 200 {array} models.Order
// @Failure 403 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/galleries/{id}/orders [get]
func (r *Routers) GalleryOrders(c echo.Context) error {
	const op = "http.routers.GalleryOrders"

	log := r.log.With(
		slog.String("op", op),
	)

	ownerID, galleryID, err := r.ownerAndGallery(c)
	if err != nil {
		return err
	}

	orders, err := r.OrderService.ListGalleryOrders(c.Request().Context(), galleryID, ownerID)
	if err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusOK, orders)
}

// GalleryComments godoc
// @Summary Комментарии клиентов
// @Tags feedback
// @Produce json
// @Param id path string true "ID галереи" format(uuid)
// @Success 200 {array} models.Comment
// @Security ApiKeyAuth
// @Router /api/galleries/{id}/comments [get]
func (r *Routers) GalleryComments(c echo.Context) error {
	const op = "http.routers.GalleryComments"

	log := r.log.With(
		slog.String("op", op),
	)

	ownerID, galleryID, err := r.ownerAndGallery(c)
	if err != nil {
		return err
	}

	comments, err := r.FeedbackService.ListGalleryComments(c.Request().Context(), ownerID, galleryID)
	if err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusOK, comments)
}

// ReplyComment godoc
// @Summary Ответить на комментарий
// @Description Ответ помечает комментарий прочитанным.
// @Tags feedback
// @Accept json
// @Produce json
// @Param id path string true "ID галереи" format(uuid)
// @Param commentId path string true "ID комментария" format(uuid)
// @Param request body dto.ReplyCommentRequest true "Ответ"
// @Success 200 {object} models.Comment
// @Failure 404 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/galleries/{id}/comments/{commentId}/reply [post]
func (r *Routers) ReplyComment(c echo.Context) error {
	const op = "http.routers.ReplyComment"

	log := r.log.With(
		slog.String("op", op),
	)

	ownerID, galleryID, err := r.ownerAndGallery(c)
	if err != nil {
		return err
	}

	commentID, err := paramID(c, "commentId")
	if err != nil {
		return badRequest(c, err.Error())
	}

	var req dto.ReplyCommentRequest
	if details, ok := bind(c, log, &req); !ok {
		return badRequest(c, details)
	}

	comment, err := r.FeedbackService.Reply(c.Request().Context(), ownerID, galleryID, commentID, req.Reply)
	if err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusOK, comment)
}

// MarkCommentRead godoc
// @Summary Отметить прочитанным
// @Tags feedback
// @Param id path string true "ID галереи" format(uuid)
// @Param commentId path string true "ID комментария" format(uuid)
// @Success 204
// @Security ApiKeyAuth
// @Router /api/galleries/{id}/comments/{commentId}/read [post]
func (r *Routers) MarkCommentRead(c echo.Context) error {
	const op = "http.routers.MarkCommentRead"

	log := r.log.With(
		slog.String("op", op),
	)

	ownerID, galleryID, err := r.ownerAndGallery(c)
	if err != nil {
		return err
	}

	commentID, err := paramID(c, "commentId")
	if err != nil {
		return badRequest(c, err.Error())
	}

	if err := r.FeedbackService.MarkRead(c.Request().Context(), ownerID, galleryID, commentID); err != nil {
		return r.fail(c, log, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// FavoritesSummary godoc
// @Summary Что выбрали клиенты
// @Description Группировка по фото, сортировка по числу отметок.
// @Tags feedback
// @Produce json
// @Param id path string true "ID галереи" format(uuid)
// @Success 200 {array} models.FavoriteSummary
// @Security ApiKeyAuth
// @Router /api/galleries/{id}/favorites [get]
func (r *Routers) FavoritesSummary(c echo.Context) error {
	const op = "http.routers.FavoritesSummary"

	log := r.log.With(
		slog.String("op", op),
	)

	ownerID, galleryID, err := r.ownerAndGallery(c)
	if err != nil {
		return err
	}

	summary, err := r.FeedbackService.FavoritesSummary(c.Request().Context(), ownerID, galleryID)
	if err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusOK, summary)
}
