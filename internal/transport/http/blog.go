package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"lightbox/internal/domain/models"
	"lightbox/internal/transport/http/dto"

	"github.com/labstack/echo/v4"
)

func pagination(c echo.Context) (int, int) {
	page, err := strconv.Atoi(c.QueryParam("page"))
	if err != nil || page < 1 {
		page = 1
	}

	perPage, err := strconv.Atoi(c.QueryParam("per_page"))
	if err != nil || perPage < 1 || perPage > 100 {
		perPage = 10
	}

	return page, perPage
}

// CreatePost godoc
// @Summary Создать пост
// @Description Без slug он строится из заголовка.
// @Tags posts
// @Accept json
// @Produce json
// @Param request body dto.CreateBlogPostRequest true "Пост"
// @Success 201 {object} dto.BlogPostResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse "Slug занят"
// @Security ApiKeyAuth
// @Router /api/v1/posts [post]
func (r *Routers) CreatePost(c echo.Context) error {
	const op = "http.routers.CreatePost"

	log := r.log.With(
		slog.String("op", op),
	)

	claims, ok := CurrentUser(c)
	if !ok {
		return unauthorized(c)
	}

	var req dto.CreateBlogPostRequest
	if details, ok := bind(c, log, &req); !ok {
		return badRequest(c, details)
	}

	post, err := r.BlogService.CreatePost(c.Request().Context(), claims.UserID, req)
	if err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusCreated, post)
}

// GetPost godoc
// @Summary Получить пост
// @Description Возвращает пост по его ID в любом статусе
// @Tags posts
// @Produce json
// @Param id path string true "UUID поста" format(uuid)
// @Success 200 {object} dto.BlogPostResponse
// @Failure 404 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/posts/{id} [get]
func (r *Routers) GetPost(c echo.Context) error {
	const op = "http.routers.GetPost"

	log := r.log.With(
		slog.String("op", op),
	)

	postID, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	post, err := r.BlogService.GetPostByID(c.Request().Context(), postID)
	if err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusOK, post)
}

// UpdatePost godoc
// @Summary Обновить пост
// @Tags posts
// @Accept json
// @Produce json
// @Param id path string true "UUID поста" format(uuid)
// @Param request body dto.UpdateBlogPostRequest true "Данные для обновления"
// @Success 200 {object} dto.BlogPostResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/posts/{id} [put]
func (r *Routers) UpdatePost(c echo.Context) error {
	const op = "http.routers.UpdatePost"

	log := r.log.With(
		slog.String("op", op),
	)

	postID, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	var req dto.UpdateBlogPostRequest
	if details, ok := bind(c, log, &req); !ok {
		return badRequest(c, details)
	}

	post, err := r.BlogService.UpdatePost(c.Request().Context(), postID, req)
	if err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusOK, post)
}

// DeletePost godoc
// @Summary Удалить пост
// @Description Физическое удаление
// @Tags posts
// @Param id path string true "UUID поста" format(uuid)
// @Success 204
// @Failure 404 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/posts/{id} [delete]
func (r *Routers) DeletePost(c echo.Context) error {
	const op = "http.routers.DeletePost"

	log := r.log.With(
		slog.String("op", op),
	)

	postID, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	if err := r.BlogService.DeletePost(c.Request().Context(), postID); err != nil {
		return r.fail(c, log, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// PublishPost godoc
// @Summary Опубликовать пост
// @Tags posts
// @Param id path string true "UUID поста" format(uuid)
// @Success 200 {object} dto.BlogPostResponse
// @Failure 404 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/posts/{id}/publish [patch]
func (r *Routers) PublishPost(c echo.Context) error {
	const op = "http.routers.PublishPost"

	log := r.log.With(
		slog.String("op", op),
	)

	postID, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	post, err := r.BlogService.PublishPost(c.Request().Context(), postID)
	if err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusOK, post)
}

// ArchivePost godoc
// @Summary Архивировать пост
// @Tags posts
// @Param id path string true "UUID поста" format(uuid)
// @Success 200 {object} dto.BlogPostResponse
// @Failure 404 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/posts/{id}/archive [patch]
func (r *Routers) ArchivePost(c echo.Context) error {
	const op = "http.routers.ArchivePost"

	log := r.log.With(
		slog.String("op", op),
	)

	postID, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	post, err := r.BlogService.ArchivePost(c.Request().Context(), postID)
	if err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusOK, post)
}

// ListPosts godoc
// @Summary Список постов
// @Description Пагинация и фильтр по статусу. /api/v1/posts?status=archived&page=1&per_page=1
// @Tags posts
// @Produce json
// @Param status query string false "Фильтр по статусу (draft, published, archived)"
// @Param page query int false "Номер страницы" default(1)
// @Param per_page query int false "Количество элементов на странице" default(10)
// @Success 200 {object} dto.BlogPostListResponse
// @Security ApiKeyAuth
// @Router /api/v1/posts [get]
func (r *Routers) ListPosts(c echo.Context) error {
	const op = "http.routers.ListPosts"

	log := r.log.With(
		slog.String("op", op),
	)

	page, perPage := pagination(c)

	posts, err := r.BlogService.ListPosts(c.Request().Context(), c.QueryParam("status"), page, perPage)
	if err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusOK, posts)
}

// PublicPosts godoc
// @Summary Опубликованные посты
// @Tags blog
// @Produce json
// @Param page query int false "Номер страницы" default(1)
// @Param per_page query int false "Количество элементов на странице" default(10)
// @Success 200 {object} dto.BlogPostListResponse
// @Router /api/blog [get]
func (r *Routers) PublicPosts(c echo.Context) error {
	const op = "http.routers.PublicPosts"

	log := r.log.With(
		slog.String("op", op),
	)

	page, perPage := pagination(c)

	posts, err := r.BlogService.ListPosts(c.Request().Context(), models.BlogStatusPublished, page, perPage)
	if err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusOK, posts)
}

// PublicPost godoc
// @Summary Пост по slug
// @Tags blog
// @Produce json
// @Param slug path string true "Slug поста"
// @Success 200 {object} dto.BlogPostResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /api/blog/{slug} [get]
func (r *Routers) PublicPost(c echo.Context) error {
	const op = "http.routers.PublicPost"

	log := r.log.With(
		slog.String("op", op),
	)

	post, err := r.BlogService.GetPublishedBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusOK, post)
}
