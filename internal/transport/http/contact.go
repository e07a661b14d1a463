package http

import (
	"log/slog"
	"net/http"

	"lightbox/internal/transport/http/dto"
	"lightbox/internal/transport/http/dto/response"

	"github.com/labstack/echo/v4"
)

// SubmitContact godoc
// @Summary Форма обратной связи
// @Description Сообщение сохраняется, владельцу сайта уходит письмо.
// @Tags marketing
// @Accept json
// @Produce json
// @Param request body dto.ContactRequest true "Сообщение"
// @Success 201 {object} response.Response{data=map[string]string}
// @Failure 400 {object} response.ErrorResponse
// @Router /api/contact [post]
func (r *Routers) SubmitContact(c echo.Context) error {
	const op = "http.routers.SubmitContact"

	log := r.log.With(
		slog.String("op", op),
	)

	var req dto.ContactRequest
	if details, ok := bind(c, log, &req); !ok {
		return badRequest(c, details)
	}

	id, err := r.ContactService.Submit(c.Request().Context(), req)
	if err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusCreated, response.SuccessResponse(map[string]string{"id": id.String()}))
}
