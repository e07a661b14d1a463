package http

import (
	"log/slog"
	"net/http"

	ljwt "lightbox/internal/lib/jwt"
	"lightbox/internal/transport/http/dto"
	"lightbox/internal/transport/http/dto/request"
	"lightbox/internal/transport/http/dto/response"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ContextUserKey ключ, под которым echo-jwt кладет токен в контекст
const ContextUserKey = "user"

// CurrentUser claims авторизованного фотографа; ok=false, если токена нет
func CurrentUser(c echo.Context) (ljwt.Claims, bool) {
	tok, ok := c.Get(ContextUserKey).(*jwt.Token)
	if !ok || tok == nil {
		return ljwt.Claims{}, false
	}

	mc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return ljwt.Claims{}, false
	}

	claims, err := ljwt.ClaimsFromMap(mc)
	if err != nil {
		return ljwt.Claims{}, false
	}

	return claims, true
}

func viewerID(c echo.Context) uuid.UUID {
	if claims, ok := CurrentUser(c); ok {
		return claims.UserID
	}
	return uuid.Nil
}

func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, response.ErrorResponseWithDetails("unauthorized", "authentication required"))
}

// Login godoc
// @Summary Аутентификация фотографа
// @Description Вход по email и паролю. Возвращает пару access/refresh токенов.
// @Tags users
// @Accept json
// @Produce json
// @Param request body request.LoginRequest true "Данные для входа"
// @Success 200 {object} response.Response{data=models.TokenPair} "Успешный вход"
// @Failure 400 {object} response.ErrorResponse "Неверный формат запроса"
// @Failure 401 {object} response.ErrorResponse "Ошибка аутентификации"
// @Router /api/v1/login [post]
func (r *Routers) Login(c echo.Context) error {
	const op = "http.routers.Login"

	log := r.log.With(
		slog.String("op", op),
	)

	var req request.LoginRequest
	if details, ok := bind(c, log, &req); !ok {
		return badRequest(c, details)
	}

	tokens, err := r.UserService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(tokens))
}

// Register godoc
// @Summary Регистрация фотографа
// @Description Создание аккаунта. Возвращает ID пользователя.
// @Tags users
// @Accept json
// @Produce json
// @Param request body dto.UserRegisterInput true "Данные для регистрации"
// @Success 201 {object} response.Response{data=dto.RegisterResponse} "Успешная регистрация"
// @Failure 400 {object} response.ErrorResponse "Неверный формат запроса"
// @Failure 409 {object} response.ErrorResponse "Пользователь уже существует"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/v1/register [post]
func (r *Routers) Register(c echo.Context) error {
	const op = "http.routers.Register"

	log := r.log.With(
		slog.String("op", op),
	)

	var req dto.UserRegisterInput
	if details, ok := bind(c, log, &req); !ok {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails(response.ErrInvalidRegisterRequest.Error, details))
	}

	userID, err := r.UserService.RegisterUser(c.Request().Context(), req)
	if err != nil {
		return r.fail(c, log.With(slog.String("email", req.Email)), err)
	}

	log.Info("user registered successfully", slog.String("user_id", userID.String()))

	return c.JSON(http.StatusCreated, response.SuccessResponse(dto.RegisterResponse{ID: userID.String()}))
}

// Refresh godoc
// @Summary Обновление токенов
// @Description Меняет refresh-токен на новую пару; старый токен отзывается.
// @Tags users
// @Accept json
// @Produce json
// @Param request body dto.RefreshRequest true "Refresh-токен"
// @Success 200 {object} response.Response{data=models.TokenPair}
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Router /api/v1/refresh [post]
func (r *Routers) Refresh(c echo.Context) error {
	const op = "http.routers.Refresh"

	log := r.log.With(
		slog.String("op", op),
	)

	var req dto.RefreshRequest
	if details, ok := bind(c, log, &req); !ok {
		return badRequest(c, details)
	}

	tokens, err := r.UserService.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(tokens))
}

// Me godoc
// @Summary Текущий пользователь
// @Tags users
// @Produce json
// @Success 200 {object} models.User
// @Failure 401 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/users/me [get]
func (r *Routers) Me(c echo.Context) error {
	const op = "http.routers.Me"

	log := r.log.With(
		slog.String("op", op),
	)

	claims, ok := CurrentUser(c)
	if !ok {
		return unauthorized(c)
	}

	user, err := r.UserService.GetUser(c.Request().Context(), claims.UserID)
	if err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusOK, user)
}
