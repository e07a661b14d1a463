package http

import (
	"log/slog"
	"net/http"

	"lightbox/internal/domain/models"
	"lightbox/internal/transport/http/dto"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
)

const (
	cartSessionName = "cart"
	cartSessionKey  = "id"
)

// cartID id корзины из cookie-сессии; при первом обращении создается новый
func (r *Routers) cartID(c echo.Context) (string, error) {
	sess, err := session.Get(cartSessionName, c)
	if err != nil {
		return "", err
	}

	if id, ok := sess.Values[cartSessionKey].(string); ok && id != "" {
		return id, nil
	}

	id := uuid.NewString()
	sess.Values[cartSessionKey] = id
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		return "", err
	}

	return id, nil
}

func cartResponse(cart models.Cart) dto.CartResponse {
	return dto.CartResponse{
		ID:        cart.ID,
		Items:     cart.Items,
		Subtotal:  cart.Subtotal().StringFixed(2),
		ItemCount: cart.ItemCount(),
	}
}

// GetCart godoc
// @Summary Корзина посетителя
// @Tags cart
// @Produce json
// @Success 200 {object} dto.CartResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/cart [get]
func (r *Routers) GetCart(c echo.Context) error {
	const op = "http.routers.GetCart"

	log := r.log.With(
		slog.String("op", op),
	)

	id, err := r.cartID(c)
	if err != nil {
		return r.fail(c, log, err)
	}

	cart, err := r.CartStore.Get(c.Request().Context(), id)
	if err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusOK, cartResponse(cart))
}

// AddCartItem godoc
// @Summary Добавить строку в корзину
// @Description Каждый вызов добавляет новую строку, одинаковые позиции не склеиваются.
// @Tags cart
// @Accept json
// @Produce json
// @Param request body dto.AddCartItemRequest true "Позиция"
// @Success 201 {object} dto.CartResponse
// @Failure 400 {object} response.ErrorResponse
// @Router /api/cart/items [post]
func (r *Routers) AddCartItem(c echo.Context) error {
	const op = "http.routers.AddCartItem"

	log := r.log.With(
		slog.String("op", op),
	)

	var req dto.AddCartItemRequest
	if details, ok := bind(c, log, &req); !ok {
		return badRequest(c, details)
	}

	id, err := r.cartID(c)
	if err != nil {
		return r.fail(c, log, err)
	}

	cart, err := r.CartStore.AddItem(c.Request().Context(), id, models.CartItem{
		PhotoID:       req.PhotoID,
		PhotoURL:      req.PhotoURL,
		PhotoFilename: req.PhotoFilename,
		ProductName:   req.ProductName,
		ProductSize:   req.ProductSize,
		VariantID:     req.VariantID,
		Price:         req.Price,
		Quantity:      req.Quantity,
		GalleryID:     req.GalleryID,
	})
	if err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusCreated, cartResponse(cart))
}

// UpdateCartItem godoc
// @Summary Изменить количество
// @Tags cart
// @Accept json
// @Produce json
// @Param id path string true "ID строки" format(uuid)
// @Param request body dto.UpdateCartItemRequest true "Количество"
// @Success 200 {object} dto.CartResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /api/cart/items/{id} [patch]
func (r *Routers) UpdateCartItem(c echo.Context) error {
	const op = "http.routers.UpdateCartItem"

	log := r.log.With(
		slog.String("op", op),
	)

	lineID, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	var req dto.UpdateCartItemRequest
	if details, ok := bind(c, log, &req); !ok {
		return badRequest(c, details)
	}

	id, err := r.cartID(c)
	if err != nil {
		return r.fail(c, log, err)
	}

	cart, err := r.CartStore.UpdateQuantity(c.Request().Context(), id, lineID, req.Quantity)
	if err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusOK, cartResponse(cart))
}

// RemoveCartItem godoc
// @Summary Удалить строку
// @Tags cart
// @Produce json
// @Param id path string true "ID строки" format(uuid)
// @Success 200 {object} dto.CartResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /api/cart/items/{id} [delete]
func (r *Routers) RemoveCartItem(c echo.Context) error {
	const op = "http.routers.RemoveCartItem"

	log := r.log.With(
		slog.String("op", op),
	)

	lineID, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	id, err := r.cartID(c)
	if err != nil {
		return r.fail(c, log, err)
	}

	cart, err := r.CartStore.RemoveItem(c.Request().Context(), id, lineID)
	if err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusOK, cartResponse(cart))
}

// ClearCart godoc
// @Summary Очистить корзину
// @Tags cart
// @Success 204
// @Router /api/cart [delete]
func (r *Routers) ClearCart(c echo.Context) error {
	const op = "http.routers.ClearCart"

	log := r.log.With(
		slog.String("op", op),
	)

	id, err := r.cartID(c)
	if err != nil {
		return r.fail(c, log, err)
	}

	if err := r.CartStore.Clear(c.Request().Context(), id); err != nil {
		return r.fail(c, log, err)
	}

	return c.NoContent(http.StatusNoContent)
}
