package http

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"lightbox/internal/lib/logger/sl"
	"lightbox/internal/payment"
	order "lightbox/internal/services/order_service"
	"lightbox/internal/transport/http/dto"
	"lightbox/internal/transport/http/dto/response"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// Stripe не присылает события больше 64KB
const maxWebhookBody = 64 << 10

// Checkout godoc
// @Summary Оформить заказ
// @Description Цены берутся из каталога на сервере. Пустой items всегда отклоняется с empty_cart.
// @Description После успеха корзина сессии очищается, браузер отправляют на url платежной страницы.
// @Tags checkout
// @Accept json
// @Produce json
// @Param request body dto.CheckoutRequest true "Заказ"
// @Success 200 {object} dto.CheckoutResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse "Оформление с этим ключом уже идет"
// @Failure 422 {object} response.ErrorResponse "Оформление с этим ключом провалилось, нужен новый ключ"
// @Failure 500 {object} response.ErrorResponse
// @Router /api/checkout [post]
func (r *Routers) Checkout(c echo.Context) error {
	const op = "http.routers.Checkout"

	log := r.log.With(
		slog.String("op", op),
	)

	var req dto.CheckoutRequest
	if err := c.Bind(&req); err != nil {
		log.Warn("failed to bind request", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	return r.submitCheckout(c, log, req)
}

// CheckoutCart godoc
// @Summary Оформить корзину сессии
// @Description Строки заказа берутся из корзины в cookie-сессии; galleryId по умолчанию из первой строки.
// @Tags checkout
// @Accept json
// @Produce json
// @Param request body dto.CartCheckoutRequest true "Покупатель и доставка"
// @Success 200 {object} dto.CheckoutResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/cart/checkout [post]
func (r *Routers) CheckoutCart(c echo.Context) error {
	const op = "http.routers.CheckoutCart"

	log := r.log.With(
		slog.String("op", op),
	)

	var body dto.CartCheckoutRequest
	if err := c.Bind(&body); err != nil {
		log.Warn("failed to bind request", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	cartID, err := r.cartID(c)
	if err != nil {
		return r.fail(c, log, err)
	}

	cart, err := r.CartStore.Get(c.Request().Context(), cartID)
	if err != nil {
		return r.fail(c, log, err)
	}

	req := dto.CheckoutRequest{
		Items:          dto.CartToCheckoutItems(cart.Items),
		CustomerInfo:   body.CustomerInfo,
		ShippingInfo:   body.ShippingInfo,
		GalleryID:      body.GalleryID,
		IdempotencyKey: body.IdempotencyKey,
	}
	if len(cart.Items) > 0 && req.GalleryID == uuid.Nil {
		req.GalleryID = cart.Items[0].GalleryID
	}

	return r.submitCheckout(c, log, req)
}

// submitCheckout передает заказ сервису как есть и после успеха очищает корзину сессии
func (r *Routers) submitCheckout(c echo.Context, log *slog.Logger, req dto.CheckoutRequest) error {
	ctx := c.Request().Context()

	resp, err := r.CheckoutService.Checkout(ctx, req)
	if err != nil {
		return r.fail(c, log, err)
	}

	cartID, err := r.cartID(c)
	if err != nil {
		log.Warn("no cart session to clear", slog.String("order_id", resp.OrderID), sl.Err(err))
		return c.JSON(http.StatusOK, resp)
	}

	if err := r.CartStore.Clear(ctx, cartID); err != nil {
		log.Warn("failed to clear cart after checkout", slog.String("order_id", resp.OrderID), sl.Err(err))
	}

	return c.JSON(http.StatusOK, resp)
}

// OrderConfirmation godoc
// @Summary Подтверждение заказа
// @Description Заказ отдается только при совпадении обоих id; иначе 303 на главную.
// @Tags checkout
// @Produce json
// @Param session_id query string true "ID платежной сессии"
// @Param order_id query string true "ID заказа" format(uuid)
// @Success 200 {object} models.Order
// @Success 303 "Заказ не найден"
// @Router /api/orders/confirmation [get]
func (r *Routers) OrderConfirmation(c echo.Context) error {
	const op = "http.routers.OrderConfirmation"

	log := r.log.With(
		slog.String("op", op),
	)

	o, err := r.OrderService.Confirmation(c.Request().Context(), c.QueryParam("order_id"), c.QueryParam("session_id"))
	if errors.Is(err, order.ErrOrderNotFound) {
		return c.Redirect(http.StatusSeeOther, r.siteURL)
	}
	if err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusOK, o)
}

// StripeWebhook godoc
// @Summary Webhook платежного провайдера
// @Tags checkout
// @Accept json
// @Param Stripe-Signature header string true "Подпись"
// @Success 200
// @Failure 400 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/webhooks/stripe [post]
func (r *Routers) StripeWebhook(c echo.Context) error {
	const op = "http.routers.StripeWebhook"

	log := r.log.With(
		slog.String("op", op),
	)

	payload, err := io.ReadAll(io.LimitReader(c.Request().Body, maxWebhookBody))
	if err != nil {
		log.Warn("failed to read webhook body", sl.Err(err))
		return badRequest(c, "unreadable body")
	}

	err = r.OrderService.HandleWebhook(c.Request().Context(), payload, c.Request().Header.Get("Stripe-Signature"))
	if errors.Is(err, payment.ErrInvalidSignature) {
		log.Warn("webhook rejected", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_webhook", "webhook could not be verified"))
	}
	if err != nil {
		// не 2xx: провайдер повторит доставку
		return r.fail(c, log, err)
	}

	return c.NoContent(http.StatusOK)
}
