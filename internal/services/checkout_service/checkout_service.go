package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"lightbox/internal/domain/models"
	"lightbox/internal/lib/logger/sl"
	"lightbox/internal/metrics"
	"lightbox/internal/payment"
	"lightbox/internal/repository"
	"lightbox/internal/storage"
	"lightbox/internal/transport/http/dto"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrEmptyCart          = errors.New("cart is empty")
	ErrMissingInfo        = errors.New("missing customer or shipping information")
	ErrInvalidQuantity    = errors.New("quantity must be at least 1")
	ErrUnknownVariant     = errors.New("unknown product variant")
	ErrCheckoutInProgress = errors.New("checkout with this idempotency key is in progress")
	ErrCheckoutFailed     = errors.New("checkout with this idempotency key failed, retry with a new key")
	ErrAlreadyPaid        = errors.New("order for this idempotency key is already paid")
)

const compensateTimeout = 5 * time.Second

type Options struct {
	Currency     string
	TaxRate      decimal.Decimal
	FlatShipping decimal.Decimal
	BaseURL      string
	SuccessPath  string
	CancelPath   string
}

type CheckoutService struct {
	log      *slog.Logger
	catalog  Catalog
	orders   repository.OrderRepository
	provider payment.Provider
	opts     Options
}

func NewCheckoutService(log *slog.Logger, catalog Catalog, orders repository.OrderRepository, provider payment.Provider, opts Options) *CheckoutService {
	if opts.Currency == "" {
		opts.Currency = "usd"
	}

	return &CheckoutService{
		log:      log,
		catalog:  catalog,
		orders:   orders,
		provider: provider,
		opts:     opts,
	}
}

// Checkout создает заказ и платежную сессию. Порядок проверок важен:
// пустая корзина отклоняется раньше, чем проверяются данные покупателя
func (s *CheckoutService) Checkout(ctx context.Context, req dto.CheckoutRequest) (dto.CheckoutResponse, error) {
	const op = "services.CheckoutService.Checkout"

	log := s.log.With(
		slog.String("op", op),
		slog.String("gallery_id", req.GalleryID.String()),
	)

	if len(req.Items) == 0 {
		metrics.CheckoutsTotal.WithLabelValues("rejected").Inc()
		return dto.CheckoutResponse{}, fmt.Errorf("%s: %w", op, ErrEmptyCart)
	}

	if err := validateInfo(req.CustomerInfo, req.ShippingInfo); err != nil {
		metrics.CheckoutsTotal.WithLabelValues("rejected").Inc()
		return dto.CheckoutResponse{}, fmt.Errorf("%s: %w", op, err)
	}

	for _, it := range req.Items {
		if it.Quantity < 1 {
			metrics.CheckoutsTotal.WithLabelValues("rejected").Inc()
			return dto.CheckoutResponse{}, fmt.Errorf("%s: %w", op, ErrInvalidQuantity)
		}
	}

	var idemKey *string
	if key := strings.TrimSpace(req.IdempotencyKey); key != "" {
		idemKey = &key

		resp, found, err := s.replay(ctx, key)
		if err != nil {
			return dto.CheckoutResponse{}, fmt.Errorf("%s: %w", op, err)
		}
		if found {
			metrics.CheckoutsTotal.WithLabelValues("replayed").Inc()
			log.Info("checkout replayed", slog.String("order_id", resp.OrderID))
			return resp, nil
		}
	}

	items, err := s.resolveItems(ctx, log, req.Items)
	if err != nil {
		metrics.CheckoutsTotal.WithLabelValues("rejected").Inc()
		return dto.CheckoutResponse{}, fmt.Errorf("%s: %w", op, err)
	}

	totals := ComputeTotals(items, s.opts.TaxRate, s.opts.FlatShipping)

	order, err := s.orders.CreateOrder(ctx, models.Order{
		ID:                uuid.New(),
		GalleryID:         req.GalleryID,
		Customer:          trimCustomer(*req.CustomerInfo),
		Shipping:          trimShipping(*req.ShippingInfo),
		Subtotal:          totals.Subtotal,
		Tax:               totals.Tax,
		ShippingCost:      totals.Shipping,
		Total:             totals.Total,
		PaymentStatus:     models.PaymentPending,
		FulfillmentStatus: models.FulfillmentPending,
		IdempotencyKey:    idemKey,
		Items:             items,
	})
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) && idemKey != nil {
			// параллельный запрос с тем же ключом успел создать заказ
			resp, found, rerr := s.replay(ctx, *idemKey)
			if rerr != nil {
				return dto.CheckoutResponse{}, fmt.Errorf("%s: %w", op, rerr)
			}
			if found {
				metrics.CheckoutsTotal.WithLabelValues("replayed").Inc()
				return resp, nil
			}
			return dto.CheckoutResponse{}, fmt.Errorf("%s: %w", op, ErrCheckoutInProgress)
		}

		metrics.CheckoutsTotal.WithLabelValues("failed").Inc()
		log.Error("failed to create order", sl.Err(err))
		return dto.CheckoutResponse{}, fmt.Errorf("%s: %w", op, err)
	}

	log = log.With(slog.String("order_id", order.ID.String()))

	sessionReq := payment.SessionRequest{
		OrderID:       order.ID,
		CustomerEmail: order.Customer.Email,
		Currency:      s.opts.Currency,
		LineItems:     buildLineItems(order.Items, totals),
		SuccessURL:    s.successURL(order.ID),
		CancelURL:     s.opts.BaseURL + s.opts.CancelPath,
	}
	if idemKey != nil {
		sessionReq.IdempotencyKey = *idemKey
	} else {
		sessionReq.IdempotencyKey = order.ID.String()
	}

	session, err := s.provider.CreateSession(ctx, sessionReq)
	if err != nil {
		metrics.CheckoutsTotal.WithLabelValues("failed").Inc()
		log.Error("failed to create payment session", sl.Err(err))
		s.compensate(ctx, log, order.ID)
		return dto.CheckoutResponse{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.orders.AttachPaymentSession(ctx, order.ID, session.ID, session.URL); err != nil {
		metrics.CheckoutsTotal.WithLabelValues("failed").Inc()
		log.Error("failed to attach payment session", sl.Err(err), slog.String("session_id", session.ID))
		s.compensate(ctx, log, order.ID)
		return dto.CheckoutResponse{}, fmt.Errorf("%s: %w", op, err)
	}

	metrics.CheckoutsTotal.WithLabelValues("created").Inc()
	log.Info("checkout session created",
		slog.String("session_id", session.ID),
		slog.String("total", totals.Total.StringFixed(2)),
	)

	return dto.CheckoutResponse{
		SessionID: session.ID,
		OrderID:   order.ID.String(),
		URL:       session.URL,
	}, nil
}

func (s *CheckoutService) replay(ctx context.Context, key string) (dto.CheckoutResponse, bool, error) {
	existing, err := s.orders.GetOrderByIdempotencyKey(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrOrderNotFound) {
			return dto.CheckoutResponse{}, false, nil
		}
		return dto.CheckoutResponse{}, false, err
	}

	switch {
	case existing.PaymentStatus == models.PaymentFailed:
		// заказ уже скомпенсирован, а провайдер помнит ключ: нужен новый
		return dto.CheckoutResponse{}, false, ErrCheckoutFailed
	case existing.PaymentStatus == models.PaymentPaid:
		return dto.CheckoutResponse{}, false, ErrAlreadyPaid
	case existing.PaymentSessionID == nil:
		return dto.CheckoutResponse{}, false, ErrCheckoutInProgress
	}

	resp := dto.CheckoutResponse{
		SessionID: *existing.PaymentSessionID,
		OrderID:   existing.ID.String(),
	}
	if existing.PaymentSessionURL != nil {
		resp.URL = *existing.PaymentSessionURL
	}

	return resp, true, nil
}

func (s *CheckoutService) resolveItems(ctx context.Context, log *slog.Logger, in []dto.CheckoutItem) ([]models.OrderItem, error) {
	items := make([]models.OrderItem, 0, len(in))

	for _, it := range in {
		variant, err := s.catalog.Variant(ctx, it.VariantID)
		if err != nil {
			if errors.Is(err, ErrUnknownVariant) {
				return nil, ErrUnknownVariant
			}
			return nil, err
		}
		if !variant.Active {
			return nil, ErrUnknownVariant
		}

		if !it.Price.IsZero() && !it.Price.Equal(variant.Price) {
			log.Warn("client price differs from catalog",
				slog.String("variant_id", variant.ID.String()),
				slog.String("client_price", it.Price.String()),
				slog.String("catalog_price", variant.Price.String()),
			)
		}

		items = append(items, models.OrderItem{
			ID:            uuid.New(),
			PhotoID:       it.PhotoID,
			PhotoURL:      it.PhotoURL,
			PhotoFilename: it.PhotoFilename,
			ProductName:   variant.ProductName,
			ProductSize:   variant.Size,
			VariantID:     variant.ID,
			Quantity:      it.Quantity,
			UnitPrice:     variant.Price,
			LineTotal:     LineTotal(variant.Price, it.Quantity),
		})
	}

	return items, nil
}

// compensate помечает заказ failed; отмена запроса клиентом не должна его прервать
func (s *CheckoutService) compensate(ctx context.Context, log *slog.Logger, orderID uuid.UUID) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), compensateTimeout)
	defer cancel()

	if err := s.orders.SetPaymentStatus(ctx, orderID, models.PaymentFailed); err != nil {
		log.Error("failed to mark order failed", sl.Err(err))
	}
}

func (s *CheckoutService) successURL(orderID uuid.UUID) string {
	return s.opts.BaseURL + s.opts.SuccessPath +
		"?session_id={CHECKOUT_SESSION_ID}&order_id=" + orderID.String()
}

func buildLineItems(items []models.OrderItem, totals Totals) []payment.LineItem {
	out := make([]payment.LineItem, 0, len(items)+2)
	for _, it := range items {
		out = append(out, payment.LineItem{
			Name:     it.ProductName + " - " + it.ProductSize,
			Amount:   payment.ToMinorUnits(it.UnitPrice),
			Quantity: int64(it.Quantity),
		})
	}
	if totals.Shipping.IsPositive() {
		out = append(out, payment.LineItem{Name: "Shipping", Amount: payment.ToMinorUnits(totals.Shipping), Quantity: 1})
	}
	if totals.Tax.IsPositive() {
		out = append(out, payment.LineItem{Name: "Tax", Amount: payment.ToMinorUnits(totals.Tax), Quantity: 1})
	}
	return out
}

func validateInfo(c *models.CustomerInfo, sh *models.ShippingInfo) error {
	if c == nil || sh == nil {
		return ErrMissingInfo
	}

	required := []string{c.Name, c.Email, sh.Address1, sh.City, sh.State, sh.Zip, sh.Country}
	for _, v := range required {
		if strings.TrimSpace(v) == "" {
			return ErrMissingInfo
		}
	}

	return nil
}

func trimCustomer(c models.CustomerInfo) models.CustomerInfo {
	return models.CustomerInfo{
		Name:  strings.TrimSpace(c.Name),
		Email: strings.TrimSpace(c.Email),
		Phone: strings.TrimSpace(c.Phone),
	}
}

func trimShipping(s models.ShippingInfo) models.ShippingInfo {
	return models.ShippingInfo{
		Address1: strings.TrimSpace(s.Address1),
		Address2: strings.TrimSpace(s.Address2),
		City:     strings.TrimSpace(s.City),
		State:    strings.TrimSpace(s.State),
		Zip:      strings.TrimSpace(s.Zip),
		Country:  strings.TrimSpace(s.Country),
	}
}
