package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"lightbox/internal/domain/models"
	"lightbox/internal/lib/logger/sl"
	"lightbox/internal/mailer"
	"lightbox/internal/payment"
	"lightbox/internal/repository"
	"lightbox/internal/storage"

	"github.com/google/uuid"
)

var ErrOrderNotFound = errors.New("order not found")

// OwnershipChecker подтверждает, что галерея принадлежит фотографу
type OwnershipChecker interface {
	CheckOwner(ctx context.Context, galleryID, userID uuid.UUID) (models.Gallery, error)
}

type OrderService struct {
	log      *slog.Logger
	orders   repository.OrderRepository
	webhooks payment.WebhookParser
	owners   OwnershipChecker
	mail     mailer.Sender
}

func NewOrderService(
	log *slog.Logger,
	orders repository.OrderRepository,
	webhooks payment.WebhookParser,
	owners OwnershipChecker,
	mail mailer.Sender,
) *OrderService {
	return &OrderService{
		log:      log,
		orders:   orders,
		webhooks: webhooks,
		owners:   owners,
		mail:     mail,
	}
}

// Confirmation ищет заказ сразу по двум id. Любое несовпадение, включая
// кривые id, выглядит для вызывающего одинаково: ErrOrderNotFound
func (s *OrderService) Confirmation(ctx context.Context, rawOrderID, sessionID string) (models.Order, error) {
	const op = "services.OrderService.Confirmation"

	log := s.log.With(slog.String("op", op))

	orderID, err := uuid.Parse(rawOrderID)
	if err != nil || strings.TrimSpace(sessionID) == "" {
		log.Debug("malformed confirmation lookup")
		return models.Order{}, fmt.Errorf("%s: %w", op, ErrOrderNotFound)
	}

	order, err := s.orders.GetOrderByIDAndSession(ctx, orderID, sessionID)
	if err != nil {
		if errors.Is(err, storage.ErrOrderNotFound) {
			log.Info("confirmation lookup missed", slog.String("order_id", orderID.String()))
			return models.Order{}, fmt.Errorf("%s: %w", op, ErrOrderNotFound)
		}
		log.Error("failed to load order", sl.Err(err))
		return models.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	return order, nil
}

// HandleWebhook применяет событие платежного провайдера к заказу.
// Повторная доставка того же события ничего не меняет
func (s *OrderService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	const op = "services.OrderService.HandleWebhook"

	log := s.log.With(slog.String("op", op))

	event, err := s.webhooks.ParseEvent(payload, signature)
	if err != nil {
		log.Warn("webhook rejected", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	log = log.With(
		slog.String("event_id", event.ID),
		slog.String("event_type", event.Type),
	)

	var target models.PaymentStatus
	switch event.Kind {
	case payment.EventPaid:
		target = models.PaymentPaid
	case payment.EventFailed:
		target = models.PaymentFailed
	default:
		log.Debug("webhook event ignored")
		return nil
	}

	order, err := s.orders.GetOrderByIDAndSession(ctx, event.OrderID, event.SessionID)
	if err != nil {
		if errors.Is(err, storage.ErrOrderNotFound) {
			// не наш заказ или сессия не привязана: подтверждаем, чтобы провайдер не ретраил
			log.Warn("webhook for unknown order", slog.String("order_id", event.OrderID.String()))
			return nil
		}
		log.Error("failed to load order", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	if order.PaymentStatus == target || order.PaymentStatus == models.PaymentPaid {
		return nil
	}

	if err := s.orders.SetPaymentStatus(ctx, order.ID, target); err != nil {
		log.Error("failed to update payment status", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("payment status updated",
		slog.String("order_id", order.ID.String()),
		slog.String("status", string(target)),
	)

	if target == models.PaymentPaid {
		if err := s.mail.Send(ctx, receipt(order)); err != nil {
			log.Error("failed to send receipt", sl.Err(err))
		}
	}

	return nil
}

func (s *OrderService) ListGalleryOrders(ctx context.Context, galleryID, userID uuid.UUID) ([]models.Order, error) {
	const op = "services.OrderService.ListGalleryOrders"

	if _, err := s.owners.CheckOwner(ctx, galleryID, userID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	orders, err := s.orders.ListOrdersByGallery(ctx, galleryID)
	if err != nil {
		s.log.Error("failed to list orders", slog.String("op", op), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return orders, nil
}

func receipt(o models.Order) mailer.Message {
	var b strings.Builder

	fmt.Fprintf(&b, "Hi %s,\n\nThank you for your order %s.\n\n", o.Customer.Name, o.ID)
	for _, it := range o.Items {
		fmt.Fprintf(&b, "%d x %s (%s)  %s\n", it.Quantity, it.ProductName, it.ProductSize, it.LineTotal.StringFixed(2))
	}
	fmt.Fprintf(&b, "\nSubtotal: %s\n", o.Subtotal.StringFixed(2))
	if o.ShippingCost.IsPositive() {
		fmt.Fprintf(&b, "Shipping: %s\n", o.ShippingCost.StringFixed(2))
	}
	if o.Tax.IsPositive() {
		fmt.Fprintf(&b, "Tax: %s\n", o.Tax.StringFixed(2))
	}
	fmt.Fprintf(&b, "Total: %s\n", o.Total.StringFixed(2))

	return mailer.Message{
		To:      []string{o.Customer.Email},
		Subject: "Your print order " + o.ID.String(),
		Body:    b.String(),
	}
}
