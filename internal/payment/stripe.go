package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/checkout/session"
	"github.com/stripe/stripe-go/v80/webhook"
)

const orderIDMetadataKey = "order_id"

// Stripe провайдер Stripe Checkout; без глобального stripe.Key, чтобы тесты подменяли backend
type Stripe struct {
	sessions      session.Client
	webhookSecret string
}

// NewStripe backend nil означает боевой API Stripe
func NewStripe(secretKey, webhookSecret string, backend stripe.Backend) *Stripe {
	if backend == nil {
		backend = stripe.GetBackend(stripe.APIBackend)
	}

	return &Stripe{
		sessions:      session.Client{B: backend, Key: secretKey},
		webhookSecret: webhookSecret,
	}
}

func (s *Stripe) CreateSession(ctx context.Context, req SessionRequest) (Session, error) {
	const op = "payment.Stripe.CreateSession"

	currency := strings.ToLower(req.Currency)

	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(req.LineItems))
	for _, li := range req.LineItems {
		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(currency),
				UnitAmount: stripe.Int64(li.Amount),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(li.Name),
				},
			},
			Quantity: stripe.Int64(li.Quantity),
		})
	}

	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems:         lineItems,
		SuccessURL:        stripe.String(req.SuccessURL),
		CancelURL:         stripe.String(req.CancelURL),
		ClientReferenceID: stripe.String(req.OrderID.String()),
	}
	if req.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(req.CustomerEmail)
	}
	params.Context = ctx
	params.AddMetadata(orderIDMetadataKey, req.OrderID.String())
	if req.IdempotencyKey != "" {
		params.SetIdempotencyKey(req.IdempotencyKey)
	}

	cs, err := s.sessions.New(params)
	if err != nil {
		return Session{}, fmt.Errorf("%s: %w", op, err)
	}

	return Session{ID: cs.ID, URL: cs.URL}, nil
}

func (s *Stripe) ParseEvent(payload []byte, signatureHeader string) (Event, error) {
	const op = "payment.Stripe.ParseEvent"

	ev, err := webhook.ConstructEventWithOptions(payload, signatureHeader, s.webhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return Event{}, fmt.Errorf("%s: %w: %v", op, ErrInvalidSignature, err)
	}

	out := Event{ID: ev.ID, Type: string(ev.Type)}

	switch out.Type {
	case "checkout.session.completed", "checkout.session.async_payment_succeeded":
		out.Kind = EventPaid
	case "checkout.session.expired", "checkout.session.async_payment_failed":
		out.Kind = EventFailed
	default:
		return out, nil
	}

	var cs stripe.CheckoutSession
	if err := json.Unmarshal(ev.Data.Raw, &cs); err != nil {
		return Event{}, fmt.Errorf("%s: decode session: %w", op, err)
	}

	out.SessionID = cs.ID

	rawID := cs.Metadata[orderIDMetadataKey]
	if rawID == "" {
		rawID = cs.ClientReferenceID
	}
	orderID, err := uuid.Parse(rawID)
	if err != nil {
		return Event{}, fmt.Errorf("%s: %w", op, errors.New("event carries no order id"))
	}
	out.OrderID = orderID

	return out, nil
}
