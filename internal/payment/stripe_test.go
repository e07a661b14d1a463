package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/webhook"
)

const testWebhookSecret = "whsec_test"

func testBackend(t *testing.T, handler http.HandlerFunc) stripe.Backend {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
		URL:               stripe.String(srv.URL),
		LeveledLogger:     &stripe.LeveledLogger{Level: stripe.LevelNull},
		MaxNetworkRetries: stripe.Int64(0),
	})
}

func TestStripe_CreateSession(t *testing.T) {
	orderID := uuid.New()

	backend := testBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/checkout/sessions", r.URL.Path)
		assert.Equal(t, "idem-1", r.Header.Get("Idempotency-Key"))
		require.NoError(t, r.ParseForm())

		assert.Equal(t, "payment", r.Form.Get("mode"))
		assert.Equal(t, "usd", r.Form.Get("line_items[0][price_data][currency]"))
		assert.Equal(t, "2500", r.Form.Get("line_items[0][price_data][unit_amount]"))
		assert.Equal(t, "2", r.Form.Get("line_items[0][quantity]"))
		assert.Equal(t, "Shipping", r.Form.Get("line_items[1][price_data][product_data][name]"))
		assert.Equal(t, orderID.String(), r.Form.Get("metadata[order_id]"))
		assert.Equal(t, orderID.String(), r.Form.Get("client_reference_id"))
		assert.Equal(t, "jo@example.com", r.Form.Get("customer_email"))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"cs_test_123","object":"checkout.session","url":"https://checkout.stripe.com/c/pay/cs_test_123"}`)
	})

	s := NewStripe("sk_test", testWebhookSecret, backend)

	got, err := s.CreateSession(context.Background(), SessionRequest{
		OrderID:       orderID,
		CustomerEmail: "jo@example.com",
		Currency:      "USD",
		LineItems: []LineItem{
			{Name: "Fine Art Print 8x10", Amount: 2500, Quantity: 2},
			{Name: "Shipping", Amount: 999, Quantity: 1},
		},
		SuccessURL:     "https://shop.test/checkout/success?session_id={CHECKOUT_SESSION_ID}&order_id=" + orderID.String(),
		CancelURL:      "https://shop.test/cart",
		IdempotencyKey: "idem-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "cs_test_123", got.ID)
	assert.Equal(t, "https://checkout.stripe.com/c/pay/cs_test_123", got.URL)
}

func TestStripe_CreateSessionError(t *testing.T) {
	backend := testBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error":{"type":"invalid_request_error","message":"bad currency"}}`)
	})

	_, err := NewStripe("sk_test", testWebhookSecret, backend).CreateSession(context.Background(), SessionRequest{
		OrderID:   uuid.New(),
		Currency:  "xxx",
		LineItems: []LineItem{{Name: "p", Amount: 1, Quantity: 1}},
	})
	require.Error(t, err)
}

func signedEvent(t *testing.T, eventType string, object map[string]any) ([]byte, string) {
	t.Helper()

	payload, err := json.Marshal(map[string]any{
		"id":          "evt_1",
		"object":      "event",
		"type":        eventType,
		"api_version": stripe.APIVersion,
		"data":        map[string]any{"object": object},
	})
	require.NoError(t, err)

	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload: payload,
		Secret:  testWebhookSecret,
	})

	return payload, signed.Header
}

func TestStripe_ParseEvent(t *testing.T) {
	s := NewStripe("sk_test", testWebhookSecret, nil)
	orderID := uuid.New()

	tests := []struct {
		name      string
		eventType string
		object    map[string]any
		wantKind  EventKind
		wantOrder uuid.UUID
		wantErr   bool
	}{
		{
			name:      "completed marks paid",
			eventType: "checkout.session.completed",
			object:    map[string]any{"id": "cs_1", "object": "checkout.session", "metadata": map[string]string{"order_id": orderID.String()}},
			wantKind:  EventPaid,
			wantOrder: orderID,
		},
		{
			name:      "expired marks failed, falls back to client reference",
			eventType: "checkout.session.expired",
			object:    map[string]any{"id": "cs_2", "object": "checkout.session", "client_reference_id": orderID.String()},
			wantKind:  EventFailed,
			wantOrder: orderID,
		},
		{
			name:      "unrelated event ignored",
			eventType: "customer.created",
			object:    map[string]any{"id": "cus_1", "object": "customer"},
			wantKind:  EventIgnored,
		},
		{
			name:      "session without order id",
			eventType: "checkout.session.completed",
			object:    map[string]any{"id": "cs_3", "object": "checkout.session"},
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload, header := signedEvent(t, tt.eventType, tt.object)

			ev, err := s.ParseEvent(payload, header)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantKind, ev.Kind)
			assert.Equal(t, tt.wantOrder, ev.OrderID)
		})
	}
}

func TestStripe_ParseEventBadSignature(t *testing.T) {
	s := NewStripe("sk_test", testWebhookSecret, nil)
	payload, _ := signedEvent(t, "checkout.session.completed", map[string]any{"id": "cs_1"})

	_, err := s.ParseEvent(payload, "t=1,v1=deadbeef")
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestToMinorUnits(t *testing.T) {
	assert.Equal(t, int64(2500), ToMinorUnits(decimal.RequireFromString("25")))
	assert.Equal(t, int64(999), ToMinorUnits(decimal.RequireFromString("9.99")))
	assert.Equal(t, int64(1001), ToMinorUnits(decimal.RequireFromString("10.005")))
}
