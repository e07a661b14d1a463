package payment

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidSignature = errors.New("invalid webhook signature")
	ErrUnavailable      = errors.New("payment provider unavailable")
)

type LineItem struct {
	Name     string
	Amount   int64 // в минимальных единицах валюты (центах)
	Quantity int64
}

// SessionRequest всё, что нужно провайдеру для hosted checkout
type SessionRequest struct {
	OrderID        uuid.UUID
	CustomerEmail  string
	Currency       string
	LineItems      []LineItem
	SuccessURL     string
	CancelURL      string
	IdempotencyKey string
}

type Session struct {
	ID  string
	URL string
}

type Provider interface {
	CreateSession(ctx context.Context, req SessionRequest) (Session, error)
}

type EventKind int

const (
	EventIgnored EventKind = iota
	EventPaid
	EventFailed
)

// Event нормализованное событие вебхука
type Event struct {
	ID        string
	Type      string
	Kind      EventKind
	OrderID   uuid.UUID
	SessionID string
}

type WebhookParser interface {
	ParseEvent(payload []byte, signatureHeader string) (Event, error)
}

// ToMinorUnits округляет до центов и переводит в целое число
func ToMinorUnits(amount decimal.Decimal) int64 {
	return amount.Round(2).Shift(2).IntPart()
}
