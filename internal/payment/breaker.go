package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stripe/stripe-go/v80"
)

func ExecuteWithBreaker[T any](cb *gobreaker.CircuitBreaker, fn func() (T, error)) (T, error) {
	res, err := cb.Execute(func() (interface{}, error) {
		return fn()
	})

	if err != nil {
		return *new(T), err
	}

	return res.(T), nil
}

// BreakerProvider оборачивает провайдера circuit breaker'ом: при серии отказов
// новые сессии сразу отклоняются с ErrUnavailable
type BreakerProvider struct {
	next Provider
	cb   *gobreaker.CircuitBreaker
}

func NewBreakerProvider(log *slog.Logger, next Provider) *BreakerProvider {
	settings := gobreaker.Settings{
		Name:        "PaymentProvider",
		MaxRequests: 3,
		Interval:    30 * time.Second,
		Timeout:     15 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 5 && failureRatio >= 0.6
		},
		IsSuccessful: countsAsSuccess,
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Warn("circuit breaker state changed",
				slog.String("name", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
	}

	return &BreakerProvider{next: next, cb: gobreaker.NewCircuitBreaker(settings)}
}

// countsAsSuccess ошибки клиента (4xx от Stripe, отмена запроса) не говорят о том,
// что провайдер лежит, и не должны размыкать цепь
func countsAsSuccess(err error) bool {
	if err == nil {
		return true
	}
	if errors.Is(err, context.Canceled) {
		return true
	}

	var se *stripe.Error
	if errors.As(err, &se) {
		return se.HTTPStatusCode >= http.StatusBadRequest && se.HTTPStatusCode < http.StatusInternalServerError &&
			se.HTTPStatusCode != http.StatusTooManyRequests
	}

	return false
}

func (b *BreakerProvider) CreateSession(ctx context.Context, req SessionRequest) (Session, error) {
	const op = "payment.BreakerProvider.CreateSession"

	s, err := ExecuteWithBreaker(b.cb, func() (Session, error) {
		return b.next.CreateSession(ctx, req)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return Session{}, fmt.Errorf("%s: %w: %v", op, ErrUnavailable, err)
	}
	if err != nil {
		return Session{}, err
	}

	return s, nil
}
