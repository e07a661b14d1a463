package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"lightbox/internal/lib/logger/sl"
	"lightbox/internal/metrics"
	"lightbox/internal/repository"
)

const (
	DefaultInterval   = 5 * time.Minute
	DefaultStaleAfter = 30 * time.Minute
)

// Reconciler закрывает заказы, которые так и не получили платежную сессию
type Reconciler struct {
	log        *slog.Logger
	orders     repository.OrderRepository
	interval   time.Duration
	staleAfter time.Duration
	now        func() time.Time
}

func NewReconciler(log *slog.Logger, orders repository.OrderRepository, interval, staleAfter time.Duration) *Reconciler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if staleAfter <= 0 {
		staleAfter = DefaultStaleAfter
	}

	return &Reconciler{
		log:        log,
		orders:     orders,
		interval:   interval,
		staleAfter: staleAfter,
		now:        time.Now,
	}
}

// Start блокирует до отмены ctx
func (r *Reconciler) Start(ctx context.Context) {
	const op = "services.Reconciler.Start"

	log := r.log.With(slog.String("op", op))
	log.Info("starting order reconciler",
		slog.Duration("interval", r.interval),
		slog.Duration("stale_after", r.staleAfter),
	)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("order reconciler stopping")
			return
		case <-ticker.C:
			if _, err := r.processOnce(ctx); err != nil {
				log.Error("reconcile pass failed", sl.Err(err))
			}
		}
	}
}

func (r *Reconciler) processOnce(ctx context.Context) (int64, error) {
	const op = "services.Reconciler.processOnce"

	cutoff := r.now().Add(-r.staleAfter)

	n, err := r.orders.FailStaleOrders(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if n > 0 {
		metrics.OrdersReconciled.Add(float64(n))
		r.log.Info("stale orders marked failed",
			slog.String("op", op),
			slog.Int64("count", n),
			slog.Time("cutoff", cutoff),
		)
	}

	return n, nil
}
