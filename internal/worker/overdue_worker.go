package worker

import (
	"context"
	"time"

	"github.com/Renan360Brasil/melody-academy-control/internal/config"
	"github.com/Renan360Brasil/melody-academy-control/internal/repository"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	OverdueSweepInterval = 1 * time.Hour
	// OverdueSweepLockTTL keeps one instance sweeping at a time when
	// several replicas share the database.
	OverdueSweepLockTTL = 5 * time.Minute
)

// OverdueWorker periodically flips pending payments past their due date
// to overdue.
type OverdueWorker struct {
	payments *repository.PaymentRepository
	rdb      *redis.Client
	log      zerolog.Logger
}

// NewOverdueWorker creates an OverdueWorker.
func NewOverdueWorker(payments *repository.PaymentRepository, rdb *redis.Client, log zerolog.Logger) *OverdueWorker {
	return &OverdueWorker{
		payments: payments,
		rdb:      rdb,
		log:      log.With().Str("component", "overdue_worker").Logger(),
	}
}

// Start runs the sweep loop until ctx is cancelled. One sweep runs
// immediately on startup so a restarted instance catches up.
func (w *OverdueWorker) Start(ctx context.Context) {
	w.log.Info().Msg("OverdueWorker started")

	w.sweep(ctx)

	ticker := time.NewTicker(OverdueSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("OverdueWorker stopping")
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *OverdueWorker) sweep(ctx context.Context) {
	ok, err := w.rdb.SetNX(ctx, config.CacheKey.OverdueSweepLockKey(), "1", OverdueSweepLockTTL).Result()
	if err != nil {
		w.log.Error().Err(err).Msg("Sweep lock acquisition failed")
		return
	}
	if !ok {
		// Another instance holds the lock.
		return
	}

	changed, err := w.payments.MarkOverdue(ctx, time.Now())
	if err != nil {
		w.log.Error().Err(err).Msg("Overdue sweep failed")
		return
	}
	if changed > 0 {
		w.log.Info().Int64("payments", changed).Msg("Payments marked overdue")
	}
}
