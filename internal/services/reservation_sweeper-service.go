package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"maintenance-system/internal/repositories"
	"maintenance-system/pkg/constants"
)

// ReservationSweeper periodically completes reservations whose end time
// has passed. A short-lived Redis lock keeps only one instance sweeping
// when several replicas run.
type ReservationSweeper struct {
	reservations ReservationServiceInterface
	cacheRepo    repositories.CacheRepositoryInterface
	logger       *zap.Logger
	interval     time.Duration
	lockTTL      time.Duration
}

func NewReservationSweeper(
	reservations ReservationServiceInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	logger *zap.Logger,
	interval time.Duration,
	lockTTL time.Duration,
) *ReservationSweeper {
	return &ReservationSweeper{
		reservations: reservations,
		cacheRepo:    cacheRepo,
		logger:       logger,
		interval:     interval,
		lockTTL:      lockTTL,
	}
}

// Run blocks until the context is cancelled. Call it in its own
// goroutine.
func (s *ReservationSweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("reservation sweeper started", zap.Duration("interval", s.interval))
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("reservation sweeper stopped")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *ReservationSweeper) sweep(ctx context.Context) {
	acquired, err := s.cacheRepo.SetNX(ctx, constants.CacheKeySweeperLock, "1", s.lockTTL)
	if err != nil {
		// Expiry is idempotent, so sweep anyway rather than stall
		// on a cache outage.
		s.logger.Warn("failed to acquire sweeper lock, sweeping without it", zap.Error(err))
	} else if !acquired {
		return
	}

	if _, err := s.reservations.AutoExpire(ctx); err != nil {
		s.logger.Error("reservation sweep failed", zap.Error(err))
	}
}
