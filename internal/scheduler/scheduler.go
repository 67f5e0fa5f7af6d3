// Package scheduler keeps the cart and order projections fresh with
// cron-driven background re-syncs. Every refresh is an ordinary fetch intent,
// so latest-wins guarding applies to it like any user-initiated fetch.
package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/robfig/cron/v3"

	"rentgear-storefront/internal/config"
	"rentgear-storefront/internal/logger"
	"rentgear-storefront/internal/syncer"
)

const refreshTimeout = 30 * time.Second

// Scheduler manages the background re-sync jobs
type Scheduler struct {
	cron        *cron.Cron
	coordinator *syncer.Coordinator
	cfg         config.SchedulerConfig
}

// NewScheduler creates a scheduler wired to the coordinator's fetch intents
func NewScheduler(coordinator *syncer.Coordinator, cfg config.SchedulerConfig) *Scheduler {
	// Create cron with UTC timezone and seconds precision
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithSeconds(),
	)

	s := &Scheduler{
		cron:        c,
		coordinator: coordinator,
		cfg:         cfg,
	}

	s.registerJobs()
	return s
}

func (s *Scheduler) registerJobs() {
	_, err := s.cron.AddFunc(s.cfg.RefreshCart, s.refreshCart)
	if err != nil {
		logger.Error("Failed to register RefreshCart job", "error", err)
	}

	_, err = s.cron.AddFunc(s.cfg.RefreshOrders, s.refreshOrders)
	if err != nil {
		logger.Error("Failed to register RefreshOrders job", "error", err)
	}

	logger.Info("Background re-sync jobs registered")
}

func (s *Scheduler) refreshCart() {
	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()
	err := s.coordinator.FetchCart(ctx)
	switch {
	case err == nil:
	case errors.Is(err, syncer.ErrNotAuthenticated):
		// Nothing to refresh while signed out.
	case errors.Is(err, syncer.ErrStaleResponse):
		logger.Debug("Cart refresh superseded by a newer fetch")
	default:
		logger.Warn("Background cart refresh failed", "error", err)
	}
}

func (s *Scheduler) refreshOrders() {
	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()
	err := s.coordinator.FetchOrders(ctx)
	switch {
	case err == nil:
	case errors.Is(err, syncer.ErrNotAuthenticated):
	case errors.Is(err, syncer.ErrStaleResponse):
		logger.Debug("Order refresh superseded by a newer fetch")
	default:
		logger.Warn("Background order refresh failed", "error", err)
	}
}

// Start begins the cron scheduler
func (s *Scheduler) Start() {
	logger.Info("Starting background sync scheduler...")
	s.cron.Start()
}

// Stop gracefully stops the cron scheduler
func (s *Scheduler) Stop() {
	logger.Info("Stopping background sync scheduler...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info("Background sync scheduler stopped")
}
