package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// AnalyticsRefresher recomputes the hotspot and underserved-area caches on
// a schedule so request paths always hit warm results
type AnalyticsRefresher struct {
	analytics *AnalyticsService
	hub       *Hub
	logger    *logrus.Logger
	cron      *cron.Cron
	interval  time.Duration
	mu        sync.Mutex
	isRunning bool
}

// NewAnalyticsRefresher creates a refresher. hub may be nil when no live
// clients need notifying.
func NewAnalyticsRefresher(analytics *AnalyticsService, hub *Hub, logger *logrus.Logger, interval time.Duration) *AnalyticsRefresher {
	return &AnalyticsRefresher{
		analytics: analytics,
		hub:       hub,
		logger:    logger,
		cron:      cron.New(),
		interval:  interval,
	}
}

// Start schedules periodic refreshes and kicks off an initial warm-up
func (r *AnalyticsRefresher) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.isRunning {
		return fmt.Errorf("analytics refresher is already running")
	}

	schedule := fmt.Sprintf("@every %s", r.interval.String())
	if _, err := r.cron.AddFunc(schedule, r.refresh); err != nil {
		return fmt.Errorf("failed to schedule analytics refresh: %w", err)
	}

	r.cron.Start()
	r.isRunning = true

	// Warm the cache on startup
	go r.refresh()

	r.logger.Infof("Analytics refresher started, interval %s", r.interval)
	return nil
}

// Stop halts the schedule and waits for a running refresh to finish
func (r *AnalyticsRefresher) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.isRunning {
		return
	}

	ctx := r.cron.Stop()
	<-ctx.Done()

	r.isRunning = false
	r.logger.Info("Analytics refresher stopped")
}

func (r *AnalyticsRefresher) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	start := time.Now()
	if err := r.analytics.RefreshAll(ctx); err != nil {
		r.logger.Errorf("Analytics refresh failed: %v", err)
		return
	}

	if r.hub != nil {
		r.hub.Broadcast("analytics_refreshed", map[string]interface{}{
			"duration_ms": time.Since(start).Milliseconds(),
		})
	}
}
