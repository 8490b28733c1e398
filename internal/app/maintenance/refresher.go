// Package maintenance runs the background snapshot refresh cycle.
package maintenance

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/verol11/qhse-app/internal/alerts"
	"github.com/verol11/qhse-app/internal/models"
	"github.com/verol11/qhse-app/internal/store"
	"github.com/verol11/qhse-app/internal/urgency"
	appErrors "github.com/verol11/qhse-app/pkg/errors"
	"github.com/verol11/qhse-app/pkg/logger"
	"github.com/verol11/qhse-app/pkg/metrics"
)

const defaultSchedule = "@every 5m"

// SnapshotFetcher retrieves the full record snapshot from the upstream API.
type SnapshotFetcher interface {
	FetchSnapshot(ctx context.Context) (*models.Snapshot, []models.Module, error)
}

// Broadcaster publishes a freshly derived state to connected clients.
type Broadcaster interface {
	BroadcastState(state *store.State)
}

// Refresher periodically pulls all collections from the upstream API, derives
// the alert feed and metrics bundle, and publishes the new state.
type Refresher struct {
	fetcher  SnapshotFetcher
	store    *store.Store
	hub      Broadcaster
	cron     *cron.Cron
	now      func() time.Time
	log      *zap.Logger
	schedule string
}

// Option customises the Refresher.
type Option func(*Refresher)

// WithCron injects a preconfigured cron instance, primarily for testing.
func WithCron(c *cron.Cron) Option {
	return func(r *Refresher) {
		if c != nil {
			r.cron = c
		}
	}
}

// WithNow overrides the clock used for refresh timing.
func WithNow(now func() time.Time) Option {
	return func(r *Refresher) {
		if now != nil {
			r.now = now
		}
	}
}

// WithSchedule overrides the cron specification for the refresh cycle.
func WithSchedule(spec string) Option {
	return func(r *Refresher) {
		if spec != "" {
			r.schedule = spec
		}
	}
}

// WithBroadcaster attaches a realtime hub notified after each refresh.
func WithBroadcaster(hub Broadcaster) Option {
	return func(r *Refresher) {
		if hub != nil {
			r.hub = hub
		}
	}
}

// NewRefresher constructs a Refresher with sensible defaults.
func NewRefresher(fetcher SnapshotFetcher, st *store.Store, opts ...Option) *Refresher {
	r := &Refresher{
		fetcher:  fetcher,
		store:    st,
		now:      time.Now,
		schedule: defaultSchedule,
		log:      logger.WithModule("maintenance"),
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.cron == nil {
		r.cron = cron.New(cron.WithLogger(cron.DiscardLogger))
	}

	return r
}

// Start registers the refresh job with the cron scheduler and launches it.
func (r *Refresher) Start() error {
	if _, err := r.cron.AddFunc(r.schedule, func() {
		if err := r.RunOnce(context.Background()); err != nil {
			r.log.Warn("scheduled refresh failed", zap.Error(err))
		}
	}); err != nil {
		return err
	}

	r.cron.Start()
	return nil
}

// Stop halts the scheduler, waiting for any running refresh to complete.
func (r *Refresher) Stop() context.Context {
	if r.cron == nil {
		return context.Background()
	}
	return r.cron.Stop()
}

// RunOnce executes a single refresh cycle. Partial upstream failures still
// produce a new state; only a fully unreachable upstream returns an error
// without publishing.
func (r *Refresher) RunOnce(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	started := r.now()
	snap, failed, err := r.fetcher.FetchSnapshot(ctx)

	for _, module := range failed {
		metrics.ModuleFetchFailures.WithLabelValues(string(module)).Inc()
	}

	if snap == nil || len(failed) == len(models.AllModules()) {
		// Upstream fully unreachable. Keep the previous state instead of
		// overwriting it with an all-empty snapshot.
		metrics.SnapshotRefreshes.WithLabelValues("failure").Inc()
		r.log.Error("refresh failed, keeping previous state", zap.Error(err))
		if err == nil {
			err = appErrors.ErrUpstreamUnavailable
		}
		return err
	}

	state := r.store.Set(snap, failed)

	result := "success"
	if len(failed) > 0 {
		result = "partial"
		r.log.Warn("refresh completed with degraded modules",
			zap.String("version", state.Version),
			zap.Int("failed_modules", len(failed)),
			zap.Error(err))
	} else {
		r.log.Info("refresh completed",
			zap.String("version", state.Version),
			zap.Int("notifications", len(state.Notifications)),
			zap.Duration("duration", r.now().Sub(started)))
	}

	metrics.SnapshotRefreshes.WithLabelValues(result).Inc()
	metrics.SnapshotRefreshDuration.Observe(r.now().Sub(started).Seconds())
	publishAlertGauges(state.Notifications)

	if r.hub != nil {
		r.hub.BroadcastState(state)
	}

	return nil
}

func publishAlertGauges(feed []alerts.Notification) {
	counts := alerts.CountByPriority(feed)
	for _, p := range []urgency.Priority{
		urgency.PriorityCritical,
		urgency.PriorityHigh,
		urgency.PriorityMedium,
		urgency.PriorityLow,
	} {
		metrics.ActiveAlerts.WithLabelValues(string(p)).Set(float64(counts[p]))
	}
}
