package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/verol11/qhse-app/internal/api"
	"github.com/verol11/qhse-app/internal/app"
	"github.com/verol11/qhse-app/internal/app/maintenance"
	"github.com/verol11/qhse-app/internal/monitoring"
	"github.com/verol11/qhse-app/internal/realtime"
	"github.com/verol11/qhse-app/internal/store"
	"github.com/verol11/qhse-app/internal/upstream"
)

// snapshotMaxAge is the staleness threshold the readiness probe tolerates
// before reporting the snapshot as degraded.
const snapshotMaxAge = 30 * time.Minute

// runtimeStack bundles long-lived services used by the HTTP server.
type runtimeStack struct {
	Client    *upstream.Client
	Store     *store.Store
	Hub       *realtime.Hub
	Refresher *maintenance.Refresher
	Health    *monitoring.HealthManager
	Router    *gin.Engine
}

// bootstrapRuntime initialises the upstream client, snapshot store, refresh
// scheduler, health probes, and the HTTP router.
func bootstrapRuntime(ctx context.Context, cfg *app.Config, log *zap.Logger) (*runtimeStack, error) {
	if debug, _ := os.LookupEnv("GIN_DEBUG"); debug != "true" {
		gin.SetMode(gin.ReleaseMode)
	}

	stack := &runtimeStack{}
	var err error

	stack.Client, err = upstream.NewClient(upstream.Config{
		BaseURL: cfg.Upstream.BaseURL,
		Timeout: cfg.Upstream.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("initialise upstream client: %w", err)
	}

	stack.Store = store.New()

	if cfg.Realtime.Enabled {
		stack.Hub = realtime.NewHub()
	}

	opts := []maintenance.Option{
		maintenance.WithSchedule(cfg.Refresh.Schedule),
	}
	if stack.Hub != nil {
		opts = append(opts, maintenance.WithBroadcaster(stack.Hub))
	}
	stack.Refresher = maintenance.NewRefresher(stack.Client, stack.Store, opts...)

	stack.Health = monitoring.NewHealthManager()
	stack.Health.RegisterLiveness(monitoring.ServerCheck())
	stack.Health.RegisterReadiness(monitoring.UpstreamCheck(stack.Client))
	stack.Health.RegisterReadiness(monitoring.SnapshotCheck(stack.Store, snapshotMaxAge, nil))

	stack.Router, err = api.NewRouter(api.Deps{
		Config:    cfg,
		Store:     stack.Store,
		Refresher: stack.Refresher,
		Health:    stack.Health,
		Hub:       stack.Hub,
	})
	if err != nil {
		return nil, fmt.Errorf("build api router: %w", err)
	}

	if cfg.Refresh.OnStart {
		if err := stack.Refresher.RunOnce(ctx); err != nil {
			// The scheduler retries; starting without data only delays
			// readiness.
			log.Warn("initial refresh failed", zap.Error(err))
		}
	}

	if err := stack.Refresher.Start(); err != nil {
		return nil, fmt.Errorf("start refresh scheduler: %w", err)
	}

	return stack, nil
}

// Shutdown stops the refresh scheduler, waiting for a running cycle to finish.
func (s *runtimeStack) Shutdown(ctx context.Context, log *zap.Logger) {
	if s == nil || s.Refresher == nil {
		return
	}

	select {
	case <-s.Refresher.Stop().Done():
	case <-ctx.Done():
		log.Warn("refresh scheduler did not stop before deadline")
	}
}
