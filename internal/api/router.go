// Package api assembles the Gin engine: middleware, health probes, and the
// dashboard routes.
package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/verol11/qhse-app/internal/app"
	"github.com/verol11/qhse-app/internal/handlers"
	"github.com/verol11/qhse-app/internal/middleware"
	"github.com/verol11/qhse-app/internal/monitoring"
	"github.com/verol11/qhse-app/internal/realtime"
	"github.com/verol11/qhse-app/internal/store"
	appErrors "github.com/verol11/qhse-app/pkg/errors"
	"github.com/verol11/qhse-app/pkg/response"
)

// Deps carries the services the router wires into handlers.
type Deps struct {
	Config    *app.Config
	Store     *store.Store
	Refresher handlers.Refresher
	Health    *monitoring.HealthManager
	Hub       *realtime.Hub
}

// NewRouter builds the Gin engine, wires middleware and registers all routes.
func NewRouter(deps Deps) (*gin.Engine, error) {
	if deps.Config == nil {
		return nil, fmt.Errorf("config must be provided")
	}
	if deps.Store == nil {
		return nil, fmt.Errorf("store must be provided")
	}
	if deps.Refresher == nil {
		return nil, fmt.Errorf("refresher must be provided")
	}

	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(deps.Config.Server.AllowedOrigins))
	// Basic rate limiting: 100 requests/minute per IP+path
	r.Use(middleware.RateLimit(100, time.Minute))

	registerHealthRoutes(r, deps.Config, deps.Health)

	if deps.Config.Monitoring.Prometheus.Enabled {
		endpoint := deps.Config.Monitoring.Prometheus.Endpoint
		if endpoint == "" {
			endpoint = "/metrics"
		}
		r.GET(endpoint, gin.WrapH(promhttp.Handler()))
	}

	notifications := handlers.NewNotificationHandler(deps.Store)
	dashboard := handlers.NewDashboardHandler(deps.Store)
	snapshot := handlers.NewSnapshotHandler(deps.Store, deps.Refresher)

	api := r.Group("/api")
	{
		api.GET("/notifications", notifications.List)
		api.GET("/notifications/summary", notifications.Summary)
		api.GET("/dashboard/metrics", dashboard.Metrics)
		api.GET("/snapshot", snapshot.Status)
		api.POST("/refresh", snapshot.Refresh)
	}

	if deps.Config.Realtime.Enabled && deps.Hub != nil {
		rt := handlers.NewRealtimeHandler(deps.Hub)
		api.GET("/ws", rt.Stream)
	}

	r.NoRoute(func(c *gin.Context) {
		response.Error(c, appErrors.ErrNotFound.WithInternal(
			fmt.Errorf("route %s not found", c.Request.URL.Path)))
	})
	r.NoMethod(func(c *gin.Context) {
		response.Error(c, appErrors.New("METHOD_NOT_ALLOWED", "Method not allowed", http.StatusMethodNotAllowed))
	})

	return r, nil
}
