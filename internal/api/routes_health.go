package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/verol11/qhse-app/internal/app"
	"github.com/verol11/qhse-app/internal/handlers"
	"github.com/verol11/qhse-app/internal/monitoring"
)

func registerHealthRoutes(r *gin.Engine, cfg *app.Config, manager *monitoring.HealthManager) {
	if !cfg.Monitoring.Health.Enabled || manager == nil {
		r.GET("/health", disabledHealthHandler)
		r.GET("/health/live", disabledHealthHandler)
		r.GET("/health/ready", disabledHealthHandler)
		return
	}

	h := handlers.NewHealthHandler(manager)

	r.GET("/health", h.Overall)
	r.GET("/health/live", h.Live)
	r.GET("/health/ready", h.Ready)
}

func disabledHealthHandler(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{
		"success": false,
		"status":  "disabled",
	})
}
