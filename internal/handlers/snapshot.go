package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/verol11/qhse-app/internal/store"
	appErrors "github.com/verol11/qhse-app/pkg/errors"
	"github.com/verol11/qhse-app/pkg/logger"
	"github.com/verol11/qhse-app/pkg/response"
)

// Refresher triggers an immediate snapshot refresh cycle.
type Refresher interface {
	RunOnce(ctx context.Context) error
}

// SnapshotHandler reports snapshot status and triggers manual refreshes.
type SnapshotHandler struct {
	store     *store.Store
	refresher Refresher
	log       *zap.Logger
}

// NewSnapshotHandler constructs a snapshot handler.
func NewSnapshotHandler(st *store.Store, refresher Refresher) *SnapshotHandler {
	return &SnapshotHandler{
		store:     st,
		refresher: refresher,
		log:       logger.WithModule("handlers"),
	}
}

// Status describes the current snapshot generation.
func (h *SnapshotHandler) Status(c *gin.Context) {
	state := h.store.Current()
	if state == nil {
		response.Error(c, appErrors.ErrSnapshotNotReady)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, gin.H{
		"version":       state.Version,
		"refreshedAt":   state.RefreshedAt,
		"totalRecords":  state.Snapshot.Total(),
		"counts":        state.Snapshot.Counts(),
		"failedModules": state.FailedModules,
	}, stateMeta(state, 0))
}

// Refresh runs a refresh cycle synchronously and returns the new state.
func (h *SnapshotHandler) Refresh(c *gin.Context) {
	if err := h.refresher.RunOnce(c.Request.Context()); err != nil {
		h.log.Warn("manual refresh failed", zap.Error(err))
		response.Error(c, appErrors.ErrUpstreamUnavailable.WithInternal(err))
		return
	}

	state := h.store.Current()
	if state == nil {
		response.Error(c, appErrors.ErrSnapshotNotReady)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, gin.H{
		"version":       state.Version,
		"refreshedAt":   state.RefreshedAt,
		"failedModules": state.FailedModules,
	}, stateMeta(state, 0))
}
