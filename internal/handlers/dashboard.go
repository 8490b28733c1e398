package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/verol11/qhse-app/internal/store"
	appErrors "github.com/verol11/qhse-app/pkg/errors"
	"github.com/verol11/qhse-app/pkg/response"
)

// DashboardHandler serves the aggregated dashboard metrics bundle.
type DashboardHandler struct {
	store *store.Store
}

// NewDashboardHandler constructs a dashboard handler.
func NewDashboardHandler(st *store.Store) *DashboardHandler {
	return &DashboardHandler{store: st}
}

// Metrics returns the full metrics bundle derived from the current snapshot.
func (h *DashboardHandler) Metrics(c *gin.Context) {
	state := h.store.Current()
	if state == nil {
		response.Error(c, appErrors.ErrSnapshotNotReady)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, state.Metrics, stateMeta(state, 0))
}
