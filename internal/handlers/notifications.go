package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/verol11/qhse-app/internal/alerts"
	"github.com/verol11/qhse-app/internal/models"
	"github.com/verol11/qhse-app/internal/store"
	"github.com/verol11/qhse-app/internal/urgency"
	appErrors "github.com/verol11/qhse-app/pkg/errors"
	"github.com/verol11/qhse-app/pkg/response"
)

// NotificationHandler serves the derived alert feed.
type NotificationHandler struct {
	store *store.Store
}

// NewNotificationHandler constructs a notification handler.
func NewNotificationHandler(st *store.Store) *NotificationHandler {
	return &NotificationHandler{store: st}
}

// List returns the current alert feed, optionally filtered by priority,
// source type, or module.
func (h *NotificationHandler) List(c *gin.Context) {
	state := h.store.Current()
	if state == nil {
		response.Error(c, appErrors.ErrSnapshotNotReady)
		return
	}

	feed := state.Notifications

	if raw := strings.TrimSpace(c.Query("priority")); raw != "" {
		priority := urgency.Priority(strings.ToLower(raw))
		if !priority.Valid() {
			response.Error(c, appErrors.New("INVALID_PRIORITY", "Unknown priority "+strconv.Quote(raw), http.StatusBadRequest))
			return
		}
		feed = filterNotifications(feed, func(n alerts.Notification) bool {
			return n.Priority == priority
		})
	}

	if raw := strings.TrimSpace(c.Query("type")); raw != "" {
		source := alerts.Source(strings.ToLower(raw))
		feed = filterNotifications(feed, func(n alerts.Notification) bool {
			return n.Source == source
		})
	}

	if raw := strings.TrimSpace(c.Query("module")); raw != "" {
		module := models.Module(strings.ToLower(raw))
		feed = filterNotifications(feed, func(n alerts.Notification) bool {
			return n.Module == module
		})
	}

	if limit := parseIntQuery(c, "limit", 0); limit > 0 && limit < len(feed) {
		feed = feed[:limit]
	}

	response.SuccessWithMeta(c, http.StatusOK, feed, stateMeta(state, len(feed)))
}

// Summary returns alert counts per priority tier.
func (h *NotificationHandler) Summary(c *gin.Context) {
	state := h.store.Current()
	if state == nil {
		response.Error(c, appErrors.ErrSnapshotNotReady)
		return
	}

	counts := alerts.CountByPriority(state.Notifications)
	summary := gin.H{
		"total":    len(state.Notifications),
		"critical": counts[urgency.PriorityCritical],
		"high":     counts[urgency.PriorityHigh],
		"medium":   counts[urgency.PriorityMedium],
		"low":      counts[urgency.PriorityLow],
	}

	response.SuccessWithMeta(c, http.StatusOK, summary, stateMeta(state, len(state.Notifications)))
}

func filterNotifications(feed []alerts.Notification, keep func(alerts.Notification) bool) []alerts.Notification {
	filtered := make([]alerts.Notification, 0, len(feed))
	for _, n := range feed {
		if keep(n) {
			filtered = append(filtered, n)
		}
	}
	return filtered
}

func stateMeta(state *store.State, count int) *response.Meta {
	refreshed := state.RefreshedAt
	return &response.Meta{
		SnapshotVersion: state.Version,
		RefreshedAt:     &refreshed,
		Count:           count,
	}
}

func parseIntQuery(c *gin.Context, name string, fallback int) int {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return fallback
	}
	return value
}
