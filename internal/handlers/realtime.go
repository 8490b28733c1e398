package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/verol11/qhse-app/internal/realtime"
)

// RealtimeHandler upgrades dashboard clients onto the websocket feed.
type RealtimeHandler struct {
	hub *realtime.Hub
}

// NewRealtimeHandler constructs a realtime handler.
func NewRealtimeHandler(hub *realtime.Hub) *RealtimeHandler {
	return &RealtimeHandler{hub: hub}
}

// Stream subscribes the client to the streams named in the query parameter,
// or to all streams when none are given.
func (h *RealtimeHandler) Stream(c *gin.Context) {
	var streams []string
	if raw := strings.TrimSpace(c.Query("streams")); raw != "" {
		streams = strings.Split(raw, ",")
	}

	h.hub.Serve(streams, c.Writer, c.Request)
}
