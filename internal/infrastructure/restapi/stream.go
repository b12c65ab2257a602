package restapi

import (
	"io"
	"time"

	"github.com/gin-gonic/gin"
)

const streamKeepAlive = 25 * time.Second

// StreamEvents serves the view events as server-sent events. The first event
// is a full "state" snapshot; every later event is named after its view type.
func (h *Handler) StreamEvents(c *gin.Context) {
	id, events, cancel := h.Stream.Subscribe()
	defer cancel()

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.SSEvent("state", h.App.Snapshot())
	c.Writer.Flush()

	keepAlive := time.NewTicker(streamKeepAlive)
	defer keepAlive.Stop()

	h.Logger.Debug("View stream opened", "subscriber", id, "client", c.ClientIP())
	c.Stream(func(io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case ev, ok := <-events:
			if !ok {
				return false
			}
			c.SSEvent(string(ev.Type), ev.Payload)
			return true
		case <-keepAlive.C:
			c.SSEvent("ping", "")
			return true
		}
	})
}
