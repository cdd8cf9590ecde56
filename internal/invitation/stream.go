package invitation

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"

	"invitation-canvas-editor/internal/logger"
	"invitation-canvas-editor/internal/scene"
	"invitation-canvas-editor/internal/trigger"
)

// StreamTriggers sends each new trigger of a document as a server-sent event.
// Storage is polled on an interval and additionally whenever the redis
// channel announces a write; the tracker keeps playback at most once.
// ?replay=true also delivers the trigger present when the stream opens.
func (h *Handler) StreamTriggers(c *gin.Context) {
	col, ok := collectionParam(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	rec, err := h.service.Get(ctx, col, c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	id := rec.ID

	w := trigger.NewWatcher(trigger.FetcherFunc(func(ctx context.Context) (*scene.Trigger, error) {
		return h.service.CurrentTrigger(ctx, col, id)
	}), h.pollInterval)
	w.ReplayExisting, _ = strconv.ParseBool(c.Query("replay"))

	wake := make(chan struct{}, 1)
	messages, err := h.service.SubscribeTriggers(ctx, id)
	if err != nil {
		logger.Warnf("[TRIGGER] subscribe %s: %v, polling only", id, err)
	}
	if messages != nil {
		go func() {
			defer close(wake)
			for range messages {
				select {
				case wake <- struct{}{}:
				default:
				}
			}
		}()
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Status(200)
	c.Writer.Flush()

	w.Run(ctx, wake, func(t scene.Trigger) {
		c.SSEvent("trigger", t)
		c.Writer.Flush()
	})
}
