package sse

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jonesrussell/north-cloud/job-crawler/internal/logger"
)

// Handler streams broker events to one client until it disconnects or the
// broker closes the subscription.
func Handler(b Broker, log logger.Logger) gin.HandlerFunc {
	heartbeat := DefaultHeartbeatInterval
	if br, ok := b.(*broker); ok {
		heartbeat = br.heartbeatInterval
	}

	return func(c *gin.Context) {
		events, cleanup, err := b.Subscribe(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}
		defer cleanup()

		setHeaders(c.Writer)
		c.Status(http.StatusOK)

		if err := writeEvent(c.Writer, Event{
			Type: eventTypeConnected,
			Data: gin.H{"timestamp": time.Now().UTC().Format(time.RFC3339)},
		}); err != nil {
			log.Debug("Failed to write connection event", logger.Error(err))
			return
		}

		ticker := time.NewTicker(heartbeat)
		defer ticker.Stop()

		for {
			select {
			case event, ok := <-events:
				if !ok {
					return
				}
				if err := writeEvent(c.Writer, event); err != nil {
					log.Debug("SSE write failed", logger.Error(err), logger.String("event_type", event.Type))
					return
				}
			case <-ticker.C:
				if _, err := fmt.Fprintf(c.Writer, ": heartbeat %d\n\n", time.Now().Unix()); err != nil {
					return
				}
				c.Writer.Flush()
			case <-c.Request.Context().Done():
				return
			}
		}
	}
}

func setHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
}

type flushWriter interface {
	io.Writer
	Flush()
}

// writeEvent writes one event frame and flushes it.
func writeEvent(w flushWriter, event Event) error {
	data, err := json.Marshal(event.Data)
	if err != nil {
		return fmt.Errorf("marshal event data: %w", err)
	}

	if event.Type != "" {
		if _, err = fmt.Fprintf(w, "event: %s\n", event.Type); err != nil {
			return fmt.Errorf("write event type: %w", err)
		}
	}
	if event.ID != "" {
		if _, err = fmt.Fprintf(w, "id: %s\n", event.ID); err != nil {
			return fmt.Errorf("write event id: %w", err)
		}
	}
	if _, err = fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
		return fmt.Errorf("write event data: %w", err)
	}

	w.Flush()
	return nil
}
