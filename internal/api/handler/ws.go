package handler

import (
	"net/http"

	"civicfix/backend/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Allows connections from any origin. Lock down in production.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeAuditFeed upgrades the connection and streams live audit entries to
// staff dashboards. Entries arrive over the Redis pub/sub channel that every
// transition publishes to, so the feed works across multiple instances.
func (h *Handler) ServeAuditFeed(c *gin.Context) {
	svc, ok := h.Storage.(*storage.Service)
	if !ok || svc.Redis == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "live feed not available"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to upgrade connection"})
		return
	}

	pubsub := svc.SubscribeAuditEvents()

	// Reader goroutine: its only job is to notice the client going away.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	go func() {
		defer pubsub.Close()
		defer conn.Close()

		ch := pubsub.Channel()
		for {
			select {
			case msg, open := <-ch:
				if !open {
					return
				}
				if err := conn.WriteMessage(websocket.TextMessage, []byte(msg.Payload)); err != nil {
					log.WithError(err).Debug("audit feed client write failed")
					return
				}
			case <-done:
				return
			}
		}
	}()
}
