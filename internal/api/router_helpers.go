package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/coder/websocket"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/borderhop/internal/middleware"
	"github.com/persistorai/borderhop/internal/ws"
)

// originHosts turns CORS origins into WebSocket origin host patterns.
func originHosts(origins []string) []string {
	hosts := make([]string, 0, len(origins))
	for _, o := range origins {
		u, err := url.Parse(o)
		if err != nil || u.Host == "" {
			continue
		}
		hosts = append(hosts, u.Host)
	}
	return hosts
}

// rawWriter returns the net/http writer under gin's. websocket.Accept flushes
// the 101 header through gin's WriteHeaderNow before hijacking, and gin then
// refuses the hijack because the response counts as written.
func rawWriter(c *gin.Context) http.ResponseWriter {
	if u, ok := c.Writer.(interface{ Unwrap() http.ResponseWriter }); ok {
		return u.Unwrap()
	}
	return c.Writer
}

func acceptWebSocket(c *gin.Context, log *logrus.Logger, origins []string) (*websocket.Conn, bool) {
	conn, err := websocket.Accept(rawWriter(c), c.Request, &websocket.AcceptOptions{
		OriginPatterns:       origins,
		CompressionMode:      websocket.CompressionContextTakeover,
		CompressionThreshold: 128,
	})
	if err != nil {
		log.WithError(err).Warn("websocket accept failed")
		return nil, false
	}
	c.Status(http.StatusSwitchingProtocols) // for the request log and metrics
	return conn, true
}

// feedHandler streams every finished search to the connected client.
func feedHandler(appCtx context.Context, log *logrus.Logger, hub *ws.Hub, origins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, ok := acceptWebSocket(c, log, origins)
		if !ok {
			return
		}

		client := ws.NewClient(hub, conn)
		hub.Register(client)

		// Derive a context that cancels when either the server shuts down or the request ends.
		wsCtx, wsCancel := context.WithCancel(appCtx)
		go func() {
			select {
			case <-c.Request.Context().Done():
				wsCancel()
			case <-wsCtx.Done():
			}
		}()

		go client.WritePump(wsCtx)
		client.ReadPump(wsCtx)
		wsCancel()
	}
}

func ginLogger(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		fields := logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
			"client":   c.ClientIP(),
		}
		if rid, exists := c.Get(middleware.RequestIDKey); exists {
			fields["request_id"] = rid
		}
		log.WithFields(fields).Info("request")
	}
}

// maxListLimit caps the maximum number of items per list request.
const maxListLimit = 1000

func parseInt(s string, fallback int) int {
	v, err := strconv.Atoi(s)
	if err != nil || v <= 0 {
		return fallback
	}

	if v > maxListLimit {
		return maxListLimit
	}

	return v
}
