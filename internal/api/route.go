package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/borderhop/internal/httputil"
	"github.com/persistorai/borderhop/internal/models"
	"github.com/persistorai/borderhop/internal/ws"
)

// RouteHandler serves route search endpoints.
type RouteHandler struct {
	svc     RouteRepository
	log     *logrus.Logger
	origins []string
}

// NewRouteHandler creates a RouteHandler. origins are WebSocket origin host patterns.
func NewRouteHandler(svc RouteRepository, log *logrus.Logger, origins []string) *RouteHandler {
	return &RouteHandler{svc: svc, log: log, origins: origins}
}

// Find handles GET /api/v1/route?from=&to=. Every search outcome, including
// upstream failures, is a 200 with the result's status set accordingly.
func (h *RouteHandler) Find(c *gin.Context) {
	result, err := h.svc.FindRoute(c.Request.Context(), c.Query("from"), c.Query("to"))
	if err != nil {
		status, code, msg := classifyRouteError(err)
		if status >= http.StatusInternalServerError {
			h.log.WithError(err).Error("route search failed")
		}
		respondError(c, status, code, msg)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Stream handles GET /api/v1/route/stream?from=&to= over a WebSocket:
// progress events while the search runs, then one result (or error) event,
// then a normal closure.
func (h *RouteHandler) Stream(c *gin.Context) {
	conn, ok := acceptWebSocket(c, h.log, h.origins)
	if !ok {
		return
	}

	// CloseRead handles control frames and cancels ctx if the peer goes away.
	ctx, cancel := context.WithCancel(conn.CloseRead(c.Request.Context()))
	defer cancel()

	stream := ws.NewStream(conn)
	log := h.log.WithField("request_id", httputil.RequestID(c.Request.Context()))

	result, err := h.svc.StreamRoute(ctx, c.Query("from"), c.Query("to"), func(p models.RouteProgress) {
		if sendErr := stream.Send(ctx, ws.EventProgress, p); sendErr != nil {
			log.WithError(sendErr).Debug("route stream: client gone, cancelling search")
			cancel()
		}
	})

	if err != nil {
		_, code, msg := classifyRouteError(err)
		body := httputil.ErrorBody{Code: code, Message: msg, RequestID: httputil.RequestID(c.Request.Context())}
		if sendErr := stream.Send(ctx, ws.EventError, body); sendErr != nil {
			log.WithError(sendErr).Debug("route stream: error event not delivered")
		}
		_ = stream.Close(code)
		return
	}

	if sendErr := stream.Send(ctx, ws.EventResult, result); sendErr != nil {
		log.WithError(sendErr).Debug("route stream: result not delivered")
	}
	_ = stream.Close(string(result.Status))
}
