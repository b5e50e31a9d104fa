package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/borderhop/internal/httputil"
	"github.com/persistorai/borderhop/internal/middleware"
)

func TestRequestID_GeneratesServerID(t *testing.T) {
	var fromCtx, fromGin string

	r := gin.New()
	r.Use(middleware.RequestID(logrus.New()))
	r.GET("/test", func(c *gin.Context) {
		fromGin = c.GetString(middleware.RequestIDKey)
		fromCtx = httputil.RequestID(c.Request.Context())
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", http.NoBody)
	req.Header.Set(middleware.RequestIDHeader, "client-chosen")
	r.ServeHTTP(w, req)

	header := w.Header().Get(middleware.RequestIDHeader)
	if _, err := uuid.Parse(header); err != nil {
		t.Fatalf("response header %q is not a UUID", header)
	}
	if header == "client-chosen" {
		t.Error("client request ID must not become canonical")
	}
	if fromGin != header || fromCtx != header {
		t.Errorf("ids differ: header=%q gin=%q ctx=%q", header, fromGin, fromCtx)
	}
}

func TestPrometheusMiddleware_SkipsPaths(t *testing.T) {
	r := gin.New()
	r.Use(middleware.PrometheusMiddleware("/metrics"))
	r.GET("/metrics", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/metrics", "/ok", "/missing"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, http.NoBody))
		if path != "/missing" && w.Code != http.StatusOK {
			t.Errorf("%s: expected 200, got %d", path, w.Code)
		}
	}
}
