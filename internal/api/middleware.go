package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hargabyte/chaos-web/internal/observability"
	"github.com/hargabyte/chaos-web/internal/view"
	"go.uber.org/zap"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
)

// RequestID reuses the caller's X-Request-ID or generates one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// Logger logs one line per request once it has been served.
func Logger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Info("HTTP Request",
			zap.String("method", c.Request.Method),
			zap.String("route", routeOf(c)),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Int("bytes", c.Writer.Size()),
			zap.Duration("duration", time.Since(start)),
			zap.String("requestID", c.GetString(requestIDKey)),
			zap.String("remoteAddr", c.ClientIP()),
		)
	}
}

// Metrics records request counts and latency per route template.
func Metrics(m *observability.Collector) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		m.ObserveHTTP(c.Request.Method, routeOf(c), c.Writer.Status(), time.Since(start))
	}
}

// Recovery turns a panic into a logged 500.
func Recovery(log *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, err any) {
		log.Error("panic serving request",
			zap.Any("error", err),
			zap.String("path", c.Request.URL.Path),
			zap.String("requestID", c.GetString(requestIDKey)),
		)
		c.AbortWithStatus(http.StatusInternalServerError)
	})
}

// RequireSession sends callers that carry no cookies at all to the login
// page. Member pages open views, and a caller with no session has nothing to
// own them.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if len(c.Request.Cookies()) == 0 {
			c.Redirect(http.StatusSeeOther, view.LoginPath)
			c.Abort()
			return
		}
		c.Next()
	}
}

// routeOf keeps metric labels bounded: unmatched paths share one label.
func routeOf(c *gin.Context) string {
	if r := c.FullPath(); r != "" {
		return r
	}
	return "unmatched"
}
