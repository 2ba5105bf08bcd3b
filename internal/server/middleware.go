package server

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"DevBlogProxy/internal/infrastructure/metrics"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
)

// requestID honors an inbound X-Request-ID or generates one, and echoes it back.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// accessLog writes one INFO line per request and feeds the HTTP metrics.
func accessLog(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.RecordHTTP(route, strconv.Itoa(status), latency.Seconds())

		if logger != nil {
			logger.Info("request",
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"status", status,
				"latency", latency,
				"request_id", c.GetString(requestIDKey),
			)
		}
	}
}

// recovery turns a panic into the generic JSON error body.
func recovery(logger *slog.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered any) {
		if logger != nil {
			logger.Error("handler panicked",
				"path", c.Request.URL.Path,
				"panic", recovered,
				"request_id", c.GetString(requestIDKey),
			)
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": internalErrorMessage})
	})
}
