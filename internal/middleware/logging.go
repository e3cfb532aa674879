package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
)

// RequestLogger returns a middleware that logs every HTTP request.
// It logs the method, path, status, account ID, and duration.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		duration := time.Since(start).Milliseconds()
		status := c.Writer.Status()
		accountID := AccountID(c) // empty if pre-auth

		attrs := []any{
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"account_id", accountID,
			"duration_ms", duration,
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, "error", c.Errors.String())
		}

		switch {
		case status >= 500:
			slog.Error("HTTP error", attrs...)
		case status >= 400:
			slog.Warn("HTTP error", attrs...)
		default:
			slog.Info("HTTP ok", attrs...)
		}
	}
}
