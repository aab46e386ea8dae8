package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"casefile-backend/internal/shared/telemetry"
)

// Logging emits a structured log per request. Handlers can enrich the
// line by setting documentId or analysisQuality on the gin context.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.EqualFold(c.Request.Method, "OPTIONS") {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		userID, _ := c.Get(userIDKey)
		isGuest, _ := c.Get("isGuest")
		documentID, _ := c.Get("documentId")
		quality, _ := c.Get("analysisQuality")

		telemetry.Info("request.complete", map[string]any{
			"request_id":       RequestIDFromContext(c),
			"method":           c.Request.Method,
			"path":             c.Request.URL.Path,
			"status":           c.Writer.Status(),
			"duration_ms":      float64(latency.Microseconds()) / 1000.0,
			"user_id":          userID,
			"is_guest":         isGuest,
			"document_id":      documentID,
			"analysis_quality": quality,
			"client_ip":        c.ClientIP(),
			"user_agent":       c.Request.UserAgent(),
		})
	}
}
