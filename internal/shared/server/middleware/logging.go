package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"readiness-backend/internal/shared/telemetry"
)

// Context keys handlers may set to enrich the request log line.
const (
	AssessmentIDKey = "assessmentId"
	ReportIDKey     = "reportId"
)

// Logging emits a structured log per request.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.EqualFold(c.Request.Method, "OPTIONS") {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		assessmentID, _ := c.Get(AssessmentIDKey)
		reportID, _ := c.Get(ReportIDKey)

		telemetry.Info("request.complete", map[string]any{
			"request_id":    RequestIDFromContext(c),
			"method":        c.Request.Method,
			"path":          c.Request.URL.Path,
			"route":         c.FullPath(),
			"status":        c.Writer.Status(),
			"duration_ms":   float64(latency.Microseconds()) / 1000.0,
			"assessment_id": assessmentID,
			"report_id":     reportID,
			"client_ip":     c.ClientIP(),
			"user_agent":    c.Request.UserAgent(),
		})
	}
}
