package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Pratham-05/FarmNav-Website-Backend/pkg/ctxmanage"
	"github.com/Pratham-05/FarmNav-Website-Backend/pkg/logkey"
)

// Logger tags every request with a trace id and logs method, path, status and
// latency once the handler chain finishes.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceId := ctxmanage.SetTraceIdOfRequest(c)
		start := time.Now()

		c.Next()

		slog.Info("request completed",
			slog.String(logkey.TraceID, traceId),
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("latency", time.Since(start)),
		)
	}
}
