package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/thebilalkhokhar/Real-Estate-FYP/internal/logger"
)

const (
	HeaderRequestID       = "X-Request-ID"
	ContextKeyRequestID   = "request_id"
	contextKeyRequestLogs = "logger"
)

// RequestLogger tags each request with an id, stores a request-scoped zap
// logger and logs the outcome once the handler chain returns.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := clientRequestID(c.GetHeader(HeaderRequestID))
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Header(HeaderRequestID, requestID)
		c.Set(ContextKeyRequestID, requestID)

		log := zap.L().With(zap.String("request_id", requestID))
		c.Set(contextKeyRequestLogs, log)
		c.Request = c.Request.WithContext(logger.WithContext(c.Request.Context(), log))

		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch status := c.Writer.Status(); {
		case status >= 500:
			log.Error("request completed", fields...)
		case status >= 400:
			log.Warn("request completed", fields...)
		default:
			log.Info("request completed", fields...)
		}
	}
}

// clientRequestID returns the caller's id if it is a canonical UUID, else "".
// Anything else is replaced so it never reaches headers or logs.
func clientRequestID(header string) string {
	if len(header) != 36 {
		return ""
	}
	id, err := uuid.Parse(header)
	if err != nil {
		return ""
	}
	return id.String()
}

// LoggerFromContext returns the request-scoped logger, or the global one.
func LoggerFromContext(c *gin.Context) *zap.Logger {
	if v, ok := c.Get(contextKeyRequestLogs); ok {
		if log, ok := v.(*zap.Logger); ok {
			return log
		}
	}
	return zap.L()
}
