package middleware

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// StructuredLogging provides structured logging middleware
func StructuredLogging(logger *zap.Logger) gin.HandlerFunc {
	return gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		requestID := ""
		if param.Keys != nil {
			if id, exists := param.Keys[RequestIDKey]; exists {
				requestID, _ = id.(string)
			}
		}

		// Skip logging for health check and scrape endpoints
		if param.Path == "/health" || param.Path == "/metrics" {
			return ""
		}

		level := zapcore.InfoLevel
		switch {
		case param.StatusCode >= 500:
			level = zapcore.ErrorLevel
		case param.StatusCode >= 400:
			level = zapcore.WarnLevel
		}

		logger.Log(level, "HTTP Request",
			zap.String("request_id", requestID),
			zap.String("method", param.Method),
			zap.String("path", param.Path),
			zap.Int("status", param.StatusCode),
			zap.Int64("latency_ms", param.Latency.Milliseconds()),
			zap.String("client_ip", param.ClientIP),
			zap.String("user_agent", param.Request.UserAgent()),
			zap.String("error", param.ErrorMessage),
		)

		return ""
	})
}
