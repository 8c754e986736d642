package middleware

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"file-storage-api/internal/infrastructure/metrics"
)

const maxLogBodySize = 1 << 12 // 4 KB

// RequestLogGin logs one line per request after the handler has run. Upload
// bodies are never read here; the file part is the handler's to consume.
func RequestLogGin(logger *zap.Logger, mCounter *prometheus.CounterVec) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions ||
			c.Request.URL.Path == "/favicon.ico" ||
			strings.HasSuffix(c.Request.URL.Path, "/metrics") {
			c.Next()
			return
		}

		start := time.Now()
		method := c.Request.Method
		url := c.Request.URL.String()

		logger.Info("request started",
			zap.String("method", method),
			zap.String("url", url),
			zap.String("client_ip", c.ClientIP()),
			zap.String("user_agent", c.Request.UserAgent()),
		)

		var body string
		if c.Request.Body != nil && method != http.MethodGet && method != http.MethodHead {
			ct := c.GetHeader("Content-Type")
			if strings.HasPrefix(ct, "multipart/form-data") {
				body = "<multipart/form-data omitted>"
			} else if c.Request.ContentLength > 0 && c.Request.ContentLength <= maxLogBodySize {
				var buf bytes.Buffer
				_, _ = io.Copy(&buf, io.LimitReader(c.Request.Body, maxLogBodySize))
				_ = c.Request.Body.Close()
				c.Request.Body = io.NopCloser(bytes.NewReader(buf.Bytes()))
				body = buf.String()
			}
		}

		c.Next()

		if mCounter != nil {
			mCounter.WithLabelValues(metrics.AppRequests).Inc()
		}

		fields := []zap.Field{
			zap.String("method", method),
			zap.String("url", url),
			zap.String("route", c.FullPath()),
			zap.Int("status_code", c.Writer.Status()),
			zap.Duration("process_time", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if body != "" {
			fields = append(fields, zap.String("body", body))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		if c.Writer.Status() >= http.StatusInternalServerError {
			logger.Error("request completed", fields...)
			return
		}
		logger.Info("request completed", fields...)
	}
}
