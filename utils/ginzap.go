package utils

import (
	"errors"
	"net"
	"net/http"
	"net/http/httputil"
	"os"
	"runtime/debug"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Gin context keys shared with middleware.
const (
	ContextRequestIDKey = "request_id"
	ContextUserIDKey    = "user_id"
)

// Ginzap returns a gin middleware writing one access log line per request.
func Ginzap(logger *zap.Logger, timeFormat string, utc bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery
		c.Next()

		end := time.Now()
		if utc {
			end = end.UTC()
		}

		fields := []zap.Field{
			zap.Int("status", c.Writer.Status()),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.String("ip", c.ClientIP()),
			zap.String("user-agent", c.Request.UserAgent()),
			zap.String("time", end.Format(timeFormat)),
			zap.Duration("latency", end.Sub(start)),
		}
		if id := c.GetString(ContextRequestIDKey); id != "" {
			fields = append(fields, zap.String("request_id", id))
		}
		if uid, ok := c.Get(ContextUserIDKey); ok {
			fields = append(fields, zap.Any("user_id", uid))
		}

		if len(c.Errors) > 0 {
			for _, e := range c.Errors.Errors() {
				logger.Error(e, fields...)
			}
			return
		}
		logger.Info(path, fields...)
	}
}

// RecoveryWithZap recovers panics, logs them and answers 500 unless the client went away.
func RecoveryWithZap(logger *zap.Logger, stack bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}

			brokenPipe := false
			if ne, ok := rec.(*net.OpError); ok {
				var se *os.SyscallError
				if errors.As(ne, &se) {
					msg := strings.ToLower(se.Error())
					brokenPipe = strings.Contains(msg, "broken pipe") || strings.Contains(msg, "connection reset by peer")
				}
			}

			httpRequest, _ := httputil.DumpRequest(c.Request, false)
			fields := []zap.Field{
				zap.Any("error", rec),
				zap.String("request", redactAuthorization(string(httpRequest))),
			}
			if stack {
				fields = append(fields, zap.String("stack", string(debug.Stack())))
			}

			if brokenPipe {
				logger.Error(c.Request.URL.Path, fields...)
				c.Abort()
				return
			}
			logger.Error("[Recovery from panic]", fields...)
			Error(c, http.StatusInternalServerError, 50000, "서버 오류가 발생했습니다.")
			c.Abort()
		}()
		c.Next()
	}
}

func redactAuthorization(dump string) string {
	lines := strings.Split(dump, "\r\n")
	for i, line := range lines {
		if strings.HasPrefix(strings.ToLower(line), "authorization:") {
			lines[i] = "Authorization: [redacted]"
		}
	}
	return strings.Join(lines, "\r\n")
}
