package middleware

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const requestIDHeader = "X-Request-ID"

// RequestLog returns Echo middleware that emits one structured log line
// per request. Incoming request IDs are trusted; a missing ID gets a
// generated UUID. The ID is exposed on the echo context as "request_id"
// and echoed back in the response header.
func RequestLog(log *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			reqID := requestID(c)

			c.Set("request_id", reqID)
			c.Response().Header().Set(requestIDHeader, reqID)

			err := next(c)

			req := c.Request()
			log.Info("request",
				"method", req.Method,
				"path", req.URL.Path,
				"status", c.Response().Status,
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", reqID,
				"remote_ip", c.RealIP(),
			)

			return err
		}
	}
}

func requestID(c echo.Context) string {
	if id := c.Request().Header.Get(requestIDHeader); id != "" {
		return id
	}
	return uuid.NewString()
}
