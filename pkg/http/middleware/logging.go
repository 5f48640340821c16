package middleware

import (
	"time"

	applogger "SentiPull/pkg/logger"

	"github.com/labstack/echo/v4"
)

// RequestLogging logs every request at debug level and 5xx responses at error level.
func RequestLogging(l *applogger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			status := c.Response().Status
			fields := []applogger.Field{
				applogger.String("method", req.Method),
				applogger.String("uri", req.RequestURI),
				applogger.String("remote", c.RealIP()),
				applogger.Int("status", status),
				applogger.Duration("latency_ms", time.Since(start)),
			}
			if status >= 500 {
				l.Error("http request failed", append(fields, applogger.Error(err))...)
			} else {
				l.Debug("http request", fields...)
			}
			return nil
		}
	}
}
