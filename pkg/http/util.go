package http

import (
	"strings"

	xutil "SentiPull/pkg/util"

	"github.com/labstack/echo/v4"
)

// ParseIntDefault parses string to int or returns default if empty/invalid.
func ParseIntDefault(s string, def int) int { return xutil.ParseIntDefault(s, def) }

// ClientKey identifies the caller for per-client limits: the first
// X-Forwarded-For hop when present, else echo's RealIP.
func ClientKey(c echo.Context) string {
	if xff := c.Request().Header.Get(echo.HeaderXForwardedFor); xff != "" {
		return strings.TrimSpace(strings.Split(xff, ",")[0])
	}
	return c.RealIP()
}
