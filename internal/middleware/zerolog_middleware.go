package middleware

import (
	"strings"
	"time"

	"github.com/steveiliop56/authlink/internal/utils/tlog"

	"github.com/gin-gonic/gin"
)

type ZerologMiddlewareConfig struct {
	// Requests matching these "METHOD /path" prefixes are logged at debug level
	QuietPaths []string
}

type ZerologMiddleware struct {
	config ZerologMiddlewareConfig
}

func NewZerologMiddleware(config ZerologMiddlewareConfig) *ZerologMiddleware {
	return &ZerologMiddleware{
		config: config,
	}
}

func (m *ZerologMiddleware) Init() error {
	if m.config.QuietPaths == nil {
		m.config.QuietPaths = []string{
			"GET /health",
			"HEAD /health",
			"GET /favicon.ico",
		}
	}
	return nil
}

func (m *ZerologMiddleware) logPath(path string) bool {
	for _, prefix := range m.config.QuietPaths {
		if strings.HasPrefix(path, prefix) {
			return false
		}
	}
	return true
}

func (m *ZerologMiddleware) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tStart := time.Now()

		c.Next()

		code := c.Writer.Status()
		address := c.Request.RemoteAddr
		clientIP := c.ClientIP()
		method := c.Request.Method
		// The query carries state tokens and codes, only the path is logged
		path := c.Request.URL.Path

		latency := time.Since(tStart).String()

		if m.logPath(method + " " + path) {
			switch {
			case code >= 200 && code < 300:
				tlog.HTTP.Info().Str("method", method).Str("path", path).Str("address", address).Str("clientIp", clientIP).Int("status", code).Str("latency", latency).Msg("Request")
			case code >= 300 && code < 400:
				tlog.HTTP.Warn().Str("method", method).Str("path", path).Str("address", address).Str("clientIp", clientIP).Int("status", code).Str("latency", latency).Msg("Request")
			case code >= 400:
				tlog.HTTP.Error().Str("method", method).Str("path", path).Str("address", address).Str("clientIp", clientIP).Int("status", code).Str("latency", latency).Msg("Request")
			}
		} else {
			tlog.HTTP.Debug().Str("method", method).Str("path", path).Str("address", address).Int("status", code).Str("latency", latency).Msg("Request")
		}
	}
}
