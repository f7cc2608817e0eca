package middleware_test

import (
	"bytes"
	"net/http/httptest"
	"testing"

	"github.com/steveiliop56/authlink/internal/middleware"
	"github.com/steveiliop56/authlink/internal/utils/tlog"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

func TestZerologMiddleware(t *testing.T) {
	var buf bytes.Buffer

	previous := tlog.HTTP
	tlog.HTTP = zerolog.New(&buf).Level(zerolog.InfoLevel)
	t.Cleanup(func() { tlog.HTTP = previous })

	gin.SetMode(gin.TestMode)
	router := gin.New()

	m := middleware.NewZerologMiddleware(middleware.ZerologMiddlewareConfig{
		QuietPaths: []string{"GET /metrics"},
	})
	assert.NilError(t, m.Init())
	router.Use(m.Middleware())

	router.GET("/oauth2callback", func(c *gin.Context) { c.String(400, "bad") })
	router.GET("/metrics", func(c *gin.Context) { c.String(200, "") })

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest("GET", "/oauth2callback?state=secret-token&code=abc", nil))

	assert.Assert(t, is.Contains(buf.String(), `"path":"/oauth2callback"`))
	assert.Assert(t, is.Contains(buf.String(), `"status":400`))
	assert.Assert(t, !bytes.Contains(buf.Bytes(), []byte("secret-token")))

	buf.Reset()

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest("GET", "/metrics", nil))

	// Quiet paths only log at debug
	assert.Equal(t, "", buf.String())
}
