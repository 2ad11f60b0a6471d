package middleware

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestQuizSessionIssuesCookie(t *testing.T) {
	r := gin.New()
	r.Use(QuizSession(3600, true))
	var seen string
	r.GET("/", func(c *gin.Context) { seen = GetSessionID(c) })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, SessionCookieName, cookies[0].Name)
	assert.Equal(t, seen, cookies[0].Value)
	assert.True(t, cookies[0].Secure)
	assert.True(t, cookies[0].HttpOnly)
	assert.NoError(t, uuid.Validate(seen))
}

func TestQuizSessionKeepsValidCookie(t *testing.T) {
	r := gin.New()
	r.Use(QuizSession(3600, false))
	var seen string
	r.GET("/", func(c *gin.Context) { seen = GetSessionID(c) })

	id := uuid.New().String()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: id})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, id, seen)
	assert.Empty(t, rec.Result().Cookies())
}

func TestQuizSessionReplacesForgedCookie(t *testing.T) {
	r := gin.New()
	r.Use(QuizSession(3600, false))
	var seen string
	r.GET("/", func(c *gin.Context) { seen = GetSessionID(c) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "../../etc"})
	r.ServeHTTP(httptest.NewRecorder(), req)

	assert.NotEqual(t, "../../etc", seen)
	assert.NoError(t, uuid.Validate(seen))
}

func TestRateLimiterPerIP(t *testing.T) {
	rl := NewRateLimiter(2)

	assert.True(t, rl.Allow("10.0.0.1"))
	assert.True(t, rl.Allow("10.0.0.1"))
	assert.False(t, rl.Allow("10.0.0.1"))
	assert.True(t, rl.Allow("10.0.0.2"))
}

func TestRateLimiterCleanup(t *testing.T) {
	rl := NewRateLimiter(1)
	rl.Allow("10.0.0.1")

	rl.Cleanup(time.Hour)
	assert.Len(t, rl.visitors, 1)

	rl.Cleanup(0)
	assert.Empty(t, rl.visitors)
}

func TestRateLimiterMiddlewareFunc(t *testing.T) {
	rl := NewRateLimiter(1)
	r := gin.New()
	r.GET("/", rl.MiddlewareFunc(func(c *gin.Context) {
		c.AbortWithStatus(http.StatusTeapot)
	}), func(c *gin.Context) { c.Status(http.StatusOK) })

	first := httptest.NewRecorder()
	r.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/", nil))
	second := httptest.NewRecorder()
	r.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusTeapot, second.Code)
}

func TestCompressBrotli(t *testing.T) {
	r := gin.New()
	r.Use(Compress())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, "hello quiz") })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Encoding", "br")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, "br", rec.Header().Get("Content-Encoding"))
	body, err := io.ReadAll(brotli.NewReader(bytes.NewReader(rec.Body.Bytes())))
	require.NoError(t, err)
	assert.Equal(t, "hello quiz", string(body))
}

func TestCompressIdentity(t *testing.T) {
	r := gin.New()
	r.Use(Compress())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, "plain") })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Empty(t, rec.Header().Get("Content-Encoding"))
	assert.Equal(t, "plain", rec.Body.String())
}

func TestNoStoreAndCacheControl(t *testing.T) {
	r := gin.New()
	r.GET("/page", NoStore(), func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/asset", CacheControl(60), func(c *gin.Context) { c.Status(http.StatusOK) })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/page", nil))
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/asset", nil))
	assert.Equal(t, "public, max-age=60", rec.Header().Get("Cache-Control"))
}
