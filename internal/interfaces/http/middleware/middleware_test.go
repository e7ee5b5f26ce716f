package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/your-org/marketplace-backend/internal/config"
	"github.com/your-org/marketplace-backend/internal/pkg/logger"
)

func TestIsOriginAllowed(t *testing.T) {
	allowed := []string{"http://localhost:3000", "*.example.com"}

	assert.True(t, isOriginAllowed("http://localhost:3000", allowed))
	assert.True(t, isOriginAllowed("https://shop.example.com", allowed))
	assert.False(t, isOriginAllowed("https://badexample.com", allowed))
	assert.False(t, isOriginAllowed("http://localhost:3001", allowed))
	assert.True(t, isOriginAllowed("https://anything.io", []string{"*"}))
}

func newEngine(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(handlers...)
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, GetSessionKey(c))
	})
	return r
}

func sessionConfig() *config.Config {
	return &config.Config{Security: config.SecurityConfig{
		SessionCookieName: "session_id",
		SessionCookieTTL:  time.Hour,
	}}
}

func TestSession(t *testing.T) {
	r := newEngine(Session(sessionConfig()))

	t.Run("header wins", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Session-Key", "from-header")
		req.AddCookie(&http.Cookie{Name: "session_id", Value: "from-cookie"})
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		assert.Equal(t, "from-header", rec.Body.String())
	})

	t.Run("cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "session_id", Value: "from-cookie"})
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		assert.Equal(t, "from-cookie", rec.Body.String())
	})

	t.Run("minted", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Len(t, rec.Body.String(), 36)
		assert.Equal(t, rec.Body.String(), rec.Header().Get("X-Session-Key"))
	})
}

type stubCounter struct {
	count int64
	err   error
}

func (s *stubCounter) Hit(context.Context, string, time.Duration) (int64, error) {
	s.count++
	return s.count, s.err
}

func TestRateLimit(t *testing.T) {
	counter := &stubCounter{}
	r := newEngine(RateLimit(counter, 2, logger.Discard()))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	failing := newEngine(RateLimit(&stubCounter{err: errors.New("redis down")}, 1, logger.Discard()))
	rec := httptest.NewRecorder()
	failing.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
