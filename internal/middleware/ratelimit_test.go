package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

// Without a configured Redis client every request must pass through.
func TestRateLimiterAllowsWithoutRedis(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.GET("/limited", RateLimiter(RateLimitConfig{Limit: 1, Window: time.Minute}), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/limited", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200 with no redis, got %d", i+1, w.Code)
		}
	}
}

func TestRateLimiterDefaults(t *testing.T) {
	// Zero values fall back to the defaults instead of blocking everything.
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.GET("/limited", RateLimiter(RateLimitConfig{}), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/limited", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}
