package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRateLimitPerIP(t *testing.T) {
	rl := NewIPRateLimiter(1, 2)
	router := gin.New()
	router.Use(rl.RateLimit())
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	do := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = ip + ":1234"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Code
	}

	for i, want := range []int{200, 200, 429} {
		if got := do("10.0.0.1"); got != want {
			t.Errorf("request %d: status %d, want %d", i, got, want)
		}
	}
	if got := do("10.0.0.2"); got != http.StatusOK {
		t.Errorf("other client: status %d", got)
	}
}

func TestRateLimitDisabled(t *testing.T) {
	rl := NewIPRateLimiter(0, 0)
	router := gin.New()
	router.Use(rl.RateLimit())
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 20; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: status %d", i, w.Code)
		}
	}
}

func TestCleanupDropsIdleClients(t *testing.T) {
	rl := NewIPRateLimiter(10, 1)
	rl.Allow("a")
	rl.Allow("b")
	if removed := rl.Cleanup(time.Now().Add(time.Minute)); removed != 0 {
		t.Errorf("removed %d active clients", removed)
	}
	if removed := rl.Cleanup(time.Now().Add(time.Hour)); removed != 2 {
		t.Errorf("removed %d idle clients, want 2", removed)
	}
}

func TestRequestSizeLimit(t *testing.T) {
	router := gin.New()
	router.Use(RequestSizeLimit(8))
	router.POST("/", func(c *gin.Context) {
		buf := make([]byte, 64)
		_, err := c.Request.Body.Read(buf)
		if IsBodyTooLarge(err) {
			c.Status(http.StatusRequestEntityTooLarge)
			return
		}
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("small")))
	if w.Code != http.StatusOK {
		t.Errorf("small body: status %d", w.Code)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("this body is too large")))
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("large body: status %d", w.Code)
	}
}
