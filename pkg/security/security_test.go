package security

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRateLimiterAllowsBurstThenRejects(t *testing.T) {
	l := NewRateLimiter(3, time.Minute)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		if ok, _ := l.allow("1.2.3.4"); !ok {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if ok, remaining := l.allow("1.2.3.4"); ok || remaining != 0 {
		t.Fatalf("fourth request should be rejected, ok=%v remaining=%d", ok, remaining)
	}
	if ok, _ := l.allow("5.6.7.8"); !ok {
		t.Fatal("other clients have their own bucket")
	}

	// 20 秒补充一个令牌
	now = now.Add(20 * time.Second)
	if ok, _ := l.allow("1.2.3.4"); !ok {
		t.Fatal("a token should be refilled after window/limit")
	}
}

func TestRateLimiterSweepsIdleClients(t *testing.T) {
	l := NewRateLimiter(5, time.Minute)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	l.allow("idle")
	now = now.Add(2 * time.Minute)
	l.allow("active")

	if _, ok := l.clients["idle"]; ok {
		t.Fatal("idle client should be removed")
	}
	if _, ok := l.clients["active"]; !ok {
		t.Fatal("active client should be kept")
	}
}

func TestRateLimiterMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(NewRateLimiter(1, time.Hour).Middleware())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	first := httptest.NewRecorder()
	r.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/", nil))
	if first.Code != http.StatusOK || first.Header().Get("RateLimit-Limit") != "1" {
		t.Fatalf("unexpected first response %d %v", first.Code, first.Header())
	}

	second := httptest.NewRecorder()
	r.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/", nil))
	if second.Code != http.StatusTooManyRequests || second.Header().Get("Retry-After") != "3600" {
		t.Fatalf("unexpected second response %d %v", second.Code, second.Header())
	}
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"http://localhost:5173"}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent || w.Header().Get("Access-Control-Allow-Origin") != "http://localhost:5173" {
		t.Fatalf("unexpected preflight %d %v", w.Code, w.Header())
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Fatal("unknown origins must not be echoed")
	}
}
