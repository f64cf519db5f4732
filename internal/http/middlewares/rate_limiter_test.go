package middlewares_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/geocoder89/accounthub/internal/http/middlewares"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func setupLimitedRouter(rl *middlewares.RateLimiter) *gin.Engine {
	r := gin.New()
	r.POST("/limited", rl.Middleware(middlewares.KeyByIP), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	return r
}

func hit(r http.Handler) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/limited", nil)
	req.RemoteAddr = "10.0.0.1:1234"

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

func TestRateLimiter_Window(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	rl := middlewares.NewRateLimiter(rdb, 2, time.Minute)
	r := setupLimitedRouter(rl)

	// two hits fit in the window
	for i := 0; i < 2; i++ {
		if w := hit(r); w.Code != http.StatusOK {
			t.Fatalf("hit %d: status = %d, want 200", i+1, w.Code)
		}
	}

	// the third is over budget
	w := hit(r)

	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429, body=%s", w.Code, w.Body.String())
	}

	if w.Header().Get("Retry-After") == "" {
		t.Fatalf("expected a Retry-After header")
	}

	// once the window expires the budget resets
	mr.FastForward(time.Minute + time.Second)

	if w := hit(r); w.Code != http.StatusOK {
		t.Fatalf("post-window status = %d, want 200", w.Code)
	}
}

func TestRateLimiter_FailsOpen(t *testing.T) {
	// nothing listening here; the limiter must let traffic through
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
	})

	rl := middlewares.NewRateLimiter(rdb, 1, time.Minute)
	r := setupLimitedRouter(rl)

	for i := 0; i < 3; i++ {
		if w := hit(r); w.Code != http.StatusOK {
			t.Fatalf("hit %d: status = %d, want 200 (fail open)", i+1, w.Code)
		}
	}
}
