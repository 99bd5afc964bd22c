package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
)

func testLimiter(t *testing.T, limit int64, window time.Duration) (*LoginLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewLoginLimiter(client, limit, window), mr
}

func TestLoginLimiter_AllowsWithinLimit(t *testing.T) {
	limiter, _ := testLimiter(t, 3, time.Minute)

	for i := 0; i < 3; i++ {
		ok, err := limiter.Allow(context.Background(), "a@example.com", "10.0.0.1")
		if err != nil {
			t.Fatalf("Allow returned error: %v", err)
		}
		if !ok {
			t.Fatalf("attempt %d should be allowed", i+1)
		}
	}

	ok, err := limiter.Allow(context.Background(), "a@example.com", "10.0.0.1")
	if err != nil {
		t.Fatalf("Allow returned error: %v", err)
	}
	if ok {
		t.Fatalf("fourth attempt should be throttled")
	}
}

func TestLoginLimiter_IndependentKeys(t *testing.T) {
	limiter, _ := testLimiter(t, 1, time.Minute)

	if ok, _ := limiter.Allow(context.Background(), "a@example.com", "10.0.0.1"); !ok {
		t.Fatalf("first attempt should be allowed")
	}
	if ok, _ := limiter.Allow(context.Background(), "a@example.com", "10.0.0.1"); ok {
		t.Fatalf("second attempt from same caller should be throttled")
	}
	if ok, _ := limiter.Allow(context.Background(), "b@example.com", "10.0.0.1"); !ok {
		t.Fatalf("other email must not share the counter")
	}
	if ok, _ := limiter.Allow(context.Background(), "a@example.com", "10.0.0.2"); !ok {
		t.Fatalf("other ip must not share the counter")
	}
}

func TestLoginLimiter_WindowExpires(t *testing.T) {
	limiter, mr := testLimiter(t, 1, time.Minute)

	if ok, _ := limiter.Allow(context.Background(), "a@example.com", "10.0.0.1"); !ok {
		t.Fatalf("first attempt should be allowed")
	}
	if ok, _ := limiter.Allow(context.Background(), "a@example.com", "10.0.0.1"); ok {
		t.Fatalf("second attempt should be throttled")
	}

	mr.FastForward(2 * time.Minute)

	if ok, _ := limiter.Allow(context.Background(), "a@example.com", "10.0.0.1"); !ok {
		t.Fatalf("counter should reset after the window")
	}
}
