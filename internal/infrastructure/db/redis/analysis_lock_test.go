package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestLock(t *testing.T, ttl time.Duration) (*AnalysisLock, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewAnalysisLock(client, ttl), srv
}

func TestAnalysisLock_AcquireRelease(t *testing.T) {
	lock, srv := newTestLock(t, time.Minute)
	ctx := context.Background()

	token, ok, err := lock.Acquire(ctx, "c1")
	if err != nil || !ok || token == "" {
		t.Fatalf("first acquire: token=%q ok=%v err=%v", token, ok, err)
	}
	if v, _ := srv.Get("analysis:lock:c1"); v != token {
		t.Fatalf("lock value: got %q want %q", v, token)
	}
	if ttl := srv.TTL("analysis:lock:c1"); ttl != time.Minute {
		t.Errorf("ttl: got %v", ttl)
	}

	_, ok, err = lock.Acquire(ctx, "c1")
	if err != nil || ok {
		t.Fatalf("second acquire should fail: ok=%v err=%v", ok, err)
	}

	// Other calls are independent.
	if _, ok, _ := lock.Acquire(ctx, "c2"); !ok {
		t.Error("lock on c2 blocked by c1")
	}

	if err := lock.Release(ctx, "c1", token); err != nil {
		t.Fatalf("release: %v", err)
	}
	if _, ok, _ := lock.Acquire(ctx, "c1"); !ok {
		t.Error("acquire after release failed")
	}
}

func TestAnalysisLock_Expires(t *testing.T) {
	lock, srv := newTestLock(t, time.Second)
	ctx := context.Background()

	if _, ok, _ := lock.Acquire(ctx, "c1"); !ok {
		t.Fatal("acquire failed")
	}
	srv.FastForward(2 * time.Second)
	if _, ok, _ := lock.Acquire(ctx, "c1"); !ok {
		t.Error("expired lock still held")
	}
}

func TestAnalysisLock_ReleaseKeepsOtherHolder(t *testing.T) {
	lock, srv := newTestLock(t, time.Second)
	ctx := context.Background()

	first, ok, _ := lock.Acquire(ctx, "c1")
	if !ok {
		t.Fatal("first acquire failed")
	}
	srv.FastForward(2 * time.Second)
	second, ok, _ := lock.Acquire(ctx, "c1")
	if !ok {
		t.Fatal("second acquire after expiry failed")
	}

	// The first holder finishes late and must not drop the second's lock.
	if err := lock.Release(ctx, "c1", first); err != nil {
		t.Fatalf("stale release: %v", err)
	}
	if v, _ := srv.Get("analysis:lock:c1"); v != second {
		t.Fatalf("lock taken from current holder: value %q", v)
	}
	if _, ok, _ := lock.Acquire(ctx, "c1"); ok {
		t.Error("lock acquirable while held")
	}

	if err := lock.Release(ctx, "c1", second); err != nil {
		t.Fatalf("release: %v", err)
	}
	if srv.Exists("analysis:lock:c1") {
		t.Error("owner release left the key behind")
	}
}

func TestAnalysisLock_DefaultTTL(t *testing.T) {
	lock, _ := newTestLock(t, 0)
	if lock.ttl != defaultLockTTL {
		t.Errorf("ttl: got %v", lock.ttl)
	}
}

func TestPinger(t *testing.T) {
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	defer client.Close()

	p := NewPinger(client)
	if err := p.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
	srv.Close()
	if err := p.Ping(context.Background()); err == nil {
		t.Error("expected ping error after server close")
	}
}
