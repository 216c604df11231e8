package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestErrorDedup_FirstSeenOnce(t *testing.T) {
	mr, client := newTestClient(t)
	d := NewErrorDedup(client, "", 0)
	ctx := context.Background()

	first, err := d.FirstSeen(ctx, "abc")
	if err != nil || !first {
		t.Fatalf("expected first sighting, got %v %v", first, err)
	}
	again, err := d.FirstSeen(ctx, "abc")
	if err != nil || again {
		t.Fatalf("expected duplicate, got %v %v", again, err)
	}

	if !mr.Exists("error_abc") {
		t.Fatalf("expected key error_abc to exist")
	}
	if ttl := mr.TTL("error_abc"); ttl != 0 {
		t.Fatalf("expected no expiry, got %v", ttl)
	}
}

func TestErrorDedup_PrefixAndTTL(t *testing.T) {
	mr, client := newTestClient(t)
	d := NewErrorDedup(client, "mb_error_", time.Hour)

	if _, err := d.FirstSeen(context.Background(), "abc"); err != nil {
		t.Fatalf("first seen: %v", err)
	}
	if !mr.Exists("mb_error_abc") {
		t.Fatalf("expected prefixed key")
	}
	if ttl := mr.TTL("mb_error_abc"); ttl != time.Hour {
		t.Fatalf("expected 1h ttl, got %v", ttl)
	}

	mr.FastForward(2 * time.Hour)
	again, err := d.FirstSeen(context.Background(), "abc")
	if err != nil || !again {
		t.Fatalf("expected key to expire, got %v %v", again, err)
	}
}

func TestErrorDedup_ServerDown(t *testing.T) {
	mr, client := newTestClient(t)
	d := NewErrorDedup(client, "", 0)
	mr.Close()

	if _, err := d.FirstSeen(context.Background(), "abc"); err == nil {
		t.Fatalf("expected error when redis is unavailable")
	}
}
