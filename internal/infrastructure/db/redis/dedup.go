package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultDedupPrefix = "error_"

// ErrorDedup remembers which error hashes have already been reported.
// Key format: <prefix><sha1 of message>
type ErrorDedup struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewErrorDedup wraps the client. A zero ttl keeps keys forever.
func NewErrorDedup(client *redis.Client, prefix string, ttl time.Duration) *ErrorDedup {
	if prefix == "" {
		prefix = defaultDedupPrefix
	}
	return &ErrorDedup{client: client, prefix: prefix, ttl: ttl}
}

// FirstSeen records the hash and reports whether it was new. The check and the
// write happen in one SET NX, so concurrent reporters agree on a single winner.
func (d *ErrorDedup) FirstSeen(ctx context.Context, hash string) (bool, error) {
	ok, err := d.client.SetNX(ctx, d.key(hash), "1", d.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("dedup check: %w", err)
	}
	return ok, nil
}

func (d *ErrorDedup) key(hash string) string {
	return d.prefix + hash
}
