package redisadapter

import (
	"context"
	"fmt"
	"time"

	rd "github.com/redis/go-redis/v9"
)

// ClaimGuard marks claimed orders in Redis with a short-lived SETNX key.
// It only observes the benign double-claim race the store allows; admission
// is still last-write-wins at the store, so every error here is soft.
type ClaimGuard struct {
	client *rd.Client
	ttl    time.Duration
}

func NewClaimGuard(client *rd.Client, ttl time.Duration) *ClaimGuard {
	if ttl <= 0 {
		ttl = 8 * time.Hour
	}
	return &ClaimGuard{client: client, ttl: ttl}
}

func claimMarkerKey(orderID string) string {
	return fmt.Sprintf("sourcing:claim:marker:%s", orderID)
}

// Acquire sets the marker and reports whether it was free.
func (g *ClaimGuard) Acquire(ctx context.Context, orderID string) (bool, error) {
	return g.client.SetNX(ctx, claimMarkerKey(orderID), "claimed", g.ttl).Result()
}

// Clear drops the marker on release or completion.
func (g *ClaimGuard) Clear(ctx context.Context, orderID string) error {
	return g.client.Del(ctx, claimMarkerKey(orderID)).Err()
}
