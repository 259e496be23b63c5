package ledger

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const balanceKeyPrefix = "shopkhata:balance:"

// BalanceCache keeps the derived last balance per khata in Redis so the
// entry-creation form does not replay the full ledger on every load.
// Every ledger mutation invalidates the affected khata plus the
// unfiltered view.
type BalanceCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewBalanceCache builds BalanceCache. A nil client disables caching.
func NewBalanceCache(client *redis.Client, ttl time.Duration) *BalanceCache {
	return &BalanceCache{client: client, ttl: ttl}
}

func balanceKey(khata string) string {
	if khata == "" {
		khata = DefaultKhata
	}
	return balanceKeyPrefix + strings.ToLower(khata)
}

// Get returns the cached balance and whether it was present.
func (c *BalanceCache) Get(ctx context.Context, khata string) (float64, bool, error) {
	if c == nil || c.client == nil {
		return 0, false, nil
	}
	raw, err := c.client.Get(ctx, balanceKey(khata)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, false, nil
		}
		return 0, false, err
	}
	balance, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false, nil
	}
	return balance, true, nil
}

// Set stores the balance for a khata.
func (c *BalanceCache) Set(ctx context.Context, khata string, balance float64) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Set(ctx, balanceKey(khata), strconv.FormatFloat(balance, 'f', -1, 64), c.ttl).Err()
}

// Invalidate drops the cached balance for the given khatas and for the
// unfiltered view.
func (c *BalanceCache) Invalidate(ctx context.Context, khatas ...string) error {
	if c == nil || c.client == nil {
		return nil
	}
	keys := []string{balanceKey(DefaultKhata)}
	for _, khata := range khatas {
		if khata != "" && !strings.EqualFold(khata, DefaultKhata) {
			keys = append(keys, balanceKey(khata))
		}
	}
	return c.client.Del(ctx, keys...).Err()
}
