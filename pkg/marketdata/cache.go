package marketdata

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tradesim/venue-sim/pkg/venue/model"
)

// Cache mirrors top-of-book and last-trade data into Redis so market data
// readers never touch the matching engine.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewCache(rdb *redis.Client, ttl time.Duration) *Cache {
	return &Cache{rdb: rdb, ttl: ttl}
}

func topKey(symbol string) string  { return fmt.Sprintf("md:%s:top", symbol) }
func lastKey(symbol string) string { return fmt.Sprintf("md:%s:last", symbol) }

// UpdateTopOfBook writes best bid/ask; a missing side is stored as an empty
// field so readers can tell "no bid" from "bid at 0".
func (c *Cache) UpdateTopOfBook(ctx context.Context, symbol string, bid float64, hasBid bool, ask float64, hasAsk bool) error {
	fields := map[string]any{"bid": "", "ask": ""}
	if hasBid {
		fields["bid"] = bid
	}
	if hasAsk {
		fields["ask"] = ask
	}

	key := topKey(symbol)
	if err := c.rdb.HSet(ctx, key, fields).Err(); err != nil {
		return fmt.Errorf("update top of book %s: %w", symbol, err)
	}
	return c.expire(ctx, key)
}

func (c *Cache) UpdateLastTrade(ctx context.Context, ev *model.TradeEvent) error {
	key := lastKey(ev.Symbol)
	err := c.rdb.HSet(ctx, key, map[string]any{
		"price":      ev.Price,
		"qty":        ev.Qty,
		"settled_at": ev.SettledAt.UnixMilli(),
	}).Err()
	if err != nil {
		return fmt.Errorf("update last trade %s: %w", ev.Symbol, err)
	}
	return c.expire(ctx, key)
}

func (c *Cache) TopOfBook(ctx context.Context, symbol string) (map[string]string, error) {
	return c.rdb.HGetAll(ctx, topKey(symbol)).Result()
}

func (c *Cache) LastTrade(ctx context.Context, symbol string) (map[string]string, error) {
	return c.rdb.HGetAll(ctx, lastKey(symbol)).Result()
}

func (c *Cache) expire(ctx context.Context, key string) error {
	if c.ttl <= 0 {
		return nil
	}
	return c.rdb.Expire(ctx, key, c.ttl).Err()
}
