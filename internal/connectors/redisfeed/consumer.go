package redisfeed

import (
	"context"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/itskillian/hookathon-hooks/internal/config"
	"github.com/itskillian/hookathon-hooks/internal/types"
	"github.com/redis/go-redis/v9"
)

// Consumer follows the arbitrage event stream from the read side. It is
// the counterpart of Publisher for external tooling that wants captured
// arbitrage without linking the engine.
type Consumer struct {
	rdb    *redis.Client
	stream string
}

func NewConsumer(cfg *config.Config) *Consumer {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		DB:       cfg.Redis.DB,
		Username: cfg.Redis.Username,
		Password: cfg.Redis.Password,
	})
	return &Consumer{rdb: rdb, stream: cfg.Redis.Stream}
}

// ReadPoolSnapshot returns the latest published running state for one
// pool, or redis.Nil if the pool has never been published.
func (c *Consumer) ReadPoolSnapshot(ctx context.Context, pool types.PoolID) (map[string]string, error) {
	m, err := c.rdb.HGetAll(ctx, snapKey(pool)).Result()
	if err != nil {
		return nil, err
	}
	if len(m) == 0 {
		return nil, redis.Nil
	}
	return m, nil
}

// Tail blocks on the stream and forwards decoded arbitrage events until
// the context is cancelled. lastID "" starts from new events only.
func (c *Consumer) Tail(ctx context.Context, lastID string, out chan<- types.ArbReport) error {
	if lastID == "" {
		lastID = "$"
	}
	for {
		streams, err := c.rdb.XRead(ctx, &redis.XReadArgs{
			Streams: []string{c.stream, lastID},
			Count:   100,
			Block:   time.Second,
		}).Result()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			time.Sleep(200 * time.Millisecond)
			continue
		}
		for _, s := range streams {
			for _, m := range s.Messages {
				lastID = m.ID
				select {
				case out <- decodeArb(m.Values):
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		}
	}
}

func decodeArb(values map[string]interface{}) types.ArbReport {
	var r types.ArbReport
	if v, ok := values["pool"].(string); ok {
		r.Pool = common.HexToHash(v)
	}
	if v, ok := values["direction"].(string); ok {
		r.Direction = types.Direction(v)
	}
	r.AmountIn = floatField(values, "amount_in")
	r.Profit0 = floatField(values, "profit0")
	r.Profit1 = floatField(values, "profit1")
	r.PriceOwn = floatField(values, "price_own")
	r.PriceRef = floatField(values, "price_ref")
	r.GasUsed = floatField(values, "gas")
	if ms := floatField(values, "ts_ms"); ms > 0 {
		r.Ts = time.UnixMilli(int64(ms))
	}
	return r
}

func floatField(values map[string]interface{}, key string) float64 {
	s, ok := values[key].(string)
	if !ok {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

func (c *Consumer) Close() error { return c.rdb.Close() }
