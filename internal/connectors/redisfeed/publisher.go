// Package redisfeed publishes engine outcomes to Redis so external
// consumers (dashboards, accounting) can follow captured arbitrage and
// pool state without touching the engine itself.
package redisfeed

import (
	"context"

	"github.com/itskillian/hookathon-hooks/internal/config"
	"github.com/itskillian/hookathon-hooks/internal/types"
	"github.com/redis/go-redis/v9"
)

type Publisher struct {
	rdb    *redis.Client
	stream string
}

func NewPublisher(cfg *config.Config) *Publisher {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		DB:       cfg.Redis.DB,
		Username: cfg.Redis.Username,
		Password: cfg.Redis.Password,
	})
	return &Publisher{rdb: rdb, stream: cfg.Redis.Stream}
}

// PublishArb appends one executed arbitrage to the event stream.
func (p *Publisher) PublishArb(ctx context.Context, r types.ArbReport) error {
	return p.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: map[string]interface{}{
			"pool":      r.Pool.Hex(),
			"direction": string(r.Direction),
			"amount_in": r.AmountIn,
			"profit0":   r.Profit0,
			"profit1":   r.Profit1,
			"price_own": r.PriceOwn,
			"price_ref": r.PriceRef,
			"gas":       r.GasUsed,
			"ts_ms":     r.Ts.UnixMilli(),
		},
	}).Err()
}

// UpsertPoolSnapshot keeps a per-pool hash of the latest running state.
func (p *Publisher) UpsertPoolSnapshot(ctx context.Context, pool types.PoolID, price, avgIlliq, totalVolume float64, tradeCount uint64) error {
	return p.rdb.HSet(ctx, snapKey(pool), map[string]interface{}{
		"price":        price,
		"avg_illiq":    avgIlliq,
		"total_volume": totalVolume,
		"trade_count":  tradeCount,
	}).Err()
}

func snapKey(pool types.PoolID) string { return "pool:snap:" + pool.Hex() }

func (p *Publisher) Close() error { return p.rdb.Close() }
