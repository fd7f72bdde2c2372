package registry

import (
	"math"

	"github.com/ethereum/go-ethereum/common"
	"github.com/itskillian/hookathon-hooks/internal/stats"
	"github.com/itskillian/hookathon-hooks/internal/types"
)

// PoolState is the per-pool bookkeeping record. It is created once at
// registration, configured exactly once, and then mutated on every trade
// and liquidity change for the lifetime of the pool.
type PoolState struct {
	Key           types.PoolKey
	RefKey        types.PoolKey
	Owner         common.Address
	MinFeeBps     float64
	DecimalsDelta int  // decimal-scale delta between token0 and token1
	Configured bool

	// QuoteIsToken1 records the operator's quote-asset declaration at
	// configure time. All volume and exposure math in this module takes
	// token1 as quote (types.PoolKey fixes the orientation); the flag is
	// kept for event consumers that present prices the other way up.
	QuoteIsToken1 bool

	LastPriceBefore float64
	LastPriceAfter  float64

	TotalVolume float64 // quote-asset terms, monotonically non-decreasing
	NetVolume   float64 // signed; selling base subtracts
	TradeCount  uint64

	AvgIlliq    float64 // own pool, defined once TradeCount > 0
	AvgIlliqRef float64 // reference pool

	Inventory0 float64
	Inventory1 float64
}

// TotalValue is the pool's inventory valued in quote terms at the given
// price.
func (p *PoolState) TotalValue(price float64) float64 {
	return p.Inventory0*price + p.Inventory1
}

// RecordTrade folds one completed trade into the running state: volume
// counters, the illiquidity average, and the observed prices. volumeQuote
// is the trade's size in quote terms.
func (p *PoolState) RecordTrade(dir types.Direction, volumeQuote, priceBefore, priceAfter float64) {
	p.TotalVolume += volumeQuote
	if dir == types.SellBase {
		p.NetVolume -= volumeQuote
	} else {
		p.NetVolume += volumeQuote
	}

	var impact float64
	if priceBefore > 0 {
		impact = math.Abs(priceAfter-priceBefore) / priceBefore
	}
	sample := stats.Observe(impact, volumeQuote)
	p.AvgIlliq = stats.Fold(p.AvgIlliq, sample, p.TradeCount)
	p.TradeCount++

	p.LastPriceBefore = priceBefore
	p.LastPriceAfter = priceAfter
}

// FoldRefIlliquidity mixes a reference-pool illiquidity observation into
// its running average. The reference average shares the own-pool sample
// count; both are folded once per completed trade.
func (p *PoolState) FoldRefIlliquidity(sample float64) {
	if sample <= 0 {
		return
	}
	if p.TradeCount == 0 {
		p.AvgIlliqRef = sample
		return
	}
	p.AvgIlliqRef = stats.Fold(p.AvgIlliqRef, sample, p.TradeCount-1)
}

// ApplyDeltas reconciles the pool inventory with the engine's signed
// balance deltas for one mutation. Deltas are pool-side: positive means
// the pool received the asset. Inventory must stay non-negative at rest.
func (p *PoolState) ApplyDeltas(delta0, delta1 float64) error {
	if p.Inventory0+delta0 < 0 || p.Inventory1+delta1 < 0 {
		return ErrInsufficientInventory
	}
	p.Inventory0 += delta0
	p.Inventory1 += delta1
	return nil
}
