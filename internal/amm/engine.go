// Package amm is an in-memory price-curve engine with a linear impact
// model. It backs the replay binary and the tests; production wiring
// would hand the pipeline a real engine behind the same interface.
//
// Swaps fill the full input at the pre-trade spot price and then move the
// price by baseVolume/liquidity. Simulation computes against a copy of
// the pool record, so the no-persisted-effect contract holds by
// construction.
package amm

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/itskillian/hookathon-hooks/internal/types"
)

var (
	ErrUnknownPool = errors.New("amm: unknown pool")
	ErrDrained     = errors.New("amm: pool cannot cover the output")
)

type pool struct {
	price     float64
	liquidity float64 // base-asset depth: relative move per base unit is 1/liquidity
	balance0  float64
	balance1  float64
}

type Engine struct {
	mu         sync.Mutex
	pools      map[types.PoolID]*pool
	gasPerSwap float64
	ledger     map[common.Address]float64 // signed settlement account per asset
}

func New(gasPerSwap float64) *Engine {
	return &Engine{
		pools:      make(map[types.PoolID]*pool, 8),
		gasPerSwap: gasPerSwap,
		ledger:     make(map[common.Address]float64, 8),
	}
}

// AddPool seeds a pool at a spot price with the given base-asset depth
// and inventories.
func (e *Engine) AddPool(key types.PoolKey, price, liquidity, balance0, balance1 float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pools[key.ID()] = &pool{price: price, liquidity: liquidity, balance0: balance0, balance1: balance1}
}

func (e *Engine) Price(id types.PoolID) (float64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	p, ok := e.pools[id]
	if !ok {
		return 0, ErrUnknownPool
	}
	return p.price, nil
}

func (e *Engine) Liquidity(id types.PoolID) (float64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	p, ok := e.pools[id]
	if !ok {
		return 0, ErrUnknownPool
	}
	return p.liquidity, nil
}

// swap applies one exact-input trade to a pool record and returns the
// output amount and resulting price. priceLimit == 0 means unbounded;
// otherwise the post-trade price is stopped at the limit when the move
// would cross it. A pool that cannot cover the output fails with
// ErrDrained here, so simulated and committed swaps agree on it.
func swap(p *pool, dir types.Direction, amount, priceLimit float64) (out, newPrice float64, err error) {
	if amount <= 0 {
		return 0, p.price, fmt.Errorf("amm: non-positive input %f", amount)
	}
	var baseVol float64
	if dir == types.SellBase {
		out = amount * p.price
		baseVol = amount
		if p.balance1 < out {
			return 0, p.price, ErrDrained
		}
	} else {
		out = amount / p.price
		baseVol = out
		if p.balance0 < out {
			return 0, p.price, ErrDrained
		}
	}

	move := baseVol / p.liquidity
	if dir == types.SellBase {
		newPrice = p.price * (1 - move)
		if priceLimit > 0 && priceLimit < p.price && newPrice < priceLimit {
			newPrice = priceLimit
		}
		if newPrice <= 0 {
			return 0, p.price, ErrDrained
		}
	} else {
		newPrice = p.price * (1 + move)
		if priceLimit > 0 && priceLimit > p.price && newPrice > priceLimit {
			newPrice = priceLimit
		}
	}
	return out, newPrice, nil
}

// SimulateSwap quotes a swap without persisting anything.
func (e *Engine) SimulateSwap(key types.PoolKey, dir types.Direction, amount float64) (types.Quote, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	p, ok := e.pools[key.ID()]
	if !ok {
		return types.Quote{}, ErrUnknownPool
	}
	scratch := *p
	out, newPrice, err := swap(&scratch, dir, amount, 0)
	if err != nil {
		return types.Quote{}, err
	}
	return types.Quote{AmountOut: out, GasEstimate: e.gasPerSwap, ResultingPrice: newPrice}, nil
}

// ExecuteSwap commits a swap and returns the caller's signed balance
// deltas for token0 and token1.
func (e *Engine) ExecuteSwap(key types.PoolKey, dir types.Direction, amount, priceLimit float64) (float64, float64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	p, ok := e.pools[key.ID()]
	if !ok {
		return 0, 0, ErrUnknownPool
	}
	out, newPrice, err := swap(p, dir, amount, priceLimit)
	if err != nil {
		return 0, 0, err
	}

	if dir == types.SellBase {
		p.balance0 += amount
		p.balance1 -= out
		p.price = newPrice
		return -amount, out, nil
	}
	p.balance1 += amount
	p.balance0 -= out
	p.price = newPrice
	return out, -amount, nil
}

// Settle records a payment from the caller to the engine.
func (e *Engine) Settle(asset common.Address, amount float64) error {
	if amount < 0 {
		return fmt.Errorf("amm: negative settle %f", amount)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ledger[asset] -= amount
	return nil
}

// Take records a claim by the caller against the engine.
func (e *Engine) Take(asset common.Address, amount float64) error {
	if amount < 0 {
		return fmt.Errorf("amm: negative take %f", amount)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ledger[asset] += amount
	return nil
}

// Balance reports the caller's net settlement position in one asset.
func (e *Engine) Balance(asset common.Address) float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ledger[asset]
}
