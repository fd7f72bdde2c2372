package arb

import (
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/itskillian/hookathon-hooks/internal/types"
	"go.uber.org/zap"
)

// ErrProfitInvariant is raised when the netted result of an executed
// arbitrage is negative in settlement terms. The profitability gate is
// supposed to make this unreachable; seeing it means a gate or solver
// defect, so the trade's arbitrage fails loudly and is not retried.
var ErrProfitInvariant = errors.New("arb: negative profit after gate approval")

// Swapper is the committed side of the price-curve engine: swaps that
// persist, plus the asset-transfer settlement primitives. ExecuteSwap
// returns the caller's signed balance deltas for token0 and token1.
type Swapper interface {
	ExecuteSwap(key types.PoolKey, dir types.Direction, amount, priceLimit float64) (delta0, delta1 float64, err error)
	Settle(asset common.Address, amount float64) error
	Take(asset common.Address, amount float64) error
}

// Executor commits the two legs of an approved candidate, nets the
// resulting balance deltas per asset, and settles with the engine:
// negative nets are paid, positive nets are claimed as captured profit.
type Executor struct {
	eng Swapper
	log *zap.Logger
}

func NewExecutor(eng Swapper, log *zap.Logger) *Executor {
	return &Executor{eng: eng, log: log}
}

// Execute runs leg A on the primary pool and leg B on the reference pool
// in the opposite direction, with both legs price-bounded at the computed
// equilibrium midpoint so neither overshoots the crossing.
func (e *Executor) Execute(primary, reference types.PoolKey, res types.ArbQuoteResult) (types.ArbReport, error) {
	limit := (res.PriceOwn + res.PriceRef) / 2

	d0a, d1a, err := e.eng.ExecuteSwap(primary, res.Direction, res.AmountIn, limit)
	if err != nil {
		return types.ArbReport{}, fmt.Errorf("execute primary leg: %w", err)
	}

	// leg B spends exactly what leg A realized
	legBIn := d1a
	if res.Direction == types.SellQuote {
		legBIn = d0a
	}
	d0b, d1b, err := e.eng.ExecuteSwap(reference, res.Direction.Opposite(), legBIn, limit)
	if err != nil {
		return types.ArbReport{}, fmt.Errorf("execute reference leg: %w", err)
	}

	net0 := d0a + d0b
	net1 := d1a + d1b
	if err := e.settleNet(primary.Token0, net0); err != nil {
		return types.ArbReport{}, err
	}
	if err := e.settleNet(primary.Token1, net1); err != nil {
		return types.ArbReport{}, err
	}

	// settlement-asset terms: token0 valued at the post-trade pool price
	profit := net0*res.PriceOwn + net1
	if profit < 0 {
		return types.ArbReport{}, fmt.Errorf("%w: net0=%f net1=%f price=%f",
			ErrProfitInvariant, net0, net1, res.PriceOwn)
	}

	report := types.ArbReport{
		Direction:  res.Direction,
		AmountIn:   res.AmountIn,
		Profit0:    max0(net0),
		Profit1:    max0(net1),
		LegADelta0: d0a,
		LegADelta1: d1a,
		PriceOwn:   res.PriceOwn,
		PriceRef:   res.PriceRef,
		GasUsed:    res.GasEstimate,
		Ts:         time.Now(),
	}
	e.log.Info("arbitrage executed",
		zap.String("direction", string(res.Direction)),
		zap.Float64("amount_in", res.AmountIn),
		zap.Float64("profit0", report.Profit0),
		zap.Float64("profit1", report.Profit1),
	)
	return report, nil
}

func (e *Executor) settleNet(asset common.Address, net float64) error {
	switch {
	case net < 0:
		if err := e.eng.Settle(asset, -net); err != nil {
			return fmt.Errorf("settle %s: %w", asset.Hex(), err)
		}
	case net > 0:
		if err := e.eng.Take(asset, net); err != nil {
			return fmt.Errorf("take %s: %w", asset.Hex(), err)
		}
	}
	return nil
}

func max0(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
