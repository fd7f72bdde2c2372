// Package engine wires the fee and arbitrage pipelines to the pool
// registry and the external price-curve engine. Each trade is processed
// synchronously to completion: the pre-trade path computes a fee
// override, the post-trade path updates bookkeeping and then attempts a
// guarded self-arbitrage against the pool's reference pool.
package engine

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/itskillian/hookathon-hooks/internal/arb"
	"github.com/itskillian/hookathon-hooks/internal/config"
	"github.com/itskillian/hookathon-hooks/internal/fee"
	"github.com/itskillian/hookathon-hooks/internal/metrics"
	"github.com/itskillian/hookathon-hooks/internal/registry"
	"github.com/itskillian/hookathon-hooks/internal/stats"
	"github.com/itskillian/hookathon-hooks/internal/types"
	"go.uber.org/zap"
)

// AMM is the external price-curve engine, consumed at its interface
// boundary only. SimulateSwap is the speculative surface and must leave
// no persisted state behind; ExecuteSwap, Settle and Take commit.
type AMM interface {
	Price(id types.PoolID) (float64, error)
	Liquidity(id types.PoolID) (float64, error)
	SimulateSwap(key types.PoolKey, dir types.Direction, amount float64) (types.Quote, error)
	ExecuteSwap(key types.PoolKey, dir types.Direction, amount, priceLimit float64) (float64, float64, error)
	Settle(asset common.Address, amount float64) error
	Take(asset common.Address, amount float64) error
}

type Engine struct {
	cfg      *config.Config
	reg      *registry.Registry
	amm      AMM
	composer *fee.Composer
	refiner  *arb.Refiner
	gate     *arb.Gate
	exec     *arb.Executor
	guard    *arb.Guard
	log      *zap.Logger
}

func New(cfg *config.Config, reg *registry.Registry, amm AMM, log *zap.Logger) *Engine {
	return &Engine{
		cfg:      cfg,
		reg:      reg,
		amm:      amm,
		composer: fee.NewComposer(cfg.Fee.Divisor, cfg.Fee.MaxBps),
		refiner:  arb.NewRefiner(cfg.Arb.RefineRounds, amm, log),
		gate:     arb.NewGate(cfg.Arb.GasPrice),
		exec:     arb.NewExecutor(amm, log),
		guard:    &arb.Guard{},
		log:      log,
	}
}

// FeeForTrade computes the fee override for a hypothetical trade of the
// given input amount. The very first trade on a pool has no flow history
// and gets the minimum fee directly.
func (e *Engine) FeeForTrade(poolID types.PoolID, dir types.Direction, amount float64) (float64, error) {
	p, err := e.reg.Get(poolID)
	if err != nil {
		return 0, err
	}
	if !p.Configured {
		return 0, registry.ErrNotConfigured
	}
	price, err := e.amm.Price(poolID)
	if err != nil {
		return 0, fmt.Errorf("read pool price: %w", err)
	}
	p.LastPriceBefore = price

	if p.TradeCount == 0 {
		metrics.FeeOverrideBps.Set(p.MinFeeBps)
		return p.MinFeeBps, nil
	}
	if p.TotalVolume <= 0 {
		// a traded pool must carry volume; rather than feed empty flow
		// into the estimators, fall back to the floor and flag it
		e.log.Warn("flow counters inconsistent",
			zap.String("pool", poolID.Hex()),
			zap.Uint64("trade_count", p.TradeCount),
			zap.Float64("total_volume", p.TotalVolume),
		)
		metrics.FeeOverrideBps.Set(p.MinFeeBps)
		return p.MinFeeBps, nil
	}

	hypoVol := amount
	if dir == types.SellBase {
		hypoVol = amount * price
	}
	pin := stats.PIN(p.TotalVolume, p.NetVolume, hypoVol, dir)
	exposure := stats.Exposure(p.Inventory0, p.Inventory1, price, dir)
	expectedImpact := p.AvgIlliq * hypoVol

	feeBps := e.composer.Compose(pin, p.MinFeeBps, expectedImpact, exposure)
	metrics.FeeOverrideBps.Set(feeBps)
	e.log.Debug("fee override",
		zap.String("pool", poolID.Hex()),
		zap.Float64("pin", pin),
		zap.Float64("exposure", exposure),
		zap.Float64("expected_impact", expectedImpact),
		zap.Float64("fee_bps", feeBps),
	)
	return feeBps, nil
}

// AfterTrade commits the bookkeeping for a completed trade and then, if
// no pipeline invocation is already live, attempts the self-arbitrage
// sequence. A nil report with nil error is the normal no-opportunity
// outcome; the triggering trade is unaffected either way unless the
// profit invariant is violated.
func (e *Engine) AfterTrade(poolID types.PoolID, dir types.Direction, amount float64) (*types.ArbReport, error) {
	p, err := e.reg.Get(poolID)
	if err != nil {
		return nil, err
	}
	if !p.Configured {
		return nil, registry.ErrNotConfigured
	}
	priceAfter, err := e.amm.Price(poolID)
	if err != nil {
		return nil, fmt.Errorf("read pool price: %w", err)
	}
	priceBefore := p.LastPriceBefore
	if priceBefore == 0 {
		priceBefore = priceAfter
	}

	volQuote := amount
	d0, d1 := -amount / priceBefore, amount
	if dir == types.SellBase {
		volQuote = amount * priceBefore
		d0, d1 = amount, -volQuote
	}
	p.RecordTrade(dir, volQuote, priceBefore, priceAfter)
	if err := p.ApplyDeltas(d0, d1); err != nil {
		return nil, fmt.Errorf("reconcile trade inventory: %w", err)
	}

	if !e.guard.TryEnter() {
		// nested entry from a speculative sub-call: bookkeeping only
		metrics.ArbSkippedReentrant.Inc()
		return nil, nil
	}
	defer e.guard.Exit()

	return e.attemptArb(p, poolID, priceAfter)
}

func (e *Engine) attemptArb(p *registry.PoolState, poolID types.PoolID, pa float64) (*types.ArbReport, error) {
	pb, err := e.amm.Price(p.RefKey.ID())
	if err != nil {
		return nil, fmt.Errorf("read reference price: %w", err)
	}
	if pa == pb {
		return nil, nil
	}
	dir := types.SellQuote
	if pa > pb {
		dir = types.SellBase
	}

	metrics.ArbAttempts.Inc()
	res, err := e.refiner.Run(p.Key, p.RefKey, dir, pa, pb, p.AvgIlliq, p.AvgIlliqRef)
	if err != nil {
		return nil, err
	}
	if res.IlliqRef > 0 {
		p.FoldRefIlliquidity(res.IlliqRef)
	}
	if res.AmountIn <= 0 || res.GrossProfit <= 0 {
		metrics.ArbNoOpportunity.Inc()
		return nil, nil
	}

	net := e.gate.NetProfit(res.GrossProfit, res.GasEstimate, res.PriceOwn, p.DecimalsDelta)
	priorGap := arb.GapPips(pa, pb)
	newGap := arb.GapPips(res.PriceOwn, res.PriceRef)
	if net <= 0 || !e.gate.GapImproved(priorGap, newGap) {
		metrics.ArbNoOpportunity.Inc()
		e.log.Debug("no opportunity",
			zap.String("pool", poolID.Hex()),
			zap.Float64("net", net),
			zap.Float64("gap_before_pips", priorGap),
			zap.Float64("gap_after_pips", newGap),
		)
		return nil, nil
	}

	report, err := e.exec.Execute(p.Key, p.RefKey, res)
	if err != nil {
		return nil, err
	}
	report.Pool = poolID

	// the primary leg moved our own inventory too
	if err := p.ApplyDeltas(-report.LegADelta0, -report.LegADelta1); err != nil {
		return nil, fmt.Errorf("reconcile arb inventory: %w", err)
	}
	p.LastPriceAfter = report.PriceOwn

	metrics.ArbExecuted.Inc()
	metrics.ArbProfitQuote.Add(report.Profit0*report.PriceOwn + report.Profit1)
	return &report, nil
}
