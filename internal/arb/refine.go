package arb

import (
	"fmt"
	"math"

	"github.com/itskillian/hookathon-hooks/internal/metrics"
	"github.com/itskillian/hookathon-hooks/internal/stats"
	"github.com/itskillian/hookathon-hooks/internal/types"
	"go.uber.org/zap"
)

// Simulator is the speculative quoting surface of the price-curve engine.
// A simulated swap runs the full trade logic and reports its outcome with
// the guarantee that no persisted state differs afterwards.
type Simulator interface {
	SimulateSwap(key types.PoolKey, dir types.Direction, amount float64) (types.Quote, error)
}

// Refiner runs the equilibrium solver against simulated executions for a
// fixed number of rounds, replacing the linear-model illiquidity guesses
// with values derived from the actual simulated price movement each time.
// There is deliberately no convergence early-exit; the round budget is
// the only terminator.
type Refiner struct {
	rounds int
	sim    Simulator
	log    *zap.Logger
}

func NewRefiner(rounds int, sim Simulator, log *zap.Logger) *Refiner {
	if rounds <= 0 {
		rounds = 3
	}
	return &Refiner{rounds: rounds, sim: sim, log: log}
}

// Run searches for the best two-leg candidate. pa/pb are the current
// primary and reference pool prices, ia/ib the starting illiquidity
// estimates (per quote-denominated volume). The returned result carries
// the best input found across rounds; a zero GrossProfit means no
// profitable candidate was seen.
func (r *Refiner) Run(primary, reference types.PoolKey, dir types.Direction, pa, pb, ia, ib float64) (types.ArbQuoteResult, error) {
	best := types.ArbQuoteResult{Direction: dir}
	prev := 0.0

	for round := 0; round < r.rounds; round++ {
		x := SolveEquilibrium(pa, pb, ia, ib, dir)
		metrics.ArbConvergenceDistance.Set(math.Abs(x - prev))
		prev = x
		if x <= 0 {
			// nothing to simulate, and without a simulation the
			// estimates cannot improve
			break
		}

		legA, err := r.sim.SimulateSwap(primary, dir, x)
		if err != nil {
			return best, fmt.Errorf("simulate primary leg: %w", err)
		}
		legB, err := r.sim.SimulateSwap(reference, dir.Opposite(), legA.AmountOut)
		if err != nil {
			return best, fmt.Errorf("simulate reference leg: %w", err)
		}

		if legB.AmountOut > x {
			gross := legB.AmountOut - x // leg-A input asset terms
			if dir == types.SellBase {
				gross *= legA.ResultingPrice
			}
			if gross > best.GrossProfit {
				best = types.ArbQuoteResult{
					AmountIn:    x,
					Direction:   dir,
					GrossProfit: gross,
					PriceOwn:    legA.ResultingPrice,
					PriceRef:    legB.ResultingPrice,
					GasEstimate: legA.GasEstimate + legB.GasEstimate,
				}
			}
		}

		// fold the simulated outcome back into the impact model
		volA := x
		if dir == types.SellBase {
			volA = x * pa
		}
		volB := legA.AmountOut
		if dir.Opposite() == types.SellBase {
			volB = legA.AmountOut * pb
		}
		if next := stats.Observe(math.Abs(legA.ResultingPrice-pa)/pa, volA); next > 0 {
			ia = next
		}
		if next := stats.Observe(math.Abs(legB.ResultingPrice-pb)/pb, volB); next > 0 {
			ib = next
		}

		best.IlliqOwn, best.IlliqRef = ia, ib

		r.log.Debug("refine round",
			zap.Int("round", round),
			zap.Float64("input", x),
			zap.Float64("leg_a_out", legA.AmountOut),
			zap.Float64("leg_b_out", legB.AmountOut),
			zap.Float64("illiq_own", ia),
			zap.Float64("illiq_ref", ib),
		)
	}
	return best, nil
}

// Rounds reports the configured round budget.
func (r *Refiner) Rounds() int { return r.rounds }
