// Package arb contains the self-arbitrage pipeline: the closed-form
// equilibrium solver, the quote-refinement loop that corrects it against
// the real liquidity curve, the profitability gate and the two-leg
// executor.
package arb

import (
	"math"

	"github.com/itskillian/hookathon-hooks/internal/types"
)

// SolveEquilibrium estimates the leg-A input amount that equalizes the
// two pool prices under the linear impact model
// newPrice = price * (1 ± illiquidity * volume), with illiquidity
// expressed per unit of quote-denominated volume.
//
// dir is the leg-A direction on the primary pool: SellBase when the
// primary pool is overpriced, SellQuote when it is underpriced. The
// returned amount is denominated in leg A's input asset.
//
// Degenerate inputs short-circuit: both illiquidities zero means the
// impact model is flat and no finite trade equalizes anything, so the
// result is zero. A single zero illiquidity borrows the other side's
// value as a conservative stand-in.
func SolveEquilibrium(pa, pb, ia, ib float64, dir types.Direction) float64 {
	if pa <= 0 || pb <= 0 {
		return 0
	}
	if ia == 0 && ib == 0 {
		return 0
	}
	if ia == 0 {
		ia = ib
	}
	if ib == 0 {
		ib = ia
	}

	var a, b, c float64
	if dir == types.SellBase {
		a = pa * pa * pb * ia * ib
		b = -(pa*pb*ib + pa*pa*ia)
		c = pa - pb
	} else {
		a = pa * pa * ia * ia
		b = 2*pa*pa*ia + pb*pb*ib - pa*pb*ia
		c = pa*pa - pa*pb
	}
	return smallestNonNegativeRoot(a, b, c)
}

// smallestNonNegativeRoot picks the economically meaningful root of
// a*x^2 + b*x + c = 0: the first crossing of price equality at or above
// zero. Equal prices (c == 0) therefore solve to zero input.
func smallestNonNegativeRoot(a, b, c float64) float64 {
	if a == 0 {
		if b == 0 {
			return 0
		}
		if x := -c / b; x > 0 {
			return x
		}
		return 0
	}
	if a < 0 {
		a, b, c = -a, -b, -c
	}
	disc := b*b - 4*a*c
	if disc < 0 {
		return 0
	}
	s := math.Sqrt(disc)
	lo := (-b - s) / (2 * a)
	hi := (-b + s) / (2 * a)
	if lo >= 0 {
		return lo
	}
	if hi >= 0 {
		return hi
	}
	return 0
}
