// Package fee turns the toxicity, impact and inventory signals into a
// per-trade fee override, expressed in basis points.
package fee

import "math"

// Composer combines the three risk factors into a fee surcharge on top of
// a pool's minimum fee. Divisor normalizes the product of the
// independently-scaled factors back into basis points; MaxBps caps the
// final fee at the protocol maximum.
type Composer struct {
	Divisor float64
	MaxBps  float64
}

func NewComposer(divisor, maxBps float64) *Composer {
	if divisor <= 0 {
		divisor = 1
	}
	return &Composer{Divisor: divisor, MaxBps: maxBps}
}

// Compose returns the fee override for one trade. With no flow signal
// (pin == 0) the minimum fee passes through untouched. Otherwise the
// surcharge grows monotonically in expected price impact, inventory
// exposure and |pin|.
func (c *Composer) Compose(pin, minFeeBps, expectedPriceImpact, inventoryExposure float64) float64 {
	if pin == 0 {
		return minFeeBps
	}
	surcharge := expectedPriceImpact * 1e4 * inventoryExposure * math.Abs(pin) / c.Divisor
	feeBps := minFeeBps + surcharge
	if c.MaxBps > 0 && feeBps > c.MaxBps {
		return c.MaxBps
	}
	return feeBps
}
