package arb

import "math"

// Gate decides whether a refined arbitrage candidate is worth executing.
// Both checks must pass: positive profit net of gas, and a strictly
// narrower price gap between the two pools after the simulated trade.
// A declined candidate is a normal no-opportunity outcome, not an error.
type Gate struct {
	gasPrice float64 // settlement cost per unit of gas, native-asset terms
}

func NewGate(gasPrice float64) *Gate {
	return &Gate{gasPrice: gasPrice}
}

// NetProfit converts the aggregated gas estimate into the settlement
// asset at the final price, adjusted by the decimal-scale delta between
// the two assets, and floors the result at zero.
func (g *Gate) NetProfit(grossProfit, gasEstimate, finalPrice float64, decimalsDelta int) float64 {
	gasCost := gasEstimate * g.gasPrice * finalPrice * math.Pow(10, float64(decimalsDelta))
	net := grossProfit - gasCost
	if net < 0 {
		return 0
	}
	return net
}

// GapImproved reports whether the absolute price gap strictly narrowed.
func (g *Gate) GapImproved(priorGapPips, newGapPips float64) bool {
	return newGapPips < priorGapPips
}

// GapPips measures the relative price gap between two pools in pips
// (1 pip = one basis point of the reference price).
func GapPips(pa, pb float64) float64 {
	if pb == 0 {
		return 0
	}
	return math.Abs(pa-pb) / pb * 1e4
}
