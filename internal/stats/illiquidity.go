// Package stats holds the per-trade running estimators the fee and
// arbitrage pipelines read: illiquidity, order-flow imbalance (PIN) and
// inventory exposure. All estimators treat degenerate inputs (zero
// volume, zero total value) as defined zero results, never as errors.
package stats

// Observe converts a single (price impact, volume) observation into an
// illiquidity ratio: relative price movement per unit of quote-denominated
// volume. Zero volume yields zero, not a division error.
func Observe(priceImpactRatio, volume float64) float64 {
	if volume <= 0 {
		return 0
	}
	return priceImpactRatio / volume
}

// Fold mixes a new sample into an equal-weighted running mean over
// sampleCount prior samples. The first sample (sampleCount == 0) becomes
// the average directly.
func Fold(previousAverage, newSample float64, sampleCount uint64) float64 {
	if sampleCount == 0 {
		return newSample
	}
	n := float64(sampleCount)
	return (previousAverage*n + newSample) / (n + 1)
}
