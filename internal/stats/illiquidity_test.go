package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObserve(t *testing.T) {
	// 2% price move on 5000 of quote volume
	assert.InDelta(t, 0.02/5000, Observe(0.02, 5000), 1e-12)
}

func TestObserve_ZeroVolume(t *testing.T) {
	assert.Equal(t, 0.0, Observe(0.02, 0))
	assert.Equal(t, 0.0, Observe(0.02, -1))
}

func TestFold_FirstSample(t *testing.T) {
	// sampleCount == 0 must set the average directly
	assert.Equal(t, 3.5, Fold(0, 3.5, 0))
	assert.Equal(t, 3.5, Fold(999, 3.5, 0))
}

func TestFold_RunningMean(t *testing.T) {
	avg := Fold(0, 10, 0)
	avg = Fold(avg, 20, 1)
	assert.InDelta(t, 15.0, avg, 1e-12)
	avg = Fold(avg, 30, 2)
	assert.InDelta(t, 20.0, avg, 1e-12)
}
