package fee

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompose_NoSignal(t *testing.T) {
	c := NewComposer(1, 5000)
	assert.Equal(t, 30.0, c.Compose(0, 30, 0.05, 0.9))
}

func TestCompose_Surcharge(t *testing.T) {
	c := NewComposer(1, 5000)
	// 1% expected impact, half the pool on the incoming side, fully
	// one-sided flow: 0.01 * 1e4 * 0.5 * 1 = 50 bps on top
	assert.InDelta(t, 80.0, c.Compose(1, 30, 0.01, 0.5), 1e-9)
}

func TestCompose_MonotoneInEachFactor(t *testing.T) {
	c := NewComposer(1, 0) // no clamp so monotonicity is strict
	base := c.Compose(0.5, 30, 0.01, 0.5)

	assert.GreaterOrEqual(t, c.Compose(0.9, 30, 0.01, 0.5), base)
	assert.GreaterOrEqual(t, c.Compose(-0.9, 30, 0.01, 0.5), base) // |pin| matters, not sign
	assert.GreaterOrEqual(t, c.Compose(0.5, 30, 0.02, 0.5), base)
	assert.GreaterOrEqual(t, c.Compose(0.5, 30, 0.01, 0.8), base)
}

func TestCompose_ClampedAtMax(t *testing.T) {
	c := NewComposer(1, 100)
	assert.Equal(t, 100.0, c.Compose(1, 30, 10, 1))
}

func TestCompose_Divisor(t *testing.T) {
	c := NewComposer(10, 0)
	assert.InDelta(t, 35.0, c.Compose(1, 30, 0.01, 0.5), 1e-9)
}
