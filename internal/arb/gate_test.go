package arb

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNetProfit(t *testing.T) {
	g := NewGate(1e-9)
	// 240k gas at 1 gwei, settled at price 2485
	gasCost := 240000 * 1e-9 * 2485.0
	assert.InDelta(t, 50-gasCost, g.NetProfit(50, 240000, 2485, 0), 1e-9)
}

func TestNetProfit_FlooredAtZero(t *testing.T) {
	g := NewGate(1.0)
	assert.Equal(t, 0.0, g.NetProfit(50, 240000, 2485, 0))
}

func TestNetProfit_DecimalsDelta(t *testing.T) {
	g := NewGate(1e-9)
	withDelta := g.NetProfit(50, 240000, 2485, 2)
	without := g.NetProfit(50, 240000, 2485, 0)
	assert.Less(t, withDelta, without)
}

func TestGapImproved(t *testing.T) {
	g := NewGate(0)
	assert.True(t, g.GapImproved(200, 1))
	assert.False(t, g.GapImproved(200, 200)) // strict narrowing required
	assert.False(t, g.GapImproved(1, 200))
}

func TestGapPips(t *testing.T) {
	assert.InDelta(t, 200.0, GapPips(2450, 2500), 1e-9)
	assert.InDelta(t, 200.0, GapPips(2550, 2500), 1e-9)
	assert.Equal(t, 0.0, GapPips(2500, 0))
}
