package amm

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/itskillian/hookathon-hooks/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func poolKey(feeTier uint32) types.PoolKey {
	return types.PoolKey{
		Token0:  common.HexToAddress("0x01"),
		Token1:  common.HexToAddress("0x02"),
		FeeTier: feeTier,
	}
}

func TestSimulateSwap_NoPersistedEffect(t *testing.T) {
	key := poolKey(3000)
	e := New(120000)
	e.AddPool(key, 2500, 125, 1000, 1e6)

	q, err := e.SimulateSwap(key, types.SellBase, 1)
	require.NoError(t, err)
	assert.InDelta(t, 2500.0, q.AmountOut, 1e-9)
	assert.InDelta(t, 2480.0, q.ResultingPrice, 1e-9) // 1/125 move off 2500
	assert.Equal(t, 120000.0, q.GasEstimate)

	price, err := e.Price(key.ID())
	require.NoError(t, err)
	assert.Equal(t, 2500.0, price)
	liq, err := e.Liquidity(key.ID())
	require.NoError(t, err)
	assert.Equal(t, 125.0, liq)
}

func TestExecuteSwap_SellBase(t *testing.T) {
	key := poolKey(3000)
	e := New(120000)
	e.AddPool(key, 2500, 125, 1000, 1e6)

	d0, d1, err := e.ExecuteSwap(key, types.SellBase, 1, 0)
	require.NoError(t, err)
	assert.InDelta(t, -1.0, d0, 1e-9)
	assert.InDelta(t, 2500.0, d1, 1e-9)

	price, err := e.Price(key.ID())
	require.NoError(t, err)
	assert.InDelta(t, 2480.0, price, 1e-9)
}

func TestExecuteSwap_SellQuote(t *testing.T) {
	key := poolKey(3000)
	e := New(120000)
	e.AddPool(key, 2500, 125, 1000, 1e6)

	d0, d1, err := e.ExecuteSwap(key, types.SellQuote, 2500, 0)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, d0, 1e-9)
	assert.InDelta(t, -2500.0, d1, 1e-9)

	price, err := e.Price(key.ID())
	require.NoError(t, err)
	assert.InDelta(t, 2520.0, price, 1e-9)
}

func TestExecuteSwap_PriceLimitClamps(t *testing.T) {
	key := poolKey(3000)
	e := New(120000)
	e.AddPool(key, 2500, 125, 1000, 1e6)

	// unbounded the move would land on 2480; the limit stops it at 2490
	_, _, err := e.ExecuteSwap(key, types.SellBase, 1, 2490)
	require.NoError(t, err)
	price, err := e.Price(key.ID())
	require.NoError(t, err)
	assert.InDelta(t, 2490.0, price, 1e-9)
}

func TestExecuteSwap_Drained(t *testing.T) {
	key := poolKey(3000)
	e := New(120000)
	e.AddPool(key, 2500, 125, 1000, 100) // only 100 quote on hand

	_, _, err := e.ExecuteSwap(key, types.SellBase, 1, 0)
	require.ErrorIs(t, err, ErrDrained)
}

func TestSimulateSwap_DrainedMatchesExecute(t *testing.T) {
	key := poolKey(3000)
	e := New(120000)
	e.AddPool(key, 2500, 125, 1000, 100) // only 100 quote on hand

	// a swap that cannot commit must not quote either
	_, err := e.SimulateSwap(key, types.SellBase, 1)
	require.ErrorIs(t, err, ErrDrained)

	e.AddPool(key, 2500, 125, 0.5, 1e6) // only 0.5 base on hand
	_, err = e.SimulateSwap(key, types.SellQuote, 2500)
	require.ErrorIs(t, err, ErrDrained)
	_, _, err = e.ExecuteSwap(key, types.SellQuote, 2500, 0)
	require.ErrorIs(t, err, ErrDrained)
}

func TestExecuteSwap_UnknownPool(t *testing.T) {
	e := New(120000)
	_, _, err := e.ExecuteSwap(poolKey(3000), types.SellBase, 1, 0)
	require.ErrorIs(t, err, ErrUnknownPool)
}

func TestSwap_RejectsNonPositiveInput(t *testing.T) {
	key := poolKey(3000)
	e := New(120000)
	e.AddPool(key, 2500, 125, 1000, 1e6)

	_, err := e.SimulateSwap(key, types.SellBase, 0)
	require.Error(t, err)
	_, err = e.SimulateSwap(key, types.SellQuote, -5)
	require.Error(t, err)
}

func TestSettlementLedger(t *testing.T) {
	e := New(120000)
	asset := common.HexToAddress("0x02")

	require.NoError(t, e.Take(asset, 50))
	require.NoError(t, e.Settle(asset, 20))
	assert.InDelta(t, 30.0, e.Balance(asset), 1e-9)

	require.Error(t, e.Settle(asset, -1))
	require.Error(t, e.Take(asset, -1))
}
