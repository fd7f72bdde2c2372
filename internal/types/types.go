package types

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Direction names the asset a trader (or an arbitrage leg) sells into a pool.
type Direction string

const (
	SellBase  Direction = "SELL_BASE"  // input is token0, output is token1
	SellQuote Direction = "SELL_QUOTE" // input is token1, output is token0
)

// Opposite flips the leg direction: the output asset of one leg is the
// input asset of the next.
func (d Direction) Opposite() Direction {
	if d == SellBase {
		return SellQuote
	}
	return SellBase
}

// PoolID identifies a managed pool.
type PoolID = common.Hash

// PoolKey is the pair + fee tier a pool is addressed by on the price-curve
// engine. Token0 is the base asset, Token1 the quote asset.
type PoolKey struct {
	Token0  common.Address `yaml:"token0"`
	Token1  common.Address `yaml:"token1"`
	FeeTier uint32         `yaml:"fee_tier"`
}

// ID derives the pool identifier from the key the same way on-chain pool
// managers do: keccak over the packed pair and fee tier.
func (k PoolKey) ID() PoolID {
	var buf [44]byte
	copy(buf[0:20], k.Token0.Bytes())
	copy(buf[20:40], k.Token1.Bytes())
	buf[40] = byte(k.FeeTier >> 24)
	buf[41] = byte(k.FeeTier >> 16)
	buf[42] = byte(k.FeeTier >> 8)
	buf[43] = byte(k.FeeTier)
	return crypto.Keccak256Hash(buf[:])
}

// SamePair reports whether two keys address the same asset pair.
func (k PoolKey) SamePair(other PoolKey) bool {
	return k.Token0 == other.Token0 && k.Token1 == other.Token1
}

// Quote is the outcome of one simulated swap. It is ephemeral and never
// persisted; the engine guarantees the simulation left no state behind.
type Quote struct {
	AmountOut      float64
	GasEstimate    float64
	ResultingPrice float64
}

// ArbQuoteResult is the best candidate found by the refinement loop.
// It is owned by a single post-trade pipeline invocation and discarded
// after the profitability decision.
type ArbQuoteResult struct {
	AmountIn    float64   // leg-A input, in leg-A's input asset
	Direction   Direction // leg-A direction on the primary pool
	GrossProfit float64   // quote-asset terms
	PriceOwn    float64   // simulated post-trade price of the primary pool
	PriceRef    float64   // simulated post-trade price of the reference pool
	GasEstimate float64   // both legs of the best round
	IlliqOwn    float64   // illiquidity derived from the last simulated leg A
	IlliqRef    float64   // illiquidity derived from the last simulated leg B
}

// ArbReport describes an executed arbitrage: what was captured and where
// the prices landed.
type ArbReport struct {
	Pool       PoolID
	Direction  Direction
	AmountIn   float64
	Profit0    float64 // captured token0, base asset
	Profit1    float64 // captured token1, quote asset
	LegADelta0 float64 // caller-side primary-leg deltas, for inventory reconciliation
	LegADelta1 float64
	PriceOwn   float64
	PriceRef   float64
	GasUsed    float64
	Ts         time.Time
}
