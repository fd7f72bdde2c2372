package stats

import "github.com/itskillian/hookathon-hooks/internal/types"

// Exposure returns the normalized share of pool value held in the asset
// the pool is about to receive more of. Inventory of the base asset is
// valued in quote terms at the current price. An empty pool (zero total
// value) has zero exposure.
func Exposure(inventoryBase, inventoryQuote, price float64, dir types.Direction) float64 {
	baseValue := inventoryBase * price
	total := baseValue + inventoryQuote
	if total <= 0 {
		return 0
	}
	if dir == types.SellBase {
		return baseValue / total
	}
	return inventoryQuote / total
}
