package stats

import "github.com/itskillian/hookathon-hooks/internal/types"

// PIN estimates order-flow imbalance including the hypothetical next
// trade: (netVolume ± hypotheticalVolume) / (totalVolume + hypotheticalVolume),
// clamped to [-1, 1]. A trade selling the base asset subtracts from net
// volume. The zero-denominator case only happens before a pool's first
// trade and returns 0.
func PIN(totalVolume, netVolume, hypotheticalVolume float64, dir types.Direction) float64 {
	denom := totalVolume + hypotheticalVolume
	if denom == 0 {
		return 0
	}
	num := netVolume + hypotheticalVolume
	if dir == types.SellBase {
		num = netVolume - hypotheticalVolume
	}
	pin := num / denom
	if pin > 1 {
		return 1
	}
	if pin < -1 {
		return -1
	}
	return pin
}
