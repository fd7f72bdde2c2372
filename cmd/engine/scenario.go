package main

import (
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/itskillian/hookathon-hooks/internal/types"
	"gopkg.in/yaml.v3"
)

// Scenario is a replayable trade script: pool pairs to seed on the
// in-memory engine plus the trades to push through the pipeline.
type Scenario struct {
	Operator string         `yaml:"operator"`
	Pools    []ScenarioPool `yaml:"pools"`
	Trades   []Trade        `yaml:"trades"`
}

type ScenarioPool struct {
	Token0     string  `yaml:"token0"`
	Token1     string  `yaml:"token1"`
	FeeTier    uint32  `yaml:"fee_tier"`
	RefFeeTier uint32  `yaml:"ref_fee_tier"`

	Price        float64 `yaml:"price"`
	RefPrice     float64 `yaml:"ref_price"`
	Liquidity    float64 `yaml:"liquidity"`
	RefLiquidity float64 `yaml:"ref_liquidity"`

	Balance0  float64 `yaml:"balance0"`
	Balance1  float64 `yaml:"balance1"`
	MinFeeBps float64 `yaml:"min_fee_bps"`
}

type Trade struct {
	Pool      int     `yaml:"pool"` // index into Pools
	Direction string  `yaml:"direction"`
	Amount    float64 `yaml:"amount"`
}

func (p ScenarioPool) Key() types.PoolKey {
	return types.PoolKey{
		Token0:  common.HexToAddress(p.Token0),
		Token1:  common.HexToAddress(p.Token1),
		FeeTier: p.FeeTier,
	}
}

func (p ScenarioPool) RefKey() types.PoolKey {
	return types.PoolKey{
		Token0:  common.HexToAddress(p.Token0),
		Token1:  common.HexToAddress(p.Token1),
		FeeTier: p.RefFeeTier,
	}
}

// MinFee returns the pool's fee floor, falling back to the engine-wide
// default when the scenario leaves it unset.
func (p ScenarioPool) MinFee(def float64) float64 {
	if p.MinFeeBps > 0 {
		return p.MinFeeBps
	}
	return def
}

func (t Trade) Dir() (types.Direction, error) {
	switch types.Direction(t.Direction) {
	case types.SellBase, types.SellQuote:
		return types.Direction(t.Direction), nil
	}
	return "", fmt.Errorf("unknown direction %q", t.Direction)
}

func loadScenario(path string) (*Scenario, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var s Scenario
	if err := yaml.Unmarshal(b, &s); err != nil {
		return nil, err
	}
	if len(s.Pools) == 0 {
		return nil, fmt.Errorf("scenario has no pools")
	}
	for i, t := range s.Trades {
		if t.Pool < 0 || t.Pool >= len(s.Pools) {
			return nil, fmt.Errorf("trade %d references unknown pool %d", i, t.Pool)
		}
	}
	return &s, nil
}
