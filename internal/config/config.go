package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Fee struct {
		MinBps  float64 `yaml:"min_bps"`
		MaxBps  float64 `yaml:"max_bps"`
		Divisor float64 `yaml:"divisor"`
	} `yaml:"fee"`

	Arb struct {
		RefineRounds int     `yaml:"refine_rounds"`
		GasPrice     float64 `yaml:"gas_price"`
		GasPerSwap   float64 `yaml:"gas_per_swap"`
	} `yaml:"arb"`

	Metrics struct {
		ListenAddr string `yaml:"listen_addr"`
	} `yaml:"metrics"`

	Dash struct {
		ListenAddr string `yaml:"listen_addr"`
	} `yaml:"dash"`

	Redis struct {
		Addr     string `yaml:"addr"`
		DB       int    `yaml:"db"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		Stream   string `yaml:"stream"`
	} `yaml:"redis"`
}

func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	c.applyDefaults()
	return &c, nil
}

// Default returns a config with defaults only, for tests and tooling.
func Default() *Config {
	var c Config
	c.applyDefaults()
	return &c
}

func (c *Config) applyDefaults() {
	if c.Fee.MinBps == 0 {
		c.Fee.MinBps = 30
	}
	if c.Fee.MaxBps == 0 {
		c.Fee.MaxBps = 5000
	}
	if c.Fee.Divisor == 0 {
		c.Fee.Divisor = 1
	}
	if c.Arb.RefineRounds == 0 {
		c.Arb.RefineRounds = 3
	}
	if c.Arb.GasPerSwap == 0 {
		c.Arb.GasPerSwap = 120_000
	}
	if c.Redis.Stream == "" {
		c.Redis.Stream = "engine:arb"
	}
}
