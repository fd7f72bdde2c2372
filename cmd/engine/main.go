package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/itskillian/hookathon-hooks/internal/amm"
	"github.com/itskillian/hookathon-hooks/internal/arb"
	"github.com/itskillian/hookathon-hooks/internal/config"
	"github.com/itskillian/hookathon-hooks/internal/connectors/redisfeed"
	"github.com/itskillian/hookathon-hooks/internal/dash"
	"github.com/itskillian/hookathon-hooks/internal/engine"
	"github.com/itskillian/hookathon-hooks/internal/metrics"
	"github.com/itskillian/hookathon-hooks/internal/registry"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func newLogger() (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	cfg.Encoding = "json"
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.LevelKey = "level"
	cfg.EncoderConfig.MessageKey = "msg"
	cfg.EncoderConfig.CallerKey = "caller"
	cfg.EncoderConfig.StacktraceKey = "stacktrace"
	cfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout(time.RFC3339)
	return cfg.Build()
}

func main() {
	cfgPath := flag.String("config", "./config.yaml", "path to config")
	scenPath := flag.String("scenario", "./scenario.yaml", "path to trade scenario")
	tradeGap := flag.Duration("trade-gap", 250*time.Millisecond, "pause between replayed trades")
	flag.Parse()

	logger, err := newLogger()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		logger.Fatal("config load failed", zap.Error(err))
	}
	scen, err := loadScenario(*scenPath)
	if err != nil {
		logger.Fatal("scenario load failed", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigs
		logger.Warn("received signal, shutting down...")
		cancel()
	}()

	metrics.Serve(ctx, cfg.Metrics.ListenAddr, nil, logger)
	store := dash.NewStore()
	if cfg.Dash.ListenAddr != "" {
		go dash.StartHTTP(ctx, store, cfg.Dash.ListenAddr, logger)
	}

	var pub *redisfeed.Publisher
	if cfg.Redis.Addr != "" {
		pub = redisfeed.NewPublisher(cfg)
		defer pub.Close()
	}

	operator := common.HexToAddress(scen.Operator)
	if operator == (common.Address{}) {
		logger.Fatal("scenario operator address is empty")
	}

	curve := amm.New(cfg.Arb.GasPerSwap)
	reg := registry.New(operator, cfg.Fee.MaxBps, logger)
	reg.OnConfigured = func(c registry.ConfigChange) {
		logger.Info("configuration changed",
			zap.String("pool", c.Pool.Hex()),
			zap.String("reference", c.Reference.ID().Hex()),
		)
	}

	for _, sp := range scen.Pools {
		key, refKey := sp.Key(), sp.RefKey()
		curve.AddPool(key, sp.Price, sp.Liquidity, sp.Balance0, sp.Balance1)
		curve.AddPool(refKey, sp.RefPrice, sp.RefLiquidity, sp.Balance0, sp.Balance1)

		id, err := reg.Register(key, operator, sp.MinFee(cfg.Fee.MinBps), 0)
		if err != nil {
			logger.Fatal("pool registration failed", zap.Error(err))
		}
		if err := reg.AddLiquidity(id, sp.Balance0, sp.Balance1); err != nil {
			logger.Fatal("pool seeding failed", zap.Error(err))
		}
		if err := reg.Configure(operator, id, true, key, refKey); err != nil {
			logger.Fatal("pool configuration failed", zap.Error(err))
		}
	}

	eng := engine.New(cfg, reg, curve, logger)

	for i, tr := range scen.Trades {
		if ctx.Err() != nil {
			break
		}
		sp := scen.Pools[tr.Pool]
		key := sp.Key()
		id := key.ID()
		dir, err := tr.Dir()
		if err != nil {
			logger.Fatal("bad trade", zap.Int("trade", i), zap.Error(err))
		}

		feeBps, err := eng.FeeForTrade(id, dir, tr.Amount)
		if err != nil {
			logger.Fatal("fee computation failed", zap.Int("trade", i), zap.Error(err))
		}
		if _, _, err := curve.ExecuteSwap(key, dir, tr.Amount, 0); err != nil {
			logger.Error("trader swap failed", zap.Int("trade", i), zap.Error(err))
			continue
		}
		report, err := eng.AfterTrade(id, dir, tr.Amount)
		if err != nil {
			logger.Fatal("post-trade pipeline failed", zap.Int("trade", i), zap.Error(err))
		}

		p, _ := reg.Get(id)
		price, _ := curve.Price(id)
		refPrice, _ := curve.Price(sp.RefKey().ID())
		store.Update(dash.Row{
			Pool:        id.Hex(),
			Price:       price,
			RefPrice:    refPrice,
			GapPips:     arb.GapPips(price, refPrice),
			AvgIlliq:    p.AvgIlliq,
			TotalVolume: p.TotalVolume,
			TradeCount:  p.TradeCount,
			LastFeeBps:  feeBps,
		})
		logger.Info("trade replayed",
			zap.Int("trade", i),
			zap.String("direction", string(dir)),
			zap.Float64("amount", tr.Amount),
			zap.Float64("fee_bps", feeBps),
			zap.Bool("arb_executed", report != nil),
		)

		if report != nil {
			store.AddCaptured(id.Hex(), report.Profit0*report.PriceOwn+report.Profit1)
			if pub != nil {
				if err := pub.PublishArb(ctx, *report); err != nil {
					logger.Warn("publish arb failed", zap.Error(err))
				}
			}
		}
		if pub != nil {
			if err := pub.UpsertPoolSnapshot(ctx, id, price, p.AvgIlliq, p.TotalVolume, p.TradeCount); err != nil {
				logger.Warn("publish snapshot failed", zap.Error(err))
			}
		}

		select {
		case <-ctx.Done():
		case <-time.After(*tradeGap):
		}
	}

	logger.Info("scenario finished", zap.Int("trades", len(scen.Trades)))
	if cfg.Dash.ListenAddr != "" || cfg.Metrics.ListenAddr != "" {
		<-ctx.Done()
	}
}
