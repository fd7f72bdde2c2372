// arbtail follows the engine's Redis event stream and prints captured
// arbitrage as it happens, for watching a running engine from another
// terminal.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/itskillian/hookathon-hooks/internal/config"
	"github.com/itskillian/hookathon-hooks/internal/connectors/redisfeed"
	"github.com/itskillian/hookathon-hooks/internal/types"
)

func main() {
	cfgPath := flag.String("config", "config.yaml", "path to config file")
	fromStart := flag.Bool("from-start", false, "replay the whole stream instead of new events only")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if cfg.Redis.Addr == "" {
		fmt.Fprintln(os.Stderr, "redis.addr is not set")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	con := redisfeed.NewConsumer(cfg)
	defer con.Close()

	lastID := ""
	if *fromStart {
		lastID = "0"
	}

	out := make(chan types.ArbReport, 64)
	go func() {
		for r := range out {
			fmt.Printf("%s  %s %-10s in=%-12g profit0=%-10g profit1=%-10g own=%.4f ref=%.4f\n",
				r.Ts.Format("15:04:05.000"), r.Pool.Hex()[:10], r.Direction,
				r.AmountIn, r.Profit0, r.Profit1, r.PriceOwn, r.PriceRef)
		}
	}()

	if err := con.Tail(ctx, lastID, out); err != nil && ctx.Err() == nil {
		fmt.Fprintf(os.Stderr, "tail: %v\n", err)
		os.Exit(1)
	}
}
