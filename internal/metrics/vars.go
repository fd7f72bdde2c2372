package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	FeeOverrideBps = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "engine_fee_override_bps",
		Help: "Last computed dynamic fee override (bps)",
	})

	ArbAttempts = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "engine_arb_attempts_total",
		Help: "Post-trade arbitrage pipeline invocations",
	})

	ArbExecuted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "engine_arb_executed_total",
		Help: "Arbitrages that passed the gate and were executed",
	})

	ArbNoOpportunity = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "engine_arb_no_opportunity_total",
		Help: "Arbitrage attempts declined by the profitability gate",
	})

	ArbSkippedReentrant = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "engine_arb_skipped_reentrant_total",
		Help: "Nested pipeline entries suppressed by the reentrancy guard",
	})

	ArbProfitQuote = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "engine_arb_profit_quote_total",
		Help: "Cumulative captured profit in quote-asset terms",
	})

	ArbConvergenceDistance = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "engine_arb_convergence_distance",
		Help: "Distance between consecutive refinement-round candidates",
	})
)

func init() {
	prometheus.MustRegister(
		FeeOverrideBps,
		ArbAttempts,
		ArbExecuted,
		ArbNoOpportunity,
		ArbSkippedReentrant,
		ArbProfitQuote,
		ArbConvergenceDistance,
	)
}
