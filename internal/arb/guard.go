package arb

import "sync/atomic"

// GuardState is the reentrancy guard's position.
type GuardState int32

const (
	Idle GuardState = iota
	Executing
)

// Guard is a two-state machine protecting the arbitrage sub-pipeline
// from re-entering itself through the speculative quoting surface.
// Enter before the solver/refinement/execution sequence and Exit
// unconditionally on every path out.
type Guard struct {
	state atomic.Int32
}

// TryEnter transitions Idle -> Executing. A false return means a pipeline
// invocation is already live and the caller must skip the arbitrage
// sub-pipeline, falling through to ordinary bookkeeping only.
func (g *Guard) TryEnter() bool {
	return g.state.CompareAndSwap(int32(Idle), int32(Executing))
}

// Exit returns the guard to Idle regardless of how the pipeline ended.
func (g *Guard) Exit() {
	g.state.Store(int32(Idle))
}

func (g *Guard) State() GuardState {
	return GuardState(g.state.Load())
}
