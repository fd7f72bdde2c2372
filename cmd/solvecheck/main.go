// solvecheck runs the equilibrium solver on operator-supplied prices and
// illiquidity estimates and prints the candidate trade size with the
// prices the linear model implies. Handy for eyeballing solver behavior
// before feeding a scenario to the engine.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/itskillian/hookathon-hooks/internal/arb"
	"github.com/itskillian/hookathon-hooks/internal/types"
)

func main() {
	pa := flag.Float64("pa", 0, "primary pool price")
	pb := flag.Float64("pb", 0, "reference pool price")
	ia := flag.Float64("ia", 0, "primary illiquidity (per quote volume)")
	ib := flag.Float64("ib", 0, "reference illiquidity (per quote volume)")
	flag.Parse()

	if *pa <= 0 || *pb <= 0 {
		fmt.Fprintln(os.Stderr, "both -pa and -pb must be positive")
		os.Exit(2)
	}

	dir := types.SellQuote
	if *pa > *pb {
		dir = types.SellBase
	}
	x := arb.SolveEquilibrium(*pa, *pb, *ia, *ib, dir)

	fmt.Printf("direction: %s\n", dir)
	fmt.Printf("input:     %g\n", x)
	if x > 0 {
		volQuote := x
		if dir == types.SellBase {
			volQuote = x * *pa
		}
		ownMove := *ia * volQuote
		refMove := *ib * volQuote
		newPa, newPb := *pa*(1-ownMove), *pb*(1+refMove)
		if dir == types.SellQuote {
			newPa, newPb = *pa*(1+ownMove), *pb*(1-refMove)
		}
		fmt.Printf("implied:   own %.6f  ref %.6f  gap %.3f pips\n",
			newPa, newPb, arb.GapPips(newPa, newPb))
	}
}
