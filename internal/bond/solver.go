package bond

import (
	"errors"
	"math"
)

const (
	solverAccuracy  = 1e-10
	solverMaxIter   = 200
	bracketMaxSteps = 60
)

var errNoConvergence = errors.New("yield solver did not converge")

// solve finds a root of fn, which returns the value and the derivative and
// must be decreasing, starting from guess. Only the upper bound is widened. Newton steps that leave the
// bracket fall back to bisection.
func solve(fn func(float64) (float64, float64), guess, lower, upper float64) (float64, error) {
	flo, _ := fn(lower)
	fhi, _ := fn(upper)
	for i := 0; fhi > 0 && i < bracketMaxSteps; i++ {
		upper *= 2
		fhi, _ = fn(upper)
	}
	if math.IsNaN(flo) || math.IsNaN(fhi) || flo < 0 || fhi > 0 {
		return math.NaN(), errNoConvergence
	}

	x := guess
	if x <= lower || x >= upper {
		x = (lower + upper) / 2
	}
	for i := 0; i < solverMaxIter; i++ {
		fx, dfx := fn(x)
		if fx == 0 {
			return x, nil
		}
		if fx > 0 {
			lower = x
		} else {
			upper = x
		}

		next := x - fx/dfx
		if dfx == 0 || math.IsNaN(next) || next <= lower || next >= upper {
			next = (lower + upper) / 2
		}
		if math.Abs(next-x) < solverAccuracy {
			return next, nil
		}
		x = next
	}
	return math.NaN(), errNoConvergence
}
