// Package evaluator is the component evaluator library: pure numeric
// functions plus a name-keyed table of component evaluators.
package evaluator

import (
	"math"

	"github.com/okian/pickgate/internal/domain/feature"
	"github.com/okian/pickgate/internal/domain/types"
)

// ProxyOdds is the decimal price assumed when no side-specific odds exist.
// It is an approximation kept for parity, not a market model.
const ProxyOdds = 2.0

// DefaultFormWindow is the trailing match window used by form components.
const DefaultFormWindow = 5

// PoissonTail returns P(X >= floor(threshold)+1) for X ~ Poisson(lambda),
// computed as 1 - sum_{i=0}^{floor(threshold)} lambda^i e^-lambda / i!.
// It returns 0 for lambda <= 0.
func PoissonTail(lambda, threshold float64) float64 {
	if lambda <= 0 || math.IsNaN(lambda) {
		return 0
	}
	k := int(math.Floor(threshold))
	if k < 0 {
		return 1
	}

	// term_i = lambda^i e^-lambda / i!, built iteratively so no factorial
	// table or recursion bounds the domain.
	term := math.Exp(-lambda)
	cdf := term
	for i := 1; i <= k; i++ {
		term *= lambda / float64(i)
		cdf += term
	}
	return Clamp01(1 - cdf)
}

// BothScore returns the independent-events probability that both sides score:
// (1 - e^-home) * (1 - e^-away). It returns 0 if either lambda is <= 0.
func BothScore(lambdaHome, lambdaAway float64) float64 {
	if lambdaHome <= 0 || lambdaAway <= 0 {
		return 0
	}
	return Clamp01((1 - math.Exp(-lambdaHome)) * (1 - math.Exp(-lambdaAway)))
}

// ScoreProbability returns the probability that a side with expected goals
// lambda scores at least once.
func ScoreProbability(lambda float64) float64 {
	return PoissonTail(lambda, 0)
}

// Edge returns probability * odds - 1.
func Edge(probability, odds float64) float64 {
	return probability*odds - 1
}

// ImpliedProbability returns 1/odds, or 0 for non-positive odds.
func ImpliedProbability(odds float64) float64 {
	if odds <= 0 {
		return 0
	}
	return 1 / odds
}

// ComponentVariance returns the population variance of RawValue across the
// available components. It returns 1.0 when none are available.
func ComponentVariance(components []types.ComponentResult) float64 {
	values := availableValues(components)
	if len(values) == 0 {
		return 1.0
	}
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	variance := 0.0
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	return variance / float64(len(values))
}

// ComponentSpread returns max - min across available components, 0 when
// fewer than two are available.
func ComponentSpread(components []types.ComponentResult) float64 {
	values := availableValues(components)
	if len(values) < 2 {
		return 0
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return hi - lo
}

func availableValues(components []types.ComponentResult) []float64 {
	values := make([]float64, 0, len(components))
	for _, c := range components {
		if c.IsAvailable && c.RawValue != nil {
			values = append(values, *c.RawValue)
		}
	}
	return values
}

// FormRate returns the fraction of the first window matches (most recent
// first) satisfying cond. ok is false when there is nothing to evaluate.
func FormRate(matches []feature.FormMatch, window int, cond func(feature.FormMatch) bool) (rate float64, ok bool) {
	if window <= 0 {
		window = DefaultFormWindow
	}
	if len(matches) > window {
		matches = matches[:window]
	}
	if len(matches) == 0 {
		return 0, false
	}
	hits := 0
	for _, m := range matches {
		if cond(m) {
			hits++
		}
	}
	return float64(hits) / float64(len(matches)), true
}

// Clamp01 bounds v to [0,1]. NaN maps to 0.
func Clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
