package scoring

import (
	"errors"
	"fmt"
	"math"

	"github.com/okian/pickgate/internal/domain/evaluator"
	"github.com/okian/pickgate/internal/domain/feature"
	"github.com/okian/pickgate/internal/domain/market"
	"github.com/okian/pickgate/internal/domain/riskflag"
	"github.com/okian/pickgate/internal/domain/types"
)

// evaluateComponents runs every configured component. A component whose
// inputs are missing, that errors or that panics is reported unavailable.
// failed is true when any component failed for a reason other than missing
// input.
func evaluateComponents(def *market.Definition, c *feature.Contract) (out []types.ComponentResult, failed bool) {
	out = make([]types.ComponentResult, 0, len(def.Components))
	for _, spec := range def.Components {
		entry, _ := evaluator.Lookup(spec.Evaluator)
		res := types.ComponentResult{
			Name:       spec.Name,
			Weight:     spec.Weight,
			DataSource: entry.DataSource,
		}
		v, err := safeEval(entry, c, spec.Params)
		switch {
		case err == nil && !math.IsNaN(v) && !math.IsInf(v, 0):
			v = evaluator.Clamp01(v)
			res.RawValue = &v
			res.IsAvailable = true
			res.WeightedContribution = v * spec.Weight
		case err != nil && !errors.Is(err, evaluator.ErrMissingInput):
			failed = true
		case err == nil:
			failed = true
		}
		out = append(out, res)
	}
	return out, failed
}

func safeEval(entry evaluator.Entry, c *feature.Contract, p evaluator.Params) (v float64, err error) {
	if entry.Fn == nil {
		return 0, fmt.Errorf("%w: evaluator %q not registered", ErrScore, entry.Name)
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: evaluator %q panicked: %v", ErrScore, entry.Name, r)
		}
	}()
	return entry.Fn(c, p)
}

// blend renormalizes contributions over the available weight.
func blend(components []types.ComponentResult) float64 {
	var sum, weight float64
	for _, r := range components {
		if !r.IsAvailable {
			continue
		}
		sum += r.WeightedContribution
		weight += r.Weight
	}
	if weight <= 0 {
		return 0
	}
	return evaluator.Clamp01(sum / weight)
}

func adjust(def *market.Definition, c *feature.Contract, p float64) float64 {
	for _, a := range def.Adjustments {
		if a.Condition.Holds(c) {
			p += a.Modifier
		}
	}
	return evaluator.Clamp01(p)
}

func countAvailable(components []types.ComponentResult) int {
	n := 0
	for _, r := range components {
		if r.IsAvailable {
			n++
		}
	}
	return n
}

// sideOdds returns the price the edge is computed against and whether it is
// the proxy price.
func sideOdds(o *feature.Odds, side string) (float64, bool) {
	switch side {
	case market.OddsSideHomeWin:
		return o.HomeWin, false
	case market.OddsSideDraw:
		return o.Draw, false
	case market.OddsSideAwayWin:
		return o.AwayWin, false
	default:
		return evaluator.ProxyOdds, true
	}
}

func oddsPathological(o *feature.Odds) bool {
	for _, v := range []float64{o.HomeWin, o.Draw, o.AwayWin} {
		if v < MinPlausibleOdds || v > MaxPlausibleOdds {
			return true
		}
	}
	return false
}

// confidenceScore combines completeness, agreement, edge and the critical
// input penalty into an integer in [0,100]. Risk flags do not feed it.
func confidenceScore(def *market.Definition, c *feature.Contract, components []types.ComponentResult,
	edge *float64, requiredMissing, pathological bool,
) int {
	w := def.Confidence

	completeness := c.Completeness.Ratio * w.Completeness
	agreement := agreementRate(evaluator.ComponentVariance(components)) * w.Agreement
	edgePart := edgeRate(edge) * w.Edge

	penalty := w.Penalty
	if !c.Has(feature.BlockXG) {
		penalty -= criticalInputCost
	}
	if !c.Has(feature.BlockOdds) {
		penalty -= criticalInputCost
	}
	if requiredMissing {
		penalty -= criticalInputCost
	}
	if pathological {
		penalty -= pathologicalCost
	}
	penalty = math.Max(0, penalty)

	total := math.Round(completeness + agreement + edgePart + penalty)
	return int(math.Max(0, math.Min(100, total)))
}

func agreementRate(variance float64) float64 {
	switch {
	case variance < agreementTight:
		return agreementTightRate
	case variance < agreementLoose:
		return agreementLooseRate
	default:
		return agreementPoorRate
	}
}

func edgeRate(edge *float64) float64 {
	if edge == nil || *edge <= 0 {
		return 0
	}
	return 0.5 + 0.5*math.Min(1, *edge/edgeSaturation)
}

// decide applies the market policy to produce a pick.
func decide(p *market.PublishPolicy, probability float64, confidence int, edge *float64) types.Pick {
	if confidence < p.MinConfidence || probability < p.MinProbability {
		return types.PickNo
	}
	if edge != nil && *edge < p.MinEdge {
		return types.PickNo
	}
	return types.PickYes
}

// buildMetadata derives model inputs straight from the contract.
func buildMetadata(c *feature.Contract) map[string]float64 {
	m := make(map[string]float64, len(types.MetadataKeys()))
	if c.Has(feature.BlockXG) {
		m[types.MetaLambdaTotal] = c.XG.Total
		m[types.MetaLambdaHome] = c.XG.Home
		m[types.MetaLambdaAway] = c.XG.Away
		m[types.MetaPHomeScores] = evaluator.ScoreProbability(c.XG.Home)
		m[types.MetaPAwayScores] = evaluator.ScoreProbability(c.XG.Away)
	}
	if c.Has(feature.BlockPotentials) {
		m[types.MetaCornersAvg] = c.Potentials.AvgCorners
		m[types.MetaCardsAvg] = c.Potentials.AvgCards
	}
	return m
}

// flagSet keeps insertion order and drops duplicates.
type flagSet struct {
	seen  map[riskflag.Flag]bool
	order []riskflag.Flag
}

func newFlagSet(seed []riskflag.Flag) *flagSet {
	fs := &flagSet{seen: make(map[riskflag.Flag]bool, len(seed)+4)}
	for _, f := range seed {
		fs.add(f)
	}
	return fs
}

func (fs *flagSet) add(f riskflag.Flag) {
	if fs.seen[f] {
		return
	}
	fs.seen[f] = true
	fs.order = append(fs.order, f)
}

func (fs *flagSet) list() []riskflag.Flag {
	out := make([]riskflag.Flag, len(fs.order))
	copy(out, fs.order)
	return out
}
