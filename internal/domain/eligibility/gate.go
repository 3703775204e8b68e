// Package eligibility decides whether a scored result may be published.
//
// The gate runs every check and accumulates failures so callers always see
// the full diagnostic. It reads only the scoring result and the registry.
package eligibility

import (
	"fmt"
	"strings"

	"github.com/okian/pickgate/internal/domain/market"
	"github.com/okian/pickgate/internal/domain/riskflag"
	"github.com/okian/pickgate/internal/domain/types"
)

// Check names.
const (
	CheckPickYes         = "pick_yes"
	CheckMinConfidence   = "min_confidence"
	CheckMinProbability  = "min_probability"
	CheckPositiveEdge    = "positive_edge"
	CheckNoBlockingFlags = "no_blocking_flags"
	floorPrefix          = "floor:"
)

// ReasonPublishable is the reason attached to a publishable result.
const ReasonPublishable = "all checks passed"

// FloorCheck returns the check name for a metadata floor.
func FloorCheck(key string) string { return floorPrefix + key }

// Gate evaluates publish eligibility against a registry.
type Gate struct {
	registry *market.Registry
}

// New returns a gate over registry.
func New(registry *market.Registry) *Gate {
	return &Gate{registry: registry}
}

// check is one evaluated predicate with a failure detail.
type check struct {
	name   string
	ok     bool
	detail string
}

// Evaluate runs every check for r under the market's publish policy.
func (g *Gate) Evaluate(marketID string, r *types.ScoringResult) (types.EligibilityResult, error) {
	def, err := g.registry.Get(marketID)
	if err != nil {
		return types.EligibilityResult{}, err
	}
	if r == nil {
		return types.EligibilityResult{}, fmt.Errorf("%w: nil scoring result", ErrInvalidResult)
	}

	checks := runChecks(&def.Policy, r)

	out := types.EligibilityResult{
		MarketID:     marketID,
		MatchID:      r.MatchID,
		FailedChecks: []string{},
		PassedChecks: []string{},
	}
	var details []string
	for _, c := range checks {
		if c.ok {
			out.PassedChecks = append(out.PassedChecks, c.name)
			continue
		}
		out.FailedChecks = append(out.FailedChecks, c.name)
		details = append(details, c.name+" ("+c.detail+")")
	}
	out.CanPublish = len(out.FailedChecks) == 0
	if out.CanPublish {
		out.Reason = ReasonPublishable
	} else {
		out.Reason = "blocked: " + strings.Join(details, "; ")
	}
	return out, nil
}

func runChecks(p *market.PublishPolicy, r *types.ScoringResult) []check {
	checks := make([]check, 0, 5+len(p.Floors))

	checks = append(checks,
		check{CheckPickYes, r.Pick == types.PickYes, fmt.Sprintf("pick is %s", r.Pick)},
		check{
			CheckMinConfidence, r.Confidence >= p.MinConfidence,
			fmt.Sprintf("%d < %d", r.Confidence, p.MinConfidence),
		},
		check{
			CheckMinProbability, r.Probability >= p.MinProbability,
			fmt.Sprintf("%.4f < %.4f", r.Probability, p.MinProbability),
		},
		edgeCheck(p, r),
	)

	blocking := riskflag.BlockingFlags(r.RiskFlags)
	names := make([]string, len(blocking))
	for i, f := range blocking {
		names[i] = string(f)
	}
	checks = append(checks, check{CheckNoBlockingFlags, len(blocking) == 0, strings.Join(names, ", ")})

	for _, f := range p.Floors {
		name := FloorCheck(f.Metadata)
		v, ok := r.Metadata[f.Metadata]
		if !ok {
			checks = append(checks, check{name, false, "metadata missing"})
			continue
		}
		checks = append(checks, check{name, v >= f.Min, fmt.Sprintf("%.4f < %.4f", v, f.Min)})
	}
	return checks
}

// edgeCheck requires a strictly positive edge. A missing edge passes unless
// the policy demands one.
func edgeCheck(p *market.PublishPolicy, r *types.ScoringResult) check {
	if r.Edge == nil {
		return check{CheckPositiveEdge, !p.RequireEdge, "edge unavailable"}
	}
	return check{CheckPositiveEdge, *r.Edge > 0, fmt.Sprintf("edge %.4f <= 0", *r.Edge)}
}
