// Package scoring turns a feature contract and a market definition into a
// probability, a confidence score, a pick, an edge and risk flags.
//
// Scoring is a pure pipeline over its inputs. The only external input is the
// clock used to stamp ScoredAt.
package scoring

import (
	"fmt"
	"time"

	"github.com/okian/pickgate/internal/domain/evaluator"
	"github.com/okian/pickgate/internal/domain/feature"
	"github.com/okian/pickgate/internal/domain/market"
	"github.com/okian/pickgate/internal/domain/riskflag"
	"github.com/okian/pickgate/internal/domain/types"
)

// Diagnostic thresholds.
const (
	// ConflictSpread is the max-min component spread that flags conflicting signals.
	ConflictSpread = 0.45
	// HighVariance is the component variance that flags high variance.
	HighVariance = 0.04
	// LowDataScore is the data score below which low_data_score is raised.
	LowDataScore = 50
	// MinPlausibleOdds and MaxPlausibleOdds bound sane decimal prices.
	MinPlausibleOdds = 1.01
	MaxPlausibleOdds = 50.0
)

// Confidence sub-score constants.
const (
	agreementTight     = 0.01
	agreementLoose     = 0.04
	edgeSaturation     = 0.10
	criticalInputCost  = 5.0
	pathologicalCost   = 5.0
	agreementTightRate = 1.0
	agreementLooseRate = 0.5
	agreementPoorRate  = 0.1
)

// Scorer scores a contract against a market.
type Scorer interface {
	Score(marketID string, c *feature.Contract) (types.ScoringResult, error)
}

// Option configures a MarketScorer.
type Option func(*MarketScorer)

// WithClock overrides the clock used for ScoredAt.
func WithClock(now func() time.Time) Option {
	return func(s *MarketScorer) {
		if now != nil {
			s.now = now
		}
	}
}

// MarketScorer scores contracts against a market registry.
type MarketScorer struct {
	registry *market.Registry
	now      func() time.Time
}

// New returns a scorer over registry.
func New(registry *market.Registry, opts ...Option) *MarketScorer {
	s := &MarketScorer{
		registry: registry,
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Registry returns the market registry the scorer reads.
func (s *MarketScorer) Registry() *market.Registry { return s.registry }

// Score evaluates c for marketID.
func (s *MarketScorer) Score(marketID string, c *feature.Contract) (types.ScoringResult, error) {
	def, err := s.registry.Get(marketID)
	if err != nil {
		return types.ScoringResult{}, err
	}
	if c == nil {
		return types.ScoringResult{}, fmt.Errorf("%w: nil contract", feature.ErrInvalidContract)
	}
	if err := c.Validate(); err != nil {
		return types.ScoringResult{}, err
	}

	components, componentErr := evaluateComponents(&def, c)
	probability := blend(components)
	probability = adjust(&def, c, probability)

	flags := newFlagSet(c.RiskSeeds)

	pathological := c.Has(feature.BlockOdds) && oddsPathological(c.Odds)
	requiredMissing := def.RequiredPotential != "" && !c.Has(feature.BlockPotentials)

	var edge *float64
	proxy := false
	metadata := buildMetadata(c)
	if c.Has(feature.BlockOdds) {
		var odds float64
		odds, proxy = sideOdds(c.Odds, def.OddsSide)
		e := evaluator.Edge(probability, odds)
		edge = &e
		if !proxy {
			metadata[types.MetaImpliedProbability] = evaluator.ImpliedProbability(odds)
		}
	}

	confidence := confidenceScore(&def, c, components, edge, requiredMissing, pathological)

	if requiredMissing {
		flags.add(riskflag.MissingRequiredPotential)
	}
	available := countAvailable(components)
	if available == 0 {
		flags.add(riskflag.NoComponentsAvailable)
	}
	if evaluator.ComponentSpread(components) >= ConflictSpread {
		flags.add(riskflag.ConflictingSignals)
	}
	if available >= 2 && evaluator.ComponentVariance(components) >= HighVariance {
		flags.add(riskflag.HighVariance)
	}
	if pathological {
		flags.add(riskflag.PathologicalOdds)
	}
	if proxy {
		flags.add(riskflag.ProxyOddsUsed)
	}
	if componentErr {
		flags.add(riskflag.ComponentError)
	}
	if c.DataScore() < LowDataScore {
		flags.add(riskflag.LowDataScore)
	}

	return types.ScoringResult{
		MatchID:     c.MatchID,
		MarketID:    def.ID,
		Probability: probability,
		Confidence:  confidence,
		Pick:        decide(&def.Policy, probability, confidence, edge),
		Edge:        edge,
		Components:  components,
		RiskFlags:   flags.list(),
		DataScore:   c.DataScore(),
		Metadata:    metadata,
		ScoredAt:    s.now(),
	}, nil
}
