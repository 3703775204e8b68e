package market

import (
	"github.com/okian/pickgate/internal/domain/evaluator"
	"github.com/okian/pickgate/internal/domain/types"
)

// DefaultVersion is the version of the built-in registry.
const DefaultVersion = "builtin-1"

// Default returns the built-in registry. It panics if the built-in
// definitions fail validation.
func Default() *Registry {
	r, err := NewRegistry(DefaultVersion, DefaultDefinitions()...)
	if err != nil {
		panic(err)
	}
	return r
}

// DefaultDefinitions returns the built-in market definitions.
func DefaultDefinitions() []Definition {
	return []Definition{
		goalsOver("over_1_5", "Over 1.5 goals", 1.5, "over_15", 0.72, 2.1,
			ValidationThresholds{MinHitRate: 0.70, MinROI: -0.05, MaxCalibrationError: 0.10, AssumedOdds: 1.40}),
		goalsOverWithH2H(),
		goalsOver("over_3_5", "Over 3.5 goals", 3.5, "over_35", 0.50, 3.2,
			ValidationThresholds{MinHitRate: 0.45, MinROI: 0.0, MaxCalibrationError: 0.12, AssumedOdds: 2.40}),
		btts(),
		homeOver15(),
		cornersOver(),
		cardsOver(),
	}
}

func goalsOver(id, name string, line float64, pot string, minProb, minLambda float64, v ValidationThresholds) Definition {
	return Definition{
		ID:                id,
		Name:              name,
		Version:           "1",
		Line:              line,
		RequiredPotential: pot,
		Components: []ComponentSpec{
			{Name: "poisson", Evaluator: "poisson_total_goals", Weight: 0.45, Params: evaluator.Params{Line: line}},
			{Name: "potential", Evaluator: "potential", Weight: 0.30, Params: evaluator.Params{Potential: pot}},
			{Name: "form", Evaluator: "form_goals_over", Weight: 0.15, Params: evaluator.Params{Line: line}},
			{Name: "tempo", Evaluator: "tempo", Weight: 0.10},
		},
		Adjustments: []Adjustment{
			{Name: "low_scoring_league", Condition: Condition{Field: FieldLeagueAvgGoals, Op: OpLT, Threshold: 2.3}, Modifier: -0.03},
		},
		Confidence: DefaultConfidenceWeights(),
		Policy: PublishPolicy{
			MinConfidence:  60,
			MinProbability: minProb,
			MinEdge:        0.05,
			Floors:         []Floor{{Metadata: types.MetaLambdaTotal, Min: minLambda}},
		},
		Settlement: SettlementRule{Kind: SettleGoalsOver, Line: line},
		Validation: v,
	}
}

func goalsOverWithH2H() Definition {
	return Definition{
		ID:                "over_2_5",
		Name:              "Over 2.5 goals",
		Version:           "1",
		Line:              2.5,
		RequiredPotential: "over_25",
		Components: []ComponentSpec{
			{Name: "poisson", Evaluator: "poisson_total_goals", Weight: 0.40, Params: evaluator.Params{Line: 2.5}},
			{Name: "potential", Evaluator: "potential", Weight: 0.25, Params: evaluator.Params{Potential: "over_25"}},
			{Name: "form", Evaluator: "form_goals_over", Weight: 0.15, Params: evaluator.Params{Line: 2.5}},
			{Name: "h2h", Evaluator: "h2h_goals", Weight: 0.10, Params: evaluator.Params{Line: 2.5}},
			{Name: "tempo", Evaluator: "tempo", Weight: 0.10},
		},
		Adjustments: []Adjustment{
			{Name: "low_scoring_league", Condition: Condition{Field: FieldLeagueAvgGoals, Op: OpLT, Threshold: 2.3}, Modifier: -0.03},
			{Name: "high_scoring_league", Condition: Condition{Field: FieldLeagueAvgGoals, Op: OpGT, Threshold: 3.0}, Modifier: 0.02},
		},
		Confidence: DefaultConfidenceWeights(),
		Policy: PublishPolicy{
			MinConfidence:  60,
			MinProbability: 0.58,
			MinEdge:        0.05,
			Floors:         []Floor{{Metadata: types.MetaLambdaTotal, Min: 2.6}},
		},
		Settlement: SettlementRule{Kind: SettleGoalsOver, Line: 2.5},
		Validation: ValidationThresholds{MinHitRate: 0.55, MinROI: 0.0, MaxCalibrationError: 0.10},
	}
}

func btts() Definition {
	return Definition{
		ID:                "btts",
		Name:              "Both teams to score",
		Version:           "1",
		RequiredPotential: "btts",
		Components: []ComponentSpec{
			{Name: "poisson", Evaluator: "both_score", Weight: 0.40},
			{Name: "potential", Evaluator: "potential", Weight: 0.25, Params: evaluator.Params{Potential: "btts"}},
			{Name: "form", Evaluator: "form_btts", Weight: 0.15},
			{Name: "h2h", Evaluator: "h2h_btts", Weight: 0.10},
			{Name: "attacking", Evaluator: "attacking_correlation", Weight: 0.10},
		},
		Adjustments: []Adjustment{
			{Name: "btts_league", Condition: Condition{Field: FieldLeagueBTTSPct, Op: OpGTE, Threshold: 55}, Modifier: 0.02},
			{Name: "weak_home_attack", Condition: Condition{Field: FieldXGHome, Op: OpLT, Threshold: 0.9}, Modifier: -0.04},
			{Name: "weak_away_attack", Condition: Condition{Field: FieldXGAway, Op: OpLT, Threshold: 0.9}, Modifier: -0.04},
		},
		Confidence: DefaultConfidenceWeights(),
		Policy: PublishPolicy{
			MinConfidence:  60,
			MinProbability: 0.55,
			MinEdge:        0.05,
			Floors: []Floor{
				{Metadata: types.MetaPHomeScores, Min: 0.60},
				{Metadata: types.MetaPAwayScores, Min: 0.60},
			},
		},
		Settlement: SettlementRule{Kind: SettleBTTS},
		Validation: ValidationThresholds{MinHitRate: 0.55, MinROI: 0.0, MaxCalibrationError: 0.10},
	}
}

func homeOver15() Definition {
	return Definition{
		ID:      "home_over_1_5",
		Name:    "Home team over 1.5 goals",
		Version: "1",
		Line:    1.5,
		Components: []ComponentSpec{
			{Name: "poisson", Evaluator: "poisson_home_goals", Weight: 0.60, Params: evaluator.Params{Line: 1.5}},
			{Name: "form", Evaluator: "form_team_scored", Weight: 0.30, Params: evaluator.Params{Line: 1.5, Side: "home"}},
			{Name: "odds", Evaluator: "odds_openness", Weight: 0.10},
		},
		Confidence: DefaultConfidenceWeights(),
		Policy: PublishPolicy{
			MinConfidence:  60,
			MinProbability: 0.52,
			MinEdge:        0.05,
			Floors:         []Floor{{Metadata: types.MetaLambdaHome, Min: 1.7}},
		},
		Settlement: SettlementRule{Kind: SettleHomeGoalsOver, Line: 1.5},
		Validation: ValidationThresholds{MinHitRate: 0.52, MinROI: 0.0, MaxCalibrationError: 0.12},
	}
}

func cornersOver() Definition {
	return Definition{
		ID:                "corners_over_9_5",
		Name:              "Over 9.5 corners",
		Version:           "1",
		Line:              9.5,
		RequiredPotential: "corners_over",
		Components: []ComponentSpec{
			{Name: "poisson", Evaluator: "poisson_corners", Weight: 0.50, Params: evaluator.Params{Line: 9.5}},
			{Name: "potential", Evaluator: "potential", Weight: 0.30, Params: evaluator.Params{Potential: "corners_over"}},
			{Name: "intensity", Evaluator: "intensity_corners", Weight: 0.20},
		},
		Adjustments: []Adjustment{
			{Name: "low_corner_league", Condition: Condition{Field: FieldLeagueAvgCorners, Op: OpLT, Threshold: 9.0}, Modifier: -0.03},
		},
		Confidence: DefaultConfidenceWeights(),
		Policy: PublishPolicy{
			MinConfidence:  60,
			MinProbability: 0.55,
			MinEdge:        0.05,
			Floors:         []Floor{{Metadata: types.MetaCornersAvg, Min: 9.5}},
		},
		Settlement: SettlementRule{Kind: SettleCornersOver, Line: 9.5},
		Validation: ValidationThresholds{MinHitRate: 0.55, MinROI: 0.0, MaxCalibrationError: 0.12},
	}
}

func cardsOver() Definition {
	return Definition{
		ID:                "cards_over_4_5",
		Name:              "Over 4.5 cards",
		Version:           "1",
		Line:              4.5,
		RequiredPotential: "cards_over",
		Components: []ComponentSpec{
			{Name: "poisson", Evaluator: "poisson_cards", Weight: 0.50, Params: evaluator.Params{Line: 4.5}},
			{Name: "potential", Evaluator: "potential", Weight: 0.30, Params: evaluator.Params{Potential: "cards_over"}},
			{Name: "intensity", Evaluator: "intensity_cards", Weight: 0.20},
		},
		Adjustments: []Adjustment{
			{Name: "strict_league", Condition: Condition{Field: FieldLeagueAvgCards, Op: OpGT, Threshold: 5.0}, Modifier: 0.02},
		},
		Confidence: DefaultConfidenceWeights(),
		Policy: PublishPolicy{
			MinConfidence:  60,
			MinProbability: 0.55,
			MinEdge:        0.05,
			Floors:         []Floor{{Metadata: types.MetaCardsAvg, Min: 4.5}},
		},
		Settlement: SettlementRule{Kind: SettleCardsOver, Line: 4.5},
		Validation: ValidationThresholds{MinHitRate: 0.55, MinROI: 0.0, MaxCalibrationError: 0.12},
	}
}
