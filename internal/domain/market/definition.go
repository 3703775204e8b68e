// Package market holds the static, versioned market definition registry.
//
// Definitions are plain data: which evaluator components to blend and with
// what weights, typed conditional adjustments, confidence weights, publish
// thresholds, the settlement rule and backtest acceptance thresholds. A
// Registry is validated once at construction and is read-only afterwards.
package market

import (
	"github.com/okian/pickgate/internal/domain/evaluator"
)

// Odds sides usable for edge computation.
const (
	OddsSideNone    = ""
	OddsSideHomeWin = "home_win"
	OddsSideDraw    = "draw"
	OddsSideAwayWin = "away_win"
)

// Definition configures one market.
type Definition struct {
	ID      string  `koanf:"id" json:"id"`
	Name    string  `koanf:"name" json:"name"`
	Version string  `koanf:"version" json:"version"`
	Line    float64 `koanf:"line" json:"line"`

	// OddsSide selects the 1X2 price the edge is computed against. Empty
	// means no side-specific odds exist and ProxyOdds is used.
	OddsSide string `koanf:"odds_side" json:"odds_side,omitempty"`

	// RequiredPotential names a potentials field the market cannot be
	// published without.
	RequiredPotential string `koanf:"required_potential" json:"required_potential,omitempty"`

	Components  []ComponentSpec      `koanf:"components" json:"components"`
	Adjustments []Adjustment         `koanf:"adjustments" json:"adjustments,omitempty"`
	Confidence  ConfidenceWeights    `koanf:"confidence" json:"confidence"`
	Policy      PublishPolicy        `koanf:"policy" json:"policy"`
	Settlement  SettlementRule       `koanf:"settlement" json:"settlement"`
	Validation  ValidationThresholds `koanf:"validation" json:"validation"`
}

// ComponentSpec is one weighted model component.
type ComponentSpec struct {
	Name      string           `koanf:"name" json:"name"`
	Evaluator string           `koanf:"evaluator" json:"evaluator"`
	Weight    float64          `koanf:"weight" json:"weight"`
	Params    evaluator.Params `koanf:"params" json:"params"`
}

// Adjustment adds Modifier to the probability when Condition holds.
type Adjustment struct {
	Name      string    `koanf:"name" json:"name"`
	Condition Condition `koanf:"condition" json:"condition"`
	Modifier  float64   `koanf:"modifier" json:"modifier"`
}

// ConfidenceWeights split the 100-point confidence band.
type ConfidenceWeights struct {
	Completeness float64 `koanf:"completeness" json:"completeness"`
	Agreement    float64 `koanf:"agreement" json:"agreement"`
	Edge         float64 `koanf:"edge" json:"edge"`
	Penalty      float64 `koanf:"penalty" json:"penalty"`
}

// Sum returns the total of all weights.
func (w ConfidenceWeights) Sum() float64 {
	return w.Completeness + w.Agreement + w.Edge + w.Penalty
}

// DefaultConfidenceWeights is the 30/30/25/15 split.
func DefaultConfidenceWeights() ConfidenceWeights {
	return ConfidenceWeights{Completeness: 30, Agreement: 30, Edge: 25, Penalty: 15}
}

// Floor is a market-specific minimum over a scoring metadata value.
type Floor struct {
	Metadata string  `koanf:"metadata" json:"metadata"`
	Min      float64 `koanf:"min" json:"min"`
}

// PublishPolicy holds publish thresholds.
type PublishPolicy struct {
	MinConfidence  int     `koanf:"min_confidence" json:"min_confidence"`
	MinProbability float64 `koanf:"min_probability" json:"min_probability"`
	MinEdge        float64 `koanf:"min_edge" json:"min_edge"`
	// RequireEdge fails the positive-edge check when no edge could be
	// computed. When false a missing edge passes.
	RequireEdge bool    `koanf:"require_edge" json:"require_edge"`
	Floors      []Floor `koanf:"floors" json:"floors,omitempty"`
}

// Settlement kinds.
const (
	SettleGoalsOver     = "goals_over"
	SettleBTTS          = "btts"
	SettleHomeGoalsOver = "home_goals_over"
	SettleAwayGoalsOver = "away_goals_over"
	SettleCornersOver   = "corners_over"
	SettleCardsOver     = "cards_over"
)

// SettlementRule decides the realized outcome of a YES pick.
type SettlementRule struct {
	Kind string  `koanf:"kind" json:"kind"`
	Line float64 `koanf:"line" json:"line"`
}

// ValidationThresholds are backtest acceptance thresholds.
type ValidationThresholds struct {
	MinHitRate          float64 `koanf:"min_hit_rate" json:"min_hit_rate"`
	MinROI              float64 `koanf:"min_roi" json:"min_roi"`
	MaxCalibrationError float64 `koanf:"max_calibration_error" json:"max_calibration_error"`
	// AssumedOdds overrides the engine-wide flat price used for ROI.
	AssumedOdds float64 `koanf:"assumed_odds" json:"assumed_odds,omitempty"`
}

// clone returns a deep copy of d.
func (d Definition) clone() Definition { //nolint:gocritic // value copy is the point
	out := d
	out.Components = append([]ComponentSpec(nil), d.Components...)
	out.Adjustments = append([]Adjustment(nil), d.Adjustments...)
	out.Policy.Floors = append([]Floor(nil), d.Policy.Floors...)
	return out
}
