// Package types contains the result records returned by the engine.
package types

import (
	"time"

	"github.com/okian/pickgate/internal/domain/riskflag"
)

// Pick is the binary decision for a market.
type Pick string

// Picks.
const (
	PickYes Pick = "YES"
	PickNo  Pick = "NO"
)

// Metadata keys populated by the scorer and read by eligibility floors.
const (
	MetaLambdaTotal        = "lambda_total"
	MetaLambdaHome         = "lambda_home"
	MetaLambdaAway         = "lambda_away"
	MetaPHomeScores        = "p_home_scores"
	MetaPAwayScores        = "p_away_scores"
	MetaImpliedProbability = "implied_probability" // set only when a real side price exists
	MetaCornersAvg         = "corners_avg"
	MetaCardsAvg           = "cards_avg"
)

// MetadataKeys returns every known metadata key.
func MetadataKeys() []string {
	return []string{
		MetaLambdaTotal, MetaLambdaHome, MetaLambdaAway,
		MetaPHomeScores, MetaPAwayScores, MetaImpliedProbability,
		MetaCornersAvg, MetaCardsAvg,
	}
}

// IsMetadataKey reports whether key is a known metadata key.
func IsMetadataKey(key string) bool {
	for _, k := range MetadataKeys() {
		if k == key {
			return true
		}
	}
	return false
}

// ComponentResult is the evaluation of one configured model component.
type ComponentResult struct {
	Name                 string   `json:"name"`
	Weight               float64  `json:"weight"`
	RawValue             *float64 `json:"raw_value"`
	WeightedContribution float64  `json:"weighted_contribution"`
	IsAvailable          bool     `json:"is_available"`
	DataSource           string   `json:"data_source"`
}

// ScoringResult is the scorer output for one (match, market).
type ScoringResult struct {
	MatchID     string             `json:"match_id"`
	MarketID    string             `json:"market_id"`
	Probability float64            `json:"probability"`
	Confidence  int                `json:"confidence"`
	Pick        Pick               `json:"pick"`
	Edge        *float64           `json:"edge"`
	Components  []ComponentResult  `json:"components"`
	RiskFlags   []riskflag.Flag    `json:"risk_flags"`
	DataScore   int                `json:"data_score"`
	Metadata    map[string]float64 `json:"metadata"`
	ScoredAt    time.Time          `json:"scored_at"`
}

// HasFlag reports whether f is attached to r.
func (r *ScoringResult) HasFlag(f riskflag.Flag) bool {
	for _, got := range r.RiskFlags {
		if got == f {
			return true
		}
	}
	return false
}

// EligibilityResult is the publish gate verdict for one scoring result.
type EligibilityResult struct {
	MarketID     string   `json:"market_id"`
	MatchID      string   `json:"match_id"`
	CanPublish   bool     `json:"can_publish"`
	Reason       string   `json:"reason"`
	FailedChecks []string `json:"failed_checks"`
	PassedChecks []string `json:"passed_checks"`
}

// Outcome is the settlement of a pick against the realized result.
type Outcome string

// Outcomes.
const (
	OutcomeWin  Outcome = "WIN"
	OutcomeLoss Outcome = "LOSS"
	OutcomeVoid Outcome = "VOID"
)

// CalibrationBucket compares predicted and realized rates in one
// probability band.
type CalibrationBucket struct {
	Lower        float64 `json:"lower"`
	Upper        float64 `json:"upper"`
	Count        int     `json:"count"`
	Wins         int     `json:"wins"`
	AvgPredicted float64 `json:"avg_predicted"`
	ActualRate   float64 `json:"actual_rate"`
	Error        float64 `json:"error"`
}

// BacktestResult summarizes one backtest run for a market.
type BacktestResult struct {
	RunID     string    `json:"run_id"`
	MarketID  string    `json:"market_id"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`

	RowsEvaluated int `json:"rows_evaluated"`
	RowsSkipped   int `json:"rows_skipped"`
	Won           int `json:"won"`
	Lost          int `json:"lost"`
	Void          int `json:"void"`
	Total         int `json:"total"`
	TotalSettled  int `json:"total_settled"`

	HitRate          float64               `json:"hit_rate"`
	ROI              float64               `json:"roi"`
	AssumedOdds      float64               `json:"assumed_odds"`
	AvgConfidence    float64               `json:"avg_confidence"`
	AvgProbability   float64               `json:"avg_probability"`
	CalibrationError float64               `json:"calibration_error"`
	CalibrationCurve [10]CalibrationBucket `json:"calibration_curve"`
	ValidationPassed bool                  `json:"validation_passed"`
	ValidationNotes  []string              `json:"validation_notes"`
	GeneratedAt      time.Time             `json:"generated_at"`
	Duration         time.Duration         `json:"duration"`
}

// MarketEvaluation pairs a scoring result with its publish verdict.
type MarketEvaluation struct {
	Score       ScoringResult     `json:"score"`
	Eligibility EligibilityResult `json:"eligibility"`
}
