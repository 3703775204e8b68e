package evaluator

import (
	"math"

	"github.com/okian/pickgate/internal/domain/feature"
)

// Proxy mapping constants.
const (
	tempoFullScaleXG    = 4.0  // total xG mapping to a tempo of 1.0
	h2hGoalsSpread      = 3.0  // goals either side of the line spanning the proxy range
	opennessDrawBase    = 0.6  // 1 - p(draw) at which openness is 0
	opennessDrawRange   = 0.25 // 1 - p(draw) range mapped onto [0,1]
	attackingVolumeGoal = 3.0  // combined xG at which attacking volume saturates
)

// TempoProxy maps total expected goals onto [0,1]: totalXG / 4.
func TempoProxy(totalXG float64) float64 {
	return Clamp01(totalXG / tempoFullScaleXG)
}

// H2HGoalsProxy maps the head-to-head goal average relative to a market line:
// 0.5 + (avg - line) / 3.
func H2HGoalsProxy(avgGoals, line float64) float64 {
	return Clamp01(0.5 + (avgGoals-line)/h2hGoalsSpread)
}

// OddsOpennessProxy reads how open a match is expected to be from 1X2 odds.
// With the overround removed, openness = (1 - p(draw) - 0.6) / 0.25.
func OddsOpennessProxy(o feature.Odds) (float64, error) {
	if o.HomeWin <= 1 || o.Draw <= 1 || o.AwayWin <= 1 {
		return 0, ErrInvalidInput
	}
	pHome, pDraw, pAway := 1/o.HomeWin, 1/o.Draw, 1/o.AwayWin
	pDraw /= pHome + pDraw + pAway
	return Clamp01((1 - pDraw - opennessDrawBase) / opennessDrawRange), nil
}

// AttackingCorrelation combines balance and volume of both sides' xG:
// (min/max) * min(1, (home+away)/3).
func AttackingCorrelation(homeXG, awayXG float64) float64 {
	if homeXG <= 0 || awayXG <= 0 {
		return 0
	}
	balance := math.Min(homeXG, awayXG) / math.Max(homeXG, awayXG)
	volume := math.Min(1, (homeXG+awayXG)/attackingVolumeGoal)
	return Clamp01(balance * volume)
}

// IntensityProxy maps an expected count against a league baseline:
// expected / (2 * baseline). Equal values give 0.5.
func IntensityProxy(expected, baseline float64) (float64, error) {
	if baseline <= 0 {
		return 0, ErrInvalidInput
	}
	return Clamp01(expected / (2 * baseline)), nil
}
