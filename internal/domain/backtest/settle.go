package backtest

import (
	"math"

	"github.com/okian/pickgate/internal/domain/feature"
	"github.com/okian/pickgate/internal/domain/market"
	"github.com/okian/pickgate/internal/domain/types"
)

// Settle decides the realized outcome of a YES pick under rule. Missing
// settlement data is VOID, and so is a total landing exactly on an integer
// line.
func Settle(rule market.SettlementRule, c *feature.Contract) types.Outcome {
	switch rule.Kind {
	case market.SettleGoalsOver:
		if c.FTScores == nil {
			return types.OutcomeVoid
		}
		return overLine(c.FTScores.Total(), rule.Line)
	case market.SettleHomeGoalsOver:
		if c.FTScores == nil {
			return types.OutcomeVoid
		}
		return overLine(c.FTScores.Home, rule.Line)
	case market.SettleAwayGoalsOver:
		if c.FTScores == nil {
			return types.OutcomeVoid
		}
		return overLine(c.FTScores.Away, rule.Line)
	case market.SettleBTTS:
		if c.FTScores == nil {
			return types.OutcomeVoid
		}
		if c.FTScores.Home > 0 && c.FTScores.Away > 0 {
			return types.OutcomeWin
		}
		return types.OutcomeLoss
	case market.SettleCornersOver:
		if c.Corners == nil {
			return types.OutcomeVoid
		}
		return overLine(c.Corners.Total(), rule.Line)
	case market.SettleCardsOver:
		if c.Cards == nil {
			return types.OutcomeVoid
		}
		return overLine(c.Cards.Total(), rule.Line)
	default:
		return types.OutcomeVoid
	}
}

func overLine(actual int, line float64) types.Outcome {
	v := float64(actual)
	switch {
	case line == math.Trunc(line) && v == line:
		return types.OutcomeVoid
	case v > line:
		return types.OutcomeWin
	default:
		return types.OutcomeLoss
	}
}
