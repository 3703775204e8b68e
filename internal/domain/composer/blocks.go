package composer

import (
	"github.com/okian/pickgate/internal/domain/feature"
	"github.com/okian/pickgate/internal/domain/model"
)

// isFinished allows full-time blocks.
func isFinished(status string) bool {
	return status == model.StatusFinished
}

// halftimeReached allows the half-time score block.
func halftimeReached(status string) bool {
	switch status {
	case model.StatusHalftime, model.StatusSecondHalf, model.StatusFinished:
		return true
	default:
		return false
	}
}

func allInts(vals ...*int) bool {
	for _, v := range vals {
		if v == nil {
			return false
		}
	}
	return true
}

func allFloats(vals ...*float64) bool {
	for _, v := range vals {
		if v == nil {
			return false
		}
	}
	return true
}

func applySettlement(out *feature.Contract, s model.SettlementRecord) { //nolint:gocritic // records are passed by value
	finished := isFinished(s.Status)
	if finished && allInts(s.HomeGoals, s.AwayGoals) {
		out.FTScores = &feature.Score{Home: *s.HomeGoals, Away: *s.AwayGoals}
	}
	if halftimeReached(s.Status) && allInts(s.HTHomeGoals, s.HTAwayGoals) {
		out.HTScores = &feature.Score{Home: *s.HTHomeGoals, Away: *s.HTAwayGoals}
	}
	if finished && allInts(s.HomeCorners, s.AwayCorners) {
		out.Corners = &feature.Count{Home: *s.HomeCorners, Away: *s.AwayCorners}
	}
	if finished && allInts(s.HomeCards, s.AwayCards) {
		out.Cards = &feature.Count{Home: *s.HomeCards, Away: *s.AwayCards}
	}
}

func applyPredictive(out *feature.Contract, p *model.PredictiveRecord) {
	if allFloats(p.HomeXG, p.AwayXG) {
		out.XG = &feature.XG{Home: *p.HomeXG, Away: *p.AwayXG, Total: *p.HomeXG + *p.AwayXG}
	}
	if allFloats(p.OddsHome, p.OddsDraw, p.OddsAway) {
		out.Odds = &feature.Odds{HomeWin: *p.OddsHome, Draw: *p.OddsDraw, AwayWin: *p.OddsAway}
	}
	if allFloats(p.Over15Potential, p.Over25Potential, p.Over35Potential, p.BTTSPotential,
		p.CornersPotential, p.CardsPotential, p.AvgCornersPotential, p.AvgCardsPotential) {
		out.Potentials = &feature.Potentials{
			Over15:      *p.Over15Potential,
			Over25:      *p.Over25Potential,
			Over35:      *p.Over35Potential,
			BTTS:        *p.BTTSPotential,
			CornersOver: *p.CornersPotential,
			CardsOver:   *p.CardsPotential,
			AvgCorners:  *p.AvgCornersPotential,
			AvgCards:    *p.AvgCardsPotential,
		}
	}
	if len(p.HomeForm) > 0 && len(p.AwayForm) > 0 {
		out.Form = &feature.Form{
			Home: append([]feature.FormMatch(nil), p.HomeForm...),
			Away: append([]feature.FormMatch(nil), p.AwayForm...),
		}
	}
	if p.H2HMatches != nil && *p.H2HMatches > 0 && allFloats(p.H2HAvgGoals, p.H2HBTTSPct, p.H2HOver25Pct) {
		out.H2H = &feature.H2H{
			Matches:   *p.H2HMatches,
			AvgGoals:  *p.H2HAvgGoals,
			BTTSPct:   *p.H2HBTTSPct,
			Over25Pct: *p.H2HOver25Pct,
		}
	}
	if allFloats(p.LeagueAvgGoals, p.LeagueAvgCorners, p.LeagueAvgCards, p.LeagueBTTSPct) {
		out.LeagueStats = &feature.LeagueStats{
			AvgGoals:   *p.LeagueAvgGoals,
			AvgCorners: *p.LeagueAvgCorners,
			AvgCards:   *p.LeagueAvgCards,
			BTTSPct:    *p.LeagueBTTSPct,
		}
	}
}
