// Package featuretest provides feature contract and source record fixtures
// for tests.
package featuretest

import (
	"time"

	"github.com/okian/pickgate/internal/domain/feature"
	"github.com/okian/pickgate/internal/domain/model"
)

// Fixture identities.
const (
	SettlementID = "fx-1001"
	PredictiveID = "pr-2001"
	HomeTeam     = "Northbridge"
	AwayTeam     = "Eastvale"
	League       = "Premier Test League"
)

// Kickoff returns the fixture kickoff time.
func Kickoff() time.Time {
	return time.Date(2025, time.March, 15, 15, 0, 0, 0, time.UTC)
}

// HomeForm returns the home side's last five matches, most recent first.
func HomeForm() []feature.FormMatch {
	return []feature.FormMatch{
		{GoalsFor: 2, GoalsAgainst: 1},
		{GoalsFor: 1, GoalsAgainst: 1},
		{GoalsFor: 3, GoalsAgainst: 0},
		{GoalsFor: 0, GoalsAgainst: 2},
		{GoalsFor: 2, GoalsAgainst: 2},
	}
}

// AwayForm returns the away side's last five matches, most recent first.
func AwayForm() []feature.FormMatch {
	return []feature.FormMatch{
		{GoalsFor: 1, GoalsAgainst: 2},
		{GoalsFor: 0, GoalsAgainst: 0},
		{GoalsFor: 2, GoalsAgainst: 1},
		{GoalsFor: 1, GoalsAgainst: 1},
		{GoalsFor: 3, GoalsAgainst: 1},
	}
}

// Full returns a finished-match contract with every optional block set.
// Expected goals are 1.55 and 1.30.
func Full() feature.Contract {
	c := feature.Contract{
		Version:     feature.Version,
		Source:      feature.SourceHybrid,
		MatchID:     SettlementID,
		KickoffTS:   Kickoff(),
		Status:      model.StatusFinished,
		HomeTeam:    feature.Ref{ID: "t-1", Name: HomeTeam},
		AwayTeam:    feature.Ref{ID: "t-2", Name: AwayTeam},
		League:      feature.Ref{ID: "l-1", Name: League},
		LinkMethod:  feature.LinkCrossReference,
		XG:          &feature.XG{Home: 1.55, Away: 1.30, Total: 2.85},
		Odds:        &feature.Odds{HomeWin: 2.10, Draw: 3.40, AwayWin: 3.60},
		FTScores:    &feature.Score{Home: 2, Away: 1},
		HTScores:    &feature.Score{Home: 1, Away: 0},
		Corners:     &feature.Count{Home: 6, Away: 5},
		Cards:       &feature.Count{Home: 2, Away: 3},
		Form:        &feature.Form{Home: HomeForm(), Away: AwayForm()},
		H2H:         &feature.H2H{Matches: 6, AvgGoals: 2.9, BTTSPct: 55, Over25Pct: 60},
		LeagueStats: &feature.LeagueStats{AvgGoals: 2.7, AvgCorners: 10.0, AvgCards: 4.6, BTTSPct: 52},
		Potentials: &feature.Potentials{
			Over15: 80, Over25: 62, Over35: 35, BTTS: 58,
			CornersOver: 55, CardsOver: 50,
			AvgCorners: 10.2, AvgCards: 4.8,
		},
	}
	c.Finalize()
	return c
}

// Without returns a copy of c with the named blocks cleared and
// completeness recomputed.
func Without(c feature.Contract, blocks ...string) feature.Contract { //nolint:gocritic // value copy is the point
	for _, b := range blocks {
		switch b {
		case feature.BlockXG:
			c.XG = nil
		case feature.BlockOdds:
			c.Odds = nil
		case feature.BlockPotentials:
			c.Potentials = nil
		case feature.BlockFTScores:
			c.FTScores = nil
		case feature.BlockHTScores:
			c.HTScores = nil
		case feature.BlockCorners:
			c.Corners = nil
		case feature.BlockCards:
			c.Cards = nil
		case feature.BlockForm:
			c.Form = nil
		case feature.BlockH2H:
			c.H2H = nil
		case feature.BlockLeagueStats:
			c.LeagueStats = nil
		}
	}
	c.Finalize()
	return c
}

func intp(v int) *int { return &v }

func floatp(v float64) *float64 { return &v }

// Settlement returns the finished settlement record behind Full.
func Settlement() model.SettlementRecord {
	kickoff := Kickoff()
	return model.SettlementRecord{
		ExternalID:  SettlementID,
		HomeTeamID:  "t-1",
		HomeTeam:    HomeTeam,
		AwayTeamID:  "t-2",
		AwayTeam:    AwayTeam,
		LeagueID:    "l-1",
		LeagueName:  League,
		KickoffTS:   &kickoff,
		Status:      model.StatusFinished,
		HomeGoals:   intp(2),
		AwayGoals:   intp(1),
		HTHomeGoals: intp(1),
		HTAwayGoals: intp(0),
		HomeCorners: intp(6),
		AwayCorners: intp(5),
		HomeCards:   intp(2),
		AwayCards:   intp(3),
	}
}

// Predictive returns the predictive record behind Full.
func Predictive() model.PredictiveRecord {
	return model.PredictiveRecord{
		ID:                  PredictiveID,
		HomeTeam:            HomeTeam,
		AwayTeam:            AwayTeam,
		League:              League,
		KickoffTS:           Kickoff(),
		HomeXG:              floatp(1.55),
		AwayXG:              floatp(1.30),
		OddsHome:            floatp(2.10),
		OddsDraw:            floatp(3.40),
		OddsAway:            floatp(3.60),
		Over15Potential:     floatp(80),
		Over25Potential:     floatp(62),
		Over35Potential:     floatp(35),
		BTTSPotential:       floatp(58),
		CornersPotential:    floatp(55),
		CardsPotential:      floatp(50),
		AvgCornersPotential: floatp(10.2),
		AvgCardsPotential:   floatp(4.8),
		HomeForm:            HomeForm(),
		AwayForm:            AwayForm(),
		H2HMatches:          intp(6),
		H2HAvgGoals:         floatp(2.9),
		H2HBTTSPct:          floatp(55),
		H2HOver25Pct:        floatp(60),
		LeagueAvgGoals:      floatp(2.7),
		LeagueAvgCorners:    floatp(10.0),
		LeagueAvgCards:      floatp(4.6),
		LeagueBTTSPct:       floatp(52),
	}
}

// Row returns a historical row pairing Settlement and Predictive with the
// given id, kickoff and final score.
func Row(id string, kickoff time.Time, home, away int) model.HistoricalRow {
	s := Settlement()
	s.ExternalID = id
	s.KickoffTS = &kickoff
	s.HomeGoals, s.AwayGoals = intp(home), intp(away)
	p := Predictive()
	p.ID = "pr-" + id
	p.KickoffTS = kickoff
	return model.HistoricalRow{Settlement: s, Predictive: &p}
}
