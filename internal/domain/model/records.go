// Package model contains the raw source records handed to the composer by
// upstream collaborators.
package model

import (
	"time"

	"github.com/okian/pickgate/internal/domain/feature"
)

// Match statuses reported by the settlement feed.
const (
	StatusScheduled  = "scheduled"
	StatusLive       = "live"
	StatusHalftime   = "halftime"
	StatusSecondHalf = "second_half"
	StatusFinished   = "finished"
)

// SettlementRecord is a settlement-oriented feed row. It is authoritative for
// match identity. Nil counters mean the feed did not report them.
type SettlementRecord struct {
	ExternalID string     `json:"external_id"`
	HomeTeamID string     `json:"home_team_id,omitempty"`
	HomeTeam   string     `json:"home_team"`
	AwayTeamID string     `json:"away_team_id,omitempty"`
	AwayTeam   string     `json:"away_team"`
	LeagueID   string     `json:"league_id,omitempty"`
	LeagueName string     `json:"league_name,omitempty"`
	KickoffTS  *time.Time `json:"kickoff_ts"`
	Status     string     `json:"status"`

	HomeGoals   *int `json:"home_goals,omitempty"`
	AwayGoals   *int `json:"away_goals,omitempty"`
	HTHomeGoals *int `json:"ht_home_goals,omitempty"`
	HTAwayGoals *int `json:"ht_away_goals,omitempty"`
	HomeCorners *int `json:"home_corners,omitempty"`
	AwayCorners *int `json:"away_corners,omitempty"`
	HomeCards   *int `json:"home_cards,omitempty"`
	AwayCards   *int `json:"away_cards,omitempty"`
}

// PredictiveRecord is a predictive feed row with expected goals, odds and
// pre-computed potentials. Nil fields were not supplied.
type PredictiveRecord struct {
	ID        string    `json:"id"`
	HomeTeam  string    `json:"home_team"`
	AwayTeam  string    `json:"away_team"`
	League    string    `json:"league,omitempty"`
	KickoffTS time.Time `json:"kickoff_ts"`

	HomeXG *float64 `json:"home_xg,omitempty"`
	AwayXG *float64 `json:"away_xg,omitempty"`

	OddsHome *float64 `json:"odds_home,omitempty"`
	OddsDraw *float64 `json:"odds_draw,omitempty"`
	OddsAway *float64 `json:"odds_away,omitempty"`

	Over15Potential     *float64 `json:"over_15_potential,omitempty"`
	Over25Potential     *float64 `json:"over_25_potential,omitempty"`
	Over35Potential     *float64 `json:"over_35_potential,omitempty"`
	BTTSPotential       *float64 `json:"btts_potential,omitempty"`
	CornersPotential    *float64 `json:"corners_potential,omitempty"`
	CardsPotential      *float64 `json:"cards_potential,omitempty"`
	AvgCornersPotential *float64 `json:"avg_corners_potential,omitempty"`
	AvgCardsPotential   *float64 `json:"avg_cards_potential,omitempty"`

	HomeForm []feature.FormMatch `json:"home_form,omitempty"`
	AwayForm []feature.FormMatch `json:"away_form,omitempty"`

	H2HMatches   *int     `json:"h2h_matches,omitempty"`
	H2HAvgGoals  *float64 `json:"h2h_avg_goals,omitempty"`
	H2HBTTSPct   *float64 `json:"h2h_btts_pct,omitempty"`
	H2HOver25Pct *float64 `json:"h2h_over_25_pct,omitempty"`

	LeagueAvgGoals   *float64 `json:"league_avg_goals,omitempty"`
	LeagueAvgCorners *float64 `json:"league_avg_corners,omitempty"`
	LeagueAvgCards   *float64 `json:"league_avg_cards,omitempty"`
	LeagueBTTSPct    *float64 `json:"league_btts_pct,omitempty"`
}

// HistoricalRow pairs a settled match with the predictive record that was
// available before kickoff.
type HistoricalRow struct {
	Settlement SettlementRecord  `json:"settlement"`
	Predictive *PredictiveRecord `json:"predictive,omitempty"`
}

// Fixture bundles the raw records available for one fixture. Without a
// settlement record exactly one predictive record is expected.
type Fixture struct {
	Settlement *SettlementRecord  `json:"settlement,omitempty"`
	Predictive []PredictiveRecord `json:"predictive,omitempty"`
	// CrossReference maps settlement ids to predictive ids.
	CrossReference map[string]string `json:"cross_reference,omitempty"`
}
