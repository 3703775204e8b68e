// Package feature defines the canonical feature contract every market model
// reads from.
//
// Optional data is modeled as pointer blocks whose fields are all plain
// values: a block is either fully populated or nil. Downstream code tests for
// a block with Has before reading it.
package feature

import (
	"time"

	"github.com/okian/pickgate/internal/domain/riskflag"
)

// Version is the current contract schema version.
const Version = "1.0"

// Source identifies which feeds contributed to a contract.
type Source string

// Contract sources.
const (
	SourceSettlementOnly Source = "settlement_only"
	SourcePredictiveOnly Source = "predictive_only"
	SourceHybrid         Source = "hybrid"
)

// LinkMethod records how the predictive record was located.
type LinkMethod string

// Link methods, in lookup order.
const (
	LinkCrossReference  LinkMethod = "cross_reference"
	LinkExactNameWindow LinkMethod = "exact_name_window"
	LinkNone            LinkMethod = "none"
)

// Block names. Together they form the full optional set.
const (
	BlockXG          = "xg"
	BlockOdds        = "odds"
	BlockPotentials  = "potentials"
	BlockFTScores    = "ft_scores"
	BlockHTScores    = "ht_scores"
	BlockCorners     = "corners"
	BlockCards       = "cards"
	BlockForm        = "form"
	BlockH2H         = "h2h"
	BlockLeagueStats = "league_stats"
)

var blockNames = []string{ //nolint:gochecknoglobals // fixed schema order
	BlockXG, BlockOdds, BlockPotentials,
	BlockFTScores, BlockHTScores, BlockCorners, BlockCards,
	BlockForm, BlockH2H, BlockLeagueStats,
}

// BlockNames returns the full set of optional block names in schema order.
func BlockNames() []string {
	out := make([]string, len(blockNames))
	copy(out, blockNames)
	return out
}

// Ref identifies a team or league.
type Ref struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// XG holds expected goals per side.
type XG struct {
	Home  float64 `json:"home"`
	Away  float64 `json:"away"`
	Total float64 `json:"total"`
}

// Odds holds decimal 1X2 odds.
type Odds struct {
	HomeWin float64 `json:"home_win"`
	Draw    float64 `json:"draw"`
	AwayWin float64 `json:"away_win"`
}

// Potentials holds source-supplied market likelihoods in percent (0..100)
// plus expected corner and card totals.
type Potentials struct {
	Over15      float64 `json:"over_15"`
	Over25      float64 `json:"over_25"`
	Over35      float64 `json:"over_35"`
	BTTS        float64 `json:"btts"`
	CornersOver float64 `json:"corners_over"`
	CardsOver   float64 `json:"cards_over"`
	AvgCorners  float64 `json:"avg_corners"`
	AvgCards    float64 `json:"avg_cards"`
}

// Score is a home/away goal tally.
type Score struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

// Total returns the combined goals.
func (s Score) Total() int { return s.Home + s.Away }

// Count is a home/away tally of corners or cards.
type Count struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

// Total returns the combined count.
func (c Count) Total() int { return c.Home + c.Away }

// FormMatch is one past match from a team's perspective.
type FormMatch struct {
	GoalsFor     int `json:"goals_for"`
	GoalsAgainst int `json:"goals_against"`
}

// Form holds recent matches per side, most recent first.
type Form struct {
	Home []FormMatch `json:"home"`
	Away []FormMatch `json:"away"`
}

// H2H summarizes previous meetings.
type H2H struct {
	Matches   int     `json:"matches"`
	AvgGoals  float64 `json:"avg_goals"`
	BTTSPct   float64 `json:"btts_pct"`
	Over25Pct float64 `json:"over_25_pct"`
}

// LeagueStats holds league-wide per-match averages.
type LeagueStats struct {
	AvgGoals   float64 `json:"avg_goals"`
	AvgCorners float64 `json:"avg_corners"`
	AvgCards   float64 `json:"avg_cards"`
	BTTSPct    float64 `json:"btts_pct"`
}

// Completeness partitions the optional block names into present and missing.
type Completeness struct {
	Present []string `json:"present"`
	Missing []string `json:"missing"`
	Ratio   float64  `json:"ratio"`
}

// Contract is the per-match feature record consumed by the scorer.
type Contract struct {
	Version    string     `json:"version"`
	Source     Source     `json:"source"`
	MatchID    string     `json:"match_id"`
	KickoffTS  time.Time  `json:"kickoff_ts"`
	Status     string     `json:"status,omitempty"`
	HomeTeam   Ref        `json:"home_team"`
	AwayTeam   Ref        `json:"away_team"`
	League     Ref        `json:"league"`
	LinkMethod LinkMethod `json:"link_method"`

	Completeness Completeness    `json:"completeness"`
	RiskSeeds    []riskflag.Flag `json:"risk_seeds,omitempty"`

	XG          *XG          `json:"xg,omitempty"`
	Odds        *Odds        `json:"odds,omitempty"`
	Potentials  *Potentials  `json:"potentials,omitempty"`
	FTScores    *Score       `json:"ft_scores,omitempty"`
	HTScores    *Score       `json:"ht_scores,omitempty"`
	Corners     *Count       `json:"corners,omitempty"`
	Cards       *Count       `json:"cards,omitempty"`
	Form        *Form        `json:"form,omitempty"`
	H2H         *H2H         `json:"h2h,omitempty"`
	LeagueStats *LeagueStats `json:"league_stats,omitempty"`
}

// Has reports whether the named block is populated.
func (c *Contract) Has(block string) bool {
	switch block {
	case BlockXG:
		return c.XG != nil
	case BlockOdds:
		return c.Odds != nil
	case BlockPotentials:
		return c.Potentials != nil
	case BlockFTScores:
		return c.FTScores != nil
	case BlockHTScores:
		return c.HTScores != nil
	case BlockCorners:
		return c.Corners != nil
	case BlockCards:
		return c.Cards != nil
	case BlockForm:
		return c.Form != nil
	case BlockH2H:
		return c.H2H != nil
	case BlockLeagueStats:
		return c.LeagueStats != nil
	default:
		return false
	}
}

// DataScore returns the completeness ratio as a 0..100 integer.
func (c *Contract) DataScore() int {
	return int(c.Completeness.Ratio*100 + 0.5)
}

// Finalize computes completeness and the risk seed list from the populated
// blocks. Builders call it once after all blocks are set.
func (c *Contract) Finalize() {
	if c.Version == "" {
		c.Version = Version
	}
	c.Completeness = ComputeCompleteness(c)
	c.RiskSeeds = SeedFlags(c.Completeness.Missing)
}

// ComputeCompleteness derives the present/missing partition for c.
func ComputeCompleteness(c *Contract) Completeness {
	out := Completeness{
		Present: make([]string, 0, len(blockNames)),
		Missing: make([]string, 0, len(blockNames)),
	}
	for _, name := range blockNames {
		if c.Has(name) {
			out.Present = append(out.Present, name)
		} else {
			out.Missing = append(out.Missing, name)
		}
	}
	out.Ratio = float64(len(out.Present)) / float64(len(blockNames))
	return out
}

// SeedFlags maps missing block names to their risk flags.
func SeedFlags(missing []string) []riskflag.Flag {
	flags := make([]riskflag.Flag, 0, len(missing))
	for _, name := range missing {
		if f, ok := riskflag.ForMissingBlock(name); ok {
			flags = append(flags, f)
		}
	}
	return flags
}
