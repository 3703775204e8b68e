package market

import (
	"github.com/okian/pickgate/internal/domain/feature"
)

// Condition fields readable from a feature contract.
const (
	FieldLeagueAvgGoals   = "league.avg_goals"
	FieldLeagueAvgCorners = "league.avg_corners"
	FieldLeagueAvgCards   = "league.avg_cards"
	FieldLeagueBTTSPct    = "league.btts_pct"
	FieldXGTotal          = "xg.total"
	FieldXGHome           = "xg.home"
	FieldXGAway           = "xg.away"
	FieldH2HAvgGoals      = "h2h.avg_goals"
	FieldH2HBTTSPct       = "h2h.btts_pct"
	FieldOddsDraw         = "odds.draw"
)

// Comparators.
const (
	OpLT  = "lt"
	OpLTE = "lte"
	OpGT  = "gt"
	OpGTE = "gte"
)

// Condition is a typed (field, comparator, threshold) descriptor.
type Condition struct {
	Field     string  `koanf:"field" json:"field"`
	Op        string  `koanf:"op" json:"op"`
	Threshold float64 `koanf:"threshold" json:"threshold"`
}

// Holds reports whether the condition is satisfied by c. A condition over an
// absent block never holds.
func (cond Condition) Holds(c *feature.Contract) bool {
	v, ok := FieldValue(c, cond.Field)
	if !ok {
		return false
	}
	switch cond.Op {
	case OpLT:
		return v < cond.Threshold
	case OpLTE:
		return v <= cond.Threshold
	case OpGT:
		return v > cond.Threshold
	case OpGTE:
		return v >= cond.Threshold
	default:
		return false
	}
}

// FieldValue reads a condition field from c.
func FieldValue(c *feature.Contract, field string) (float64, bool) {
	switch field {
	case FieldLeagueAvgGoals, FieldLeagueAvgCorners, FieldLeagueAvgCards, FieldLeagueBTTSPct:
		if !c.Has(feature.BlockLeagueStats) {
			return 0, false
		}
		switch field {
		case FieldLeagueAvgGoals:
			return c.LeagueStats.AvgGoals, true
		case FieldLeagueAvgCorners:
			return c.LeagueStats.AvgCorners, true
		case FieldLeagueAvgCards:
			return c.LeagueStats.AvgCards, true
		default:
			return c.LeagueStats.BTTSPct, true
		}
	case FieldXGTotal, FieldXGHome, FieldXGAway:
		if !c.Has(feature.BlockXG) {
			return 0, false
		}
		switch field {
		case FieldXGTotal:
			return c.XG.Total, true
		case FieldXGHome:
			return c.XG.Home, true
		default:
			return c.XG.Away, true
		}
	case FieldH2HAvgGoals, FieldH2HBTTSPct:
		if !c.Has(feature.BlockH2H) {
			return 0, false
		}
		if field == FieldH2HAvgGoals {
			return c.H2H.AvgGoals, true
		}
		return c.H2H.BTTSPct, true
	case FieldOddsDraw:
		if !c.Has(feature.BlockOdds) {
			return 0, false
		}
		return c.Odds.Draw, true
	default:
		return 0, false
	}
}

func validField(field string) bool {
	switch field {
	case FieldLeagueAvgGoals, FieldLeagueAvgCorners, FieldLeagueAvgCards, FieldLeagueBTTSPct,
		FieldXGTotal, FieldXGHome, FieldXGAway, FieldH2HAvgGoals, FieldH2HBTTSPct, FieldOddsDraw:
		return true
	default:
		return false
	}
}

func validOp(op string) bool {
	switch op {
	case OpLT, OpLTE, OpGT, OpGTE:
		return true
	default:
		return false
	}
}
