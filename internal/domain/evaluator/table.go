package evaluator

import (
	"fmt"
	"sort"

	"github.com/okian/pickgate/internal/domain/feature"
)

// Params carries per-component configuration from the market registry.
type Params struct {
	// Line is the market threshold, e.g. 2.5 goals.
	Line float64 `koanf:"line" json:"line,omitempty"`
	// Potential names a potentials field: over_15, over_25, over_35, btts,
	// corners_over, cards_over.
	Potential string `koanf:"potential" json:"potential,omitempty"`
	// Side selects home or away for single-team components.
	Side string `koanf:"side" json:"side,omitempty"`
	// Window is the trailing form window; 0 means DefaultFormWindow.
	Window int `koanf:"window" json:"window,omitempty"`
}

// Evaluator computes a component's raw value from a contract. It returns an
// error wrapping ErrMissingInput when a required block is absent.
type Evaluator func(c *feature.Contract, p Params) (float64, error)

// Entry is a registered evaluator with the feature block it reads.
type Entry struct {
	Name       string
	DataSource string
	Fn         Evaluator
}

var table = map[string]Entry{} //nolint:gochecknoglobals // static strategy table, populated in init

func register(name, dataSource string, fn Evaluator) {
	table[name] = Entry{Name: name, DataSource: dataSource, Fn: fn}
}

func init() { //nolint:gochecknoinits // static strategy table
	register("poisson_total_goals", feature.BlockXG, poissonTotalGoals)
	register("poisson_home_goals", feature.BlockXG, poissonSideGoals("home"))
	register("poisson_away_goals", feature.BlockXG, poissonSideGoals("away"))
	register("poisson_corners", feature.BlockPotentials, poissonCorners)
	register("poisson_cards", feature.BlockPotentials, poissonCards)
	register("both_score", feature.BlockXG, bothScore)
	register("potential", feature.BlockPotentials, potential)
	register("form_goals_over", feature.BlockForm, formGoalsOver)
	register("form_btts", feature.BlockForm, formBTTS)
	register("form_team_scored", feature.BlockForm, formTeamScored)
	register("h2h_goals", feature.BlockH2H, h2hGoals)
	register("h2h_btts", feature.BlockH2H, h2hBTTS)
	register("tempo", feature.BlockXG, tempo)
	register("odds_openness", feature.BlockOdds, oddsOpenness)
	register("attacking_correlation", feature.BlockXG, attackingCorrelation)
	register("intensity_corners", feature.BlockLeagueStats, intensityCorners)
	register("intensity_cards", feature.BlockLeagueStats, intensityCards)
}

// Lookup returns the evaluator registered under name.
func Lookup(name string) (Entry, bool) {
	e, ok := table[name]
	return e, ok
}

// Names returns the registered evaluator names, sorted.
func Names() []string {
	out := make([]string, 0, len(table))
	for name := range table {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// ValidatePotential reports whether name is a potentials field.
func ValidatePotential(name string) bool {
	_, ok := potentialValue(&feature.Potentials{}, name)
	return ok
}

func missing(block string) error {
	return fmt.Errorf("%w: %s", ErrMissingInput, block)
}

func poissonTotalGoals(c *feature.Contract, p Params) (float64, error) {
	if !c.Has(feature.BlockXG) {
		return 0, missing(feature.BlockXG)
	}
	return PoissonTail(c.XG.Total, p.Line), nil
}

func poissonSideGoals(side string) Evaluator {
	return func(c *feature.Contract, p Params) (float64, error) {
		if !c.Has(feature.BlockXG) {
			return 0, missing(feature.BlockXG)
		}
		lambda := c.XG.Home
		if side == "away" {
			lambda = c.XG.Away
		}
		return PoissonTail(lambda, p.Line), nil
	}
}

func poissonCorners(c *feature.Contract, p Params) (float64, error) {
	if !c.Has(feature.BlockPotentials) {
		return 0, missing(feature.BlockPotentials)
	}
	return PoissonTail(c.Potentials.AvgCorners, p.Line), nil
}

func poissonCards(c *feature.Contract, p Params) (float64, error) {
	if !c.Has(feature.BlockPotentials) {
		return 0, missing(feature.BlockPotentials)
	}
	return PoissonTail(c.Potentials.AvgCards, p.Line), nil
}

func bothScore(c *feature.Contract, _ Params) (float64, error) {
	if !c.Has(feature.BlockXG) {
		return 0, missing(feature.BlockXG)
	}
	return BothScore(c.XG.Home, c.XG.Away), nil
}

func potential(c *feature.Contract, p Params) (float64, error) {
	if !c.Has(feature.BlockPotentials) {
		return 0, missing(feature.BlockPotentials)
	}
	v, ok := potentialValue(c.Potentials, p.Potential)
	if !ok {
		return 0, fmt.Errorf("%w: unknown potential %q", ErrInvalidInput, p.Potential)
	}
	return Clamp01(v / 100), nil
}

func potentialValue(pt *feature.Potentials, name string) (float64, bool) {
	switch name {
	case "over_15":
		return pt.Over15, true
	case "over_25":
		return pt.Over25, true
	case "over_35":
		return pt.Over35, true
	case "btts":
		return pt.BTTS, true
	case "corners_over":
		return pt.CornersOver, true
	case "cards_over":
		return pt.CardsOver, true
	default:
		return 0, false
	}
}

// formPool returns the trailing window of both sides combined.
func formPool(f *feature.Form, window int) []feature.FormMatch {
	if window <= 0 {
		window = DefaultFormWindow
	}
	home, away := f.Home, f.Away
	if len(home) > window {
		home = home[:window]
	}
	if len(away) > window {
		away = away[:window]
	}
	pool := make([]feature.FormMatch, 0, len(home)+len(away))
	pool = append(pool, home...)
	return append(pool, away...)
}

func formGoalsOver(c *feature.Contract, p Params) (float64, error) {
	if !c.Has(feature.BlockForm) {
		return 0, missing(feature.BlockForm)
	}
	need := goalsNeeded(p.Line)
	pool := formPool(c.Form, p.Window)
	rate, ok := FormRate(pool, len(pool), func(m feature.FormMatch) bool {
		return m.GoalsFor+m.GoalsAgainst >= need
	})
	if !ok {
		return 0, missing(feature.BlockForm)
	}
	return rate, nil
}

func formBTTS(c *feature.Contract, p Params) (float64, error) {
	if !c.Has(feature.BlockForm) {
		return 0, missing(feature.BlockForm)
	}
	pool := formPool(c.Form, p.Window)
	rate, ok := FormRate(pool, len(pool), func(m feature.FormMatch) bool {
		return m.GoalsFor > 0 && m.GoalsAgainst > 0
	})
	if !ok {
		return 0, missing(feature.BlockForm)
	}
	return rate, nil
}

func formTeamScored(c *feature.Contract, p Params) (float64, error) {
	if !c.Has(feature.BlockForm) {
		return 0, missing(feature.BlockForm)
	}
	matches := c.Form.Home
	if p.Side == "away" {
		matches = c.Form.Away
	}
	need := goalsNeeded(p.Line)
	rate, ok := FormRate(matches, p.Window, func(m feature.FormMatch) bool {
		return m.GoalsFor >= need
	})
	if !ok {
		return 0, missing(feature.BlockForm)
	}
	return rate, nil
}

func h2hGoals(c *feature.Contract, p Params) (float64, error) {
	if !c.Has(feature.BlockH2H) {
		return 0, missing(feature.BlockH2H)
	}
	return H2HGoalsProxy(c.H2H.AvgGoals, p.Line), nil
}

func h2hBTTS(c *feature.Contract, _ Params) (float64, error) {
	if !c.Has(feature.BlockH2H) {
		return 0, missing(feature.BlockH2H)
	}
	return Clamp01(c.H2H.BTTSPct / 100), nil
}

func tempo(c *feature.Contract, _ Params) (float64, error) {
	if !c.Has(feature.BlockXG) {
		return 0, missing(feature.BlockXG)
	}
	return TempoProxy(c.XG.Total), nil
}

func oddsOpenness(c *feature.Contract, _ Params) (float64, error) {
	if !c.Has(feature.BlockOdds) {
		return 0, missing(feature.BlockOdds)
	}
	return OddsOpennessProxy(*c.Odds)
}

func attackingCorrelation(c *feature.Contract, _ Params) (float64, error) {
	if !c.Has(feature.BlockXG) {
		return 0, missing(feature.BlockXG)
	}
	return AttackingCorrelation(c.XG.Home, c.XG.Away), nil
}

func intensityCorners(c *feature.Contract, _ Params) (float64, error) {
	if !c.Has(feature.BlockPotentials) {
		return 0, missing(feature.BlockPotentials)
	}
	if !c.Has(feature.BlockLeagueStats) {
		return 0, missing(feature.BlockLeagueStats)
	}
	return IntensityProxy(c.Potentials.AvgCorners, c.LeagueStats.AvgCorners)
}

func intensityCards(c *feature.Contract, _ Params) (float64, error) {
	if !c.Has(feature.BlockPotentials) {
		return 0, missing(feature.BlockPotentials)
	}
	if !c.Has(feature.BlockLeagueStats) {
		return 0, missing(feature.BlockLeagueStats)
	}
	return IntensityProxy(c.Potentials.AvgCards, c.LeagueStats.AvgCards)
}

// goalsNeeded converts a half-goal line into the integer count that wins it.
func goalsNeeded(line float64) int {
	return int(line) + 1
}
