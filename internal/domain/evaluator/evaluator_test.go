package evaluator_test

import (
	"errors"
	"math"
	"testing"

	"github.com/okian/pickgate/internal/domain/evaluator"
	"github.com/okian/pickgate/internal/domain/feature"
	"github.com/okian/pickgate/internal/domain/feature/featuretest"
	"github.com/okian/pickgate/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func comp(v float64) types.ComponentResult {
	return types.ComponentResult{RawValue: &v, IsAvailable: true}
}

func TestPoissonTail(t *testing.T) {
	Convey("Given the Poisson tail", t, func() {
		Convey("Non-positive lambda yields zero", func() {
			So(evaluator.PoissonTail(0, 2.5), ShouldEqual, 0.0)
			So(evaluator.PoissonTail(-1, 0.5), ShouldEqual, 0.0)
			So(evaluator.PoissonTail(math.NaN(), 0.5), ShouldEqual, 0.0)
		})

		Convey("Over 2.5 at lambda 2.85", func() {
			So(evaluator.PoissonTail(2.85, 2.5), ShouldAlmostEqual, 0.5424, 1e-4)
		})

		Convey("It is monotone in lambda", func() {
			prev := 0.0
			for l := 0.1; l < 8; l += 0.1 {
				p := evaluator.PoissonTail(l, 2.5)
				So(p, ShouldBeGreaterThanOrEqualTo, prev)
				So(p, ShouldBeBetweenOrEqual, 0.0, 1.0)
				prev = p
			}
		})

		Convey("It is non-increasing in the line", func() {
			So(evaluator.PoissonTail(2.5, 1.5), ShouldBeGreaterThan, evaluator.PoissonTail(2.5, 2.5))
			So(evaluator.PoissonTail(2.5, 2.5), ShouldBeGreaterThan, evaluator.PoissonTail(2.5, 3.5))
		})

		Convey("A negative line is certain", func() {
			So(evaluator.PoissonTail(1.2, -0.5), ShouldEqual, 1.0)
		})

		Convey("Large lambda stays bounded", func() {
			So(evaluator.PoissonTail(60, 9.5), ShouldAlmostEqual, 1.0, 1e-9)
		})
	})
}

func TestBothScore(t *testing.T) {
	Convey("Given both-sides-score", t, func() {
		So(evaluator.BothScore(1.65, 1.20), ShouldAlmostEqual, 0.5646, 1e-4)
		So(evaluator.BothScore(1.65, 1.20), ShouldEqual, evaluator.BothScore(1.20, 1.65))
		So(evaluator.BothScore(0, 1.4), ShouldEqual, 0.0)
		So(evaluator.BothScore(1.4, -0.2), ShouldEqual, 0.0)
		So(evaluator.ScoreProbability(1.0), ShouldAlmostEqual, 1-math.Exp(-1), 1e-12)
	})
}

func TestComponentStatistics(t *testing.T) {
	Convey("Given component results", t, func() {
		Convey("Identical values have zero variance", func() {
			cs := []types.ComponentResult{comp(0.6), comp(0.6), comp(0.6)}
			So(evaluator.ComponentVariance(cs), ShouldEqual, 0.0)
			So(evaluator.ComponentSpread(cs), ShouldEqual, 0.0)
		})

		Convey("No available values gives variance 1", func() {
			So(evaluator.ComponentVariance(nil), ShouldEqual, 1.0)
			So(evaluator.ComponentVariance([]types.ComponentResult{{Name: "x"}}), ShouldEqual, 1.0)
		})

		Convey("Unavailable components are ignored", func() {
			cs := []types.ComponentResult{comp(0.2), comp(0.8), {Name: "off"}}
			So(evaluator.ComponentVariance(cs), ShouldAlmostEqual, 0.09, 1e-12)
			So(evaluator.ComponentSpread(cs), ShouldAlmostEqual, 0.6, 1e-12)
		})

		Convey("A single value has no spread", func() {
			So(evaluator.ComponentSpread([]types.ComponentResult{comp(0.9)}), ShouldEqual, 0.0)
		})
	})
}

func TestProxies(t *testing.T) {
	Convey("Given the proxy mappings", t, func() {
		So(evaluator.TempoProxy(2.0), ShouldEqual, 0.5)
		So(evaluator.TempoProxy(9), ShouldEqual, 1.0)
		So(evaluator.H2HGoalsProxy(2.5, 2.5), ShouldEqual, 0.5)
		So(evaluator.H2HGoalsProxy(0, 2.5), ShouldEqual, 0.0)
		So(evaluator.AttackingCorrelation(1.5, 1.5), ShouldEqual, 1.0)
		So(evaluator.AttackingCorrelation(0, 1.5), ShouldEqual, 0.0)

		v, err := evaluator.IntensityProxy(10, 10)
		So(err, ShouldBeNil)
		So(v, ShouldEqual, 0.5)
		_, err = evaluator.IntensityProxy(10, 0)
		So(errors.Is(err, evaluator.ErrInvalidInput), ShouldBeTrue)

		_, err = evaluator.OddsOpennessProxy(feature.Odds{HomeWin: 1, Draw: 3, AwayWin: 3})
		So(errors.Is(err, evaluator.ErrInvalidInput), ShouldBeTrue)
		open, err := evaluator.OddsOpennessProxy(feature.Odds{HomeWin: 2.10, Draw: 3.40, AwayWin: 3.60})
		So(err, ShouldBeNil)
		So(open, ShouldBeBetweenOrEqual, 0.0, 1.0)

		So(evaluator.Edge(0.6, 2.0), ShouldAlmostEqual, 0.2, 1e-12)
		So(evaluator.ImpliedProbability(4), ShouldEqual, 0.25)
		So(evaluator.ImpliedProbability(0), ShouldEqual, 0.0)
		So(evaluator.Clamp01(math.NaN()), ShouldEqual, 0.0)
	})
}

func TestFormRate(t *testing.T) {
	Convey("Given recent matches", t, func() {
		ms := featuretest.HomeForm()
		scored := func(m feature.FormMatch) bool { return m.GoalsFor > 0 }

		rate, ok := evaluator.FormRate(ms, 0, scored)
		So(ok, ShouldBeTrue)
		So(rate, ShouldEqual, 0.8)

		rate, ok = evaluator.FormRate(ms, 3, scored)
		So(ok, ShouldBeTrue)
		So(rate, ShouldEqual, 1.0)

		_, ok = evaluator.FormRate(nil, 5, scored)
		So(ok, ShouldBeFalse)
	})
}

func TestTable(t *testing.T) {
	Convey("Given the evaluator table", t, func() {
		c := featuretest.Full()

		Convey("Every registered evaluator reads the full contract", func() {
			for _, name := range evaluator.Names() {
				e, ok := evaluator.Lookup(name)
				So(ok, ShouldBeTrue)
				So(e.DataSource, ShouldNotBeEmpty)
				v, err := e.Fn(&c, evaluator.Params{Line: 2.5, Potential: "over_25"})
				So(err, ShouldBeNil)
				So(v, ShouldBeBetweenOrEqual, 0.0, 1.0)
			}
		})

		Convey("A missing block reports missing input", func() {
			bare := featuretest.Without(c, feature.BlockXG)
			e, _ := evaluator.Lookup("poisson_total_goals")
			_, err := e.Fn(&bare, evaluator.Params{Line: 2.5})
			So(errors.Is(err, evaluator.ErrMissingInput), ShouldBeTrue)
		})

		Convey("Unknown names are not registered", func() {
			_, ok := evaluator.Lookup("magic")
			So(ok, ShouldBeFalse)
			So(evaluator.ValidatePotential("over_25"), ShouldBeTrue)
			So(evaluator.ValidatePotential("over_45"), ShouldBeFalse)
		})

		Convey("Form evaluators pool both sides", func() {
			e, _ := evaluator.Lookup("form_goals_over")
			v, err := e.Fn(&c, evaluator.Params{Line: 2.5})
			So(err, ShouldBeNil)
			So(v, ShouldEqual, 0.6)
		})
	})
}
