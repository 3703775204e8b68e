package scoring

import (
	"errors"
	"testing"

	"github.com/okian/pickgate/internal/domain/evaluator"
	"github.com/okian/pickgate/internal/domain/feature"
	"github.com/okian/pickgate/internal/domain/feature/featuretest"
	"github.com/okian/pickgate/internal/domain/market"
	"github.com/okian/pickgate/internal/domain/riskflag"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSafeEval(t *testing.T) {
	Convey("Given a contract", t, func() {
		c := featuretest.Full()

		Convey("When the evaluator panics", func() {
			entry := evaluator.Entry{Name: "boom", Fn: func(*feature.Contract, evaluator.Params) (float64, error) {
				panic("index out of range")
			}}
			_, err := safeEval(entry, &c, evaluator.Params{})

			Convey("Then the panic is returned as an error", func() {
				So(errors.Is(err, ErrScore), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "boom")
			})
		})

		Convey("When the evaluator is missing", func() {
			_, err := safeEval(evaluator.Entry{Name: "absent"}, &c, evaluator.Params{})
			So(errors.Is(err, ErrScore), ShouldBeTrue)
		})
	})
}

func TestEvaluateComponentsDegrades(t *testing.T) {
	Convey("Given a market whose evaluator name is not registered", t, func() {
		def := market.Definition{
			ID: "m",
			Components: []market.ComponentSpec{
				{Name: "poisson", Evaluator: "poisson_total_goals", Weight: 0.5, Params: evaluator.Params{Line: 2.5}},
				{Name: "ghost", Evaluator: "not_registered", Weight: 0.5},
			},
		}
		c := featuretest.Full()

		Convey("When components are evaluated", func() {
			out, failed := evaluateComponents(&def, &c)

			Convey("Then the failing component is unavailable and flagged", func() {
				So(failed, ShouldBeTrue)
				So(out[0].IsAvailable, ShouldBeTrue)
				So(out[1].IsAvailable, ShouldBeFalse)
				So(out[1].RawValue, ShouldBeNil)
				So(out[1].WeightedContribution, ShouldEqual, 0.0)
				So(blend(out), ShouldAlmostEqual, *out[0].RawValue, 1e-12)
			})
		})
	})

	Convey("Given a set of flags", t, func() {
		fs := newFlagSet([]riskflag.Flag{riskflag.MissingOdds, riskflag.MissingOdds})
		fs.add(riskflag.ProxyOddsUsed)
		fs.add(riskflag.MissingOdds)

		So(fs.list(), ShouldResemble, []riskflag.Flag{riskflag.MissingOdds, riskflag.ProxyOddsUsed})
	})
}
