package feature_test

import (
	"errors"
	"testing"
	"time"

	"github.com/okian/pickgate/internal/domain/feature"
	"github.com/okian/pickgate/internal/domain/feature/featuretest"
	"github.com/okian/pickgate/internal/domain/riskflag"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCompleteness(t *testing.T) {
	Convey("Given a contract with every block", t, func() {
		c := featuretest.Full()

		Convey("Then completeness is full", func() {
			So(c.Completeness.Present, ShouldResemble, feature.BlockNames())
			So(c.Completeness.Missing, ShouldBeEmpty)
			So(c.Completeness.Ratio, ShouldEqual, 1.0)
			So(c.DataScore(), ShouldEqual, 100)
			So(c.RiskSeeds, ShouldBeEmpty)
			So(c.Validate(), ShouldBeNil)
		})

		Convey("When blocks are removed", func() {
			partial := featuretest.Without(c, feature.BlockXG, feature.BlockH2H, feature.BlockCards)

			Convey("Then present and missing partition the block set", func() {
				So(len(partial.Completeness.Present)+len(partial.Completeness.Missing), ShouldEqual, len(feature.BlockNames()))
				So(partial.Completeness.Missing, ShouldResemble, []string{feature.BlockXG, feature.BlockCards, feature.BlockH2H})
				So(partial.DataScore(), ShouldEqual, 70)
				So(partial.Validate(), ShouldBeNil)
			})

			Convey("And each missing block seeds its flag", func() {
				So(partial.RiskSeeds, ShouldResemble, []riskflag.Flag{
					riskflag.MissingXG, riskflag.MissingCards, riskflag.MissingH2H,
				})
			})
		})
	})
}

func TestValidate(t *testing.T) {
	Convey("Given a valid contract", t, func() {
		c := featuretest.Full()

		Convey("When the match id is blank", func() {
			c.MatchID = "  "
			So(errors.Is(c.Validate(), feature.ErrInvalidContract), ShouldBeTrue)
		})

		Convey("When a team is missing", func() {
			c.AwayTeam.Name = ""
			So(errors.Is(c.Validate(), feature.ErrInvalidContract), ShouldBeTrue)
		})

		Convey("When kickoff is zero", func() {
			c.KickoffTS = time.Time{}
			So(errors.Is(c.Validate(), feature.ErrInvalidContract), ShouldBeTrue)
		})

		Convey("When a block is cleared without recomputing completeness", func() {
			c.Odds = nil
			So(errors.Is(c.Validate(), feature.ErrInvalidContract), ShouldBeTrue)
		})

		Convey("When a block is listed twice", func() {
			c.Completeness.Missing = []string{feature.BlockXG}
			So(errors.Is(c.Validate(), feature.ErrInvalidContract), ShouldBeTrue)
		})

		Convey("When a block name is not part of the schema", func() {
			c.Completeness.Missing = append(c.Completeness.Missing, "foo")
			So(errors.Is(c.Validate(), feature.ErrInvalidContract), ShouldBeTrue)
		})

		Convey("When risk seeds are stripped from a partial contract", func() {
			partial := featuretest.Without(c, feature.BlockXG)
			So(partial.Validate(), ShouldBeNil)

			partial.RiskSeeds = nil
			So(errors.Is(partial.Validate(), feature.ErrInvalidContract), ShouldBeTrue)
		})

		Convey("When the completeness ratio is inflated", func() {
			partial := featuretest.Without(c, feature.BlockXG)
			partial.Completeness.Ratio = 1
			So(errors.Is(partial.Validate(), feature.ErrInvalidContract), ShouldBeTrue)
		})

		Convey("When a block is unaccounted for", func() {
			c.Completeness.Present = c.Completeness.Present[1:]
			So(errors.Is(c.Validate(), feature.ErrInvalidContract), ShouldBeTrue)
		})
	})
}

func TestFinalize(t *testing.T) {
	Convey("Given an empty contract", t, func() {
		var c feature.Contract
		c.Finalize()

		Convey("Then the version is set and every block is missing", func() {
			So(c.Version, ShouldEqual, feature.Version)
			So(c.Completeness.Present, ShouldBeEmpty)
			So(c.Completeness.Ratio, ShouldEqual, 0.0)
			So(len(c.RiskSeeds), ShouldEqual, len(feature.BlockNames()))
			So(c.Has("unknown"), ShouldBeFalse)
		})
	})
}
