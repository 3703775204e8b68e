package riskflag_test

import (
	"encoding/json"
	"testing"

	"github.com/okian/pickgate/internal/domain/feature"
	"github.com/okian/pickgate/internal/domain/riskflag"
	. "github.com/smartystreets/goconvey/convey"
)

func TestTaxonomy(t *testing.T) {
	Convey("Given the flag taxonomy", t, func() {
		Convey("Then every flag has fixed attributes", func() {
			for _, f := range riskflag.All() {
				info, ok := riskflag.Lookup(f)
				So(ok, ShouldBeTrue)
				So(info.Flag, ShouldEqual, f)
				So(info.Penalty, ShouldBeGreaterThanOrEqualTo, 0)
				So(info.Description, ShouldNotBeEmpty)
			}
			So(len(riskflag.All()), ShouldEqual, 18)
		})

		Convey("Then severities match the publishing rules", func() {
			So(riskflag.SeverityOf(riskflag.MissingXG), ShouldEqual, riskflag.SeverityBlocking)
			So(riskflag.SeverityOf(riskflag.ConflictingSignals), ShouldEqual, riskflag.SeverityBlocking)
			So(riskflag.SeverityOf(riskflag.HighVariance), ShouldEqual, riskflag.SeverityWarning)
			So(riskflag.SeverityOf(riskflag.ProxyOddsUsed), ShouldEqual, riskflag.SeverityInfo)
			So(riskflag.IsBlocking(riskflag.MissingOdds), ShouldBeFalse)
		})

		Convey("Then unknown flags block and carry no penalty", func() {
			So(riskflag.IsBlocking("made_up"), ShouldBeTrue)
			So(riskflag.Penalty("made_up"), ShouldEqual, 0)
			_, ok := riskflag.Lookup("made_up")
			So(ok, ShouldBeFalse)
		})

		Convey("Then every feature block has an availability flag", func() {
			for _, b := range feature.BlockNames() {
				f, ok := riskflag.ForMissingBlock(b)
				So(ok, ShouldBeTrue)
				So(string(f), ShouldEqual, "missing_"+b)
			}
			_, ok := riskflag.ForMissingBlock("weather")
			So(ok, ShouldBeFalse)
		})
	})
}

func TestFlagSets(t *testing.T) {
	Convey("Given a mixed flag list", t, func() {
		flags := []riskflag.Flag{
			riskflag.ProxyOddsUsed, riskflag.ConflictingSignals, riskflag.MissingOdds, riskflag.MissingXG,
		}

		Convey("Then the blocking subset keeps order", func() {
			So(riskflag.BlockingFlags(flags), ShouldResemble, []riskflag.Flag{riskflag.ConflictingSignals, riskflag.MissingXG})
			So(riskflag.BlockingFlags([]riskflag.Flag{riskflag.ProxyOddsUsed}), ShouldBeEmpty)
		})

		Convey("Then penalties add up", func() {
			So(riskflag.TotalPenalty(flags), ShouldEqual, 0+15+10+20)
			So(riskflag.TotalPenalty(nil), ShouldEqual, 0)
		})
	})
}

func TestSeverityJSON(t *testing.T) {
	Convey("Given flag info", t, func() {
		info, _ := riskflag.Lookup(riskflag.HighVariance)

		Convey("When it is encoded", func() {
			b, err := json.Marshal(info)
			So(err, ShouldBeNil)
			So(string(b), ShouldContainSubstring, `"severity":"warning"`)
			So(riskflag.SeverityBlocking.String(), ShouldEqual, "blocking")
			So(riskflag.Severity(42).String(), ShouldEqual, "info")
		})
	})
}
