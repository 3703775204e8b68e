package composer_test

import (
	"errors"
	"testing"
	"time"

	"github.com/okian/pickgate/internal/domain/composer"
	"github.com/okian/pickgate/internal/domain/feature"
	"github.com/okian/pickgate/internal/domain/feature/featuretest"
	"github.com/okian/pickgate/internal/domain/model"
	"github.com/okian/pickgate/internal/domain/riskflag"
	. "github.com/smartystreets/goconvey/convey"
)

func index(xref map[string]string, recs ...model.PredictiveRecord) *model.PredictiveIndex {
	return model.NewPredictiveIndex(recs, xref)
}

func TestCompose(t *testing.T) {
	Convey("Given a composer and a finished settlement record", t, func() {
		c := composer.New()
		s := featuretest.Settlement()

		Convey("When the predictive record is cross-referenced", func() {
			p := featuretest.Predictive()
			p.HomeTeam = "Somebody Else"
			out, err := c.Compose(s, index(map[string]string{featuretest.SettlementID: featuretest.PredictiveID}, p))

			Convey("Then the explicit link wins over names", func() {
				So(err, ShouldBeNil)
				So(out.Source, ShouldEqual, feature.SourceHybrid)
				So(out.LinkMethod, ShouldEqual, feature.LinkCrossReference)
				So(out.DataScore(), ShouldEqual, 100)
				So(out.RiskSeeds, ShouldBeEmpty)
				So(out.Validate(), ShouldBeNil)
			})

			Convey("And identity comes from the settlement record", func() {
				So(out.MatchID, ShouldEqual, featuretest.SettlementID)
				So(out.HomeTeam.Name, ShouldEqual, featuretest.HomeTeam)
				So(out.KickoffTS.Equal(featuretest.Kickoff()), ShouldBeTrue)
			})

			Convey("And predictive blocks are merged", func() {
				So(out.XG.Total, ShouldAlmostEqual, 2.85, 1e-9)
				So(out.Odds.Draw, ShouldEqual, 3.40)
				So(out.FTScores.Total(), ShouldEqual, 3)
				So(out.Corners.Total(), ShouldEqual, 11)
				So(len(out.Form.Home), ShouldEqual, 5)
				So(out.H2H.Matches, ShouldEqual, 6)
			})
		})

		Convey("When the names match inside the window", func() {
			p := featuretest.Predictive()
			p.HomeTeam = "  NORTHBRIDGE "
			p.KickoffTS = featuretest.Kickoff().Add(90 * time.Minute)
			out, err := c.Compose(s, index(nil, p))

			So(err, ShouldBeNil)
			So(out.LinkMethod, ShouldEqual, feature.LinkExactNameWindow)
			So(out.Source, ShouldEqual, feature.SourceHybrid)
		})

		Convey("When a name only partially matches", func() {
			superset := featuretest.Predictive()
			superset.HomeTeam = featuretest.HomeTeam + " FC"
			partial := featuretest.Predictive()
			partial.ID = "pr-2003"
			partial.AwayTeam = "East"

			Convey("Then no fuzzy link is made", func() {
				for _, p := range []model.PredictiveRecord{superset, partial} {
					out, err := c.Compose(s, index(nil, p))
					So(err, ShouldBeNil)
					So(out.LinkMethod, ShouldEqual, feature.LinkNone)
					So(out.Source, ShouldEqual, feature.SourceSettlementOnly)
				}
			})
		})

		Convey("When the only match is outside the window", func() {
			p := featuretest.Predictive()
			p.KickoffTS = featuretest.Kickoff().Add(3 * time.Hour)
			out, err := c.Compose(s, index(nil, p))

			So(err, ShouldBeNil)
			So(out.LinkMethod, ShouldEqual, feature.LinkNone)
			So(out.Source, ShouldEqual, feature.SourceSettlementOnly)
		})

		Convey("When a wider window is configured", func() {
			p := featuretest.Predictive()
			p.KickoffTS = featuretest.Kickoff().Add(3 * time.Hour)
			out, err := composer.New(composer.WithLinkWindow(4*time.Hour)).Compose(s, index(nil, p))

			So(err, ShouldBeNil)
			So(out.LinkMethod, ShouldEqual, feature.LinkExactNameWindow)
		})

		Convey("When two candidates match", func() {
			a, b := featuretest.Predictive(), featuretest.Predictive()
			b.ID = "pr-2002"
			b.KickoffTS = featuretest.Kickoff().Add(30 * time.Minute)
			out, err := c.Compose(s, index(nil, a, b))

			Convey("Then the fixture stays unlinked", func() {
				So(err, ShouldBeNil)
				So(out.LinkMethod, ShouldEqual, feature.LinkNone)
				So(out.Source, ShouldEqual, feature.SourceSettlementOnly)
				So(out.XG, ShouldBeNil)
			})

			Convey("And only settlement blocks are present", func() {
				So(out.Completeness.Present, ShouldResemble, []string{
					feature.BlockFTScores, feature.BlockHTScores, feature.BlockCorners, feature.BlockCards,
				})
				So(out.DataScore(), ShouldEqual, 40)
				So(out.RiskSeeds, ShouldContain, riskflag.MissingXG)
			})
		})

		Convey("When there is no predictive source", func() {
			out, err := c.Compose(s, nil)

			So(err, ShouldBeNil)
			So(out.Source, ShouldEqual, feature.SourceSettlementOnly)
			So(out.Validate(), ShouldBeNil)
		})
	})
}

func TestComposeStatusGating(t *testing.T) {
	Convey("Given a settlement record carrying every tally", t, func() {
		c := composer.New()
		s := featuretest.Settlement()

		Convey("When the match is scheduled", func() {
			s.Status = model.StatusScheduled
			out, err := c.Compose(s, nil)

			So(err, ShouldBeNil)
			So(out.FTScores, ShouldBeNil)
			So(out.HTScores, ShouldBeNil)
			So(out.Corners, ShouldBeNil)
			So(out.Cards, ShouldBeNil)
			So(out.DataScore(), ShouldEqual, 0)
		})

		Convey("When the match is at half time", func() {
			s.Status = model.StatusHalftime
			out, err := c.Compose(s, nil)

			So(err, ShouldBeNil)
			So(out.HTScores, ShouldResemble, &feature.Score{Home: 1, Away: 0})
			So(out.FTScores, ShouldBeNil)
			So(out.Corners, ShouldBeNil)
		})

		Convey("When the match is in the second half", func() {
			s.Status = model.StatusSecondHalf
			out, err := c.Compose(s, nil)

			So(err, ShouldBeNil)
			So(out.HTScores, ShouldNotBeNil)
			So(out.FTScores, ShouldBeNil)
		})

		Convey("When a finished match lacks one side of a tally", func() {
			s.AwayCards = nil
			out, err := c.Compose(s, nil)

			So(err, ShouldBeNil)
			So(out.Cards, ShouldBeNil)
			So(out.FTScores, ShouldNotBeNil)
		})
	})
}

func TestComposeRejectsBadRecords(t *testing.T) {
	Convey("Given a composer", t, func() {
		c := composer.New()

		Convey("When identity fields are missing", func() {
			for _, mutate := range []func(*model.SettlementRecord){
				func(s *model.SettlementRecord) { s.ExternalID = "" },
				func(s *model.SettlementRecord) { s.HomeTeam = " " },
				func(s *model.SettlementRecord) { s.AwayTeam = "" },
				func(s *model.SettlementRecord) { s.KickoffTS = nil },
				func(s *model.SettlementRecord) { s.Status = "" },
			} {
				s := featuretest.Settlement()
				mutate(&s)
				_, err := c.Compose(s, nil)
				So(errors.Is(err, composer.ErrInvalidSourceData), ShouldBeTrue)
			}
		})
	})
}

func TestComposePredictive(t *testing.T) {
	Convey("Given a predictive record with no settlement counterpart", t, func() {
		c := composer.New()
		p := featuretest.Predictive()

		Convey("When it is composed", func() {
			out, err := c.ComposePredictive(p)

			Convey("Then only predictive blocks are present", func() {
				So(err, ShouldBeNil)
				So(out.Source, ShouldEqual, feature.SourcePredictiveOnly)
				So(out.Status, ShouldEqual, model.StatusScheduled)
				So(out.MatchID, ShouldEqual, featuretest.PredictiveID)
				So(out.DataScore(), ShouldEqual, 60)
				So(out.Completeness.Missing, ShouldResemble, []string{
					feature.BlockFTScores, feature.BlockHTScores, feature.BlockCorners, feature.BlockCards,
				})
				So(out.Validate(), ShouldBeNil)
			})
		})

		Convey("When a block is partially populated", func() {
			p.OddsDraw = nil
			p.H2HMatches = nil
			out, err := c.ComposePredictive(p)

			So(err, ShouldBeNil)
			So(out.Odds, ShouldBeNil)
			So(out.H2H, ShouldBeNil)
			So(out.RiskSeeds, ShouldContain, riskflag.MissingOdds)
		})

		Convey("When the record has no id", func() {
			p.ID = ""
			_, err := c.ComposePredictive(p)
			So(errors.Is(err, composer.ErrInvalidSourceData), ShouldBeTrue)
		})

		Convey("When the record has no kickoff", func() {
			p.KickoffTS = time.Time{}
			_, err := c.ComposePredictive(p)
			So(errors.Is(err, composer.ErrInvalidSourceData), ShouldBeTrue)
		})
	})
}
