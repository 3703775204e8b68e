package backtest_test

import (
	"testing"

	"github.com/okian/pickgate/internal/domain/backtest"
	"github.com/okian/pickgate/internal/domain/feature"
	"github.com/okian/pickgate/internal/domain/feature/featuretest"
	"github.com/okian/pickgate/internal/domain/market"
	"github.com/okian/pickgate/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSettle(t *testing.T) {
	Convey("Given a finished match that ended 2-1 with 11 corners and 5 cards", t, func() {
		c := featuretest.Full()

		Convey("Then goal lines settle on the total", func() {
			So(backtest.Settle(market.SettlementRule{Kind: market.SettleGoalsOver, Line: 2.5}, &c), ShouldEqual, types.OutcomeWin)
			So(backtest.Settle(market.SettlementRule{Kind: market.SettleGoalsOver, Line: 3.5}, &c), ShouldEqual, types.OutcomeLoss)
		})

		Convey("Then an integer line landed on exactly is void", func() {
			So(backtest.Settle(market.SettlementRule{Kind: market.SettleGoalsOver, Line: 3}, &c), ShouldEqual, types.OutcomeVoid)
			So(backtest.Settle(market.SettlementRule{Kind: market.SettleGoalsOver, Line: 2}, &c), ShouldEqual, types.OutcomeWin)
		})

		Convey("Then team lines read one side", func() {
			So(backtest.Settle(market.SettlementRule{Kind: market.SettleHomeGoalsOver, Line: 1.5}, &c), ShouldEqual, types.OutcomeWin)
			So(backtest.Settle(market.SettlementRule{Kind: market.SettleAwayGoalsOver, Line: 1.5}, &c), ShouldEqual, types.OutcomeLoss)
		})

		Convey("Then both teams scoring wins btts", func() {
			So(backtest.Settle(market.SettlementRule{Kind: market.SettleBTTS}, &c), ShouldEqual, types.OutcomeWin)
			c.FTScores = &feature.Score{Home: 3, Away: 0}
			So(backtest.Settle(market.SettlementRule{Kind: market.SettleBTTS}, &c), ShouldEqual, types.OutcomeLoss)
		})

		Convey("Then corners and cards settle on their counts", func() {
			So(backtest.Settle(market.SettlementRule{Kind: market.SettleCornersOver, Line: 9.5}, &c), ShouldEqual, types.OutcomeWin)
			So(backtest.Settle(market.SettlementRule{Kind: market.SettleCardsOver, Line: 4.5}, &c), ShouldEqual, types.OutcomeWin)
			So(backtest.Settle(market.SettlementRule{Kind: market.SettleCardsOver, Line: 5.5}, &c), ShouldEqual, types.OutcomeLoss)
		})

		Convey("When settlement data is missing", func() {
			bare := featuretest.Without(c, feature.BlockFTScores, feature.BlockCorners, feature.BlockCards)

			So(backtest.Settle(market.SettlementRule{Kind: market.SettleGoalsOver, Line: 2.5}, &bare), ShouldEqual, types.OutcomeVoid)
			So(backtest.Settle(market.SettlementRule{Kind: market.SettleBTTS}, &bare), ShouldEqual, types.OutcomeVoid)
			So(backtest.Settle(market.SettlementRule{Kind: market.SettleCornersOver, Line: 9.5}, &bare), ShouldEqual, types.OutcomeVoid)
			So(backtest.Settle(market.SettlementRule{Kind: market.SettleCardsOver, Line: 4.5}, &bare), ShouldEqual, types.OutcomeVoid)
		})

		Convey("When the rule kind is unknown", func() {
			So(backtest.Settle(market.SettlementRule{Kind: "draw"}, &c), ShouldEqual, types.OutcomeVoid)
		})
	})
}
