package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/okian/pickgate/internal/adapters/repository"
	service "github.com/okian/pickgate/internal/app"
	"github.com/okian/pickgate/internal/domain/backtest"
	"github.com/okian/pickgate/internal/domain/composer"
	"github.com/okian/pickgate/internal/domain/feature"
	"github.com/okian/pickgate/internal/domain/feature/featuretest"
	"github.com/okian/pickgate/internal/domain/market"
	"github.com/okian/pickgate/internal/domain/model"
	"github.com/okian/pickgate/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

func history(n, wins int) *repository.MemoryHistory {
	base := featuretest.Kickoff()
	rows := make([]model.HistoricalRow, 0, n)
	for i := 0; i < n; i++ {
		home, away := 2, 1
		if i >= wins {
			home, away = 1, 0
		}
		rows = append(rows, featuretest.Row(fmt.Sprintf("bt-%02d", i), base.Add(time.Duration(i)*24*time.Hour), home, away))
	}
	return repository.NewMemoryHistory(rows)
}

func started(opts ...service.Option) *service.Service {
	svc := service.New(opts...)
	So(svc.Start(context.Background()), ShouldBeNil)
	return svc
}

func TestService_Start(t *testing.T) {
	Convey("Given a new service", t, func() {
		svc := service.New(service.WithWorkerCount(4))
		// Ensure service is stopped after test
		defer svc.Stop()

		Convey("When it is not started", func() {
			_, err := svc.Market("over_2_5")

			Convey("Then operations are rejected", func() {
				So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
				So(svc.Markets(), ShouldBeNil)
				So(svc.GetStats()["started"], ShouldEqual, false)
			})
		})

		Convey("When starting the service", func() {
			err := svc.Start(context.Background())

			Convey("Then it uses the built-in registry", func() {
				So(err, ShouldBeNil)
				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, true)
				So(stats["workerCount"], ShouldEqual, 4)
				So(stats["registryVersion"], ShouldEqual, market.DefaultVersion)
				So(stats["markets"], ShouldEqual, 7)
				So(len(svc.Markets()), ShouldEqual, 7)
			})

			Convey("And stopping marks it stopped", func() {
				svc.Stop()
				So(svc.GetStats()["started"], ShouldEqual, false)
			})
		})
	})
}

func TestService_Compose(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := started()
		defer svc.Stop()
		ctx := context.Background()

		Convey("When composing a cross-referenced fixture", func() {
			s := featuretest.Settlement()
			c, err := svc.Compose(ctx, &model.Fixture{
				Settlement:     &s,
				Predictive:     []model.PredictiveRecord{featuretest.Predictive()},
				CrossReference: map[string]string{featuretest.SettlementID: featuretest.PredictiveID},
			})

			Convey("Then every block is present", func() {
				So(err, ShouldBeNil)
				So(c.Source, ShouldEqual, feature.SourceHybrid)
				So(c.LinkMethod, ShouldEqual, feature.LinkCrossReference)
				So(c.DataScore(), ShouldEqual, 100)
			})
		})

		Convey("When composing a predictive-only fixture", func() {
			c, err := svc.Compose(ctx, &model.Fixture{Predictive: []model.PredictiveRecord{featuretest.Predictive()}})

			Convey("Then it is marked predictive only", func() {
				So(err, ShouldBeNil)
				So(c.Source, ShouldEqual, feature.SourcePredictiveOnly)
				So(c.Has(feature.BlockFTScores), ShouldBeFalse)
			})
		})

		Convey("When the fixture is empty", func() {
			_, err := svc.Compose(ctx, &model.Fixture{})

			Convey("Then it is invalid source data", func() {
				So(errors.Is(err, composer.ErrInvalidSourceData), ShouldBeTrue)
			})
		})
	})
}

func TestService_ScoreMarkets(t *testing.T) {
	Convey("Given a started service and a full contract", t, func() {
		svc := started(service.WithWorkerCount(3))
		defer svc.Stop()
		ctx := context.Background()
		c := featuretest.Full()

		Convey("When scoring every market", func() {
			evals, err := svc.ScoreMarkets(ctx, &c, nil)

			Convey("Then results follow registry order", func() {
				So(err, ShouldBeNil)
				So(len(evals), ShouldEqual, 7)
				publishable := map[string]bool{}
				for _, e := range evals {
					So(e.Score.MarketID, ShouldEqual, e.Eligibility.MarketID)
					So(e.Score.DataScore, ShouldEqual, 100)
					publishable[e.Score.MarketID] = e.Eligibility.CanPublish
				}
				So(evals[0].Score.MarketID, ShouldEqual, "btts")
				So(publishable, ShouldResemble, map[string]bool{
					"btts":             true,
					"cards_over_4_5":   false,
					"corners_over_9_5": true,
					"home_over_1_5":    false,
					"over_1_5":         true,
					"over_2_5":         true,
					"over_3_5":         false,
				})
			})
		})

		Convey("When scoring selected markets", func() {
			evals, err := svc.ScoreMarkets(ctx, &c, []string{"over_3_5", "over_2_5"})

			Convey("Then the input order is kept", func() {
				So(err, ShouldBeNil)
				So(len(evals), ShouldEqual, 2)
				So(evals[0].Score.MarketID, ShouldEqual, "over_3_5")
				So(evals[1].Score.MarketID, ShouldEqual, "over_2_5")
			})
		})

		Convey("When a market is unknown", func() {
			_, err := svc.ScoreMarkets(ctx, &c, []string{"over_2_5", "nope"})

			Convey("Then nothing is scored", func() {
				So(errors.Is(err, market.ErrUnknownMarket), ShouldBeTrue)
			})
		})

		Convey("When the contract is invalid", func() {
			bad := featuretest.Full()
			bad.MatchID = ""
			_, err := svc.ScoreMarkets(ctx, &bad, nil)

			Convey("Then it is rejected", func() {
				So(errors.Is(err, feature.ErrInvalidContract), ShouldBeTrue)
			})
		})
	})
}

func TestService_RunBacktest(t *testing.T) {
	Convey("Given a service with thirty historical rows", t, func() {
		store, err := repository.NewResultStore(t.TempDir())
		So(err, ShouldBeNil)
		svc := started(
			service.WithHistory(history(30, 20)),
			service.WithResultStore(store),
			service.WithWorkerCount(4),
		)
		defer svc.Stop()
		ctx := context.Background()

		Convey("When running and saving an over 2.5 backtest", func() {
			res, path, err := svc.RunBacktest(ctx, backtest.Request{MarketID: "over_2_5"}, true)

			Convey("Then the report is computed and persisted", func() {
				So(err, ShouldBeNil)
				So(path, ShouldNotBeEmpty)
				So(res.Total, ShouldEqual, 30)
				So(res.Won, ShouldEqual, 20)
				So(res.Lost, ShouldEqual, 10)
				So(res.HitRate, ShouldAlmostEqual, 20.0/30.0, 1e-9)
				So(res.ValidationPassed, ShouldBeTrue)

				loaded, err := svc.Backtest(ctx, res.RunID)
				So(err, ShouldBeNil)
				So(loaded.RunID, ShouldEqual, res.RunID)
				So(loaded.Won, ShouldEqual, 20)
			})
		})

		Convey("When the sample floor is above the history size", func() {
			_, _, err := svc.RunBacktest(ctx, backtest.Request{MarketID: "over_2_5", MinMatches: 31}, false)

			Convey("Then it reports insufficient data", func() {
				So(errors.Is(err, backtest.ErrInsufficientData), ShouldBeTrue)
			})
		})

		Convey("When the run id is unknown", func() {
			_, err := svc.Backtest(ctx, "6f1c1d1e-0000-4000-8000-000000000000")

			Convey("Then it is not found", func() {
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			})
		})
	})

	Convey("Given a service without a result store", t, func() {
		svc := started(service.WithHistory(history(30, 30)))
		defer svc.Stop()

		Convey("When asking to save", func() {
			res, _, err := svc.RunBacktest(context.Background(), backtest.Request{MarketID: "over_2_5"}, true)

			Convey("Then the result is returned with an error", func() {
				So(errors.Is(err, service.ErrNoResultStore), ShouldBeTrue)
				So(res.Won, ShouldEqual, 30)
			})
		})
	})
}
