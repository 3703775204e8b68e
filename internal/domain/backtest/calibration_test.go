package backtest

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestCalibrate(t *testing.T) {
	Convey("Given no settled predictions", t, func() {
		curve, calErr := calibrate(nil)

		Convey("Then the curve is empty with fixed bounds", func() {
			So(calErr, ShouldEqual, 0.0)
			So(curve[0].Lower, ShouldEqual, 0.0)
			So(curve[9].Upper, ShouldEqual, 1.0)
			for _, b := range curve {
				So(b.Count, ShouldEqual, 0)
			}
		})
	})

	Convey("Given predictions across two bands", t, func() {
		preds := []prediction{
			{probability: 0.62, won: true},
			{probability: 0.68, won: false},
			{probability: 0.91, won: true},
			{probability: 1.0, won: true},
		}
		curve, calErr := calibrate(preds)

		Convey("Then each lands in its band and 1.0 joins the top band", func() {
			So(curve[6].Count, ShouldEqual, 2)
			So(curve[6].Wins, ShouldEqual, 1)
			So(curve[6].AvgPredicted, ShouldAlmostEqual, 0.65, 1e-9)
			So(curve[6].Error, ShouldAlmostEqual, 0.15, 1e-9)
			So(curve[9].Count, ShouldEqual, 2)
			So(curve[9].ActualRate, ShouldEqual, 1.0)
			So(curve[9].Error, ShouldAlmostEqual, 0.045, 1e-9)
		})

		Convey("Then the error is weighted by bucket count", func() {
			So(calErr, ShouldAlmostEqual, (0.15*2+0.045*2)/4, 1e-9)
		})
	})

	Convey("Given out of range probabilities", t, func() {
		So(bucketIndex(-0.2), ShouldEqual, 0)
		So(bucketIndex(0.0999), ShouldEqual, 0)
		So(bucketIndex(0.1), ShouldEqual, 1)
		So(bucketIndex(1.7), ShouldEqual, 9)
	})
}
