package model_test

import (
	"testing"
	"time"

	"github.com/okian/pickgate/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestPredictiveIndex(t *testing.T) {
	Convey("Given predictive records out of kickoff order", t, func() {
		base := time.Date(2025, time.March, 15, 12, 0, 0, 0, time.UTC)
		recs := []model.PredictiveRecord{
			{ID: "c", KickoffTS: base.Add(4 * time.Hour)},
			{ID: "a", KickoffTS: base},
			{ID: "b", KickoffTS: base.Add(2 * time.Hour)},
		}
		idx := model.NewPredictiveIndex(recs, map[string]string{"s-1": "b", "s-2": "missing"})

		Convey("Then every record is indexed", func() {
			So(idx.Len(), ShouldEqual, 3)
		})

		Convey("When scanning a window", func() {
			got := idx.InWindow(base.Add(time.Hour), base.Add(4*time.Hour))

			Convey("Then bounds are inclusive and results are kickoff ordered", func() {
				So(len(got), ShouldEqual, 2)
				So(got[0].ID, ShouldEqual, "b")
				So(got[1].ID, ShouldEqual, "c")
			})
		})

		Convey("When the window is empty", func() {
			So(idx.InWindow(base.Add(5*time.Hour), base.Add(6*time.Hour)), ShouldBeEmpty)
		})

		Convey("When resolving cross-references", func() {
			rec, ok := idx.CrossReference("s-1")
			So(ok, ShouldBeTrue)
			So(rec.ID, ShouldEqual, "b")

			_, ok = idx.CrossReference("s-2")
			So(ok, ShouldBeFalse)
		})

		Convey("When the caller mutates its slice", func() {
			recs[0].ID = "changed"
			rec, ok := idx.CrossReference("s-1")
			So(ok, ShouldBeTrue)
			So(rec.ID, ShouldEqual, "b")
			So(idx.InWindow(base.Add(4*time.Hour), base.Add(4*time.Hour))[0].ID, ShouldEqual, "c")
		})
	})
}
