package worker_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/okian/pickgate/internal/adapters/worker"
	"github.com/okian/pickgate/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestPoolRun(t *testing.T) {
	Convey("Given a worker pool", t, func() {
		So(logger.Init(), ShouldBeNil)
		pool := worker.NewPool(4, worker.WithName("test-pool"))
		ctx := context.Background()

		Convey("When running independent tasks", func() {
			out := make([]int, 100)
			err := pool.Run(ctx, len(out), func(_ context.Context, i int) error {
				out[i] = i * i
				return nil
			})

			Convey("Then every slot is filled", func() {
				So(err, ShouldBeNil)
				So(out[0], ShouldEqual, 0)
				So(out[99], ShouldEqual, 99*99)
			})
		})

		Convey("When tasks run concurrently", func() {
			var inFlight, peak atomic.Int32
			err := pool.Run(ctx, 40, func(_ context.Context, _ int) error {
				n := inFlight.Add(1)
				for {
					p := peak.Load()
					if n <= p || peak.CompareAndSwap(p, n) {
						break
					}
				}
				time.Sleep(time.Millisecond)
				inFlight.Add(-1)
				return nil
			})

			Convey("Then the limit is respected", func() {
				So(err, ShouldBeNil)
				So(int(peak.Load()), ShouldBeLessThanOrEqualTo, 4)
				So(pool.Size(), ShouldEqual, 4)
			})
		})

		Convey("When a task fails", func() {
			boom := errors.New("boom")
			err := pool.Run(ctx, 10, func(_ context.Context, i int) error {
				if i == 3 {
					return boom
				}
				return nil
			})

			Convey("Then the error is returned", func() {
				So(errors.Is(err, boom), ShouldBeTrue)
			})
		})

		Convey("When a task panics", func() {
			err := pool.Run(ctx, 2, func(_ context.Context, i int) error {
				if i == 1 {
					panic("bad row")
				}
				return nil
			})

			Convey("Then the panic becomes an error", func() {
				So(errors.Is(err, worker.ErrTaskPanic), ShouldBeTrue)
			})
		})

		Convey("When the context is already cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			var calls atomic.Int32
			err := pool.Run(cctx, 10, func(_ context.Context, _ int) error {
				calls.Add(1)
				return nil
			})

			Convey("Then nothing is scheduled", func() {
				So(errors.Is(err, context.Canceled), ShouldBeTrue)
				So(int(calls.Load()), ShouldEqual, 0)
			})
		})

		Convey("When the size is not positive", func() {
			p := worker.NewPool(0)

			Convey("Then a CPU-based default is used", func() {
				So(p.Size(), ShouldBeGreaterThan, 0)
			})
		})
	})
}
