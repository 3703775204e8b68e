// Package worker runs bounded parallel map stages for scoring and backtests.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/pickgate/pkg/logger"
	"github.com/okian/pickgate/pkg/metrics"
)

const defaultWorkerMultiplier = 2 // multiplier for runtime.NumCPU()

// Pool bounds concurrent task execution. A Pool holds no per-run state and
// may be shared by concurrent callers; the limit applies per Run call.
type Pool struct {
	size   int
	name   string
	logger logger.Logger
}

// NewPool creates a pool running at most size tasks at once. A size below 1
// uses a multiple of the CPU count.
func NewPool(size int, opts ...Option) *Pool {
	if size < 1 {
		size = runtime.NumCPU() * defaultWorkerMultiplier
	}
	p := &Pool{size: size, name: "worker-pool"}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = logger.Get().Named(p.name)
	}
	return p
}

// Size returns the concurrency limit.
func (p *Pool) Size() int { return p.size }

// Run calls fn for every index in [0, n) with at most Size calls in flight.
// The first error cancels the context passed to remaining calls and stops
// scheduling; a panic in fn is returned as an error.
func (p *Pool) Run(ctx context.Context, n int, fn func(ctx context.Context, i int) error) error {
	if n <= 0 {
		return nil
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.size)

	for i := 0; i < n; i++ {
		if gctx.Err() != nil {
			break
		}
		i := i
		g.Go(func() error {
			return p.task(gctx, i, fn)
		})
	}
	if err := g.Wait(); err != nil {
		p.logger.Warn(ctx, "pool run stopped", logger.Int("tasks", n), logger.Error(err))
		return err
	}
	return ctx.Err()
}

func (p *Pool) task(ctx context.Context, i int, fn func(ctx context.Context, i int) error) (err error) {
	metrics.AddWorkerActive(1)
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: task %d: %v", ErrTaskPanic, i, r)
		}
		metrics.AddWorkerActive(-1)
		metrics.RecordWorkerTask(float64(time.Since(start).Microseconds())/1000, err != nil)
	}()
	return fn(ctx, i)
}
