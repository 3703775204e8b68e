// Package backtest replays historical rows through the composer and scorer,
// settles the YES picks and reports hit rate, ROI and calibration against the
// market's acceptance thresholds.
//
// Rows are processed independently into per-row slots and reduced once, so
// the map stage can run on any Runner without shared accumulators.
package backtest

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/okian/pickgate/internal/domain/composer"
	"github.com/okian/pickgate/internal/domain/dedupe"
	"github.com/okian/pickgate/internal/domain/feature"
	"github.com/okian/pickgate/internal/domain/market"
	"github.com/okian/pickgate/internal/domain/model"
	"github.com/okian/pickgate/internal/domain/scoring"
	"github.com/okian/pickgate/internal/domain/types"
)

// Defaults.
const (
	DefaultAssumedOdds = 1.90
	DefaultMinMatches  = 30
)

// HistorySource supplies already-fetched historical rows.
type HistorySource interface {
	Rows(ctx context.Context, start, end time.Time) ([]model.HistoricalRow, error)
}

// Runner executes fn for every index in [0, n). It stops scheduling new
// indexes once ctx is done and returns the first error.
type Runner interface {
	Run(ctx context.Context, n int, fn func(ctx context.Context, i int) error) error
}

// Request selects a market and a window.
type Request struct {
	MarketID      string    `json:"market_id"`
	Start         time.Time `json:"start"`
	End           time.Time `json:"end"`
	MinMatches    int       `json:"min_matches"`
	MinConfidence int       `json:"min_confidence"`
}

// Option configures an Engine.
type Option func(*Engine)

// WithAssumedOdds sets the flat price used for ROI when the market does not
// override it.
func WithAssumedOdds(odds float64) Option {
	return func(e *Engine) {
		if odds > 1 {
			e.assumedOdds = odds
		}
	}
}

// WithMinMatches sets the sample floor used when a request leaves it zero.
func WithMinMatches(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.minMatches = n
		}
	}
}

// WithRunner sets the map-stage executor. The default runs rows serially.
func WithRunner(r Runner) Option {
	return func(e *Engine) {
		if r != nil {
			e.runner = r
		}
	}
}

// WithComposer sets the composer used to rebuild historical contracts.
func WithComposer(c *composer.Composer) Option {
	return func(e *Engine) {
		if c != nil {
			e.composer = c
		}
	}
}

// WithClock overrides the clock used for GeneratedAt, Duration and ScoredAt.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// Engine runs backtests. It is safe for concurrent use.
type Engine struct {
	registry    *market.Registry
	source      HistorySource
	composer    *composer.Composer
	runner      Runner
	assumedOdds float64
	minMatches  int
	now         func() time.Time
}

// New creates an engine over registry and source.
func New(registry *market.Registry, source HistorySource, opts ...Option) *Engine {
	e := &Engine{
		registry:    registry,
		source:      source,
		composer:    composer.New(),
		runner:      serialRunner{},
		assumedOdds: DefaultAssumedOdds,
		minMatches:  DefaultMinMatches,
		now:         func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// rowResult is the map-stage output for one row.
type rowResult struct {
	skipped     bool
	picked      bool
	outcome     types.Outcome
	probability float64
	confidence  int
}

// Run executes a backtest for req.
func (e *Engine) Run(ctx context.Context, req Request) (types.BacktestResult, error) {
	started := e.now()

	def, err := e.registry.Get(req.MarketID)
	if err != nil {
		return types.BacktestResult{}, err
	}
	if !req.End.IsZero() && req.End.Before(req.Start) {
		return types.BacktestResult{}, fmt.Errorf("%w: end before start", ErrInvalidRequest)
	}
	if req.MinConfidence < 0 || req.MinConfidence > 100 {
		return types.BacktestResult{}, fmt.Errorf("%w: min_confidence out of range", ErrInvalidRequest)
	}
	minMatches := req.MinMatches
	if minMatches <= 0 {
		minMatches = e.minMatches
	}

	raw, err := e.source.Rows(ctx, req.Start, req.End)
	if err != nil {
		return types.BacktestResult{}, fmt.Errorf("%w: %w", ErrHistorySource, err)
	}
	rows := uniqueRows(ctx, raw)
	if len(rows) < minMatches {
		return types.BacktestResult{}, fmt.Errorf("%w: %d rows, need %d", ErrInsufficientData, len(rows), minMatches)
	}

	scorer := scoring.New(e.registry, scoring.WithClock(e.now))
	results := make([]rowResult, len(rows))
	err = e.runner.Run(ctx, len(rows), func(_ context.Context, i int) error {
		results[i] = e.evaluate(scorer, &def, &rows[i], req.MinConfidence)
		return nil
	})
	if err != nil {
		return types.BacktestResult{}, err
	}

	out := reduce(&def, results, e.oddsFor(&def))
	out.RunID = uuid.NewString()
	out.MarketID = def.ID
	out.StartDate = req.Start
	out.EndDate = req.End
	out.GeneratedAt = e.now()
	out.Duration = out.GeneratedAt.Sub(started)
	return out, nil
}

func (e *Engine) oddsFor(def *market.Definition) float64 {
	if def.Validation.AssumedOdds > 1 {
		return def.Validation.AssumedOdds
	}
	return e.assumedOdds
}

// evaluate composes, scores and settles one row.
func (e *Engine) evaluate(scorer *scoring.MarketScorer, def *market.Definition, row *model.HistoricalRow, minConfidence int) rowResult {
	var lookup composer.PredictiveLookup
	if row.Predictive != nil {
		lookup = pairedLookup{rec: *row.Predictive}
	}
	contract, err := e.composer.Compose(row.Settlement, lookup)
	if err != nil {
		return rowResult{skipped: true}
	}
	pre := preMatch(contract)
	res, err := scorer.Score(def.ID, &pre)
	if err != nil {
		return rowResult{skipped: true}
	}
	out := rowResult{probability: res.Probability, confidence: res.Confidence}
	if res.Pick != types.PickYes || res.Confidence < minConfidence {
		return out
	}
	out.picked = true
	out.outcome = Settle(def.Settlement, &contract)
	return out
}

// preMatch returns the contract as it looked before kickoff: the post-match
// blocks are cleared so scoring sees the same inputs a live fixture has.
func preMatch(c feature.Contract) feature.Contract { //nolint:gocritic // value copy is the point
	c.FTScores, c.HTScores, c.Corners, c.Cards = nil, nil, nil, nil
	c.Status = model.StatusScheduled
	c.Finalize()
	return c
}

// reduce aggregates row results into a report.
func reduce(def *market.Definition, results []rowResult, odds float64) types.BacktestResult {
	out := types.BacktestResult{AssumedOdds: odds, ValidationNotes: []string{}}
	var (
		preds   []prediction
		sumConf float64
		sumProb float64
	)
	for _, r := range results {
		if r.skipped {
			out.RowsSkipped++
			continue
		}
		out.RowsEvaluated++
		if !r.picked {
			continue
		}
		out.Total++
		sumConf += float64(r.confidence)
		sumProb += r.probability
		switch r.outcome {
		case types.OutcomeWin:
			out.Won++
			preds = append(preds, prediction{probability: r.probability, won: true})
		case types.OutcomeLoss:
			out.Lost++
			preds = append(preds, prediction{probability: r.probability})
		default:
			out.Void++
		}
	}

	out.TotalSettled = out.Won + out.Lost
	if out.TotalSettled > 0 {
		settled := float64(out.TotalSettled)
		out.HitRate = float64(out.Won) / settled
		out.ROI = (float64(out.Won)*odds - settled) / settled
	}
	if out.Total > 0 {
		out.AvgConfidence = sumConf / float64(out.Total)
		out.AvgProbability = sumProb / float64(out.Total)
	}
	out.CalibrationCurve, out.CalibrationError = calibrate(preds)

	v := def.Validation
	if out.TotalSettled == 0 {
		out.ValidationNotes = append(out.ValidationNotes, "no settled picks in window")
	}
	if out.HitRate < v.MinHitRate {
		out.ValidationNotes = append(out.ValidationNotes,
			fmt.Sprintf("hit_rate %.4f below %.4f", out.HitRate, v.MinHitRate))
	}
	if out.ROI < v.MinROI {
		out.ValidationNotes = append(out.ValidationNotes,
			fmt.Sprintf("roi %.4f below %.4f", out.ROI, v.MinROI))
	}
	if v.MaxCalibrationError > 0 && out.CalibrationError > v.MaxCalibrationError {
		out.ValidationNotes = append(out.ValidationNotes,
			fmt.Sprintf("calibration_error %.4f above %.4f", out.CalibrationError, v.MaxCalibrationError))
	}
	out.ValidationPassed = len(out.ValidationNotes) == 0
	return out
}

// uniqueRows keeps the first row per settlement id.
func uniqueRows(ctx context.Context, rows []model.HistoricalRow) []model.HistoricalRow {
	seen := dedupe.NewInMemoryDeduper()
	out := make([]model.HistoricalRow, 0, len(rows))
	for _, r := range rows {
		if seen.SeenAndRecord(ctx, r.Settlement.ExternalID) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// pairedLookup exposes the predictive record stored with a historical row as
// an explicit cross-reference.
type pairedLookup struct {
	rec model.PredictiveRecord
}

func (p pairedLookup) CrossReference(string) (model.PredictiveRecord, bool) { return p.rec, true }

func (p pairedLookup) InWindow(time.Time, time.Time) []model.PredictiveRecord { return nil }

// serialRunner runs rows one by one on the caller's goroutine.
type serialRunner struct{}

func (serialRunner) Run(ctx context.Context, n int, fn func(ctx context.Context, i int) error) error {
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(ctx, i); err != nil {
			return err
		}
	}
	return nil
}
