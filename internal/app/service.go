// Package service wires the composer, scorer, eligibility gate and backtest
// engine into the operations exposed by the HTTP API and the CLI.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/okian/pickgate/internal/adapters/repository"
	"github.com/okian/pickgate/internal/adapters/worker"
	"github.com/okian/pickgate/internal/domain/backtest"
	"github.com/okian/pickgate/internal/domain/composer"
	"github.com/okian/pickgate/internal/domain/eligibility"
	"github.com/okian/pickgate/internal/domain/feature"
	"github.com/okian/pickgate/internal/domain/market"
	"github.com/okian/pickgate/internal/domain/model"
	"github.com/okian/pickgate/internal/domain/riskflag"
	"github.com/okian/pickgate/internal/domain/scoring"
	"github.com/okian/pickgate/internal/domain/types"
	"github.com/okian/pickgate/pkg/logger"
	"github.com/okian/pickgate/pkg/metrics"
)

// Service implements the API dependencies for the engine.
type Service struct {
	mu sync.RWMutex

	// Core components
	registry *market.Registry
	composer *composer.Composer
	scorer   *scoring.MarketScorer
	gate     *eligibility.Gate
	pool     *worker.Pool
	engine   *backtest.Engine
	history  backtest.HistorySource
	results  *repository.ResultStore

	// Configuration
	workerCount int
	linkWindow  time.Duration
	minMatches  int
	assumedOdds float64
	now         func() time.Time

	started bool

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithRegistry sets the market registry. The built-in registry is used
// otherwise.
func WithRegistry(r *market.Registry) Option {
	return func(s *Service) {
		if r != nil {
			s.registry = r
		}
	}
}

// WithWorkerCount sets the scoring and backtest concurrency.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithLinkWindow sets the composer's kickoff tolerance.
func WithLinkWindow(window time.Duration) Option {
	return func(s *Service) {
		if window > 0 {
			s.linkWindow = window
		}
	}
}

// WithBacktestDefaults sets the default sample floor and assumed odds.
func WithBacktestDefaults(minMatches int, assumedOdds float64) Option {
	return func(s *Service) {
		if minMatches > 0 {
			s.minMatches = minMatches
		}
		if assumedOdds > 1 {
			s.assumedOdds = assumedOdds
		}
	}
}

// WithHistory sets the backtest history source.
func WithHistory(h backtest.HistorySource) Option {
	return func(s *Service) {
		if h != nil {
			s.history = h
		}
	}
}

// WithResultStore enables saving backtest reports.
func WithResultStore(r *repository.ResultStore) Option {
	return func(s *Service) {
		if r != nil {
			s.results = r
		}
	}
}

// WithClock overrides the clock used for result timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount: runtime.NumCPU() * 2,
		linkWindow:  2 * time.Hour,
		minMatches:  backtest.DefaultMinMatches,
		assumedOdds: backtest.DefaultAssumedOdds,
		now:         func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start builds the engine components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	if s.registry == nil {
		s.registry = market.Default()
	}
	if s.history == nil {
		s.history = repository.NewMemoryHistory(nil)
	}

	s.composer = composer.New(composer.WithLinkWindow(s.linkWindow))
	s.scorer = scoring.New(s.registry, scoring.WithClock(s.now))
	s.gate = eligibility.New(s.registry)
	s.pool = worker.NewPool(s.workerCount, worker.WithLogger(s.logger.Named("pool")))
	s.engine = backtest.New(s.registry, s.history,
		backtest.WithComposer(s.composer),
		backtest.WithRunner(s.pool),
		backtest.WithMinMatches(s.minMatches),
		backtest.WithAssumedOdds(s.assumedOdds),
		backtest.WithClock(s.now),
	)

	s.started = true
	s.logger.Info(ctx, "engine service started",
		logger.String("registry_version", s.registry.Version()),
		logger.Int("markets", s.registry.Len()),
		logger.Int("workers", s.workerCount),
		logger.Duration("link_window", s.linkWindow),
	)
	return nil
}

// Stop marks the service stopped. Components hold no background work.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "engine service stopped")
}

func (s *Service) ready() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return ErrNotStarted
	}
	return nil
}

// Markets returns every market definition, sorted by id.
func (s *Service) Markets() []market.Definition {
	if s.ready() != nil {
		return nil
	}
	ids := s.registry.IDs()
	out := make([]market.Definition, 0, len(ids))
	for _, id := range ids {
		if d, err := s.registry.Get(id); err == nil {
			out = append(out, d)
		}
	}
	return out
}

// Market returns one definition.
func (s *Service) Market(id string) (market.Definition, error) {
	if err := s.ready(); err != nil {
		return market.Definition{}, err
	}
	return s.registry.Get(id)
}

// Compose builds a feature contract from raw records. Without a settlement
// record exactly one predictive record is required.
func (s *Service) Compose(ctx context.Context, req *model.Fixture) (feature.Contract, error) {
	if err := s.ready(); err != nil {
		return feature.Contract{}, err
	}

	var (
		c   feature.Contract
		err error
	)
	switch {
	case req == nil:
		err = fmt.Errorf("%w: empty fixture", composer.ErrInvalidSourceData)
	case req.Settlement != nil:
		idx := model.NewPredictiveIndex(req.Predictive, req.CrossReference)
		c, err = s.composer.Compose(*req.Settlement, idx)
	case len(req.Predictive) == 1:
		c, err = s.composer.ComposePredictive(req.Predictive[0])
	default:
		err = fmt.Errorf("%w: need a settlement record or exactly one predictive record", composer.ErrInvalidSourceData)
	}
	if err != nil {
		metrics.RecordErrorByComponent("composer", "invalid_source")
		return feature.Contract{}, err
	}

	metrics.RecordContractComposed(string(c.Source), string(c.LinkMethod), c.Completeness.Ratio)
	s.logger.Debug(ctx, "contract composed",
		logger.String("match_id", c.MatchID),
		logger.String("source", string(c.Source)),
		logger.String("link_method", string(c.LinkMethod)),
		logger.Int("data_score", c.DataScore()),
	)
	return c, nil
}

// Score scores c for one market.
func (s *Service) Score(ctx context.Context, marketID string, c *feature.Contract) (types.ScoringResult, error) {
	if err := s.ready(); err != nil {
		return types.ScoringResult{}, err
	}
	start := time.Now()
	res, err := s.scorer.Score(marketID, c)
	metrics.RecordScoringLatency(float64(time.Since(start).Microseconds()) / 1000)
	if err != nil {
		metrics.RecordScoringError(marketID, errorKind(err))
		s.logger.Warn(ctx, "scoring rejected",
			logger.String("market", marketID),
			logger.Error(err),
		)
		return types.ScoringResult{}, err
	}

	metrics.RecordScore(res.MarketID, string(res.Pick), res.Confidence)
	for _, f := range res.RiskFlags {
		metrics.RecordRiskFlag(string(f), riskflag.SeverityOf(f).String())
	}
	for _, comp := range res.Components {
		if !comp.IsAvailable {
			metrics.RecordComponentUnavailable(res.MarketID, comp.Name)
		}
	}
	return res, nil
}

// Evaluate runs the publish gate on a scoring result.
func (s *Service) Evaluate(ctx context.Context, marketID string, r *types.ScoringResult) (types.EligibilityResult, error) {
	if err := s.ready(); err != nil {
		return types.EligibilityResult{}, err
	}
	out, err := s.gate.Evaluate(marketID, r)
	if err != nil {
		return types.EligibilityResult{}, err
	}
	metrics.RecordEligibility(marketID, out.CanPublish)
	for _, check := range out.FailedChecks {
		metrics.RecordCheckFailure(check)
	}
	s.logger.Debug(ctx, "eligibility evaluated",
		logger.String("market", marketID),
		logger.String("match_id", out.MatchID),
		logger.Bool("can_publish", out.CanPublish),
		logger.Strings("failed_checks", out.FailedChecks),
	)
	return out, nil
}

// ScoreMarkets scores and gates c for each market in parallel. An empty
// list means every registered market. Results follow the input order.
func (s *Service) ScoreMarkets(ctx context.Context, c *feature.Contract, marketIDs []string) ([]types.MarketEvaluation, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if len(marketIDs) == 0 {
		marketIDs = s.registry.IDs()
	}
	for _, id := range marketIDs {
		if _, err := s.registry.Get(id); err != nil {
			return nil, err
		}
	}
	if c == nil {
		return nil, fmt.Errorf("%w: nil contract", feature.ErrInvalidContract)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	out := make([]types.MarketEvaluation, len(marketIDs))
	err := s.pool.Run(ctx, len(marketIDs), func(ctx context.Context, i int) error {
		res, err := s.Score(ctx, marketIDs[i], c)
		if err != nil {
			return err
		}
		verdict, err := s.Evaluate(ctx, marketIDs[i], &res)
		if err != nil {
			return err
		}
		out[i] = types.MarketEvaluation{Score: res, Eligibility: verdict}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// RunBacktest runs a backtest and, when save is set and a result store is
// configured, persists the report. It returns the saved path if any.
func (s *Service) RunBacktest(ctx context.Context, req backtest.Request, save bool) (types.BacktestResult, string, error) {
	if err := s.ready(); err != nil {
		return types.BacktestResult{}, "", err
	}
	s.logger.Info(ctx, "backtest started",
		logger.String("market", req.MarketID),
		logger.Any("start", req.Start),
		logger.Any("end", req.End),
		logger.Int("min_confidence", req.MinConfidence),
	)

	res, err := s.engine.Run(ctx, req)
	if err != nil {
		metrics.RecordErrorByComponent("backtest", errorKind(err))
		s.logger.Warn(ctx, "backtest failed", logger.String("market", req.MarketID), logger.Error(err))
		return types.BacktestResult{}, "", err
	}

	metrics.RecordBacktestRows(res.MarketID, "evaluated", res.RowsEvaluated)
	metrics.RecordBacktestRows(res.MarketID, "skipped", res.RowsSkipped)
	metrics.RecordBacktestRun(res.MarketID, res.ValidationPassed, res.Duration.Seconds(),
		res.HitRate, res.ROI, res.CalibrationError)
	s.logger.Info(ctx, "backtest finished",
		logger.String("run_id", res.RunID),
		logger.String("market", res.MarketID),
		logger.Int("settled", res.TotalSettled),
		logger.Float64("hit_rate", res.HitRate),
		logger.Float64("roi", res.ROI),
		logger.Float64("calibration_error", res.CalibrationError),
		logger.Bool("validation_passed", res.ValidationPassed),
		logger.Duration("took", res.Duration),
	)

	if !save {
		return res, "", nil
	}
	if s.results == nil {
		return res, "", ErrNoResultStore
	}
	path, err := s.results.Save(ctx, &res)
	if err != nil {
		return res, "", err
	}
	return res, path, nil
}

// Backtest loads a saved report.
func (s *Service) Backtest(ctx context.Context, runID string) (types.BacktestResult, error) {
	if err := s.ready(); err != nil {
		return types.BacktestResult{}, err
	}
	if s.results == nil {
		return types.BacktestResult{}, ErrNoResultStore
	}
	return s.results.Load(ctx, runID)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]any{
		"started":     s.started,
		"workerCount": s.workerCount,
	}
	if s.started {
		stats["registryVersion"] = s.registry.Version()
		stats["markets"] = s.registry.Len()
		stats["saveEnabled"] = s.results != nil
	}
	return stats
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, market.ErrUnknownMarket):
		return "unknown_market"
	case errors.Is(err, feature.ErrInvalidContract):
		return "invalid_contract"
	case errors.Is(err, backtest.ErrInsufficientData):
		return "insufficient_data"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	default:
		return "internal"
	}
}
