// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/pickgate/internal/adapters/repository"
	"github.com/okian/pickgate/internal/domain/backtest"
	"github.com/okian/pickgate/internal/domain/composer"
	"github.com/okian/pickgate/internal/domain/eligibility"
	"github.com/okian/pickgate/internal/domain/feature"
	"github.com/okian/pickgate/internal/domain/market"
	"github.com/okian/pickgate/internal/domain/model"
	"github.com/okian/pickgate/internal/domain/types"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 4 << 20

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	MarketDependencies
	ScoreDependencies
	BacktestDependencies
	StatsProvider
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	marketsHandler  *MarketsHandler
	scoreHandler    *ScoreHandler
	backtestHandler *BacktestHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies) *Server {
	return &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(deps),
		marketsHandler:  NewMarketsHandler(deps),
		scoreHandler:    NewScoreHandler(deps),
		backtestHandler: NewBacktestHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.Handle("/metrics", s.healthHandler.MetricsHandler())
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/markets", MetricsMiddleware(s.marketsHandler.HandleList, "markets"))
	mux.HandleFunc("/markets/", MetricsMiddleware(s.marketsHandler.HandleGet, "market"))
	mux.HandleFunc("/compose", MetricsMiddleware(s.scoreHandler.HandleCompose, "compose"))
	mux.HandleFunc("/score", MetricsMiddleware(s.scoreHandler.HandleScore, "score"))
	mux.HandleFunc("/eligibility", MetricsMiddleware(s.scoreHandler.HandleEligibility, "eligibility"))
	mux.HandleFunc("/backtest", MetricsMiddleware(s.backtestHandler.HandleRun, "backtest"))
	mux.HandleFunc("/backtests/", MetricsMiddleware(s.backtestHandler.HandleGet, "backtests"))
}

// scoreRequest is the body of POST /score. Exactly one of Contract or
// Fixture must be set. An empty market list scores every market.
type scoreRequest struct {
	Contract *feature.Contract `json:"contract,omitempty"`
	Fixture  *model.Fixture    `json:"fixture,omitempty"`
	Markets  []string          `json:"markets,omitempty"`
}

func (r *scoreRequest) validate() error {
	switch {
	case r.Contract == nil && r.Fixture == nil:
		return errors.New("one of contract or fixture is required")
	case r.Contract != nil && r.Fixture != nil:
		return errors.New("contract and fixture are mutually exclusive")
	}
	return nil
}

type scoreResponse struct {
	Contract    feature.Contract         `json:"contract"`
	Evaluations []types.MarketEvaluation `json:"evaluations"`
}

// eligibilityRequest is the body of POST /eligibility.
type eligibilityRequest struct {
	MarketID string               `json:"market_id"`
	Result   *types.ScoringResult `json:"result"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// decodeJSON reads a bounded JSON body into v, rejecting unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	return nil
}

// writeDomainError translates engine errors into HTTP responses.
func writeDomainError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, market.ErrUnknownMarket):
		writeError(w, http.StatusNotFound, "unknown_market", err)
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, backtest.ErrInsufficientData):
		writeError(w, http.StatusUnprocessableEntity, "insufficient_data", err)
	case errors.Is(err, feature.ErrInvalidContract),
		errors.Is(err, composer.ErrInvalidSourceData),
		errors.Is(err, eligibility.ErrInvalidResult),
		errors.Is(err, backtest.ErrInvalidRequest),
		errors.Is(err, repository.ErrInvalidID):
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", WrapKind(op, ErrInternal, err))
	}
}
