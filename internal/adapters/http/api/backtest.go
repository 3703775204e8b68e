package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/okian/pickgate/internal/domain/backtest"
	"github.com/okian/pickgate/internal/domain/types"
)

// BacktestDependencies runs and loads backtests.
type BacktestDependencies interface {
	RunBacktest(ctx context.Context, req backtest.Request, save bool) (types.BacktestResult, string, error)
	Backtest(ctx context.Context, runID string) (types.BacktestResult, error)
}

// backtestRequest is the body of POST /backtest. Dates are RFC3339 or
// YYYY-MM-DD; an empty bound is open and a plain end date includes that day.
type backtestRequest struct {
	MarketID      string `json:"market_id"`
	Start         string `json:"start,omitempty"`
	End           string `json:"end,omitempty"`
	MinConfidence int    `json:"min_confidence,omitempty"`
	MinMatches    int    `json:"min_matches,omitempty"`
	Save          bool   `json:"save,omitempty"`
}

func (b backtestRequest) toRequest() (backtest.Request, error) {
	if strings.TrimSpace(b.MarketID) == "" {
		return backtest.Request{}, errors.New("missing market_id")
	}
	start, err := ParseDate(b.Start)
	if err != nil {
		return backtest.Request{}, err
	}
	end, err := ParseEndDate(b.End)
	if err != nil {
		return backtest.Request{}, err
	}
	return backtest.Request{
		MarketID:      b.MarketID,
		Start:         start,
		End:           end,
		MinMatches:    b.MinMatches,
		MinConfidence: b.MinConfidence,
	}, nil
}

type backtestResponse struct {
	Result    types.BacktestResult `json:"result"`
	SavedPath string               `json:"saved_path,omitempty"`
}

// ParseDate accepts RFC3339 or a plain date. Empty input yields the zero time.
func ParseDate(s string) (time.Time, error) {
	t, _, err := parseDate(s)
	return t, err
}

// ParseEndDate parses an inclusive window end. A plain date covers the whole
// day; RFC3339 input is kept exact.
func ParseEndDate(s string) (time.Time, error) {
	t, dateOnly, err := parseDate(s)
	if err != nil || !dateOnly {
		return t, err
	}
	return t.Add(24*time.Hour - time.Nanosecond), nil
}

func parseDate(s string) (t time.Time, dateOnly bool, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false, nil
	}
	if ts, perr := time.Parse(time.RFC3339, s); perr == nil {
		return ts.UTC(), false, nil
	}
	t, err = time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, false, errors.New("invalid date; must be RFC3339 or YYYY-MM-DD")
	}
	return t.UTC(), true, nil
}

// BacktestHandler handles backtest requests.
type BacktestHandler struct {
	deps BacktestDependencies
}

// NewBacktestHandler creates a new backtest handler.
func NewBacktestHandler(deps BacktestDependencies) *BacktestHandler {
	return &BacktestHandler{deps: deps}
}

// HandleRun handles POST /backtest requests.
func (h *BacktestHandler) HandleRun(w http.ResponseWriter, r *http.Request) {
	const op = "api.run_backtest"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var body backtestRequest
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	req, err := body.toRequest()
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	res, path, err := h.deps.RunBacktest(r.Context(), req, body.Save)
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, backtestResponse{Result: res, SavedPath: path})
}

// HandleGet handles GET /backtests/{run_id} requests.
func (h *BacktestHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_backtest"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	runID := strings.TrimPrefix(r.URL.Path, "/backtests/")
	if runID == "" || strings.Contains(runID, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	res, err := h.deps.Backtest(r.Context(), runID)
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
