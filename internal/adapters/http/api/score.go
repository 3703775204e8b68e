package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/okian/pickgate/internal/domain/feature"
	"github.com/okian/pickgate/internal/domain/model"
	"github.com/okian/pickgate/internal/domain/types"
)

// ScoreDependencies composes, scores and gates contracts.
type ScoreDependencies interface {
	Compose(ctx context.Context, f *model.Fixture) (feature.Contract, error)
	ScoreMarkets(ctx context.Context, c *feature.Contract, marketIDs []string) ([]types.MarketEvaluation, error)
	Evaluate(ctx context.Context, marketID string, r *types.ScoringResult) (types.EligibilityResult, error)
}

// ScoreHandler handles compose, score and eligibility requests.
type ScoreHandler struct {
	deps ScoreDependencies
}

// NewScoreHandler creates a new score handler.
func NewScoreHandler(deps ScoreDependencies) *ScoreHandler {
	return &ScoreHandler{deps: deps}
}

// HandleCompose handles POST /compose requests.
func (h *ScoreHandler) HandleCompose(w http.ResponseWriter, r *http.Request) {
	const op = "api.compose"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req model.Fixture
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	c, err := h.deps.Compose(r.Context(), &req)
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// HandleScore handles POST /score requests.
func (h *ScoreHandler) HandleScore(w http.ResponseWriter, r *http.Request) {
	const op = "api.score"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req scoreRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	var c feature.Contract
	if req.Contract != nil {
		c = *req.Contract
	} else {
		composed, err := h.deps.Compose(r.Context(), req.Fixture)
		if err != nil {
			writeDomainError(w, op, err)
			return
		}
		c = composed
	}

	evals, err := h.deps.ScoreMarkets(r.Context(), &c, req.Markets)
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, scoreResponse{Contract: c, Evaluations: evals})
}

// HandleEligibility handles POST /eligibility requests.
func (h *ScoreHandler) HandleEligibility(w http.ResponseWriter, r *http.Request) {
	const op = "api.eligibility"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req eligibilityRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	marketID := req.MarketID
	if marketID == "" && req.Result != nil {
		marketID = req.Result.MarketID
	}
	if marketID == "" {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, errors.New("missing market_id")))
		return
	}
	out, err := h.deps.Evaluate(r.Context(), marketID, req.Result)
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
