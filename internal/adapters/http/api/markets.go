package api

import (
	"net/http"
	"strings"

	"github.com/okian/pickgate/internal/domain/market"
)

// MarketDependencies exposes the market registry.
type MarketDependencies interface {
	Markets() []market.Definition
	Market(id string) (market.Definition, error)
}

// MarketsHandler serves market definitions.
type MarketsHandler struct {
	deps MarketDependencies
}

// NewMarketsHandler creates a new markets handler.
func NewMarketsHandler(deps MarketDependencies) *MarketsHandler {
	return &MarketsHandler{deps: deps}
}

// HandleList handles GET /markets requests.
func (h *MarketsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Markets())
}

// HandleGet handles GET /markets/{market_id} requests.
func (h *MarketsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_market"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/markets/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	def, err := h.deps.Market(id)
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, def)
}
