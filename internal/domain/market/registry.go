package market

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/okian/pickgate/internal/domain/evaluator"
	"github.com/okian/pickgate/internal/domain/types"
)

const weightSumTolerance = 1e-6

// Registry is an immutable, validated set of market definitions.
type Registry struct {
	version string
	defs    map[string]Definition
	ids     []string
}

// NewRegistry validates defs and builds a registry. Definitions with all-zero
// confidence weights receive the default split.
func NewRegistry(version string, defs ...Definition) (*Registry, error) {
	r := &Registry{
		version: version,
		defs:    make(map[string]Definition, len(defs)),
	}
	for i := range defs {
		d := defs[i].clone()
		if d.Confidence == (ConfidenceWeights{}) {
			d.Confidence = DefaultConfidenceWeights()
		}
		if err := validate(&d); err != nil {
			return nil, err
		}
		if _, dup := r.defs[d.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate market %q", ErrInvalidDefinition, d.ID)
		}
		r.defs[d.ID] = d
		r.ids = append(r.ids, d.ID)
	}
	sort.Strings(r.ids)
	return r, nil
}

// Get returns a copy of the definition for id.
func (r *Registry) Get(id string) (Definition, error) {
	d, ok := r.defs[id]
	if !ok {
		return Definition{}, fmt.Errorf("%w: %q", ErrUnknownMarket, id)
	}
	return d.clone(), nil
}

// IDs returns the registered market ids, sorted.
func (r *Registry) IDs() []string {
	return append([]string(nil), r.ids...)
}

// Version returns the registry document version.
func (r *Registry) Version() string { return r.version }

// Len returns the number of markets.
func (r *Registry) Len() int { return len(r.defs) }

func validate(d *Definition) error {
	fail := func(format string, args ...any) error {
		return fmt.Errorf("%w: market %q: %s", ErrInvalidDefinition, d.ID, fmt.Sprintf(format, args...))
	}

	if strings.TrimSpace(d.ID) == "" {
		return fmt.Errorf("%w: missing market id", ErrInvalidDefinition)
	}
	if len(d.Components) == 0 {
		return fail("no components")
	}
	for _, c := range d.Components {
		entry, ok := evaluator.Lookup(c.Evaluator)
		if !ok {
			return fail("component %q: unknown evaluator %q", c.Name, c.Evaluator)
		}
		if c.Weight <= 0 || math.IsNaN(c.Weight) {
			return fail("component %q: weight must be positive", c.Name)
		}
		if entry.Name == "potential" && !evaluator.ValidatePotential(c.Params.Potential) {
			return fail("component %q: unknown potential %q", c.Name, c.Params.Potential)
		}
		if c.Params.Side != "" && c.Params.Side != "home" && c.Params.Side != "away" {
			return fail("component %q: side must be home or away", c.Name)
		}
	}
	for _, a := range d.Adjustments {
		if !validField(a.Condition.Field) {
			return fail("adjustment %q: unknown field %q", a.Name, a.Condition.Field)
		}
		if !validOp(a.Condition.Op) {
			return fail("adjustment %q: unknown comparator %q", a.Name, a.Condition.Op)
		}
	}
	if d.RequiredPotential != "" && !evaluator.ValidatePotential(d.RequiredPotential) {
		return fail("unknown required potential %q", d.RequiredPotential)
	}
	switch d.OddsSide {
	case OddsSideNone, OddsSideHomeWin, OddsSideDraw, OddsSideAwayWin:
	default:
		return fail("unknown odds side %q", d.OddsSide)
	}

	w := d.Confidence
	if w.Completeness < 0 || w.Agreement < 0 || w.Edge < 0 || w.Penalty < 0 {
		return fail("confidence weights must be non-negative")
	}
	if math.Abs(w.Sum()-100) > weightSumTolerance {
		return fail("confidence weights sum to %.2f, want 100", w.Sum())
	}

	p := d.Policy
	if p.MinConfidence < 0 || p.MinConfidence > 100 {
		return fail("min_confidence out of range")
	}
	if p.MinProbability < 0 || p.MinProbability > 1 {
		return fail("min_probability out of range")
	}
	for _, f := range p.Floors {
		if !types.IsMetadataKey(f.Metadata) {
			return fail("floor over unknown metadata %q", f.Metadata)
		}
	}

	switch d.Settlement.Kind {
	case SettleGoalsOver, SettleBTTS, SettleHomeGoalsOver, SettleAwayGoalsOver, SettleCornersOver, SettleCardsOver:
	default:
		return fail("unknown settlement kind %q", d.Settlement.Kind)
	}
	return nil
}
