// Package riskflag defines the closed set of data, quality and prediction
// risk conditions that can be attached to a scoring result.
//
// Every flag has a fixed severity and a fixed confidence penalty. The penalty
// is informational (dashboards, analytics); confidence itself is computed
// once by the scorer and is never re-derived from flags.
package riskflag

import (
	"encoding/json"
	"sort"
)

// Severity classifies how a flag affects publishing.
type Severity int

const (
	// SeverityInfo flags are purely descriptive.
	SeverityInfo Severity = iota
	// SeverityWarning flags are surfaced but never block publishing.
	SeverityWarning
	// SeverityBlocking flags always prevent publishing.
	SeverityBlocking
)

// String returns the lower-case severity name.
func (s Severity) String() string {
	switch s {
	case SeverityBlocking:
		return "blocking"
	case SeverityWarning:
		return "warning"
	default:
		return "info"
	}
}

// MarshalJSON encodes the severity by name.
func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// Flag is a risk condition identifier.
type Flag string

// Data availability flags, one per optional feature block.
const (
	MissingXG          Flag = "missing_xg"
	MissingOdds        Flag = "missing_odds"
	MissingPotentials  Flag = "missing_potentials"
	MissingFTScores    Flag = "missing_ft_scores"
	MissingHTScores    Flag = "missing_ht_scores"
	MissingCorners     Flag = "missing_corners"
	MissingCards       Flag = "missing_cards"
	MissingForm        Flag = "missing_form"
	MissingH2H         Flag = "missing_h2h"
	MissingLeagueStats Flag = "missing_league_stats"
)

// Quality and prediction flags raised by the scorer.
const (
	MissingRequiredPotential Flag = "missing_required_potential"
	NoComponentsAvailable    Flag = "no_components_available"
	ConflictingSignals       Flag = "conflicting_signals"
	HighVariance             Flag = "high_variance"
	PathologicalOdds         Flag = "pathological_odds"
	ProxyOddsUsed            Flag = "proxy_odds_used"
	ComponentError           Flag = "component_error"
	LowDataScore             Flag = "low_data_score"
)

// Info describes a flag's fixed attributes.
type Info struct {
	Flag        Flag     `json:"flag"`
	Severity    Severity `json:"severity"`
	Penalty     int      `json:"penalty"`
	Description string   `json:"description"`
}

var taxonomy = map[Flag]Info{ //nolint:gochecknoglobals // closed, read-only taxonomy
	MissingXG:          {MissingXG, SeverityBlocking, 20, "expected-goals data unavailable"},
	MissingOdds:        {MissingOdds, SeverityWarning, 10, "bookmaker odds unavailable"},
	MissingPotentials:  {MissingPotentials, SeverityWarning, 8, "pre-computed market potentials unavailable"},
	MissingFTScores:    {MissingFTScores, SeverityInfo, 0, "full-time score not available"},
	MissingHTScores:    {MissingHTScores, SeverityInfo, 0, "half-time score not available"},
	MissingCorners:     {MissingCorners, SeverityInfo, 0, "corner counts not available"},
	MissingCards:       {MissingCards, SeverityInfo, 0, "card counts not available"},
	MissingForm:        {MissingForm, SeverityWarning, 5, "recent form unavailable"},
	MissingH2H:         {MissingH2H, SeverityInfo, 2, "head-to-head stats unavailable"},
	MissingLeagueStats: {MissingLeagueStats, SeverityInfo, 2, "league averages unavailable"},

	MissingRequiredPotential: {MissingRequiredPotential, SeverityBlocking, 15, "market requires a potential that is missing"},
	NoComponentsAvailable:    {NoComponentsAvailable, SeverityBlocking, 30, "no model component could be evaluated"},
	ConflictingSignals:       {ConflictingSignals, SeverityBlocking, 15, "model components disagree strongly"},
	HighVariance:             {HighVariance, SeverityWarning, 10, "high variance across model components"},
	PathologicalOdds:         {PathologicalOdds, SeverityWarning, 10, "odds outside the plausible range"},
	ProxyOddsUsed:            {ProxyOddsUsed, SeverityInfo, 0, "edge computed against proxy odds of 2.0"},
	ComponentError:           {ComponentError, SeverityInfo, 3, "a component evaluator failed"},
	LowDataScore:             {LowDataScore, SeverityWarning, 5, "less than half of the feature blocks present"},
}

// missingBlock maps feature block names to their availability flag.
var missingBlock = map[string]Flag{ //nolint:gochecknoglobals // fixed lookup table
	"xg":           MissingXG,
	"odds":         MissingOdds,
	"potentials":   MissingPotentials,
	"ft_scores":    MissingFTScores,
	"ht_scores":    MissingHTScores,
	"corners":      MissingCorners,
	"cards":        MissingCards,
	"form":         MissingForm,
	"h2h":          MissingH2H,
	"league_stats": MissingLeagueStats,
}

// Lookup returns the fixed attributes of f.
func Lookup(f Flag) (Info, bool) {
	info, ok := taxonomy[f]
	return info, ok
}

// SeverityOf returns the severity of f. Unknown flags are treated as blocking.
func SeverityOf(f Flag) Severity {
	if info, ok := taxonomy[f]; ok {
		return info.Severity
	}
	return SeverityBlocking
}

// Penalty returns the display penalty of f, 0 for unknown flags.
func Penalty(f Flag) int {
	return taxonomy[f].Penalty
}

// IsBlocking reports whether f prevents publishing.
func IsBlocking(f Flag) bool {
	return SeverityOf(f) == SeverityBlocking
}

// ForMissingBlock returns the flag seeded when the named block is missing.
func ForMissingBlock(block string) (Flag, bool) {
	f, ok := missingBlock[block]
	return f, ok
}

// BlockingFlags returns the blocking subset of flags, preserving order.
func BlockingFlags(flags []Flag) []Flag {
	var out []Flag
	for _, f := range flags {
		if IsBlocking(f) {
			out = append(out, f)
		}
	}
	return out
}

// TotalPenalty sums the display penalties of flags.
func TotalPenalty(flags []Flag) int {
	total := 0
	for _, f := range flags {
		total += Penalty(f)
	}
	return total
}

// All returns every defined flag.
func All() []Flag {
	out := make([]Flag, 0, len(taxonomy))
	for f := range taxonomy {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
