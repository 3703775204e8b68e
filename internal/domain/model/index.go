package model

import (
	"sort"
	"time"
)

// PredictiveIndex is an in-memory predictive lookup keyed by explicit
// cross-reference and sorted by kickoff for window scans.
type PredictiveIndex struct {
	byKickoff []PredictiveRecord
	xref      map[string]int
}

// NewPredictiveIndex builds an index over records. xref maps settlement ids to
// predictive record ids; unknown predictive ids are ignored.
func NewPredictiveIndex(records []PredictiveRecord, xref map[string]string) *PredictiveIndex {
	sorted := make([]PredictiveRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].KickoffTS.Before(sorted[j].KickoffTS)
	})

	byID := make(map[string]int, len(sorted))
	for i, r := range sorted {
		byID[r.ID] = i
	}
	idx := &PredictiveIndex{byKickoff: sorted, xref: make(map[string]int, len(xref))}
	for settlementID, predictiveID := range xref {
		if i, ok := byID[predictiveID]; ok {
			idx.xref[settlementID] = i
		}
	}
	return idx
}

// CrossReference returns the record explicitly linked to settlementID.
func (p *PredictiveIndex) CrossReference(settlementID string) (PredictiveRecord, bool) {
	i, ok := p.xref[settlementID]
	if !ok {
		return PredictiveRecord{}, false
	}
	return p.byKickoff[i], true
}

// InWindow returns records with kickoff in [from, to].
func (p *PredictiveIndex) InWindow(from, to time.Time) []PredictiveRecord {
	start := sort.Search(len(p.byKickoff), func(i int) bool {
		return !p.byKickoff[i].KickoffTS.Before(from)
	})
	var out []PredictiveRecord
	for i := start; i < len(p.byKickoff) && !p.byKickoff[i].KickoffTS.After(to); i++ {
		out = append(out, p.byKickoff[i])
	}
	return out
}

// Len returns the number of indexed records.
func (p *PredictiveIndex) Len() int { return len(p.byKickoff) }
