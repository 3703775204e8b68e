// Package composer merges a settlement-oriented record and a predictive
// record into one feature contract.
//
// Linking is strictly deterministic: an explicit cross-reference, else an
// exact case-insensitive home and away name match inside a kickoff window,
// else unlinked. Ambiguous candidates resolve to unlinked.
package composer

import (
	"fmt"
	"strings"
	"time"

	"github.com/okian/pickgate/internal/domain/feature"
	"github.com/okian/pickgate/internal/domain/model"
)

const defaultLinkWindow = 2 * time.Hour

// PredictiveLookup supplies already-fetched predictive records.
type PredictiveLookup interface {
	CrossReference(settlementID string) (model.PredictiveRecord, bool)
	InWindow(from, to time.Time) []model.PredictiveRecord
}

// Option applies a configuration option to the Composer.
type Option func(*Composer)

// WithLinkWindow sets the ± kickoff window used for name matching.
func WithLinkWindow(window time.Duration) Option {
	return func(c *Composer) {
		if window > 0 {
			c.linkWindow = window
		}
	}
}

// Composer builds feature contracts. It holds no mutable state and is safe
// for concurrent use.
type Composer struct {
	linkWindow time.Duration
}

// New creates a Composer with configuration options.
func New(opts ...Option) *Composer {
	c := &Composer{linkWindow: defaultLinkWindow}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compose builds a contract from a settlement record, merging the predictive
// record found through lookup. A nil lookup means no predictive source.
func (c *Composer) Compose(s model.SettlementRecord, lookup PredictiveLookup) (feature.Contract, error) { //nolint:gocritic // records are passed by value
	if err := validateSettlement(s); err != nil {
		return feature.Contract{}, err
	}

	out := feature.Contract{
		Version:    feature.Version,
		Source:     feature.SourceSettlementOnly,
		MatchID:    s.ExternalID,
		KickoffTS:  s.KickoffTS.UTC(),
		Status:     s.Status,
		HomeTeam:   feature.Ref{ID: s.HomeTeamID, Name: s.HomeTeam},
		AwayTeam:   feature.Ref{ID: s.AwayTeamID, Name: s.AwayTeam},
		League:     feature.Ref{ID: s.LeagueID, Name: s.LeagueName},
		LinkMethod: feature.LinkNone,
	}
	applySettlement(&out, s)

	if lookup != nil {
		if rec, method, ok := c.link(s, lookup); ok {
			out.Source = feature.SourceHybrid
			out.LinkMethod = method
			applyPredictive(&out, &rec)
		}
	}

	out.Finalize()
	return out, nil
}

// ComposePredictive builds a predictive-only contract for a fixture the
// settlement feed does not carry.
func (c *Composer) ComposePredictive(p model.PredictiveRecord) (feature.Contract, error) { //nolint:gocritic // records are passed by value
	switch {
	case strings.TrimSpace(p.ID) == "":
		return feature.Contract{}, fmt.Errorf("%w: missing predictive id", ErrInvalidSourceData)
	case strings.TrimSpace(p.HomeTeam) == "" || strings.TrimSpace(p.AwayTeam) == "":
		return feature.Contract{}, fmt.Errorf("%w: missing team names", ErrInvalidSourceData)
	case p.KickoffTS.IsZero():
		return feature.Contract{}, fmt.Errorf("%w: missing kickoff", ErrInvalidSourceData)
	}

	out := feature.Contract{
		Version:    feature.Version,
		Source:     feature.SourcePredictiveOnly,
		MatchID:    p.ID,
		KickoffTS:  p.KickoffTS.UTC(),
		Status:     model.StatusScheduled,
		HomeTeam:   feature.Ref{Name: p.HomeTeam},
		AwayTeam:   feature.Ref{Name: p.AwayTeam},
		League:     feature.Ref{Name: p.League},
		LinkMethod: feature.LinkNone,
	}
	applyPredictive(&out, &p)
	out.Finalize()
	return out, nil
}

func validateSettlement(s model.SettlementRecord) error { //nolint:gocritic // records are passed by value
	switch {
	case strings.TrimSpace(s.ExternalID) == "":
		return fmt.Errorf("%w: missing external id", ErrInvalidSourceData)
	case strings.TrimSpace(s.HomeTeam) == "":
		return fmt.Errorf("%w: missing home team", ErrInvalidSourceData)
	case strings.TrimSpace(s.AwayTeam) == "":
		return fmt.Errorf("%w: missing away team", ErrInvalidSourceData)
	case s.KickoffTS == nil || s.KickoffTS.IsZero():
		return fmt.Errorf("%w: missing kickoff", ErrInvalidSourceData)
	case strings.TrimSpace(s.Status) == "":
		return fmt.Errorf("%w: missing status", ErrInvalidSourceData)
	}
	return nil
}

// link locates the predictive record for s.
func (c *Composer) link(s model.SettlementRecord, lookup PredictiveLookup) (model.PredictiveRecord, feature.LinkMethod, bool) { //nolint:gocritic // records are passed by value
	if rec, ok := lookup.CrossReference(s.ExternalID); ok {
		return rec, feature.LinkCrossReference, true
	}

	kickoff := *s.KickoffTS
	home, away := normalizeName(s.HomeTeam), normalizeName(s.AwayTeam)
	var (
		match model.PredictiveRecord
		found int
	)
	for _, rec := range lookup.InWindow(kickoff.Add(-c.linkWindow), kickoff.Add(c.linkWindow)) {
		if normalizeName(rec.HomeTeam) == home && normalizeName(rec.AwayTeam) == away {
			match = rec
			found++
		}
	}
	if found != 1 {
		return model.PredictiveRecord{}, feature.LinkNone, false
	}
	return match, feature.LinkExactNameWindow, true
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
