package feature

import (
	"fmt"
	"math"
	"slices"
	"strings"
)

const ratioTolerance = 1e-9

// Validate checks identity fields and that the completeness record and risk
// seeds agree with the populated blocks.
func (c *Contract) Validate() error {
	switch {
	case strings.TrimSpace(c.MatchID) == "":
		return fmt.Errorf("%w: missing match_id", ErrInvalidContract)
	case strings.TrimSpace(c.HomeTeam.Name) == "":
		return fmt.Errorf("%w: missing home team", ErrInvalidContract)
	case strings.TrimSpace(c.AwayTeam.Name) == "":
		return fmt.Errorf("%w: missing away team", ErrInvalidContract)
	case c.KickoffTS.IsZero():
		return fmt.Errorf("%w: missing kickoff", ErrInvalidContract)
	}

	seen := make(map[string]bool, len(blockNames))
	for _, name := range c.Completeness.Present {
		if !slices.Contains(blockNames, name) {
			return fmt.Errorf("%w: unknown block %q", ErrInvalidContract, name)
		}
		if seen[name] {
			return fmt.Errorf("%w: block %q listed twice", ErrInvalidContract, name)
		}
		if !c.Has(name) {
			return fmt.Errorf("%w: block %q marked present but empty", ErrInvalidContract, name)
		}
		seen[name] = true
	}
	for _, name := range c.Completeness.Missing {
		if !slices.Contains(blockNames, name) {
			return fmt.Errorf("%w: unknown block %q", ErrInvalidContract, name)
		}
		if seen[name] {
			return fmt.Errorf("%w: block %q listed twice", ErrInvalidContract, name)
		}
		if c.Has(name) {
			return fmt.Errorf("%w: block %q marked missing but populated", ErrInvalidContract, name)
		}
		seen[name] = true
	}
	for _, name := range blockNames {
		if !seen[name] {
			return fmt.Errorf("%w: block %q not accounted for", ErrInvalidContract, name)
		}
	}

	want := float64(len(c.Completeness.Present)) / float64(len(blockNames))
	if math.Abs(c.Completeness.Ratio-want) > ratioTolerance {
		return fmt.Errorf("%w: completeness ratio %.4f, want %.4f", ErrInvalidContract, c.Completeness.Ratio, want)
	}
	if !slices.Equal(c.RiskSeeds, SeedFlags(c.Completeness.Missing)) {
		return fmt.Errorf("%w: risk seeds do not match missing blocks", ErrInvalidContract)
	}
	return nil
}
