// Package repository provides history sources for backtests and a file
// store for backtest reports.
package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/okian/pickgate/internal/domain/model"
)

// MemoryHistory serves historical rows from memory, sorted by kickoff.
type MemoryHistory struct {
	rows []model.HistoricalRow
}

// NewMemoryHistory copies rows into a history source. Rows without a
// kickoff sort first and are only returned for an unbounded start.
func NewMemoryHistory(rows []model.HistoricalRow) *MemoryHistory {
	sorted := make([]model.HistoricalRow, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		return kickoff(&sorted[i]).Before(kickoff(&sorted[j]))
	})
	return &MemoryHistory{rows: sorted}
}

// LoadFileHistory reads a JSON array of historical rows from path.
func LoadFileHistory(_ context.Context, path string) (*MemoryHistory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFile, err)
	}
	var rows []model.HistoricalRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidFile, path, err)
	}
	return NewMemoryHistory(rows), nil
}

// Rows returns rows with kickoff in [start, end]. A zero bound is open.
func (h *MemoryHistory) Rows(ctx context.Context, start, end time.Time) ([]model.HistoricalRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]model.HistoricalRow, 0, len(h.rows))
	for i := range h.rows {
		k := kickoff(&h.rows[i])
		if !start.IsZero() && k.Before(start) {
			continue
		}
		if !end.IsZero() && k.After(end) {
			continue
		}
		out = append(out, h.rows[i])
	}
	return out, nil
}

// Len returns the number of stored rows.
func (h *MemoryHistory) Len() int { return len(h.rows) }

func kickoff(r *model.HistoricalRow) time.Time {
	if r.Settlement.KickoffTS == nil {
		return time.Time{}
	}
	return *r.Settlement.KickoffTS
}
