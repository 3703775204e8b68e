package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/okian/pickgate/internal/domain/types"
)

const resultExt = ".json"

// ResultStore persists backtest reports as one JSON file per run.
type ResultStore struct {
	dir string
}

// NewResultStore creates dir if needed and returns a store over it.
func NewResultStore(dir string) (*ResultStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create results dir: %w", err)
	}
	return &ResultStore{dir: dir}, nil
}

// Save writes r and returns the file path.
func (s *ResultStore) Save(_ context.Context, r *types.BacktestResult) (string, error) {
	if _, err := uuid.Parse(r.RunID); err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidID, r.RunID)
	}
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode result: %w", err)
	}
	path := filepath.Join(s.dir, r.RunID+resultExt)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return "", fmt.Errorf("write result: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return "", fmt.Errorf("commit result: %w", err)
	}
	return path, nil
}

// Load reads the report for runID.
func (s *ResultStore) Load(_ context.Context, runID string) (types.BacktestResult, error) {
	if _, err := uuid.Parse(runID); err != nil {
		return types.BacktestResult{}, fmt.Errorf("%w: %q", ErrInvalidID, runID)
	}
	data, err := os.ReadFile(filepath.Join(s.dir, runID+resultExt))
	if errors.Is(err, fs.ErrNotExist) {
		return types.BacktestResult{}, fmt.Errorf("%w: %s", ErrNotFound, runID)
	}
	if err != nil {
		return types.BacktestResult{}, fmt.Errorf("read result: %w", err)
	}
	var r types.BacktestResult
	if err := json.Unmarshal(data, &r); err != nil {
		return types.BacktestResult{}, fmt.Errorf("decode result: %w", err)
	}
	return r, nil
}

// List returns the stored run ids, sorted.
func (s *ResultStore) List(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, resultExt) {
			continue
		}
		id := strings.TrimSuffix(name, resultExt)
		if _, err := uuid.Parse(id); err == nil {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}
