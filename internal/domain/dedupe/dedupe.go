// Package dedupe tracks seen match identifiers so a row is processed at
// most once per run.
package dedupe

import (
	"context"
	"sync"
)

// Deduper records seen ids.
type Deduper interface {
	// SeenAndRecord atomically checks if id was seen and records it if not.
	// It returns true if id was already seen.
	SeenAndRecord(ctx context.Context, id string) bool

	// Size returns the number of ids currently tracked.
	Size() int64
}

// inMemoryDeduper keeps ids in a map. In bounded mode the oldest id is
// evicted first once maxSize is reached.
type inMemoryDeduper struct {
	mu      sync.Mutex
	seen    map[string]struct{}
	order   []string // ring of ids in insertion order, bounded mode only
	next    int
	maxSize int // 0 or negative = unbounded
}

// NewInMemoryDeduper creates a new in-memory deduper with configuration options.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{}
	for _, opt := range opts {
		opt(d)
	}
	d.seen = make(map[string]struct{})
	if d.maxSize > 0 {
		d.order = make([]string, 0, d.maxSize)
	}
	return d
}

func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[id]; ok {
		return true
	}
	if d.maxSize > 0 {
		if len(d.order) < d.maxSize {
			d.order = append(d.order, id)
		} else {
			delete(d.seen, d.order[d.next])
			d.order[d.next] = id
			d.next = (d.next + 1) % d.maxSize
		}
	}
	d.seen[id] = struct{}{}
	return false
}

func (d *inMemoryDeduper) Size() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return int64(len(d.seen))
}
