package routes

import (
	"slices"
	"sync"
	"sync/atomic"
)

// Index is the live route table for one watched file group.
//
// Exactly one writer mutates an Index (the file-watch consumer); any
// number of readers may call Snapshot concurrently. Mutations recompile
// the full table from the tracked route set and publish it atomically,
// so a failed recompile leaves the previous table in place.
type Index struct {
	root string

	mu      sync.Mutex
	tracked []string

	snapshot atomic.Pointer[Table]
}

// NewIndex creates an empty index for files under root. root includes the
// group marker directory and is stripped from file paths during
// classification.
func NewIndex(root string) *Index {
	ix := &Index{root: root}
	ix.snapshot.Store(&Table{Static: map[string]struct{}{}})
	return ix
}

// Root returns the watched root this index classifies against.
func (ix *Index) Root() string {
	return ix.root
}

// FileAdded records a new function file. Paths with unrecognized
// extensions and already-tracked routes are ignored. A compile failure
// reverts the addition and keeps the previous table.
func (ix *Index) FileAdded(path string) error {
	route, ok := Classify(path, ix.root)
	if !ok {
		return nil
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()

	if slices.Contains(ix.tracked, route) {
		return nil
	}

	next := append(slices.Clone(ix.tracked), route)
	table, err := Compile(next)
	if err != nil {
		return err
	}

	ix.tracked = next
	ix.snapshot.Store(table)
	return nil
}

// FileRemoved drops the route derived from path, if tracked.
func (ix *Index) FileRemoved(path string) error {
	route, ok := Classify(path, ix.root)
	if !ok {
		return nil
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()

	i := slices.Index(ix.tracked, route)
	if i < 0 {
		return nil
	}

	next := slices.Delete(slices.Clone(ix.tracked), i, i+1)
	table, err := Compile(next)
	if err != nil {
		return err
	}

	ix.tracked = next
	ix.snapshot.Store(table)
	return nil
}

// Tracks reports whether the file at path maps to a tracked route.
func (ix *Index) Tracks(path string) bool {
	route, ok := Classify(path, ix.root)
	if !ok {
		return false
	}
	ix.mu.Lock()
	defer ix.mu.Unlock()
	return slices.Contains(ix.tracked, route)
}

// Routes returns the tracked logical routes in registration order.
func (ix *Index) Routes() []string {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	return slices.Clone(ix.tracked)
}

// Snapshot returns the current table. The returned table is immutable;
// later mutations publish a new one.
func (ix *Index) Snapshot() *Table {
	return ix.snapshot.Load()
}
