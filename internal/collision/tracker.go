// Package collision tracks the annotation files a session has open for writing.
package collision

import (
	"slices"

	"github.com/arloliu/annot/errs"
)

// Tracker records open output files by their 64-bit stream key.
//
// Two different names with the same key are a hash collision: both are tracked, and
// HasCollision reports it so that callers stop treating keys as unique.
type Tracker struct {
	names        map[uint64][]string
	count        int
	hasCollision bool
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{names: make(map[uint64][]string)}
}

// Track registers name under key.
//
// Returns:
//   - error: ErrIllegalName for an empty name, ErrAnnotatorBusy if name is already tracked
func (t *Tracker) Track(name string, key uint64) error {
	if name == "" {
		return errs.ErrIllegalName
	}

	existing := t.names[key]
	if slices.Contains(existing, name) {
		return errs.ErrAnnotatorBusy
	}
	if len(existing) > 0 {
		t.hasCollision = true
	}

	t.names[key] = append(existing, name)
	t.count++

	return nil
}

// Release forgets name under key. Unknown names are ignored.
func (t *Tracker) Release(name string, key uint64) {
	existing := t.names[key]
	i := slices.Index(existing, name)
	if i < 0 {
		return
	}

	existing = slices.Delete(existing, i, i+1)
	if len(existing) == 0 {
		delete(t.names, key)
	} else {
		t.names[key] = existing
	}
	t.count--
}

// HasCollision reports whether two names ever shared a key.
func (t *Tracker) HasCollision() bool {
	return t.hasCollision
}

// Names returns the tracked names in sorted order.
func (t *Tracker) Names() []string {
	out := make([]string, 0, t.count)
	for _, names := range t.names {
		out = append(out, names...)
	}
	slices.Sort(out)

	return out
}

// Count returns the number of tracked names.
func (t *Tracker) Count() int {
	return t.count
}

// Reset forgets every name and clears the collision flag.
func (t *Tracker) Reset() {
	clear(t.names)
	t.count = 0
	t.hasCollision = false
}
