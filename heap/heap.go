package heap

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/tliron/commonlog"
)

// ---------------------------------------------------------------------------
// Heap: depth counter, allocation entry point, scope-exit collection
// ---------------------------------------------------------------------------

var log = commonlog.GetLogger("scopeheap")

// CollectStats holds statistics from a single collection pass.
type CollectStats struct {
	Depth     uint32 // depth the pass ran at
	Scanned   int    // entries visited (and truncated) by the pass
	Reclaimed int    // scope-local objects removed from tracking
	Promoted  int    // return objects carried to the parent scope (0 or 1)
	Floating  int    // still-referenced survivors promoted to the parent scope
	Remaining int    // registry length after the pass
	Duration  time.Duration
	Timestamp time.Time
}

// Heap tracks every object created under it by the lexical-scope nesting
// depth at which it was created and reclaims objects automatically when
// their owning scope exits.
//
// A Heap is an explicit context object: the host runtime creates one per
// logical thread of control and drives EnterScope/ExitScope/Allocate from
// that single goroutine. There is no internal locking; concurrent use of
// one Heap must be excluded by the host.
type Heap struct {
	id        string
	depth     uint32 // ≥ 1 at all times; depth 0 is reserved
	registry  *Registry
	allocator Allocator
	recorder  *Recorder
	lastStats *CollectStats
}

// New creates a Heap with the default configuration: depth counter at 1,
// an empty registry at the default initial capacity, and the system
// allocator.
func New() *Heap {
	return NewWithConfig(DefaultConfig())
}

// NewWithConfig creates a Heap tuned by cfg. A nil cfg is equivalent to
// DefaultConfig().
func NewWithConfig(cfg *Config) *Heap {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	h := &Heap{
		id:        uuid.NewString()[:8],
		depth:     1,
		registry:  newRegistry(cfg.InitialCapacity),
		allocator: sysAllocator{},
	}
	if cfg.RecordDB != "" {
		rec, err := NewRecorder(cfg.RecordDB)
		if err != nil {
			log.Errorf("heap %s: cannot open pass log %s: %v", h.id, cfg.RecordDB, err)
		} else {
			h.recorder = rec
		}
	}
	return h
}

// ID returns the heap's instance identifier, used to tell heaps apart in
// log output when a host runs several.
func (h *Heap) ID() string {
	return h.id
}

// Depth returns the current scope nesting depth.
func (h *Heap) Depth() uint32 {
	return h.depth
}

// Len returns the number of currently tracked objects.
func (h *Heap) Len() int {
	return h.registry.Len()
}

// Registry exposes the underlying registry for inspection. Callers must
// not hold slot references across Allocate/ExitScope/Collect, which may
// reallocate the backing store; handles themselves remain valid.
func (h *Heap) Registry() *Registry {
	return h.registry
}

// SetAllocator replaces the payload allocator. Intended for hosts that
// meter or arena-allocate payload storage; call before the first Allocate.
func (h *Heap) SetAllocator(a Allocator) {
	if a == nil {
		a = sysAllocator{}
	}
	h.allocator = a
}

// SetRecorder attaches a collection-pass recorder, or detaches it when nil.
func (h *Heap) SetRecorder(rec *Recorder) {
	h.recorder = rec
}

// LastStats returns statistics from the most recent collection pass, or
// nil if no pass has run yet.
func (h *Heap) LastStats() *CollectStats {
	return h.lastStats
}

// ---------------------------------------------------------------------------
// Allocation
// ---------------------------------------------------------------------------

// Allocate acquires size bytes of payload storage, stamps a new object
// header with the current depth and no holders, tracks the handle, and
// returns it.
//
// On allocation failure the heap is unchanged and the error is an
// *AllocationError; Allocate never returns an invalid handle in place of
// an error.
func (h *Heap) Allocate(size int) (*Object, error) {
	buf, err := h.allocator.Alloc(size)
	if err != nil {
		var allocErr *AllocationError
		if !errors.As(err, &allocErr) {
			err = &AllocationError{Size: size, Err: err}
		}
		return nil, err
	}

	obj := &Object{
		payload: buf,
		depth:   h.depth,
		state:   StateScoped,
	}
	h.registry.push(obj)
	return obj, nil
}

// ---------------------------------------------------------------------------
// Scope orchestration
// ---------------------------------------------------------------------------

// EnterScope opens a nested scope. Every EnterScope must be balanced by
// exactly one later ExitScope.
func (h *Heap) EnterScope() {
	h.depth++
}

// ExitScope runs a collection pass at the current depth, then decrements
// the depth counter. The pass runs first because it classifies objects
// against the pre-decrement depth.
//
// Panics if there is no open scope to exit; an unbalanced ExitScope is a
// programming error in the host, not a recoverable condition.
func (h *Heap) ExitScope() *CollectStats {
	if h.depth <= 1 {
		panic("Heap.ExitScope: no matching EnterScope")
	}
	stats := h.collect(h.depth)
	h.depth--
	return stats
}

// Collect forces a collection pass at the current depth without exiting
// the scope. Exposed for tests and tooling.
func (h *Heap) Collect() *CollectStats {
	return h.collect(h.depth)
}

// collect scans the registry from the most recently appended entry
// backward, classifying each entry against the exiting depth d:
//
//   - pending-return object: promoted to depth d-1; the most recently
//     created candidate is definitive, any earlier ones are demoted and
//     classified like ordinary scoped objects
//   - depth ≥ d, no holders: reclaimed (dropping the handle releases the
//     payload to the runtime)
//   - depth ≥ d, holders remain: floating object, promoted to depth d-1
//     so it stays tracked until its holders release it
//   - depth < d: entry belongs to an enclosing scope; by the registry's
//     depth ordering nothing further left can match, so the scan stops
//
// The visited tail is then truncated and survivors are re-appended at the
// parent depth, floating objects first in their original relative order,
// the return object last.
func (h *Heap) collect(d uint32) *CollectStats {
	start := time.Now()
	stats := &CollectStats{
		Depth:     d,
		Timestamp: start,
	}

	// Depth 0 is reserved, so survivors of a root-scope pass (possible via
	// Collect, never via ExitScope) stay at depth 1.
	parent := d - 1
	if d == 1 {
		parent = 1
	}

	var retObj *Object
	var floating []*Object
	visited := 0

	for i := h.registry.Len() - 1; i >= 0; i-- {
		obj := h.registry.At(i)

		if obj.state == StatePendingReturn {
			if retObj == nil {
				obj.state = StateScoped
				obj.depth = parent
				retObj = obj
				visited++
				continue
			}
			// A later-created candidate already won; demote and fall
			// through to ordinary classification.
			obj.state = StateScoped
		}

		if obj.depth < d {
			break
		}

		if obj.refs == 0 {
			stats.Reclaimed++
		} else {
			obj.depth = parent
			floating = append(floating, obj)
		}
		visited++
	}

	h.registry.truncate(visited)

	// Survivors re-enter at the parent depth, keeping creation order:
	// floating was filled by the backward scan, so walk it in reverse.
	for i := len(floating) - 1; i >= 0; i-- {
		h.registry.push(floating[i])
	}
	if retObj != nil {
		h.registry.push(retObj)
		stats.Promoted = 1
	}

	stats.Scanned = visited
	stats.Floating = len(floating)
	stats.Remaining = h.registry.Len()
	stats.Duration = time.Since(start)
	h.lastStats = stats

	if stats.Floating > 0 {
		log.Warningf("heap %s: %d still-referenced object(s) outlived scope %d, promoted to depth %d",
			h.id, stats.Floating, d, parent)
	}
	log.Debugf("heap %s: collect depth=%d scanned=%d reclaimed=%d promoted=%d floating=%d remaining=%d",
		h.id, d, stats.Scanned, stats.Reclaimed, stats.Promoted, stats.Floating, stats.Remaining)

	if h.recorder != nil {
		if err := h.recorder.Record(h.id, stats); err != nil {
			log.Errorf("heap %s: recording collection pass: %v", h.id, err)
		}
	}

	return stats
}
