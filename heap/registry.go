package heap

// ---------------------------------------------------------------------------
// Registry: ordered, growable array of tracked-object handles
// ---------------------------------------------------------------------------

// Capacity policy, in element units.
const (
	// DefaultInitialCapacity is the backing-store size a fresh registry
	// starts with, in handles.
	DefaultInitialCapacity = 256

	growFactor   = 2
	shrinkWhen   = 4 // shrink once length < capacity/shrinkWhen
	shrinkFactor = 2
)

// Registry holds the handles of all currently tracked objects in creation
// order. Handles are appended as objects are created and removed only from
// the tail by the collection pass, so depths are non-decreasing from head
// to tail while scopes are open. That ordering is what lets the pass stop
// scanning at the first entry belonging to an enclosing scope.
//
// The backing store grows and shrinks geometrically. Capacity is managed
// explicitly (make+copy rather than append) because the policy itself is
// part of the component's contract: double on growth, halve when occupancy
// falls below a quarter, never below the initial capacity.
type Registry struct {
	arr        []*Object // fixed-capacity backing store
	length     int
	initialCap int
}

// newRegistry creates a registry with the given initial capacity in
// elements. A non-positive value selects DefaultInitialCapacity.
func newRegistry(initialCap int) *Registry {
	if initialCap <= 0 {
		initialCap = DefaultInitialCapacity
	}
	return &Registry{
		arr:        make([]*Object, initialCap),
		initialCap: initialCap,
	}
}

// Len returns the number of tracked handles.
func (r *Registry) Len() int {
	return r.length
}

// Cap returns the current backing-store capacity in elements.
func (r *Registry) Cap() int {
	return len(r.arr)
}

// At returns the handle at index i. Panics if i is out of range.
func (r *Registry) At(i int) *Object {
	if i < 0 || i >= r.length {
		panic("Registry.At: index out of range")
	}
	return r.arr[i]
}

// push appends a handle, growing the backing store if it is full.
// Appending an object from a shallower scope than the current tail would
// corrupt reclamation, so the ordering invariant is checked here rather
// than trusted.
func (r *Registry) push(obj *Object) {
	if r.length > 0 && obj.depth < r.arr[r.length-1].depth {
		panic("Registry.push: depth order violated")
	}
	if r.length == len(r.arr) {
		r.grow()
	}
	r.arr[r.length] = obj
	r.length++
}

// grow doubles the backing store, preserving all entries.
//
// In Go a failed make aborts the process, so unlike payload allocation
// there is no recoverable error path here; the old store is untouched
// until the copy completes.
func (r *Registry) grow() {
	next := make([]*Object, len(r.arr)*growFactor)
	copy(next, r.arr[:r.length])
	r.arr = next
}

// truncate removes the last n handles, clearing their slots so no stale
// handle remains reachable through the backing store. Panics if n exceeds
// the current length.
func (r *Registry) truncate(n int) {
	if n < 0 || n > r.length {
		panic("Registry.truncate: count out of range")
	}
	for i := r.length - n; i < r.length; i++ {
		r.arr[i] = nil
	}
	r.length -= n
	r.maybeShrink()
}

// maybeShrink halves the backing store after a truncate once occupancy
// drops below a quarter, bottoming out at the initial capacity.
func (r *Registry) maybeShrink() {
	if len(r.arr) > growFactor*r.initialCap && r.length < len(r.arr)/shrinkWhen {
		next := make([]*Object, len(r.arr)/shrinkFactor)
		copy(next, r.arr[:r.length])
		r.arr = next
	}
}

// checkDepthOrder verifies the non-decreasing depth invariant across the
// whole registry. Used by tests and the snapshot path; a violation means
// the registry has been corrupted.
func (r *Registry) checkDepthOrder() bool {
	for i := 1; i < r.length; i++ {
		if r.arr[i].depth < r.arr[i-1].depth {
			return false
		}
	}
	return true
}
