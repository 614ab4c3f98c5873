package heap

// ---------------------------------------------------------------------------
// Object: header layout for scope-tracked heap objects
// ---------------------------------------------------------------------------

// State describes where an object is in its scope lifecycle.
//
// Scoped objects die with the scope recorded in their depth tag unless a
// holder retains them. A pending-return object has been nominated as its
// scope's return value and is promoted to the parent scope on exit.
type State uint8

const (
	// StateScoped is the initial state: the object belongs to the scope
	// whose depth is recorded in its header.
	StateScoped State = iota

	// StatePendingReturn marks the object as the current scope's return
	// value. The next collection pass rewrites its depth to the parent
	// scope and returns it to StateScoped.
	StatePendingReturn
)

func (s State) String() string {
	switch s {
	case StateScoped:
		return "scoped"
	case StatePendingReturn:
		return "pendingReturn"
	default:
		return "?"
	}
}

// Object is a tracked heap object: a payload plus a small header consumed
// by the collection pass.
//
// The header is written by the heap at creation time and mutated afterwards
// only by holders (Retain/Release), the scope-exit caller (MarkReturn), and
// the collection pass itself. Depth 0 is reserved and never stored; live
// scopes have depth ≥ 1.
type Object struct {
	payload []byte

	depth uint32 // depth of the owning scope
	refs  uint32 // count of holders outside the owning scope
	state State
}

// Payload returns the object's backing storage.
func (obj *Object) Payload() []byte {
	return obj.payload
}

// Size returns the payload size in bytes.
func (obj *Object) Size() int {
	return len(obj.payload)
}

// Depth returns the object's scope tag.
func (obj *Object) Depth() uint32 {
	return obj.depth
}

// Refs returns the current external holder count.
func (obj *Object) Refs() uint32 {
	return obj.refs
}

// State returns the object's lifecycle state.
func (obj *Object) State() State {
	return obj.state
}

// Retain records an external holder. Call when a reference to the object
// escapes the owning scope (assignment to an outer binding, field store).
func (obj *Object) Retain() {
	obj.refs++
}

// Release removes an external holder. Panics if there is none to remove.
func (obj *Object) Release() {
	if obj.refs == 0 {
		panic("Object.Release: holder count underflow")
	}
	obj.refs--
}

// MarkReturn nominates the object as its scope's return value. The next
// collection pass promotes it to the parent scope instead of reclaiming it.
// At most one object per scope should be marked; if several are, the most
// recently created one wins.
func (obj *Object) MarkReturn() {
	obj.state = StatePendingReturn
}
