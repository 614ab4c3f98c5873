package heap

// ---------------------------------------------------------------------------
// Allocator: payload storage acquisition
// ---------------------------------------------------------------------------

// Allocator acquires raw payload storage for new objects. Implementations
// return an *AllocationError when storage cannot be provided; they must not
// return a nil buffer with a nil error for a nonzero size.
//
// The default allocator is backed by the Go runtime. Hosts can substitute
// an arena or quota-enforcing allocator without touching the heap itself.
type Allocator interface {
	Alloc(size int) ([]byte, error)
}

// sysAllocator is the default Allocator, backed by make.
type sysAllocator struct{}

func (sysAllocator) Alloc(size int) ([]byte, error) {
	if size < 0 {
		return nil, &AllocationError{Size: size}
	}
	return make([]byte, size), nil
}

// QuotaAllocator wraps another Allocator and fails requests once a total
// byte budget is exhausted. Reclaimed objects do not refund the budget;
// this is a hard high-water quota, mainly useful in tests and constrained
// embeddings.
type QuotaAllocator struct {
	Inner Allocator // defaults to the system allocator when nil
	Quota int       // total bytes that may ever be handed out

	used int
}

// Used reports the total bytes handed out so far.
func (q *QuotaAllocator) Used() int {
	return q.used
}

func (q *QuotaAllocator) Alloc(size int) ([]byte, error) {
	if size < 0 || q.used+size > q.Quota {
		return nil, &AllocationError{Size: size}
	}
	inner := q.Inner
	if inner == nil {
		inner = sysAllocator{}
	}
	buf, err := inner.Alloc(size)
	if err != nil {
		return nil, err
	}
	q.used += size
	return buf, nil
}
