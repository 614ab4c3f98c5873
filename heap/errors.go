package heap

import "fmt"

// AllocationError reports that the underlying allocator could not satisfy
// a storage request. The failed operation leaves the heap unmodified.
type AllocationError struct {
	Size int   // requested size in bytes
	Err  error // underlying cause, if any
}

func (e *AllocationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("heap: cannot allocate %d bytes: %v", e.Size, e.Err)
	}
	return fmt.Sprintf("heap: cannot allocate %d bytes", e.Size)
}

func (e *AllocationError) Unwrap() error {
	return e.Err
}
