package heap

import (
	"testing"
)

// TestObjectRetainRelease verifies holder counting.
func TestObjectRetainRelease(t *testing.T) {
	obj := &Object{}

	obj.Retain()
	obj.Retain()
	if obj.Refs() != 2 {
		t.Errorf("Refs = %d, want 2", obj.Refs())
	}

	obj.Release()
	obj.Release()
	if obj.Refs() != 0 {
		t.Errorf("Refs = %d, want 0", obj.Refs())
	}
}

// TestObjectReleaseUnderflow verifies that releasing with no holders
// panics instead of wrapping the count.
func TestObjectReleaseUnderflow(t *testing.T) {
	obj := &Object{}

	defer func() {
		if recover() == nil {
			t.Error("expected panic on Release with zero holders")
		}
	}()
	obj.Release()
}

// TestObjectMarkReturn verifies the state transition and that the depth
// tag is left alone until the collection pass rewrites it.
func TestObjectMarkReturn(t *testing.T) {
	obj := &Object{depth: 3, state: StateScoped}

	obj.MarkReturn()

	if obj.State() != StatePendingReturn {
		t.Errorf("State = %v, want %v", obj.State(), StatePendingReturn)
	}
	if obj.Depth() != 3 {
		t.Errorf("Depth = %d, want 3 (MarkReturn must not touch the tag)", obj.Depth())
	}
}

// TestStateString covers the state names used in snapshots.
func TestStateString(t *testing.T) {
	cases := []struct {
		state State
		want  string
	}{
		{StateScoped, "scoped"},
		{StatePendingReturn, "pendingReturn"},
		{State(99), "?"},
	}
	for _, c := range cases {
		if got := c.state.String(); got != c.want {
			t.Errorf("State(%d).String() = %q, want %q", c.state, got, c.want)
		}
	}
}

// TestObjectPayloadAccess verifies payload exposure and sizing.
func TestObjectPayloadAccess(t *testing.T) {
	h := New()
	obj, err := h.Allocate(16)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if obj.Size() != 16 || len(obj.Payload()) != 16 {
		t.Errorf("Size = %d, len(Payload) = %d, want 16", obj.Size(), len(obj.Payload()))
	}

	// The payload is the object's own storage: writes stick.
	obj.Payload()[0] = 0xAB
	if obj.Payload()[0] != 0xAB {
		t.Error("payload write did not persist")
	}
}
