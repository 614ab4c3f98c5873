package heap

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// ---------------------------------------------------------------------------
// Snapshot: structured view of tracked-object state for tooling
// ---------------------------------------------------------------------------

// cborEncMode uses canonical mode so encoding the same heap state always
// produces the same bytes.
var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("heap: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// ObjectInfo describes one tracked object in a snapshot.
type ObjectInfo struct {
	Index int    `cbor:"index"`
	Depth uint32 `cbor:"depth"`
	Refs  uint32 `cbor:"refs"`
	State string `cbor:"state"`
	Size  int    `cbor:"size"` // payload size in bytes
}

// Snapshot is a point-in-time view of a heap, for debuggers and offline
// analysis. It carries headers only, never payload contents.
type Snapshot struct {
	HeapID   string       `cbor:"heapId"`
	Depth    uint32       `cbor:"depth"`
	Capacity int          `cbor:"capacity"`
	Objects  []ObjectInfo `cbor:"objects"`
}

// Snapshot captures the heap's current tracked-object state. Panics if the
// registry's depth ordering has been corrupted, since a snapshot of a
// corrupted registry would be misleading rather than useful.
func (h *Heap) Snapshot() *Snapshot {
	if !h.registry.checkDepthOrder() {
		panic("Heap.Snapshot: registry depth order corrupted")
	}

	snap := &Snapshot{
		HeapID:   h.id,
		Depth:    h.depth,
		Capacity: h.registry.Cap(),
		Objects:  make([]ObjectInfo, h.registry.Len()),
	}
	for i := 0; i < h.registry.Len(); i++ {
		obj := h.registry.At(i)
		snap.Objects[i] = ObjectInfo{
			Index: i,
			Depth: obj.depth,
			Refs:  obj.refs,
			State: obj.state.String(),
			Size:  obj.Size(),
		}
	}
	return snap
}

// MarshalSnapshot serializes a Snapshot to canonical CBOR bytes.
func MarshalSnapshot(s *Snapshot) ([]byte, error) {
	return cborEncMode.Marshal(s)
}

// UnmarshalSnapshot deserializes a Snapshot from CBOR bytes.
func UnmarshalSnapshot(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := cbor.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("heap: unmarshal snapshot: %w", err)
	}
	return &s, nil
}
