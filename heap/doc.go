// Package heap implements scope-lifetime tracking for heap objects in a
// managed-language runtime.
//
// This package contains:
//   - Object header layout (scope depth tag, holder count, lifecycle state)
//   - Ordered object registry with geometric growth and shrink
//   - Pluggable payload allocator
//   - Scope-exit collection pass with return-value promotion
//   - CBOR snapshots and SQLite pass recording for tooling
package heap
