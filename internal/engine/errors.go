// Package engine implements the room comparison and completion core:
// item normalization, similarity and overlap computation, frequency
// aggregation, completion suggestion ranking and deterministic
// recommendation scoring. Everything here is a pure function over snapshots
// handed in by the caller; nothing is fetched, cached or mutated.
package engine

import "errors"

// Sentinel errors for comparison operations.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrEmptyRoom indicates a comparison was requested on a room with no
	// items. Fatal to that request; the engine never silently treats an
	// empty room as perfect or zero overlap.
	ErrEmptyRoom = errors.New("room has no items")

	// ErrDegenerateVector indicates a zero-magnitude embedding. Cosine
	// similarity is undefined for such vectors; callers must treat this as
	// "similarity unavailable", never as zero similarity.
	ErrDegenerateVector = errors.New("zero-magnitude embedding")
)
