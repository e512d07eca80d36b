// SPDX-License-Identifier: EPL-2.0

// Package region keeps the single time selection of an edit session.
//
// An Editor holds at most one Region. Creating a region replaces the old one.
// Every change goes through Clamp, so the region never outlasts the asset and
// never exceeds the maximum duration:
//
//	e := region.NewEditor(20, 30)
//	r, _ := e.Update(5, 35) // [5, 20)
//
// Pointer gestures map onto the same operations: grabbing an edge handle
// resizes, grabbing the body moves, and dragging over empty space creates.
package region
