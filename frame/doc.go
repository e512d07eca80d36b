// SPDX-License-Identifier: EPL-2.0

// Package frame models the host's animation frames and drawing surface.
//
// Timer fires callbacks in real time; Queue holds them until the host calls
// Flush, once per rendered frame. Canvas is a resizable Surface that tells
// observers about layout changes.
package frame
