// SPDX-License-Identifier: EPL-2.0

// Package gate holds back waveform construction until the drawing surface
// has been laid out.
//
// A Gate moves Idle → WaitingForLayout → Ready or Failed, and any state can
// be Destroyed. While waiting it checks the surface once per frame, bounded
// by MaxAttempts, and a layout observer short-circuits the wait as soon as
// the surface gains a size. Running out of attempts fails with a
// *TimeoutError instead of waiting forever.
//
//	g := gate.New(canvas, frames, gate.WithObserver(canvas))
//	g.Start(func(size frame.Size) { build(size) }, func(err error) { fail(err) })
//	defer g.Destroy()
package gate
