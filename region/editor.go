// SPDX-License-Identifier: EPL-2.0

package region

import (
	"math"
	"sync"
)

// DefaultTolerance is how close, in seconds, a pointer must be to an edge to
// grab its handle.
const DefaultTolerance = 0.25

// minCreate is the shortest drag that creates a region.
const minCreate = 1e-3

type Edge int

const (
	StartEdge Edge = iota
	EndEdge
)

// Handle is a grabbable edge of the current region.
type Handle struct {
	Edge Edge
}

// Handles is the pair of edge handles belonging to one region.
type Handles struct {
	Start *Handle
	End   *Handle
}

// Target is what a pointer-down hit.
type Target int

const (
	TargetNone Target = iota
	TargetStart
	TargetEnd
	TargetBody
	TargetEmpty
)

func (t Target) String() string {
	switch t {
	case TargetStart:
		return "start-handle"
	case TargetEnd:
		return "end-handle"
	case TargetBody:
		return "body"
	case TargetEmpty:
		return "empty"
	}

	return "none"
}

type drag struct {
	target  Target
	anchor  float64 // create: first point; move: pointer offset from Start
	created bool
}

// Editor owns at most one region over an asset of fixed duration.
type Editor struct {
	mu        sync.Mutex
	duration  float64
	max       float64
	tolerance float64
	region    *Region
	handles   *Handles
	drag      drag
	listeners map[int]func(Region, bool)
	nextID    int
}

// NewEditor returns an editor for an asset of duration seconds. max <= 0
// means no maximum.
func NewEditor(duration, max float64) *Editor {
	return &Editor{
		duration:  duration,
		max:       max,
		tolerance: DefaultTolerance,
		listeners: make(map[int]func(Region, bool)),
	}
}

func (e *Editor) Duration() float64 { return e.duration }

func (e *Editor) MaxDuration() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.max
}

// SetTolerance sets the handle grab distance in seconds.
func (e *Editor) SetTolerance(seconds float64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.tolerance = math.Max(seconds, 0)
}

// SetMaxDuration changes the maximum and re-clamps the current region.
func (e *Editor) SetMaxDuration(max float64) {
	e.mu.Lock()
	e.max = max

	if e.region == nil {
		e.mu.Unlock()
		return
	}

	r, err := Clamp(e.region.Start, e.region.End, e.duration, max)
	if err != nil || r == *e.region {
		e.mu.Unlock()
		return
	}

	*e.region = r
	e.mu.Unlock()

	e.notify(r, true)
}

// Region returns the current region, if any.
func (e *Editor) Region() (Region, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.region == nil {
		return Region{}, false
	}

	return *e.region, true
}

// Create replaces any existing region with a new, clamped one. The old
// region and its handles are discarded.
func (e *Editor) Create(start, end float64) (Region, error) {
	e.mu.Lock()

	r, err := Clamp(start, end, e.duration, e.max)
	if err != nil {
		e.mu.Unlock()
		return Region{}, err
	}

	e.region = &r
	e.handles = nil
	e.mu.Unlock()

	e.notify(r, true)

	return r, nil
}

// Update moves or resizes the current region under the clamp policy. With
// no region it behaves like Create. On ErrEmptyRegion the region is left
// unchanged.
func (e *Editor) Update(start, end float64) (Region, error) {
	e.mu.Lock()

	if e.region == nil {
		e.mu.Unlock()
		return e.Create(start, end)
	}

	r, err := Clamp(start, end, e.duration, e.max)
	if err != nil {
		old := *e.region
		e.mu.Unlock()
		return old, err
	}

	*e.region = r
	e.mu.Unlock()

	e.notify(r, true)

	return r, nil
}

// Clear removes the region and its handles.
func (e *Editor) Clear() {
	e.mu.Lock()
	had := e.region != nil
	e.region, e.handles = nil, nil
	e.drag = drag{}
	e.mu.Unlock()

	if had {
		e.notify(Region{}, false)
	}
}

// Handles returns the edge handles of the current region, creating them on
// first use. Later calls return the same pair until the region is replaced.
func (e *Editor) Handles() (*Handles, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.region == nil {
		return nil, false
	}

	if e.handles == nil {
		e.handles = &Handles{
			Start: &Handle{Edge: StartEdge},
			End:   &Handle{Edge: EndEdge},
		}
	}

	return e.handles, true
}

// OnChange registers fn to run after every region change. ok is false when
// the region was cleared.
func (e *Editor) OnChange(fn func(r Region, ok bool)) (remove func()) {
	e.mu.Lock()
	defer e.mu.Unlock()

	id := e.nextID
	e.nextID++
	e.listeners[id] = fn

	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()

		delete(e.listeners, id)
	}
}

func (e *Editor) notify(r Region, ok bool) {
	e.mu.Lock()
	fns := make([]func(Region, bool), 0, len(e.listeners))
	for _, fn := range e.listeners {
		fns = append(fns, fn)
	}
	e.mu.Unlock()

	for _, fn := range fns {
		fn(r, ok)
	}
}

// HitTest reports what a pointer at t seconds would grab.
func (e *Editor) HitTest(t float64) Target {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.hitLocked(t)
}

func (e *Editor) hitLocked(t float64) Target {
	if e.region == nil {
		return TargetEmpty
	}

	ds := math.Abs(t - e.region.Start)
	de := math.Abs(t - e.region.End)

	switch {
	case ds <= e.tolerance && ds <= de:
		return TargetStart
	case de <= e.tolerance:
		return TargetEnd
	case t > e.region.Start && t < e.region.End:
		return TargetBody
	}

	return TargetEmpty
}

// PointerDown starts a gesture at t seconds and returns what it grabbed.
func (e *Editor) PointerDown(t float64) Target {
	e.mu.Lock()
	defer e.mu.Unlock()

	t = e.clampTime(t)
	target := e.hitLocked(t)

	e.drag = drag{target: target, anchor: t}
	if target == TargetBody {
		e.drag.anchor = t - e.region.Start
	}

	return target
}

// PointerMove continues the gesture.
func (e *Editor) PointerMove(t float64) (Region, error) {
	e.mu.Lock()
	d := e.drag
	t = e.clampTime(t)

	if d.target == TargetNone {
		e.mu.Unlock()
		return Region{}, ErrNoRegion
	}

	var cur Region
	if e.region != nil {
		cur = *e.region
	}
	e.mu.Unlock()

	switch d.target {
	case TargetStart:
		return e.Update(t, cur.End)
	case TargetEnd:
		return e.Update(cur.Start, t)
	case TargetBody:
		length := cur.Length()
		start := math.Min(math.Max(t-d.anchor, 0), e.duration-length)
		return e.Update(start, start+length)
	}

	if math.Abs(t-d.anchor) < minCreate {
		if r, ok := e.Region(); ok && d.created {
			return r, nil
		}
		return Region{}, ErrEmptyRegion
	}

	if !d.created {
		r, err := e.Create(d.anchor, t)
		if err == nil {
			e.mu.Lock()
			e.drag.created = true
			e.mu.Unlock()
		}
		return r, err
	}

	return e.Update(d.anchor, t)
}

// PointerUp applies the final position and ends the gesture.
func (e *Editor) PointerUp(t float64) (Region, error) {
	r, err := e.PointerMove(t)

	e.mu.Lock()
	e.drag = drag{}
	e.mu.Unlock()

	return r, err
}

func (e *Editor) clampTime(t float64) float64 {
	return math.Min(math.Max(t, 0), e.duration)
}
