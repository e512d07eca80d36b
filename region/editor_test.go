// SPDX-License-Identifier: EPL-2.0

package region

import (
	"errors"
	"testing"
)

func TestEditor_ScenarioClampToDuration(t *testing.T) {
	t.Parallel()

	// 20 s asset, max 30 s.
	e := NewEditor(20, 30)
	if _, err := e.Create(0, 20); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	r, err := e.Update(5, 35)
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if r != (Region{5, 20}) {
		t.Errorf("Update(5, 35) = %v, want [5, 20)", r)
	}
}

func TestEditor_CreateReplaces(t *testing.T) {
	t.Parallel()

	e := NewEditor(60, 0)
	e.Create(1, 5)
	first, _ := e.Handles()

	e.Create(10, 20)

	r, ok := e.Region()
	if !ok || r != (Region{10, 20}) {
		t.Fatalf("Region() = %v, %v, want [10, 20)", r, ok)
	}

	second, _ := e.Handles()
	if first == second {
		t.Error("replaced region kept the old handles")
	}
}

func TestEditor_HandlesIdempotent(t *testing.T) {
	t.Parallel()

	e := NewEditor(10, 0)

	if _, ok := e.Handles(); ok {
		t.Fatal("Handles() with no region reported ok")
	}

	e.Create(1, 2)
	a, _ := e.Handles()
	b, _ := e.Handles()

	if a != b || a.Start != b.Start || a.End != b.End {
		t.Error("Handles() created a second pair")
	}

	if a.Start.Edge != StartEdge || a.End.Edge != EndEdge {
		t.Errorf("handle edges = %v, %v", a.Start.Edge, a.End.Edge)
	}

	// Updating the same region keeps its handles.
	e.Update(1, 3)
	if c, _ := e.Handles(); c != a {
		t.Error("Update() replaced the handles")
	}
}

func TestEditor_UpdateCollapseKeepsRegion(t *testing.T) {
	t.Parallel()

	e := NewEditor(10, 0)
	e.Create(2, 4)

	r, err := e.Update(12, 15)
	if !errors.Is(err, ErrEmptyRegion) {
		t.Fatalf("Update() error = %v, want ErrEmptyRegion", err)
	}

	if r != (Region{2, 4}) {
		t.Errorf("Update() returned %v, want the old region", r)
	}
}

func TestEditor_SetMaxDurationReclamps(t *testing.T) {
	t.Parallel()

	e := NewEditor(60, 0)
	e.Create(10, 50)
	e.SetMaxDuration(15)

	if r, _ := e.Region(); r != (Region{10, 25}) {
		t.Errorf("Region() = %v, want [10, 25)", r)
	}

	if e.MaxDuration() != 15 {
		t.Errorf("MaxDuration() = %v, want 15", e.MaxDuration())
	}
}

func TestEditor_OnChangeAndClear(t *testing.T) {
	t.Parallel()

	e := NewEditor(10, 0)

	var events []bool
	remove := e.OnChange(func(_ Region, ok bool) { events = append(events, ok) })

	e.Create(1, 2)
	e.Clear()
	e.Clear() // nothing to clear
	remove()
	e.Create(3, 4)

	if len(events) != 2 || !events[0] || events[1] {
		t.Errorf("events = %v, want [true false]", events)
	}
}

func TestEditor_GestureCreate(t *testing.T) {
	t.Parallel()

	e := NewEditor(30, 10)

	if got := e.PointerDown(4); got != TargetEmpty {
		t.Fatalf("PointerDown() = %v, want empty", got)
	}

	e.PointerMove(6)
	r, err := e.PointerUp(20)
	if err != nil {
		t.Fatalf("PointerUp() error = %v", err)
	}

	if r != (Region{4, 14}) {
		t.Errorf("drag-create = %v, want [4, 14) after max clamp", r)
	}
}

func TestEditor_GestureResize(t *testing.T) {
	t.Parallel()

	e := NewEditor(30, 0)
	e.Create(10, 20)

	if got := e.PointerDown(10.1); got != TargetStart {
		t.Fatalf("PointerDown(10.1) = %v, want start handle", got)
	}

	if r, _ := e.PointerUp(8); r != (Region{8, 20}) {
		t.Errorf("resize start = %v, want [8, 20)", r)
	}

	if got := e.PointerDown(19.9); got != TargetEnd {
		t.Fatalf("PointerDown(19.9) = %v, want end handle", got)
	}

	if r, _ := e.PointerUp(25); r != (Region{8, 25}) {
		t.Errorf("resize end = %v, want [8, 25)", r)
	}
}

func TestEditor_GestureMoveStaysInside(t *testing.T) {
	t.Parallel()

	e := NewEditor(30, 0)
	e.Create(10, 20)

	if got := e.PointerDown(15); got != TargetBody {
		t.Fatalf("PointerDown(15) = %v, want body", got)
	}

	if r, _ := e.PointerMove(18); r != (Region{13, 23}) {
		t.Errorf("move = %v, want [13, 23)", r)
	}

	// Past the end of the asset the window stops at the boundary.
	if r, _ := e.PointerUp(40); r != (Region{20, 30}) {
		t.Errorf("move past end = %v, want [20, 30)", r)
	}

	if _, err := e.PointerMove(5); !errors.Is(err, ErrNoRegion) {
		t.Errorf("PointerMove() without a gesture error = %v, want ErrNoRegion", err)
	}
}

func TestTarget_String(t *testing.T) {
	t.Parallel()

	for target, want := range map[Target]string{
		TargetNone: "none", TargetStart: "start-handle", TargetEnd: "end-handle",
		TargetBody: "body", TargetEmpty: "empty",
	} {
		if target.String() != want {
			t.Errorf("%d.String() = %q, want %q", target, target.String(), want)
		}
	}
}
