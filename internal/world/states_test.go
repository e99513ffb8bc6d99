package world

import (
	"errors"
	"testing"
	"time"

	"github.com/cobalthex/dyingandmore/internal/core/event"
	"github.com/cobalthex/dyingandmore/internal/data"
	"github.com/cobalthex/dyingandmore/internal/geom"
)

func impClass() *data.EntityClass {
	return &data.EntityClass{
		Name:         "imp",
		InitialState: "idle",
		States: []data.StateDef{
			{Name: "idle", Looping: true},
			{Name: "attack", Duration: 100 * time.Millisecond},
			{Name: "flash", Overlay: true, Duration: 50 * time.Millisecond},
			{Name: "glow", Overlay: true, Looping: true},
		},
		Transitions: map[string]string{"attack": "idle", "flash": "glow"},
	}
}

func TestBaseStateTransition(t *testing.T) {
	bus := event.NewBus()
	sm := NewStateMachine(1, impClass(), bus)
	if sm.Base() == nil || sm.Base().Name != "idle" {
		t.Fatalf("expected initial idle state")
	}
	if sm.SetBase("nope") {
		t.Fatalf("expected unknown state to be ignored")
	}
	if !sm.SetBase("attack") {
		t.Fatalf("expected attack to be set")
	}

	sm.Update(60 * time.Millisecond)
	if sm.Base().Name != "attack" {
		t.Fatalf("expected attack still running, got %s", sm.Base().Name)
	}
	sm.Update(60 * time.Millisecond)
	if sm.Base().Name != "idle" {
		t.Fatalf("expected transition to idle, got %s", sm.Base().Name)
	}
	sm.Update(time.Second)

	finished := event.Pending[event.StateFinished](bus)
	if len(finished) != 1 || finished[0].State != "attack" {
		t.Fatalf("expected one attack finished event, got %+v", finished)
	}
	moved := event.Pending[event.StateTransitioned](bus)
	if len(moved) != 1 || moved[0].From != "attack" || moved[0].To != "idle" {
		t.Fatalf("expected attack->idle, got %+v", moved)
	}
}

func TestReplacedStateDoesNotTransition(t *testing.T) {
	bus := event.NewBus()
	sm := NewStateMachine(1, impClass(), bus)
	sm.SetBase("attack")
	sm.Update(60 * time.Millisecond)

	// Re-entering attack starts a fresh instance; the old one never finishes.
	sm.SetBase("attack")
	sm.Update(60 * time.Millisecond)
	if sm.Base().Name != "attack" || sm.Base().Elapsed != 60*time.Millisecond {
		t.Fatalf("expected fresh attack at 60ms, got %s at %v", sm.Base().Name, sm.Base().Elapsed)
	}
	if n := len(event.Pending[event.StateTransitioned](bus)); n != 0 {
		t.Fatalf("expected no transition from the replaced instance, got %d", n)
	}

	sm.SetBase("idle")
	sm.Update(time.Second)
	if sm.Base().Name != "idle" {
		t.Fatalf("expected idle kept, got %s", sm.Base().Name)
	}
	if n := len(event.Pending[event.StateFinished](bus)); n != 0 {
		t.Fatalf("expected no finished event for replaced states, got %d", n)
	}
}

func TestOverlayTransitionReplacesOverlay(t *testing.T) {
	bus := event.NewBus()
	sm := NewStateMachine(1, impClass(), bus)
	if sm.AddOverlay("idle") {
		t.Fatalf("expected base state rejected as overlay")
	}
	sm.AddOverlay("flash")
	sm.Update(60 * time.Millisecond)

	o := sm.Overlays()
	if len(o) != 1 || o[0].Name != "glow" {
		t.Fatalf("expected flash replaced by glow, got %d overlays", len(o))
	}
	sm.RemoveOverlay("glow")
	if len(sm.Overlays()) != 0 {
		t.Fatalf("expected overlays cleared")
	}
}

func TestUnboundedOverlayIsDropped(t *testing.T) {
	class := impClass()
	class.Transitions = nil
	sm := NewStateMachine(1, class, nil)
	sm.AddOverlay("flash")
	sm.Update(60 * time.Millisecond)
	if len(sm.Overlays()) != 0 {
		t.Fatalf("expected finished overlay removed, got %d", len(sm.Overlays()))
	}
}

func TestTransformsReachGrandchildren(t *testing.T) {
	m := newTestMap(t, 20, 20, nil)
	root := m.SpawnEntity(nil, geom.V(100, 100), geom.V(1, 0), geom.Vec2{}, "root")
	child := m.SpawnEntity(nil, geom.V(0, 0), geom.V(1, 0), geom.Vec2{}, "child")
	grand := m.SpawnEntity(nil, geom.V(0, 0), geom.V(1, 0), geom.Vec2{}, "grand")

	if err := m.Attach(child, root, geom.V(10, 0)); err != nil {
		t.Fatalf("attach child: %v", err)
	}
	if err := m.Attach(grand, child, geom.V(0, 5)); err != nil {
		t.Fatalf("attach grand: %v", err)
	}
	if err := m.Attach(root, grand, geom.Vec2{}); !errors.Is(err, ErrAttachCycle) {
		t.Fatalf("expected ErrAttachCycle, got %v", err)
	}

	root.Forward = geom.V(0, 1)
	m.PropagateTransforms()
	if child.Position != geom.V(100, 110) {
		t.Fatalf("expected child at (100,110), got %v", child.Position)
	}
	if grand.Position != geom.V(100, 115) {
		t.Fatalf("expected grandchild at (100,115), got %v", grand.Position)
	}

	m.Destroy(child)
	m.FlushDestroys()
	if grand.Parent() != 0 {
		t.Fatalf("expected grandchild orphaned")
	}
	if len(root.Children()) != 0 {
		t.Fatalf("expected root without children, got %v", root.Children())
	}
}
