package world

import (
	"testing"
	"time"

	"github.com/cobalthex/dyingandmore/internal/core/event"
	"github.com/cobalthex/dyingandmore/internal/data"
	"github.com/cobalthex/dyingandmore/internal/geom"
)

func TestTryEnterIsIdempotent(t *testing.T) {
	m := newTestMap(t, 10, 10, nil)
	e := m.SpawnEntity(nil, geom.V(20, 20), geom.Vec2{}, geom.Vec2{}, "hero")

	fired := 0
	trig := NewTrigger("door", geom.R(0, 0, 64, 64))
	trig.Commands = []Command{CommandFunc(func(*Map, *Entity) { fired++ })}
	m.AddTrigger(trig)

	if !trig.TryEnter(m, e) {
		t.Fatalf("expected first enter to succeed")
	}
	if trig.TryEnter(m, e) {
		t.Fatalf("expected second enter to be a no-op")
	}
	if trig.Uses() != 1 || fired != 1 {
		t.Fatalf("expected 1 use and 1 fire, got %d and %d", trig.Uses(), fired)
	}
	if !trig.Contains(e) {
		t.Fatalf("expected hero contained")
	}
	if !trig.TryExit(e) || trig.TryExit(e) {
		t.Fatalf("expected exactly one successful exit")
	}
	if !trig.TryEnter(m, e) || trig.Uses() != 2 || fired != 2 {
		t.Fatalf("expected re-entry after exit to fire again")
	}
	if n := len(event.Pending[event.TriggerFired](m.Bus())); n != 2 {
		t.Fatalf("expected 2 TriggerFired events, got %d", n)
	}
}

func TestTriggerMaxUsesAndFilter(t *testing.T) {
	classes := data.NewClassTable()
	crate := &data.EntityClass{Name: "crate"}
	imp := &data.EntityClass{Name: "imp"}
	classes.AddEntity(crate)
	classes.AddEntity(imp)
	m := newTestMap(t, 10, 10, classes)

	trig, err := BuildTrigger(data.TriggerDef{
		Name: "plate", X: 0, Y: 0, Width: 64, Height: 64, MaxUses: 1, Classes: []string{"crate"},
	}, nil)
	if err != nil {
		t.Fatalf("build trigger: %v", err)
	}
	m.AddTrigger(trig)

	i := m.SpawnEntity(imp, geom.V(20, 20), geom.Vec2{}, geom.Vec2{}, "")
	c := m.SpawnEntity(crate, geom.V(30, 30), geom.Vec2{}, geom.Vec2{}, "")

	if trig.TryEnter(m, i) {
		t.Fatalf("expected imp rejected by the filter")
	}
	if !trig.TryEnter(m, c) {
		t.Fatalf("expected crate accepted")
	}
	trig.TryExit(c)
	if trig.TryEnter(m, c) {
		t.Fatalf("expected trigger exhausted after one use")
	}
	if !trig.Exhausted() {
		t.Fatalf("expected Exhausted to report true")
	}
}

func TestTriggerCommandTargets(t *testing.T) {
	classes := data.NewClassTable()
	classes.AddEntity(&data.EntityClass{Name: "imp", Radius: 2})
	classes.AddSound(&data.SoundClass{Name: "click"})
	m := newTestMap(t, 10, 10, classes)

	hero := m.SpawnEntity(nil, geom.V(20, 20), geom.Vec2{}, geom.Vec2{}, "hero")
	gate := m.SpawnEntity(nil, geom.V(100, 100), geom.Vec2{}, geom.Vec2{}, "gate")
	other := NewTrigger("other", geom.R(120, 120, 150, 150))
	m.AddTrigger(other)

	defs := []data.CommandDef{
		{Kind: "enable", Target: "gate", Flag: false},
		{Kind: "spawn", Arg: "imp", Target: "minion", X: 60, Y: 60},
		{Kind: "sound", Arg: "click"},
		{Kind: "trigger", Target: "other", Flag: false},
		{Kind: "destroy"},
		{Kind: "enable", Target: "missing", Flag: false},
	}
	trig, err := BuildTrigger(data.TriggerDef{Name: "lever", Width: 64, Height: 64, Commands: defs}, nil)
	if err != nil {
		t.Fatalf("build trigger: %v", err)
	}
	m.AddTrigger(trig)
	trig.TryEnter(m, hero)

	if gate.Enabled {
		t.Fatalf("expected gate disabled by name")
	}
	if m.FindByName("minion") == nil {
		t.Fatalf("expected minion spawned")
	}
	if s := event.Pending[event.SoundRequested](m.Bus()); len(s) != 1 || s[0].Sound != "click" {
		t.Fatalf("expected click sound, got %+v", s)
	}
	if other.Enabled {
		t.Fatalf("expected other trigger disabled")
	}
	if !m.PendingDestroy(hero) {
		t.Fatalf("expected untargeted destroy to hit the entering entity")
	}
}

func TestBuildTriggerUnknownCommand(t *testing.T) {
	_, err := BuildTrigger(data.TriggerDef{Name: "bad", Commands: []data.CommandDef{{Kind: "teleport"}}}, nil)
	if err == nil {
		t.Fatalf("expected error for unknown command kind")
	}
	resolved := false
	resolve := func(def data.CommandDef) (Command, bool) {
		if def.Kind != "teleport" {
			return nil, false
		}
		return CommandFunc(func(*Map, *Entity) { resolved = true }), true
	}
	trig, err := BuildTrigger(data.TriggerDef{Name: "ok", Width: 10, Height: 10, Commands: []data.CommandDef{{Kind: "teleport"}}}, resolve)
	if err != nil {
		t.Fatalf("expected resolver to supply the command, got %v", err)
	}
	m := newTestMap(t, 10, 10, nil)
	trig.TryEnter(m, m.SpawnEntity(nil, geom.V(5, 5), geom.Vec2{}, geom.Vec2{}, ""))
	if !resolved {
		t.Fatalf("expected resolved command to run")
	}
}

func TestUpdateTriggersByOverlap(t *testing.T) {
	m := newTestMap(t, 10, 10, nil)
	trig := NewTrigger("strip", geom.R(64, 0, 96, 160))
	fired := 0
	trig.Commands = []Command{CommandFunc(func(*Map, *Entity) { fired++ })}
	m.AddTrigger(trig)

	e := m.SpawnEntity(&data.EntityClass{Name: "imp", Radius: 2}, geom.V(40, 50), geom.Vec2{}, geom.V(100, 0), "")
	for i := 1; i <= 6; i++ {
		m.StepEntities(100 * time.Millisecond)
		m.UpdateTriggers()
		switch {
		case i < 3 && trig.Contains(e):
			t.Fatalf("tick %d: expected outside at %v", i, e.Position)
		case i >= 3 && i <= 5 && !trig.Contains(e):
			t.Fatalf("tick %d: expected inside at %v", i, e.Position)
		case i == 6 && trig.Contains(e):
			t.Fatalf("tick %d: expected exit at %v", i, e.Position)
		}
	}
	if fired != 1 {
		t.Fatalf("expected a single fire while inside, got %d", fired)
	}
}
