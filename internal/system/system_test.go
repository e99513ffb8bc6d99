package system

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cobalthex/dyingandmore/internal/core/event"
	coresys "github.com/cobalthex/dyingandmore/internal/core/system"
	"github.com/cobalthex/dyingandmore/internal/data"
	"github.com/cobalthex/dyingandmore/internal/geom"
	"github.com/cobalthex/dyingandmore/internal/persist"
	"github.com/cobalthex/dyingandmore/internal/world"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const tick = time.Second / 60

type fakeWriter struct {
	batches [][]persist.JournalEntry
	err     error
}

func (w *fakeWriter) WriteBatch(ctx context.Context, entries []persist.JournalEntry) error {
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("expected a deadline")
	}
	if w.err != nil {
		return w.err
	}
	w.batches = append(w.batches, entries)
	return nil
}

func (w *fakeWriter) kinds() []string {
	var out []string
	for _, b := range w.batches {
		for _, e := range b {
			out = append(out, e.Kind)
		}
	}
	return out
}

type harness struct {
	m       *world.Map
	runner  *coresys.Runner
	journal *JournalSystem
}

func newHarness(t *testing.T, w JournalWriter, log *zap.Logger) *harness {
	t.Helper()
	def, err := data.NewMapDef(data.MapInfo{MapID: 3, Width: 40, Height: 10, TileSize: 16}, make([]int16, 400))
	if err != nil {
		t.Fatalf("map def: %v", err)
	}
	bus := event.NewBus()
	m, err := world.NewMap(def, world.Options{Bus: bus, Seed: 1, Log: log})
	if err != nil {
		t.Fatalf("new map: %v", err)
	}

	r := coresys.NewRunner()
	// Registered out of order on purpose; the runner sorts by phase.
	r.Register(NewCleanupSystem(m))
	j := NewJournalSystem(m, bus, w, 3, 2, time.Second, log)
	r.Register(j)
	r.Register(NewSettleSystem(m))
	r.Register(NewTriggerSystem(m))
	r.Register(NewPhysicsSystem(m))
	r.Register(NewEffectsSystem(m))
	r.Register(NewEventDispatchSystem(bus))
	r.Register(NewActivationSystem(m))
	return &harness{m: m, runner: r, journal: j}
}

func TestPipelineJournalsEvents(t *testing.T) {
	w := &fakeWriter{}
	h := newHarness(t, w, zap.NewNop())
	h.m.AddTrigger(world.NewTrigger("door", geom.R(0, 0, 64, 64)))
	e := h.m.SpawnEntity(nil, geom.V(8, 8), geom.Vec2{}, geom.V(60, 0), "mover")

	h.runner.Tick(tick)
	if e.Position.X < 8.99 || e.Position.X > 9.01 || e.Position.Y != 8 {
		t.Fatalf("expected mover near (9,8), got %v", e.Position)
	}
	if len(w.batches) != 0 {
		t.Fatalf("expected no flush before interval, got %d batches", len(w.batches))
	}

	h.runner.Tick(tick)
	got := w.kinds()
	if len(got) != 2 || got[0] != "spawn" || got[1] != "trigger" {
		t.Fatalf("expected [spawn trigger], got %v", got)
	}
	if w.batches[0][0].MapID != 3 || w.batches[0][1].Detail != "door" {
		t.Fatalf("unexpected entries %+v", w.batches[0])
	}

	h.m.Destroy(e)
	h.runner.Tick(tick) // cleanup emits the destroy event
	h.runner.Tick(tick) // dispatched and flushed
	got = w.kinds()
	if len(got) != 3 || got[2] != "destroy" {
		t.Fatalf("expected destroy journaled, got %v", got)
	}
	if h.m.EntityCount() != 0 {
		t.Fatalf("expected entity removed, got %d", h.m.EntityCount())
	}
	if written, dropped := h.journal.Stats(); written != 3 || dropped != 0 {
		t.Fatalf("expected 3 written 0 dropped, got %d/%d", written, dropped)
	}
}

func TestJournalFailureDropsBatch(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	w := &fakeWriter{err: errors.New("db down")}
	h := newHarness(t, w, zap.New(core))
	h.m.SpawnEntity(nil, geom.V(8, 8), geom.Vec2{}, geom.Vec2{}, "")

	h.runner.Tick(tick)
	h.runner.Tick(tick)
	if h.journal.Pending() != 0 {
		t.Fatalf("expected failed batch dropped, got %d pending", h.journal.Pending())
	}
	if _, dropped := h.journal.Stats(); dropped != 1 {
		t.Fatalf("expected 1 dropped entry, got %d", dropped)
	}
	if logs.FilterMessage("journal write failed, batch dropped").Len() != 1 {
		t.Fatalf("expected one error log, got %d", logs.Len())
	}
	if h.m.Ticks() != 2 {
		t.Fatalf("expected simulation to keep ticking, got %d", h.m.Ticks())
	}
}

func TestJournalFlushOnShutdown(t *testing.T) {
	w := &fakeWriter{}
	h := newHarness(t, w, zap.NewNop())
	h.m.SpawnEntity(nil, geom.V(8, 8), geom.Vec2{}, geom.Vec2{}, "")

	h.runner.Tick(tick)
	if h.journal.Pending() != 1 {
		t.Fatalf("expected 1 pending entry, got %d", h.journal.Pending())
	}
	h.journal.Flush()
	if len(w.batches) != 1 || h.journal.Pending() != 0 {
		t.Fatalf("expected flush to write the buffer, got %d batches", len(w.batches))
	}
}

func TestSettleDemotesLeavers(t *testing.T) {
	h := newHarness(t, &fakeWriter{}, zap.NewNop())
	h.m.SetView(geom.V(16, 16), 32, 32)
	h.runner.TickPhase(coresys.PhaseActivate, tick)

	e := h.m.SpawnEntity(nil, geom.V(8, 8), geom.Vec2{}, geom.V(600, 0), "")
	if !e.IsActive() {
		t.Fatalf("expected entity active inside view")
	}
	for i := 0; i < 30 && e.IsActive(); i++ {
		h.runner.Tick(tick)
	}
	if !e.IsDormant() {
		t.Fatalf("expected entity dormant after leaving the active rect, at %v", e.Position)
	}
}
