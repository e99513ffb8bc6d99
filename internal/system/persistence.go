package system

import (
	"context"
	"time"

	"github.com/cobalthex/dyingandmore/internal/core/event"
	coresys "github.com/cobalthex/dyingandmore/internal/core/system"
	"github.com/cobalthex/dyingandmore/internal/persist"
	"github.com/cobalthex/dyingandmore/internal/world"
	"go.uber.org/zap"
)

// JournalWriter stores a batch of journal entries. *persist.JournalRepo
// implements it.
type JournalWriter interface {
	WriteBatch(ctx context.Context, entries []persist.JournalEntry) error
}

// JournalSystem records simulation events and writes them out in batches
// every interval ticks. Phase 5 (Persist).
//
// A failed write is logged and the batch dropped; the simulation never
// waits on the database beyond WriteTimeout.
type JournalSystem struct {
	m         *world.Map
	writer    JournalWriter
	log       *zap.Logger
	mapID     int
	timeout   time.Duration
	interval  int // flush every N ticks
	tickCount int
	pending   []persist.JournalEntry
	written   int
	dropped   int
}

func NewJournalSystem(m *world.Map, bus *event.Bus, writer JournalWriter, mapID, intervalTicks int, timeout time.Duration, log *zap.Logger) *JournalSystem {
	if intervalTicks < 1 {
		intervalTicks = 1
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	s := &JournalSystem{
		m:        m,
		writer:   writer,
		log:      log,
		mapID:    mapID,
		timeout:  timeout,
		interval: intervalTicks,
	}

	event.Subscribe(bus, func(ev event.EntitySpawned) {
		s.record("spawn", uint64(ev.EntityID), ev.Class, "", ev.Position.X, ev.Position.Y, "")
	})
	event.Subscribe(bus, func(ev event.EntityDestroyed) {
		s.record("destroy", uint64(ev.EntityID), ev.Class, ev.Name, ev.Position.X, ev.Position.Y, ev.Reason)
	})
	event.Subscribe(bus, func(ev event.TriggerFired) {
		s.record("trigger", uint64(ev.EntityID), "", "", ev.Position.X, ev.Position.Y, ev.Trigger)
	})
	event.Subscribe(bus, func(ev event.EntityCollided) {
		s.record("collide", uint64(ev.A), "", "", ev.Position.X, ev.Position.Y, "")
	})
	event.Subscribe(bus, func(ev event.FluidSettled) {
		s.record("fluid", 0, ev.Class, "", ev.Position.X, ev.Position.Y, "")
	})
	return s
}

func (s *JournalSystem) Phase() coresys.Phase { return coresys.PhasePersist }

func (s *JournalSystem) Update(_ time.Duration) {
	s.tickCount++
	if s.tickCount < s.interval {
		return
	}
	s.tickCount = 0
	s.flush()
}

// Flush writes whatever is buffered immediately. Called on shutdown.
func (s *JournalSystem) Flush() {
	s.flush()
}

// Pending returns the number of buffered entries.
func (s *JournalSystem) Pending() int { return len(s.pending) }

// Stats returns how many entries were written and dropped so far.
func (s *JournalSystem) Stats() (written, dropped int) { return s.written, s.dropped }

func (s *JournalSystem) record(kind string, id uint64, class, name string, x, y float64, detail string) {
	s.pending = append(s.pending, persist.JournalEntry{
		MapID:    s.mapID,
		Tick:     s.m.Ticks(),
		Kind:     kind,
		EntityID: id,
		Class:    class,
		Name:     name,
		X:        x,
		Y:        y,
		Detail:   detail,
	})
}

func (s *JournalSystem) flush() {
	if len(s.pending) == 0 {
		return
	}
	batch := s.pending
	s.pending = nil

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if err := s.writer.WriteBatch(ctx, batch); err != nil {
		s.dropped += len(batch)
		s.log.Error("journal write failed, batch dropped",
			zap.Int("entries", len(batch)), zap.Error(err))
		return
	}
	s.written += len(batch)
	s.log.Debug("journal flushed", zap.Int("entries", len(batch)))
}
