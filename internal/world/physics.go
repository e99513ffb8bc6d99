package world

import (
	"time"

	"github.com/cobalthex/dyingandmore/internal/core/event"
	"github.com/cobalthex/dyingandmore/internal/geom"
)

// StepEntities runs one physics tick over the active list. The loop is
// index based: entities spawned by Think are appended and visited this same
// tick, and destroys are only queued, so the list never shrinks mid-pass.
func (m *Map) StepEntities(dt time.Duration) {
	secs := dt.Seconds()
	for i := 0; i < len(m.active); i++ {
		e := m.Entity(m.active[i])
		if e == nil || !e.Enabled || m.ecs.PendingDestroy(e.ID) {
			continue
		}
		if e.Dead && e.DestroyOnDeath && e.settled() {
			m.destroy(e, "died")
			continue
		}

		e.States.Update(dt)
		if e.AIEnabled && e.Behavior != nil {
			e.Behavior.Think(m, e, dt)
		}
		m.move(e, secs)
	}
	m.ticks++
}

// move resolves tile then entity collision for one entity and integrates
// its position with whatever velocity survives.
func (m *Map) move(e *Entity, secs float64) {
	if e.Velocity.IsZero() {
		return
	}
	target := e.Position.Add(e.Velocity.Scale(secs))

	if tile, blocked := m.Def.Blocked(target); blocked {
		if h, ok := e.Behavior.(MapCollisionHandler); ok {
			h.OnMapCollision(m, e, tile)
		}
		event.Emit(m.bus, event.MapCollided{EntityID: e.ID, Tile: tile})
		if e.Physical {
			e.Velocity = geom.Vec2{}
		}
	}

	if !e.Velocity.IsZero() {
		m.collideEntities(e, target, secs)
	}

	e.Position = e.Position.Add(e.Velocity.Scale(secs))
	e.UpdateBounds()
}

func (m *Map) collideEntities(e *Entity, target geom.Vec2, secs float64) {
	dist := e.Velocity.Len() * secs
	hit, ok := m.trace(e.Position, e.Velocity, dist, e.Radius, e.ID)
	if !ok {
		return
	}
	other := hit.Entity
	// A pair overlapping before the step may separate freely.
	if hit.Distance == 0 && target.DistSq(other.Position) >= e.Position.DistSq(other.Position) {
		return
	}

	if h, ok := e.Behavior.(EntityCollisionHandler); ok {
		h.OnEntityCollision(m, e, other)
	}
	if h, ok := other.Behavior.(EntityCollisionHandler); ok {
		h.OnEntityCollision(m, other, e)
	}
	at := e.Position.Add(e.Velocity.Normalize().Scale(hit.Distance))
	event.Emit(m.bus, event.EntityCollided{A: e.ID, B: other.ID, Position: at})
	if e.Physical {
		e.Velocity = geom.Vec2{}
	}
}
