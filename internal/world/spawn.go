package world

import (
	"github.com/cobalthex/dyingandmore/internal/core/ecs"
	"github.com/cobalthex/dyingandmore/internal/core/event"
	"github.com/cobalthex/dyingandmore/internal/data"
	"github.com/cobalthex/dyingandmore/internal/geom"
	"go.uber.org/zap"
)

// Instance is anything Spawn can produce.
type Instance interface {
	Kind() data.ClassKind
}

// Spawn creates an instance of the named class: an entity, fluid, effect,
// decal or sound. An unknown class name is logged and yields nil.
func (m *Map) Spawn(className string, pos, forward, velocity geom.Vec2, name string) Instance {
	switch m.Classes.Kind(className) {
	case data.KindEntity:
		return m.SpawnEntity(m.Classes.Entity(className), pos, forward, velocity, name)
	case data.KindFluid:
		if f := m.SpawnFluid(m.Classes.Fluid(className), pos, velocity); f != nil {
			return f
		}
		return nil
	case data.KindEffect:
		if fx := m.SpawnEffect(m.Classes.Effect(className), pos, forward); fx != nil {
			return fx
		}
		return nil
	case data.KindDecal:
		if d := m.SpawnDecal(m.Classes.Decal(className), pos, forward); d != nil {
			return d
		}
		return nil
	case data.KindSound:
		if s := m.SpawnSound(m.Classes.Sound(className), pos); s != nil {
			return s
		}
		return nil
	}
	m.log.Warn("spawn: unknown class", zap.String("class", className))
	return nil
}

// SpawnEntity creates an entity and places it in the active list or in
// sector storage. A nil class produces a bare, non-physical entity.
func (m *Map) SpawnEntity(class *data.EntityClass, pos, forward, velocity geom.Vec2, name string) *Entity {
	id := m.ecs.CreateEntity()
	if forward.IsZero() {
		forward = geom.V(1, 0)
	}
	e := &Entity{
		ID:          id,
		Name:        name,
		Class:       class,
		Map:         m,
		Position:    pos,
		Forward:     forward.Normalize(),
		Velocity:    velocity,
		Enabled:     true,
		activeIndex: -1,
	}
	if class != nil {
		e.Radius = class.Radius
		e.Physical = class.Physical
		e.AlwaysActive = class.AlwaysActive
		e.AIEnabled = class.AI
		e.DestroyOnDeath = class.DestroyOnDeath
		if class.Behavior != "" && m.behaviors != nil {
			e.Behavior = m.behaviors(class.Behavior)
		}
	}
	e.States = NewStateMachine(id, class, m.bus)
	e.UpdateBounds()
	if e.Radius > m.maxRadius {
		m.maxRadius = e.Radius
	}

	m.entities.Set(id, e)
	if name != "" {
		m.names[name] = id
	}
	m.place(e)
	if m.ecs.PendingDestroy(id) {
		return e
	}

	if h, ok := e.Behavior.(SpawnHandler); ok {
		h.OnSpawn(m, e)
	}
	event.Emit(m.bus, event.EntitySpawned{EntityID: id, Class: e.ClassName(), Position: pos})
	if class != nil && class.SpawnEffect != "" {
		m.SpawnEffect(m.Classes.Effect(class.SpawnEffect), pos, e.Forward)
	}
	return e
}

// Destroy queues an entity for removal at the end of the tick. The entity
// stays fully linked until then.
func (m *Map) Destroy(e *Entity) {
	m.destroy(e, "destroyed")
}

func (m *Map) destroy(e *Entity, reason string) {
	if e == nil {
		return
	}
	if m.ecs.MarkForDestruction(e.ID) {
		m.pendingReasons[e.ID] = reason
	}
}

// PendingDestroy reports whether e is queued for removal.
func (m *Map) PendingDestroy(e *Entity) bool {
	return e != nil && m.ecs.PendingDestroy(e.ID)
}

// FlushDestroys detaches every queued entity from the active list, sector
// storage, triggers and the hierarchy, runs its destroy callback and frees
// its handle. Returns the number destroyed.
func (m *Map) FlushDestroys() int {
	return m.ecs.FlushDestroyQueue(func(id ecs.EntityID) {
		e := m.Entity(id)
		reason := m.pendingReasons[id]
		delete(m.pendingReasons, id)
		if e == nil {
			return
		}
		m.detach(e, reason)
	})
}

func (m *Map) detach(e *Entity, reason string) {
	m.unlink(e)
	for _, t := range m.triggers {
		t.contained.Remove(e.ID)
	}
	m.detachHierarchy(e)

	if h, ok := e.Behavior.(DestroyHandler); ok {
		h.OnDestroy(m, e)
	}
	if e.Dead && e.Class != nil && e.Class.DeathEffect != "" {
		m.SpawnEffect(m.Classes.Effect(e.Class.DeathEffect), e.Position, e.Forward)
	}
	if e.Name != "" && m.names[e.Name] == e.ID {
		delete(m.names, e.Name)
	}
	event.Emit(m.bus, event.EntityDestroyed{
		EntityID: e.ID,
		Class:    e.ClassName(),
		Name:     e.Name,
		Position: e.Position,
		Reason:   reason,
	})
}
