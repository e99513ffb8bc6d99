package world

import (
	"time"

	"github.com/cobalthex/dyingandmore/internal/core/ecs"
	"github.com/cobalthex/dyingandmore/internal/data"
	"github.com/cobalthex/dyingandmore/internal/geom"
)

// Behavior is the per-kind logic the physics step calls each tick for
// entities with AI enabled. Behaviors only react; they own no simulation
// invariants.
type Behavior interface {
	Think(m *Map, e *Entity, dt time.Duration)
}

// Optional capabilities a Behavior may also implement.
type (
	SpawnHandler interface {
		OnSpawn(m *Map, e *Entity)
	}
	DestroyHandler interface {
		OnDestroy(m *Map, e *Entity)
	}
	EntityCollisionHandler interface {
		OnEntityCollision(m *Map, e, other *Entity)
	}
	MapCollisionHandler interface {
		OnMapCollision(m *Map, e *Entity, tile geom.Point)
	}
)

// BehaviorFactory resolves a class's behavior name. Returning nil leaves
// the entity without logic.
type BehaviorFactory func(name string) Behavior

type tier uint8

const (
	tierNone tier = iota
	tierActive
	tierDormant
)

// Entity is a dynamic map object. Position is the center.
type Entity struct {
	ID    ecs.EntityID
	Name  string
	Class *data.EntityClass
	Map   *Map

	Position geom.Vec2
	Forward  geom.Vec2
	Velocity geom.Vec2
	Bounds   geom.Rect
	Radius   float64

	AlwaysActive   bool
	Enabled        bool
	Physical       bool
	DestroyOnDeath bool
	AIEnabled      bool
	Dead           bool

	Behavior Behavior
	States   *StateMachine

	parent      ecs.EntityID
	children    []ecs.EntityID
	localOffset geom.Vec2

	tier        tier
	activeIndex int
	homes       []geom.Point // sectors holding this entity while dormant
}

func (e *Entity) Kind() data.ClassKind { return data.KindEntity }

// ClassName returns the class name, or "" for classless entities.
func (e *Entity) ClassName() string {
	if e.Class == nil {
		return ""
	}
	return e.Class.Name
}

// UpdateBounds recomputes the AABB from position and radius. Call after any
// change of position, direction or visual state.
func (e *Entity) UpdateBounds() {
	e.Bounds = geom.RectAround(e.Position, e.Radius, e.Radius)
}

// SetPosition moves the entity and refreshes its bounds.
func (e *Entity) SetPosition(p geom.Vec2) {
	e.Position = p
	e.UpdateBounds()
}

func (e *Entity) IsActive() bool  { return e.tier == tierActive }
func (e *Entity) IsDormant() bool { return e.tier == tierDormant }

// Homes returns the sectors storing this entity while it is dormant.
func (e *Entity) Homes() []geom.Point { return e.homes }

func (e *Entity) Parent() ecs.EntityID     { return e.parent }
func (e *Entity) Children() []ecs.EntityID { return e.children }
func (e *Entity) LocalOffset() geom.Vec2   { return e.localOffset }

// Kill marks the entity dead and enters the class death state if it has
// one. Destroy-on-death entities are removed by the physics step once that
// state finishes.
func (e *Entity) Kill() {
	if e.Dead {
		return
	}
	e.Dead = true
	if e.States != nil && e.Class != nil && e.Class.DeathState != "" {
		e.States.SetBase(e.Class.DeathState)
	}
}

// settled reports whether the base state has finished or loops forever,
// which is when a dead entity may be detached.
func (e *Entity) settled() bool {
	if e.States == nil {
		return true
	}
	base := e.States.Base()
	return base == nil || base.Looping || base.Finished()
}
