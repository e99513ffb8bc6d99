package event

import (
	"github.com/cobalthex/dyingandmore/internal/core/ecs"
	"github.com/cobalthex/dyingandmore/internal/geom"
)

// Simulation events. Collaborators (rendering, audio, journal) read these
// one tick late through the bus.

type EntitySpawned struct {
	EntityID ecs.EntityID
	Class    string
	Position geom.Vec2
}

type EntityDestroyed struct {
	EntityID ecs.EntityID
	Class    string
	Name     string
	Position geom.Vec2
	Reason   string
}

type EntityCollided struct {
	A, B     ecs.EntityID
	Position geom.Vec2
}

type MapCollided struct {
	EntityID ecs.EntityID
	Tile     geom.Point
}

type TriggerFired struct {
	Trigger  string
	EntityID ecs.EntityID
	Uses     int
	Position geom.Vec2
}

type StateFinished struct {
	EntityID ecs.EntityID
	State    string
	Overlay  bool
}

type StateTransitioned struct {
	EntityID ecs.EntityID
	From, To string
	Overlay  bool
}

type FluidSettled struct {
	Class    string
	Position geom.Vec2
	Sector   geom.Point
}

type SoundRequested struct {
	Sound    string
	Position geom.Vec2
}
