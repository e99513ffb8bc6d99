// Package world is the map simulation core: sector storage, the active set,
// the per-tick physics and collision pass, triggers, fluids and particles.
// A Map is owned by one goroutine; nothing here locks.
package world

import (
	"errors"
	"math/rand"

	"github.com/cobalthex/dyingandmore/internal/core/ecs"
	"github.com/cobalthex/dyingandmore/internal/core/event"
	"github.com/cobalthex/dyingandmore/internal/data"
	"github.com/cobalthex/dyingandmore/internal/geom"
	"github.com/cobalthex/dyingandmore/internal/pathfind"
	"go.uber.org/zap"
)

// ErrNilMap is returned when a map instance is built without a definition.
var ErrNilMap = errors.New("world: nil map definition")

// DefaultSectorSize is the sector edge length in tiles.
const DefaultSectorSize = 8

// Options configures a map instance. Zero values pick defaults.
type Options struct {
	SectorSize int
	Seed       int64
	Classes    *data.ClassTable
	Behaviors  BehaviorFactory
	Bus        *event.Bus
	Paths      *pathfind.Finder
	Log        *zap.Logger
}

// Map is a live instance of a MapDef.
type Map struct {
	Def     *data.MapDef
	Classes *data.ClassTable

	sectorSize int
	sectorsW   int
	sectorsH   int
	sectors    []Sector

	ecs      *ecs.World
	entities *ecs.Store[Entity]
	names    map[string]ecs.EntityID

	maxRadius float64

	pendingReasons map[ecs.EntityID]string

	active     []ecs.EntityID
	activeRect geom.Bounds
	view       geom.Rect
	viewTarget string

	fluids    []*Fluid
	particles []Particle
	triggers  []*Trigger

	heuristic *pathfind.HeuristicField
	paths     *pathfind.Finder
	behaviors BehaviorFactory

	bus *event.Bus
	log *zap.Logger
	rng *rand.Rand

	ticks uint64
}

// NewMap instantiates a map. The definition is required; everything else
// has a usable default.
func NewMap(def *data.MapDef, opts Options) (*Map, error) {
	if def == nil {
		return nil, ErrNilMap
	}
	if opts.SectorSize <= 0 {
		opts.SectorSize = DefaultSectorSize
	}
	if opts.Classes == nil {
		opts.Classes = data.NewClassTable()
	}
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	if opts.Paths == nil {
		finder, err := pathfind.NewFinder(def, pathfind.CacheConfig{})
		if err != nil {
			return nil, err
		}
		opts.Paths = finder
	}

	m := &Map{
		Def:        def,
		Classes:    opts.Classes,
		sectorSize: opts.SectorSize,
		ecs:        ecs.NewWorld(),
		entities:   ecs.NewStore[Entity](),
		names:      make(map[string]ecs.EntityID),
		active:     make([]ecs.EntityID, 0, 256),
		heuristic:  pathfind.NewHeuristicField(def.Width, def.Height),
		paths:      opts.Paths,
		behaviors:  opts.Behaviors,
		bus:        opts.Bus,
		log:        opts.Log,
		rng:        rand.New(rand.NewSource(opts.Seed)),

		pendingReasons: make(map[ecs.EntityID]string),
	}
	m.ecs.Registry().Register(m.entities)
	m.initSectors()
	// Until a view is set the whole map is active.
	m.view = def.PixelBounds()
	m.activeRect = m.SectorBounds()
	return m, nil
}

// Bus returns the event bus, which may be nil.
func (m *Map) Bus() *event.Bus { return m.bus }

// Log returns the map's logger.
func (m *Map) Log() *zap.Logger { return m.log }

// Rand is the map's seeded random source. All simulation randomness goes
// through it so runs are reproducible.
func (m *Map) Rand() *rand.Rand { return m.rng }

// Ticks returns the number of physics steps run.
func (m *Map) Ticks() uint64 { return m.ticks }

// Entity resolves a handle. Stale handles return nil.
func (m *Map) Entity(id ecs.EntityID) *Entity {
	e, ok := m.entities.Get(id)
	if !ok {
		return nil
	}
	return e
}

// FindByName returns the live entity spawned under name, or nil.
func (m *Map) FindByName(name string) *Entity {
	id, ok := m.names[name]
	if !ok {
		return nil
	}
	return m.Entity(id)
}

// EntityCount returns the number of live entities.
func (m *Map) EntityCount() int { return m.entities.Len() }

// EachEntity visits every live entity in handle order.
func (m *Map) EachEntity(fn func(*Entity)) {
	m.entities.Each(func(_ ecs.EntityID, e *Entity) { fn(e) })
}

// Active returns the handles simulated this tick. The slice is owned by the
// map.
func (m *Map) Active() []ecs.EntityID { return m.active }

// Triggers returns every trigger on the map.
func (m *Map) Triggers() []*Trigger { return m.triggers }
