package world

import (
	"testing"
	"time"

	"github.com/cobalthex/dyingandmore/internal/core/event"
	"github.com/cobalthex/dyingandmore/internal/data"
	"github.com/cobalthex/dyingandmore/internal/geom"
)

// recorder is a behavior that counts callbacks.
type recorder struct {
	thinks    int
	tiles     []geom.Point
	collided  []*Entity
	spawned   int
	destroyed int
}

func (r *recorder) Think(*Map, *Entity, time.Duration)             { r.thinks++ }
func (r *recorder) OnSpawn(*Map, *Entity)                          { r.spawned++ }
func (r *recorder) OnDestroy(*Map, *Entity)                        { r.destroyed++ }
func (r *recorder) OnMapCollision(_ *Map, _ *Entity, p geom.Point) { r.tiles = append(r.tiles, p) }
func (r *recorder) OnEntityCollision(_ *Map, _ *Entity, o *Entity) {
	r.collided = append(r.collided, o)
}

func TestTileCollisionStopsPhysicalEntity(t *testing.T) {
	m := newTestMap(t, 10, 10, nil, geom.P(5, 0))
	crate := &data.EntityClass{Name: "crate", Radius: 2, Physical: true}
	ghost := &data.EntityClass{Name: "ghost", Radius: 2}

	e := m.SpawnEntity(crate, geom.V(72, 8), geom.Vec2{}, geom.V(120, 0), "")
	g := m.SpawnEntity(ghost, geom.V(72, 40), geom.Vec2{}, geom.V(120, 0), "")
	rec := &recorder{}
	e.Behavior = rec

	m.StepEntities(100 * time.Millisecond)

	if e.Position != geom.V(72, 8) || !e.Velocity.IsZero() {
		t.Fatalf("expected crate stopped at (72,8), got pos %v vel %v", e.Position, e.Velocity)
	}
	if len(rec.tiles) != 1 || rec.tiles[0] != geom.P(5, 0) {
		t.Fatalf("expected one collision with tile (5,0), got %v", rec.tiles)
	}
	if g.Position != geom.V(84, 40) {
		t.Fatalf("expected ghost to keep moving, got %v", g.Position)
	}
	if n := len(event.Pending[event.MapCollided](m.Bus())); n != 1 {
		t.Fatalf("expected 1 MapCollided event, got %d", n)
	}
}

func TestMaskedPixelsBlock(t *testing.T) {
	tiles := make([]int16, 4*4)
	tiles[1] = 1
	info := data.MapInfo{MapID: 2, Width: 4, Height: 4, TileSize: 16, Masks: []data.TileMask{
		{Tile: 1, Rows: []string{"#...", "#...", "#...", "#..."}},
	}}
	def, err := data.NewMapDef(info, tiles)
	if err != nil {
		t.Fatalf("map def: %v", err)
	}
	m, err := NewMap(def, Options{})
	if err != nil {
		t.Fatalf("new map: %v", err)
	}
	e := m.SpawnEntity(&data.EntityClass{Name: "crate", Radius: 1, Physical: true}, geom.V(10, 8), geom.Vec2{}, geom.V(40, 0), "")
	m.StepEntities(100 * time.Millisecond) // x=14, tile 0
	if e.Position.X != 14 {
		t.Fatalf("expected x=14, got %v", e.Position.X)
	}
	m.StepEntities(100 * time.Millisecond) // x=18 is in the solid column of tile 1
	if e.Position.X != 14 || !e.Velocity.IsZero() {
		t.Fatalf("expected stop at the mask, got pos %v vel %v", e.Position, e.Velocity)
	}
}

func TestTileCollisionDeterministic(t *testing.T) {
	run := func() []geom.Vec2 {
		m := newTestMap(t, 20, 20, nil, geom.P(12, 12), geom.P(13, 12), geom.P(12, 13))
		class := &data.EntityClass{Name: "crate", Radius: 2, Physical: true}
		var es []*Entity
		for i := 0; i < 5; i++ {
			es = append(es, m.SpawnEntity(class, geom.V(20+float64(i)*30, 20), geom.Vec2{}, geom.V(37, 23+float64(i)*5), ""))
		}
		for i := 0; i < 200; i++ {
			m.StepEntities(16 * time.Millisecond)
		}
		out := make([]geom.Vec2, len(es))
		for i, e := range es {
			out[i] = e.Position
		}
		return out
	}
	a, b := run(), run()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("expected identical runs, entity %d got %v and %v", i, a[i], b[i])
		}
	}
}

func TestEntityCollisionStopsMover(t *testing.T) {
	m := newTestMap(t, 10, 10, nil)
	class := &data.EntityClass{Name: "crate", Radius: 4, Physical: true}
	mover := m.SpawnEntity(class, geom.V(20, 50), geom.Vec2{}, geom.V(100, 0), "")
	wall := m.SpawnEntity(class, geom.V(40, 50), geom.Vec2{}, geom.Vec2{}, "")
	rm, rw := &recorder{}, &recorder{}
	mover.Behavior, wall.Behavior = rm, rw

	m.StepEntities(100 * time.Millisecond)
	if mover.Position != geom.V(30, 50) || len(rm.collided) != 0 {
		t.Fatalf("expected free move to (30,50), got %v with %d hits", mover.Position, len(rm.collided))
	}

	m.StepEntities(100 * time.Millisecond)
	if mover.Position != geom.V(30, 50) || !mover.Velocity.IsZero() {
		t.Fatalf("expected mover stopped at (30,50), got pos %v vel %v", mover.Position, mover.Velocity)
	}
	if len(rm.collided) != 1 || rm.collided[0] != wall {
		t.Fatalf("expected mover callback with wall")
	}
	if len(rw.collided) != 1 || rw.collided[0] != mover {
		t.Fatalf("expected wall callback with mover")
	}
	if n := len(event.Pending[event.EntityCollided](m.Bus())); n != 1 {
		t.Fatalf("expected 1 EntityCollided event, got %d", n)
	}
}

func TestFastMoverHitsEntityMidStep(t *testing.T) {
	m := newTestMap(t, 10, 10, nil)
	class := &data.EntityClass{Name: "crate", Radius: 4, Physical: true}
	mover := m.SpawnEntity(class, geom.V(10, 50), geom.Vec2{}, geom.V(1000, 0), "")
	post := m.SpawnEntity(class, geom.V(60, 50), geom.Vec2{}, geom.Vec2{}, "")
	rm := &recorder{}
	mover.Behavior = rm

	// The 100px step ends well past the post.
	m.StepEntities(100 * time.Millisecond)
	if mover.Position != geom.V(10, 50) || !mover.Velocity.IsZero() {
		t.Fatalf("expected mover stopped at (10,50), got pos %v vel %v", mover.Position, mover.Velocity)
	}
	if len(rm.collided) != 1 || rm.collided[0] != post {
		t.Fatalf("expected one collision with the post, got %d", len(rm.collided))
	}
	evs := event.Pending[event.EntityCollided](m.Bus())
	if len(evs) != 1 || evs[0].Position != geom.V(52, 50) {
		t.Fatalf("expected one EntityCollided at (52,50), got %v", evs)
	}
}

func TestOverlappingPairSeparates(t *testing.T) {
	m := newTestMap(t, 10, 10, nil)
	class := &data.EntityClass{Name: "crate", Radius: 4, Physical: true}
	a := m.SpawnEntity(class, geom.V(40, 50), geom.Vec2{}, geom.V(-100, 0), "")
	m.SpawnEntity(class, geom.V(44, 50), geom.Vec2{}, geom.Vec2{}, "")

	m.StepEntities(100 * time.Millisecond)
	if a.Position != geom.V(30, 50) {
		t.Fatalf("expected overlapping mover to back away to (30,50), got %v", a.Position)
	}
	if n := len(event.Pending[event.EntityCollided](m.Bus())); n != 0 {
		t.Fatalf("expected no collision while separating, got %d", n)
	}
}

func TestDisabledEntitiesSkipped(t *testing.T) {
	m := newTestMap(t, 10, 10, nil)
	e := m.SpawnEntity(&data.EntityClass{Name: "imp", AI: true}, geom.V(20, 20), geom.Vec2{}, geom.V(100, 0), "")
	rec := &recorder{}
	e.Behavior = rec
	e.Enabled = false

	m.StepEntities(100 * time.Millisecond)
	if e.Position != geom.V(20, 20) || rec.thinks != 0 {
		t.Fatalf("expected disabled entity untouched, got %v thinks=%d", e.Position, rec.thinks)
	}
	e.Enabled = true
	m.StepEntities(100 * time.Millisecond)
	if e.Position != geom.V(30, 20) || rec.thinks != 1 {
		t.Fatalf("expected one think and a move, got %v thinks=%d", e.Position, rec.thinks)
	}
}

func TestDeadEntityRemovedAfterDeathState(t *testing.T) {
	m := newTestMap(t, 10, 10, nil)
	class := &data.EntityClass{
		Name:           "imp",
		DestroyOnDeath: true,
		InitialState:   "idle",
		DeathState:     "dying",
		States: []data.StateDef{
			{Name: "idle", Looping: true},
			{Name: "dying", Duration: 100 * time.Millisecond},
		},
	}
	e := m.SpawnEntity(class, geom.V(20, 20), geom.Vec2{}, geom.Vec2{}, "")
	rec := &recorder{}
	e.Behavior = rec
	e.Kill()

	m.StepEntities(50 * time.Millisecond)
	m.StepEntities(50 * time.Millisecond)
	if m.PendingDestroy(e) {
		t.Fatalf("expected entity kept while the death state plays")
	}
	m.StepEntities(50 * time.Millisecond)
	if !m.PendingDestroy(e) {
		t.Fatalf("expected destroy queued once the death state finished")
	}
	m.FlushDestroys()
	if rec.destroyed != 1 {
		t.Fatalf("expected OnDestroy once, got %d", rec.destroyed)
	}
}

func TestThinkSpawnsAreSteppedSameTick(t *testing.T) {
	m := newTestMap(t, 10, 10, nil)
	class := &data.EntityClass{Name: "imp", AI: true}
	parent := m.SpawnEntity(class, geom.V(20, 20), geom.Vec2{}, geom.Vec2{}, "")
	var child *Entity
	parent.Behavior = thinkFunc(func(m *Map, e *Entity, _ time.Duration) {
		if child == nil {
			child = m.SpawnEntity(nil, geom.V(40, 40), geom.Vec2{}, geom.V(100, 0), "")
		}
	})

	m.StepEntities(100 * time.Millisecond)
	if child == nil || child.Position != geom.V(50, 40) {
		t.Fatalf("expected spawned child moved in the same tick")
	}
	if m.Ticks() != 1 {
		t.Fatalf("expected 1 tick, got %d", m.Ticks())
	}
}

type thinkFunc func(m *Map, e *Entity, dt time.Duration)

func (f thinkFunc) Think(m *Map, e *Entity, dt time.Duration) { f(m, e, dt) }
