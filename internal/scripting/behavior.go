package scripting

import (
	"time"

	"github.com/cobalthex/dyingandmore/internal/geom"
	"github.com/cobalthex/dyingandmore/internal/world"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Behavior binds one entry of the Lua `behaviors` table to the world's
// callback interfaces. Each hook receives a context table and may return a
// list of actions.
//
//	behaviors.walker = {
//	  think = function(ctx) return {{type = "set_velocity", x = 40, y = 0}} end,
//	  on_collide = function(ctx) return {{type = "kill"}} end,
//	}
type Behavior struct {
	engine *Engine
	name   string
	table  *lua.LTable
}

var (
	_ world.Behavior               = (*Behavior)(nil)
	_ world.SpawnHandler           = (*Behavior)(nil)
	_ world.DestroyHandler         = (*Behavior)(nil)
	_ world.EntityCollisionHandler = (*Behavior)(nil)
	_ world.MapCollisionHandler    = (*Behavior)(nil)
)

// Behaviors returns a factory that resolves class behavior names against
// the `behaviors` table. Unknown names resolve to nil.
func (e *Engine) Behaviors() world.BehaviorFactory {
	return func(name string) world.Behavior {
		tbl, ok := e.vm.GetGlobal("behaviors").(*lua.LTable)
		if !ok {
			return nil
		}
		bt, ok := tbl.RawGetString(name).(*lua.LTable)
		if !ok {
			e.log.Warn("lua behavior not found", zap.String("behavior", name))
			return nil
		}
		return &Behavior{engine: e, name: name, table: bt}
	}
}

func (b *Behavior) Name() string { return b.name }

func (b *Behavior) hook(m *world.Map, self *world.Entity, fn string, fill func(*lua.LTable)) {
	f := b.table.RawGetString(fn)
	if f == lua.LNil {
		return
	}
	ctx := b.engine.entityTable(m, self)
	if fill != nil {
		fill(ctx)
	}
	rt := b.engine.call(f, b.name+"."+fn, ctx)
	b.engine.apply(m, self, parseActions(rt))
}

func (b *Behavior) Think(m *world.Map, e *world.Entity, dt time.Duration) {
	b.hook(m, e, "think", func(ctx *lua.LTable) {
		ctx.RawSetString("dt", lua.LNumber(dt.Seconds()))
	})
}

func (b *Behavior) OnSpawn(m *world.Map, e *world.Entity) {
	b.hook(m, e, "on_spawn", nil)
}

func (b *Behavior) OnDestroy(m *world.Map, e *world.Entity) {
	b.hook(m, e, "on_destroy", nil)
}

func (b *Behavior) OnEntityCollision(m *world.Map, e, other *world.Entity) {
	b.hook(m, e, "on_collide", func(ctx *lua.LTable) {
		ctx.RawSetString("other", b.engine.entityTable(m, other))
	})
}

func (b *Behavior) OnMapCollision(m *world.Map, e *world.Entity, tile geom.Point) {
	b.hook(m, e, "on_map_collide", func(ctx *lua.LTable) {
		ctx.RawSetString("tile_x", lua.LNumber(tile.X))
		ctx.RawSetString("tile_y", lua.LNumber(tile.Y))
	})
}

// entityTable packs an entity snapshot for Lua.
func (e *Engine) entityTable(m *world.Map, ent *world.Entity) *lua.LTable {
	t := e.vm.NewTable()
	t.RawSetString("id", lua.LNumber(uint64(ent.ID)))
	t.RawSetString("name", lua.LString(ent.Name))
	t.RawSetString("class", lua.LString(ent.ClassName()))
	t.RawSetString("x", lua.LNumber(ent.Position.X))
	t.RawSetString("y", lua.LNumber(ent.Position.Y))
	t.RawSetString("vx", lua.LNumber(ent.Velocity.X))
	t.RawSetString("vy", lua.LNumber(ent.Velocity.Y))
	t.RawSetString("fx", lua.LNumber(ent.Forward.X))
	t.RawSetString("fy", lua.LNumber(ent.Forward.Y))
	t.RawSetString("radius", lua.LNumber(ent.Radius))
	if ent.States != nil && ent.States.Base() != nil {
		t.RawSetString("state", lua.LString(ent.States.Base().Name))
	}
	lSetBool(t, "dead", ent.Dead)
	lSetBool(t, "active", ent.IsActive())
	if m != nil {
		t.RawSetString("tick", lua.LNumber(m.Ticks()))
	}
	return t
}
