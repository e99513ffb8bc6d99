package scripting

import (
	"github.com/cobalthex/dyingandmore/internal/geom"
	"github.com/cobalthex/dyingandmore/internal/world"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Action is a single request returned by a Lua hook.
type Action struct {
	Type   string // "set_velocity", "set_forward", "move_to", "path_to", "spawn", "destroy", "kill", "enable", "set_state", "overlay", "sound"
	Target string // entity name; empty = the calling entity
	Class  string
	Name   string
	State  string
	X, Y   float64
	VX, VY float64
	Speed  float64
	Flag   bool
}

func parseActions(rt *lua.LTable) []Action {
	if rt == nil {
		return nil
	}
	var out []Action
	rt.ForEach(func(_, v lua.LValue) {
		row, ok := v.(*lua.LTable)
		if !ok {
			return
		}
		out = append(out, Action{
			Type:   lStr(row, "type"),
			Target: lStr(row, "target"),
			Class:  lStr(row, "class"),
			Name:   lStr(row, "name"),
			State:  lStr(row, "state"),
			X:      lNum(row, "x"),
			Y:      lNum(row, "y"),
			VX:     lNum(row, "vx"),
			VY:     lNum(row, "vy"),
			Speed:  lNum(row, "speed"),
			Flag:   lBool(row, "flag"),
		})
	})
	return out
}

// apply runs actions against the map. Missing targets and unknown action
// types are skipped.
func (e *Engine) apply(m *world.Map, self *world.Entity, actions []Action) {
	for _, a := range actions {
		target := self
		if a.Target != "" {
			target = m.FindByName(a.Target)
		}
		if target == nil {
			e.log.Debug("lua action target missing", zap.String("type", a.Type), zap.String("target", a.Target))
			continue
		}

		switch a.Type {
		case "set_velocity":
			target.Velocity = geom.V(a.X, a.Y)
		case "set_forward":
			if f := geom.V(a.X, a.Y).Normalize(); !f.IsZero() {
				target.Forward = f
				target.UpdateBounds()
			}
		case "move_to":
			target.SetPosition(geom.V(a.X, a.Y))
		case "path_to":
			steer(m, target, geom.V(a.X, a.Y), a.Speed)
		case "spawn":
			m.Spawn(a.Class, geom.V(a.X, a.Y), target.Forward, geom.V(a.VX, a.VY), a.Name)
		case "destroy":
			m.Destroy(target)
		case "kill":
			target.Kill()
		case "enable":
			target.Enabled = a.Flag
		case "set_state":
			target.States.SetBase(a.State)
		case "overlay":
			target.States.AddOverlay(a.State)
		case "sound":
			m.SpawnSound(m.Classes.Sound(a.Class), target.Position)
		default:
			e.log.Warn("unknown lua action", zap.String("type", a.Type))
		}
	}
}

// steer points e at the next tile of an A* path toward goal. An entity
// already on the goal tile, or with no way there, stops.
func steer(m *world.Map, e *world.Entity, goal geom.Vec2, speed float64) {
	path := m.AStarBuildPath(m.Def.TileOf(e.Position), m.Def.TileOf(goal))
	if len(path) < 2 {
		e.Velocity = geom.Vec2{}
		return
	}
	dir := m.Def.TileCenter(path[1]).Sub(e.Position).Normalize()
	e.Velocity = dir.Scale(speed)
	if !dir.IsZero() {
		e.Forward = dir
	}
}
