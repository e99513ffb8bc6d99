package world

import (
	"math"
	"time"

	"github.com/cobalthex/dyingandmore/internal/core/event"
	"github.com/cobalthex/dyingandmore/internal/data"
	"github.com/cobalthex/dyingandmore/internal/geom"
)

// FluidRestThreshold is the speed, per axis in px/s, under which a live
// fluid comes to rest.
const FluidRestThreshold = 1.0

// Fluid is a moving ambient particle such as a blood drop.
type Fluid struct {
	Class    *data.FluidClass
	Position geom.Vec2
	Velocity geom.Vec2
}

func (f *Fluid) Kind() data.ClassKind { return data.KindFluid }

func (f *Fluid) atRest() bool {
	return math.Abs(f.Velocity.X) < FluidRestThreshold && math.Abs(f.Velocity.Y) < FluidRestThreshold
}

// RestingFluid is a fluid that has stopped. It is stored in its sector
// and never moves again.
type RestingFluid struct {
	Class    *data.FluidClass
	Position geom.Vec2
}

// Fluids returns the live fluid list. The slice is owned by the map.
func (m *Map) Fluids() []*Fluid { return m.fluids }

// SpawnFluid adds a live fluid. One spawned too slow to move is laid to
// rest immediately and nil is returned. A nil class yields nil.
func (m *Map) SpawnFluid(class *data.FluidClass, pos, velocity geom.Vec2) *Fluid {
	if class == nil {
		return nil
	}
	f := &Fluid{Class: class, Position: pos, Velocity: velocity}
	if f.atRest() {
		m.restFluid(f)
		return nil
	}
	m.fluids = append(m.fluids, f)
	return f
}

// StepFluids integrates and damps every live fluid; fluids that slow under
// the threshold move permanently to their sector's at-rest list.
func (m *Map) StepFluids(dt time.Duration) {
	secs := dt.Seconds()
	for i := 0; i < len(m.fluids); i++ {
		f := m.fluids[i]
		f.Position = f.Position.Add(f.Velocity.Scale(secs))
		f.Velocity = f.Velocity.Sub(f.Velocity.Scale(secs).Scale(f.Class.Drag))
		if !f.atRest() {
			continue
		}
		m.restFluid(f)
		last := len(m.fluids) - 1
		m.fluids[i] = m.fluids[last]
		m.fluids[last] = nil
		m.fluids = m.fluids[:last]
		i--
	}
}

// restFluid files f in the sector under it. Fluids that stop outside the
// map are dropped.
func (m *Map) restFluid(f *Fluid) {
	if !m.Def.PixelBounds().Contains(f.Position) {
		return
	}
	sp := m.GetOverlappingSector(f.Position)
	s := m.Sector(sp)
	s.Fluids = append(s.Fluids, RestingFluid{Class: f.Class, Position: f.Position})
	event.Emit(m.bus, event.FluidSettled{Class: f.Class.Name, Position: f.Position, Sector: sp})
}
