package world

import (
	"github.com/cobalthex/dyingandmore/internal/core/ecs"
	"github.com/cobalthex/dyingandmore/internal/geom"
	"go.uber.org/zap"
)

// SetView places the camera: center and viewport size in world pixels.
// Clears any follow target.
func (m *Map) SetView(center geom.Vec2, width, height float64) {
	m.view = geom.RectAround(center, width/2, height/2)
	m.viewTarget = ""
}

// SetViewTarget makes the view follow the named entity, keeping the
// current viewport size. An unknown name leaves the view where it is.
func (m *Map) SetViewTarget(name string) {
	m.viewTarget = name
}

// View returns the current view rectangle in world pixels.
func (m *Map) View() geom.Rect {
	if m.viewTarget != "" {
		if e := m.FindByName(m.viewTarget); e != nil {
			m.view = geom.RectAround(e.Position, m.view.Width()/2, m.view.Height()/2)
		}
	}
	return m.view
}

// ActiveRect returns the sector rectangle simulated at full rate.
func (m *Map) ActiveRect() geom.Bounds { return m.activeRect }

// computeActiveRect returns the sectors under the view, inflated by one
// sector on every side and clamped to the map.
func (m *Map) computeActiveRect() geom.Bounds {
	v := m.View()
	if v.Empty() {
		return geom.Bounds{}
	}
	lo := m.sectorPos(v.Min)
	hi := m.sectorPos(geom.V(v.Max.X-1e-9, v.Max.Y-1e-9))
	b := geom.Bounds{Min: lo, Max: geom.P(hi.X+1, hi.Y+1)}
	return b.Inflate(1).Intersect(m.SectorBounds())
}

// UpdateActive recomputes the active rectangle, demotes active entities
// outside it, then promotes the dormant entities of every sector inside it.
// Promotion reads current sector contents only, and demoted entities are
// outside the rectangle, so nothing bounces back within one pass.
func (m *Map) UpdateActive() {
	m.activeRect = m.computeActiveRect()
	m.demoteOutside()
	m.promoteInside()
}

// Settle hands entities that moved outside the active rectangle during the
// tick back to sector storage.
func (m *Map) Settle() {
	m.demoteOutside()
}

func (m *Map) demoteOutside() {
	bounds := m.Def.PixelBounds()
	for i := 0; i < len(m.active); i++ {
		e := m.Entity(m.active[i])
		if e == nil {
			m.removeActiveAt(i)
			i--
			continue
		}
		if e.AlwaysActive {
			continue
		}
		sp := m.sectorPos(e.Position)
		if m.activeRect.Contains(sp) {
			continue
		}
		m.removeActiveAt(i)
		i--
		if !bounds.Contains(e.Position) {
			m.log.Debug("entity left map", zap.Uint64("id", uint64(e.ID)), zap.String("class", e.ClassName()))
			m.destroy(e, "out of bounds")
			continue
		}
		m.addDormant(e, []geom.Point{sp})
	}
}

func (m *Map) promoteInside() {
	var moving []ecs.EntityID
	m.eachSector(m.activeRect, func(s *Sector) {
		if s.dormant.Len() == 0 {
			return
		}
		moving = append(moving[:0], s.dormant.Items()...)
		for _, id := range moving {
			e := m.Entity(id)
			if e == nil {
				s.dormant.Remove(id)
				continue
			}
			m.removeDormant(e)
			m.addActive(e)
		}
		s.dormant.Clear()
	})
}

// place stores a freshly spawned entity: active when AlwaysActive or when its
// AABB touches the active rectangle, otherwise dormant in every sector the
// AABB overlaps. An entity wholly outside the map is destroyed.
func (m *Map) place(e *Entity) {
	if e.AlwaysActive {
		m.addActive(e)
		return
	}
	span := m.GetOverlappingSectors(e.Bounds)
	if e.Bounds.Empty() && m.Def.PixelBounds().Contains(e.Position) {
		sp := m.sectorPos(e.Position)
		span = geom.B(sp.X, sp.Y, sp.X+1, sp.Y+1)
	}
	if span.Empty() {
		m.destroy(e, "spawned outside map")
		return
	}
	if !span.Intersect(m.activeRect).Empty() {
		m.addActive(e)
		return
	}
	homes := make([]geom.Point, 0, span.Width()*span.Height())
	for y := span.Min.Y; y < span.Max.Y; y++ {
		for x := span.Min.X; x < span.Max.X; x++ {
			homes = append(homes, geom.P(x, y))
		}
	}
	m.addDormant(e, homes)
}

func (m *Map) addActive(e *Entity) {
	e.tier = tierActive
	e.activeIndex = len(m.active)
	m.active = append(m.active, e.ID)
}

// removeActiveAt swap-removes the active entry at i; order is not kept.
func (m *Map) removeActiveAt(i int) {
	id := m.active[i]
	last := len(m.active) - 1
	if i != last {
		moved := m.active[last]
		m.active[i] = moved
		if me := m.Entity(moved); me != nil {
			me.activeIndex = i
		}
	}
	m.active = m.active[:last]
	if e := m.Entity(id); e != nil {
		e.tier = tierNone
		e.activeIndex = -1
	}
}

func (m *Map) addDormant(e *Entity, homes []geom.Point) {
	e.tier = tierDormant
	e.homes = homes
	for _, h := range homes {
		if s := m.Sector(h); s != nil {
			s.dormant.Add(e.ID)
		}
	}
}

func (m *Map) removeDormant(e *Entity) {
	for _, h := range e.homes {
		if s := m.Sector(h); s != nil {
			s.dormant.Remove(e.ID)
		}
	}
	e.homes = nil
	e.tier = tierNone
}

// unlink removes an entity from whichever tier holds it.
func (m *Map) unlink(e *Entity) {
	switch e.tier {
	case tierActive:
		if e.activeIndex >= 0 && e.activeIndex < len(m.active) && m.active[e.activeIndex] == e.ID {
			m.removeActiveAt(e.activeIndex)
		}
	case tierDormant:
		m.removeDormant(e)
	}
	e.tier = tierNone
}
