package world

import (
	"github.com/cobalthex/dyingandmore/internal/core/ecs"
	"github.com/cobalthex/dyingandmore/internal/geom"
)

// TraceStep is the march distance between samples in TraceLine. Anything
// thinner than a step can be skipped over.
const TraceStep = 2.0

// Hit is the result of a trace.
type Hit struct {
	Distance float64
	Entity   *Entity
}

// TraceLine marches from start along dir (normalized internally) up to
// maxDist and returns the first active entity whose circle contains a
// sample point. Ties within one sample go to the nearest center.
func (m *Map) TraceLine(start, dir geom.Vec2, maxDist float64, ignore ecs.EntityID) (Hit, bool) {
	return m.trace(start, dir, maxDist, 0, ignore)
}

// trace is TraceLine with every target radius grown by pad, which lets a
// mover of radius pad be traced as a point.
func (m *Map) trace(start, dir geom.Vec2, maxDist, pad float64, ignore ecs.EntityID) (Hit, bool) {
	dir = dir.Normalize()
	if dir.IsZero() || maxDist < 0 {
		return Hit{}, false
	}
	end := start.Add(dir.Scale(maxDist))

	var candidates []*Entity
	for _, id := range m.active {
		if id == ignore {
			continue
		}
		e := m.Entity(id)
		if e == nil || !e.Enabled || m.ecs.PendingDestroy(id) {
			continue
		}
		reach := e.Radius + pad
		if segmentDistSq(start, end, e.Position) <= reach*reach {
			candidates = append(candidates, e)
		}
	}
	if len(candidates) == 0 {
		return Hit{}, false
	}

	for d := 0.0; ; d += TraceStep {
		if d > maxDist {
			d = maxDist
		}
		p := start.Add(dir.Scale(d))
		var best *Entity
		bestSq := 0.0
		for _, e := range candidates {
			reach := e.Radius + pad
			dsq := p.DistSq(e.Position)
			if dsq > reach*reach {
				continue
			}
			if best == nil || dsq < bestSq {
				best, bestSq = e, dsq
			}
		}
		if best != nil {
			return Hit{Distance: d, Entity: best}, true
		}
		if d >= maxDist {
			return Hit{}, false
		}
	}
}

func segmentDistSq(a, b, p geom.Vec2) float64 {
	ab := b.Sub(a)
	l := ab.LenSq()
	if l == 0 {
		return p.DistSq(a)
	}
	t := p.Sub(a).Dot(ab) / l
	switch {
	case t < 0:
		t = 0
	case t > 1:
		t = 1
	}
	return p.DistSq(a.Add(ab.Scale(t)))
}

// FindEntitiesInRadius returns the entities whose circle overlaps the query
// circle. Active entities come first in active-list order; with
// searchInSectors the dormant entities of overlapping sectors follow.
func (m *Map) FindEntitiesInRadius(center geom.Vec2, radius float64, searchInSectors bool) []*Entity {
	match := func(e *Entity) bool {
		reach := radius + e.Radius
		return center.DistSq(e.Position) <= reach*reach
	}
	return m.findEntities(geom.RectAround(center, radius, radius), match, searchInSectors)
}

// FindEntitiesInRect returns the entities whose bounds overlap r, in the
// same order as FindEntitiesInRadius.
func (m *Map) FindEntitiesInRect(r geom.Rect, searchInSectors bool) []*Entity {
	match := func(e *Entity) bool {
		if e.Bounds.Empty() {
			return r.Contains(e.Position)
		}
		return r.Intersects(e.Bounds)
	}
	return m.findEntities(r, match, searchInSectors)
}

func (m *Map) findEntities(area geom.Rect, match func(*Entity) bool, searchInSectors bool) []*Entity {
	var out []*Entity
	for _, id := range m.active {
		if e := m.Entity(id); e != nil && match(e) {
			out = append(out, e)
		}
	}
	if !searchInSectors {
		return out
	}
	// Dormant entities are filed by center (or by spawn AABB, possibly in
	// several sectors), so grow the area past the largest radius seen.
	seen := make(map[ecs.EntityID]struct{})
	pad := m.maxRadius + 1
	area = area.Inflate(pad, pad)
	m.eachSector(m.GetOverlappingSectors(area), func(s *Sector) {
		for _, id := range s.dormant.Items() {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			if e := m.Entity(id); e != nil && match(e) {
				out = append(out, e)
			}
		}
	})
	return out
}
