package world

import (
	"math"

	"github.com/cobalthex/dyingandmore/internal/core/ecs"
	"github.com/cobalthex/dyingandmore/internal/geom"
)

// Sector is a fixed SectorSize x SectorSize tile region. Sectors are created
// once with the map and never move; only their contents churn.
// Accessed only from the simulation goroutine, no locks.
type Sector struct {
	Coord    geom.Point
	dormant  idSet
	Fluids   []RestingFluid
	Decals   []*Decal
	Triggers []*Trigger
}

// Dormant returns the handles stored in this sector. The slice is owned by
// the sector.
func (s *Sector) Dormant() []ecs.EntityID { return s.dormant.Items() }

func (s *Sector) HasDormant(id ecs.EntityID) bool { return s.dormant.Has(id) }

func (m *Map) initSectors() {
	m.sectorsW = (m.Def.Width + m.sectorSize - 1) / m.sectorSize
	m.sectorsH = (m.Def.Height + m.sectorSize - 1) / m.sectorSize
	m.sectors = make([]Sector, m.sectorsW*m.sectorsH)
	for y := 0; y < m.sectorsH; y++ {
		for x := 0; x < m.sectorsW; x++ {
			s := &m.sectors[y*m.sectorsW+x]
			s.Coord = geom.P(x, y)
			s.dormant = newIDSet()
		}
	}
}

func (m *Map) sectorPixels() float64 {
	return float64(m.sectorSize * m.Def.TileSize)
}

// SectorSize returns the sector edge length in tiles.
func (m *Map) SectorSize() int { return m.sectorSize }

// SectorBounds is the rectangle of valid sector coordinates.
func (m *Map) SectorBounds() geom.Bounds {
	return geom.B(0, 0, m.sectorsW, m.sectorsH)
}

// Sector returns the sector at a sector coordinate, or nil out of range.
func (m *Map) Sector(p geom.Point) *Sector {
	if !m.SectorBounds().Contains(p) {
		return nil
	}
	return &m.sectors[p.Y*m.sectorsW+p.X]
}

// sectorPos is the unclamped sector coordinate of a world position.
func (m *Map) sectorPos(pos geom.Vec2) geom.Point {
	sp := m.sectorPixels()
	return geom.P(geom.FloorDiv(pos.X, sp), geom.FloorDiv(pos.Y, sp))
}

// GetOverlappingSector returns the sector containing a world position,
// clamped to the map.
func (m *Map) GetOverlappingSector(pos geom.Vec2) geom.Point {
	p := m.sectorPos(pos)
	return geom.P(geom.Clamp(p.X, 0, m.sectorsW-1), geom.Clamp(p.Y, 0, m.sectorsH-1))
}

// GetOverlappingSectors returns the half-open range of sectors a world
// rectangle touches, clamped to the map. No overlap yields an empty range.
func (m *Map) GetOverlappingSectors(r geom.Rect) geom.Bounds {
	if r.Empty() {
		return geom.Bounds{}
	}
	sp := m.sectorPixels()
	b := geom.B(
		geom.FloorDiv(r.Min.X, sp),
		geom.FloorDiv(r.Min.Y, sp),
		int(math.Ceil(r.Max.X/sp)),
		int(math.Ceil(r.Max.Y/sp)),
	)
	return b.Intersect(m.SectorBounds())
}

// eachSector visits the sectors inside b.
func (m *Map) eachSector(b geom.Bounds, fn func(*Sector)) {
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			fn(&m.sectors[y*m.sectorsW+x])
		}
	}
}
