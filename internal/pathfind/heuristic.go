package pathfind

import "github.com/cobalthex/dyingandmore/internal/geom"

// HeuristicField stores a per-tile BFS distance from the origin of the most
// recent Build. Each tile carries the generation that wrote it; a tile whose
// stamp differs from the current generation is stale and must not be
// trusted. Rebuilding only touches reachable tiles, never the whole grid.
type HeuristicField struct {
	w, h       int
	values     []int32
	stamps     []uint32
	generation uint32
	queue      []int32
}

func NewHeuristicField(w, h int) *HeuristicField {
	return &HeuristicField{
		w:      w,
		h:      h,
		values: make([]int32, w*h),
		stamps: make([]uint32, w*h),
		queue:  make([]int32, 0, 256),
	}
}

// Generation returns the stamp of the most recent build.
func (f *HeuristicField) Generation() uint32 { return f.generation }

func (f *HeuristicField) nextGeneration() {
	f.generation++
	if f.generation == 0 {
		// wrapped: old stamps could alias new generations
		for i := range f.stamps {
			f.stamps[i] = 0
		}
		f.generation = 1
	}
}

// Build fills the field from start over navigable tiles inside region
// (4-neighbour steps, each one more than its parent). Returns the number of
// tiles stamped. A non-navigable or out-of-region start still advances the
// generation, leaving every tile stale.
func (f *HeuristicField) Build(g Grid, start geom.Point, region geom.Bounds) int {
	f.nextGeneration()
	region = region.Intersect(geom.B(0, 0, f.w, f.h))
	if !region.Contains(start) || !g.Navigable(start.X, start.Y) {
		return 0
	}

	gen := f.generation
	si := int32(start.Y*f.w + start.X)
	f.values[si] = 0
	f.stamps[si] = gen
	f.queue = append(f.queue[:0], si)
	visited := 1

	for head := 0; head < len(f.queue); head++ {
		ci := f.queue[head]
		cx, cy := int(ci)%f.w, int(ci)/f.w
		for d := 0; d < 8; d += 2 {
			n := geom.P(cx+dirX[d], cy+dirY[d])
			if !region.Contains(n) {
				continue
			}
			ni := int32(n.Y*f.w + n.X)
			if f.stamps[ni] == gen || !g.Navigable(n.X, n.Y) {
				continue
			}
			f.stamps[ni] = gen
			f.values[ni] = f.values[ci] + 1
			f.queue = append(f.queue, ni)
			visited++
		}
	}
	return visited
}

// At returns the distance stored for p and whether it is current.
func (f *HeuristicField) At(p geom.Point) (int, bool) {
	if !inGrid(f.w, f.h, p) {
		return 0, false
	}
	i := p.Y*f.w + p.X
	if f.generation == 0 || f.stamps[i] != f.generation {
		return 0, false
	}
	return int(f.values[i]), true
}

// Raw returns the stored value and stamp without validating them.
func (f *HeuristicField) Raw(p geom.Point) (value int, stamp uint32) {
	if !inGrid(f.w, f.h, p) {
		return 0, 0
	}
	i := p.Y*f.w + p.X
	return int(f.values[i]), f.stamps[i]
}
