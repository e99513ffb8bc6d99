package pathfind

import "github.com/cobalthex/dyingandmore/internal/geom"

// Step costs: orthogonal 10, diagonal 14 (fixed-point sqrt(2)).
const (
	CostStraight = 10
	CostDiagonal = 14
)

// Octile is the admissible, consistent estimate for the 10/14 cost model.
func Octile(a, b geom.Point) int {
	dx := abs(a.X - b.X)
	dy := abs(a.Y - b.Y)
	if dx < dy {
		dx, dy = dy, dx
	}
	return CostDiagonal*dy + CostStraight*(dx-dy)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// PathCost sums the step costs along a path of adjacent tiles.
func PathCost(path []geom.Point) int {
	cost := 0
	for i := 1; i < len(path); i++ {
		if path[i].X != path[i-1].X && path[i].Y != path[i-1].Y {
			cost += CostDiagonal
		} else {
			cost += CostStraight
		}
	}
	return cost
}

// FindPath runs A* from start to goal and returns the tiles of the path,
// both endpoints included. A non-navigable endpoint or an unreachable goal
// yields a single-element path holding start.
//
// Diagonal steps are only taken when both orthogonal tiles of the corner are
// navigable. Open-set ties on f break toward the lower heuristic, then
// toward the earlier push, so results are reproducible.
func FindPath(g Grid, start, goal geom.Point) []geom.Point {
	if start == goal || !navigable(g, start) || !navigable(g, goal) {
		return []geom.Point{start}
	}
	w, _ := g.Size()
	key := func(p geom.Point) int32 { return int32(p.Y*w + p.X) }
	point := func(k int32) geom.Point { return geom.P(int(k)%w, int(k)/w) }

	startKey, goalKey := key(start), key(goal)
	gScore := map[int32]int32{startKey: 0}
	parent := make(map[int32]int32, 64)
	closed := make(map[int32]struct{}, 64)

	var open nodeHeap
	var seq uint64
	h0 := Octile(start, goal)
	open.push(node{key: startKey, f: int32(h0), h: int32(h0), seq: seq})

	for open.len() > 0 {
		cur := open.pop()
		if _, done := closed[cur.key]; done {
			continue
		}
		if cur.key == goalKey {
			return reconstruct(parent, startKey, goalKey, point)
		}
		closed[cur.key] = struct{}{}

		cp := point(cur.key)
		cg := gScore[cur.key]
		for d := 0; d < 8; d++ {
			np := geom.P(cp.X+dirX[d], cp.Y+dirY[d])
			if !navigable(g, np) {
				continue
			}
			step := int32(CostStraight)
			if dirX[d] != 0 && dirY[d] != 0 {
				if !navigable(g, geom.P(cp.X+dirX[d], cp.Y)) || !navigable(g, geom.P(cp.X, cp.Y+dirY[d])) {
					continue
				}
				step = CostDiagonal
			}
			nk := key(np)
			if _, done := closed[nk]; done {
				continue
			}
			ng := cg + step
			if old, seen := gScore[nk]; seen && ng >= old {
				continue
			}
			gScore[nk] = ng
			parent[nk] = cur.key
			h := int32(Octile(np, goal))
			seq++
			open.push(node{key: nk, f: ng + h, h: h, seq: seq})
		}
	}
	return []geom.Point{start}
}

func reconstruct(parent map[int32]int32, startKey, goalKey int32, point func(int32) geom.Point) []geom.Point {
	var rev []geom.Point
	for k := goalKey; ; k = parent[k] {
		rev = append(rev, point(k))
		if k == startKey {
			break
		}
	}
	path := make([]geom.Point, len(rev))
	for i, p := range rev {
		path[len(rev)-1-i] = p
	}
	return path
}

type node struct {
	key  int32
	f, h int32
	seq  uint64
}

func (a node) less(b node) bool {
	if a.f != b.f {
		return a.f < b.f
	}
	if a.h != b.h {
		return a.h < b.h
	}
	return a.seq < b.seq
}

// nodeHeap is a binary min-heap of open nodes.
type nodeHeap []node

func (h nodeHeap) len() int { return len(h) }

func (h *nodeHeap) push(n node) {
	*h = append(*h, n)
	i := len(*h) - 1
	for i > 0 {
		parent := (i - 1) / 2
		if !(*h)[i].less((*h)[parent]) {
			break
		}
		(*h)[parent], (*h)[i] = (*h)[i], (*h)[parent]
		i = parent
	}
}

func (h *nodeHeap) pop() node {
	old := *h
	n := len(old)
	top := old[0]
	old[0] = old[n-1]
	*h = old[:n-1]

	i := 0
	for {
		left := 2*i + 1
		if left >= len(*h) {
			break
		}
		smallest := left
		if right := left + 1; right < len(*h) && (*h)[right].less((*h)[left]) {
			smallest = right
		}
		if !(*h)[smallest].less((*h)[i]) {
			break
		}
		(*h)[i], (*h)[smallest] = (*h)[smallest], (*h)[i]
		i = smallest
	}
	return top
}
