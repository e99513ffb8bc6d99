// Package pathfind answers reachability and shortest-path queries over a
// tile grid: a generation-stamped breadth-first heuristic field and an
// 8-directional A* search.
package pathfind

import "github.com/cobalthex/dyingandmore/internal/geom"

// Grid is the navigability view of a map the searches read.
type Grid interface {
	Size() (w, h int)
	Navigable(x, y int) bool
}

// Direction tables, clockwise from north: N, NE, E, SE, S, SW, W, NW.
var (
	dirX = [8]int{0, 1, 1, 1, 0, -1, -1, -1}
	dirY = [8]int{-1, -1, 0, 1, 1, 1, 0, -1}
)

func inGrid(w, h int, p geom.Point) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < w && p.Y < h
}

func navigable(g Grid, p geom.Point) bool {
	w, h := g.Size()
	return inGrid(w, h, p) && g.Navigable(p.X, p.Y)
}
