package world

import (
	"github.com/cobalthex/dyingandmore/internal/geom"
	"github.com/cobalthex/dyingandmore/internal/pathfind"
)

// AStarBuildPath returns the tile path between two tiles. The result always
// holds at least the start tile.
func (m *Map) AStarBuildPath(start, goal geom.Point) []geom.Point {
	return m.paths.FindPath(start, goal)
}

// BuildHeuristic refreshes the map's shared heuristic field with a
// breadth-first fill from the tile under start, limited to the tiles
// covering region. Returns the number of tiles reached.
func (m *Map) BuildHeuristic(start geom.Vec2, region geom.Rect) int {
	return m.heuristic.Build(m.Def, m.Def.TileOf(start), m.Def.TileRect(region))
}

// HeuristicAt returns the step distance stored for a tile by the latest
// BuildHeuristic, or false when the tile was not reached by it.
func (m *Map) HeuristicAt(p geom.Point) (int, bool) {
	return m.heuristic.At(p)
}

// Heuristic exposes the shared field, mostly for tooling.
func (m *Map) Heuristic() *pathfind.HeuristicField { return m.heuristic }
