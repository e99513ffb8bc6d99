package pathfind

import (
	"fmt"

	"github.com/cobalthex/dyingandmore/internal/geom"
	"github.com/dgraph-io/ristretto/v2"
)

// CacheConfig sizes the path cache. NumCounters <= 0 disables caching.
type CacheConfig struct {
	NumCounters int64
	MaxCost     int64 // total tiles across cached paths
}

// Finder runs A* over one immutable grid and memoizes results by endpoint
// pair. The grid never changes after load, so cached paths never go stale.
type Finder struct {
	grid  Grid
	cache *ristretto.Cache[uint64, []geom.Point]
}

func NewFinder(g Grid, cfg CacheConfig) (*Finder, error) {
	f := &Finder{grid: g}
	if cfg.NumCounters <= 0 {
		return f, nil
	}
	maxCost := cfg.MaxCost
	if maxCost <= 0 {
		maxCost = 1 << 20
	}
	cache, err := ristretto.NewCache[uint64, []geom.Point](&ristretto.Config[uint64, []geom.Point]{
		NumCounters: cfg.NumCounters,
		MaxCost:     maxCost,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("path cache: %w", err)
	}
	f.cache = cache
	return f, nil
}

// pairKey packs both endpoints' tile indices. Endpoints outside the grid
// have no index and are never cached.
func (f *Finder) pairKey(a, b geom.Point) (uint64, bool) {
	w, h := f.grid.Size()
	if !inGrid(w, h, a) || !inGrid(w, h, b) {
		return 0, false
	}
	return uint64(a.Y*w+a.X)<<32 | uint64(b.Y*w+b.X), true
}

// FindPath returns a fresh copy of the path from start to goal.
func (f *Finder) FindPath(start, goal geom.Point) []geom.Point {
	if f.cache == nil {
		return FindPath(f.grid, start, goal)
	}
	key, ok := f.pairKey(start, goal)
	if !ok {
		return FindPath(f.grid, start, goal)
	}
	if cached, ok := f.cache.Get(key); ok {
		return append([]geom.Point(nil), cached...)
	}
	path := FindPath(f.grid, start, goal)
	f.cache.Set(key, append([]geom.Point(nil), path...), int64(len(path)))
	return path
}

// Wait blocks until pending cache writes are applied.
func (f *Finder) Wait() {
	if f.cache != nil {
		f.cache.Wait()
	}
}

func (f *Finder) Close() {
	if f.cache != nil {
		f.cache.Close()
	}
}
