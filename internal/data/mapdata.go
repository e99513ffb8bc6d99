package data

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cobalthex/dyingandmore/internal/geom"
	"gopkg.in/yaml.v3"
)

// NoTile marks an empty, unwalkable grid cell.
const NoTile int16 = -1

// MapInfo holds metadata for a single map, loaded from map_list.yaml.
type MapInfo struct {
	MapID    int        `yaml:"map_id"`
	Name     string     `yaml:"name"`
	Width    int        `yaml:"width"`  // tiles
	Height   int        `yaml:"height"` // tiles
	TileSize int        `yaml:"tile_size"`
	Masks    []TileMask `yaml:"masks"`
}

// TileMask describes the solid pixels of one tile ID as a coarse pattern
// of rows ('#' = solid) stretched over the tile.
type TileMask struct {
	Tile int16    `yaml:"tile"`
	Rows []string `yaml:"rows"`
}

// MapDef is the static, immutable-after-load definition of a map.
type MapDef struct {
	Info     MapInfo
	Width    int
	Height   int
	TileSize int
	Tiles    []int16 // row-major: Tiles[y*Width+x]
	Mask     *CollisionMask
}

type mapListFile struct {
	Maps []MapInfo `yaml:"maps"`
}

// MapDataTable indexes loaded maps by ID.
type MapDataTable struct {
	maps map[int]*MapDef
}

// NewMapDef validates the tile grid and builds the collision mask.
func NewMapDef(info MapInfo, tiles []int16) (*MapDef, error) {
	if info.Width <= 0 || info.Height <= 0 {
		return nil, fmt.Errorf("map %d: invalid size %dx%d", info.MapID, info.Width, info.Height)
	}
	if info.TileSize <= 0 {
		return nil, fmt.Errorf("map %d: invalid tile size %d", info.MapID, info.TileSize)
	}
	if len(tiles) != info.Width*info.Height {
		return nil, fmt.Errorf("map %d: expected %d tiles, got %d", info.MapID, info.Width*info.Height, len(tiles))
	}

	maxTile := int16(0)
	for _, t := range tiles {
		if t > maxTile {
			maxTile = t
		}
	}
	for _, m := range info.Masks {
		if m.Tile > maxTile {
			maxTile = m.Tile
		}
	}
	mask := NewCollisionMask(int(maxTile)+1, info.TileSize)
	for _, m := range info.Masks {
		mask.SetPattern(m.Tile, m.Rows)
	}

	return &MapDef{
		Info:     info,
		Width:    info.Width,
		Height:   info.Height,
		TileSize: info.TileSize,
		Tiles:    tiles,
		Mask:     mask,
	}, nil
}

// LoadMapData loads map metadata from YAML and tile data from text files.
// yamlPath: path to map_list.yaml
// tileDir: directory containing {mapid}.txt tile files
func LoadMapData(yamlPath, tileDir string) (*MapDataTable, error) {
	raw, err := os.ReadFile(yamlPath)
	if err != nil {
		return nil, fmt.Errorf("read map list %s: %w", yamlPath, err)
	}
	var file mapListFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse map list: %w", err)
	}

	table := &MapDataTable{maps: make(map[int]*MapDef, len(file.Maps))}
	for _, info := range file.Maps {
		tiles, err := loadTileFile(tileDir, info.MapID, info.Width, info.Height)
		if err != nil {
			return nil, fmt.Errorf("load tiles for map %d: %w", info.MapID, err)
		}
		def, err := NewMapDef(info, tiles)
		if err != nil {
			return nil, err
		}
		table.maps[info.MapID] = def
	}
	return table, nil
}

// loadTileFile reads a CSV tile file: one line per row (Y), comma-separated
// tile IDs per column (X). Missing cells default to NoTile.
func loadTileFile(dir string, mapID, width, height int) ([]int16, error) {
	path := filepath.Join(dir, strconv.Itoa(mapID)+".txt")
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tiles := make([]int16, width*height)
	for i := range tiles {
		tiles[i] = NoTile
	}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	y := 0
	for scanner.Scan() && y < height {
		line := strings.TrimSpace(scanner.Text())
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		x := 0
		for _, tok := range strings.Split(line, ",") {
			if x >= width {
				break
			}
			val, err := strconv.ParseInt(strings.TrimSpace(tok), 10, 16)
			if err != nil {
				val = int64(NoTile)
			}
			tiles[y*width+x] = int16(val)
			x++
		}
		y++
	}
	return tiles, scanner.Err()
}

// Count returns the number of maps loaded.
func (t *MapDataTable) Count() int {
	return len(t.maps)
}

// Get returns the map definition, or nil if not found.
func (t *MapDataTable) Get(mapID int) *MapDef {
	return t.maps[mapID]
}

// TileBounds is the tile rectangle (0,0)-(Width,Height).
func (m *MapDef) TileBounds() geom.Bounds {
	return geom.B(0, 0, m.Width, m.Height)
}

// PixelBounds is the map extent in world units.
func (m *MapDef) PixelBounds() geom.Rect {
	ts := float64(m.TileSize)
	return geom.R(0, 0, float64(m.Width)*ts, float64(m.Height)*ts)
}

func (m *MapDef) InBounds(p geom.Point) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < m.Width && p.Y < m.Height
}

// TileAt returns the tile ID at a tile coordinate, or NoTile out of bounds.
func (m *MapDef) TileAt(p geom.Point) int16 {
	if !m.InBounds(p) {
		return NoTile
	}
	return m.Tiles[p.Y*m.Width+p.X]
}

// Navigable reports whether a tile can be walked by the pathfinder.
func (m *MapDef) Navigable(x, y int) bool {
	return m.TileAt(geom.P(x, y)) >= 0
}

func (m *MapDef) Size() (int, int) { return m.Width, m.Height }

// TileOf returns the tile covering a world position (unclamped).
func (m *MapDef) TileOf(pos geom.Vec2) geom.Point {
	ts := float64(m.TileSize)
	return geom.P(geom.FloorDiv(pos.X, ts), geom.FloorDiv(pos.Y, ts))
}

// TileRect returns the tiles covering a world rectangle, clamped to the map.
func (m *MapDef) TileRect(r geom.Rect) geom.Bounds {
	ts := float64(m.TileSize)
	b := geom.B(
		geom.FloorDiv(r.Min.X, ts),
		geom.FloorDiv(r.Min.Y, ts),
		int(math.Ceil(r.Max.X/ts)),
		int(math.Ceil(r.Max.Y/ts)),
	)
	return b.Intersect(m.TileBounds())
}

// TileCenter returns the world position of a tile's center.
func (m *MapDef) TileCenter(p geom.Point) geom.Vec2 {
	ts := float64(m.TileSize)
	return geom.V((float64(p.X)+0.5)*ts, (float64(p.Y)+0.5)*ts)
}

// Blocked reports whether a world position collides with the map: outside
// the grid, on a NoTile cell, or on a solid pixel of the tile's mask.
func (m *MapDef) Blocked(pos geom.Vec2) (geom.Point, bool) {
	tile := m.TileOf(pos)
	id := m.TileAt(tile)
	if id < 0 {
		return tile, true
	}
	ts := float64(m.TileSize)
	px := int(pos.X - float64(tile.X)*ts)
	py := int(pos.Y - float64(tile.Y)*ts)
	return tile, m.Mask.Solid(id, px, py)
}
