package data

// CollisionMask is a per-pixel solidity bitset for every tile ID, so a tile
// collision test is one index computation and a bit test.
type CollisionMask struct {
	tileSize int
	tiles    int
	bits     []uint64
}

func NewCollisionMask(tileCount, tileSize int) *CollisionMask {
	n := tileCount * tileSize * tileSize
	return &CollisionMask{
		tileSize: tileSize,
		tiles:    tileCount,
		bits:     make([]uint64, (n+63)/64),
	}
}

func (c *CollisionMask) index(tile int16, px, py int) (int, bool) {
	if c == nil || tile < 0 || int(tile) >= c.tiles {
		return 0, false
	}
	if px < 0 || py < 0 || px >= c.tileSize || py >= c.tileSize {
		return 0, false
	}
	return (int(tile)*c.tileSize+py)*c.tileSize + px, true
}

// Set marks one pixel of a tile solid.
func (c *CollisionMask) Set(tile int16, px, py int) {
	if i, ok := c.index(tile, px, py); ok {
		c.bits[i>>6] |= 1 << (uint(i) & 63)
	}
}

// Solid reports whether the pixel is solid. Unknown tiles are open.
func (c *CollisionMask) Solid(tile int16, px, py int) bool {
	i, ok := c.index(tile, px, py)
	if !ok {
		return false
	}
	return c.bits[i>>6]&(1<<(uint(i)&63)) != 0
}

// SetFunc fills a tile's mask from a per-pixel predicate, e.g. an alpha
// threshold over the tile art.
func (c *CollisionMask) SetFunc(tile int16, solid func(px, py int) bool) {
	for py := 0; py < c.tileSize; py++ {
		for px := 0; px < c.tileSize; px++ {
			if solid(px, py) {
				c.Set(tile, px, py)
			}
		}
	}
}

// SetPattern stretches a row pattern ('#' = solid) over the tile.
func (c *CollisionMask) SetPattern(tile int16, rows []string) {
	if len(rows) == 0 {
		return
	}
	c.SetFunc(tile, func(px, py int) bool {
		row := rows[py*len(rows)/c.tileSize]
		if len(row) == 0 {
			return false
		}
		return row[px*len(row)/c.tileSize] == '#'
	})
}
