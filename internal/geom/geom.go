package geom

import "math"

// Vec2 is a world-space vector in pixels.
type Vec2 struct {
	X, Y float64
}

func V(x, y float64) Vec2 { return Vec2{X: x, Y: y} }

func (v Vec2) Add(o Vec2) Vec2       { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2       { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Scale(s float64) Vec2  { return Vec2{v.X * s, v.Y * s} }
func (v Vec2) Dot(o Vec2) float64    { return v.X*o.X + v.Y*o.Y }
func (v Vec2) LenSq() float64        { return v.X*v.X + v.Y*v.Y }
func (v Vec2) Len() float64          { return math.Sqrt(v.LenSq()) }
func (v Vec2) IsZero() bool          { return v.X == 0 && v.Y == 0 }
func (v Vec2) Dist(o Vec2) float64   { return v.Sub(o).Len() }
func (v Vec2) DistSq(o Vec2) float64 { return v.Sub(o).LenSq() }

// Normalize returns the unit vector, or zero for a zero vector.
func (v Vec2) Normalize() Vec2 {
	l := v.Len()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{v.X / l, v.Y / l}
}

// Rotate rotates v by the angle of the unit direction dir. A zero dir
// leaves v unchanged.
func (v Vec2) Rotate(dir Vec2) Vec2 {
	d := dir.Normalize()
	if d.IsZero() {
		return v
	}
	return Vec2{v.X*d.X - v.Y*d.Y, v.X*d.Y + v.Y*d.X}
}

// FromAngle returns the unit vector for an angle in radians.
func FromAngle(rad float64) Vec2 {
	return Vec2{math.Cos(rad), math.Sin(rad)}
}

// Angle returns the direction of v in radians.
func (v Vec2) Angle() float64 {
	return math.Atan2(v.Y, v.X)
}

// Point is an integer grid coordinate (tile or sector).
type Point struct {
	X, Y int
}

func P(x, y int) Point { return Point{X: x, Y: y} }

func (p Point) Add(o Point) Point { return Point{p.X + o.X, p.Y + o.Y} }

// Rect is an axis-aligned world rectangle. Max is exclusive.
type Rect struct {
	Min, Max Vec2
}

func R(x0, y0, x1, y1 float64) Rect {
	return Rect{Min: Vec2{x0, y0}, Max: Vec2{x1, y1}}
}

// RectAround returns the rectangle centered on c with the given half extents.
func RectAround(c Vec2, halfW, halfH float64) Rect {
	return Rect{Min: Vec2{c.X - halfW, c.Y - halfH}, Max: Vec2{c.X + halfW, c.Y + halfH}}
}

func (r Rect) Width() float64  { return r.Max.X - r.Min.X }
func (r Rect) Height() float64 { return r.Max.Y - r.Min.Y }
func (r Rect) Empty() bool     { return r.Max.X <= r.Min.X || r.Max.Y <= r.Min.Y }
func (r Rect) Center() Vec2    { return Vec2{(r.Min.X + r.Max.X) / 2, (r.Min.Y + r.Max.Y) / 2} }

func (r Rect) Contains(v Vec2) bool {
	return v.X >= r.Min.X && v.X < r.Max.X && v.Y >= r.Min.Y && v.Y < r.Max.Y
}

// Intersects reports whether the two rectangles share any area.
func (r Rect) Intersects(o Rect) bool {
	return r.Min.X < o.Max.X && o.Min.X < r.Max.X &&
		r.Min.Y < o.Max.Y && o.Min.Y < r.Max.Y
}

// IntersectsCircle reports whether a circle touches the rectangle.
func (r Rect) IntersectsCircle(c Vec2, radius float64) bool {
	nx := math.Max(r.Min.X, math.Min(c.X, r.Max.X))
	ny := math.Max(r.Min.Y, math.Min(c.Y, r.Max.Y))
	return c.DistSq(Vec2{nx, ny}) <= radius*radius
}

func (r Rect) Inflate(dx, dy float64) Rect {
	return Rect{Min: Vec2{r.Min.X - dx, r.Min.Y - dy}, Max: Vec2{r.Max.X + dx, r.Max.Y + dy}}
}

// Bounds is a half-open integer rectangle [Min, Max) over grid coordinates.
type Bounds struct {
	Min, Max Point
}

func B(x0, y0, x1, y1 int) Bounds {
	return Bounds{Min: Point{x0, y0}, Max: Point{x1, y1}}
}

func (b Bounds) Width() int  { return b.Max.X - b.Min.X }
func (b Bounds) Height() int { return b.Max.Y - b.Min.Y }
func (b Bounds) Empty() bool { return b.Max.X <= b.Min.X || b.Max.Y <= b.Min.Y }

func (b Bounds) Contains(p Point) bool {
	return p.X >= b.Min.X && p.X < b.Max.X && p.Y >= b.Min.Y && p.Y < b.Max.Y
}

// Inflate grows the bounds by n cells on every side.
func (b Bounds) Inflate(n int) Bounds {
	return Bounds{Min: Point{b.Min.X - n, b.Min.Y - n}, Max: Point{b.Max.X + n, b.Max.Y + n}}
}

// Intersect clips b to o. The result may be empty.
func (b Bounds) Intersect(o Bounds) Bounds {
	r := Bounds{
		Min: Point{max(b.Min.X, o.Min.X), max(b.Min.Y, o.Min.Y)},
		Max: Point{min(b.Max.X, o.Max.X), min(b.Max.Y, o.Max.Y)},
	}
	if r.Empty() {
		return Bounds{}
	}
	return r
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// FloorDiv divides rounding toward negative infinity.
func FloorDiv(v float64, size float64) int {
	return int(math.Floor(v / size))
}
