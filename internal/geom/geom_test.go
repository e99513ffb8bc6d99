package geom

import (
	"math"
	"testing"
)

func TestBoundsIntersectEmpty(t *testing.T) {
	a := B(0, 0, 4, 4)
	b := B(4, 0, 8, 4)
	if got := a.Intersect(b); !got.Empty() {
		t.Fatalf("expected empty intersection, got %+v", got)
	}
	c := B(2, 2, 6, 6)
	if got := a.Intersect(c); got != B(2, 2, 4, 4) {
		t.Fatalf("expected (2,2)-(4,4), got %+v", got)
	}
}

func TestRotateQuarterTurn(t *testing.T) {
	v := V(1, 0).Rotate(V(0, 1))
	if math.Abs(v.X) > 1e-9 || math.Abs(v.Y-1) > 1e-9 {
		t.Fatalf("expected (0,1), got %+v", v)
	}
}

func TestRectIntersectsCircle(t *testing.T) {
	r := R(0, 0, 10, 10)
	if !r.IntersectsCircle(V(12, 5), 2.5) {
		t.Fatalf("expected circle touching right edge to intersect")
	}
	if r.IntersectsCircle(V(14, 5), 2) {
		t.Fatalf("expected distant circle not to intersect")
	}
}

func TestFloorDivNegative(t *testing.T) {
	if got := FloorDiv(-1, 16); got != -1 {
		t.Fatalf("expected -1, got %d", got)
	}
	if got := FloorDiv(31.9, 16); got != 1 {
		t.Fatalf("expected 1, got %d", got)
	}
}
