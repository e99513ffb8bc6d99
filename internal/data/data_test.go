package data

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cobalthex/dyingandmore/internal/geom"
)

func TestLoadMapDataParsesTilesAndMasks(t *testing.T) {
	dir := t.TempDir()
	list := `
maps:
  - map_id: 3
    name: cellar
    width: 3
    height: 2
    tile_size: 16
    masks:
      - tile: 1
        rows: ["#.", ".."]
`
	if err := os.WriteFile(filepath.Join(dir, "map_list.yaml"), []byte(list), 0o644); err != nil {
		t.Fatalf("write list: %v", err)
	}
	tiles := "# comment\n0,1,-1\n0,0\n"
	if err := os.WriteFile(filepath.Join(dir, "3.txt"), []byte(tiles), 0o644); err != nil {
		t.Fatalf("write tiles: %v", err)
	}

	table, err := LoadMapData(filepath.Join(dir, "map_list.yaml"), dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	m := table.Get(3)
	if m == nil {
		t.Fatalf("expected map 3")
	}
	if m.TileAt(geom.P(2, 0)) != NoTile {
		t.Fatalf("expected no tile at (2,0), got %d", m.TileAt(geom.P(2, 0)))
	}
	if m.TileAt(geom.P(2, 1)) != NoTile {
		t.Fatalf("expected short row padded with no tile")
	}
	if !m.Navigable(0, 1) || m.Navigable(5, 5) {
		t.Fatalf("unexpected navigability")
	}

	// tile 1 at (1,0): top-left quarter is solid
	if _, blocked := m.Blocked(geom.V(16+2, 2)); !blocked {
		t.Fatalf("expected solid pixel in masked quarter")
	}
	if _, blocked := m.Blocked(geom.V(16+12, 12)); blocked {
		t.Fatalf("expected open pixel outside masked quarter")
	}
	if _, blocked := m.Blocked(geom.V(-1, 4)); !blocked {
		t.Fatalf("expected out of map to be blocked")
	}
}

func TestNewMapDefRejectsShortGrid(t *testing.T) {
	if _, err := NewMapDef(MapInfo{Width: 2, Height: 2, TileSize: 8}, []int16{0, 0, 0}); err == nil {
		t.Fatalf("expected size mismatch error")
	}
}

func TestCurveEval(t *testing.T) {
	c := Curve{{T: 0, V: 100}, {T: 0.5, V: 50}, {T: 1, V: 0}}
	if got := c.Eval(0.25, -1); got != 75 {
		t.Fatalf("expected 75, got %v", got)
	}
	if got := c.Eval(2, -1); got != 0 {
		t.Fatalf("expected clamp to 0, got %v", got)
	}
	if got := Curve(nil).Eval(0.3, 9); got != 9 {
		t.Fatalf("expected default 9, got %v", got)
	}

	cc := ColorCurve{{T: 0, RGBA: [4]uint8{0, 0, 0, 255}}, {T: 1, RGBA: [4]uint8{200, 100, 0, 255}}}
	mid := cc.Eval(0.5)
	if mid.R != 100 || mid.G != 50 || mid.A != 255 {
		t.Fatalf("expected (100,50,0,255), got %+v", mid)
	}
}

func TestLoadClassTableKinds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "classes.yaml")
	body := `
entities:
  - name: grunt
    radius: 10
    physical: true
    states:
      - {name: idle, looping: true}
      - {name: dying, duration: 250ms}
fluids:
  - {name: blood, drag: 1.0, radius: 2}
particles:
  - name: spark
    lifetime: 400ms
effects:
  - {name: sparks, particle: spark, count: 4}
sounds:
  - {name: zap, volume: 0.5}
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	ct, err := LoadClassTable(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if ct.Kind("grunt") != KindEntity || ct.Kind("blood") != KindFluid ||
		ct.Kind("sparks") != KindEffect || ct.Kind("zap") != KindSound || ct.Kind("nope") != KindUnknown {
		t.Fatalf("unexpected kinds")
	}
	var dying *StateDef
	for i, st := range ct.Entity("grunt").States {
		if st.Name == "dying" {
			dying = &ct.Entity("grunt").States[i]
		}
	}
	if dying == nil || dying.Duration != 250*time.Millisecond {
		t.Fatalf("expected dying state of 250ms, got %+v", dying)
	}
	if ct.Particle("spark").Lifetime != 400*time.Millisecond {
		t.Fatalf("expected spark lifetime 400ms")
	}
}
