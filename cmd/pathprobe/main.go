// pathprobe runs one A* query against a map and prints the result as YAML.
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/cobalthex/dyingandmore/internal/data"
	"github.com/cobalthex/dyingandmore/internal/geom"
	"github.com/cobalthex/dyingandmore/internal/pathfind"
	"gopkg.in/yaml.v3"
)

type step struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

type report struct {
	MapID     int    `yaml:"map_id"`
	From      step   `yaml:"from"`
	To        step   `yaml:"to"`
	Found     bool   `yaml:"found"`
	Cost      int    `yaml:"cost"`
	Estimate  int    `yaml:"estimate"` // octile distance
	Reachable int    `yaml:"reachable"`
	Path      []step `yaml:"path,omitempty"`
}

func main() {
	if len(os.Args) < 6 {
		fmt.Fprintln(os.Stderr, "Usage: pathprobe <map_list.yaml> <tile_dir> <map_id> <x,y> <x,y>")
		os.Exit(1)
	}

	mapID, err := strconv.Atoi(os.Args[3])
	if err != nil {
		fmt.Fprintf(os.Stderr, "bad map id %q\n", os.Args[3])
		os.Exit(1)
	}
	from, err := parsePoint(os.Args[4])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	to, err := parsePoint(os.Args[5])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	maps, err := data.LoadMapData(os.Args[1], os.Args[2])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	def := maps.Get(mapID)
	if def == nil {
		fmt.Fprintf(os.Stderr, "map %d not found\n", mapID)
		os.Exit(1)
	}

	path := pathfind.FindPath(def, from, to)

	// Flood from the start tile to report how much of the map it can reach.
	field := pathfind.NewHeuristicField(def.Width, def.Height)
	reach := field.Build(def, from, geom.B(0, 0, def.Width, def.Height))

	r := report{
		MapID:     mapID,
		From:      step{from.X, from.Y},
		To:        step{to.X, to.Y},
		Found:     path[len(path)-1] == to,
		Cost:      pathfind.PathCost(path),
		Estimate:  pathfind.Octile(from, to),
		Reachable: reach,
	}
	for _, p := range path {
		r.Path = append(r.Path, step{p.X, p.Y})
	}

	out, err := yaml.Marshal(&r)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	os.Stdout.Write(out)
}

func parsePoint(s string) (geom.Point, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return geom.Point{}, fmt.Errorf("bad point %q, want x,y", s)
	}
	x, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return geom.Point{}, fmt.Errorf("bad point %q: %w", s, err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return geom.Point{}, fmt.Errorf("bad point %q: %w", s, err)
	}
	return geom.P(x, y), nil
}
