package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SpawnEntry places one object when the map is instantiated.
type SpawnEntry struct {
	Class string  `yaml:"class"`
	Name  string  `yaml:"name"`
	X     float64 `yaml:"x"`
	Y     float64 `yaml:"y"`
	VX    float64 `yaml:"vx"`
	VY    float64 `yaml:"vy"`
	FX    float64 `yaml:"fx"`
	FY    float64 `yaml:"fy"`
	// Parent names an earlier spawn this one is attached to.
	Parent string `yaml:"parent"`
}

// CommandDef is one trigger command. Kind selects a built-in command or
// "script" for a Lua function.
type CommandDef struct {
	Kind   string  `yaml:"kind"`
	Target string  `yaml:"target"` // entity name; empty = entering entity
	Arg    string  `yaml:"arg"`
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Flag   bool    `yaml:"flag"`
}

// TriggerDef is a trigger volume placed on the map.
type TriggerDef struct {
	Name     string       `yaml:"name"`
	X        float64      `yaml:"x"`
	Y        float64      `yaml:"y"`
	Width    float64      `yaml:"width"`
	Height   float64      `yaml:"height"`
	MaxUses  int          `yaml:"max_uses"`
	Classes  []string     `yaml:"classes"` // filter; empty = any entity
	Commands []CommandDef `yaml:"commands"`
	Effects  []string     `yaml:"effects"`
}

// SpawnList is the initial population of one map.
type SpawnList struct {
	MapID    int          `yaml:"map_id"`
	Spawns   []SpawnEntry `yaml:"spawns"`
	Triggers []TriggerDef `yaml:"triggers"`
}

type spawnListFile struct {
	Maps []SpawnList `yaml:"maps"`
}

// LoadSpawnList returns the spawn list for mapID. A map with no entry gets
// an empty list.
func LoadSpawnList(path string, mapID int) (*SpawnList, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read spawn_list: %w", err)
	}
	var f spawnListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse spawn_list: %w", err)
	}
	for i := range f.Maps {
		if f.Maps[i].MapID == mapID {
			return &f.Maps[i], nil
		}
	}
	return &SpawnList{MapID: mapID}, nil
}
