package data

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ClassKind tells Map.Spawn which kind of instance a class name produces.
type ClassKind int

const (
	KindUnknown ClassKind = iota
	KindEntity
	KindFluid
	KindEffect
	KindDecal
	KindSound
)

func (k ClassKind) String() string {
	switch k {
	case KindEntity:
		return "entity"
	case KindFluid:
		return "fluid"
	case KindEffect:
		return "effect"
	case KindDecal:
		return "decal"
	case KindSound:
		return "sound"
	}
	return "unknown"
}

// StateDef is a named animation/behavior state.
type StateDef struct {
	Name     string        `yaml:"name"`
	Looping  bool          `yaml:"looping"`
	Overlay  bool          `yaml:"overlay"`
	Duration time.Duration `yaml:"duration"`
}

// EntityClass holds static data for an entity type loaded from YAML.
type EntityClass struct {
	Name           string            `yaml:"name"`
	Radius         float64           `yaml:"radius"`
	Physical       bool              `yaml:"physical"`
	AlwaysActive   bool              `yaml:"always_active"`
	AI             bool              `yaml:"ai"`
	DestroyOnDeath bool              `yaml:"destroy_on_death"`
	Behavior       string            `yaml:"behavior"` // script table name, empty = none
	Material       string            `yaml:"material"`
	InitialState   string            `yaml:"initial_state"`
	DeathState     string            `yaml:"death_state"`
	States         []StateDef        `yaml:"states"`
	Transitions    map[string]string `yaml:"transitions"`
	SpawnEffect    string            `yaml:"spawn_effect"`
	DeathEffect    string            `yaml:"death_effect"`
}

// FluidClass is an ambient fluid particle type.
type FluidClass struct {
	Name   string   `yaml:"name"`
	Drag   float64  `yaml:"drag"`
	Radius float64  `yaml:"radius"`
	Color  [4]uint8 `yaml:"color"`
}

// ParticleClass defines a particle's lifetime and interpolation curves.
type ParticleClass struct {
	Name     string        `yaml:"name"`
	Lifetime time.Duration `yaml:"lifetime"`
	Color    ColorCurve    `yaml:"color"`
	Speed    Curve         `yaml:"speed"`
	Scale    Curve         `yaml:"scale"`
}

// EffectClass emits a burst of particles and optionally a sound.
type EffectClass struct {
	Name     string        `yaml:"name"`
	Particle string        `yaml:"particle"`
	Count    int           `yaml:"count"`
	Spread   float64       `yaml:"spread"` // radians around forward
	MaxDelay time.Duration `yaml:"max_delay"`
	Sound    string        `yaml:"sound"`
}

// DecalClass is a static decoration stamped into a sector.
type DecalClass struct {
	Name   string  `yaml:"name"`
	Radius float64 `yaml:"radius"`
}

// SoundClass names a sound the audio collaborator plays.
type SoundClass struct {
	Name   string  `yaml:"name"`
	Volume float64 `yaml:"volume"`
}

type classFile struct {
	Entities  []EntityClass   `yaml:"entities"`
	Fluids    []FluidClass    `yaml:"fluids"`
	Particles []ParticleClass `yaml:"particles"`
	Effects   []EffectClass   `yaml:"effects"`
	Decals    []DecalClass    `yaml:"decals"`
	Sounds    []SoundClass    `yaml:"sounds"`
}

// ClassTable holds all object classes indexed by name. Read-only during
// simulation.
type ClassTable struct {
	entities  map[string]*EntityClass
	fluids    map[string]*FluidClass
	particles map[string]*ParticleClass
	effects   map[string]*EffectClass
	decals    map[string]*DecalClass
	sounds    map[string]*SoundClass
}

func NewClassTable() *ClassTable {
	return &ClassTable{
		entities:  make(map[string]*EntityClass),
		fluids:    make(map[string]*FluidClass),
		particles: make(map[string]*ParticleClass),
		effects:   make(map[string]*EffectClass),
		decals:    make(map[string]*DecalClass),
		sounds:    make(map[string]*SoundClass),
	}
}

// LoadClassTable loads every class kind from one YAML file.
func LoadClassTable(path string) (*ClassTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read classes: %w", err)
	}
	var f classFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse classes: %w", err)
	}
	t := NewClassTable()
	for i := range f.Entities {
		t.AddEntity(&f.Entities[i])
	}
	for i := range f.Fluids {
		t.AddFluid(&f.Fluids[i])
	}
	for i := range f.Particles {
		t.AddParticle(&f.Particles[i])
	}
	for i := range f.Effects {
		t.AddEffect(&f.Effects[i])
	}
	for i := range f.Decals {
		t.AddDecal(&f.Decals[i])
	}
	for i := range f.Sounds {
		t.AddSound(&f.Sounds[i])
	}
	return t, nil
}

func (t *ClassTable) AddEntity(c *EntityClass)     { t.entities[c.Name] = c }
func (t *ClassTable) AddFluid(c *FluidClass)       { t.fluids[c.Name] = c }
func (t *ClassTable) AddParticle(c *ParticleClass) { t.particles[c.Name] = c }
func (t *ClassTable) AddEffect(c *EffectClass)     { t.effects[c.Name] = c }
func (t *ClassTable) AddDecal(c *DecalClass)       { t.decals[c.Name] = c }
func (t *ClassTable) AddSound(c *SoundClass)       { t.sounds[c.Name] = c }

func (t *ClassTable) Entity(name string) *EntityClass     { return t.entities[name] }
func (t *ClassTable) Fluid(name string) *FluidClass       { return t.fluids[name] }
func (t *ClassTable) Particle(name string) *ParticleClass { return t.particles[name] }
func (t *ClassTable) Effect(name string) *EffectClass     { return t.effects[name] }
func (t *ClassTable) Decal(name string) *DecalClass       { return t.decals[name] }
func (t *ClassTable) Sound(name string) *SoundClass       { return t.sounds[name] }

// Kind reports which kind of class a name refers to. Entity classes win
// on name clashes.
func (t *ClassTable) Kind(name string) ClassKind {
	switch {
	case t.entities[name] != nil:
		return KindEntity
	case t.fluids[name] != nil:
		return KindFluid
	case t.effects[name] != nil:
		return KindEffect
	case t.decals[name] != nil:
		return KindDecal
	case t.sounds[name] != nil:
		return KindSound
	}
	return KindUnknown
}

// Count returns the total number of classes.
func (t *ClassTable) Count() int {
	return len(t.entities) + len(t.fluids) + len(t.particles) +
		len(t.effects) + len(t.decals) + len(t.sounds)
}
