package world

import (
	"fmt"

	"github.com/cobalthex/dyingandmore/internal/core/event"
	"github.com/cobalthex/dyingandmore/internal/data"
	"github.com/cobalthex/dyingandmore/internal/geom"
)

// Command is run by a trigger when an entity enters it. Map commands
// receive the entering entity as instigator.
type Command interface {
	Run(m *Map, e *Entity)
}

// EntityCommand is a Command aimed at one entity. An empty Target means
// the entering entity; a name that resolves to nothing skips the command.
type EntityCommand interface {
	Command
	Target() string
}

// CommandFunc adapts a function to a map Command.
type CommandFunc func(m *Map, e *Entity)

func (f CommandFunc) Run(m *Map, e *Entity) { f(m, e) }

// DestroyTarget destroys its target.
type DestroyTarget struct{ Name string }

func (c DestroyTarget) Target() string        { return c.Name }
func (c DestroyTarget) Run(m *Map, e *Entity) { m.Destroy(e) }

// SetEnabled enables or disables its target.
type SetEnabled struct {
	Name    string
	Enabled bool
}

func (c SetEnabled) Target() string        { return c.Name }
func (c SetEnabled) Run(_ *Map, e *Entity) { e.Enabled = c.Enabled }

// SpawnAt spawns a class at a fixed position, or at the instigator when
// AtInstigator is set.
type SpawnAt struct {
	Class        string
	Position     geom.Vec2
	Name         string
	AtInstigator bool
}

func (c SpawnAt) Run(m *Map, e *Entity) {
	pos, fwd := c.Position, geom.Vec2{}
	if c.AtInstigator && e != nil {
		pos, fwd = e.Position, e.Forward
	}
	m.Spawn(c.Class, pos, fwd, geom.Vec2{}, c.Name)
}

// PlaySound requests a sound at the instigator's position.
type PlaySound struct{ Sound string }

func (c PlaySound) Run(m *Map, e *Entity) {
	var pos geom.Vec2
	if e != nil {
		pos = e.Position
	}
	m.SpawnSound(m.Classes.Sound(c.Sound), pos)
}

// SetTriggerEnabled switches another trigger on or off by name.
type SetTriggerEnabled struct {
	Trigger string
	Enabled bool
}

func (c SetTriggerEnabled) Run(m *Map, _ *Entity) {
	if t := m.FindTrigger(c.Trigger); t != nil {
		t.Enabled = c.Enabled
	}
}

// CommandResolver builds commands for kinds the world does not know, such
// as scripted ones. ok=false means the kind is unknown to the resolver too.
type CommandResolver func(def data.CommandDef) (cmd Command, ok bool)

// BuildCommand turns a command definition into a Command.
func BuildCommand(def data.CommandDef, resolve CommandResolver) (Command, error) {
	switch def.Kind {
	case "destroy":
		return DestroyTarget{Name: def.Target}, nil
	case "enable":
		return SetEnabled{Name: def.Target, Enabled: def.Flag}, nil
	case "spawn":
		return SpawnAt{Class: def.Arg, Position: geom.V(def.X, def.Y), Name: def.Target, AtInstigator: def.Flag}, nil
	case "sound":
		return PlaySound{Sound: def.Arg}, nil
	case "trigger":
		return SetTriggerEnabled{Trigger: def.Target, Enabled: def.Flag}, nil
	}
	if resolve != nil {
		if cmd, ok := resolve(def); ok {
			return cmd, nil
		}
	}
	return nil, fmt.Errorf("unknown command kind %q", def.Kind)
}

// Trigger fires its commands when an entity enters its region.
// Containment is tracked once per trigger even though the trigger is
// registered in every sector its region overlaps.
type Trigger struct {
	Name     string
	Region   geom.Rect
	Filter   func(*Entity) bool // nil accepts everything
	Commands []Command
	Effects  []string
	MaxUses  int // 0 = unlimited
	Enabled  bool

	uses      int
	contained idSet
}

// NewTrigger returns an enabled, unlimited trigger over region.
func NewTrigger(name string, region geom.Rect) *Trigger {
	return &Trigger{Name: name, Region: region, Enabled: true, contained: newIDSet()}
}

// BuildTrigger builds a trigger from its definition. A class list becomes
// the filter.
func BuildTrigger(def data.TriggerDef, resolve CommandResolver) (*Trigger, error) {
	t := NewTrigger(def.Name, geom.R(def.X, def.Y, def.X+def.Width, def.Y+def.Height))
	t.MaxUses = def.MaxUses
	t.Effects = append(t.Effects, def.Effects...)
	if len(def.Classes) > 0 {
		allowed := make(map[string]struct{}, len(def.Classes))
		for _, c := range def.Classes {
			allowed[c] = struct{}{}
		}
		t.Filter = func(e *Entity) bool {
			_, ok := allowed[e.ClassName()]
			return ok
		}
	}
	for i, cd := range def.Commands {
		cmd, err := BuildCommand(cd, resolve)
		if err != nil {
			return nil, fmt.Errorf("trigger %q command %d: %w", def.Name, i, err)
		}
		t.Commands = append(t.Commands, cmd)
	}
	return t, nil
}

func (t *Trigger) Uses() int { return t.uses }

// Exhausted reports whether the trigger has used up MaxUses.
func (t *Trigger) Exhausted() bool {
	return t.MaxUses > 0 && t.uses >= t.MaxUses
}

func (t *Trigger) Contains(e *Entity) bool {
	return e != nil && t.contained.Has(e.ID)
}

// TryEnter records e as inside the trigger and fires it. Entering twice
// without an exit in between does nothing the second time.
func (t *Trigger) TryEnter(m *Map, e *Entity) bool {
	if e == nil || !t.Enabled || t.Exhausted() || t.contained.Has(e.ID) {
		return false
	}
	if t.Filter != nil && !t.Filter(e) {
		return false
	}
	t.contained.Add(e.ID)
	t.uses++

	for _, c := range t.Commands {
		target := e
		if ec, ok := c.(EntityCommand); ok && ec.Target() != "" {
			if target = m.FindByName(ec.Target()); target == nil {
				continue
			}
		}
		c.Run(m, target)
	}
	for _, name := range t.Effects {
		m.SpawnEffect(m.Classes.Effect(name), e.Position, e.Forward)
	}
	event.Emit(m.bus, event.TriggerFired{Trigger: t.Name, EntityID: e.ID, Uses: t.uses, Position: e.Position})
	return true
}

// TryExit forgets e and reports whether it was inside.
func (t *Trigger) TryExit(e *Entity) bool {
	return e != nil && t.contained.Remove(e.ID)
}

// AddTrigger registers a trigger in every sector its region overlaps.
func (m *Map) AddTrigger(t *Trigger) {
	if t.contained.index == nil {
		t.contained = newIDSet()
	}
	m.triggers = append(m.triggers, t)
	m.eachSector(m.GetOverlappingSectors(t.Region), func(s *Sector) {
		s.Triggers = append(s.Triggers, t)
	})
}

// FindTrigger returns the first trigger with the given name, or nil.
func (m *Map) FindTrigger(name string) *Trigger {
	for _, t := range m.triggers {
		if t.Name == name {
			return t
		}
	}
	return nil
}

// UpdateTriggers enters and exits active entities by bounds overlap. Only
// triggers registered in an entity's own sector range are tested.
func (m *Map) UpdateTriggers() {
	if len(m.triggers) == 0 {
		return
	}
	for i := 0; i < len(m.active); i++ {
		e := m.Entity(m.active[i])
		if e == nil || m.ecs.PendingDestroy(e.ID) {
			continue
		}
		touching := m.triggersNear(e)
		for _, t := range touching {
			t.TryEnter(m, e)
		}
		for _, t := range m.triggers {
			if t.contained.Has(e.ID) && !touchingHas(touching, t) {
				t.TryExit(e)
			}
		}
	}
}

func (m *Map) triggersNear(e *Entity) []*Trigger {
	var out []*Trigger
	probe := e.Bounds
	if probe.Empty() {
		probe = geom.RectAround(e.Position, 1e-6, 1e-6)
	}
	m.eachSector(m.GetOverlappingSectors(probe), func(s *Sector) {
		for _, t := range s.Triggers {
			if touchingHas(out, t) || !overlapsRegion(t.Region, e) {
				continue
			}
			out = append(out, t)
		}
	})
	return out
}

func overlapsRegion(r geom.Rect, e *Entity) bool {
	if e.Bounds.Empty() {
		return r.Contains(e.Position)
	}
	return r.Intersects(e.Bounds)
}

func touchingHas(ts []*Trigger, t *Trigger) bool {
	for _, x := range ts {
		if x == t {
			return true
		}
	}
	return false
}
