package world

import (
	"image/color"
	"time"

	"github.com/cobalthex/dyingandmore/internal/core/event"
	"github.com/cobalthex/dyingandmore/internal/data"
	"github.com/cobalthex/dyingandmore/internal/geom"
)

// Particle is one short-lived visual point. Color, Speed and Scale are
// re-evaluated from the class curves every step.
type Particle struct {
	Class     *data.ParticleClass
	Position  geom.Vec2
	Direction geom.Vec2
	Delay     time.Duration
	Elapsed   time.Duration

	Color color.RGBA
	Speed float64
	Scale float64
}

// Expired reports whether the particle has outlived its delay plus lifetime.
func (p *Particle) Expired() bool {
	return p.Elapsed > p.Class.Lifetime+p.Delay
}

// progress is the normalized age, 0 until the delay passes.
func (p *Particle) progress() float64 {
	age := p.Elapsed - p.Delay
	if age <= 0 {
		return 0
	}
	if p.Class.Lifetime <= 0 {
		return 1
	}
	return min(float64(age)/float64(p.Class.Lifetime), 1)
}

// Effect is the record of one emitted burst.
type Effect struct {
	Class     *data.EffectClass
	Position  geom.Vec2
	Particles int
}

func (fx *Effect) Kind() data.ClassKind { return data.KindEffect }

// Decal is a static decoration stored in the sector under it.
type Decal struct {
	Class    *data.DecalClass
	Position geom.Vec2
	Forward  geom.Vec2
}

func (d *Decal) Kind() data.ClassKind { return data.KindDecal }

// SoundCue is a sound request handed to the audio collaborator.
type SoundCue struct {
	Class    *data.SoundClass
	Position geom.Vec2
}

func (s *SoundCue) Kind() data.ClassKind { return data.KindSound }

// Particles returns the live particles. The slice is owned by the map.
func (m *Map) Particles() []Particle { return m.particles }

// SpawnEffect emits Count particles spread around forward, each with a
// random start delay, and plays the effect's sound. Randomness comes from
// the map's seeded source.
func (m *Map) SpawnEffect(class *data.EffectClass, pos, forward geom.Vec2) *Effect {
	if class == nil {
		return nil
	}
	if forward.IsZero() {
		forward = geom.V(1, 0)
	}
	forward = forward.Normalize()
	fx := &Effect{Class: class, Position: pos}

	if pc := m.Classes.Particle(class.Particle); pc != nil {
		for i := 0; i < class.Count; i++ {
			angle := (m.rng.Float64() - 0.5) * class.Spread
			var delay time.Duration
			if class.MaxDelay > 0 {
				delay = time.Duration(m.rng.Int63n(int64(class.MaxDelay) + 1))
			}
			p := Particle{
				Class:     pc,
				Position:  pos,
				Direction: forward.Rotate(geom.FromAngle(angle)),
				Delay:     delay,
			}
			p.evaluate()
			m.particles = append(m.particles, p)
			fx.Particles++
		}
	}
	if class.Sound != "" {
		m.SpawnSound(m.Classes.Sound(class.Sound), pos)
	}
	return fx
}

func (p *Particle) evaluate() {
	t := p.progress()
	p.Color = p.Class.Color.Eval(t)
	p.Speed = p.Class.Speed.Eval(t, 0)
	p.Scale = p.Class.Scale.Eval(t, 1)
}

// StepParticles ages every particle, removes expired ones and moves the
// rest along their direction once their delay has passed.
func (m *Map) StepParticles(dt time.Duration) {
	secs := dt.Seconds()
	for i := 0; i < len(m.particles); i++ {
		p := &m.particles[i]
		p.Elapsed += dt
		if p.Expired() {
			last := len(m.particles) - 1
			m.particles[i] = m.particles[last]
			m.particles = m.particles[:last]
			i--
			continue
		}
		if p.Elapsed <= p.Delay {
			continue
		}
		p.evaluate()
		p.Position = p.Position.Add(p.Direction.Scale(p.Speed * secs))
	}
}

// SpawnDecal stamps a decal into the sector under pos. Decals outside the
// map, or with a nil class, are not stored.
func (m *Map) SpawnDecal(class *data.DecalClass, pos, forward geom.Vec2) *Decal {
	if class == nil || !m.Def.PixelBounds().Contains(pos) {
		return nil
	}
	d := &Decal{Class: class, Position: pos, Forward: forward}
	s := m.Sector(m.GetOverlappingSector(pos))
	s.Decals = append(s.Decals, d)
	return d
}

// SpawnSound publishes a SoundRequested event. Playback is not the map's
// concern.
func (m *Map) SpawnSound(class *data.SoundClass, pos geom.Vec2) *SoundCue {
	if class == nil {
		return nil
	}
	event.Emit(m.bus, event.SoundRequested{Sound: class.Name, Position: pos})
	return &SoundCue{Class: class, Position: pos}
}
