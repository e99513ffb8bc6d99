package system

import (
	"time"

	coresys "github.com/cobalthex/dyingandmore/internal/core/system"
	"github.com/cobalthex/dyingandmore/internal/world"
)

// PhysicsSystem steps every active entity: state machines, think, then
// movement against tiles and other entities. Phase 2 (Update).
type PhysicsSystem struct {
	m *world.Map
}

func NewPhysicsSystem(m *world.Map) *PhysicsSystem {
	return &PhysicsSystem{m: m}
}

func (s *PhysicsSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *PhysicsSystem) Update(dt time.Duration) {
	s.m.StepEntities(dt)
}

// EffectsSystem advances moving fluids and live particles. Registered after
// PhysicsSystem so effects spawned by this tick's collisions move at once.
// Phase 2 (Update).
type EffectsSystem struct {
	m *world.Map
}

func NewEffectsSystem(m *world.Map) *EffectsSystem {
	return &EffectsSystem{m: m}
}

func (s *EffectsSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *EffectsSystem) Update(dt time.Duration) {
	s.m.StepFluids(dt)
	s.m.StepParticles(dt)
}
