package system

import (
	"time"

	coresys "github.com/cobalthex/dyingandmore/internal/core/system"
	"github.com/cobalthex/dyingandmore/internal/world"
)

// ActivationSystem recomputes the active rectangle from the view, demotes
// entities that left it and promotes dormant ones it now covers.
// Phase 0 (Activate).
type ActivationSystem struct {
	m *world.Map
}

func NewActivationSystem(m *world.Map) *ActivationSystem {
	return &ActivationSystem{m: m}
}

func (s *ActivationSystem) Phase() coresys.Phase { return coresys.PhaseActivate }

func (s *ActivationSystem) Update(_ time.Duration) {
	s.m.UpdateActive()
}
