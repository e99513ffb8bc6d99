package system

import (
	"time"

	coresys "github.com/cobalthex/dyingandmore/internal/core/system"
	"github.com/cobalthex/dyingandmore/internal/world"
)

// SettleSystem moves attached children with their parents, then hands
// entities that moved out of the active rectangle back to their sectors.
// Phase 4 (Settle).
type SettleSystem struct {
	m *world.Map
}

func NewSettleSystem(m *world.Map) *SettleSystem {
	return &SettleSystem{m: m}
}

func (s *SettleSystem) Phase() coresys.Phase { return coresys.PhaseSettle }

func (s *SettleSystem) Update(_ time.Duration) {
	s.m.PropagateTransforms()
	s.m.Settle()
}
